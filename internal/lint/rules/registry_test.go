package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqasim81/database-bootstrap-engine/internal/lint/rules"
)

func TestNewDefaultRegistry_containsAllRules(t *testing.T) {
	t.Parallel()

	reg := rules.NewDefaultRegistry()
	all := reg.Rules()

	require.Len(t, all, 5)

	ids := make(map[string]bool, len(all))
	for _, r := range all {
		ids[r.ID()] = true
	}

	assert.True(t, ids["undefined-reference"])
	assert.True(t, ids["duplicate-create"])
	assert.True(t, ids["weak-password"])
	assert.True(t, ids["superuser-role"])
	assert.True(t, ids["capability-without-switch"])
}

func TestNewDefaultRegistry_uniqueIDs(t *testing.T) {
	t.Parallel()

	reg := rules.NewDefaultRegistry()

	seen := make(map[string]bool)
	for _, r := range reg.Rules() {
		assert.False(t, seen[r.ID()], "duplicate rule ID %s", r.ID())
		seen[r.ID()] = true
	}
}
