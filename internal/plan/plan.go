package plan

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
)

// Kind identifies the type of a bootstrap directive.
type Kind string

// Directive kinds accepted in a plan file.
const (
	KindCreateRole       Kind = "create_role"
	KindCreateDatabase   Kind = "create_database"
	KindGrantAll         Kind = "grant_all"
	KindSwitchConnection Kind = "switch_connection"
	KindEnableCapability Kind = "enable_capability"
)

// Directive is a single declarative setup instruction. Which fields are
// required depends on Kind; Validate enforces the per-kind contract.
type Directive struct {
	Kind        Kind   `yaml:"kind"`
	Name        string `yaml:"name,omitempty"`
	Password    string `yaml:"password,omitempty"`
	PasswordEnv string `yaml:"password_env,omitempty"`
	Superuser   bool   `yaml:"superuser,omitempty"`
	Owner       string `yaml:"owner,omitempty"`
	Database    string `yaml:"database,omitempty"`
	Role        string `yaml:"role,omitempty"`
}

// Plan is an ordered list of directives loaded from a plan file.
// Order is semantic: later directives depend on entities created by
// earlier ones and must never be re-sorted.
type Plan struct {
	Directives []Directive
	Checksum   string // SHA-256 hex digest of the raw plan file
	FilePath   string
}

// Target returns the entity a directive acts on, for display and audit.
func (d *Directive) Target() string {
	switch d.Kind {
	case KindGrantAll:
		return d.Database
	case KindSwitchConnection:
		return d.Database
	case KindCreateRole, KindCreateDatabase, KindEnableCapability:
		return d.Name
	default:
		return ""
	}
}

// ResolvePassword returns the role password, reading it from the
// environment when password_env is set. password_env takes precedence
// over a literal password.
func (d *Directive) ResolvePassword() (string, error) {
	if d.PasswordEnv != "" {
		v, ok := os.LookupEnv(d.PasswordEnv)
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrPasswordEnvUnset, d.PasswordEnv)
		}

		return v, nil
	}

	return d.Password, nil
}

// Validate checks that the directive carries the fields its kind requires.
func (d *Directive) Validate() error {
	switch d.Kind {
	case KindCreateRole:
		if d.Name == "" {
			return fmt.Errorf("%w: create_role requires name", ErrInvalidDirective)
		}

		if d.Password == "" && d.PasswordEnv == "" {
			return fmt.Errorf("%w: create_role %q requires password or password_env", ErrInvalidDirective, d.Name)
		}
	case KindCreateDatabase:
		if d.Name == "" {
			return fmt.Errorf("%w: create_database requires name", ErrInvalidDirective)
		}

		if d.Owner == "" {
			return fmt.Errorf("%w: create_database %q requires owner", ErrInvalidDirective, d.Name)
		}
	case KindGrantAll:
		if d.Database == "" || d.Role == "" {
			return fmt.Errorf("%w: grant_all requires database and role", ErrInvalidDirective)
		}
	case KindSwitchConnection:
		if d.Database == "" {
			return fmt.Errorf("%w: switch_connection requires database", ErrInvalidDirective)
		}
	case KindEnableCapability:
		if d.Name == "" {
			return fmt.Errorf("%w: enable_capability requires name", ErrInvalidDirective)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, d.Kind)
	}

	return nil
}

// ComputeChecksum returns the SHA-256 hex digest of the raw plan bytes.
func ComputeChecksum(data []byte) string {
	h := sha256.Sum256(data)

	return hex.EncodeToString(h[:])
}
