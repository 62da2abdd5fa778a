package plan

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// planFile is the raw YAML representation of a plan file.
type planFile struct {
	Directives []Directive `yaml:"directives"`
}

// LoadFromFile reads and validates a YAML plan file. Directives are kept
// in file order. Returns ErrEmptyPlan if the file declares no directives.
func LoadFromFile(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plan file %s: %w", path, err)
	}

	var raw planFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing plan file %s: %w", path, err)
	}

	if len(raw.Directives) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyPlan)
	}

	for i := range raw.Directives {
		if err := raw.Directives[i].Validate(); err != nil {
			return nil, fmt.Errorf("plan file %s, directive %d: %w", path, i+1, err)
		}
	}

	return &Plan{
		Directives: raw.Directives,
		Checksum:   ComputeChecksum(data),
		FilePath:   path,
	}, nil
}
