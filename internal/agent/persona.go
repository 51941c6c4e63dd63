package agent

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed personas.yaml
var defaultPersonas []byte

// Personas maps every agent id to its persona.
type Personas map[ID]Persona

type personaFile struct {
	Agents []Persona `yaml:"agents"`
}

// LoadPersonas returns the built-in personas, overridden entry by entry by the
// file at path when path is non-empty.
func LoadPersonas(path string) (Personas, error) {
	personas, err := parsePersonas(defaultPersonas)
	if err != nil {
		return nil, fmt.Errorf("built-in personas: %w", err)
	}

	if path == "" {
		return personas, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading persona file: %w", err)
	}
	overrides, err := parsePersonas(data)
	if err != nil {
		return nil, fmt.Errorf("persona file %s: %w", path, err)
	}

	for id, p := range overrides {
		base := personas[id]
		if p.System != "" {
			base.System = p.System
		}
		personas[id] = base
	}
	return personas, nil
}

func parsePersonas(data []byte) (Personas, error) {
	var f personaFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	personas := make(Personas, len(f.Agents))
	for _, p := range f.Agents {
		id, err := ParseID(string(p.ID))
		if err != nil {
			return nil, err
		}
		p.ID = id
		// Display names are part of the frame contract.
		p.Name = id.Name()
		personas[id] = p
	}
	return personas, nil
}
