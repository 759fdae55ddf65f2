package pipeline

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed personas.yaml
var defaultPersonas []byte

// Persona is the system identity used for one stage.
type Persona struct {
	Role      string `yaml:"role"`
	Goal      string `yaml:"goal"`
	Backstory string `yaml:"backstory"`
}

// SystemPrompt renders the persona as a system message.
func (p Persona) SystemPrompt() string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a %s.\n", p.Role)
	fmt.Fprintf(&b, "Goal: %s\n", p.Goal)
	b.WriteString(strings.TrimSpace(p.Backstory))
	b.WriteString("\nAlways answer with a single JSON object and nothing else.")
	return b.String()
}

// Personas maps every stage to its persona.
type Personas map[StageID]Persona

// DefaultPersonas returns the embedded catalogue.
func DefaultPersonas() Personas {
	p, err := parsePersonas(defaultPersonas)
	if err != nil {
		panic(fmt.Sprintf("embedded personas invalid: %v", err))
	}
	return p
}

// LoadPersonas reads a catalogue from path. An empty path yields the embedded one.
func LoadPersonas(path string) (Personas, error) {
	if path == "" {
		return DefaultPersonas(), nil
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("op=pipeline.LoadPersonas: %w", err)
	}
	// #nosec G304 -- operator supplied configuration file
	content, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("op=pipeline.LoadPersonas: %w", err)
	}
	p, err := parsePersonas(content)
	if err != nil {
		return nil, fmt.Errorf("op=pipeline.LoadPersonas: %s: %w", absPath, err)
	}
	return p, nil
}

func parsePersonas(content []byte) (Personas, error) {
	var raw map[string]Persona
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	out := Personas{}
	for _, id := range Order {
		p, ok := raw[string(id)]
		if !ok || strings.TrimSpace(p.Role) == "" {
			return nil, fmt.Errorf("persona for stage %s missing", id)
		}
		out[id] = p
	}
	return out, nil
}
