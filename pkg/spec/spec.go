package spec

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads a project from a YAML file.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project file: %w", err)
	}

	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing project YAML: %w", err)
	}

	return &p, nil
}

// LoadProject loads a project from a project directory.
// It looks for city.yaml in the given directory.
func LoadProject(projectDir string) (*Project, error) {
	specPath := filepath.Join(projectDir, "city.yaml")
	return Load(specPath)
}
