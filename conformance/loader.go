package conformance

import (
	"os"

	"gopkg.in/yaml.v3"
)

// LoadScenarios reads and parses a single YAML fixture file.
func LoadScenarios(path string) ([]Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file ScenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	return file.Scenarios, nil
}
