package conformance

// ScenarioFile represents a single YAML fixture file: a named group of
// end-to-end scenarios exercising the language as a whole (parser,
// compiler, VM, and native libraries together), mirroring the
// suite/test-case split of the teacher's own conformance fixtures.
type ScenarioFile struct {
	Name      string     `yaml:"name"`
	Scenarios []Scenario `yaml:"scenarios"`
}

// Scenario is one end-to-end case: a complete program plus the
// top-level bindings it is expected to leave behind once run.
type Scenario struct {
	Name        string                 `yaml:"name"`
	Description string                 `yaml:"description,omitempty"`
	Files       []FileFixture          `yaml:"files,omitempty"`
	Program     string                 `yaml:"program"`
	Permissive  bool                   `yaml:"permissive,omitempty"`
	Expect      map[string]interface{} `yaml:"expect"`
	Cleanup     []string               `yaml:"cleanup,omitempty"`
}

// FileFixture is written to disk before a scenario runs, for cases
// that exercise the file library's read side.
type FileFixture struct {
	Path    string `yaml:"path"`
	Content string `yaml:"content"`
}
