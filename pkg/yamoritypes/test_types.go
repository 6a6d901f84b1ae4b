// Package yamoritypes defines the core data types shared by the yamori execution
// engine, history store and presentation layer.
package yamoritypes

import "time"

// DefaultTimeout applies to tests that declare no timeout_secs.
const DefaultTimeout = 5 * time.Second

// BuildConfiguration holds the release flag and the pre-build shell commands
// for either the whole document or a single test.
type BuildConfiguration struct {
	Release          bool
	PreBuildCommands []string
}

// Clone returns a deep copy so callers never share the command slice.
func (b BuildConfiguration) Clone() BuildConfiguration {
	cmds := make([]string, len(b.PreBuildCommands))
	copy(cmds, b.PreBuildCommands)
	return BuildConfiguration{Release: b.Release, PreBuildCommands: cmds}
}

// TestDefinition is one declared test case. It is read-only once loaded.
type TestDefinition struct {
	Name           string
	Command        string
	Args           []string
	Input          *string
	ExpectedOutput string
	Timeout        time.Duration
	Build          *BuildConfiguration
	// WorkDir is optional; empty means the process working directory.
	WorkDir string
}

// EffectiveTimeout returns the declared timeout or DefaultTimeout.
func (t TestDefinition) EffectiveTimeout() time.Duration {
	if t.Timeout <= 0 {
		return DefaultTimeout
	}
	return t.Timeout
}

// Document is the normalized configuration handed to the engine.
type Document struct {
	Tests []TestDefinition
	Build *BuildConfiguration
}

// Find returns the test with the given name.
func (d *Document) Find(name string) (TestDefinition, bool) {
	for _, t := range d.Tests {
		if t.Name == name {
			return t, true
		}
	}
	return TestDefinition{}, false
}
