// Package config loads yamori test documents and resolves runtime settings.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/nwiizo/yamori/pkg/yamoritypes"
)

// rawBuild mirrors the on-disk build table.
type rawBuild struct {
	Release          bool     `yaml:"release" toml:"release"`
	PreBuildCommands []string `yaml:"pre_build_commands" toml:"pre_build_commands"`
}

// rawTest mirrors one on-disk test entry.
type rawTest struct {
	Name           string    `yaml:"name" toml:"name"`
	Command        string    `yaml:"command" toml:"command"`
	Args           []string  `yaml:"args" toml:"args"`
	Input          *string   `yaml:"input" toml:"input"`
	ExpectedOutput string    `yaml:"expected_output" toml:"expected_output"`
	TimeoutSecs    *int64    `yaml:"timeout_secs" toml:"timeout_secs"`
	WorkingDir     string    `yaml:"working_dir" toml:"working_dir"`
	Build          *rawBuild `yaml:"build" toml:"build"`
}

type rawDocument struct {
	Tests []rawTest `yaml:"tests" toml:"tests"`
	Build *rawBuild `yaml:"build" toml:"build"`
}

// ValidationError lists every problem found in a document.
type ValidationError struct {
	Path     string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %s", e.Path, strings.Join(e.Problems, "; "))
}

func (b *rawBuild) normalize() *yamoritypes.BuildConfiguration {
	if b == nil {
		return nil
	}
	cfg := yamoritypes.BuildConfiguration{Release: b.Release, PreBuildCommands: b.PreBuildCommands}.Clone()
	return &cfg
}

// normalize validates the raw document and converts it into the engine's
// in-memory form. All problems are collected before returning.
func (d *rawDocument) normalize(path string) (*yamoritypes.Document, error) {
	doc := &yamoritypes.Document{Build: d.Build.normalize()}
	var problems []string
	seen := make(map[string]bool, len(d.Tests))

	for i, rt := range d.Tests {
		label := fmt.Sprintf("tests[%d]", i)
		name := strings.TrimSpace(rt.Name)
		switch {
		case name == "":
			problems = append(problems, label+": name must not be empty")
		case seen[name]:
			problems = append(problems, fmt.Sprintf("%s: duplicate test name %q", label, name))
		default:
			seen[name] = true
			label = fmt.Sprintf("test %q", name)
		}
		if strings.TrimSpace(rt.Command) == "" {
			problems = append(problems, label+": command must not be empty")
		}

		timeout := yamoritypes.DefaultTimeout
		if rt.TimeoutSecs != nil {
			if *rt.TimeoutSecs <= 0 {
				problems = append(problems, label+": timeout_secs must be positive")
			} else {
				timeout = time.Duration(*rt.TimeoutSecs) * time.Second
			}
		}

		args := make([]string, len(rt.Args))
		copy(args, rt.Args)

		doc.Tests = append(doc.Tests, yamoritypes.TestDefinition{
			Name:           name,
			Command:        rt.Command,
			Args:           args,
			Input:          rt.Input,
			ExpectedOutput: rt.ExpectedOutput,
			Timeout:        timeout,
			Build:          rt.Build.normalize(),
			WorkDir:        rt.WorkingDir,
		})
	}

	if len(problems) > 0 {
		return nil, &ValidationError{Path: path, Problems: problems}
	}
	return doc, nil
}
