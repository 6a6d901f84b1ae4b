// Package build resolves the effective build configuration for a test.
package build

import (
	"github.com/nwiizo/yamori/pkg/stringprocessing"
	"github.com/nwiizo/yamori/pkg/yamoritypes"
)

// Effective is the build configuration actually used for one test run.
type Effective struct {
	Release          bool
	PreBuildCommands []string
	Source           yamoritypes.BuildSource
}

// Resolve picks the per-test configuration when present, otherwise the
// global one, otherwise the zero default. Fields are never merged between
// scopes, and the result never aliases the inputs' slices.
func Resolve(test yamoritypes.TestDefinition, global *yamoritypes.BuildConfiguration) Effective {
	switch {
	case test.Build != nil:
		return fromConfig(*test.Build, yamoritypes.BuildSourceTest)
	case global != nil:
		return fromConfig(*global, yamoritypes.BuildSourceGlobal)
	default:
		return Effective{PreBuildCommands: []string{}, Source: yamoritypes.BuildSourceDefault}
	}
}

func fromConfig(cfg yamoritypes.BuildConfiguration, src yamoritypes.BuildSource) Effective {
	c := cfg.Clone()
	return Effective{Release: c.Release, PreBuildCommands: c.PreBuildCommands, Source: src}
}

// Commands returns the pre-build commands with release templates expanded.
func (e Effective) Commands() []string {
	return stringprocessing.ExpandReleaseTemplates(e.PreBuildCommands, e.Release)
}

// Args returns args with release templates expanded for this build mode.
func (e Effective) Args(args []string) []string {
	return stringprocessing.ExpandReleaseTemplates(args, e.Release)
}

// WithReleaseOverride returns a copy of global whose release flag is set to
// release. A nil global becomes an empty configuration so the override still
// applies to tests without their own build section.
func WithReleaseOverride(global *yamoritypes.BuildConfiguration, release bool) *yamoritypes.BuildConfiguration {
	var cfg yamoritypes.BuildConfiguration
	if global != nil {
		cfg = global.Clone()
	} else {
		cfg.PreBuildCommands = []string{}
	}
	cfg.Release = release
	return &cfg
}
