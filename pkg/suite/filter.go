package suite

import (
	"github.com/gobwas/glob"

	"github.com/devicelab-dev/patrol-runner/pkg/contracts"
	"github.com/devicelab-dev/patrol-runner/pkg/core"
)

// Filter keeps the tests whose qualified name matches any of the glob
// patterns, preserving order. No patterns keeps every test.
// Patterns are compiled without separators, so '*' also spans spaces.
func Filter(tests []contracts.GroupEntry, patterns []string) ([]contracts.GroupEntry, error) {
	if len(patterns) == 0 {
		return tests, nil
	}

	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, core.ErrInvalidConfig.
				WithMessage("invalid test filter pattern").
				WithDetails(map[string]interface{}{"pattern": p}).
				WithCause(err)
		}
		globs = append(globs, g)
	}

	var kept []contracts.GroupEntry
	for _, t := range tests {
		for _, g := range globs {
			if g.Match(t.Name) {
				kept = append(kept, t)
				break
			}
		}
	}
	return kept, nil
}
