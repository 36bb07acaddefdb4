package magetasks

import "github.com/cockroachdb/errors"

// CI runs linters, the race-enabled test suite and the build, stopping at the
// first failing stage.
func CI() error {
	PrintH1Header("dpcheck CI")

	for _, stage := range []struct {
		name string
		run  func() error
	}{
		{"lint", LintAll},
		{"test", TestRace},
		{"build", BuildAll},
	} {
		if err := stage.run(); err != nil {
			return errors.Wrapf(err, "ci %s", stage.name)
		}
	}
	PrintSuccess("CI complete")
	return nil
}
