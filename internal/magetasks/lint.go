package magetasks

import (
	"github.com/cockroachdb/errors"
)

var golangciDisabled = "--disable=exhaustruct,varnamelen,ireturn,wrapcheck,nlreturn,gochecknoglobals,mnd,depguard,tagalign"

// LintAll runs all linters. Optional linters that are not installed are
// skipped with a warning.
func LintAll() error {
	var errs []error

	if err := LintFormat(); err != nil {
		errs = append(errs, err)
	}
	if err := LintVet(); err != nil {
		errs = append(errs, err)
	}
	if err := LintStaticcheck(); err != nil && !IsCommandNotFound(err) {
		errs = append(errs, err)
	}
	if err := LintGolangci(); err != nil && !IsCommandNotFound(err) {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	PrintSuccess("All linters passed")
	return nil
}

// LintFormat checks code formatting.
func LintFormat() error {
	return Run("Go Format", "go", "fmt", "./...")
}

// LintVet runs go vet.
func LintVet() error {
	return Run("Go Vet", "go", "vet", "./...")
}

// LintStaticcheck runs staticcheck.
func LintStaticcheck() error {
	return optional(Run("Staticcheck", "staticcheck", "./..."),
		"Staticcheck not found (install: go install honnef.co/go/tools/cmd/staticcheck@latest)")
}

// LintGolangci runs golangci-lint.
func LintGolangci() error {
	return optional(Run("Golangci-lint", "golangci-lint", "run", golangciDisabled, "--timeout=5m", "./..."),
		"Golangci-lint not found (install: go install github.com/golangci/golangci-lint/cmd/golangci-lint@latest)")
}

func optional(err error, missing string) error {
	if IsCommandNotFound(err) {
		PrintWarning(missing)
	}
	return err
}
