package magetasks

import (
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/magefile/mage/sh"
)

// IsCommandNotFound checks if the error indicates the command was not found.
// This handles exec.ErrNotFound and platform-specific string fallbacks.
func IsCommandNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, exec.ErrNotFound) {
		return true
	}
	// Fallback string matching for edge cases
	errStr := err.Error()
	return strings.Contains(errStr, "executable file not found") ||
		strings.Contains(errStr, "no such file or directory")
}

// Run prints a step header and runs cmd with its output attached.
func Run(step, cmd string, args ...string) error {
	PrintH2Header(step)
	if err := sh.RunV(cmd, args...); err != nil {
		return errors.Wrapf(err, "%s", step)
	}
	return nil
}
