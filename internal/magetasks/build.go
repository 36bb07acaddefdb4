package magetasks

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/magefile/mage/sh"
)

// BuildAll builds the dpcheck binary with version information.
func BuildAll() error {
	PrintH2Header("Build")

	ldflags := LDFlags(getGitVersion(), getGitCommit(), time.Now().UTC().Format(time.RFC3339))
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", BinPath, MainPackage); err != nil {
		PrintError("Build failed")
		return errors.Wrap(err, "go build")
	}

	PrintSuccess(fmt.Sprintf("Built: %s", BinPath))
	return nil
}

// LDFlags returns the linker flags that stamp internal/version.
func LDFlags(version, commit, date string) string {
	pkg := ModulePath + "/internal/version"
	return fmt.Sprintf("-s -w -X '%s.Version=%s' -X '%s.CommitHash=%s' -X '%s.BuildDate=%s'",
		pkg, version, pkg, commit, pkg, date)
}

// Clean removes build artifacts.
func Clean() error {
	PrintH2Header("Clean")

	if err := os.RemoveAll("./bin"); err != nil {
		return errors.Wrap(err, "remove bin")
	}
	if err := os.Remove("coverage.out"); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "remove coverage.out")
	}
	if err := sh.Run("go", "clean", "-testcache"); err != nil {
		return errors.Wrap(err, "go clean")
	}

	PrintSuccess("Cleaned build artifacts")
	return nil
}

func getGitVersion() string {
	out, err := sh.Output("git", "describe", "--tags", "--always", "--dirty", "--match=v*")
	if err != nil {
		return "dev"
	}
	return strings.TrimSpace(out)
}

func getGitCommit() string {
	out, err := sh.Output("git", "rev-parse", "--short", "HEAD")
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(out)
}
