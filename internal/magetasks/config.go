package magetasks

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

var (
	// ModulePath is the Go module path.
	ModulePath = "github.com/dkoosis/dpcheck"

	// MainPackage is the package built into the binary.
	MainPackage = "./cmd/dpcheck"

	// BinPath is the output path for built binaries.
	BinPath = "./bin/dpcheck"

	// ProjectRoot is the root directory of the project.
	ProjectRoot string
)

// Initialize sets up the magetasks package.
// Call this from the Magefile init() function.
func Initialize() error {
	var err error
	ProjectRoot, err = os.Getwd()
	if err != nil {
		return errors.Wrap(err, "working directory")
	}

	binDir := filepath.Join(ProjectRoot, "bin")
	if err := os.MkdirAll(binDir, 0o750); err != nil {
		return errors.Wrapf(err, "create %s", binDir)
	}
	return nil
}
