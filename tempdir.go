package filesort

import (
	"os"

	ferrors "github.com/mvsort/filesort/errors"
)

// newTempDir creates a process-owned scratch directory for run files,
// trying os.TempDir() first and falling back to the current directory if
// that fails — the same two-step search original_source's
// sort_create_tmp_dir performs over TMP_TEMPLATE1 ("/tmp/tmpdir.XXXXXX")
// and TMP_TEMPLATE2 ("tmpdir.XXXXXX"). An explicit override (from
// WithTempDir) skips the search entirely.
func newTempDir(override string) (string, error) {
	if override != "" {
		dir, err := os.MkdirTemp(override, "tmpdir.")
		if err != nil {
			return "", ferrors.ErrTempDirUnavailable
		}
		return dir, nil
	}

	if dir, err := os.MkdirTemp(os.TempDir(), "tmpdir."); err == nil {
		return dir, nil
	}

	dir, err := os.MkdirTemp(".", "tmpdir.")
	if err != nil {
		return "", ferrors.ErrTempDirUnavailable
	}
	return dir, nil
}

// removeTempDir removes dir and everything under it. It is always called
// on every exit path out of Sort, mirroring sort_remove_tmp_dir's
// unconditional nftw() teardown.
func removeTempDir(dir string) error {
	if dir == "" {
		return nil
	}
	return os.RemoveAll(dir)
}
