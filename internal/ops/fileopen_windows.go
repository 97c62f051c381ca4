//go:build windows

package ops

import (
	"os"
)

// openFileNoFollow opens a file for writing. Windows does not support O_NOFOLLOW;
// symlink files are rejected earlier by ValidateExportPath via Lstat.
func openFileNoFollow(path string, flag int, perm os.FileMode) (*os.File, error) {
	return os.OpenFile(path, flag, perm)
}
