//go:build !windows

package files

// Reparse points only exist on NTFS; Lstat covers symlinks elsewhere.
func isReparsePoint(string) (bool, error) {
	return false, nil
}
