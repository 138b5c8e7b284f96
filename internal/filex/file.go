package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureParentDir creates the directory that will hold path, readable by the
// owner only, and returns it. A bare file name needs no directory.
func EnsureParentDir(path string) (string, error) {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return dir, nil
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return dir, nil
}

// SQLitePath extracts the file path from a SQLite DSN such as
// "file:/var/lib/x.db?_pragma=..." or "x.db".
func SQLitePath(dsn string) string {
	p, _, _ := strings.Cut(dsn, "?")
	return strings.TrimPrefix(p, "file:")
}
