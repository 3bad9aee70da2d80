package catalog

import (
	"os"
	"path/filepath"
)

const catalogFileName = "catalog.json"

// SearchPaths returns catalog file locations in precedence order.
func SearchPaths(projectDir string) []string {
	paths := make([]string, 0, 3)
	if projectDir != "" {
		paths = append(paths, filepath.Join(projectDir, ".mailassist", catalogFileName))
	}

	if home, err := os.UserHomeDir(); err == nil && home != "" {
		paths = append(paths, filepath.Join(home, ".config", "mailassist", catalogFileName))
	}

	paths = append(paths, filepath.Join(string(filepath.Separator), "usr", "share", "mailassist", catalogFileName))
	return paths
}

// LoadFromSearchPaths loads the first catalog found on the search paths.
// The builtin catalog is used when none exists.
func LoadFromSearchPaths(projectDir string) (*Catalog, error) {
	for _, path := range SearchPaths(projectDir) {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, &LoadError{Source: path, Err: err}
		}
		if info.IsDir() {
			continue
		}
		return LoadFile(path)
	}

	return LoadBuiltin()
}
