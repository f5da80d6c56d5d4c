package processor

import (
	"io/fs"
	"os"
	"path/filepath"

	"chanfix/pkg/mediautil"
)

// Discover walks root and returns every regular file with a supported video
// extension, in traversal order. The whole tree is walked before returning.
// A file root is returned on its own when its extension qualifies.
func Discover(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if mediautil.IsVideo(root) {
			return []string{root}, nil
		}
		return nil, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if mediautil.IsVideo(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
