package exam

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// DirSource reads <root>/<folder>/part<N>.csv (or .xlsx) from disk.
type DirSource struct {
	root string
}

// NewDirSource creates a source rooted at dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{root: dir}
}

func (s *DirSource) Fetch(_ context.Context, folderName string, partNumber int) (Resource, error) {
	if !validFolderName(folderName) {
		return Resource{}, fmt.Errorf("invalid folder name: %q", folderName)
	}
	for _, f := range formats {
		path := filepath.Join(s.root, folderName, partFile(partNumber, f))
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Resource{}, fmt.Errorf("read %s: %w", path, err)
		}
		return Resource{Data: data, Format: f}, nil
	}
	return Resource{}, ErrNotFound
}

// Folders reads catalog.yaml when present, otherwise lists the sub-directories of the
// root in name order.
func (s *DirSource) Folders(_ context.Context) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(s.root, CatalogFile))
	if err == nil {
		return parseCatalog(data)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	entries, err := os.ReadDir(s.root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.root, err)
	}

	var folders []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			folders = append(folders, e.Name())
		}
	}
	slices.Sort(folders)
	return folders, nil
}

func validFolderName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}
