package exam

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNotFound means the requested part file or catalogue does not exist. Folders that
// lack a part are normal, so loaders treat this as empty data.
var ErrNotFound = errors.New("resource not found")

// Format identifies how a part file is encoded.
type Format int

const (
	FormatCSV Format = iota
	FormatXLSX
)

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatXLSX:
		return "xlsx"
	default:
		return "unknown"
	}
}

// formats is the lookup order for part files.
var formats = []Format{FormatCSV, FormatXLSX}

// Resource is a raw part file.
type Resource struct {
	Data   []byte
	Format Format
}

// Source fetches raw question files addressed by (folder, part).
type Source interface {
	// Fetch returns the part file or ErrNotFound.
	Fetch(ctx context.Context, folderName string, partNumber int) (Resource, error)
	// Folders lists the available exam sittings or returns ErrNotFound when the
	// source has no catalogue.
	Folders(ctx context.Context) ([]string, error)
}

// CatalogFile is the optional folder catalogue at the root of a source.
const CatalogFile = "catalog.yaml"

// Catalog lists exam sittings in display order.
type Catalog struct {
	Folders []string `yaml:"folders"`
}

func parseCatalog(data []byte) ([]string, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	folders := make([]string, 0, len(c.Folders))
	for _, f := range c.Folders {
		if f = strings.TrimSpace(f); f != "" {
			folders = append(folders, f)
		}
	}
	return folders, nil
}

func partFile(partNumber int, f Format) string {
	return fmt.Sprintf("part%d.%s", partNumber, f)
}
