package dfnfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ha1tch/atlas-toolkit/pkg/region"
)

// IsJSON reports whether path names a JSON region file.
func IsJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// Open reads a region file by extension: .json is the JSON interchange
// format, anything else is DFN.
func Open(path string) (*Result, error) {
	if !IsJSON(path) {
		return ReadFile(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	regions, err := ParseJSON(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return &Result{Regions: regions, Blocks: len(regions)}, nil
}

// Save writes regions to path by extension. Both formats are written
// atomically.
func Save(path string, regions []*region.Region, pretty bool) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err := ToJSON(regions, pretty)
		if err != nil {
			return fmt.Errorf("save %s: %w", path, err)
		}
		return writeAtomic(path, append(data, '\n'))
	case ".dfn", "":
		return WriteFile(path, regions)
	}
	return fmt.Errorf("unknown output format: %s", filepath.Ext(path))
}
