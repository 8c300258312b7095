package main

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/ha1tch/atlas-toolkit/pkg/dfnfile"
	"github.com/ha1tch/atlas-toolkit/pkg/region"
)

// renderOverview writes an overview of the visible regions to path as PNG
// or SVG by extension. bg is drawn under PNG output; the SVG links to
// mapPath instead.
func renderOverview(path string, regions []*region.Region, bg image.Image, mapPath string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".png" && ext != ".svg" {
		return fmt.Errorf("unknown output format: %s", filepath.Ext(path))
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if ext == ".svg" {
		opts := dfnfile.DefaultSVGOptions()
		opts.Background = mapPath
		err = dfnfile.RenderSVG(f, regions, opts)
	} else {
		err = dfnfile.RenderPNG(f, regions, bg, dfnfile.DefaultPNGOptions())
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	return nil
}
