package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ha1tch/atlas-toolkit/pkg/region"
)

func testRegions() []*region.Region {
	r := region.New("Britain")
	r.SetTag("NAME", "Britain")
	r.AddRect(region.NewRect(400, 400, 2000, 1200))
	h := region.New("Hidden")
	h.AddRect(region.NewRect(3000, 3000, 3400, 3400))
	h.Visible = false
	return []*region.Region{r, h}
}

func TestRenderOverviewPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.PNG")
	bg := image.NewUniform(color.RGBA{10, 60, 10, 255})
	if err := renderOverview(path, testRegions(), bg, ""); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() == 0 || img.Bounds().Dy() == 0 {
		t.Errorf("empty image %v", img.Bounds())
	}
}

func TestRenderOverviewSVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.svg")
	if err := renderOverview(path, testRegions(), nil, "world.png"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		t.Fatal("output is not SVG")
	}
	if !bytes.Contains(data, []byte("world.png")) {
		t.Error("background image not referenced")
	}
	if !bytes.Contains(data, []byte("Britain")) {
		t.Error("visible region label missing")
	}
	if bytes.Contains(data, []byte("Hidden")) {
		t.Error("hidden region exported")
	}
}

func TestRenderOverviewUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.gif")
	err := renderOverview(path, testRegions(), nil, "")
	if err == nil || !strings.Contains(err.Error(), "unknown output format") {
		t.Fatalf("err = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file created for unknown format")
	}
}
