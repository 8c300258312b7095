package dfnfile

import (
	"fmt"
	"image/color"
	"io"

	"github.com/ha1tch/atlas-toolkit/pkg/region"
)

// Default overview size: a quarter of the logical map on each axis.
const (
	DefaultOverviewWidth  = region.MapWidth / 4
	DefaultOverviewHeight = region.MapHeight / 4
)

// Colors used in overview rendering
var (
	colorBackground = color.RGBA{30, 34, 40, 255}   // #1e2228
	colorRegion     = color.RGBA{198, 40, 40, 255}  // #c62828
	colorTown       = color.RGBA{46, 125, 50, 255}  // #2e7d32
	colorDungeon    = color.RGBA{106, 27, 154, 255} // #6a1b9a
	colorLabel      = color.RGBA{240, 240, 240, 255}
	colorTitle      = color.RGBA{255, 255, 255, 255}
)

// RegionColor returns the outline colour of a region by group.
func RegionColor(r *region.Region) color.RGBA {
	switch {
	case region.GroupTowns.Matches(r):
		return colorTown
	case region.GroupDungeons.Matches(r):
		return colorDungeon
	}
	return colorRegion
}

// overviewSize fills in a missing dimension, keeping the map aspect ratio.
func overviewSize(w, h int) (int, int) {
	switch {
	case w <= 0 && h <= 0:
		return DefaultOverviewWidth, DefaultOverviewHeight
	case h <= 0:
		return w, w * region.MapHeight / region.MapWidth
	case w <= 0:
		return h * region.MapWidth / region.MapHeight, h
	}
	return w, h
}

// overviewRect scales a map rectangle into a w×h overview.
func overviewRect(b region.Rect, w, h int) (x, y, rw, rh float64) {
	sx := float64(w) / region.MapWidth
	sy := float64(h) / region.MapHeight
	return float64(b.Left) * sx, float64(b.Top) * sy, float64(b.Width()) * sx, float64(b.Height()) * sy
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// errWriter remembers the first write error so renderers built on
// writers without error returns can still report failure.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return len(p), nil
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}
