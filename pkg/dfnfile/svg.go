package dfnfile

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/ha1tch/atlas-toolkit/pkg/region"
)

// SVGOptions controls SVG overview rendering.
type SVGOptions struct {
	Width      int    // canvas width in pixels (0 = derived from Height)
	Height     int    // canvas height in pixels (0 = derived from Width)
	Title      string // drawn top-left when set
	FontSize   int    // label font size
	Background string // optional href of a map image drawn under the regions
	Labels     bool   // draw region names
	Hidden     bool   // include regions that are not visible
}

// DefaultSVGOptions returns sensible defaults.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Width:    DefaultOverviewWidth,
		Height:   DefaultOverviewHeight,
		FontSize: 12,
		Labels:   true,
	}
}

// RenderSVG draws the regions over the map area as an SVG document.
func RenderSVG(w io.Writer, regions []*region.Region, opts SVGOptions) error {
	width, height := overviewSize(opts.Width, opts.Height)
	if opts.FontSize <= 0 {
		opts.FontSize = 12
	}

	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(width, height)
	if opts.Title != "" {
		canvas.Title(opts.Title)
	}

	if opts.Background != "" {
		canvas.Image(0, 0, width, height, opts.Background)
	} else {
		canvas.Rect(0, 0, width, height, "fill:"+hexColor(colorBackground))
	}

	for i, r := range regions {
		if !r.Visible && !opts.Hidden {
			continue
		}
		c := hexColor(RegionColor(r))
		canvas.Gid(fmt.Sprintf("region-%d", i+1))
		for _, b := range r.Bounds {
			x, y, rw, rh := overviewRect(b, width, height)
			canvas.Rect(int(x), int(y), int(rw), int(rh),
				fmt.Sprintf("fill:%s;fill-opacity:0.2;stroke:%s;stroke-width:1", c, c))
		}
		if opts.Labels && len(r.Bounds) > 0 {
			x, y, _, _ := overviewRect(r.Bounds[0], width, height)
			ty := int(y) - 2
			if ty < opts.FontSize {
				ty = int(y) + opts.FontSize
			}
			canvas.Text(int(x)+2, ty, r.Name,
				fmt.Sprintf("font-family:sans-serif;font-size:%dpx;fill:%s", opts.FontSize, hexColor(colorLabel)))
		}
		canvas.Gend()
	}

	if opts.Title != "" {
		canvas.Text(8, opts.FontSize+8, opts.Title,
			fmt.Sprintf("font-family:sans-serif;font-size:%dpx;font-weight:bold;fill:%s", opts.FontSize+4, hexColor(colorTitle)))
	}

	canvas.End()
	return ew.err
}
