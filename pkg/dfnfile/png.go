// Native PNG rendering of region overviews.
// Mirrors the SVG renderer output using Go's image packages.

package dfnfile

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ha1tch/atlas-toolkit/pkg/region"
)

// supersample is the render scale before downsampling.
const supersample = 2

// PNGOptions configures PNG rendering.
type PNGOptions struct {
	Width     int // 0 = derived from Height
	Height    int // 0 = derived from Width
	FontSize  int
	LineWidth int
	Title     string
	Labels    bool
	Hidden    bool // include regions that are not visible
}

// DefaultPNGOptions returns sensible defaults for PNG rendering.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{
		Width:     DefaultOverviewWidth,
		Height:    DefaultOverviewHeight,
		FontSize:  12,
		LineWidth: 1,
		Labels:    true,
	}
}

// renderContext holds rendering parameters including scale
type renderContext struct {
	img       *image.RGBA
	lineWidth int
	face      font.Face
	titleFace font.Face
}

func newRenderContext(img *image.RGBA, fontSize, lineWidth int) (*renderContext, error) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    float64(fontSize * supersample),
		DPI:     72,
		Hinting: font.HintingNone, // supersampled instead
	})
	if err != nil {
		return nil, err
	}
	titleFace, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    float64((fontSize + 4) * supersample),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	return &renderContext{
		img:       img,
		lineWidth: lineWidth * supersample,
		face:      face,
		titleFace: titleFace,
	}, nil
}

// RenderPNG draws the regions over background (or a plain fill when
// background is nil) and encodes the result as PNG.
// Uses supersampling for smoother output.
func RenderPNG(w io.Writer, regions []*region.Region, background image.Image, opts PNGOptions) error {
	img, err := RenderImage(regions, background, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// RenderImage renders the overview without encoding it.
func RenderImage(regions []*region.Region, background image.Image, opts PNGOptions) (*image.RGBA, error) {
	width, height := overviewSize(opts.Width, opts.Height)
	if opts.FontSize <= 0 {
		opts.FontSize = 12
	}
	if opts.LineWidth <= 0 {
		opts.LineWidth = 1
	}

	large := image.NewRGBA(image.Rect(0, 0, width*supersample, height*supersample))
	ctx, err := newRenderContext(large, opts.FontSize, opts.LineWidth)
	if err != nil {
		return nil, err
	}

	if background != nil {
		draw.ApproxBiLinear.Scale(large, large.Bounds(), background, background.Bounds(), draw.Src, nil)
	} else {
		draw.Draw(large, large.Bounds(), image.NewUniform(colorBackground), image.Point{}, draw.Src)
	}

	lw, lh := large.Bounds().Dx(), large.Bounds().Dy()
	for _, r := range regions {
		if !r.Visible && !opts.Hidden {
			continue
		}
		c := RegionColor(r)
		fill := color.NRGBA{c.R, c.G, c.B, 50}
		for _, b := range r.Bounds {
			x, y, rw, rh := overviewRect(b, lw, lh)
			rect := image.Rect(int(x), int(y), int(x+rw), int(y+rh))
			draw.Draw(large, rect, image.NewUniform(fill), image.Point{}, draw.Over)
			strokeRect(ctx, rect, c)
		}
		if opts.Labels && len(r.Bounds) > 0 {
			x, y, _, _ := overviewRect(r.Bounds[0], lw, lh)
			drawLabel(ctx, ctx.face, int(x)+2*supersample, int(y)-2*supersample, r.Name, colorLabel)
		}
	}

	if opts.Title != "" {
		ascent := ctx.titleFace.Metrics().Ascent.Ceil()
		drawLabel(ctx, ctx.titleFace, 8*supersample, 8*supersample+ascent, opts.Title, colorTitle)
	}

	final := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(final, final.Bounds(), large, large.Bounds(), draw.Over, nil)
	return final, nil
}

// strokeRect outlines r with the context's line width, inside its bounds.
func strokeRect(ctx *renderContext, r image.Rectangle, c color.Color) {
	t := ctx.lineWidth
	u := image.NewUniform(c)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+t),
		image.Rect(r.Min.X, r.Max.Y-t, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+t, r.Max.Y),
		image.Rect(r.Max.X-t, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(ctx.img, e.Intersect(r), u, image.Point{}, draw.Src)
	}
}

// drawLabel draws text with its baseline at y. Labels that would start
// above the image are pushed below the baseline instead.
func drawLabel(ctx *renderContext, face font.Face, x, y int, text string, c color.Color) {
	ascent := face.Metrics().Ascent.Ceil()
	if y-ascent < 0 {
		y += ascent + 4*supersample
	}
	d := &font.Drawer{
		Dst:  ctx.img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
