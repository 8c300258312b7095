// Package mapimage loads map background images and scales them down to a
// size the editors can redraw quickly.
package mapimage

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// DefaultMaxDimension caps the longer side of a loaded map image.
const DefaultMaxDimension = 3000

// Load decodes the image at path and fits it within maxDim.
// PNG, JPEG, GIF and BMP are supported.
func Load(path string, maxDim int) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load map %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := Decode(f, maxDim)
	if err != nil {
		return nil, fmt.Errorf("load map %s: %w", path, err)
	}
	return img, nil
}

// Decode reads an image and fits it within maxDim. It also returns the
// format name reported by the decoder.
func Decode(r io.Reader, maxDim int) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", err
	}
	return Fit(img, maxDim), format, nil
}

// Fit scales img down so its longer side is at most maxDim, keeping the
// aspect ratio. Images already small enough, or a maxDim of zero or less,
// return img unchanged.
func Fit(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return img
	}
	scale := math.Min(float64(maxDim)/float64(w), float64(maxDim)/float64(h))
	nw := max(1, int(math.Round(float64(w)*scale)))
	nh := max(1, int(math.Round(float64(h)*scale)))

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Average returns the mean colour of img over r, sampling at most
// samples×samples points. It is used to colour terminal cells that each
// cover many image pixels.
func Average(img image.Image, r image.Rectangle, samples int) color.RGBA {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return color.RGBA{}
	}
	if samples < 1 {
		samples = 1
	}
	stepX := max(1, r.Dx()/samples)
	stepY := max(1, r.Dy()/samples)

	var sr, sg, sb, n uint32
	for y := r.Min.Y; y < r.Max.Y; y += stepY {
		for x := r.Min.X; x < r.Max.X; x += stepX {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			sr += uint32(c.R)
			sg += uint32(c.G)
			sb += uint32(c.B)
			n++
		}
	}
	return color.RGBA{uint8(sr / n), uint8(sg / n), uint8(sb / n), 255}
}
