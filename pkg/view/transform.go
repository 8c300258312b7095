// Package view maps between logical map space and viewport pixels and
// resolves pointer positions against regions and resize handles.
//
// A View is a plain value: every function takes the zoom, pan and image size
// explicitly, so nothing here holds state between calls.
package view

import (
	"image"
	"math"

	"github.com/ha1tch/atlas-toolkit/pkg/region"
)

// Zoom limits and the step used by zoom buttons and the mouse wheel.
const (
	MinZoom  = 0.1
	MaxZoom  = 5.0
	ZoomStep = 0.1
)

// PointF is a point in logical map space.
type PointF struct {
	X, Y float64
}

// View describes how the map image is shown in the viewport.
type View struct {
	ImageWidth  int         // map image width in pixels
	ImageHeight int         // map image height in pixels
	Zoom        float64     // clamped to [MinZoom, MaxZoom]
	Pan         image.Point // viewport offset of the image origin
}

// New returns an unzoomed, unpanned view of an image.
func New(imageWidth, imageHeight int) View {
	return View{ImageWidth: imageWidth, ImageHeight: imageHeight, Zoom: 1.0}
}

// ClampZoom restricts z to [MinZoom, MaxZoom].
func ClampZoom(z float64) float64 {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}

// StepZoom moves z by steps increments of ZoomStep, rounded to one decimal
// and clamped.
func StepZoom(z float64, steps int) float64 {
	z = math.Round((z+float64(steps)*ZoomStep)*10) / 10
	return ClampZoom(z)
}

// scale returns map-unit to viewport-pixel factors for each axis.
func (v View) scale() (float64, float64) {
	z := ClampZoom(v.Zoom)
	sx := float64(v.ImageWidth) / region.MapWidth * z
	sy := float64(v.ImageHeight) / region.MapHeight * z
	return sx, sy
}

// Valid reports whether the view has an image to map onto.
func (v View) Valid() bool {
	return v.ImageWidth > 0 && v.ImageHeight > 0
}

// MapToViewport converts a map point to viewport pixels.
func (v View) MapToViewport(p PointF) PointF {
	sx, sy := v.scale()
	return PointF{
		X: p.X*sx + float64(v.Pan.X),
		Y: p.Y*sy + float64(v.Pan.Y),
	}
}

// ViewportToMap converts a viewport pixel to a map point. It undoes the pan,
// then the zoom, then the image-to-map scale. Without an image it returns
// the origin.
func (v View) ViewportToMap(p image.Point) PointF {
	if !v.Valid() {
		return PointF{}
	}
	z := ClampZoom(v.Zoom)
	return PointF{
		X: float64(p.X-v.Pan.X) / z * region.MapWidth / float64(v.ImageWidth),
		Y: float64(p.Y-v.Pan.Y) / z * region.MapHeight / float64(v.ImageHeight),
	}
}

// MapRectToViewport converts a map rectangle to a viewport rectangle.
// Coordinates and sizes are truncated to whole pixels.
func (v View) MapRectToViewport(r region.Rect) image.Rectangle {
	if !v.Valid() {
		return image.Rectangle{}
	}
	sx, sy := v.scale()
	x := int(float64(r.Left)*sx + float64(v.Pan.X))
	y := int(float64(r.Top)*sy + float64(v.Pan.Y))
	w := int(float64(r.Width()) * sx)
	h := int(float64(r.Height()) * sy)
	return image.Rect(x, y, x+w, y+h)
}

// ZoomAt returns the view zoomed to z while keeping the map point under
// anchor fixed in the viewport.
func (v View) ZoomAt(anchor image.Point, z float64) View {
	if !v.Valid() {
		v.Zoom = ClampZoom(z)
		return v
	}
	fixed := v.ViewportToMap(anchor)
	v.Zoom = ClampZoom(z)
	sx, sy := v.scale()
	v.Pan = image.Pt(
		int(math.Round(float64(anchor.X)-fixed.X*sx)),
		int(math.Round(float64(anchor.Y)-fixed.Y*sy)),
	)
	return v
}

// CenterOn returns the view panned so that map point p sits in the middle
// of a viewport of the given size.
func (v View) CenterOn(p PointF, viewportW, viewportH int) View {
	sx, sy := v.scale()
	v.Pan = image.Pt(
		int(math.Round(float64(viewportW)/2-p.X*sx)),
		int(math.Round(float64(viewportH)/2-p.Y*sy)),
	)
	return v
}

// Translate returns the view with the pan moved by d viewport pixels.
func (v View) Translate(d image.Point) View {
	v.Pan = v.Pan.Add(d)
	return v
}
