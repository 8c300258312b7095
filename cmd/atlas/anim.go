package main

import (
	"image"
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/ha1tch/atlas-toolkit/pkg/view"
)

// Animation lengths in seconds.
const (
	zoomDuration   = 0.15
	centreDuration = 0.35
)

// viewAnim tweens the view towards a target zoom or pan. Zooming keeps the
// map point under anchor fixed on every frame.
type viewAnim struct {
	zoom       *gween.Tween
	base       view.View // view the zoom started from
	anchor     image.Point
	targetZoom float64

	panX, panY *gween.Tween
}

// zoomTo starts a zoom from the current zoom of v to z around anchor.
func zoomTo(v view.View, anchor image.Point, z float64) *viewAnim {
	z = view.ClampZoom(z)
	return &viewAnim{
		zoom:       gween.New(float32(v.Zoom), float32(z), zoomDuration, ease.OutCubic),
		base:       v,
		anchor:     anchor,
		targetZoom: z,
	}
}

// panTo starts a pan from the current pan of v to target.
func panTo(v view.View, target image.Point) *viewAnim {
	return &viewAnim{
		panX: gween.New(float32(v.Pan.X), float32(target.X), centreDuration, ease.InOutQuad),
		panY: gween.New(float32(v.Pan.Y), float32(target.Y), centreDuration, ease.InOutQuad),
	}
}

// step advances the animation by dt seconds and returns the new view.
// done is true once every tween has finished.
func (a *viewAnim) step(v view.View, dt float32) (view.View, bool) {
	done := true
	if a.zoom != nil {
		z, finished := a.zoom.Update(dt)
		target := float64(z)
		if finished {
			target = a.targetZoom
			a.zoom = nil
		} else {
			done = false
		}
		zv := a.base.ZoomAt(a.anchor, target)
		v.Zoom, v.Pan = zv.Zoom, zv.Pan
	}
	if a.panX != nil && a.panY != nil {
		x, doneX := a.panX.Update(dt)
		y, doneY := a.panY.Update(dt)
		v.Pan = image.Pt(int(math.Round(float64(x))), int(math.Round(float64(y))))
		if doneX && doneY {
			a.panX, a.panY = nil, nil
		} else {
			done = false
		}
	}
	return v, done
}
