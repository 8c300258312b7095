package main

import (
	"image"
	"math"
	"testing"

	"github.com/ha1tch/atlas-toolkit/pkg/view"
)

func finish(t *testing.T, a *viewAnim, v view.View) view.View {
	t.Helper()
	for i := 0; i < 1000; i++ {
		var done bool
		v, done = a.step(v, 1.0/60)
		if done {
			return v
		}
	}
	t.Fatal("animation never finished")
	return v
}

func TestZoomToKeepsAnchor(t *testing.T) {
	v := view.New(1792, 1024)
	v.Pan = image.Pt(-200, -100)
	anchor := image.Pt(400, 300)
	fixed := v.ViewportToMap(anchor)

	a := zoomTo(v, anchor, 2)
	mid, done := a.step(v, zoomDuration/2)
	if done {
		t.Fatal("finished after half the duration")
	}
	if mid.Zoom <= 1 || mid.Zoom >= 2 {
		t.Errorf("mid zoom = %v, want between 1 and 2", mid.Zoom)
	}

	end := finish(t, a, mid)
	if end.Zoom != 2 {
		t.Errorf("final zoom = %v, want 2", end.Zoom)
	}
	got := end.ViewportToMap(anchor)
	if math.Abs(got.X-fixed.X) > 1 || math.Abs(got.Y-fixed.Y) > 1 {
		t.Errorf("anchor moved from %v to %v", fixed, got)
	}
}

func TestZoomToClamps(t *testing.T) {
	v := view.New(1792, 1024)
	end := finish(t, zoomTo(v, image.Pt(0, 0), 50), v)
	if end.Zoom != view.MaxZoom {
		t.Errorf("zoom = %v, want %v", end.Zoom, view.MaxZoom)
	}
}

func TestPanToReachesTarget(t *testing.T) {
	v := view.New(1792, 1024)
	target := image.Pt(-640, 215)
	a := panTo(v, target)

	mid, _ := a.step(v, centreDuration/2)
	if mid.Pan == v.Pan || mid.Pan == target {
		t.Errorf("mid pan = %v, want strictly between", mid.Pan)
	}
	end := finish(t, a, mid)
	if end.Pan != target {
		t.Errorf("pan = %v, want %v", end.Pan, target)
	}
	if end.Zoom != v.Zoom {
		t.Errorf("pan changed zoom to %v", end.Zoom)
	}
}
