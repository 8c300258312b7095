package view

import (
	"image"
	"math"
	"testing"

	"github.com/ha1tch/atlas-toolkit/pkg/region"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestViewportToMap(t *testing.T) {
	v := View{ImageWidth: 1000, ImageHeight: 572, Zoom: 2, Pan: image.Pt(50, 50)}
	got := v.ViewportToMap(image.Pt(50, 50))
	if !near(got.X, 0) || !near(got.Y, 0) {
		t.Errorf("ViewportToMap(50,50) = %+v, want origin", got)
	}

	got = v.ViewportToMap(image.Pt(1050, 622))
	if !near(got.X, region.MapWidth/2) || !near(got.Y, region.MapHeight/2) {
		t.Errorf("ViewportToMap(1050,622) = %+v, want map centre", got)
	}
}

func TestRoundTrip(t *testing.T) {
	views := []View{
		{ImageWidth: 1000, ImageHeight: 572, Zoom: 2, Pan: image.Pt(50, 50)},
		{ImageWidth: 3000, ImageHeight: 1714, Zoom: 0.3, Pan: image.Pt(-120, 7)},
		{ImageWidth: 7168, ImageHeight: 4096, Zoom: 1, Pan: image.Pt(0, 0)},
	}
	for _, v := range views {
		for _, p := range []image.Point{{0, 0}, {123, 456}, {-40, 900}} {
			m := v.ViewportToMap(p)
			back := v.MapToViewport(m)
			if !near(back.X, float64(p.X)) || !near(back.Y, float64(p.Y)) {
				t.Errorf("%+v: %v -> %+v -> %+v", v, p, m, back)
			}
		}
	}
}

func TestNoImage(t *testing.T) {
	v := View{Zoom: 1}
	if got := v.ViewportToMap(image.Pt(10, 10)); got != (PointF{}) {
		t.Errorf("ViewportToMap without image = %+v", got)
	}
	if got := v.MapRectToViewport(region.NewRect(0, 0, 10, 10)); got != (image.Rectangle{}) {
		t.Errorf("MapRectToViewport without image = %v", got)
	}
}

func TestMapRectToViewportTruncates(t *testing.T) {
	v := View{ImageWidth: 1792, ImageHeight: 1024, Zoom: 1}
	// scale is 0.25 on both axes
	got := v.MapRectToViewport(region.NewRect(10, 10, 23, 23))
	want := image.Rect(2, 2, 5, 5)
	if got != want {
		t.Errorf("MapRectToViewport = %v, want %v", got, want)
	}
}

func TestClampAndStep(t *testing.T) {
	tests := []struct {
		z     float64
		steps int
		want  float64
	}{
		{1.0, 1, 1.1},
		{1.0, -1, 0.9},
		{0.1, -1, 0.1},
		{5.0, 1, 5.0},
		{0.2, -5, 0.1},
	}
	for _, tt := range tests {
		if got := StepZoom(tt.z, tt.steps); !near(got, tt.want) {
			t.Errorf("StepZoom(%v, %d) = %v, want %v", tt.z, tt.steps, got, tt.want)
		}
	}
	if ClampZoom(0) != MinZoom || ClampZoom(99) != MaxZoom {
		t.Error("ClampZoom bounds")
	}
}

func TestZoomAtKeepsAnchor(t *testing.T) {
	v := View{ImageWidth: 1792, ImageHeight: 1024, Zoom: 1, Pan: image.Pt(30, 40)}
	anchor := image.Pt(400, 300)
	before := v.ViewportToMap(anchor)
	z := v.ZoomAt(anchor, 2.5)
	if z.Zoom != 2.5 {
		t.Fatalf("Zoom = %v", z.Zoom)
	}
	after := z.MapToViewport(before)
	if math.Abs(after.X-400) > 1 || math.Abs(after.Y-300) > 1 {
		t.Errorf("anchor drifted to %+v", after)
	}
}

func TestCenterOn(t *testing.T) {
	v := New(1792, 1024)
	c := v.CenterOn(PointF{X: 3584, Y: 2048}, 800, 600)
	got := c.MapToViewport(PointF{X: 3584, Y: 2048})
	if !near(got.X, 400) || !near(got.Y, 300) {
		t.Errorf("centre maps to %+v", got)
	}
}

func TestHandleAt(t *testing.T) {
	r := image.Rect(100, 100, 200, 150)
	tests := []struct {
		p    image.Point
		want Handle
	}{
		{image.Pt(100, 100), HandleTopLeft},
		{image.Pt(97, 97), HandleTopLeft},
		{image.Pt(103, 103), HandleNone},
		{image.Pt(201, 99), HandleTopRight},
		{image.Pt(99, 151), HandleBottomLeft},
		{image.Pt(202, 152), HandleBottomRight},
		{image.Pt(150, 125), HandleNone},
	}
	for _, tt := range tests {
		if got := HandleAt(r, tt.p); got != tt.want {
			t.Errorf("HandleAt(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestResolveOverlapFirstWins(t *testing.T) {
	a := region.New("A")
	a.AddRect(region.NewRect(0, 0, 1000, 1000))
	b := region.New("B")
	b.AddRect(region.NewRect(500, 500, 1500, 1500))
	regions := []*region.Region{a, b}
	v := New(region.MapWidth, region.MapHeight)

	hit := v.Resolve(regions, nil, image.Pt(700, 700))
	if hit.Kind != HitRegion || hit.Region != a || hit.Index != 0 {
		t.Errorf("overlap hit = %+v, want A", hit)
	}
	hit = v.Resolve(regions, nil, image.Pt(1200, 1200))
	if hit.Region != b {
		t.Errorf("hit = %+v, want B", hit)
	}
	hit = v.Resolve(regions, nil, image.Pt(5000, 100))
	if hit.Kind != HitNone {
		t.Errorf("empty space hit = %+v", hit)
	}

	a.Visible = false
	hit = v.Resolve(regions, nil, image.Pt(700, 700))
	if hit.Region != b {
		t.Errorf("hidden region should be skipped, got %+v", hit)
	}
}

func TestResolveHandleFirst(t *testing.T) {
	a := region.New("A")
	a.AddRect(region.NewRect(0, 0, 1000, 1000))
	b := region.New("B")
	b.AddRect(region.NewRect(1000, 1000, 2000, 2000))
	v := New(region.MapWidth, region.MapHeight)

	sel := &Selection{Region: b, Rect: b.Bounds[0], HasRect: true}
	// (999,999) lies inside A, but the selected rectangle's handle wins
	hit := v.Resolve([]*region.Region{a, b}, sel, image.Pt(999, 999))
	if hit.Kind != HitHandle || hit.Handle != HandleTopLeft || hit.Region != b {
		t.Errorf("hit = %+v, want TopLeft handle of B", hit)
	}
	if hit.Index != 1 || hit.RectIndex != 0 {
		t.Errorf("hit indices = %d/%d", hit.Index, hit.RectIndex)
	}
}

func TestResizeRect(t *testing.T) {
	r := region.NewRect(100, 100, 200, 200)
	tests := []struct {
		h    Handle
		x, y int
		want region.Rect
	}{
		{HandleBottomRight, 300, 250, region.NewRect(100, 100, 300, 250)},
		{HandleBottomRight, 50, 50, region.NewRect(50, 50, 100, 100)},
		{HandleTopLeft, 150, 120, region.NewRect(150, 120, 200, 200)},
		{HandleTopRight, 250, 50, region.NewRect(100, 50, 250, 200)},
		{HandleBottomLeft, 0, 300, region.NewRect(0, 100, 200, 300)},
	}
	for _, tt := range tests {
		got := ResizeRect(r, tt.h, tt.x, tt.y)
		if got != tt.want {
			t.Errorf("ResizeRect(%v, %d,%d) = %v, want %v", tt.h, tt.x, tt.y, got, tt.want)
		}
	}
}

func TestZeroRectSelection(t *testing.T) {
	r := region.New("Origin")
	r.AddRect(region.NewRect(0, 0, 0, 0))
	v := New(region.MapWidth, region.MapHeight)

	if (&Selection{Region: r}).Active() {
		t.Error("selection without a rectangle should be inactive")
	}
	sel := &Selection{Region: r, Rect: r.Bounds[0], HasRect: true}
	if !sel.Active() {
		t.Fatal("zero rectangle selection should be active")
	}
	hit := v.Resolve([]*region.Region{r}, sel, image.Pt(0, 0))
	if hit.Kind != HitHandle || hit.Handle != HandleTopLeft || hit.RectIndex != 0 {
		t.Errorf("hit = %+v, want TopLeft handle of the zero rectangle", hit)
	}
}
