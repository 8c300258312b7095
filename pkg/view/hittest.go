package view

import (
	"image"

	"github.com/ha1tch/atlas-toolkit/pkg/region"
)

// HandleSize is the side of a resize handle's hit box in viewport pixels.
// The hit box does not scale with zoom.
const HandleSize = 6

// Handle identifies a corner grab point of a rectangle.
type Handle int

const (
	HandleNone Handle = iota
	HandleTopLeft
	HandleTopRight
	HandleBottomLeft
	HandleBottomRight
)

func (h Handle) String() string {
	switch h {
	case HandleTopLeft:
		return "TopLeft"
	case HandleTopRight:
		return "TopRight"
	case HandleBottomLeft:
		return "BottomLeft"
	case HandleBottomRight:
		return "BottomRight"
	}
	return "None"
}

// HitKind classifies the result of Resolve.
type HitKind int

const (
	HitNone   HitKind = iota // nothing under the pointer; callers pan
	HitHandle                // a handle of the selected rectangle
	HitRegion                // the body of a region rectangle
)

// Hit is the result of resolving a pointer position.
type Hit struct {
	Kind      HitKind
	Region    *region.Region
	Index     int // index of Region in the resolved list, -1 when unknown
	Rect      region.Rect
	RectIndex int
	Handle    Handle
}

// Selection is the currently selected rectangle of a region. HasRect is
// false when a region is selected that has no rectangle to show; Rect is
// meaningless then. A zero Rect with HasRect set is a real rectangle.
type Selection struct {
	Region  *region.Region
	Rect    region.Rect
	HasRect bool
}

// Active reports whether the selection refers to a rectangle.
func (s *Selection) Active() bool {
	return s != nil && s.Region != nil && s.HasRect
}

// handleBox returns the hit box centred on (x, y).
func handleBox(x, y int) image.Rectangle {
	half := HandleSize / 2
	return image.Rect(x-half, y-half, x-half+HandleSize, y-half+HandleSize)
}

// HandleAt returns the corner handle of a viewport rectangle under p.
// Corners are tested in the order TopLeft, TopRight, BottomLeft, BottomRight.
func HandleAt(r image.Rectangle, p image.Point) Handle {
	switch {
	case p.In(handleBox(r.Min.X, r.Min.Y)):
		return HandleTopLeft
	case p.In(handleBox(r.Max.X, r.Min.Y)):
		return HandleTopRight
	case p.In(handleBox(r.Min.X, r.Max.Y)):
		return HandleBottomLeft
	case p.In(handleBox(r.Max.X, r.Max.Y)):
		return HandleBottomRight
	}
	return HandleNone
}

// HandleAt returns the handle of map rectangle r under viewport point p.
func (v View) HandleAt(r region.Rect, p image.Point) Handle {
	return HandleAt(v.MapRectToViewport(r), p)
}

// RegionAt returns the first visible region rectangle containing the map
// point (x, y). Regions are scanned in list order, then rectangles in list
// order; the first match wins.
func RegionAt(regions []*region.Region, x, y int) Hit {
	for i, r := range regions {
		if !r.Visible {
			continue
		}
		for j, b := range r.Bounds {
			if b.Contains(x, y) {
				return Hit{Kind: HitRegion, Region: r, Index: i, Rect: b, RectIndex: j}
			}
		}
	}
	return Hit{Kind: HitNone, Index: -1, RectIndex: -1}
}

// Resolve finds what lies under viewport point p: first a handle of the
// selected rectangle, then the first region rectangle containing the
// corresponding map point, otherwise nothing.
func (v View) Resolve(regions []*region.Region, sel *Selection, p image.Point) Hit {
	if sel.Active() && sel.Region.Visible {
		if h := v.HandleAt(sel.Rect, p); h != HandleNone {
			return Hit{
				Kind:      HitHandle,
				Region:    sel.Region,
				Index:     indexOf(regions, sel.Region),
				Rect:      sel.Rect,
				RectIndex: sel.Region.RectIndex(sel.Rect),
				Handle:    h,
			}
		}
	}
	m := v.ViewportToMap(p)
	return RegionAt(regions, int(m.X), int(m.Y))
}

func indexOf(regions []*region.Region, r *region.Region) int {
	for i, x := range regions {
		if x == r {
			return i
		}
	}
	return -1
}

// ResizeRect moves the corner of r named by h to the map point (x, y),
// keeping the opposite corner fixed, and normalises the result.
func ResizeRect(r region.Rect, h Handle, x, y int) region.Rect {
	x1, y1, x2, y2 := r.Left, r.Top, r.Right, r.Bottom
	switch h {
	case HandleTopLeft:
		x1, y1 = x, y
	case HandleTopRight:
		x2, y1 = x, y
	case HandleBottomLeft:
		x1, y2 = x, y
	case HandleBottomRight:
		x2, y2 = x, y
	}
	return region.NewRect(x1, y1, x2, y2)
}
