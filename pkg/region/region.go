// Package region provides the region model: named, taggable sets of
// axis-aligned rectangles in logical map space.
package region

import (
	"fmt"
	"strings"
)

// Logical map dimensions. All rectangles are stored in these units,
// independent of the resolution of any map image.
const (
	MapWidth  = 7168
	MapHeight = 4096
)

// DefaultName is the name given to regions that never had one.
const DefaultName = "Unnamed"

// Rect is an axis-aligned rectangle in logical map units.
// Left <= Right and Top <= Bottom always hold for rectangles built with NewRect.
type Rect struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// NewRect builds a normalised rectangle from two opposite corners.
func NewRect(x1, y1, x2, y2 int) Rect {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	return Rect{Left: x1, Top: y1, Right: x2, Bottom: y2}
}

// RectXYWH builds a rectangle from an origin and a size.
func RectXYWH(x, y, w, h int) Rect {
	return NewRect(x, y, x+w, y+h)
}

// Width returns the horizontal extent.
func (r Rect) Width() int { return r.Right - r.Left }

// Height returns the vertical extent.
func (r Rect) Height() int { return r.Bottom - r.Top }

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool { return r.Width() <= 0 || r.Height() <= 0 }

// Contains reports whether (x, y) lies inside the rectangle.
// The right and bottom edges are exclusive.
func (r Rect) Contains(x, y int) bool {
	return x >= r.Left && x < r.Right && y >= r.Top && y < r.Bottom
}

// Translate returns the rectangle moved by (dx, dy).
func (r Rect) Translate(dx, dy int) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

// Normalized reports whether Left <= Right and Top <= Bottom.
func (r Rect) Normalized() bool {
	return r.Left <= r.Right && r.Top <= r.Bottom
}

// String returns "(l,t)-(r,b)".
func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", r.Left, r.Top, r.Right, r.Bottom)
}

// Region is a named, taggable collection of rectangles.
type Region struct {
	Name    string            `json:"name"`
	Visible bool              `json:"visible"`
	Bounds  []Rect            `json:"bounds"`
	Tags    map[string]string `json:"tags"`
}

// New creates a visible region with the given name and no bounds.
// An empty name falls back to DefaultName.
func New(name string) *Region {
	if name == "" {
		name = DefaultName
	}
	return &Region{
		Name:    name,
		Visible: true,
		Bounds:  make([]Rect, 0),
		Tags:    make(map[string]string),
	}
}

// Clone returns a deep copy. The copy shares no slices or maps with r.
func (r *Region) Clone() *Region {
	c := &Region{
		Name:    r.Name,
		Visible: r.Visible,
		Bounds:  make([]Rect, len(r.Bounds)),
		Tags:    make(map[string]string, len(r.Tags)),
	}
	copy(c.Bounds, r.Bounds)
	for k, v := range r.Tags {
		c.Tags[k] = v
	}
	return c
}

// CloneAll deep-copies a list of regions, preserving order.
func CloneAll(regions []*Region) []*Region {
	out := make([]*Region, len(regions))
	for i, r := range regions {
		out[i] = r.Clone()
	}
	return out
}

// SetTag stores a tag under its uppercased key.
func (r *Region) SetTag(key, value string) {
	if r.Tags == nil {
		r.Tags = make(map[string]string)
	}
	r.Tags[strings.ToUpper(key)] = value
}

// Tag looks up a tag by key, case-insensitively.
func (r *Region) Tag(key string) (string, bool) {
	v, ok := r.Tags[strings.ToUpper(key)]
	return v, ok
}

// HasTag reports whether the tag is present.
func (r *Region) HasTag(key string) bool {
	_, ok := r.Tag(key)
	return ok
}

// DeleteTag removes a tag if present.
func (r *Region) DeleteTag(key string) {
	delete(r.Tags, strings.ToUpper(key))
}

// AddRect appends a rectangle, normalising it first.
func (r *Region) AddRect(rect Rect) {
	r.Bounds = append(r.Bounds, NewRect(rect.Left, rect.Top, rect.Right, rect.Bottom))
}

// RectIndex returns the index of the first rectangle equal to rect, or -1.
func (r *Region) RectIndex(rect Rect) int {
	for i, b := range r.Bounds {
		if b == rect {
			return i
		}
	}
	return -1
}

// RemoveRect removes the first rectangle equal to rect.
// It returns false if no such rectangle exists.
func (r *Region) RemoveRect(rect Rect) bool {
	i := r.RectIndex(rect)
	if i < 0 {
		return false
	}
	r.Bounds = append(r.Bounds[:i], r.Bounds[i+1:]...)
	return true
}

// ReplaceRect removes the first rectangle equal to old and appends repl.
// The replacement always ends up last in Bounds.
func (r *Region) ReplaceRect(old, repl Rect) {
	r.RemoveRect(old)
	r.AddRect(repl)
}

// Extent returns the bounding box of all rectangles.
// The second result is false when the region has no rectangles.
func (r *Region) Extent() (Rect, bool) {
	if len(r.Bounds) == 0 {
		return Rect{}, false
	}
	ext := r.Bounds[0]
	for _, b := range r.Bounds[1:] {
		if b.Left < ext.Left {
			ext.Left = b.Left
		}
		if b.Top < ext.Top {
			ext.Top = b.Top
		}
		if b.Right > ext.Right {
			ext.Right = b.Right
		}
		if b.Bottom > ext.Bottom {
			ext.Bottom = b.Bottom
		}
	}
	return ext, true
}

// String returns a short description of the region.
func (r *Region) String() string {
	return fmt.Sprintf("Region[%s]: %d rect(s), %d tag(s)", r.Name, len(r.Bounds), len(r.Tags))
}
