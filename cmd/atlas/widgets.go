package main

import (
	"image"
	"image/color"
	"strings"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Debug font cell size used to lay out text.
const (
	charW = 6
	charH = 16
)

type button struct {
	rect    image.Rectangle
	label   string
	onClick func()
}

func (b *button) contains(p image.Point) bool {
	return p.In(b.rect)
}

func (b *button) draw(dst *ebiten.Image) {
	fillRect(dst, b.rect, color.RGBA{70, 70, 70, 255})
	ebitenutil.DebugPrintAt(dst, b.label, b.rect.Min.X+6, b.rect.Min.Y+(b.rect.Dy()-charH)/2)
}

// textPrompt is a single-line text box drawn over the canvas.
type textPrompt struct {
	label    string
	text     []rune
	onSubmit func(string)
	onCancel func()
}

func newPrompt(label, initial string, submit func(string), cancel func()) *textPrompt {
	return &textPrompt{label: label, text: []rune(initial), onSubmit: submit, onCancel: cancel}
}

// insert appends typed characters, skipping control characters.
func (p *textPrompt) insert(rs []rune) {
	for _, r := range rs {
		if r >= ' ' && r != 0x7f {
			p.text = append(p.text, r)
		}
	}
}

func (p *textPrompt) backspace() {
	if len(p.text) > 0 {
		p.text = p.text[:len(p.text)-1]
	}
}

func (p *textPrompt) value() string { return string(p.text) }

func (p *textPrompt) submit() {
	if p.onSubmit != nil {
		p.onSubmit(p.value())
	}
}

func (p *textPrompt) cancel() {
	if p.onCancel != nil {
		p.onCancel()
	}
}

func (p *textPrompt) draw(dst *ebiten.Image, blink bool) {
	w, h := dst.Bounds().Dx(), dst.Bounds().Dy()
	boxW := max(360, (utf8.RuneCountInString(p.label)+len(p.text)+4)*charW)
	boxW = min(boxW, w-20)
	box := image.Rect((w-boxW)/2, h/2-30, (w+boxW)/2, h/2+30)

	fillRect(dst, image.Rect(0, 0, w, h), color.RGBA{0, 0, 0, 120})
	fillRect(dst, box, color.RGBA{30, 30, 30, 255})
	strokeRect(dst, box, color.RGBA{120, 120, 120, 255})
	ebitenutil.DebugPrintAt(dst, p.label, box.Min.X+12, box.Min.Y+6)

	text := string(p.text)
	if blink {
		text += "_"
	}
	maxChars := (boxW - 24) / charW
	if n := utf8.RuneCountInString(text); n > maxChars {
		text = string([]rune(text)[n-maxChars:])
	}
	ebitenutil.DebugPrintAt(dst, text, box.Min.X+12, box.Min.Y+28)
}

// popupMenu is a vertical list of commands opened at the pointer.
type popupMenu struct {
	at    image.Point
	items []string
	on    func(item string)
}

const menuItemH = 20

func (m *popupMenu) rect() image.Rectangle {
	w := 0
	for _, it := range m.items {
		w = max(w, len(it))
	}
	return image.Rect(m.at.X, m.at.Y, m.at.X+w*charW+24, m.at.Y+len(m.items)*menuItemH)
}

// itemAt returns the item index under p, or -1.
func (m *popupMenu) itemAt(p image.Point) int {
	r := m.rect()
	if !p.In(r) {
		return -1
	}
	return (p.Y - r.Min.Y) / menuItemH
}

func (m *popupMenu) draw(dst *ebiten.Image, hover image.Point) {
	r := m.rect()
	fillRect(dst, r, color.RGBA{40, 40, 40, 240})
	strokeRect(dst, r, color.RGBA{120, 120, 120, 255})
	hi := m.itemAt(hover)
	for i, it := range m.items {
		row := image.Rect(r.Min.X, r.Min.Y+i*menuItemH, r.Max.X, r.Min.Y+(i+1)*menuItemH)
		if i == hi {
			fillRect(dst, row, color.RGBA{50, 90, 160, 255})
		}
		ebitenutil.DebugPrintAt(dst, it, row.Min.X+12, row.Min.Y+2)
	}
}

// Sidebar layout, relative to the sidebar's top-left corner.
const (
	sidebarW     = 260
	rowH         = 18
	sidebarRows0 = 64 // top of the region list
	checkboxW    = 22
)

// sidebarRow returns the list row under a sidebar-relative y, or -1.
func sidebarRow(y, scroll int) int {
	if y < sidebarRows0 {
		return -1
	}
	return (y-sidebarRows0)/rowH + scroll
}

func fillRect(dst *ebiten.Image, r image.Rectangle, c color.Color) {
	vector.DrawFilledRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), c, false)
}

func strokeRect(dst *ebiten.Image, r image.Rectangle, c color.Color) {
	vector.StrokeRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), 1, c, false)
}

// fitText shortens s to at most n characters of the debug font.
func fitText(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:max(0, n)])
	}
	return strings.TrimRight(string(r[:n-3]), " ") + "..."
}
