package main

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/ha1tch/atlas-toolkit/pkg/dfnfile"
	"github.com/ha1tch/atlas-toolkit/pkg/region"
	"github.com/ha1tch/atlas-toolkit/pkg/view"
)

var (
	colorWindow   = color.RGBA{20, 20, 20, 255}
	colorMapless  = color.RGBA{30, 34, 40, 255}
	colorPanel    = color.RGBA{34, 34, 38, 255}
	colorSelected = color.RGBA{255, 214, 0, 255}
	colorPreview  = color.RGBA{0, 200, 255, 255}
	colorRowSel   = color.RGBA{50, 90, 160, 255}
	colorDim      = color.RGBA{130, 130, 130, 255}
)

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colorWindow)
	g.drawCanvas(screen)
	g.drawSidebar(screen)

	fillRect(screen, image.Rect(0, 0, g.width, toolbarH), colorPanel)
	for _, b := range g.buttons {
		b.draw(screen)
	}
	g.drawStatus(screen)

	if g.menu != nil {
		g.menu.draw(screen, image.Pt(ebiten.CursorPosition()))
	}
	if g.prompt != nil {
		g.prompt.draw(screen, (g.ticks/30)%2 == 0)
	}
}

func (g *Game) drawCanvas(screen *ebiten.Image) {
	c := g.canvasRect()
	if c.Empty() {
		return
	}
	dst := screen.SubImage(c).(*ebiten.Image)
	v := g.engine.View()
	z := view.ClampZoom(v.Zoom)
	origin := c.Min.Add(v.Pan)

	if g.mapImg != nil {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(z, z)
		op.GeoM.Translate(float64(origin.X), float64(origin.Y))
		op.Filter = ebiten.FilterLinear
		dst.DrawImage(g.mapImg, op)
	} else {
		w := float32(float64(v.ImageWidth) * z)
		h := float32(float64(v.ImageHeight) * z)
		vector.DrawFilledRect(dst, float32(origin.X), float32(origin.Y), w, h, colorMapless, false)
	}

	sel := g.engine.Selection()
	for _, r := range g.engine.Regions() {
		if !r.Visible {
			continue
		}
		col := dfnfile.RegionColor(r)
		fill := color.RGBA{col.R, col.G, col.B, 50}
		for _, b := range r.Bounds {
			vr := v.MapRectToViewport(b).Add(c.Min)
			fillRect(dst, vr, fill)
			if sel.HasRect && r == sel.Region && b == sel.Rect {
				continue
			}
			vector.StrokeRect(dst, float32(vr.Min.X), float32(vr.Min.Y), float32(vr.Dx()), float32(vr.Dy()), 2, col, false)
		}
		if ext, ok := r.Extent(); ok {
			vr := v.MapRectToViewport(ext).Add(c.Min)
			if n := vr.Dx() / charW; n > 3 {
				ebitenutil.DebugPrintAt(dst, fitText(r.Name, n-1), vr.Min.X+3, vr.Min.Y+1)
			}
		}
	}

	if sel.Active() && sel.Region.Visible {
		vr := v.MapRectToViewport(sel.Rect).Add(c.Min)
		vector.StrokeRect(dst, float32(vr.Min.X), float32(vr.Min.Y), float32(vr.Dx()), float32(vr.Dy()), 2, colorSelected, false)
		for _, p := range []image.Point{vr.Min, image.Pt(vr.Max.X, vr.Min.Y), image.Pt(vr.Min.X, vr.Max.Y), vr.Max} {
			half := view.HandleSize / 2
			fillRect(dst, image.Rect(p.X-half, p.Y-half, p.X+half, p.Y+half), colorSelected)
		}
	}

	if preview, ok := g.engine.Preview(); ok {
		vr := v.MapRectToViewport(preview).Add(c.Min)
		vector.StrokeRect(dst, float32(vr.Min.X), float32(vr.Min.Y), float32(vr.Dx()), float32(vr.Dy()), 1, colorPreview, false)
	}
}

func (g *Game) drawSidebar(screen *ebiten.Image) {
	s := g.sidebarRect()
	if s.Empty() {
		return
	}
	fillRect(screen, s, colorPanel)
	dst := screen.SubImage(s).(*ebiten.Image)
	x, y := s.Min.X+6, s.Min.Y

	ebitenutil.DebugPrintAt(dst, "Group: "+string(g.group), x, y+2)
	search := g.search
	if search == "" {
		search = "(click to search)"
	}
	ebitenutil.DebugPrintAt(dst, fitText("Search: "+search, (sidebarW-12)/charW), x, y+22)

	entries := g.entries()
	ebitenutil.DebugPrintAt(dst, fmt.Sprintf("%d of %d regions", len(entries), len(g.engine.Regions())), x, y+42)

	rows := (s.Dy() - sidebarRows0) / rowH
	g.scroll = max(0, min(g.scroll, len(entries)-rows))
	cur := g.engine.SelectedIndex()
	for i := 0; i < rows && g.scroll+i < len(entries); i++ {
		e := entries[g.scroll+i]
		top := y + sidebarRows0 + i*rowH
		if e.Index == cur {
			fillRect(dst, image.Rect(s.Min.X, top, s.Max.X, top+rowH), colorRowSel)
		}
		box := image.Rect(s.Min.X+6, top+4, s.Min.X+16, top+14)
		strokeRect(dst, box, colorDim)
		if e.Region.Visible {
			fillRect(dst, box.Inset(2), dfnfile.RegionColor(e.Region))
		}
		ebitenutil.DebugPrintAt(dst, fitText(region.DisplayName(e.Index, e.Region), (sidebarW-checkboxW-6)/charW), s.Min.X+checkboxW, top+1)
	}
}

func (g *Game) drawStatus(screen *ebiten.Image) {
	y := g.height - statusH
	fillRect(screen, image.Rect(0, y, g.width, g.height), colorPanel)

	file := "[New]"
	if g.filename != "" {
		file = filepath.Base(g.filename)
	}
	if g.modified {
		file += " *"
	}
	left := fmt.Sprintf("%s  %d%%  %s", file, int(g.engine.View().Zoom*100+0.5), g.engine.State())
	ebitenutil.DebugPrintAt(screen, left, 8, y+3)
	if g.status != "" {
		msg := fitText(g.status, (g.width/2-16)/charW)
		ebitenutil.DebugPrintAt(screen, msg, g.width-len([]rune(msg))*charW-8, y+3)
	}
}
