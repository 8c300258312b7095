package main

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/atlas-toolkit/pkg/dfnfile"
	"github.com/ha1tch/atlas-toolkit/pkg/edit"
	"github.com/ha1tch/atlas-toolkit/pkg/mapimage"
	"github.com/ha1tch/atlas-toolkit/pkg/region"
	"github.com/ha1tch/atlas-toolkit/pkg/view"
)

// Styles
var (
	styleDefault    = tcell.StyleDefault
	styleMenu       = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleMenuSel    = tcell.StyleDefault.Background(tcell.ColorBlue).Foreground(tcell.ColorWhite)
	styleSidebar    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleSidebarH   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleHidden     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleStatus     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgInfo    = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgError   = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleMsgWarning = tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.ColorNavy)
	styleMsgSuccess = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleHelp       = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleInput      = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	styleBorder     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleSelected   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleCreate     = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	styleLabel      = tcell.StyleDefault.Foreground(tcell.ColorWhite)
)

var (
	colorOutside = tcell.ColorBlack
	colorMapless = tcell.NewRGBColor(30, 34, 40)
)

func (ed *Editor) draw() {
	ed.screen.Clear()
	w, h := ed.screen.Size()

	ed.drawCanvas()
	ed.drawSidebar(w, h)

	switch ed.mode {
	case ModeMenu:
		ed.drawMenuOverlay(w, h)
	case ModeInput:
		ed.drawInputBox(w, h)
	case ModeConfirm:
		ed.drawConfirmBox(w, h)
	case ModeTags:
		ed.drawTagEditor(w, h)
	case ModeHelp:
		ed.drawHelp(w, h)
	}

	ed.drawStatusBar(w, h)
}

// cellSource returns the pixels of a map image with bounds b covered by
// the viewport cell at (x, y). ok is false when the cell lies outside the
// image.
func cellSource(v view.View, b image.Rectangle, x, y int) (image.Rectangle, bool) {
	z := view.ClampZoom(v.Zoom)
	vx := float64(x-v.Pan.X) / z
	vy := float64(y-v.Pan.Y) / z
	if vx < 0 || vy < 0 || vx >= float64(v.ImageWidth) || vy >= float64(v.ImageHeight) {
		return image.Rectangle{}, false
	}
	fx := float64(b.Dx()) / float64(v.ImageWidth)
	fy := float64(b.Dy()) / float64(v.ImageHeight)
	x0 := b.Min.X + int(vx*fx)
	y0 := b.Min.Y + int(vy*fy)
	x1 := b.Min.X + int((vx+1/z)*fx)
	y1 := b.Min.Y + int((vy+1/z)*fy)
	return image.Rect(x0, y0, max(x1, x0+1), max(y1, y0+1)), true
}

func tcellColor(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// drawCanvas paints the map background, then region outlines, then the
// selection handles and any rectangle being drawn.
func (ed *Editor) drawCanvas() {
	cw, ch := ed.canvasSize()
	v := ed.engine.View()

	bg := make([]tcell.Color, cw*ch)
	for y := 0; y < ch; y++ {
		for x := 0; x < cw; x++ {
			c := colorOutside
			if ed.mapImage != nil {
				if src, ok := cellSource(v, ed.mapImage.Bounds(), x, y); ok {
					c = tcellColor(mapimage.Average(ed.mapImage, src, 2))
				}
			} else if _, ok := cellSource(v, image.Rect(0, 0, v.ImageWidth, v.ImageHeight), x, y); ok {
				c = colorMapless
			}
			bg[y*cw+x] = c
			ed.screen.SetContent(x, y, ' ', nil, styleDefault.Background(c))
		}
	}

	set := func(x, y int, r rune, style tcell.Style) {
		if x < 0 || y < 0 || x >= cw || y >= ch {
			return
		}
		ed.screen.SetContent(x, y, r, nil, style.Background(bg[y*cw+x]))
	}
	label := func(x, y int, s string, maxLen int, style tcell.Style) {
		for i, r := range []rune(truncate(s, maxLen)) {
			set(x+i, y, r, style)
		}
	}

	sel := ed.engine.Selection()
	for _, r := range ed.engine.Regions() {
		if !r.Visible {
			continue
		}
		style := styleDefault.Foreground(tcellColor(dfnfile.RegionColor(r)))
		for _, b := range r.Bounds {
			vr := v.MapRectToViewport(b)
			if sel.HasRect && r == sel.Region && b == sel.Rect {
				continue
			}
			drawRect(set, vr, style, '─', '│')
		}
		if ext, ok := r.Extent(); ok {
			vr := v.MapRectToViewport(ext)
			if vr.Dx() > 2 {
				label(vr.Min.X+1, vr.Min.Y, r.Name, vr.Dx()-1, styleLabel)
			}
		}
	}

	// Selected rectangle and its handles on top
	if sel.Active() && sel.Region.Visible {
		vr := v.MapRectToViewport(sel.Rect)
		drawRect(set, vr, styleSelected, '━', '┃')
		for _, p := range []image.Point{vr.Min, image.Pt(vr.Max.X, vr.Min.Y), image.Pt(vr.Min.X, vr.Max.Y), vr.Max} {
			set(p.X, p.Y, '■', styleSelected)
		}
	}

	if preview, ok := ed.engine.Preview(); ok {
		drawRect(set, v.MapRectToViewport(preview), styleCreate, '┄', '┆')
	}

	// Divider
	for y := 0; y < ch; y++ {
		ed.screen.SetContent(cw, y, '│', nil, styleBorder)
	}
}

// drawRect outlines r, including its Max edge, through set.
func drawRect(set func(int, int, rune, tcell.Style), r image.Rectangle, style tcell.Style, horiz, vert rune) {
	for x := r.Min.X; x <= r.Max.X; x++ {
		set(x, r.Min.Y, horiz, style)
		set(x, r.Max.Y, horiz, style)
	}
	for y := r.Min.Y; y <= r.Max.Y; y++ {
		set(r.Min.X, y, vert, style)
		set(r.Max.X, y, vert, style)
	}
	if r.Dx() > 0 && r.Dy() > 0 {
		set(r.Min.X, r.Min.Y, '┌', style)
		set(r.Max.X, r.Min.Y, '┐', style)
		set(r.Min.X, r.Max.Y, '└', style)
		set(r.Max.X, r.Max.Y, '┘', style)
	}
}

func (ed *Editor) drawSidebar(w, h int) {
	cw, _ := ed.canvasSize()
	x := cw + 1
	width := w - x
	if width <= 4 {
		return
	}
	regions := ed.engine.Regions()
	entries := ed.entries()

	ed.drawString(x, 0, truncate(fmt.Sprintf("Regions (%d)", len(regions)), width), styleSidebarH)
	ed.drawString(x, sidebarGroupRow, truncate("Group: "+string(ed.group), width), styleSidebar)
	search := ed.search
	if search == "" {
		search = "(none)"
	}
	ed.drawString(x, sidebarSearchRow, truncate("Search: "+search, width), styleSidebar)
	ed.drawString(x, sidebarListTop-1, truncate(fmt.Sprintf("%d shown", len(entries)), width), styleHelp)

	rows := ed.sidebarRows()
	ed.sidebarScroll = max(0, min(ed.sidebarScroll, len(entries)-rows))
	cur := ed.engine.SelectedIndex()
	for i := 0; i < rows && ed.sidebarScroll+i < len(entries); i++ {
		e := entries[ed.sidebarScroll+i]
		box := "[ ]"
		style := styleHidden
		if e.Region.Visible {
			box = "[x]"
			style = styleSidebar
		}
		if e.Index == cur {
			style = styleMenuSel
		}
		line := box + " " + region.DisplayName(e.Index, e.Region)
		ed.drawString(x, sidebarListTop+i, fmt.Sprintf("%-*s", width-1, truncate(line, width-1)), style)
	}
}

func (ed *Editor) drawMenuOverlay(w, h int) {
	menuWidth := 24
	menuHeight := len(ed.menuItems) + 4
	startX := max(0, (w-menuWidth)/2)
	startY := max(0, (h-menuHeight)/2)

	title := "Region"
	if r := ed.engine.Selection().Region; r != nil {
		title = truncate(r.Name, menuWidth-4)
	}
	ed.drawTitledBox(startX, startY, menuWidth, menuHeight, title)
	for i, item := range ed.menuItems {
		style := styleMenu
		if i == ed.menuSelected {
			style = styleMenuSel
		}
		ed.drawString(startX+1, startY+2+i, fmt.Sprintf(" %-*s", menuWidth-3, item), style)
	}
}

func (ed *Editor) drawInputBox(w, h int) {
	boxW := min(w-2, max(50, len(ed.inputPrompt)+len(ed.inputBuffer)+6))
	boxH := 3
	boxX := max(0, (w-boxW)/2)
	boxY := (h - boxH) / 2

	ed.drawBox(boxX, boxY, boxW, boxH, styleInput)
	text := ed.inputPrompt + ed.inputBuffer + "_"
	if over := len(text) - (boxW - 4); over > 0 {
		text = text[over:]
	}
	ed.drawString(boxX+2, boxY+1, text, styleInput)
}

func (ed *Editor) drawConfirmBox(w, h int) {
	boxW := min(w-2, len(ed.confirmPrompt)+6)
	boxX := max(0, (w-boxW)/2)
	boxY := (h - 3) / 2
	ed.drawBox(boxX, boxY, boxW, 3, styleInput)
	ed.drawString(boxX+2, boxY+1, truncate(ed.confirmPrompt, boxW-4), styleInput)
}

func (ed *Editor) drawTagEditor(w, h int) {
	boxW := min(w-4, 78)
	boxH := max(6, h-6)
	boxX := max(0, (w-boxW)/2)
	boxY := 2

	title := "Tags"
	if r := ed.engine.Selection().Region; r != nil {
		title = "Tags: " + truncate(r.Name, boxW-12)
	}
	ed.drawTitledBox(boxX, boxY, boxW, boxH, title)

	rows := boxH - 3
	if ed.tagSelected < ed.tagScroll {
		ed.tagScroll = ed.tagSelected
	} else if ed.tagSelected >= ed.tagScroll+rows {
		ed.tagScroll = ed.tagSelected - rows + 1
	}
	for i := 0; i < rows && ed.tagScroll+i < len(ed.tagRows); i++ {
		row := ed.tagRows[ed.tagScroll+i]
		value := ed.tagValue(row)
		style := styleMenu
		if value == "" {
			style = styleHidden
		}
		if _, edited := ed.tagEdits[row.Key]; edited {
			style = style.Bold(true)
		}
		if ed.tagScroll+i == ed.tagSelected {
			style = styleMenuSel
		}
		line := fmt.Sprintf(" %-16s %-14s %s", row.Key, truncate(value, 14), row.Description)
		ed.drawString(boxX+1, boxY+2+i, fmt.Sprintf("%-*s", boxW-2, truncate(line, boxW-2)), style)
	}
}

var helpLines = []string{
	"Mouse",
	"  drag region          move rectangle",
	"  drag corner          resize selected rectangle",
	"  drag empty space     pan",
	"  shift+drag, n+drag   draw new region",
	"  wheel                zoom at pointer",
	"  right click          region menu",
	"",
	"Keys",
	"  + / -   zoom        0  fit map",
	"  arrows  pan         Enter  centre selection",
	"  Tab     next region",
	"  r  rename   Del  delete   t  tags   c  copy DFN",
	"  a  show/hide all   g  group   /  search",
	"  m  map image       e  export overview",
	"  Ctrl+Z  undo   Ctrl+S  save   Ctrl+O  open",
	"  q  quit",
	"",
	"Tag editor",
	"  Enter edit   Del clear   n new tag   s apply   Esc discard",
}

func (ed *Editor) drawHelp(w, h int) {
	boxW := min(w-4, 60)
	boxH := min(h-4, len(helpLines)+4)
	boxX := max(0, (w-boxW)/2)
	boxY := max(0, (h-boxH)/2)
	ed.drawTitledBox(boxX, boxY, boxW, boxH, "Help")
	for i := 0; i < boxH-3 && ed.helpScrollOffset+i < len(helpLines); i++ {
		ed.drawString(boxX+2, boxY+2+i, truncate(helpLines[ed.helpScrollOffset+i], boxW-4), styleMenu)
	}
}

// drawTitledBox draws a bordered box with optional title
func (ed *Editor) drawTitledBox(x, y, w, h int, title string) {
	ed.drawBox(x, y, w, h, styleMenu)
	if title != "" {
		titleX := x + (w-len(title)-2)/2
		ed.screen.SetContent(titleX, y, ' ', nil, styleBorder)
		ed.drawString(titleX+1, y, title, styleSidebarH)
		ed.screen.SetContent(titleX+1+len(title), y, ' ', nil, styleBorder)
	}
}

func (ed *Editor) drawBox(x, y, w, h int, style tcell.Style) {
	ed.screen.SetContent(x, y, '┌', nil, styleBorder)
	ed.screen.SetContent(x+w-1, y, '┐', nil, styleBorder)
	ed.screen.SetContent(x, y+h-1, '└', nil, styleBorder)
	ed.screen.SetContent(x+w-1, y+h-1, '┘', nil, styleBorder)

	for i := x + 1; i < x+w-1; i++ {
		ed.screen.SetContent(i, y, '─', nil, styleBorder)
		ed.screen.SetContent(i, y+h-1, '─', nil, styleBorder)
	}
	for i := y + 1; i < y+h-1; i++ {
		ed.screen.SetContent(x, i, '│', nil, styleBorder)
		ed.screen.SetContent(x+w-1, i, '│', nil, styleBorder)
	}
	for row := y + 1; row < y+h-1; row++ {
		for col := x + 1; col < x+w-1; col++ {
			ed.screen.SetContent(col, row, ' ', nil, style)
		}
	}
}

func (ed *Editor) drawStatusBar(w, h int) {
	y := h - 1
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleStatus)
	}

	fileInfo := "[New]"
	if ed.filename != "" {
		fileInfo = filepath.Base(ed.filename)
	}
	if ed.modified {
		fileInfo += " *"
	}
	fileInfo += fmt.Sprintf("  %d%%", int(ed.engine.View().Zoom*100+0.5))
	ed.drawString(1, y, fileInfo, styleStatus)

	modeStr := ed.modeString()
	ed.drawString(w/2-len(modeStr)/2, y, modeStr, styleStatus)

	if ed.message != "" {
		style := styleMsgInfo
		switch ed.messageType {
		case MsgError:
			style = styleMsgError
		case MsgWarning:
			style = styleMsgWarning
		case MsgSuccess:
			style = styleMsgSuccess
		}
		if shouldFlash(ed.messageType) {
			elapsed := time.Now().UnixMilli() - ed.messageFlashStart
			if flashInverted(elapsed) {
				style = style.Reverse(true)
			}
		}
		msg := truncate(ed.message, w/2-2)
		ed.drawString(w-len([]rune(msg))-2, y, msg, style)
	}

	// Help bar
	y = h - 2
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleDefault)
	}
	ed.drawString(1, y, truncate(ed.helpString(), w-2), styleHelp)
}

// shouldFlash reports whether messages of type t flash when shown.
func shouldFlash(t MessageType) bool {
	return t != MsgInfo
}

// flashInverted reports whether a flashing message is drawn inverted
// elapsed milliseconds after it was shown: normal, inverted, normal,
// inverted in 125ms phases, then normal.
func flashInverted(elapsed int64) bool {
	if elapsed < 0 || elapsed >= 500 {
		return false
	}
	phase := elapsed / 125
	return phase == 1 || phase == 3
}

func (ed *Editor) drawString(x, y int, s string, style tcell.Style) {
	i := 0
	for _, r := range s {
		ed.screen.SetContent(x+i, y, r, nil, style)
		i++
	}
}

func (ed *Editor) modeString() string {
	switch ed.engine.State() {
	case edit.StateCreating:
		return "CREATE"
	case edit.StateMoving:
		return "MOVE"
	case edit.StateResizing:
		return "RESIZE"
	case edit.StatePanning:
		return "PAN"
	}
	switch ed.mode {
	case ModeMenu:
		return "MENU"
	case ModeInput:
		return "INPUT"
	case ModeConfirm:
		return "CONFIRM"
	case ModeTags:
		return "TAGS"
	case ModeHelp:
		return "HELP"
	}
	if ed.createArmed {
		return "DRAW"
	}
	return ""
}

func (ed *Editor) helpString() string {
	switch ed.mode {
	case ModeMenu:
		return "↑↓:Select  Enter:Confirm  Esc:Cancel"
	case ModeInput:
		return "Type text  Enter:Confirm  Esc:Cancel  Ctrl+U:Clear"
	case ModeConfirm:
		return "y:Yes  any other key:No"
	case ModeTags:
		return "↑↓:Select  Enter:Edit  Del:Clear  n:New tag  s:Apply  Esc:Discard"
	case ModeHelp:
		return "↑↓:Scroll  Esc:Close"
	}
	return "Shift/n+Drag:New  r:Rename  Del:Delete  t:Tags  c:Copy  a:All  /:Search  g:Group  Ctrl+S:Save  h:Help  q:Quit"
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 0 {
		return ""
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
