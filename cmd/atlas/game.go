package main

import (
	"errors"
	"fmt"
	"image"
	"log"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/sqweek/dialog"

	"github.com/ha1tch/atlas-toolkit/pkg/dfnfile"
	"github.com/ha1tch/atlas-toolkit/pkg/edit"
	"github.com/ha1tch/atlas-toolkit/pkg/mapimage"
	"github.com/ha1tch/atlas-toolkit/pkg/region"
	"github.com/ha1tch/atlas-toolkit/pkg/settings"
	"github.com/ha1tch/atlas-toolkit/pkg/view"
)

// Screen layout
const (
	toolbarH = 36
	statusH  = 22
)

// Size of the blank map shown when no image is loaded.
const (
	blankWidth  = dfnfile.DefaultOverviewWidth
	blankHeight = dfnfile.DefaultOverviewHeight
)

const title = "Atlas"

// Game is the ebiten game driving the edit engine.
type Game struct {
	engine   *edit.Engine
	settings *settings.Settings
	filename string
	modified bool
	status   string

	mapSrc  image.Image
	mapImg  *ebiten.Image
	mapPath string

	width, height int

	buttons []*button
	prompt  *textPrompt
	menu    *popupMenu
	anim    *viewAnim

	down    edit.Button
	lastPos image.Point
	search  string
	group   region.Group
	scroll  int
	ticks   int
	quit    bool
}

// NewGame returns a game with an empty region list and no map.
func NewGame(s *settings.Settings) *Game {
	g := &Game{
		engine:   edit.New(nil, view.New(blankWidth, blankHeight)),
		settings: s,
		group:    region.GroupAll,
		width:    1280,
		height:   800,
	}
	g.setupUI()
	return g
}

func (g *Game) setupUI() {
	labels := []struct {
		label string
		fn    func()
	}{
		{"Open", g.openDialog},
		{"Save", func() { g.save(false) }},
		{"Map", g.mapDialog},
		{"Undo", g.undo},
		{"Fit", g.fitView},
		{"Show/Hide", g.toggleAll},
		{"Export", g.export},
		{"Help", func() { g.setStatus(helpText) }},
	}
	x := 8
	for _, l := range labels {
		w := len(l.label)*charW + 16
		g.buttons = append(g.buttons, &button{
			rect:    image.Rect(x, 6, x+w, toolbarH-6),
			label:   l.label,
			onClick: l.fn,
		})
		x += w + 8
	}
}

const helpText = "Shift+drag: new  Drag: move/resize/pan  Wheel: zoom  R: rename  Del: delete  T: tag  Ctrl+C: copy  Ctrl+Z: undo"

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

// canvasRect is the screen area showing the map.
func (g *Game) canvasRect() image.Rectangle {
	return image.Rect(0, toolbarH, max(0, g.width-sidebarW), max(toolbarH, g.height-statusH))
}

func (g *Game) sidebarRect() image.Rectangle {
	return image.Rect(max(0, g.width-sidebarW), toolbarH, g.width, max(toolbarH, g.height-statusH))
}

func (g *Game) setStatus(msg string) {
	g.status = msg
}

func (g *Game) showError(err error) {
	log.Printf("%v", err)
	g.setStatus(err.Error())
	dialog.Message("%s", err.Error()).Title(title).Error()
}

func (g *Game) Update() error {
	g.ticks++
	if g.quit {
		return ebiten.Termination
	}
	if ebiten.IsWindowBeingClosed() {
		if !g.modified || dialog.Message("Discard unsaved changes?").Title(title).YesNo() {
			return ebiten.Termination
		}
	}

	if g.anim != nil {
		v, done := g.anim.step(g.engine.View(), 1/float32(ebiten.TPS()))
		g.engine.SetView(v)
		if done {
			g.anim = nil
		}
	}

	if g.prompt != nil {
		g.updatePrompt()
		return nil
	}

	p := image.Pt(ebiten.CursorPosition())
	if g.menu != nil {
		g.updateMenu(p)
		return nil
	}

	g.updateKeys()
	g.updatePointer(p)
	g.lastPos = p
	return nil
}

// repeatKey reports a key press with auto-repeat.
func repeatKey(k ebiten.Key) bool {
	d := inpututil.KeyPressDuration(k)
	return d == 1 || (d >= 30 && d%3 == 0)
}

func (g *Game) updatePrompt() {
	p := g.prompt
	p.insert(ebiten.AppendInputChars(nil))
	if repeatKey(ebiten.KeyBackspace) {
		p.backspace()
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter), inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter):
		g.prompt = nil
		p.submit()
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		g.prompt = nil
		p.cancel()
	}
}

func (g *Game) updateMenu(p image.Point) {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.menu = nil
		return
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) || inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		m := g.menu
		g.menu = nil
		if i := m.itemAt(p); i >= 0 {
			m.on(m.items[i])
		}
	}
}

func (g *Game) updateKeys() {
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)
	just := inpututil.IsKeyJustPressed
	c := g.canvasRect()
	centre := image.Pt(c.Dx()/2, c.Dy()/2)

	switch {
	case ctrl && just(ebiten.KeyO):
		g.openDialog()
	case ctrl && just(ebiten.KeyS):
		g.save(shift)
	case ctrl && just(ebiten.KeyZ):
		g.undo()
	case ctrl && just(ebiten.KeyC):
		g.copyRegion()
	case ctrl && just(ebiten.KeyM):
		g.mapDialog()
	case ctrl && just(ebiten.KeyE):
		g.export()
	case ctrl && just(ebiten.KeyQ):
		g.requestQuit()
	case ctrl:
	case just(ebiten.KeyDelete), just(ebiten.KeyBackspace):
		g.confirmDelete()
	case just(ebiten.KeyF2), just(ebiten.KeyR):
		g.promptRename()
	case just(ebiten.KeyT):
		g.promptTag()
	case just(ebiten.KeyA):
		g.toggleAll()
	case just(ebiten.KeyG):
		g.cycleGroup()
	case just(ebiten.KeySlash):
		g.promptSearch()
	case just(ebiten.KeyF):
		g.fitView()
	case just(ebiten.KeyEnter), just(ebiten.KeyC):
		g.centreSelection()
	case just(ebiten.KeyTab):
		g.selectNext(shift)
	case just(ebiten.KeyEscape):
		g.engine.Select(-1)
	case just(ebiten.KeyEqual), just(ebiten.KeyNumpadAdd):
		g.zoomStep(centre, 1)
	case just(ebiten.KeyMinus), just(ebiten.KeyNumpadSubtract):
		g.zoomStep(centre, -1)
	}
}

func mouseButton(b edit.Button) ebiten.MouseButton {
	switch b {
	case edit.ButtonMiddle:
		return ebiten.MouseButtonMiddle
	case edit.ButtonRight:
		return ebiten.MouseButtonRight
	}
	return ebiten.MouseButtonLeft
}

func currentMods() edit.Modifiers {
	var m edit.Modifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		m |= edit.ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		m |= edit.ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		m |= edit.ModAlt
	}
	return m
}

func (g *Game) updatePointer(p image.Point) {
	c := g.canvasRect()
	vp := p.Sub(c.Min)

	// A gesture in progress follows the pointer anywhere until release.
	if g.down != edit.ButtonNone {
		ev := edit.PointerEvent{Pos: vp, Button: g.down, Mods: currentMods()}
		if inpututil.IsMouseButtonJustReleased(mouseButton(g.down)) {
			g.down = edit.ButtonNone
			g.handleOutcome(g.engine.PointerUp(ev), p)
		} else if p != g.lastPos {
			g.engine.PointerMove(ev)
		}
		return
	}

	if _, dy := ebiten.Wheel(); dy != 0 {
		switch {
		case p.In(c):
			steps := 1
			if dy < 0 {
				steps = -1
			}
			g.zoomStep(vp, steps)
		case p.In(g.sidebarRect()):
			g.scroll = max(0, g.scroll-int(dy*3))
		}
	}

	var pressed edit.Button
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		pressed = edit.ButtonLeft
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight):
		pressed = edit.ButtonRight
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonMiddle):
		pressed = edit.ButtonMiddle
	default:
		return
	}

	if pressed == edit.ButtonLeft {
		for _, b := range g.buttons {
			if b.contains(p) {
				b.onClick()
				return
			}
		}
		if s := g.sidebarRect(); p.In(s) {
			g.clickSidebar(p.Sub(s.Min))
			return
		}
	}
	if !p.In(c) {
		return
	}

	g.anim = nil
	g.down = pressed
	g.handleOutcome(g.engine.PointerDown(edit.PointerEvent{Pos: vp, Button: pressed, Mods: currentMods()}), p)
	if g.engine.State() == edit.StateIdle {
		g.down = edit.ButtonNone
	}
}

// handleOutcome reports a gesture or command result. at is the screen
// position for menus.
func (g *Game) handleOutcome(o edit.Outcome, at image.Point) {
	if o.Mutated() {
		g.modified = true
		log.Printf("edit: %s", o)
	}
	switch o {
	case edit.OutcomeNeedsName:
		g.prompt = newPrompt("Region name:", "New Region", func(name string) {
			g.handleOutcome(g.engine.CommitCreate(name), at)
		}, func() {
			g.engine.CancelCreate()
		})
	case edit.OutcomeTooSmall:
		g.setStatus(fmt.Sprintf("Region too small (minimum %d×%d)", edit.MinCreateSize, edit.MinCreateSize))
	case edit.OutcomeMenu:
		g.menu = &popupMenu{at: at, items: []string{"Rename", "Delete", "Edit Tags", "Copy"}, on: g.menuCommand}
	case edit.OutcomeNothing:
	default:
		if o.Mutated() || o == edit.OutcomeCancelled {
			g.setStatus(fmt.Sprintf("Region %s", o))
		}
	}
}

func (g *Game) menuCommand(item string) {
	switch item {
	case "Rename":
		g.promptRename()
	case "Delete":
		g.confirmDelete()
	case "Edit Tags":
		g.promptTag()
	case "Copy":
		g.copyRegion()
	}
}

// Sidebar

func (g *Game) entries() []region.Entry {
	return region.List(g.engine.Regions(), g.group, g.search)
}

// clickSidebar handles a left click at a sidebar-relative position.
func (g *Game) clickSidebar(p image.Point) {
	switch {
	case p.Y < 20:
		g.cycleGroup()
		return
	case p.Y < 40:
		g.promptSearch()
		return
	}
	entries := g.entries()
	i := sidebarRow(p.Y, g.scroll)
	if i < 0 || i >= len(entries) {
		return
	}
	e := entries[i]
	if p.X < checkboxW {
		g.engine.SetVisible(e.Index, !e.Region.Visible)
		g.saveSettings()
		return
	}
	g.engine.Select(e.Index)
	g.centreSelection()
}

func (g *Game) cycleGroup() {
	groups := region.Groups()
	for i, gr := range groups {
		if gr == g.group {
			g.group = groups[(i+1)%len(groups)]
			break
		}
	}
	g.scroll = 0
}

func (g *Game) promptSearch() {
	g.prompt = newPrompt("Search regions:", g.search, func(s string) {
		g.search = strings.TrimSpace(s)
		g.scroll = 0
	}, nil)
}

func (g *Game) selectNext(back bool) {
	entries := g.entries()
	if len(entries) == 0 {
		return
	}
	step := 1
	if back {
		step = -1
	}
	cur := g.engine.SelectedIndex()
	pos := -1
	for i, e := range entries {
		if e.Index == cur {
			pos = i
		}
	}
	pos = (pos + step + len(entries)) % len(entries)
	g.engine.Select(entries[pos].Index)
	g.centreSelection()
}

// View

func (g *Game) zoomStep(anchor image.Point, steps int) {
	from := g.engine.View().Zoom
	if g.anim != nil && g.anim.zoom != nil {
		from = g.anim.targetZoom
	}
	g.anim = zoomTo(g.engine.View(), anchor, view.StepZoom(from, steps))
}

// centreSelection animates the pan that centres the selected rectangle.
func (g *Game) centreSelection() {
	c := g.canvasRect()
	before := g.engine.View()
	if !g.engine.CenterOnSelection(c.Dx(), c.Dy()) {
		return
	}
	target := g.engine.View().Pan
	g.engine.SetView(before)
	g.anim = panTo(before, target)
}

// fitView shows the whole map.
func (g *Game) fitView() {
	c := g.canvasRect()
	v := g.engine.View()
	z := min(1, float64(c.Dx())/float64(v.ImageWidth), float64(c.Dy())/float64(v.ImageHeight))
	v.Zoom = view.ClampZoom(z)
	v = v.CenterOn(view.PointF{X: region.MapWidth / 2, Y: region.MapHeight / 2}, c.Dx(), c.Dy())
	g.anim = nil
	g.engine.SetView(v)
}

func (g *Game) toggleAll() {
	if g.engine.ToggleAll() {
		g.setStatus("All regions shown")
	} else {
		g.setStatus("All regions hidden")
	}
	g.saveSettings()
}

// Region commands

func (g *Game) selected() *region.Region {
	r := g.engine.Selection().Region
	if r == nil {
		g.setStatus("No region selected")
	}
	return r
}

func (g *Game) promptRename() {
	r := g.selected()
	if r == nil {
		return
	}
	g.prompt = newPrompt("Rename region:", r.Name, func(name string) {
		g.handleOutcome(g.engine.Rename(name), image.Point{})
	}, nil)
}

func (g *Game) confirmDelete() {
	r := g.selected()
	if r == nil {
		return
	}
	if !dialog.Message("Delete region %q?", r.Name).Title(title).YesNo() {
		return
	}
	g.handleOutcome(g.engine.Delete(), image.Point{})
}

// parseTagEdit splits "KEY=VALUE". The key is uppercased; an empty value
// removes the tag.
func parseTagEdit(text string) (string, string, bool) {
	key, value, ok := strings.Cut(text, "=")
	key = strings.ToUpper(strings.TrimSpace(key))
	if !ok || key == "" {
		return "", "", false
	}
	return key, strings.TrimSpace(value), true
}

func (g *Game) promptTag() {
	r := g.selected()
	if r == nil {
		return
	}
	g.prompt = newPrompt("Set tag KEY=VALUE (empty value removes):", "", func(text string) {
		key, value, ok := parseTagEdit(text)
		if !ok {
			g.setStatus("Expected KEY=VALUE")
			return
		}
		g.handleOutcome(g.engine.EditTags(map[string]string{key: value}), image.Point{})
		if desc, known := region.DescribeTag(key); known {
			g.setStatus(key + ": " + desc)
		}
	}, nil)
}

func (g *Game) undo() {
	if g.engine.Undo() == edit.OutcomeUndone {
		g.modified = true
		g.setStatus("Undone")
	} else {
		g.setStatus("Nothing to undo")
	}
}

func (g *Game) copyRegion() {
	r := g.selected()
	if r == nil {
		return
	}
	if err := clipboard.WriteAll(dfnfile.FormatRegion(g.engine.SelectedIndex()+1, r)); err != nil {
		g.showError(fmt.Errorf("clipboard: %w", err))
		return
	}
	g.setStatus("Copied " + r.Name)
}

func (g *Game) requestQuit() {
	if g.modified && !dialog.Message("Discard unsaved changes?").Title(title).YesNo() {
		return
	}
	g.quit = true
}

// Files

func (g *Game) openDialog() {
	if g.modified && !dialog.Message("Discard unsaved changes?").Title(title).YesNo() {
		return
	}
	path, err := dialog.File().Title("Open regions").Filter("Region files", "dfn", "json").SetStartDir(g.settings.LastDir).Load()
	if errors.Is(err, dialog.ErrCancelled) {
		return
	}
	if err != nil {
		g.showError(err)
		return
	}
	if err := g.loadFile(path); err != nil {
		g.showError(err)
	}
}

func (g *Game) mapDialog() {
	path, err := dialog.File().Title("Open map image").Filter("Images", "png", "jpg", "jpeg", "bmp", "gif").SetStartDir(g.settings.LastDir).Load()
	if errors.Is(err, dialog.ErrCancelled) {
		return
	}
	if err != nil {
		g.showError(err)
		return
	}
	if err := g.loadMap(path); err != nil {
		g.showError(err)
		return
	}
	g.fitView()
}

// loadFile replaces the model with the regions in path. On error the
// current model is kept.
func (g *Game) loadFile(path string) error {
	res, err := dfnfile.Open(path)
	if err != nil {
		return err
	}
	region.ApplyHidden(res.Regions, g.settings.HiddenRegions)
	g.engine.SetRegions(res.Regions)
	g.filename = path
	g.modified = false
	g.scroll = 0
	log.Printf("loaded %s: %d regions, %d dropped", path, len(res.Regions), len(res.Dropped))

	g.setStatus(fmt.Sprintf("Loaded %d regions", len(res.Regions)))
	if len(res.Dropped) > 0 {
		g.setStatus(fmt.Sprintf("Loaded %d regions (%d from other worlds skipped)", len(res.Regions), len(res.Dropped)))
	}
	ebiten.SetWindowTitle(title + " - " + filepath.Base(path))
	g.saveSettings()
	return nil
}

// loadMap shows the image at path under the regions. The view keeps its
// zoom and adopts the new image size.
func (g *Game) loadMap(path string) error {
	img, err := mapimage.Load(path, g.settings.MaxImageDimension)
	if err != nil {
		return err
	}
	g.mapSrc = img
	g.mapImg = ebiten.NewImageFromImage(img)
	g.mapPath = path

	v := g.engine.View()
	b := img.Bounds()
	v.ImageWidth, v.ImageHeight = b.Dx(), b.Dy()
	g.engine.SetView(v)
	g.saveSettings()
	return nil
}

func (g *Game) save(as bool) {
	path := g.filename
	if as || path == "" {
		p, err := dialog.File().Title("Save regions").Filter("DFN files", "dfn").Filter("JSON files", "json").SetStartDir(g.settings.LastDir).Save()
		if errors.Is(err, dialog.ErrCancelled) {
			return
		}
		if err != nil {
			g.showError(err)
			return
		}
		if filepath.Ext(p) == "" {
			p += ".dfn"
		}
		path = p
	}
	if err := dfnfile.Save(path, g.engine.Regions(), true); err != nil {
		g.showError(err)
		return
	}
	g.filename = path
	g.modified = false
	g.saveSettings()
	ebiten.SetWindowTitle(title + " - " + filepath.Base(path))
	g.setStatus("Saved " + filepath.Base(path))
}

// export renders an overview in the configured format.
func (g *Game) export() {
	ext := g.settings.ExportFormat
	p, err := dialog.File().Title("Export overview").Filter(strings.ToUpper(ext)+" images", ext).SetStartDir(g.settings.LastDir).Save()
	if errors.Is(err, dialog.ErrCancelled) {
		return
	}
	if err != nil {
		g.showError(err)
		return
	}
	if filepath.Ext(p) == "" {
		p += "." + ext
	}
	if err := renderOverview(p, g.engine.Regions(), g.mapSrc, g.mapPath); err != nil {
		g.showError(err)
		return
	}
	g.setStatus("Exported " + filepath.Base(p))
}

// saveSettings persists paths and hidden regions.
func (g *Game) saveSettings() {
	s := g.settings
	s.HiddenRegions = region.HiddenNames(g.engine.Regions())
	s.MapPath = g.mapPath
	if g.filename != "" {
		if abs, err := filepath.Abs(g.filename); err == nil {
			s.RegionPath = abs
			s.LastDir = filepath.Dir(abs)
		}
	}
	if err := s.Save(); err != nil {
		log.Printf("%v", err)
	}
}
