package main

import (
	"image"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/atlas-toolkit/pkg/dfnfile"
	"github.com/ha1tch/atlas-toolkit/pkg/edit"
	"github.com/ha1tch/atlas-toolkit/pkg/region"
	"github.com/ha1tch/atlas-toolkit/pkg/settings"
	"github.com/ha1tch/atlas-toolkit/pkg/view"
)

// TestFlashPhaseCalculation verifies the phase logic for message flashing
func TestFlashPhaseCalculation(t *testing.T) {
	// normal(0-125) -> inverted(125-250) -> normal(250-375) -> inverted(375-500) -> normal(500+)
	tests := []struct {
		elapsed      int64
		wantInverted bool
		description  string
	}{
		{-5, false, "clock skew - normal"},
		{0, false, "start of flash - normal"},
		{124, false, "end of phase 0 - normal"},
		{125, true, "start of phase 1 - inverted"},
		{249, true, "end of phase 1 - inverted"},
		{250, false, "start of phase 2 - normal"},
		{375, true, "start of phase 3 - inverted"},
		{499, true, "end of phase 3 - inverted"},
		{500, false, "after flash period - normal"},
		{1000, false, "long after flash - normal"},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			if got := flashInverted(tt.elapsed); got != tt.wantInverted {
				t.Errorf("elapsed=%d: got inverted=%v, want %v", tt.elapsed, got, tt.wantInverted)
			}
		})
	}
}

// TestFlashMessageTypes verifies which message types should flash
func TestFlashMessageTypes(t *testing.T) {
	tests := []struct {
		msgType     MessageType
		shouldFlash bool
	}{
		{MsgInfo, false},
		{MsgError, true},
		{MsgSuccess, true},
		{MsgWarning, true},
	}
	for _, tt := range tests {
		if got := shouldFlash(tt.msgType); got != tt.shouldFlash {
			t.Errorf("shouldFlash(%d) = %v, want %v", tt.msgType, got, tt.shouldFlash)
		}
	}
}

func TestPointerButton(t *testing.T) {
	tests := []struct {
		mask tcell.ButtonMask
		want edit.Button
	}{
		{tcell.ButtonNone, edit.ButtonNone},
		{tcell.Button1, edit.ButtonLeft},
		{tcell.Button2, edit.ButtonRight},
		{tcell.Button3, edit.ButtonMiddle},
		{tcell.Button1 | tcell.Button3, edit.ButtonLeft},
		{tcell.WheelUp, edit.ButtonNone},
	}
	for _, tt := range tests {
		if got := pointerButton(tt.mask); got != tt.want {
			t.Errorf("pointerButton(%v) = %v, want %v", tt.mask, got, tt.want)
		}
	}
	if got := pointerMods(tcell.ModShift | tcell.ModAlt); got != edit.ModShift|edit.ModAlt {
		t.Errorf("pointerMods = %v", got)
	}
}

func TestCellSource(t *testing.T) {
	v := view.View{ImageWidth: 100, ImageHeight: 50, Zoom: 0.5, Pan: image.Pt(10, 0)}
	b := image.Rect(0, 0, 400, 200)

	if _, ok := cellSource(v, b, 9, 0); ok {
		t.Error("cell left of the image should be outside")
	}
	if _, ok := cellSource(v, b, 10+50, 0); ok {
		t.Error("cell past the scaled image width should be outside")
	}
	// one cell = 2 virtual pixels = 8 image pixels
	got, ok := cellSource(v, b, 11, 1)
	if !ok {
		t.Fatal("cell inside the image reported outside")
	}
	if want := image.Rect(8, 8, 16, 16); got != want {
		t.Errorf("cellSource = %v, want %v", got, want)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"Britain", 10, "Britain"},
		{"Britain", 7, "Britain"},
		{"Britain", 6, "Bri..."},
		{"Britain", 2, "Br"},
		{"Britain", 0, ""},
		{"Ménagerie", 5, "Mé..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

// Editor tests run against a simulated 120×40 terminal. At zoom 0.1 one
// cell is 40 map units, so Britain (400,400)-(2000,1200) spans cells
// (10,10)-(50,30).

func britain() *region.Region {
	r := region.New("Britain")
	r.SetTag("NAME", "Britain")
	r.AddRect(region.NewRect(400, 400, 2000, 1200))
	return r
}

func newTestEditor(t *testing.T, regions ...*region.Region) *Editor {
	t.Helper()
	s, err := settings.Load(filepath.Join(t.TempDir(), "settings.json"))
	if err != nil {
		t.Fatal(err)
	}
	screen := tcell.NewSimulationScreen("")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	screen.SetSize(120, 40)
	t.Cleanup(screen.Fini)

	ed := newEditor(s)
	ed.screen = screen
	ed.engine.SetRegions(regions)
	ed.engine.SetView(view.View{ImageWidth: VirtualWidth, ImageHeight: VirtualHeight, Zoom: 0.1})
	return ed
}

func mouse(ed *Editor, x, y int, buttons tcell.ButtonMask, mods tcell.ModMask) {
	ed.handleMouse(tcell.NewEventMouse(x, y, buttons, mods))
}

func drag(ed *Editor, from, to image.Point, mods tcell.ModMask) {
	mouse(ed, from.X, from.Y, tcell.Button1, mods)
	mouse(ed, to.X, to.Y, tcell.Button1, mods)
	mouse(ed, to.X, to.Y, tcell.ButtonNone, mods)
}

func key(ed *Editor, k tcell.Key) bool {
	return ed.handleKey(tcell.NewEventKey(k, 0, tcell.ModNone))
}

func typeText(ed *Editor, s string) {
	for _, r := range s {
		ed.handleKey(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
}

func TestDragMovesRegion(t *testing.T) {
	ed := newTestEditor(t, britain())
	drag(ed, image.Pt(30, 20), image.Pt(34, 20), tcell.ModNone)

	got := ed.engine.Regions()[0].Bounds[0]
	if want := region.NewRect(560, 400, 2160, 1200); got != want {
		t.Errorf("bounds = %v, want %v", got, want)
	}
	if !ed.modified {
		t.Error("move should mark the file modified")
	}
	if ed.engine.State() != edit.StateIdle || ed.down != edit.ButtonNone {
		t.Errorf("gesture not finished: state %v, down %v", ed.engine.State(), ed.down)
	}

	// Ctrl+Z restores the rectangle
	key(ed, tcell.KeyCtrlZ)
	if got := ed.engine.Regions()[0].Bounds[0]; got != region.NewRect(400, 400, 2000, 1200) {
		t.Errorf("after undo bounds = %v", got)
	}
}

func TestDragCornerResizes(t *testing.T) {
	ed := newTestEditor(t, britain())
	ed.engine.Select(0)
	drag(ed, image.Pt(50, 30), image.Pt(60, 35), tcell.ModNone)

	if got, want := ed.engine.Regions()[0].Bounds[0], region.NewRect(400, 400, 2400, 1400); got != want {
		t.Errorf("bounds = %v, want %v", got, want)
	}
}

func TestShiftDragCreatesRegion(t *testing.T) {
	ed := newTestEditor(t, britain())
	drag(ed, image.Pt(60, 5), image.Pt(70, 15), tcell.ModShift)

	if ed.mode != ModeInput || ed.inputBuffer != "New Region" {
		t.Fatalf("mode %v buffer %q, want name prompt", ed.mode, ed.inputBuffer)
	}
	key(ed, tcell.KeyEnter)

	regions := ed.engine.Regions()
	if len(regions) != 2 {
		t.Fatalf("got %d regions, want 2", len(regions))
	}
	r := regions[1]
	if r.Name != "New Region" {
		t.Errorf("name = %q", r.Name)
	}
	if want := region.NewRect(2400, 200, 2800, 600); r.Bounds[0] != want {
		t.Errorf("bounds = %v, want %v", r.Bounds[0], want)
	}
	if ed.mode != ModeCanvas {
		t.Errorf("mode = %v after naming", ed.mode)
	}
}

func TestArmedDragCancelled(t *testing.T) {
	ed := newTestEditor(t, britain())
	typeText(ed, "n")
	if !ed.createArmed {
		t.Fatal("n should arm region drawing")
	}
	drag(ed, image.Pt(60, 5), image.Pt(70, 15), tcell.ModNone)
	if ed.mode != ModeInput {
		t.Fatalf("mode = %v, want name prompt", ed.mode)
	}
	key(ed, tcell.KeyEscape)

	if n := len(ed.engine.Regions()); n != 1 {
		t.Errorf("got %d regions after cancel", n)
	}
	if _, ok := ed.engine.Preview(); ok {
		t.Error("preview should be gone after cancel")
	}
	if ed.createArmed {
		t.Error("drawing should disarm after one region")
	}
}

func TestTinyDragRejected(t *testing.T) {
	ed := newTestEditor(t)
	drag(ed, image.Pt(60, 5), image.Pt(60, 5), tcell.ModShift)
	if ed.mode != ModeCanvas || len(ed.engine.Regions()) != 0 {
		t.Errorf("mode %v, %d regions", ed.mode, len(ed.engine.Regions()))
	}
	if ed.messageType != MsgWarning {
		t.Errorf("message %q type %v, want warning", ed.message, ed.messageType)
	}
}

func TestDeleteAsksFirst(t *testing.T) {
	ed := newTestEditor(t, britain())
	ed.engine.Select(0)

	key(ed, tcell.KeyDelete)
	if ed.mode != ModeConfirm {
		t.Fatalf("mode = %v, want confirm", ed.mode)
	}
	typeText(ed, "n")
	if len(ed.engine.Regions()) != 1 {
		t.Fatal("region deleted without confirmation")
	}

	key(ed, tcell.KeyDelete)
	typeText(ed, "y")
	if len(ed.engine.Regions()) != 0 {
		t.Error("region not deleted after y")
	}
}

func TestRightClickOpensMenu(t *testing.T) {
	ed := newTestEditor(t, britain())
	mouse(ed, 30, 20, tcell.Button2, tcell.ModNone)
	mouse(ed, 30, 20, tcell.ButtonNone, tcell.ModNone)
	if ed.mode != ModeCanvas {
		t.Fatalf("menu opened without a selection")
	}

	ed.engine.Select(0)
	mouse(ed, 30, 20, tcell.Button2, tcell.ModNone)
	mouse(ed, 30, 20, tcell.ButtonNone, tcell.ModNone)
	if ed.mode != ModeMenu {
		t.Fatalf("mode = %v, want menu", ed.mode)
	}
	key(ed, tcell.KeyEnter) // Rename
	if ed.mode != ModeInput || ed.inputBuffer != "Britain" {
		t.Errorf("mode %v buffer %q, want rename prompt", ed.mode, ed.inputBuffer)
	}
}

func TestRenamePrompt(t *testing.T) {
	ed := newTestEditor(t, britain())
	ed.engine.Select(0)

	typeText(ed, "r")
	key(ed, tcell.KeyCtrlU)
	typeText(ed, "  Trinsic ")
	key(ed, tcell.KeyEnter)

	if got := ed.engine.Regions()[0].Name; got != "Trinsic" {
		t.Errorf("name = %q, want Trinsic", got)
	}
	if !ed.modified {
		t.Error("rename should mark the file modified")
	}
}

func TestTagEditor(t *testing.T) {
	ed := newTestEditor(t, britain())
	ed.engine.Select(0)
	typeText(ed, "t")
	if ed.mode != ModeTags {
		t.Fatalf("mode = %v, want tags", ed.mode)
	}

	for i, row := range ed.tagRows {
		if row.Key == "GUARDED" {
			ed.tagSelected = i
		}
	}
	key(ed, tcell.KeyEnter)
	typeText(ed, "1")
	key(ed, tcell.KeyEnter)
	if ed.mode != ModeTags {
		t.Fatalf("mode = %v, want back in tag editor", ed.mode)
	}

	typeText(ed, "n")
	typeText(ed, "spawnrate=5")
	key(ed, tcell.KeyEnter)
	typeText(ed, "s")

	r := ed.engine.Regions()[0]
	if v, _ := r.Tag("GUARDED"); v != "1" {
		t.Errorf("GUARDED = %q", v)
	}
	if v, _ := r.Tag("SPAWNRATE"); v != "5" {
		t.Errorf("SPAWNRATE = %q", v)
	}
	if !region.GroupTowns.Matches(r) {
		t.Error("guarded region should be a town")
	}
}

func TestSidebarCheckboxHides(t *testing.T) {
	ed := newTestEditor(t, britain(), region.New("Yew"))
	cw, _ := ed.canvasSize()

	mouse(ed, cw+2, sidebarListTop, tcell.Button1, tcell.ModNone)
	mouse(ed, cw+2, sidebarListTop, tcell.ButtonNone, tcell.ModNone)
	if ed.engine.Regions()[0].Visible {
		t.Error("checkbox click should hide the region")
	}
	if !reflect.DeepEqual(ed.settings.HiddenRegions, []string{"Britain"}) {
		t.Errorf("HiddenRegions = %v", ed.settings.HiddenRegions)
	}

	// hidden regions are not hit on the canvas
	drag(ed, image.Pt(30, 20), image.Pt(34, 20), tcell.ModNone)
	if got := ed.engine.Regions()[0].Bounds[0]; got != region.NewRect(400, 400, 2000, 1200) {
		t.Errorf("hidden region moved to %v", got)
	}

	// clicking the name selects
	mouse(ed, cw+10, sidebarListTop+1, tcell.Button1, tcell.ModNone)
	if ed.engine.SelectedIndex() != 1 {
		t.Errorf("selected = %d, want 1", ed.engine.SelectedIndex())
	}
}

func TestSearchFiltersSidebar(t *testing.T) {
	ed := newTestEditor(t, britain(), region.New("Yew"), region.New("Britain Docks"))
	typeText(ed, "/")
	typeText(ed, "brit")
	key(ed, tcell.KeyEnter)

	entries := ed.entries()
	if len(entries) != 2 || entries[0].Index != 0 || entries[1].Index != 2 {
		t.Errorf("entries = %+v", entries)
	}
}

func TestSaveAndQuit(t *testing.T) {
	ed := newTestEditor(t, britain())
	path := filepath.Join(t.TempDir(), "regions.dfn")
	ed.filename = path

	drag(ed, image.Pt(30, 20), image.Pt(34, 20), tcell.ModNone)
	if key(ed, tcell.KeyCtrlQ) {
		t.Fatal("quit with unsaved changes should ask first")
	}
	if ed.mode != ModeConfirm {
		t.Fatalf("mode = %v, want confirm", ed.mode)
	}
	typeText(ed, "n")

	key(ed, tcell.KeyCtrlS)
	if ed.modified {
		t.Error("save should clear the modified flag")
	}
	res, err := dfnfile.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Regions) != 1 || res.Regions[0].Bounds[0] != region.NewRect(560, 400, 2160, 1200) {
		t.Errorf("saved regions = %v", res.Regions)
	}
	if ed.settings.RegionPath == "" {
		t.Error("region path not remembered")
	}

	if !ed.handleKey(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)) {
		t.Error("q should quit when saved")
	}
}

func TestDrawDoesNotPanic(t *testing.T) {
	ed := newTestEditor(t, britain())
	ed.engine.Select(0)
	for _, m := range []Mode{ModeCanvas, ModeMenu, ModeInput, ModeConfirm, ModeTags, ModeHelp} {
		if m == ModeTags {
			ed.openTagEditor()
		}
		if m == ModeMenu {
			ed.openMenu()
		}
		ed.mode = m
		ed.draw()
	}
}
