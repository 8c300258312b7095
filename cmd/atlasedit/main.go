// Command atlasedit is a TUI editor for DFN region files.
//
// Each terminal cell is one viewport pixel over a virtual map image. A map
// image, when given, colours the cells it covers.
package main

import (
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/ha1tch/atlas-toolkit/pkg/dfnfile"
	"github.com/ha1tch/atlas-toolkit/pkg/edit"
	"github.com/ha1tch/atlas-toolkit/pkg/mapimage"
	"github.com/ha1tch/atlas-toolkit/pkg/region"
	"github.com/ha1tch/atlas-toolkit/pkg/settings"
	"github.com/ha1tch/atlas-toolkit/pkg/view"
)

// Virtual image the viewport shows, in cells at 100% zoom.
const (
	VirtualWidth  = dfnfile.DefaultOverviewWidth
	VirtualHeight = dfnfile.DefaultOverviewHeight
)

// Mode represents editor mode
type Mode int

const (
	ModeCanvas Mode = iota
	ModeMenu        // region context menu
	ModeInput
	ModeConfirm
	ModeTags
	ModeHelp
)

// MessageType for status messages
type MessageType int

const (
	MsgInfo    MessageType = iota // Informative, no flash
	MsgError                      // Errors, flash
	MsgSuccess                    // State changes, flash
	MsgWarning                    // Warnings, flash
)

// Editor holds all editor state
type Editor struct {
	screen      tcell.Screen
	engine      *edit.Engine
	settings    *settings.Settings
	filename    string
	modified    bool
	mode        Mode
	message     string
	messageType MessageType

	mapImage image.Image
	mapPath  string

	// Pointer state
	down        edit.Button
	createArmed bool // next left drag draws a region

	// Sidebar
	sidebarWidth  int
	sidebarScroll int
	search        string
	group         region.Group

	// Context menu
	menuItems    []string
	menuSelected int

	// Input prompt
	inputBuffer string
	inputPrompt string
	inputAction func(string)
	inputCancel func()
	inputReturn Mode

	// Confirmation
	confirmPrompt string
	confirmAction func()

	// Tag editor
	tagRows     []region.TagEdit
	tagSelected int
	tagScroll   int
	tagEdits    map[string]string

	helpScrollOffset int
	quitting         bool

	// Message flash state
	messageFlashStart int64 // Unix milliseconds when message was shown
}

var contextMenu = []string{"Rename", "Delete", "Edit Tags", "Copy", "Centre"}

func main() {
	var mapPath, settingsPath, logPath string
	cmd := &cobra.Command{
		Use:           "atlasedit [regions.dfn]",
		Short:         "Terminal editor for DFN region files",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := settings.LoadDotEnv(); err != nil {
				return err
			}
			s, err := settings.Load(settingsPath)
			if err != nil {
				return err
			}
			if logPath == "" {
				logPath = s.LogFile
			}
			closeLog, err := setupLog(logPath)
			if err != nil {
				return err
			}
			defer closeLog()

			ed := newEditor(s)
			file := s.RegionPath
			if len(args) > 0 {
				file = args[0]
			}
			if mapPath == "" {
				mapPath = s.MapPath
			}
			if mapPath != "" {
				if err := ed.loadMap(mapPath); err != nil {
					if cmd.Flags().Changed("map") {
						return err
					}
					log.Printf("skipping saved map: %v", err)
				}
			}
			if file != "" {
				if err := ed.loadFile(file); err != nil {
					if len(args) > 0 {
						return err
					}
					log.Printf("skipping saved region file: %v", err)
				}
			}
			return ed.start()
		},
	}
	cmd.Flags().StringVar(&mapPath, "map", "", "map image shown under the regions")
	cmd.Flags().StringVar(&settingsPath, "settings", "", "settings file (default "+settings.DefaultPath()+")")
	cmd.Flags().StringVar(&logPath, "log", "", "write diagnostics to this file")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setupLog sends the standard logger to path, or discards it. The terminal
// belongs to the screen while the editor runs.
func setupLog(path string) (func(), error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("log %s: %w", path, err)
	}
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return func() { f.Close() }, nil
}

func newEditor(s *settings.Settings) *Editor {
	ed := &Editor{
		engine:       edit.New(nil, view.New(VirtualWidth, VirtualHeight)),
		settings:     s,
		sidebarWidth: 32,
		group:        region.GroupAll,
		inputReturn:  ModeCanvas,
	}
	return ed
}

func (ed *Editor) start() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	screen.EnableMouse()
	screen.Clear()
	ed.screen = screen
	ed.fitView()

	ed.run()

	screen.Fini()
	return nil
}

func (ed *Editor) run() {
	// Periodic refresh while a message is flashing
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for range ticker.C {
			if ed.message != "" && ed.messageFlashStart > 0 {
				elapsed := time.Now().UnixMilli() - ed.messageFlashStart
				if elapsed >= 0 && elapsed < 700 {
					ed.screen.PostEvent(tcell.NewEventInterrupt(nil))
				}
			}
		}
	}()

	for {
		ed.draw()
		ed.screen.Show()

		ev := ed.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			ed.screen.Sync()
		case *tcell.EventKey:
			if ed.handleKey(ev) {
				return
			}
		case *tcell.EventMouse:
			ed.handleMouse(ev)
		case *tcell.EventInterrupt:
			// Refresh for flash animation
		}
	}
}

// canvasSize returns the viewport area left of the sidebar, above the
// help and status bars.
func (ed *Editor) canvasSize() (int, int) {
	w, h := ed.screen.Size()
	return max(0, w-ed.sidebarWidth), max(0, h-2)
}

// fitView zooms so the whole virtual image fits the canvas, centred.
func (ed *Editor) fitView() {
	cw, ch := ed.canvasSize()
	z := min(1, float64(cw)/VirtualWidth, float64(ch)/VirtualHeight)
	v := ed.engine.View()
	v.Zoom = view.ClampZoom(z)
	v = v.CenterOn(view.PointF{X: region.MapWidth / 2, Y: region.MapHeight / 2}, cw, ch)
	ed.engine.SetView(v)
}

func (ed *Editor) handleKey(ev *tcell.EventKey) bool {
	// Global shortcuts (Ctrl or Cmd on macOS)
	mod := ev.Modifiers()
	isCtrlOrCmd := func(key tcell.Key, r rune) bool {
		if ev.Key() == key {
			return true
		}
		if mod&tcell.ModMeta != 0 && ev.Rune() == r {
			return true
		}
		if mod&tcell.ModAlt != 0 && ev.Rune() == r {
			return true
		}
		return false
	}

	if ed.mode == ModeCanvas {
		if isCtrlOrCmd(tcell.KeyCtrlS, 's') {
			ed.save()
			return false
		}
		if isCtrlOrCmd(tcell.KeyCtrlO, 'o') {
			ed.promptOpen()
			return false
		}
		if isCtrlOrCmd(tcell.KeyCtrlZ, 'z') {
			ed.undo()
			return false
		}
		if isCtrlOrCmd(tcell.KeyCtrlC, 'c') {
			ed.copyToClipboard()
			return false
		}
		if isCtrlOrCmd(tcell.KeyCtrlQ, 'q') {
			return ed.quit()
		}
	}

	switch ed.mode {
	case ModeCanvas:
		return ed.handleCanvasKey(ev)
	case ModeMenu:
		ed.handleMenuKey(ev)
	case ModeInput:
		ed.handleInputKey(ev)
	case ModeConfirm:
		return ed.handleConfirmKey(ev)
	case ModeTags:
		ed.handleTagKey(ev)
	case ModeHelp:
		ed.handleHelpKey(ev)
	}
	return false
}

func (ed *Editor) handleCanvasKey(ev *tcell.EventKey) bool {
	cw, ch := ed.canvasSize()
	centre := image.Pt(cw/2, ch/2)

	switch ev.Key() {
	case tcell.KeyDelete, tcell.KeyBackspace, tcell.KeyBackspace2:
		ed.confirmDelete()
	case tcell.KeyEscape:
		ed.createArmed = false
		ed.engine.Select(-1)
	case tcell.KeyEnter:
		if !ed.engine.CenterOnSelection(cw, ch) {
			ed.showMessage("No region selected", MsgInfo)
		}
	case tcell.KeyTab:
		ed.selectNext(1)
	case tcell.KeyBacktab:
		ed.selectNext(-1)
	case tcell.KeyUp:
		ed.pan(0, 4)
	case tcell.KeyDown:
		ed.pan(0, -4)
	case tcell.KeyLeft:
		ed.pan(4, 0)
	case tcell.KeyRight:
		ed.pan(-4, 0)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return ed.quit()
		case '+', '=':
			ed.engine.ZoomStep(centre, 1)
		case '-', '_':
			ed.engine.ZoomStep(centre, -1)
		case '0':
			ed.fitView()
		case 'r':
			ed.promptRename()
		case 't':
			ed.openTagEditor()
		case 'c':
			ed.copyToClipboard()
		case 'n':
			ed.createArmed = !ed.createArmed
			if ed.createArmed {
				ed.showMessage("Drag to draw a new region", MsgInfo)
			}
		case 'a':
			if ed.engine.ToggleAll() {
				ed.showMessage("All regions shown", MsgInfo)
			} else {
				ed.showMessage("All regions hidden", MsgInfo)
			}
			ed.saveSettings()
		case 'g':
			ed.cycleGroup()
		case '/':
			ed.promptSearch()
		case 'm':
			ed.promptMap()
		case 'e':
			ed.export()
		case 'h', '?':
			ed.mode = ModeHelp
		}
	}
	return false
}

func (ed *Editor) pan(dx, dy int) {
	ed.engine.SetView(ed.engine.View().Translate(image.Pt(dx, dy)))
}

func (ed *Editor) quit() bool {
	if !ed.modified {
		return true
	}
	ed.confirm("Discard unsaved changes and quit? (y/n)", func() { ed.quitting = true })
	return false
}

// selectNext moves the selection through the sidebar list.
func (ed *Editor) selectNext(step int) {
	entries := ed.entries()
	if len(entries) == 0 {
		return
	}
	cur := ed.engine.SelectedIndex()
	pos := -1
	for i, e := range entries {
		if e.Index == cur {
			pos = i
			break
		}
	}
	pos = (pos + step + len(entries)) % len(entries)
	ed.selectEntry(entries[pos].Index)
}

func (ed *Editor) selectEntry(i int) {
	ed.engine.Select(i)
	cw, ch := ed.canvasSize()
	ed.engine.CenterOnSelection(cw, ch)
	ed.scrollToSelection()
}

func (ed *Editor) cycleGroup() {
	groups := region.Groups()
	for i, g := range groups {
		if g == ed.group {
			ed.group = groups[(i+1)%len(groups)]
			break
		}
	}
	ed.sidebarScroll = 0
	ed.showMessage("Group: "+string(ed.group), MsgInfo)
}

func (ed *Editor) handleMenuKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		ed.mode = ModeCanvas
	case tcell.KeyUp:
		if ed.menuSelected > 0 {
			ed.menuSelected--
		}
	case tcell.KeyDown:
		if ed.menuSelected < len(ed.menuItems)-1 {
			ed.menuSelected++
		}
	case tcell.KeyEnter:
		ed.mode = ModeCanvas
		ed.executeMenuItem()
	}
}

func (ed *Editor) openMenu() {
	ed.menuItems = contextMenu
	ed.menuSelected = 0
	ed.mode = ModeMenu
}

func (ed *Editor) executeMenuItem() {
	switch ed.menuItems[ed.menuSelected] {
	case "Rename":
		ed.promptRename()
	case "Delete":
		ed.confirmDelete()
	case "Edit Tags":
		ed.openTagEditor()
	case "Copy":
		ed.copyToClipboard()
	case "Centre":
		cw, ch := ed.canvasSize()
		ed.engine.CenterOnSelection(cw, ch)
	}
}

// prompt opens the input box. cancel may be nil.
func (ed *Editor) prompt(label, initial string, action func(string), cancel func()) {
	ed.inputReturn = ed.mode
	if ed.inputReturn == ModeInput || ed.inputReturn == ModeMenu {
		ed.inputReturn = ModeCanvas
	}
	ed.inputPrompt = label
	ed.inputBuffer = initial
	ed.inputAction = action
	ed.inputCancel = cancel
	ed.mode = ModeInput
}

func (ed *Editor) handleInputKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		ed.mode = ed.inputReturn
		if ed.inputCancel != nil {
			ed.inputCancel()
		}
		ed.inputBuffer = ""
	case tcell.KeyEnter:
		action, text := ed.inputAction, ed.inputBuffer
		ed.mode = ed.inputReturn
		ed.inputBuffer = ""
		if action != nil {
			action(text)
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(ed.inputBuffer) > 0 {
			r := []rune(ed.inputBuffer)
			ed.inputBuffer = string(r[:len(r)-1])
		}
	case tcell.KeyCtrlU:
		ed.inputBuffer = ""
	case tcell.KeyRune:
		ed.inputBuffer += string(ev.Rune())
	}
}

func (ed *Editor) confirm(label string, action func()) {
	ed.confirmPrompt = label
	ed.confirmAction = action
	ed.mode = ModeConfirm
}

// handleConfirmKey runs the pending action on y. It returns true when the
// action asked the editor to quit.
func (ed *Editor) handleConfirmKey(ev *tcell.EventKey) bool {
	ed.mode = ModeCanvas
	if ev.Key() != tcell.KeyRune || (ev.Rune() != 'y' && ev.Rune() != 'Y') {
		ed.showMessage("Cancelled", MsgInfo)
		return false
	}
	if ed.confirmAction == nil {
		return false
	}
	ed.confirmAction()
	return ed.quitting
}

// Region commands

func (ed *Editor) selected() *region.Region {
	sel := ed.engine.Selection()
	if sel.Region == nil {
		ed.showMessage("No region selected", MsgInfo)
	}
	return sel.Region
}

func (ed *Editor) promptRename() {
	r := ed.selected()
	if r == nil {
		return
	}
	ed.prompt("Rename region: ", r.Name, func(name string) {
		ed.applyOutcome(ed.engine.Rename(name))
	}, nil)
}

func (ed *Editor) confirmDelete() {
	r := ed.selected()
	if r == nil {
		return
	}
	ed.confirm(fmt.Sprintf("Delete region %q? (y/n)", r.Name), func() {
		ed.applyOutcome(ed.engine.Delete())
	})
}

func (ed *Editor) undo() {
	if ed.engine.Undo() == edit.OutcomeUndone {
		ed.modified = true
		ed.showMessage("Undone", MsgSuccess)
	} else {
		ed.showMessage("Nothing to undo", MsgInfo)
	}
}

func (ed *Editor) copyToClipboard() {
	r := ed.selected()
	if r == nil {
		return
	}
	n := ed.engine.SelectedIndex() + 1
	if err := clipboard.WriteAll(dfnfile.FormatRegion(n, r)); err != nil {
		log.Printf("clipboard: %v", err)
		ed.showMessage("Clipboard error: "+err.Error(), MsgError)
		return
	}
	ed.showMessage(fmt.Sprintf("Copied %s to clipboard", r.Name), MsgSuccess)
}

// applyOutcome reports a gesture or command result and opens any prompt
// it calls for.
func (ed *Editor) applyOutcome(o edit.Outcome) {
	if o.Mutated() {
		ed.modified = true
		log.Printf("edit: %s", o)
	}
	switch o {
	case edit.OutcomeNeedsName:
		ed.createArmed = false
		ed.prompt("New region name: ", "New Region", func(name string) {
			ed.applyOutcome(ed.engine.CommitCreate(name))
		}, func() {
			ed.engine.CancelCreate()
		})
	case edit.OutcomeTooSmall:
		ed.showMessage(fmt.Sprintf("Region too small (minimum %d×%d)", edit.MinCreateSize, edit.MinCreateSize), MsgWarning)
	case edit.OutcomeMenu:
		ed.openMenu()
	case edit.OutcomeCreated:
		ed.showMessage("Region created", MsgSuccess)
		ed.scrollToSelection()
	case edit.OutcomeCancelled:
		ed.showMessage("Cancelled", MsgInfo)
	case edit.OutcomeRenamed:
		ed.showMessage("Region renamed", MsgSuccess)
	case edit.OutcomeDeleted:
		ed.showMessage("Region deleted", MsgSuccess)
	case edit.OutcomeTagsEdited:
		ed.showMessage("Tags updated", MsgSuccess)
	}
}

// Tag editor

func (ed *Editor) openTagEditor() {
	r := ed.selected()
	if r == nil {
		return
	}
	ed.tagRows = region.EditableTags(r)
	ed.tagSelected = 0
	ed.tagScroll = 0
	ed.tagEdits = make(map[string]string)
	ed.mode = ModeTags
}

// tagValue returns the value shown for a row, including pending edits.
func (ed *Editor) tagValue(row region.TagEdit) string {
	if v, ok := ed.tagEdits[row.Key]; ok {
		return v
	}
	return row.Value
}

func (ed *Editor) handleTagKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		ed.mode = ModeCanvas
		ed.tagEdits = nil
		ed.showMessage("Tag edits discarded", MsgInfo)
	case tcell.KeyUp:
		if ed.tagSelected > 0 {
			ed.tagSelected--
		}
	case tcell.KeyDown:
		if ed.tagSelected < len(ed.tagRows)-1 {
			ed.tagSelected++
		}
	case tcell.KeyPgUp:
		ed.tagSelected = max(0, ed.tagSelected-10)
	case tcell.KeyPgDn:
		ed.tagSelected = min(len(ed.tagRows)-1, ed.tagSelected+10)
	case tcell.KeyEnter:
		ed.editTagRow()
	case tcell.KeyDelete:
		if row, ok := ed.currentTagRow(); ok {
			ed.tagEdits[row.Key] = ""
		}
	case tcell.KeyCtrlS:
		ed.commitTags()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'n':
			ed.prompt("New tag (KEY=VALUE): ", "", ed.addCustomTag, nil)
		case 's':
			ed.commitTags()
		}
	}
}

func (ed *Editor) currentTagRow() (region.TagEdit, bool) {
	if ed.tagSelected < 0 || ed.tagSelected >= len(ed.tagRows) {
		return region.TagEdit{}, false
	}
	return ed.tagRows[ed.tagSelected], true
}

func (ed *Editor) editTagRow() {
	row, ok := ed.currentTagRow()
	if !ok {
		return
	}
	ed.prompt(row.Key+"=", ed.tagValue(row), func(v string) {
		ed.tagEdits[row.Key] = v
	}, nil)
}

func (ed *Editor) addCustomTag(text string) {
	key, value, ok := strings.Cut(text, "=")
	key = strings.ToUpper(strings.TrimSpace(key))
	if !ok || key == "" {
		ed.showMessage("Expected KEY=VALUE", MsgError)
		return
	}
	for i, row := range ed.tagRows {
		if row.Key == key {
			ed.tagSelected = i
			ed.tagEdits[key] = strings.TrimSpace(value)
			return
		}
	}
	ed.tagRows = append(ed.tagRows, region.TagEdit{Key: key, Description: "(Custom Tag)"})
	ed.tagSelected = len(ed.tagRows) - 1
	ed.tagEdits[key] = strings.TrimSpace(value)
}

func (ed *Editor) commitTags() {
	edits := ed.tagEdits
	ed.tagEdits = nil
	ed.mode = ModeCanvas
	if len(edits) == 0 {
		ed.showMessage("No tag changes", MsgInfo)
		return
	}
	ed.applyOutcome(ed.engine.EditTags(edits))
}

func (ed *Editor) handleHelpKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyEnter:
		ed.helpScrollOffset = 0
		ed.mode = ModeCanvas
	case tcell.KeyUp:
		if ed.helpScrollOffset > 0 {
			ed.helpScrollOffset--
		}
	case tcell.KeyDown:
		if ed.helpScrollOffset < len(helpLines)-1 {
			ed.helpScrollOffset++
		}
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'h', '?':
			ed.helpScrollOffset = 0
			ed.mode = ModeCanvas
		}
	}
}

// Mouse

// pointerButton returns the button held in a tcell mask. tcell numbers the
// secondary (right) button 2 and the middle button 3.
func pointerButton(buttons tcell.ButtonMask) edit.Button {
	switch {
	case buttons&tcell.Button1 != 0:
		return edit.ButtonLeft
	case buttons&tcell.Button3 != 0:
		return edit.ButtonMiddle
	case buttons&tcell.Button2 != 0:
		return edit.ButtonRight
	}
	return edit.ButtonNone
}

func pointerMods(m tcell.ModMask) edit.Modifiers {
	var mods edit.Modifiers
	if m&tcell.ModShift != 0 {
		mods |= edit.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		mods |= edit.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		mods |= edit.ModAlt
	}
	return mods
}

func (ed *Editor) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	buttons := ev.Buttons()
	cw, ch := ed.canvasSize()
	held := pointerButton(buttons)

	// A drag keeps going outside the canvas until released.
	if ed.down != edit.ButtonNone {
		pe := edit.PointerEvent{Pos: image.Pt(x, y), Button: ed.down, Mods: pointerMods(ev.Modifiers())}
		if held == edit.ButtonNone {
			ed.down = edit.ButtonNone
			ed.applyOutcome(ed.engine.PointerUp(pe))
		} else {
			ed.engine.PointerMove(pe)
		}
		return
	}

	if ed.mode != ModeCanvas {
		return
	}

	if x >= cw {
		ed.handleSidebarMouse(x-cw, y, buttons)
		return
	}
	if y >= ch {
		return
	}

	if buttons&tcell.WheelUp != 0 {
		ed.engine.ZoomStep(image.Pt(x, y), 1)
		return
	}
	if buttons&tcell.WheelDown != 0 {
		ed.engine.ZoomStep(image.Pt(x, y), -1)
		return
	}
	if held == edit.ButtonNone {
		return
	}

	mods := pointerMods(ev.Modifiers())
	if ed.createArmed && held == edit.ButtonLeft {
		mods |= ed.engine.CreateModifier
	}
	ed.down = held
	ed.applyOutcome(ed.engine.PointerDown(edit.PointerEvent{Pos: image.Pt(x, y), Button: held, Mods: mods}))
	if ed.engine.State() == edit.StateIdle {
		ed.down = edit.ButtonNone
	}
	ed.scrollToSelection()
}

// Sidebar

// Sidebar rows above the region list.
const (
	sidebarGroupRow  = 1
	sidebarSearchRow = 2
	sidebarListTop   = 4
)

func (ed *Editor) entries() []region.Entry {
	return region.List(ed.engine.Regions(), ed.group, ed.search)
}

func (ed *Editor) sidebarRows() int {
	_, h := ed.screen.Size()
	return max(0, h-2-sidebarListTop)
}

// scrollToSelection keeps the selected region visible in the sidebar.
func (ed *Editor) scrollToSelection() {
	cur := ed.engine.SelectedIndex()
	if cur < 0 || ed.screen == nil {
		return
	}
	rows := ed.sidebarRows()
	for i, e := range ed.entries() {
		if e.Index != cur {
			continue
		}
		if i < ed.sidebarScroll {
			ed.sidebarScroll = i
		} else if rows > 0 && i >= ed.sidebarScroll+rows {
			ed.sidebarScroll = i - rows + 1
		}
		return
	}
}

// handleSidebarMouse handles a press at column col of the sidebar.
func (ed *Editor) handleSidebarMouse(col, row int, buttons tcell.ButtonMask) {
	entries := ed.entries()
	rows := ed.sidebarRows()

	if buttons&tcell.WheelUp != 0 {
		ed.sidebarScroll = max(0, ed.sidebarScroll-3)
		return
	}
	if buttons&tcell.WheelDown != 0 {
		ed.sidebarScroll = max(0, min(ed.sidebarScroll+3, len(entries)-rows))
		return
	}
	if buttons&tcell.Button1 == 0 {
		return
	}
	ed.down = edit.ButtonNone

	switch {
	case row == sidebarGroupRow:
		ed.cycleGroup()
		return
	case row == sidebarSearchRow:
		ed.promptSearch()
		return
	case row < sidebarListTop:
		return
	}

	i := row - sidebarListTop + ed.sidebarScroll
	if i < 0 || i >= len(entries) {
		return
	}
	e := entries[i]
	// "[x]" checkbox after the divider column
	if col >= 1 && col <= 3 {
		ed.engine.SetVisible(e.Index, !e.Region.Visible)
		ed.saveSettings()
		return
	}
	ed.selectEntry(e.Index)
}

func (ed *Editor) promptSearch() {
	ed.prompt("Search: ", ed.search, func(text string) {
		ed.search = strings.TrimSpace(text)
		ed.sidebarScroll = 0
	}, nil)
}

// File operations

func (ed *Editor) promptOpen() {
	initial := ed.filename
	if initial == "" {
		initial = ed.settings.LastDir + string(os.PathSeparator)
	}
	open := func(path string) {
		path = strings.TrimSpace(path)
		if path == "" {
			return
		}
		if err := ed.loadFile(path); err != nil {
			ed.showMessage(err.Error(), MsgError)
			return
		}
		ed.fitView()
	}
	if ed.modified {
		ed.confirm("Discard changes and open another file? (y/n)", func() {
			ed.prompt("Open region file: ", initial, open, nil)
		})
		return
	}
	ed.prompt("Open region file: ", initial, open, nil)
}

func (ed *Editor) promptMap() {
	initial := ed.mapPath
	if initial == "" {
		initial = ed.settings.LastDir + string(os.PathSeparator)
	}
	ed.prompt("Map image: ", initial, func(path string) {
		path = strings.TrimSpace(path)
		if path == "" {
			ed.mapImage, ed.mapPath = nil, ""
			ed.saveSettings()
			return
		}
		if err := ed.loadMap(path); err != nil {
			ed.showMessage(err.Error(), MsgError)
			return
		}
		ed.showMessage("Map loaded: "+filepath.Base(path), MsgSuccess)
	}, nil)
}

// loadFile replaces the model with the regions in path. On error the
// current model is kept.
func (ed *Editor) loadFile(path string) error {
	res, err := dfnfile.Open(path)
	if err != nil {
		log.Printf("%v", err)
		return err
	}
	region.ApplyHidden(res.Regions, ed.settings.HiddenRegions)
	ed.engine.SetRegions(res.Regions)
	ed.filename = path
	ed.modified = false
	ed.sidebarScroll = 0
	log.Printf("loaded %s: %d regions, %d dropped", path, len(res.Regions), len(res.Dropped))

	msg := fmt.Sprintf("Loaded %d regions", len(res.Regions))
	if len(res.Dropped) > 0 {
		msg += fmt.Sprintf(" (%d from other worlds skipped)", len(res.Dropped))
	}
	ed.showMessage(msg, MsgSuccess)
	ed.saveSettings()
	return nil
}

func (ed *Editor) loadMap(path string) error {
	img, err := mapimage.Load(path, ed.settings.MaxImageDimension)
	if err != nil {
		log.Printf("%v", err)
		return err
	}
	ed.mapImage = img
	ed.mapPath = path
	ed.saveSettings()
	return nil
}

func (ed *Editor) save() {
	if ed.filename == "" {
		ed.prompt("Save as: ", ed.settings.LastDir+string(os.PathSeparator)+"regions.dfn", func(path string) {
			path = strings.TrimSpace(path)
			if path == "" {
				return
			}
			ed.filename = path
			ed.save()
		}, nil)
		return
	}
	if err := dfnfile.Save(ed.filename, ed.engine.Regions(), true); err != nil {
		log.Printf("%v", err)
		ed.showMessage(err.Error(), MsgError)
		return
	}
	ed.modified = false
	ed.saveSettings()
	ed.showMessage("Saved "+filepath.Base(ed.filename), MsgSuccess)
}

// export writes an overview next to the region file in the configured
// format.
func (ed *Editor) export() {
	base := ed.filename
	if base == "" {
		base = filepath.Join(ed.settings.LastDir, "regions")
	}
	out := strings.TrimSuffix(base, filepath.Ext(base)) + "." + ed.settings.ExportFormat

	f, err := os.Create(out)
	if err != nil {
		ed.showMessage(err.Error(), MsgError)
		return
	}
	defer f.Close()

	regions := ed.engine.Regions()
	if ed.settings.ExportFormat == "svg" {
		opts := dfnfile.DefaultSVGOptions()
		opts.Background = ed.mapPath
		err = dfnfile.RenderSVG(f, regions, opts)
	} else {
		err = dfnfile.RenderPNG(f, regions, ed.mapImage, dfnfile.DefaultPNGOptions())
	}
	if err != nil {
		log.Printf("export %s: %v", out, err)
		ed.showMessage("Export failed: "+err.Error(), MsgError)
		return
	}
	ed.showMessage("Exported "+filepath.Base(out), MsgSuccess)
}

// saveSettings persists paths and hidden regions.
func (ed *Editor) saveSettings() {
	s := ed.settings
	s.HiddenRegions = region.HiddenNames(ed.engine.Regions())
	s.MapPath = ed.mapPath
	if ed.filename != "" {
		if abs, err := filepath.Abs(ed.filename); err == nil {
			s.RegionPath = abs
			s.LastDir = filepath.Dir(abs)
		}
	}
	if err := s.Save(); err != nil {
		log.Printf("%v", err)
	}
}

func (ed *Editor) showMessage(msg string, msgType MessageType) {
	ed.message = msg
	ed.messageType = msgType
	ed.messageFlashStart = time.Now().UnixMilli()
	if ed.screen != nil {
		ed.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}
}
