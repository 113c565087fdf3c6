// wadcgui - WadC editor with a live map view
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/sqweek/dialog"

	"github.com/redmars/wadc"
	"github.com/redmars/wadc/pkg/postproc"
	"github.com/redmars/wadc/pkg/prefs"
)

const defaultSource = `#"standard.h"

main {
  straight(256) right(256) right(256) right(256) rotright
  rightsector(0, 128, 160)
  step(64, 64) player1start
}
`

// editor holds the window state
type editor struct {
	mu       sync.Mutex
	window   fyne.Window
	text     *widget.Entry
	messages *widget.Entry
	view     *mapView
	sess     *wadc.Session
	prefs    *prefs.Prefs
	changed  bool
	lines    []string
}

func main() {
	debugMode := flag.Bool("d", false, "Enable debug output")
	flag.Parse()

	p, err := prefs.Load(prefs.Path())
	if err != nil {
		p = prefs.Default()
	}

	fyneApp := app.New()
	mainWindow := fyneApp.NewWindow("WadC")
	mainWindow.Resize(fyne.NewSize(1100, 750))

	ed := &editor{window: mainWindow, prefs: p}

	config := wadc.DefaultConfig()
	config.Debug = *debugMode
	config.Grid = p.Grid
	config.Sink = wadc.SinkFunc(ed.appendMessage)
	w := wadc.New(config)

	file := p.Basename
	if args := flag.Args(); len(args) > 0 {
		file = args[0]
	}
	src := defaultSource
	if data, err := os.ReadFile(file); err == nil {
		src = string(data)
	}
	ed.sess = wadc.NewSession(w, file, src)

	ed.text = widget.NewMultiLineEntry()
	ed.text.SetText(src)
	ed.text.TextStyle = fyne.TextStyle{Monospace: true}
	ed.text.OnChanged = func(string) { ed.changed = true }
	ed.changed = false

	ed.messages = widget.NewMultiLineEntry()
	ed.messages.Disable()

	ed.view = newMapView(ed.sess)
	ed.view.onStep = ed.addStep

	left := container.NewVSplit(ed.text, ed.messages)
	left.SetOffset(0.8)
	split := container.NewHSplit(left, ed.view)
	split.SetOffset(0.45)

	mainWindow.SetContent(split)
	mainWindow.SetMainMenu(ed.menu())
	ed.updateTitle()

	mainWindow.SetCloseIntercept(func() {
		if ed.changed && dialog.Message("%s has unsaved changes. Save them?", ed.sess.Basename).Title("WadC").YesNo() {
			ed.save()
		}
		ed.savePrefs()
		mainWindow.Close()
	})

	ed.run()
	mainWindow.ShowAndRun()
}

func (ed *editor) menu() *fyne.MainMenu {
	file := fyne.NewMenu("File",
		fyne.NewMenuItem("New", ed.newFile),
		fyne.NewMenuItem("Open...", ed.open),
		fyne.NewMenuItem("Save", func() { ed.save() }),
		fyne.NewMenuItem("Save As...", func() { ed.saveAs() }),
	)
	program := fyne.NewMenu("Program",
		fyne.NewMenuItem("Run", ed.run),
		fyne.NewMenuItem("Run/Save/Save Wad", func() { ed.saveWad() }),
		fyne.NewMenuItem("Run/Save/Save Wad/BSP/DOOM", ed.launch),
	)
	return fyne.NewMainMenu(file, program)
}

// appendMessage is the diagnostics sink; it may be called from any goroutine
func (ed *editor) appendMessage(line string) {
	ed.mu.Lock()
	ed.lines = append(ed.lines, line)
	text := strings.Join(ed.lines, "\n")
	ed.mu.Unlock()
	fyne.Do(func() {
		if ed.messages != nil {
			ed.messages.SetText(text)
		}
	})
}

func (ed *editor) clearMessages() {
	ed.mu.Lock()
	ed.lines = nil
	ed.mu.Unlock()
	ed.messages.SetText("")
}

func (ed *editor) updateTitle() {
	ed.window.SetTitle("WadC - " + filepath.Base(ed.sess.Basename))
}

// run re-parses the editor text. On error the caret is moved to the
// offending position.
func (ed *editor) run() {
	ed.clearMessages()
	ed.sess.SetSource(ed.text.Text)
	if _, err := ed.sess.Run(); err != nil {
		var werr *wadc.Error
		if errors.As(err, &werr) && (werr.Pos.File == ed.sess.Basename || werr.Pos.File == "") {
			ed.moveCaret(werr.Pos.Offset)
		}
	}
	ed.view.Refresh()
}

// moveCaret places the editor cursor at a byte offset of the text
func (ed *editor) moveCaret(offset int) {
	text := ed.text.Text
	if offset > len(text) {
		offset = len(text)
	}
	before := text[:offset]
	row := strings.Count(before, "\n")
	col := len([]rune(before[strings.LastIndex(before, "\n")+1:]))
	ed.text.CursorRow, ed.text.CursorColumn = row, col
	ed.text.Refresh()
	ed.window.Canvas().Focus(ed.text)
}

func (ed *editor) addStep(kind wadc.StepKind, x, y float64) {
	if ed.text.Text != ed.sess.Source {
		ed.sess.WadC().Logger().Warn("program changed since the last run, run it before adding steps")
		return
	}
	tr, err := ed.sess.AddStep(x, y, kind)
	if err != nil {
		ed.sess.WadC().Logger().Warn("%v", err)
		return
	}
	ed.text.SetText(tr.Source)
	ed.sess.Source = tr.Source
	ed.moveCaret(tr.InsertPos)
}

func (ed *editor) newFile() {
	ed.text.SetText(defaultSource)
	ed.sess.Basename = "untitled.wl"
	ed.changed = false
	ed.updateTitle()
	ed.run()
}

func (ed *editor) open() {
	path, err := dialog.File().Filter("WadC source", "wl").Title("Open").SetStartDir(filepath.Dir(ed.sess.Basename)).Load()
	if err != nil {
		if !errors.Is(err, dialog.ErrCancelled) {
			dialog.Message("%v", err).Title("Open").Error()
		}
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		dialog.Message("couldn't load %s: %v", path, err).Title("Open").Error()
		return
	}
	ed.sess.Basename = path
	ed.text.SetText(string(data))
	ed.changed = false
	ed.updateTitle()
	ed.savePrefs()
	ed.run()
}

func (ed *editor) save() bool {
	if ed.sess.Basename == "" || filepath.Base(ed.sess.Basename) == "untitled.wl" {
		return ed.saveAs()
	}
	return ed.writeSource()
}

func (ed *editor) writeSource() bool {
	if err := os.WriteFile(ed.sess.Basename, []byte(ed.text.Text), 0644); err != nil {
		ed.sess.WadC().Logger().ErrorCat(wadc.CatIO, "couldn't save %s: %v", ed.sess.Basename, err)
		return false
	}
	ed.changed = false
	ed.sess.WadC().Logger().NoticeCat(wadc.CatIO, "saved %s", ed.sess.Basename)
	return true
}

func (ed *editor) saveAs() bool {
	path, err := dialog.File().Filter("WadC source", "wl").Title("Save As").Save()
	if err != nil {
		return false
	}
	if filepath.Ext(path) == "" {
		path += ".wl"
	}
	ed.sess.Basename = path
	ed.updateTitle()
	ed.savePrefs()
	return ed.writeSource()
}

// saveWad runs, saves the source and writes the WAD. It returns the WAD
// path, or "" when any step failed.
func (ed *editor) saveWad() string {
	ed.run()
	if ed.sess.Result() == nil || ed.sess.Result().Program.Source != ed.text.Text {
		return ""
	}
	if !ed.save() {
		return ""
	}
	path, err := ed.sess.WriteWad()
	if err != nil {
		return ""
	}
	return path
}

func (ed *editor) launch() {
	wadfile := ed.saveWad()
	if wadfile == "" {
		return
	}
	launcher := postproc.New(ed.prefs, ed.sess.WadC().Logger())
	go func() {
		_, _ = launcher.Launch(context.Background(), wadfile)
	}()
}

func (ed *editor) savePrefs() {
	ed.prefs.Basename = ed.sess.Basename
	if path := prefs.Path(); path != "" {
		if err := prefs.Save(path, ed.prefs); err != nil {
			ed.sess.WadC().Logger().WarnCat(wadc.CatIO, "couldn't save preferences: %v", err)
		}
	}
}
