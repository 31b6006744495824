// Package app is the terminal front end: a scrollable grid over a sheet with
// vim-like editing and a command popup.
package app

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"calcsheet/internal/grid"
	"calcsheet/internal/sheet"
	"calcsheet/internal/storage"
)

const (
	ModeNormal = "normal"
	ModeInsert = "insert"
)

type App struct {
	Sheet  *sheet.Sheet
	Logger *slog.Logger

	// File is the default target of :w and the last file opened.
	File string

	// layout
	LeftGutter    int
	StatusLines   int
	DefaultWidth  int
	DefaultHeight int
	CellPadding   int
	ColWidths     []int
	RowHeights    []int

	// cursor / view
	CurRow  int
	CurCol  int
	ViewRow int
	ViewCol int

	// UI state
	Mode              string
	InputBuf          string
	Message           string
	Quit              bool
	HelpVisible       bool
	MoveAfterEnter    bool
	SelectAllOnEdit   bool
	ReplaceOnNextRune bool
}

func NewApp(s *sheet.Sheet, logger *slog.Logger) *App {
	a := &App{
		Sheet:           s,
		Logger:          logger,
		LeftGutter:      4,
		StatusLines:     2,
		DefaultWidth:    16,
		DefaultHeight:   1,
		CellPadding:     1,
		Mode:            ModeNormal,
		MoveAfterEnter:  true,
		SelectAllOnEdit: true,
	}
	rows, cols := s.Bounds()
	a.EnsureRowExists(max(rows, 8) - 1)
	a.EnsureColExists(max(cols, 8) - 1)
	return a
}

// CurrentLabel is the label of the cell under the cursor.
func (a *App) CurrentLabel() string {
	return grid.ColRowToName(a.CurCol, a.CurRow)
}

// ----------------------------- Events / Input -----------------------------

func (a *App) HandleKeyEvent(s tcell.Screen, ev *tcell.EventKey) {
	if a.Mode == ModeInsert {
		a.handleInsertKey(ev)
		return
	}

	if a.HelpVisible {
		if ev.Key() == tcell.KeyEsc || ev.Rune() == '?' {
			a.HelpVisible = false
		}
		return
	}

	mod := ev.Modifiers()
	switch ev.Key() {
	case tcell.KeyCtrlC:
		a.Quit = true
	case tcell.KeyUp:
		if mod&tcell.ModCtrl != 0 {
			if a.RowHeights[a.CurRow] > 1 {
				a.RowHeights[a.CurRow]--
			}
		} else if a.CurRow > 0 {
			a.CurRow--
		}
	case tcell.KeyDown:
		if mod&tcell.ModCtrl != 0 {
			a.RowHeights[a.CurRow]++
		} else {
			a.CurRow++
			a.EnsureRowExists(a.CurRow)
		}
	case tcell.KeyLeft:
		if mod&tcell.ModCtrl != 0 {
			if a.ColWidths[a.CurCol] > 4 {
				a.ColWidths[a.CurCol]--
			}
		} else if a.CurCol > 0 {
			a.CurCol--
		}
	case tcell.KeyRight:
		if mod&tcell.ModCtrl != 0 {
			a.ColWidths[a.CurCol]++
		} else {
			a.CurCol++
			a.EnsureColExists(a.CurCol)
		}
	case tcell.KeyPgUp:
		vr, _ := a.ComputeVisible(s)
		a.ViewRow = max(0, a.ViewRow-vr)
		a.CurRow = max(0, a.CurRow-vr)
	case tcell.KeyPgDn:
		vr, _ := a.ComputeVisible(s)
		a.ViewRow += vr
		a.CurRow += vr
		a.EnsureRowExists(a.CurRow)
	case tcell.KeyHome:
		a.CurRow, a.CurCol = 0, 0
		a.ViewRow, a.ViewCol = 0, 0
	case tcell.KeyDelete, tcell.KeyBackspace, tcell.KeyBackspace2:
		a.setCurrent("")
	case tcell.KeyEnter:
		a.startEdit()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			a.Quit = true
		case 'i':
			a.startEdit()
		case 'x':
			a.setCurrent("")
		case ':':
			if command, ok := a.PopupInput(s, ":", ""); ok {
				a.ExecuteCommand(command)
			}
		case '=':
			initial := "="
			if text := a.Sheet.Cell(a.CurRow, a.CurCol).Text(); strings.HasPrefix(text, "=") {
				initial = text
			}
			if value, ok := a.PopupInput(s, "", initial); ok {
				a.setCurrent(value)
			}
		case '?':
			a.HelpVisible = true
		}
	}
}

func (a *App) handleInsertKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEsc:
		a.Mode = ModeNormal
		a.InputBuf = ""
		a.ReplaceOnNextRune = false
	case tcell.KeyEnter:
		a.setCurrent(a.InputBuf)
		a.Mode = ModeNormal
		a.InputBuf = ""
		a.ReplaceOnNextRune = false
		// Ctrl+Enter commits and stays
		if ev.Modifiers()&tcell.ModCtrl == 0 && a.MoveAfterEnter {
			a.CurRow++
			a.EnsureRowExists(a.CurRow)
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if a.ReplaceOnNextRune {
			a.InputBuf = ""
		} else if r := []rune(a.InputBuf); len(r) > 0 {
			a.InputBuf = string(r[:len(r)-1])
		}
		a.ReplaceOnNextRune = false
	case tcell.KeyRune:
		if a.ReplaceOnNextRune {
			a.InputBuf = string(ev.Rune())
			a.ReplaceOnNextRune = false
		} else {
			a.InputBuf += string(ev.Rune())
		}
	}
}

func (a *App) startEdit() {
	a.Mode = ModeInsert
	a.InputBuf = a.Sheet.Cell(a.CurRow, a.CurCol).Text()
	a.ReplaceOnNextRune = a.SelectAllOnEdit
}

// setCurrent stores text in the cell under the cursor; the sheet recalculates.
func (a *App) setCurrent(text string) {
	label := a.CurrentLabel()
	if err := a.Sheet.Set(label, text); err != nil {
		a.Message = err.Error()
		a.Logger.Error("set cell", "cell", label, "error", err)
		return
	}
	a.Message = ""
}

// ----------------------------- Commands / Storage -----------------------------

// ExecuteCommand runs a ':' command. The outcome is left in Message.
func (a *App) ExecuteCommand(cmd string) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return
	}
	switch parts[0] {
	case "q", "quit":
		a.Quit = true
	case "cw":
		if v, err := intArg(parts, 4); err == nil {
			for i := range a.ColWidths {
				a.ColWidths[i] = v
			}
			a.DefaultWidth = v
		} else {
			a.Message = "cw: " + err.Error()
		}
	case "rh":
		if v, err := intArg(parts, 1); err == nil {
			for i := range a.RowHeights {
				a.RowHeights[i] = v
			}
			a.DefaultHeight = v
		} else {
			a.Message = "rh: " + err.Error()
		}
	case "w", "wq":
		filename := a.File
		if len(parts) >= 2 {
			filename = parts[1]
		}
		if filename == "" {
			a.Message = "w: no file name"
			return
		}
		if err := storage.Save(a.Sheet.Texts(), filename); err != nil {
			a.Message = "w: " + err.Error()
			a.Logger.Error("save sheet", "file", filename, "error", err)
			return
		}
		a.File = filename
		a.Message = "written " + filename
		if parts[0] == "wq" {
			a.Quit = true
		}
	case "o":
		if len(parts) < 2 {
			a.Message = "o: no file name"
			return
		}
		if err := a.Open(parts[1]); err != nil {
			a.Message = "o: " + err.Error()
			a.Logger.Error("open sheet", "file", parts[1], "error", err)
			return
		}
		a.Message = "opened " + parts[1]
	default:
		a.Message = "unknown command: " + parts[0]
	}
}

// Open loads filename into the sheet and resets the view.
func (a *App) Open(filename string) error {
	cells, err := storage.Load(filename)
	if err != nil {
		return err
	}
	if err := a.Sheet.Load(cells); err != nil {
		a.Logger.Warn("skipped cells", "file", filename, "error", err)
	}
	a.File = filename
	rows, cols := a.Sheet.Bounds()
	a.EnsureRowExists(rows - 1)
	a.EnsureColExists(cols - 1)
	a.CurRow, a.CurCol = 0, 0
	a.ViewRow, a.ViewCol = 0, 0
	return nil
}

func intArg(parts []string, minimum int) (int, error) {
	if len(parts) < 2 {
		return 0, fmt.Errorf("missing size")
	}
	v, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, err
	}
	if v < minimum {
		return 0, fmt.Errorf("size must be at least %d", minimum)
	}
	return v, nil
}

// ----------------------------- Display -----------------------------

// GetDisplayText renders cell (r, c). Text that was not entered as a formula
// and does not evaluate is shown verbatim, so plain labels read as text.
func (a *App) GetDisplayText(r, c int) string {
	cell := a.Sheet.Cell(r, c)
	if cell.ErrorMessage() != "" && !strings.HasPrefix(cell.Text(), "=") {
		return cell.Text()
	}
	return cell.Display()
}

// StatusText describes the cell under the cursor: label, raw text and the
// error left by its last evaluation.
func (a *App) StatusText() string {
	cell := a.Sheet.Cell(a.CurRow, a.CurCol)
	status := a.CurrentLabel() + ": " + cell.Text()
	if msg := cell.ErrorMessage(); msg != "" {
		status += "  [" + msg + "]"
	}
	return status
}
