package app

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calcsheet/internal/sheet"
)

func newTestApp(t *testing.T, cells map[string]string) (*App, tcell.SimulationScreen) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sh := sheet.New(sheet.WithLogger(logger))
	require.NoError(t, sh.Load(cells))

	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)
	screen.SetSize(80, 24)

	return NewApp(sh, logger), screen
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func typeText(a *App, s tcell.Screen, text string) {
	for _, r := range text {
		a.HandleKeyEvent(s, runeKey(r))
	}
}

// screenLine returns row y of the simulated screen as text.
func screenLine(s tcell.SimulationScreen, y int) string {
	cells, w, _ := s.GetContents()
	var b strings.Builder
	for x := 0; x < w; x++ {
		if r := cells[y*w+x].Runes; len(r) > 0 {
			b.WriteRune(r[0])
		}
	}
	return b.String()
}

func TestApp_Edit(t *testing.T) {
	t.Run("commit recalculates and moves down", func(t *testing.T) {
		a, s := newTestApp(t, map[string]string{"A2": "=A1*10"})

		a.HandleKeyEvent(s, runeKey('i'))
		require.Equal(t, ModeInsert, a.Mode)
		typeText(a, s, "=1+2")
		a.HandleKeyEvent(s, key(tcell.KeyEnter))

		assert.Equal(t, ModeNormal, a.Mode)
		assert.Equal(t, 1, a.CurRow)
		assert.Equal(t, "3", a.GetDisplayText(0, 0))
		assert.Equal(t, "30", a.GetDisplayText(1, 0))
	})

	t.Run("first rune replaces existing text", func(t *testing.T) {
		a, s := newTestApp(t, map[string]string{"A1": "12"})

		a.HandleKeyEvent(s, key(tcell.KeyEnter))
		assert.Equal(t, "12", a.InputBuf)
		typeText(a, s, "7")
		assert.Equal(t, "7", a.InputBuf)
	})

	t.Run("escape cancels", func(t *testing.T) {
		a, s := newTestApp(t, map[string]string{"A1": "12"})

		a.HandleKeyEvent(s, runeKey('i'))
		typeText(a, s, "99")
		a.HandleKeyEvent(s, key(tcell.KeyEsc))

		assert.Equal(t, ModeNormal, a.Mode)
		assert.Equal(t, "12", a.GetDisplayText(0, 0))
	})

	t.Run("x clears", func(t *testing.T) {
		a, s := newTestApp(t, map[string]string{"A1": "12"})
		a.HandleKeyEvent(s, runeKey('x'))
		assert.Equal(t, "", a.GetDisplayText(0, 0))
	})
}

func TestApp_Navigation(t *testing.T) {
	a, s := newTestApp(t, nil)

	a.HandleKeyEvent(s, key(tcell.KeyRight))
	a.HandleKeyEvent(s, key(tcell.KeyDown))
	assert.Equal(t, "B2", a.CurrentLabel())

	for range 20 {
		a.HandleKeyEvent(s, key(tcell.KeyRight))
	}
	a.EnsureCursorVisible(s)
	_, cols := a.ComputeVisible(s)
	assert.GreaterOrEqual(t, a.CurCol, a.ViewCol)
	assert.Less(t, a.CurCol, a.ViewCol+cols)

	a.HandleKeyEvent(s, key(tcell.KeyHome))
	assert.Equal(t, "A1", a.CurrentLabel())

	a.HandleKeyEvent(s, tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModCtrl))
	assert.Equal(t, 17, a.ColWidths[0])
}

func TestApp_Display(t *testing.T) {
	a, s := newTestApp(t, map[string]string{
		"A1": "Total",
		"B1": "=1/0",
		"C1": "=B1",
		"A2": "2.5",
	})

	assert.Equal(t, "Total", a.GetDisplayText(0, 0))
	assert.Equal(t, "#DIV/0", a.GetDisplayText(0, 1))
	assert.Equal(t, "#DIV/0", a.GetDisplayText(0, 2))
	assert.Equal(t, "2.5", a.GetDisplayText(1, 0))

	a.CurCol = 1
	assert.Equal(t, "B1: =1/0  [divideByZero]", a.StatusText())

	a.Draw(s)
	assert.Contains(t, screenLine(s, 0), "A")
	assert.Contains(t, screenLine(s, 1), "Total")
	assert.Contains(t, screenLine(s, 23), "B1: =1/0  [divideByZero]")
}

func TestApp_ExecuteCommand(t *testing.T) {
	t.Run("write and open", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sheet.csv")

		a, _ := newTestApp(t, map[string]string{"A1": "4", "B1": "=A1*2"})
		a.ExecuteCommand("w " + path)
		assert.Equal(t, "written "+path, a.Message)
		assert.Equal(t, path, a.File)

		b, _ := newTestApp(t, nil)
		b.ExecuteCommand("o " + path)
		assert.Equal(t, "opened "+path, b.Message)
		assert.Equal(t, "8", b.GetDisplayText(0, 1))
	})

	t.Run("new db file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "new.db")

		a, _ := newTestApp(t, nil)
		err := a.Open(path)
		assert.ErrorIs(t, err, os.ErrNotExist)
		_, statErr := os.Stat(path)
		assert.ErrorIs(t, statErr, os.ErrNotExist)

		a.File = path
		require.NoError(t, a.Sheet.Set("A1", "=2*21"))
		a.ExecuteCommand("w")
		assert.Equal(t, "written "+path, a.Message)

		b, _ := newTestApp(t, nil)
		require.NoError(t, b.Open(path))
		assert.Equal(t, "42", b.GetDisplayText(0, 0))
	})

	t.Run("write without a file", func(t *testing.T) {
		a, _ := newTestApp(t, nil)
		a.ExecuteCommand("w")
		assert.Equal(t, "w: no file name", a.Message)
	})

	t.Run("open missing file", func(t *testing.T) {
		a, _ := newTestApp(t, nil)
		a.ExecuteCommand("o " + filepath.Join(t.TempDir(), "missing.csv"))
		assert.True(t, strings.HasPrefix(a.Message, "o: "))
	})

	t.Run("sizes", func(t *testing.T) {
		a, _ := newTestApp(t, nil)
		a.ExecuteCommand("cw 10")
		a.ExecuteCommand("rh 2")
		assert.Equal(t, 10, a.ColWidths[3])
		assert.Equal(t, 2, a.RowHeights[3])

		a.ExecuteCommand("cw 2")
		assert.Equal(t, "cw: size must be at least 4", a.Message)
	})

	t.Run("quit", func(t *testing.T) {
		a, _ := newTestApp(t, nil)
		a.ExecuteCommand("q")
		assert.True(t, a.Quit)
	})

	t.Run("unknown", func(t *testing.T) {
		a, _ := newTestApp(t, nil)
		a.ExecuteCommand("frobnicate")
		assert.Equal(t, "unknown command: frobnicate", a.Message)
	})
}

func TestApp_FormulaPopup(t *testing.T) {
	a, s := newTestApp(t, map[string]string{"A2": "5"})

	for _, r := range "A2*3" {
		s.InjectKey(tcell.KeyRune, r, tcell.ModNone)
	}
	s.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
	a.HandleKeyEvent(s, runeKey('='))

	cell, err := a.Sheet.Get("A1")
	require.NoError(t, err)
	assert.Equal(t, "=A2*3", cell.Text())
	assert.Equal(t, 15.0, cell.Value())
}

func TestWrapText(t *testing.T) {
	assert.Equal(t, []string{"one two", "three"}, wrapText("one two three", 8))
	assert.Equal(t, []string{"abcd", "ef"}, wrapText("abcdef", 4))
}
