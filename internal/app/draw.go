package app

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"calcsheet/internal/grid"
)

const helpText = `
 i / Enter - edit
 Ctrl+Enter - save & stay
 = - formula
 x / Del - clear cell
 : - command
 Ctrl←/Ctrl→ - col width
 Ctrl↑/Ctrl↓ - row height
 PgUp/PgDn/Home - scroll
 :w [file] | :o file | :wq | :q
 :cw N | :rh N
 files: .csv or .db
`

func (a *App) Draw(s tcell.Screen) {
	s.Clear()
	w, h := s.Size()

	// header row: column names
	x := a.LeftGutter
	for c := a.ViewCol; c < len(a.ColWidths) && x < w; c++ {
		wc := a.ColWidths[c]
		style := tcell.StyleDefault.Foreground(tcell.ColorYellow)
		if c == a.CurCol {
			style = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
		}
		a.printTextFixedWidth(s, x, 0, strings.Repeat(" ", a.CellPadding)+grid.ColToName(c), style, wc)
		x += wc
	}

	// rows
	y := 1
	for r := a.ViewRow; r < len(a.RowHeights) && y < h-a.StatusLines; r++ {
		gutterStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
		if r == a.CurRow {
			gutterStyle = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
		}
		a.printTextFixedWidth(s, 0, y, fmt.Sprintf("%d", r+1), gutterStyle, a.LeftGutter-1)

		hh := a.RowHeights[r]
		x = a.LeftGutter
		for c := a.ViewCol; c < len(a.ColWidths) && x < w; c++ {
			wc := a.ColWidths[c]
			selected := r == a.CurRow && c == a.CurCol

			text := a.GetDisplayText(r, c)
			if selected && a.Mode == ModeInsert {
				text = a.InputBuf
			}

			style := tcell.StyleDefault
			if selected {
				style = style.Foreground(tcell.ColorBlack).Background(tcell.ColorLightGray)
			}

			innerW := max(0, wc-2*a.CellPadding)
			for dy, line := range a.splitLines(text, hh) {
				if y+dy >= h-a.StatusLines {
					break
				}
				a.printTextFixedWidth(s, x, y+dy, "", style, wc)
				a.printTextFixedWidth(s, x+a.CellPadding, y+dy, line, style, innerW)
			}
			x += wc
		}
		y += hh
	}

	a.drawStatus(s)
	if a.HelpVisible {
		a.drawHelpPopup(s, helpText)
	}
	a.drawEditCursor(s)
	s.Show()
}

func (a *App) drawStatus(s tcell.Screen) {
	w, h := s.Size()
	statusY := max(0, h-a.StatusLines)
	style := tcell.StyleDefault.Background(tcell.ColorGray).Foreground(tcell.ColorWhite)

	left := fmt.Sprintf("Mode:%s  Cell:%s  cw=%d rh=%d", a.Mode, a.CurrentLabel(),
		a.ColWidths[a.CurCol], a.RowHeights[a.CurRow])
	if a.File != "" {
		left += "  File:" + a.File
	}
	a.printTextFixedWidth(s, 0, statusY, left, style, w)

	line := a.StatusText()
	switch {
	case a.Mode == ModeInsert:
		line = "EDIT: " + a.InputBuf
	case a.Message != "":
		line = a.Message
	}
	a.printTextFixedWidth(s, 0, statusY+1, line, style, w)
}

// drawEditCursor marks the end of the edit buffer inside the current cell.
func (a *App) drawEditCursor(s tcell.Screen) {
	if a.Mode != ModeInsert || a.CurRow < a.ViewRow || a.CurCol < a.ViewCol {
		s.HideCursor()
		return
	}
	w, h := s.Size()
	cellX := a.LeftGutter
	for c := a.ViewCol; c < a.CurCol; c++ {
		cellX += a.ColWidths[c]
	}
	cellY := 1
	for r := a.ViewRow; r < a.CurRow; r++ {
		cellY += a.RowHeights[r]
	}

	lines := strings.Split(a.InputBuf, "\n")
	last := len(lines) - 1
	innerW := max(1, a.ColWidths[a.CurCol]-2*a.CellPadding)
	cx := cellX + a.CellPadding + min(runeLen(lines[last]), innerW-1)
	cy := cellY + min(last, a.RowHeights[a.CurRow]-1)
	if cx >= w || cy >= h-a.StatusLines {
		s.HideCursor()
		return
	}
	s.SetContent(cx, cy, '▏', nil, tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorLightGray))
}

func (a *App) printTextFixedWidth(s tcell.Screen, x, y int, str string, style tcell.Style, width int) {
	runes := []rune(str)
	for i := 0; i < width; i++ {
		ch := ' '
		if i < len(runes) {
			ch = runes[i]
		}
		if x+i >= 0 && y >= 0 {
			s.SetContent(x+i, y, ch, nil, style)
		}
	}
}

// splitLines returns exactly maxLines lines of text, padding with blanks.
func (a *App) splitLines(text string, maxLines int) []string {
	if maxLines <= 0 {
		return nil
	}
	out := make([]string, maxLines)
	copy(out, strings.Split(text, "\n"))
	return out
}

func (a *App) drawHelpPopup(s tcell.Screen, help string) {
	w, h := s.Size()
	if w < 10 || h < 5 {
		return
	}

	padding := 2
	innerW := min(40, w-6-padding*2)
	lines := wrapText(help, innerW)
	if maxLines := h - 6 - padding*2; len(lines) > maxLines {
		lines = lines[:max(0, maxLines)]
	}

	pw := innerW + padding*2
	ph := len(lines) + padding*2
	left := (w - pw) / 2
	top := (h - ph) / 2
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDefault)

	for yy := 0; yy < ph; yy++ {
		a.printTextFixedWidth(s, left, top+yy, "", style, pw)
	}
	drawFrame(s, left, top, pw, ph, style)
	for i, ln := range lines {
		a.printTextFixedWidth(s, left+padding, top+padding+i, ln, style, innerW)
	}
}

func drawFrame(s tcell.Screen, left, top, w, h int, style tcell.Style) {
	for x := left + 1; x < left+w-1; x++ {
		s.SetContent(x, top, tcell.RuneHLine, nil, style)
		s.SetContent(x, top+h-1, tcell.RuneHLine, nil, style)
	}
	for y := top + 1; y < top+h-1; y++ {
		s.SetContent(left, y, tcell.RuneVLine, nil, style)
		s.SetContent(left+w-1, y, tcell.RuneVLine, nil, style)
	}
	s.SetContent(left, top, tcell.RuneULCorner, nil, style)
	s.SetContent(left+w-1, top, tcell.RuneURCorner, nil, style)
	s.SetContent(left, top+h-1, tcell.RuneLLCorner, nil, style)
	s.SetContent(left+w-1, top+h-1, tcell.RuneLRCorner, nil, style)
}

// wrapText breaks s into lines of at most width runes. Words longer than a
// line are cut.
func wrapText(s string, width int) []string {
	if width <= 2 {
		return []string{s}
	}
	var out []string
	for _, para := range strings.Split(strings.Trim(s, "\n"), "\n") {
		cur := ""
		for _, word := range strings.Fields(para) {
			for runeLen(word) > width {
				r := []rune(word)
				if cur != "" {
					out = append(out, cur)
					cur = ""
				}
				out = append(out, string(r[:width]))
				word = string(r[width:])
			}
			switch {
			case cur == "":
				cur = word
			case runeLen(cur)+1+runeLen(word) <= width:
				cur += " " + word
			default:
				out = append(out, cur)
				cur = word
			}
		}
		out = append(out, cur)
	}
	return out
}

func runeLen(s string) int {
	return len([]rune(s))
}
