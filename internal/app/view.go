package app

import "github.com/gdamore/tcell/v2"

func (a *App) EnsureColExists(idx int) {
	for len(a.ColWidths) <= idx {
		a.ColWidths = append(a.ColWidths, a.DefaultWidth)
	}
}

func (a *App) EnsureRowExists(idx int) {
	for len(a.RowHeights) <= idx {
		a.RowHeights = append(a.RowHeights, a.DefaultHeight)
	}
}

// ComputeVisible counts the rows and columns that fit on screen starting at
// the view origin. Both are at least 1.
func (a *App) ComputeVisible(s tcell.Screen) (visibleRows, visibleCols int) {
	w, h := s.Size()
	usableW := max(1, w-a.LeftGutter)
	usableH := max(1, h-a.StatusLines-1)

	sum := 0
	for c := a.ViewCol; c < len(a.ColWidths); c++ {
		if sum+a.ColWidths[c] > usableW {
			break
		}
		sum += a.ColWidths[c]
		visibleCols++
	}
	sum = 0
	for r := a.ViewRow; r < len(a.RowHeights); r++ {
		if sum+a.RowHeights[r] > usableH {
			break
		}
		sum += a.RowHeights[r]
		visibleRows++
	}
	return max(1, visibleRows), max(1, visibleCols)
}

// EnsureCursorVisible scrolls the view so the cursor cell is on screen.
func (a *App) EnsureCursorVisible(s tcell.Screen) {
	if s == nil {
		return
	}
	a.EnsureRowExists(a.CurRow)
	a.EnsureColExists(a.CurCol)

	if a.CurCol < a.ViewCol {
		a.ViewCol = a.CurCol
	}
	if a.CurRow < a.ViewRow {
		a.ViewRow = a.CurRow
	}
	for {
		rows, cols := a.ComputeVisible(s)
		moved := false
		if a.CurCol >= a.ViewCol+cols {
			a.ViewCol++
			moved = true
		}
		if a.CurRow >= a.ViewRow+rows {
			a.ViewRow++
			moved = true
		}
		if !moved {
			return
		}
	}
}
