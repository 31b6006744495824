package app

import (
	"github.com/gdamore/tcell/v2"
)

const maxPopupInput = 4096

// PopupInput shows a modal one-line editor with prompt and initial text over
// the grid. It returns the entered text and true on Enter, or "" and false
// on Esc.
func (a *App) PopupInput(s tcell.Screen, prompt, initial string) (string, bool) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorReset)

	promptRunes := []rune(prompt)
	buf := []rune(initial)
	pos := len(buf)

	var left, top, boxW int
	const boxH = 3
	layout := func() {
		w, h := s.Size()
		contentW := min(max(40, len(promptRunes)+len(buf)+2), w-4)
		boxW = contentW + 4
		left = (w - boxW) / 2
		top = (h - boxH) / 2
	}

	drawBox := func() {
		for y := top; y < top+boxH; y++ {
			a.printTextFixedWidth(s, left, y, "", style, boxW)
		}
		drawFrame(s, left, top, boxW, boxH, style)

		x, y := left+2, top+1
		a.printTextFixedWidth(s, x, y, prompt, style, len(promptRunes))
		if len(promptRunes) > 0 {
			x += len(promptRunes) + 1
		}

		field := max(1, left+boxW-2-x)
		start := 0
		if pos > field-1 {
			start = pos - field + 1
		}
		end := min(len(buf), start+field)
		a.printTextFixedWidth(s, x, y, string(buf[start:end]), style, field)
		s.ShowCursor(x+pos-start, y)
	}

	redraw := func() {
		a.Draw(s)
		drawBox()
		s.Show()
	}

	layout()
	redraw()

	for {
		switch ev := s.PollEvent().(type) {
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEsc:
				s.HideCursor()
				return "", false
			case tcell.KeyEnter:
				s.HideCursor()
				return string(buf), true
			case tcell.KeyBackspace, tcell.KeyBackspace2:
				if pos > 0 {
					buf = append(buf[:pos-1], buf[pos:]...)
					pos--
				}
			case tcell.KeyDelete:
				if pos < len(buf) {
					buf = append(buf[:pos], buf[pos+1:]...)
				}
			case tcell.KeyLeft:
				pos = max(0, pos-1)
			case tcell.KeyRight:
				pos = min(len(buf), pos+1)
			case tcell.KeyHome:
				pos = 0
			case tcell.KeyEnd:
				pos = len(buf)
			case tcell.KeyRune:
				if len(buf) < maxPopupInput {
					buf = append(buf[:pos], append([]rune{ev.Rune()}, buf[pos:]...)...)
					pos++
				}
			}
			redraw()
		case *tcell.EventResize:
			s.Sync()
			layout()
			redraw()
		case nil:
			// screen finalized
			return "", false
		}
	}
}
