package app

import (
	"time"

	"github.com/gdamore/tcell/v2"
)

// Splash reveals the title letter by letter and waits for a key press.
func Splash(s tcell.Screen, title string, delay time.Duration) {
	width, height := s.Size()
	letters := []rune(title)
	startX := (width - len(letters)) / 2
	y := height / 2

	hint := "Press any key to continue"
	hintStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)

	for reveal := 1; reveal <= len(letters); reveal++ {
		s.Clear()
		for i, ch := range letters[:reveal] {
			color := tcell.ColorWhite
			if i%2 == 1 {
				color = tcell.ColorYellow
			}
			s.SetContent(startX+i, y, ch, nil, tcell.StyleDefault.Foreground(color).Bold(true))
		}
		for i, ch := range hint {
			s.SetContent((width-len(hint))/2+i, y+2, ch, nil, hintStyle)
		}
		s.Show()
		time.Sleep(delay)
	}

	for {
		switch s.PollEvent().(type) {
		case *tcell.EventKey, nil:
			return
		case *tcell.EventResize:
			s.Sync()
		}
	}
}
