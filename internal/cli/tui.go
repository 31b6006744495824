package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"calcsheet/internal/app"
	"calcsheet/internal/sheet"
)

func runTUI(file string, splash bool, logger *slog.Logger) error {
	a := app.NewApp(sheet.New(sheet.WithLogger(logger)), logger)
	if file != "" {
		if err := a.Open(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		// a new file is created on the first :w
		a.File = file
	}

	s, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("cannot create screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return fmt.Errorf("cannot init screen: %w", err)
	}
	defer s.Fini()
	s.Clear()

	if splash {
		app.Splash(s, "CALCSHEET", 100*time.Millisecond)
	}

	for !a.Quit {
		a.EnsureCursorVisible(s)
		a.Draw(s)
		switch ev := s.PollEvent().(type) {
		case *tcell.EventKey:
			a.HandleKeyEvent(s, ev)
		case *tcell.EventResize:
			s.Sync()
		case nil:
			return nil
		}
	}
	return nil
}
