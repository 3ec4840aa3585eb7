package termview

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// TcellAdapter implements Adapter on top of a real terminal via tcell.
type TcellAdapter struct {
	screen tcell.Screen
	style  tcell.Style
}

// NewTcellAdapter initializes and opens the terminal screen. Failure here
// is the renderer's InitFatal case: reported to the user, non-zero exit.
func NewTcellAdapter() (*TcellAdapter, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("termview: creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("termview: initializing screen: %w", err)
	}
	screen.SetStyle(tcell.StyleDefault)
	screen.Clear()

	return &TcellAdapter{screen: screen, style: tcell.StyleDefault}, nil
}

// Size returns the current terminal size in character cells.
func (a *TcellAdapter) Size() (w, h int) {
	return a.screen.Size()
}

func (a *TcellAdapter) PrintLine(row int, s string) {
	col := 0
	for _, r := range s {
		a.screen.SetContent(col, row, r, nil, a.style)
		col++
	}
}

func (a *TcellAdapter) Clear() {
	a.screen.Clear()
}

func (a *TcellAdapter) Refresh() {
	a.screen.Show()
}

// ReadKey blocks for the next key event, ignoring resize and mouse
// events, and returns its rune.
func (a *TcellAdapter) ReadKey() (rune, error) {
	for {
		switch ev := a.screen.PollEvent().(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Rune() == 'q' {
				return 'q', nil
			}
			if ev.Key() == tcell.KeyRune {
				return ev.Rune(), nil
			}
		case *tcell.EventResize:
			a.screen.Sync()
		}
	}
}

// Close releases the terminal.
func (a *TcellAdapter) Close() {
	a.screen.Fini()
}
