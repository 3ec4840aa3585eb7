// Package termview adapts the renderer's text-line output to a real
// terminal, via gdamore/tcell/v2.
package termview

// Adapter is the terminal collaborator the renderer facade is driven
// through: print a line, clear the screen, flip the buffer, block for a
// keypress.
type Adapter interface {
	PrintLine(row int, s string)
	Clear()
	Refresh()
	ReadKey() (rune, error)
}
