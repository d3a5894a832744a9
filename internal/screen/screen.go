// Package screen defines what the router needs from a screen and the
// lifetime helper screens use to scope their async loads.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/mixingo/mixingo/internal/ui/layout"
)

// Screen is one page of the client. View renders only the body; the app
// draws the header and footer around it.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View(width, height int) string

	// Title is shown centred in the header. Empty means no title.
	Title() string
}

// KeyHintProvider lets a screen replace the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Closer is implemented by screens that own in-flight work. The router
// calls Close once the screen leaves the stack.
type Closer interface {
	Close()
}
