// Package notify defines the sink that core components report outcomes
// to. The core never renders UI directly; every user-visible success or
// failure message flows through a Sink.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Severity classifies a notification
type Severity string

const (
	// Info is a routine success or status message
	Info Severity = "info"

	// Destructive flags a failure requiring user attention
	Destructive Severity = "destructive"
)

// Notification is one user-visible message
type Notification struct {
	Title       string
	Description string
	Severity    Severity
}

// Sink accepts notifications for display
type Sink interface {
	Notify(n Notification)
}

// Infof sends an info notification through s
func Infof(s Sink, title, format string, args ...any) {
	s.Notify(Notification{
		Title:       title,
		Description: fmt.Sprintf(format, args...),
		Severity:    Info,
	})
}

// Errorf sends a destructive notification through s
func Errorf(s Sink, title, format string, args ...any) {
	s.Notify(Notification{
		Title:       title,
		Description: fmt.Sprintf(format, args...),
		Severity:    Destructive,
	})
}

// Console writes styled notifications to a terminal writer.
// Safe for concurrent use: polling loops and command handlers may
// notify at the same time.
type Console struct {
	mu  sync.Mutex
	out io.Writer

	infoStyle  lipgloss.Style
	errorStyle lipgloss.Style
	descStyle  lipgloss.Style
}

// NewConsole creates a console sink writing to out
func NewConsole(out io.Writer) *Console {
	return &Console{
		out:        out,
		infoStyle:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		errorStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		descStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// Notify implements Sink
func (c *Console) Notify(n Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()

	title := c.infoStyle.Render(n.Title)
	if n.Severity == Destructive {
		title = c.errorStyle.Render(n.Title)
	}
	fmt.Fprintf(c.out, "%s  %s\n", title, c.descStyle.Render(n.Description))
}

// Discard is a Sink that drops all notifications
type Discard struct{}

// Notify implements Sink
func (Discard) Notify(Notification) {}
