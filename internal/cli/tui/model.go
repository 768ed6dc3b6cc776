package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/commentify/commentify/internal/monitor"
	"github.com/commentify/commentify/internal/notify"
)

// noticeLimit bounds the rolling notification log
const noticeLimit = 5

// Model is the bubbletea model for the live queue dashboard
type Model struct {
	Monitor *monitor.Monitor
	Styles  Styles

	// State
	Snapshot *monitor.Snapshot
	Busy     bool
	Notices  []string
	Width    int

	// Control
	Quitting bool

	ctx context.Context
}

// NewModel creates a dashboard model over a started monitor
func NewModel(ctx context.Context, m *monitor.Monitor) *Model {
	return &Model{
		Monitor: m,
		Styles:  DefaultStyles(),
		ctx:     ctx,
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tickCmd()
}

// TickMsg redraws the dashboard from the monitor's current snapshot
type TickMsg time.Time

// tickCmd schedules the next redraw
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// ActionDoneMsg reports that a queue command finished
type ActionDoneMsg struct{}

// NoticeMsg carries a notification into the dashboard's message log
type NoticeMsg notify.Notification

// Sink adapts a running bubbletea program into a notify.Sink so core
// components can report outcomes onto the dashboard instead of stdout.
type Sink struct {
	Send func(msg tea.Msg)
}

// Notify implements notify.Sink
func (s *Sink) Notify(n notify.Notification) {
	s.Send(NoticeMsg(n))
}

// commandCmd runs a queue command off the UI loop
func (m *Model) commandCmd(fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		// Outcome reporting happens through the notification sink;
		// the error itself is already surfaced there.
		_ = fn(ctx)
		return ActionDoneMsg{}
	}
}
