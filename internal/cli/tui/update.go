package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/commentify/commentify/internal/notify"
)

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.Quitting = true
			return m, tea.Quit
		case "r":
			if !m.Busy {
				m.Busy = true
				return m, m.commandCmd(m.Monitor.Refresh)
			}
		case "p":
			if !m.Busy {
				m.Busy = true
				return m, m.commandCmd(m.Monitor.Pause)
			}
		case "s":
			if !m.Busy {
				m.Busy = true
				return m, m.commandCmd(m.Monitor.Resume)
			}
		case "c":
			if !m.Busy {
				m.Busy = true
				return m, m.commandCmd(m.Monitor.Clean)
			}
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width

	case TickMsg:
		m.Snapshot = m.Monitor.Snapshot()
		return m, tickCmd()

	case ActionDoneMsg:
		m.Busy = false
		m.Snapshot = m.Monitor.Snapshot()

	case NoticeMsg:
		line := fmt.Sprintf("%s: %s", msg.Title, msg.Description)
		if msg.Severity == notify.Destructive {
			line = m.Styles.NoticeError.Render(line)
		} else {
			line = m.Styles.NoticeInfo.Render(line)
		}
		m.Notices = append(m.Notices, line)
		if len(m.Notices) > noticeLimit {
			m.Notices = m.Notices[len(m.Notices)-noticeLimit:]
		}
	}

	return m, nil
}
