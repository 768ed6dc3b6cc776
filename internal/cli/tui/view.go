package tui

import (
	"fmt"
	"strings"

	"github.com/commentify/commentify/internal/monitor"
)

// View implements tea.Model
func (m *Model) View() string {
	if m.Quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if m.Snapshot == nil {
		b.WriteString("  Waiting for first refresh...\n")
	} else {
		b.WriteString(m.renderCounters())
		b.WriteString("\n")
		b.WriteString(m.renderProgress())
		b.WriteString("\n")
	}

	if len(m.Notices) > 0 {
		b.WriteString("\n")
		for _, line := range m.Notices {
			b.WriteString("  " + line + "\n")
		}
	}

	b.WriteString(m.renderFooter())
	return b.String()
}

// renderHeader renders the title line with the last fetch time
func (m *Model) renderHeader() string {
	updated := "never"
	if m.Snapshot != nil {
		updated = m.Snapshot.FetchedAt.Format("15:04:05")
	}
	return fmt.Sprintf("%s  %s",
		m.Styles.Title.Render("Queue Status"),
		m.Styles.Updated.Render("Updated: "+updated),
	)
}

// renderCounters renders the four-counter grid
func (m *Model) renderCounters() string {
	stats := m.Snapshot.Stats
	return fmt.Sprintf("  %s %s   %s %s   %s %s   %s %s\n",
		m.Styles.Waiting.Render(fmt.Sprintf("%d", stats.Waiting)),
		m.Styles.Label.Render("waiting"),
		m.Styles.Active.Render(fmt.Sprintf("%d", stats.Active)),
		m.Styles.Label.Render("active"),
		m.Styles.Completed.Render(fmt.Sprintf("%d", stats.Completed)),
		m.Styles.Label.Render("completed"),
		m.Styles.Failed.Render(fmt.Sprintf("%d", stats.Failed)),
		m.Styles.Label.Render("failed"),
	)
}

// renderProgress renders the overall progress bar and counts
func (m *Model) renderProgress() string {
	stats := m.Snapshot.Stats
	pct := monitor.Progress(stats)
	bar := m.renderProgressBar(pct, 30)
	processed := stats.Completed + stats.Failed

	return fmt.Sprintf("  %s %3.0f%%  %s\n",
		bar, pct,
		m.Styles.Label.Render(fmt.Sprintf("%d of %d jobs processed", processed, stats.Total())),
	)
}

// renderProgressBar renders a fixed-width bar for a percentage
func (m *Model) renderProgressBar(pct float64, width int) string {
	filled := int(pct / 100 * float64(width))
	if filled > width {
		filled = width
	}
	return m.Styles.ProgressFilled.Render(strings.Repeat("█", filled)) +
		m.Styles.ProgressEmpty.Render(strings.Repeat("░", width-filled))
}

// renderFooter renders the key bindings line
func (m *Model) renderFooter() string {
	keys := []struct{ key, desc string }{
		{"r", "refresh"},
		{"p", "pause"},
		{"s", "resume"},
		{"c", "clean"},
		{"q", "quit"},
	}

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, m.Styles.FooterKey.Render(k.key)+" "+k.desc)
	}
	return m.Styles.Footer.Render("  " + strings.Join(parts, "  ·  "))
}
