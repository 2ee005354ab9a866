// Package tui provides the Bubble Tea front end for snake: the tick loop,
// key mapping, board drawing, high-score entry and the SSH server.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg triggers one simulation step. Generation and Chain identify the
// session and the tick chain that scheduled it; ticks from a replaced
// session or an abandoned chain are dropped.
type TickMsg struct {
	Generation uint64
	Chain      uint64
	At         time.Time
}

// tickCmd schedules the next tick after interval. The interval is read
// from the session every time, so speed changes apply to the next tick.
func tickCmd(generation, chain uint64, interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Generation: generation, Chain: chain, At: t}
	})
}
