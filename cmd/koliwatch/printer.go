package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/hako/durafmt"
	"github.com/koligo/koligo/livesync"
	"github.com/koligo/koligo/types"
)

var (
	dimStyle     = lipgloss.NewStyle().Faint(true)
	boldStyle    = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// printer writes the live views to the terminal.
// Records already printed are skipped on later updates.
type printer struct {
	w  io.Writer
	me string

	mu       sync.Mutex
	seen     map[string]bool
	status   types.AssignmentStatus
	unread   uint64
	badge    uint64
	lastErr  error
	started  bool
}

func newPrinter(w io.Writer, me string) *printer {
	return &printer{
		w:    w,
		me:   me,
		seen: map[string]bool{},
	}
}

func (p *printer) println(a ...any) {
	fmt.Fprintln(p.w, a...)
}

func (p *printer) info(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.println(dimStyle.Render(msg))
}

func (p *printer) warn(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.println(warningStyle.Render(msg))
}

func (p *printer) notice(n livesync.Notice) {
	p.mu.Lock()
	defer p.mu.Unlock()

	style := successStyle
	switch n.Kind {
	case livesync.NoticeWarning:
		style = warningStyle
	case livesync.NoticeError:
		style = errorStyle
	}

	if n.Err != nil {
		p.lastErr = n.Err
	}

	p.println(style.Render(n.Message))
}

// noticed reports whether err was already shown as a notice.
func (p *printer) noticed(err error) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr == err
}

func (p *printer) messages(mm []types.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, m := range mm {
		if p.seen[m.ID] {
			continue
		}

		p.seen[m.ID] = true

		sender := m.SenderID
		if sender == p.me {
			sender = "you"
		}

		line := fmt.Sprintf("%s %s: %s", dimStyle.Render(m.CreatedAt.Local().Format("15:04")), boldStyle.Render(sender), m.Content)
		if m.ImageURL != nil {
			line += " " + dimStyle.Render(*m.ImageURL)
		}
		p.println(line)
	}
}

func (p *printer) tracking(a types.AssignmentView, events []types.TrackingEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, e := range events {
		if p.seen[e.ID] {
			continue
		}

		p.seen[e.ID] = true

		line := fmt.Sprintf("%s [%s] %s", dimStyle.Render(e.CreatedAt.Local().Format("Jan 2 15:04")), e.Kind, e.Description)
		if e.Location != nil {
			line += " @ " + *e.Location
		}
		p.println(line)
	}

	if a.ID == "" {
		return
	}

	status := a.Assignment.Status()
	if p.started && status == p.status {
		return
	}

	p.started = true
	p.status = status

	line := "status: " + boldStyle.Render(status.String())
	if action, ok := a.NextAction(); ok {
		line += dimStyle.Render(" (next: " + string(action) + ")")
	}
	p.println(line)
}

func (p *printer) notifications(nn []types.Notification, unread uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// newest first; printed oldest first.
	for i := len(nn) - 1; i >= 0; i-- {
		n := nn[i]
		if p.seen[n.ID] {
			continue
		}

		p.seen[n.ID] = true

		title := n.Title
		if !n.Read {
			title = boldStyle.Render(title)
		}

		p.println(fmt.Sprintf("%s %s %s %s", dimStyle.Render(n.ID), title, n.Message, dimStyle.Render(ago(n.CreatedAt))))
	}

	if unread != p.unread {
		p.unread = unread
		p.println(dimStyle.Render(fmt.Sprintf("%d unread notifications", unread)))
	}
}

func (p *printer) unreadMessages(count uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if count == p.badge {
		return
	}

	p.badge = count
	p.println(dimStyle.Render(fmt.Sprintf("%d unread messages", count)))
}

func ago(t time.Time) string {
	d := time.Since(t).Truncate(time.Second)
	if d < time.Second {
		return "just now"
	}
	return durafmt.Parse(d).LimitFirstN(1).String() + " ago"
}
