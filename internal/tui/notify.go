package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

type severity string

const (
	noticeSuccess severity = "success"
	noticeError   severity = "error"
	noticeWarning severity = "warning"
	noticeInfo    severity = "info"
)

// notice is the transient banner every failure and confirmation degrades to.
// Nothing in the UI throws; it notifies.
type notice struct {
	ID    string
	Level severity
	Text  string
}

type noticeMsg struct {
	level severity
	text  string
}

type noticeExpireMsg struct{ id string }

const noticeTTL = 4 * time.Second

func notify(level severity, text string) tea.Cmd {
	return func() tea.Msg { return noticeMsg{level: level, text: text} }
}

func expireNotice(id string) tea.Cmd {
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return noticeExpireMsg{id: id}
	})
}

func newNotice(level severity, text string) notice {
	return notice{ID: uuid.NewString(), Level: level, Text: text}
}

func (m *Model) renderNotice() string {
	if m.notice.ID == "" {
		return ""
	}
	switch m.notice.Level {
	case noticeSuccess:
		return m.theme.NoticeSuccess.Render("✓ " + m.notice.Text)
	case noticeError:
		return m.theme.NoticeError.Render("✗ " + m.notice.Text)
	case noticeWarning:
		return m.theme.NoticeWarning.Render("! " + m.notice.Text)
	default:
		return m.theme.NoticeInfo.Render(m.notice.Text)
	}
}
