package tui

import (
	"strings"

	"github.com/Engineer-Guild-Hackathon/team-20-app-sub000/internal/app"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// loginModel is the modal login/register form. It owns the keyboard while
// open; the root closes it on success or esc.
type loginModel struct {
	app   *app.Application
	theme Theme
	keys  keyMap

	username textinput.Model
	password textinput.Model
	focusIdx int

	registering bool
	busy        bool

	width  int
	height int
}

func newLoginModel(application *app.Application, theme Theme, keys keyMap) *loginModel {
	user := textinput.New()
	user.Placeholder = "username"
	user.CharLimit = 64
	user.Focus()

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.CharLimit = 128
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'

	return &loginModel{
		app:      application,
		theme:    theme,
		keys:     keys,
		username: user,
		password: pass,
	}
}

func (l *loginModel) setSize(w, h int) { l.width, l.height = w, h }

func (l *loginModel) focusCmd() tea.Cmd { return textinput.Blink }

// finish re-enables the form after a failed attempt.
func (l *loginModel) finish() { l.busy = false }

func (l *loginModel) afterRegister(username string) {
	l.busy = false
	l.registering = false
	l.username.SetValue(username)
	l.password.SetValue("")
}

func (l *loginModel) update(msg tea.KeyMsg) (done bool, cmd tea.Cmd) {
	switch {
	case key.Matches(msg, l.keys.Back):
		return true, nil

	case key.Matches(msg, l.keys.Focus):
		l.focusIdx = (l.focusIdx + 1) % 2
		if l.focusIdx == 0 {
			l.username.Focus()
			l.password.Blur()
		} else {
			l.username.Blur()
			l.password.Focus()
		}
		return false, textinput.Blink

	case msg.String() == "ctrl+r":
		l.registering = !l.registering
		return false, nil

	case key.Matches(msg, l.keys.Select):
		if l.busy {
			return false, nil
		}
		user := strings.TrimSpace(l.username.Value())
		pass := l.password.Value()
		if user == "" || pass == "" {
			return false, notify(noticeWarning, "enter a username and password")
		}
		l.busy = true
		if l.registering {
			return false, l.registerCmd(user, pass)
		}
		return false, l.loginCmd(user, pass)
	}

	var c tea.Cmd
	if l.focusIdx == 0 {
		l.username, c = l.username.Update(msg)
	} else {
		l.password, c = l.password.Update(msg)
	}
	return false, c
}

func (l *loginModel) loginCmd(user, pass string) tea.Cmd {
	client := l.app.Client
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		token, err := client.Login(ctx, user, pass)
		return loginDoneMsg{username: user, token: token, err: err}
	}
}

func (l *loginModel) registerCmd(user, pass string) tea.Cmd {
	client := l.app.Client
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		err := client.Register(ctx, user, pass)
		return registerDoneMsg{username: user, err: err}
	}
}

func (l *loginModel) view() string {
	title := "log in"
	action := "enter log in | ctrl+r switch to register"
	if l.registering {
		title = "register"
		action = "enter register | ctrl+r switch to log in"
	}
	if l.busy {
		action = "working…"
	}

	var b strings.Builder
	b.WriteString(l.theme.PaneTitle.Render(title))
	b.WriteString("\n\n")
	b.WriteString(l.username.View())
	b.WriteString("\n")
	b.WriteString(l.password.View())
	b.WriteString("\n\n")
	b.WriteString(l.theme.Footer.Render(action + " | esc back"))

	box := l.theme.PaneFocused.Width(min(48, max(24, l.width-8))).Render(b.String())
	return lipgloss.Place(l.width, l.height, lipgloss.Center, lipgloss.Center, box)
}
