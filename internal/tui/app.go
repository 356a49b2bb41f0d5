package tui

import (
	"fmt"

	"github.com/Engineer-Guild-Hackathon/team-20-app-sub000/internal/app"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// View is the top-level screen, the terminal stand-in for the SPA's routes:
// workspace "/", my-page "/mypage", teams "/teams".
type View int

const (
	ViewWorkspace View = iota
	ViewMyPage
	ViewTeams
)

func (v View) String() string {
	switch v {
	case ViewMyPage:
		return "my page"
	case ViewTeams:
		return "teams"
	default:
		return "workspace"
	}
}

// Model is the application root. It routes between screens and owns the
// transient notice banner; each screen checks login state for itself and
// renders a disabled substitute instead of redirecting.
type Model struct {
	app   *app.Application
	theme Theme
	keys  keyMap

	width  int
	height int

	view      View
	workspace *workspaceModel
	mypage    *myPageModel
	teams     *teamsModel
	login     *loginModel

	notice notice
}

func New(application *app.Application) *Model {
	theme := NewTheme(application.Config.Theme)
	keys := defaultKeyMap()
	md := NewMarkdownRenderer(theme)
	return &Model{
		app:       application,
		theme:     theme,
		keys:      keys,
		view:      ViewWorkspace,
		workspace: newWorkspaceModel(application, theme, keys, md),
		mypage:    newMyPageModel(application, theme, keys, md),
		teams:     newTeamsModel(application, theme, keys),
	}
}

func (m *Model) Init() tea.Cmd {
	if m.app.Session.LoggedIn() {
		return m.whoamiCmd()
	}
	return nil
}

func (m *Model) whoamiCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		name, err := m.app.Client.CurrentUser(ctx)
		return whoamiMsg{username: name, err: err}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.workspace.setSize(msg.Width, msg.Height-4)
		m.mypage.setSize(msg.Width, msg.Height-4)
		m.teams.setSize(msg.Width, msg.Height-4)
		if m.login != nil {
			m.login.setSize(msg.Width, msg.Height)
		}
		return m, nil

	case noticeMsg:
		m.notice = newNotice(msg.level, msg.text)
		return m, expireNotice(m.notice.ID)

	case noticeExpireMsg:
		if m.notice.ID == msg.id {
			m.notice = notice{}
		}
		return m, nil

	case loginDoneMsg:
		if msg.err != nil {
			if m.login != nil {
				m.login.finish()
			}
			return m, notify(noticeError, "login failed: "+app.Detail(msg.err))
		}
		if err := m.app.Session.SetToken(msg.token); err != nil {
			return m, notify(noticeError, "could not persist credential: "+err.Error())
		}
		m.login = nil
		return m, tea.Batch(
			notify(noticeSuccess, "logged in"),
			m.whoamiCmd(),
		)

	case registerDoneMsg:
		if msg.err != nil {
			if m.login != nil {
				m.login.finish()
			}
			return m, notify(noticeError, "registration failed: "+app.Detail(msg.err))
		}
		if m.login != nil {
			m.login.afterRegister(msg.username)
		}
		return m, notify(noticeSuccess, "registered, now log in")

	case whoamiMsg:
		if msg.err != nil {
			// Identity is best effort; a dead token just looks logged out.
			m.app.Session.SetUsername("")
			return m, nil
		}
		m.app.Session.SetUsername(msg.username)
		return m, nil

	case historyDetailMsg:
		if msg.err != nil {
			return m, notify(noticeError, "could not open summary: "+app.Detail(msg.err))
		}
		m.app.Summary.LoadFromHistory(msg.detail.SummaryRecord, msg.detail.Contents)
		m.workspace.refreshContent()
		m.view = ViewWorkspace
		return m, notify(noticeInfo, "opened "+msg.detail.Filename)

	case tea.KeyMsg:
		if m.login != nil {
			if key.Matches(msg, m.keys.Quit) {
				return m, tea.Quit
			}
			done, cmd := m.login.update(msg)
			if done {
				m.login = nil
			}
			return m, cmd
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextView):
			m.view = (m.view + 1) % 3
			switch m.view {
			case ViewMyPage:
				// Re-fetch on every navigation; nothing is cached across views.
				return m, m.mypage.enter()
			case ViewTeams:
				return m, m.teams.enter()
			}
			return m, nil

		case key.Matches(msg, m.keys.Login):
			if m.app.Session.LoggedIn() {
				return m, notify(noticeInfo, "already logged in as "+m.app.Session.Username())
			}
			m.login = newLoginModel(m.app, m.theme, m.keys)
			m.login.setSize(m.width, m.height)
			return m, m.login.focusCmd()

		case key.Matches(msg, m.keys.Logout):
			if !m.app.Session.LoggedIn() {
				return m, notify(noticeInfo, "not logged in")
			}
			if err := m.app.Logout(); err != nil {
				return m, notify(noticeError, "logout failed: "+err.Error())
			}
			m.mypage.reset()
			m.teams.reset()
			return m, notify(noticeInfo, "logged out")
		}
	}

	// Everything else goes to the screens. Key input is for the active view
	// only; async results fan out so late responses land wherever their
	// state lives, visible or not.
	if _, isKey := msg.(tea.KeyMsg); isKey {
		return m, m.updateActive(msg)
	}
	var cmds []tea.Cmd
	cmds = append(cmds, m.workspace.update(msg))
	cmds = append(cmds, m.mypage.update(msg))
	cmds = append(cmds, m.teams.update(msg))
	return m, tea.Batch(cmds...)
}

func (m *Model) updateActive(msg tea.Msg) tea.Cmd {
	switch m.view {
	case ViewMyPage:
		return m.mypage.update(msg)
	case ViewTeams:
		return m.teams.update(msg)
	default:
		return m.workspace.update(msg)
	}
}

func (m *Model) View() string {
	if m.login != nil {
		return m.login.view()
	}

	top := m.renderTopBar()
	var body string
	switch m.view {
	case ViewMyPage:
		body = m.mypage.view()
	case ViewTeams:
		body = m.teams.view()
	default:
		body = m.workspace.view()
	}

	footer := m.theme.Footer.Render(helpLine(m.keys.NextView, m.keys.Login, m.keys.Logout, m.keys.Quit))
	noticeLine := m.renderNotice()

	return lipgloss.JoinVertical(lipgloss.Left, top, body, noticeLine, footer)
}

func (m *Model) renderTopBar() string {
	title := m.theme.TopBarTitle.Render("CogniStudy")
	badge := m.theme.TopBarBadge.Render(fmt.Sprintf("[%s]", m.view))
	who := "not logged in"
	if m.app.Session.LoggedIn() {
		who = m.app.Session.Username()
		if who == "" {
			who = "logged in"
		}
	}
	meta := m.theme.TopBarMeta.Render(who)
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(badge) - lipgloss.Width(meta) - 4
	if gap < 1 {
		gap = 1
	}
	return m.theme.TopBar.Render(title + " " + badge + lipgloss.NewStyle().Width(gap).Render("") + meta)
}
