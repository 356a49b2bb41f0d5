package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Engineer-Guild-Hackathon/team-20-app-sub000/internal/app"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type teamsMode int

const (
	tmList teamsMode = iota
	tmCreate
	tmDetail
	tmAddMember
	tmUploadFile
)

type teamsTab int

const (
	tabMembers teamsTab = iota
	tabFiles
)

// fileSavedMsg reports a completed download. The write happens in the
// command, off the UI loop.
type fileSavedMsg struct {
	path string
	err  error
}

// teamsModel lists the user's teams and, per team, its members and shared
// files. Member management is admin-only; the backend enforces it and this
// screen mirrors the check to fail fast.
type teamsModel struct {
	app   *app.Application
	theme Theme
	keys  keyMap

	mode    teamsMode
	tab     teamsTab
	teams   []app.Team
	cursor  int
	loading bool

	current   app.Team
	members   []app.TeamMember
	files     []app.TeamFile
	subCursor int

	input textinput.Model

	width  int
	height int
}

func newTeamsModel(application *app.Application, theme Theme, keys keyMap) *teamsModel {
	input := textinput.New()
	input.CharLimit = 256
	return &teamsModel{app: application, theme: theme, keys: keys}
}

func (t *teamsModel) setSize(width, height int) {
	t.width = width
	t.height = height
}

func (t *teamsModel) enter() tea.Cmd {
	if !t.app.Session.LoggedIn() {
		return nil
	}
	t.loading = true
	client := t.app.Client
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		teams, err := client.MyTeams(ctx)
		return teamsMsg{teams: teams, err: err}
	}
}

func (t *teamsModel) reset() {
	t.mode = tmList
	t.tab = tabMembers
	t.teams = nil
	t.members = nil
	t.files = nil
	t.cursor = 0
	t.subCursor = 0
}

func (t *teamsModel) isAdmin() bool { return t.current.Role == app.RoleAdmin }

func (t *teamsModel) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return t.handleKey(msg)

	case teamsMsg:
		t.loading = false
		if msg.err != nil {
			return notify(noticeError, "teams unavailable: "+app.Detail(msg.err))
		}
		t.teams = msg.teams
		if t.cursor >= len(t.teams) {
			t.cursor = max(0, len(t.teams)-1)
		}
		return nil

	case teamCreatedMsg:
		if msg.err != nil {
			return notify(noticeError, "team not created: "+app.Detail(msg.err))
		}
		return tea.Batch(notify(noticeSuccess, "created team "+msg.name), t.enter())

	case membersMsg:
		if msg.teamID != t.current.ID {
			return nil
		}
		if msg.err != nil {
			return notify(noticeError, "members unavailable: "+app.Detail(msg.err))
		}
		t.members = msg.members
		if t.tab == tabMembers && t.subCursor >= len(t.members) {
			t.subCursor = max(0, len(t.members)-1)
		}
		return nil

	case memberMutatedMsg:
		if msg.teamID != t.current.ID {
			return nil
		}
		if msg.err != nil {
			return notify(noticeError, app.Detail(msg.err))
		}
		return t.fetchMembersCmd()

	case teamFilesMsg:
		if msg.teamID != t.current.ID {
			return nil
		}
		if msg.err != nil {
			return notify(noticeError, "files unavailable: "+app.Detail(msg.err))
		}
		t.files = msg.files
		if t.tab == tabFiles && t.subCursor >= len(t.files) {
			t.subCursor = max(0, len(t.files)-1)
		}
		return nil

	case fileSavedMsg:
		if msg.err != nil {
			return notify(noticeError, "download failed: "+app.Detail(msg.err))
		}
		return notify(noticeSuccess, "saved "+msg.path)
	}
	return nil
}

func (t *teamsModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch t.mode {
	case tmCreate, tmAddMember, tmUploadFile:
		switch {
		case key.Matches(msg, t.keys.Back):
			t.mode = t.backMode()
			return nil
		case key.Matches(msg, t.keys.Select):
			return t.commitInput()
		}
		var c tea.Cmd
		t.input, c = t.input.Update(msg)
		return c

	case tmDetail:
		return t.handleDetailKey(msg)
	}

	// Team list.
	switch {
	case msg.String() == "up", msg.String() == "k":
		if t.cursor > 0 {
			t.cursor--
		}
	case msg.String() == "down", msg.String() == "j":
		if t.cursor < len(t.teams)-1 {
			t.cursor++
		}
	case key.Matches(msg, t.keys.NewTeam):
		if !t.app.Session.LoggedIn() {
			return notify(noticeWarning, "log in to create a team")
		}
		t.mode = tmCreate
		t.input.Placeholder = "team name"
		t.input.Reset()
		t.input.Focus()
		return textinput.Blink
	case key.Matches(msg, t.keys.Select):
		if t.cursor < len(t.teams) {
			t.current = t.teams[t.cursor]
			t.mode = tmDetail
			t.tab = tabMembers
			t.subCursor = 0
			t.members = nil
			t.files = nil
			return tea.Batch(t.fetchMembersCmd(), t.fetchFilesCmd())
		}
	}
	return nil
}

func (t *teamsModel) handleDetailKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, t.keys.Back):
		t.mode = tmList
		return nil

	case key.Matches(msg, t.keys.Focus):
		if t.tab == tabMembers {
			t.tab = tabFiles
		} else {
			t.tab = tabMembers
		}
		t.subCursor = 0
		return nil

	case msg.String() == "up", msg.String() == "k":
		if t.subCursor > 0 {
			t.subCursor--
		}
		return nil
	case msg.String() == "down", msg.String() == "j":
		if t.subCursor < t.subLen()-1 {
			t.subCursor++
		}
		return nil

	case key.Matches(msg, t.keys.AddMember):
		if !t.isAdmin() {
			return notify(noticeWarning, "only team admins can add members")
		}
		t.mode = tmAddMember
		t.input.Placeholder = "username"
		t.input.Reset()
		t.input.Focus()
		return textinput.Blink

	case key.Matches(msg, t.keys.Remove):
		if t.tab == tabMembers {
			return t.removeMember()
		}
		return t.deleteFile()

	case key.Matches(msg, t.keys.Role):
		return t.toggleRole()

	case msg.String() == "u":
		t.mode = tmUploadFile
		t.input.Placeholder = "path/to/file.pdf"
		t.input.Reset()
		t.input.Focus()
		return textinput.Blink

	case key.Matches(msg, t.keys.Select):
		if t.tab == tabFiles {
			return t.downloadFile()
		}
		return nil
	}
	return nil
}

func (t *teamsModel) backMode() teamsMode {
	if t.mode == tmCreate {
		return tmList
	}
	return tmDetail
}

func (t *teamsModel) subLen() int {
	if t.tab == tabMembers {
		return len(t.members)
	}
	return len(t.files)
}

func (t *teamsModel) commitInput() tea.Cmd {
	value := strings.TrimSpace(t.input.Value())
	mode := t.mode
	t.mode = t.backMode()
	if value == "" {
		return nil
	}
	client := t.app.Client

	switch mode {
	case tmCreate:
		return func() tea.Msg {
			ctx, cancel := withTimeout()
			defer cancel()
			name, err := client.CreateTeam(ctx, value)
			return teamCreatedMsg{name: name, err: err}
		}

	case tmAddMember:
		teamID := t.current.ID
		return func() tea.Msg {
			ctx, cancel := withTimeout()
			defer cancel()
			err := client.AddTeamMember(ctx, teamID, value)
			return memberMutatedMsg{teamID: teamID, err: err}
		}

	case tmUploadFile:
		if err := app.CheckPDF(value, t.app.Config.MaxUploadMiB); err != nil {
			return notify(noticeWarning, err.Error())
		}
		teamID := t.current.ID
		return func() tea.Msg {
			ctx, cancel := withTimeout()
			defer cancel()
			if err := client.UploadTeamFile(ctx, teamID, value); err != nil {
				return teamFilesMsg{teamID: teamID, err: err}
			}
			ctx2, cancel2 := withTimeout()
			defer cancel2()
			files, err := client.TeamFiles(ctx2, teamID)
			return teamFilesMsg{teamID: teamID, files: files, err: err}
		}
	}
	return nil
}

func (t *teamsModel) fetchMembersCmd() tea.Cmd {
	client := t.app.Client
	teamID := t.current.ID
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		members, err := client.TeamMembers(ctx, teamID)
		return membersMsg{teamID: teamID, members: members, err: err}
	}
}

func (t *teamsModel) fetchFilesCmd() tea.Cmd {
	client := t.app.Client
	teamID := t.current.ID
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		files, err := client.TeamFiles(ctx, teamID)
		return teamFilesMsg{teamID: teamID, files: files, err: err}
	}
}

func (t *teamsModel) removeMember() tea.Cmd {
	if !t.isAdmin() {
		return notify(noticeWarning, "only team admins can remove members")
	}
	if t.subCursor >= len(t.members) {
		return nil
	}
	member := t.members[t.subCursor]
	client := t.app.Client
	teamID := t.current.ID
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		err := client.RemoveTeamMember(ctx, teamID, member.UserID)
		return memberMutatedMsg{teamID: teamID, err: err}
	}
}

func (t *teamsModel) toggleRole() tea.Cmd {
	if t.tab != tabMembers {
		return nil
	}
	if !t.isAdmin() {
		return notify(noticeWarning, "only team admins can change roles")
	}
	if t.subCursor >= len(t.members) {
		return nil
	}
	member := t.members[t.subCursor]
	newRole := app.RoleAdmin
	if member.Role == app.RoleAdmin {
		newRole = app.RoleMember
	}
	client := t.app.Client
	teamID := t.current.ID
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		err := client.ChangeTeamMemberRole(ctx, teamID, member.UserID, newRole)
		return memberMutatedMsg{teamID: teamID, err: err}
	}
}

func (t *teamsModel) deleteFile() tea.Cmd {
	if !t.isAdmin() {
		return notify(noticeWarning, "only team admins can delete files")
	}
	if t.subCursor >= len(t.files) {
		return nil
	}
	file := t.files[t.subCursor]
	client := t.app.Client
	teamID := t.current.ID
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		if err := client.DeleteFile(ctx, file.ID); err != nil {
			return teamFilesMsg{teamID: teamID, err: err}
		}
		ctx2, cancel2 := withTimeout()
		defer cancel2()
		files, err := client.TeamFiles(ctx2, teamID)
		return teamFilesMsg{teamID: teamID, files: files, err: err}
	}
}

func (t *teamsModel) downloadFile() tea.Cmd {
	if t.subCursor >= len(t.files) {
		return nil
	}
	file := t.files[t.subCursor]
	client := t.app.Client
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		data, err := client.DownloadFile(ctx, file.ID)
		if err != nil {
			return fileSavedMsg{err: err}
		}
		dest := filepath.Join(".", filepath.Base(file.Filename))
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			return fileSavedMsg{err: err}
		}
		return fileSavedMsg{path: dest}
	}
}

func (t *teamsModel) view() string {
	if !t.app.Session.LoggedIn() {
		return t.theme.Pane.Render(
			t.theme.PaneTitle.Render("teams") + "\n\n" +
				"Log in to see your teams (ctrl+l).")
	}

	if t.mode == tmDetail || t.mode == tmAddMember || t.mode == tmUploadFile {
		return t.viewDetail()
	}

	var b strings.Builder
	b.WriteString(t.theme.PaneTitle.Render(fmt.Sprintf("teams (%d)", len(t.teams))))
	b.WriteString("\n")
	switch {
	case t.loading:
		b.WriteString(t.theme.Footer.Render("loading…"))
	case len(t.teams) == 0:
		b.WriteString(t.theme.Footer.Render("No teams yet. Press n to create one."))
	default:
		for i, team := range t.teams {
			line := team.Name + " " + t.theme.TagChip.Render("["+team.Role+"]")
			if i == t.cursor {
				b.WriteString(t.theme.ListItemSel.Render("> " + line))
			} else {
				b.WriteString(t.theme.ListItem.Render("  " + line))
			}
			b.WriteString("\n")
		}
	}

	if t.mode == tmCreate {
		b.WriteString("\n")
		b.WriteString(t.theme.InputBoxF.Render("name: " + t.input.View()))
	} else {
		b.WriteString("\n")
		b.WriteString(t.theme.Footer.Render(helpLine(t.keys.Select, t.keys.NewTeam)))
	}
	return t.theme.Pane.Render(b.String())
}

func (t *teamsModel) viewDetail() string {
	var b strings.Builder
	b.WriteString(t.theme.PaneTitle.Render("team · " + t.current.Name))
	b.WriteString("\n\n")

	memberLabel := fmt.Sprintf("members (%d)", len(t.members))
	fileLabel := fmt.Sprintf("files (%d)", len(t.files))
	if t.tab == tabMembers {
		b.WriteString(t.theme.ListItemSel.Render(memberLabel) + "  " + t.theme.Footer.Render(fileLabel))
	} else {
		b.WriteString(t.theme.Footer.Render(memberLabel) + "  " + t.theme.ListItemSel.Render(fileLabel))
	}
	b.WriteString("\n")

	if t.tab == tabMembers {
		for i, member := range t.members {
			line := member.Username + " " + t.theme.TagChip.Render("["+member.Role+"]")
			if i == t.subCursor {
				b.WriteString(t.theme.ListItemSel.Render("> " + line))
			} else {
				b.WriteString(t.theme.ListItem.Render("  " + line))
			}
			b.WriteString("\n")
		}
	} else {
		if len(t.files) == 0 {
			b.WriteString(t.theme.Footer.Render("No shared files."))
			b.WriteString("\n")
		}
		for i, file := range t.files {
			line := fmt.Sprintf("%s  %s  %s", file.Filename, formatSize(file.Filesize), file.UploadedBy)
			if i == t.subCursor {
				b.WriteString(t.theme.ListItemSel.Render("> " + line))
			} else {
				b.WriteString(t.theme.ListItem.Render("  " + line))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	switch t.mode {
	case tmAddMember:
		b.WriteString(t.theme.InputBoxF.Render("username: " + t.input.View()))
	case tmUploadFile:
		b.WriteString(t.theme.InputBoxF.Render("file: " + t.input.View()))
	default:
		help := helpLine(t.keys.Focus, t.keys.AddMember, t.keys.Remove, t.keys.Role, t.keys.Back)
		if t.tab == tabFiles {
			help = helpLine(t.keys.Focus, t.keys.Select, t.keys.Remove, t.keys.Back) + " | u upload"
		}
		b.WriteString(t.theme.Footer.Render(help))
	}
	return t.theme.Pane.Render(b.String())
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1fMiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1fKiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%dB", n)
	}
}
