package tui

import (
	"fmt"
	"strings"

	"github.com/Engineer-Guild-Hackathon/team-20-app-sub000/internal/app"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type wsFocus int

const (
	wsFocusPath wsFocus = iota
	wsFocusChat
)

// wsTeamsMsg carries the team list for the save-destination picker; the
// teams screen has its own fetch with its own message.
type wsTeamsMsg struct {
	teams []app.Team
	err   error
}

// workspaceModel is the main screen: upload a PDF, read the generated
// summary, chat about it, tag it, save it personally or into a team.
type workspaceModel struct {
	app   *app.Application
	theme Theme
	keys  keyMap
	md    *MarkdownRenderer

	pathInput textinput.Model
	chatInput textarea.Model
	tagsInput textinput.Model
	summaryVP viewport.Model
	chatVP    viewport.Model

	focus       wsFocus
	editingTags bool

	// Save destination: index 0 is personal, the rest are saveTeams.
	saveTeams []app.Team
	destIdx   int

	uploading bool
	chatting  bool
	saving    bool
	spinPos   int

	width  int
	height int
	ready  bool
}

func newWorkspaceModel(application *app.Application, theme Theme, keys keyMap, md *MarkdownRenderer) *workspaceModel {
	path := textinput.New()
	path.Placeholder = "path/to/document.pdf (comma-separate for multiple)"
	path.CharLimit = 1024
	path.Focus()

	chat := textarea.New()
	chat.Placeholder = "Ask about the document…"
	chat.CharLimit = 4000
	chat.SetHeight(2)
	chat.ShowLineNumbers = false
	chat.Prompt = " "
	chat.FocusedStyle.CursorLine = lipgloss.NewStyle()
	chat.BlurredStyle.CursorLine = lipgloss.NewStyle()

	tags := textinput.New()
	tags.Placeholder = "tag1, tag2"
	tags.CharLimit = 256

	return &workspaceModel{
		app:       application,
		theme:     theme,
		keys:      keys,
		md:        md,
		pathInput: path,
		chatInput: chat,
		tagsInput: tags,
	}
}

func (w *workspaceModel) setSize(width, height int) {
	w.width = width
	w.height = height
	paneW := width/2 - 4
	paneH := height - 8
	if paneW < 20 {
		paneW = 20
	}
	if paneH < 5 {
		paneH = 5
	}
	if !w.ready {
		w.summaryVP = viewport.New(paneW, paneH)
		w.chatVP = viewport.New(paneW, paneH)
		w.ready = true
	} else {
		w.summaryVP.Width = paneW
		w.summaryVP.Height = paneH
		w.chatVP.Width = paneW
		w.chatVP.Height = paneH
	}
	w.pathInput.Width = width - 20
	w.chatInput.SetWidth(paneW)
	w.tagsInput.Width = width - 20
	w.refreshContent()
}

// refreshContent re-renders both viewports from session state.
func (w *workspaceModel) refreshContent() {
	if !w.ready {
		return
	}
	s := w.app.Summary
	if s.Active() {
		w.summaryVP.SetContent(w.md.Render(s.Record.Summary, w.summaryVP.Width))
	} else {
		w.summaryVP.SetContent(w.theme.Footer.Render("Upload a PDF to generate a summary."))
	}
	w.chatVP.SetContent(w.renderChat())
	w.chatVP.GotoBottom()
}

func (w *workspaceModel) renderChat() string {
	s := w.app.Summary
	if len(s.Chat) == 0 {
		return w.theme.Footer.Render("No conversation yet.")
	}
	var b strings.Builder
	for _, msg := range s.Chat {
		if msg.Sender == "user" {
			b.WriteString(w.theme.RoleYou.Render("you"))
			b.WriteString("\n")
			b.WriteString(msg.Text)
		} else {
			b.WriteString(w.theme.RoleAI.Render("ai"))
			b.WriteString("\n")
			b.WriteString(w.md.Render(msg.Text, w.chatVP.Width-2))
		}
		b.WriteString("\n\n")
	}
	return b.String()
}

func (w *workspaceModel) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return w.handleKey(msg)

	case uploadDoneMsg:
		w.uploading = false
		if msg.err != nil {
			return notify(noticeError, "upload failed: "+app.Detail(msg.err))
		}
		w.app.Summary.LoadFromUpload(msg.res.Summary, msg.res.Filename, msg.res.Tags)
		w.app.Summary.Record.FileIDs = msg.res.FileIDs
		w.refreshContent()
		return notify(noticeSuccess, "summarized "+msg.res.Filename)

	case chatDoneMsg:
		w.chatting = false
		if msg.err != nil {
			return notify(noticeError, "chat failed: "+app.Detail(msg.err))
		}
		if w.app.Summary.AppendChat(app.ChatMessage{Sender: "ai", Text: msg.reply}) {
			w.refreshContent()
			return w.persistChatCmd()
		}
		w.refreshContent()
		return nil

	case saveDoneMsg:
		w.saving = false
		if msg.err != nil {
			return notify(noticeError, "save failed: "+app.Detail(msg.err))
		}
		rec, flush := w.app.Summary.AdoptSave(msg.rec.ID, msg.rec.TeamID, msg.rec.TeamName, nil)
		w.app.History.Prepend(rec)
		cmds := []tea.Cmd{notify(noticeSuccess, fmt.Sprintf("saved %s (#%d)", rec.Filename, rec.ID))}
		if flush {
			cmds = append(cmds, w.persistChatCmd())
		}
		return tea.Batch(cmds...)

	case tagsSavedMsg:
		if msg.err != nil {
			return notify(noticeError, "tag update failed: "+app.Detail(msg.err))
		}
		if msg.rec.ID == w.app.Summary.Record.ID {
			w.app.Summary.Record.Tags = msg.rec.Tags
		}
		w.app.History.PatchOne(msg.rec)
		return notify(noticeSuccess, "tags updated")

	case wsTeamsMsg:
		if msg.err != nil {
			return notify(noticeError, "could not load teams: "+app.Detail(msg.err))
		}
		w.saveTeams = msg.teams
		if len(w.saveTeams) == 0 {
			return notify(noticeInfo, "no teams; saves stay personal")
		}
		w.destIdx = 1
		return notify(noticeInfo, "save destination: "+w.destName())

	case spinTickMsg:
		if w.uploading || w.chatting || w.saving {
			w.spinPos = (w.spinPos + 1) % len(spinnerFrames)
			return spinCmd()
		}
		return nil
	}

	return nil
}

func (w *workspaceModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if w.editingTags {
		switch {
		case key.Matches(msg, w.keys.Back):
			w.editingTags = false
			return nil
		case key.Matches(msg, w.keys.Select):
			w.editingTags = false
			return w.applyTags()
		}
		var c tea.Cmd
		w.tagsInput, c = w.tagsInput.Update(msg)
		return c
	}

	switch {
	case key.Matches(msg, w.keys.Focus):
		if w.focus == wsFocusPath {
			w.focus = wsFocusChat
			w.pathInput.Blur()
			w.chatInput.Focus()
		} else {
			w.focus = wsFocusPath
			w.chatInput.Blur()
			w.pathInput.Focus()
		}
		return textinput.Blink

	case key.Matches(msg, w.keys.Select):
		if w.focus == wsFocusPath {
			return w.startUpload()
		}
		return w.startChat()

	case key.Matches(msg, w.keys.Save):
		return w.startSave()

	case key.Matches(msg, w.keys.EditTags):
		if !w.app.Summary.Active() {
			return notify(noticeWarning, "no active summary to tag")
		}
		w.editingTags = true
		w.tagsInput.SetValue(strings.Join(w.app.Summary.Record.Tags, ", "))
		w.tagsInput.Focus()
		return textinput.Blink

	case key.Matches(msg, w.keys.CopyText):
		if !w.app.Summary.Active() {
			return notify(noticeWarning, "nothing to copy")
		}
		if err := clipboard.WriteAll(w.app.Summary.Record.Summary); err != nil {
			return notify(noticeError, "clipboard unavailable")
		}
		return notify(noticeSuccess, "summary copied")

	case msg.String() == "ctrl+b":
		return w.cycleDest()

	case msg.Type == tea.KeyPgUp:
		w.summaryVP.HalfViewUp()
		return nil
	case msg.Type == tea.KeyPgDown:
		w.summaryVP.HalfViewDown()
		return nil
	}

	var c tea.Cmd
	if w.focus == wsFocusPath {
		w.pathInput, c = w.pathInput.Update(msg)
	} else {
		w.chatInput, c = w.chatInput.Update(msg)
	}
	return c
}

func (w *workspaceModel) startUpload() tea.Cmd {
	raw := strings.TrimSpace(w.pathInput.Value())
	if raw == "" {
		return notify(noticeWarning, "enter a PDF path first")
	}
	var paths []string
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		// Rejected files never reach the network.
		if err := app.CheckPDF(p, w.app.Config.MaxUploadMiB); err != nil {
			return notify(noticeWarning, err.Error())
		}
		paths = append(paths, p)
	}
	if len(paths) == 0 {
		return notify(noticeWarning, "enter a PDF path first")
	}
	w.uploading = true
	client := w.app.Client
	return tea.Batch(spinCmd(), func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		res, err := client.UploadPDF(ctx, paths)
		return uploadDoneMsg{res: res, err: err}
	})
}

func (w *workspaceModel) startChat() tea.Cmd {
	question := strings.TrimSpace(w.chatInput.Value())
	if question == "" {
		return nil
	}
	if !w.app.Summary.Active() {
		return notify(noticeWarning, "upload or open a summary first")
	}
	if w.chatting {
		return notify(noticeInfo, "still thinking…")
	}
	w.chatInput.Reset()
	w.chatting = true
	persistNow := w.app.Summary.AppendChat(app.ChatMessage{Sender: "user", Text: question})
	w.refreshContent()

	client := w.app.Client
	summary := w.app.Summary.Record.Summary
	ask := func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		reply, err := client.Chat(ctx, question, summary)
		return chatDoneMsg{reply: reply, err: err}
	}
	cmds := []tea.Cmd{spinCmd(), ask}
	if persistNow {
		cmds = append(cmds, w.persistChatCmd())
	}
	return tea.Batch(cmds...)
}

// persistChatCmd snapshots the transcript on the UI loop and uploads it in
// the background. Persistence failures degrade to a notice; the local
// transcript is already what the user sees.
func (w *workspaceModel) persistChatCmd() tea.Cmd {
	s := w.app.Summary
	if !s.Record.Saved() {
		return nil
	}
	id := s.Record.ID
	blob := s.TranscriptJSON()
	s.MarkChatPersisted()
	client := w.app.Client
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		if err := client.UpsertHistoryContent(ctx, id, app.SectionAIChat, blob); err != nil {
			return noticeMsg{level: noticeWarning, text: "chat history not saved: " + app.Detail(err)}
		}
		return nil
	}
}

func (w *workspaceModel) startSave() tea.Cmd {
	if !w.app.Summary.Active() {
		return notify(noticeWarning, "nothing to save yet")
	}
	if !w.app.Session.LoggedIn() {
		return notify(noticeWarning, "log in to save summaries")
	}
	if w.saving {
		return nil
	}
	w.saving = true

	rec := w.app.Summary.Record
	var teamID int64
	var teamName string
	if w.destIdx > 0 && w.destIdx <= len(w.saveTeams) {
		teamID = w.saveTeams[w.destIdx-1].ID
		teamName = w.saveTeams[w.destIdx-1].Name
	}
	client := w.app.Client
	return tea.Batch(spinCmd(), func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		id, err := client.SaveSummary(ctx, rec.Filename, rec.Summary, teamID, rec.Tags)
		if err != nil {
			return saveDoneMsg{err: err}
		}
		return saveDoneMsg{rec: app.SummaryRecord{ID: id, TeamID: teamID, TeamName: teamName}}
	})
}

func (w *workspaceModel) applyTags() tea.Cmd {
	var tags []string
	for _, t := range strings.Split(w.tagsInput.Value(), ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	s := w.app.Summary
	if !s.Record.Saved() {
		s.Record.Tags = tags
		return notify(noticeInfo, "tags set; they persist on save")
	}
	rec := s.Record
	rec.Tags = tags
	client := w.app.Client
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		err := client.UpdateTags(ctx, rec.ID, tags)
		return tagsSavedMsg{rec: rec, err: err}
	}
}

func (w *workspaceModel) cycleDest() tea.Cmd {
	if !w.app.Session.LoggedIn() {
		return notify(noticeWarning, "log in to pick a team")
	}
	if w.saveTeams == nil {
		client := w.app.Client
		return func() tea.Msg {
			ctx, cancel := withTimeout()
			defer cancel()
			teams, err := client.MyTeams(ctx)
			return wsTeamsMsg{teams: teams, err: err}
		}
	}
	w.destIdx = (w.destIdx + 1) % (len(w.saveTeams) + 1)
	return notify(noticeInfo, "save destination: "+w.destName())
}

func (w *workspaceModel) destName() string {
	if w.destIdx == 0 || w.destIdx > len(w.saveTeams) {
		return "personal"
	}
	return "team " + w.saveTeams[w.destIdx-1].Name
}

func (w *workspaceModel) view() string {
	if !w.ready {
		return ""
	}
	s := w.app.Summary

	title := "no document"
	if s.Active() {
		title = s.Record.Filename
		if s.Record.Saved() {
			title = fmt.Sprintf("%s (#%d)", title, s.Record.ID)
		}
		if len(s.Record.Tags) > 0 {
			title += "  " + w.theme.TagChip.Render("["+strings.Join(s.Record.Tags, ", ")+"]")
		}
	}

	summaryPane := w.theme.Pane.Render(
		w.theme.PaneTitle.Render("summary · "+title) + "\n" + w.summaryVP.View())
	chatTitle := "chat"
	if w.chatting {
		chatTitle += " " + spinnerFrames[w.spinPos]
	}
	chatPane := w.theme.Pane.Render(
		w.theme.PaneTitle.Render(chatTitle) + "\n" + w.chatVP.View() + "\n" + w.chatInput.View())

	panes := lipgloss.JoinHorizontal(lipgloss.Top, summaryPane, chatPane)

	var inputBox string
	if w.editingTags {
		inputBox = w.theme.InputBoxF.Render("tags: " + w.tagsInput.View())
	} else {
		style := w.theme.InputBox
		if w.focus == wsFocusPath {
			style = w.theme.InputBoxF
		}
		label := "pdf"
		if w.uploading {
			label = spinnerFrames[w.spinPos]
		}
		inputBox = style.Render(label + " " + w.pathInput.View())
	}

	status := w.theme.Footer.Render(
		"dest: " + w.destName() + " | " +
			helpLine(w.keys.Select, w.keys.Focus, w.keys.Save, w.keys.EditTags, w.keys.CopyText))

	return lipgloss.JoinVertical(lipgloss.Left, inputBox, panes, status)
}
