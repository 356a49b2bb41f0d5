package tui

import (
	"fmt"
	"strings"

	"github.com/Engineer-Guild-Hackathon/team-20-app-sub000/internal/app"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type myPageMode int

const (
	mpList myPageMode = iota
	mpRename
	mpTags
	mpTree
)

// myPageModel is the personal history screen: every saved summary the user
// can see, filterable by scope, with rename, tag editing, the comment thread,
// and the summary lineage tree.
type myPageModel struct {
	app   *app.Application
	theme Theme
	keys  keyMap
	md    *MarkdownRenderer

	mode     myPageMode
	scope    app.Scope
	cursor   int
	loading  bool
	fetched  bool
	input    textinput.Model
	comments commentsModel

	// Tree state. Roots come from the backend; rootIdx picks which lineage
	// is flattened into the viewport.
	roots      []app.TreeNode
	rootIdx    int
	flat       []app.FlatNode
	treeCursor int
	treeVP     viewport.Model

	width  int
	height int
	ready  bool
}

func newMyPageModel(application *app.Application, theme Theme, keys keyMap, md *MarkdownRenderer) *myPageModel {
	input := textinput.New()
	input.CharLimit = 256
	return &myPageModel{
		app:      application,
		theme:    theme,
		keys:     keys,
		md:       md,
		scope:    app.Scope(application.Config.DefaultScope),
		input:    input,
		comments: newCommentsModel(application, theme, keys),
	}
}

func (p *myPageModel) setSize(width, height int) {
	p.width = width
	p.height = height
	vpH := height - 6
	if vpH < 5 {
		vpH = 5
	}
	if !p.ready {
		p.treeVP = viewport.New(width-6, vpH)
		p.ready = true
	} else {
		p.treeVP.Width = width - 6
		p.treeVP.Height = vpH
	}
}

// enter runs on every navigation into the screen. The list is always
// re-fetched; a stale view after someone else saved into a shared team is
// worse than the extra request.
func (p *myPageModel) enter() tea.Cmd {
	if !p.app.Session.LoggedIn() {
		return nil
	}
	p.loading = true
	client := p.app.Client
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		items, err := client.ListSummaries(ctx)
		return historyRefreshedMsg{items: items, err: err}
	}
}

func (p *myPageModel) reset() {
	p.mode = mpList
	p.cursor = 0
	p.fetched = false
	p.roots = nil
	p.comments.close()
}

func (p *myPageModel) visible() []app.SummaryRecord {
	return p.app.History.Filter(p.scope)
}

func (p *myPageModel) selected() (app.SummaryRecord, bool) {
	items := p.visible()
	if p.cursor < 0 || p.cursor >= len(items) {
		return app.SummaryRecord{}, false
	}
	return items[p.cursor], true
}

func (p *myPageModel) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return p.handleKey(msg)

	case historyRefreshedMsg:
		p.loading = false
		p.fetched = true
		if msg.err != nil {
			p.app.History.Clear()
			return notify(noticeError, "history unavailable: "+app.Detail(msg.err))
		}
		p.app.History.Replace(msg.items)
		if p.cursor >= len(p.visible()) {
			p.cursor = max(0, len(p.visible())-1)
		}
		return nil

	case titleSavedMsg:
		if msg.err != nil {
			return notify(noticeError, "rename failed: "+app.Detail(msg.err))
		}
		p.app.History.PatchOne(msg.rec)
		if p.app.Summary.Record.ID == msg.rec.ID {
			p.app.Summary.Record.Filename = msg.rec.Filename
		}
		return notify(noticeSuccess, "renamed to "+msg.rec.Filename)

	case treeMsg:
		if msg.err != nil {
			p.mode = mpList
			return notify(noticeError, "tree unavailable: "+app.Detail(msg.err))
		}
		p.roots = msg.roots
		p.rootIdx = 0
		p.treeCursor = 0
		p.renderTree()
		return nil
	}

	if cmd := p.comments.update(msg); cmd != nil {
		return cmd
	}
	return nil
}

func (p *myPageModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if p.comments.active() {
		if handled, cmd := p.comments.handleKey(msg); handled {
			return cmd
		}
	}

	switch p.mode {
	case mpRename, mpTags:
		switch {
		case key.Matches(msg, p.keys.Back):
			p.mode = mpList
			return nil
		case key.Matches(msg, p.keys.Select):
			return p.commitInput()
		}
		var c tea.Cmd
		p.input, c = p.input.Update(msg)
		return c

	case mpTree:
		switch {
		case key.Matches(msg, p.keys.Back), key.Matches(msg, p.keys.Tree):
			p.mode = mpList
			return nil
		case key.Matches(msg, p.keys.NextRoot):
			if len(p.roots) > 1 {
				p.rootIdx = (p.rootIdx + 1) % len(p.roots)
				p.treeCursor = 0
				p.renderTree()
			}
			return nil
		case msg.String() == "up", msg.String() == "k":
			if p.treeCursor > 0 {
				p.treeCursor--
				p.renderTree()
			}
			return nil
		case msg.String() == "down", msg.String() == "j":
			if p.treeCursor < len(p.flat)-1 {
				p.treeCursor++
				p.renderTree()
			}
			return nil
		case key.Matches(msg, p.keys.Select):
			// Tree selection and list selection share the open pathway.
			if p.treeCursor < len(p.flat) {
				rec := p.flat[p.treeCursor].Node.Record()
				client := p.app.Client
				return func() tea.Msg {
					ctx, cancel := withTimeout()
					defer cancel()
					detail, err := client.GetSummary(ctx, rec.ID)
					return historyDetailMsg{detail: detail, err: err}
				}
			}
			return nil
		}
		return nil
	}

	// List mode.
	switch {
	case msg.String() == "up", msg.String() == "k":
		if p.cursor > 0 {
			p.cursor--
		}
		return nil
	case msg.String() == "down", msg.String() == "j":
		if p.cursor < len(p.visible())-1 {
			p.cursor++
		}
		return nil

	case key.Matches(msg, p.keys.Scope):
		switch p.scope {
		case app.ScopePersonal:
			p.scope = app.ScopeTeam
		case app.ScopeTeam:
			p.scope = app.ScopeAll
		default:
			p.scope = app.ScopePersonal
		}
		p.cursor = 0
		return notify(noticeInfo, "scope: "+string(p.scope))

	case key.Matches(msg, p.keys.Select):
		rec, ok := p.selected()
		if !ok {
			return nil
		}
		client := p.app.Client
		return func() tea.Msg {
			ctx, cancel := withTimeout()
			defer cancel()
			detail, err := client.GetSummary(ctx, rec.ID)
			return historyDetailMsg{detail: detail, err: err}
		}

	case key.Matches(msg, p.keys.Rename):
		rec, ok := p.selected()
		if !ok {
			return nil
		}
		p.mode = mpRename
		p.input.Placeholder = "new title"
		p.input.SetValue(rec.Filename)
		p.input.Focus()
		return textinput.Blink

	case key.Matches(msg, p.keys.EditTags):
		rec, ok := p.selected()
		if !ok {
			return nil
		}
		p.mode = mpTags
		p.input.Placeholder = "tag1, tag2"
		p.input.SetValue(strings.Join(rec.Tags, ", "))
		p.input.Focus()
		return textinput.Blink

	case key.Matches(msg, p.keys.Comment):
		rec, ok := p.selected()
		if !ok {
			return nil
		}
		return p.comments.open(rec.ID)

	case key.Matches(msg, p.keys.Tree):
		p.mode = mpTree
		p.treeVP.SetContent(p.theme.Footer.Render("loading tree…"))
		client := p.app.Client
		return func() tea.Msg {
			ctx, cancel := withTimeout()
			defer cancel()
			roots, err := client.FetchTree(ctx)
			return treeMsg{roots: roots, err: err}
		}
	}
	return nil
}

func (p *myPageModel) commitInput() tea.Cmd {
	rec, ok := p.selected()
	mode := p.mode
	p.mode = mpList
	if !ok {
		return nil
	}
	value := strings.TrimSpace(p.input.Value())
	client := p.app.Client

	if mode == mpRename {
		if value == "" || value == rec.Filename {
			return nil
		}
		rec.Filename = value
		return func() tea.Msg {
			ctx, cancel := withTimeout()
			defer cancel()
			err := client.UpdateTitle(ctx, rec.ID, value)
			return titleSavedMsg{rec: rec, err: err}
		}
	}

	var tags []string
	for _, t := range strings.Split(value, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	rec.Tags = tags
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		err := client.UpdateTags(ctx, rec.ID, tags)
		return tagsSavedMsg{rec: rec, err: err}
	}
}

func (p *myPageModel) renderTree() {
	if len(p.roots) == 0 {
		p.flat = nil
		p.treeVP.SetContent(p.theme.Footer.Render("No summaries with chat lineage yet."))
		return
	}
	p.flat = app.FlattenTree(p.roots[p.rootIdx])
	var b strings.Builder
	for i, fn := range p.flat {
		indent := strings.Repeat("  ", fn.Depth)
		label := fn.Node.Name
		if fn.Depth > 0 {
			label = "└ " + label
		}
		style := p.theme.ListItem
		marker := "  "
		if i == p.treeCursor {
			style = p.theme.ListItemSel
			marker = "> "
		}
		b.WriteString(marker)
		b.WriteString(indent)
		b.WriteString(style.Render(label))
		if preview := fn.Node.Preview(60); preview != "" {
			b.WriteString("  ")
			b.WriteString(p.theme.Footer.Render(preview))
		}
		b.WriteString("\n")
	}
	p.treeVP.SetContent(b.String())
	p.treeVP.SetYOffset(max(0, p.treeCursor-p.treeVP.Height+1))
}

func (p *myPageModel) view() string {
	if !p.app.Session.LoggedIn() {
		return p.theme.Pane.Render(
			p.theme.PaneTitle.Render("my page") + "\n\n" +
				"Log in to see your saved summaries (ctrl+l).")
	}

	if p.mode == mpTree {
		title := fmt.Sprintf("summary tree · root %d/%d", p.rootIdx+1, max(1, len(p.roots)))
		body := p.theme.PaneTitle.Render(title) + "\n" + p.treeVP.View() + "\n" +
			p.theme.Footer.Render(helpLine(p.keys.Select, p.keys.NextRoot, p.keys.Back))
		return p.theme.Pane.Render(body)
	}

	items := p.visible()
	var b strings.Builder
	b.WriteString(p.theme.PaneTitle.Render(fmt.Sprintf("history · %s (%d)", p.scope, len(items))))
	b.WriteString("\n")
	switch {
	case p.loading && !p.fetched:
		b.WriteString(p.theme.Footer.Render("loading…"))
	case len(items) == 0:
		b.WriteString(p.theme.Footer.Render("Nothing here yet. Save a summary from the workspace."))
	default:
		for i, rec := range items {
			line := rec.Filename
			if rec.TeamID != 0 {
				line += " " + p.theme.TagChip.Render("["+rec.TeamName+"]")
			}
			if len(rec.Tags) > 0 {
				line += " " + p.theme.TagChip.Render(strings.Join(rec.Tags, ","))
			}
			if rec.CreatedAt != "" {
				line += "  " + p.theme.Footer.Render(rec.CreatedAt)
			}
			if i == p.cursor {
				b.WriteString(p.theme.ListItemSel.Render("> " + line))
			} else {
				b.WriteString(p.theme.ListItem.Render("  " + line))
			}
			b.WriteString("\n")
		}
	}

	if p.mode == mpRename || p.mode == mpTags {
		b.WriteString("\n")
		b.WriteString(p.theme.InputBoxF.Render(p.input.View()))
	} else {
		b.WriteString("\n")
		b.WriteString(p.theme.Footer.Render(helpLine(
			p.keys.Select, p.keys.Scope, p.keys.Rename, p.keys.EditTags, p.keys.Comment, p.keys.Tree)))
	}

	pane := p.theme.Pane.Render(b.String())
	if p.comments.active() {
		return lipgloss.JoinVertical(lipgloss.Left, pane, p.comments.view(p.width-4))
	}
	return pane
}
