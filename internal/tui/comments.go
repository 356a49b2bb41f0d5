package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Engineer-Guild-Hackathon/team-20-app-sub000/internal/app"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// commentsModel is the comment thread for one saved summary. Both the
// workspace and the history screen embed it; it is keyed by summary ID so a
// late reply for a thread the user already left is ignored.
type commentsModel struct {
	app   *app.Application
	theme Theme
	keys  keyMap

	summaryID int64
	comments  []app.Comment
	cursor    int
	loading   bool
	writing   bool
	input     textinput.Model
}

func newCommentsModel(application *app.Application, theme Theme, keys keyMap) commentsModel {
	input := textinput.New()
	input.Placeholder = "write a comment"
	input.CharLimit = 1000
	return commentsModel{app: application, theme: theme, keys: keys, input: input}
}

// open targets the submodel at a summary and kicks off the fetch.
func (c *commentsModel) open(summaryID int64) tea.Cmd {
	c.summaryID = summaryID
	c.comments = nil
	c.cursor = 0
	c.loading = true
	c.writing = false
	return c.fetchCmd()
}

func (c *commentsModel) close() {
	c.summaryID = 0
	c.comments = nil
	c.writing = false
	c.input.Reset()
}

func (c *commentsModel) active() bool { return c.summaryID != 0 }

func (c *commentsModel) fetchCmd() tea.Cmd {
	client := c.app.Client
	id := c.summaryID
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		comments, err := client.ListComments(ctx, id)
		return commentsMsg{summaryID: id, comments: comments, err: err}
	}
}

func (c *commentsModel) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case commentsMsg:
		if msg.summaryID != c.summaryID {
			return nil
		}
		c.loading = false
		if msg.err != nil {
			return notify(noticeError, "comments unavailable: "+app.Detail(msg.err))
		}
		c.comments = msg.comments
		if c.cursor >= len(c.comments) {
			c.cursor = max(0, len(c.comments)-1)
		}
		return nil

	case commentMutatedMsg:
		if msg.summaryID != c.summaryID {
			return nil
		}
		if msg.err != nil {
			return notify(noticeError, app.Detail(msg.err))
		}
		// The server owns reaction and comment state; refetch instead of
		// guessing the new shape locally.
		return c.fetchCmd()
	}
	return nil
}

func (c *commentsModel) handleKey(msg tea.KeyMsg) (handled bool, cmd tea.Cmd) {
	if !c.active() {
		return false, nil
	}

	if c.writing {
		switch {
		case key.Matches(msg, c.keys.Back):
			c.writing = false
			c.input.Reset()
			return true, nil
		case key.Matches(msg, c.keys.Select):
			text := strings.TrimSpace(c.input.Value())
			c.writing = false
			c.input.Reset()
			if text == "" {
				return true, nil
			}
			return true, c.postCmd(text)
		}
		var ic tea.Cmd
		c.input, ic = c.input.Update(msg)
		return true, ic
	}

	switch {
	case key.Matches(msg, c.keys.Back):
		c.close()
		return true, nil
	case msg.String() == "up", msg.String() == "k":
		if c.cursor > 0 {
			c.cursor--
		}
		return true, nil
	case msg.String() == "down", msg.String() == "j":
		if c.cursor < len(c.comments)-1 {
			c.cursor++
		}
		return true, nil
	case key.Matches(msg, c.keys.Comment):
		if !c.app.Session.LoggedIn() {
			return true, notify(noticeWarning, "log in to comment")
		}
		c.writing = true
		c.input.Focus()
		return true, textinput.Blink
	case key.Matches(msg, c.keys.React):
		return true, c.reactCmd(true)
	case key.Matches(msg, c.keys.Unreact):
		return true, c.reactCmd(false)
	}
	return true, nil
}

func (c *commentsModel) postCmd(text string) tea.Cmd {
	client := c.app.Client
	id := c.summaryID
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		err := client.AddComment(ctx, id, text)
		return commentMutatedMsg{summaryID: id, err: err}
	}
}

func (c *commentsModel) reactCmd(add bool) tea.Cmd {
	if !c.app.Session.LoggedIn() {
		return notify(noticeWarning, "log in to react")
	}
	if c.cursor >= len(c.comments) {
		return nil
	}
	client := c.app.Client
	summaryID := c.summaryID
	commentID := c.comments[c.cursor].ID
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		var err error
		if add {
			err = client.AddReaction(ctx, commentID, "like")
		} else {
			err = client.RemoveReaction(ctx, commentID, "like")
		}
		return commentMutatedMsg{summaryID: summaryID, err: err}
	}
}

func (c *commentsModel) view(width int) string {
	var b strings.Builder
	b.WriteString(c.theme.PaneTitle.Render(fmt.Sprintf("comments · summary #%d", c.summaryID)))
	b.WriteString("\n")
	switch {
	case c.loading:
		b.WriteString(c.theme.Footer.Render("loading…"))
	case len(c.comments) == 0:
		b.WriteString(c.theme.Footer.Render("No comments yet."))
	default:
		for i, comment := range c.comments {
			line := fmt.Sprintf("%s: %s", comment.Username, comment.Content)
			if counts := app.CountReactions(comment.Reactions); len(counts) > 0 {
				line += "  " + c.theme.TagChip.Render(formatReactions(counts))
			}
			if i == c.cursor {
				b.WriteString(c.theme.ListItemSel.Render("> " + line))
			} else {
				b.WriteString(c.theme.ListItem.Render("  " + line))
			}
			b.WriteString("\n")
		}
	}
	if c.writing {
		b.WriteString("\n")
		b.WriteString(c.theme.InputBoxF.Render(c.input.View()))
	} else {
		b.WriteString("\n")
		b.WriteString(c.theme.Footer.Render(helpLine(c.keys.Comment, c.keys.React, c.keys.Unreact, c.keys.Back)))
	}
	return c.theme.Pane.Width(width).Render(b.String())
}

func formatReactions(counts map[string]int) string {
	kinds := make([]string, 0, len(counts))
	for kind := range counts {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	parts := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		parts = append(parts, fmt.Sprintf("%s×%d", kind, counts[kind]))
	}
	return strings.Join(parts, " ")
}
