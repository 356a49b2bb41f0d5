package tui

import (
	"context"
	"time"

	"github.com/Engineer-Guild-Hackathon/team-20-app-sub000/internal/app"
	tea "github.com/charmbracelet/bubbletea"
)

// Async results arrive as typed messages. A handler may run after the view
// that started it went away; every handler just updates state that the next
// navigation would discard anyway.

type loginDoneMsg struct {
	username string
	token    string
	err      error
}

type registerDoneMsg struct {
	username string
	err      error
}

type whoamiMsg struct {
	username string
	err      error
}

type uploadDoneMsg struct {
	res app.UploadResult
	err error
}

type chatDoneMsg struct {
	reply string
	err   error
}

type saveDoneMsg struct {
	rec app.SummaryRecord
	err error
}

type historyRefreshedMsg struct {
	items []app.SummaryRecord
	err   error
}

type historyDetailMsg struct {
	detail app.SummaryDetail
	err    error
}

type tagsSavedMsg struct {
	rec app.SummaryRecord
	err error
}

type titleSavedMsg struct {
	rec app.SummaryRecord
	err error
}

type commentsMsg struct {
	summaryID int64
	comments  []app.Comment
	err       error
}

type commentMutatedMsg struct {
	summaryID int64
	err       error
}

type treeMsg struct {
	roots []app.TreeNode
	err   error
}

type teamsMsg struct {
	teams []app.Team
	err   error
}

type teamCreatedMsg struct {
	name string
	err  error
}

type membersMsg struct {
	teamID  int64
	members []app.TeamMember
	err     error
}

type memberMutatedMsg struct {
	teamID int64
	err    error
}

type teamFilesMsg struct {
	teamID int64
	files  []app.TeamFile
	err    error
}

type spinTickMsg struct{}

const requestTimeout = 2 * time.Minute

func withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

func spinCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg { return spinTickMsg{} })
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
