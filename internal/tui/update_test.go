package tui

import (
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Engineer-Guild-Hackathon/team-20-app-sub000/internal/app"
	tea "github.com/charmbracelet/bubbletea"
)

func testApplication(t *testing.T) *app.Application {
	t.Helper()
	logger := app.NewLogger(io.Discard)
	session := app.NewSessionStore(filepath.Join(t.TempDir(), "token"))
	return &app.Application{
		Config:  app.DefaultConfig(),
		Logger:  logger,
		Session: session,
		Client:  app.NewClient("http://127.0.0.1:0", session, logger),
		Summary: app.NewSummarySession(logger),
		History: app.NewHistoryCollection(),
	}
}

func TestSaveResult_AdoptsIDAndPrependsHistory(t *testing.T) {
	application := testApplication(t)
	application.Summary.LoadFromUpload("summary text", "doc.pdf", []string{"x"})
	application.History.Replace([]app.SummaryRecord{{ID: 1, Filename: "old.pdf"}})

	w := newWorkspaceModel(application, NewTheme("porcelain"), defaultKeyMap(), NewMarkdownRenderer(NewTheme("porcelain")))
	w.saving = true
	w.update(saveDoneMsg{rec: app.SummaryRecord{ID: 42}})

	if got := application.Summary.Record.ID; got != 42 {
		t.Fatalf("active record ID = %d, want 42", got)
	}
	if len(application.History.Items) != 2 {
		t.Fatalf("history length = %d, want 2", len(application.History.Items))
	}
	head := application.History.Items[0]
	if head.ID != 42 {
		t.Fatalf("history head ID = %d, want 42", head.ID)
	}
	// The prepended entry is the adopted active record, not the bare response.
	if head.Filename != "doc.pdf" || len(head.Tags) != 1 || head.Tags[0] != "x" {
		t.Fatalf("history head = %+v", head)
	}
	if w.saving {
		t.Fatal("saving flag still set after the save result")
	}
}

func TestSaveResult_TeamSaveCarriesTeamOntoRecord(t *testing.T) {
	application := testApplication(t)
	application.Summary.LoadFromUpload("summary text", "doc.pdf", nil)

	w := newWorkspaceModel(application, NewTheme("porcelain"), defaultKeyMap(), NewMarkdownRenderer(NewTheme("porcelain")))
	w.update(saveDoneMsg{rec: app.SummaryRecord{ID: 7, TeamID: 3, TeamName: "study"}})

	rec := application.Summary.Record
	if rec.TeamID != 3 || rec.TeamName != "study" {
		t.Fatalf("record team = %d/%q, want 3/study", rec.TeamID, rec.TeamName)
	}
	if application.History.Items[0].TeamName != "study" {
		t.Fatalf("history head team = %q", application.History.Items[0].TeamName)
	}
}

func TestSaveResult_FailureLeavesStateUntouched(t *testing.T) {
	application := testApplication(t)
	application.Summary.LoadFromUpload("summary text", "doc.pdf", nil)

	w := newWorkspaceModel(application, NewTheme("porcelain"), defaultKeyMap(), NewMarkdownRenderer(NewTheme("porcelain")))
	w.update(saveDoneMsg{err: errors.New("boom")})

	if application.Summary.Record.Saved() {
		t.Fatal("failed save assigned an ID")
	}
	if len(application.History.Items) != 0 {
		t.Fatalf("failed save grew history: %d items", len(application.History.Items))
	}
}

func TestLoginResult_StoresCredentialThenIdentity(t *testing.T) {
	application := testApplication(t)
	m := New(application)

	if _, cmd := m.Update(loginDoneMsg{username: "alice", token: "tok1"}); cmd == nil {
		t.Fatal("successful login produced no follow-up commands")
	}
	if got := application.Session.Token(); got != "tok1" {
		t.Fatalf("stored token = %q, want %q", got, "tok1")
	}
	if !application.Session.LoggedIn() {
		t.Fatal("session not logged in after login result")
	}
	if m.login != nil {
		t.Fatal("login modal still open after success")
	}

	m.Update(whoamiMsg{username: "alice"})
	if got := application.Session.Username(); got != "alice" {
		t.Fatalf("identity = %q, want %q", got, "alice")
	}
}

func TestLoginResult_FailureLeavesLoggedOut(t *testing.T) {
	application := testApplication(t)
	m := New(application)
	m.login = newLoginModel(application, m.theme, m.keys)

	m.Update(loginDoneMsg{username: "alice", err: errors.New("invalid credentials")})

	if application.Session.LoggedIn() {
		t.Fatal("failed login stored a credential")
	}
	if m.login == nil {
		t.Fatal("failed login closed the modal")
	}
}

func TestWhoamiFailure_ClearsIdentity(t *testing.T) {
	application := testApplication(t)
	application.Session.SetToken("tok1")
	application.Session.SetUsername("alice")
	m := New(application)

	m.Update(whoamiMsg{err: errors.New("token expired")})
	if got := application.Session.Username(); got != "" {
		t.Fatalf("identity after failed lookup = %q, want empty", got)
	}
}

func TestLogoutKey_ClearsCredentialAndHistory(t *testing.T) {
	application := testApplication(t)
	if err := application.Session.SetToken("tok1"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	application.Session.SetUsername("alice")
	application.History.Replace([]app.SummaryRecord{{ID: 1, Filename: "a.pdf"}})

	m := New(application)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlO})

	if application.Session.LoggedIn() {
		t.Fatal("still logged in after logout key")
	}
	if application.Session.Username() != "" {
		t.Fatal("identity survived logout")
	}
	if len(application.History.Items) != 0 {
		t.Fatalf("history survived logout: %d items", len(application.History.Items))
	}
}

func TestLoggedOutScreens_RenderLoginPrompt(t *testing.T) {
	application := testApplication(t)
	m := New(application)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	for name, view := range map[string]string{
		"mypage": m.mypage.view(),
		"teams":  m.teams.view(),
	} {
		if !strings.Contains(view, "Log in") {
			t.Fatalf("%s view missing login prompt:\n%s", name, view)
		}
	}
}
