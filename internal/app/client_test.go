package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *SessionStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	session := NewSessionStore(filepath.Join(t.TempDir(), "token"))
	return NewClient(srv.URL, session, NewLogger(io.Discard)), session
}

func TestLogin_ReturnsAccessToken(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/login" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["username"] != "alice" || body["password"] != "secret" {
			t.Fatalf("unexpected credentials: %v", body)
		}
		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok1"})
	}))

	tok, err := client.Login(context.Background(), "alice", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if tok != "tok1" {
		t.Fatalf("Login token = %q, want %q", tok, "tok1")
	}
}

func TestAuthedRequest_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	client, session := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte("[]"))
	}))
	if err := session.SetToken("tok1"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}

	if _, err := client.ListSummaries(context.Background()); err != nil {
		t.Fatalf("ListSummaries: %v", err)
	}
	if gotAuth != "Bearer tok1" {
		t.Fatalf("Authorization = %q, want %q", gotAuth, "Bearer tok1")
	}
}

func TestAuthedRequest_WithoutTokenFailsLocally(t *testing.T) {
	called := false
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	_, err := client.ListSummaries(context.Background())
	if !errors.Is(err, ErrAuthRequired) {
		t.Fatalf("err = %v, want ErrAuthRequired", err)
	}
	if called {
		t.Fatal("request reached the server without a credential")
	}
}

func TestErrorResponse_CarriesBackendDetail(t *testing.T) {
	client, session := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"detail":"already a member"}`))
	}))
	session.SetToken("tok1")

	err := client.AddComment(context.Background(), 1, "hi")
	var re *RequestError
	if !errors.As(err, &re) {
		t.Fatalf("err = %T, want *RequestError", err)
	}
	if re.Status != http.StatusConflict || re.Detail != "already a member" {
		t.Fatalf("RequestError = %+v", re)
	}
	if got := Detail(err); got != "already a member" {
		t.Fatalf("Detail(err) = %q", got)
	}
}

func TestSaveSummary_PersonalOmitsTeamID(t *testing.T) {
	var got struct {
		Filename string   `json:"filename"`
		TeamID   *int64   `json:"team_id"`
		Tags     []string `json:"tags"`
	}
	client, session := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/save-summary" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]int64{"id": 42})
	}))
	session.SetToken("tok1")

	id, err := client.SaveSummary(context.Background(), "doc.pdf", "text", 0, []string{"x"})
	if err != nil {
		t.Fatalf("SaveSummary: %v", err)
	}
	if id != 42 {
		t.Fatalf("id = %d, want 42", id)
	}
	if got.TeamID != nil {
		t.Fatalf("team_id = %v, want null for a personal save", *got.TeamID)
	}
	if got.Filename != "doc.pdf" || len(got.Tags) != 1 {
		t.Fatalf("body = %+v", got)
	}
}

func TestSaveSummary_TeamIDSetWhenSaving(t *testing.T) {
	var got struct {
		TeamID *int64 `json:"team_id"`
	}
	client, session := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(map[string]int64{"id": 7})
	}))
	session.SetToken("tok1")

	if _, err := client.SaveSummary(context.Background(), "doc.pdf", "text", 3, nil); err != nil {
		t.Fatalf("SaveSummary: %v", err)
	}
	if got.TeamID == nil || *got.TeamID != 3 {
		t.Fatalf("team_id = %v, want 3", got.TeamID)
	}
}

func TestUploadPDF_SendsFilesField(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatal(err)
	}

	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		files := r.MultipartForm.File["files"]
		if len(files) != 1 || files[0].Filename != "doc.pdf" {
			t.Fatalf("files = %+v", files)
		}
		json.NewEncoder(w).Encode(UploadResult{Summary: "sum", Filename: "doc.pdf"})
	}))

	res, err := client.UploadPDF(context.Background(), []string{path})
	if err != nil {
		t.Fatalf("UploadPDF: %v", err)
	}
	if res.Summary != "sum" {
		t.Fatalf("summary = %q", res.Summary)
	}
}

func TestAddTeamMember_SendsMultipartUsername(t *testing.T) {
	client, session := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("member_username"); got != "bob" {
			t.Fatalf("member_username = %q, want %q", got, "bob")
		}
		w.WriteHeader(http.StatusOK)
	}))
	session.SetToken("tok1")

	if err := client.AddTeamMember(context.Background(), 5, "bob"); err != nil {
		t.Fatalf("AddTeamMember: %v", err)
	}
}

func TestChangeTeamMemberRole_SendsMultipartRole(t *testing.T) {
	client, session := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Fatalf("method = %s, want PUT", r.Method)
		}
		r.ParseMultipartForm(1 << 20)
		if got := r.FormValue("new_role"); got != RoleAdmin {
			t.Fatalf("new_role = %q, want %q", got, RoleAdmin)
		}
		w.WriteHeader(http.StatusOK)
	}))
	session.SetToken("tok1")

	if err := client.ChangeTeamMemberRole(context.Background(), 5, 9, RoleAdmin); err != nil {
		t.Fatalf("ChangeTeamMemberRole: %v", err)
	}
}

func TestGetHistoryContent_FetchesEntryByID(t *testing.T) {
	client, session := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/history-contents/5" || r.Method != http.MethodGet {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(ContentEntry{ID: 5, SectionType: SectionAIChat, Content: "[]"})
	}))
	session.SetToken("tok1")

	entry, err := client.GetHistoryContent(context.Background(), 5)
	if err != nil {
		t.Fatalf("GetHistoryContent: %v", err)
	}
	if entry.ID != 5 || entry.SectionType != SectionAIChat || entry.Content != "[]" {
		t.Fatalf("entry = %+v", entry)
	}
}

func TestAllTeams_ListsEveryTeam(t *testing.T) {
	client, session := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/teams" || r.Method != http.MethodGet {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer tok1" {
			t.Fatal("missing bearer header")
		}
		json.NewEncoder(w).Encode([]Team{
			{ID: 1, Name: "study", Role: RoleAdmin},
			{ID: 2, Name: "lab", Role: RoleMember},
		})
	}))
	session.SetToken("tok1")

	teams, err := client.AllTeams(context.Background())
	if err != nil {
		t.Fatalf("AllTeams: %v", err)
	}
	if len(teams) != 2 || teams[0].Name != "study" || teams[1].Role != RoleMember {
		t.Fatalf("teams = %+v", teams)
	}
}

func TestDownloadFile_ReturnsRawBytes(t *testing.T) {
	client, session := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/files/3" {
			t.Fatalf("path = %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer tok1" {
			t.Fatalf("missing bearer header")
		}
		w.Write([]byte("%PDF-raw"))
	}))
	session.SetToken("tok1")

	data, err := client.DownloadFile(context.Background(), 3)
	if err != nil {
		t.Fatalf("DownloadFile: %v", err)
	}
	if string(data) != "%PDF-raw" {
		t.Fatalf("data = %q", data)
	}
}
