package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Client is the single gateway to the backend. It attaches the bearer
// credential, serializes JSON bodies (multipart for file uploads), and
// classifies outcomes: 2xx parses into the caller's value, non-2xx becomes a
// *RequestError carrying the backend's detail message. No retries; failures
// surface immediately so the UI can show them.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Session *SessionStore
	Logger  *Logger
}

func NewClient(baseURL string, session *SessionStore, logger *Logger) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 120 * time.Second},
		Session: session,
		Logger:  logger,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, authed bool, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		tok := c.Session.Token()
		if tok == "" {
			return ErrAuthRequired
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out interface{}) error {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("api request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := "unknown error"
		var errResp struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(bodyBytes, &errResp) == nil && errResp.Detail != "" {
			detail = errResp.Detail
		}
		c.Logger.Warn("api error", map[string]interface{}{
			"method": req.Method,
			"path":   req.URL.Path,
			"status": resp.StatusCode,
			"detail": detail,
		})
		return &RequestError{Status: resp.StatusCode, Detail: detail}
	}

	if out == nil || len(bodyBytes) == 0 {
		return nil
	}
	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// multipartForm posts plain form fields as multipart/form-data, the encoding
// the backend expects for the team membership endpoints.
func (c *Client) multipartForm(ctx context.Context, method, path string, fields map[string]string, out interface{}) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, &buf)
	if err != nil {
		return err
	}
	tok := c.Session.Token()
	if tok == "" {
		return ErrAuthRequired
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.send(req, out)
}

// uploadFiles posts local files under the repeatable "files" field.
func (c *Client) uploadFiles(ctx context.Context, path string, paths []string, authed bool, out interface{}) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return err
		}
		part, err := w.CreateFormFile("files", filepath.Base(p))
		if err != nil {
			f.Close()
			return err
		}
		if _, err := io.Copy(part, f); err != nil {
			f.Close()
			return err
		}
		f.Close()
	}
	if err := w.Close(); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, &buf)
	if err != nil {
		return err
	}
	if authed {
		tok := c.Session.Token()
		if tok == "" {
			return ErrAuthRequired
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	} else if tok := c.Session.Token(); tok != "" {
		// Uploads are accepted anonymously but the backend links files to the
		// account when a credential is present.
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.send(req, out)
}

// --- auth ---

func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/login", body, false, &resp); err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

func (c *Client) Register(ctx context.Context, username, password string) error {
	body := map[string]string{"username": username, "password": password}
	return c.do(ctx, http.MethodPost, "/api/register", body, false, nil)
}

func (c *Client) CurrentUser(ctx context.Context) (string, error) {
	var resp struct {
		Username string `json:"username"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/users/me", nil, true, &resp); err != nil {
		return "", err
	}
	return resp.Username, nil
}

// --- summaries ---

func (c *Client) UploadPDF(ctx context.Context, paths []string) (UploadResult, error) {
	var resp UploadResult
	err := c.uploadFiles(ctx, "/api/upload-pdf", paths, false, &resp)
	return resp, err
}

func (c *Client) ListSummaries(ctx context.Context) ([]SummaryRecord, error) {
	var resp []SummaryRecord
	err := c.do(ctx, http.MethodGet, "/api/summaries", nil, true, &resp)
	return resp, err
}

func (c *Client) GetSummary(ctx context.Context, id int64) (SummaryDetail, error) {
	var resp SummaryDetail
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/summaries/%d", id), nil, true, &resp)
	return resp, err
}

func (c *Client) SaveSummary(ctx context.Context, filename, summary string, teamID int64, tags []string) (int64, error) {
	body := struct {
		Filename string   `json:"filename"`
		Summary  string   `json:"summary"`
		TeamID   *int64   `json:"team_id"`
		Tags     []string `json:"tags"`
	}{Filename: filename, Summary: summary, Tags: tags}
	if teamID > 0 {
		body.TeamID = &teamID
	}
	var resp struct {
		ID int64 `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/save-summary", body, true, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

func (c *Client) UpdateTags(ctx context.Context, id int64, tags []string) error {
	body := map[string][]string{"tags": tags}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/summaries/%d/tags", id), body, true, nil)
}

func (c *Client) UpdateTitle(ctx context.Context, id int64, filename string) error {
	body := map[string]string{"filename": filename}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/summaries/%d/title", id), body, true, nil)
}

func (c *Client) SummaryTree(ctx context.Context) ([]TreeNode, error) {
	var resp []TreeNode
	err := c.do(ctx, http.MethodGet, "/api/summaries/tree", nil, true, &resp)
	return resp, err
}

// --- history contents ---

func (c *Client) UpsertHistoryContent(ctx context.Context, summaryID int64, sectionType, content string) error {
	body := struct {
		SummaryHistoryID int64  `json:"summary_history_id"`
		SectionType      string `json:"section_type"`
		Content          string `json:"content"`
	}{SummaryHistoryID: summaryID, SectionType: sectionType, Content: content}
	return c.do(ctx, http.MethodPut, "/api/history-contents", body, true, nil)
}

func (c *Client) GetHistoryContent(ctx context.Context, id int64) (ContentEntry, error) {
	var resp ContentEntry
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/history-contents/%d", id), nil, true, &resp)
	return resp, err
}

// --- chat ---

func (c *Client) Chat(ctx context.Context, message, pdfSummary string) (string, error) {
	body := map[string]string{"message": message, "pdf_summary": pdfSummary}
	var resp struct {
		Reply string `json:"reply"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/chat", body, false, &resp); err != nil {
		return "", err
	}
	return resp.Reply, nil
}

// --- comments and reactions ---

func (c *Client) ListComments(ctx context.Context, summaryID int64) ([]Comment, error) {
	var resp []Comment
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/summaries/%d/comments", summaryID), nil, true, &resp)
	return resp, err
}

func (c *Client) AddComment(ctx context.Context, summaryID int64, content string) error {
	body := struct {
		SummaryID int64  `json:"summary_id"`
		Content   string `json:"content"`
	}{SummaryID: summaryID, Content: content}
	return c.do(ctx, http.MethodPost, "/api/comments", body, true, nil)
}

func (c *Client) AddReaction(ctx context.Context, commentID int64, reactionType string) error {
	body := map[string]string{"reaction_type": reactionType}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/comments/%d/reactions", commentID), body, true, nil)
}

func (c *Client) RemoveReaction(ctx context.Context, commentID int64, reactionType string) error {
	body := map[string]string{"reaction_type": reactionType}
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/comments/%d/reactions", commentID), body, true, nil)
}

// --- teams ---

func (c *Client) AllTeams(ctx context.Context) ([]Team, error) {
	var resp []Team
	err := c.do(ctx, http.MethodGet, "/api/teams", nil, true, &resp)
	return resp, err
}

func (c *Client) MyTeams(ctx context.Context) ([]Team, error) {
	var resp []Team
	err := c.do(ctx, http.MethodGet, "/api/users/me/teams", nil, true, &resp)
	return resp, err
}

func (c *Client) CreateTeam(ctx context.Context, name string) (string, error) {
	var resp struct {
		TeamName string `json:"team_name"`
	}
	body := map[string]string{"name": name}
	if err := c.do(ctx, http.MethodPost, "/api/teams", body, true, &resp); err != nil {
		return "", err
	}
	return resp.TeamName, nil
}

func (c *Client) TeamMembers(ctx context.Context, teamID int64) ([]TeamMember, error) {
	var resp []TeamMember
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/teams/%d/members", teamID), nil, true, &resp)
	return resp, err
}

func (c *Client) AddTeamMember(ctx context.Context, teamID int64, username string) error {
	fields := map[string]string{"member_username": username}
	return c.multipartForm(ctx, http.MethodPost, fmt.Sprintf("/api/teams/%d/members", teamID), fields, nil)
}

func (c *Client) RemoveTeamMember(ctx context.Context, teamID, memberID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/teams/%d/members/%d", teamID, memberID), nil, true, nil)
}

func (c *Client) ChangeTeamMemberRole(ctx context.Context, teamID, memberID int64, newRole string) error {
	fields := map[string]string{"new_role": newRole}
	return c.multipartForm(ctx, http.MethodPut, fmt.Sprintf("/api/teams/%d/members/%d/role", teamID, memberID), fields, nil)
}

// --- files ---

func (c *Client) TeamFiles(ctx context.Context, teamID int64) ([]TeamFile, error) {
	var resp []TeamFile
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/teams/%d/files", teamID), nil, true, &resp)
	return resp, err
}

func (c *Client) UploadTeamFile(ctx context.Context, teamID int64, path string) error {
	return c.uploadFiles(ctx, fmt.Sprintf("/api/teams/%d/files", teamID), []string{path}, true, nil)
}

func (c *Client) DownloadFile(ctx context.Context, fileID int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/api/files/%d", c.BaseURL, fileID), nil)
	if err != nil {
		return nil, err
	}
	tok := c.Session.Token()
	if tok == "" {
		return nil, ErrAuthRequired
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RequestError{Status: resp.StatusCode, Detail: "file download failed"}
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) DeleteFile(ctx context.Context, fileID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/files/%d", fileID), nil, true, nil)
}

// SummaryDetail is the full summary payload, including auxiliary contents.
type SummaryDetail struct {
	SummaryRecord
	Contents []ContentEntry `json:"contents,omitempty"`
}
