package app

// SummaryRecord is one saved (or not yet saved) document summary. ID is zero
// until the backend has persisted the record; assigning an ID moves it from
// draft to saved.
type SummaryRecord struct {
	ID        int64    `json:"id,omitempty"`
	Filename  string   `json:"filename"`
	Summary   string   `json:"summary"`
	CreatedAt string   `json:"created_at,omitempty"`
	TeamID    int64    `json:"team_id,omitempty"`
	TeamName  string   `json:"team_name,omitempty"`
	Username  string   `json:"username,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	FileIDs   []int64  `json:"file_path,omitempty"`
}

// Saved reports whether the record has been persisted by the backend.
func (r SummaryRecord) Saved() bool { return r.ID > 0 }

// ContentEntry is an auxiliary blob attached to a summary. The only section
// type in use today is "ai_chat", which stores a serialized chat transcript.
type ContentEntry struct {
	ID          int64  `json:"id"`
	SectionType string `json:"section_type"`
	Content     string `json:"content"`
}

// SectionAIChat keys the chat transcript blob of a summary.
const SectionAIChat = "ai_chat"

type ChatMessage struct {
	Sender string `json:"sender"` // user|ai
	Text   string `json:"text"`
}

type Comment struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	Username  string     `json:"username"`
	Content   string     `json:"content"`
	CreatedAt string     `json:"created_at"`
	Reactions []Reaction `json:"reactions,omitempty"`
}

type Reaction struct {
	ID           int64  `json:"id"`
	UserID       int64  `json:"user_id"`
	Username     string `json:"username"`
	ReactionType string `json:"reaction_type"`
	CreatedAt    string `json:"created_at"`
}

// CountReactions aggregates reactions into reaction_type -> count for display.
func CountReactions(reactions []Reaction) map[string]int {
	if len(reactions) == 0 {
		return nil
	}
	counts := make(map[string]int, len(reactions))
	for _, r := range reactions {
		counts[r.ReactionType]++
	}
	return counts
}

type Team struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Role            string `json:"role"`
	CreatedByUserID int64  `json:"created_by_user_id"`
}

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

type TeamMember struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type TeamFile struct {
	ID         int64  `json:"id"`
	Filename   string `json:"filename"`
	Filesize   int64  `json:"filesize"`
	CreatedAt  string `json:"created_at"`
	UploadedBy string `json:"uploaded_by"`
}

// UploadResult is the backend's response to a PDF upload: the generated
// summary plus suggested tags. FileIDs reference the stored files.
type UploadResult struct {
	Summary  string   `json:"summary"`
	Filename string   `json:"filename"`
	Tags     []string `json:"tags"`
	FileIDs  []int64  `json:"file_path"`
}

// TreeNode is one node of the backend-built lineage tree. The client never
// reshapes the tree; it only selects a root and renders.
type TreeNode struct {
	Name       string         `json:"name"`
	Attributes TreeAttributes `json:"attributes"`
	Children   []TreeNode     `json:"children,omitempty"`
}

type TreeAttributes struct {
	ID              int64    `json:"id"`
	Filename        string   `json:"filename"`
	Summary         string   `json:"summary"`
	CreatedAt       string   `json:"created_at,omitempty"`
	TeamID          int64    `json:"team_id,omitempty"`
	TeamName        string   `json:"team_name,omitempty"`
	Username        string   `json:"username,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	ParentSummaryID int64    `json:"parent_summary_id,omitempty"`
	ChatHistoryID   int64    `json:"chat_history_id,omitempty"`
}

// Record converts a tree node back into a summary record so tree clicks and
// list clicks share one history-select pathway.
func (n TreeNode) Record() SummaryRecord {
	a := n.Attributes
	return SummaryRecord{
		ID:        a.ID,
		Filename:  a.Filename,
		Summary:   a.Summary,
		CreatedAt: a.CreatedAt,
		TeamID:    a.TeamID,
		TeamName:  a.TeamName,
		Username:  a.Username,
		Tags:      a.Tags,
	}
}
