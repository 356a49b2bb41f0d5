package app

import (
	"encoding/json"
	"time"
)

// SummarySession owns the single active summary and its chat transcript.
// It is pure state driven from the UI loop; the network side of each
// operation runs in the caller's async command. Chat messages on an unsaved
// record stay local; once the record has an ID every append re-persists the
// whole transcript under the "ai_chat" section.
type SummarySession struct {
	logger *Logger

	Record      SummaryRecord
	Chat        []ChatMessage
	chatPending bool
}

func NewSummarySession(logger *Logger) *SummarySession {
	return &SummarySession{logger: logger}
}

func (s *SummarySession) Active() bool { return s.Record.Filename != "" }

// LoadFromUpload replaces the active record with a fresh draft. Any previous
// transcript is dropped.
func (s *SummarySession) LoadFromUpload(summaryText, filename string, tags []string) {
	s.Record = SummaryRecord{
		Filename: filename,
		Summary:  summaryText,
		Tags:     tags,
	}
	s.Chat = nil
	s.chatPending = false
}

// LoadFromHistory adopts a saved record and restores its transcript from the
// "ai_chat" content entry. A malformed blob yields an empty transcript; it
// must never take the view down.
func (s *SummarySession) LoadFromHistory(rec SummaryRecord, contents []ContentEntry) {
	s.Record = rec
	s.Chat = nil
	s.chatPending = false
	for _, entry := range contents {
		if entry.SectionType != SectionAIChat {
			continue
		}
		var msgs []ChatMessage
		if err := json.Unmarshal([]byte(entry.Content), &msgs); err != nil {
			s.logger.Warn("discarding malformed chat transcript", map[string]interface{}{
				"summary_id": rec.ID,
			})
			return
		}
		s.Chat = msgs
		return
	}
}

// AppendChat adds a message and reports whether the transcript should be
// persisted right away. On an unsaved record the message is kept local and
// flagged pending until a save provides an ID.
func (s *SummarySession) AppendChat(msg ChatMessage) (persistNow bool) {
	s.Chat = append(s.Chat, msg)
	if !s.Record.Saved() {
		s.chatPending = true
		return false
	}
	return true
}

// TranscriptJSON snapshots the transcript for persistence.
func (s *SummarySession) TranscriptJSON() string {
	blob, _ := json.Marshal(s.Chat)
	return string(blob)
}

func (s *SummarySession) ChatPending() bool { return s.chatPending }

func (s *SummarySession) MarkChatPersisted() { s.chatPending = false }

// AdoptSave applies the backend's authoritative ID after a successful save
// and returns the derived record the caller prepends into the history
// collection, plus whether a pending transcript should be flushed now that
// an ID exists.
func (s *SummarySession) AdoptSave(id, teamID int64, teamName string, tags []string) (SummaryRecord, bool) {
	if tags != nil {
		s.Record.Tags = tags
	}
	s.Record.ID = id
	s.Record.TeamID = teamID
	s.Record.TeamName = teamName
	if s.Record.CreatedAt == "" {
		s.Record.CreatedAt = time.Now().Format(time.RFC3339)
	}
	flush := s.chatPending && len(s.Chat) > 0
	return s.Record, flush
}
