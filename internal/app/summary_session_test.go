package app

import (
	"encoding/json"
	"io"
	"testing"
)

func TestSummarySession_ChatStaysLocalUntilSaved(t *testing.T) {
	s := NewSummarySession(NewLogger(io.Discard))
	s.LoadFromUpload("long text", "doc.pdf", nil)

	if persist := s.AppendChat(ChatMessage{Sender: "user", Text: "q1"}); persist {
		t.Fatal("unsaved record requested immediate persistence")
	}
	if persist := s.AppendChat(ChatMessage{Sender: "ai", Text: "a1"}); persist {
		t.Fatal("unsaved record requested immediate persistence")
	}
	if !s.ChatPending() {
		t.Fatal("pending flag not set for local-only transcript")
	}

	rec, flush := s.AdoptSave(42, 0, "", nil)
	if rec.ID != 42 {
		t.Fatalf("adopted ID = %d, want 42", rec.ID)
	}
	if !flush {
		t.Fatal("save did not request flushing the pending transcript")
	}

	var msgs []ChatMessage
	if err := json.Unmarshal([]byte(s.TranscriptJSON()), &msgs); err != nil {
		t.Fatalf("transcript unmarshal: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Text != "q1" || msgs[1].Text != "a1" {
		t.Fatalf("transcript = %+v", msgs)
	}

	s.MarkChatPersisted()
	if s.ChatPending() {
		t.Fatal("pending flag survived MarkChatPersisted")
	}
}

func TestSummarySession_SavedRecordPersistsEachAppend(t *testing.T) {
	s := NewSummarySession(NewLogger(io.Discard))
	s.LoadFromHistory(SummaryRecord{ID: 7, Filename: "doc.pdf", Summary: "text"}, nil)

	if persist := s.AppendChat(ChatMessage{Sender: "user", Text: "q"}); !persist {
		t.Fatal("saved record did not request persistence on append")
	}
}

func TestSummarySession_LoadFromHistoryRestoresTranscript(t *testing.T) {
	s := NewSummarySession(NewLogger(io.Discard))
	blob, _ := json.Marshal([]ChatMessage{{Sender: "user", Text: "hi"}})
	s.LoadFromHistory(
		SummaryRecord{ID: 7, Filename: "doc.pdf"},
		[]ContentEntry{
			{SectionType: "notes", Content: "ignored"},
			{SectionType: SectionAIChat, Content: string(blob)},
		},
	)
	if len(s.Chat) != 1 || s.Chat[0].Text != "hi" {
		t.Fatalf("restored chat = %+v", s.Chat)
	}
}

func TestSummarySession_MalformedTranscriptYieldsEmptyChat(t *testing.T) {
	s := NewSummarySession(NewLogger(io.Discard))
	s.LoadFromHistory(
		SummaryRecord{ID: 7, Filename: "doc.pdf"},
		[]ContentEntry{{SectionType: SectionAIChat, Content: "{not json"}},
	)
	if len(s.Chat) != 0 {
		t.Fatalf("chat = %+v, want empty for malformed blob", s.Chat)
	}
	if !s.Active() {
		t.Fatal("malformed transcript deactivated the record")
	}
}

func TestSummarySession_NewUploadDropsPreviousTranscript(t *testing.T) {
	s := NewSummarySession(NewLogger(io.Discard))
	s.LoadFromUpload("first", "a.pdf", nil)
	s.AppendChat(ChatMessage{Sender: "user", Text: "q"})

	s.LoadFromUpload("second", "b.pdf", []string{"tag"})
	if len(s.Chat) != 0 {
		t.Fatalf("chat survived new upload: %+v", s.Chat)
	}
	if s.ChatPending() {
		t.Fatal("pending flag survived new upload")
	}
	if s.Record.Saved() {
		t.Fatal("fresh upload already has an ID")
	}
}
