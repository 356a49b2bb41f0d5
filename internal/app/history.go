package app

// Scope partitions the history list for display. The projection never
// mutates the underlying collection.
type Scope string

const (
	ScopeAll      Scope = "all"
	ScopePersonal Scope = "personal"
	ScopeTeam     Scope = "team"
)

// HistoryCollection owns the list of all known summary records. New saves
// prepend; edits patch in place. Ordering is "most recently known first" by
// construction, not a sorted invariant. Like SummarySession this is pure
// state; fetching happens in the caller's async command and lands here via
// Replace.
type HistoryCollection struct {
	Items []SummaryRecord
}

func NewHistoryCollection() *HistoryCollection {
	return &HistoryCollection{}
}

// Replace swaps in a fresh list from the backend.
func (h *HistoryCollection) Replace(items []SummaryRecord) { h.Items = items }

// Clear drops the list, used on logout and on fetch failure so stale data
// never lingers.
func (h *HistoryCollection) Clear() { h.Items = nil }

func (h *HistoryCollection) Prepend(rec SummaryRecord) {
	h.Items = append([]SummaryRecord{rec}, h.Items...)
}

// PatchOne replaces the entry whose ID matches so tag/title edits show up
// without a refetch. Position is kept; display order stays stable after
// edits.
func (h *HistoryCollection) PatchOne(rec SummaryRecord) bool {
	for i := range h.Items {
		if h.Items[i].ID == rec.ID {
			h.Items[i] = rec
			return true
		}
	}
	return false
}

func (h *HistoryCollection) Filter(scope Scope) []SummaryRecord {
	if scope == ScopeAll || scope == "" {
		return h.Items
	}
	out := make([]SummaryRecord, 0, len(h.Items))
	for _, rec := range h.Items {
		switch scope {
		case ScopePersonal:
			if rec.TeamID == 0 {
				out = append(out, rec)
			}
		case ScopeTeam:
			if rec.TeamID != 0 {
				out = append(out, rec)
			}
		}
	}
	return out
}
