package store

import (
	"fmt"
	"time"

	"github.com/rcliao/memory-gate/internal/model"
)

// MemoryRecord is the persisted shape of a memory item.
type MemoryRecord struct {
	ID        string       `json:"id" jsonschema:"required"`
	OwnerID   string       `json:"owner_id" jsonschema:"required"`
	Text      string       `json:"text" jsonschema:"required"`
	Kind      string       `json:"kind" jsonschema:"required,enum=PREFERENCE,enum=CONSTRAINT,enum=GOAL,enum=SELF_OBSERVATION"`
	Source    SourceRecord `json:"source" jsonschema:"required"`
	CreatedAt string       `json:"created_at" jsonschema:"required,format=date-time"`
	UpdatedAt string       `json:"updated_at" jsonschema:"required,format=date-time"`
	Status    string       `json:"status" jsonschema:"required,enum=active,enum=deleted"`
	DeletedAt *string      `json:"deleted_at" jsonschema:"required"`
}

// SourceRecord is the persisted shape of a memory source.
type SourceRecord struct {
	SourceType string `json:"source_type" jsonschema:"required"`
	SourceID   string `json:"source_id,omitempty"`
	Note       string `json:"note,omitempty"`
}

// ProposalRecord is the persisted shape of a memory proposal.
type ProposalRecord struct {
	ProposalID     string  `json:"proposal_id" jsonschema:"required"`
	OwnerID        string  `json:"owner_id" jsonschema:"required"`
	ProposedText   string  `json:"proposed_text" jsonschema:"required"`
	Kind           string  `json:"kind" jsonschema:"required"`
	SourceType     string  `json:"source_type" jsonschema:"required"`
	SourceID       string  `json:"source_id,omitempty"`
	Note           string  `json:"note,omitempty"`
	Decision       string  `json:"decision" jsonschema:"required,enum=pending,enum=approved,enum=declined"`
	CreatedAt      string  `json:"created_at" jsonschema:"required,format=date-time"`
	DecidedAt      *string `json:"decided_at,omitempty" jsonschema:"format=date-time"`
	DeclinedAt     *string `json:"declined_at,omitempty" jsonschema:"format=date-time"`
	DeclineReason  string  `json:"decline_reason,omitempty"`
	FinalText      string  `json:"final_text,omitempty"`
	ResultMemoryID string  `json:"result_memory_id,omitempty"`
}

// timeLayout is RFC3339 with fixed-width nanoseconds so stored timestamps
// sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// RecordFromItem converts a domain item to its persisted form.
func RecordFromItem(it model.MemoryItem) MemoryRecord {
	return MemoryRecord{
		ID:      it.ID,
		OwnerID: it.OwnerID,
		Text:    it.Text,
		Kind:    string(it.Kind),
		Source: SourceRecord{
			SourceType: it.Source.Type,
			SourceID:   it.Source.ID,
			Note:       it.Source.Note,
		},
		CreatedAt: formatTime(it.CreatedAt),
		UpdatedAt: formatTime(it.UpdatedAt),
		Status:    string(it.Status),
		DeletedAt: formatTimePtr(it.DeletedAt),
	}
}

// ItemFromRecord converts a persisted record back. Missing fields written by
// older versions get defaults: status active, source type legacy, and
// timestamps of fallback.
func ItemFromRecord(r MemoryRecord, fallback time.Time) (model.MemoryItem, error) {
	if r.ID == "" {
		return model.MemoryItem{}, fmt.Errorf("memory record without id")
	}
	it := model.MemoryItem{
		ID:      r.ID,
		OwnerID: r.OwnerID,
		Text:    r.Text,
		Kind:    model.MemoryKind(r.Kind),
		Source: model.Source{
			Type: r.Source.SourceType,
			ID:   r.Source.SourceID,
			Note: r.Source.Note,
		},
		Status:    model.ItemStatus(r.Status),
		CreatedAt: parseTimeOr(r.CreatedAt, fallback),
		UpdatedAt: parseTimeOr(r.UpdatedAt, fallback),
	}
	if it.Source.Type == "" {
		it.Source.Type = model.SourceLegacy
	}
	if it.Status == "" {
		it.Status = model.StatusActive
	}
	if r.DeletedAt != nil {
		t, err := parseTime(*r.DeletedAt)
		if err != nil {
			return model.MemoryItem{}, fmt.Errorf("memory %s deleted_at: %w", r.ID, err)
		}
		it.DeletedAt = &t
	}
	return it, nil
}

// RecordFromProposal converts a domain proposal to its persisted form.
func RecordFromProposal(p model.MemoryProposal) ProposalRecord {
	rec := ProposalRecord{
		ProposalID:     p.ID,
		OwnerID:        p.OwnerID,
		ProposedText:   p.ProposedText,
		Kind:           string(p.Kind),
		SourceType:     p.Source.Type,
		SourceID:       p.Source.ID,
		Note:           p.Source.Note,
		Decision:       string(p.Decision),
		CreatedAt:      formatTime(p.CreatedAt),
		DecidedAt:      formatTimePtr(p.DecidedAt),
		DeclineReason:  p.DeclineReason,
		FinalText:      p.FinalText,
		ResultMemoryID: p.ResultMemoryID,
	}
	if p.Decision == model.DecisionDeclined {
		rec.DeclinedAt = rec.DecidedAt
	}
	return rec
}

// ProposalFromRecord converts a persisted proposal back.
func ProposalFromRecord(r ProposalRecord, fallback time.Time) (model.MemoryProposal, error) {
	if r.ProposalID == "" {
		return model.MemoryProposal{}, fmt.Errorf("proposal record without proposal_id")
	}
	p := model.MemoryProposal{
		ID:             r.ProposalID,
		OwnerID:        r.OwnerID,
		ProposedText:   r.ProposedText,
		Kind:           model.MemoryKind(r.Kind),
		Source:         model.Source{Type: r.SourceType, ID: r.SourceID, Note: r.Note},
		CreatedAt:      parseTimeOr(r.CreatedAt, fallback),
		Decision:       model.Decision(r.Decision),
		DeclineReason:  r.DeclineReason,
		FinalText:      r.FinalText,
		ResultMemoryID: r.ResultMemoryID,
	}
	if p.Decision == "" {
		p.Decision = model.DecisionPending
	}
	decided := r.DecidedAt
	if decided == nil {
		decided = r.DeclinedAt
	}
	if decided != nil {
		t, err := parseTime(*decided)
		if err != nil {
			return model.MemoryProposal{}, fmt.Errorf("proposal %s decided_at: %w", r.ProposalID, err)
		}
		p.DecidedAt = &t
	}
	return p, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

// parseTime accepts RFC3339 with or without fractional seconds, and naive
// ISO-8601 timestamps which are read as UTC.
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.ParseInLocation("2006-01-02T15:04:05.999999999", s, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

func parseTimeOr(s string, fallback time.Time) time.Time {
	if s == "" {
		return fallback
	}
	t, err := parseTime(s)
	if err != nil {
		return fallback
	}
	return t
}
