// Package model defines the core memory and intelligence data types.
package model

import (
	"strings"
	"time"
)

// MemoryKind classifies what a remembered statement is about.
type MemoryKind string

const (
	KindPreference      MemoryKind = "PREFERENCE"
	KindConstraint      MemoryKind = "CONSTRAINT"
	KindGoal            MemoryKind = "GOAL"
	KindSelfObservation MemoryKind = "SELF_OBSERVATION"
)

// ValidKinds are the allowed memory kinds.
var ValidKinds = map[MemoryKind]bool{
	KindPreference:      true,
	KindConstraint:      true,
	KindGoal:            true,
	KindSelfObservation: true,
}

// ParseKind accepts a kind in any letter case ("goal", "GOAL").
func ParseKind(s string) (MemoryKind, bool) {
	k := MemoryKind(strings.ToUpper(strings.TrimSpace(s)))
	return k, ValidKinds[k]
}

// Source types seen in practice.
const (
	SourcePhase3Reflection     = "phase3_reflection"
	SourcePhase5Interpretation = "phase5_3_interpretation"
	SourceLegacy               = "legacy"
)

// Source describes where a memory statement came from.
type Source struct {
	Type string `json:"source_type"`
	ID   string `json:"source_id,omitempty"`
	Note string `json:"note,omitempty"`
}

// ItemStatus is the lifecycle state of a stored memory item.
type ItemStatus string

const (
	StatusActive  ItemStatus = "active"
	StatusDeleted ItemStatus = "deleted"
)

// MemoryItem is an approved, stored memory statement.
type MemoryItem struct {
	ID        string     `json:"id"`
	OwnerID   string     `json:"owner_id"`
	Text      string     `json:"text"`
	Kind      MemoryKind `json:"kind"`
	Source    Source     `json:"source"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Status    ItemStatus `json:"status"`
	DeletedAt *time.Time `json:"deleted_at"`
}

// Active reports whether the item is usable.
func (m MemoryItem) Active() bool { return m.Status == StatusActive }

// Decision is the state of a memory proposal. Pending moves to approved or
// declined exactly once.
type Decision string

const (
	DecisionPending  Decision = "pending"
	DecisionApproved Decision = "approved"
	DecisionDeclined Decision = "declined"
)

// MemoryProposal is a candidate memory statement awaiting an explicit decision.
type MemoryProposal struct {
	ID             string     `json:"proposal_id"`
	OwnerID        string     `json:"owner_id"`
	ProposedText   string     `json:"proposed_text"`
	Kind           MemoryKind `json:"kind"`
	Source         Source     `json:"source"`
	CreatedAt      time.Time  `json:"created_at"`
	Decision       Decision   `json:"decision"`
	DecidedAt      *time.Time `json:"decided_at,omitempty"`
	FinalText      string     `json:"final_text,omitempty"`
	ResultMemoryID string     `json:"result_memory_id,omitempty"`
	DeclineReason  string     `json:"decline_reason,omitempty"`
}

// Pending reports whether a decision can still be made.
func (p MemoryProposal) Pending() bool { return p.Decision == DecisionPending }

// AttributionLine is shown whenever selected memory is actually used.
const AttributionLine = "Using the items you selected…"

// SelectedMemoryContext is the result of resolving a caller-chosen set of
// memory ids.
type SelectedMemoryContext struct {
	SelectedIDs     []string `json:"selected_memory_ids"`
	ResolvedTexts   []string `json:"resolved_texts"`
	AttributionLine string   `json:"attribution_line"`
}
