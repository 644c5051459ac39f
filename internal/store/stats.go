package store

import (
	"context"
	"fmt"

	"github.com/rcliao/memory-gate/internal/model"
)

// OwnerStats holds per-owner counts. It never carries memory text.
type OwnerStats struct {
	OwnerID           string `json:"owner_id"`
	ActiveItems       int    `json:"active_items"`
	DeletedItems      int    `json:"deleted_items"`
	PendingProposals  int    `json:"pending_proposals"`
	ApprovedProposals int    `json:"approved_proposals"`
	DeclinedProposals int    `json:"declined_proposals"`
}

// Stats returns counts for one owner.
func (s *SQLiteStore) Stats(ctx context.Context, ownerID string) (*OwnerStats, error) {
	st := &OwnerStats{OwnerID: ownerID}

	rows, err := s.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM memory_items WHERE owner_id = ? GROUP BY status`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		st.addItems(model.ItemStatus(status), n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	prow, err := s.db.QueryContext(ctx,
		`SELECT decision, COUNT(*) FROM memory_proposals WHERE owner_id = ? GROUP BY decision`, ownerID)
	if err != nil {
		return nil, err
	}
	defer prow.Close()
	for prow.Next() {
		var decision string
		var n int
		if err := prow.Scan(&decision, &n); err != nil {
			return nil, err
		}
		st.addProposals(model.Decision(decision), n)
	}
	return st, prow.Err()
}

// Stats returns counts for one owner.
func (s *MemStore) Stats(_ context.Context, ownerID string) (*OwnerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := &OwnerStats{OwnerID: ownerID}
	for _, it := range s.items[ownerID] {
		st.addItems(it.Status, 1)
	}
	for _, p := range s.proposals[ownerID] {
		st.addProposals(p.Decision, 1)
	}
	return st, nil
}

// Stats returns counts for one owner.
func (s *FileStore) Stats(ctx context.Context, ownerID string) (*OwnerStats, error) {
	l := s.ownerLock(ownerID)
	l.Lock()
	_, recs, err := s.loadItems(ownerID)
	l.Unlock()
	if err != nil {
		return nil, fmt.Errorf("load memory: %w", err)
	}

	st := &OwnerStats{OwnerID: ownerID}
	for _, r := range recs {
		if r.OwnerID == ownerID {
			status := model.ItemStatus(r.Status)
			if status == "" {
				status = model.StatusActive
			}
			st.addItems(status, 1)
		}
	}

	proposals, err := s.ListProposals(ctx, ownerID, "")
	if err != nil {
		return nil, fmt.Errorf("load proposals: %w", err)
	}
	for _, p := range proposals {
		st.addProposals(p.Decision, 1)
	}
	return st, nil
}

func (st *OwnerStats) addItems(status model.ItemStatus, n int) {
	switch status {
	case model.StatusActive:
		st.ActiveItems += n
	case model.StatusDeleted:
		st.DeletedItems += n
	}
}

func (st *OwnerStats) addProposals(d model.Decision, n int) {
	switch d {
	case model.DecisionPending:
		st.PendingProposals += n
	case model.DecisionApproved:
		st.ApprovedProposals += n
	case model.DecisionDeclined:
		st.DeclinedProposals += n
	}
}
