// Package store provides the memory and proposal repositories with in-memory,
// SQLite and JSON-file implementations.
package store

import (
	"context"
	"errors"

	"github.com/rcliao/memory-gate/internal/model"
)

var (
	// ErrNotFound is returned when a memory item or proposal does not exist
	// for the requesting owner.
	ErrNotFound = errors.New("not found")
	// ErrOwnership is returned when a stored record names a different owner
	// than the one it is filed under.
	ErrOwnership = errors.New("owner_id mismatch")
)

// MemoryStore holds approved memory items. Items are write-once and can only
// be soft-deleted.
type MemoryStore interface {
	// List returns the owner's active items, oldest first.
	List(ctx context.Context, ownerID string) ([]model.MemoryItem, error)

	// Get returns one item. Deleted items are reported as ErrNotFound unless
	// includeDeleted is set.
	Get(ctx context.Context, ownerID, id string, includeDeleted bool) (*model.MemoryItem, error)

	// Create inserts the item as given. Ids are unique per owner.
	Create(ctx context.Context, item model.MemoryItem) (*model.MemoryItem, error)

	// Delete soft-deletes an item. Deleting a deleted item is a no-op.
	Delete(ctx context.Context, ownerID, id string) error
}

// ProposalStore holds memory proposals.
type ProposalStore interface {
	CreateProposal(ctx context.Context, p model.MemoryProposal) error

	// GetProposal returns ErrNotFound for ids the owner does not have and
	// ErrOwnership when the stored record names another owner.
	GetProposal(ctx context.Context, ownerID, id string) (*model.MemoryProposal, error)

	// SaveProposal replaces the owner's stored proposal with the same id.
	SaveProposal(ctx context.Context, p model.MemoryProposal) error

	// ListProposals returns the owner's proposals, oldest first. An empty
	// decision returns all of them.
	ListProposals(ctx context.Context, ownerID string, decision model.Decision) ([]model.MemoryProposal, error)
}

// Backend is a store that serves both repositories.
type Backend interface {
	MemoryStore
	ProposalStore
	Stats(ctx context.Context, ownerID string) (*OwnerStats, error)
	Close() error
}
