// Package gate is the call surface of memory-gate. It wires the intelligence
// boundary, the memory repositories, the proposal service and the selection
// builder behind one type.
package gate

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rcliao/memory-gate/internal/boundary"
	"github.com/rcliao/memory-gate/internal/config"
	"github.com/rcliao/memory-gate/internal/model"
	"github.com/rcliao/memory-gate/internal/proposal"
	"github.com/rcliao/memory-gate/internal/store"
)

// Gate serves every external operation.
type Gate struct {
	backend   store.Backend
	boundary  *boundary.Boundary
	proposals *proposal.Service
	selection *store.SelectionBuilder
	logger    *zap.Logger
}

// New wires a Gate over an open backend. A nil logger disables logging.
func New(b store.Backend, logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{
		backend:   b,
		boundary:  boundary.New(boundary.WithLogger(logger.Named("boundary"))),
		proposals: proposal.NewService(b, b, proposal.WithLogger(logger.Named("proposal"))),
		selection: store.NewSelectionBuilder(b),
		logger:    logger,
	}
}

// Open builds the configured backend and wires a Gate over it.
func Open(cfg *config.Config, logger *zap.Logger) (*Gate, error) {
	b, err := OpenBackend(cfg)
	if err != nil {
		return nil, err
	}
	return New(b, logger), nil
}

// OpenBackend opens the storage backend selected by cfg.
func OpenBackend(cfg *config.Config) (store.Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return store.NewMemStore(), nil
	case config.BackendFile:
		return store.NewFileStore(cfg.Storage.Dir)
	default:
		return store.NewSQLiteStore(cfg.Storage.DBPath)
	}
}

// Close releases the backend.
func (g *Gate) Close() error {
	return g.backend.Close()
}

// EvaluateIntelligence routes a request through policy and the adapters.
// It never fails.
func (g *Gate) EvaluateIntelligence(req model.IntelligenceRequest) model.Response {
	return g.boundary.Evaluate(req)
}

// ProposeMemory records a pending proposal.
func (g *Gate) ProposeMemory(ctx context.Context, ownerID, text string, kind model.MemoryKind, source model.Source) (*model.MemoryProposal, error) {
	return g.proposals.Propose(ctx, ownerID, text, kind, source)
}

// ApproveMemory commits a pending proposal as a memory item.
func (g *Gate) ApproveMemory(ctx context.Context, ownerID, proposalID, finalText string) (*model.MemoryItem, error) {
	return g.proposals.Approve(ctx, ownerID, proposalID, finalText)
}

// DeclineMemory closes a pending proposal without creating anything.
func (g *Gate) DeclineMemory(ctx context.Context, ownerID, proposalID, reason string) error {
	return g.proposals.Decline(ctx, ownerID, proposalID, reason)
}

// GetProposal returns one proposal.
func (g *Gate) GetProposal(ctx context.Context, ownerID, proposalID string) (*model.MemoryProposal, error) {
	return g.proposals.Get(ctx, ownerID, proposalID)
}

// PendingProposals lists undecided proposals.
func (g *Gate) PendingProposals(ctx context.Context, ownerID string) ([]model.MemoryProposal, error) {
	return g.proposals.Pending(ctx, ownerID)
}

// ListMemory returns active items, oldest first.
func (g *Gate) ListMemory(ctx context.Context, ownerID string) ([]model.MemoryItem, error) {
	return g.backend.List(ctx, ownerID)
}

// DeleteMemory soft-deletes an item. Repeating it is a no-op.
func (g *Gate) DeleteMemory(ctx context.Context, ownerID, id string) error {
	if err := g.backend.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	g.logger.Info("memory deleted", zap.String("owner", ownerID), zap.String("memory_id", id))
	return nil
}

// ResolveSelectedMemory resolves exactly the ids the caller selected.
func (g *Gate) ResolveSelectedMemory(ctx context.Context, ownerID string, ids []string) (model.SelectedMemoryContext, error) {
	return g.selection.Build(ctx, ownerID, ids)
}

// Stats returns per-owner counts.
func (g *Gate) Stats(ctx context.Context, ownerID string) (*store.OwnerStats, error) {
	return g.backend.Stats(ctx, ownerID)
}

// Export returns the owner's active memory and proposals in record form.
func (g *Gate) Export(ctx context.Context, ownerID string) (*store.Export, error) {
	out, err := store.ExportOwner(ctx, g.backend, g.backend, ownerID)
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", ownerID, err)
	}
	return out, nil
}
