// Package proposal implements the propose, approve and decline lifecycle
// that is the only write path into memory.
package proposal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/rcliao/memory-gate/internal/language"
	"github.com/rcliao/memory-gate/internal/model"
	"github.com/rcliao/memory-gate/internal/store"
)

var (
	// ErrState is returned when a proposal is not pending.
	ErrState = errors.New("invalid proposal state")
	// ErrInvalid is returned for malformed propose or approve input.
	ErrInvalid = errors.New("invalid proposal")
)

// Service owns the proposal state machine. Operations on one owner are
// serialized; different owners proceed in parallel.
type Service struct {
	memory    store.MemoryStore
	proposals store.ProposalStore
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string

	mu     sync.Mutex
	owners map[string]*sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service over the given repositories.
func NewService(ms store.MemoryStore, ps store.ProposalStore, opts ...Option) *Service {
	s := &Service{
		memory:    ms,
		proposals: ps,
		logger:    zap.NewNop(),
		now:       func() time.Time { return time.Now().UTC() },
		newID:     func() string { return ulid.Make().String() },
		owners:    make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) lock(ownerID string) func() {
	s.mu.Lock()
	l, ok := s.owners[ownerID]
	if !ok {
		l = &sync.Mutex{}
		s.owners[ownerID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// Propose records a pending proposal. Memory is not touched.
func (s *Service) Propose(ctx context.Context, ownerID, text string, kind model.MemoryKind, source model.Source) (*model.MemoryProposal, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, fmt.Errorf("%w: owner_id is required", ErrInvalid)
	}
	if !model.ValidKinds[kind] {
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalid, kind)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text is required", ErrInvalid)
	}
	if source.Type == "" {
		source.Type = model.SourcePhase3Reflection
	}

	defer s.lock(ownerID)()

	p := model.MemoryProposal{
		ID:           s.newID(),
		OwnerID:      ownerID,
		ProposedText: text,
		Kind:         kind,
		Source:       source,
		CreatedAt:    s.now(),
		Decision:     model.DecisionPending,
	}
	if err := s.proposals.CreateProposal(ctx, p); err != nil {
		return nil, fmt.Errorf("create proposal: %w", err)
	}

	s.logger.Info("memory proposed",
		zap.String("owner", ownerID),
		zap.String("proposal_id", p.ID),
		zap.String("kind", string(kind)))
	return &p, nil
}

// Approve validates finalText and commits it as a new memory item. On any
// failure the proposal stays pending and no item remains active.
func (s *Service) Approve(ctx context.Context, ownerID, proposalID, finalText string) (*model.MemoryItem, error) {
	defer s.lock(ownerID)()

	p, err := s.pending(ctx, ownerID, proposalID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(finalText) == "" {
		return nil, fmt.Errorf("%w: final text is required", ErrInvalid)
	}
	if err := language.Validate(finalText); err != nil {
		var ve *language.ValidationError
		if errors.As(err, &ve) {
			s.logger.Info("approval rejected",
				zap.String("owner", ownerID),
				zap.String("proposal_id", proposalID),
				zap.String("category", string(ve.Category)))
		}
		return nil, err
	}

	now := s.now()
	item, err := s.memory.Create(ctx, model.MemoryItem{
		ID:        s.newID(),
		OwnerID:   ownerID,
		Text:      finalText,
		Kind:      p.Kind,
		Source:    p.Source,
		CreatedAt: now,
		UpdatedAt: now,
		Status:    model.StatusActive,
	})
	if err != nil {
		return nil, fmt.Errorf("create memory: %w", err)
	}

	p.Decision = model.DecisionApproved
	p.DecidedAt = &now
	p.FinalText = finalText
	p.ResultMemoryID = item.ID
	if err := s.proposals.SaveProposal(ctx, *p); err != nil {
		if derr := s.memory.Delete(ctx, ownerID, item.ID); derr != nil {
			s.logger.Error("rollback failed",
				zap.String("owner", ownerID),
				zap.String("memory_id", item.ID),
				zap.Error(derr))
		}
		return nil, fmt.Errorf("save proposal: %w", err)
	}

	s.logger.Info("memory approved",
		zap.String("owner", ownerID),
		zap.String("proposal_id", proposalID),
		zap.String("memory_id", item.ID))
	return item, nil
}

// Decline closes a pending proposal. Its texts are cleared so nothing usable
// survives; reason may be empty.
func (s *Service) Decline(ctx context.Context, ownerID, proposalID, reason string) error {
	defer s.lock(ownerID)()

	p, err := s.pending(ctx, ownerID, proposalID)
	if err != nil {
		return err
	}

	now := s.now()
	p.Decision = model.DecisionDeclined
	p.DecidedAt = &now
	p.ProposedText = ""
	p.FinalText = ""
	p.ResultMemoryID = ""
	p.DeclineReason = strings.TrimSpace(reason)
	if err := s.proposals.SaveProposal(ctx, *p); err != nil {
		return fmt.Errorf("save proposal: %w", err)
	}

	s.logger.Info("memory declined",
		zap.String("owner", ownerID),
		zap.String("proposal_id", proposalID))
	return nil
}

// Get returns one proposal of an owner.
func (s *Service) Get(ctx context.Context, ownerID, proposalID string) (*model.MemoryProposal, error) {
	return s.proposals.GetProposal(ctx, ownerID, proposalID)
}

// Pending lists the owner's undecided proposals, oldest first.
func (s *Service) Pending(ctx context.Context, ownerID string) ([]model.MemoryProposal, error) {
	return s.proposals.ListProposals(ctx, ownerID, model.DecisionPending)
}

func (s *Service) pending(ctx context.Context, ownerID, proposalID string) (*model.MemoryProposal, error) {
	p, err := s.proposals.GetProposal(ctx, ownerID, proposalID)
	if err != nil {
		return nil, err
	}
	if !p.Pending() {
		return nil, fmt.Errorf("proposal %s is %s: %w", proposalID, p.Decision, ErrState)
	}
	return p, nil
}
