package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rcliao/memory-gate/internal/model"
)

// FileStore implements Backend with one directory per owner:
//
//	<dir>/owners/<owner_id>/memory.json
//	<dir>/owners/<owner_id>/proposals.json
//
// Each file is a JSON array rewritten atomically on every change.
type FileStore struct {
	dir   string
	now   func() time.Time
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewFileStore creates the base directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Join(dir, "owners"), 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{
		dir:   dir,
		now:   func() time.Time { return time.Now().UTC() },
		locks: make(map[string]*sync.Mutex),
	}, nil
}

func (s *FileStore) ownerLock(ownerID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[ownerID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[ownerID] = l
	}
	return l
}

func (s *FileStore) ownerDir(ownerID string) (string, error) {
	if ownerID == "" || ownerID == "." || ownerID == ".." || strings.ContainsAny(ownerID, `/\`) {
		return "", fmt.Errorf("invalid owner id %q", ownerID)
	}
	return filepath.Join(s.dir, "owners", ownerID), nil
}

func (s *FileStore) memoryFile(ownerID string) (string, error) {
	d, err := s.ownerDir(ownerID)
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "memory.json"), nil
}

func (s *FileStore) proposalsFile(ownerID string) (string, error) {
	d, err := s.ownerDir(ownerID)
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "proposals.json"), nil
}

// loadJSON reads a JSON array; a missing file reads as empty.
func loadJSON[T any](path string) ([]T, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out []T
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return out, nil
}

// saveJSON writes through a temp file and rename so readers never see a
// partial file.
func saveJSON[T any](path string, v []T) error {
	if v == nil {
		v = []T{}
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp_*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

func (s *FileStore) loadItems(ownerID string) (string, []MemoryRecord, error) {
	path, err := s.memoryFile(ownerID)
	if err != nil {
		return "", nil, err
	}
	recs, err := loadJSON[MemoryRecord](path)
	// Records written before owner_id existed belong to the directory's owner.
	for i := range recs {
		if recs[i].OwnerID == "" {
			recs[i].OwnerID = ownerID
		}
	}
	return path, recs, err
}

func (s *FileStore) List(_ context.Context, ownerID string) ([]model.MemoryItem, error) {
	l := s.ownerLock(ownerID)
	l.Lock()
	defer l.Unlock()

	_, recs, err := s.loadItems(ownerID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	items := []model.MemoryItem{}
	for _, r := range recs {
		it, err := ItemFromRecord(r, now)
		if err != nil {
			return nil, err
		}
		if it.OwnerID == ownerID && it.Active() {
			items = append(items, it)
		}
	}
	sortItems(items)
	return items, nil
}

func (s *FileStore) Get(_ context.Context, ownerID, id string, includeDeleted bool) (*model.MemoryItem, error) {
	l := s.ownerLock(ownerID)
	l.Lock()
	defer l.Unlock()

	_, recs, err := s.loadItems(ownerID)
	if err != nil {
		return nil, err
	}
	for _, r := range recs {
		if r.ID != id {
			continue
		}
		it, err := ItemFromRecord(r, s.now())
		if err != nil {
			return nil, err
		}
		if it.OwnerID != ownerID || (!it.Active() && !includeDeleted) {
			break
		}
		return &it, nil
	}
	return nil, fmt.Errorf("memory %s: %w", id, ErrNotFound)
}

func (s *FileStore) Create(_ context.Context, item model.MemoryItem) (*model.MemoryItem, error) {
	l := s.ownerLock(item.OwnerID)
	l.Lock()
	defer l.Unlock()

	path, recs, err := s.loadItems(item.OwnerID)
	if err != nil {
		return nil, err
	}
	for _, r := range recs {
		if r.ID == item.ID {
			return nil, fmt.Errorf("memory %s already exists", item.ID)
		}
	}
	recs = append(recs, RecordFromItem(item))
	if err := saveJSON(path, recs); err != nil {
		return nil, fmt.Errorf("save memory: %w", err)
	}
	return &item, nil
}

func (s *FileStore) Delete(_ context.Context, ownerID, id string) error {
	l := s.ownerLock(ownerID)
	l.Lock()
	defer l.Unlock()

	path, recs, err := s.loadItems(ownerID)
	if err != nil {
		return err
	}
	for i, r := range recs {
		if r.ID != id {
			continue
		}
		// A record naming another owner inside this directory is not claimable.
		if r.OwnerID != ownerID {
			return fmt.Errorf("memory %s: %w", id, ErrOwnership)
		}
		if r.Status == string(model.StatusDeleted) {
			return nil
		}
		now := formatTime(s.now())
		recs[i].Status = string(model.StatusDeleted)
		recs[i].DeletedAt = &now
		recs[i].UpdatedAt = now
		if err := saveJSON(path, recs); err != nil {
			return fmt.Errorf("save memory: %w", err)
		}
		return nil
	}
	return fmt.Errorf("memory %s: %w", id, ErrNotFound)
}

func (s *FileStore) loadProposals(ownerID string) (string, []ProposalRecord, error) {
	path, err := s.proposalsFile(ownerID)
	if err != nil {
		return "", nil, err
	}
	recs, err := loadJSON[ProposalRecord](path)
	for i := range recs {
		if recs[i].OwnerID == "" {
			recs[i].OwnerID = ownerID
		}
	}
	return path, recs, err
}

func (s *FileStore) CreateProposal(_ context.Context, p model.MemoryProposal) error {
	l := s.ownerLock(p.OwnerID)
	l.Lock()
	defer l.Unlock()

	path, recs, err := s.loadProposals(p.OwnerID)
	if err != nil {
		return err
	}
	for _, r := range recs {
		if r.ProposalID == p.ID {
			return fmt.Errorf("proposal %s already exists", p.ID)
		}
	}
	recs = append(recs, RecordFromProposal(p))
	if err := saveJSON(path, recs); err != nil {
		return fmt.Errorf("save proposals: %w", err)
	}
	return nil
}

func (s *FileStore) GetProposal(_ context.Context, ownerID, id string) (*model.MemoryProposal, error) {
	l := s.ownerLock(ownerID)
	l.Lock()
	defer l.Unlock()

	_, recs, err := s.loadProposals(ownerID)
	if err != nil {
		return nil, err
	}
	for _, r := range recs {
		if r.ProposalID != id {
			continue
		}
		if r.OwnerID != ownerID {
			return nil, fmt.Errorf("proposal %s: %w", id, ErrOwnership)
		}
		p, err := ProposalFromRecord(r, s.now())
		if err != nil {
			return nil, err
		}
		return &p, nil
	}
	return nil, fmt.Errorf("proposal %s: %w", id, ErrNotFound)
}

func (s *FileStore) SaveProposal(_ context.Context, p model.MemoryProposal) error {
	l := s.ownerLock(p.OwnerID)
	l.Lock()
	defer l.Unlock()

	path, recs, err := s.loadProposals(p.OwnerID)
	if err != nil {
		return err
	}
	for i, r := range recs {
		if r.ProposalID == p.ID {
			recs[i] = RecordFromProposal(p)
			if err := saveJSON(path, recs); err != nil {
				return fmt.Errorf("save proposals: %w", err)
			}
			return nil
		}
	}
	return fmt.Errorf("proposal %s: %w", p.ID, ErrNotFound)
}

func (s *FileStore) ListProposals(_ context.Context, ownerID string, decision model.Decision) ([]model.MemoryProposal, error) {
	l := s.ownerLock(ownerID)
	l.Lock()
	defer l.Unlock()

	_, recs, err := s.loadProposals(ownerID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := []model.MemoryProposal{}
	for _, r := range recs {
		p, err := ProposalFromRecord(r, now)
		if err != nil {
			return nil, err
		}
		if p.OwnerID == ownerID && (decision == "" || p.Decision == decision) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Close is a no-op.
func (s *FileStore) Close() error { return nil }
