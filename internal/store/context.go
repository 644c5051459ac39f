package store

import (
	"context"
	"errors"

	"github.com/rcliao/memory-gate/internal/model"
)

// SelectionBuilder resolves memory the caller explicitly selected. It never
// picks anything on its own: no ids in, nothing out.
type SelectionBuilder struct {
	store MemoryStore
}

// NewSelectionBuilder returns a builder over the given store.
func NewSelectionBuilder(s MemoryStore) *SelectionBuilder {
	return &SelectionBuilder{store: s}
}

// Build resolves ids in order. Missing and deleted ids are skipped silently;
// the echo of selected ids is kept verbatim.
func (b *SelectionBuilder) Build(ctx context.Context, ownerID string, ids []string) (model.SelectedMemoryContext, error) {
	result := model.SelectedMemoryContext{
		SelectedIDs:   append([]string{}, ids...),
		ResolvedTexts: []string{},
	}

	for _, id := range ids {
		it, err := b.store.Get(ctx, ownerID, id, false)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return model.SelectedMemoryContext{}, err
		}
		result.ResolvedTexts = append(result.ResolvedTexts, it.Text)
	}

	if len(result.ResolvedTexts) > 0 {
		result.AttributionLine = model.AttributionLine
	}
	return result, nil
}
