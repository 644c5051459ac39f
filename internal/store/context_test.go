package store

import (
	"context"
	"errors"
	"testing"

	"github.com/rcliao/memory-gate/internal/model"
)

func TestSelectionEmptyNeverAutoSelects(t *testing.T) {
	backends(t, func(t *testing.T, s Backend) {
		ctx := context.Background()
		s.Create(ctx, testItem("u1", "m-1", "I prefer learning by building small prototypes.", 0))

		for _, ids := range [][]string{nil, {}} {
			got, err := NewSelectionBuilder(s).Build(ctx, "u1", ids)
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			if len(got.SelectedIDs) != 0 || len(got.ResolvedTexts) != 0 {
				t.Errorf("expected nothing resolved, got %+v", got)
			}
			if got.AttributionLine != "" {
				t.Errorf("expected empty attribution, got %q", got.AttributionLine)
			}
		}
	})
}

func TestSelectionSkipsDeletedAndMissing(t *testing.T) {
	backends(t, func(t *testing.T, s Backend) {
		ctx := context.Background()
		s.Create(ctx, testItem("u1", "m-1", "first", 0))
		s.Create(ctx, testItem("u1", "m-2", "second", 1))
		s.Create(ctx, testItem("u1", "m-3", "gone", 2))
		s.Create(ctx, testItem("u2", "m-4", "someone else's", 3))
		s.Delete(ctx, "u1", "m-3")

		b := NewSelectionBuilder(s)

		only, err := b.Build(ctx, "u1", []string{"m-3"})
		if err != nil {
			t.Fatalf("build: %v", err)
		}
		if len(only.ResolvedTexts) != 0 || only.AttributionLine != "" {
			t.Errorf("deleted item must not resolve: %+v", only)
		}
		if len(only.SelectedIDs) != 1 || only.SelectedIDs[0] != "m-3" {
			t.Errorf("selected ids must be echoed, got %v", only.SelectedIDs)
		}

		ids := []string{"m-2", "missing", "m-3", "m-4", "m-1"}
		got, err := b.Build(ctx, "u1", ids)
		if err != nil {
			t.Fatalf("build: %v", err)
		}
		if len(got.ResolvedTexts) != 2 || got.ResolvedTexts[0] != "second" || got.ResolvedTexts[1] != "first" {
			t.Errorf("expected [second first], got %v", got.ResolvedTexts)
		}
		if got.AttributionLine != model.AttributionLine {
			t.Errorf("expected attribution, got %q", got.AttributionLine)
		}
		if len(got.SelectedIDs) != len(ids) {
			t.Errorf("expected all ids echoed, got %v", got.SelectedIDs)
		}
	})
}

type failingStore struct{ MemoryStore }

func (failingStore) Get(context.Context, string, string, bool) (*model.MemoryItem, error) {
	return nil, errors.New("disk on fire")
}

func TestSelectionPropagatesStoreErrors(t *testing.T) {
	_, err := NewSelectionBuilder(failingStore{}).Build(context.Background(), "u1", []string{"m-1"})
	if err == nil {
		t.Fatal("expected error")
	}
}
