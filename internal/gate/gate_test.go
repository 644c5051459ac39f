package gate

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/memory-gate/internal/config"
	"github.com/rcliao/memory-gate/internal/model"
	"github.com/rcliao/memory-gate/internal/proposal"
)

func openAll(t *testing.T, fn func(t *testing.T, g *Gate)) {
	for _, backend := range config.ValidBackends {
		t.Run(backend, func(t *testing.T) {
			dir := t.TempDir()
			cfg := &config.Config{Storage: config.StorageConfig{
				Backend: backend,
				DBPath:  filepath.Join(dir, "memory.db"),
				Dir:     filepath.Join(dir, "data"),
			}}
			g, err := Open(cfg, nil)
			require.NoError(t, err)
			t.Cleanup(func() { g.Close() })
			fn(t, g)
		})
	}
}

func TestEndToEndMemoryLifecycle(t *testing.T) {
	openAll(t, func(t *testing.T, g *Gate) {
		ctx := context.Background()

		p, err := g.ProposeMemory(ctx, "u1", "I like building prototypes", model.KindPreference,
			model.Source{Type: model.SourcePhase3Reflection})
		require.NoError(t, err)

		items, err := g.ListMemory(ctx, "u1")
		require.NoError(t, err)
		assert.Empty(t, items, "proposing must not create memory")

		item, err := g.ApproveMemory(ctx, "u1", p.ID, "I like building prototypes")
		require.NoError(t, err)

		items, err = g.ListMemory(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "I like building prototypes", items[0].Text)
		assert.Equal(t, model.StatusActive, items[0].Status)

		sel, err := g.ResolveSelectedMemory(ctx, "u1", []string{item.ID})
		require.NoError(t, err)
		assert.Equal(t, []string{"I like building prototypes"}, sel.ResolvedTexts)
		assert.Equal(t, model.AttributionLine, sel.AttributionLine)

		none, err := g.ResolveSelectedMemory(ctx, "u1", nil)
		require.NoError(t, err)
		assert.Empty(t, none.ResolvedTexts)
		assert.Empty(t, none.AttributionLine)

		require.NoError(t, g.DeleteMemory(ctx, "u1", item.ID))
		require.NoError(t, g.DeleteMemory(ctx, "u1", item.ID))

		items, err = g.ListMemory(ctx, "u1")
		require.NoError(t, err)
		assert.Empty(t, items)

		sel, err = g.ResolveSelectedMemory(ctx, "u1", []string{item.ID})
		require.NoError(t, err)
		assert.Empty(t, sel.ResolvedTexts)

		st, err := g.Stats(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, 0, st.ActiveItems)
		assert.Equal(t, 1, st.DeletedItems)
		assert.Equal(t, 1, st.ApprovedProposals)
	})
}

func TestDeclineThroughGate(t *testing.T) {
	openAll(t, func(t *testing.T, g *Gate) {
		ctx := context.Background()

		p, err := g.ProposeMemory(ctx, "u1", "I like tea", model.KindPreference, model.Source{})
		require.NoError(t, err)

		pending, err := g.PendingProposals(ctx, "u1")
		require.NoError(t, err)
		assert.Len(t, pending, 1)

		require.NoError(t, g.DeclineMemory(ctx, "u1", p.ID, ""))
		_, err = g.ApproveMemory(ctx, "u1", p.ID, "I like tea")
		assert.ErrorIs(t, err, proposal.ErrState)

		items, err := g.ListMemory(ctx, "u1")
		require.NoError(t, err)
		assert.Empty(t, items)

		exp, err := g.Export(ctx, "u1")
		require.NoError(t, err)
		assert.Empty(t, exp.Memory)
		require.Len(t, exp.Proposals, 1)
		assert.Equal(t, "declined", exp.Proposals[0].Decision)
		assert.Empty(t, exp.Proposals[0].ProposedText)
		assert.NotNil(t, exp.Proposals[0].DeclinedAt)
	})
}

func TestEvaluateIntelligence(t *testing.T) {
	g := New(nil, nil)

	req := model.IntelligenceRequest{
		UserText:               "Can you interpret my answers?",
		Mode:                   model.ModeBounded,
		ConsentToken:           "yes",
		DisallowedCapabilities: []string{model.CapabilityRecommendation},
		Phase:                  &model.PhaseContext{Phase3Complete: true, Stage: model.StagePostSummary},
	}
	resp := g.EvaluateIntelligence(req)
	require.Equal(t, model.StatusAwaitingResonance, resp.Status())
	assert.Equal(t, model.ResonanceChoices(), resp.(model.AwaitingResonance).Choices)

	req.UserText = "thanks for the summary"
	resp = g.EvaluateIntelligence(req)
	assert.Equal(t, model.StatusNoIntelligence, resp.Status())
	assert.Nil(t, model.Content(resp))
}

func TestOpenRejectsUnknownBackend(t *testing.T) {
	_, err := Open(&config.Config{Storage: config.StorageConfig{Backend: "redis"}}, nil)
	assert.Error(t, err)
}
