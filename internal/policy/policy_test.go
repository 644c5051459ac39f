package policy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rcliao/memory-gate/internal/model"
)

func baseRequest() model.IntelligenceRequest {
	return model.IntelligenceRequest{
		UserText:               "test input",
		Role:                   model.RoleObserver,
		Mode:                   model.ModeNone,
		DisallowedCapabilities: []string{"recommendation", "diagnosis"},
	}
}

func readyPhase() *model.PhaseContext {
	return &model.PhaseContext{Phase3Complete: true, Stage: model.StagePostSummary}
}

func TestNoneModeAlwaysAllowed(t *testing.T) {
	for _, token := range []string{"", "user-consented", "  "} {
		req := baseRequest()
		req.ConsentToken = token
		req.DisallowedCapabilities = nil

		allowed, reason := Validate(req)
		assert.True(t, allowed, "token %q", token)
		assert.Empty(t, reason)
	}
}

func TestMissingConsentDenied(t *testing.T) {
	for _, mode := range []model.IntelligenceMode{model.ModeShallow, model.ModeBounded, model.ModeDeliberative} {
		req := baseRequest()
		req.Mode = mode
		req.Phase = readyPhase()

		allowed, reason := Validate(req)
		assert.False(t, allowed, "mode %s", mode)
		assert.Contains(t, strings.ToLower(reason), "consent")
	}
}

func TestAnyConsentTokenCounts(t *testing.T) {
	for _, token := range []string{" ", "\t", "x"} {
		req := baseRequest()
		req.Mode = model.ModeShallow
		req.ConsentToken = token
		req.Phase = readyPhase()

		allowed, reason := Validate(req)
		assert.True(t, allowed, "token %q: %s", token, reason)
	}
}

func TestMissingRecommendationBlockDenied(t *testing.T) {
	req := baseRequest()
	req.Mode = model.ModeShallow
	req.ConsentToken = "user-consented"
	req.DisallowedCapabilities = []string{"diagnosis"}

	allowed, reason := Validate(req)
	assert.False(t, allowed)
	assert.Contains(t, strings.ToLower(reason), "recommendation")
}

func TestValidShallowAllowed(t *testing.T) {
	req := baseRequest()
	req.Mode = model.ModeShallow
	req.ConsentToken = "user-consented"

	allowed, reason := Validate(req)
	assert.True(t, allowed)
	assert.Empty(t, reason)
}

func TestBoundedPhaseOrdering(t *testing.T) {
	t.Run("phase context missing", func(t *testing.T) {
		req := baseRequest()
		req.Mode = model.ModeBounded
		req.ConsentToken = "user-consented"

		allowed, reason := Validate(req)
		assert.False(t, allowed)
		assert.Equal(t, ReasonPhaseContextMissing, reason)
	})

	t.Run("phase 3 incomplete wins over consent", func(t *testing.T) {
		for _, token := range []string{"", "user-consented"} {
			req := baseRequest()
			req.Mode = model.ModeBounded
			req.ConsentToken = token
			req.Phase = &model.PhaseContext{Phase3Complete: false, Stage: model.StagePostSummary}

			allowed, reason := Validate(req)
			assert.False(t, allowed)
			assert.Contains(t, reason, "phase 3")
		}
	})

	t.Run("wrong stage", func(t *testing.T) {
		req := baseRequest()
		req.Mode = model.ModeDeliberative
		req.ConsentToken = "user-consented"
		req.Phase = &model.PhaseContext{Phase3Complete: true, Stage: "question_2"}

		allowed, reason := Validate(req)
		assert.False(t, allowed)
		assert.Contains(t, reason, "post_summary")
	})

	t.Run("eligible", func(t *testing.T) {
		req := baseRequest()
		req.Mode = model.ModeBounded
		req.ConsentToken = "user-consented"
		req.Phase = readyPhase()

		allowed, reason := Validate(req)
		assert.True(t, allowed)
		assert.Empty(t, reason)
	})
}

func TestUnknownModeFailsClosed(t *testing.T) {
	req := baseRequest()
	req.Mode = "telepathic"

	allowed, reason := Validate(req)
	assert.False(t, allowed)
	assert.Contains(t, reason, "consent")
}
