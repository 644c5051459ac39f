// Package policy decides whether an intelligence request is eligible at all.
// It is pure: no I/O, no clock, no state.
package policy

import (
	"fmt"

	"github.com/rcliao/memory-gate/internal/model"
)

// Denial reasons. Callers match on these substrings ("phase", "consent",
// "recommendation") so keep the wording stable.
const (
	ReasonPhaseContextMissing = "phase context missing"
	ReasonPhaseIncomplete     = "prior reflective phase (phase 3) is not complete"
	ReasonMissingConsent      = "missing explicit user consent"
	ReasonRecommendation      = "recommendations must be explicitly disallowed"
)

// Validate applies the rules in order and returns the first failure.
//
// Phase ordering is checked before consent so an out-of-sequence bounded
// request is rejected the same way whether or not a token is presented.
func Validate(req model.IntelligenceRequest) (bool, string) {
	if req.Mode.IsBounded() {
		if req.Phase == nil {
			return false, ReasonPhaseContextMissing
		}
		if !req.Phase.Phase3Complete {
			return false, ReasonPhaseIncomplete
		}
		if req.Phase.Stage != model.StagePostSummary {
			return false, fmt.Sprintf("phase stage must be %s, got %q", model.StagePostSummary, req.Phase.Stage)
		}
	}

	if req.Mode == model.ModeNone {
		return true, ""
	}

	if !req.HasConsent() {
		return false, ReasonMissingConsent
	}
	if !req.Disallows(model.CapabilityRecommendation) {
		return false, ReasonRecommendation
	}
	return true, ""
}
