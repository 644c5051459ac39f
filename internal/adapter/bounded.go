package adapter

import (
	"fmt"

	"github.com/rcliao/memory-gate/internal/language"
	"github.com/rcliao/memory-gate/internal/model"
)

// DefaultObservations are the underlying observations wrapped into tentative
// interpretations.
var DefaultObservations = []string{
	"you were exploring options before committing to one direction",
	"uncertainty prompted you to look for outside input",
	"the questions about structure held more of your attention than the others",
}

// interpretationFrame keeps every candidate tentative.
const interpretationFrame = "One possible interpretation is that %s in this context."

// Bounded offers a few tentative interpretations and stops in a state that
// needs the user's explicit resonance choice.
type Bounded struct {
	observations []string
}

// BoundedOption configures a Bounded adapter.
type BoundedOption func(*Bounded)

// WithObservations replaces the observation source.
func WithObservations(obs []string) BoundedOption {
	return func(b *Bounded) { b.observations = append([]string(nil), obs...) }
}

// NewBounded returns a bounded interpretation adapter.
func NewBounded(opts ...BoundedOption) *Bounded {
	b := &Bounded{observations: DefaultObservations}
	for _, o := range opts {
		o(b)
	}
	return b
}

func (b *Bounded) Evaluate(req model.IntelligenceRequest) model.Response {
	if !req.HasConsent() {
		return model.Denied{Reason: "consent required for interpretation"}
	}
	if !req.Mode.IsBounded() {
		return model.Denied{Reason: "interpretation only allowed in bounded mode"}
	}
	if len(b.observations) < 2 {
		return model.Denied{Reason: "at least two interpretations are required"}
	}

	candidates := make([]string, 0, len(b.observations))
	for _, obs := range b.observations {
		candidates = append(candidates, fmt.Sprintf(interpretationFrame, obs))
	}

	// One bad candidate withholds all of them.
	for _, c := range candidates {
		if err := language.Validate(c); err != nil {
			return model.Denied{Reason: err.Error()}
		}
	}

	return model.AwaitingResonance{
		Interpretations: candidates,
		Choices:         model.ResonanceChoices(),
	}
}
