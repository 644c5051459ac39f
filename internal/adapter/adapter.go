// Package adapter implements one behavior per intelligence mode. Each adapter
// re-checks the constraints of its own mode instead of trusting the caller.
package adapter

import "github.com/rcliao/memory-gate/internal/model"

// Adapter turns an eligible request into a response.
type Adapter interface {
	Evaluate(req model.IntelligenceRequest) model.Response
}

// Null guarantees no intelligence is active. It never reads the request.
type Null struct{}

// NewNull returns the default adapter.
func NewNull() Null { return Null{} }

func (Null) Evaluate(model.IntelligenceRequest) model.Response {
	return model.NoIntelligence{}
}
