// Package boundary is the single entry point for intelligence participation.
// Policy decides eligibility, then explicit-request detection decides intent,
// then exactly one adapter runs.
package boundary

import (
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rcliao/memory-gate/internal/adapter"
	"github.com/rcliao/memory-gate/internal/model"
	"github.com/rcliao/memory-gate/internal/policy"
)

// ExplicitRequestTriggers are phrases that count as an explicit request for
// interpretation. Matching is conservative: lowercase substring only.
var ExplicitRequestTriggers = []string{
	"interpret",
	"analyze",
	"analyse",
	"what does this say about",
	"possible interpretations",
	"reflect on",
	"patterns in my responses",
	"what do you make of",
	"read into",
}

// DetectExplicitRequest reports whether text explicitly asks for
// interpretation.
func DetectExplicitRequest(text string) bool {
	lowered := strings.ToLower(text)
	for _, t := range ExplicitRequestTriggers {
		if strings.Contains(lowered, t) {
			return true
		}
	}
	return false
}

// Boundary routes requests. It keeps no state between calls.
type Boundary struct {
	null       adapter.Adapter
	paraphrase adapter.Adapter
	bounded    adapter.Adapter
	logger     *zap.Logger
}

// Option configures a Boundary.
type Option func(*Boundary)

// WithNull overrides the null adapter.
func WithNull(a adapter.Adapter) Option { return func(b *Boundary) { b.null = a } }

// WithParaphrase overrides the shallow-mode adapter.
func WithParaphrase(a adapter.Adapter) Option { return func(b *Boundary) { b.paraphrase = a } }

// WithBounded overrides the bounded-mode adapter.
func WithBounded(a adapter.Adapter) Option { return func(b *Boundary) { b.bounded = a } }

// WithLogger sets the logger. Request text is never logged.
func WithLogger(l *zap.Logger) Option { return func(b *Boundary) { b.logger = l } }

// New builds a Boundary with the default adapters.
func New(opts ...Option) *Boundary {
	b := &Boundary{
		null:       adapter.NewNull(),
		paraphrase: adapter.NewParaphrase(nil),
		bounded:    adapter.NewBounded(),
		logger:     zap.NewNop(),
	}
	for _, o := range opts {
		o(b)
	}
	if b.logger == nil {
		b.logger = zap.NewNop()
	}
	return b
}

// Evaluate never fails: every refusal is a Denied or NoIntelligence response.
func (b *Boundary) Evaluate(req model.IntelligenceRequest) model.Response {
	log := b.logger.With(
		zap.String("evaluation_id", uuid.NewString()),
		zap.String("mode", string(req.Mode)),
		zap.String("role", string(req.Role)),
	)

	if allowed, reason := policy.Validate(req); !allowed {
		log.Debug("policy denied", zap.String("reason", reason))
		return model.Denied{Reason: reason}
	}

	var (
		resp  model.Response
		route string
	)
	switch {
	case req.Mode.IsBounded():
		if DetectExplicitRequest(req.UserText) {
			route, resp = "bounded", b.bounded.Evaluate(req)
		} else {
			// Silent: the caller is not told interpretation was available.
			route, resp = "null_no_trigger", b.null.Evaluate(req)
		}
	case req.Mode == model.ModeShallow:
		route, resp = "paraphrase", b.paraphrase.Evaluate(req)
	default:
		route, resp = "null", b.null.Evaluate(req)
	}

	log.Debug("intelligence evaluated",
		zap.String("route", route),
		zap.String("status", string(resp.Status())))
	return resp
}
