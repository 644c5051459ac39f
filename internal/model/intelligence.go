package model

import (
	"fmt"
	"strings"
)

// ParticipantRole describes how the assistant is asked to take part.
// It is informational only; no role implies authority.
type ParticipantRole string

const (
	RoleParticipant ParticipantRole = "participant"
	RoleMirror      ParticipantRole = "mirror"
	RoleObserver    ParticipantRole = "observer"
)

// IntelligenceMode is the level of participation explicitly requested.
type IntelligenceMode string

const (
	ModeNone    IntelligenceMode = "none"
	ModeShallow IntelligenceMode = "shallow"
	ModeBounded IntelligenceMode = "bounded"
	// ModeDeliberative is handled exactly like ModeBounded.
	ModeDeliberative IntelligenceMode = "deliberative"
)

// ParseMode maps a user supplied string to a mode.
func ParseMode(s string) (IntelligenceMode, error) {
	switch m := IntelligenceMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeNone, ModeShallow, ModeBounded, ModeDeliberative:
		return m, nil
	case "":
		return ModeNone, nil
	default:
		return "", fmt.Errorf("unknown intelligence mode %q (valid: none, shallow, bounded, deliberative)", s)
	}
}

// IsBounded reports whether the mode requests bounded interpretation.
func (m IntelligenceMode) IsBounded() bool {
	return m == ModeBounded || m == ModeDeliberative
}

// Stage labels a checkpoint in the upstream conversation.
type Stage string

// StagePostSummary is reached once the reflective summary has been shown.
const StagePostSummary Stage = "post_summary"

// PhaseContext carries upstream completion flags.
type PhaseContext struct {
	Phase3Complete bool  `json:"phase3_complete"`
	Stage          Stage `json:"stage"`
}

// CapabilityRecommendation must always be disallowed when intelligence is on.
const CapabilityRecommendation = "recommendation"

// ContentTypeQuestion marks system-authored question text.
const ContentTypeQuestion = "question"

// IntelligenceRequest asks the boundary whether and how intelligence may
// participate. It is built once per evaluation and treated as read-only.
type IntelligenceRequest struct {
	UserText               string
	Role                   ParticipantRole
	Mode                   IntelligenceMode
	ConsentToken           string
	DisallowedCapabilities []string
	ContentType            string
	Phase                  *PhaseContext
}

// HasConsent reports whether a consent token was presented. Only presence is
// checked; the token's content is opaque, so any non-empty value counts.
func (r IntelligenceRequest) HasConsent() bool {
	return r.ConsentToken != ""
}

// Disallows reports whether the capability is explicitly disallowed.
func (r IntelligenceRequest) Disallows(capability string) bool {
	for _, c := range r.DisallowedCapabilities {
		if c == capability {
			return true
		}
	}
	return false
}

// Status is the closed vocabulary of boundary outcomes.
type Status string

const (
	StatusDenied            Status = "denied"
	StatusNoIntelligence    Status = "no_intelligence"
	StatusIgnored           Status = "ignored"
	StatusParaphrased       Status = "paraphrased"
	StatusAwaitingResonance Status = "awaiting_resonance"
)

// Resonance is the user's explicit reaction to an offered interpretation.
type Resonance string

const (
	Resonates          Resonance = "resonates"
	PartiallyResonates Resonance = "partially_resonates"
	DoesNotResonate    Resonance = "does_not_resonate"
)

// ResonanceChoices returns the only choices offered after interpretation.
func ResonanceChoices() []Resonance {
	return []Resonance{Resonates, PartiallyResonates, DoesNotResonate}
}

// Response is the outcome of a boundary evaluation. The concrete variants
// below are the only implementations.
type Response interface {
	Status() Status
	Message() string
	response()
}

// Denied is returned when policy or an adapter refuses the request.
type Denied struct {
	Reason string
}

// NoIntelligence is returned when no intelligence participates.
type NoIntelligence struct{}

// Ignored is returned when an adapter declines to process the content.
type Ignored struct {
	Reason string
}

// Paraphrased carries a pre-authored rephrasing of system text.
type Paraphrased struct {
	Text string
}

// AwaitingResonance offers tentative interpretations and waits for the user
// to pick one of Choices.
type AwaitingResonance struct {
	Interpretations []string
	Choices         []Resonance
}

// NoIntelligenceMessage is the fixed message of a NoIntelligence response.
const NoIntelligenceMessage = "Intelligence participation is disabled."

func (Denied) Status() Status            { return StatusDenied }
func (NoIntelligence) Status() Status    { return StatusNoIntelligence }
func (Ignored) Status() Status           { return StatusIgnored }
func (Paraphrased) Status() Status       { return StatusParaphrased }
func (AwaitingResonance) Status() Status { return StatusAwaitingResonance }

func (d Denied) Message() string          { return d.Reason }
func (NoIntelligence) Message() string    { return NoIntelligenceMessage }
func (i Ignored) Message() string         { return i.Reason }
func (Paraphrased) Message() string       { return "" }
func (AwaitingResonance) Message() string { return "" }

func (Denied) response()            {}
func (NoIntelligence) response()    {}
func (Ignored) response()           {}
func (Paraphrased) response()       {}
func (AwaitingResonance) response() {}

// Content returns the flat content view of a response: nil, a string or a
// list of strings.
func Content(r Response) any {
	switch v := r.(type) {
	case Paraphrased:
		return v.Text
	case AwaitingResonance:
		return v.Interpretations
	default:
		return nil
	}
}

// ResponseView is the JSON shape of a Response.
type ResponseView struct {
	Status  Status      `json:"status"`
	Message string      `json:"message,omitempty"`
	Content any         `json:"content"`
	Choices []Resonance `json:"choices,omitempty"`
}

// View flattens a response for serialization.
func View(r Response) ResponseView {
	v := ResponseView{Status: r.Status(), Message: r.Message(), Content: Content(r)}
	if ar, ok := r.(AwaitingResonance); ok {
		v.Choices = ar.Choices
	}
	return v
}
