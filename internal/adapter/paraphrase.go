package adapter

import (
	"strings"

	"github.com/rcliao/memory-gate/internal/model"
)

// DefaultParaphrases maps the survey's own questions to editorial rewrites.
// Keys are matched after whitespace normalization and lowercasing.
var DefaultParaphrases = map[string]string{
	"Imagine you’re asked to help design a new app for helping people navigate a city in a way that feels playful and less stressful. What do you think this project is asking for?": "Here’s the same question phrased a bit more directly:\n\n" +
		"You’re designing an app meant to help people navigate a city in a way that feels playful and less stressful. " +
		"What do you think the core goal of this project is?",
	"How would you actually start working on this?": "Here’s the same question phrased a bit more directly:\n\n" +
		"What would your very first step on this project be?",
	"What feels most challenging or uncertain when you think about executing this idea?": "Here’s the same question phrased a bit more directly:\n\n" +
		"Which part of carrying out this idea feels hardest or least clear right now?",
}

// Paraphrase rewords system-authored questions from a fixed table. It never
// infers anything and never touches user-authored text: anything not in the
// table is skipped.
type Paraphrase struct {
	table map[string]string
}

// NewParaphrase builds the adapter. A nil table uses DefaultParaphrases.
func NewParaphrase(table map[string]string) *Paraphrase {
	if table == nil {
		table = DefaultParaphrases
	}
	p := &Paraphrase{table: make(map[string]string, len(table))}
	for k, v := range table {
		p.table[normalize(k)] = v
	}
	return p
}

func (p *Paraphrase) Evaluate(req model.IntelligenceRequest) model.Response {
	if !req.HasConsent() {
		return model.Denied{Reason: "consent required for paraphrasing"}
	}
	if req.Mode != model.ModeShallow {
		return model.Denied{Reason: "paraphrasing only allowed in shallow mode"}
	}
	if req.ContentType != model.ContentTypeQuestion {
		return model.Ignored{Reason: "paraphrasing skipped for non-question content"}
	}

	text, ok := p.table[normalize(req.UserText)]
	if !ok {
		return model.Ignored{Reason: "paraphrasing skipped: not a known system prompt"}
	}
	return model.Paraphrased{Text: text}
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
