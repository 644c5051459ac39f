// Package language checks text against the forbidden-language categories:
// identity-locking, clinical/diagnostic and authoritative/prescriptive.
//
// The same lists guard interpretations before they are shown and memory text
// before it is stored, so anything the interpreter lets through is storable.
package language

import (
	"errors"
	"fmt"
	"strings"
)

// Category names a forbidden-language predicate.
type Category string

const (
	CategoryIdentity      Category = "identity-locking"
	CategoryClinical      Category = "clinical/diagnostic"
	CategoryAuthoritative Category = "authoritative/prescriptive"
)

// IdentityLockingPhrases imply a fixed identity or trait.
var IdentityLockingPhrases = []string{
	"you are a ",
	"you are an ",
	"you're a ",
	"you're an ",
	"this proves you are",
	"this shows you are",
	"you are inherently",
	"you are naturally",
	"you are always",
	"you are the kind of person",
	"your personality is",
}

// ClinicalTerms are medical or psychological labels.
var ClinicalTerms = []string{
	"diagnosis",
	"diagnose",
	"disorder",
	"adhd",
	"anxiety",
	"autism",
	"autistic",
	"depression",
	"depressed",
	"neurodivergent",
	"bipolar",
	"ocd",
	"ptsd",
	"trauma",
	"symptom",
	"pathology",
	"clinical",
}

// AuthoritativePhrases imply directive guidance.
var AuthoritativePhrases = []string{
	"this means you should",
	"you should",
	"you must",
	"you need to",
	"you have to",
	"the best option",
	"the right choice",
	"i recommend that you",
	"i recommend",
	"the correct answer",
}

// ErrForbiddenLanguage is matched by every *ValidationError.
var ErrForbiddenLanguage = errors.New("forbidden language")

// ValidationError reports the first forbidden phrase found.
type ValidationError struct {
	Category Category
	Phrase   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s language detected: '%s'", e.Category, e.Phrase)
}

// Is lets errors.Is(err, ErrForbiddenLanguage) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrForbiddenLanguage
}

var categories = []struct {
	cat     Category
	phrases []string
}{
	{CategoryIdentity, IdentityLockingPhrases},
	{CategoryClinical, ClinicalTerms},
	{CategoryAuthoritative, AuthoritativePhrases},
}

// Check returns the first match in category order. Matching is a
// case-insensitive substring test.
func Check(text string) (Category, string, bool) {
	lowered := strings.ToLower(text)
	for _, c := range categories {
		for _, p := range c.phrases {
			if strings.Contains(lowered, p) {
				return c.cat, p, true
			}
		}
	}
	return "", "", false
}

// Validate returns a *ValidationError if text contains forbidden language.
func Validate(text string) error {
	if cat, phrase, found := Check(text); found {
		return &ValidationError{Category: cat, Phrase: phrase}
	}
	return nil
}
