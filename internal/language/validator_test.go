package language

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCategories(t *testing.T) {
	cases := []struct {
		text     string
		category Category
		phrase   string
	}{
		{"You are a person who always overthinks.", CategoryIdentity, "you are a "},
		{"You are a planner.", CategoryIdentity, "you are a "},
		{"This proves you are creative", CategoryIdentity, "this proves you are"},
		{"This is a diagnosis of ADHD.", CategoryClinical, "diagnosis"},
		{"Sounds like anxiety", CategoryClinical, "anxiety"},
		{"You should definitely do this next.", CategoryAuthoritative, "you should"},
		{"That is the best option here", CategoryAuthoritative, "the best option"},
	}

	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			err := Validate(tc.text)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrForbiddenLanguage))

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tc.category, verr.Category)
			assert.Equal(t, tc.phrase, verr.Phrase)
			assert.Contains(t, err.Error(), string(tc.category))
		})
	}
}

func TestValidateCategoryOrder(t *testing.T) {
	// identity is checked before clinical and authoritative
	cat, phrase, found := Check("You are a diagnosis and you should know it")
	require.True(t, found)
	assert.Equal(t, CategoryIdentity, cat)
	assert.Equal(t, "you are a ", phrase)

	cat, _, found = Check("anxiety means you should rest")
	require.True(t, found)
	assert.Equal(t, CategoryClinical, cat)
}

func TestValidateAllowsNeutralText(t *testing.T) {
	for _, text := range []string{
		"I like building prototypes",
		"I want to keep projects small and iterative.",
		"One possible interpretation is that you were exploring options before committing in this context.",
	} {
		assert.NoError(t, Validate(text), text)
	}
}
