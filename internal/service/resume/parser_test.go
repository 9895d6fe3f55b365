package resume

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseContactFullResume(t *testing.T) {
	text := "Ada Lovelace\nSenior Engineer\nada.lovelace@example.com\n+1 5551234567\nExperience: ..."

	got := ParseContact(text)

	assert.Equal(t, "Ada Lovelace", got.Name)
	assert.Equal(t, "ada.lovelace@example.com", got.Email)
	assert.Equal(t, "+1 5551234567", got.Phone)
}

func TestParseContactNameRequiresTwoPlainWords(t *testing.T) {
	// A single-word or decorated first line is not taken as a name.
	assert.Empty(t, ParseContact("Ada\nada@example.com").Name)
	assert.Empty(t, ParseContact("Ada Lovelace, PhD\nada@example.com").Name)
}

func TestParseContactOnlyFirstLineConsidered(t *testing.T) {
	got := ParseContact("Curriculum Vitae 2025\nAda Lovelace\nada@example.com")

	// First non-empty line contains digits, so no name is guessed even
	// though a later line would qualify.
	assert.Empty(t, got.Name)
	assert.Equal(t, "ada@example.com", got.Email)
}

func TestParseContactSkipsLeadingBlankLines(t *testing.T) {
	got := ParseContact("\n\n  Ada Lovelace  \nada@example.com")

	assert.Equal(t, "Ada Lovelace", got.Name)
}

func TestParseContactMissingEverything(t *testing.T) {
	got := ParseContact("x")

	assert.Empty(t, got.Name)
	assert.Empty(t, got.Email)
	assert.Empty(t, got.Phone)
}
