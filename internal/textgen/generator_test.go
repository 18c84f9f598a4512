package textgen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mfadhilr/typerace/internal/models"
	"github.com/mfadhilr/typerace/internal/textgen"
)

func TestFallback(t *testing.T) {
	id := textgen.Fallback(models.LanguageIndonesia)
	en := textgen.Fallback(models.LanguageEnglish)

	assert.NotEmpty(t, id)
	assert.NotEmpty(t, en)
	assert.NotEqual(t, id, en)

	// Unknown languages get the default locale text.
	assert.Equal(t, id, textgen.Fallback(models.Language("Klingon")))
}

func TestPrompt(t *testing.T) {
	assert.Contains(t, textgen.Prompt(models.LanguageIndonesia), "Indonesian")
	assert.Contains(t, textgen.Prompt(models.LanguageEnglish), "English")
	// Unknown languages prompt in English rather than failing.
	assert.Contains(t, textgen.Prompt(models.Language("Klingon")), "English")
}
