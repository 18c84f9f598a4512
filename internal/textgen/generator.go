// Package textgen produces the round text participants race to type. The
// generator is an external collaborator: it either returns a string or
// fails, and callers absorb every failure into Fallback.
package textgen

import (
	"context"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/mfadhilr/typerace/internal/config"
	"github.com/mfadhilr/typerace/internal/models"
)

// Generator supplies round text for a language.
type Generator interface {
	Generate(ctx context.Context, language models.Language) (string, error)
}

// promptLanguages maps the room language enum to the language name used
// in the generation prompt.
var promptLanguages = map[models.Language]string{
	models.LanguageIndonesia: "Indonesian",
	models.LanguageEnglish:   "English",
}

// fallbackTexts are the deterministic per-language substitutes used when
// generation fails. Round start must never be blocked by the generator.
var fallbackTexts = map[models.Language]string{
	models.LanguageIndonesia: "Teknologi berkembang pesat di era digital ini. Kita harus terus belajar dan beradaptasi dengan perubahan yang terjadi setiap hari.",
	models.LanguageEnglish:   "Technology advances rapidly in our modern world. We must adapt quickly to stay relevant and competitive in this digital age.",
}

// Fallback returns the fixed substitute text for a language. Unknown
// languages fall back to the default locale.
func Fallback(language models.Language) string {
	if text, ok := fallbackTexts[language]; ok {
		return text
	}
	return fallbackTexts[models.DefaultLanguage]
}

// Prompt builds the generation prompt for a language.
func Prompt(language models.Language) string {
	target, ok := promptLanguages[language]
	if !ok {
		target = promptLanguages[models.LanguageEnglish]
	}
	return fmt.Sprintf(
		"Generate a random, interesting fact or short story paragraph in %s with approximately 30-40 words for a typing test. Plain text only, no formatting, no quotes.",
		target,
	)
}

// AnthropicGenerator generates round text through the Anthropic API.
type AnthropicGenerator struct {
	client anthropic.Client
	model  anthropic.Model
	logger *zap.Logger
}

// NewAnthropicGenerator builds a generator from configuration. An empty
// API key yields a generator whose Generate always fails, which callers
// absorb via Fallback.
func NewAnthropicGenerator(cfg config.TextGenConfig, logger *zap.Logger) *AnthropicGenerator {
	return &AnthropicGenerator{
		client: anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:  anthropic.Model(cfg.Model),
		logger: logger,
	}
}

// Generate requests a fresh round text in the given language.
func (a *AnthropicGenerator) Generate(ctx context.Context, language models.Language) (string, error) {
	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: 256,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(Prompt(language))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("generating round text: %w", err)
	}
	if len(msg.Content) == 0 || msg.Content[0].Text == "" {
		return "", errors.New("generating round text: empty response")
	}

	text := msg.Content[0].Text
	a.logger.Debug("round text generated",
		zap.String("language", string(language)),
		zap.Int("length", len(text)))
	return text, nil
}
