package wordstudy

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/scripturelens/scripturelens/internal/canon"
	"github.com/scripturelens/scripturelens/internal/config"
	"github.com/scripturelens/scripturelens/internal/errors"
)

const systemPromptFmt = `You are a Biblical scholar expert in %s language and theology.
Provide concise, insightful word studies for Bible translators and students.
Focus on: etymology, semantic range, theological significance, and translation considerations.
Keep responses under 300 words. Use markdown formatting.`

const userPromptFmt = `Provide a word study for the %s word: **%s**

Include:
1. **Definition** - Core meaning and etymology
2. **Semantic Range** - Different ways this word is used
3. **Theological Significance** - Key theological concepts
4. **Translation Tips** - How to translate accurately`

// studyLanguage names the original language for a testament.
func studyLanguage(testament canon.Testament) string {
	if testament == canon.OldTestament {
		return "Hebrew"
	}
	return "Greek"
}

// BuildPrompts returns the system and user prompts for one lemma.
func BuildPrompts(lemma string, testament canon.Testament) (system, user string) {
	language := studyLanguage(testament)
	return fmt.Sprintf(systemPromptFmt, language), fmt.Sprintf(userPromptFmt, language, lemma)
}

// Service wraps a provider with timeout and retry handling.
type Service struct {
	provider Provider
	timeout  time.Duration
	retry    errors.RetryConfig
	logger   *slog.Logger
}

// NewService builds the word study service from configuration. A nil return
// with nil error means the feature is disabled.
func NewService(cfg *config.Config, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}

	provider, err := NewProvider(cfg.WordStudy, cfg.APIKey(), nil)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, nil
	}

	retry := errors.DefaultRetryConfig()
	retry.MaxRetries = cfg.WordStudy.MaxRetries
	retry.Jitter = true

	return &Service{
		provider: provider,
		timeout:  cfg.WordStudyTimeout(),
		retry:    retry,
		logger:   logger,
	}, nil
}

// Provider returns the underlying provider name.
func (s *Service) Provider() string {
	return s.provider.Name()
}

// Study generates a word study for one lemma. Transient provider failures
// are retried with backoff inside the configured timeout.
func (s *Service) Study(ctx context.Context, lemma string, testament canon.Testament) (string, error) {
	if lemma == "" {
		return "", errors.New(errors.ErrCodeInvalidInput, "lemma must not be empty", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	system, user := BuildPrompts(lemma, testament)
	started := time.Now()
	text, err := errors.RetryWithResult(ctx, s.retry, func() (string, error) {
		return s.provider.Generate(ctx, Request{System: system, Prompt: user})
	})
	if err != nil {
		return "", errors.New(errors.ErrCodeWordStudyFailed, "word study failed for "+lemma, err)
	}

	s.logger.Info("word_study_generated",
		slog.String("lemma", lemma),
		slog.String("provider", s.provider.Name()),
		slog.Duration("elapsed", time.Since(started)))
	return text, nil
}
