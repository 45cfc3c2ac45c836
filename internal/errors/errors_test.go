package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DerivesCategoryAndSeverity(t *testing.T) {
	tests := []struct {
		code     string
		category Category
		severity Severity
	}{
		{ErrCodeConfigInvalid, CategoryConfig, SeverityError},
		{ErrCodeSourceUnreachable, CategorySource, SeverityError},
		{ErrCodeRebuildTimeout, CategoryRebuild, SeverityWarning},
		{ErrCodeInvalidFilter, CategoryValidation, SeverityError},
		{ErrCodeNotFound, CategoryValidation, SeverityError},
		{ErrCodeInternal, CategoryInternal, SeverityFatal},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := New(tt.code, "boom", nil)
			assert.Equal(t, tt.category, err.Category)
			assert.Equal(t, tt.severity, err.Severity)
		})
	}
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := stderrors.New("disk on fire")
	err := Wrap(ErrCodeSourceUnreachable, cause)

	require.NotNil(t, err)
	assert.Equal(t, cause, err.Unwrap())
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsRetryable(err))

	assert.Nil(t, Wrap(ErrCodeInternal, nil))
}

func TestIs_MatchesByCode(t *testing.T) {
	a := New(ErrCodeNotFound, "project missing", nil)
	b := New(ErrCodeNotFound, "chapter missing", nil)
	c := New(ErrCodeInvalidFilter, "bad filter", nil)

	assert.True(t, stderrors.Is(a, b))
	assert.False(t, stderrors.Is(a, c))
}

func TestInvalidFilterError_CarriesField(t *testing.T) {
	err := InvalidFilterError("chapter", "chapter requires book")

	assert.True(t, IsInvalidFilter(err))
	assert.Equal(t, "chapter", err.Details["field"])
	assert.False(t, IsNotFound(err))
}

func TestNotFoundError(t *testing.T) {
	err := NotFoundError("unknown project: nope")
	assert.True(t, IsNotFound(err))
	assert.Equal(t, ErrCodeNotFound, GetCode(err))
	assert.Equal(t, CategoryValidation, GetCategory(err))
}

func TestFormatForCLI(t *testing.T) {
	err := ConfigError("config file unreadable", nil).
		WithSuggestion("check file permissions")
	out := FormatForCLI(err)

	assert.Contains(t, out, "config file unreadable")
	assert.Contains(t, out, "check file permissions")
	assert.Contains(t, out, ErrCodeConfigInvalid)

	// Standard errors are wrapped as internal
	out = FormatForCLI(fmt.Errorf("plain"))
	assert.Contains(t, out, ErrCodeInternal)
}

func TestRetryWithResult_SucceedsAfterFailures(t *testing.T) {
	cfg := RetryConfig{
		MaxRetries:   3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}

	attempts := 0
	got, err := RetryWithResult(context.Background(), cfg, func() (string, error) {
		attempts++
		if attempts < 3 {
			return "", stderrors.New("transient")
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, attempts)
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	cfg := RetryConfig{
		MaxRetries:   2,
		InitialDelay: time.Millisecond,
		MaxDelay:     2 * time.Millisecond,
		Multiplier:   2.0,
	}

	attempts := 0
	err := Retry(context.Background(), cfg, func() error {
		attempts++
		return stderrors.New("always fails")
	})

	require.Error(t, err)
	assert.Equal(t, 3, attempts) // initial + 2 retries
	assert.Contains(t, err.Error(), "failed after 2 retries")
}

func TestRetry_RespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, DefaultRetryConfig(), func() error {
		return stderrors.New("never reached after cancel")
	})

	assert.ErrorIs(t, err, context.Canceled)
}
