package errors

import (
	"fmt"
	"log/slog"
	"strings"
)

// FormatForCLI formats an error for CLI output.
// Uses a concise format suitable for terminal display.
func FormatForCLI(err error) string {
	if err == nil {
		return ""
	}

	le, ok := err.(*LensError)
	if !ok {
		// Wrap standard error
		le = Wrap(ErrCodeInternal, err)
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Error: %s\n", le.Message))

	if le.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("Suggestion: %s\n", le.Suggestion))
	}

	sb.WriteString(fmt.Sprintf("[%s]", le.Code))

	return sb.String()
}

// LogAttrs returns slog attributes for structured logging of an error.
// Standard errors get a single "error" attribute.
func LogAttrs(err error) []slog.Attr {
	if err == nil {
		return nil
	}

	le, ok := err.(*LensError)
	if !ok {
		return []slog.Attr{slog.String("error", err.Error())}
	}

	attrs := []slog.Attr{
		slog.String("error_code", le.Code),
		slog.String("error_category", string(le.Category)),
		slog.String("error_severity", string(le.Severity)),
		slog.String("error", le.Message),
	}
	if le.Cause != nil {
		attrs = append(attrs, slog.String("cause", le.Cause.Error()))
	}
	for k, v := range le.Details {
		attrs = append(attrs, slog.String("detail_"+k, v))
	}
	return attrs
}
