// Package mcp implements the Model Context Protocol server for ScriptureLens.
package mcp

import (
	"context"
	"errors"
	"fmt"

	slerrors "github.com/scripturelens/scripturelens/internal/errors"
)

// Custom MCP error codes for ScriptureLens.
const (
	// ErrCodeProjectNotFound indicates an unknown project or scope.
	ErrCodeProjectNotFound = -32001

	// ErrCodeRebuildFailed indicates a snapshot rebuild failed.
	ErrCodeRebuildFailed = -32002

	// ErrCodeTimeout indicates the request timed out.
	ErrCodeTimeout = -32003

	// ErrCodeWordStudyUnavailable indicates the word study provider is
	// disabled or unreachable.
	ErrCodeWordStudyUnavailable = -32004

	// Standard JSON-RPC error codes.
	ErrCodeInvalidRequest = -32600
	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeInternalError  = -32603
)

// MCPError represents an MCP protocol error with code and message.
type MCPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// MapError converts internal errors to MCP errors.
func MapError(err error) *MCPError {
	if err == nil {
		return nil
	}

	var lensErr *slerrors.LensError
	if errors.As(err, &lensErr) {
		return mapLensError(lensErr)
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &MCPError{Code: ErrCodeTimeout, Message: "Request timed out."}
	case errors.Is(err, context.Canceled):
		return &MCPError{Code: ErrCodeTimeout, Message: "Request was canceled."}
	default:
		return &MCPError{Code: ErrCodeInternalError, Message: "Internal server error."}
	}
}

// NewInvalidParamsError creates an error for invalid parameters with a custom message.
func NewInvalidParamsError(msg string) *MCPError {
	return &MCPError{Code: ErrCodeInvalidParams, Message: msg}
}

// NewMethodNotFoundError creates an error for unknown tools.
func NewMethodNotFoundError(name string) *MCPError {
	return &MCPError{
		Code:    ErrCodeMethodNotFound,
		Message: fmt.Sprintf("Tool '%s' not found.", name),
	}
}

// mapLensError converts a LensError to an MCPError.
func mapLensError(le *slerrors.LensError) *MCPError {
	message := le.Message
	if le.Suggestion != "" {
		message = fmt.Sprintf("%s %s", le.Message, le.Suggestion)
	}

	switch le.Code {
	case slerrors.ErrCodeNotFound:
		return &MCPError{Code: ErrCodeProjectNotFound, Message: message}
	case slerrors.ErrCodeInvalidFilter, slerrors.ErrCodeInvalidInput:
		return &MCPError{Code: ErrCodeInvalidParams, Message: message}
	case slerrors.ErrCodeRebuildTimeout, slerrors.ErrCodeRebuildCanceled:
		return &MCPError{Code: ErrCodeTimeout, Message: message}
	case slerrors.ErrCodeRebuildFailed:
		return &MCPError{Code: ErrCodeRebuildFailed, Message: message}
	case slerrors.ErrCodeWordStudyFailed:
		return &MCPError{Code: ErrCodeWordStudyUnavailable, Message: message}
	default:
		return &MCPError{Code: ErrCodeInternalError, Message: message}
	}
}
