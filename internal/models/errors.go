package models

import "errors"

// Failure taxonomy surfaced to clients. Each sentinel maps to a distinct
// user-facing code so the frontend can show a specific remediation message
// instead of a generic failure.
var (
	// ErrNotConfigured means the AI credential is missing or rejected.
	ErrNotConfigured = errors.New("assistant is not configured")
	// ErrNoMatch means the collaborator answered but could not identify the item.
	ErrNoMatch = errors.New("item could not be identified")
	// ErrChatBusy signals a send attempt while a previous reply is outstanding.
	ErrChatBusy = errors.New("a chat reply is still pending")
	// ErrSortBusy signals a submit while a classification is in progress.
	ErrSortBusy = errors.New("a classification is already in progress")
	// ErrNoActiveResult means a chat or map operation arrived with no
	// classification on the session.
	ErrNoActiveResult = errors.New("no active sorting result")
	// ErrInvalidInput wraps request validation failures.
	ErrInvalidInput = errors.New("invalid input")
)

// API error codes, one per taxonomy entry.
const (
	CodeNotConfigured    = "not_configured"
	CodeNoMatch          = "no_match"
	CodeConnectivity     = "connectivity"
	CodeValidation       = "validation"
	CodeChatBusy         = "chat_busy"
	CodeSortBusy         = "sort_busy"
	CodeNoActiveResult   = "no_active_result"
	CodePermissionDenied = "permission_denied"
	CodeTimeout          = "timeout"
)
