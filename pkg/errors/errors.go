package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error per the bot's reply policy.
type Kind string

const (
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindEmptyState   Kind = "EMPTY_STATE"
	KindNotFound     Kind = "NOT_FOUND"
	KindUsage        Kind = "USAGE"
	KindInternal     Kind = "INTERNAL"
)

// Error represents a typed domain error carrying the user-visible chat reply.
type Error struct {
	Code    string `json:"code"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Reply returns the text sent back to the chat for this error.
func (e *Error) Reply() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// New creates a new Error instance.
func New(code string, kind Kind, message string) *Error {
	return &Error{Code: code, Kind: kind, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, kind Kind, message string) *Error {
	return &Error{Code: code, Kind: kind, Message: message, Err: err}
}

// Predefined errors; messages are the exact replies users see.
var (
	ErrNotAuthorizedUpload = New("NOT_AUTHORIZED_UPLOAD", KindUnauthorized, "You are not authorized to upload files.")
	ErrNotAuthorizedSave   = New("NOT_AUTHORIZED_SAVE", KindUnauthorized, "You are not authorized to save files.")
	ErrNotAuthorizedDelete = New("NOT_AUTHORIZED_DELETE", KindUnauthorized, "You are not authorized to delete files.")
	ErrNotAuthorizedView   = New("NOT_AUTHORIZED_VIEW", KindUnauthorized, "You are not authorized to view files.")
	ErrNoStagedFiles       = New("NO_STAGED_FILES", KindEmptyState, "No files found! Please upload files before using this command.")
	ErrNoSavedFiles        = New("NO_SAVED_FILES", KindEmptyState, "No files found.")
	ErrLinkInvalid         = New("LINK_INVALID", KindNotFound, "Invalid or expired link.")
	ErrCodeNotFound        = New("CODE_NOT_FOUND", KindNotFound, "Either the code is invalid or you are not the owner of these files.")
	ErrDeleteUsage         = New("DELETE_USAGE", KindUsage, "Usage: /deletefiles <code>")
	ErrInternal            = New("INTERNAL_ERROR", KindInternal, "Something went wrong, please try again later.")

	// ErrCacheMiss never reaches a user; it signals a read-through fallthrough.
	ErrCacheMiss = New("CACHE_MISS", KindInternal, "cache miss")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Kind, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
