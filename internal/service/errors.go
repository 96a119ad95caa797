package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrInvalidBidAmount       = errors.New("bid amount must be a positive number")
	ErrInvalidTenderDate      = errors.New("tender has missing or inconsistent dates")
	ErrBidSubmissionFailed    = errors.New("bid submission failed")
	ErrFavoriteToggleFailed   = errors.New("favorite toggle failed")

	ErrTenderNotFound       = errors.New("tender not found")
	ErrTenderNotOpen        = errors.New("tender is not open for bidding")
	ErrBidNotFound          = errors.New("bid not found")
	ErrPropertyNotFound     = errors.New("property not found")
	ErrNotOwner             = errors.New("only the owner can do this")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrUserNotFound         = errors.New("user not found")
)

// ValidationError - ошибки входных данных по полям
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func invalidField(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}
