package model

import (
	"fmt"

	"github.com/pkg/errors"
)

type PagingMeta struct {
	Page   int                    `json:"page"`
	Count  int64                  `json:"count"`
	Limit  int                    `json:"limit"`
	Order  string                 `json:"order"`
	Filter map[string]interface{} `json:"filter"`
}

// NewPagingMeta normalizes page and limit and returns the meta together with the offset to query
func NewPagingMeta(page, limit int) (PagingMeta, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	return PagingMeta{
		Page:   page,
		Limit:  limit,
		Filter: make(map[string]interface{}),
	}, (page - 1) * limit
}

type GeneratedFile struct {
	Type     string `json:"filetype"`
	DataType string `json:"datatype"`
	Data     []byte `json:"data"`
}

var (
	ErrNotFound           = errors.New("NOT_FOUND")
	ErrUnauthorized       = errors.New("UNAUTHORIZED")
	ErrForbidden          = errors.New("FORBIDDEN")
	ErrConflict           = errors.New("CONFLICT")
	ErrUserBlocked        = errors.New("USER_BLOCKED")
	ErrWithdrawalsBlocked = errors.New("WITHDRAWALS_BLOCKED")
	ErrInvalidTransition  = errors.New("INVALID_STATUS_TRANSITION")
)

// ValidationError is returned for malformed, missing or out of range input.
// The message is safe to show to the caller.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError godoc
func NewValidationError(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err or any error it wraps is a ValidationError
func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}
