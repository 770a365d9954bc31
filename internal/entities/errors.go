package entities

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinels for the checkout flow. All of them are recovered at the handler
// boundary and turned into a response the caller can act on.
var (
	ErrEmptyCart           = errors.New("cart is empty, nothing to checkout")
	ErrAuthRequired        = errors.New("authentication required")
	ErrOrderPersistence    = errors.New("failed to persist order handle")
	ErrNoResumableOrder    = errors.New("no resumable order")
	ErrOperationInProgress = errors.New("operation already in progress")
	ErrTransientService    = errors.New("transient service error")
	ErrInvalidTransition   = errors.New("illegal checkout state transition")
)

// ValidationError carries per-field violations. It is user-correctable and
// never fatal: the caller fixes the fields and resubmits.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid input"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "invalid input: " + strings.Join(parts, ", ")
}
