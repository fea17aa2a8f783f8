package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrAlreadyCheckedIn = errors.New("you are already checked in, check out first")
	ErrNotCheckedIn     = errors.New("you are not checked in")
	ErrFeedbackRequired = errors.New("please submit feedback before checking out")
	ErrOutsideGeofence  = errors.New("you are too far from your assigned branch to check in")
	ErrSessionClosed    = errors.New("attendance session closed, please retry")
)

// StoreError: backend menolak atau tidak bisa dihubungi. Operasi dianggap gagal.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("could not %s, please retry: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func storeErr(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

// ValidationError membawa error per field (nama json).
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, strings.Join(e.Fields[k], ", "))
	}
	return strings.Join(parts, "; ")
}
