package usecase

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates per-field failures so a bad submission is
// reported in one response.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	parts := make([]string, len(e))
	for i, v := range e {
		parts[i] = v.Error()
	}
	return strings.Join(parts, "; ")
}

// ErrCVUnavailable indicates the CV file could not be read; the one failure
// the CV-request flow reports synchronously, since the attachment is the
// entire point of that flow.
type ErrCVUnavailable struct {
	Path string
	Err  error
}

func (e *ErrCVUnavailable) Error() string {
	return fmt.Sprintf("cv file unavailable at %s: %v", e.Path, e.Err)
}

func (e *ErrCVUnavailable) Unwrap() error {
	return e.Err
}
