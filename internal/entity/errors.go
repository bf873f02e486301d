package entity

import "errors"

var (
	// ErrNotFound indicates the requested lead does not exist.
	ErrNotFound = errors.New("lead not found")
	// ErrUnauthorized indicates a missing, malformed, expired or unknown credential.
	// The message carries no hint about which of those it was.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden indicates a valid credential lacking the required role.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidStatus indicates a status outside the enumerated set.
	ErrInvalidStatus = errors.New("invalid status value")
	// ErrInvalidPriority indicates a priority outside the enumerated set.
	ErrInvalidPriority = errors.New("invalid priority value")
	// ErrScoreOutOfRange indicates a quality score outside [0.0, 1.0].
	ErrScoreOutOfRange = errors.New("quality score must be between 0.0 and 1.0")
)
