package common

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	ErrRecordNotFound         = errors.New("record not found")
	ErrAuthenticationRequired = errors.New("authentication required")
)

// AuthorizationError is returned when an authenticated user attempts an action
// on a resource they do not own.
type AuthorizationError struct {
	Action   string
	Resource string
}

func (e AuthorizationError) Error() string {
	return fmt.Sprintf("not allowed to %s %s", e.Action, e.Resource)
}

// ForeignKeyError reports whether err is a postgres foreign key violation on the named constraint.
func ForeignKeyError(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23503" && pqErr.Constraint == name {
			return true
		}
	}

	return false
}

// UniqueViolation reports whether err is a postgres unique violation on the named constraint.
func UniqueViolation(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23505" && pqErr.Constraint == name {
			return true
		}
	}

	return false
}

// InvalidTextRepresentation reports whether postgres rejected a value for its column type,
// e.g. a malformed uuid.
func InvalidTextRepresentation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "22P02"
}
