package schema

import (
	"errors"
	"fmt"
)

// ErrAlreadyExists is returned by a Catalog when the server refused a create
// because the collection or index appeared concurrently. Provisioning treats
// it as success.
var ErrAlreadyExists = errors.New("already exists")

// ConnectionError means the database could not be reached, or refused the
// credentials it was given.
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("database connection failed during %s: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// SchemaConflictError means a collection or index exists with a definition
// incompatible with the target layout. Conflicts are reported, never repaired.
type SchemaConflictError struct {
	Collection string
	Index      string
	Reason     string
	Err        error
}

func (e *SchemaConflictError) Error() string {
	msg := fmt.Sprintf("schema conflict on %s", e.Collection)
	if e.Index != "" {
		msg += fmt.Sprintf(" index %s", e.Index)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += fmt.Sprintf(" (%v)", e.Err)
	}
	return msg
}

func (e *SchemaConflictError) Unwrap() error { return e.Err }

// IsConnectionError reports whether err is, or wraps, a *ConnectionError.
func IsConnectionError(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}

// IsConflict reports whether err is, or wraps, a *SchemaConflictError.
func IsConflict(err error) bool {
	var se *SchemaConflictError
	return errors.As(err, &se)
}
