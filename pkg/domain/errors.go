package domain

import "fmt"

// ValidationError reports a missing or invalid field on a record, or a
// decision that violates a numeric or workflow constraint. It is locally
// recoverable: callers surface the message and re-prompt.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NotFoundError reports an identifier that does not resolve to any record.
type NotFoundError struct {
	Entity EntityType
	ID     string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ReferentialError reports a claim referencing a non-existent owner. The
// store does not support orphaned claims.
type ReferentialError struct {
	Entity  EntityType
	ID      string
	RefID   string
	RefType EntityType
}

func (e ReferentialError) Error() string {
	return fmt.Sprintf("%s %s references unknown %s %s", e.Entity, e.ID, e.RefType, e.RefID)
}
