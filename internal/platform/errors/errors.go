package apperrors

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrResumePending = errors.New("unresolved sessions must be resumed or discarded first")
)
