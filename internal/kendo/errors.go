package kendo

import "errors"

var (
	// ErrConfirmationRequired is returned by destructive commands that were not
	// confirmed by the operator. The caller should ask and retry with confirmation.
	ErrConfirmationRequired = errors.New("confirmation required")
	// ErrInvalidRecord is wrapped by every Validate method.
	ErrInvalidRecord = errors.New("invalid record")
)
