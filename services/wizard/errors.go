package wizard

import "errors"

var (
	// ErrAuthRequired means an authenticated action ran without a usable
	// session; the user has to complete an earlier step first.
	ErrAuthRequired = errors.New("wizard: authentication required")

	// ErrValidation means the current step's constraints are not satisfied;
	// the per-field messages are on the controller's error map.
	ErrValidation = errors.New("wizard: validation failed")

	// ErrNotSubmittable means the preview gate (terms + privacy acceptance)
	// has not been passed.
	ErrNotSubmittable = errors.New("wizard: submission requirements not met")
)
