package app

import "errors"

var (
	// ErrRender is returned by SaveVisit when the PDF or a signature image could not be produced.
	// Nothing is persisted in that case.
	ErrRender = errors.New("failed to render report")

	// ErrVisitNotFound is returned when a visit ID does not exist.
	ErrVisitNotFound = errors.New("visit not found")

	// ErrInvalidInput is returned for blank names in directory operations.
	ErrInvalidInput = errors.New("invalid input")
)
