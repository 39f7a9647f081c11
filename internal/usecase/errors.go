package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrAlreadyExists         = errors.New("resource already exists")
	ErrMatchNotFound         = errors.New("match not found")
	ErrProviderTimeout       = errors.New("provider timeout")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
