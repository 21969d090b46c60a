package errors

import stderrors "errors"

// Is and As forward to the standard library so callers only need one errors import.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// New forwards to the standard library errors.New.
func New(text string) error {
	return stderrors.New(text)
}
