package apperr

import "errors"

var (
	ErrMalformedIdentifier = errors.New("malformed identifier")
	ErrNotDirectory        = errors.New("not a directory")
	ErrInvalidText         = errors.New("not valid UTF-8 text")
)
