package repl

import "errors"

var (
	ErrOutOfBounds  = errors.New("index out of range")
	ErrEditDeclined = errors.New("edit declined")
	ErrNoRows       = errors.New("no dataset rows")
	ErrUsage        = errors.New("usage")
)
