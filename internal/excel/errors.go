package excel

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound indicates that a required anchor could not be located.
var ErrNotFound = errors.New("not found")

// NotFoundError describes what was searched for and where.
type NotFoundError struct {
	SheetName string
	Target    string
	Aliases   []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found in sheet %q (looked for: %s)",
		e.Target, e.SheetName, strings.Join(e.Aliases, ", "))
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}
