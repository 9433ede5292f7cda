package quote

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingResource indicates the template or input file does not exist.
	ErrMissingResource = errors.New("missing resource")
	// ErrSchema indicates the template does not have the expected structure.
	ErrSchema = errors.New("template schema mismatch")
)

// MissingResourceError reports a required file that could not be found.
type MissingResourceError struct {
	Kind string // "template", "input data"
	Path string
	Err  error
}

func (e *MissingResourceError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Path)
}

func (e *MissingResourceError) Is(target error) bool {
	return target == ErrMissingResource
}

func (e *MissingResourceError) Unwrap() error {
	return e.Err
}

// SchemaError reports a template that lacks something the generator needs.
type SchemaError struct {
	Template string
	Missing  string
	Options  []string
	Err      error
}

func (e *SchemaError) Error() string {
	msg := fmt.Sprintf("template %s: %s", e.Template, e.Missing)
	if len(e.Options) > 0 {
		msg += fmt.Sprintf(" (available: %s)", strings.Join(e.Options, ", "))
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}
