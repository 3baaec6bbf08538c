package config

import (
	"errors"
	"fmt"

	"github.com/aretw0/midiroute/pkg/domain"
)

// FieldError is a single validation failure located by its dotted path.
type FieldError struct {
	Path   string // e.g. "mappings.2.from_port.identifier"
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

func (e *FieldError) Unwrap() error {
	return domain.ErrInvalidConfig
}

// FieldErrors returns every FieldError carried by err.
func FieldErrors(err error) []*FieldError {
	var out []*FieldError
	var walk func(error)
	walk = func(e error) {
		if e == nil {
			return
		}
		if fe, ok := e.(*FieldError); ok {
			out = append(out, fe)
			return
		}
		if joined, ok := e.(interface{ Unwrap() []error }); ok {
			for _, inner := range joined.Unwrap() {
				walk(inner)
			}
			return
		}
		walk(errors.Unwrap(e))
	}
	walk(err)
	return out
}
