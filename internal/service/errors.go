package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
)

type requiredField struct {
	name  string
	value *string
}

// trimRequired trims every field in place and reports the first one left empty.
func trimRequired(fields ...requiredField) error {
	for _, f := range fields {
		*f.value = strings.TrimSpace(*f.value)
	}
	for _, f := range fields {
		if *f.value == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidInput, f.name)
		}
	}
	return nil
}
