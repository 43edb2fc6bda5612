package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks input the caller must fix; nothing was persisted
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned when a requested record does not exist
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when creating a record whose id is taken
	ErrAlreadyExists = errors.New("already exists")
	// ErrStaleSelection is returned when an analysis finished after the
	// official had already selected a different legislation
	ErrStaleSelection = errors.New("selection changed before analysis completed")
)

// ValidationError lists the fields that failed validation
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// missingFields returns the names whose values are blank
func missingFields(fields [][2]string) []string {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f[1]) == "" {
			missing = append(missing, f[0])
		}
	}
	return missing
}
