package projectfile

import (
	"strconv"
	"strings"
)

// ValidationError captures a single field-level problem in a project file.
type ValidationError struct {
	Slide   int // 1-based slide number, 0 when project-level
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	parts := []string{}
	if e.Slide > 0 {
		parts = append(parts, "slide "+strconv.Itoa(e.Slide))
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, " ")
}

// ValidationErrors aggregates multiple validation issues.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	if len(errs) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(errs))
	for i, err := range errs {
		messages[i] = err.Error()
	}
	return strings.Join(messages, "; ")
}

// Issues returns a copy of the underlying validation errors.
func (errs ValidationErrors) Issues() []ValidationError {
	return append([]ValidationError(nil), errs...)
}
