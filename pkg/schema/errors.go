package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError locates one structural problem in a document.
type ValidationError struct {
	Section string // "rules", "memo" or "mappings"
	Name    string // Offending rule or mapping, if any
	Reason  string
	Value   any // The value that failed validation
}

func (e *ValidationError) Error() string {
	where := e.Section
	if e.Name != "" {
		where += "." + e.Name
	}
	if e.Value == nil {
		return fmt.Sprintf("%s: %s", where, e.Reason)
	}
	return fmt.Sprintf("%s: %s (got %T)", where, e.Reason, e.Value)
}

// AggregateError collects every problem found in one document.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	lines := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		lines[i] = "  - " + err.Error()
	}
	return fmt.Sprintf("grammar has %d problems:\n%s", len(e.Errors), strings.Join(lines, "\n"))
}

func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// ValidationErrors returns the problems carried by err, wrapped or not.
// It returns nil when err holds no AggregateError.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}
