package batch

import (
	"fmt"
	"strings"
)

// Failure records why one identifier could not be processed.
type Failure struct {
	Identifier string
	Err        error
}

// BatchError aggregates the failures of a run.
type BatchError struct {
	Total    int
	Failures []Failure
}

func (e *BatchError) Error() string {
	msgs := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		msgs = append(msgs, fmt.Sprintf("%s: %v", f.Identifier, f.Err))
	}
	return fmt.Sprintf("batch: %d of %d identifiers failed: %s", len(e.Failures), e.Total, strings.Join(msgs, "; "))
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *BatchError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}
