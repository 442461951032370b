package bgpsim

import "fmt"

// assertionError indicates a violated engine invariant: monotonic
// preference, valley-freeness, uniform length, or the work-queue enqueue
// invariant. Per spec, these indicate an implementation bug in the engine
// itself (never a caller error) and are fatal — they are returned as
// errors rather than panicked so that InferPaths always returns in the
// same error-handling shape, but a caller seeing one should treat the
// Graph or the calling code, not the input, as suspect.
type assertionError struct {
	msg string
}

func (e *assertionError) Error() string {
	return fmt.Sprintf("bgpsim: internal invariant violated: %s", e.msg)
}

func newAssertionErrorf(format string, args ...interface{}) *assertionError {
	return &assertionError{msg: fmt.Sprintf(format, args...)}
}
