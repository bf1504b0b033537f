package metrics

import "fmt"

// InvalidInputError reports raw statement input that is not an array of
// objects. Degenerate records (missing dates, zero, negative or missing
// amounts) are never reported this way; they surface as null fields in the
// derived view.
type InvalidInputError struct {
	Index  int // offending element, -1 when the input as a whole is invalid
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid income statement input: %s", e.Reason)
	}
	return fmt.Sprintf("invalid income statement input at index %d: %s", e.Index, e.Reason)
}
