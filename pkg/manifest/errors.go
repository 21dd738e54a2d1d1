package manifest

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIdentifierExhausted is returned when the allocator cannot find a
// free identifier after the bounded number of draws. In practice this
// only happens when the entropy source is broken or stubbed.
var ErrIdentifierExhausted = errors.New("identifier space exhausted")

// AnchorError reports a structural landmark that could not be located
// (or was found more than once). No write is ever attempted after an
// AnchorError.
type AnchorError struct {
	Anchor string
	Reason string
}

func (e *AnchorError) Error() string {
	return fmt.Sprintf("anchor %q: %s", e.Anchor, e.Reason)
}

// ValidationError reports post-patch sentinel or accounting checks
// that failed. The caller must discard the candidate document.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("manifest validation failed: %s", strings.Join(e.Problems, "; "))
}
