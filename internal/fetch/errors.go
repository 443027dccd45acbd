package fetch

import (
	"errors"
	"fmt"
)

// Fetch failures fall into two kinds: navigation errors, which are fatal and
// surface to the caller, and field-extraction misses, which never leave the
// extractor. Only the former live here.
var (
	ErrBrowserNotFound = errors.New("chrome browser not found")
	ErrNavigation      = errors.New("navigation failed")
	ErrTimeout         = errors.New("request timeout")
	ErrInvalidURL      = errors.New("invalid URL")
)

// NavigationError wraps a failed page load with its URL.
type NavigationError struct {
	URL        string
	Underlying error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigation failed for %s: %v", e.URL, e.Underlying)
}

func (e *NavigationError) Unwrap() error {
	return e.Underlying
}

func (e *NavigationError) Is(target error) bool {
	return target == ErrNavigation || errors.Is(e.Underlying, target)
}

// NewNavigationError creates a NavigationError for the given URL.
func NewNavigationError(url string, err error) *NavigationError {
	return &NavigationError{URL: url, Underlying: err}
}
