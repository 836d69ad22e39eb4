package api

import (
	"fmt"
)

type FetchError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
	Err        error
}

func (e *FetchError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %s: %v", e.Method, e.Path, ErrFetchFailed, e.Err)
	case e.Body != "":
		return fmt.Sprintf("%s %s: %s: status %d: %s", e.Method, e.Path, ErrFetchFailed, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s %s: %s: status %d", e.Method, e.Path, ErrFetchFailed, e.StatusCode)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func (e *FetchError) Is(target error) bool {
	return target == ErrFetchFailed
}
