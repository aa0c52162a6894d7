package ai

import (
	"errors"
	"fmt"

	"github.com/nhle/taskpane/internal/model"
)

// RequestError is the single failure type returned by Client. It covers
// transport errors, non-2xx statuses and undecodable bodies alike.
type RequestError struct {
	Op         model.OperationKind
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s request failed (%d): %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s request failed: %v", e.Op, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// IsRequestError reports whether err (or any error in its chain) is a
// RequestError.
func IsRequestError(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr)
}
