package errors

import (
	"context"
	"errors"
	"net/http"
)

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

func (e *ErrorWithStatusCode) HTTPStatus() int {
	return e.StatusCode
}

// StatusCoder is implemented by errors that know which HTTP status they map to.
type StatusCoder interface {
	HTTPStatus() int
}

// StatusCode picks the HTTP status for err. The outermost StatusCoder in the
// chain wins; unknown errors are 500.
func StatusCode(err error) int {
	var coder StatusCoder
	if errors.As(err, &coder) {
		return coder.HTTPStatus()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}
