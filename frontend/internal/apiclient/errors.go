package apiclient

import (
	"fmt"
	"net/http"
)

// FetchErrorKind classifies an upstream failure.
type FetchErrorKind int

const (
	// KindNetwork: the API could not be reached.
	KindNetwork FetchErrorKind = iota
	// KindStatus: the API answered with a non-2xx status.
	KindStatus
	// KindDecode: the body is not a valid post record.
	KindDecode
)

func (k FetchErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

type FetchError struct {
	Kind       FetchErrorKind
	URL        string
	StatusCode int // set for KindStatus
	Err        error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("upstream %s returned status %d", e.URL, e.StatusCode)
	default:
		return fmt.Sprintf("upstream %s: %s error: %v", e.URL, e.Kind, e.Err)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps every upstream failure to Bad Gateway.
func (e *FetchError) HTTPStatus() int {
	return http.StatusBadGateway
}
