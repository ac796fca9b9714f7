package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrRetrieval            = errors.New("failed to retrieve fragments")
	ErrCreation             = errors.New("failed to create a new fragment")
	ErrUpdate               = errors.New("failed to update fragment")
	ErrDeletion             = errors.New("failed to delete fragment")
	ErrUnsupportedExtension = errors.New("unsupported extension")
	ErrInvalidID            = errors.New("invalid fragment id")
	ErrResponseTooLarge     = errors.New("response too large")

	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrUnavailable  = errors.New("server unavailable")
)

// ServiceError is the error object of the fragments service:
//
//	{"status": "error", "error": {"code": 404, "message": "fragment not found"}}
type ServiceError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Status string        `json:"status"`
	Error  *ServiceError `json:"error"`
}

// ResponseError is returned for every non-2xx response.
type ResponseError struct {
	Op         string
	StatusCode int

	// Payload is the service's error object; nil if the body was not one.
	Payload *ServiceError

	kind error
}

func newResponseError(op string, kind error, statusCode int, body []byte) *ResponseError {
	e := &ResponseError{Op: op, StatusCode: statusCode, kind: kind}

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error != nil {
		e.Payload = env.Error
	}
	return e
}

func (e *ResponseError) Error() string {
	msg := http.StatusText(e.StatusCode)
	if e.Payload != nil && e.Payload.Message != "" {
		msg = e.Payload.Message
	}
	return fmt.Sprintf("%s: %s (HTTP %d)", e.kind, strings.ToLower(msg), e.StatusCode)
}

// Unwrap exposes the operation sentinel plus a status-derived one.
func (e *ResponseError) Unwrap() []error {
	errs := []error{e.kind}
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		errs = append(errs, ErrUnauthorized)
	case http.StatusNotFound:
		errs = append(errs, ErrNotFound)
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		errs = append(errs, ErrUnavailable)
	}
	return errs
}

// mapTransportError classifies errors from http.Client.Do. Context errors are
// kept matchable alongside ErrUnavailable.
func mapTransportError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}
