package valhalla

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Predefined errors for Valhalla operations.
var (
	// ErrInvalidManifest is matched by every manifest validation error.
	ErrInvalidManifest = errors.New("invalid manifest")

	// ErrDecode is matched by every response decoding error.
	ErrDecode = errors.New("malformed response")

	// ErrMissingField indicates a required response field is absent.
	ErrMissingField = errors.New("missing required field")

	// ErrTransport is matched by network failures and non-success statuses.
	ErrTransport = errors.New("transport failure")

	// ErrRemote is matched when the engine rejects a request with a structured error body.
	ErrRemote = errors.New("request rejected by routing engine")
)

// ValidationError describes one violated manifest invariant.
// Builders join all violations found in a single Build call with errors.Join.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is reports whether the target is ErrInvalidManifest.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidManifest
}

// ValidationErrors flattens a joined build error into its individual violations.
func ValidationErrors(err error) []*ValidationError {
	if err == nil {
		return nil
	}
	var single *ValidationError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []*ValidationError
		for _, e := range joined.Unwrap() {
			out = append(out, ValidationErrors(e)...)
		}
		return out
	}
	if errors.As(err, &single) {
		return []*ValidationError{single}
	}
	return nil
}

// DecodeError reports a response that could not be decoded, annotated with the
// JSON path of the offending field (for example "trip.legs[1].shape").
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("decoding response: %v", e.Err)
	}
	return fmt.Sprintf("decoding %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is reports whether the target is ErrDecode.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// MissingField returns a DecodeError for an absent required field.
func MissingField(path string) *DecodeError {
	return &DecodeError{Path: path, Err: ErrMissingField}
}

// SyntaxError wraps a json.Unmarshal failure, taking the path from type errors when the
// decoder reports one.
func SyntaxError(err error) *DecodeError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &DecodeError{Path: typeErr.Field, Err: err}
	}
	return &DecodeError{Err: err}
}

// TransportError wraps a failure of the transport adapter with the surface it served.
type TransportError struct {
	Surface    Surface
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("valhalla %s: status %d %s: %v", e.Surface, e.StatusCode, http.StatusText(e.StatusCode), e.Err)
	}
	return fmt.Sprintf("valhalla %s: %v", e.Surface, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is reports whether the target is ErrTransport.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// RemoteError is the structured error body the engine returns with 4xx statuses.
type RemoteError struct {
	Surface    Surface `json:"-"`
	ErrorCode  int     `json:"error_code"`
	Message    string  `json:"error"`
	StatusCode int     `json:"status_code"`
	Status     string  `json:"status"`
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("valhalla %s: error %d (%d %s): %s", e.Surface, e.ErrorCode, e.StatusCode, e.Status, e.Message)
}

// Is reports whether the target is ErrRemote.
func (e *RemoteError) Is(target error) bool {
	return target == ErrRemote
}
