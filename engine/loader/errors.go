package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned for a model extension or image type no decoder handles.
	ErrUnsupportedFormat = errors.New("loader: unsupported format")

	// ErrFaceSize is returned when environment faces are not square or differ in size.
	ErrFaceSize = errors.New("loader: environment faces must be square and share one size")

	// ErrMalformedModel is returned when a model document decodes but describes an invalid scene.
	ErrMalformedModel = errors.New("loader: malformed model")
)

// LoadErrorKind classifies a failed load.
type LoadErrorKind int

const (
	// NetworkError means the resource could not be fetched: it is missing, the transport failed, or the server
	// answered with a non-success status.
	NetworkError LoadErrorKind = iota

	// DecodeError means the resource was fetched but its contents could not be turned into an asset.
	DecodeError
)

func (k LoadErrorKind) String() string {
	switch k {
	case NetworkError:
		return "network"
	case DecodeError:
		return "decode"
	default:
		return "unknown"
	}
}

// LoadError describes a failed asset load.
type LoadError struct {
	Kind LoadErrorKind
	URI  string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %s error: %v", e.URI, e.Kind, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// HTTPStatusError is returned by the HTTP asset store for a non-success response.
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("GET %s: status %d", e.URL, e.StatusCode)
}

func networkError(uri string, err error) *LoadError {
	return &LoadError{Kind: NetworkError, URI: uri, Err: err}
}

func decodeError(uri string, err error) *LoadError {
	return &LoadError{Kind: DecodeError, URI: uri, Err: err}
}
