package generator

import (
	"errors"
	"fmt"
)

var errNullBody = errors.New("response body is null")

// StatusError is returned when the endpoint answers with a non-2xx status.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return "Erro na geração da imagem"
}

// Detail is the log-friendly form of the error.
func (e *StatusError) Detail() string {
	return fmt.Sprintf("generation endpoint returned status %d", e.StatusCode)
}

// TransportError wraps failures to reach the endpoint at all.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError wraps a 2xx response whose body is not the expected json.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Kind names the failure class for logs.
func Kind(err error) string {
	var statusErr *StatusError
	var transportErr *TransportError
	var decodeErr *DecodeError
	switch {
	case errors.As(err, &statusErr):
		return "status"
	case errors.As(err, &transportErr):
		return "transport"
	case errors.As(err, &decodeErr):
		return "decode"
	default:
		return "unknown"
	}
}
