package domain

import (
	"errors"
	"fmt"
)

type TransportKind string

const (
	TransportTimeout TransportKind = "timeout"
	TransportStatus  TransportKind = "http_status"
	TransportNetwork TransportKind = "network"
)

// TransportError is any failure to obtain a page from the reviews feed:
// a timeout, a connection-level fault, or a terminal HTTP status.
type TransportError struct {
	Kind   TransportKind
	Status int // set for TransportStatus only
	Err    error
}

func (e *TransportError) Error() string {
	switch e.Kind {
	case TransportStatus:
		return fmt.Sprintf("feed: unexpected status %d", e.Status)
	case TransportTimeout:
		return fmt.Sprintf("feed: timeout: %v", e.Err)
	default:
		return fmt.Sprintf("feed: %v", e.Err)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// PageShapeError means a page payload could not be interpreted at all.
// Individual malformed entries inside a well-shaped page never raise it.
type PageShapeError struct {
	Reason string
}

func (e *PageShapeError) Error() string { return "page shape: " + e.Reason }

// ConfigError covers bad run inputs: unparsable room URLs, invalid
// limits, unknown output formats.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return "config: " + e.Reason }

type ErrKind string

const (
	ErrKindTransport ErrKind = "transport"
	ErrKindPageShape ErrKind = "page_shape"
	ErrKindConfig    ErrKind = "config"
)

// RoomError is the exported failure marker on a RoomResult.
type RoomError struct {
	Kind    ErrKind `json:"kind"`
	Message string  `json:"message"`
}

// NewRoomError classifies err into a RoomError. Anything that is not a
// shape or config failure counts as transport, including cancellation.
func NewRoomError(err error) *RoomError {
	if err == nil {
		return nil
	}
	kind := ErrKindTransport
	var shapeErr *PageShapeError
	var cfgErr *ConfigError
	switch {
	case errors.As(err, &shapeErr):
		kind = ErrKindPageShape
	case errors.As(err, &cfgErr):
		kind = ErrKindConfig
	}
	return &RoomError{Kind: kind, Message: err.Error()}
}
