// Package tunnelerr defines the failure taxonomy shared by the resolver,
// the link layer and the session controller.
package tunnelerr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
)

// Kind classifies a tunnel failure.
type Kind string

const (
	DNSFailure            Kind = "dnsFailure"
	ExhaustedEndpoints    Kind = "exhaustedEndpoints"
	LinkActivityTimeout   Kind = "linkActivityTimeout"
	NegotiationTimeout    Kind = "negotiationTimeout"
	AuthenticationFailure Kind = "authenticationFailure"
	ServerShutdown        Kind = "serverShutdown"
	RoutingUnattainable   Kind = "routingUnattainable"
	EngineInternal        Kind = "engineInternal"
	LinkFailure           Kind = "linkFailure"
	NetworkChanged        Kind = "networkChanged"
)

// IsTerminal reports whether the controller must give up instead of
// retrying.
func (k Kind) IsTerminal() bool {
	switch k {
	case AuthenticationFailure, ServerShutdown, RoutingUnattainable, ExhaustedEndpoints, EngineInternal:
		return true
	}
	return false
}

// IsEndpointSpecific reports whether the failure says something about the
// endpoint in use, so the next attempt should try another one.
func (k Kind) IsEndpointSpecific() bool {
	switch k {
	case DNSFailure, LinkActivityTimeout, NegotiationTimeout, LinkFailure:
		return true
	}
	return false
}

// Error carries a Kind and the underlying cause.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrDNSFailure)
// holds for every wrapped DNS failure.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Kind == e.Kind && t.Err == nil
	}
	return false
}

// New wraps err with the given kind.
func New(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// Sentinels for errors.Is comparisons.
var (
	ErrDNSFailure            = &Error{Kind: DNSFailure}
	ErrExhaustedEndpoints    = &Error{Kind: ExhaustedEndpoints}
	ErrLinkActivityTimeout   = &Error{Kind: LinkActivityTimeout}
	ErrNegotiationTimeout    = &Error{Kind: NegotiationTimeout}
	ErrAuthenticationFailure = &Error{Kind: AuthenticationFailure}
	ErrServerShutdown        = &Error{Kind: ServerShutdown}
	ErrRoutingUnattainable   = &Error{Kind: RoutingUnattainable}
	ErrEngineInternal        = &Error{Kind: EngineInternal}
	ErrLinkFailure           = &Error{Kind: LinkFailure}
	ErrNetworkChanged        = &Error{Kind: NetworkChanged}
)

// Classify maps any error to the nearest Kind. Socket level errors are
// LinkFailure; anything else falls back to EngineInternal.
func Classify(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NegotiationTimeout
	}
	if isNetworkError(err) {
		return LinkFailure
	}
	return EngineInternal
}

func isNetworkError(err error) bool {
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, net.ErrClosed):
		return true
	case errors.Is(err, syscall.ECONNRESET), errors.Is(err, syscall.ECONNREFUSED), errors.Is(err, syscall.ECONNABORTED):
		return true
	case errors.Is(err, syscall.EPIPE), errors.Is(err, syscall.ENETUNREACH), errors.Is(err, syscall.EHOSTUNREACH):
		return true
	}
	var ne net.Error
	return errors.As(err, &ne)
}
