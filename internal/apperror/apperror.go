// Package apperror defines the failure kinds shared by the resolver, the weather
// source and everything that reports their errors to callers.
package apperror

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Kind classifies a failure so callers can react without parsing messages.
type Kind string

const (
	KindUnknown    Kind = "unknown"
	KindValidation Kind = "validation"
	KindConfig     Kind = "config"
	KindNotFound   Kind = "not_found"
	KindTransport  Kind = "transport"
	KindAggregate  Kind = "aggregate"
)

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrConfig     = &Error{Kind: KindConfig}
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrTransport  = &Error{Kind: KindTransport}
)

// Error is a classified failure. StatusCode and Body are only set for
// transport failures that got as far as an HTTP response.
type Error struct {
	Kind       Kind
	Op         string
	Message    string
	StatusCode int
	Body       string
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(string(e.Kind))
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.Body != "" {
		b.WriteString(" body: ")
		b.WriteString(e.Body)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Op != "" || t.Message != "" || t.Err != nil {
		return false
	}
	return t.Kind == e.Kind
}

func Validation(op, msg string) error {
	return &Error{Kind: KindValidation, Op: op, Message: msg}
}

func Config(op, msg string) error {
	return &Error{Kind: KindConfig, Op: op, Message: msg}
}

func NotFound(op, msg string) error {
	return &Error{Kind: KindNotFound, Op: op, Message: msg}
}

// Transport wraps a network failure (status 0) or a non-success response.
func Transport(op string, status int, body string, err error) error {
	msg := "request failed"
	if status != 0 {
		msg = "unexpected response"
	}
	return &Error{Kind: KindTransport, Op: op, Message: msg, StatusCode: status, Body: body, Err: err}
}

// Malformed reports a response that arrived but could not be decoded.
func Malformed(op string, err error) error {
	return &Error{Kind: KindTransport, Op: op, Message: "malformed response", Err: errors.WithStack(err)}
}

// Cause is the failure of one stage of a multi-step lookup.
type Cause struct {
	Stage string
	Err   error
}

// AggregateError is returned when every attempted strategy of a lookup failed.
type AggregateError struct {
	Op     string
	Causes []Cause
}

func (e *AggregateError) Error() string {
	parts := make([]string, 0, len(e.Causes))
	for _, c := range e.Causes {
		parts = append(parts, c.Stage+": "+c.Err.Error())
	}
	return fmt.Sprintf("%s: all attempts failed; %s", e.Op, strings.Join(parts, "; "))
}

func (e *AggregateError) Unwrap() []error {
	errs := make([]error, 0, len(e.Causes))
	for _, c := range e.Causes {
		errs = append(errs, c.Err)
	}
	return errs
}

// Stage returns the stage whose cause is err's first classified failure,
// or "" when err is not an aggregate.
func Stage(err error) string {
	var agg *AggregateError
	if !errors.As(err, &agg) || len(agg.Causes) == 0 {
		return ""
	}
	return agg.Causes[0].Stage
}

// KindOf returns the kind of the first classified error in err's chain.
// Aggregates report the kind of their root cause.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var agg *AggregateError
	if errors.As(err, &agg) {
		return KindAggregate
	}
	return KindUnknown
}

func IsNotFound(err error) bool  { return errors.Is(err, ErrNotFound) }
func IsTransport(err error) bool { return errors.Is(err, ErrTransport) }
