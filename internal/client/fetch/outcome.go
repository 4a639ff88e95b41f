package fetch

import "fmt"

// Reason classifies why a fetch failed.
type Reason int

const (
	ReasonUnknown Reason = iota
	ReasonTimeout
	ReasonTransport
	ReasonDecode
	ReasonServerError
)

func (r Reason) String() string {
	switch r {
	case ReasonTimeout:
		return "timeout"
	case ReasonTransport:
		return "transport"
	case ReasonDecode:
		return "decode"
	case ReasonServerError:
		return "server_error"
	default:
		return "unknown"
	}
}

// Failure describes a failed fetch. Status is set only for ReasonServerError.
type Failure struct {
	Reason  Reason
	Status  int
	Message string
	Err     error
}

func (f *Failure) Error() string {
	if f.Reason == ReasonServerError {
		return fmt.Sprintf("%s (%d): %s", f.Reason, f.Status, f.Message)
	}
	return fmt.Sprintf("%s: %s", f.Reason, f.Message)
}

func (f *Failure) Unwrap() error { return f.Err }

// Outcome is the result of a fetch: either a value or a Failure, never both.
type Outcome[T any] struct {
	value   T
	failure *Failure
}

func Ok[T any](v T) Outcome[T] {
	return Outcome[T]{value: v}
}

func Failed[T any](f *Failure) Outcome[T] {
	if f == nil {
		f = &Failure{Reason: ReasonUnknown, Message: "unknown failure"}
	}
	return Outcome[T]{failure: f}
}

func (o Outcome[T]) OK() bool { return o.failure == nil }

// Value returns the fetched value and true on success.
func (o Outcome[T]) Value() (T, bool) {
	return o.value, o.failure == nil
}

// Failure returns nil on success.
func (o Outcome[T]) Failure() *Failure { return o.failure }
