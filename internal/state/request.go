// Package state models the lifecycle of an asynchronous read.
package state

// Kind identifies the active variant of a RequestState.
type Kind int

const (
	Idle Kind = iota
	Loading
	Success
	Error
)

func (k Kind) String() string {
	switch k {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	}
	return "unknown"
}

// RequestState is a sum over Idle, Loading, Success(data) and Error(message).
// The zero value is Idle. Exactly one variant is active; data is only
// meaningful for Success and message only for Error.
type RequestState[T any] struct {
	kind    Kind
	data    T
	message string
}

func NewIdle[T any]() RequestState[T]    { return RequestState[T]{kind: Idle} }
func NewLoading[T any]() RequestState[T] { return RequestState[T]{kind: Loading} }

func NewSuccess[T any](data T) RequestState[T] {
	return RequestState[T]{kind: Success, data: data}
}

func NewError[T any](message string) RequestState[T] {
	return RequestState[T]{kind: Error, message: message}
}

func (s RequestState[T]) Kind() Kind      { return s.kind }
func (s RequestState[T]) IsIdle() bool    { return s.kind == Idle }
func (s RequestState[T]) IsLoading() bool { return s.kind == Loading }
func (s RequestState[T]) IsSuccess() bool { return s.kind == Success }
func (s RequestState[T]) IsError() bool   { return s.kind == Error }

// Data returns the Success payload, or the zero T for any other variant.
func (s RequestState[T]) Data() T {
	if s.kind != Success {
		var zero T
		return zero
	}
	return s.data
}

// Message returns the Error message, or "" for any other variant.
func (s RequestState[T]) Message() string {
	if s.kind != Error {
		return ""
	}
	return s.message
}

// Display calls the callback matching the active variant and returns its
// result. Idle renders through onLoading. Nil callbacks render as "".
func Display[T any](s RequestState[T], onLoading func() string, onError func(string) string, onSuccess func(T) string) string {
	switch s.kind {
	case Idle, Loading:
		if onLoading != nil {
			return onLoading()
		}
	case Error:
		if onError != nil {
			return onError(s.message)
		}
	case Success:
		if onSuccess != nil {
			return onSuccess(s.data)
		}
	}
	return ""
}
