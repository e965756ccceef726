package query

import (
	"errors"

	"github.com/vbonduro/roombook/internal/service"
)

// Status is the phase of a view's query.
type Status int

const (
	StatusLoading Status = iota
	StatusSuccess
	StatusFailure
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	default:
		return "unknown"
	}
}

const genericMessage = "Something went wrong"

// State is what a view renders: Loading until the query settles, then
// Success with Data or Failure with Err.
type State[T any] struct {
	Status Status
	Data   T
	Err    error
}

func Loading[T any]() State[T] {
	return State[T]{Status: StatusLoading}
}

func Succeeded[T any](data T) State[T] {
	return State[T]{Status: StatusSuccess, Data: data}
}

// Failed returns the Failure state for err. A nil err is still a failure.
func Failed[T any](err error) State[T] {
	if err == nil {
		err = errors.New(genericMessage)
	}
	return State[T]{Status: StatusFailure, Err: err}
}

// Retry discards the settled result and returns to Loading.
func (s State[T]) Retry() State[T] {
	return Loading[T]()
}

func (s State[T]) IsLoading() bool { return s.Status == StatusLoading }
func (s State[T]) IsSuccess() bool { return s.Status == StatusSuccess }
func (s State[T]) IsFailure() bool { return s.Status == StatusFailure }

// Message is the user-facing text for a failure; empty otherwise.
func (s State[T]) Message() string {
	if s.Status != StatusFailure {
		return ""
	}
	var svcErr *service.Error
	if errors.As(s.Err, &svcErr) && svcErr.Message != "" {
		return svcErr.Message
	}
	return genericMessage
}

// NotFound reports whether the failure means the requested record does not
// exist, as opposed to the store being unavailable.
func (s State[T]) NotFound() bool {
	return s.Status == StatusFailure && errors.Is(s.Err, service.ErrNotFound)
}
