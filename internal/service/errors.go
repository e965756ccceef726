package service

import "errors"

// ErrorKind classifies a failed room query.
type ErrorKind int

const (
	// KindStoreUnavailable means the store could not be reached or the query
	// failed to execute.
	KindStoreUnavailable ErrorKind = iota + 1
	// KindNotFound means the query ran but matched no room.
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindStoreUnavailable:
		return "store_unavailable"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is against an *Error of the matching kind.
var (
	ErrNotFound         = errors.New("not found")
	ErrStoreUnavailable = errors.New("store unavailable")
)

const (
	msgListFailed = "Failed to fetch rooms"
	msgGetFailed  = "Failed to fetch room"
	msgNotFound   = "Room not found"
)

// Error is the only error type RoomService returns. Message is safe to show
// to users; Err keeps the underlying cause for logs.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrStoreUnavailable:
		return e.Kind == KindStoreUnavailable
	}
	return false
}

// KindOf returns the kind of err if it is an *Error, and KindStoreUnavailable
// for anything else.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStoreUnavailable
}
