package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated      = errors.New("sign in required")
	ErrInvalidQuantity      = errors.New("quantity must be at least 1")
	ErrQuantityExceedsStock = errors.New("quantity exceeds available stock")
	ErrNotFound             = errors.New("not found")
	ErrEmptyCart            = errors.New("cart is empty")

	ErrRemoteRead  = errors.New("remote read failed")
	ErrRemoteWrite = errors.New("remote write failed")
)

type RemoteKind int

const (
	RemoteRead RemoteKind = iota
	RemoteWrite
)

// RemoteError is a failed store call. It matches ErrRemoteRead or
// ErrRemoteWrite under errors.Is depending on Kind.
type RemoteError struct {
	Op   string
	Kind RemoteKind
	Err  error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

func (e *RemoteError) Is(target error) bool {
	switch target {
	case ErrRemoteRead:
		return e.Kind == RemoteRead
	case ErrRemoteWrite:
		return e.Kind == RemoteWrite
	}
	return false
}

func ReadFailure(op string, err error) error {
	return &RemoteError{Op: op, Kind: RemoteRead, Err: err}
}

func WriteFailure(op string, err error) error {
	return &RemoteError{Op: op, Kind: RemoteWrite, Err: err}
}
