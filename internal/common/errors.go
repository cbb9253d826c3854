package common

import (
	"errors"
	"fmt"
)

// FetchError is returned when a read against the store fails and the caller
// should keep serving its last known-good view model.
type FetchError struct {
	Op  string
	Err error
}

func NewFetchError(op string, err error) *FetchError {
	return &FetchError{Op: op, Err: err}
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// MutationError is returned when a write is rejected. An optimistic local
// change tied to the write must be rolled back by the caller.
type MutationError struct {
	Op  string
	ID  string
	Err error
}

func NewMutationError(op, id string, err error) *MutationError {
	return &MutationError{Op: op, ID: id, Err: err}
}

func (e *MutationError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("mutation %s (%s): %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("mutation %s: %v", e.Op, e.Err)
}

func (e *MutationError) Unwrap() error {
	return e.Err
}

// SubscriptionError is returned when a change channel could not be opened.
// It is never user-visible; the poller alone keeps the view model correct.
type SubscriptionError struct {
	Channel string
	Err     error
}

func NewSubscriptionError(channel string, err error) *SubscriptionError {
	return &SubscriptionError{Channel: channel, Err: err}
}

func (e *SubscriptionError) Error() string {
	return fmt.Sprintf("subscription %s: %v", e.Channel, e.Err)
}

func (e *SubscriptionError) Unwrap() error {
	return e.Err
}

func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

func IsMutationError(err error) bool {
	var me *MutationError
	return errors.As(err, &me)
}

func IsSubscriptionError(err error) bool {
	var se *SubscriptionError
	return errors.As(err, &se)
}
