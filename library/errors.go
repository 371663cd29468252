package library

import (
	"errors"
	"fmt"
)

// Sentinel errors. The typed errors below match them through errors.Is.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyLent   = errors.New("already lent")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidInput  = errors.New("invalid input")
)

// ComicNotFoundError is returned when a lookup or lend target is absent.
type ComicNotFoundError struct {
	Field string // "id" or "title"
	Value string
}

func (e *ComicNotFoundError) Error() string {
	return fmt.Sprintf("comic with %s %q not found", e.Field, e.Value)
}

// Is implements errors.Is support
func (e *ComicNotFoundError) Is(target error) bool { return target == ErrNotFound }

// ComicAlreadyLentError is returned when lending a comic that is not available.
type ComicAlreadyLentError struct {
	Title      string
	AssignedTo string
}

func (e *ComicAlreadyLentError) Error() string {
	return fmt.Sprintf("comic %q is already lent", e.Title)
}

// Is implements errors.Is support
func (e *ComicAlreadyLentError) Is(target error) bool { return target == ErrAlreadyLent }

// DuplicateEmailError is returned when registering a user whose email is taken.
type DuplicateEmailError struct {
	Email string
}

func (e *DuplicateEmailError) Error() string {
	return fmt.Sprintf("a user with email %s is already registered", e.Email)
}

// Is implements errors.Is support
func (e *DuplicateEmailError) Is(target error) bool { return target == ErrAlreadyExists }

// UnknownPatronError is returned by the manager when an email does not belong
// to a registered user.
type UnknownPatronError struct {
	Email string
}

func (e *UnknownPatronError) Error() string {
	return fmt.Sprintf("email %s does not belong to a registered user", e.Email)
}

// Is implements errors.Is support
func (e *UnknownPatronError) Is(target error) bool { return target == ErrNotFound }

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsAlreadyLent reports whether err is an already-lent error.
func IsAlreadyLent(err error) bool { return errors.Is(err, ErrAlreadyLent) }

// IsAlreadyExists reports whether err is a duplicate error.
func IsAlreadyExists(err error) bool { return errors.Is(err, ErrAlreadyExists) }
