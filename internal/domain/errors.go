package domain

import (
	"errors"
	"fmt"
)

// Outcome classes. Every error returned by a service wraps exactly one of these.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
	ErrDependency   = errors.New("dependency failure")
	ErrDecryption   = errors.New("decryption failure")
)

var (
	ErrMissingFields       = fmt.Errorf("%w: missing required fields", ErrBadRequest)
	ErrMessageTooLong      = fmt.Errorf("%w: message too long for recipient key", ErrBadRequest)
	ErrSelfContact         = fmt.Errorf("%w: cannot add yourself as a contact", ErrBadRequest)
	ErrUserNotFound        = fmt.Errorf("%w: user", ErrNotFound)
	ErrConversationMissing = fmt.Errorf("%w: conversation", ErrNotFound)
	ErrContactNotFound     = fmt.Errorf("%w: contact", ErrNotFound)
	ErrRecipientKeyMissing = fmt.Errorf("%w: recipient key", ErrNotFound)
	ErrInvalidCredentials  = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	ErrNoPendingChallenge  = fmt.Errorf("%w: no pending challenge", ErrUnauthorized)
	ErrInvalidCode         = fmt.Errorf("%w: invalid code", ErrUnauthorized)
	ErrChallengeExpired    = fmt.Errorf("%w: challenge expired", ErrUnauthorized)
	ErrTooManyAttempts     = fmt.Errorf("%w: too many attempts", ErrUnauthorized)
	ErrEmailTaken          = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrAlreadyContact      = fmt.Errorf("%w: already a contact", ErrConflict)
	ErrNotifierFailed      = fmt.Errorf("%w: notifier", ErrDependency)
)
