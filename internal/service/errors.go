package service

import "errors"

// Error kinds. Every failure a service returns on purpose wraps exactly one of
// these; anything else is an internal error.
var (
	ErrValidation         = errors.New("invalid request")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrGone               = errors.New("gone")
	ErrTooManyRequests    = errors.New("too many requests")
)

// Error is a classified failure with a message safe to show to clients.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

var (
	ErrNameRequired        = newError(ErrValidation, "name is required")
	ErrEmailRequired       = newError(ErrValidation, "email is required")
	ErrPasswordRequired    = newError(ErrValidation, "password is required")
	ErrNothingToUpdate     = newError(ErrValidation, "name or email is required")
	ErrCredentialRequired  = newError(ErrValidation, "credential is required")
	ErrTitleRequired       = newError(ErrValidation, "title is required")
	ErrDescriptionRequired = newError(ErrValidation, "description is required")
	ErrNoteIDRequired      = newError(ErrValidation, "note id is required")
	ErrSubjectIDRequired   = newError(ErrValidation, "subject id is required")
	ErrEntryIDRequired     = newError(ErrValidation, "id is required")
	ErrSlugRequired        = newError(ErrValidation, "slug is required")

	ErrInvalidIdentity = newError(ErrUnauthorized, "identity token could not be verified")

	ErrNotNoteOwner    = newError(ErrForbidden, "you do not own this note")
	ErrNotSubjectOwner = newError(ErrForbidden, "you do not own this subject")

	ErrUserNotFound       = newError(ErrNotFound, "user not found")
	ErrNoteNotFound       = newError(ErrNotFound, "note not found")
	ErrSubjectNotFound    = newError(ErrNotFound, "subject not found")
	ErrVaultEntryNotFound = newError(ErrNotFound, "password not found")
	ErrIdentityDisabled   = newError(ErrNotFound, "identity login is not enabled")

	ErrEmailTaken    = newError(ErrConflict, "email already exists")
	ErrSubjectExists = newError(ErrConflict, "subject with this title already exists")

	ErrShareGone = newError(ErrGone, "this link has expired or is no longer shared")

	ErrDailyNoteLimit = newError(ErrTooManyRequests, "daily note limit reached")
)
