package tasks

import (
	"errors"

	"github.com/desertthunder/wdiw/internal/shared"
)

// User-facing messages shown by the landing view.
const (
	MsgProfileNotFound = "Profile not found. Please check the URL and try again."
	MsgGeneric         = "Something went wrong. Please try again."
	MsgSavedProfile    = "Error checking saved profile"
)

// UserMessage maps an error from this package to the message shown to the user.
//
// A nil error and cancellation map to the empty string. Everything unrecognized
// collapses into [MsgGeneric].
func UserMessage(err error) string {
	switch {
	case err == nil, errors.Is(err, shared.ErrCanceled):
		return ""
	case errors.Is(err, shared.ErrSavedProfile):
		return MsgSavedProfile
	case errors.Is(err, shared.ErrProfileNotFound):
		return MsgProfileNotFound
	default:
		return MsgGeneric
	}
}
