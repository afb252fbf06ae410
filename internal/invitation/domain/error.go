package domain

import "errors"

var (
	ErrInvalidEmail       = errors.New("invalid invitation email")
	ErrInvitationNotFound = errors.New("invitation not found")
)
