package domain

import "errors"

var (
	ErrInvalidTitle    = errors.New("invalid ticket title")
	ErrInvalidPriority = errors.New("invalid ticket priority")
	ErrTicketNotFound  = errors.New("ticket not found")
)
