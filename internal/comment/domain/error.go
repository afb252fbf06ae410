package domain

import "errors"

var (
	ErrInvalidContent  = errors.New("invalid comment content")
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotAuthor       = errors.New("comment belongs to another user")
)
