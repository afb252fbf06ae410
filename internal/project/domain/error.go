package domain

import "errors"

var (
	ErrInvalidName     = errors.New("invalid project name")
	ErrInvalidKey      = errors.New("invalid project key")
	ErrInvalidType     = errors.New("invalid project type")
	ErrDuplicateKey    = errors.New("project key already exists")
	ErrProjectNotFound = errors.New("project not found")
	ErrNotMember       = errors.New("not a project member")
)
