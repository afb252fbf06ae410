package domain

import "errors"

var (
	ErrInvalidName    = errors.New("invalid column name")
	ErrInvalidColumn  = errors.New("invalid column")
	ErrColumnNotFound = errors.New("column not found")
	ErrStatusNotFound = errors.New("status not found")
	ErrColumnNotEmpty = errors.New("column still has tickets")
	ErrIntakeColumn   = errors.New("intake column cannot be deleted")
)
