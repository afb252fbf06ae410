package presence

import "errors"

var ErrInvalidField = errors.New("invalid field id")
