package errors

import "errors"

var ErrInvalidInput = errors.New("credential input is invalid")
