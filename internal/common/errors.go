package common

import "errors"

// ErrorValidation marks input rejected locally, before any request is issued.
var ErrorValidation = errors.New("validation error")
