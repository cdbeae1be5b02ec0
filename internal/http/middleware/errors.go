package middleware

import "errors"

var errAuthRequired = errors.New("authentication credentials were not provided")
