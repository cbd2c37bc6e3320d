package check

import "errors"

// ErrUnknownType is returned by PerformCheck when the requested type is
// not one of the six recognized categories. This is an integration error
// from the caller, not a user input error: the front-ends map it to a
// 400-class response instead of crashing.
var ErrUnknownType = errors.New("unknown check type")
