package async

import "errors"

// ErrTimeout is returned by AwaitTimeout when the future has not resolved
// within the given duration.
var ErrTimeout = errors.New("async: future not resolved before timeout")
