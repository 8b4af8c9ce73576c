package progress

import "errors"

// ErrTaskNotFound is returned by operations given a TaskID that was never
// issued or whose task has already been removed.
var ErrTaskNotFound = errors.New("task not found")
