package appointments

import "errors"

// ErrNotFound is returned when an appointment id does not exist.
var ErrNotFound = errors.New("appointments: not found")
