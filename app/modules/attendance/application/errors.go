package attendanceservice

import "errors"

// ErrInvalidStatus is returned for an attendance status outside the known set.
var ErrInvalidStatus = errors.New("invalid attendance status")
