package period

import "errors"

// ErrUnknownMode is returned for a period mode outside the known set.
var ErrUnknownMode = errors.New("unknown period mode")
