package march

import "errors"

// ErrParams indicates marching limits that cannot terminate sensibly.
var ErrParams = errors.New("march: invalid march parameters")
