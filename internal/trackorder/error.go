package trackorder

import "errors"

var ErrNotFound = errors.New("tracked order not found")
