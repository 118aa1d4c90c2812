package state

import "errors"

var ErrNoMethod = errors.New("state: no such method")
