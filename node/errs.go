package node

import "errors"

var (
	ErrBadPath  = errors.New("bad path")
	ErrNotFound = errors.New("not found")
)
