package format

import "errors"

var (
	ErrParse   = errors.New("parse error")
	ErrBadName = errors.New("invalid name")
)
