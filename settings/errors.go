package settings

import (
	"errors"

	"github.com/signadot/tony-format/go-settings/upgrade"
)

var (
	// ErrUnknownKey is returned when neither a store nor its defaults hold a
	// key.
	ErrUnknownKey = errors.New("unknown key")
	// ErrWrongType is returned when a value cannot be coerced to the
	// requested or declared type.
	ErrWrongType = errors.New("wrong type")
	// ErrLoadFailed is returned by strict loads of unreadable or malformed
	// sources.
	ErrLoadFailed = errors.New("load failed")
	// ErrSaveFailed is logged when a save cannot be written.
	ErrSaveFailed = errors.New("save failed")
	// ErrUnknownSchema is returned when a nested store names a schema that
	// was never used in this process.
	ErrUnknownSchema = errors.New("unknown schema")
	// ErrNoPath is returned by operations needing a backing file.
	ErrNoPath = errors.New("store has no backing file")

	ErrUnsupportedUpgrade = upgrade.ErrUnsupportedUpgrade
)
