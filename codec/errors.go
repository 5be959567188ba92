package codec

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrUnknownType is returned when a type discriminant cannot be resolved.
	ErrUnknownType = errors.New("unknown type")
	// ErrNoBinding is returned when no strategy can encode or decode a type.
	ErrNoBinding = errors.New("no binding")
	// ErrMalformedValue is returned when text does not parse as the
	// requested primitive.
	ErrMalformedValue = errors.New("malformed value")
)

// EncodeError represents an error during encoding
type EncodeError struct {
	Path string // e.g. "Layout.Panes[2].Title"
	Type reflect.Type
	Err  error
}

func (e *EncodeError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("encode error at %s (%s): %v", e.Path, e.Type, e.Err)
	}
	return fmt.Sprintf("encode error (%s): %v", e.Type, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// DecodeError represents an error during decoding
type DecodeError struct {
	Path string
	Type reflect.Type
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("decode error at %s (%s): %v", e.Path, e.Type, e.Err)
	}
	return fmt.Sprintf("decode error (%s): %v", e.Type, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func malformed(text string, t reflect.Type, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %q as %s: %w", ErrMalformedValue, text, t, err)
	}
	return fmt.Errorf("%w: %q as %s", ErrMalformedValue, text, t)
}

// within prefixes the path of an encode or decode error with seg, wrapping
// plain errors as needed.
func within(err error, seg string, t reflect.Type, decoding bool) error {
	if err == nil {
		return nil
	}
	var ee *EncodeError
	if errors.As(err, &ee) {
		ee.Path = joinPath(seg, ee.Path)
		return ee
	}
	var de *DecodeError
	if errors.As(err, &de) {
		de.Path = joinPath(seg, de.Path)
		return de
	}
	if decoding {
		return &DecodeError{Path: seg, Type: t, Err: err}
	}
	return &EncodeError{Path: seg, Type: t, Err: err}
}

func joinPath(seg, rest string) string {
	switch {
	case rest == "":
		return seg
	case rest[0] == '[':
		return seg + rest
	}
	return seg + "." + rest
}
