package settings

import (
	"log/slog"
	"time"

	"github.com/signadot/tony-format/go-settings/codec"
	"github.com/signadot/tony-format/go-settings/format"
)

// Option configures a Store.
type Option func(*options)

type options struct {
	logger    *slog.Logger
	registry  *codec.Registry
	format    format.Format
	formatSet bool
	readOnly  bool
	strict    bool
	backup    bool
	autoSave  time.Duration
	debounce  time.Duration
}

func newOptions(opts ...Option) *options {
	o := &options{
		logger:   slog.Default(),
		registry: codec.Default,
		debounce: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger receiving load and save notices.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithRegistry sets the registry encoding and decoding values.
func WithRegistry(r *codec.Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithFormat forces the file format instead of deriving it from the path.
func WithFormat(f format.Format) Option {
	return func(o *options) {
		o.format = f
		o.formatSet = true
	}
}

// WithReadOnly makes the store ignore changes once loaded.
func WithReadOnly() Option {
	return func(o *options) { o.readOnly = true }
}

// WithStrict makes loads fail with ErrLoadFailed instead of falling back to
// defaults.
func WithStrict() Option {
	return func(o *options) { o.strict = true }
}

// WithBackup writes a copy of a stale file before upgrading it.
func WithBackup() Option {
	return func(o *options) { o.backup = true }
}

// WithAutoSave saves the store delay after a change. Changes made while a
// save is pending are covered by that save.
func WithAutoSave(delay time.Duration) Option {
	return func(o *options) { o.autoSave = delay }
}

// WithWatchDebounce sets how long Watch waits for file events to settle.
func WithWatchDebounce(d time.Duration) Option {
	return func(o *options) { o.debounce = d }
}
