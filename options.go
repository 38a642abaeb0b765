package l10n

import (
	"io"
	"io/fs"
	"log/slog"

	"golang.org/x/text/language"

	"github.com/lifei6671/l10n/bundle"
	"github.com/lifei6671/l10n/fluent"
)

// Option configures how a loader is built.
type Option func(*options)

type options struct {
	engine     bundle.Engine
	customizer Customizer
	logger     *slog.Logger
	fsys       fs.FS
	relax      Relaxation
	mode       BuildMode
	workers    int
}

func newOptions(opts []Option) *options {
	o := &options{
		engine: fluent.New(),
		logger: discardLogger(),
		relax:  RangeRelaxation,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// WithEngine sets the bundle engine.
// Defaults to the Fluent engine.
func WithEngine(e bundle.Engine) Option {
	return func(o *options) {
		if e != nil {
			o.engine = e
		}
	}
}

// WithCustomizer sets the hook run once on every bundle before it is published.
func WithCustomizer(c Customizer) Option {
	return func(o *options) {
		o.customizer = c
	}
}

// WithCustomize is WithCustomizer for a plain function.
func WithCustomize(f func(lang language.Tag, b bundle.Bundle) error) Option {
	return func(o *options) {
		if f != nil {
			o.customizer = CustomizerFunc(f)
		}
	}
}

// WithLogger sets the logger.
// If nil, logging is disabled.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithFS reads the locales tree from fsys instead of the OS file system, e.g.
// an embed.FS. Config paths are then slash separated paths inside fsys.
func WithFS(fsys fs.FS) Option {
	return func(o *options) {
		o.fsys = fsys
	}
}

// WithRelaxation sets the fallback relaxation policy.
// Defaults to RangeRelaxation.
func WithRelaxation(r Relaxation) Option {
	return func(o *options) {
		if r != nil {
			o.relax = r
		}
	}
}

// WithMode overrides Config.Mode.
func WithMode(m BuildMode) Option {
	return func(o *options) {
		o.mode = m
	}
}

// WithWorkers overrides Config.Workers.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}
