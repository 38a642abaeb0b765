package l10n

import (
	"context"
	"fmt"
	"sync"
)

// StaticLoader is built once and never changes. Resource errors fail the
// build unless the mode is set to ModeLenient.
type StaticLoader struct {
	*BundleSet
}

// NewStaticLoader scans cfg.Locales and builds every language.
func NewStaticLoader(ctx context.Context, cfg Config, opts ...Option) (*StaticLoader, error) {
	set, err := construct(ctx, cfg, newOptions(opts), ModeStrict)
	if err != nil {
		return nil, err
	}
	return &StaticLoader{BundleSet: set}, nil
}

// LazyStatic returns a function building the loader on first call. Every
// call returns the same loader and error.
//
//	var locales = l10n.LazyStatic(l10n.Config{Locales: "locales", FallbackLanguage: "en-US"})
//
//	func handler() {
//		l, err := locales()
//		...
//	}
func LazyStatic(cfg Config, opts ...Option) func() (*StaticLoader, error) {
	return sync.OnceValues(func() (*StaticLoader, error) {
		return NewStaticLoader(context.Background(), cfg, opts...)
	})
}

// MustStatic is NewStaticLoader for package initialization. It panics if the
// build fails.
func MustStatic(cfg Config, opts ...Option) *StaticLoader {
	l, err := NewStaticLoader(context.Background(), cfg, opts...)
	if err != nil {
		panic(fmt.Sprintf("l10n: load %s: %v", cfg.Locales, err))
	}
	return l
}
