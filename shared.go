package l10n

import (
	"context"
	"sync"

	"go.uber.org/atomic"
	"golang.org/x/text/language"

	"github.com/lifei6671/l10n/bundle"
)

// SharedLoader can be rebuilt while it is being read. A rebuild constructs a
// new BundleSet off to the side and publishes it in one atomic store; readers
// never take a lock and never see a partial set.
//
// Resource errors are skipped and recorded as warnings unless the mode is set
// to ModeStrict.
type SharedLoader struct {
	current atomic.Pointer[BundleSet]

	// mu serializes rebuilds. Readers never take it.
	mu   sync.Mutex
	cfg  Config
	opts []Option
}

// NewSharedLoader builds cfg and returns a loader serving it.
func NewSharedLoader(ctx context.Context, cfg Config, opts ...Option) (*SharedLoader, error) {
	l := &SharedLoader{cfg: cfg, opts: opts}
	if err := l.Rebuild(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

// Rebuild rescans the configured tree. On failure the previous snapshot keeps
// serving.
func (l *SharedLoader) Rebuild(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rebuild(ctx, l.cfg)
}

// RebuildFrom builds cfg and, on success, keeps it as the configuration of
// later Rebuild calls.
func (l *SharedLoader) RebuildFrom(ctx context.Context, cfg Config) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.rebuild(ctx, cfg); err != nil {
		return err
	}
	l.cfg = cfg
	return nil
}

func (l *SharedLoader) rebuild(ctx context.Context, cfg Config) error {
	set, err := construct(ctx, cfg, newOptions(l.opts), ModeLenient)
	if err != nil {
		return err
	}
	l.current.Store(set)
	return nil
}

// Snapshot returns the current set. It stays consistent however many rebuilds
// happen afterwards. It is nil for a SharedLoader not created by
// NewSharedLoader; such a loader knows no language.
func (l *SharedLoader) Snapshot() *BundleSet {
	return l.current.Load()
}

func (l *SharedLoader) Lookup(lang language.Tag, key string) (string, bool) {
	return l.LookupWithArgs(lang, key, nil)
}

func (l *SharedLoader) LookupWithArgs(lang language.Tag, key string, args bundle.Args) (string, bool) {
	s := l.Snapshot()
	if s == nil {
		return "", false
	}
	return s.LookupWithArgs(lang, key, args)
}

func (l *SharedLoader) LookupAttribute(lang language.Tag, key, attribute string, args bundle.Args) (string, bool) {
	s := l.Snapshot()
	if s == nil {
		return "", false
	}
	return s.LookupAttribute(lang, key, attribute, args)
}

func (l *SharedLoader) Locales() []language.Tag {
	s := l.Snapshot()
	if s == nil {
		return nil
	}
	return s.Locales()
}

func (l *SharedLoader) Resolve(q Query) (Result, error) {
	s := l.Snapshot()
	if s == nil {
		return Result{}, &LookupError{Language: q.Language, Key: q.key(), Kind: ErrUnknownLanguage}
	}
	return s.Resolve(q)
}
