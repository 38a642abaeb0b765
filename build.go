package l10n

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/multierr"
	"golang.org/x/text/language"

	"github.com/lifei6671/l10n/bundle"
)

// BuildMode decides what happens to a resource that fails to parse.
type BuildMode int

const (
	// ModeDefault lets the loader decide: strict for StaticLoader, lenient for
	// SharedLoader.
	ModeDefault BuildMode = iota
	// ModeStrict fails the whole build on the first bad resource.
	ModeStrict
	// ModeLenient skips bad resources and records them as warnings.
	ModeLenient
)

func (m BuildMode) String() string {
	switch m {
	case ModeStrict:
		return "strict"
	case ModeLenient:
		return "lenient"
	default:
		return "default"
	}
}

func (m BuildMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *BuildMode) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "default":
		*m = ModeDefault
	case "strict":
		*m = ModeStrict
	case "lenient":
		*m = ModeLenient
	default:
		return fmt.Errorf("%w: unknown build mode %q", ErrInvalidConfig, text)
	}
	return nil
}

func (m BuildMode) or(def BuildMode) BuildMode {
	if m == ModeDefault {
		return def
	}
	return m
}

// Customizer is invoked exactly once per bundle, after every resource has been
// added and before the bundle is published.
type Customizer interface {
	Customize(lang language.Tag, b bundle.Bundle) error
}

// CustomizerFunc adapts a function to Customizer.
type CustomizerFunc func(lang language.Tag, b bundle.Bundle) error

func (f CustomizerFunc) Customize(lang language.Tag, b bundle.Bundle) error { return f(lang, b) }

// Built is one finished bundle.
type Built struct {
	Language language.Tag
	Bundle   bundle.Bundle
}

// BuildResult holds the bundles in the order of the input sets.
type BuildResult struct {
	Bundles []Built
	// Warnings collects the resources skipped in lenient mode.
	Warnings error
}

// Builder turns resource sets into bundles on a bounded worker pool.
type Builder struct {
	Engine     bundle.Engine
	Customizer Customizer
	// Mode must be ModeStrict or ModeLenient; ModeDefault builds strictly.
	Mode    BuildMode
	Workers int
	Logger  *slog.Logger
}

type buildOutcome struct {
	index    int
	built    Built
	warnings error
	err      error
}

// Build creates one bundle per set. Shared files are parsed once and the same
// parsed resource is added to every bundle.
func (b *Builder) Build(ctx context.Context, sets []ResourceSet) (*BuildResult, error) {
	logger := b.Logger
	if logger == nil {
		logger = discardLogger()
	}
	workers := b.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	shared, err := b.parseShared(sets, logger)
	if err != nil {
		return nil, err
	}
	warnings := shared.warnings

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("l10n: worker pool: %w", err)
	}
	defer pool.Release()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan buildOutcome, workers)
	go func() {
		var wg sync.WaitGroup
		for i, set := range sets {
			wg.Add(1)
			task := func() {
				defer wg.Done()
				results <- b.buildSafe(ctx, i, set, shared, logger)
			}
			if err := pool.Submit(task); err != nil {
				wg.Done()
				results <- buildOutcome{index: i, err: fmt.Errorf("l10n: submit build of %s: %w", set.Language, err)}
			}
		}
		wg.Wait()
		close(results)
	}()

	out := make([]Built, len(sets))
	var firstErr error
	for r := range results {
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
				cancel()
			}
			continue
		}
		out[r.index] = r.built
		warnings = multierr.Append(warnings, r.warnings)
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return &BuildResult{Bundles: out, Warnings: warnings}, nil
}

// sharedResources are the shared files parsed once per build, keyed by path.
// In lenient mode a file that failed to parse maps to nil.
type sharedResources struct {
	byPath   map[string]bundle.Resource
	warnings error
}

func (b *Builder) parseShared(sets []ResourceSet, logger *slog.Logger) (*sharedResources, error) {
	shared := &sharedResources{byPath: make(map[string]bundle.Resource)}
	if len(sets) == 0 {
		return shared, nil
	}
	// Every set ends with the same shared files.
	for _, f := range sets[0].Files {
		if !f.Shared {
			continue
		}
		res, err := b.Engine.ParseResource(f.Path, f.Data)
		if err != nil {
			rerr := &ResourceError{Language: language.Und, Path: f.Path, Err: err}
			if b.Mode != ModeLenient {
				return nil, rerr
			}
			logger.Warn("skipping shared resource", slog.String("path", f.Path), slog.Any("error", err))
			shared.warnings = multierr.Append(shared.warnings, rerr)
			res = nil
		}
		shared.byPath[f.Path] = res
	}
	return shared, nil
}

// buildSafe turns a panicking customizer into an error.
func (b *Builder) buildSafe(ctx context.Context, index int, set ResourceSet, shared *sharedResources, logger *slog.Logger) (out buildOutcome) {
	defer func() {
		if p := recover(); p != nil {
			out = buildOutcome{index: index, err: &CustomizationError{Language: set.Language, Err: fmt.Errorf("panic: %v", p)}}
		}
	}()
	return b.buildOne(ctx, index, set, shared, logger)
}

func (b *Builder) buildOne(ctx context.Context, index int, set ResourceSet, shared *sharedResources, logger *slog.Logger) buildOutcome {
	if err := ctx.Err(); err != nil {
		return buildOutcome{index: index, err: err}
	}

	bndl := b.Engine.NewBundle(set.Language)
	var warnings error
	for _, f := range set.Files {
		var (
			res bundle.Resource
			err error
		)
		if f.Shared {
			res = shared.byPath[f.Path]
			if res == nil {
				continue
			}
		} else if res, err = b.Engine.ParseResource(f.Path, f.Data); err != nil {
			rerr := &ResourceError{Language: set.Language, Path: f.Path, Err: err}
			if b.Mode != ModeLenient {
				return buildOutcome{index: index, err: rerr}
			}
			logger.Warn("skipping resource", slog.String("lang", set.Language.String()),
				slog.String("path", f.Path), slog.Any("error", err))
			warnings = multierr.Append(warnings, rerr)
			continue
		}

		if err := bndl.AddResource(res); err != nil {
			rerr := &ResourceError{Language: set.Language, Path: f.Path, Err: err}
			if b.Mode != ModeLenient {
				return buildOutcome{index: index, err: rerr}
			}
			if errors.Is(err, bundle.ErrOverride) {
				logger.Warn("ignoring redefined messages", slog.String("lang", set.Language.String()),
					slog.String("path", f.Path), slog.Any("error", err))
			} else {
				logger.Warn("skipping resource", slog.String("lang", set.Language.String()),
					slog.String("path", f.Path), slog.Any("error", err))
			}
			warnings = multierr.Append(warnings, rerr)
		}
	}

	if b.Customizer != nil {
		if err := b.Customizer.Customize(set.Language, bndl); err != nil {
			return buildOutcome{index: index, err: &CustomizationError{Language: set.Language, Err: err}}
		}
	}
	return buildOutcome{index: index, built: Built{Language: set.Language, Bundle: bndl}, warnings: warnings}
}
