package l10n

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"time"

	"golang.org/x/text/language"

	"github.com/lifei6671/l10n/bundle"
)

// Loader 是对外的查询接口，StaticLoader、SharedLoader 和 MultiLoader 都实现了它。
type Loader interface {
	// Lookup 返回 key 的翻译，找不到时返回 false。
	Lookup(lang language.Tag, key string) (string, bool)
	LookupWithArgs(lang language.Tag, key string, args bundle.Args) (string, bool)
	LookupAttribute(lang language.Tag, key, attribute string, args bundle.Args) (string, bool)
	Locales() []language.Tag
	// Resolve 是底层接口，可以区分 ErrUnknownLanguage 和 ErrMissingKey。
	Resolve(q Query) (Result, error)
}

// Query is a single Resolve request.
type Query struct {
	Language  language.Tag
	Key       string
	Attribute string
	Args      bundle.Args
}

func (q Query) key() string {
	if q.Attribute == "" {
		return q.Key
	}
	return q.Key + "." + q.Attribute
}

// Result is a resolved message.
type Result struct {
	Text string
	// Language is the bundle that produced Text.
	Language language.Tag
	// Matched is false when Text came from the fallback because nothing
	// matched the requested language.
	Matched bool
}

var (
	_ Loader = (*BundleSet)(nil)
	_ Loader = (*StaticLoader)(nil)
	_ Loader = (*SharedLoader)(nil)
	_ Loader = (*MultiLoader)(nil)
)

// construct 是所有 Loader 共用的构建流程：
// 校验配置 -> 扫描目录 -> 读取共享资源 -> 聚合 -> 校验兜底语言 -> 并发构建。
func construct(ctx context.Context, cfg Config, o *options, def BuildMode) (*BundleSet, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	mode := o.mode.or(cfg.Mode).or(def)
	workers := o.workers
	if workers == 0 {
		workers = cfg.Workers
	}

	localesFS, display, err := o.localesFS(cfg.Locales)
	if err != nil {
		return nil, err
	}
	scanner := NewScanner(localesFS, ScannerOptions{
		Extensions:     o.engine.Extensions(),
		FollowSymlinks: cfg.FollowSymlinks,
		IgnoreFiles:    cfg.IgnoreFiles,
		Workers:        workers,
		Root:           display,
		Logger:         o.logger,
	})
	scan, err := scanner.Scan(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.CoreLocales != "" {
		coreFS, name, coreDisplay, err := o.coreFS(cfg.CoreLocales)
		if err != nil {
			return nil, err
		}
		if scan.Shared, err = scanner.ScanShared(ctx, coreFS, name, coreDisplay); err != nil {
			return nil, err
		}
	}

	sets := Aggregate(scan)
	tags := make([]language.Tag, len(sets))
	for i, set := range sets {
		tags[i] = set.Language
	}
	fallback, err := resolveFallback(cfg.fallback(), tags, o.relax)
	if err != nil {
		return nil, err
	}

	builder := &Builder{
		Engine:     o.engine,
		Customizer: o.customizer,
		Mode:       mode,
		Workers:    workers,
		Logger:     o.logger,
	}
	res, err := builder.Build(ctx, sets)
	if err != nil {
		return nil, err
	}

	o.logger.Info("locales built",
		slog.String("engine", o.engine.Name()),
		slog.Int("locales", len(res.Bundles)),
		slog.String("fallback", fallback.String()),
		slog.String("mode", mode.String()),
		slog.Duration("elapsed", time.Since(start)))
	return newBundleSet(res, scan, fallback, o.relax, o.logger), nil
}

// localesFS returns the file system rooted at the locales directory and the
// path shown in errors.
func (o *options) localesFS(locales string) (fs.FS, string, error) {
	if o.fsys != nil {
		name := path.Clean(filepath.ToSlash(locales))
		sub, err := fs.Sub(o.fsys, name)
		if err != nil {
			return nil, "", &IOError{Path: name, Err: err}
		}
		return sub, name, nil
	}
	abs, err := filepath.Abs(locales)
	if err != nil {
		return nil, "", &IOError{Path: locales, Err: err}
	}
	return os.DirFS(abs), abs, nil
}

// coreFS splits the core path into its parent file system and base name, so
// shared files are named relative to that parent.
func (o *options) coreFS(core string) (fsys fs.FS, name, display string, err error) {
	if o.fsys != nil {
		p := path.Clean(filepath.ToSlash(core))
		sub, err := fs.Sub(o.fsys, path.Dir(p))
		if err != nil {
			return nil, "", "", &MissingCoreResourceError{Path: p, Err: err}
		}
		return sub, path.Base(p), p, nil
	}
	abs, err := filepath.Abs(core)
	if err != nil {
		return nil, "", "", &MissingCoreResourceError{Path: core, Err: err}
	}
	return os.DirFS(filepath.Dir(abs)), filepath.Base(abs), abs, nil
}
