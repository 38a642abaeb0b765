package l10n

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
)

// ResourceFile is the raw content of one resource file.
type ResourceFile struct {
	// Path is slash separated and relative to the scanned root, or to the
	// parent of the core path for shared files.
	Path   string
	Data   []byte
	Shared bool
}

// LanguageFiles are the files found under one language directory.
type LanguageFiles struct {
	Language language.Tag
	Dir      string
	Files    []ResourceFile
}

// ScanResult is what a scan found, in directory name order.
type ScanResult struct {
	Languages []LanguageFiles
	Shared    []ResourceFile
	// Skipped lists immediate subdirectories that are not language tags.
	Skipped []string
}

// ScannerOptions configures a Scanner.
type ScannerOptions struct {
	// Extensions selects the files to read, with the leading dot.
	Extensions     []string
	FollowSymlinks bool
	// IgnoreFiles are the names of gitignore style files honored in every
	// directory. Nil means DefaultIgnoreFiles.
	IgnoreFiles   []string
	IncludeHidden bool
	// Workers bounds how many language directories are walked at once.
	Workers int
	// Root is the root as shown in errors.
	Root   string
	Logger *slog.Logger
}

// Scanner walks a locales tree.
type Scanner struct {
	fsys fs.FS
	opts ScannerOptions
}

// NewScanner returns a scanner reading fsys, whose "." is the locales root.
func NewScanner(fsys fs.FS, opts ScannerOptions) *Scanner {
	if opts.IgnoreFiles == nil {
		opts.IgnoreFiles = DefaultIgnoreFiles
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.Logger == nil {
		opts.Logger = discardLogger()
	}
	return &Scanner{fsys: fsys, opts: opts}
}

// Scan walks every immediate subdirectory named after a language.
func (s *Scanner) Scan(ctx context.Context) (*ScanResult, error) {
	root := tree{fsys: s.fsys, root: s.opts.Root}
	entries, err := fs.ReadDir(s.fsys, ".")
	if err != nil {
		return nil, &IOError{Path: root.display("."), Err: err}
	}
	rules := s.loadIgnore(s.fsys, ".")
	matcher := (&ignoreMatcher{}).extend(rules)

	var ancestors []fs.FileInfo
	if s.opts.FollowSymlinks {
		if info, err := fs.Stat(s.fsys, "."); err == nil {
			ancestors = []fs.FileInfo{info}
		}
	}

	res := &ScanResult{}
	var dirs []string
	for _, e := range entries {
		name := e.Name()
		if s.hidden(name) {
			continue
		}
		isDir, ok := s.classify(s.fsys, name, e)
		if !ok || !isDir || matcher.ignored(name, true) {
			continue
		}
		tag, err := ParseIdentifier(name)
		if err != nil {
			s.opts.Logger.Debug("skipping directory", slog.String("dir", name), slog.Any("error", err))
			res.Skipped = append(res.Skipped, name)
			continue
		}
		dirs = append(dirs, name)
		res.Languages = append(res.Languages, LanguageFiles{Language: tag, Dir: name})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for i, dir := range dirs {
		g.Go(func() error {
			files, err := s.walk(gctx, root, dir, matcher, ancestors)
			if err != nil {
				return err
			}
			res.Languages[i].Files = files
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

// ScanShared reads the core resources at name inside fsys. name may be a file
// or a directory; display is the path reported when it cannot be read.
func (s *Scanner) ScanShared(ctx context.Context, fsys fs.FS, name, display string) ([]ResourceFile, error) {
	info, err := fs.Stat(fsys, name)
	if err != nil {
		return nil, &MissingCoreResourceError{Path: display, Err: err}
	}

	var files []ResourceFile
	if info.IsDir() {
		files, err = s.walk(ctx, tree{fsys: fsys}, name, &ignoreMatcher{}, nil)
		if err != nil {
			var ioErr *IOError
			if errors.As(err, &ioErr) {
				return nil, &MissingCoreResourceError{Path: display, Err: ioErr.Err}
			}
			return nil, err
		}
	} else {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, &MissingCoreResourceError{Path: display, Err: err}
		}
		files = []ResourceFile{{Path: name, Data: data}}
	}

	for i := range files {
		files[i].Shared = true
	}
	return files, nil
}

func (s *Scanner) walk(ctx context.Context, t tree, dir string, matcher *ignoreMatcher, ancestors []fs.FileInfo) ([]ResourceFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if s.opts.FollowSymlinks {
		info, err := fs.Stat(t.fsys, dir)
		if err != nil {
			return nil, &IOError{Path: t.display(dir), Err: err}
		}
		for _, a := range ancestors {
			if os.SameFile(a, info) {
				s.opts.Logger.Debug("skipping symlink loop", slog.String("dir", dir))
				return nil, nil
			}
		}
		ancestors = append(slices.Clip(ancestors), info)
	}

	matcher = matcher.extend(s.loadIgnore(t.fsys, dir))
	entries, err := fs.ReadDir(t.fsys, dir)
	if err != nil {
		return nil, &IOError{Path: t.display(dir), Err: err}
	}

	var files []ResourceFile
	for _, e := range entries {
		if s.hidden(e.Name()) {
			continue
		}
		p := path.Join(dir, e.Name())
		isDir, ok := s.classify(t.fsys, p, e)
		if !ok || matcher.ignored(p, isDir) {
			continue
		}

		if isDir {
			sub, err := s.walk(ctx, t, p, matcher, ancestors)
			if err != nil {
				return nil, err
			}
			files = append(files, sub...)
			continue
		}
		if !s.wanted(p) {
			continue
		}
		data, err := fs.ReadFile(t.fsys, p)
		if err != nil {
			return nil, &IOError{Path: t.display(p), Err: err}
		}
		files = append(files, ResourceFile{Path: p, Data: data})
	}
	return files, nil
}

// classify reports whether e is a directory. Symbolic links are resolved only
// when following is enabled; ok is false for entries to leave out.
func (s *Scanner) classify(fsys fs.FS, p string, e fs.DirEntry) (isDir, ok bool) {
	if e.Type()&fs.ModeSymlink == 0 {
		return e.IsDir(), true
	}
	if !s.opts.FollowSymlinks {
		s.opts.Logger.Debug("skipping symlink", slog.String("path", p))
		return false, false
	}
	info, err := fs.Stat(fsys, p)
	if err != nil {
		s.opts.Logger.Debug("skipping dangling symlink", slog.String("path", p), slog.Any("error", err))
		return false, false
	}
	return info.IsDir(), true
}

func (s *Scanner) loadIgnore(fsys fs.FS, dir string) []ignoreRule {
	var rules []ignoreRule
	for _, name := range s.opts.IgnoreFiles {
		data, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			continue
		}
		parsed, err := parseIgnore(dir, data)
		if err != nil {
			s.opts.Logger.Warn("invalid ignore patterns",
				slog.String("file", path.Join(dir, name)), slog.Any("error", err))
		}
		rules = append(rules, parsed...)
	}
	return rules
}

func (s *Scanner) hidden(name string) bool {
	return !s.opts.IncludeHidden && strings.HasPrefix(name, ".")
}

func (s *Scanner) wanted(p string) bool {
	return slices.Contains(s.opts.Extensions, path.Ext(p))
}

// tree is a file system being walked and the root shown in its errors.
type tree struct {
	fsys fs.FS
	root string
}

func (t tree) display(p string) string {
	if t.root == "" {
		return p
	}
	return filepath.Join(t.root, filepath.FromSlash(p))
}
