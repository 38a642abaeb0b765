package l10n

import (
	"cmp"
	"slices"

	"golang.org/x/text/language"
)

// ResourceSet is the ordered input of one bundle: the language's own files
// sorted by path, then the shared files sorted by path.
type ResourceSet struct {
	Language language.Tag
	Files    []ResourceFile
}

// Aggregate groups scanned files by canonical tag. Directories that
// canonicalize to the same tag are merged. The result only depends on the
// scanned content, never on traversal order.
func Aggregate(scan *ScanResult) []ResourceSet {
	byTag := make(map[string]*ResourceSet, len(scan.Languages))
	for _, lf := range scan.Languages {
		key := lf.Language.String()
		set, ok := byTag[key]
		if !ok {
			set = &ResourceSet{Language: lf.Language}
			byTag[key] = set
		}
		set.Files = append(set.Files, lf.Files...)
	}

	shared := slices.Clone(scan.Shared)
	slices.SortStableFunc(shared, compareFiles)

	sets := make([]ResourceSet, 0, len(byTag))
	for _, set := range byTag {
		slices.SortStableFunc(set.Files, compareFiles)
		files := make([]ResourceFile, 0, len(set.Files)+len(shared))
		files = append(files, set.Files...)
		files = append(files, shared...)
		sets = append(sets, ResourceSet{Language: set.Language, Files: files})
	}
	slices.SortFunc(sets, func(a, b ResourceSet) int {
		return cmp.Compare(a.Language.String(), b.Language.String())
	})
	return sets
}

func compareFiles(a, b ResourceFile) int { return cmp.Compare(a.Path, b.Path) }
