package l10n

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"
)

var (
	// ErrIO 表示语言目录树不可读，构建直接失败。
	ErrIO = errors.New("l10n: locales tree unreadable")
	// ErrMissingCoreResource 表示配置的共享资源路径不存在或不可读。
	ErrMissingCoreResource = errors.New("l10n: core resource missing")
	// ErrInvalidIdentifier 表示目录名不是合法的语言标识，目录会被跳过。
	ErrInvalidIdentifier = errors.New("l10n: invalid language identifier")
	// ErrResourceParse marks a resource the engine rejected.
	ErrResourceParse = errors.New("l10n: resource parse error")
	// ErrCustomization marks a failed customization hook.
	ErrCustomization = errors.New("l10n: bundle customization failed")
	// ErrMissingFallback is returned when no built bundle matches the fallback language.
	ErrMissingFallback = errors.New("l10n: fallback language not built")
	// ErrUnknownLanguage is returned by Resolve when nothing is localized for the
	// requested language.
	ErrUnknownLanguage = errors.New("l10n: unknown language")
	// ErrMissingKey is returned by Resolve when the language is known but no
	// candidate bundle defines the key.
	ErrMissingKey = errors.New("l10n: missing key")
	// ErrInvalidConfig is returned before any I/O for contradictory configuration.
	ErrInvalidConfig = errors.New("l10n: invalid config")
)

// IOError wraps a failure to read the locales tree.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string { return fmt.Sprintf("l10n: read %s: %v", e.Path, e.Err) }

func (e *IOError) Is(target error) bool { return target == ErrIO }

func (e *IOError) Unwrap() error { return e.Err }

// MissingCoreResourceError names the absolute path of the shared resources
// that could not be read.
type MissingCoreResourceError struct {
	Path string
	Err  error
}

func (e *MissingCoreResourceError) Error() string {
	return fmt.Sprintf("l10n: core resource %s: %v", e.Path, e.Err)
}

func (e *MissingCoreResourceError) Is(target error) bool { return target == ErrMissingCoreResource }

func (e *MissingCoreResourceError) Unwrap() error { return e.Err }

// InvalidIdentifierError reports a directory name that is not a language tag.
type InvalidIdentifierError struct {
	Name string
	Err  error
}

func (e *InvalidIdentifierError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("l10n: %q is not a language identifier", e.Name)
	}
	return fmt.Sprintf("l10n: %q is not a language identifier: %v", e.Name, e.Err)
}

func (e *InvalidIdentifierError) Is(target error) bool { return target == ErrInvalidIdentifier }

func (e *InvalidIdentifierError) Unwrap() error { return e.Err }

// ResourceError names the language and file of a resource that failed to parse
// or to be added to its bundle.
type ResourceError struct {
	Language language.Tag
	Path     string
	Err      error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("l10n: [%s] %s: %v", e.Language, e.Path, e.Err)
}

func (e *ResourceError) Is(target error) bool { return target == ErrResourceParse }

func (e *ResourceError) Unwrap() error { return e.Err }

// CustomizationError names the language whose customization hook failed.
type CustomizationError struct {
	Language language.Tag
	Err      error
}

func (e *CustomizationError) Error() string {
	return fmt.Sprintf("l10n: customize [%s]: %v", e.Language, e.Err)
}

func (e *CustomizationError) Is(target error) bool { return target == ErrCustomization }

func (e *CustomizationError) Unwrap() error { return e.Err }

// MissingFallbackError lists what was built when the fallback could not be matched.
type MissingFallbackError struct {
	Fallback language.Tag
	Built    []language.Tag
}

func (e *MissingFallbackError) Error() string {
	return fmt.Sprintf("l10n: fallback language %s not among built locales %v", e.Fallback, e.Built)
}

func (e *MissingFallbackError) Is(target error) bool { return target == ErrMissingFallback }

// LookupError is returned by Resolve. It matches ErrUnknownLanguage,
// ErrMissingKey or, through Err, bundle.ErrFormat.
type LookupError struct {
	Language language.Tag
	Key      string
	Kind     error
	Err      error
}

func (e *LookupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: [%s] %s: %v", e.Kind, e.Language, e.Key, e.Err)
	}
	return fmt.Sprintf("%v: [%s] %s", e.Kind, e.Language, e.Key)
}

func (e *LookupError) Is(target error) bool { return target == e.Kind }

func (e *LookupError) Unwrap() error { return e.Err }
