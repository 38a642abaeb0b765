// Package bundle defines the contract between the l10n loaders and the message
// engines that parse resources and render messages.
//
// A loader never interprets resource text itself. It hands raw file contents to an
// Engine, feeds the parsed resources into one Bundle per language and later asks
// that Bundle to render a message by id.
package bundle

import (
	"errors"

	"golang.org/x/text/language"
)

var (
	// ErrMessageNotFound is returned by Bundle.Format when the id (or the attribute)
	// is not defined in the bundle.
	ErrMessageNotFound = errors.New("bundle: message not found")
	// ErrParse marks resource text the engine could not parse.
	ErrParse = errors.New("bundle: resource parse error")
	// ErrFormat marks a message that was found but rendered with errors.
	// The accompanying text is still usable.
	ErrFormat = errors.New("bundle: message format error")
	// ErrOverride marks a resource that redefines ids already present in the bundle.
	ErrOverride = errors.New("bundle: message redefined")
	// ErrResourceType is returned when a bundle receives a resource parsed by another engine.
	ErrResourceType = errors.New("bundle: resource belongs to another engine")
)

// Args maps argument names to values. Engines accept strings, integer and float
// kinds, time.Time and fmt.Stringer; anything else is rendered with fmt.
type Args map[string]any

// Resource is a parsed resource file.
type Resource interface {
	// Name is the path the resource was parsed from.
	Name() string
}

// Bundle is a per-language message store.
//
// Add* and Set* are only called while the bundle is being built. Once a loader
// publishes a bundle it is only read, concurrently, through the query methods.
type Bundle interface {
	Locale() language.Tag
	// AddResource adds every entry of res. Ids that already exist keep their first
	// definition and are reported with an error matching ErrOverride.
	AddResource(res Resource) error
	// SetUseIsolating toggles Unicode bidi isolation of interpolated values.
	SetUseIsolating(enabled bool)

	HasMessage(id string) bool
	// Messages lists the message ids in the bundle, sorted.
	Messages() []string
	// Format renders the value of message id.
	Format(id string, args Args) (string, error)
	// FormatAttribute renders a named attribute of message id.
	FormatAttribute(id, attribute string, args Args) (string, error)
}

// Checker is implemented by bundles able to report unresolved references.
type Checker interface {
	Check() []error
}

// Engine parses resources and creates bundles.
type Engine interface {
	Name() string
	// Extensions lists the file extensions, with the leading dot, the engine reads.
	Extensions() []string
	ParseResource(name string, src []byte) (Resource, error)
	NewBundle(locale language.Tag) Bundle
}
