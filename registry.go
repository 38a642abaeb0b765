package l10n

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/lifei6671/l10n/bundle"
	"github.com/lifei6671/l10n/fluent"
	"github.com/lifei6671/l10n/msgfile"
)

///////////////////////////////////////////////////////////////////////////////
// ENGINE REGISTRY
///////////////////////////////////////////////////////////////////////////////

var engineRegistry = map[string]func() bundle.Engine{}
var regMutex sync.RWMutex

// RegisterEngine makes an engine selectable by name, e.g. from a config file
// or a command line flag.
func RegisterEngine(name string, factory func() bundle.Engine) {
	regMutex.Lock()
	defer regMutex.Unlock()
	engineRegistry[name] = factory
}

// EngineByName returns a new instance of the engine registered as name.
func EngineByName(name string) (bundle.Engine, error) {
	regMutex.RLock()
	factory, ok := engineRegistry[name]
	regMutex.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: unknown engine %q (have %v)", ErrInvalidConfig, name, Engines())
	}
	return factory(), nil
}

// Engines lists the registered engine names, sorted.
func Engines() []string {
	regMutex.RLock()
	defer regMutex.RUnlock()
	return slices.Sorted(maps.Keys(engineRegistry))
}

func init() {
	RegisterEngine("fluent", func() bundle.Engine { return fluent.New() })
	RegisterEngine("msgfile", func() bundle.Engine { return msgfile.New() })
}
