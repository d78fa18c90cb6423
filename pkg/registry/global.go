package registry

import (
	"fmt"

	"github.com/arthur-debert/onefile/pkg/types"
)

// processorRegistry holds the content processors the custom action can
// dispatch to. Built-ins register themselves in an init; embedders add
// their own the same way before running a bundle.
var processorRegistry = New[types.ProcessorFunc]()

// RegisterProcessor registers a content processor under the given name.
func RegisterProcessor(name string, fn types.ProcessorFunc) error {
	return processorRegistry.Register(name, fn)
}

// MustRegisterProcessor registers a processor and panics on failure.
// For init-time registration, where a duplicate name is a programming
// error.
func MustRegisterProcessor(name string, fn types.ProcessorFunc) {
	if err := processorRegistry.Register(name, fn); err != nil {
		panic(fmt.Sprintf("failed to register processor %s: %v", name, err))
	}
}

// GetProcessor retrieves a content processor by name.
func GetProcessor(name string) (types.ProcessorFunc, error) {
	return processorRegistry.Get(name)
}

// HasProcessor checks whether a processor is registered under the given name.
func HasProcessor(name string) bool {
	return processorRegistry.Has(name)
}

// ListProcessors returns the names of all registered processors.
func ListProcessors() []string {
	return processorRegistry.List()
}
