package genai

import (
	"fmt"

	"clearbill/internal/config"
	"clearbill/internal/port"
)

// ProviderFactory is a function that creates a Generator from an AI config.
type ProviderFactory func(cfg *config.AIConfig) (port.Generator, error)

// registry of generator provider factories, populated via RegisterProvider.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a generator provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewGenerator creates a Generator from an AI config using the registered factory.
func NewGenerator(cfg *config.AIConfig) (port.Generator, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown generator provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
