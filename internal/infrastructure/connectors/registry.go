package connectors

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/nicksmagento/syncbridge/internal/domain/connector"
	"github.com/nicksmagento/syncbridge/internal/infrastructure/config"
)

// Registry is the factory-table implementation of connector.Registry.
// Connectors are instantiated lazily on first Get and the instance is
// cached; re-registering a factory for a code drops the cached instance
// so the replacement takes effect on the next lookup.
type Registry struct {
	mu        sync.Mutex
	factories map[string]connector.Factory
	instances map[string]connector.Connector
	order     []string
	logger    *zap.Logger
}

// NewRegistry creates an empty registry
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		factories: make(map[string]connector.Factory),
		instances: make(map[string]connector.Connector),
		logger:    logger.Named("registry"),
	}
}

// BuiltinCodes lists the connector codes Build knows how to construct
var BuiltinCodes = []string{"sap", "shipstation"}

// Build constructs a standalone connector for a built-in code against an
// arbitrary settings source. Connection tests use it with an Overlay source
// so candidate credentials never touch the shared instances.
func Build(code string, source config.ConnectorSource, store TokenStore, logger *zap.Logger) (connector.Connector, error) {
	switch code {
	case "sap":
		return NewSAPConnector(source, store, logger), nil
	case "shipstation":
		return NewShipStationConnector(source, logger), nil
	default:
		return nil, fmt.Errorf("%w: %s", connector.ErrUnknownCode, code)
	}
}

// NewDefaultRegistry creates a registry pre-populated with the built-in
// connectors, all resolving settings through the given source.
func NewDefaultRegistry(source config.ConnectorSource, store TokenStore, logger *zap.Logger) *Registry {
	r := NewRegistry(logger)
	for _, code := range BuiltinCodes {
		code := code
		r.RegisterFactory(code, func() (connector.Connector, error) {
			return Build(code, source, store, logger)
		})
	}
	return r
}

// RegisterFactory registers or replaces the factory for a code. A cached
// instance built from the previous factory is dropped.
func (r *Registry) RegisterFactory(code string, factory connector.Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[code]; !exists {
		r.order = append(r.order, code)
	} else {
		delete(r.instances, code)
		r.logger.Info("Connector factory replaced", zap.String("code", code))
	}
	r.factories[code] = factory
}

// Get returns the connector for a code, instantiating it on first use.
// Instantiation is serialized so two concurrent lookups for the same code
// never build two instances. A factory failure is logged and reported as
// an unknown code; the next Get retries the factory.
func (r *Registry) Get(code string) (connector.Connector, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if inst, ok := r.instances[code]; ok {
		return inst, true
	}

	factory, ok := r.factories[code]
	if !ok {
		return nil, false
	}

	inst, err := factory()
	if err != nil {
		r.logger.Error("Connector instantiation failed",
			zap.String("code", code), zap.Error(err))
		return nil, false
	}

	r.instances[code] = inst
	return inst, true
}

// Codes returns all registered codes in registration order
func (r *Registry) Codes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	codes := make([]string, len(r.order))
	copy(codes, r.order)
	return codes
}

// Enabled returns the code -> connector mapping of every registered
// connector whose IsEnabled reports true.
func (r *Registry) Enabled(ctx context.Context) map[string]connector.Connector {
	enabled := make(map[string]connector.Connector)
	for _, code := range r.Codes() {
		inst, ok := r.Get(code)
		if !ok {
			continue
		}
		if inst.IsEnabled(ctx) {
			enabled[code] = inst
		}
	}
	return enabled
}

var _ connector.Registry = (*Registry)(nil)
