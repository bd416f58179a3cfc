package connector

import "context"

// Connector is the port interface every external system adapter implements.
// Concrete adapters (SAP, ShipStation, ...) live in the infrastructure layer.
type Connector interface {
	// Code returns the unique connector slug (e.g. "sap"). Never fails.
	Code() string

	// Name returns the display name (e.g. "SAP ERP"). Never fails.
	Name() string

	// Type returns the supply-chain classification of the external system
	Type() Type

	// IsEnabled reports whether configuration enables this connector.
	// A disabled connector is skipped entirely by the orchestrator.
	IsEnabled(ctx context.Context) bool

	// Initialize validates prerequisite configuration. Missing configuration
	// is a soft failure: it returns false, never an error.
	Initialize(ctx context.Context) bool

	// TestConnection performs a lightweight authenticated call to verify
	// reachability. Transport and auth errors surface as false.
	TestConnection(ctx context.Context) bool

	// ImportInventory pulls inventory from the remote, mapped into local
	// records. An empty slice with a nil error means the remote had nothing
	// matching; errors are reported per-connector by the orchestrator.
	ImportInventory(ctx context.Context, filter InventoryFilter) ([]InventoryRecord, error)

	// ExportInventory pushes local inventory records to the remote
	ExportInventory(ctx context.Context, records []InventoryRecord) error

	// ImportOrders pulls orders from the remote, mapped into local records
	ImportOrders(ctx context.Context, filter OrderFilter) ([]OrderRecord, error)

	// ExportOrders pushes local order records to the remote
	ExportOrders(ctx context.Context, records []OrderRecord) error

	// Status reports the live diagnostic state. It never fails: internal
	// errors are reported as Connected=false with the Error field set.
	Status(ctx context.Context) Status
}

// Factory constructs a connector instance. Factories must be cheap; any
// remote interaction belongs in the connector's own methods.
type Factory func() (Connector, error)

// Registry provides access to configured connectors by code.
//
// Invariant: the registry never holds two live instances for the same code;
// an instance, once created, is reused until its factory is replaced.
type Registry interface {
	// Get returns the connector for a code, instantiating it on first use.
	// The second return is false when the code is unknown.
	Get(code string) (Connector, bool)

	// Codes returns all registered codes in registration order
	Codes() []string

	// Enabled returns the code -> connector mapping of all connectors whose
	// IsEnabled reports true. This is the set a sync run operates over.
	Enabled(ctx context.Context) map[string]Connector

	// RegisterFactory registers or replaces the factory for a code. Any
	// cached instance for that code is dropped so the new implementation
	// takes effect on the next Get.
	RegisterFactory(code string, factory Factory)
}
