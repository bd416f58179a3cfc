// Package connector defines the port interface for external system
// integrations (ERP, IMS, OMS, WMS, marketplace) and the value objects
// exchanged with them.
//
// Design principles:
//   - Connector is a port (Ports & Adapters): concrete adapters live in the
//     infrastructure layer, one per external system.
//   - Remote-call operations return explicit errors; the sync orchestrator
//     converts them into per-connector SyncResult entries so one system's
//     outage never aborts a multi-connector sync run.
//   - TestConnection and Status never fail: they recover every internal error
//     and report it as a disconnected state, because they feed monitoring
//     surfaces that must stay available when the remote is not.
package connector
