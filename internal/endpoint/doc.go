// Package endpoint maintains proxy objects for user-owned remote resources:
// physical robot connections, running computation graphs, and isolated
// containers hosting such graphs.
//
// # Overview
//
// A proxy verifies at construction that its backend control delegate
// satisfies the capability contract for its kind, tracks auxiliary resources
// (registered interfaces, reserved communication addresses), and guarantees a
// total, ordered teardown sequence. All remote side effects are delegated;
// the proxy layer performs no network I/O of its own.
//
// # Proxy kinds
//
//	Robot       physical robot connection; creation carries the auth key
//	Environment running computation graph; node/parameter commands, addresses
//	Container   environment inside a provisioned container; connectivity flag
//
// # Capability contracts
//
// A delegate is supplied as an untyped value and asserted once, at
// construction, against the named capability interfaces (RobotControl,
// NodeControl, ParameterControl, ContainerControl). A delegate lacking the
// required set fails construction with ErrContractViolation; no operation
// ever proceeds on an unverified delegate.
//
// # Lifecycle
//
// Created -> Active -> Deleted. Deleted is terminal: Delete cascades to every
// still-registered interface, then clears the owner and delegate references,
// and every subsequent operation returns ErrDeleted.
//
// # Thread safety
//
// Proxies hold no locks and are invoked synchronously by the session layer,
// which serializes every mutating operation.
package endpoint
