// ABOUTME: Base endpoint proxy shared by robot, environment, and container proxies.
// ABOUTME: Owns identity, the control delegate reference, and the registered interface set.

package endpoint

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrContractViolation indicates a control delegate does not satisfy the
// capability set required by the proxy kind being constructed.
var ErrContractViolation = errors.New("delegate does not satisfy required capability contract")

// ErrInvalidRequest indicates caller-supplied data failed validation or
// coercion. The wrapped cause describes the specific failure.
var ErrInvalidRequest = errors.New("invalid request")

// ErrInterfaceRegistered indicates the same interface handle was registered twice.
var ErrInterfaceRegistered = errors.New("interface already registered")

// ErrInterfaceNotRegistered indicates an unregister of a handle that was never registered.
var ErrInterfaceNotRegistered = errors.New("interface not registered")

// ErrAddressInUse indicates an attempt to reserve a communication address
// that is already reserved within the environment.
var ErrAddressInUse = errors.New("address already in use")

// ErrDeleted indicates an operation on a proxy after its teardown completed.
var ErrDeleted = errors.New("endpoint proxy has been deleted")

// State tracks the proxy lifecycle. Deleted is terminal; no path returns.
type State int

const (
	// StateCreated means construction is underway and the creation command
	// has been issued; callers never observe this state.
	StateCreated State = iota
	// StateActive permits interface, node, parameter, and address operations.
	StateActive
	// StateDeleted is reached only via Delete.
	StateDeleted
)

// Owner is the owning session. The proxy never manages the owner's
// lifecycle; it only routes notifications to it.
type Owner interface {
	// SendContainerUpdate reports a change of a container's connectivity.
	SendContainerUpdate(tag string, connected bool)
}

// Interface is an auxiliary adapter registered against an endpoint proxy.
// Handles are compared by identity: registering the same handle twice is a
// structural error even if another handle is structurally equal to it.
type Interface interface {
	// BindControl grants the interface access to the endpoint's control
	// delegate so it can issue its own commands.
	BindControl(delegate any)
	// Delete tears the interface down. Invoked once per handle during
	// endpoint teardown.
	Delete()
}

// Proxy is the common core of all endpoint proxies. It performs no network
// I/O itself; every remote side effect goes through the control delegate.
// Proxy is not safe for unsynchronized concurrent use; the owning session
// serializes access.
type Proxy struct {
	owner    Owner
	uid      string
	commID   string
	delegate any
	ifaces   map[Interface]struct{}
	state    State
	logger   *slog.Logger
}

func newProxy(owner Owner, uid, commID string, delegate any, logger *slog.Logger) Proxy {
	if logger == nil {
		logger = slog.Default()
	}
	return Proxy{
		owner:    owner,
		uid:      uid,
		commID:   commID,
		delegate: delegate,
		ifaces:   make(map[Interface]struct{}),
		state:    StateCreated,
		logger:   logger.With("endpoint", uid, "comm_id", commID),
	}
}

// Owner returns the owning session, or nil after deletion.
func (p *Proxy) Owner() Owner { return p.owner }

// UID returns the user-facing logical identifier of this endpoint.
func (p *Proxy) UID() string { return p.uid }

// CommID returns the backend communication identifier of this endpoint.
func (p *Proxy) CommID() string { return p.commID }

// State returns the current lifecycle state.
func (p *Proxy) State() State { return p.state }

func (p *Proxy) ensureActive() error {
	if p.state != StateActive {
		return ErrDeleted
	}
	return nil
}

// RegisterInterface adds handle to the interface set and binds it to the
// control delegate so the handle can issue its own commands.
// Returns ErrInterfaceRegistered if the handle is already present.
func (p *Proxy) RegisterInterface(handle Interface) error {
	if err := p.ensureActive(); err != nil {
		return err
	}
	if _, exists := p.ifaces[handle]; exists {
		return fmt.Errorf("%w: endpoint %q", ErrInterfaceRegistered, p.uid)
	}

	handle.BindControl(p.delegate)
	p.ifaces[handle] = struct{}{}
	return nil
}

// UnregisterInterface removes handle from the interface set.
// Returns ErrInterfaceNotRegistered if the handle is absent.
func (p *Proxy) UnregisterInterface(handle Interface) error {
	if err := p.ensureActive(); err != nil {
		return err
	}
	if _, exists := p.ifaces[handle]; !exists {
		return fmt.Errorf("%w: endpoint %q", ErrInterfaceNotRegistered, p.uid)
	}

	delete(p.ifaces, handle)
	return nil
}

// Delete tears the endpoint down: every still-registered interface is
// deleted exactly once, then the owner and delegate references are cleared.
// Deletion is terminal; any subsequent operation returns ErrDeleted.
func (p *Proxy) Delete() error {
	if err := p.ensureActive(); err != nil {
		return err
	}

	// Snapshot first: handles may unregister themselves mid-teardown.
	handles := make([]Interface, 0, len(p.ifaces))
	for handle := range p.ifaces {
		handles = append(handles, handle)
	}
	for _, handle := range handles {
		handle.Delete()
	}

	p.logger.Info("endpoint deleted", "interfaces_torn_down", len(handles))

	p.ifaces = nil
	p.owner = nil
	p.delegate = nil
	p.state = StateDeleted
	return nil
}
