// ABOUTME: ContainerProxy tracks a computation graph running inside a provisioned container.
// ABOUTME: Adds container creation/destruction and connectivity propagation to the owner.

package endpoint

import (
	"fmt"
	"log/slog"

	"github.com/2389/fleet-gateway/internal/command"
)

// Container specializes Environment for a graph hosted in an isolated
// container provisioned by the backend.
type Container struct {
	Environment
	ctl       ContainerControl
	connected bool
}

// NewContainer constructs a container proxy. The delegate must satisfy
// ContainerControl in addition to the environment capabilities, or
// construction fails with ErrContractViolation. Exactly one container
// creation command carrying (containerTag, commID) is issued synchronously.
func NewContainer(owner Owner, containerTag, commID string, delegate any, logger *slog.Logger) (*Container, error) {
	ctl, ok := delegate.(ContainerControl)
	if !ok {
		return nil, fmt.Errorf("%w: %T lacks container control", ErrContractViolation, delegate)
	}

	env, err := NewEnvironment(owner, containerTag, commID, delegate, logger)
	if err != nil {
		return nil, err
	}

	c := &Container{
		Environment: *env,
		ctl:         ctl,
	}

	if err := ctl.CreateContainer(command.Container{Tag: containerTag, CommID: commID}); err != nil {
		return nil, fmt.Errorf("creating container %q: %w", containerTag, err)
	}

	c.logger.Info("container started")
	return c, nil
}

// Connected reports whether the container's graph has announced readiness.
func (c *Container) Connected() bool { return c.connected }

// SetConnectedFlag records a connectivity announcement and notifies the
// owner. Asserting readiness while already connected fails with
// ErrInvalidRequest so duplicate announcements surface; clearing the flag
// always succeeds and always notifies, regardless of prior state.
//
// TODO: the false->false re-notification is inherited behavior with no known
// consumer; revisit once the session layer defines disconnect semantics.
func (c *Container) SetConnectedFlag(flag bool) error {
	if err := c.ensureActive(); err != nil {
		return err
	}

	if flag && c.connected {
		return fmt.Errorf("%w: container %q already registered as connected", ErrInvalidRequest, c.uid)
	}

	c.connected = flag
	c.owner.SendContainerUpdate(c.uid, flag)
	return nil
}

// Delete issues one container destruction command, then performs the
// environment teardown, cascading to every registered interface.
func (c *Container) Delete() error {
	if err := c.ensureActive(); err != nil {
		return err
	}

	c.logger.Info("stopping container")
	destroyErr := c.ctl.DestroyContainer(c.uid)
	if destroyErr != nil {
		c.logger.Warn("container destruction command failed", "error", destroyErr)
	}
	c.ctl = nil

	if err := c.Proxy.Delete(); err != nil {
		return err
	}
	return destroyErr
}
