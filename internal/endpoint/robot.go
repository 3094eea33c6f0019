// ABOUTME: RobotProxy tracks one physical robot connection.
// ABOUTME: Construction issues the creation command carrying the authentication key.

package endpoint

import (
	"fmt"
	"log/slog"

	"github.com/2389/fleet-gateway/internal/command"
)

// Robot is the lifecycle wrapper for a physical robot connection.
type Robot struct {
	Proxy
	ctl RobotControl
}

// NewRobot constructs a robot proxy. The delegate must satisfy RobotControl
// or construction fails with ErrContractViolation. Exactly one creation
// command carrying (robotID, authKey) is issued, synchronously and without
// retry; a dispatch failure propagates from construction.
func NewRobot(owner Owner, robotID, commID, authKey string, delegate any, logger *slog.Logger) (*Robot, error) {
	ctl, ok := delegate.(RobotControl)
	if !ok {
		return nil, fmt.Errorf("%w: %T lacks robot control", ErrContractViolation, delegate)
	}

	r := &Robot{
		Proxy: newProxy(owner, robotID, commID, delegate, logger),
		ctl:   ctl,
	}

	if err := ctl.CreateRobot(command.Robot{RobotID: robotID, Key: authKey}); err != nil {
		return nil, fmt.Errorf("creating robot %q: %w", robotID, err)
	}

	r.logger.Info("robot created")
	r.state = StateActive
	return r, nil
}

// Delete issues one destruction command for the robot, then performs base
// teardown. The teardown always runs to completion; a destruction dispatch
// failure is reported after it.
func (r *Robot) Delete() error {
	if err := r.ensureActive(); err != nil {
		return err
	}

	destroyErr := r.ctl.DestroyRobot(r.uid)
	if destroyErr != nil {
		r.logger.Warn("robot destruction command failed", "error", destroyErr)
	}
	r.ctl = nil

	if err := r.Proxy.Delete(); err != nil {
		return err
	}
	return destroyErr
}
