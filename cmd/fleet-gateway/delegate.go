// ABOUTME: In-memory control delegate used when no transport backend is wired up.
// ABOUTME: Satisfies every capability interface and logs each command it receives.

package main

import (
	"log/slog"

	"github.com/2389/fleet-gateway/internal/command"
)

// logDelegate stands in for the transport layer: every command is accepted
// and logged. It satisfies RobotControl, ContainerControl, NodeControl, and
// ParameterControl, so it can back any proxy kind.
type logDelegate struct {
	logger *slog.Logger
}

func newLogDelegate(logger *slog.Logger) *logDelegate {
	return &logDelegate{logger: logger.With("component", "delegate")}
}

func (d *logDelegate) CreateRobot(cmd command.Robot) error {
	d.logger.Debug("create robot", "robot_id", cmd.RobotID)
	return nil
}

func (d *logDelegate) DestroyRobot(robotID string) error {
	d.logger.Debug("destroy robot", "robot_id", robotID)
	return nil
}

func (d *logDelegate) CreateContainer(cmd command.Container) error {
	d.logger.Debug("create container", "tag", cmd.Tag, "comm_id", cmd.CommID)
	return nil
}

func (d *logDelegate) DestroyContainer(tag string) error {
	d.logger.Debug("destroy container", "tag", tag)
	return nil
}

func (d *logDelegate) AddNode(cmd command.Node) error {
	d.logger.Debug("add node",
		"tag", cmd.Tag,
		"package", cmd.Package,
		"executable", cmd.Executable,
		"namespace", cmd.Namespace,
	)
	return nil
}

func (d *logDelegate) RemoveNode(tag string) error {
	d.logger.Debug("remove node", "tag", tag)
	return nil
}

func (d *logDelegate) AddParameter(cmd command.Param) error {
	d.logger.Debug("add parameter", "name", cmd.ParamName())
	return nil
}

func (d *logDelegate) RemoveParameter(name string) error {
	d.logger.Debug("remove parameter", "name", name)
	return nil
}
