// ABOUTME: Capability contracts a control delegate may satisfy.
// ABOUTME: Each proxy kind asserts its required set once at construction.

package endpoint

import "github.com/2389/fleet-gateway/internal/command"

// RobotControl is the capability required to actuate a robot connection.
type RobotControl interface {
	CreateRobot(cmd command.Robot) error
	DestroyRobot(robotID string) error
}

// NodeControl is the capability required to manage nodes of a
// computation graph.
type NodeControl interface {
	AddNode(cmd command.Node) error
	RemoveNode(tag string) error
}

// ParameterControl is the capability required to manage parameters of a
// computation graph.
type ParameterControl interface {
	AddParameter(cmd command.Param) error
	RemoveParameter(name string) error
}

// ContainerControl is the capability required to provision and destroy an
// isolated container hosting a computation graph.
type ContainerControl interface {
	CreateContainer(cmd command.Container) error
	DestroyContainer(tag string) error
}
