// ABOUTME: Command value family forwarded from endpoint proxies to control delegates.
// ABOUTME: Plain structs; serialization for the wire is the delegate's concern.

package command

// Robot instructs the backend to prepare for an inbound robot connection.
// Key is the opaque credential a connecting robot must present.
type Robot struct {
	RobotID string
	Key     string
}

// Container instructs the backend to provision an isolated container
// hosting a computation graph reachable under CommID.
type Container struct {
	Tag    string
	CommID string
}

// Node instructs the backend to launch one graph node.
type Node struct {
	Tag        string
	Package    string
	Executable string
	Args       string
	Name       string
	Namespace  string
}

// Param is implemented by the parameter command kinds so a single
// delegate method can accept any of them.
type Param interface {
	// ParamName returns the graph-resource name the parameter is stored under.
	ParamName() string
}

// Parameter carries a single scalar parameter. Values always holds exactly
// one coerced element; TypeCode is its one-letter type code.
type Parameter struct {
	Name     string
	Values   []any
	TypeCode string
}

// Array carries a fixed-length array parameter. TypeCode holds one
// upper-case letter per element, in order.
type Array struct {
	Name     string
	Values   []any
	TypeCode string
}

// File carries a file parameter; Content is the file body or path, as
// supplied by the caller.
type File struct {
	Name    string
	Content string
}

func (p Parameter) ParamName() string { return p.Name }
func (a Array) ParamName() string     { return a.Name }
func (f File) ParamName() string      { return f.Name }
