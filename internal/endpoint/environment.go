// ABOUTME: EnvironmentProxy tracks one running computation graph.
// ABOUTME: Adds node and parameter lifecycle commands plus exclusive address bookkeeping.

package endpoint

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/2389/fleet-gateway/internal/command"
	"github.com/2389/fleet-gateway/internal/naming"
)

// Environment is the lifecycle wrapper for a running computation graph.
type Environment struct {
	Proxy
	nodeCtl  NodeControl
	paramCtl ParameterControl
	addrs    map[string]struct{}
}

// NewEnvironment constructs an environment proxy. The delegate must satisfy
// both NodeControl and ParameterControl or construction fails with
// ErrContractViolation. No creation command is issued at this level.
func NewEnvironment(owner Owner, tag, commID string, delegate any, logger *slog.Logger) (*Environment, error) {
	nodeCtl, ok := delegate.(NodeControl)
	if !ok {
		return nil, fmt.Errorf("%w: %T lacks node control", ErrContractViolation, delegate)
	}
	paramCtl, ok := delegate.(ParameterControl)
	if !ok {
		return nil, fmt.Errorf("%w: %T lacks parameter control", ErrContractViolation, delegate)
	}

	e := &Environment{
		Proxy:    newProxy(owner, tag, commID, delegate, logger),
		nodeCtl:  nodeCtl,
		paramCtl: paramCtl,
		addrs:    make(map[string]struct{}),
	}
	e.state = StateActive
	return e, nil
}

// AddNode launches a node in the graph. The namespace must be a legal
// graph-resource name; the delegate is authoritative for everything else.
// Exactly one node-creation command identified by tag is forwarded.
func (e *Environment) AddNode(tag, pkg, exe, args, name, namespace string) error {
	if err := e.ensureActive(); err != nil {
		return err
	}
	if !naming.IsLegalName(namespace) {
		return fmt.Errorf("%w: namespace %q is not a legal graph-resource name", ErrInvalidRequest, namespace)
	}

	e.logger.Info("starting node", "package", pkg, "executable", exe, "tag", tag)
	return e.nodeCtl.AddNode(command.Node{
		Tag:        tag,
		Package:    pkg,
		Executable: exe,
		Args:       args,
		Name:       name,
		Namespace:  namespace,
	})
}

// RemoveNode stops the node identified by tag. There is no local existence
// check; the delegate is authoritative.
func (e *Environment) RemoveNode(tag string) error {
	if err := e.ensureActive(); err != nil {
		return err
	}

	e.logger.Info("removing node", "tag", tag)
	return e.nodeCtl.RemoveNode(tag)
}

// AddParameter stores a parameter in the graph. The name must be a legal
// graph-resource name. paramType is one of the scalar tokens (int, str,
// float, bool), the sentinel "file", or a bracketed comma-separated list of
// scalar tokens denoting a fixed-length array; value is coerced accordingly.
// One parameter command carrying the coerced values and the composite type
// code is forwarded on success.
func (e *Environment) AddParameter(name string, value any, paramType string) error {
	if err := e.ensureActive(); err != nil {
		return err
	}
	if !naming.IsLegalName(name) {
		return fmt.Errorf("%w: parameter name %q is not a legal graph-resource name", ErrInvalidRequest, name)
	}

	cmd, err := buildParamCommand(name, value, paramType)
	if err != nil {
		return err
	}

	e.logger.Info("adding parameter", "name", name, "type", strings.TrimSpace(paramType))
	return e.paramCtl.AddParameter(cmd)
}

// buildParamCommand validates the paramType grammar, coerces value, and
// assembles the command to forward. All failures are InvalidRequest.
func buildParamCommand(name string, value any, paramType string) (command.Param, error) {
	paramType = strings.TrimSpace(paramType)

	if paramType == "file" {
		content, err := coerceString(value)
		if err != nil {
			return nil, fmt.Errorf("%w: file parameter %q: %v", ErrInvalidRequest, name, err)
		}
		return command.File{Name: name, Content: content}, nil
	}

	var (
		tokens  []string
		values  []any
		isArray bool
	)
	if strings.HasPrefix(paramType, "[") && strings.HasSuffix(paramType, "]") {
		isArray = true
		for _, tok := range strings.Split(paramType[1:len(paramType)-1], ",") {
			tokens = append(tokens, strings.TrimSpace(tok))
		}
		seq, ok := value.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: array parameter %q requires a sequence value, got %T", ErrInvalidRequest, name, value)
		}
		values = seq
	} else {
		tokens = []string{paramType}
		values = []any{value}
	}

	if len(values) != len(tokens) {
		return nil, fmt.Errorf("%w: parameter %q: %d values for %d type tokens", ErrInvalidRequest, name, len(values), len(tokens))
	}

	coerced := make([]any, len(values))
	typeCode := make([]byte, len(tokens))
	for i, tok := range tokens {
		v, err := coerceValue(values[i], tok)
		if err != nil {
			return nil, fmt.Errorf("%w: parameter %q element %d: %v", ErrInvalidRequest, name, i, err)
		}
		coerced[i] = v
		typeCode[i] = strings.ToUpper(tok)[0]
	}

	if isArray {
		return command.Array{Name: name, Values: coerced, TypeCode: string(typeCode)}, nil
	}
	return command.Parameter{Name: name, Values: coerced, TypeCode: string(typeCode)}, nil
}

// RemoveParameter deletes the named parameter. There is no local existence
// check; the delegate is authoritative.
func (e *Environment) RemoveParameter(name string) error {
	if err := e.ensureActive(); err != nil {
		return err
	}

	e.logger.Info("removing parameter", "name", name)
	return e.paramCtl.RemoveParameter(name)
}

// ReserveAddr claims a communication address for a registered interface.
// Reservation is strictly exclusive within the environment; reserving an
// already-reserved address fails with ErrAddressInUse.
func (e *Environment) ReserveAddr(addr string) error {
	if err := e.ensureActive(); err != nil {
		return err
	}
	if _, exists := e.addrs[addr]; exists {
		return fmt.Errorf("%w: %q", ErrAddressInUse, addr)
	}

	e.addrs[addr] = struct{}{}
	return nil
}

// FreeAddr releases a previously reserved address. Freeing an address that
// was never reserved is tolerated so best-effort teardown is never blocked
// by imperfect bookkeeping; the anomaly is logged, not raised.
func (e *Environment) FreeAddr(addr string) error {
	if err := e.ensureActive(); err != nil {
		return err
	}
	if _, exists := e.addrs[addr]; !exists {
		e.logger.Warn("freeing an address that was never reserved", "addr", addr)
		return nil
	}

	delete(e.addrs, addr)
	return nil
}
