// ABOUTME: Provisioning manifest describing the robots and containers a gateway boots with.
// ABOUTME: TOML on disk; validated against graph-resource naming rules at load.

package manifest

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/2389/fleet-gateway/internal/naming"
)

// Manifest lists the resources to provision for a session at startup.
type Manifest struct {
	Robots     []Robot     `toml:"robot"`
	Containers []Container `toml:"container"`
}

// Robot declares one expected robot connection.
type Robot struct {
	ID  string `toml:"id"`
	Key string `toml:"key"`
}

// Container declares one containerized computation graph and its contents.
type Container struct {
	Tag        string      `toml:"tag"`
	Nodes      []Node      `toml:"node"`
	Parameters []Parameter `toml:"parameter"`
}

// Node declares one graph node to launch inside a container.
type Node struct {
	Tag        string `toml:"tag"`
	Package    string `toml:"package"`
	Executable string `toml:"executable"`
	Args       string `toml:"args"`
	Name       string `toml:"name"`
	Namespace  string `toml:"namespace"`
}

// Parameter declares one graph parameter. Value keeps whatever TOML type the
// manifest author wrote; coercion against Type happens in the endpoint layer.
type Parameter struct {
	Name  string `toml:"name"`
	Type  string `toml:"type"`
	Value any    `toml:"value"`
}

// Load reads and validates a manifest from path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates manifest TOML.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("validating manifest: %w", err)
	}
	return &m, nil
}

// Validate checks identifiers for presence, uniqueness, and legal naming.
func (m *Manifest) Validate() error {
	robotIDs := make(map[string]bool)
	for i, r := range m.Robots {
		if r.ID == "" {
			return fmt.Errorf("robot %d: id is required", i)
		}
		if robotIDs[r.ID] {
			return fmt.Errorf("robot %q declared twice", r.ID)
		}
		robotIDs[r.ID] = true
	}

	tags := make(map[string]bool)
	for i, c := range m.Containers {
		if c.Tag == "" {
			return fmt.Errorf("container %d: tag is required", i)
		}
		if tags[c.Tag] {
			return fmt.Errorf("container %q declared twice", c.Tag)
		}
		tags[c.Tag] = true

		nodeTags := make(map[string]bool)
		for j, n := range c.Nodes {
			if n.Tag == "" {
				return fmt.Errorf("container %q node %d: tag is required", c.Tag, j)
			}
			if nodeTags[n.Tag] {
				return fmt.Errorf("container %q node %q declared twice", c.Tag, n.Tag)
			}
			nodeTags[n.Tag] = true
			if n.Package == "" || n.Executable == "" {
				return fmt.Errorf("container %q node %q: package and executable are required", c.Tag, n.Tag)
			}
			if !naming.IsLegalName(n.Namespace) {
				return fmt.Errorf("container %q node %q: namespace %q is not a legal graph-resource name", c.Tag, n.Tag, n.Namespace)
			}
		}

		for j, p := range c.Parameters {
			if p.Name == "" {
				return fmt.Errorf("container %q parameter %d: name is required", c.Tag, j)
			}
			if !naming.IsLegalName(p.Name) {
				return fmt.Errorf("container %q parameter %q: not a legal graph-resource name", c.Tag, p.Name)
			}
			if p.Type == "" {
				return fmt.Errorf("container %q parameter %q: type is required", c.Tag, p.Name)
			}
		}
	}

	return nil
}
