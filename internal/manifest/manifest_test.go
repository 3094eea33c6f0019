// ABOUTME: Tests for provisioning manifest parsing and validation.
// ABOUTME: Covers TOML decoding, mixed-type parameter values, and duplicate detection.

package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validManifest = `
[[robot]]
id = "rob-1"
key = "secret"

[[container]]
tag = "nav"

[[container.node]]
tag = "planner"
package = "navigation"
executable = "planner_node"
args = "--rate 10"
name = "planner"
namespace = "/nav"

[[container.parameter]]
name = "/nav/rate"
type = "int"
value = 10

[[container.parameter]]
name = "/nav/weights"
type = "[float,float,str]"
value = [0.4, 0.6, "euclidean"]
`

func TestParse_Valid(t *testing.T) {
	m, err := Parse([]byte(validManifest))
	require.NoError(t, err)

	require.Len(t, m.Robots, 1)
	assert.Equal(t, Robot{ID: "rob-1", Key: "secret"}, m.Robots[0])

	require.Len(t, m.Containers, 1)
	c := m.Containers[0]
	assert.Equal(t, "nav", c.Tag)

	require.Len(t, c.Nodes, 1)
	assert.Equal(t, "planner_node", c.Nodes[0].Executable)
	assert.Equal(t, "/nav", c.Nodes[0].Namespace)

	require.Len(t, c.Parameters, 2)
	assert.Equal(t, int64(10), c.Parameters[0].Value)
	assert.Equal(t, "[float,float,str]", c.Parameters[1].Type)
	assert.Equal(t, []any{0.4, 0.6, "euclidean"}, c.Parameters[1].Value)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "malformed toml",
			content: `[[robot]` + "\n",
		},
		{
			name: "robot without id",
			content: `
[[robot]]
key = "secret"
`,
		},
		{
			name: "duplicate robot",
			content: `
[[robot]]
id = "rob-1"

[[robot]]
id = "rob-1"
`,
		},
		{
			name: "duplicate container tag",
			content: `
[[container]]
tag = "nav"

[[container]]
tag = "nav"
`,
		},
		{
			name: "node without executable",
			content: `
[[container]]
tag = "nav"

[[container.node]]
tag = "planner"
package = "navigation"
`,
		},
		{
			name: "duplicate node tag",
			content: `
[[container]]
tag = "nav"

[[container.node]]
tag = "planner"
package = "navigation"
executable = "planner_node"

[[container.node]]
tag = "planner"
package = "navigation"
executable = "other_node"
`,
		},
		{
			name: "illegal node namespace",
			content: `
[[container]]
tag = "nav"

[[container.node]]
tag = "planner"
package = "navigation"
executable = "planner_node"
namespace = "123bad!"
`,
		},
		{
			name: "illegal parameter name",
			content: `
[[container]]
tag = "nav"

[[container.parameter]]
name = "not legal!"
type = "int"
value = 1
`,
		},
		{
			name: "parameter without type",
			content: `
[[container]]
tag = "nav"

[[container.parameter]]
name = "/nav/rate"
value = 1
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "manifest.toml")
	require.NoError(t, os.WriteFile(path, []byte(validManifest), 0644))

	m, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, m.Containers, 1)

	_, err = Load(filepath.Join(tmpDir, "missing.toml"))
	assert.Error(t, err)
}
