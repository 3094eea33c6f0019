// ABOUTME: Tests for the session layer that owns endpoint proxies.
// ABOUTME: Covers provisioning, routing by tag, limits, notifications, and teardown.

package session

import (
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/fleet-gateway/internal/command"
	"github.com/2389/fleet-gateway/internal/endpoint"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingDelegate satisfies every capability interface and counts commands.
type recordingDelegate struct {
	mu sync.Mutex

	createdRobots       []string
	destroyedRobots     []string
	createdContainers   []string
	destroyedContainers []string
	addedNodes          []command.Node
	addedParams         []command.Param
}

func (d *recordingDelegate) CreateRobot(cmd command.Robot) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.createdRobots = append(d.createdRobots, cmd.RobotID)
	return nil
}

func (d *recordingDelegate) DestroyRobot(robotID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.destroyedRobots = append(d.destroyedRobots, robotID)
	return nil
}

func (d *recordingDelegate) CreateContainer(cmd command.Container) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.createdContainers = append(d.createdContainers, cmd.Tag)
	return nil
}

func (d *recordingDelegate) DestroyContainer(tag string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.destroyedContainers = append(d.destroyedContainers, tag)
	return nil
}

func (d *recordingDelegate) AddNode(cmd command.Node) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.addedNodes = append(d.addedNodes, cmd)
	return nil
}

func (d *recordingDelegate) RemoveNode(tag string) error { return nil }

func (d *recordingDelegate) AddParameter(cmd command.Param) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.addedParams = append(d.addedParams, cmd)
	return nil
}

func (d *recordingDelegate) RemoveParameter(name string) error { return nil }

// recordingNotifier captures connectivity updates.
type recordingNotifier struct {
	updates []notifierUpdate
}

type notifierUpdate struct {
	userID    string
	tag       string
	connected bool
}

func (n *recordingNotifier) ContainerUpdate(userID, tag string, connected bool) {
	n.updates = append(n.updates, notifierUpdate{userID: userID, tag: tag, connected: connected})
}

func TestCreateRobot(t *testing.T) {
	delegate := &recordingDelegate{}
	sess := New("alice", nil, Limits{}, testLogger())

	require.NoError(t, sess.CreateRobot("rob-1", "key", delegate))
	assert.Equal(t, []string{"rob-1"}, delegate.createdRobots)
	assert.Equal(t, []string{"rob-1"}, sess.Robots())

	// Same ID again is rejected before any delegate call.
	err := sess.CreateRobot("rob-1", "key", delegate)
	assert.ErrorIs(t, err, ErrTagInUse)
	assert.Len(t, delegate.createdRobots, 1)
}

func TestCreateRobot_ContractViolation(t *testing.T) {
	sess := New("alice", nil, Limits{}, testLogger())

	err := sess.CreateRobot("rob-1", "key", struct{}{})
	assert.ErrorIs(t, err, endpoint.ErrContractViolation)
	assert.Empty(t, sess.Robots())
}

func TestLimits(t *testing.T) {
	delegate := &recordingDelegate{}
	sess := New("alice", nil, Limits{MaxRobots: 1, MaxContainers: 1}, testLogger())

	require.NoError(t, sess.CreateRobot("rob-1", "key", delegate))
	assert.ErrorIs(t, sess.CreateRobot("rob-2", "key", delegate), ErrLimitReached)

	require.NoError(t, sess.CreateContainer("ctr-1", delegate))
	assert.ErrorIs(t, sess.CreateContainer("ctr-2", delegate), ErrLimitReached)

	// Destroying frees the slot.
	require.NoError(t, sess.DestroyRobot("rob-1"))
	require.NoError(t, sess.CreateRobot("rob-2", "key", delegate))
}

func TestDestroyUnknown(t *testing.T) {
	sess := New("alice", nil, Limits{}, testLogger())

	assert.ErrorIs(t, sess.DestroyRobot("rob-1"), ErrTagNotFound)
	assert.ErrorIs(t, sess.DestroyContainer("ctr-1"), ErrTagNotFound)
	assert.ErrorIs(t, sess.AddNode("ctr-1", "t", "p", "e", "", "n", "/ns"), ErrTagNotFound)
	assert.ErrorIs(t, sess.SetConnected("ctr-1", true), ErrTagNotFound)
}

func TestContainerOperationsRoutedByTag(t *testing.T) {
	delegate := &recordingDelegate{}
	sess := New("alice", nil, Limits{}, testLogger())

	require.NoError(t, sess.CreateContainer("nav", delegate))
	require.NoError(t, sess.AddNode("nav", "planner", "navigation", "planner_node", "", "planner", "/nav"))
	require.NoError(t, sess.AddParameter("nav", "/nav/rate", "10", "int"))

	require.Len(t, delegate.addedNodes, 1)
	assert.Equal(t, "planner", delegate.addedNodes[0].Tag)
	require.Len(t, delegate.addedParams, 1)
	assert.Equal(t, "/nav/rate", delegate.addedParams[0].ParamName())

	// Validation failures surface through the session unchanged.
	assert.ErrorIs(t, sess.AddNode("nav", "t", "p", "e", "", "n", "123bad!"), endpoint.ErrInvalidRequest)
	assert.ErrorIs(t, sess.AddParameter("nav", "/nav/p", "maybe", "bool"), endpoint.ErrInvalidRequest)
}

func TestConnectivityNotifications(t *testing.T) {
	delegate := &recordingDelegate{}
	notifier := &recordingNotifier{}
	sess := New("alice", notifier, Limits{}, testLogger())

	require.NoError(t, sess.CreateContainer("nav", delegate))
	require.NoError(t, sess.SetConnected("nav", true))

	require.Len(t, notifier.updates, 1)
	assert.Equal(t, notifierUpdate{userID: "alice", tag: "nav", connected: true}, notifier.updates[0])

	// Duplicate readiness is rejected and not re-notified.
	assert.ErrorIs(t, sess.SetConnected("nav", true), endpoint.ErrInvalidRequest)
	assert.Len(t, notifier.updates, 1)

	require.NoError(t, sess.SetConnected("nav", false))
	assert.Len(t, notifier.updates, 2)
}

func TestRegisterInterface(t *testing.T) {
	delegate := &recordingDelegate{}
	sess := New("alice", nil, Limits{}, testLogger())
	require.NoError(t, sess.CreateContainer("nav", delegate))

	handle := &stubInterface{}
	require.NoError(t, sess.RegisterInterface("nav", handle))
	assert.ErrorIs(t, sess.RegisterInterface("nav", handle), endpoint.ErrInterfaceRegistered)

	require.NoError(t, sess.UnregisterInterface("nav", handle))
	assert.ErrorIs(t, sess.UnregisterInterface("nav", handle), endpoint.ErrInterfaceNotRegistered)
}

type stubInterface struct {
	deleted int
}

func (s *stubInterface) BindControl(delegate any) {}
func (s *stubInterface) Delete()                  { s.deleted++ }

func TestClose(t *testing.T) {
	delegate := &recordingDelegate{}
	sess := New("alice", nil, Limits{}, testLogger())

	require.NoError(t, sess.CreateRobot("rob-1", "key", delegate))
	require.NoError(t, sess.CreateContainer("nav", delegate))
	handle := &stubInterface{}
	require.NoError(t, sess.RegisterInterface("nav", handle))

	require.NoError(t, sess.Close())

	assert.Equal(t, []string{"nav"}, delegate.destroyedContainers)
	assert.Equal(t, []string{"rob-1"}, delegate.destroyedRobots)
	assert.Equal(t, 1, handle.deleted)

	// A closed session accepts nothing further.
	assert.ErrorIs(t, sess.CreateRobot("rob-2", "key", delegate), ErrSessionClosed)
	assert.ErrorIs(t, sess.Close(), ErrSessionClosed)
	assert.ErrorIs(t, sess.DestroyContainer("nav"), ErrTagNotFound)
}
