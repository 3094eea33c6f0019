// ABOUTME: Session owns the endpoint proxies provisioned for one user.
// ABOUTME: Serializes proxy mutations and routes container connectivity updates outward.

package session

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/2389/fleet-gateway/internal/endpoint"
)

// ErrTagInUse indicates a robot or container with the same tag already
// exists in this session.
var ErrTagInUse = errors.New("tag already in use")

// ErrTagNotFound indicates the specified robot or container does not exist.
var ErrTagNotFound = errors.New("tag not found")

// ErrLimitReached indicates the session's per-kind resource limit is exhausted.
var ErrLimitReached = errors.New("resource limit reached")

// ErrSessionClosed indicates an operation on a closed session.
var ErrSessionClosed = errors.New("session closed")

// ContainerNotifier receives container connectivity change notifications.
// Implementations must not call back into the session.
type ContainerNotifier interface {
	ContainerUpdate(userID, tag string, connected bool)
}

// Limits caps the resources one session may hold. Zero means unlimited.
type Limits struct {
	MaxRobots     int
	MaxContainers int
}

// Session owns every endpoint proxy provisioned for one user. The proxies
// themselves are not safe for concurrent use; the session provides the
// required mutual exclusion around every mutating operation.
type Session struct {
	userID   string
	notifier ContainerNotifier
	limits   Limits
	logger   *slog.Logger

	mu         sync.Mutex
	robots     map[string]*endpoint.Robot
	containers map[string]*endpoint.Container
	closed     bool
}

// New creates a session for userID. notifier may be nil if the caller has no
// use for connectivity updates.
func New(userID string, notifier ContainerNotifier, limits Limits, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		userID:     userID,
		notifier:   notifier,
		limits:     limits,
		logger:     logger.With("component", "session", "user_id", userID),
		robots:     make(map[string]*endpoint.Robot),
		containers: make(map[string]*endpoint.Container),
	}
}

// UserID returns the identifier of the user owning this session.
func (s *Session) UserID() string { return s.userID }

// SendContainerUpdate implements endpoint.Owner: connectivity changes of
// owned containers are forwarded to the notifier.
func (s *Session) SendContainerUpdate(tag string, connected bool) {
	s.logger.Info("container connectivity changed", "tag", tag, "connected", connected)
	if s.notifier != nil {
		s.notifier.ContainerUpdate(s.userID, tag, connected)
	}
}

// CreateRobot provisions a proxy for an inbound robot connection. The
// delegate must satisfy endpoint.RobotControl. A fresh communication ID is
// allocated for the endpoint.
func (s *Session) CreateRobot(robotID, authKey string, delegate any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if _, exists := s.robots[robotID]; exists {
		return fmt.Errorf("%w: robot %q", ErrTagInUse, robotID)
	}
	if s.limits.MaxRobots > 0 && len(s.robots) >= s.limits.MaxRobots {
		return fmt.Errorf("%w: at most %d robots", ErrLimitReached, s.limits.MaxRobots)
	}

	robot, err := endpoint.NewRobot(s, robotID, uuid.New().String(), authKey, delegate, s.logger)
	if err != nil {
		return err
	}
	s.robots[robotID] = robot
	return nil
}

// DestroyRobot tears down the robot proxy identified by robotID.
func (s *Session) DestroyRobot(robotID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	robot, exists := s.robots[robotID]
	if !exists {
		return fmt.Errorf("%w: robot %q", ErrTagNotFound, robotID)
	}
	delete(s.robots, robotID)
	return robot.Delete()
}

// CreateContainer provisions a proxy for a containerized computation graph.
// The delegate must satisfy endpoint.ContainerControl, endpoint.NodeControl,
// and endpoint.ParameterControl.
func (s *Session) CreateContainer(tag string, delegate any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if _, exists := s.containers[tag]; exists {
		return fmt.Errorf("%w: container %q", ErrTagInUse, tag)
	}
	if s.limits.MaxContainers > 0 && len(s.containers) >= s.limits.MaxContainers {
		return fmt.Errorf("%w: at most %d containers", ErrLimitReached, s.limits.MaxContainers)
	}

	container, err := endpoint.NewContainer(s, tag, uuid.New().String(), delegate, s.logger)
	if err != nil {
		return err
	}
	s.containers[tag] = container
	return nil
}

// DestroyContainer tears down the container proxy identified by tag,
// cascading to its registered interfaces.
func (s *Session) DestroyContainer(tag string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	container, exists := s.containers[tag]
	if !exists {
		return fmt.Errorf("%w: container %q", ErrTagNotFound, tag)
	}
	delete(s.containers, tag)
	return container.Delete()
}

// AddNode launches a node in the container identified by tag.
func (s *Session) AddNode(tag, nodeTag, pkg, exe, args, name, namespace string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	container, exists := s.containers[tag]
	if !exists {
		return fmt.Errorf("%w: container %q", ErrTagNotFound, tag)
	}
	return container.AddNode(nodeTag, pkg, exe, args, name, namespace)
}

// RemoveNode stops a node in the container identified by tag.
func (s *Session) RemoveNode(tag, nodeTag string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	container, exists := s.containers[tag]
	if !exists {
		return fmt.Errorf("%w: container %q", ErrTagNotFound, tag)
	}
	return container.RemoveNode(nodeTag)
}

// AddParameter stores a parameter in the container identified by tag.
func (s *Session) AddParameter(tag, name string, value any, paramType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	container, exists := s.containers[tag]
	if !exists {
		return fmt.Errorf("%w: container %q", ErrTagNotFound, tag)
	}
	return container.AddParameter(name, value, paramType)
}

// RemoveParameter deletes a parameter from the container identified by tag.
func (s *Session) RemoveParameter(tag, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	container, exists := s.containers[tag]
	if !exists {
		return fmt.Errorf("%w: container %q", ErrTagNotFound, tag)
	}
	return container.RemoveParameter(name)
}

// SetConnected records a connectivity announcement for the container
// identified by tag and notifies the configured ContainerNotifier.
func (s *Session) SetConnected(tag string, connected bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	container, exists := s.containers[tag]
	if !exists {
		return fmt.Errorf("%w: container %q", ErrTagNotFound, tag)
	}
	return container.SetConnectedFlag(connected)
}

// RegisterInterface registers an auxiliary interface handle against the
// container identified by tag.
func (s *Session) RegisterInterface(tag string, handle endpoint.Interface) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	container, exists := s.containers[tag]
	if !exists {
		return fmt.Errorf("%w: container %q", ErrTagNotFound, tag)
	}
	return container.RegisterInterface(handle)
}

// UnregisterInterface removes an auxiliary interface handle from the
// container identified by tag.
func (s *Session) UnregisterInterface(tag string, handle endpoint.Interface) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	container, exists := s.containers[tag]
	if !exists {
		return fmt.Errorf("%w: container %q", ErrTagNotFound, tag)
	}
	return container.UnregisterInterface(handle)
}

// Robots lists the robot IDs currently provisioned, sorted.
func (s *Session) Robots() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.robots))
	for id := range s.robots {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Containers lists the container tags currently provisioned, sorted.
func (s *Session) Containers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	tags := make([]string, 0, len(s.containers))
	for tag := range s.containers {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	return tags
}

// Close tears down every remaining proxy, containers first, then marks the
// session closed. Teardown is best-effort: every proxy is deleted even if
// some destruction commands fail, and the failures are reported joined.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	s.closed = true

	var errs []error
	for _, tag := range sortedKeys(s.containers) {
		if err := s.containers[tag].Delete(); err != nil {
			errs = append(errs, fmt.Errorf("container %q: %w", tag, err))
		}
		delete(s.containers, tag)
	}
	for _, id := range sortedKeys(s.robots) {
		if err := s.robots[id].Delete(); err != nil {
			errs = append(errs, fmt.Errorf("robot %q: %w", id, err))
		}
		delete(s.robots, id)
	}

	s.logger.Info("session closed")
	return errors.Join(errs...)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
