// Package session owns the endpoint proxies provisioned for one user.
//
// # Overview
//
// A Session is the surrounding layer the endpoint package expects: it holds
// every robot and container proxy belonging to a user, serializes all proxy
// mutations behind one mutex, and implements endpoint.Owner so container
// connectivity changes reach the configured ContainerNotifier.
//
// Key operations:
//
//   - CreateRobot / DestroyRobot: provision and tear down robot proxies
//   - CreateContainer / DestroyContainer: provision and tear down containers
//   - AddNode, AddParameter, SetConnected, RegisterInterface: container
//     operations routed by tag
//   - Close(): best-effort teardown of everything, containers first
//
// # Thread Safety
//
// Session is safe for concurrent use. The proxies it owns are not; they rely
// on the session's mutex for mutual exclusion, so proxies must only be
// reached through their session.
package session
