// Package protocol is a minimal in-process model of the windowing
// protocol's server side.
//
// It provides the pieces a protocol extension needs: a Display that
// advertises globals, Clients that bind them, and per-client Resources
// addressed by client-chosen object ids. Requests reach a resource's
// Dispatcher through Client.Dispatch; events and protocol errors sent to a
// client are recorded and can be read back with Client.Events.
//
// There is no wire transport. A Display and everything reachable from it
// belong to a single dispatch goroutine.
package protocol
