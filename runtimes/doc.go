// Package runtimes contains Runtime implementations for ocbot.
//
// Each runtime lives in its own subpackage (runtimes/httpapi, runtimes/memory)
// and registers itself by name from init(). Importing a runtime package for its
// side effect makes it available to Create:
//
//	import _ "github.com/petal-labs/ocbot/runtimes/httpapi"
//
//	rt, err := runtimes.Create("httpapi", token)
//
// # Concurrency
//
// Runtimes MUST be safe for concurrent calls. A single runtime is shared by
// every client a core.ClientFactory produces.
//
// # Errors
//
// Runtimes report failures as *core.InternalError carrying one of the core
// sentinel errors, so callers can match them with errors.Is regardless of
// which runtime produced them.
package runtimes
