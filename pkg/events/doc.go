// Package events provides an in-process asynchronous bus for post-commit
// domain events: resource creations, plan changes, forced downgrades.
//
// Side effects such as notifications run after the originating transaction
// has committed and must never fail the request that triggered them.
// Publish therefore returns nothing; handler errors and panics are logged
// and swallowed. Dispatch is detached from the request context so handlers
// keep running after the response is written.
package events
