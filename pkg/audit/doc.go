// Package audit records every action performed through the super-admin
// escalation path: actor identity, impersonated target, addressed resource,
// and timestamp.
//
// The storage contract is append-only. Neither the Storage interface nor any
// implementation in this module exposes mutation or deletion of stored
// events. Use NewAsyncStorage to keep audit writes off the request path;
// the wrapper drains its buffer on Close and logs (never drops) failed
// appends.
package audit
