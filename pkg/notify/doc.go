// Package notify delivers outbound notifications to academy owners.
//
// The Deliverer interface abstracts the transport; the package ships a
// Postmark-backed implementation for production and an in-memory one for
// tests. SubscribeDowngradeNotices connects the deliverer to the event bus
// so owners are notified when a forced plan downgrade leaves academies over
// their new limits.
package notify
