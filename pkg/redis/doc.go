// Package redis provides connection bootstrap for the Redis-backed caches
// in this module, such as the authctx profile cache: env-driven Config,
// Connect with retry, and a healthcheck closure.
package redis
