// Package httpapi exposes the authorization and quota engine over HTTP and
// owns the JSON error contract.
//
// Every engine outcome maps to a stable machine-readable code: limit
// rejections are 402 LIMIT_REACHED with upgrade guidance, tenant-boundary
// denials are 403 ACADEMY_ACCESS_DENIED or 404 GROUP_NOT_FOUND (cross-tenant
// groups are indistinguishable from missing ones), and blocked downgrades
// are 400 PLAN_LIMIT_VIOLATIONS carrying the violation list. Internal
// faults always render as a bare 500 INTERNAL_ERROR; details go to the log,
// not the client.
//
// Handlers enforce the check order: tenant scope, academy access, quota,
// then the creating write. The write itself runs behind CreateResourceFunc
// so the storage layer can close the check-then-act gap transactionally.
package httpapi
