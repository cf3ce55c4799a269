// Package authctx resolves request identity into a sealed, request-scoped
// authorization context.
//
// The context is a tagged union over the shapes a handler may require:
//
//   - Anonymous - no credential on the request
//   - Authenticated - a profile without tenant scope (including suspended identities)
//   - TenantScoped - a profile bound to a tenant
//   - SuperAdmin - the platform-operator role, handled by the escalate package
//
// Handlers that require a tenant call Context.TenantID and branch on the
// error instead of null-checking fields. Resolution itself never fails just
// because a tenant is absent.
//
// # Usage
//
//	resolver := authctx.NewResolver(
//		authctx.NewCompositeResolver(authctx.BearerResolver{}, authctx.HeaderResolver{HeaderName: "X-Api-Key"}),
//		profileProvider,
//		authctx.WithCache(authctx.NewMemoryCache(), 5*time.Minute),
//	)
//
//	router.Use(authctx.Middleware(resolver))
//	router.Use(authctx.RequireTenant(nil))
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//		tc := authctx.MustFromContext(r.Context())
//		tenantID, _ := tc.TenantID()
//		// ...
//	}
//
// Suspension is enforced structurally: a suspended profile can only ever
// produce an Authenticated context, so TenantID fails with ErrSuspended for
// every tenant-scoped operation regardless of the profile's role.
package authctx
