// Package access verifies cross-tenant resource ownership.
//
// Handlers call the verifier before any scoped read, update, or delete:
//
//	decision, err := verifier.VerifyAcademyAccess(ctx, academyID, tc.TenantID)
//	if err != nil {
//		// storage failure, escalate
//	}
//	if !decision.Allowed {
//		// decision.Reason maps directly to the HTTP error body
//	}
//
// Denials are results, not errors. Super-admin callers bypass these checks
// entirely through the escalate package and never reach the verifier.
package access
