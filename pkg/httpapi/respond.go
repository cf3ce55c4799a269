package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/academykit/academykit/pkg/access"
	"github.com/academykit/academykit/pkg/authctx"
	"github.com/academykit/academykit/pkg/escalate"
	"github.com/academykit/academykit/pkg/profile"
	"github.com/academykit/academykit/pkg/quota"
)

// Responder renders engine errors as the JSON error contract. It needs the
// plan catalog to enrich limit errors with upgrade pricing; internal faults
// are logged and never leak identifiers to the client.
type Responder struct {
	catalog *quota.Catalog
	log     *slog.Logger
}

// NewResponder creates a Responder. Panics if catalog is nil; a nil logger
// falls back to slog.Default.
func NewResponder(catalog *quota.Catalog, log *slog.Logger) *Responder {
	if catalog == nil {
		panic("httpapi: quota.Catalog is required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Responder{catalog: catalog, log: log}
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps an engine error onto the JSON error contract.
func (rp *Responder) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var limitErr *quota.LimitError
	if errors.As(err, &limitErr) {
		WriteJSON(w, http.StatusPaymentRequired, ErrorResponse{
			Error:   CodeLimitReached,
			Message: limitErr.Error(),
			Details: rp.limitDetails(limitErr),
		})
		return
	}

	switch {
	case errors.Is(err, access.ErrAcademyNotFound):
		WriteJSON(w, http.StatusNotFound, ErrorResponse{Error: CodeAcademyNotFound})
	case errors.Is(err, access.ErrGroupNotFound):
		WriteJSON(w, http.StatusNotFound, ErrorResponse{Error: CodeGroupNotFound})
	case errors.Is(err, profile.ErrNotFound):
		WriteJSON(w, http.StatusNotFound, ErrorResponse{Error: CodeProfileNotFound})
	case errors.Is(err, authctx.ErrUnauthenticated), errors.Is(err, authctx.ErrNoContext):
		WriteJSON(w, http.StatusUnauthorized, ErrorResponse{Error: CodeUnauthenticated})
	case errors.Is(err, authctx.ErrTenantRequired):
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: CodeTenantRequired})
	case errors.Is(err, authctx.ErrSuspended),
		errors.Is(err, authctx.ErrNotSuperAdmin),
		errors.Is(err, escalate.ErrNotSuperAdmin),
		errors.Is(err, profile.ErrUnauthorized):
		WriteJSON(w, http.StatusForbidden, ErrorResponse{Error: CodeUnauthorized})
	case errors.Is(err, profile.ErrImmutableSuperAdmin):
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: CodeImmutableSuperAdmin})
	case errors.Is(err, profile.ErrInvalidRole):
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: CodeInvalidRequest, Message: "unknown role"})
	case errors.Is(err, quota.ErrNoActiveSubscription), errors.Is(err, quota.ErrSubscriptionNotFound):
		WriteJSON(w, http.StatusPaymentRequired, ErrorResponse{Error: CodeNoActiveSubscription})
	default:
		rp.log.ErrorContext(r.Context(), "request failed", slog.Any("error", err))
		WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Error: CodeInternalError})
	}
}

// WriteDenial renders an access verifier denial. The status and code
// follow the reason: academy mismatches are explicit 403s, everything else
// reads as 404 so cross-tenant existence never leaks.
func (rp *Responder) WriteDenial(w http.ResponseWriter, reason access.Reason) {
	switch reason {
	case access.ReasonAcademyAccessDenied:
		WriteJSON(w, http.StatusForbidden, ErrorResponse{Error: CodeAcademyAccessDenied})
	case access.ReasonAcademyNotFound:
		WriteJSON(w, http.StatusNotFound, ErrorResponse{Error: CodeAcademyNotFound})
	default:
		WriteJSON(w, http.StatusNotFound, ErrorResponse{Error: CodeGroupNotFound})
	}
}

// WriteViolations renders a downgrade report whose violations block the
// requested plan change.
func (rp *Responder) WriteViolations(w http.ResponseWriter, report *quota.DowngradeReport) {
	body := ViolationsResponse{
		Error:          CodePlanLimitViolations,
		TargetPlan:     string(report.TargetPlan),
		RequiresAction: report.RequiresAction,
		Violations:     make([]ViolationBody, 0, len(report.Violations)),
	}
	for _, v := range report.Violations {
		body.Violations = append(body.Violations, ViolationBody{
			Resource:     string(v.Resource),
			AcademyID:    v.AcademyID.String(),
			AcademyName:  v.AcademyName,
			CurrentCount: v.CurrentCount,
			Limit:        v.Limit,
		})
	}
	WriteJSON(w, http.StatusBadRequest, body)
}

func (rp *Responder) limitDetails(limitErr *quota.LimitError) *LimitDetails {
	details := &LimitDetails{
		Resource:     string(limitErr.Resource),
		Limit:        limitErr.Limit,
		CurrentCount: limitErr.CurrentCount,
		UpgradeTo:    string(limitErr.UpgradeTo),
	}

	if limitErr.UpgradeTo != "" {
		if plan, ok := rp.catalog.Plan(limitErr.UpgradeTo); ok {
			details.UpgradeInfo = &UpgradeInfo{
				Plan:     plan.Nickname,
				Price:    Price{Amount: plan.Price.Amount, Currency: plan.Price.Currency},
				Benefits: plan.Benefits,
			}
		}
	}

	return details
}
