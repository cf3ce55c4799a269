package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/academykit/academykit/pkg/access"
	"github.com/academykit/academykit/pkg/authctx"
	"github.com/academykit/academykit/pkg/events"
	"github.com/academykit/academykit/pkg/profile"
	"github.com/academykit/academykit/pkg/quota"
)

// CreateResourceFunc performs a quota-guarded creation and returns the new
// resource's ID. Implementations own the check-then-act guard (for
// PostgreSQL, postgres.CreateGuard); a *quota.LimitError comes back when
// the plan has no room.
type CreateResourceFunc func(ctx context.Context, scope quota.Scope, resource quota.Resource) (uuid.UUID, error)

// ChangePlanFunc moves the owner's subscription to the target plan.
type ChangePlanFunc func(ctx context.Context, ownerID uuid.UUID, target quota.PlanCode) error

// Deps carries everything the HTTP handlers need.
type Deps struct {
	Responder *Responder
	Evaluator *quota.Evaluator
	Verifier  *access.Verifier
	Profiles  *profile.Service
	Bus       *events.Bus

	CreateResource CreateResourceFunc
	ChangePlan     ChangePlanFunc
}

// Handler exposes the engine over HTTP: quota-gated creation, plan changes
// with downgrade protection, usage reporting, and guarded profile mutation.
type Handler struct {
	deps Deps
}

// NewHandler creates the handler. Panics if a required dependency is nil.
func NewHandler(deps Deps) *Handler {
	if deps.Responder == nil {
		panic("httpapi: Responder is required")
	}
	if deps.Evaluator == nil {
		panic("httpapi: quota.Evaluator is required")
	}
	if deps.Verifier == nil {
		panic("httpapi: access.Verifier is required")
	}
	if deps.Profiles == nil {
		panic("httpapi: profile.Service is required")
	}
	if deps.Bus == nil {
		panic("httpapi: events.Bus is required")
	}
	if deps.CreateResource == nil {
		panic("httpapi: CreateResourceFunc is required")
	}
	if deps.ChangePlan == nil {
		panic("httpapi: ChangePlanFunc is required")
	}
	return &Handler{deps: deps}
}

// Routes mounts the handler on a chi router.
func (h *Handler) Routes() chi.Router {
	rp := h.deps.Responder

	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(rp.RequireTenant)
		r.Post("/academies/{academyID}/{resource}", h.createResource)
		r.Get("/academies/{academyID}/groups/{groupID}", h.checkGroup)
		r.Get("/usage", h.usage)
	})

	r.Group(func(r chi.Router) {
		r.Use(rp.RequireRole(authctx.RoleOwner, authctx.RoleAdmin))
		r.Post("/plan", h.changePlan)
	})

	r.Get("/profiles/{profileID}", h.getProfile)
	r.Patch("/profiles/{profileID}", h.updateProfile)

	return r
}

// createResource gates a creation: academy access first, then the guarded
// quota check and insert, then the post-commit event.
func (h *Handler) createResource(w http.ResponseWriter, r *http.Request) {
	rp := h.deps.Responder
	ctx := r.Context()
	tc := authctx.MustFromContext(ctx)
	tenantID, err := tc.TenantID()
	if err != nil {
		rp.WriteError(w, r, err)
		return
	}

	academyID, err := uuid.Parse(chi.URLParam(r, "academyID"))
	if err != nil {
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: CodeInvalidRequest, Message: "invalid academy id"})
		return
	}

	resource, ok := parseResource(chi.URLParam(r, "resource"))
	if !ok {
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: CodeInvalidRequest, Message: "unknown resource type"})
		return
	}

	decision, err := h.deps.Verifier.VerifyAcademyAccess(ctx, academyID, tenantID)
	if err != nil {
		rp.WriteError(w, r, err)
		return
	}
	if !decision.Allowed {
		rp.WriteDenial(w, decision.Reason)
		return
	}

	scope := quota.Scope{TenantID: tenantID, AcademyID: academyID}
	id, err := h.deps.CreateResource(ctx, scope, resource)
	if err != nil {
		rp.WriteError(w, r, err)
		return
	}

	h.deps.Bus.Publish(ctx, events.Event{
		Kind:     events.KindResourceCreated,
		TenantID: tenantID,
		Payload: events.ResourceCreated{
			Resource:   resource,
			AcademyID:  academyID,
			ResourceID: id,
		},
	})

	WriteJSON(w, http.StatusCreated, map[string]string{"id": id.String()})
}

// checkGroup verifies group reachability within the caller's tenant. Every
// denial reads as GROUP_NOT_FOUND.
func (h *Handler) checkGroup(w http.ResponseWriter, r *http.Request) {
	rp := h.deps.Responder
	ctx := r.Context()
	tc := authctx.MustFromContext(ctx)
	tenantID, err := tc.TenantID()
	if err != nil {
		rp.WriteError(w, r, err)
		return
	}

	academyID, err := uuid.Parse(chi.URLParam(r, "academyID"))
	if err != nil {
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: CodeInvalidRequest, Message: "invalid academy id"})
		return
	}
	groupID, err := uuid.Parse(chi.URLParam(r, "groupID"))
	if err != nil {
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: CodeInvalidRequest, Message: "invalid group id"})
		return
	}

	decision, err := h.deps.Verifier.VerifyGroupAccess(ctx, groupID, tenantID, academyID)
	if err != nil {
		rp.WriteError(w, r, err)
		return
	}
	if !decision.Allowed {
		rp.WriteDenial(w, decision.Reason)
		return
	}

	WriteJSON(w, http.StatusOK, decision)
}

// usage reports per-resource usage for the caller's tenant.
func (h *Handler) usage(w http.ResponseWriter, r *http.Request) {
	rp := h.deps.Responder
	ctx := r.Context()
	tc := authctx.MustFromContext(ctx)
	tenantID, err := tc.TenantID()
	if err != nil {
		rp.WriteError(w, r, err)
		return
	}

	scope := quota.Scope{TenantID: tenantID}
	if raw := r.URL.Query().Get("academyId"); raw != "" {
		academyID, err := uuid.Parse(raw)
		if err != nil {
			WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: CodeInvalidRequest, Message: "invalid academy id"})
			return
		}
		scope.AcademyID = academyID
	}

	report := make(map[string]quota.UsageInfo, len(quota.QuotaBoundResources))
	for _, resource := range quota.QuotaBoundResources {
		resourceScope := scope
		if resource == quota.ResourceAcademies {
			resourceScope.AcademyID = uuid.UUID{}
		}
		info, err := h.deps.Evaluator.Usage(ctx, resourceScope, resource)
		if err != nil {
			rp.WriteError(w, r, err)
			return
		}
		report[string(resource)] = info
	}

	WriteJSON(w, http.StatusOK, report)
}

type changePlanRequest struct {
	Plan  string `json:"plan"`
	Force bool   `json:"force"`
}

// changePlan moves the owner to another plan. Downgrades that would leave
// resources over the target limits are blocked with the violation list
// unless force is set; forced downgrades go through and queue an owner
// notice via the event bus.
func (h *Handler) changePlan(w http.ResponseWriter, r *http.Request) {
	rp := h.deps.Responder
	ctx := r.Context()
	tc := authctx.MustFromContext(ctx)

	actor, ok := tc.Profile()
	if !ok {
		rp.WriteError(w, r, authctx.ErrUnauthenticated)
		return
	}
	tenantID, err := tc.TenantID()
	if err != nil {
		rp.WriteError(w, r, err)
		return
	}

	var req changePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: CodeInvalidRequest, Message: "invalid request body"})
		return
	}
	target := quota.PlanCode(req.Plan)
	if !target.Valid() {
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: CodeInvalidRequest, Message: "unknown plan"})
		return
	}

	// The subscription belongs to the tenant's owner, who is not
	// necessarily the caller: admins may change the plan too.
	sub, err := h.deps.Evaluator.Subscription(ctx, tenantID)
	if err != nil {
		rp.WriteError(w, r, err)
		return
	}
	if !sub.IsActive() {
		rp.WriteError(w, r, quota.ErrNoActiveSubscription)
		return
	}

	report, err := h.deps.Evaluator.CheckDowngrade(ctx, sub.OwnerID, target)
	if err != nil {
		rp.WriteError(w, r, err)
		return
	}

	if report.RequiresAction && !req.Force {
		rp.WriteViolations(w, report)
		return
	}

	if err := h.deps.ChangePlan(ctx, sub.OwnerID, target); err != nil {
		rp.WriteError(w, r, err)
		return
	}

	if report.RequiresAction {
		ownerEmail := actor.Email
		if sub.OwnerID != actor.ID {
			if owner, err := h.deps.Profiles.Get(ctx, tc, sub.OwnerID); err == nil {
				ownerEmail = owner.Email
			}
		}
		h.deps.Bus.Publish(ctx, events.Event{
			Kind:     events.KindPlanDowngradeForced,
			TenantID: tenantID,
			Payload: events.PlanDowngradeForced{
				OwnerID:    sub.OwnerID,
				OwnerEmail: ownerEmail,
				From:       sub.PlanCode,
				To:         target,
				Violations: report.Violations,
			},
		})
	} else {
		h.deps.Bus.Publish(ctx, events.Event{
			Kind:     events.KindPlanChanged,
			TenantID: tenantID,
			Payload:  events.PlanChanged{OwnerID: sub.OwnerID, From: sub.PlanCode, To: target},
		})
	}

	WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	rp := h.deps.Responder
	ctx := r.Context()
	tc := authctx.MustFromContext(ctx)

	profileID, err := uuid.Parse(chi.URLParam(r, "profileID"))
	if err != nil {
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: CodeInvalidRequest, Message: "invalid profile id"})
		return
	}

	p, err := h.deps.Profiles.Get(ctx, tc, profileID)
	if err != nil {
		rp.WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, p)
}

type updateProfileRequest struct {
	Email     *string `json:"email"`
	Role      *string `json:"role"`
	Suspended *bool   `json:"suspended"`
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	rp := h.deps.Responder
	ctx := r.Context()
	tc := authctx.MustFromContext(ctx)

	profileID, err := uuid.Parse(chi.URLParam(r, "profileID"))
	if err != nil {
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: CodeInvalidRequest, Message: "invalid profile id"})
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: CodeInvalidRequest, Message: "invalid request body"})
		return
	}

	changes := profile.Update{Email: req.Email, Suspended: req.Suspended}
	if req.Role != nil {
		role := authctx.Role(*req.Role)
		changes.Role = &role
	}

	updated, err := h.deps.Profiles.Update(ctx, tc, profileID, changes)
	if err != nil {
		rp.WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

// parseResource maps a URL segment to a creatable resource type. Academies
// are created at tenant level, not inside another academy.
func parseResource(raw string) (quota.Resource, bool) {
	resource := quota.Resource(raw)
	for _, known := range quota.QuotaBoundResources {
		if resource == known && resource != quota.ResourceAcademies {
			return resource, true
		}
	}
	return "", false
}
