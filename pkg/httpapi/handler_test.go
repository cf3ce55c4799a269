package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/academykit/academykit/pkg/access"
	"github.com/academykit/academykit/pkg/authctx"
	"github.com/academykit/academykit/pkg/events"
	"github.com/academykit/academykit/pkg/httpapi"
	"github.com/academykit/academykit/pkg/profile"
	"github.com/academykit/academykit/pkg/quota"
)

// faultableSubs wraps the memory subscription store so tests can simulate
// a storage outage on tenant lookups.
type faultableSubs struct {
	*quota.MemorySubscriptionStore

	mu  sync.Mutex
	err error
}

func (s *faultableSubs) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *faultableSubs) ByTenant(ctx context.Context, tenantID uuid.UUID) (*quota.Subscription, error) {
	s.mu.Lock()
	err := s.err
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return s.MemorySubscriptionStore.ByTenant(ctx, tenantID)
}

// testAPI wires the engine over memory implementations. Creation is
// serialized by a mutex, the memory analogue of the transactional guard.
type testAPI struct {
	handler  http.Handler
	bus      *events.Bus
	subs     *faultableSubs
	lister   *quota.MemoryAcademyLister
	provider *access.MemoryProvider
	profiles *profile.MemoryStore

	mu       sync.Mutex
	createMu sync.Mutex
	counts   map[uuid.UUID]map[quota.Resource]int64

	published []events.Event
	pubMu     sync.Mutex

	tenantID  uuid.UUID
	academyID uuid.UUID
	owner     *authctx.Profile
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	catalog, err := quota.NewCatalog(context.Background(), quota.NewInMemSource(quota.DefaultPlans()))
	require.NoError(t, err)

	api := &testAPI{
		bus:      events.NewBus(nil),
		subs:     &faultableSubs{MemorySubscriptionStore: quota.NewMemorySubscriptionStore()},
		lister:   quota.NewMemoryAcademyLister(),
		provider: access.NewMemoryProvider(),
		profiles: profile.NewMemoryStore(),
		counts:   make(map[uuid.UUID]map[quota.Resource]int64),
		tenantID: uuid.New(),
	}

	for _, kind := range []events.Kind{events.KindResourceCreated, events.KindPlanChanged, events.KindPlanDowngradeForced} {
		api.bus.Subscribe(kind, func(ctx context.Context, e events.Event) error {
			api.pubMu.Lock()
			defer api.pubMu.Unlock()
			api.published = append(api.published, e)
			return nil
		})
	}

	counters := quota.NewRegistry()
	for _, resource := range quota.QuotaBoundResources {
		counters.Register(resource, func(res quota.Resource) quota.CounterFunc {
			return func(ctx context.Context, scope quota.Scope) (int64, error) {
				api.mu.Lock()
				defer api.mu.Unlock()
				return api.counts[scope.AcademyID][res], nil
			}
		}(resource))
	}

	evaluator := quota.NewEvaluator(catalog, counters, api.subs, api.lister)
	verifier := access.NewVerifier(api.provider, api.provider)
	profiles := profile.NewService(api.profiles)
	responder := httpapi.NewResponder(catalog, nil)

	// Check and increment under one guard mutex so the fixture has the
	// same no-overshoot property as the serializable transaction guard.
	createResource := func(ctx context.Context, scope quota.Scope, resource quota.Resource) (uuid.UUID, error) {
		api.createMu.Lock()
		defer api.createMu.Unlock()

		if err := evaluator.AssertCanCreate(ctx, scope, resource); err != nil {
			return uuid.UUID{}, err
		}

		api.mu.Lock()
		defer api.mu.Unlock()
		if api.counts[scope.AcademyID] == nil {
			api.counts[scope.AcademyID] = make(map[quota.Resource]int64)
		}
		api.counts[scope.AcademyID][resource]++
		return uuid.New(), nil
	}

	changePlan := func(ctx context.Context, ownerID uuid.UUID, target quota.PlanCode) error {
		sub, err := api.subs.ByOwner(ctx, ownerID)
		if err != nil {
			return err
		}
		sub.PlanCode = target
		api.subs.Put(sub)
		return nil
	}

	api.handler = httpapi.NewHandler(httpapi.Deps{
		Responder:      responder,
		Evaluator:      evaluator,
		Verifier:       verifier,
		Profiles:       profiles,
		Bus:            api.bus,
		CreateResource: createResource,
		ChangePlan:     changePlan,
	}).Routes()

	// Seed a free-plan tenant with one academy and its owner.
	api.academyID = uuid.New()
	api.owner = &authctx.Profile{
		ID:       uuid.New(),
		Email:    "owner@club.example",
		Role:     authctx.RoleOwner,
		TenantID: &api.tenantID,
	}
	require.NoError(t, api.profiles.Save(context.Background(), api.owner))
	api.subs.Put(&quota.Subscription{
		OwnerID:  api.owner.ID,
		TenantID: api.tenantID,
		PlanCode: quota.PlanFree,
		Status:   quota.StatusActive,
	})
	api.provider.PutAcademy(access.Academy{ID: api.academyID, TenantID: api.tenantID, Name: "North Gym"})
	api.lister.Add(quota.Academy{ID: api.academyID, TenantID: api.tenantID, OwnerID: api.owner.ID, Name: "North Gym"})

	t.Cleanup(func() { _ = api.bus.Close() })
	return api
}

func (api *testAPI) setCount(academyID uuid.UUID, resource quota.Resource, n int64) {
	api.mu.Lock()
	defer api.mu.Unlock()
	if api.counts[academyID] == nil {
		api.counts[academyID] = make(map[quota.Resource]int64)
	}
	api.counts[academyID][resource] = n
}

func (api *testAPI) events(t *testing.T) []events.Event {
	t.Helper()
	require.NoError(t, api.bus.Close())
	api.pubMu.Lock()
	defer api.pubMu.Unlock()
	return append([]events.Event(nil), api.published...)
}

func (api *testAPI) do(t *testing.T, tc authctx.Context, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req = req.WithContext(authctx.WithContext(req.Context(), tc))
	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)
	return rec
}

func (api *testAPI) ownerContext(t *testing.T) authctx.Context {
	t.Helper()
	tc, err := authctx.TenantScoped(api.owner)
	require.NoError(t, err)
	return tc
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) httpapi.ErrorResponse {
	t.Helper()
	var body httpapi.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCreateResource(t *testing.T) {
	t.Parallel()

	t.Run("below limit creates and publishes", func(t *testing.T) {
		t.Parallel()

		api := newTestAPI(t)
		rec := api.do(t, api.ownerContext(t), http.MethodPost,
			fmt.Sprintf("/academies/%s/athletes", api.academyID), nil)

		require.Equal(t, http.StatusCreated, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.NotEmpty(t, body["id"])

		published := api.events(t)
		require.Len(t, published, 1)
		assert.Equal(t, events.KindResourceCreated, published[0].Kind)
		payload := published[0].Payload.(events.ResourceCreated)
		assert.Equal(t, quota.ResourceAthletes, payload.Resource)
		assert.Equal(t, api.academyID, payload.AcademyID)
	})

	t.Run("at limit returns upgrade guidance", func(t *testing.T) {
		t.Parallel()

		api := newTestAPI(t)
		api.setCount(api.academyID, quota.ResourceAthletes, 50)

		rec := api.do(t, api.ownerContext(t), http.MethodPost,
			fmt.Sprintf("/academies/%s/athletes", api.academyID), nil)

		require.Equal(t, http.StatusPaymentRequired, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, httpapi.CodeLimitReached, body.Error)
		require.NotNil(t, body.Details)
		assert.Equal(t, "athletes", body.Details.Resource)
		assert.Equal(t, int64(50), body.Details.Limit)
		assert.Equal(t, int64(50), body.Details.CurrentCount)
		assert.Equal(t, "pro", body.Details.UpgradeTo)
		require.NotNil(t, body.Details.UpgradeInfo)
		assert.Equal(t, "Pro", body.Details.UpgradeInfo.Plan)
		assert.Equal(t, int64(2900), body.Details.UpgradeInfo.Price.Amount)
		assert.NotEmpty(t, body.Details.UpgradeInfo.Benefits)

		assert.Empty(t, api.events(t))
	})

	t.Run("foreign academy is denied explicitly", func(t *testing.T) {
		t.Parallel()

		api := newTestAPI(t)
		foreignAcademy := uuid.New()
		api.provider.PutAcademy(access.Academy{ID: foreignAcademy, TenantID: uuid.New(), Name: "Other"})

		rec := api.do(t, api.ownerContext(t), http.MethodPost,
			fmt.Sprintf("/academies/%s/athletes", foreignAcademy), nil)

		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, httpapi.CodeAcademyAccessDenied, decodeError(t, rec).Error)
	})

	t.Run("missing academy is not found", func(t *testing.T) {
		t.Parallel()

		api := newTestAPI(t)
		rec := api.do(t, api.ownerContext(t), http.MethodPost,
			fmt.Sprintf("/academies/%s/athletes", uuid.New()), nil)

		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, httpapi.CodeAcademyNotFound, decodeError(t, rec).Error)
	})

	t.Run("subscription store outage is an internal error", func(t *testing.T) {
		t.Parallel()

		api := newTestAPI(t)
		api.subs.fail(errors.New("connection refused"))

		rec := api.do(t, api.ownerContext(t), http.MethodPost,
			fmt.Sprintf("/academies/%s/athletes", api.academyID), nil)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, httpapi.CodeInternalError, decodeError(t, rec).Error)
	})

	t.Run("unknown resource type", func(t *testing.T) {
		t.Parallel()

		api := newTestAPI(t)
		rec := api.do(t, api.ownerContext(t), http.MethodPost,
			fmt.Sprintf("/academies/%s/invoices", api.academyID), nil)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, httpapi.CodeInvalidRequest, decodeError(t, rec).Error)
	})
}

func TestTenantGate(t *testing.T) {
	t.Parallel()

	t.Run("anonymous", func(t *testing.T) {
		t.Parallel()

		api := newTestAPI(t)
		rec := api.do(t, authctx.Anonymous(), http.MethodGet, "/usage", nil)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, httpapi.CodeUnauthenticated, decodeError(t, rec).Error)
	})

	t.Run("authenticated without tenant", func(t *testing.T) {
		t.Parallel()

		api := newTestAPI(t)
		floating := &authctx.Profile{ID: uuid.New(), Role: authctx.RoleCoach}
		rec := api.do(t, authctx.Authenticated(floating), http.MethodGet, "/usage", nil)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, httpapi.CodeTenantRequired, decodeError(t, rec).Error)
	})

	t.Run("suspended owner", func(t *testing.T) {
		t.Parallel()

		api := newTestAPI(t)
		suspended := &authctx.Profile{
			ID:        uuid.New(),
			Role:      authctx.RoleOwner,
			TenantID:  &api.tenantID,
			Suspended: true,
		}
		rec := api.do(t, authctx.Authenticated(suspended), http.MethodGet, "/usage", nil)

		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, httpapi.CodeUnauthorized, decodeError(t, rec).Error)
	})
}

func TestCheckGroup(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	groupID := uuid.New()
	api.provider.PutGroup(access.Group{
		ID: groupID, AcademyID: api.academyID, TenantID: api.tenantID, Name: "U15",
	})
	foreignGroup := uuid.New()
	api.provider.PutGroup(access.Group{
		ID: foreignGroup, AcademyID: uuid.New(), TenantID: uuid.New(), Name: "Other",
	})

	t.Run("own group is reachable", func(t *testing.T) {
		rec := api.do(t, api.ownerContext(t), http.MethodGet,
			fmt.Sprintf("/academies/%s/groups/%s", api.academyID, groupID), nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("foreign and missing groups are indistinguishable", func(t *testing.T) {
		recForeign := api.do(t, api.ownerContext(t), http.MethodGet,
			fmt.Sprintf("/academies/%s/groups/%s", api.academyID, foreignGroup), nil)
		recMissing := api.do(t, api.ownerContext(t), http.MethodGet,
			fmt.Sprintf("/academies/%s/groups/%s", api.academyID, uuid.New()), nil)

		assert.Equal(t, http.StatusNotFound, recForeign.Code)
		assert.Equal(t, http.StatusNotFound, recMissing.Code)
		assert.Equal(t, recForeign.Body.String(), recMissing.Body.String())
	})
}

func TestChangePlan(t *testing.T) {
	t.Parallel()

	t.Run("upgrade goes through", func(t *testing.T) {
		t.Parallel()

		api := newTestAPI(t)
		rec := api.do(t, api.ownerContext(t), http.MethodPost, "/plan",
			map[string]any{"plan": "pro"})

		require.Equal(t, http.StatusOK, rec.Code)

		sub, err := api.subs.ByOwner(context.Background(), api.owner.ID)
		require.NoError(t, err)
		assert.Equal(t, quota.PlanPro, sub.PlanCode)

		published := api.events(t)
		require.Len(t, published, 1)
		assert.Equal(t, events.KindPlanChanged, published[0].Kind)
	})

	t.Run("downgrade with violations is blocked", func(t *testing.T) {
		t.Parallel()

		api := newTestAPI(t)
		api.subs.Put(&quota.Subscription{
			OwnerID: api.owner.ID, TenantID: api.tenantID,
			PlanCode: quota.PlanPro, Status: quota.StatusActive,
		})
		api.setCount(api.academyID, quota.ResourceAthletes, 150)

		rec := api.do(t, api.ownerContext(t), http.MethodPost, "/plan",
			map[string]any{"plan": "free"})

		require.Equal(t, http.StatusBadRequest, rec.Code)
		var body httpapi.ViolationsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, httpapi.CodePlanLimitViolations, body.Error)
		assert.True(t, body.RequiresAction)
		require.Len(t, body.Violations, 1)
		assert.Equal(t, "athletes", body.Violations[0].Resource)
		assert.Equal(t, int64(150), body.Violations[0].CurrentCount)
		assert.Equal(t, int64(50), body.Violations[0].Limit)

		// The plan must not have moved.
		sub, err := api.subs.ByOwner(context.Background(), api.owner.ID)
		require.NoError(t, err)
		assert.Equal(t, quota.PlanPro, sub.PlanCode)
	})

	t.Run("forced downgrade proceeds and queues a notice", func(t *testing.T) {
		t.Parallel()

		api := newTestAPI(t)
		api.subs.Put(&quota.Subscription{
			OwnerID: api.owner.ID, TenantID: api.tenantID,
			PlanCode: quota.PlanPro, Status: quota.StatusActive,
		})
		api.setCount(api.academyID, quota.ResourceAthletes, 150)

		rec := api.do(t, api.ownerContext(t), http.MethodPost, "/plan",
			map[string]any{"plan": "free", "force": true})

		require.Equal(t, http.StatusOK, rec.Code)

		sub, err := api.subs.ByOwner(context.Background(), api.owner.ID)
		require.NoError(t, err)
		assert.Equal(t, quota.PlanFree, sub.PlanCode)

		published := api.events(t)
		require.Len(t, published, 1)
		assert.Equal(t, events.KindPlanDowngradeForced, published[0].Kind)
		payload := published[0].Payload.(events.PlanDowngradeForced)
		assert.Equal(t, "owner@club.example", payload.OwnerEmail)
		assert.Equal(t, quota.PlanPro, payload.From)
		assert.Equal(t, quota.PlanFree, payload.To)
		assert.NotEmpty(t, payload.Violations)
	})

	t.Run("admin changes the plan on the owner's behalf", func(t *testing.T) {
		t.Parallel()

		api := newTestAPI(t)
		admin := &authctx.Profile{
			ID: uuid.New(), Email: "admin@club.example",
			Role: authctx.RoleAdmin, TenantID: &api.tenantID,
		}
		tc, err := authctx.TenantScoped(admin)
		require.NoError(t, err)

		rec := api.do(t, tc, http.MethodPost, "/plan", map[string]any{"plan": "pro"})

		require.Equal(t, http.StatusOK, rec.Code)

		sub, err := api.subs.ByOwner(context.Background(), api.owner.ID)
		require.NoError(t, err)
		assert.Equal(t, quota.PlanPro, sub.PlanCode)

		published := api.events(t)
		require.Len(t, published, 1)
		assert.Equal(t, events.KindPlanChanged, published[0].Kind)
		payload := published[0].Payload.(events.PlanChanged)
		assert.Equal(t, api.owner.ID, payload.OwnerID)
	})

	t.Run("admin forced downgrade notifies the owner", func(t *testing.T) {
		t.Parallel()

		api := newTestAPI(t)
		api.subs.Put(&quota.Subscription{
			OwnerID: api.owner.ID, TenantID: api.tenantID,
			PlanCode: quota.PlanPro, Status: quota.StatusActive,
		})
		api.setCount(api.academyID, quota.ResourceAthletes, 150)

		admin := &authctx.Profile{
			ID: uuid.New(), Email: "admin@club.example",
			Role: authctx.RoleAdmin, TenantID: &api.tenantID,
		}
		tc, err := authctx.TenantScoped(admin)
		require.NoError(t, err)

		rec := api.do(t, tc, http.MethodPost, "/plan",
			map[string]any{"plan": "free", "force": true})

		require.Equal(t, http.StatusOK, rec.Code)

		published := api.events(t)
		require.Len(t, published, 1)
		payload := published[0].Payload.(events.PlanDowngradeForced)
		assert.Equal(t, api.owner.ID, payload.OwnerID)
		assert.Equal(t, "owner@club.example", payload.OwnerEmail)
	})

	t.Run("coach cannot change the plan", func(t *testing.T) {
		t.Parallel()

		api := newTestAPI(t)
		coach := &authctx.Profile{ID: uuid.New(), Role: authctx.RoleCoach, TenantID: &api.tenantID}
		tc, err := authctx.TenantScoped(coach)
		require.NoError(t, err)

		rec := api.do(t, tc, http.MethodPost, "/plan", map[string]any{"plan": "pro"})

		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, httpapi.CodeUnauthorized, decodeError(t, rec).Error)
	})
}

func TestProfileEndpoints(t *testing.T) {
	t.Parallel()

	t.Run("super admin profile is immutable", func(t *testing.T) {
		t.Parallel()

		api := newTestAPI(t)
		root := &authctx.Profile{
			ID: uuid.New(), Email: "root@academykit.io",
			Role: authctx.RoleSuperAdmin, TenantID: &api.tenantID,
		}
		require.NoError(t, api.profiles.Save(context.Background(), root))

		rec := api.do(t, api.ownerContext(t), http.MethodPatch,
			"/profiles/"+root.ID.String(), map[string]any{"suspended": true})

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, httpapi.CodeImmutableSuperAdmin, decodeError(t, rec).Error)
	})

	t.Run("assigning super admin role is rejected", func(t *testing.T) {
		t.Parallel()

		api := newTestAPI(t)
		coach := &authctx.Profile{
			ID: uuid.New(), Email: "coach@club.example",
			Role: authctx.RoleCoach, TenantID: &api.tenantID,
		}
		require.NoError(t, api.profiles.Save(context.Background(), coach))

		rec := api.do(t, api.ownerContext(t), http.MethodPatch,
			"/profiles/"+coach.ID.String(), map[string]any{"role": "super_admin"})

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, httpapi.CodeImmutableSuperAdmin, decodeError(t, rec).Error)
	})

	t.Run("cross tenant profile reads as not found", func(t *testing.T) {
		t.Parallel()

		api := newTestAPI(t)
		otherTenant := uuid.New()
		foreign := &authctx.Profile{
			ID: uuid.New(), Email: "other@club.example",
			Role: authctx.RoleAthlete, TenantID: &otherTenant,
		}
		require.NoError(t, api.profiles.Save(context.Background(), foreign))

		rec := api.do(t, api.ownerContext(t), http.MethodGet,
			"/profiles/"+foreign.ID.String(), nil)

		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, httpapi.CodeProfileNotFound, decodeError(t, rec).Error)
	})
}

func TestUsage(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	api.setCount(api.academyID, quota.ResourceAthletes, 12)

	rec := api.do(t, api.ownerContext(t), http.MethodGet,
		"/usage?academyId="+api.academyID.String(), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var report map[string]quota.UsageInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, int64(12), report["athletes"].Current)
	assert.Equal(t, int64(50), report["athletes"].Limit)
}
