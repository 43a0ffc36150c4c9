package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"compass/internal/domain"
	"compass/internal/service"
)

type stubFamilyService struct {
	family  domain.Family
	err     error
	ownerID string
	input   service.CreateFamilyInput
	update  service.UpdateFamilyInput
	deleted bool
}

func (s *stubFamilyService) Create(_ context.Context, ownerID string, input service.CreateFamilyInput) (domain.Family, error) {
	s.ownerID, s.input = ownerID, input
	return s.family, s.err
}

func (s *stubFamilyService) GetForOwner(_ context.Context, ownerID string) (domain.Family, error) {
	s.ownerID = ownerID
	return s.family, s.err
}

func (s *stubFamilyService) Update(_ context.Context, ownerID string, input service.UpdateFamilyInput) (domain.Family, error) {
	s.ownerID, s.update = ownerID, input
	return s.family, s.err
}

func (s *stubFamilyService) Delete(_ context.Context, ownerID string) error {
	s.ownerID = ownerID
	s.deleted = s.err == nil
	return s.err
}

type stubChildService struct {
	child   domain.ChildProfile
	list    []domain.ChildProfile
	err     error
	input   service.CreateChildInput
	update  service.UpdateChildInput
	childID string
	deleted string
}

func (s *stubChildService) Create(_ context.Context, _ string, input service.CreateChildInput) (domain.ChildProfile, error) {
	s.input = input
	return s.child, s.err
}

func (s *stubChildService) Get(_ context.Context, _, _ string) (domain.ChildProfile, error) {
	return s.child, s.err
}

func (s *stubChildService) ListForOwner(context.Context, string) ([]domain.ChildProfile, error) {
	return s.list, s.err
}

func (s *stubChildService) Update(_ context.Context, _, childID string, input service.UpdateChildInput) (domain.ChildProfile, error) {
	s.childID, s.update = childID, input
	return s.child, s.err
}

func (s *stubChildService) Delete(_ context.Context, _, childID string) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = childID
	return nil
}

type stubRecommendationService struct {
	recs     []domain.Recommendation
	err      error
	req      service.GenerateRequest
	deadline bool
	listUser string
	listID   string
}

func (s *stubRecommendationService) Generate(ctx context.Context, req service.GenerateRequest) ([]domain.Recommendation, error) {
	s.req = req
	_, s.deadline = ctx.Deadline()
	return s.recs, s.err
}

func (s *stubRecommendationService) List(_ context.Context, userID, childID string) ([]domain.Recommendation, error) {
	s.listUser, s.listID = userID, childID
	return s.recs, s.err
}

type stubCatalogService struct {
	activity domain.Activity
	list     []domain.Activity
	err      error
	filter   service.ListActivitiesInput
	getID    string
}

func (s *stubCatalogService) Create(context.Context, service.CreateActivityInput) (domain.Activity, error) {
	return s.activity, s.err
}

func (s *stubCatalogService) List(_ context.Context, input service.ListActivitiesInput) ([]domain.Activity, error) {
	s.filter = input
	return s.list, s.err
}

func (s *stubCatalogService) Get(_ context.Context, id string) (domain.Activity, error) {
	s.getID = id
	return s.activity, s.err
}

type testAPI struct {
	router   *gin.Engine
	token    string
	families *stubFamilyService
	children *stubChildService
	recs     *stubRecommendationService
	catalog  *stubCatalogService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	jwtSvc := newTestJWT()
	pair, err := jwtSvc.GeneratePair(domain.User{ID: "user-1", Email: "parent@example.com"})
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}

	api := &testAPI{
		token:    pair.AccessToken,
		families: &stubFamilyService{},
		children: &stubChildService{},
		recs:     &stubRecommendationService{},
		catalog:  &stubCatalogService{},
	}
	logger := zap.NewNop()
	api.router = NewRouter(logger, RouterDeps{
		Auth:            NewAuthHandler(logger, service.NewAuthService(logger, newMockUserRepo()), jwtSvc),
		Families:        NewFamilyHandler(logger, api.families),
		Children:        NewChildHandler(logger, api.children),
		Recommendations: NewRecommendationHandler(logger, api.recs, 5*time.Second),
		Activities:      NewActivityHandler(logger, api.catalog),
		JWT:             jwtSvc,
		CORSOrigins:     []string{"http://localhost:3000"},
	})
	return api
}

func TestRecommendationHandlerGenerate(t *testing.T) {
	api := newTestAPI(t)
	api.recs.recs = []domain.Recommendation{{ID: "r1", ActivityID: "a1", Tier: domain.TierPrimary, TotalScore: 31.5}}

	rec := performAuthedRequest(api.router, http.MethodPost, "/recommendations", api.token, map[string]any{
		"child_profile_id": "child-1",
		"max_activities":   2,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if api.recs.req.UserID != "user-1" || api.recs.req.ChildProfileID != "child-1" || api.recs.req.MaxActivities != 2 {
		t.Fatalf("unexpected request %+v", api.recs.req)
	}
	if !api.recs.deadline {
		t.Fatalf("expected generation to run with a deadline")
	}
	var body struct {
		Recommendations []domain.Recommendation `json:"recommendations"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Recommendations) != 1 || body.Recommendations[0].Tier != domain.TierPrimary {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestRecommendationHandlerGenerate_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "invalid max", err: service.ErrInvalidMaxActivities, want: http.StatusBadRequest},
		{name: "not found", err: service.ErrChildNotFound, want: http.StatusNotFound},
		{name: "busy", err: service.ErrGenerationInProgress, want: http.StatusConflict},
		{name: "rate limited", err: service.ErrRateLimited, want: http.StatusTooManyRequests},
		{name: "timeout", err: fmt.Errorf("list candidates: %w", context.DeadlineExceeded), want: http.StatusGatewayTimeout},
		{name: "unexpected", err: errors.New("boom"), want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)
			api.recs.err = tt.err
			rec := performAuthedRequest(api.router, http.MethodPost, "/recommendations", api.token, map[string]any{"child_profile_id": "child-1"})
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestRecommendationHandler_RequiresAuthAndBody(t *testing.T) {
	api := newTestAPI(t)
	if rec := performRequest(api.router, http.MethodPost, "/recommendations", map[string]any{"child_profile_id": "child-1"}); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if rec := performAuthedRequest(api.router, http.MethodPost, "/recommendations", api.token, map[string]any{}); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRecommendationHandlerList(t *testing.T) {
	api := newTestAPI(t)
	rec := performAuthedRequest(api.router, http.MethodGet, "/recommendations/child-9", api.token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if api.recs.listUser != "user-1" || api.recs.listID != "child-9" {
		t.Fatalf("unexpected list args %q %q", api.recs.listUser, api.recs.listID)
	}
	if rec.Body.String() != `{"recommendations":[]}` {
		t.Fatalf("expected empty list, got %s", rec.Body.String())
	}
}

func TestFamilyHandler(t *testing.T) {
	api := newTestAPI(t)
	api.families.family = domain.Family{ID: "family-1", OwnerID: "user-1"}

	rec := performAuthedRequest(api.router, http.MethodPost, "/families", api.token, map[string]any{"budget_monthly": 400, "city": "Oakland"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if api.families.ownerID != "user-1" || api.families.input.BudgetMonthly == nil || *api.families.input.BudgetMonthly != 400 {
		t.Fatalf("unexpected create input %+v", api.families.input)
	}

	if rec := performAuthedRequest(api.router, http.MethodPost, "/families", api.token, map[string]any{"budget_monthly": -5}); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative budget, got %d", rec.Code)
	}

	api.families.err = service.ErrFamilyExists
	if rec := performAuthedRequest(api.router, http.MethodPost, "/families", api.token, map[string]any{}); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}

	api.families.err = service.ErrFamilyNotFound
	if rec := performAuthedRequest(api.router, http.MethodGet, "/families/me", api.token, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestChildHandler(t *testing.T) {
	api := newTestAPI(t)
	api.children.child = domain.ChildProfile{ID: "child-1", Name: "Maya"}

	rec := performAuthedRequest(api.router, http.MethodPost, "/children", api.token, map[string]any{
		"name":         "Maya",
		"birth_date":   "2019-06-01",
		"primary_goal": domain.GoalCreativeExpression,
		"temperament":  map[string]any{"intensity_preference": "moderate"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !api.children.input.BirthDate.Equal(time.Date(2019, time.June, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected birth date %v", api.children.input.BirthDate)
	}
	if api.children.input.Temperament == nil || api.children.input.Temperament.IntensityPreference != "moderate" {
		t.Fatalf("expected temperament to be forwarded")
	}

	if rec := performAuthedRequest(api.router, http.MethodPost, "/children", api.token, map[string]any{"name": "Maya", "birth_date": "06/01/2019"}); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad date, got %d", rec.Code)
	}

	if rec := performAuthedRequest(api.router, http.MethodGet, "/children/child-1", api.token, nil); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec := performAuthedRequest(api.router, http.MethodGet, "/children", api.token, nil); rec.Code != http.StatusOK || rec.Body.String() != `{"children":[]}` {
		t.Fatalf("expected empty children list, got %d %s", rec.Code, rec.Body.String())
	}

	api.children.err = service.ErrChildNotFound
	if rec := performAuthedRequest(api.router, http.MethodGet, "/children/child-2", api.token, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestActivityHandler(t *testing.T) {
	api := newTestAPI(t)
	api.catalog.activity = domain.Activity{ID: "a1", Name: "Clay Studio"}
	body := map[string]any{"provider_id": "p", "org_name": "Rec Center", "name": "Clay Studio", "rrule": "FREQ=WEEKLY"}

	if rec := performAuthedRequest(api.router, http.MethodPost, "/activities", api.token, body); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	api.catalog.err = service.ErrDuplicateActivity
	if rec := performAuthedRequest(api.router, http.MethodPost, "/activities", api.token, body); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestFamilyHandler_UpdateAndDelete(t *testing.T) {
	api := newTestAPI(t)
	api.families.family = domain.Family{ID: "family-1", OwnerID: "user-1", City: "Berkeley"}

	rec := performAuthedRequest(api.router, http.MethodPatch, "/families/me", api.token, map[string]any{"city": "Berkeley", "budget_monthly": 0})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if api.families.ownerID != "user-1" || api.families.update.City == nil || *api.families.update.City != "Berkeley" {
		t.Fatalf("unexpected update input %+v", api.families.update)
	}
	if api.families.update.BudgetMonthly == nil || *api.families.update.BudgetMonthly != 0 {
		t.Fatalf("expected explicit zero budget to be forwarded")
	}
	if api.families.update.Timezone != nil || api.families.update.Address != nil {
		t.Fatalf("absent fields must stay nil, got %+v", api.families.update)
	}

	if rec := performAuthedRequest(api.router, http.MethodPatch, "/families/me", api.token, map[string]any{"budget_monthly": -1}); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative budget, got %d", rec.Code)
	}

	if rec := performAuthedRequest(api.router, http.MethodDelete, "/families/me", api.token, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if !api.families.deleted {
		t.Fatalf("expected family delete to reach the service")
	}

	api.families.err = service.ErrFamilyNotFound
	if rec := performAuthedRequest(api.router, http.MethodDelete, "/families/me", api.token, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec := performRequest(api.router, http.MethodDelete, "/families/me", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestChildHandler_UpdateAndDelete(t *testing.T) {
	api := newTestAPI(t)
	api.children.child = domain.ChildProfile{ID: "child-1", Name: "Maya"}

	rec := performAuthedRequest(api.router, http.MethodPatch, "/children/child-1", api.token, map[string]any{
		"birth_date":   "2018-02-10",
		"primary_goal": domain.GoalPhysicalFitness,
		"custom_goals": []string{"swim a lap"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	upd := api.children.update
	if api.children.childID != "child-1" || upd.BirthDate == nil || !upd.BirthDate.Equal(time.Date(2018, time.February, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected update input %+v", upd)
	}
	if upd.PrimaryGoal == nil || *upd.PrimaryGoal != domain.GoalPhysicalFitness || len(upd.CustomGoals) != 1 {
		t.Fatalf("expected goals to be forwarded, got %+v", upd)
	}
	if upd.Name != nil || upd.Notes != nil || upd.PreferredActivityTypes != nil {
		t.Fatalf("absent fields must stay nil, got %+v", upd)
	}

	if rec := performAuthedRequest(api.router, http.MethodPatch, "/children/child-1", api.token, map[string]any{"birth_date": "10/02/2018"}); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad date, got %d", rec.Code)
	}

	if rec := performAuthedRequest(api.router, http.MethodDelete, "/children/child-1", api.token, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if api.children.deleted != "child-1" {
		t.Fatalf("expected delete for child-1, got %q", api.children.deleted)
	}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "not found", err: service.ErrChildNotFound, want: http.StatusNotFound},
		{name: "invalid", err: service.ErrInvalidChild, want: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api.children.err = tt.err
			if rec := performAuthedRequest(api.router, http.MethodPatch, "/children/not-a-uuid", api.token, map[string]any{"name": "Maya"}); rec.Code != tt.want {
				t.Fatalf("patch: expected %d, got %d", tt.want, rec.Code)
			}
			if errors.Is(tt.err, service.ErrChildNotFound) {
				if rec := performAuthedRequest(api.router, http.MethodDelete, "/children/not-a-uuid", api.token, nil); rec.Code != tt.want {
					t.Fatalf("delete: expected %d, got %d", tt.want, rec.Code)
				}
			}
		})
	}
}

func TestChildHandler_ListGoalsIsPublic(t *testing.T) {
	api := newTestAPI(t)
	rec := performRequest(api.router, http.MethodGet, "/children/goals", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Goals []string `json:"goals"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Goals) != len(domain.PredefinedGoals) || body.Goals[0] != domain.PredefinedGoals[0] {
		t.Fatalf("unexpected goals %v", body.Goals)
	}
}

func TestActivityHandler_ListAndGet(t *testing.T) {
	api := newTestAPI(t)
	api.catalog.list = []domain.Activity{{ID: "a1", Name: "Clay Studio"}}

	rec := performRequest(api.router, http.MethodGet, "/activities?activity_type=arts&min_age=6&is_active=false&skip=10&limit=5", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	f := api.catalog.filter
	if f.ActivityType != "arts" || f.MinAge == nil || *f.MinAge != 6 || f.MaxAge != nil {
		t.Fatalf("unexpected filter %+v", f)
	}
	if f.IsActive == nil || *f.IsActive || f.Skip != 10 || f.Limit != 5 {
		t.Fatalf("unexpected paging or active flag %+v", f)
	}
	var body struct {
		Activities []domain.Activity `json:"activities"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || len(body.Activities) != 1 {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}

	api.catalog.list = nil
	if rec := performRequest(api.router, http.MethodGet, "/activities", nil); rec.Body.String() != `{"activities":[]}` {
		t.Fatalf("expected empty list, got %s", rec.Body.String())
	}
	if api.catalog.filter.IsActive != nil {
		t.Fatalf("absent is_active must stay nil")
	}
	if rec := performRequest(api.router, http.MethodGet, "/activities?min_age=six", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric age, got %d", rec.Code)
	}

	api.catalog.err = service.ErrInvalidFilter
	if rec := performRequest(api.router, http.MethodGet, "/activities?limit=500", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for rejected filter, got %d", rec.Code)
	}

	api.catalog.err = nil
	api.catalog.activity = domain.Activity{ID: "a1", Name: "Clay Studio"}
	if rec := performRequest(api.router, http.MethodGet, "/activities/a1", nil); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if api.catalog.getID != "a1" {
		t.Fatalf("unexpected get id %q", api.catalog.getID)
	}
	api.catalog.err = service.ErrActivityNotFound
	if rec := performRequest(api.router, http.MethodGet, "/activities/missing", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
