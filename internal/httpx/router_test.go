package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AngelCh415/growthmap-dashboard/internal/dashboard"
	"github.com/AngelCh415/growthmap-dashboard/internal/meta"
	"github.com/AngelCh415/growthmap-dashboard/internal/metrics"
	"github.com/AngelCh415/growthmap-dashboard/internal/mocks"
	"github.com/AngelCh415/growthmap-dashboard/internal/models"
	"github.com/AngelCh415/growthmap-dashboard/internal/store"
	"github.com/AngelCh415/growthmap-dashboard/internal/upstream"
)

type fixture struct {
	h     http.Handler
	ads   *mocks.AdsPlatform
	email *mocks.EmailPlatform
}

func newFixture() fixture {
	ads := new(mocks.AdsPlatform)
	email := new(mocks.EmailPlatform)
	log := zap.NewNop()
	h := NewRouter(log, Deps{
		Ads:         ads,
		Email:       email,
		Dashboard:   dashboard.NewService(ads, email, "https://pages.example.com", log),
		Funnel:      metrics.NewService(store.NewMockFunnelStore()),
		CORSOrigins: []string{"*"},
	})
	return fixture{h: h, ads: ads, email: email}
}

func (f fixture) do(method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.h.ServeHTTP(w, req)
	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestHealthz(t *testing.T) {
	w, _ := newFixture().do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture()
	f.do(http.MethodGet, "/healthz", "")
	w, _ := f.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestListCampaigns(t *testing.T) {
	f := newFixture()
	f.ads.On("ListCampaigns", mock.Anything).Return([]models.Campaign{{ID: "c1", Name: "One", Status: models.StatusActive}}, nil)

	w, out := f.do(http.MethodGet, "/campaigns", "")
	require.Equal(t, http.StatusOK, w.Code)
	cs := out["campaigns"].([]any)
	require.Len(t, cs, 1)
	assert.Equal(t, "c1", cs[0].(map[string]any)["id"])
}

func TestUpstreamErrorBecomes500(t *testing.T) {
	f := newFixture()
	f.ads.On("ListCampaigns", mock.Anything).Return(nil, &upstream.Error{Platform: "meta", Op: "list campaigns", StatusCode: 400, Message: "Invalid OAuth access token"})

	w, out := f.do(http.MethodGet, "/campaigns", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "meta list campaigns: status 400: Invalid OAuth access token", out["error"])
}

func TestCreateCampaign(t *testing.T) {
	f := newFixture()
	f.ads.On("CreateCampaign", mock.Anything, "Spring", "OUTCOME_TRAFFIC", models.Status("")).
		Return(models.Campaign{ID: "c7", Name: "Spring", Status: models.StatusPaused, Objective: "OUTCOME_TRAFFIC"}, nil)

	w, out := f.do(http.MethodPost, "/campaigns", `{"name":"Spring","objective":"OUTCOME_TRAFFIC"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "PAUSED", out["campaign"].(map[string]any)["status"])
}

func TestBadBodiesAre500(t *testing.T) {
	f := newFixture()
	for _, tc := range []struct{ method, path, body string }{
		{http.MethodPost, "/campaigns", `{"name":`},
		{http.MethodPost, "/campaigns", `{"objective":"OUTCOME_TRAFFIC"}`},
		{http.MethodPost, "/campaigns", `{"name":"x","objective":"y","status":"DELETED"}`},
		{http.MethodPatch, "/campaigns/c1", ``},
		{http.MethodPost, "/adsets", `{"campaign_id":"c1","name":"a","daily_budget":0}`},
		{http.MethodPatch, "/adsets/a1/budget", `{"daily_budget":-1}`},
	} {
		w, out := f.do(tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusInternalServerError, w.Code, tc.path+" "+tc.body)
		assert.NotEmpty(t, out["error"])
	}
	f.ads.AssertNotCalled(t, "CreateCampaign", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateCampaignStatus(t *testing.T) {
	f := newFixture()
	f.ads.On("UpdateCampaignStatus", mock.Anything, "c1", models.StatusPaused).Return(true, nil)

	w, out := f.do(http.MethodPatch, "/campaigns/c1", `{"status":"PAUSED"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, out["success"])
}

func TestAdSetRoutes(t *testing.T) {
	f := newFixture()
	f.ads.On("ListAdSets", mock.Anything, "c1").Return([]models.AdSet{{ID: "a1", CampaignID: "c1"}}, nil)
	f.ads.On("CreateAdSet", mock.Anything, mock.MatchedBy(func(in meta.AdSetInput) bool {
		return in.CampaignID == "c1" && in.DailyBudget == 50 && in.Targeting["age_min"] == float64(30)
	})).Return(models.AdSet{ID: "a2", DailyBudget: "5000"}, nil)
	f.ads.On("UpdateAdSetBudget", mock.Anything, "a2", 12.5).Return(true, nil)
	f.ads.On("ListAds", mock.Anything, "a1").Return([]models.Ad{{ID: "ad1", AdSetID: "a1"}}, nil)

	w, out := f.do(http.MethodGet, "/adsets?campaign_id=c1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, out["adsets"], 1)

	w, out = f.do(http.MethodPost, "/adsets", `{"campaign_id":"c1","name":"n","daily_budget":50,"targeting":{"age_min":30}}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "a2", out["adset"].(map[string]any)["id"])

	w, _ = f.do(http.MethodPatch, "/adsets/a2/budget", `{"daily_budget":12.5}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w, out = f.do(http.MethodGet, "/ads?adset_id=a1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, out["ads"], 1)
	f.ads.AssertExpectations(t)
}

func TestInsightsRangeTakesPrecedence(t *testing.T) {
	f := newFixture()
	f.ads.On("GetInsightsDateRange", mock.Anything, "2025-08-01", "2025-08-07").Return([]models.AdInsight{{Spend: "1"}}, nil)
	f.ads.On("GetInsights", mock.Anything, "last_30d").Return([]models.AdInsight{}, nil)

	w, out := f.do(http.MethodGet, "/insights?date_preset=last_30d&since=2025-08-01&until=2025-08-07", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, out["insights"], 1)
	f.ads.AssertNotCalled(t, "GetInsights", mock.Anything, mock.Anything)

	w, _ = f.do(http.MethodGet, "/insights?date_preset=last_30d&since=2025-08-01", "")
	require.Equal(t, http.StatusOK, w.Code)
	f.ads.AssertCalled(t, "GetInsights", mock.Anything, "last_30d")
}

func TestEmailRoutes(t *testing.T) {
	f := newFixture()
	f.email.On("GetEmailMetrics", mock.Anything).Return(models.EmailMetrics{TotalSignups: 3, RecentSignups: []models.EmailProfile{}}, nil)
	f.email.On("ListProfiles", mock.Anything, 5).Return([]models.EmailProfile{{ID: "p1"}}, nil)
	f.email.On("GetListDetails", mock.Anything).Return(models.EmailListDetails{ID: "L1", ProfileCount: 9}, nil)
	f.email.On("GetSignupsByPage", mock.Anything).Return(map[string]int{"unknown": 2}, nil)

	w, out := f.do(http.MethodGet, "/email/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 3, out["metrics"].(map[string]any)["totalSignups"])

	w, out = f.do(http.MethodGet, "/email/profiles?limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, out["profiles"], 1)

	w, _ = f.do(http.MethodGet, "/email/profiles?limit=abc", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w, out = f.do(http.MethodGet, "/email/list", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 9, out["list"].(map[string]any)["profile_count"])

	w, out = f.do(http.MethodGet, "/email/signups-by-page", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, out["signups"].(map[string]any)["unknown"])
}

func TestQuizFunnel(t *testing.T) {
	f := newFixture()

	w, out := f.do(http.MethodGet, "/funnel/quiz", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, out["funnel"], 1)
	assert.Equal(t, []any{"Test Campaign"}, out["campaigns"])
	assert.Equal(t, []any{"Test Ad Set"}, out["adSets"])
	assert.Equal(t, []any{"Test Ad"}, out["adNames"])
	assert.Len(t, out["aggregate"], 10)

	w, out = f.do(http.MethodGet, "/funnel/quiz?campaign=Other", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, out["funnel"])
	assert.Equal(t, []any{"Test Campaign"}, out["campaigns"])
}

func TestToggleRoute(t *testing.T) {
	f := newFixture()
	f.ads.On("UpdateCampaignStatus", mock.Anything, "c1", models.StatusActive).Return(true, nil)

	w, out := f.do(http.MethodPost, "/ads/view/campaigns/c1/toggle", `{"current_status":"PAUSED"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "c1", out["id"])
	assert.Equal(t, "ACTIVE", out["status"])
}

func TestLauncherPartialFailureCarriesResult(t *testing.T) {
	f := newFixture()
	f.ads.On("CreateCampaign", mock.Anything, "X", "OUTCOME_LEADS", models.StatusPaused).Return(models.Campaign{ID: "c1"}, nil)
	f.ads.On("CreateAdSet", mock.Anything, mock.MatchedBy(func(in meta.AdSetInput) bool { return in.Name == "X - identity-shift" })).
		Return(models.AdSet{}, errors.New("rejected"))
	f.ads.On("CreateAdSet", mock.Anything, mock.MatchedBy(func(in meta.AdSetInput) bool { return in.Name == "X - founders-guide" })).
		Return(models.AdSet{ID: "a2"}, nil)

	w, out := f.do(http.MethodPost, "/launcher", `{"name":"X","objective":"OUTCOME_LEADS","daily_budget":10,"pages":["identity-shift","founders-guide"]}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, out["error"], "rejected")
	launch := out["launch"].(map[string]any)
	assert.Len(t, launch["adsets"], 1)
	assert.Len(t, launch["failures"], 1)
}

func TestLauncherValidation(t *testing.T) {
	f := newFixture()
	w, out := f.do(http.MethodPost, "/launcher", `{"name":"X","objective":"OUTCOME_LEADS","daily_budget":10,"pages":[]}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, out, "launch")
	f.ads.AssertNotCalled(t, "CreateCampaign", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLauncherOptionsAndPages(t *testing.T) {
	f := newFixture()
	f.email.On("GetSignupsByPage", mock.Anything).Return(map[string]int{"founders-guide": 6, "unknown": 1}, nil)

	w, out := f.do(http.MethodGet, "/launcher/options", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, out["objectives"], 4)
	assert.Len(t, out["pages"], 4)

	w, out = f.do(http.MethodGet, "/pages", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, out["unknown"])
	pages := out["pages"].([]any)
	last := pages[len(pages)-1].(map[string]any)
	assert.Equal(t, "https://pages.example.com/founders-guide", last["url"])
	assert.EqualValues(t, 6, last["signups"])
}

func TestOverviewRoute(t *testing.T) {
	f := newFixture()
	f.ads.On("GetInsights", mock.Anything, "last_7d").Return([]models.AdInsight{{CampaignID: "c1", Spend: "2", Impressions: "100", Clicks: "5"}}, nil)
	f.ads.On("ListCampaigns", mock.Anything).Return([]models.Campaign{{ID: "c1", Status: models.StatusActive}}, nil)
	f.email.On("GetEmailMetrics", mock.Anything).Return(models.EmailMetrics{RecentSignups: []models.EmailProfile{}}, nil)

	w, out := f.do(http.MethodGet, "/overview", "")
	require.Equal(t, http.StatusOK, w.Code)
	ov := out["overview"].(map[string]any)
	assert.Equal(t, "2.00", ov["totalSpend"])
	assert.Equal(t, "5.00", ov["avgCTR"])
	assert.EqualValues(t, 1, ov["activeCampaigns"])

	w, out = f.do(http.MethodGet, "/ads/view", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, out["rows"], 1)
}
