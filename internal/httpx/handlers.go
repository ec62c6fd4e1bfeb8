package httpx

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/AngelCh415/growthmap-dashboard/internal/dashboard"
	"github.com/AngelCh415/growthmap-dashboard/internal/meta"
	"github.com/AngelCh415/growthmap-dashboard/internal/models"
)

type createCampaignBody struct {
	Name      string        `json:"name" validate:"required"`
	Objective string        `json:"objective" validate:"required"`
	Status    models.Status `json:"status" validate:"omitempty,oneof=ACTIVE PAUSED"`
}

type statusBody struct {
	Status models.Status `json:"status" validate:"required"`
}

type createAdSetBody struct {
	CampaignID  string           `json:"campaign_id" validate:"required"`
	Name        string           `json:"name" validate:"required"`
	DailyBudget float64          `json:"daily_budget" validate:"gt=0"`
	Targeting   models.Targeting `json:"targeting"`
	StartTime   string           `json:"start_time"`
}

type budgetBody struct {
	DailyBudget float64 `json:"daily_budget" validate:"gt=0"`
}

type toggleBody struct {
	CurrentStatus models.Status `json:"current_status" validate:"required"`
}

func (a *api) listCampaigns(w http.ResponseWriter, r *http.Request) {
	cs, err := a.Ads.ListCampaigns(r.Context())
	if err != nil {
		a.writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"campaigns": cs})
}

func (a *api) createCampaign(w http.ResponseWriter, r *http.Request) {
	var b createCampaignBody
	if err := readJSON(w, r, &b); err != nil {
		a.writeError(w, r, err, nil)
		return
	}
	c, err := a.Ads.CreateCampaign(r.Context(), b.Name, b.Objective, b.Status)
	if err != nil {
		a.writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"campaign": c})
}

func (a *api) updateCampaignStatus(w http.ResponseWriter, r *http.Request) {
	var b statusBody
	if err := readJSON(w, r, &b); err != nil {
		a.writeError(w, r, err, nil)
		return
	}
	ok, err := a.Ads.UpdateCampaignStatus(r.Context(), chi.URLParam(r, "id"), b.Status)
	if err != nil {
		a.writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": ok})
}

func (a *api) listAdSets(w http.ResponseWriter, r *http.Request) {
	as, err := a.Ads.ListAdSets(r.Context(), r.URL.Query().Get("campaign_id"))
	if err != nil {
		a.writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"adsets": as})
}

func (a *api) createAdSet(w http.ResponseWriter, r *http.Request) {
	var b createAdSetBody
	if err := readJSON(w, r, &b); err != nil {
		a.writeError(w, r, err, nil)
		return
	}
	as, err := a.Ads.CreateAdSet(r.Context(), meta.AdSetInput{
		CampaignID:  b.CampaignID,
		Name:        b.Name,
		DailyBudget: b.DailyBudget,
		Targeting:   b.Targeting,
		StartTime:   b.StartTime,
	})
	if err != nil {
		a.writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"adset": as})
}

func (a *api) updateAdSetBudget(w http.ResponseWriter, r *http.Request) {
	var b budgetBody
	if err := readJSON(w, r, &b); err != nil {
		a.writeError(w, r, err, nil)
		return
	}
	ok, err := a.Ads.UpdateAdSetBudget(r.Context(), chi.URLParam(r, "id"), b.DailyBudget)
	if err != nil {
		a.writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": ok})
}

func (a *api) listAds(w http.ResponseWriter, r *http.Request) {
	ads, err := a.Ads.ListAds(r.Context(), r.URL.Query().Get("adset_id"))
	if err != nil {
		a.writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ads": ads})
}

// insights prefers an explicit since/until range over a preset.
func (a *api) insights(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var (
		rows []models.AdInsight
		err  error
	)
	if since, until := q.Get("since"), q.Get("until"); since != "" && until != "" {
		rows, err = a.Ads.GetInsightsDateRange(r.Context(), since, until)
	} else {
		rows, err = a.Ads.GetInsights(r.Context(), q.Get("date_preset"))
	}
	if err != nil {
		a.writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"insights": rows})
}

func (a *api) emailMetrics(w http.ResponseWriter, r *http.Request) {
	m, err := a.Email.GetEmailMetrics(r.Context())
	if err != nil {
		a.writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"metrics": m})
}

func (a *api) emailProfiles(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := strings.TrimSpace(r.URL.Query().Get("limit")); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			a.writeError(w, r, fmt.Errorf("invalid limit %q", s), nil)
			return
		}
		limit = n
	}
	ps, err := a.Email.ListProfiles(r.Context(), limit)
	if err != nil {
		a.writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"profiles": ps})
}

func (a *api) emailList(w http.ResponseWriter, r *http.Request) {
	l, err := a.Email.GetListDetails(r.Context())
	if err != nil {
		a.writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"list": l})
}

func (a *api) signupsByPage(w http.ResponseWriter, r *http.Request) {
	m, err := a.Email.GetSignupsByPage(r.Context())
	if err != nil {
		a.writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"signups": m})
}

func (a *api) quizFunnel(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.Funnel.QueryFunnel(r.URL.Query()))
}

func (a *api) overview(w http.ResponseWriter, r *http.Request) {
	ov, err := a.Dashboard.Overview(r.Context())
	if err != nil {
		a.writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"overview": ov})
}

func (a *api) adsView(w http.ResponseWriter, r *http.Request) {
	rows, err := a.Dashboard.AdsView(r.Context())
	if err != nil {
		a.writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rows": rows})
}

func (a *api) toggleCampaign(w http.ResponseWriter, r *http.Request) {
	var b toggleBody
	if err := readJSON(w, r, &b); err != nil {
		a.writeError(w, r, err, nil)
		return
	}
	id := chi.URLParam(r, "id")
	st, err := a.Dashboard.ToggleCampaign(r.Context(), id, b.CurrentStatus)
	if err != nil {
		a.writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "status": st})
}

// launch reports a partial launch as an error that still carries the launch result.
func (a *api) launch(w http.ResponseWriter, r *http.Request) {
	var b dashboard.LaunchRequest
	if err := readJSON(w, r, &b); err != nil {
		a.writeError(w, r, err, nil)
		return
	}
	res, err := a.Dashboard.Launch(r.Context(), b)
	if err != nil {
		var extra map[string]any
		if res.Campaign.ID != "" {
			extra = map[string]any{"launch": res}
		}
		a.writeError(w, r, err, extra)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"launch": res})
}

func (a *api) launcherOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dashboard.Options())
}

func (a *api) pages(w http.ResponseWriter, r *http.Request) {
	pages, unknown, err := a.Dashboard.Pages(r.Context())
	if err != nil {
		a.writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"pages": pages, "unknown": unknown})
}
