// Package meta talks to the Graph API for one ad account: campaigns, ad sets,
// ads and insights, plus the few mutations the dashboard needs.
package meta

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AngelCh415/growthmap-dashboard/internal/models"
	"github.com/AngelCh415/growthmap-dashboard/internal/upstream"
)

const platform = "meta"

const (
	campaignFields = "id,name,status,daily_budget,lifetime_budget,objective,created_time"
	adSetFields    = "id,name,campaign_id,status,daily_budget,lifetime_budget,targeting"
	adFields       = "id,name,adset_id,status,creative{id,title,body,image_url}"
	insightFields  = "campaign_id,campaign_name,spend,impressions,clicks,ctr,cpc,cpm,actions,action_values,purchase_roas"

	pageLimit      = 100
	dateRangeLimit = 1000

	DefaultDatePreset = "last_7d"
)

type Config struct {
	AccessToken string
	AdAccountID string
	BaseURL     string
}

type Client struct {
	c   upstream.HTTPClient
	cfg Config
	log *zap.Logger
	now func() time.Time
}

func NewClient(c upstream.HTTPClient, cfg Config, log *zap.Logger) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{c: c, cfg: cfg, log: log, now: time.Now}
}

type listResp[T any] struct {
	Data []T `json:"data"`
}

func (cl *Client) call(ctx context.Context, op, method, path string, q url.Values, body, dst any) error {
	cl.log.Debug("meta request", zap.String("op", op), zap.String("method", method), zap.String("path", path))
	return upstream.Do(ctx, cl.c, upstream.Call{
		Platform: platform,
		Op:       op,
		Method:   method,
		URL:      cl.cfg.BaseURL + "/" + strings.TrimLeft(path, "/"),
		Query:    q,
		Header:   http.Header{"Authorization": {"Bearer " + cl.cfg.AccessToken}},
		Body:     body,
	}, dst)
}

func list[T any](ctx context.Context, cl *Client, op, path string, q url.Values) ([]T, error) {
	var resp listResp[T]
	if err := cl.call(ctx, op, http.MethodGet, path, q, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return []T{}, nil
	}
	return resp.Data, nil
}

func (cl *Client) ListCampaigns(ctx context.Context) ([]models.Campaign, error) {
	q := url.Values{"fields": {campaignFields}, "limit": {strconv.Itoa(pageLimit)}}
	return list[models.Campaign](ctx, cl, "list_campaigns", cl.cfg.AdAccountID+"/campaigns", q)
}

// ListAdSets lists the ad sets of one campaign, or of the whole account when campaignID is empty.
func (cl *Client) ListAdSets(ctx context.Context, campaignID string) ([]models.AdSet, error) {
	parent := cl.cfg.AdAccountID
	if campaignID != "" {
		parent = campaignID
	}
	q := url.Values{"fields": {adSetFields}, "limit": {strconv.Itoa(pageLimit)}}
	return list[models.AdSet](ctx, cl, "list_adsets", parent+"/adsets", q)
}

func (cl *Client) ListAds(ctx context.Context, adSetID string) ([]models.Ad, error) {
	parent := cl.cfg.AdAccountID
	if adSetID != "" {
		parent = adSetID
	}
	q := url.Values{"fields": {adFields}, "limit": {strconv.Itoa(pageLimit)}}
	return list[models.Ad](ctx, cl, "list_ads", parent+"/ads", q)
}

func (cl *Client) UpdateCampaignStatus(ctx context.Context, id string, status models.Status) (bool, error) {
	if status != models.StatusActive && status != models.StatusPaused {
		return false, fmt.Errorf("campaign status must be ACTIVE or PAUSED, got %q", status)
	}
	return cl.update(ctx, "update_campaign_status", id, map[string]any{"status": status})
}

func (cl *Client) UpdateAdSetBudget(ctx context.Context, id string, dailyBudget float64) (bool, error) {
	return cl.update(ctx, "update_adset_budget", id, map[string]any{"daily_budget": ToMinorUnits(dailyBudget)})
}

func (cl *Client) update(ctx context.Context, op, id string, body map[string]any) (bool, error) {
	var resp struct {
		Success *bool `json:"success"`
	}
	if err := cl.call(ctx, op, http.MethodPost, id, nil, body, &resp); err != nil {
		return false, err
	}
	if resp.Success != nil && !*resp.Success {
		return false, &upstream.Error{Platform: platform, Op: op, StatusCode: http.StatusOK, Message: "platform reported success=false"}
	}
	return true, nil
}

// CreateCampaign creates a campaign with no special ad categories. An empty status means PAUSED.
func (cl *Client) CreateCampaign(ctx context.Context, name, objective string, status models.Status) (models.Campaign, error) {
	if status == "" {
		status = models.StatusPaused
	}
	body := map[string]any{
		"name":                  name,
		"objective":             objective,
		"status":                status,
		"special_ad_categories": []string{},
	}
	var resp struct {
		ID string `json:"id"`
	}
	if err := cl.call(ctx, "create_campaign", http.MethodPost, cl.cfg.AdAccountID+"/campaigns", nil, body, &resp); err != nil {
		return models.Campaign{}, err
	}
	return models.Campaign{ID: resp.ID, Name: name, Objective: objective, Status: status}, nil
}

type AdSetInput struct {
	CampaignID  string
	Name        string
	DailyBudget float64 // major units
	Targeting   models.Targeting
	StartTime   string // RFC3339; empty means now
}

// CreateAdSet always creates a paused ad set billed on impressions and optimised for reach.
func (cl *Client) CreateAdSet(ctx context.Context, in AdSetInput) (models.AdSet, error) {
	start := in.StartTime
	if start == "" {
		start = cl.now().UTC().Format(time.RFC3339)
	}
	budget := ToMinorUnits(in.DailyBudget)
	body := map[string]any{
		"name":              in.Name,
		"campaign_id":       in.CampaignID,
		"daily_budget":      budget,
		"billing_event":     "IMPRESSIONS",
		"optimization_goal": "REACH",
		"targeting":         in.Targeting,
		"status":            models.StatusPaused,
		"start_time":        start,
	}
	var resp struct {
		ID string `json:"id"`
	}
	if err := cl.call(ctx, "create_adset", http.MethodPost, cl.cfg.AdAccountID+"/adsets", nil, body, &resp); err != nil {
		return models.AdSet{}, err
	}
	return models.AdSet{
		ID:          resp.ID,
		Name:        in.Name,
		CampaignID:  in.CampaignID,
		Status:      models.StatusPaused,
		DailyBudget: strconv.FormatInt(budget, 10),
		Targeting:   in.Targeting,
	}, nil
}

// ToMinorUnits converts a major-unit amount to cents, rounding to the nearest cent.
func ToMinorUnits(major float64) int64 {
	return int64(math.Round(major * 100))
}

// FormatBudget renders a minor-unit budget string in major units with two decimals.
func FormatBudget(minor string) string {
	if strings.TrimSpace(minor) == "" {
		return "N/A"
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(minor), 64)
	if err != nil {
		return "N/A"
	}
	return strconv.FormatFloat(v/100, 'f', 2, 64)
}
