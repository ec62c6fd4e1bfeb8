package meta

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/AngelCh415/growthmap-dashboard/internal/models"
)

// purchaseActions are the action types counted as conversions, most specific first.
var purchaseActions = []string{
	"offsite_conversion.fb_pixel_purchase",
	"omni_purchase",
	"purchase",
}

// GetInsights returns campaign level insights for a named window such as last_7d.
func (cl *Client) GetInsights(ctx context.Context, datePreset string) ([]models.AdInsight, error) {
	if datePreset == "" {
		datePreset = DefaultDatePreset
	}
	q := insightQuery(pageLimit)
	q.Set("date_preset", datePreset)
	return cl.insights(ctx, "get_insights", q)
}

// GetInsightsDateRange returns daily campaign insights for an inclusive YYYY-MM-DD range.
func (cl *Client) GetInsightsDateRange(ctx context.Context, since, until string) ([]models.AdInsight, error) {
	tr, err := json.Marshal(map[string]string{"since": since, "until": until})
	if err != nil {
		return nil, err
	}
	q := insightQuery(dateRangeLimit)
	q.Set("time_range", string(tr))
	q.Set("time_increment", "1")
	return cl.insights(ctx, "get_insights_range", q)
}

func insightQuery(limit int) url.Values {
	return url.Values{
		"fields": {insightFields},
		"level":  {"campaign"},
		"limit":  {strconv.Itoa(limit)},
	}
}

func (cl *Client) insights(ctx context.Context, op string, q url.Values) ([]models.AdInsight, error) {
	rows, err := list[models.AdInsight](ctx, cl, op, cl.cfg.AdAccountID+"/insights", q)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].Conversions == "" {
			rows[i].Conversions = actionValue(rows[i].Actions, purchaseActions)
		}
	}
	return rows, nil
}

func actionValue(actions []models.ActionValue, types []string) string {
	for _, t := range types {
		for _, a := range actions {
			if a.ActionType == t {
				return a.Value
			}
		}
	}
	return ""
}
