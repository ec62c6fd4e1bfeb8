package metrics

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/AngelCh415/growthmap-dashboard/internal/meta"
	"github.com/AngelCh415/growthmap-dashboard/internal/models"
	"github.com/AngelCh415/growthmap-dashboard/internal/store"
)

type Service struct{ st *store.FunnelStore }

func NewService(st *store.FunnelStore) *Service { return &Service{st: st} }
func norm(s string) string                      { return strings.TrimSpace(s) }

// filterValue treats an empty value or "all" as no filter.
func filterValue(v url.Values, k string) string {
	s := norm(v.Get(k))
	if s == "all" {
		return ""
	}
	return s
}

// QueryFunnel filters the funnel groups by exact campaign / adSet / adName match. The option
// lists always come from the whole dataset so selectors stay populated.
func (s *Service) QueryFunnel(v url.Values) models.FunnelResponse {
	campaign := filterValue(v, "campaign")
	adSet := filterValue(v, "adSet")
	adName := filterValue(v, "adName")

	all := s.st.All()
	groups := s.st.Query(func(g models.FunnelGroup) bool {
		if campaign != "" && g.Campaign != campaign {
			return false
		}
		if adSet != "" && g.AdSet != adSet {
			return false
		}
		if adName != "" && g.AdName != adName {
			return false
		}
		return true
	})
	for i := range groups {
		groups[i].Steps = withConversion(groups[i].Steps)
	}

	return models.FunnelResponse{
		Funnel:    groups,
		Aggregate: Aggregate(groups),
		Campaigns: distinct(all, func(g models.FunnelGroup) string { return g.Campaign }),
		AdSets:    distinct(all, func(g models.FunnelGroup) string { return g.AdSet }),
		AdNames:   distinct(all, func(g models.FunnelGroup) string { return g.AdName }),
	}
}

// Aggregate sums each step across groups in funnel stage order.
func Aggregate(groups []models.FunnelGroup) []models.FunnelStep {
	if len(groups) == 0 {
		return []models.FunnelStep{}
	}
	sums := map[string]int{}
	for _, g := range groups {
		for _, st := range g.Steps {
			sums[st.Step] += st.Count
		}
	}
	out := make([]models.FunnelStep, 0, len(models.FunnelStepOrder))
	for _, step := range models.FunnelStepOrder {
		out = append(out, models.FunnelStep{Step: step, Count: sums[step]})
	}
	return withConversion(out)
}

func withConversion(steps []models.FunnelStep) []models.FunnelStep {
	for i := range steps {
		if i == 0 {
			continue
		}
		steps[i].Conversion = ConversionRate(steps[i].Count, steps[i-1].Count)
	}
	return steps
}

// ConversionRate renders current/previous as a percentage with one decimal.
func ConversionRate(current, previous int) string {
	if previous == 0 {
		return "0%"
	}
	return strconv.FormatFloat(float64(current)/float64(previous)*100, 'f', 1, 64) + "%"
}

func distinct(groups []models.FunnelGroup, key func(models.FunnelGroup) string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, g := range groups {
		k := key(g)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// Totals are the overview headline numbers summed over insights.
type Totals struct {
	Spend       float64
	Impressions int64
	Clicks      int64
}

func SumInsights(insights []models.AdInsight) Totals {
	var t Totals
	for _, i := range insights {
		t.Spend += ParseDecimal(i.Spend)
		t.Impressions += ParseCount(i.Impressions)
		t.Clicks += ParseCount(i.Clicks)
	}
	return t
}

// AvgCTR is clicks per impression in percent with two decimals, or "0" without impressions.
func (t Totals) AvgCTR() string {
	if t.Impressions <= 0 {
		return "0"
	}
	return money(float64(t.Clicks) / float64(t.Impressions) * 100)
}

func (t Totals) SpendDisplay() string { return money(t.Spend) }

func CountActive(campaigns []models.Campaign) int {
	n := 0
	for _, c := range campaigns {
		if c.Status == models.StatusActive {
			n++
		}
	}
	return n
}

// JoinCampaigns pairs each campaign with the insight carrying the same campaign_id.
// Campaigns without an insight render as zeroes.
func JoinCampaigns(campaigns []models.Campaign, insights []models.AdInsight) []models.CampaignRow {
	byID := make(map[string]models.AdInsight, len(insights))
	for _, i := range insights {
		if _, ok := byID[i.CampaignID]; !ok {
			byID[i.CampaignID] = i
		}
	}
	rows := make([]models.CampaignRow, 0, len(campaigns))
	for _, c := range campaigns {
		row := models.CampaignRow{
			ID:          c.ID,
			Name:        c.Name,
			Status:      c.Status,
			Objective:   c.Objective,
			DailyBudget: meta.FormatBudget(c.DailyBudget),
			Spend:       "0.00",
			CTR:         "0.00",
			CPC:         "0.00",
		}
		if in, ok := byID[c.ID]; ok {
			row.Spend = money(ParseDecimal(in.Spend))
			row.Impressions = ParseCount(in.Impressions)
			row.Clicks = ParseCount(in.Clicks)
			row.CTR = money(ParseDecimal(in.CTR))
			row.CPC = money(ParseDecimal(in.CPC))
		}
		rows = append(rows, row)
	}
	return rows
}

// ApplyStatus returns a copy of rows with the campaign's status replaced.
func ApplyStatus(rows []models.CampaignRow, id string, status models.Status) []models.CampaignRow {
	out := append([]models.CampaignRow(nil), rows...)
	for i := range out {
		if out[i].ID == id {
			out[i].Status = status
		}
	}
	return out
}

// ParseDecimal reads a platform decimal string; blanks and garbage count as zero.
func ParseDecimal(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// ParseCount reads an integer count, truncating a decimal value.
func ParseCount(s string) int64 {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	return int64(ParseDecimal(s))
}

func money(f float64) string   { return strconv.FormatFloat(round2(f), 'f', 2, 64) }
func round2(f float64) float64 { return math.Round(f*100) / 100 }
