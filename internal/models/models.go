package models

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusPaused   Status = "PAUSED"
	StatusDeleted  Status = "DELETED"
	StatusArchived Status = "ARCHIVED"
)

// Targeting is passed through to the ads platform untouched.
type Targeting map[string]any

type Campaign struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Status         Status `json:"status"`
	DailyBudget    string `json:"daily_budget,omitempty"` // minor units
	LifetimeBudget string `json:"lifetime_budget,omitempty"`
	Objective      string `json:"objective,omitempty"`
	CreatedTime    string `json:"created_time,omitempty"`
}

type AdSet struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	CampaignID     string    `json:"campaign_id"`
	Status         Status    `json:"status"`
	DailyBudget    string    `json:"daily_budget,omitempty"`
	LifetimeBudget string    `json:"lifetime_budget,omitempty"`
	Targeting      Targeting `json:"targeting,omitempty"`
}

type Creative struct {
	ID       string `json:"id"`
	Title    string `json:"title,omitempty"`
	Body     string `json:"body,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

type Ad struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	AdSetID  string    `json:"adset_id"`
	Status   Status    `json:"status"`
	Creative *Creative `json:"creative,omitempty"`
}

// ActionValue is one entry of the platform's actions / action_values / purchase_roas arrays.
type ActionValue struct {
	ActionType string `json:"action_type"`
	Value      string `json:"value"`
}

// AdInsight keeps the platform's decimal strings; parse before doing arithmetic.
type AdInsight struct {
	CampaignID        string        `json:"campaign_id,omitempty"`
	CampaignName      string        `json:"campaign_name,omitempty"`
	Spend             string        `json:"spend"`
	Impressions       string        `json:"impressions"`
	Clicks            string        `json:"clicks"`
	CTR               string        `json:"ctr"`
	CPC               string        `json:"cpc"`
	CPM               string        `json:"cpm"`
	Conversions       string        `json:"conversions,omitempty"`
	CostPerConversion string        `json:"cost_per_conversion,omitempty"`
	PurchaseROAS      []ActionValue `json:"purchase_roas,omitempty"`
	Actions           []ActionValue `json:"actions,omitempty"`
	ActionValues      []ActionValue `json:"action_values,omitempty"`
	DateStart         string        `json:"date_start,omitempty"`
	DateStop          string        `json:"date_stop,omitempty"`
}

type EmailProfile struct {
	ID         string         `json:"id"`
	Email      string         `json:"email"`
	FirstName  string         `json:"first_name,omitempty"`
	LastName   string         `json:"last_name,omitempty"`
	Created    time.Time      `json:"created"`
	Updated    *time.Time     `json:"updated,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
}

// SourcePage returns the landing page tag of the signup, or "" when absent.
// Non-string tags are rendered with fmt; zero values count as absent.
func (p EmailProfile) SourcePage() string {
	switch v := p.Properties["source_page"].(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if !v {
			return ""
		}
	case float64:
		if v == 0 {
			return ""
		}
	case int:
		if v == 0 {
			return ""
		}
	}
	return fmt.Sprint(p.Properties["source_page"])
}

type EmailListDetails struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Created      string `json:"created,omitempty"`
	Updated      string `json:"updated,omitempty"`
	ProfileCount int    `json:"profile_count"`
}

type EmailMetrics struct {
	TotalSignups  int            `json:"totalSignups"`
	DailySignups  int            `json:"dailySignups"`
	WeeklySignups int            `json:"weeklySignups"`
	ListSize      int            `json:"listSize"`
	RecentSignups []EmailProfile `json:"recentSignups"`
}

// Funnel steps in stage order.
const (
	StepLanding      = "landing"
	StepQ1           = "q1"
	StepQ2           = "q2"
	StepQ3           = "q3"
	StepQ4           = "q4"
	StepQ5           = "q5"
	StepEmailSubmit  = "email_submit"
	StepLovableView  = "lovable_view"
	StepCheckoutInit = "checkout_init"
	StepPurchase     = "purchase"
)

var FunnelStepOrder = []string{
	StepLanding, StepQ1, StepQ2, StepQ3, StepQ4, StepQ5,
	StepEmailSubmit, StepLovableView, StepCheckoutInit, StepPurchase,
}

type FunnelStep struct {
	Step       string `json:"step"`
	Count      int    `json:"count"`
	Conversion string `json:"conversion,omitempty"` // vs previous step
}

type FunnelKey struct {
	Campaign string
	AdSet    string
	AdName   string
}

type FunnelGroup struct {
	Campaign string       `json:"campaign"`
	AdSet    string       `json:"adSet"`
	AdName   string       `json:"adName"`
	Steps    []FunnelStep `json:"steps"`
}

func (g FunnelGroup) Key() FunnelKey {
	return FunnelKey{Campaign: g.Campaign, AdSet: g.AdSet, AdName: g.AdName}
}

type FunnelResponse struct {
	Funnel    []FunnelGroup `json:"funnel"`
	Aggregate []FunnelStep  `json:"aggregate"`
	Campaigns []string      `json:"campaigns"`
	AdSets    []string      `json:"adSets"`
	AdNames   []string      `json:"adNames"`
}

type Overview struct {
	TotalSpend       string        `json:"totalSpend"`
	TotalImpressions int64         `json:"totalImpressions"`
	TotalClicks      int64         `json:"totalClicks"`
	AvgCTR           string        `json:"avgCTR"`
	ActiveCampaigns  int           `json:"activeCampaigns"`
	Campaigns        []CampaignRow `json:"campaigns"`
	Email            EmailMetrics  `json:"email"`
}

// CampaignRow is a campaign joined to its insight for display.
type CampaignRow struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Status      Status `json:"status"`
	Objective   string `json:"objective,omitempty"`
	DailyBudget string `json:"daily_budget"` // major units, 2 dp, or N/A
	Spend       string `json:"spend"`
	Impressions int64  `json:"impressions"`
	Clicks      int64  `json:"clicks"`
	CTR         string `json:"ctr"`
	CPC         string `json:"cpc"`
}

type LandingPage struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Signups int    `json:"signups"`
}
