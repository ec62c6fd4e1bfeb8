package dashboard

import (
	"context"

	"github.com/AngelCh415/growthmap-dashboard/internal/meta"
	"github.com/AngelCh415/growthmap-dashboard/internal/models"
)

// AdsPlatform is the subset of *meta.Client the dashboard and routes use.
type AdsPlatform interface {
	ListCampaigns(ctx context.Context) ([]models.Campaign, error)
	ListAdSets(ctx context.Context, campaignID string) ([]models.AdSet, error)
	ListAds(ctx context.Context, adSetID string) ([]models.Ad, error)
	GetInsights(ctx context.Context, datePreset string) ([]models.AdInsight, error)
	GetInsightsDateRange(ctx context.Context, since, until string) ([]models.AdInsight, error)
	UpdateCampaignStatus(ctx context.Context, id string, status models.Status) (bool, error)
	UpdateAdSetBudget(ctx context.Context, id string, dailyBudget float64) (bool, error)
	CreateCampaign(ctx context.Context, name, objective string, status models.Status) (models.Campaign, error)
	CreateAdSet(ctx context.Context, in meta.AdSetInput) (models.AdSet, error)
}

// EmailPlatform is the subset of *klaviyo.Client the dashboard and routes use.
type EmailPlatform interface {
	ListProfiles(ctx context.Context, limit int) ([]models.EmailProfile, error)
	GetListDetails(ctx context.Context) (models.EmailListDetails, error)
	GetEmailMetrics(ctx context.Context) (models.EmailMetrics, error)
	GetSignupsByPage(ctx context.Context) (map[string]int, error)
}
