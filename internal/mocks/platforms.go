// Package mocks holds testify mocks of the platform clients.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/AngelCh415/growthmap-dashboard/internal/meta"
	"github.com/AngelCh415/growthmap-dashboard/internal/models"
)

// AdsPlatform mocks dashboard.AdsPlatform.
type AdsPlatform struct {
	mock.Mock
}

func (m *AdsPlatform) ListCampaigns(ctx context.Context) ([]models.Campaign, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Campaign), args.Error(1)
}

func (m *AdsPlatform) ListAdSets(ctx context.Context, campaignID string) ([]models.AdSet, error) {
	args := m.Called(ctx, campaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AdSet), args.Error(1)
}

func (m *AdsPlatform) ListAds(ctx context.Context, adSetID string) ([]models.Ad, error) {
	args := m.Called(ctx, adSetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Ad), args.Error(1)
}

func (m *AdsPlatform) GetInsights(ctx context.Context, datePreset string) ([]models.AdInsight, error) {
	args := m.Called(ctx, datePreset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AdInsight), args.Error(1)
}

func (m *AdsPlatform) GetInsightsDateRange(ctx context.Context, since, until string) ([]models.AdInsight, error) {
	args := m.Called(ctx, since, until)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AdInsight), args.Error(1)
}

func (m *AdsPlatform) UpdateCampaignStatus(ctx context.Context, id string, status models.Status) (bool, error) {
	args := m.Called(ctx, id, status)
	return args.Bool(0), args.Error(1)
}

func (m *AdsPlatform) UpdateAdSetBudget(ctx context.Context, id string, dailyBudget float64) (bool, error) {
	args := m.Called(ctx, id, dailyBudget)
	return args.Bool(0), args.Error(1)
}

func (m *AdsPlatform) CreateCampaign(ctx context.Context, name, objective string, status models.Status) (models.Campaign, error) {
	args := m.Called(ctx, name, objective, status)
	return args.Get(0).(models.Campaign), args.Error(1)
}

func (m *AdsPlatform) CreateAdSet(ctx context.Context, in meta.AdSetInput) (models.AdSet, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(models.AdSet), args.Error(1)
}

// EmailPlatform mocks dashboard.EmailPlatform.
type EmailPlatform struct {
	mock.Mock
}

func (m *EmailPlatform) ListProfiles(ctx context.Context, limit int) ([]models.EmailProfile, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.EmailProfile), args.Error(1)
}

func (m *EmailPlatform) GetListDetails(ctx context.Context) (models.EmailListDetails, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.EmailListDetails), args.Error(1)
}

func (m *EmailPlatform) GetEmailMetrics(ctx context.Context) (models.EmailMetrics, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.EmailMetrics), args.Error(1)
}

func (m *EmailPlatform) GetSignupsByPage(ctx context.Context) (map[string]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}
