// Package dashboard composes platform calls into the views the UI renders.
package dashboard

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/AngelCh415/growthmap-dashboard/internal/meta"
	"github.com/AngelCh415/growthmap-dashboard/internal/metrics"
	"github.com/AngelCh415/growthmap-dashboard/internal/models"
)

type Service struct {
	ads          AdsPlatform
	email        EmailPlatform
	pagesBaseURL string
	log          *zap.Logger
}

func NewService(ads AdsPlatform, email EmailPlatform, pagesBaseURL string, log *zap.Logger) *Service {
	return &Service{
		ads:          ads,
		email:        email,
		pagesBaseURL: strings.TrimRight(pagesBaseURL, "/"),
		log:          log,
	}
}

// Overview fetches insights, campaigns and the email snapshot together; any failure fails the view.
func (s *Service) Overview(ctx context.Context) (models.Overview, error) {
	var (
		insights  []models.AdInsight
		campaigns []models.Campaign
		email     models.EmailMetrics
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		insights, err = s.ads.GetInsights(gctx, meta.DefaultDatePreset)
		return err
	})
	g.Go(func() (err error) {
		campaigns, err = s.ads.ListCampaigns(gctx)
		return err
	})
	g.Go(func() (err error) {
		email, err = s.email.GetEmailMetrics(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.Overview{}, fmt.Errorf("overview: %w", err)
	}

	tot := metrics.SumInsights(insights)
	return models.Overview{
		TotalSpend:       tot.SpendDisplay(),
		TotalImpressions: tot.Impressions,
		TotalClicks:      tot.Clicks,
		AvgCTR:           tot.AvgCTR(),
		ActiveCampaigns:  metrics.CountActive(campaigns),
		Campaigns:        metrics.JoinCampaigns(campaigns, insights),
		Email:            email,
	}, nil
}

// AdsView joins every campaign with its last-7-day insight.
func (s *Service) AdsView(ctx context.Context) ([]models.CampaignRow, error) {
	var (
		campaigns []models.Campaign
		insights  []models.AdInsight
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		campaigns, err = s.ads.ListCampaigns(gctx)
		return err
	})
	g.Go(func() (err error) {
		insights, err = s.ads.GetInsights(gctx, meta.DefaultDatePreset)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("ads view: %w", err)
	}
	return metrics.JoinCampaigns(campaigns, insights), nil
}

// NextStatus flips ACTIVE to PAUSED; any other status resumes to ACTIVE.
func NextStatus(current models.Status) models.Status {
	if current == models.StatusActive {
		return models.StatusPaused
	}
	return models.StatusActive
}

// ToggleCampaign submits the opposite of current and returns the status now in effect.
func (s *Service) ToggleCampaign(ctx context.Context, id string, current models.Status) (models.Status, error) {
	next := NextStatus(current)
	if _, err := s.ads.UpdateCampaignStatus(ctx, id, next); err != nil {
		return current, fmt.Errorf("toggle campaign %s: %w", id, err)
	}
	s.log.Info("campaign status changed", zap.String("campaign_id", id), zap.String("from", string(current)), zap.String("to", string(next)))
	return next, nil
}

// ToggleRow toggles the row's campaign and patches a copy of rows only when the mutation succeeded.
func (s *Service) ToggleRow(ctx context.Context, rows []models.CampaignRow, id string) ([]models.CampaignRow, error) {
	for _, r := range rows {
		if r.ID != id {
			continue
		}
		next, err := s.ToggleCampaign(ctx, id, r.Status)
		if err != nil {
			return rows, err
		}
		return metrics.ApplyStatus(rows, id, next), nil
	}
	return rows, fmt.Errorf("toggle campaign %s: not in view", id)
}
