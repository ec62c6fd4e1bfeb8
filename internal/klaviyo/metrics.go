package klaviyo

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/AngelCh415/growthmap-dashboard/internal/models"
)

const (
	recentSignups = 20
	unknownPage   = "unknown"
)

// GetEmailMetrics derives signup counts from the newest 1000 profiles and the list details.
// Lists larger than that undercount daily/weekly signups older than the fetched page.
func (cl *Client) GetEmailMetrics(ctx context.Context) (models.EmailMetrics, error) {
	var (
		profiles []models.EmailProfile
		details  models.EmailListDetails
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profiles, err = cl.ListProfiles(gctx, metricsProfileLimit)
		return err
	})
	g.Go(func() error {
		var err error
		details, err = cl.GetListDetails(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.EmailMetrics{}, err
	}
	return ComputeEmailMetrics(profiles, details.ProfileCount, cl.now()), nil
}

// ComputeEmailMetrics expects profiles sorted newest first. A listSize of zero falls back
// to the number of profiles given.
func ComputeEmailMetrics(profiles []models.EmailProfile, listSize int, now time.Time) models.EmailMetrics {
	dayAgo := now.Add(-24 * time.Hour)
	weekAgo := now.Add(-7 * 24 * time.Hour)

	m := models.EmailMetrics{
		TotalSignups:  len(profiles),
		ListSize:      listSize,
		RecentSignups: append([]models.EmailProfile{}, profiles[:min(len(profiles), recentSignups)]...),
	}
	if m.ListSize == 0 {
		m.ListSize = len(profiles)
	}
	for _, p := range profiles {
		if p.Created.IsZero() {
			continue
		}
		if !p.Created.Before(dayAgo) {
			m.DailySignups++
		}
		if !p.Created.Before(weekAgo) {
			m.WeeklySignups++
		}
	}
	return m
}

// GetSignupsByPage counts the newest 1000 signups per source_page property.
func (cl *Client) GetSignupsByPage(ctx context.Context) (map[string]int, error) {
	profiles, err := cl.ListProfiles(ctx, metricsProfileLimit)
	if err != nil {
		return nil, err
	}
	return CountByPage(profiles), nil
}

func CountByPage(profiles []models.EmailProfile) map[string]int {
	out := map[string]int{}
	for _, p := range profiles {
		page := p.SourcePage()
		if page == "" {
			page = unknownPage
		}
		out[page]++
	}
	return out
}
