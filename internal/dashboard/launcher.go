package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/AngelCh415/growthmap-dashboard/internal/meta"
	"github.com/AngelCh415/growthmap-dashboard/internal/models"
)

var Objectives = []string{"OUTCOME_TRAFFIC", "OUTCOME_ENGAGEMENT", "OUTCOME_LEADS", "OUTCOME_SALES"}

// AdvertorialPages are the landing pages a launch can target, in display order.
var AdvertorialPages = []string{"burnout-my-story", "burnout-case-study", "identity-shift", "founders-guide"}

var ErrInvalidLaunch = errors.New("invalid launch")

var validate = validator.New(validator.WithRequiredStructEnabled())

type LaunchRequest struct {
	Name        string   `json:"name" validate:"required"`
	Objective   string   `json:"objective" validate:"required,oneof=OUTCOME_TRAFFIC OUTCOME_ENGAGEMENT OUTCOME_LEADS OUTCOME_SALES"`
	DailyBudget float64  `json:"daily_budget" validate:"gt=0"`
	Pages       []string `json:"pages" validate:"min=1,unique,dive,required"`
}

type PageFailure struct {
	Page  string `json:"page"`
	Error string `json:"error"`
}

type LaunchResult struct {
	ID               string          `json:"id"`
	Campaign         models.Campaign `json:"campaign"`
	AdSets           []models.AdSet  `json:"adsets"`
	Failures         []PageFailure   `json:"failures"`
	TotalDailyBudget float64         `json:"total_daily_budget"`
}

// DefaultTargeting is applied to every launched ad set.
func DefaultTargeting() models.Targeting {
	return models.Targeting{
		"geo_locations": map[string]any{"countries": []string{"US"}},
		"age_min":       25,
		"age_max":       65,
	}
}

func (r LaunchRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLaunch, err)
	}
	return nil
}

// Launch creates a paused campaign, then one ad set per page. Ad-set creates run independently;
// their failures are reported together and the campaign is left in place.
func (s *Service) Launch(ctx context.Context, req LaunchRequest) (LaunchResult, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := req.Validate(); err != nil {
		return LaunchResult{}, err
	}
	res := LaunchResult{
		ID:               uuid.NewString(),
		AdSets:           []models.AdSet{},
		Failures:         []PageFailure{},
		TotalDailyBudget: req.DailyBudget * float64(len(req.Pages)),
	}
	log := s.log.With(zap.String("launch_id", res.ID), zap.String("name", req.Name))

	camp, err := s.ads.CreateCampaign(ctx, req.Name, req.Objective, models.StatusPaused)
	if err != nil {
		return res, fmt.Errorf("launch %q: create campaign: %w", req.Name, err)
	}
	res.Campaign = camp
	log.Info("launch campaign created", zap.String("campaign_id", camp.ID))

	created := make([]*models.AdSet, len(req.Pages))
	errs := make([]error, len(req.Pages))
	var wg sync.WaitGroup
	for i, page := range req.Pages {
		wg.Add(1)
		go func(i int, page string) {
			defer wg.Done()
			as, err := s.ads.CreateAdSet(ctx, meta.AdSetInput{
				CampaignID:  camp.ID,
				Name:        fmt.Sprintf("%s - %s", req.Name, page),
				DailyBudget: req.DailyBudget,
				Targeting:   DefaultTargeting(),
			})
			if err != nil {
				errs[i] = fmt.Errorf("page %s: %w", page, err)
				return
			}
			created[i] = &as
		}(i, page)
	}
	wg.Wait()

	var combined error
	for i, page := range req.Pages {
		if errs[i] != nil {
			res.Failures = append(res.Failures, PageFailure{Page: page, Error: errs[i].Error()})
			combined = multierr.Append(combined, errs[i])
			continue
		}
		res.AdSets = append(res.AdSets, *created[i])
	}
	if combined != nil {
		log.Warn("launch ad sets failed", zap.Int("failed", len(res.Failures)), zap.Int("created", len(res.AdSets)), zap.Error(combined))
		return res, fmt.Errorf("launch %q: campaign %s created, %d of %d ad sets failed: %w",
			req.Name, camp.ID, len(res.Failures), len(req.Pages), combined)
	}
	log.Info("launch complete", zap.Int("adsets", len(res.AdSets)))
	return res, nil
}

type LauncherOptions struct {
	Pages      []string `json:"pages"`
	Objectives []string `json:"objectives"`
}

func Options() LauncherOptions {
	return LauncherOptions{Pages: AdvertorialPages, Objectives: Objectives}
}

// Pages joins the advertorial page list with signup counts. Signups without a known
// source page are returned as the unknown count.
func (s *Service) Pages(ctx context.Context) ([]models.LandingPage, int, error) {
	counts, err := s.email.GetSignupsByPage(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("pages: %w", err)
	}
	pages := make([]models.LandingPage, 0, len(AdvertorialPages))
	for _, p := range AdvertorialPages {
		pages = append(pages, models.LandingPage{Name: p, URL: s.pagesBaseURL + "/" + p, Signups: counts[p]})
	}
	return pages, counts["unknown"], nil
}
