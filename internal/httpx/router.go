package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/AngelCh415/growthmap-dashboard/internal/dashboard"
	"github.com/AngelCh415/growthmap-dashboard/internal/metrics"
	"github.com/AngelCh415/growthmap-dashboard/internal/utils"
)

type Deps struct {
	Ads         dashboard.AdsPlatform
	Email       dashboard.EmailPlatform
	Dashboard   *dashboard.Service
	Funnel      *metrics.Service
	CORSOrigins []string
}

type api struct {
	Deps
	log *zap.Logger
}

func NewRouter(log *zap.Logger, d Deps) http.Handler {
	a := &api{Deps: d, log: log}

	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(log))
	mux.Use(middleware.Recoverer)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", utils.RequestIDHeader},
		ExposedHeaders: []string{utils.RequestIDHeader},
		MaxAge:         300,
	}))
	mux.Use(utils.Instrument)

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ready")) })
	mux.Handle("/metrics", promhttp.Handler())

	mux.Route("/campaigns", func(r chi.Router) {
		r.Get("/", a.listCampaigns)
		r.Post("/", a.createCampaign)
		r.Patch("/{id}", a.updateCampaignStatus)
	})
	mux.Route("/adsets", func(r chi.Router) {
		r.Get("/", a.listAdSets)
		r.Post("/", a.createAdSet)
		r.Patch("/{id}/budget", a.updateAdSetBudget)
	})
	mux.Get("/ads", a.listAds)
	mux.Get("/insights", a.insights)

	mux.Route("/email", func(r chi.Router) {
		r.Get("/metrics", a.emailMetrics)
		r.Get("/profiles", a.emailProfiles)
		r.Get("/list", a.emailList)
		r.Get("/signups-by-page", a.signupsByPage)
	})

	mux.Get("/funnel/quiz", a.quizFunnel)

	mux.Get("/overview", a.overview)
	mux.Get("/ads/view", a.adsView)
	mux.Post("/ads/view/campaigns/{id}/toggle", a.toggleCampaign)
	mux.Post("/launcher", a.launch)
	mux.Get("/launcher/options", a.launcherOptions)
	mux.Get("/pages", a.pages)

	return mux
}
