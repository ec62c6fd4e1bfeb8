package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/AngelCh415/growthmap-dashboard/internal/config"
	"github.com/AngelCh415/growthmap-dashboard/internal/dashboard"
	"github.com/AngelCh415/growthmap-dashboard/internal/httpx"
	"github.com/AngelCh415/growthmap-dashboard/internal/klaviyo"
	"github.com/AngelCh415/growthmap-dashboard/internal/logger"
	"github.com/AngelCh415/growthmap-dashboard/internal/meta"
	"github.com/AngelCh415/growthmap-dashboard/internal/metrics"
	"github.com/AngelCh415/growthmap-dashboard/internal/store"
	"github.com/AngelCh415/growthmap-dashboard/internal/upstream"
)

func main() {
	cfg := config.FromEnv()

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if missing := cfg.Missing(); len(missing) > 0 {
		log.Warn("platform credentials not set; dependent routes will fail", zap.Strings("missing", missing))
	}

	if err := run(cfg, log); err != nil {
		log.Error("server error", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	hc := upstream.NewHTTPClient(cfg.HTTPTimeout)
	ads := meta.NewClient(hc, meta.Config{
		AccessToken: cfg.MetaAccessToken,
		AdAccountID: cfg.MetaAdAccountID,
		BaseURL:     cfg.MetaAPIBase,
	}, log.Named("meta"))
	email := klaviyo.NewClient(hc, klaviyo.Config{
		APIKey:   cfg.KlaviyoAPIKey,
		ListID:   cfg.KlaviyoListID,
		BaseURL:  cfg.KlaviyoAPIBase,
		Revision: cfg.KlaviyoRevision,
	}, log.Named("klaviyo"))

	r := httpx.NewRouter(log, httpx.Deps{
		Ads:         ads,
		Email:       email,
		Dashboard:   dashboard.NewService(ads, email, cfg.LandingPagesBaseURL, log.Named("dashboard")),
		Funnel:      metrics.NewService(store.NewMockFunnelStore()),
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       time.Minute,
	}

	shutdown := make(chan error)
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info("signal caught", zap.String("signal", s.String()))
		shutdown <- srv.Shutdown(ctx)
	}()

	log.Info("starting server", zap.String("port", cfg.Port), zap.String("env", cfg.Env), zap.Duration("upstream_timeout", cfg.HTTPTimeout))
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	if err := <-shutdown; err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}
