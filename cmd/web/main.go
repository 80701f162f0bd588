package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"time"

	"superstore-dashboard/internal/analytics"
	"superstore-dashboard/internal/config"
	"superstore-dashboard/internal/dataset"
	"superstore-dashboard/internal/errors"
	"superstore-dashboard/internal/middleware"
	"superstore-dashboard/internal/models"
	"superstore-dashboard/internal/observability"
	"superstore-dashboard/internal/server"
	"superstore-dashboard/internal/services"
	"superstore-dashboard/internal/ui/templates"
)

const (
	renderTimeout = 10 * time.Second
	pageTitle     = "SuperStore Sales Dashboard"
)

var widePanels = []string{
	analytics.SummaryTreemap,
	analytics.SummarySample,
	analytics.SummaryMonthSubCategory,
	analytics.SummaryPreview,
	analytics.SummaryStateSales,
}

// dashboardPage lays out one panel per summary of the unfiltered dataset;
// the browser fills them in over SSE.
func dashboardPage(a *services.Analytics, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
		defer cancel()

		d, err := a.Render(ctx, models.Selection{})
		if err != nil {
			errors.WriteError(w, logger, err, observability.GetRequestID(ctx))
			return
		}

		page := templates.PageData{
			Title: pageTitle,
			Start: d.Selection.Start.Format(time.DateOnly),
			End:   d.Selection.End.Format(time.DateOnly),
		}
		for _, s := range d.Summaries {
			page.Panels = append(page.Panels, templates.Panel{
				Name:  s.Name,
				Title: s.Title,
				File:  s.File,
				Wide:  slices.Contains(widePanels, s.Name),
			})
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		if err := templates.Dashboard(page).Render(ctx, w); err != nil {
			logger.Error("render dashboard page", "error", err)
		}
	}
}

func newHandler(cfg *config.Config, a *services.Analytics, limiter *middleware.RateLimiter, logger *slog.Logger) (http.Handler, error) {
	srv := server.NewServer(a, logger, &server.TemplateHandlers{
		Dashboard: dashboardPage(a, logger),
	})

	compress, err := middleware.Compress(cfg.Compression)
	if err != nil {
		return nil, err
	}

	chain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(limiter, logger),
		compress,
	)
	return chain(srv), nil
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	a := services.NewAnalytics(logger)

	loadCtx, cancel := context.WithTimeout(ctx, cfg.Dataset.LoadTimeout)
	defer cancel()

	start := time.Now()
	if err := a.LoadFromFile(loadCtx, cfg.Dataset.File, dataset.Options{Sheet: cfg.Dataset.Sheet}); err != nil {
		return err
	}
	logger.Info("dataset ready", "file", cfg.Dataset.File, "duration", time.Since(start))

	limiter := middleware.NewRateLimiter(cfg.Security)
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go limiter.Run(sweepCtx)

	handler, err := newHandler(cfg, a, limiter, logger)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)
	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		stopSweep()
		logger.Info("analytics service stopped", "stats", a.Stats())
		return nil
	})

	return gracefulServer.ListenAndServe(ctx)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"addr", cfg.Address(),
		"dataset", cfg.Dataset.File,
	)

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("application failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
