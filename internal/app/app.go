package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mmtwa/money-transfer-comparison-sub003/internal/adapters"
	"github.com/mmtwa/money-transfer-comparison-sub003/internal/adapters/cache"
	"github.com/mmtwa/money-transfer-comparison-sub003/internal/adapters/httpclient"
	"github.com/mmtwa/money-transfer-comparison-sub003/internal/adapters/postgres"
	"github.com/mmtwa/money-transfer-comparison-sub003/internal/adapters/subprocess"
	"github.com/mmtwa/money-transfer-comparison-sub003/internal/api"
	"github.com/mmtwa/money-transfer-comparison-sub003/internal/comparison"
	"github.com/mmtwa/money-transfer-comparison-sub003/internal/comparison/handler"
	"github.com/mmtwa/money-transfer-comparison-sub003/internal/config"
	"github.com/mmtwa/money-transfer-comparison-sub003/internal/domain"
	"github.com/mmtwa/money-transfer-comparison-sub003/internal/metrics"
	"github.com/mmtwa/money-transfer-comparison-sub003/internal/platform/db"
	httpserver "github.com/mmtwa/money-transfer-comparison-sub003/internal/platform/http"
	"github.com/mmtwa/money-transfer-comparison-sub003/internal/registry"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
)

// Run wires the application components, starts the HTTP server and the
// background sweeper.
func Run() error {
	appCfg, err := config.Init()
	if err != nil {
		return err
	}
	// Logger
	logrus.SetOutput(os.Stdout)
	cfgLevel := appCfg.Logging.Level
	if parsedLvl, parseErr := logrus.ParseLevel(cfgLevel); parseErr != nil {
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetLevel(parsedLvl)
	}
	logrus.Info("✅ Config initialization successful")

	// Root context bound to OS signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bounded context for startup operations (DB connect, initial reads)
	startupCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// DB pool. The persistent store is optional: without it the service
	// runs on defaults and memory cache only, just slower and uncached
	// across restarts.
	var (
		providerRepo adapters.ProviderRepository
		cacheRepo    adapters.RateCacheRepository
		usageRepo    adapters.UsageRepository
	)
	pool, err := db.CreatePoolAndPing(startupCtx, appCfg.DbServer)
	if err != nil {
		logrus.WithError(err).Warn("Postgres unavailable, running without the persistent tier")
	} else {
		defer pool.Close()
		providerRepo = postgres.NewProviderRepository(pool)
		cacheRepo = postgres.NewRateCacheRepository(pool)
		usageRepo = postgres.NewUsageRepository(pool)
		logrus.Info("✅ Postgres connection successful")
	}

	// Base HTTP client (configurable timeout)
	httpTimeout := time.Duration(appCfg.HTTPClient.TimeoutSeconds) * time.Second
	if httpTimeout <= 0 {
		httpTimeout = 10 * time.Second
	}
	baseHTTPClient := &http.Client{Timeout: httpTimeout}

	// Provider adapters, keyed by handler tag
	pCfg := appCfg.Providers
	adapterSet := map[string]adapters.QuoteAdapter{
		registry.HandlerWise: httpclient.NewWiseClient(
			baseHTTPClient, pCfg.Wise.BaseURL, pCfg.Wise.APIKey, pCfg.Wise.Sandbox,
		),
		registry.HandlerRevolut: httpclient.NewRevolutClient(
			baseHTTPClient, pCfg.Revolut.BaseURL, pCfg.Revolut.ClientID, pCfg.Revolut.ClientSecret,
		),
		registry.HandlerInstaReM: httpclient.NewInstaReMClient(
			baseHTTPClient, pCfg.InstaReM.BaseURL, pCfg.InstaReM.ClientID, pCfg.InstaReM.ClientSecret,
		),
		registry.HandlerOFXScript: subprocess.NewScriptAdapter(
			"ofx",
			subprocess.NewRunner(time.Duration(pCfg.OFX.TimeoutSeconds)*time.Second),
			pCfg.OFX.ScriptPath, pCfg.OFX.CountryCode,
		),
		registry.HandlerRemitlyScript: subprocess.NewScriptAdapter(
			"remitly",
			subprocess.NewRunner(time.Duration(pCfg.Remitly.TimeoutSeconds)*time.Second),
			pCfg.Remitly.ScriptPath, pCfg.Remitly.CountryCode,
		),
	}

	// Provider registry: defaults overlaid by persisted records
	reg := registry.NewService(providerRepo, adapterSet)
	reg.Initialize(startupCtx)
	logrus.Info("✅ Provider registry initialized")

	// Quota counters, seeded from persisted usage when available
	initialUsage := map[string]domain.Usage{}
	if usageRepo != nil {
		if persisted, usageErr := usageRepo.GetAll(startupCtx); usageErr != nil {
			logrus.WithError(usageErr).Warn("Failed to load persisted usage counters")
		} else {
			initialUsage = persisted
		}
	}
	quota := comparison.NewQuotaKeeper(initialUsage)

	// In-process cache tier
	memoryTTL := time.Duration(appCfg.Cache.MemoryTTLMinutes) * time.Minute
	persistentTTL := time.Duration(appCfg.Cache.PersistentTTLMinutes) * time.Minute
	memCache, err := cache.NewRateCache(appCfg.Cache.MaxItems, memoryTTL)
	if err != nil {
		return err
	}
	defer memCache.Close()

	// Metrics
	metricsRegistry := prometheus.NewRegistry()
	metricsRegistry.MustRegister(collectors.NewGoCollector())
	comparisonMetrics := metrics.NewComparisonMetrics(metricsRegistry)

	// Orchestrator
	service := comparison.NewService(reg, memCache, cacheRepo, quota, comparisonMetrics, comparison.Options{
		ProviderTimeout:  time.Duration(appCfg.Compare.ProviderTimeoutSeconds) * time.Second,
		OverallTimeout:   time.Duration(appCfg.Compare.OverallTimeoutSeconds) * time.Second,
		PersistentTTL:    persistentTTL,
		FallbackProvider: appCfg.Compare.FallbackProvider,
	})

	// Background sweeper: expired cache rows + usage persistence
	sweeper := comparison.NewSweeper(cacheRepo, usageRepo, quota,
		time.Duration(appCfg.Sweeper.IntervalMinutes)*time.Minute, persistentTTL)
	defer func() {
		if shutDownErr := sweeper.Shutdown(); shutDownErr != nil {
			logrus.Errorf("Sweeper shutdown error: %v", shutDownErr)
		}
	}()
	if startErr := sweeper.Start(ctx); startErr != nil {
		logrus.WithError(startErr).Error("Failed to start sweeper")
		return startErr
	}
	logrus.Info("✅ Sweeper activation successful")

	// Handlers and router
	validator := comparison.NewRequestValidator()
	comparisonHandler := handler.NewComparisonHandler(validator, service, reg)
	router := api.NewRouter(comparisonHandler, appCfg.RateLimit.RequestsPerMinute, metricsRegistry)

	logrus.Info("Starting http server")
	// Block until context is canceled, then perform graceful shutdown.
	if serverErr := httpserver.Start(ctx, appCfg.HTTPServer, router); serverErr != nil {
		// Cancel the root context to stop the sweeper and in-flight work
		stop()
		logrus.Errorf("HTTP server error: %v", serverErr)
		return serverErr
	}
	return nil
}
