package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flightassist-service/internal/domain/repository"
	"flightassist-service/internal/infrastructure/config"
	"flightassist-service/internal/infrastructure/oauth"
	"flightassist-service/internal/infrastructure/persistence"
	"flightassist-service/internal/infrastructure/router"
	httpapi "flightassist-service/internal/interface/http"
	"flightassist-service/internal/interface/oracle"
	repo "flightassist-service/internal/interface/repository"
	"flightassist-service/internal/usecase"
	"flightassist-service/pkg/logger"
	"flightassist-service/pkg/metrics"
	"flightassist-service/pkg/utils"
	"flightassist-service/templates"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger("info").Fatal("Failed to load config", "error", err)
	}

	log := logger.NewLogger(cfg.LogLevel)
	defer log.Sync()
	log.Info("Starting FlightAssist Service", "version", cfg.AppVersion, "contextBackend", cfg.ContextBackend)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.NewMetrics("flightassist", prometheus.DefaultRegisterer)

	// PostgreSQL holds airlines and, by default, contexts
	gormDB, err := persistence.NewPostgresDB(cfg.PostgresURI)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", "error", err)
	}
	if err := repo.AutoMigrate(gormDB); err != nil {
		log.Fatal("Failed to migrate database", "error", err)
	}

	contextRepo, closeContexts, err := repo.OpenContextRepository(ctx, cfg, gormDB)
	if err != nil {
		log.Fatal("Failed to open context store", "error", err)
	}
	defer closeContexts()

	// Query logging is optional
	var queryLogRepo repository.QueryLogRepository
	mongoClient, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoUser, cfg.MongoPassword)
	if err != nil {
		log.Warn("MongoDB unavailable, airline query logging disabled", "error", err)
	} else {
		defer mongoClient.Disconnect(context.Background())
		queryLogRepo = repo.NewMongoQueryLogRepository(persistence.GetDatabase(mongoClient, cfg.MongoDB))
	}

	// Extraction oracles, first registered wins ties
	var oracles []repository.ExtractionOracle
	if cfg.OpenAIAPIKey != "" {
		oracles = append(oracles, oracle.NewOpenAIOracle(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL, cfg.OracleTimeout))
	}
	if cfg.GeminiAPIKey != "" {
		gemini, err := oracle.NewGeminiOracle(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.OracleTimeout)
		if err != nil {
			log.Error("Failed to create Gemini oracle", "error", err)
		} else {
			defer gemini.Close()
			oracles = append(oracles, gemini)
		}
	}
	if len(oracles) == 0 {
		log.Warn("No extraction oracle configured, using the fallback extractor only")
	}

	// Flight offer provider
	amadeusOAuth := oauth.NewAmadeusOAuth(cfg.AmadeusBaseURL, cfg.AmadeusClientID, cfg.AmadeusClientSecret, log)
	provider := repo.NewAmadeusRepository(cfg.AmadeusBaseURL, amadeusOAuth.HTTPClient(ctx, cfg.ProviderTimeout))
	rates := repo.NewHTTPExchangeRateRepository(cfg.ExchangeRateURL, &http.Client{Timeout: 10 * time.Second})

	// General topic replies
	topics := router.NewTopicRouter(log)
	for _, h := range templates.GeneralTopics() {
		topics.Register(h)
	}

	dates := utils.NewDateParser()
	contexts := usecase.NewContextStore(contextRepo, cfg.ContextTTL, cfg.ContextMaxPerUser, usecase.SystemClock, log)
	airlines := usecase.NewAirlineResolver(repo.NewGormAirlineRepository(gormDB), queryLogRepo, usecase.SystemClock, log)
	extractor := usecase.NewParameterExtractor(
		usecase.NewFollowUpClassifier(contexts, log),
		usecase.NewQueryClassifier(topics),
		usecase.NewOracleReconciler(oracles, cfg.OracleTimeout, m, log),
		airlines,
		contexts,
		dates,
		usecase.SystemClock,
		log,
	)
	service := usecase.NewFlightSearchService(
		extractor,
		usecase.NewFallbackExtractor(dates),
		contexts,
		provider,
		airlines,
		usecase.NewOfferFormatter(usecase.NewCurrencyConverter(rates, cfg.DefaultEURToINRRate, cfg.UseLiveRates, log), log),
		usecase.NewResultFilter(),
		usecase.SearchOptions{MaxResults: cfg.ProviderMaxResults, ProviderTimeout: cfg.ProviderTimeout},
		m,
		usecase.SystemClock,
		log,
	)

	// Sweep expired contexts in the background
	go func() {
		ticker := time.NewTicker(cfg.ContextSweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("Context sweeper stopped")
				return
			case <-ticker.C:
				n, err := service.SweepExpired(ctx)
				if err != nil {
					log.Error("Error sweeping contexts", "error", err)
					continue
				}
				if n > 0 {
					log.Info("Swept expired contexts", "count", n)
				}
			}
		}
	}()

	gin.SetMode(gin.ReleaseMode)
	handler := httpapi.NewHandler(service, cfg.AppVersion, log)
	server := httpapi.NewServer(cfg, handler, prometheus.DefaultGatherer, log)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Stop(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel()
	log.Info("FlightAssist Service stopped")
}
