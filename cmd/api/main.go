package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"effortnet/internal/adapter/cache"
	"effortnet/internal/adapter/repo"
	"effortnet/internal/http/handlers"
	"effortnet/internal/http/httpapi"
	"effortnet/internal/infra"
	"effortnet/internal/infra/geoip"
	"effortnet/internal/middleware"
	"effortnet/internal/providers/decodos"
	"effortnet/internal/providers/stripemeter"
	"effortnet/internal/providers/textai"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()
	runner := infra.NewSQLRunner(dbpool, logger)

	metaCache, err := cache.NewFromURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}
	if metaCache != nil {
		defer func() {
			_ = metaCache.Close()
		}()
	}

	fetcher, err := decodos.NewClient(decodos.Options{
		Token:   cfg.DecodosToken,
		BaseURL: cfg.DecodosBaseURL,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build scrape client")
	}

	classifier := buildClassifier(cfg, logger)
	meter := buildMeter(cfg, logger)

	countryResolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open geoip database")
	}
	var countryLookup middleware.CountryLookup
	if countryResolver != nil {
		countryLookup = countryResolver.CountryCode
	}

	app := &handlers.App{
		Logger:     logger,
		Cfg:        cfg,
		Users:      repo.NewUserRepository(runner),
		Scores:     repo.NewScoreEventRepository(runner),
		Workouts:   repo.NewWorkoutRepository(runner),
		Fetcher:    fetcher,
		Classifier: classifier,
		Meter:      meter,
		Cache:      metaCache,
	}

	router := httpapi.NewRouter(app, cfg, logger, countryLookup)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

func buildClassifier(cfg *infra.Config, logger infra.Logger) textai.Classifier {
	switch cfg.TextAIProvider {
	case "openai":
		classifier, err := textai.NewOpenAIClassifier(textai.OpenAIOptions{
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIBaseURL,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("openai classifier unavailable, AI text detection disabled")
			return textai.NewDisabled()
		}
		return classifier
	default:
		return textai.NewDisabled()
	}
}

func buildMeter(cfg *infra.Config, logger infra.Logger) stripemeter.UsageRecorder {
	if cfg.StripeAPIKey == "" {
		logger.Info().Msg("stripe key not set, usage metering disabled")
		return nil
	}
	meter, err := stripemeter.New(stripemeter.Options{
		APIKey:  cfg.StripeAPIKey,
		BaseURL: cfg.StripeBaseURL,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("stripe meter unavailable, usage metering disabled")
		return nil
	}
	return meter
}
