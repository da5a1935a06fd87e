package app

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"freightcarbon/internal/client"
	"freightcarbon/internal/env"
	"freightcarbon/internal/estimator"
	"freightcarbon/internal/handler"
	"freightcarbon/internal/middleware"
	"freightcarbon/internal/normalizer"
	"freightcarbon/internal/payload"
	"freightcarbon/internal/resolver"
	"freightcarbon/internal/resolver/cache"
	redisCache "freightcarbon/internal/resolver/redis"
	"freightcarbon/internal/store"
)

type App struct{}

const (
	successCode = 0
)

func New() *App {
	return &App{}
}

func (a *App) Run() (exitCode int) {
	ctx := context.Background()

	env.LoadEnv()
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	mux := http.NewServeMux()

	serverPort := env.GetEnv("PORT", "8080")
	redisAddr := env.GetEnv("REDIS_ADDR", "")
	redisPassword := env.GetEnv("REDIS_PASSWORD", "")
	redisDb, err := strconv.Atoi(env.GetEnv("REDIS_DB", "0"))
	if err != nil {
		log.Error().Msg("can't parse REDIS_DB")
		return 1
	}
	redisAsyncChanSize, err := strconv.Atoi(env.GetEnv("REDIS_CHAN_SIZE", "1000"))
	if err != nil {
		log.Error().Msg("can't parse REDIS_CHAN_SIZE")
		return 1
	}
	lruCacheSize, err := strconv.Atoi(env.GetEnv("LRU_CACHE_SIZE", "1000"))
	if err != nil {
		log.Error().Msg("can't parse LRU_CACHE_SIZE")
		return 1
	}
	emissionsTimeout, err := time.ParseDuration(env.GetEnv("EMISSIONS_TIMEOUT", "10s"))
	if err != nil {
		log.Error().Msg("can't parse EMISSIONS_TIMEOUT")
		return 1
	}
	locationTimeout, err := time.ParseDuration(env.GetEnv("LOCATION_TIMEOUT", "5s"))
	if err != nil {
		log.Error().Msg("can't parse LOCATION_TIMEOUT")
		return 1
	}
	apiTimeout, err := time.ParseDuration(env.GetEnv("V1_ESTIMATE_TIMEOUT", "30s"))
	if err != nil {
		log.Error().Msg("can't parse V1_ESTIMATE_TIMEOUT")
		return 1
	}
	emissionsURL := env.GetEnv("EMISSIONS_URL", "http://localhost:8081/v1/calculate")
	locationURL := env.GetEnv("LOCATION_URL", "http://localhost:8081/v1/locations")
	databaseURL := env.GetEnv("DATABASE_URL", "")

	// the api key is validated once here; the builder owns it afterwards
	builder, err := payload.NewBuilder(env.GetEnv("EMISSIONS_API_KEY", ""))
	if err != nil {
		log.Error().Err(err).Msg("EMISSIONS_API_KEY is not configured")
		return 1
	}

	localCache := cache.NewLRU[string, resolver.Location](lruCacheSize)
	remoteCache := redisCache.NewClient[resolver.Location](ctx,
		redisAddr,
		redisPassword,
		redisDb,
		marshalLocation,
		unmarshalLocation,
		redisAsyncChanSize,
	)
	locations, err := resolver.NewClient(locationURL, locationTimeout, localCache, remoteCache)
	if err != nil {
		log.Error().Err(err).Msg("couldn't initialize a location resolver")
		return 1
	}

	emissionsClient, err := client.NewClient(emissionsURL, emissionsTimeout)
	if err != nil {
		log.Error().Err(err).Msg("couldn't initialize an emissions client")
		return 1
	}

	var calculations *store.Store
	if databaseURL != "" {
		pool, err := pgxpool.New(ctx, databaseURL)
		if err != nil {
			log.Error().Err(err).Msg("couldn't initialize a database pool")
			return 1
		}
		calculations = store.New(pool)
	} else {
		log.Warn().Msg("DATABASE_URL is empty; calculations will not be persisted")
	}

	requestNormalizer := normalizer.New(locations)
	var estimatorService *estimator.Service
	if calculations != nil {
		estimatorService = estimator.New(requestNormalizer, builder, emissionsClient, calculations)
	} else {
		estimatorService = estimator.New(requestNormalizer, builder, emissionsClient, nil)
	}

	estimateHandler := handler.New(estimatorService, apiTimeout)

	mux.HandleFunc("/api/v1/estimate", middleware.JsonMiddleware(http.HandlerFunc(estimateHandler.Handle)).ServeHTTP)

	if err := http.ListenAndServe(":"+serverPort, mux); err != nil {
		log.Fatal().Err(err).Msg("Server crashed")
	}

	return successCode
}

func marshalLocation(loc resolver.Location) (string, error) {
	data, err := json.Marshal(loc)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func unmarshalLocation(s string) (resolver.Location, error) {
	var loc resolver.Location
	err := json.Unmarshal([]byte(s), &loc)
	if err != nil {
		return resolver.Location{}, err
	}
	return loc, nil
}
