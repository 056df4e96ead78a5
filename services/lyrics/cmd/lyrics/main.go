package main

import (
	"context"
	"errors"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/example/mytype/internal/platform/analytics"
	"github.com/example/mytype/internal/platform/auth"
	"github.com/example/mytype/internal/platform/config"
	"github.com/example/mytype/internal/platform/db"
	"github.com/example/mytype/internal/platform/httpserver"
	"github.com/example/mytype/internal/platform/logging"
	"github.com/example/mytype/internal/platform/natsconn"
	"github.com/example/mytype/internal/platform/run"
	lyricsconfig "github.com/example/mytype/services/lyrics/internal/config"
	"github.com/example/mytype/services/lyrics/internal/gemini"
	"github.com/example/mytype/services/lyrics/internal/handlers"
	"github.com/example/mytype/services/lyrics/internal/resolver"
	"github.com/example/mytype/services/lyrics/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	svcCfg, err := lyricsconfig.Load()
	if err != nil {
		panic(err)
	}
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	lyricsStore, ready, closeStore := initStore(cfg, log)
	if closeStore != nil {
		defer closeStore()
	}

	// NATS is optional; without it analytics and cache invalidation are no-ops.
	var nc *nats.Conn
	var pub *analytics.Publisher
	if conn, err := natsconn.Connect(natsconn.Options{}); err != nil {
		log.Warn("nats unavailable, analytics disabled", zap.Error(err))
	} else {
		nc = conn
		defer nc.Close()
		js, err := nc.JetStream()
		if err != nil {
			log.Warn("jetstream unavailable, analytics disabled", zap.Error(err))
		} else {
			pub = analytics.New(js, log)
		}
	}

	songsCache := handlers.NewTTLCache(svcCfg.SongsCacheTTLSec, nc, analytics.SubjectSongsInvalidate)
	invalidate := func() {
		songsCache.Flush()
		if nc != nil {
			_ = nc.Publish(analytics.SubjectSongsInvalidate, []byte("ALL"))
		}
	}

	gen := gemini.New(svcCfg.GeminiAPIKey, svcCfg.GeminiBaseURL, svcCfg.GeminiModel, svcCfg.GeminiTimeout)
	res := resolver.New(lyricsStore, gen, log, pub)
	res.Invalidate = invalidate

	verifier := auth.JWTVerifier{Secret: svcCfg.JWTSecret}
	issuer := auth.TokenIssuer{Secret: svcCfg.JWTSecret}

	r := chi.NewRouter()
	httpserver.SetupRouter(r, httpserver.RouterConfig{ReadyFunc: ready})

	r.Post("/v1/lyrics", handlers.ResolveLyrics(res))
	r.Get("/v1/songs", handlers.ListSongs(lyricsStore, songsCache))
	r.Get("/v1/songs/random", handlers.RandomSongs(lyricsStore, songsCache))
	r.Get("/v1/songs/{song_id}", handlers.GetSong(lyricsStore))
	r.Post("/v1/admin/login", handlers.AdminLogin(issuer, svcCfg.AdminPasswordHash))
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser(verifier))
		r.Use(auth.RequireAdmin)
		r.Delete("/v1/songs/{song_id}", handlers.DeleteSong(lyricsStore, pub, invalidate))
	})

	srv := httpserver.New(httpserver.Options{Addr: cfg.HTTP.Addr, ServiceName: cfg.ServiceName, Logger: log, Router: r})

	runner := run.New(log)
	code := runner.WithSignals(func(ctx context.Context) error {
		go func() {
			<-ctx.Done()
			_ = srv.Shutdown(context.Background())
		}()
		return srv.Start(log)
	})

	log.Info("exit", zap.Int("code", code))
	run.Exit(code)
}

// initStore selects the lyrics cache backend. In production a working
// Postgres connection is required and the process terminates otherwise.
// In development a missing DATABASE_URL falls back to the in-memory
// store, and an unreachable database degrades to no cache at all.
// The returned ready func backs /readyz; without Postgres the service
// is still ready, it just cannot cache.
func initStore(cfg config.AppConfig, log *zap.Logger) (store.LyricsStore, func() error, func()) {
	ctx := context.Background()
	alwaysReady := func() error { return nil }

	pool, err := db.Open(ctx)
	if err != nil {
		if cfg.IsProduction() {
			log.Error("postgres is required in production but unavailable", zap.Error(err))
			_ = log.Sync()
			run.Exit(1)
		}
		if errors.Is(err, db.ErrNoDSN) {
			log.Warn("DATABASE_URL not set, using in-memory lyrics store (development only)")
			return store.NewInMemoryLyricsStore(), alwaysReady, nil
		}
		log.Warn("postgres unavailable, running without lyrics cache", zap.Error(err))
		return nil, alwaysReady, nil
	}

	if err := db.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		if cfg.IsProduction() {
			log.Error("schema init failed in production", zap.Error(err))
			_ = log.Sync()
			run.Exit(1)
		}
		log.Warn("schema init failed, running without lyrics cache", zap.Error(err))
		return nil, alwaysReady, nil
	}

	log.Info("lyrics store: postgres")
	ready := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return pool.Ping(ctx)
	}
	return store.NewPostgresLyricsStore(pool), ready, pool.Close
}
