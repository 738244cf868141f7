package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"legallink_client/internal/api"
	"legallink_client/internal/appointments"
	"legallink_client/internal/auth"
	"legallink_client/internal/cases"
	"legallink_client/internal/chat"
	"legallink_client/internal/cli"
	"legallink_client/internal/clients"
	"legallink_client/internal/lawyers"
	"legallink_client/internal/reschedule"
	"legallink_client/internal/session"
	"legallink_client/platform/config"
	"legallink_client/platform/logger"
	"legallink_client/platform/store"
	"legallink_client/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	cache := newCache(cfg, log)
	val := validator.New()
	sessions := session.NewManager(store.NewMemory(), cfg, log)
	client := api.NewClient(cfg, sessions, log)

	availability, err := reschedule.LoadAvailability()
	if err != nil {
		log.Error("failed to load availability table", "error", err)
		panic("failed to load availability table: " + err.Error())
	}

	// ========================================================================
	// Domain Modules
	// ========================================================================

	appointmentsModule := appointments.NewModule(client, cache, log)

	app := &cli.App{
		Sessions:     sessions,
		Auth:         auth.New(client, sessions, val, log),
		Appointments: appointmentsModule.Service,
		Reschedule:   reschedule.NewModal(availability, &reschedule.Recorder{}, log),
		Cases:        cases.New(client, log),
		Clients:      clients.New(client, val, cfg.PhoneRegion, log),
		Lawyers:      lawyers.New(client, val, cfg.PhoneRegion, log),
		Chat:         chat.New(client, cfg, log),
		Log:          log,
		Out:          os.Stdout,
	}

	os.Exit(app.Run(ctx, os.Args[1:]))
}

// newCache builds the dual-scope cache: always an in-memory session scope,
// with Redis as the persistent scope when configured and the cache file
// otherwise.
func newCache(cfg *config.Config, log *logger.Logger) store.Store {
	mem := store.NewMemory()

	if cfg.RedisURL != "" {
		redis, err := store.NewRedis(cfg.RedisURL)
		if err == nil {
			return store.NewDual(mem, redis, log)
		}
		log.Error("redis unavailable, falling back to file cache", "error", err)
	}

	return store.NewDual(mem, store.NewFile(cfg.CacheFile), log)
}
