package main

import (
	"context"
	"fmt"
	"os"

	"legallink_client/platform/config"
	"legallink_client/platform/logger"
	"legallink_client/platform/store"
)

// cache-tool inspects and resets the persistent cache scope, for debugging
// stale local state without touching the session.

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: cache-tool <dump|clear>")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	ctx := context.Background()

	persistent := newPersistent(cfg, log)

	switch os.Args[1] {
	case "dump":
		keys, err := persistent.Keys(ctx)
		if err != nil {
			log.Error("failed to list cache keys", "error", err)
			os.Exit(1)
		}
		if len(keys) == 0 {
			fmt.Println("cache is empty")
			return
		}
		for _, key := range keys {
			data, err := persistent.Get(ctx, key)
			if err != nil {
				log.Error("failed to read cache key", "key", key, "error", err)
				continue
			}
			fmt.Printf("%s\t%s\n", key, data)
		}

	case "clear":
		keys, err := persistent.Keys(ctx)
		if err != nil {
			log.Error("failed to list cache keys", "error", err)
			os.Exit(1)
		}
		for _, key := range keys {
			if err := persistent.Delete(ctx, key); err != nil {
				log.Error("failed to delete cache key", "key", key, "error", err)
				os.Exit(1)
			}
		}
		fmt.Printf("cleared %d entries\n", len(keys))

	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\nusage: cache-tool <dump|clear>\n", os.Args[1])
		os.Exit(2)
	}
}

func newPersistent(cfg *config.Config, log *logger.Logger) store.Store {
	if cfg.RedisURL != "" {
		redis, err := store.NewRedis(cfg.RedisURL)
		if err == nil {
			return redis
		}
		log.Error("redis unavailable, using file cache", "error", err)
	}
	return store.NewFile(cfg.CacheFile)
}
