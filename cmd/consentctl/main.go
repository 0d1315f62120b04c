package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/aid-lo/cookie-consent/internal/consent/service"
	"github.com/aid-lo/cookie-consent/internal/consent/store"
	"github.com/aid-lo/cookie-consent/internal/platform/config"
	"github.com/aid-lo/cookie-consent/internal/platform/database"
	"github.com/aid-lo/cookie-consent/internal/platform/logger"
	platformredis "github.com/aid-lo/cookie-consent/internal/platform/redis"
)

const usage = `consentctl inspects and mutates local cookie-consent state.

Usage:
  consentctl status
  consentctl check  [cookie-type]
  consentctl grant  [cookie-type]
  consentctl revoke [cookie-type]

The backend is selected via CONSENT_STORE (file|redis|postgres|memory) and
configured through CONSENT_STATE_DIR, CONSENT_REDIS_URL, CONSENT_DATABASE_URL.
Omitting cookie-type targets the default type.
`

// main wires config, logger, and the selected backend around the keeper.
// Business logic lives in internal/consent.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	backend, cleanup, err := openBackend(cfg)
	if err != nil {
		log.Error("failed to open consent backend", "store", cfg.Store, "error", err)
		os.Exit(1)
	}
	defer cleanup()

	keeper := service.New(ctx, backend, log)

	cookieType := ""
	if len(os.Args) > 2 {
		cookieType = os.Args[2]
	}

	switch os.Args[1] {
	case "status":
		state := keeper.Snapshot()
		if len(state) == 0 {
			fmt.Println("no consent recorded")
			return
		}
		types := make([]string, 0, len(state))
		for t := range state {
			types = append(types, t)
		}
		sort.Strings(types)
		for _, t := range types {
			fmt.Printf("%s\t%s\n", t, state[t])
		}
	case "check":
		fmt.Printf("granted=%t offered=%t\n", keeper.HasConsent(cookieType), keeper.OfferedConsent(cookieType))
	case "grant":
		keeper.Grant(ctx, cookieType)
		fmt.Println("granted")
	case "revoke":
		keeper.Revoke(ctx, cookieType)
		fmt.Println("revoked")
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if !keeper.PersistenceAvailable() {
		log.Warn("persistence unavailable, change was memory-only")
	}
}

// openBackend builds the configured Backend. cleanup is always safe to call.
func openBackend(cfg config.Config) (service.Backend, func(), error) {
	noop := func() {}
	switch cfg.Store {
	case config.StoreMemory:
		return store.NewMemory(), noop, nil
	case config.StoreFile:
		return store.NewFile(cfg.StateDir), noop, nil
	case config.StoreRedis:
		client, err := platformredis.New(cfg.Redis)
		if err != nil {
			return nil, noop, err
		}
		if client == nil {
			return nil, noop, fmt.Errorf("CONSENT_REDIS_URL not set")
		}
		return store.NewRedis(client.Client), func() { _ = client.Close() }, nil
	case config.StorePostgres:
		pool, err := database.New(cfg.Database)
		if err != nil {
			return nil, noop, err
		}
		if pool == nil {
			return nil, noop, fmt.Errorf("CONSENT_DATABASE_URL not set")
		}
		return store.NewPostgres(pool.DB()), func() { _ = pool.Close() }, nil
	default:
		return nil, noop, fmt.Errorf("unknown store %q", cfg.Store)
	}
}
