package main

import (
	"context"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/redis/go-redis/v9"

	"github.com/thithikshaslt/mcp-server/internal/cache"
	"github.com/thithikshaslt/mcp-server/internal/config"
	"github.com/thithikshaslt/mcp-server/internal/logging"
	"github.com/thithikshaslt/mcp-server/internal/repository"
	"github.com/thithikshaslt/mcp-server/internal/service"
	"github.com/thithikshaslt/mcp-server/internal/tools"
)

const version = "0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logging.New("buyer-server", "info")
		fallback.Error().Err(err).Msg("failed to load configuration")
		os.Exit(1)
	}
	log := logging.New("buyer-server", cfg.LogLevel)

	uri, err := cfg.URI()
	if err != nil {
		log.Error().Err(err).Msg("invalid mongodb configuration")
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := repository.Connect(ctx, uri, cfg.MongoDatabase)
	if err != nil {
		log.Error().Err(err).Msg("failed to connect to mongodb")
		os.Exit(1)
	}
	defer db.Client().Disconnect(ctx)
	log.Info().Str("database", cfg.MongoDatabase).Msg("connected to mongodb")

	if err := repository.EnsureIndexes(ctx, db); err != nil {
		log.Error().Err(err).Msg("failed to ensure indexes")
		os.Exit(1)
	}

	var identityCache cache.IdentityCache = cache.Noop{}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Error().Err(err).Msg("redis connection failed")
			os.Exit(1)
		}
		identityCache = cache.NewRedisCache(rdb)
		log.Info().Str("addr", cfg.RedisAddr).Msg("identity cache enabled")
	}

	profiles := repository.NewProfiles(db)
	inventory := repository.NewInventory(db)
	ledger := repository.NewLedger(db)
	attempts := repository.NewCheckouts(db)

	identity := service.NewIdentity(profiles, identityCache, log)
	catalog := service.NewCatalog(inventory, identity, log)
	cart := service.NewCart(profiles, inventory, identity, log)
	account := service.NewAccount(profiles, identity, log)
	checkout := service.NewCheckout(profiles, inventory, ledger, attempts, identity, log)

	s := server.NewMCPServer("Buyer Service", version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	tools.NewBuyerTools(catalog, cart, account, checkout, log).Register(s)

	log.Info().Msg("buyer service listening on stdio")
	if err := server.ServeStdio(s); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
