package components

import (
	"fuelraffle/internal/handler/middleware"
	"fuelraffle/internal/infra/db"
	"fuelraffle/internal/infra/kv"
	"fuelraffle/internal/infra/ledger"
	"fuelraffle/internal/infra/readstore"
	"fuelraffle/internal/infra/relay"
	repo_impl "fuelraffle/internal/infra/repository"
	"fuelraffle/internal/infra/seed"
	"fuelraffle/internal/infra/sms"
	"fuelraffle/internal/infra/uow"
	"fuelraffle/internal/pkg/config"
	"fuelraffle/internal/usecase/commands"
	"fuelraffle/internal/usecase/queries"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		uow.NewPostgresUoW,

		// Outbox relay reads outside the UnitOfWork getters.
		fx.Annotate(
			repo_impl.NewOutboxRepository,
			fx.As(new(relay.OutboxSource)),
		),

		// Read stores
		fx.Annotate(
			func(dbtx db.DBTX) *readstore.CouponReadStore { return readstore.NewCouponReadStore(dbtx) },
			fx.As(new(queries.CouponViewRepo)),
		),
		fx.Annotate(
			func(dbtx db.DBTX) *readstore.RaffleReadStore { return readstore.NewRaffleReadStore(dbtx) },
			fx.As(new(queries.RaffleViewRepo)),
		),

		// Redis-backed stores
		fx.Annotate(
			kv.NewNonceStore,
			fx.As(new(commands.NonceStore)),
		),
		func(rdb *redis.Client, cfg config.Config) commands.RateLimiter {
			return kv.NewRateLimiter(rdb, cfg.QR.RateLimitPerMin)
		},
		fx.Annotate(
			kv.NewBlacklist,
			fx.As(new(commands.Blacklist)),
			fx.As(new(middleware.RevocationChecker)),
		),
		fx.Annotate(
			kv.NewOTPStore,
			fx.As(new(commands.OTPStore)),
		),
		fx.Annotate(
			kv.NewJobStore,
			fx.As(new(commands.JobStore)),
		),

		// External HTTP clients
		func(cfg config.Config) commands.SeedSource {
			return seed.NewClient(cfg.Raffle.SeedURL, cfg.Raffle.SeedTimeout)
		},
		func(cfg config.Config) commands.EntrySource {
			return ledger.NewClient(cfg.Raffle.LedgerURL, cfg.Raffle.LedgerTimeout)
		},

		fx.Annotate(
			sms.NewLogSender,
			fx.As(new(commands.CodeSender)),
		),
	),
)
