package components

import (
	"fuelraffle/internal/infra/relay"
	"fuelraffle/internal/pkg/clock"
	"fuelraffle/internal/pkg/config"
	"fuelraffle/internal/pkg/jwt"
	"fuelraffle/internal/pkg/qrsign"
	"fuelraffle/internal/usecase/commands"
	"fuelraffle/internal/usecase/queries"
	"fuelraffle/internal/usecase/shared"

	"github.com/hibiken/asynq"
	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		func(c *asynq.Client) commands.TaskEnqueuer { return c },
		func(c *asynq.Client) relay.Publisher { return c },

		func(
			u shared.UnitOfWork,
			tokens *jwt.Service,
			otpStore commands.OTPStore,
			blacklist commands.Blacklist,
			sender commands.CodeSender,
			cfg config.Config,
		) commands.AuthCommands {
			return commands.NewAuthUseCase(u, tokens, otpStore, blacklist, sender, cfg.JWT.OTPTTL)
		},

		func(u shared.UnitOfWork, tokens *jwt.Service, cfg config.Config, clk clock.Clock) commands.CouponCommands {
			return commands.NewCouponUseCase(u, tokens, commands.CouponConfig{
				TicketRatio: cfg.Coupon.TicketRatio,
				TokenTTL:    cfg.Coupon.TokenTTL,
			}, clk)
		},

		func(
			u shared.UnitOfWork,
			verifier *qrsign.Verifier,
			nonces commands.NonceStore,
			limiter commands.RateLimiter,
			cfg config.Config,
			clk clock.Clock,
		) commands.RedemptionCommands {
			return commands.NewRedemptionUseCase(u, verifier, nonces, limiter, cfg.QR.ClockSkew, clk)
		},

		func(
			u shared.UnitOfWork,
			entries commands.EntrySource,
			seeds commands.SeedSource,
			jobs commands.JobStore,
			enqueuer commands.TaskEnqueuer,
			cfg config.Config,
			clk clock.Clock,
		) commands.RaffleCommands {
			return commands.NewRaffleUseCase(u, entries, seeds, jobs, enqueuer, commands.SeedConfig{
				Retries:     cfg.Raffle.SeedRetries,
				BackoffBase: cfg.Raffle.SeedBackoffBase,
				Timeout:     cfg.Raffle.SeedTimeout,
			}, clk)
		},

		func(u shared.UnitOfWork, outbox relay.OutboxSource, publisher relay.Publisher, cfg config.Config) *relay.Sweeper {
			return relay.NewSweeper(u, outbox, publisher, cfg.Outbox.PollInterval, cfg.Outbox.BatchSize)
		},
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewCouponQueries,
		queries.NewRaffleQueries,
	),
)
