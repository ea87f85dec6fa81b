package bootstrap

import (
	"context"
	"log/slog"

	"fuelraffle/internal/infra/relay"
	"fuelraffle/internal/pkg/config"

	"github.com/hibiken/asynq"
	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		relay.NewServeMux,
	),
	fx.Invoke(
		StartWorker,
		StartSweeper,
	),
)

// StartWorker runs the asynq consumer alongside the HTTP server: raffle
// close jobs and outbox-published domain events are both handled here.
func StartWorker(lc fx.Lifecycle, cfg config.Config, mux *asynq.ServeMux) {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 10,
			Logger:      asynqLogger{},
		},
	)

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			return srv.Start(mux)
		},
		OnStop: func(_ context.Context) error {
			srv.Shutdown()
			return nil
		},
	})
}

func StartSweeper(lc fx.Lifecycle, sweeper *relay.Sweeper) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go sweeper.Run(ctx)
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			sweeper.Wait()
			return nil
		},
	})
}

// asynqLogger routes asynq's internal logging through slog.
type asynqLogger struct{}

func (asynqLogger) Debug(args ...interface{}) { slog.Debug("asynq", "args", args) }
func (asynqLogger) Info(args ...interface{})  { slog.Info("asynq", "args", args) }
func (asynqLogger) Warn(args ...interface{})  { slog.Warn("asynq", "args", args) }
func (asynqLogger) Error(args ...interface{}) { slog.Error("asynq", "args", args) }
func (asynqLogger) Fatal(args ...interface{}) { slog.Error("asynq fatal", "args", args) }
