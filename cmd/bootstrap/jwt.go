package bootstrap

import (
	"fuelraffle/internal/pkg/clock"
	"fuelraffle/internal/pkg/config"
	"fuelraffle/internal/pkg/jwt"

	"go.uber.org/fx"
)

var JWTModule = fx.Module("jwt",
	fx.Provide(
		clock.NewRealClock,
		NewJWTService,
	),
)

func NewJWTService(cfg config.Config, clk clock.Clock) *jwt.Service {
	return jwt.NewService(cfg.JWT.Secret, cfg.JWT.AccessDuration, cfg.JWT.RefreshDuration, clk)
}
