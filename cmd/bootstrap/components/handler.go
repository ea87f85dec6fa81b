package components

import (
	"fuelraffle/internal/handler"
	"fuelraffle/internal/handler/api"
	"fuelraffle/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewCouponHandler,
		api.NewRedemptionHandler,
		api.NewRaffleHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
