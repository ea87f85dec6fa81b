package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"fuelraffle/internal/handler/api"
	"fuelraffle/internal/handler/middleware"
	"fuelraffle/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	authHandler *api.AuthHandler,
	couponHandler *api.CouponHandler,
	redemptionHandler *api.RedemptionHandler,
	raffleHandler *api.RaffleHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, authHandler, couponHandler, redemptionHandler, raffleHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.NewLogger(cfg.Log).LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	authHandler *api.AuthHandler,
	couponHandler *api.CouponHandler,
	redemptionHandler *api.RedemptionHandler,
	raffleHandler *api.RaffleHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/otp/request", Handler: authHandler.RequestOTP},
				{Method: http.MethodPost, Path: "/otp/verify", Handler: authHandler.VerifyOTP},
				{Method: http.MethodPost, Path: "/refresh", Handler: authHandler.Refresh},
			})

			authRequired := auth.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodPost, Path: "/logout", Handler: authHandler.Logout},
			})
		}

		coupons := apiGroup.Group("/coupons")
		coupons.Use(authMiddleware.RequireAuth())
		{
			addRoutes(coupons, []route{
				{Method: http.MethodPost, Path: "", Handler: couponHandler.Generate,
					Mw: []gin.HandlerFunc{authMiddleware.RequireRole(middleware.RoleEmployee)}},
				{Method: http.MethodPost, Path: "/scan", Handler: couponHandler.Scan},
				{Method: http.MethodPost, Path: "/:id/activation", Handler: couponHandler.Activate},
				{Method: http.MethodGet, Path: "/:id", Handler: couponHandler.Get},
			})
		}

		redeem := apiGroup.Group("/redeem")
		redeem.Use(authMiddleware.RequireAuth())
		{
			addRoutes(redeem, []route{
				{Method: http.MethodPost, Path: "", Handler: redemptionHandler.Redeem},
			})
		}

		raffles := apiGroup.Group("/raffles")
		{
			// Verification is public: anyone may audit a drawn raffle, and
			// the committed entry list is what the root is rebuilt from.
			addRoutes(raffles, []route{
				{Method: http.MethodGet, Path: "/:id/verify", Handler: raffleHandler.Verify},
				{Method: http.MethodGet, Path: "/:id/entries", Handler: raffleHandler.Entries},
			})

			raffleAdmin := raffles.Group("")
			raffleAdmin.Use(authMiddleware.RequireAuth(), authMiddleware.RequireRole(middleware.RoleEmployee))
			addRoutes(raffleAdmin, []route{
				{Method: http.MethodPost, Path: "/:id/close", Handler: raffleHandler.Close},
				{Method: http.MethodGet, Path: "/jobs/:id", Handler: raffleHandler.JobStatus},
				{Method: http.MethodPost, Path: "/:id/draw", Handler: raffleHandler.Draw},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
