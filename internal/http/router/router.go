package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/gig-marketplace/internal/config"
	"github.com/ignatzorin/gig-marketplace/internal/http/middleware"
	"github.com/ignatzorin/gig-marketplace/internal/interface/http/handler"
	"github.com/ignatzorin/gig-marketplace/internal/service"
)

// Handlers: все HTTP хэндлеры приложения.
type Handlers struct {
	Auth   *handler.AuthHandler
	Gig    *handler.GigHandler
	Bid    *handler.BidHandler
	WS     *handler.WSHandler
	Health *handler.HealthHandler
}

func SetupRouter(cfg *config.Config, h Handlers, identity service.IdentityProvider) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", h.Health.Health)

	api := r.Group("/api")
	api.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))

	requireAuth := middleware.AuthMiddleware(identity, cfg.AuthCookieName)

	authGroup := api.Group("/auth")
	{
		authRateLimit := middleware.RateLimitMiddleware(cfg.AuthRateLimit, cfg.RateLimitPeriod)
		authGroup.POST("/register", authRateLimit, h.Auth.Register)
		authGroup.POST("/login", authRateLimit, h.Auth.Login)
		authGroup.GET("/logout", h.Auth.Logout)
		authGroup.GET("/me", requireAuth, h.Auth.Me)
	}

	gigs := api.Group("/gigs")
	{
		gigs.GET("", h.Gig.ListGigs)
		gigs.POST("", requireAuth, h.Gig.CreateGig)
		gigs.GET("/my-gigs", requireAuth, h.Gig.ListMyGigs)
		gigs.GET("/:id", middleware.UUIDValidator("id"), h.Gig.GetGig)
	}

	// :id означает заказ для GET и отклик для PATCH .../hire; gin требует одно имя параметра на уровне пути.
	bids := api.Group("/bids")
	bids.Use(requireAuth)
	{
		bids.POST("", h.Bid.CreateBid)
		bids.GET("/my", h.Bid.ListMyBids)
		bids.GET("/:id", middleware.UUIDValidator("id"), h.Bid.ListGigBids)
		bids.PATCH("/:id/hire", middleware.UUIDValidator("id"), h.Bid.Hire)
	}

	api.GET("/ws", h.WS.Handle)

	return r
}
