package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopmitra/billing-api/internal/application/billing"
	"github.com/shopmitra/billing-api/internal/config"
	"github.com/shopmitra/billing-api/internal/domain/port"
	"github.com/shopmitra/billing-api/internal/presentation/http/handler"
	"github.com/shopmitra/billing-api/internal/presentation/http/middleware"
	"github.com/shopmitra/billing-api/pkg/utils"
)

// Deps carries everything the router needs wired in.
type Deps struct {
	Cfg        *config.Config
	Log        zerolog.Logger
	Sessions   *billing.SessionManager
	Backend    port.BillingBackend
	JWTManager *utils.JWTManager
	Idem       *middleware.IdempotencyStore
}

// Setup configures the gin engine with all routes and middleware.
func Setup(deps Deps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"service":  deps.Cfg.App.Name,
			"sessions": deps.Sessions.Count(),
		})
	})

	sessionHandler := handler.NewSessionHandler(deps.Sessions)
	cartHandler := handler.NewCartHandler(deps.Sessions)
	paymentHandler := handler.NewPaymentHandler(deps.Sessions)
	catalogHandler := handler.NewCatalogHandler(deps.Backend)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(deps.JWTManager))
	{
		v1.GET("/products", catalogHandler.Products)
		v1.GET("/customers", catalogHandler.Customers)

		sessions := v1.Group("/sessions")
		{
			sessions.POST("", sessionHandler.Create)
			sessions.GET("/:id", sessionHandler.Get)
			sessions.DELETE("/:id", sessionHandler.Delete)

			sessions.POST("/:id/items", cartHandler.AddItem)
			sessions.PATCH("/:id/items/:productID", cartHandler.UpdateItem)
			sessions.DELETE("/:id/items/:productID", cartHandler.RemoveItem)

			sessions.PUT("/:id/customer", cartHandler.SetCustomer)
			sessions.PUT("/:id/payment", cartHandler.SetPayment)

			// A retried pay request must not produce a second bill.
			pay := sessions.Group("/:id/pay")
			pay.Use(middleware.Idempotency(deps.Idem))
			{
				pay.POST("", paymentHandler.Start)
				pay.POST("/callback", paymentHandler.Callback)
				pay.POST("/failed", paymentHandler.Failed)
			}
		}
	}

	return router
}
