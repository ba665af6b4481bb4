// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/kbeauty-storefront/internal/config"
	"github.com/your-org/kbeauty-storefront/internal/domain/analytics"
	"github.com/your-org/kbeauty-storefront/internal/domain/order"
	"github.com/your-org/kbeauty-storefront/internal/interfaces/http/handlers"
	"github.com/your-org/kbeauty-storefront/internal/interfaces/http/middleware"
)

// Dependencies are the collaborators the route handlers are built from
type Dependencies struct {
	Config    *config.Config
	Visitors  middleware.Visitors
	Catalog   handlers.Catalog
	Orders    *order.Service
	Analytics *analytics.Service
	Receipts  handlers.ReceiptRenderer
	Logger    logrus.FieldLogger
}

// SetupRoutes registers every storefront route under rg. All of them run with
// the caller's visitor loaded.
func SetupRoutes(rg *gin.RouterGroup, deps Dependencies) {
	rg.Use(middleware.Visitor(deps.Visitors, deps.Config.Security.CookieSecure))

	SetupCatalogRoutes(rg, deps)
	SetupCartRoutes(rg, deps)
	SetupFavoritesRoutes(rg, deps)
	SetupAuthRoutes(rg)
	SetupSearchRoutes(rg)
	SetupOrderRoutes(rg, deps)
	SetupAdminRoutes(rg, deps)
	SetupLiveRoutes(rg, deps)
}

// SetupCatalogRoutes sets up product, brand and category reads
func SetupCatalogRoutes(rg *gin.RouterGroup, deps Dependencies) {
	catalogHandler := handlers.NewCatalogHandler(deps.Catalog)

	products := rg.Group("/products")
	{
		products.GET("", catalogHandler.ListProducts)
		products.GET("/bestsellers", catalogHandler.Bestsellers)
		products.GET("/:id", catalogHandler.GetProduct)
	}

	rg.GET("/brands", catalogHandler.ListBrands)
	rg.GET("/categories", catalogHandler.ListCategories)
}

// SetupCartRoutes sets up cart related routes
func SetupCartRoutes(rg *gin.RouterGroup, deps Dependencies) {
	cartHandler := handlers.NewCartHandler(deps.Catalog, deps.Config.DeliveryFeeTND())

	cart := rg.Group("/cart")
	{
		cart.GET("", cartHandler.GetCart)
		cart.GET("/count", cartHandler.GetCartCount)
		cart.POST("/items", cartHandler.AddToCart)
		cart.PUT("/items/:id", cartHandler.UpdateCartItem)
		cart.DELETE("/items/:id", cartHandler.RemoveFromCart)
		cart.DELETE("", cartHandler.ClearCart)
	}
}

// SetupFavoritesRoutes sets up favorites related routes
func SetupFavoritesRoutes(rg *gin.RouterGroup, deps Dependencies) {
	favoritesHandler := handlers.NewFavoritesHandler(deps.Catalog)

	favorites := rg.Group("/favorites")
	{
		favorites.GET("", favoritesHandler.GetFavorites)
		favorites.POST("", favoritesHandler.AddFavorite)
		favorites.POST("/:id/toggle", favoritesHandler.ToggleFavorite)
		favorites.DELETE("/:id", favoritesHandler.RemoveFavorite)
	}
}

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(rg *gin.RouterGroup) {
	authHandler := handlers.NewAuthHandler()

	auth := rg.Group("/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)

		protected := auth.Group("")
		protected.Use(middleware.RequireSession())
		{
			protected.GET("/me", authHandler.Me)
			protected.PUT("/me", authHandler.UpdateProfile)
		}
	}
}

// SetupSearchRoutes sets up search related routes
func SetupSearchRoutes(rg *gin.RouterGroup) {
	searchHandler := handlers.NewSearchHandler()

	search := rg.Group("/search")
	{
		search.GET("/suggestions", searchHandler.Suggestions)
		search.GET("/recent", searchHandler.Recent)
		search.POST("", searchHandler.Submit)
	}
}

// SetupOrderRoutes sets up checkout, order and notification routes
func SetupOrderRoutes(rg *gin.RouterGroup, deps Dependencies) {
	orderHandler := handlers.NewOrderHandler(deps.Orders)
	invoiceHandler := handlers.NewInvoiceHandler(deps.Orders, deps.Receipts, deps.Logger)
	notificationHandler := handlers.NewNotificationHandler(deps.Logger)

	protected := rg.Group("")
	protected.Use(middleware.RequireSession())
	{
		protected.POST("/checkout", orderHandler.Checkout)
		protected.GET("/notifications", notificationHandler.Poll)

		orders := protected.Group("/orders")
		{
			orders.GET("", orderHandler.GetMyOrders)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.POST("/:id/cancel", orderHandler.CancelOrder)
			orders.GET("/:id/receipt", invoiceHandler.GetReceipt)
		}
	}
}

// SetupAdminRoutes sets up admin routes
func SetupAdminRoutes(rg *gin.RouterGroup, deps Dependencies) {
	analyticsHandler := handlers.NewAnalyticsHandler(deps.Analytics, deps.Logger)

	admin := rg.Group("/admin")
	admin.Use(middleware.RequireSession(), middleware.RequireAdmin())
	{
		admin.GET("/dashboard", analyticsHandler.GetDashboard)
		admin.GET("/orders", analyticsHandler.GetOrders)
		admin.GET("/orders/export", analyticsHandler.ExportOrders)
		admin.PUT("/orders/:id/status", analyticsHandler.UpdateOrderStatus)
	}
}

// SetupLiveRoutes sets up the websocket channel
func SetupLiveRoutes(rg *gin.RouterGroup, deps Dependencies) {
	liveHandler := handlers.NewLiveHandler(deps.Config.Security.CORSAllowedOrigins, deps.Logger)
	rg.GET("/ws", liveHandler.Connect)
}
