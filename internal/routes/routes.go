package routes

import (
	"slices"
	"time"

	"github.com/01moynul/storefront-golang/internal/handlers"
	"github.com/01moynul/storefront-golang/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// corsConfig allows the configured front-end origins to call the API with a
// bearer token. "*" opens the API to every origin, without credentials.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

func SetupRouter(h *handlers.Handlers, corsOrigins []string) *gin.Engine {
	router := gin.Default()

	// Must be the very first middleware so preflight requests are answered.
	router.Use(cors.New(corsConfig(corsOrigins)))

	router.Static("/uploads", h.UploadDir)

	router.GET("/ping", h.Ping)

	// --- Auth Routes (Public) ---
	router.POST("/signup", h.Signup)
	router.POST("/login", h.Login)
	router.POST("/token/refresh", h.RefreshToken)

	// --- Catalog Routes (Public) ---
	router.GET("/products", h.ListProducts)
	router.GET("/product/:id", h.GetProduct)
	router.GET("/categories", h.ListCategories)
	router.GET("/categories/all", h.AllCategories)
	router.GET("/category/:name", h.ProductsByCategory)

	// --- Reference Data (Public reads) ---
	router.GET("/payment-methods", h.ListPaymentMethods)
	router.GET("/delivery-services", h.ListDeliveryServices)

	requireAuth := middleware.AuthMiddleware(h.Tokens, h.Store)

	// --- Protected Routes (Login Required) ---
	auth := router.Group("/", requireAuth)
	{
		auth.POST("/logout", h.Logout)

		auth.GET("/profile", h.GetProfile)
		auth.POST("/profile", h.UpdateProfile)
		auth.POST("/profile/image", h.UploadProfileImage)

		auth.GET("/cart", h.GetCart)
		auth.POST("/cart", h.MutateCart)
		auth.POST("/add-to-cart/:product_id", h.AddToCart)
		auth.POST("/update-cart-item/:item_id", h.UpdateCartItem)
		auth.POST("/remove-from-cart/:item_id", h.RemoveFromCart)

		auth.GET("/checkout", h.CheckoutSummary)
		auth.POST("/checkout", h.Checkout)

		auth.GET("/orders", h.ListOrders)
		auth.GET("/orders/:id", h.GetOrder)
	}

	// --- Admin-Only Routes ---
	admin := router.Group("/", requireAuth, middleware.AdminMiddleware(h.Store))
	{
		admin.POST("/products", h.CreateProduct)
		admin.PUT("/products/:id/price", h.UpdateProductPrice)

		admin.POST("/payment-methods", h.CreatePaymentMethod)
		admin.DELETE("/payment-methods/:id", h.DeletePaymentMethod)

		admin.POST("/delivery-services", h.CreateDeliveryService)
		admin.DELETE("/delivery-services/:id", h.DeleteDeliveryService)
	}

	return router
}
