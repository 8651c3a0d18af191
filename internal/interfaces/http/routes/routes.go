// internal/interfaces/http/routes/routes.go
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zonagamer/zonagamer-backend/internal/config"
	"github.com/zonagamer/zonagamer-backend/internal/interfaces/http/handlers"
	"github.com/zonagamer/zonagamer-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// AccessPolicy is the declarative capability table for every API
// route. Paths are gin route templates relative to the /api group.
// Anything registered but missing here requires authentication.
func AccessPolicy() *middleware.Policy {
	return middleware.NewPolicy([]middleware.Rule{
		// Auth
		{Method: http.MethodPost, Path: "/api/auth/register", Capability: middleware.Public},
		{Method: http.MethodPost, Path: "/api/auth/login", Capability: middleware.Public},
		{Method: http.MethodGet, Path: "/api/auth/profile", Capability: middleware.Authenticated},
		{Method: http.MethodPut, Path: "/api/auth/profile", Capability: middleware.Authenticated},
		{Method: http.MethodPut, Path: "/api/auth/password", Capability: middleware.Authenticated},

		// Catalog
		{Method: http.MethodGet, Path: "/api/products", Capability: middleware.Public},
		{Method: http.MethodGet, Path: "/api/products/featured", Capability: middleware.Public},
		{Method: http.MethodGet, Path: "/api/products/search", Capability: middleware.Public},
		{Method: http.MethodGet, Path: "/api/products/category/:categoryId", Capability: middleware.Public},
		{Method: http.MethodGet, Path: "/api/products/:id", Capability: middleware.Public},
		{Method: http.MethodGet, Path: "/api/categorias", Capability: middleware.Public},
		{Method: http.MethodGet, Path: "/api/categorias/root", Capability: middleware.Public},
		{Method: http.MethodGet, Path: "/api/categorias/:slug", Capability: middleware.Public},
		{Method: http.MethodGet, Path: "/api/categorias/:slug/children", Capability: middleware.Public},

		// Cart
		{Method: http.MethodGet, Path: "/api/cart", Capability: middleware.Authenticated},
		{Method: http.MethodPost, Path: "/api/cart/add", Capability: middleware.Authenticated},
		{Method: http.MethodPut, Path: "/api/cart/items/:productId", Capability: middleware.Authenticated},
		{Method: http.MethodDelete, Path: "/api/cart/items/:productId", Capability: middleware.Authenticated},
		{Method: http.MethodDelete, Path: "/api/cart", Capability: middleware.Authenticated},

		// Orders
		{Method: http.MethodPost, Path: "/api/orders/checkout", Capability: middleware.Authenticated},
		{Method: http.MethodGet, Path: "/api/orders/my-orders", Capability: middleware.Authenticated},
		{Method: http.MethodGet, Path: "/api/orders/:id", Capability: middleware.Authenticated},
		{Method: http.MethodDelete, Path: "/api/orders/:id", Capability: middleware.Authenticated},
		{Method: http.MethodGet, Path: "/api/orders/:id/invoice", Capability: middleware.Authenticated},

		// Admin: products and categories
		{Method: http.MethodPost, Path: "/api/admin/products", Capability: middleware.Admin},
		{Method: http.MethodPut, Path: "/api/admin/products/:id", Capability: middleware.Admin},
		{Method: http.MethodPatch, Path: "/api/admin/products/:id/stock", Capability: middleware.Admin},
		{Method: http.MethodDelete, Path: "/api/admin/products/:id", Capability: middleware.Admin},
		{Method: http.MethodGet, Path: "/api/admin/products/low-stock", Capability: middleware.Admin},
		{Method: http.MethodPost, Path: "/api/admin/categorias", Capability: middleware.Admin},
		{Method: http.MethodPut, Path: "/api/admin/categorias/:slug", Capability: middleware.Admin},
		{Method: http.MethodDelete, Path: "/api/admin/categorias/:slug", Capability: middleware.Admin},

		// Admin: orders
		{Method: http.MethodGet, Path: "/api/admin/orders", Capability: middleware.Admin},
		{Method: http.MethodGet, Path: "/api/admin/orders/status/:status", Capability: middleware.Admin},
		{Method: http.MethodPut, Path: "/api/admin/orders/:id/status", Capability: middleware.Admin},

		// Admin: users
		{Method: http.MethodGet, Path: "/api/admin/users", Capability: middleware.Admin},
		{Method: http.MethodGet, Path: "/api/admin/users/export", Capability: middleware.Admin},
		{Method: http.MethodGet, Path: "/api/admin/users/:id", Capability: middleware.Admin},
		{Method: http.MethodPut, Path: "/api/admin/users/:id/active", Capability: middleware.Admin},
		{Method: http.MethodPut, Path: "/api/admin/users/:id/admin", Capability: middleware.Admin},
		{Method: http.MethodPut, Path: "/api/admin/users/:id/score", Capability: middleware.Admin},

		// Admin: uploads
		{Method: http.MethodPost, Path: "/api/admin/uploads/image", Capability: middleware.Admin},
		{Method: http.MethodGet, Path: "/api/admin/uploads", Capability: middleware.Admin},
		{Method: http.MethodGet, Path: "/api/admin/uploads/:id", Capability: middleware.Admin},
		{Method: http.MethodDelete, Path: "/api/admin/uploads/:id", Capability: middleware.Admin},

		// Admin: calendar
		{Method: http.MethodPost, Path: "/api/calendar/eventos", Capability: middleware.Admin},
		{Method: http.MethodGet, Path: "/api/calendar/eventos", Capability: middleware.Admin},
		{Method: http.MethodGet, Path: "/api/calendar/eventos/pendientes", Capability: middleware.Admin},
		{Method: http.MethodGet, Path: "/api/calendar/eventos/rango", Capability: middleware.Admin},
		{Method: http.MethodGet, Path: "/api/calendar/eventos/proximos", Capability: middleware.Admin},
		{Method: http.MethodGet, Path: "/api/calendar/evento/:id", Capability: middleware.Admin},
		{Method: http.MethodPut, Path: "/api/calendar/evento/:id", Capability: middleware.Admin},
		{Method: http.MethodPut, Path: "/api/calendar/events/:id/complete", Capability: middleware.Admin},
		{Method: http.MethodPut, Path: "/api/calendar/events/:id/pending", Capability: middleware.Admin},
		{Method: http.MethodDelete, Path: "/api/calendar/events/:id", Capability: middleware.Admin},
		{Method: http.MethodGet, Path: "/api/calendar/stats", Capability: middleware.Admin},
	})
}

// SetupRoutes registers every API route under the given group
func SetupRoutes(api *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, cfg)
	productHandler := handlers.NewProductHandler(db, cfg)
	categoryHandler := handlers.NewCategoryHandler(db, cfg)
	cartHandler := handlers.NewCartHandler(db, cfg)
	orderHandler := handlers.NewOrderHandler(db, cfg)
	userAdminHandler := handlers.NewUserAdminHandler(db, cfg)
	uploadHandler := handlers.NewUploadHandler(db, cfg)
	calendarHandler := handlers.NewCalendarHandler(db, cfg)

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/profile", authHandler.GetProfile)
		auth.PUT("/profile", authHandler.UpdateProfile)
		auth.PUT("/password", authHandler.ChangePassword)
	}

	products := api.Group("/products")
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/featured", productHandler.GetFeaturedProducts)
		products.GET("/search", productHandler.SearchProducts)
		products.GET("/category/:categoryId", productHandler.GetProductsByCategory)
		products.GET("/:id", productHandler.GetProduct)
	}

	categories := api.Group("/categorias")
	{
		categories.GET("", categoryHandler.GetCategories)
		categories.GET("/root", categoryHandler.GetRootCategories)
		categories.GET("/:slug", categoryHandler.GetCategory)
		categories.GET("/:slug/children", categoryHandler.GetCategoryChildren)
	}

	cart := api.Group("/cart")
	{
		cart.GET("", cartHandler.GetCart)
		cart.POST("/add", cartHandler.AddToCart)
		cart.PUT("/items/:productId", cartHandler.UpdateCartItem)
		cart.DELETE("/items/:productId", cartHandler.RemoveCartItem)
		cart.DELETE("", cartHandler.ClearCart)
	}

	orders := api.Group("/orders")
	{
		orders.POST("/checkout", orderHandler.Checkout)
		orders.GET("/my-orders", orderHandler.GetMyOrders)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.DELETE("/:id", orderHandler.CancelOrder)
		orders.GET("/:id/invoice", orderHandler.DownloadInvoice)
	}

	admin := api.Group("/admin")
	{
		adminProducts := admin.Group("/products")
		{
			adminProducts.POST("", productHandler.CreateProduct)
			adminProducts.GET("/low-stock", productHandler.GetLowStockProducts)
			adminProducts.PUT("/:id", productHandler.UpdateProduct)
			adminProducts.PATCH("/:id/stock", productHandler.UpdateStock)
			adminProducts.DELETE("/:id", productHandler.DeleteProduct)
		}

		adminCategories := admin.Group("/categorias")
		{
			adminCategories.POST("", categoryHandler.CreateCategory)
			adminCategories.PUT("/:slug", categoryHandler.UpdateCategory)
			adminCategories.DELETE("/:slug", categoryHandler.DeleteCategory)
		}

		adminOrders := admin.Group("/orders")
		{
			adminOrders.GET("", orderHandler.GetAllOrders)
			adminOrders.GET("/status/:status", orderHandler.GetOrdersByStatus)
			adminOrders.PUT("/:id/status", orderHandler.UpdateOrderStatus)
		}

		adminUsers := admin.Group("/users")
		{
			adminUsers.GET("", userAdminHandler.GetUsers)
			adminUsers.GET("/export", userAdminHandler.ExportUsers)
			adminUsers.GET("/:id", userAdminHandler.GetUser)
			adminUsers.PUT("/:id/active", userAdminHandler.SetActive)
			adminUsers.PUT("/:id/admin", userAdminHandler.SetAdmin)
			adminUsers.PUT("/:id/score", userAdminHandler.SetScore)
		}

		adminUploads := admin.Group("/uploads")
		{
			adminUploads.POST("/image", uploadHandler.UploadImage)
			adminUploads.GET("", uploadHandler.GetImages)
			adminUploads.GET("/:id", uploadHandler.GetImage)
			adminUploads.DELETE("/:id", uploadHandler.DeleteImage)
		}
	}

	calendar := api.Group("/calendar")
	{
		calendar.POST("/eventos", calendarHandler.CreateEvent)
		calendar.GET("/eventos", calendarHandler.GetEvents)
		calendar.GET("/eventos/pendientes", calendarHandler.GetPendingEvents)
		calendar.GET("/eventos/rango", calendarHandler.GetEventsByDateRange)
		calendar.GET("/eventos/proximos", calendarHandler.GetUpcomingEvents)
		calendar.GET("/evento/:id", calendarHandler.GetEvent)
		calendar.PUT("/evento/:id", calendarHandler.UpdateEvent)
		calendar.PUT("/events/:id/complete", calendarHandler.CompleteEvent)
		calendar.PUT("/events/:id/pending", calendarHandler.PendingEvent)
		calendar.DELETE("/events/:id", calendarHandler.DeleteEvent)
		calendar.GET("/stats", calendarHandler.GetStats)
	}
}
