package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/dinein-backend/controllers"
	"github.com/yeremiapane/dinein-backend/kds"
	"github.com/yeremiapane/dinein-backend/middlewares"
	"github.com/yeremiapane/dinein-backend/models"
	"github.com/yeremiapane/dinein-backend/services"
	"github.com/yeremiapane/dinein-backend/utils"
)

func SetupRouter(svc *services.Container, hub *kds.Hub, tokens *utils.TokenIssuer, origins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// Apply security middlewares
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(origins))
	r.Use(middlewares.LoggerMiddleware())

	userCtrl := controllers.NewUserController(svc)
	restaurantCtrl := controllers.NewRestaurantController(svc)
	customerCtrl := controllers.NewCustomerController(svc)
	cartCtrl := controllers.NewCartController(svc)
	orderCtrl := controllers.NewOrderController(svc)
	paymentCtrl := controllers.NewPaymentController(svc)
	reservationCtrl := controllers.NewReservationController(svc)
	tableCtrl := controllers.NewTableController(svc)
	cleaningCtrl := controllers.NewCleaningLogController(svc)
	categoryCtrl := controllers.NewMenuCategoryController(svc)
	menuCtrl := controllers.NewMenuController(svc)
	analyticsCtrl := controllers.NewAnalyticsController(svc)
	notifCtrl := controllers.NewNotificationController(svc)
	kdsCtrl := controllers.NewKDSController(hub, origins)

	r.GET("/health", func(c *gin.Context) {
		utils.RespondJSON(c, http.StatusOK, "OK", nil)
	})

	strict := middlewares.NewStrictRateLimiter().RateLimit()
	api := r.Group("/api")

	// Public routes
	api.POST("/auth/login", strict, userCtrl.Login)
	api.GET("/tables/qr/:qrCodeIdentifier", tableCtrl.GetByQRCode)

	// Customer routes
	customer := api.Group("/customer")
	{
		otpLimiter := middlewares.NewStrictRateLimiter().RateLimit()
		customer.POST("/send-otp", otpLimiter, customerCtrl.SendOTP)
		customer.POST("/verify-otp", strict, customerCtrl.VerifyOTP)

		authed := customer.Group("")
		authed.Use(middlewares.CustomerAuth(tokens))
		authed.GET("/profile", customerCtrl.GetProfile)
		authed.PUT("/profile", customerCtrl.UpdateProfile)
		authed.POST("/scan-table/:qrCodeIdentifier", customerCtrl.ScanTable)
		authed.POST("/checkout", customerCtrl.Checkout)
		authed.GET("/menu", customerCtrl.GetMenu)

		authed.GET("/cart", cartCtrl.GetCart)
		authed.POST("/cart", cartCtrl.AddItem)
		authed.DELETE("/cart", cartCtrl.ClearCart)
		authed.PUT("/cart/:itemId", cartCtrl.UpdateItem)
		authed.DELETE("/cart/:itemId", cartCtrl.RemoveItem)

		authed.POST("/orders", orderCtrl.PlaceOrder)
		authed.GET("/orders", orderCtrl.ListCustomerOrders)
		authed.GET("/orders/:id", orderCtrl.GetCustomerOrder)
	}

	// webhook dari Midtrans tidak membawa token, signature diverifikasi di service.
	// Tidak dibatasi per IP karena notifikasi datang dari sedikit IP processor.
	api.POST("/payments/webhook", middlewares.PaymentSecurityHeaders(), middlewares.LogPaymentRequest(), paymentCtrl.Webhook)

	// Payment routes
	payments := api.Group("/payments")
	payments.Use(middlewares.PaymentSecurityHeaders(), middlewares.PaymentRateLimiter(), middlewares.LogPaymentRequest())
	{
		payments.POST("/create-intent", middlewares.CustomerAuth(tokens), paymentCtrl.CreateIntent)
		payments.GET("/:id", middlewares.CustomerAuth(tokens), paymentCtrl.GetPayment)

		staffPayments := payments.Group("")
		staffPayments.Use(middlewares.AuthMiddleware(tokens),
			middlewares.RoleCheck(models.RoleManager, models.RoleStaff),
			middlewares.RequireRestaurant())
		staffPayments.POST("/cash", paymentCtrl.RecordCash)
		staffPayments.GET("/order/:orderId", paymentCtrl.ListOrderPayments)
	}

	// Authenticated staff accounts
	auth := api.Group("")
	auth.Use(middlewares.AuthMiddleware(tokens))
	{
		auth.GET("/users/me", userCtrl.Me)
		users := auth.Group("/users")
		users.Use(middlewares.RoleCheck(models.RoleSuperadmin, models.RoleAdmin, models.RoleManager))
		users.POST("", userCtrl.CreateUser)
		users.GET("", userCtrl.ListUsers)

		auth.POST("/restaurants", restaurantCtrl.Create)
		auth.GET("/restaurants", restaurantCtrl.List)
		auth.GET("/restaurants/:id", restaurantCtrl.Get)
		auth.PUT("/restaurants/:id", restaurantCtrl.Update)
	}

	// Operasional restoran: manager & staff
	ops := api.Group("")
	ops.Use(middlewares.AuthMiddleware(tokens),
		middlewares.RoleCheck(models.RoleManager, models.RoleStaff),
		middlewares.RequireRestaurant())
	{
		staffOrders := ops.Group("/staff/orders")
		staffOrders.GET("/active", orderCtrl.ListActiveOrders)
		staffOrders.GET("/:id", orderCtrl.GetOrder)
		staffOrders.PUT("/:id/status", orderCtrl.UpdateOrderStatus)
		staffOrders.PUT("/:id/items/:itemId/status", orderCtrl.UpdateItemStatus)

		tables := ops.Group("/tables")
		tables.POST("", tableCtrl.CreateTable)
		tables.GET("", tableCtrl.GetAllTables)
		tables.GET("/cleaning-logs", cleaningCtrl.GetCleaningLogs)
		tables.GET("/:id", tableCtrl.GetTable)
		tables.PUT("/:id", tableCtrl.UpdateTable)
		tables.DELETE("/:id", tableCtrl.DeleteTable)
		tables.PUT("/:id/status", tableCtrl.UpdateTableStatus)
		tables.POST("/:id/clean", cleaningCtrl.MarkClean)

		reservations := ops.Group("/reservations")
		reservations.POST("", reservationCtrl.Create)
		reservations.GET("", reservationCtrl.List)
		reservations.GET("/available-tables", reservationCtrl.AvailableTables)
		reservations.GET("/:id", reservationCtrl.Get)
		reservations.PUT("/:id", reservationCtrl.Update)
		reservations.PUT("/:id/assign-table", reservationCtrl.AssignTable)
		reservations.PUT("/:id/status", reservationCtrl.UpdateStatus)

		menu := ops.Group("/menu")
		menu.GET("", menuCtrl.GetMenu)
		menu.POST("/categories", categoryCtrl.CreateCategory)
		menu.GET("/categories", categoryCtrl.GetCategories)
		menu.PUT("/categories/:id", categoryCtrl.UpdateCategory)
		menu.DELETE("/categories/:id", categoryCtrl.DeleteCategory)
		menu.POST("/products", menuCtrl.CreateProduct)
		menu.GET("/products", menuCtrl.GetProducts)
		menu.GET("/products/:id", menuCtrl.GetProduct)
		menu.PUT("/products/:id", menuCtrl.UpdateProduct)
		menu.DELETE("/products/:id", menuCtrl.DeleteProduct)
		menu.POST("/addons", menuCtrl.CreateAddon)
		menu.GET("/addons", menuCtrl.GetAddons)
		menu.PUT("/addons/:id", menuCtrl.UpdateAddon)
		menu.DELETE("/addons/:id", menuCtrl.DeleteAddon)
		menu.POST("/tags", menuCtrl.CreateTag)
		menu.GET("/tags", menuCtrl.GetTags)
		menu.PUT("/tags/:id", menuCtrl.UpdateTag)
		menu.DELETE("/tags/:id", menuCtrl.DeleteTag)

		ops.GET("/notifications", notifCtrl.GetAllNotifications)
		ops.PUT("/notifications/:id/read", notifCtrl.MarkAsRead)
	}

	analytics := api.Group("/analytics")
	analytics.Use(middlewares.AuthMiddleware(tokens),
		middlewares.RoleCheck(models.RoleManager),
		middlewares.RequireRestaurant())
	{
		analytics.GET("/dashboard-summary", analyticsCtrl.DashboardSummary)
		analytics.GET("/daily-revenue", analyticsCtrl.DailyRevenue)
		analytics.GET("/daily-revenue/export", analyticsCtrl.ExportDailyRevenue)
		analytics.GET("/top-selling-items", analyticsCtrl.TopSellingItems)
		analytics.GET("/average-order-value", analyticsCtrl.AverageOrderValue)
		analytics.GET("/table-occupancy", analyticsCtrl.TableOccupancy)
		analytics.GET("/peak-hours", analyticsCtrl.PeakHours)
		analytics.GET("/payment-method-distribution", analyticsCtrl.PaymentMethodDistribution)
	}

	// WebSocket KDS, token lewat query string
	r.GET("/ws/kds", middlewares.WebSocketAuthMiddleware(tokens), kdsCtrl.KDSHandler)

	return r
}
