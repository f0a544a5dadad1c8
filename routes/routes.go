package routes

import (
	"github.com/Musasteel/ProductScannerApp/controllers"
	"github.com/Musasteel/ProductScannerApp/middlewares"

	"github.com/gin-gonic/gin"
)

type Controllers struct {
	Products *controllers.ProductController
	Analysis *controllers.AnalysisController
	Realtime *controllers.RealtimeController
	Devices  *controllers.DeviceController
}

func SetupRouter(ctl Controllers) *gin.Engine {
	r := gin.Default()

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
		auth.POST("/verify-mfa", controllers.VerifyMFA)
		auth.POST("/forgot-password", controllers.ForgotPassword)
		auth.POST("/reset-password", controllers.ResetPassword)
	}

	// Protected user routes
	user := r.Group("/user")
	user.Use(middlewares.AuthMiddleware())
	{
		user.GET("/profile", controllers.GetProfile)
		user.PUT("/profile", controllers.UpdateProfile)
		user.GET("/allergies", controllers.GetAllergies)
		user.PUT("/allergies", controllers.SetAllergies)
	}

	products := r.Group("/products")
	products.Use(middlewares.AuthMiddleware())
	{
		products.GET("/search", ctl.Products.SearchProducts)
		products.GET("/:barcode", ctl.Products.GetProduct)
		products.POST("/recognize", ctl.Products.RecognizeProduct)
		products.POST("", ctl.Products.ContributeProduct)
	}

	protected := r.Group("/")
	protected.Use(middlewares.AuthMiddleware())
	{
		protected.POST("/analysis", ctl.Analysis.Analyze)
		protected.GET("/scans", ctl.Analysis.ListScans)
		protected.GET("/alerts", controllers.ListAlerts)
		protected.POST("/alerts/:id/read", controllers.MarkAlertRead)
		protected.GET("/ws/alerts", ctl.Realtime.AlertsWS)
		protected.POST("/devices", ctl.Devices.RegisterDevice)
	}

	return r
}
