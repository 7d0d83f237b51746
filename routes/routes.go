package routes

import (
	"context"
	"net/http"
	"time"

	"storefront/controllers"
	"storefront/middleware"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Dependencies struct {
	Catalog   controllers.Catalog
	Carts     controllers.CartManager
	Checkout  controllers.Checkout
	Accounts  controllers.Accounts
	Admin     controllers.AdminConsole
	JWTSecret string
	UploadDir string
	Log       logrus.FieldLogger

	// Ping backs the health check. Nil means always healthy.
	Ping func(ctx context.Context) error
}

func SetupRoutes(router *gin.Engine, d Dependencies) {
	homeCtrl := controllers.NewHomeController(d.Catalog)
	productCtrl := controllers.NewProductController(d.Catalog, d.Log)
	categoryCtrl := controllers.NewCategoryController(d.Catalog, d.Log)
	cartCtrl := controllers.NewCartController(d.Carts, d.Log)
	checkoutCtrl := controllers.NewCheckoutController(d.Checkout, d.Log)
	authCtrl := controllers.NewAuthController(d.Accounts, d.Log)
	adminCtrl := controllers.NewAdminController(d.Admin, d.Log)

	requireAuth := middleware.AuthMiddleware(d.JWTSecret)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", health(d.Ping))

	router.GET("/", homeCtrl.Index)

	router.POST("/auth/register", authCtrl.Register)
	router.POST("/auth/login", authCtrl.Login)

	product := router.Group("/product")
	{
		product.GET("", productCtrl.List)
		product.GET("/search", productCtrl.Search)
		product.GET("/details/:id", productCtrl.Details)
		product.POST("/review/:id", requireAuth, productCtrl.AddReview)
	}

	category := router.Group("/category")
	{
		category.GET("", categoryCtrl.List)
		category.GET("/details/:id", categoryCtrl.Details)
		category.GET("/products/:id", categoryCtrl.Products)
	}

	auth := router.Group("/")
	auth.Use(requireAuth)
	{
		auth.GET("/auth/profile", authCtrl.GetProfile)
		auth.PATCH("/auth/profile", authCtrl.UpdateProfile)
		auth.POST("/auth/change-password", authCtrl.ChangePassword)

		auth.GET("/cart", cartCtrl.Get)
		auth.POST("/cart/add", cartCtrl.Add)
		auth.POST("/cart/remove", cartCtrl.Remove)
		auth.POST("/cart/update", cartCtrl.Update)
		auth.POST("/cart/clear", cartCtrl.Clear)
		auth.GET("/cart/count", cartCtrl.Count)

		auth.GET("/checkout", checkoutCtrl.Summary)
		auth.POST("/checkout/place-order", checkoutCtrl.PlaceOrder)
		auth.POST("/checkout/pay", checkoutCtrl.Pay)
		auth.GET("/checkout/confirmation/:id", checkoutCtrl.Confirmation)
		auth.GET("/checkout/orders", checkoutCtrl.History)
		auth.GET("/checkout/orders/:id", checkoutCtrl.OrderDetails)
	}

	admin := router.Group("/admin")
	admin.Use(requireAuth, middleware.AdminMiddleware())
	{
		admin.GET("/dashboard", adminCtrl.Dashboard)

		admin.GET("/products", adminCtrl.ListProducts)
		admin.GET("/products/:id", adminCtrl.GetProduct)
		admin.POST("/products", adminCtrl.CreateProduct)
		admin.PUT("/products/:id", adminCtrl.UpdateProduct)
		admin.DELETE("/products/:id", adminCtrl.DeleteProduct)
		admin.POST("/products/:id/images", adminCtrl.UploadProductImage)

		admin.GET("/categories", adminCtrl.ListCategories)
		admin.POST("/categories", adminCtrl.CreateCategory)
		admin.PUT("/categories/:id", adminCtrl.UpdateCategory)
		admin.DELETE("/categories/:id", adminCtrl.DeleteCategory)

		admin.GET("/orders", adminCtrl.ListOrders)
		admin.GET("/orders/:id", adminCtrl.GetOrder)
		admin.PATCH("/orders/:id/status", adminCtrl.UpdateOrderStatus)

		admin.GET("/users", adminCtrl.ListUsers)

		admin.GET("/reviews", adminCtrl.PendingReviews)
		admin.POST("/reviews/:id/approve", adminCtrl.ApproveReview)
		admin.DELETE("/reviews/:id", adminCtrl.DeleteReview)

		admin.GET("/coupons", adminCtrl.ListCoupons)
		admin.POST("/coupons", adminCtrl.CreateCoupon)
		admin.DELETE("/coupons/:id", adminCtrl.DeactivateCoupon)
	}

	if d.UploadDir != "" {
		router.Static("/uploads", d.UploadDir)
	}
}

func health(ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
