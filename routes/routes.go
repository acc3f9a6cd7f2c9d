package routes

import (
	"github.com/flotoolx/fresto-sub001/controllers"
	"github.com/flotoolx/fresto-sub001/middlewares"
	"github.com/flotoolx/fresto-sub001/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine) {

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", controllers.Register)
			auth.POST("/login", controllers.Login)
		}

		// Semua di bawah butuh token
		authd := api.Group("/", middlewares.AuthMiddleware())

		authd.GET("/profile", controllers.Profile)
		authd.PUT("/profile", controllers.UpdateProfile)
		authd.PUT("/profile/password", controllers.ChangePassword)

		users := authd.Group("/users", middlewares.RoleRequired(models.RolePusat))
		{
			users.GET("/", controllers.UserList)
			users.POST("/", controllers.UserCreate)
			users.PUT("/:id", controllers.UserUpdate)
			users.DELETE("/:id", controllers.UserDeactivate)
		}

		categories := authd.Group("/categories")
		{
			categories.GET("/", controllers.CategoryList)

			write := categories.Group("/", middlewares.RoleRequired(models.RolePusat))
			write.POST("/", controllers.CategoryCreate)
			write.PUT("/:id", controllers.CategoryUpdate)
			write.DELETE("/:id", controllers.CategoryDelete)
		}

		products := authd.Group("/products")
		{
			products.GET("/", controllers.ProductList)
			products.GET("/:id", controllers.ProductDetail)

			write := products.Group("/", middlewares.RoleRequired(models.RolePusat))
			write.POST("/", controllers.ProductCreate)
			write.PUT("/:id", controllers.ProductUpdate)
			write.DELETE("/:id", controllers.ProductDelete)
		}

		gudang := authd.Group("/gudang")
		{
			gudang.GET("/", controllers.GudangList)
			gudang.GET("/:id", controllers.GudangDetail)
			gudang.GET("/:id/stock", controllers.StockList)
			gudang.GET("/:id/stock/movements", controllers.StockMovementList)

			gudang.POST("/:id/stock",
				middlewares.RoleRequired(models.RolePusat, models.RoleGudang),
				controllers.StockUpsert)

			write := gudang.Group("/", middlewares.RoleRequired(models.RolePusat))
			write.POST("/", controllers.GudangCreate)
			write.PUT("/:id", controllers.GudangUpdate)
			write.DELETE("/:id", controllers.GudangDelete)
		}

		stokisOrders := authd.Group("/orders/stokis")
		{
			stokisOrders.POST("/", middlewares.RoleRequired(models.RoleStokis), controllers.CreateStokisOrder)
			stokisOrders.GET("/", controllers.ListStokisOrders)
			stokisOrders.GET("/:id", controllers.StokisOrderDetail)
			// role per transisi dicek lewat tabel status di handler
			stokisOrders.PATCH("/:id", controllers.PatchStokisOrder)
		}

		mitraOrders := authd.Group("/orders/mitra")
		{
			mitraOrders.POST("/", middlewares.RoleRequired(models.RoleMitra), controllers.CreateMitraOrder)
			mitraOrders.GET("/", controllers.ListMitraOrders)
			mitraOrders.GET("/:id", controllers.MitraOrderDetail)
			mitraOrders.PATCH("/:id", controllers.PatchMitraOrder)
		}

		invoices := authd.Group("/invoices")
		{
			invoices.GET("/", controllers.InvoiceList)
			invoices.GET("/:id", controllers.InvoiceDetail)
			invoices.GET("/:id/pdf", controllers.InvoicePDF)

			invoices.POST("/",
				middlewares.RoleRequired(models.RoleFinance, models.RolePusat),
				controllers.InvoiceCreate)
			invoices.PATCH("/:id",
				middlewares.RoleRequired(models.RoleFinance, models.RolePusat),
				controllers.InvoiceStatusOverride)
		}

		payments := authd.Group("/payments")
		{
			payments.GET("/invoice/:id", controllers.PaymentHistory)

			payments.POST("/",
				middlewares.RoleRequired(models.RoleFinance),
				controllers.PaymentCreate)
			payments.DELETE("/:id",
				middlewares.RoleRequired(models.RoleFinance),
				controllers.PaymentDelete)
		}

		push := authd.Group("/push")
		{
			push.GET("/key", controllers.PushKey)
			push.POST("/subscribe", controllers.PushSubscribe)
			push.DELETE("/subscribe", controllers.PushUnsubscribe)
		}

		reports := authd.Group("/reports",
			middlewares.RoleRequired(models.RolePusat, models.RoleFinance, models.RoleDC))
		{
			reports.GET("/orders", controllers.ReportOrderRecap)
			reports.GET("/orders/export", controllers.ExportOrdersXLSX)
			reports.GET("/sales", controllers.ReportSalesPerStokis)
			reports.GET("/outstanding", controllers.ReportOutstanding)
			reports.GET("/outstanding/export", controllers.ExportOutstandingXLSX)
			reports.GET("/products/top", controllers.ReportTopProducts)
		}

		authd.GET("/dashboard", controllers.Dashboard)
	}
}
