package main

import (
	"os"
	"time"

	"go-furnish-pos/internal/database"
	"go-furnish-pos/internal/handlers"
	"go-furnish-pos/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found")
	}

	if level, err := log.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(level)
	}

	database.Connect()
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "online"}) })
	r.POST("/login", handlers.Login)
	r.Static("/uploads", "./uploads")

	// Only opens if we explicitly allow it in .env
	if os.Getenv("ALLOW_REGISTRATION") == "true" {
		r.POST("/register", handlers.Register)
		log.Warn("Registration route is OPEN. Disable this in production!")
	} else {
		log.Info("Registration route is disabled")
	}

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		// ALL STAFF
		api.GET("/products", handlers.GetProducts)
		api.GET("/products/:id", handlers.GetProduct)
		api.GET("/products/scan/:code", handlers.ScanProduct)
		api.GET("/products/:id/movements", handlers.GetProductMovements)

		api.GET("/customers", handlers.GetCustomers)
		api.GET("/customers/:id", handlers.GetCustomer)
		api.POST("/customers", handlers.AddCustomer)
		api.PUT("/customers/:id", handlers.UpdateCustomer)
		api.POST("/customers/:id/images", handlers.AddCustomerImage)

		api.GET("/branches", handlers.GetBranches)

		api.POST("/sales", handlers.ProcessSale)
		api.GET("/sales", handlers.GetSales)
		api.GET("/sales/:id", handlers.GetSale)

		api.POST("/contracts/quote", handlers.QuoteContract)
		api.POST("/contracts", handlers.CreateContract)
		api.GET("/contracts", handlers.GetContracts)
		api.GET("/contracts/:id", handlers.GetContract)
		api.POST("/installments/:id/payments", handlers.PayInstallment)
		api.GET("/installments/overdue", handlers.GetOverdueInstallments)

		api.POST("/upload", handlers.UploadImage)

		// MANAGER & ADMIN
		office := api.Group("/")
		office.Use(middleware.RequireRole("admin", "manager"))
		{
			office.POST("/products", handlers.AddProduct)
			office.PUT("/products/:id", handlers.UpdateProduct)
			office.POST("/products/:id/receive", handlers.ReceiveStock)
			office.DELETE("/products/:id", handlers.RemoveProduct)

			office.POST("/transfers", handlers.CreateTransfer)
			office.POST("/transfers/:id/complete", handlers.CompleteTransfer)
			office.POST("/transfers/:id/cancel", handlers.CancelTransfer)
			office.GET("/transfers", handlers.GetTransfers)

			office.GET("/expenses", handlers.GetExpenses)
			office.POST("/expenses", handlers.AddExpense)
			office.DELETE("/expenses/:id", handlers.DeleteExpense)

			office.GET("/reports/dashboard", handlers.GetDashboard)
			office.GET("/reports/sales-daily", handlers.GetSalesByDay)
			office.GET("/reports/products", handlers.GetProductRevenueReport)
			office.GET("/reports/customers", handlers.GetCustomerSpendReport)
			office.GET("/reports/hire-purchase", handlers.GetHirePurchaseReport)
			office.GET("/reports/valuation", handlers.GetStockValuation)
			office.GET("/reports/low-stock", handlers.GetLowStock)
		}

		// ADMIN ONLY
		admin := api.Group("/")
		admin.Use(middleware.RequireRole("admin"))
		{
			admin.POST("/ask", handlers.AskAI)
			admin.POST("/branches", handlers.AddBranch)
			admin.PUT("/branches/:id", handlers.UpdateBranch)
			admin.POST("/contracts/:id/cancel", handlers.CancelContract)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Infof("Server starting on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.WithError(err).Fatal("Server failed to start")
	}
}
