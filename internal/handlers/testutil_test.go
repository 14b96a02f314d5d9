package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"go-furnish-pos/internal/database"
	"go-furnish-pos/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

// setupTestDB points the package-level connection at a fresh in-memory
// sqlite database migrated with the real schema.
func setupTestDB(t *testing.T) {
	t.Helper()

	n := atomic.AddInt64(&testDBCounter, 1)
	dsn := fmt.Sprintf("file:handlers_test_%d?mode=memory&cache=shared", n)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// sqlite has no row locks; drop FOR UPDATE so the MySQL-targeted
	// workflows run unchanged
	db.ClauseBuilders["LOCKING"] = func(c clause.Clause, builder clause.Builder) {}

	require.NoError(t, database.Migrate(db))
	database.DB = db
}

// newTestRouter wires the real routes behind a stub auth layer acting as
// admin user 1 at branch 1.
func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", uint(1))
		c.Set("role", "admin")
		c.Set("branchID", uint(1))
	})

	api := r.Group("/api")
	{
		api.GET("/products", GetProducts)
		api.GET("/products/scan/:code", ScanProduct)
		api.GET("/products/:id/movements", GetProductMovements)
		api.POST("/products", AddProduct)
		api.PUT("/products/:id", UpdateProduct)
		api.POST("/products/:id/receive", ReceiveStock)
		api.DELETE("/products/:id", RemoveProduct)

		api.POST("/customers", AddCustomer)
		api.GET("/customers/:id", GetCustomer)
		api.POST("/customers/:id/images", AddCustomerImage)

		api.POST("/sales", ProcessSale)
		api.GET("/sales/:id", GetSale)

		api.POST("/contracts/quote", QuoteContract)
		api.POST("/contracts", CreateContract)
		api.GET("/contracts/:id", GetContract)
		api.POST("/contracts/:id/cancel", CancelContract)
		api.POST("/installments/:id/payments", PayInstallment)

		api.POST("/transfers", CreateTransfer)
		api.POST("/transfers/:id/complete", CompleteTransfer)
		api.POST("/transfers/:id/cancel", CancelTransfer)

		api.GET("/reports/dashboard", GetDashboard)
		api.GET("/reports/sales-daily", GetSalesByDay)
		api.GET("/reports/products", GetProductRevenueReport)
		api.GET("/reports/hire-purchase", GetHirePurchaseReport)
		api.GET("/reports/valuation", GetStockValuation)
		api.GET("/reports/low-stock", GetLowStock)
	}
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

// --- seed helpers ---

func seedBranch(t *testing.T, name string) *models.Branch {
	t.Helper()
	branch := &models.Branch{Name: name}
	require.NoError(t, database.DB.Create(branch).Error)
	return branch
}

func seedProduct(t *testing.T, branchID uint, code string, price, cost float64, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:          "Test " + code,
		Code:          code,
		BranchID:      branchID,
		Category:      "Sofas",
		Price:         decimal.NewFromFloat(price),
		Cost:          decimal.NewFromFloat(cost),
		StockQuantity: stock,
	}
	require.NoError(t, database.DB.Create(product).Error)
	return product
}

func seedCustomer(t *testing.T, ctype string) *models.Customer {
	t.Helper()
	customer := &models.Customer{
		Type:  ctype,
		Name:  "Test Customer",
		Phone: fmt.Sprintf("09%08d", atomic.AddInt64(&testDBCounter, 1)),
	}
	require.NoError(t, database.DB.Create(customer).Error)
	return customer
}

func contractPath(id uint, action string) string {
	return fmt.Sprintf("/api/contracts/%d/%s", id, action)
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, w.Code, "body: %s", w.Body.String())
}
