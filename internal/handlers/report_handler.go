package handlers

import (
	"net/http"
	"strconv"
	"time"

	"go-furnish-pos/internal/database"

	"github.com/gin-gonic/gin"
)

func periodWindow(c *gin.Context) (start, end time.Time, ok bool) {
	period := c.DefaultQuery("period", database.PeriodToday)
	start, end, err := database.PeriodRange(period, time.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return start, end, false
	}
	return start, end, true
}

func rankingLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 {
		return 10
	}
	return limit
}

// --- GET: /api/reports/dashboard ---
func GetDashboard(c *gin.Context) {
	start, end, ok := periodWindow(c)
	if !ok {
		return
	}

	summary, err := database.GetDashboardSummary(start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build dashboard"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// --- GET: /api/reports/sales-daily ---
func GetSalesByDay(c *gin.Context) {
	start, end, ok := periodWindow(c)
	if !ok {
		return
	}

	rows, err := database.SalesByDay(start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate sales"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// --- GET: /api/reports/products ---
func GetProductRevenueReport(c *gin.Context) {
	start, end, ok := periodWindow(c)
	if !ok {
		return
	}

	rows, err := database.TopProductsByRevenue(start, end, rankingLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rank products"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// --- GET: /api/reports/customers ---
func GetCustomerSpendReport(c *gin.Context) {
	start, end, ok := periodWindow(c)
	if !ok {
		return
	}

	rows, err := database.TopCustomersBySpend(start, end, rankingLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rank customers"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// --- GET: /api/reports/hire-purchase ---
func GetHirePurchaseReport(c *gin.Context) {
	start, end, ok := periodWindow(c)
	if !ok {
		return
	}

	summary, err := database.GetHirePurchaseSummary(start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to summarize the credit book"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// --- GET: /api/reports/valuation ---
// Current inventory valued at cost, grouped by category.
func GetStockValuation(c *gin.Context) {
	rows, err := database.StockValuation()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to value inventory"})
		return
	}

	var grandTotal float64
	for _, r := range rows {
		grandTotal += r.Value
	}

	c.JSON(http.StatusOK, gin.H{
		"categories":  rows,
		"grand_total": grandTotal,
	})
}

// --- GET: /api/reports/low-stock ---
func GetLowStock(c *gin.Context) {
	products, err := database.LowStockProducts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch low stock"})
		return
	}
	c.JSON(http.StatusOK, products)
}
