package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"go-furnish-pos/internal/database"
	"go-furnish-pos/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleRequest defines what the till sends us
type SaleRequest struct {
	Items []struct {
		ProductID uint `json:"product_id"`
		Quantity  int  `json:"quantity"`
	} `json:"items"`
	CustomerID    *uint  `json:"customer_id"`
	PaymentMethod string `json:"payment_method"`
}

// newDocumentNumber builds a server-side document number like "SL-1a2b3c4d".
// Client clocks are not trusted for uniqueness.
func newDocumentNumber(prefix string) string {
	return prefix + "-" + strings.Split(uuid.NewString(), "-")[0]
}

var paymentMethods = map[string]bool{
	models.PaymentMethodCash:     true,
	models.PaymentMethodCard:     true,
	models.PaymentMethodMobile:   true,
	models.PaymentMethodTransfer: true,
}

// --- POST: Commit a cash sale ---
// One transaction: lock + deduct stock per line, write the header with its
// lines, and log an 'out' movement per line referencing the sale.
func ProcessSale(c *gin.Context) {
	var req SaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		return
	}
	if !paymentMethods[req.PaymentMethod] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown payment method"})
		return
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Quantities must be at least 1"})
			return
		}
	}

	if req.CustomerID != nil {
		var customer models.Customer
		if err := database.DB.First(&customer, *req.CustomerID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Customer not found"})
			return
		}
	}

	userID := c.MustGet("userID").(uint)
	branchID := c.MustGet("branchID").(uint)

	var sale models.Sale

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		totalAmount := decimal.Zero
		var saleItems []models.SaleItem

		for _, item := range req.Items {
			product, err := database.DecreaseStock(tx, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}

			lineTotal := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			totalAmount = totalAmount.Add(lineTotal)

			saleItems = append(saleItems, models.SaleItem{
				ProductID:  product.ID,
				Quantity:   item.Quantity,
				UnitPrice:  product.Price,
				TotalPrice: lineTotal,
			})
		}

		sale = models.Sale{
			SaleNumber:    newDocumentNumber("SL"),
			BranchID:      branchID,
			UserID:        userID,
			CustomerID:    req.CustomerID,
			TotalAmount:   totalAmount,
			PaymentMethod: req.PaymentMethod,
			Status:        models.SaleStatusCompleted,
			SaleTime:      time.Now(),
			Items:         saleItems, // GORM inserts the lines with the header
		}
		if err := tx.Create(&sale).Error; err != nil {
			return err
		}

		for _, item := range sale.Items {
			if err := database.RecordMovement(tx, &models.InventoryMovement{
				ProductID:     item.ProductID,
				BranchID:      branchID,
				Type:          models.MovementTypeOut,
				Quantity:      -item.Quantity,
				Notes:         fmt.Sprintf("Sale %s", sale.SaleNumber),
				ReferenceType: models.MovementRefSale,
				ReferenceID:   sale.ID,
				CreatedBy:     userID,
			}); err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Sale completed",
		"sale_id":     sale.ID,
		"sale_number": sale.SaleNumber,
		"total":       sale.TotalAmount,
	})
}

// --- GET: Recent sales ---
func GetSales(c *gin.Context) {
	var sales []models.Sale

	query := database.DB.Preload("Items").Preload("Customer").Order("sale_time desc").Limit(100)
	if branch := c.Query("branch_id"); branch != "" {
		query = query.Where("branch_id = ?", branch)
	}

	if err := query.Find(&sales).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sales"})
		return
	}
	c.JSON(http.StatusOK, sales)
}

// --- GET: Single sale with lines ---
func GetSale(c *gin.Context) {
	var sale models.Sale
	if err := database.DB.
		Preload("Items.Product").
		Preload("Customer").
		First(&sale, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sale not found"})
		return
	}
	c.JSON(http.StatusOK, sale)
}
