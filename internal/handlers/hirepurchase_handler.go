package handlers

import (
	"fmt"
	"net/http"
	"time"

	"go-furnish-pos/internal/database"
	"go-furnish-pos/internal/finance"
	"go-furnish-pos/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ContractRequest carries everything needed to quote or open a contract
type ContractRequest struct {
	CustomerID uint `json:"customer_id"`
	Items      []struct {
		ProductID uint `json:"product_id"`
		Quantity  int  `json:"quantity"`
	} `json:"items"`
	DownPayment      *decimal.Decimal `json:"down_payment"` // pointer: an omitted field is not a zero down payment
	TermMonths       int              `json:"term_months"`
	AnnualRatePct    decimal.Decimal  `json:"annual_rate_pct"`
	FirstPaymentDate string           `json:"first_payment_date"` // YYYY-MM-DD
}

// quoteLines prices the request against current product rows.
func quoteLines(db *gorm.DB, req *ContractRequest) ([]finance.QuoteLine, error) {
	var lines []finance.QuoteLine
	for _, item := range req.Items {
		var product models.Product
		if err := db.First(&product, item.ProductID).Error; err != nil {
			return nil, fmt.Errorf("product %d not found", item.ProductID)
		}
		lines = append(lines, finance.QuoteLine{
			ProductID: product.ID,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
		})
	}
	return lines, nil
}

// --- POST: Quote financing terms without committing anything ---
func QuoteContract(c *gin.Context) {
	var req ContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.DownPayment == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A down payment is required, use 0 for none"})
		return
	}

	lines, err := quoteLines(database.DB, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quote, err := finance.NewQuote(lines, *req.DownPayment, req.TermMonths, req.AnnualRatePct)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, quote)
}

// --- POST: Open a hire-purchase contract ---
// One transaction: header, line items, the full installment schedule, stock
// deduction and movement log. Either the whole contract lands or none of it.
func CreateContract(c *gin.Context) {
	var req ContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.CustomerID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A customer is required"})
		return
	}
	if len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		return
	}
	if req.DownPayment == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A down payment is required, use 0 for none"})
		return
	}

	var customer models.Customer
	if err := database.DB.First(&customer, req.CustomerID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Customer not found"})
		return
	}

	firstDue := time.Now().AddDate(0, 1, 0)
	if req.FirstPaymentDate != "" {
		parsed, err := time.ParseInLocation("2006-01-02", req.FirstPaymentDate, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "First payment date must be YYYY-MM-DD"})
			return
		}
		firstDue = parsed
	}

	userID := c.MustGet("userID").(uint)
	branchID := c.MustGet("branchID").(uint)

	var contract models.HirePurchaseContract

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		// Price and lock the cart rows up front
		var lines []finance.QuoteLine
		var products []models.Product
		for _, item := range req.Items {
			var product models.Product
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, item.ProductID).Error; err != nil {
				return fmt.Errorf("product %d not found", item.ProductID)
			}
			if product.StockQuantity < item.Quantity {
				return fmt.Errorf("insufficient stock for %s: have %d, need %d", product.Name, product.StockQuantity, item.Quantity)
			}
			lines = append(lines, finance.QuoteLine{
				ProductID: product.ID,
				Quantity:  item.Quantity,
				UnitPrice: product.Price,
			})
			products = append(products, product)
		}

		quote, err := finance.NewQuote(lines, *req.DownPayment, req.TermMonths, req.AnnualRatePct)
		if err != nil {
			return err
		}

		var items []models.HirePurchaseItem
		for _, l := range lines {
			items = append(items, models.HirePurchaseItem{
				ProductID:  l.ProductID,
				Quantity:   l.Quantity,
				UnitPrice:  l.UnitPrice,
				TotalPrice: l.Total(),
			})
		}

		var installments []models.InstallmentPayment
		for _, row := range quote.Schedule(firstDue) {
			installments = append(installments, models.InstallmentPayment{
				InstallmentNumber: row.Number,
				DueDate:           row.DueDate,
				AmountDue:         row.AmountDue,
				AmountPaid:        decimal.Zero,
				Status:            models.InstallmentStatusPending,
			})
		}

		contract = models.HirePurchaseContract{
			ContractNumber:   newDocumentNumber("HP"),
			BranchID:         branchID,
			UserID:           userID,
			CustomerID:       customer.ID,
			Subtotal:         quote.Subtotal,
			DownPayment:      quote.DownPayment,
			FinancedAmount:   quote.FinancedAmount,
			InterestRate:     quote.AnnualRatePct,
			TotalInterest:    quote.Interest,
			TotalAmount:      quote.TotalAmount,
			MonthlyPayment:   quote.MonthlyPayment,
			RemainingAmount:  quote.TotalAmount.Sub(quote.DownPayment),
			TermMonths:       quote.TermMonths,
			FirstPaymentDate: firstDue,
			Status:           models.ContractStatusActive,
			Items:            items,
			Installments:     installments,
		}
		if err := tx.Create(&contract).Error; err != nil {
			return err
		}

		// Deduct stock now that the contract row exists to reference
		for i, l := range lines {
			products[i].StockQuantity -= l.Quantity
			if err := tx.Save(&products[i]).Error; err != nil {
				return err
			}
			if err := database.RecordMovement(tx, &models.InventoryMovement{
				ProductID:     l.ProductID,
				BranchID:      branchID,
				Type:          models.MovementTypeOut,
				Quantity:      -l.Quantity,
				Notes:         fmt.Sprintf("Hire-purchase %s", contract.ContractNumber),
				ReferenceType: models.MovementRefContract,
				ReferenceID:   contract.ID,
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

	c.JSON(http.StatusCreated, gin.H{
		"message":         "Contract created",
		"contract_id":     contract.ID,
		"contract_number": contract.ContractNumber,
		"monthly_payment": contract.MonthlyPayment,
		"total_amount":    contract.TotalAmount,
	})
}

// --- GET: List contracts ---
func GetContracts(c *gin.Context) {
	var contracts []models.HirePurchaseContract

	query := database.DB.Preload("Customer").Order("created_at desc")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if branch := c.Query("branch_id"); branch != "" {
		query = query.Where("branch_id = ?", branch)
	}

	if err := query.Find(&contracts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch contracts"})
		return
	}
	c.JSON(http.StatusOK, contracts)
}

// --- GET: Contract detail with schedule ---
func GetContract(c *gin.Context) {
	var contract models.HirePurchaseContract
	if err := database.DB.
		Preload("Customer").
		Preload("Items.Product").
		Preload("Installments", func(db *gorm.DB) *gorm.DB {
			return db.Order("installment_number")
		}).
		First(&contract, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}
	c.JSON(http.StatusOK, contract)
}

// CancelContractRequest - why an active contract is being voided
type CancelContractRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// --- POST: Cancel an active contract ---
// Voids the agreement. Stock is not restored automatically; repossession is
// handled through receiving if the goods come back.
func CancelContract(c *gin.Context) {
	var req CancelContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A cancellation reason is required"})
		return
	}

	var contract models.HirePurchaseContract
	if err := database.DB.First(&contract, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}

	if err := contract.Transition(models.ContractStatusCancelled); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := database.DB.Save(&contract).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update contract"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contract cancelled", "contract": contract})
}
