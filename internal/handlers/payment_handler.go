package handlers

import (
	"net/http"
	"strconv"
	"time"

	"go-furnish-pos/internal/database"
	"go-furnish-pos/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InstallmentPaymentRequest - money received against one schedule row
type InstallmentPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
}

// --- POST: Apply a payment to an installment ---
// Installment update and contract balance deduction happen in one
// transaction so the two can never diverge. Overpayment is absorbed into
// amount_paid; nothing is prorated forward.
func PayInstallment(c *gin.Context) {
	var req InstallmentPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment amount must be positive"})
		return
	}
	if !paymentMethods[req.PaymentMethod] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown payment method"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid installment ID"})
		return
	}

	var installment models.InstallmentPayment
	var contract models.HirePurchaseContract

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&installment, id).Error; err != nil {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&contract, installment.ContractID).Error; err != nil {
			return err
		}

		now := time.Now()
		if err := installment.ApplyPayment(req.Amount, req.PaymentMethod, now); err != nil {
			return err
		}
		if err := tx.Save(&installment).Error; err != nil {
			return err
		}

		// One receipt per payment; amount_paid on the row only accumulates
		if err := tx.Create(&models.InstallmentReceipt{
			ContractID:    contract.ID,
			InstallmentID: installment.ID,
			Amount:        req.Amount,
			PaymentMethod: req.PaymentMethod,
			PaidAt:        now,
			ReceivedBy:    c.MustGet("userID").(uint),
		}).Error; err != nil {
			return err
		}

		contract.RemainingAmount = contract.RemainingAmount.Sub(req.Amount)
		if contract.RemainingAmount.LessThanOrEqual(decimal.Zero) && contract.Status == models.ContractStatusActive {
			if err := contract.Transition(models.ContractStatusCompleted); err != nil {
				return err
			}
		}
		return tx.Save(&contract).Error
	})

	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Installment not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":          "Payment applied",
		"installment":      installment,
		"contract_status":  contract.Status,
		"remaining_amount": contract.RemainingAmount,
	})
}

// --- GET: Schedule rows due or overdue across contracts ---
func GetOverdueInstallments(c *gin.Context) {
	var rows []models.InstallmentPayment
	if err := database.DB.
		Where("due_date < ? AND status IN ?", time.Now(),
			[]string{models.InstallmentStatusPending, models.InstallmentStatusPartial}).
		Order("due_date").
		Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch installments"})
		return
	}
	c.JSON(http.StatusOK, rows)
}
