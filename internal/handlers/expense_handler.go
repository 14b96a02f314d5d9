package handlers

import (
	"net/http"
	"time"

	"go-furnish-pos/internal/database"
	"go-furnish-pos/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// --- GET: List expenses for a period ---
func GetExpenses(c *gin.Context) {
	period := c.DefaultQuery("period", database.PeriodMonth)
	start, end, err := database.PeriodRange(period, time.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var expenses []models.BranchExpense
	query := database.DB.
		Where("expense_date BETWEEN ? AND ?", start, end).
		Order("expense_date desc")
	if branch := c.Query("branch_id"); branch != "" {
		query = query.Where("branch_id = ?", branch)
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	if err := query.Find(&expenses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch expenses"})
		return
	}
	c.JSON(http.StatusOK, expenses)
}

// ExpenseRequest - a manual ledger entry (rent, wages, fuel...)
type ExpenseRequest struct {
	BranchID    uint            `json:"branch_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category" binding:"required"`
	ExpenseDate string          `json:"expense_date"` // YYYY-MM-DD, defaults to today
}

// --- POST: Record an expense ---
func AddExpense(c *gin.Context) {
	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input, category is required"})
		return
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be positive"})
		return
	}

	expenseDate := time.Now()
	if req.ExpenseDate != "" {
		parsed, err := time.ParseInLocation("2006-01-02", req.ExpenseDate, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Expense date must be YYYY-MM-DD"})
			return
		}
		expenseDate = parsed
	}

	branchID := req.BranchID
	if branchID == 0 {
		branchID = c.MustGet("branchID").(uint)
	}

	expense := models.BranchExpense{
		BranchID:    branchID,
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		ExpenseDate: expenseDate,
		CreatedBy:   c.MustGet("userID").(uint),
	}
	if err := database.DB.Create(&expense).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record expense"})
		return
	}
	c.JSON(http.StatusCreated, expense)
}

// --- DELETE: Remove a manual expense entry ---
func DeleteExpense(c *gin.Context) {
	result := database.DB.Delete(&models.BranchExpense{}, c.Param("id"))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete expense"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted"})
}
