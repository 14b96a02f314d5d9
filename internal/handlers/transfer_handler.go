package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go-furnish-pos/internal/database"
	"go-furnish-pos/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TransferRequest - origin branch comes from the acting user's token
type TransferRequest struct {
	ProductID  uint   `json:"product_id"`
	Quantity   int    `json:"quantity"`
	ToBranchID uint   `json:"to_branch_id"`
	Notes      string `json:"notes"`
}

// --- POST: Initiate a transfer (phase 1) ---
// Origin stock is deducted immediately; until the destination confirms, the
// quantity is counted in neither branch.
func CreateTransfer(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be at least 1"})
		return
	}

	userID := c.MustGet("userID").(uint)
	fromBranchID := c.MustGet("branchID").(uint)

	if fromBranchID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Your account has no branch assigned"})
		return
	}
	if req.ToBranchID == fromBranchID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Origin and destination branch must differ"})
		return
	}

	var destination models.Branch
	if err := database.DB.First(&destination, req.ToBranchID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Destination branch not found"})
		return
	}

	var transfer models.ProductTransfer

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		product, err := database.DecreaseStock(tx, req.ProductID, req.Quantity)
		if err != nil {
			return err
		}
		if product.BranchID != fromBranchID {
			return fmt.Errorf("product %s belongs to another branch", product.Code)
		}

		transfer = models.ProductTransfer{
			ProductID:    product.ID,
			Quantity:     req.Quantity,
			FromBranchID: fromBranchID,
			ToBranchID:   req.ToBranchID,
			Status:       models.TransferStatusPending,
			Notes:        req.Notes,
			InitiatedBy:  userID,
		}
		if err := tx.Create(&transfer).Error; err != nil {
			return err
		}

		return database.RecordMovement(tx, &models.InventoryMovement{
			ProductID:     product.ID,
			BranchID:      fromBranchID,
			Type:          models.MovementTypeOut,
			Quantity:      -req.Quantity,
			Notes:         fmt.Sprintf("Transfer to %s", destination.Name),
			ReferenceType: models.MovementRefTransfer,
			ReferenceID:   transfer.ID,
			CreatedBy:     userID,
		})
	})

	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Transfer created", "transfer": transfer})
}

// --- POST: Complete a transfer (phase 2, by the destination branch) ---
func CompleteTransfer(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transfer ID"})
		return
	}

	userID := c.MustGet("userID").(uint)

	var transfer models.ProductTransfer

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&transfer, id).Error; err != nil {
			return gorm.ErrRecordNotFound
		}

		// Re-check the status under the lock: a double confirmation loses
		if err := transfer.MarkCompleted(userID, time.Now()); err != nil {
			return err
		}

		var source models.Product
		if err := tx.First(&source, transfer.ProductID).Error; err != nil {
			return err
		}

		destProduct, err := database.FindOrCreateBranchProduct(tx, &source, transfer.ToBranchID)
		if err != nil {
			return err
		}
		if _, err := database.IncreaseStock(tx, destProduct.ID, transfer.Quantity); err != nil {
			return err
		}

		if err := database.RecordMovement(tx, &models.InventoryMovement{
			ProductID:     destProduct.ID,
			BranchID:      transfer.ToBranchID,
			Type:          models.MovementTypeIn,
			Quantity:      transfer.Quantity,
			Notes:         "Transfer received",
			ReferenceType: models.MovementRefTransfer,
			ReferenceID:   transfer.ID,
			CreatedBy:     userID,
		}); err != nil {
			return err
		}

		return tx.Save(&transfer).Error
	})

	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transfer not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transfer completed", "transfer": transfer})
}

// --- POST: Cancel a pending transfer, restoring origin stock ---
func CancelTransfer(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transfer ID"})
		return
	}

	userID := c.MustGet("userID").(uint)

	var transfer models.ProductTransfer

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&transfer, id).Error; err != nil {
			return gorm.ErrRecordNotFound
		}

		if err := transfer.MarkCancelled(); err != nil {
			return err
		}

		if _, err := database.IncreaseStock(tx, transfer.ProductID, transfer.Quantity); err != nil {
			return err
		}

		if err := database.RecordMovement(tx, &models.InventoryMovement{
			ProductID:     transfer.ProductID,
			BranchID:      transfer.FromBranchID,
			Type:          models.MovementTypeIn,
			Quantity:      transfer.Quantity,
			Notes:         "Transfer cancelled",
			ReferenceType: models.MovementRefTransfer,
			ReferenceID:   transfer.ID,
			CreatedBy:     userID,
		}); err != nil {
			return err
		}

		return tx.Save(&transfer).Error
	})

	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transfer not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transfer cancelled", "transfer": transfer})
}

// --- GET: List transfers touching a branch ---
func GetTransfers(c *gin.Context) {
	var transfers []models.ProductTransfer

	query := database.DB.Preload("Product").Order("created_at desc")
	if branch := c.Query("branch_id"); branch != "" {
		query = query.Where("from_branch_id = ? OR to_branch_id = ?", branch, branch)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Find(&transfers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transfers"})
		return
	}
	c.JSON(http.StatusOK, transfers)
}
