package database

import (
	"fmt"

	"go-furnish-pos/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Stock mutation primitives. Every workflow that touches stock goes through
// these two so the row lock + bounds check is never skipped. They must be
// called inside a transaction; the lock is released at commit/rollback.

// DecreaseStock locks the product row, verifies availability and deducts.
// Returns the locked product so callers can read price/branch off it.
func DecreaseStock(tx *gorm.DB, productID uint, quantity int) (*models.Product, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}

	var product models.Product
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, productID).Error; err != nil {
		return nil, fmt.Errorf("product %d not found", productID)
	}

	if product.StockQuantity < quantity {
		return nil, fmt.Errorf("insufficient stock for %s: have %d, need %d", product.Name, product.StockQuantity, quantity)
	}

	product.StockQuantity -= quantity
	if err := tx.Save(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// IncreaseStock locks the product row and adds to it.
func IncreaseStock(tx *gorm.DB, productID uint, quantity int) (*models.Product, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}

	var product models.Product
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, productID).Error; err != nil {
		return nil, fmt.Errorf("product %d not found", productID)
	}

	product.StockQuantity += quantity
	if err := tx.Save(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindOrCreateBranchProduct resolves the destination row for a transfer:
// the product with the same code at the target branch. If the branch has
// never stocked that code, a zero-stock row is cloned from the source so the
// incoming quantity has somewhere to land.
func FindOrCreateBranchProduct(tx *gorm.DB, source *models.Product, branchID uint) (*models.Product, error) {
	var product models.Product
	err := tx.Where("code = ? AND branch_id = ?", source.Code, branchID).First(&product).Error
	if err == nil {
		return &product, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	product = models.Product{
		Name:          source.Name,
		Code:          source.Code,
		BranchID:      branchID,
		Category:      source.Category,
		Brand:         source.Brand,
		Model:         source.Model,
		Description:   source.Description,
		Price:         source.Price,
		Cost:          source.Cost,
		StockQuantity: 0,
		MinStockLevel: source.MinStockLevel,
		ImageURL:      source.ImageURL,
	}
	if err := tx.Create(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// RecordMovement appends one audit row. Same transaction as the stock write.
func RecordMovement(tx *gorm.DB, m *models.InventoryMovement) error {
	return tx.Create(m).Error
}
