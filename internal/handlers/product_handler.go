package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"go-furnish-pos/internal/database"
	"go-furnish-pos/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// --- GET: List products, optionally filtered by branch or category ---
func GetProducts(c *gin.Context) {
	var products []models.Product

	query := database.DB
	if branch := c.Query("branch_id"); branch != "" {
		query = query.Where("branch_id = ?", branch)
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	if err := query.Order("name").Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, products)
}

// --- GET: Single product ---
func GetProduct(c *gin.Context) {
	var product models.Product
	if err := database.DB.First(&product, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

// --- GET: Look up a product by its code (showroom tag scan) ---
func ScanProduct(c *gin.Context) {
	code := c.Param("code")

	var product models.Product
	query := database.DB.Where("code = ?", code)
	if branch := c.Query("branch_id"); branch != "" {
		query = query.Where("branch_id = ?", branch)
	}
	if err := query.First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("No product with code %s", code)})
		return
	}

	c.JSON(http.StatusOK, product)
}

// --- POST: Add a new product ---
func AddProduct(c *gin.Context) {
	var newProduct models.Product

	if err := c.ShouldBindJSON(&newProduct); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if newProduct.Name == "" || newProduct.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and code are required"})
		return
	}
	if newProduct.Price.IsNegative() || newProduct.Cost.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price and cost cannot be negative"})
		return
	}
	if newProduct.StockQuantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Stock quantity cannot be negative"})
		return
	}
	if newProduct.BranchID == 0 {
		newProduct.BranchID = c.MustGet("branchID").(uint)
	}

	if err := database.DB.Create(&newProduct).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to create product, code may already exist at this branch"})
		return
	}

	c.JSON(http.StatusCreated, newProduct)
}

// --- PUT: Partial update ---
func UpdateProduct(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var product models.Product
	if err := database.DB.First(&product, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	// Map input so only the sent fields change
	var updateData map[string]interface{}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	// Stock moves only through sales, receiving and transfers
	delete(updateData, "stock_quantity")

	if err := database.DB.Model(&product).Updates(updateData).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully", "product": product})
}

// ReceiveStockRequest - goods arriving from a supplier
type ReceiveStockRequest struct {
	Quantity int             `json:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost"`
	Notes    string          `json:"notes"`
}

// --- POST: Receive stock for a product ---
// One transaction: stock up, 'in' movement, cost-of-goods expense row.
func ReceiveStock(c *gin.Context) {
	var req ReceiveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be at least 1"})
		return
	}
	if req.UnitCost.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unit cost cannot be negative"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	userID := c.MustGet("userID").(uint)
	totalCost := req.UnitCost.Mul(decimal.NewFromInt(int64(req.Quantity)))

	var product *models.Product
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		product, err = database.IncreaseStock(tx, uint(id), req.Quantity)
		if err != nil {
			return err
		}

		productID := product.ID
		if err := database.RecordMovement(tx, &models.InventoryMovement{
			ProductID:     productID,
			BranchID:      product.BranchID,
			Type:          models.MovementTypeIn,
			Quantity:      req.Quantity,
			Notes:         req.Notes,
			ReferenceType: models.MovementRefReceive,
			ReferenceID:   productID,
			CreatedBy:     userID,
		}); err != nil {
			return err
		}

		expense := models.BranchExpense{
			BranchID:    product.BranchID,
			Amount:      totalCost,
			Description: fmt.Sprintf("Received %d x %s", req.Quantity, product.Name),
			Category:    models.ExpenseCategoryCostOfGoods,
			ExpenseDate: time.Now(),
			ProductID:   &productID,
			CreatedBy:   userID,
		}
		return tx.Create(&expense).Error
	})

	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Stock received",
		"product":    product,
		"total_cost": totalCost,
	})
}

// RemoveProductRequest - the mandatory reason for taking a product off the books
type RemoveProductRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// --- DELETE: Remove a product ---
// Auxiliary cleanup (expenses, image) is best-effort: a failure there is
// reported as a warning but the removal keeps going. Only the final row
// delete is fatal.
func RemoveProduct(c *gin.Context) {
	var req RemoveProductRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Reason) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A removal reason is required"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var product models.Product
	if err := database.DB.First(&product, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	userID := c.MustGet("userID").(uint)
	var warnings []string

	// 1. Drop the cost-of-goods expense rows tied to this product
	if err := database.DB.Where("product_id = ?", product.ID).Delete(&models.BranchExpense{}).Error; err != nil {
		log.WithError(err).Warnf("removal: could not delete expenses for product %d", product.ID)
		warnings = append(warnings, "Related expense rows could not be deleted")
	}

	// 2. Best-effort image cleanup
	if product.ImageURL != "" {
		filename := path.Base(product.ImageURL)
		if err := os.Remove("./uploads/" + filename); err != nil && !os.IsNotExist(err) {
			log.WithError(err).Warnf("removal: could not delete image for product %d", product.ID)
			warnings = append(warnings, "Stored image could not be deleted")
		}
	}

	// 3. Log the removal with the last known stock and the reason
	if err := database.RecordMovement(database.DB, &models.InventoryMovement{
		ProductID:     product.ID,
		BranchID:      product.BranchID,
		Type:          models.MovementTypeRemoved,
		Quantity:      -product.StockQuantity,
		Notes:         req.Reason,
		ReferenceType: models.MovementRefRemoval,
		ReferenceID:   product.ID,
		CreatedBy:     userID,
	}); err != nil {
		log.WithError(err).Warnf("removal: could not log movement for product %d", product.ID)
		warnings = append(warnings, "Removal movement could not be logged")
	}

	// 4. The only fatal step
	if err := database.DB.Delete(&models.Product{}, product.ID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not delete product. It might be linked to past sales."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Product removed",
		"warnings": warnings,
	})
}

// --- GET: Movement log for one product ---
func GetProductMovements(c *gin.Context) {
	var movements []models.InventoryMovement
	if err := database.DB.
		Where("product_id = ?", c.Param("id")).
		Order("created_at desc").
		Find(&movements).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch movements"})
		return
	}
	c.JSON(http.StatusOK, movements)
}

// --- UPLOAD: Handle image files ---
func UploadImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	// e.g. "1678901234_sofa.jpg"
	filename := fmt.Sprintf("%d_%s", time.Now().Unix(), file.Filename)
	filepath := "./uploads/" + filename

	if err := c.SaveUploadedFile(file, filepath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "File uploaded successfully",
		"url":     baseURL + "/uploads/" + filename,
	})
}
