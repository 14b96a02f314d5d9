package handlers

import (
	"net/http"
	"strconv"

	"go-furnish-pos/internal/database"
	"go-furnish-pos/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// --- GET: List customers ---
func GetCustomers(c *gin.Context) {
	var customers []models.Customer

	query := database.DB.Preload("Images").Order("name")
	if ctype := c.Query("type"); ctype != "" {
		query = query.Where("type = ?", ctype)
	}
	if phone := c.Query("phone"); phone != "" {
		query = query.Where("phone LIKE ?", "%"+phone+"%")
	}

	if err := query.Find(&customers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch customers"})
		return
	}
	c.JSON(http.StatusOK, customers)
}

// --- GET: Single customer with gallery and contracts ---
func GetCustomer(c *gin.Context) {
	var customer models.Customer
	if err := database.DB.Preload("Images").First(&customer, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}

	// Primary image resolved at read time, never stored on the customer row
	var primary *models.CustomerImage
	for i := range customer.Images {
		if customer.Images[i].IsPrimary {
			primary = &customer.Images[i]
			break
		}
	}

	c.JSON(http.StatusOK, gin.H{"customer": customer, "primary_image": primary})
}

// --- POST: Add a customer ---
func AddCustomer(c *gin.Context) {
	var customer models.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if customer.Name == "" || customer.Phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and phone are required"})
		return
	}
	if customer.Type == "" {
		customer.Type = models.CustomerTypeCash
	}
	if customer.Type != models.CustomerTypeCash && customer.Type != models.CustomerTypeHirePurchase {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Type must be cash or hire-purchase"})
		return
	}

	if err := database.DB.Create(&customer).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create customer"})
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// --- PUT: Partial update ---
func UpdateCustomer(c *gin.Context) {
	var customer models.Customer
	if err := database.DB.First(&customer, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}

	var updateData map[string]interface{}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := database.DB.Model(&customer).Updates(updateData).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update customer"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer updated successfully", "customer": customer})
}

// CustomerImageRequest - URL comes from a prior /api/upload call
type CustomerImageRequest struct {
	URL       string `json:"url" binding:"required"`
	IsPrimary bool   `json:"is_primary"`
}

// --- POST: Attach a gallery image ---
// Marking an image primary demotes any existing primary in the same write.
func AddCustomerImage(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer ID"})
		return
	}

	var customer models.Customer
	if err := database.DB.First(&customer, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}

	var req CustomerImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "An image URL is required"})
		return
	}

	var image models.CustomerImage
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if req.IsPrimary {
			if err := tx.Model(&models.CustomerImage{}).
				Where("customer_id = ? AND is_primary = ?", customer.ID, true).
				Update("is_primary", false).Error; err != nil {
				return err
			}
		}
		image = models.CustomerImage{
			CustomerID: customer.ID,
			URL:        req.URL,
			IsPrimary:  req.IsPrimary,
		}
		return tx.Create(&image).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image"})
		return
	}

	c.JSON(http.StatusCreated, image)
}
