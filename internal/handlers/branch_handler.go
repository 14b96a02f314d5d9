package handlers

import (
	"net/http"

	"go-furnish-pos/internal/database"
	"go-furnish-pos/internal/models"

	"github.com/gin-gonic/gin"
)

// --- GET: List branches ---
func GetBranches(c *gin.Context) {
	var branches []models.Branch
	if err := database.DB.Order("name").Find(&branches).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch branches"})
		return
	}
	c.JSON(http.StatusOK, branches)
}

// --- POST: Add a branch ---
func AddBranch(c *gin.Context) {
	var branch models.Branch
	if err := c.ShouldBindJSON(&branch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if branch.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Branch name is required"})
		return
	}

	if err := database.DB.Create(&branch).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create branch"})
		return
	}
	c.JSON(http.StatusCreated, branch)
}

// --- PUT: Partial update ---
// There is no branch deletion path; shops close by going unused.
func UpdateBranch(c *gin.Context) {
	var branch models.Branch
	if err := database.DB.First(&branch, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Branch not found"})
		return
	}

	var updateData map[string]interface{}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := database.DB.Model(&branch).Updates(updateData).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update branch"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Branch updated successfully", "branch": branch})
}
