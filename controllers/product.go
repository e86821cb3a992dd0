package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"renewal-review-api/config"
	"renewal-review-api/models"
)

// Read-only registry lookups for the dashboard. Subscription CRUD lives in
// another service; this one only ever reads products.

// GetProducts lists tracked subscriptions.
func GetProducts(c *gin.Context) {
	query := config.DB.Where("delete_at IS NULL")

	if retired := c.Query("retired"); retired != "" {
		query = query.Where("is_retired = ?", retired == "true")
	}

	var products []models.Product
	if err := query.Order("name ASC").Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"total":    len(products),
	})
}

// GetProduct returns a single subscription by ID.
func GetProduct(c *gin.Context) {
	id := c.Param("id")

	var product models.Product
	if err := config.DB.Where("product_id = ? AND delete_at IS NULL", id).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}
