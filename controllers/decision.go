package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"renewal-review-api/middleware"
	"renewal-review-api/services"
)

// GetDecisions lists decisions, filterable by product and status.
func GetDecisions(c *gin.Context) {
	var filter services.DecisionFilter
	if product := c.Query("product"); product != "" {
		id, err := strconv.Atoi(product)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product filter"})
			return
		}
		filter.ProductID = id
	}
	filter.Status = c.Query("status")

	decisions, err := decisionService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"decisions": decisions,
		"total":     len(decisions),
	})
}

// GetDecision returns a single decision by ID.
func GetDecision(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid decision ID"})
		return
	}

	decision, err := decisionService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"decision": decision})
}

// CreateDecision is the idempotent create-or-refresh of the aggregate for a
// product. The optional generate_summary flag synchronously runs the
// synthesizer before returning.
func CreateDecision(c *gin.Context) {
	var req struct {
		ProductID       int  `json:"product_id" binding:"required"`
		GenerateSummary bool `json:"generate_summary"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	caller, ok := middleware.CallerFrom(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Caller context missing"})
		return
	}

	decision, err := decisionService.CreateOrRefresh(c.Request.Context(), caller, req.ProductID, req.GenerateSummary)
	if err != nil {
		// The refreshed aggregate is still returned when only the synthesis
		// failed; the summary is a best-effort enhancement.
		var dependency *services.DependencyError
		if decision != nil && errors.As(err, &dependency) {
			c.JSON(http.StatusBadGateway, gin.H{
				"error":    err.Error(),
				"decision": decision,
			})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"decision": decision,
	})
}

// UpdateDecision dispatches the action-discriminated PATCH: tic_review,
// generate_summary, director_decision, implement or admin_edit.
func UpdateDecision(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid decision ID"})
		return
	}

	caller, ok := middleware.CallerFrom(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Caller context missing"})
		return
	}

	var req services.ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	decision, err := decisionService.Act(c.Request.Context(), caller, id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"decision": decision,
	})
}

// DeleteDecision removes the aggregate row for a product. Admin only.
func DeleteDecision(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid decision ID"})
		return
	}

	caller, ok := middleware.CallerFrom(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Caller context missing"})
		return
	}

	if err := decisionService.Purge(c.Request.Context(), caller, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Decision deleted"})
}
