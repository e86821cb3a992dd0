package controllers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"renewal-review-api/middleware"
	"renewal-review-api/services"
)

// CreateAssessment handles the public intake endpoint. Aggregate recompute
// and notification run on the background queue after the response.
func CreateAssessment(c *gin.Context) {
	var req services.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	assessment, err := intakeService.Submit(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"assessment": assessment,
	})
}

// GetAssessments lists assessments, filterable by product and review status.
func GetAssessments(c *gin.Context) {
	var filter services.AssessmentFilter
	if product := c.Query("product"); product != "" {
		id, err := strconv.Atoi(product)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product filter"})
			return
		}
		filter.ProductID = id
	}
	filter.ReviewStatus = c.Query("status")

	assessments, err := assessmentService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"assessments": assessments,
		"total":       len(assessments),
	})
}

// GetAssessment returns a single assessment by ID.
func GetAssessment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assessment ID"})
		return
	}

	assessment, err := assessmentService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"assessment": assessment})
}

// ReviewAssessment applies reviewer updates to the review-state fields.
// The recommendation, justification and snapshot fields stay immutable.
func ReviewAssessment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assessment ID"})
		return
	}

	caller, ok := middleware.CallerFrom(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Caller context missing"})
		return
	}

	var update services.ReviewUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	assessment, err := assessmentService.Review(c.Request.Context(), caller, id, update)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"assessment": assessment,
	})
}

// DeleteAssessment hard-deletes one assessment and schedules a recompute of
// its product's aggregate so the counts stay a pure function of the rows.
func DeleteAssessment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assessment ID"})
		return
	}

	caller, ok := middleware.CallerFrom(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Caller context missing"})
		return
	}

	productID, err := assessmentService.Delete(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, err)
		return
	}

	if taskQueue != nil {
		taskQueue.Enqueue(fmt.Sprintf("recompute decision for product %d", productID), func(ctx context.Context) error {
			_, err := decisionService.Refresh(ctx, productID)
			return err
		})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Assessment deleted"})
}
