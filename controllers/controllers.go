package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"renewal-review-api/models"
	"renewal-review-api/services"
)

var (
	intakeService     *services.IntakeService
	assessmentService *services.AssessmentService
	decisionService   *services.DecisionService
	taskQueue         *services.TaskQueue
)

// Init wires the handler package to the workflow services. Called once from
// main after the database and queue are up.
func Init(intake *services.IntakeService, assessments *services.AssessmentService, decisions *services.DecisionService, queue *services.TaskQueue) {
	intakeService = intake
	assessmentService = assessments
	decisionService = decisions
	taskQueue = queue
}

// respondError maps the service error taxonomy onto HTTP status codes.
func respondError(c *gin.Context, err error) {
	var (
		validation *services.ValidationError
		authz      *services.AuthorizationError
		notFound   *services.NotFoundError
		conflict   *services.ConflictError
		dependency *services.DependencyError
	)

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Message})
	case errors.As(err, &authz):
		c.JSON(http.StatusForbidden, gin.H{
			"error":        authz.Error(),
			"current_role": models.RoleName(authz.Role),
		})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": conflict.Message})
	case errors.As(err, &dependency):
		c.JSON(http.StatusBadGateway, gin.H{"error": dependency.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
