package routes

import (
	"renewal-review-api/controllers"
	"renewal-review-api/middleware"
	"renewal-review-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Intake is open to any institutional submitter; the validator
			// enforces the email-domain policy.
			public.POST("/assessments", controllers.CreateAssessment)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Renewal Review API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// Products (read-only registry view)
			protected.GET("/products", controllers.GetProducts)
			protected.GET("/products/:id", controllers.GetProduct)

			// Assessments
			assessments := protected.Group("/assessments")
			{
				assessments.GET("", controllers.GetAssessments)
				assessments.GET("/:id", controllers.GetAssessment)

				// Review-state fields only; reviewer or higher
				assessments.PATCH("/:id", middleware.RequireRole(models.RoleReviewer), controllers.ReviewAssessment)

				// Hard delete; admin only
				assessments.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), controllers.DeleteAssessment)
			}

			// Decisions
			decisions := protected.Group("/decisions")
			{
				decisions.GET("", controllers.GetDecisions)
				decisions.GET("/:id", controllers.GetDecision)

				// Idempotent create-or-refresh of the aggregate
				decisions.POST("", controllers.CreateDecision)

				// Action-discriminated transitions; per-action role guards
				// live in the decision service
				decisions.PATCH("/:id", controllers.UpdateDecision)

				decisions.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), controllers.DeleteDecision)
			}
		}
	}
}
