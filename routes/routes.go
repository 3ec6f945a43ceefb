package routes

import (
	"factcheck-workflow-api/controllers"
	"factcheck-workflow-api/middleware"
	"factcheck-workflow-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			public.POST("/login", controllers.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Fact Check Workflow API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Fact-check submissions
			submissions := protected.Group("/submissions")
			{
				submissions.GET("", controllers.GetSubmissions)
				submissions.GET("/:id", controllers.GetSubmission)
				submissions.POST("", controllers.CreateSubmission)

				// Workflow surface; the engine enforces per-edge
				// permissions itself, so no role gate here.
				submissions.POST("/:id/transition", controllers.TransitionSubmission)
				submissions.GET("/:id/workflow", controllers.GetWorkflowState)
				submissions.GET("/:id/history", controllers.GetTransitionHistory)

				// Peer reviews
				submissions.POST("/:id/peer-reviews",
					middleware.RequireRole(models.RoleReviewer, models.RoleAdmin, models.RoleSuperAdmin),
					controllers.SubmitPeerReview)
				submissions.GET("/:id/peer-reviews", controllers.GetPeerReviews)

				// Admin-only submission management
				submissions.POST("/:id/reviewers",
					middleware.RequireRole(models.RoleAdmin, models.RoleSuperAdmin),
					controllers.AssignReviewer)
				submissions.GET("/:id/reconcile",
					middleware.RequireRole(models.RoleAdmin, models.RoleSuperAdmin),
					controllers.ReconcileWorkflowState)
			}

			// Peer review trigger configuration (admin only)
			triggers := protected.Group("/peer-review-triggers")
			triggers.Use(middleware.RequireRole(models.RoleAdmin, models.RoleSuperAdmin))
			{
				triggers.GET("", controllers.GetPeerReviewTriggers)
				triggers.PUT("/:id", controllers.UpdatePeerReviewTrigger)
			}
		}
	}
}
