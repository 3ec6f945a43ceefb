package controllers

import (
	"errors"
	"net/http"
	"strings"

	"factcheck-workflow-api/config"
	"factcheck-workflow-api/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SubmitPeerReview records the calling reviewer's verdict on a
// submission. Admins may review anything; reviewers only submissions they
// are assigned to.
func SubmitPeerReview(c *gin.Context) {
	submissionID, ok := submissionIDParam(c)
	if !ok {
		return
	}

	var req struct {
		ApprovalStatus string `json:"approval_status" binding:"required"`
		Comments       string `json:"comments"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	userID := c.GetInt("userID")
	roleID := c.GetInt("roleID")

	var submission models.Submission
	if err := config.DB.Preload("Reviewers").
		Where("submission_id = ? AND deleted_at IS NULL", submissionID).
		First(&submission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load submission"})
		return
	}

	isAdmin := roleID == models.RoleAdmin || roleID == models.RoleSuperAdmin
	if !isAdmin && !submission.IsAssignedReviewer(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not assigned to this submission"})
		return
	}

	var comments *string
	if trimmed := strings.TrimSpace(req.Comments); trimmed != "" {
		comments = &trimmed
	}

	review, err := peerReviews.RecordDecision(submissionID, userID, req.ApprovalStatus, comments)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"peer_review": review,
	})
}

// GetPeerReviews lists all review rows for a submission, oldest first.
func GetPeerReviews(c *gin.Context) {
	submissionID, ok := submissionIDParam(c)
	if !ok {
		return
	}

	reviews, err := peerReviews.ListForSubmission(submissionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load peer reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"peer_reviews": reviews,
		"total":        len(reviews),
	})
}
