package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"factcheck-workflow-api/config"
	"factcheck-workflow-api/models"
	"factcheck-workflow-api/services"
	"factcheck-workflow-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateSubmission registers a new fact-check in the submitted state and
// writes its null-origin first transition in the same transaction, so the
// audit chain starts at creation.
func CreateSubmission(c *gin.Context) {
	var req struct {
		Title     string `json:"title" binding:"required"`
		ClaimText string `json:"claim_text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	userID := c.GetInt("userID")
	now := time.Now()

	submission := models.Submission{
		SubmissionNumber: fmt.Sprintf("FC-%s", strings.ToUpper(uuid.NewString()[:8])),
		Title:            utils.SanitizeInput(req.Title),
		ClaimText:        utils.SanitizeInput(req.ClaimText),
		WorkflowState:    string(services.StateSubmitted),
		OwnerID:          userID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&submission).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create submission"})
		return
	}

	if err := auditLog.AppendCreation(tx, &submission, userID); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record creation"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to finalize submission"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"submission": submission,
	})
}

// GetSubmissions lists submissions. Admins see everything; reviewers see
// their assignments; submitters see their own.
func GetSubmissions(c *gin.Context) {
	userID := c.GetInt("userID")
	roleID := c.GetInt("roleID")

	query := config.DB.Preload("Owner").
		Preload("Reviewers").
		Where("deleted_at IS NULL")

	switch roleID {
	case models.RoleAdmin, models.RoleSuperAdmin:
		// no extra filter
	case models.RoleReviewer:
		query = query.Where(
			"submission_id IN (?)",
			config.DB.Model(&models.ReviewerAssignment{}).
				Select("submission_id").
				Where("reviewer_id = ?", userID),
		)
	default:
		query = query.Where("owner_id = ?", userID)
	}

	if stateFilter := strings.TrimSpace(c.Query("state")); stateFilter != "" {
		state, err := services.ParseState(stateFilter)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		query = query.Where("workflow_state = ?", string(state))
	}

	var submissions []models.Submission
	if err := query.Order("created_at DESC").Find(&submissions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch submissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"submissions": submissions,
		"total":       len(submissions),
	})
}

// GetSubmission returns one submission with owner and reviewer relations.
func GetSubmission(c *gin.Context) {
	submissionID, ok := submissionIDParam(c)
	if !ok {
		return
	}

	var submission models.Submission
	if err := config.DB.Preload("Owner").
		Preload("Reviewers.Reviewer").
		Where("submission_id = ? AND deleted_at IS NULL", submissionID).
		First(&submission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load submission"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"submission": submission,
	})
}

// AssignReviewer attaches a reviewer to a submission. Admin only.
func AssignReviewer(c *gin.Context) {
	submissionID, ok := submissionIDParam(c)
	if !ok {
		return
	}

	var req struct {
		ReviewerID int `json:"reviewer_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var reviewer models.User
	if err := config.DB.Where("user_id = ? AND delete_at IS NULL", req.ReviewerID).
		First(&reviewer).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reviewer not found"})
		return
	}
	if reviewer.RoleID != models.RoleReviewer && !reviewer.IsAdmin() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User cannot review submissions"})
		return
	}

	var submission models.Submission
	if err := config.DB.Where("submission_id = ? AND deleted_at IS NULL", submissionID).
		First(&submission).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}

	var existing models.ReviewerAssignment
	err := config.DB.Where("submission_id = ? AND reviewer_id = ?", submissionID, req.ReviewerID).
		First(&existing).Error
	if err == nil {
		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"assignment": existing,
		})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check assignment"})
		return
	}

	assignment := models.ReviewerAssignment{
		SubmissionID: submissionID,
		ReviewerID:   req.ReviewerID,
		AssignedBy:   c.GetInt("userID"),
		CreatedAt:    time.Now(),
	}
	if err := config.DB.Create(&assignment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign reviewer"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"assignment": assignment,
	})
}

func submissionIDParam(c *gin.Context) (int, bool) {
	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || submissionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return 0, false
	}
	return submissionID, true
}
