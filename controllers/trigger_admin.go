package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetPeerReviewTriggers lists the trigger configuration rows.
func GetPeerReviewTriggers(c *gin.Context) {
	triggers, err := triggerConfig.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load triggers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"triggers": triggers,
	})
}

// UpdatePeerReviewTrigger edits one trigger row. Admin only; the
// evaluator picks up the change on the next transition into admin review.
func UpdatePeerReviewTrigger(c *gin.Context) {
	triggerID, err := strconv.Atoi(c.Param("id"))
	if err != nil || triggerID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trigger ID"})
		return
	}

	var req struct {
		Enabled        bool    `json:"enabled"`
		ThresholdValue float64 `json:"threshold_value"`
		Config         *string `json:"config"`
		Description    *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	trigger, err := triggerConfig.Update(triggerID, req.Enabled, req.ThresholdValue, req.Config, req.Description)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"trigger": trigger,
	})
}
