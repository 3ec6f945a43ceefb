package services

import (
	"errors"
	"fmt"
	"time"

	"factcheck-workflow-api/models"

	"gorm.io/gorm"
)

// TriggerConfigService manages the admin-editable peer review trigger
// rows. The evaluator only ever reads them; seeding runs once at
// deployment via cmd/seed-triggers.
type TriggerConfigService struct {
	db *gorm.DB
}

// NewTriggerConfigService builds the service.
func NewTriggerConfigService(db *gorm.DB) *TriggerConfigService {
	return &TriggerConfigService{db: db}
}

func strptr(value string) *string {
	return &value
}

// defaultTriggers are the deployment defaults, one row per trigger type.
var defaultTriggers = []models.PeerReviewTrigger{
	{
		TriggerType:    models.TriggerPoliticalKeyword,
		Enabled:        true,
		ThresholdValue: 1,
		Config:         strptr(`{"keywords":["election","vote","ballot","president","parliament","campaign"]}`),
		Description:    strptr("Political keyword occurrences at or above the minimum force peer review"),
	},
	{
		TriggerType:    models.TriggerEngagementThreshold,
		Enabled:        true,
		ThresholdValue: 10000,
		Config:         strptr(`{"min_views":10000,"min_shares":1000,"min_comments":500}`),
		Description:    strptr("High engagement on the source claim forces peer review"),
	},
	{
		TriggerType:    models.TriggerSensitiveTopic,
		Enabled:        true,
		ThresholdValue: 0.7,
		Config:         strptr(`{"topics":["health","vaccine","war","religion","immigration"]}`),
		Description:    strptr("Sensitive topic terms combined with a high classifier severity score"),
	},
	{
		TriggerType:    models.TriggerHighImpact,
		Enabled:        true,
		ThresholdValue: 0.8,
		Config:         strptr(`{"viral_threshold":0.75}`),
		Description:    strptr("High impact or viral potential score from the upstream classifier"),
	},
}

// SeedDefaults inserts the default trigger rows, skipping types that
// already exist so reruns are safe.
func (s *TriggerConfigService) SeedDefaults() error {
	now := time.Now()
	for _, trigger := range defaultTriggers {
		var existing models.PeerReviewTrigger
		err := s.db.Where("trigger_type = ?", trigger.TriggerType).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check trigger %s: %w", trigger.TriggerType, err)
		}
		trigger.CreatedAt = now
		trigger.UpdatedAt = now
		if err := s.db.Create(&trigger).Error; err != nil {
			return fmt.Errorf("failed to seed trigger %s: %w", trigger.TriggerType, err)
		}
	}
	return nil
}

// List returns all trigger rows in evaluation order.
func (s *TriggerConfigService) List() ([]models.PeerReviewTrigger, error) {
	var triggers []models.PeerReviewTrigger
	if err := s.db.Order("trigger_id ASC").Find(&triggers).Error; err != nil {
		return nil, fmt.Errorf("failed to list triggers: %w", err)
	}
	return triggers, nil
}

// Update edits the mutable fields of one trigger row.
func (s *TriggerConfigService) Update(triggerID int, enabled bool, thresholdValue float64, config, description *string) (*models.PeerReviewTrigger, error) {
	var trigger models.PeerReviewTrigger
	if err := s.db.Where("trigger_id = ?", triggerID).First(&trigger).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("trigger %d not found", triggerID)
		}
		return nil, fmt.Errorf("failed to load trigger: %w", err)
	}

	now := time.Now()
	updates := map[string]interface{}{
		"enabled":         enabled,
		"threshold_value": thresholdValue,
		"updated_at":      now,
	}
	if config != nil {
		updates["config"] = *config
	}
	if description != nil {
		updates["description"] = *description
	}
	if err := s.db.Model(&models.PeerReviewTrigger{}).
		Where("trigger_id = ?", triggerID).
		Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update trigger: %w", err)
	}

	trigger.Enabled = enabled
	trigger.ThresholdValue = thresholdValue
	if config != nil {
		trigger.Config = config
	}
	if description != nil {
		trigger.Description = description
	}
	trigger.UpdatedAt = now
	return &trigger, nil
}
