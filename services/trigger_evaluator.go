package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"factcheck-workflow-api/models"
)

// ContentSnapshot is the immutable view of a submission handed to the
// trigger evaluator. Classifier scores are injected by an upstream
// collaborator before the engine runs; nil means the score was not
// available, in which case the triggers needing it are skipped.
type ContentSnapshot struct {
	Title            string
	ClaimText        string
	ViewCount        int
	ShareCount       int
	CommentCount     int
	SensitivityScore *float64
	ImpactScore      *float64
	ViralScore       *float64
}

// triggerConfig is the per-type extras stored in the trigger's config
// JSON column. Unused fields are simply zero for other trigger types.
type triggerConfig struct {
	Keywords       []string `json:"keywords,omitempty"`
	Topics         []string `json:"topics,omitempty"`
	MinViews       *int     `json:"min_views,omitempty"`
	MinShares      *int     `json:"min_shares,omitempty"`
	MinComments    *int     `json:"min_comments,omitempty"`
	ViralThreshold *float64 `json:"viral_threshold,omitempty"`
}

// triggerOrder fixes the deterministic evaluation order; the first
// enabled match wins.
var triggerOrder = []string{
	models.TriggerPoliticalKeyword,
	models.TriggerEngagementThreshold,
	models.TriggerSensitiveTopic,
	models.TriggerHighImpact,
}

// TriggerEvaluator decides whether a submission entering admin review
// must go through mandatory peer review. It is pure: no database access,
// no network I/O, configuration and classifier scores arrive as inputs.
type TriggerEvaluator struct{}

// NewTriggerEvaluator builds the evaluator.
func NewTriggerEvaluator() *TriggerEvaluator {
	return &TriggerEvaluator{}
}

// Evaluate runs the enabled triggers in fixed order against the snapshot
// and returns whether peer review is required plus the matching reason.
// Triggers whose required classifier score is missing are skipped rather
// than blocking the workflow (fail-open).
func (e *TriggerEvaluator) Evaluate(snapshot ContentSnapshot, triggers []models.PeerReviewTrigger) (bool, *string) {
	byType := make(map[string]models.PeerReviewTrigger, len(triggers))
	for _, trigger := range triggers {
		if trigger.Enabled {
			byType[trigger.TriggerType] = trigger
		}
	}

	for _, triggerType := range triggerOrder {
		trigger, ok := byType[triggerType]
		if !ok {
			continue
		}
		if reason := e.match(snapshot, trigger); reason != nil {
			return true, reason
		}
	}
	return false, nil
}

func (e *TriggerEvaluator) match(snapshot ContentSnapshot, trigger models.PeerReviewTrigger) *string {
	cfg := parseTriggerConfig(trigger.Config)

	switch trigger.TriggerType {
	case models.TriggerPoliticalKeyword:
		minOccurrences := int(trigger.ThresholdValue)
		if minOccurrences < 1 {
			minOccurrences = 1
		}
		count := countKeywordHits(snapshot, cfg.Keywords)
		if count >= minOccurrences {
			return reasonf("political_keyword: %d keyword occurrence(s), minimum %d", count, minOccurrences)
		}

	case models.TriggerEngagementThreshold:
		minViews := intOrDefault(cfg.MinViews, int(trigger.ThresholdValue))
		minShares := intOrDefault(cfg.MinShares, int(trigger.ThresholdValue))
		minComments := intOrDefault(cfg.MinComments, int(trigger.ThresholdValue))
		switch {
		case snapshot.ViewCount >= minViews:
			return reasonf("engagement_threshold: %d views, minimum %d", snapshot.ViewCount, minViews)
		case snapshot.ShareCount >= minShares:
			return reasonf("engagement_threshold: %d shares, minimum %d", snapshot.ShareCount, minShares)
		case snapshot.CommentCount >= minComments:
			return reasonf("engagement_threshold: %d comments, minimum %d", snapshot.CommentCount, minComments)
		}

	case models.TriggerSensitiveTopic:
		// Fail-open: without a classifier score this trigger cannot fire.
		if snapshot.SensitivityScore == nil {
			return nil
		}
		if countKeywordHits(snapshot, cfg.Topics) > 0 && *snapshot.SensitivityScore >= trigger.ThresholdValue {
			return reasonf("sensitive_topic: severity %.2f, threshold %.2f", *snapshot.SensitivityScore, trigger.ThresholdValue)
		}

	case models.TriggerHighImpact:
		if snapshot.ImpactScore != nil && *snapshot.ImpactScore >= trigger.ThresholdValue {
			return reasonf("high_impact: impact %.2f, threshold %.2f", *snapshot.ImpactScore, trigger.ThresholdValue)
		}
		if cfg.ViralThreshold != nil && snapshot.ViralScore != nil && *snapshot.ViralScore >= *cfg.ViralThreshold {
			return reasonf("high_impact: viral potential %.2f, threshold %.2f", *snapshot.ViralScore, *cfg.ViralThreshold)
		}
	}
	return nil
}

func parseTriggerConfig(raw *string) triggerConfig {
	var cfg triggerConfig
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return cfg
	}
	// A malformed config row behaves like an empty one; admins see the
	// problem through the trigger admin API, not through blocked workflow.
	_ = json.Unmarshal([]byte(*raw), &cfg)
	return cfg
}

func countKeywordHits(snapshot ContentSnapshot, terms []string) int {
	if len(terms) == 0 {
		return 0
	}
	haystack := strings.ToLower(snapshot.Title + " " + snapshot.ClaimText)
	total := 0
	for _, term := range terms {
		needle := strings.ToLower(strings.TrimSpace(term))
		if needle == "" {
			continue
		}
		total += strings.Count(haystack, needle)
	}
	return total
}

func intOrDefault(value *int, fallback int) int {
	if value != nil {
		return *value
	}
	return fallback
}

func reasonf(format string, args ...interface{}) *string {
	reason := fmt.Sprintf(format, args...)
	return &reason
}
