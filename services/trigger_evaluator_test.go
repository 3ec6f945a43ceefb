package services

import (
	"strings"
	"testing"

	"factcheck-workflow-api/models"
)

func keywordTrigger(enabled bool, minOccurrences float64) models.PeerReviewTrigger {
	config := `{"keywords":["election","vote"]}`
	return models.PeerReviewTrigger{
		TriggerType:    models.TriggerPoliticalKeyword,
		Enabled:        enabled,
		ThresholdValue: minOccurrences,
		Config:         &config,
	}
}

func engagementTrigger() models.PeerReviewTrigger {
	config := `{"min_views":10000,"min_shares":1000,"min_comments":500}`
	return models.PeerReviewTrigger{
		TriggerType:    models.TriggerEngagementThreshold,
		Enabled:        true,
		ThresholdValue: 10000,
		Config:         &config,
	}
}

func TestPoliticalKeywordMatch(t *testing.T) {
	evaluator := NewTriggerEvaluator()

	// "election" appears twice, minimum one occurrence.
	snapshot := ContentSnapshot{
		Title:     "Claim about the election",
		ClaimText: "The election results were allegedly altered.",
	}
	required, reason := evaluator.Evaluate(snapshot, []models.PeerReviewTrigger{keywordTrigger(true, 1)})
	if !required {
		t.Fatal("expected peer review to be required")
	}
	if reason == nil || !strings.Contains(*reason, "political_keyword") {
		t.Fatalf("expected reason to name political_keyword, got %v", reason)
	}
}

func TestKeywordMatchIsCaseInsensitive(t *testing.T) {
	evaluator := NewTriggerEvaluator()

	snapshot := ContentSnapshot{Title: "ELECTION Fraud?", ClaimText: "About the VOTE."}
	required, _ := evaluator.Evaluate(snapshot, []models.PeerReviewTrigger{keywordTrigger(true, 2)})
	if !required {
		t.Fatal("expected case-insensitive match to count 2 occurrences")
	}
}

func TestNoEnabledTriggerMatches(t *testing.T) {
	evaluator := NewTriggerEvaluator()

	snapshot := ContentSnapshot{Title: "Weather claim", ClaimText: "It rained on Tuesday."}
	required, reason := evaluator.Evaluate(snapshot, []models.PeerReviewTrigger{
		keywordTrigger(true, 1),
		engagementTrigger(),
	})
	if required {
		t.Fatalf("expected no trigger to fire, got reason %v", reason)
	}
	if reason != nil {
		t.Fatalf("expected nil reason, got %q", *reason)
	}
}

func TestDisabledTriggerIsSkipped(t *testing.T) {
	evaluator := NewTriggerEvaluator()

	snapshot := ContentSnapshot{Title: "election election election"}
	required, _ := evaluator.Evaluate(snapshot, []models.PeerReviewTrigger{keywordTrigger(false, 1)})
	if required {
		t.Fatal("disabled trigger must not fire")
	}
}

func TestEngagementThresholdAnyMetric(t *testing.T) {
	evaluator := NewTriggerEvaluator()
	triggers := []models.PeerReviewTrigger{engagementTrigger()}

	tests := []struct {
		name     string
		snapshot ContentSnapshot
		want     bool
	}{
		{"views over", ContentSnapshot{ViewCount: 10000}, true},
		{"shares over", ContentSnapshot{ShareCount: 1500}, true},
		{"comments over", ContentSnapshot{CommentCount: 600}, true},
		{"all under", ContentSnapshot{ViewCount: 9999, ShareCount: 999, CommentCount: 499}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			required, reason := evaluator.Evaluate(tc.snapshot, triggers)
			if required != tc.want {
				t.Fatalf("required = %v, want %v (reason %v)", required, tc.want, reason)
			}
			if tc.want && !strings.Contains(*reason, "engagement_threshold") {
				t.Fatalf("expected reason to name engagement_threshold, got %q", *reason)
			}
		})
	}
}

func TestSensitiveTopicFailsOpenWithoutScore(t *testing.T) {
	evaluator := NewTriggerEvaluator()
	config := `{"topics":["vaccine"]}`
	triggers := []models.PeerReviewTrigger{{
		TriggerType:    models.TriggerSensitiveTopic,
		Enabled:        true,
		ThresholdValue: 0.7,
		Config:         &config,
	}}

	snapshot := ContentSnapshot{ClaimText: "A claim about vaccine side effects."}
	if required, _ := evaluator.Evaluate(snapshot, triggers); required {
		t.Fatal("sensitive_topic must be skipped when the classifier score is missing")
	}

	score := 0.9
	snapshot.SensitivityScore = &score
	required, reason := evaluator.Evaluate(snapshot, triggers)
	if !required {
		t.Fatal("expected sensitive_topic to fire with score above threshold")
	}
	if !strings.Contains(*reason, "sensitive_topic") {
		t.Fatalf("expected reason to name sensitive_topic, got %q", *reason)
	}

	low := 0.5
	snapshot.SensitivityScore = &low
	if required, _ := evaluator.Evaluate(snapshot, triggers); required {
		t.Fatal("score below threshold must not fire")
	}
}

func TestHighImpactScores(t *testing.T) {
	evaluator := NewTriggerEvaluator()
	config := `{"viral_threshold":0.75}`
	triggers := []models.PeerReviewTrigger{{
		TriggerType:    models.TriggerHighImpact,
		Enabled:        true,
		ThresholdValue: 0.8,
		Config:         &config,
	}}

	if required, _ := evaluator.Evaluate(ContentSnapshot{}, triggers); required {
		t.Fatal("high_impact must be skipped when both scores are missing")
	}

	impact := 0.85
	required, reason := evaluator.Evaluate(ContentSnapshot{ImpactScore: &impact}, triggers)
	if !required || !strings.Contains(*reason, "high_impact") {
		t.Fatalf("expected impact score to fire, got %v %v", required, reason)
	}

	viral := 0.8
	required, reason = evaluator.Evaluate(ContentSnapshot{ViralScore: &viral}, triggers)
	if !required || !strings.Contains(*reason, "viral") {
		t.Fatalf("expected viral score to fire, got %v %v", required, reason)
	}
}

func TestFixedEvaluationOrderFirstMatchWins(t *testing.T) {
	evaluator := NewTriggerEvaluator()

	// Both keyword and engagement would match; the keyword trigger is
	// evaluated first regardless of row order.
	triggers := []models.PeerReviewTrigger{
		engagementTrigger(),
		keywordTrigger(true, 1),
	}
	snapshot := ContentSnapshot{
		Title:     "election claim",
		ViewCount: 50000,
	}
	required, reason := evaluator.Evaluate(snapshot, triggers)
	if !required {
		t.Fatal("expected a trigger to fire")
	}
	if !strings.Contains(*reason, "political_keyword") {
		t.Fatalf("expected political_keyword to win the fixed order, got %q", *reason)
	}
}

func TestMalformedConfigBehavesAsEmpty(t *testing.T) {
	evaluator := NewTriggerEvaluator()
	broken := `{"keywords": [unterminated`
	triggers := []models.PeerReviewTrigger{{
		TriggerType:    models.TriggerPoliticalKeyword,
		Enabled:        true,
		ThresholdValue: 1,
		Config:         &broken,
	}}

	if required, _ := evaluator.Evaluate(ContentSnapshot{Title: "election"}, triggers); required {
		t.Fatal("malformed config must not fire")
	}
}
