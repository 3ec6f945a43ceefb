package main

import (
	"log"
	"time"

	"factcheck-workflow-api/config"
	"factcheck-workflow-api/services"

	"github.com/joho/godotenv"
)

// Cron-style tool: finds peer reviews pending past the escalation window
// and mails admins. The engine itself never runs background work; this
// binary is scheduled externally.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config.InitDB()

	peerReviews := services.NewPeerReviewService(config.DB)
	notifications := services.NewNotificationService(config.DB)

	cutoff := time.Now().Add(-services.StalledReviewEscalationAfter)
	stalled, err := peerReviews.StalledReviews(cutoff)
	if err != nil {
		log.Fatalf("Failed to query stalled reviews: %v", err)
	}

	if len(stalled) == 0 {
		log.Println("No stalled peer reviews")
		return
	}

	if err := notifications.NotifyStalledReviews(stalled); err != nil {
		log.Fatalf("Failed to notify admins: %v", err)
	}
	log.Printf("Escalated %d stalled peer review(s)", len(stalled))
}
