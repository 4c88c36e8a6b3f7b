package database

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"
)

var sampleFeatures = []string{
	"Dark mode support", "Advanced search filters", "Mobile app improvements",
	"API rate limiting", "Real-time notifications", "Export functionality",
	"User role management", "Dashboard customization", "Integration with Slack",
	"Performance optimization", "Multi-language support", "Advanced analytics",
	"Two-factor authentication", "Bulk data import", "Custom reporting",
	"Automated workflows", "Data visualization", "Social login integration",
	"Email templates", "Calendar integration", "File sharing", "Version control",
}

var (
	sampleSegments      = []string{"Enterprise", "SMB", "Startup", "Individual"}
	sampleSources       = []string{"support_ticket", "survey", "user_interview", "sales", "product_feedback"}
	sampleFeedbackTypes = []string{"feature_request", "enhancement", "bug_report"}
	samplePriorities    = []string{"low", "medium", "high", "critical"}
)

// SeedSampleData replaces all feedback and usage rows with a generated
// demo catalog. Intended for local development and cold-start demos only.
func (r *Repository) SeedSampleData(seed int64) error {
	rng := rand.New(rand.NewSource(seed))

	if _, err := r.db.Exec(`DELETE FROM customer_feedback`); err != nil {
		return fmt.Errorf("failed to clear feedback: %w", err)
	}
	if _, err := r.db.Exec(`DELETE FROM usage_metrics`); err != nil {
		return fmt.Errorf("failed to clear usage metrics: %w", err)
	}

	for i := 0; i < 500; i++ {
		f := NewFeedback(
			fmt.Sprintf("CUST_%04d", rng.Intn(150)+1),
			sampleFeatures[rng.Intn(len(sampleFeatures))],
			sampleFeedbackTypes[rng.Intn(len(sampleFeedbackTypes))],
			samplePriorities[rng.Intn(len(samplePriorities))],
			sampleSources[rng.Intn(len(sampleSources))],
			sampleSegments[rng.Intn(len(sampleSegments))],
			1000+rng.Float64()*74000,
			rng.Intn(25)+1,
			rng.Intn(10)+1,
		)
		if err := r.AddFeedback(f); err != nil {
			return err
		}
	}

	now := time.Now()
	for i := 0; i < 800; i++ {
		u := NewUsageMetric(
			sampleFeatures[rng.Intn(len(sampleFeatures))],
			fmt.Sprintf("USER_%04d", rng.Intn(300)+1),
			rng.Intn(75)+1,
			0.5+rng.Float64()*179.5,
			now.AddDate(0, 0, -rng.Intn(121)),
			sampleSegments[rng.Intn(len(sampleSegments))],
			0.005+rng.Float64()*0.195,
			0.01+rng.Float64()*0.24,
		)
		if err := r.AddUsageMetric(u); err != nil {
			return err
		}
	}

	slog.Info("Sample data seeded", "feedback_rows", 500, "usage_rows", 800)

	return nil
}
