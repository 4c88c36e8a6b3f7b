package database

import (
	"time"

	"github.com/google/uuid"
)

// Feedback is one stakeholder feature request
type Feedback struct {
	ID              string    `json:"id" db:"id"`
	CustomerID      string    `json:"customer_id" db:"customer_id"`
	FeatureRequest  string    `json:"feature_request" db:"feature_request"`
	FeedbackType    string    `json:"feedback_type" db:"feedback_type"`
	PriorityLevel   string    `json:"priority_level" db:"priority_level"`
	Source          string    `json:"source" db:"source"`
	CustomerSegment string    `json:"customer_segment" db:"customer_segment"`
	RevenueImpact   float64   `json:"revenue_impact" db:"revenue_impact"`
	EffortEstimate  int       `json:"effort_estimate" db:"effort_estimate"`
	BusinessValue   int       `json:"business_value_score" db:"business_value_score"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// UsageMetric is one per-user observation of shipped feature usage
type UsageMetric struct {
	ID               string    `json:"id" db:"id"`
	FeatureName      string    `json:"feature_name" db:"feature_name"`
	UserID           string    `json:"user_id" db:"user_id"`
	UsageCount       int       `json:"usage_count" db:"usage_count"`
	SessionDuration  float64   `json:"session_duration" db:"session_duration"`
	DateRecorded     time.Time `json:"date_recorded" db:"date_recorded"`
	UserSegment      string    `json:"user_segment" db:"user_segment"`
	ConversionImpact float64   `json:"conversion_impact" db:"conversion_impact"`
	RetentionImpact  float64   `json:"retention_impact" db:"retention_impact"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// AssistantQuery logs a stakeholder question and the generated answer
type AssistantQuery struct {
	ID              string    `json:"id" db:"id"`
	QueryText       string    `json:"query_text" db:"query_text"`
	StakeholderRole string    `json:"stakeholder_role" db:"stakeholder_role"`
	Response        string    `json:"response" db:"response"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// NewFeedback creates a feedback row with generated ID and timestamp
func NewFeedback(customerID, featureRequest, feedbackType, priorityLevel, source, segment string, revenueImpact float64, effortEstimate, businessValue int) *Feedback {
	return &Feedback{
		ID:              uuid.New().String(),
		CustomerID:      customerID,
		FeatureRequest:  featureRequest,
		FeedbackType:    feedbackType,
		PriorityLevel:   priorityLevel,
		Source:          source,
		CustomerSegment: segment,
		RevenueImpact:   revenueImpact,
		EffortEstimate:  effortEstimate,
		BusinessValue:   businessValue,
		CreatedAt:       time.Now(),
	}
}

// NewUsageMetric creates a usage metric row with generated ID and timestamp
func NewUsageMetric(featureName, userID string, usageCount int, sessionDuration float64, dateRecorded time.Time, segment string, conversionImpact, retentionImpact float64) *UsageMetric {
	return &UsageMetric{
		ID:               uuid.New().String(),
		FeatureName:      featureName,
		UserID:           userID,
		UsageCount:       usageCount,
		SessionDuration:  sessionDuration,
		DateRecorded:     dateRecorded,
		UserSegment:      segment,
		ConversionImpact: conversionImpact,
		RetentionImpact:  retentionImpact,
		CreatedAt:        time.Now(),
	}
}
