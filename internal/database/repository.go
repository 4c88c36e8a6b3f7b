package database

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ZanzyTHEbar/roadmap-prioritizer/internal/priority"
)

// Cold-start defaults applied when one side of the feature join has no data.
// These are load-bearing for features that exist only in feedback or only in
// usage metrics.
const (
	defaultBusinessValue    = 5
	defaultRevenueImpact    = 10000
	defaultEffort           = 8
	defaultSessionDuration  = 30
	defaultConversionImpact = 0.05
	defaultRetentionImpact  = 0.08
)

// Repository handles database operations
type Repository struct {
	db *DB
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// AddFeedback inserts a customer feedback row
func (r *Repository) AddFeedback(f *Feedback) error {
	stmt, err := r.db.GetPreparedStatement("insert_feedback")
	if err != nil {
		return err
	}

	_, err = stmt.Exec(
		f.ID, f.CustomerID, f.FeatureRequest, f.FeedbackType, f.PriorityLevel,
		f.Source, f.CustomerSegment, f.RevenueImpact, f.EffortEstimate,
		f.BusinessValue, f.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert feedback: %w", err)
	}

	return nil
}

// AddUsageMetric inserts a usage metric row
func (r *Repository) AddUsageMetric(u *UsageMetric) error {
	stmt, err := r.db.GetPreparedStatement("insert_usage")
	if err != nil {
		return err
	}

	_, err = stmt.Exec(
		u.ID, u.FeatureName, u.UserID, u.UsageCount, u.SessionDuration,
		u.DateRecorded, u.UserSegment, u.ConversionImpact, u.RetentionImpact,
		u.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert usage metric: %w", err)
	}

	return nil
}

// LogAssistantQuery records a stakeholder query and its generated response
func (r *Repository) LogAssistantQuery(queryText, role, response string) error {
	stmt, err := r.db.GetPreparedStatement("insert_assistant_query")
	if err != nil {
		return err
	}

	_, err = stmt.Exec(uuid.New().String(), queryText, role, response, time.Now())
	if err != nil {
		return fmt.Errorf("failed to log assistant query: %w", err)
	}

	return nil
}

// feedbackAggregate is one GROUP BY row over customer_feedback
type feedbackAggregate struct {
	featureName      string
	requestCount     int
	avgBusinessValue float64
	avgRevenueImpact float64
	avgEffort        float64
	criticalRequests int
	highRequests     int
}

// usageAggregate is one GROUP BY row over usage_metrics
type usageAggregate struct {
	featureName         string
	uniqueUsers         int
	avgUsage            float64
	avgSessionDuration  float64
	avgConversionImpact float64
	avgRetentionImpact  float64
}

func (r *Repository) feedbackAggregates() (map[string]feedbackAggregate, error) {
	stmt, err := r.db.GetPreparedStatement("feedback_aggregates")
	if err != nil {
		return nil, err
	}

	rows, err := stmt.Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query feedback aggregates: %w", err)
	}
	defer rows.Close()

	out := make(map[string]feedbackAggregate)
	for rows.Next() {
		var agg feedbackAggregate
		if err := rows.Scan(
			&agg.featureName, &agg.requestCount, &agg.avgBusinessValue,
			&agg.avgRevenueImpact, &agg.avgEffort, &agg.criticalRequests,
			&agg.highRequests,
		); err != nil {
			return nil, fmt.Errorf("failed to scan feedback aggregate: %w", err)
		}
		out[agg.featureName] = agg
	}

	return out, rows.Err()
}

func (r *Repository) usageAggregates() (map[string]usageAggregate, error) {
	stmt, err := r.db.GetPreparedStatement("usage_aggregates")
	if err != nil {
		return nil, err
	}

	rows, err := stmt.Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query usage aggregates: %w", err)
	}
	defer rows.Close()

	out := make(map[string]usageAggregate)
	for rows.Next() {
		var agg usageAggregate
		if err := rows.Scan(
			&agg.featureName, &agg.uniqueUsers, &agg.avgUsage,
			&agg.avgSessionDuration, &agg.avgConversionImpact,
			&agg.avgRetentionImpact,
		); err != nil {
			return nil, fmt.Errorf("failed to scan usage aggregate: %w", err)
		}
		out[agg.featureName] = agg
	}

	return out, rows.Err()
}

// FeatureAggregates merges the feedback and usage aggregations with a full
// outer join over feature name, filling missing sides with the cold-start
// defaults. The join is done here rather than in SQL to stay portable
// across storage backends. Output is sorted by feature name so callers see
// a stable table order.
func (r *Repository) FeatureAggregates() ([]priority.FeatureAggregate, error) {
	feedback, err := r.feedbackAggregates()
	if err != nil {
		return nil, err
	}

	usage, err := r.usageAggregates()
	if err != nil {
		return nil, err
	}

	names := make(map[string]struct{}, len(feedback)+len(usage))
	for name := range feedback {
		names[name] = struct{}{}
	}
	for name := range usage {
		names[name] = struct{}{}
	}

	aggregates := make([]priority.FeatureAggregate, 0, len(names))
	for name := range names {
		agg := priority.FeatureAggregate{
			FeatureName:         name,
			AvgBusinessValue:    defaultBusinessValue,
			AvgRevenueImpact:    defaultRevenueImpact,
			AvgEffort:           defaultEffort,
			AvgSessionDuration:  defaultSessionDuration,
			AvgConversionImpact: defaultConversionImpact,
			AvgRetentionImpact:  defaultRetentionImpact,
		}

		if f, ok := feedback[name]; ok {
			agg.RequestCount = f.requestCount
			agg.AvgBusinessValue = f.avgBusinessValue
			agg.AvgRevenueImpact = f.avgRevenueImpact
			agg.AvgEffort = f.avgEffort
			agg.CriticalRequests = f.criticalRequests
			agg.HighRequests = f.highRequests
		}

		if u, ok := usage[name]; ok {
			agg.UniqueUsers = u.uniqueUsers
			agg.AvgUsage = u.avgUsage
			agg.AvgSessionDuration = u.avgSessionDuration
			agg.AvgConversionImpact = u.avgConversionImpact
			agg.AvgRetentionImpact = u.avgRetentionImpact
		}

		aggregates = append(aggregates, agg)
	}

	sort.Slice(aggregates, func(i, j int) bool {
		return aggregates[i].FeatureName < aggregates[j].FeatureName
	})

	return aggregates, nil
}

// FeedbackCount returns the total number of feedback rows
func (r *Repository) FeedbackCount() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM customer_feedback`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count feedback: %w", err)
	}
	return count, nil
}
