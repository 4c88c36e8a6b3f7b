package database

import (
	"fmt"
	"sort"
)

// SegmentPriority ranks one customer segment by how much weight its feedback
// should carry: revenue impact (per $1000), business value (doubled) and raw
// request volume (damped).
type SegmentPriority struct {
	Segment          string  `json:"segment"`
	RequestCount     int     `json:"request_count"`
	AvgRevenueImpact float64 `json:"avg_revenue_impact"`
	AvgBusinessValue float64 `json:"avg_business_value"`
	PriorityScore    float64 `json:"priority_score"`
}

// SegmentFeatureDemand is one (segment, feature) cell of the demand
// breakdown.
type SegmentFeatureDemand struct {
	Segment          string  `json:"segment"`
	FeatureRequest   string  `json:"feature_request"`
	RequestCount     int     `json:"request_count"`
	AvgRevenueImpact float64 `json:"avg_revenue_impact"`
	AvgBusinessValue float64 `json:"avg_business_value"`
}

func segmentPriorityScore(requestCount int, avgRevenue, avgBusinessValue float64) float64 {
	return avgRevenue/1000 + avgBusinessValue*2 + float64(requestCount)*0.1
}

// SegmentPriorities aggregates feedback per customer segment, scored and
// sorted so the most valuable segment comes first.
func (r *Repository) SegmentPriorities() ([]SegmentPriority, error) {
	stmt, err := r.db.GetPreparedStatement("segment_priorities")
	if err != nil {
		return nil, err
	}

	rows, err := stmt.Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query segment priorities: %w", err)
	}
	defer rows.Close()

	var out []SegmentPriority
	for rows.Next() {
		var sp SegmentPriority
		if err := rows.Scan(&sp.Segment, &sp.RequestCount, &sp.AvgRevenueImpact, &sp.AvgBusinessValue); err != nil {
			return nil, fmt.Errorf("failed to scan segment priority: %w", err)
		}
		sp.PriorityScore = segmentPriorityScore(sp.RequestCount, sp.AvgRevenueImpact, sp.AvgBusinessValue)
		out = append(out, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read segment priorities: %w", err)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PriorityScore > out[j].PriorityScore
	})
	return out, nil
}

// SegmentFeatureDemands breaks feedback down per segment and feature,
// ordered by segment then demand.
func (r *Repository) SegmentFeatureDemands() ([]SegmentFeatureDemand, error) {
	stmt, err := r.db.GetPreparedStatement("segment_feature_demand")
	if err != nil {
		return nil, err
	}

	rows, err := stmt.Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query segment feature demand: %w", err)
	}
	defer rows.Close()

	var out []SegmentFeatureDemand
	for rows.Next() {
		var d SegmentFeatureDemand
		if err := rows.Scan(&d.Segment, &d.FeatureRequest, &d.RequestCount, &d.AvgRevenueImpact, &d.AvgBusinessValue); err != nil {
			return nil, fmt.Errorf("failed to scan segment feature demand: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read segment feature demand: %w", err)
	}

	return out, nil
}
