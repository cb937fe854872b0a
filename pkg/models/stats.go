package models

import "time"

// StatusBreakdown counts detection rows per result status.
type StatusBreakdown struct {
	Normal      int64 `json:"normal"`
	Defective   int64 `json:"defective"`
	Substandard int64 `json:"substandard"`
}

// TrendPoint is one time bucket of a defect-count series.
type TrendPoint struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// RatePoint is one time bucket of a defect-rate series, in percent.
type RatePoint struct {
	Label string  `json:"label"`
	Rate  float64 `json:"rate"`
}

// TaskCompletion is today's completed-vs-incomplete task split.
type TaskCompletion struct {
	Completed  int64 `json:"completed"`
	Incomplete int64 `json:"incomplete"`
}

// BucketTotals is one raw aggregation bucket read from the store.
// Bucket is the truncated start of the period.
type BucketTotals struct {
	Bucket    time.Time
	Total     int64
	Defective int64
}

// StatisticsReport is the aggregated dashboard report. Every series is
// pre-populated with zero-valued buckets for its full window, so gaps
// render as zero rather than being absent.
type StatisticsReport struct {
	GeneratedAt       time.Time       `json:"generated_at"`
	OverallStatus     StatusBreakdown `json:"overall_status"`
	DailyStatus       StatusBreakdown `json:"daily_status"`
	WeeklyDefectTrend []TrendPoint    `json:"weekly_defect_trend"` // trailing 7 days
	MonthlyDefectRate []RatePoint     `json:"monthly_defect_rate"` // trailing 12 months
	YearlyDefectRate  []RatePoint     `json:"yearly_defect_rate"`  // trailing 5 years
	DailyTasks        TaskCompletion  `json:"daily_tasks"`
}
