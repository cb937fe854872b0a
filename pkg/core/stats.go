/*
 * Copyright 2025 Orchard IQ.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package core

import (
	"context"
	"time"

	"github.com/orchardiq/linewatch/pkg/db"
	"github.com/orchardiq/linewatch/pkg/models"
)

const (
	trendDays  = 7
	rateMonths = 12
	rateYears  = 5

	dayLabel   = "2006-01-02"
	monthLabel = "2006-01"
	yearLabel  = "2006"
)

// Aggregator is the read-side statistics builder. It has no state of
// its own; every report is computed from the detection history.
type Aggregator struct {
	store db.Service
	now   func() time.Time
}

// AggregatorOption mutates Aggregator construction.
type AggregatorOption func(*Aggregator)

// WithAggregatorClock injects the time source.
func WithAggregatorClock(now func() time.Time) AggregatorOption {
	return func(a *Aggregator) {
		a.now = now
	}
}

func NewAggregator(store db.Service, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		store: store,
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Report computes the dashboard statistics. totalTasks is the expected
// number of tasks for today, supplied by the caller. Every series is
// zero-filled for its full window before observed data is folded in.
func (a *Aggregator) Report(ctx context.Context, totalTasks int64) (*models.StatisticsReport, error) {
	now := a.now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	nextDay := dayStart.AddDate(0, 0, 1)

	report := &models.StatisticsReport{GeneratedAt: now}

	overall, err := a.store.DetectionBreakdown(ctx, time.Time{}, nextDay)
	if err != nil {
		return nil, err
	}

	report.OverallStatus = *overall

	daily, err := a.store.DetectionBreakdown(ctx, dayStart, nextDay)
	if err != nil {
		return nil, err
	}

	report.DailyStatus = *daily

	report.WeeklyDefectTrend, err = a.weeklyTrend(ctx, dayStart, nextDay)
	if err != nil {
		return nil, err
	}

	report.MonthlyDefectRate, err = a.defectRates(ctx, now, db.BucketMonth)
	if err != nil {
		return nil, err
	}

	report.YearlyDefectRate, err = a.defectRates(ctx, now, db.BucketYear)
	if err != nil {
		return nil, err
	}

	completed, err := a.store.CountDetections(ctx, dayStart, nextDay)
	if err != nil {
		return nil, err
	}

	incomplete := totalTasks - completed
	if incomplete < 0 {
		incomplete = 0
	}

	report.DailyTasks = models.TaskCompletion{Completed: completed, Incomplete: incomplete}

	return report, nil
}

// weeklyTrend folds defect counts into the trailing seven day buckets.
func (a *Aggregator) weeklyTrend(ctx context.Context, dayStart, nextDay time.Time) ([]models.TrendPoint, error) {
	from := dayStart.AddDate(0, 0, -(trendDays - 1))

	buckets, err := a.store.DetectionTotalsByBucket(ctx, from, nextDay, db.BucketDay)
	if err != nil {
		return nil, err
	}

	observed := make(map[string]int64, len(buckets))
	for _, b := range buckets {
		observed[b.Bucket.UTC().Format(dayLabel)] = b.Defective
	}

	trend := make([]models.TrendPoint, 0, trendDays)

	for day := from; day.Before(nextDay); day = day.AddDate(0, 0, 1) {
		label := day.Format(dayLabel)
		trend = append(trend, models.TrendPoint{Label: label, Count: observed[label]})
	}

	return trend, nil
}

// defectRates folds defect percentages into trailing month or year
// buckets. A bucket with no observations has rate zero.
func (a *Aggregator) defectRates(ctx context.Context, now time.Time, unit db.BucketUnit) ([]models.RatePoint, error) {
	var (
		from  time.Time
		count int
		label string
		step  func(time.Time) time.Time
	)

	switch unit {
	case db.BucketMonth:
		count = rateMonths
		label = monthLabel
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(rateMonths - 1), 0)
		step = func(t time.Time) time.Time { return t.AddDate(0, 1, 0) }
	default:
		count = rateYears
		label = yearLabel
		from = time.Date(now.Year()-(rateYears-1), 1, 1, 0, 0, 0, 0, time.UTC)
		step = func(t time.Time) time.Time { return t.AddDate(1, 0, 0) }
	}

	buckets, err := a.store.DetectionTotalsByBucket(ctx, from, now, unit)
	if err != nil {
		return nil, err
	}

	observed := make(map[string]models.BucketTotals, len(buckets))
	for _, b := range buckets {
		observed[b.Bucket.UTC().Format(label)] = b
	}

	rates := make([]models.RatePoint, 0, count)

	for bucket := from; len(rates) < count; bucket = step(bucket) {
		key := bucket.Format(label)
		point := models.RatePoint{Label: key}

		if totals, ok := observed[key]; ok && totals.Total > 0 {
			point.Rate = float64(totals.Defective) / float64(totals.Total) * 100
		}

		rates = append(rates, point)
	}

	return rates, nil
}
