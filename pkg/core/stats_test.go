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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/orchardiq/linewatch/pkg/db"
	"github.com/orchardiq/linewatch/pkg/models"
)

var errStorage = errors.New("storage down")

func newTestAggregator(t *testing.T) (*Aggregator, *db.MockService) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockDB := db.NewMockService(ctrl)
	agg := NewAggregator(mockDB, WithAggregatorClock(testClock))

	return agg, mockDB
}

func TestReportEmptyHistory(t *testing.T) {
	agg, mockDB := newTestAggregator(t)

	mockDB.EXPECT().DetectionBreakdown(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&models.StatusBreakdown{}, nil).Times(2)
	mockDB.EXPECT().DetectionTotalsByBucket(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil).Times(3)
	mockDB.EXPECT().CountDetections(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(int64(0), nil)

	report, err := agg.Report(context.Background(), 40)
	require.NoError(t, err)

	assert.Equal(t, models.StatusBreakdown{}, report.OverallStatus)
	assert.Equal(t, models.StatusBreakdown{}, report.DailyStatus)

	// Every series is zero-filled for its full window.
	require.Len(t, report.WeeklyDefectTrend, trendDays)
	require.Len(t, report.MonthlyDefectRate, rateMonths)
	require.Len(t, report.YearlyDefectRate, rateYears)

	for _, point := range report.WeeklyDefectTrend {
		assert.Zero(t, point.Count)
	}

	for _, point := range report.MonthlyDefectRate {
		assert.Zero(t, point.Rate)
	}

	assert.Equal(t, models.TaskCompletion{Completed: 0, Incomplete: 40}, report.DailyTasks)
}

func TestReportLabelsAndWindows(t *testing.T) {
	agg, mockDB := newTestAggregator(t)

	// testClock is 2025-06-01 12:00 UTC.
	dayStart := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	mockDB.EXPECT().DetectionBreakdown(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&models.StatusBreakdown{Normal: 10, Defective: 2}, nil).Times(2)

	mockDB.EXPECT().
		DetectionTotalsByBucket(gomock.Any(), gomock.Any(), gomock.Any(), db.BucketDay).
		Return([]models.BucketTotals{
			{Bucket: dayStart, Total: 12, Defective: 2},
		}, nil)
	mockDB.EXPECT().
		DetectionTotalsByBucket(gomock.Any(), gomock.Any(), gomock.Any(), db.BucketMonth).
		Return([]models.BucketTotals{
			{Bucket: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), Total: 50, Defective: 5},
		}, nil)
	mockDB.EXPECT().
		DetectionTotalsByBucket(gomock.Any(), gomock.Any(), gomock.Any(), db.BucketYear).
		Return([]models.BucketTotals{
			{Bucket: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Total: 200, Defective: 20},
		}, nil)
	mockDB.EXPECT().CountDetections(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(int64(12), nil)

	report, err := agg.Report(context.Background(), 20)
	require.NoError(t, err)

	// The weekly series runs from six days back through today.
	require.Len(t, report.WeeklyDefectTrend, trendDays)
	assert.Equal(t, "2025-05-26", report.WeeklyDefectTrend[0].Label)
	assert.Equal(t, "2025-06-01", report.WeeklyDefectTrend[6].Label)
	assert.Equal(t, int64(2), report.WeeklyDefectTrend[6].Count)
	assert.Zero(t, report.WeeklyDefectTrend[0].Count)

	require.Len(t, report.MonthlyDefectRate, rateMonths)
	assert.Equal(t, "2024-07", report.MonthlyDefectRate[0].Label)
	assert.Equal(t, "2025-06", report.MonthlyDefectRate[11].Label)
	assert.InDelta(t, 10.0, report.MonthlyDefectRate[11].Rate, 0.001)

	require.Len(t, report.YearlyDefectRate, rateYears)
	assert.Equal(t, "2021", report.YearlyDefectRate[0].Label)
	assert.Equal(t, "2025", report.YearlyDefectRate[4].Label)
	assert.InDelta(t, 10.0, report.YearlyDefectRate[4].Rate, 0.001)

	assert.Equal(t, models.TaskCompletion{Completed: 12, Incomplete: 8}, report.DailyTasks)
}

func TestReportIncompleteClampedToZero(t *testing.T) {
	agg, mockDB := newTestAggregator(t)

	mockDB.EXPECT().DetectionBreakdown(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&models.StatusBreakdown{}, nil).Times(2)
	mockDB.EXPECT().DetectionTotalsByBucket(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil).Times(3)
	mockDB.EXPECT().CountDetections(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(int64(25), nil)

	report, err := agg.Report(context.Background(), 10)
	require.NoError(t, err)

	assert.Equal(t, models.TaskCompletion{Completed: 25, Incomplete: 0}, report.DailyTasks)
}

func TestReportStoreFailure(t *testing.T) {
	agg, mockDB := newTestAggregator(t)

	mockDB.EXPECT().DetectionBreakdown(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errStorage)

	report, err := agg.Report(context.Background(), 10)
	require.ErrorIs(t, err, errStorage)
	assert.Nil(t, report)
}
