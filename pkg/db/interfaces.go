/*
 * Copyright 2025 Orchard IQ.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package db persists the audit trail, notifications, and detection
// history in Postgres.
package db

import (
	"context"
	"time"

	"github.com/orchardiq/linewatch/pkg/models"
)

//go:generate mockgen -destination=mock_db.go -package=db github.com/orchardiq/linewatch/pkg/db Service

// BucketUnit selects the truncation period for aggregation queries.
type BucketUnit string

const (
	BucketDay   BucketUnit = "day"
	BucketMonth BucketUnit = "month"
	BucketYear  BucketUnit = "year"
)

// Service represents all durable-store operations used by the engine.
type Service interface {
	Close() error

	// Audit trail. Rows are append-only.

	AppendControlLog(ctx context.Context, entry *models.ControlLog) error
	ListControlLogs(ctx context.Context, limit int) ([]models.ControlLog, error)

	// Notifications.

	InsertNotification(ctx context.Context, n *models.Notification) error
	RecentNotifications(ctx context.Context, limit int) ([]models.Notification, error)
	CountUnreadNotifications(ctx context.Context) (int64, error)
	MarkAllNotificationsRead(ctx context.Context) error
	HideNotification(ctx context.Context, id int64) error

	// Detection history and aggregates.

	InsertDetection(ctx context.Context, rec *models.DetectionRecord) error
	ListDetections(ctx context.Context, limit int) ([]models.DetectionRecord, error)
	DetectionBreakdown(ctx context.Context, from, to time.Time) (*models.StatusBreakdown, error)
	DetectionTotalsByBucket(ctx context.Context, from, to time.Time, unit BucketUnit) ([]models.BucketTotals, error)
	CountDetections(ctx context.Context, from, to time.Time) (int64, error)
}
