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

package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orchardiq/linewatch/pkg/logger"
	"github.com/orchardiq/linewatch/pkg/models"
)

const defaultListLimit = 100

// Store is the pgx-backed implementation of Service.
type Store struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

// NewStore wraps an established pool. The caller owns migrations.
func NewStore(pool *pgxpool.Pool, log logger.Logger) *Store {
	return &Store{
		pool:   pool,
		logger: log.WithComponent("db"),
	}
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// AppendControlLog inserts one audit row and backfills its assigned ID.
func (s *Store) AppendControlLog(ctx context.Context, entry *models.ControlLog) error {
	if entry == nil {
		return ErrNilRecord
	}

	err := s.pool.QueryRow(ctx, `
		INSERT INTO control_logs (created_at, category, subject, transition, memo)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		entry.Timestamp, entry.Category, entry.Subject, entry.Transition, entry.Memo,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("%w control log: %w", ErrFailedToInsert, err)
	}

	return nil
}

// ListControlLogs returns the newest audit rows, newest first.
func (s *Store) ListControlLogs(ctx context.Context, limit int) ([]models.ControlLog, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, created_at, category, subject, transition, memo
		FROM control_logs
		ORDER BY created_at DESC, id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w control logs: %w", ErrFailedToQuery, err)
	}
	defer rows.Close()

	var logs []models.ControlLog

	for rows.Next() {
		var entry models.ControlLog

		if err := rows.Scan(&entry.ID, &entry.Timestamp, &entry.Category,
			&entry.Subject, &entry.Transition, &entry.Memo); err != nil {
			return nil, fmt.Errorf("%w control log: %w", ErrFailedToScan, err)
		}

		logs = append(logs, entry)
	}

	return logs, rows.Err()
}

// InsertNotification persists one notification and backfills its ID.
func (s *Store) InsertNotification(ctx context.Context, n *models.Notification) error {
	if n == nil {
		return ErrNilRecord
	}

	err := s.pool.QueryRow(ctx, `
		INSERT INTO notifications (type, title, message, created_at, read, visible)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		string(n.Type), n.Title, n.Message, n.CreatedAt, n.Read, n.Visible,
	).Scan(&n.ID)
	if err != nil {
		return fmt.Errorf("%w notification: %w", ErrFailedToInsert, err)
	}

	return nil
}

// RecentNotifications returns the newest visible notifications, newest first.
func (s *Store) RecentNotifications(ctx context.Context, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, type, title, message, created_at, read, visible
		FROM notifications
		WHERE visible
		ORDER BY created_at DESC, id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w notifications: %w", ErrFailedToQuery, err)
	}
	defer rows.Close()

	var notifications []models.Notification

	for rows.Next() {
		var n models.Notification

		if err := rows.Scan(&n.ID, &n.Type, &n.Title, &n.Message,
			&n.CreatedAt, &n.Read, &n.Visible); err != nil {
			return nil, fmt.Errorf("%w notification: %w", ErrFailedToScan, err)
		}

		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

// CountUnreadNotifications counts visible unread rows.
func (s *Store) CountUnreadNotifications(ctx context.Context) (int64, error) {
	var count int64

	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE visible AND NOT read`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w unread notifications: %w", ErrFailedToQuery, err)
	}

	return count, nil
}

// MarkAllNotificationsRead marks every visible notification read.
func (s *Store) MarkAllNotificationsRead(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx,
		`UPDATE notifications SET read = TRUE WHERE visible AND NOT read`); err != nil {
		return fmt.Errorf("%w notifications read: %w", ErrFailedToUpdate, err)
	}

	return nil
}

// HideNotification soft-deletes one notification.
func (s *Store) HideNotification(ctx context.Context, id int64) error {
	if _, err := s.pool.Exec(ctx,
		`UPDATE notifications SET visible = FALSE WHERE id = $1`, id); err != nil {
		return fmt.Errorf("%w notification visibility: %w", ErrFailedToUpdate, err)
	}

	return nil
}

// InsertDetection persists one detection event and backfills its ID.
func (s *Store) InsertDetection(ctx context.Context, rec *models.DetectionRecord) error {
	if rec == nil {
		return ErrNilRecord
	}

	err := s.pool.QueryRow(ctx, `
		INSERT INTO detection_logs (detection_time, status, defect_count, defect_summary, image_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		rec.DetectionTime, rec.Status, rec.DefectCount, rec.DefectSummary, rec.ImageURL,
	).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("%w detection: %w", ErrFailedToInsert, err)
	}

	return nil
}

// ListDetections returns the newest detection rows, newest first.
func (s *Store) ListDetections(ctx context.Context, limit int) ([]models.DetectionRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, detection_time, status, defect_count, defect_summary, image_url
		FROM detection_logs
		ORDER BY detection_time DESC, id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w detections: %w", ErrFailedToQuery, err)
	}
	defer rows.Close()

	var records []models.DetectionRecord

	for rows.Next() {
		var rec models.DetectionRecord

		if err := rows.Scan(&rec.ID, &rec.DetectionTime, &rec.Status,
			&rec.DefectCount, &rec.DefectSummary, &rec.ImageURL); err != nil {
			return nil, fmt.Errorf("%w detection: %w", ErrFailedToScan, err)
		}

		records = append(records, rec)
	}

	return records, rows.Err()
}

// DetectionBreakdown counts detections per result status inside [from, to).
// A zero from means no lower bound.
func (s *Store) DetectionBreakdown(ctx context.Context, from, to time.Time) (*models.StatusBreakdown, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT status, COUNT(*)
		FROM detection_logs
		WHERE ($1::timestamptz IS NULL OR detection_time >= $1)
		  AND detection_time < $2
		GROUP BY status`,
		nullableTime(from), to)
	if err != nil {
		return nil, fmt.Errorf("%w detection breakdown: %w", ErrFailedToQuery, err)
	}
	defer rows.Close()

	breakdown := &models.StatusBreakdown{}

	for rows.Next() {
		var (
			status string
			count  int64
		)

		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("%w detection breakdown: %w", ErrFailedToScan, err)
		}

		switch status {
		case models.DetectionNormal:
			breakdown.Normal = count
		case models.DetectionDefective:
			breakdown.Defective = count
		case models.DetectionSubstandard:
			breakdown.Substandard = count
		}
	}

	return breakdown, rows.Err()
}

// DetectionTotalsByBucket aggregates detections inside [from, to) into
// date_trunc buckets of the given unit.
func (s *Store) DetectionTotalsByBucket(
	ctx context.Context, from, to time.Time, unit BucketUnit) ([]models.BucketTotals, error) {
	var trunc string

	switch unit {
	case BucketDay:
		trunc = "day"
	case BucketMonth:
		trunc = "month"
	case BucketYear:
		trunc = "year"
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidBucketUnit, unit)
	}

	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT date_trunc('%s', detection_time) AS bucket,
		       COUNT(*),
		       COUNT(*) FILTER (WHERE status = $3)
		FROM detection_logs
		WHERE detection_time >= $1 AND detection_time < $2
		GROUP BY bucket
		ORDER BY bucket`, trunc),
		from, to, models.DetectionDefective)
	if err != nil {
		return nil, fmt.Errorf("%w detection buckets: %w", ErrFailedToQuery, err)
	}
	defer rows.Close()

	var buckets []models.BucketTotals

	for rows.Next() {
		var b models.BucketTotals

		if err := rows.Scan(&b.Bucket, &b.Total, &b.Defective); err != nil {
			return nil, fmt.Errorf("%w detection bucket: %w", ErrFailedToScan, err)
		}

		buckets = append(buckets, b)
	}

	return buckets, rows.Err()
}

// CountDetections counts detections inside [from, to).
func (s *Store) CountDetections(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64

	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM detection_logs
		WHERE detection_time >= $1 AND detection_time < $2`,
		from, to).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w detection count: %w", ErrFailedToQuery, err)
	}

	return count, nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}

	return &t
}
