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

// Package notify persists notifications and fans them out to live
// dashboard subscribers.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/orchardiq/linewatch/pkg/db"
	"github.com/orchardiq/linewatch/pkg/logger"
	"github.com/orchardiq/linewatch/pkg/models"
)

const (
	defaultRecentLimit = 20
	defaultBufferSize  = 16
	defaultSubTTL      = 5 * time.Minute
	sweepInterval      = 30 * time.Second
)

// EventKind discriminates hub events on the wire.
type EventKind string

const (
	// EventCount carries the unread count. It is the first event on a
	// new subscription and is re-sent when the count resets.
	EventCount EventKind = "count"

	// EventNotification carries one new notification.
	EventNotification EventKind = "notification"
)

// Event is one message pushed to a subscriber.
type Event struct {
	Kind         EventKind            `json:"event"`
	Count        int64                `json:"count,omitempty"`
	Notification *models.Notification `json:"notification,omitempty"`
}

// Subscription is one live subscriber's event feed. Feeds are dropped
// when the subscriber stops draining or outlives the hub TTL.
type Subscription struct {
	ID        string
	events    chan Event
	createdAt time.Time
}

// Events returns the subscriber's feed. The channel closes when the
// subscription is removed.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Hub owns the subscriber set. All methods are safe for concurrent use.
type Hub struct {
	store  db.Service
	logger logger.Logger

	mu   sync.Mutex
	subs map[string]*Subscription

	now    func() time.Time
	ttl    time.Duration
	buffer int
}

// Option mutates Hub construction.
type Option func(*Hub)

// WithTTL overrides the subscription lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(h *Hub) {
		h.ttl = ttl
	}
}

// WithBufferSize overrides the per-subscriber event buffer.
func WithBufferSize(n int) Option {
	return func(h *Hub) {
		h.buffer = n
	}
}

// WithClock injects the time source.
func WithClock(now func() time.Time) Option {
	return func(h *Hub) {
		h.now = now
	}
}

// NewHub builds a hub on the given store.
func NewHub(store db.Service, log logger.Logger, opts ...Option) *Hub {
	h := &Hub{
		store:  store,
		logger: log.WithComponent("notify"),
		subs:   make(map[string]*Subscription),
		now:    time.Now,
		ttl:    defaultSubTTL,
		buffer: defaultBufferSize,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Run sweeps expired subscriptions until ctx is canceled.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case <-ticker.C:
			h.sweep()
		}
	}
}

// Subscribe registers a live subscriber. The first event on the feed is
// the current unread count.
func (h *Hub) Subscribe(ctx context.Context) (*Subscription, error) {
	count, err := h.store.CountUnreadNotifications(ctx)
	if err != nil {
		return nil, err
	}

	sub := &Subscription{
		ID:        uuid.New().String(),
		events:    make(chan Event, h.buffer),
		createdAt: h.now(),
	}

	sub.events <- Event{Kind: EventCount, Count: count}

	h.mu.Lock()
	h.subs[sub.ID] = sub
	h.mu.Unlock()

	h.logger.Debug().Str("subscription_id", sub.ID).Msg("subscriber attached")

	return sub, nil
}

// Unsubscribe removes one subscriber and closes its feed.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sub, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(sub.events)
	}
}

// Raise persists a notification and pushes it to every live subscriber.
// A persistence failure is logged but does not block the fanout, so
// live viewers still see the event.
func (h *Hub) Raise(ctx context.Context, typ models.NotificationType, title, message string) {
	n := &models.Notification{
		Type:      typ,
		Title:     title,
		Message:   message,
		CreatedAt: h.now(),
		Visible:   true,
	}

	if err := h.store.InsertNotification(ctx, n); err != nil {
		h.logger.Error().Err(err).
			Str("type", string(typ)).
			Str("title", title).
			Msg("failed to persist notification")
	}

	h.broadcast(Event{Kind: EventNotification, Notification: n})
}

// UnreadCount returns the number of visible unread notifications.
func (h *Hub) UnreadCount(ctx context.Context) (int64, error) {
	return h.store.CountUnreadNotifications(ctx)
}

// Recent returns the newest visible notifications, newest first.
func (h *Hub) Recent(ctx context.Context, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	return h.store.RecentNotifications(ctx, limit)
}

// MarkAllRead marks every notification read and pushes a zero count to
// live subscribers.
func (h *Hub) MarkAllRead(ctx context.Context) error {
	if err := h.store.MarkAllNotificationsRead(ctx); err != nil {
		return err
	}

	h.broadcast(Event{Kind: EventCount, Count: 0})

	return nil
}

// Hide soft-deletes one notification.
func (h *Hub) Hide(ctx context.Context, id int64) error {
	return h.store.HideNotification(ctx, id)
}

// broadcast pushes evt to every subscriber. A subscriber whose buffer
// is full has stopped draining and is removed.
func (h *Hub) broadcast(evt Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, sub := range h.subs {
		select {
		case sub.events <- evt:
		default:
			delete(h.subs, id)
			close(sub.events)

			h.logger.Warn().Str("subscription_id", id).Msg("dropped stalled subscriber")
		}
	}
}

func (h *Hub) sweep() {
	cutoff := h.now().Add(-h.ttl)

	h.mu.Lock()
	defer h.mu.Unlock()

	for id, sub := range h.subs {
		if sub.createdAt.Before(cutoff) {
			delete(h.subs, id)
			close(sub.events)

			h.logger.Debug().Str("subscription_id", id).Msg("expired subscriber")
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, sub := range h.subs {
		delete(h.subs, id)
		close(sub.events)
	}
}
