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
	"fmt"
	"sync/atomic"
	"time"

	"github.com/orchardiq/linewatch/pkg/broker"
	"github.com/orchardiq/linewatch/pkg/db"
	"github.com/orchardiq/linewatch/pkg/logger"
	"github.com/orchardiq/linewatch/pkg/models"
)

var (
	ErrUnknownSubsystem = errors.New("unknown subsystem")
	ErrUnknownDirection = errors.New("unknown direction")
)

// DegradedStatusPrefix marks status replies while the broker link is down.
const DegradedStatusPrefix = "Broker Disconnected / "

// inboundQueueSize bounds the channel between broker delivery and the
// reconciler's consumer loop. Overflow drops the newest message.
const inboundQueueSize = 256

type inboundMessage struct {
	subject string
	data    []byte
}

// Server is the reconciliation engine root: it routes every inbound
// broker message through one consumer goroutine into the Reconciler,
// and exposes the command/status/statistics surface for collaborators.
type Server struct {
	subjects   models.SubjectConfig
	brk        broker.Client
	store      db.Service
	notifier   Notifier
	reconciler *Reconciler
	aggregator *Aggregator
	logger     logger.Logger

	msgCh     chan inboundMessage
	connected atomic.Bool
}

// ServerOption mutates Server construction.
type ServerOption func(*Server)

// WithServerClock injects the time source used by the reconciler and
// the statistics aggregator.
func WithServerClock(now func() time.Time) ServerOption {
	return func(s *Server) {
		WithReconcilerClock(now)(s.reconciler)
		WithAggregatorClock(now)(s.aggregator)
	}
}

// NewServer wires the engine. The broker client is dialed by the caller.
func NewServer(
	subjects models.SubjectConfig,
	brk broker.Client,
	store db.Service,
	notifier Notifier,
	log logger.Logger,
	opts ...ServerOption,
) *Server {
	s := &Server{
		subjects:   subjects,
		brk:        brk,
		store:      store,
		notifier:   notifier,
		reconciler: NewReconciler(store, notifier, log),
		aggregator: NewAggregator(store),
		logger:     log.WithComponent("core"),
		msgCh:      make(chan inboundMessage, inboundQueueSize),
	}

	s.connected.Store(true)

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start subscribes to the status subjects, launches the consumer loop,
// and probes both devices for their current status.
func (s *Server) Start(ctx context.Context) error {
	statusSubjects := []string{
		s.subjects.ScriptStatus,
		s.subjects.SystemStatus,
		s.subjects.DetectResult,
		s.subjects.DetectDetails,
	}

	for _, subject := range statusSubjects {
		if err := s.brk.Subscribe(subject, s.enqueue); err != nil {
			return fmt.Errorf("core: subscribe %s: %w", subject, err)
		}
	}

	go s.consume(ctx)

	s.probeStatus(ctx)

	return nil
}

// enqueue hands one broker delivery to the consumer loop. It runs on
// the broker client's delivery goroutine and never blocks there; if
// the engine cannot keep up, the message is dropped.
func (s *Server) enqueue(subject string, data []byte) {
	select {
	case s.msgCh <- inboundMessage{subject: subject, data: data}:
	default:
		s.logger.Warn().Str("subject", subject).Msg("inbound queue full, dropping message")
	}
}

// consume drains inbound messages one at a time, which keeps every
// reconciliation step sequential per subsystem.
func (s *Server) consume(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-s.msgCh:
			s.dispatch(ctx, msg)
		}
	}
}

func (s *Server) dispatch(ctx context.Context, msg inboundMessage) {
	switch msg.subject {
	case s.subjects.ScriptStatus:
		s.reconciler.HandleScriptStatus(ctx, msg.data)
	case s.subjects.SystemStatus:
		s.reconciler.HandleSystemStatus(ctx, msg.data)
	case s.subjects.DetectResult:
		s.reconciler.HandleDetectResult(ctx, msg.data)
	case s.subjects.DetectDetails:
		s.reconciler.HandleDetectDetails(ctx, msg.data)
	default:
		s.logger.Warn().Str("subject", msg.subject).Msg("message on unexpected subject")
	}
}

// probeStatus asks both devices to report their current status so the
// engine recovers state after a restart. Failures are tolerated; the
// devices also report on their own cadence.
func (s *Server) probeStatus(ctx context.Context) {
	for _, subject := range []string{s.subjects.ScriptCommand, s.subjects.SystemCommand} {
		if err := s.brk.Publish(ctx, subject, []byte(models.CommandStatusRequest)); err != nil {
			s.logger.Warn().Err(err).Str("subject", subject).Msg("status probe failed")
		}
	}
}

// IssueCommand records the command intent and publishes the control
// token. While the broker link is down the publish fails fast and the
// intent is rolled back.
func (s *Server) IssueCommand(ctx context.Context, subsystem models.Subsystem, direction models.Direction) error {
	subject, err := s.commandSubjectFor(subsystem)
	if err != nil {
		return err
	}

	var token string

	switch direction {
	case models.DirectionOn:
		token = models.CommandStart
	case models.DirectionOff:
		token = models.CommandStop
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDirection, direction)
	}

	// Intent first: the echo could arrive before Publish returns.
	s.reconciler.NoteIntent(subsystem, direction)

	if err := s.brk.Publish(ctx, subject, []byte(token)); err != nil {
		s.reconciler.DropIntent(subsystem, direction)
		return fmt.Errorf("core: publish command: %w", err)
	}

	s.logger.Info().
		Str("subsystem", string(subsystem)).
		Str("direction", string(direction)).
		Msg("command issued")

	return nil
}

func (s *Server) commandSubjectFor(subsystem models.Subsystem) (string, error) {
	switch subsystem {
	case models.SubsystemScript:
		return s.subjects.ScriptCommand, nil
	case models.SubsystemSystem:
		return s.subjects.SystemCommand, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSubsystem, subsystem)
	}
}

// CurrentStatus returns the authoritative status for a subsystem,
// prefixed when the broker link is down so callers can tell a live
// answer from a stale one.
func (s *Server) CurrentStatus(subsystem models.Subsystem) string {
	status := s.reconciler.Status(subsystem)

	if !s.connected.Load() {
		return DegradedStatusPrefix + status
	}

	return status
}

// SetConnected records a broker connectivity transition and surfaces
// it as a notification.
func (s *Server) SetConnected(connected bool) {
	if s.connected.Swap(connected) == connected {
		return
	}

	message := "broker connection lost"
	if connected {
		message = "broker connection restored"
	}

	s.notifier.Raise(context.Background(), models.NotificationBroker, "Broker", message)
}

// GetStatistics computes the dashboard report.
func (s *Server) GetStatistics(ctx context.Context, totalTasks int64) (*models.StatisticsReport, error) {
	return s.aggregator.Report(ctx, totalTasks)
}

// ControlLogs returns the newest audit rows.
func (s *Server) ControlLogs(ctx context.Context, limit int) ([]models.ControlLog, error) {
	return s.store.ListControlLogs(ctx, limit)
}

// Detections returns the newest detection records.
func (s *Server) Detections(ctx context.Context, limit int) ([]models.DetectionRecord, error) {
	return s.store.ListDetections(ctx, limit)
}
