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

// Package api provides the HTTP collaborator surface for the linewatch
// engine: commands, status queries, notifications, and statistics.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/orchardiq/linewatch/pkg/core"
	lwhttp "github.com/orchardiq/linewatch/pkg/http"
	"github.com/orchardiq/linewatch/pkg/logger"
	"github.com/orchardiq/linewatch/pkg/models"
	"github.com/orchardiq/linewatch/pkg/notify"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownGrace     = 10 * time.Second
)

// Engine is the reconciliation surface the API exposes.
type Engine interface {
	IssueCommand(ctx context.Context, subsystem models.Subsystem, direction models.Direction) error
	CurrentStatus(subsystem models.Subsystem) string
	GetStatistics(ctx context.Context, totalTasks int64) (*models.StatisticsReport, error)
	ControlLogs(ctx context.Context, limit int) ([]models.ControlLog, error)
	Detections(ctx context.Context, limit int) ([]models.DetectionRecord, error)
}

// NotificationHub is the notification surface the API exposes.
// Implemented by notify.Hub.
type NotificationHub interface {
	Subscribe(ctx context.Context) (*notify.Subscription, error)
	Unsubscribe(id string)
	Recent(ctx context.Context, limit int) ([]models.Notification, error)
	UnreadCount(ctx context.Context) (int64, error)
	MarkAllRead(ctx context.Context) error
	Hide(ctx context.Context, id int64) error
}

// APIServer serves the collaborator HTTP API.
type APIServer struct {
	engine     Engine
	hub        NotificationHub
	router     *mux.Router
	corsConfig models.CORSConfig
	logger     logger.Logger
	httpServer *http.Server
}

// Option configures the APIServer.
type Option func(*APIServer)

// WithCORSConfig sets the CORS policy applied to every route.
func WithCORSConfig(cfg models.CORSConfig) Option {
	return func(s *APIServer) {
		s.corsConfig = cfg
	}
}

// NewAPIServer wires the routes. Call Start to begin serving.
func NewAPIServer(engine Engine, hub NotificationHub, log logger.Logger, opts ...Option) *APIServer {
	s := &APIServer{
		engine: engine,
		hub:    hub,
		router: mux.NewRouter(),
		logger: log.WithComponent("api"),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.setupRoutes()

	return s
}

func (s *APIServer) setupRoutes() {
	s.router.Use(lwhttp.CORSMiddleware(s.corsConfig))
	s.router.Use(lwhttp.RequestLogging(s.logger))

	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/control/{subsystem}/{action}", s.postControl).Methods("POST", "OPTIONS")
	api.HandleFunc("/status", s.getStatus).Methods("GET")
	api.HandleFunc("/status/{subsystem}", s.getSubsystemStatus).Methods("GET")

	api.HandleFunc("/notifications", s.getNotifications).Methods("GET")
	api.HandleFunc("/notifications/unread-count", s.getUnreadCount).Methods("GET")
	api.HandleFunc("/notifications/read-all", s.postMarkAllRead).Methods("POST", "OPTIONS")
	api.HandleFunc("/notifications/{id:[0-9]+}/hide", s.postHideNotification).Methods("POST", "OPTIONS")
	api.HandleFunc("/notifications/stream", s.handleNotificationStream).Methods("GET")

	api.HandleFunc("/charts/data", s.getChartData).Methods("GET")
	api.HandleFunc("/control-logs", s.getControlLogs).Methods("GET")
	api.HandleFunc("/detections", s.getDetections).Methods("GET")
}

// Router exposes the handler tree, mainly for tests.
func (s *APIServer) Router() http.Handler {
	return s.router
}

// Start begins serving on addr. It returns once the listener fails or
// Stop is called.
func (s *APIServer) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	s.logger.Info().Str("addr", addr).Msg("api server listening")

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Stop shuts the server down gracefully.
func (s *APIServer) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, shutdownGrace)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}

func (s *APIServer) postControl(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	subsystem := models.Subsystem(vars["subsystem"])

	var direction models.Direction

	switch vars["action"] {
	case "start":
		direction = models.DirectionOn
	case "stop":
		direction = models.DirectionOff
	default:
		writeError(w, "action must be start or stop", http.StatusBadRequest)
		return
	}

	if err := s.engine.IssueCommand(r.Context(), subsystem, direction); err != nil {
		s.logger.Warn().Err(err).
			Str("subsystem", string(subsystem)).
			Str("action", vars["action"]).
			Msg("command rejected")
		writeError(w, err.Error(), commandStatusCode(err))

		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"result": "accepted"})
}

func commandStatusCode(err error) int {
	if errors.Is(err, core.ErrUnknownSubsystem) || errors.Is(err, core.ErrUnknownDirection) {
		return http.StatusBadRequest
	}

	// Anything else is a broker-side failure; the command can be retried.
	return http.StatusServiceUnavailable
}

func (s *APIServer) getStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"script": s.engine.CurrentStatus(models.SubsystemScript),
		"system": s.engine.CurrentStatus(models.SubsystemSystem),
	})
}

func (s *APIServer) getSubsystemStatus(w http.ResponseWriter, r *http.Request) {
	subsystem := models.Subsystem(mux.Vars(r)["subsystem"])

	switch subsystem {
	case models.SubsystemScript, models.SubsystemSystem:
	default:
		writeError(w, "unknown subsystem", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": s.engine.CurrentStatus(subsystem),
	})
}

func (s *APIServer) getNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := s.hub.Recent(r.Context(), queryInt(r, "limit", 0))
	if err != nil {
		writeError(w, "failed to load notifications", http.StatusInternalServerError)
		return
	}

	if notifications == nil {
		notifications = []models.Notification{}
	}

	writeJSON(w, http.StatusOK, notifications)
}

func (s *APIServer) getUnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := s.hub.UnreadCount(r.Context())
	if err != nil {
		writeError(w, "failed to count notifications", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"unread": count})
}

func (s *APIServer) postMarkAllRead(w http.ResponseWriter, r *http.Request) {
	if err := s.hub.MarkAllRead(r.Context()); err != nil {
		writeError(w, "failed to mark notifications read", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *APIServer) postHideNotification(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, "invalid notification id", http.StatusBadRequest)
		return
	}

	if err := s.hub.Hide(r.Context(), id); err != nil {
		writeError(w, "failed to hide notification", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *APIServer) getChartData(w http.ResponseWriter, r *http.Request) {
	totalTasks := int64(queryInt(r, "totalTasks", 0))

	report, err := s.engine.GetStatistics(r.Context(), totalTasks)
	if err != nil {
		writeError(w, "failed to compute statistics", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (s *APIServer) getControlLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := s.engine.ControlLogs(r.Context(), queryInt(r, "limit", 0))
	if err != nil {
		writeError(w, "failed to load control logs", http.StatusInternalServerError)
		return
	}

	if logs == nil {
		logs = []models.ControlLog{}
	}

	writeJSON(w, http.StatusOK, logs)
}

func (s *APIServer) getDetections(w http.ResponseWriter, r *http.Request) {
	detections, err := s.engine.Detections(r.Context(), queryInt(r, "limit", 0))
	if err != nil {
		writeError(w, "failed to load detections", http.StatusInternalServerError)
		return
	}

	if detections == nil {
		detections = []models.DetectionRecord{}
	}

	writeJSON(w, http.StatusOK, detections)
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return value
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// The status line is already sent; an encode failure here means the
	// client went away.
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}
