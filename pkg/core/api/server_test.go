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

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/orchardiq/linewatch/pkg/broker"
	"github.com/orchardiq/linewatch/pkg/core"
	"github.com/orchardiq/linewatch/pkg/db"
	"github.com/orchardiq/linewatch/pkg/logger"
	"github.com/orchardiq/linewatch/pkg/models"
	"github.com/orchardiq/linewatch/pkg/notify"
)

type stubEngine struct {
	issueErr   error
	issued     []string
	statuses   map[models.Subsystem]string
	stats      *models.StatisticsReport
	statsErr   error
	logs       []models.ControlLog
	detections []models.DetectionRecord
}

func (e *stubEngine) IssueCommand(_ context.Context, subsystem models.Subsystem, direction models.Direction) error {
	if e.issueErr != nil {
		return e.issueErr
	}

	e.issued = append(e.issued, fmt.Sprintf("%s/%s", subsystem, direction))

	return nil
}

func (e *stubEngine) CurrentStatus(subsystem models.Subsystem) string {
	if status, ok := e.statuses[subsystem]; ok {
		return status
	}

	return models.StatusUninitialized
}

func (e *stubEngine) GetStatistics(context.Context, int64) (*models.StatisticsReport, error) {
	return e.stats, e.statsErr
}

func (e *stubEngine) ControlLogs(context.Context, int) ([]models.ControlLog, error) {
	return e.logs, nil
}

func (e *stubEngine) Detections(context.Context, int) ([]models.DetectionRecord, error) {
	return e.detections, nil
}

func newTestAPI(t *testing.T, engine *stubEngine) (*APIServer, *db.MockService) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockDB := db.NewMockService(ctrl)
	hub := notify.NewHub(mockDB, logger.NewTestLogger())

	return NewAPIServer(engine, hub, logger.NewTestLogger()), mockDB
}

func doRequest(s *APIServer, method, path string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, http.NoBody)
	}

	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)

	return rr
}

func TestPostControl(t *testing.T) {
	engine := &stubEngine{}
	s, _ := newTestAPI(t, engine)

	rr := doRequest(s, http.MethodPost, "/api/control/script/start", "")
	assert.Equal(t, http.StatusAccepted, rr.Code)

	rr = doRequest(s, http.MethodPost, "/api/control/system/stop", "")
	assert.Equal(t, http.StatusAccepted, rr.Code)

	assert.Equal(t, []string{"script/on", "system/off"}, engine.issued)
}

func TestPostControlBadAction(t *testing.T) {
	s, _ := newTestAPI(t, &stubEngine{})

	rr := doRequest(s, http.MethodPost, "/api/control/script/reverse", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPostControlUnknownSubsystem(t *testing.T) {
	s, _ := newTestAPI(t, &stubEngine{issueErr: core.ErrUnknownSubsystem})

	rr := doRequest(s, http.MethodPost, "/api/control/boiler/start", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPostControlBrokerDown(t *testing.T) {
	s, _ := newTestAPI(t, &stubEngine{issueErr: broker.ErrNotConnected})

	rr := doRequest(s, http.MethodPost, "/api/control/script/start", "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestGetStatus(t *testing.T) {
	engine := &stubEngine{statuses: map[models.Subsystem]string{
		models.SubsystemScript: "Running",
		models.SubsystemSystem: "stopped",
	}}
	s, _ := newTestAPI(t, engine)

	rr := doRequest(s, http.MethodGet, "/api/status", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "Running", body["script"])
	assert.Equal(t, "stopped", body["system"])
}

func TestGetSubsystemStatus(t *testing.T) {
	engine := &stubEngine{statuses: map[models.Subsystem]string{
		models.SubsystemScript: "Running",
	}}
	s, _ := newTestAPI(t, engine)

	rr := doRequest(s, http.MethodGet, "/api/status/script", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "Running", body["status"])

	rr = doRequest(s, http.MethodGet, "/api/status/boiler", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetNotifications(t *testing.T) {
	s, mockDB := newTestAPI(t, &stubEngine{})

	mockDB.EXPECT().RecentNotifications(gomock.Any(), 5).
		Return([]models.Notification{{ID: 1, Type: models.NotificationInfo}}, nil)

	rr := doRequest(s, http.MethodGet, "/api/notifications?limit=5", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var body []models.Notification
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, int64(1), body[0].ID)
}

func TestGetNotificationsEmptyIsArray(t *testing.T) {
	s, mockDB := newTestAPI(t, &stubEngine{})

	mockDB.EXPECT().RecentNotifications(gomock.Any(), gomock.Any()).Return(nil, nil)

	rr := doRequest(s, http.MethodGet, "/api/notifications", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]\n", rr.Body.String())
}

func TestGetUnreadCount(t *testing.T) {
	s, mockDB := newTestAPI(t, &stubEngine{})

	mockDB.EXPECT().CountUnreadNotifications(gomock.Any()).Return(int64(7), nil)

	rr := doRequest(s, http.MethodGet, "/api/notifications/unread-count", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]int64
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, int64(7), body["unread"])
}

func TestPostMarkAllRead(t *testing.T) {
	s, mockDB := newTestAPI(t, &stubEngine{})

	mockDB.EXPECT().MarkAllNotificationsRead(gomock.Any()).Return(nil)

	rr := doRequest(s, http.MethodPost, "/api/notifications/read-all", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestPostHideNotification(t *testing.T) {
	s, mockDB := newTestAPI(t, &stubEngine{})

	mockDB.EXPECT().HideNotification(gomock.Any(), int64(42)).Return(nil)

	rr := doRequest(s, http.MethodPost, "/api/notifications/42/hide", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestGetChartData(t *testing.T) {
	engine := &stubEngine{stats: &models.StatisticsReport{
		GeneratedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		DailyTasks:  models.TaskCompletion{Completed: 3, Incomplete: 7},
	}}
	s, _ := newTestAPI(t, engine)

	rr := doRequest(s, http.MethodGet, "/api/charts/data?totalTasks=10", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var body models.StatisticsReport
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, int64(7), body.DailyTasks.Incomplete)
}

func TestGetControlLogs(t *testing.T) {
	engine := &stubEngine{logs: []models.ControlLog{
		{ID: 1, Category: models.CategoryUserRequest, Subject: models.SubjectScriptOn},
	}}
	s, _ := newTestAPI(t, engine)

	rr := doRequest(s, http.MethodGet, "/api/control-logs", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var body []models.ControlLog
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, models.SubjectScriptOn, body[0].Subject)
}

func TestGetDetections(t *testing.T) {
	engine := &stubEngine{detections: []models.DetectionRecord{
		{ID: 9, Status: models.DetectionDefective, DefectCount: 2},
	}}
	s, _ := newTestAPI(t, engine)

	rr := doRequest(s, http.MethodGet, "/api/detections", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var body []models.DetectionRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, 2, body[0].DefectCount)
}
