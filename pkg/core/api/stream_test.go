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
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/orchardiq/linewatch/pkg/db"
	"github.com/orchardiq/linewatch/pkg/logger"
	"github.com/orchardiq/linewatch/pkg/models"
	"github.com/orchardiq/linewatch/pkg/notify"
)

func TestNotificationStream(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := db.NewMockService(ctrl)
	mockDB.EXPECT().CountUnreadNotifications(gomock.Any()).Return(int64(3), nil)
	mockDB.EXPECT().InsertNotification(gomock.Any(), gomock.Any()).Return(nil)

	hub := notify.NewHub(mockDB, logger.NewTestLogger())
	s := NewAPIServer(&stubEngine{}, hub, logger.NewTestLogger())

	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	wsURL := strings.Replace(srv.URL, "http://", "ws://", 1) + "/api/notifications/stream"

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)

	defer func() {
		_ = resp.Body.Close()
		_ = conn.Close()
	}()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var first notify.Event
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, notify.EventCount, first.Kind)
	assert.Equal(t, int64(3), first.Count)

	hub.Raise(context.Background(), models.NotificationWarning, "Change Detected", "conveyor stopped")

	var second notify.Event
	require.NoError(t, conn.ReadJSON(&second))
	assert.Equal(t, notify.EventNotification, second.Kind)
	require.NotNil(t, second.Notification)
	assert.Equal(t, models.NotificationWarning, second.Notification.Type)
	assert.Equal(t, "Change Detected", second.Notification.Title)
}

func TestStreamOriginPolicy(t *testing.T) {
	s := NewAPIServer(&stubEngine{}, nil, logger.NewTestLogger(),
		WithCORSConfig(models.CORSConfig{AllowedOrigins: []string{"http://dashboard.local"}}))

	req := httptest.NewRequest("GET", "/api/notifications/stream", nil)
	req.Header.Set("Origin", "http://dashboard.local")
	assert.True(t, s.checkStreamOrigin(req))

	req.Header.Set("Origin", "http://evil.example")
	assert.False(t, s.checkStreamOrigin(req))

	// No Origin header behaves like a same-host client.
	req.Header.Del("Origin")
	assert.True(t, s.checkStreamOrigin(req))
}
