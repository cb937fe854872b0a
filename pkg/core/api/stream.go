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
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const streamWriteTimeout = 10 * time.Second

// handleNotificationStream upgrades to a WebSocket and relays hub
// events. The first event is always the current unread count. The
// subscription lives until the client disconnects, a write fails, or
// the hub expires it.
func (s *APIServer) handleNotificationStream(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkStreamOrigin,
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("remote_addr", r.RemoteAddr).
			Msg("websocket upgrade failed")

		return
	}
	defer func() { _ = conn.Close() }()

	sub, err := s.hub.Subscribe(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("notification subscription failed")
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "subscription failed"),
			time.Now().Add(streamWriteTimeout))

		return
	}
	defer s.hub.Unsubscribe(sub.ID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Reader goroutine: we expect no client messages, but reading is
	// how the client's close frame surfaces.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-sub.Events():
			if !ok {
				// Hub expired the subscription; the client re-subscribes.
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "subscription expired"),
					time.Now().Add(streamWriteTimeout))

				return
			}

			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))

			if err := conn.WriteJSON(evt); err != nil {
				s.logger.Debug().Err(err).Str("subscription_id", sub.ID).Msg("stream write failed")
				return
			}
		}
	}
}

func (s *APIServer) checkStreamOrigin(r *http.Request) bool {
	if len(s.corsConfig.AllowedOrigins) == 0 {
		return true
	}

	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	for _, allowed := range s.corsConfig.AllowedOrigins {
		if origin == allowed {
			return true
		}
	}

	return false
}
