package web

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/starford/suppai/internal/models"
	"github.com/starford/suppai/internal/typeahead"
)

const (
	suggestWSWriteWait = 10 * time.Second
	suggestWSPongWait  = 60 * time.Second
	suggestWSPingEvery = (suggestWSPongWait * 9) / 10
	suggestWSReadLimit = 4096
)

var suggestWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

type suggestWSInbound struct {
	Type string `json:"type"`
	Q    string `json:"q"`
}

type suggestWSOutbound struct {
	Type    string         `json:"type"`
	Q       string         `json:"q,omitempty"`
	Total   int            `json:"total"`
	Results []models.Agent `json:"results,omitempty"`
	Message string         `json:"message,omitempty"`
}

// SuggestWS handles GET /ws/suggest. Each connection owns one type-ahead
// session; only the newest query's suggestions are sent back.
func (s *Server) SuggestWS(w http.ResponseWriter, r *http.Request) {
	conn, err := suggestWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadLimit(suggestWSReadLimit)
	if err := conn.SetReadDeadline(time.Now().Add(suggestWSPongWait)); err != nil {
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(suggestWSPongWait))
	})

	writeCh := make(chan suggestWSOutbound, 16)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(suggestWSPingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case out := <-writeCh:
				if err := conn.SetWriteDeadline(time.Now().Add(suggestWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(out); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(suggestWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	session := typeahead.NewSession(ctx, s.backend.FetchSuggestions, func(res typeahead.Result) {
		pushSuggestWS(writeCh, suggestWSOutbound{
			Type:    "suggestions",
			Q:       res.Query,
			Total:   res.Response.Total,
			Results: res.Response.Results,
		})
	}, typeahead.WithDelay(s.delay), typeahead.WithLogger(s.logger))

	defer func() {
		cancel()
		session.Close()
		<-writerDone
	}()

	for {
		var in suggestWSInbound
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("suggest ws: read failed", slog.String("error", err.Error()))
			}
			return
		}
		switch strings.ToLower(strings.TrimSpace(in.Type)) {
		case "query":
			session.Update(in.Q)
		case "ping":
			pushSuggestWS(writeCh, suggestWSOutbound{Type: "pong"})
		default:
			pushSuggestWS(writeCh, suggestWSOutbound{Type: "error", Message: "unsupported type: " + in.Type})
		}
	}
}

// pushSuggestWS queues out, evicting the oldest queued message when full.
func pushSuggestWS(writeCh chan suggestWSOutbound, out suggestWSOutbound) {
	select {
	case writeCh <- out:
		return
	default:
	}
	select {
	case <-writeCh:
	default:
	}
	select {
	case writeCh <- out:
	default:
	}
}
