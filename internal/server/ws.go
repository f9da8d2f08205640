package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"

	"github.com/hisaab-app/hisaab/internal/feed"
	"github.com/hisaab-app/hisaab/internal/middleware"
	"github.com/hisaab-app/hisaab/internal/models"
	"github.com/hisaab-app/hisaab/internal/service"
)

// Session keys for the websocket feed.
const (
	wsGroupIDKey = "group_id"
	wsUserIDKey  = "user_id"
	wsFeedKey    = "feed_handle"
)

// snapshotMessage is one full-history delivery pushed over the websocket.
type snapshotMessage struct {
	Type     string            `json:"type"`
	Expenses []*models.Expense `json:"expenses"`
}

type errorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// wsHandler streams live expense history over websockets. Each connected
// session owns at most one feed handle; the handle is cancelled on
// disconnect so a closed view never keeps receiving snapshots.
type wsHandler struct {
	m        *melody.Melody
	expenses *service.ExpenseService
}

func newWSHandler(expenses *service.ExpenseService) *wsHandler {
	m := melody.New()
	m.Config.MaxMessageSize = 1024
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	h := &wsHandler{m: m, expenses: expenses}
	m.HandleConnect(h.onConnect)
	m.HandleDisconnect(h.onDisconnect)
	m.HandleError(func(s *melody.Session, err error) {
		slog.Warn("WebSocket error", "error", err)
	})
	return h
}

// handleFeed upgrades an authorized request to a websocket feed session.
func (s *Server) handleFeed(c *gin.Context) {
	groupID := c.Param("id")
	userID := middleware.GetUserID(c)

	// Reject before upgrading: a non-member gets 403, not a dead socket.
	if err := s.groups.Authorize(c.Request.Context(), groupID, userID); err != nil {
		writeError(c, err)
		return
	}

	err := s.ws.m.HandleRequestWithKeys(c.Writer, c.Request, map[string]interface{}{
		wsGroupIDKey: groupID,
		wsUserIDKey:  userID,
	})
	if err != nil {
		slog.Warn("Failed to upgrade websocket", "group_id", groupID, "error", err)
	}
}

func (h *wsHandler) onConnect(sess *melody.Session) {
	groupID, _ := sess.Get(wsGroupIDKey)
	userID, _ := sess.Get(wsUserIDKey)
	gid, _ := groupID.(string)
	uid, _ := userID.(string)

	// At most one live handle per session: a reconnect on the same session
	// cancels the previous feed before subscribing.
	h.cancelFeed(sess)

	handle, err := h.expenses.Subscribe(context.Background(), gid, uid,
		func(snapshot []*models.Expense) {
			if snapshot == nil {
				snapshot = []*models.Expense{}
			}
			h.send(sess, snapshotMessage{Type: "history", Expenses: snapshot})
		},
		func(err error) {
			slog.Error("Feed failed", "group_id", gid, "error", err)
			h.send(sess, errorMessage{Type: "error", Error: "could not load expense history"})
			sess.Close()
		},
	)
	if err != nil {
		slog.Error("Failed to subscribe feed", "group_id", gid, "user_id", uid, "error", err)
		sess.Close()
		return
	}

	sess.Set(wsFeedKey, handle)
	middleware.FeedSubscriptions.Inc()
	slog.Info("Feed connected", "group_id", gid, "user_id", uid)
}

func (h *wsHandler) onDisconnect(sess *melody.Session) {
	if h.cancelFeed(sess) {
		middleware.FeedSubscriptions.Dec()
	}
	groupID, _ := sess.Get(wsGroupIDKey)
	slog.Info("Feed disconnected", "group_id", groupID)
}

// cancelFeed cancels and clears the session's feed handle, if any.
func (h *wsHandler) cancelFeed(sess *melody.Session) bool {
	v, ok := sess.Get(wsFeedKey)
	if !ok {
		return false
	}
	handle, ok := v.(*feed.Handle)
	if !ok || handle == nil {
		return false
	}
	handle.Cancel()
	sess.Set(wsFeedKey, (*feed.Handle)(nil))
	return true
}

func (h *wsHandler) send(sess *melody.Session, msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("Failed to marshal feed message", "error", err)
		return
	}
	if err := sess.Write(data); err != nil {
		slog.Warn("Failed to write feed message", "error", err)
	}
}
