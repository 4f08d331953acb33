package handlers

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
)

// WSHandler pushes live update signals to clients watching a project board.
type WSHandler struct {
	M *melody.Melody
}

func NewWSHandler() *WSHandler {
	m := melody.New()

	m.Config.MaxMessageSize = 1024 * 1024

	// Keep-alive for cloud hosting proxies
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	m.HandleConnect(func(s *melody.Session) {
		projectID, _ := s.Get("project_id")
		log.Printf("✅ Client connected to project: %v", projectID)
	})

	m.HandleDisconnect(func(s *melody.Session) {
		projectID, _ := s.Get("project_id")
		log.Printf("🔌 Client disconnected from project: %v", projectID)
	})

	m.HandleError(func(s *melody.Session, err error) {
		log.Printf("❌ WebSocket Error: %v", err)
	})

	return &WSHandler{M: m}
}

// HandleWS upgrades the request and subscribes the session to a project.
// The session is tagged through per-request keys, not a shared connect
// callback, so concurrent upgrades cannot cross-tag each other.
func (h *WSHandler) HandleWS(c *gin.Context) {
	keys := map[string]interface{}{"project_id": c.Param("id")}

	if err := h.M.HandleRequestWithKeys(c.Writer, c.Request, keys); err != nil {
		log.Printf("❌ Failed to upgrade websocket: %v", err)
	}
}

// BroadcastUpdate signals every client watching the project.
func (h *WSHandler) BroadcastUpdate(projectID string, updateType string, userWhoUpdated string) {
	msg := []byte(`{"type": "` + updateType + `", "user": "` + userWhoUpdated + `"}`)

	err := h.M.BroadcastFilter(msg, func(q *melody.Session) bool {
		id, exists := q.Get("project_id")
		return exists && id == projectID
	})

	if err != nil {
		log.Printf("⚠️ Error broadcasting to project %s: %v", projectID, err)
	}
}
