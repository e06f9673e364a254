package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"trivia-service/internal/app"
	"trivia-service/internal/domain"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
)

// WSHandler streams live rankings over websockets.
type WSHandler struct {
	game     *app.GameService
	upgrader websocket.Upgrader
}

func NewWSHandler(game *app.GameService) *WSHandler {
	return &WSHandler{
		game: game,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type outboundMessage struct {
	Type    string         `json:"type"`
	Payload domain.Ranking `json:"payload"`
}

// ServeRanking sends the session ranking right away and after every change until the client leaves.
func (h *WSHandler) ServeRanking(c *gin.Context) {
	sessionID := c.Param("id")

	// Subscribe before upgrading so unknown sessions get a plain 404.
	updates, cancel, err := h.game.SubscribeRanking(c.Request.Context(), sessionID)
	if err != nil {
		writeError(c, err)
		return
	}
	defer cancel()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Str("gameSessionId", sessionID).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		// Clients only listen; reading detects the close.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(outboundMessage{Type: "ranking", Payload: update}); err != nil {
				log.Debug().Err(err).Str("gameSessionId", sessionID).Msg("ws write error")
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-readerDone:
			return
		}
	}
}
