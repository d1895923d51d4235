package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"linque/services/realtime"
	"linque/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins; adjust for production if needed.
		return true
	},
}

// WSHandler upgrades a token-identified connection and keeps it registered
// for realtime pushes until the client disconnects.
type WSHandler struct {
	Registry *realtime.Registry
}

func NewWSHandler(reg *realtime.Registry) *WSHandler {
	return &WSHandler{Registry: reg}
}

// ConnectHandler authenticates the token query parameter, upgrades to a
// websocket and registers the connection under the principal's ID.
func (h *WSHandler) ConnectHandler(c *gin.Context) {
	logger := getLogger(c)

	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
		return
	}
	principalID, _, err := utils.ExtractPrincipalFromToken(token)
	if err != nil || principalID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("WebSocket upgrade failed", zap.String("principal", principalID), zap.Error(err))
		return
	}

	h.Registry.Register(principalID, conn)
	defer func() {
		h.Registry.Unregister(principalID, conn)
		conn.Close()
	}()

	// Keep the connection alive until the client disconnects. Inbound
	// messages are ignored; pushes flow the other way.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
