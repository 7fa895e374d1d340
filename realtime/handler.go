package realtime

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/market-meet/api-go/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ServeWS authenticates the handshake and upgrades it to a WebSocket. The
// token comes from the Authorization header or a token query parameter,
// since browser WebSocket clients cannot set headers.
func ServeWS(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			if parts := strings.Split(c.GetHeader("Authorization"), " "); len(parts) == 2 {
				token = parts[1]
			}
		}
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is required"})
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the HTTP error response.
			return
		}

		client := NewClient(hub, conn, claims.UserID, claims.Username)
		hub.Register(client)

		go client.WritePump()
		go client.ReadPump()
	}
}
