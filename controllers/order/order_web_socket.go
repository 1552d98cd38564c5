package orderControllers

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/realtime"
)

// GET /admin/ws/orders
func OrderWebSocketHandler(hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := hub.Serve(c.Writer, c.Request); err != nil {
			log.Printf("❌ Order websocket upgrade failed: %v", err)
		}
	}
}
