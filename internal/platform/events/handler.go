package events

import (
	"io"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes exposes the change feed as server-sent events. The
// frontend listens here and re-fetches ledger data on every message.
func RegisterRoutes(r gin.IRoutes, hub *Hub) {
	r.GET("/events", func(c *gin.Context) {
		ch, cancel := hub.Subscribe()
		defer cancel()

		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")

		c.Stream(func(w io.Writer) bool {
			select {
			case ev, ok := <-ch:
				if !ok {
					return false
				}
				c.SSEvent("change", ev)
				return true
			case <-c.Request.Context().Done():
				return false
			}
		})
	})
}
