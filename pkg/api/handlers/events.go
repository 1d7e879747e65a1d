package handlers

import (
	"encoding/json"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/urmzd/eyecare/pkg/device"
)

// HeartbeatInterval is how often an idle event stream sends a heartbeat.
var HeartbeatInterval = 30 * time.Second

// EventsHandler streams lamp state events
type EventsHandler struct {
	subscriber device.EventSubscriber
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(subscriber device.EventSubscriber) *EventsHandler {
	return &EventsHandler{subscriber: subscriber}
}

// Events handles GET /events (SSE stream)
// @Summary      Subscribe to lamp events
// @Description  Server-Sent Events stream of lamp state changes and connections
// @Tags         events
// @Produce      text/event-stream
// @Success      200  {string}  string  "SSE event stream"
// @Router       /events [get]
func (h *EventsHandler) Events(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	eventChan := h.subscriber.Subscribe()
	defer h.subscriber.Unsubscribe(eventChan)

	clientID := uuid.NewString()
	log.Debug().Str("client", clientID).Msg("Event stream opened")
	defer log.Debug().Str("client", clientID).Msg("Event stream closed")

	sendSSEEvent(c.Writer, "connected", map[string]any{
		"client":    clientID,
		"timestamp": time.Now(),
		"message":   "Connected to lamp event stream",
	})
	c.Writer.Flush()

	clientGone := c.Request.Context().Done()

	ticker := time.NewTicker(HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-clientGone:
			return

		case event, ok := <-eventChan:
			if !ok {
				return
			}
			sendSSEEvent(c.Writer, event.Type, map[string]any{
				"type":      event.Type,
				"lamp":      event.Device.ID,
				"state":     ToLampState(event.Device, event.State),
				"timestamp": event.Timestamp,
			})
			c.Writer.Flush()

		case <-ticker.C:
			sendSSEEvent(c.Writer, "heartbeat", map[string]any{
				"timestamp": time.Now(),
			})
			c.Writer.Flush()
		}
	}
}

// sendSSEEvent writes an SSE event to the response
func sendSSEEvent(w io.Writer, eventType string, data any) {
	jsonData, _ := json.Marshal(data)
	_, _ = io.WriteString(w, "event: "+eventType+"\n")
	_, _ = io.WriteString(w, "data: "+string(jsonData)+"\n\n")
}
