package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/eyecare/pkg/api/types"
	"github.com/urmzd/eyecare/pkg/db"
	"github.com/urmzd/eyecare/pkg/device"
)

// Power states reported in LampState.State.
const (
	StateOn      = "ON"
	StateOff     = "OFF"
	StateUnknown = "unknown"
)

// CommandHistory reads the command audit log.
type CommandHistory interface {
	Recent(ctx context.Context, lampID string, limit int) ([]db.CommandEntry, error)
}

// LampsHandler handles lamp read endpoints
type LampsHandler struct {
	controller device.Controller
	history    CommandHistory
}

// NewLampsHandler creates a new lamps handler. history may be nil.
func NewLampsHandler(controller device.Controller, history CommandHistory) *LampsHandler {
	return &LampsHandler{controller: controller, history: history}
}

// ListLamps handles GET /lamps
// @Summary      List all lamps
// @Description  Returns every configured lamp with its cached state
// @Tags         lamps
// @Produce      json
// @Success      200  {object}  types.ListLampsResponse
// @Failure      503  {object}  types.ErrorResponse  "No controller"
// @Router       /lamps [get]
func (h *LampsHandler) ListLamps(c *gin.Context) {
	ctx := c.Request.Context()

	lamps, err := h.controller.ListDevices(ctx)
	if err != nil {
		abortWithError(c, err)
		return
	}

	result := make([]types.LampWithState, 0, len(lamps))
	for _, d := range lamps {
		result = append(result, h.withState(ctx, d))
	}

	c.JSON(http.StatusOK, types.ListLampsResponse{
		Lamps: result,
		Count: len(result),
	})
}

// GetLamp handles GET /lamps/:id
// @Summary      Get lamp details
// @Description  Returns one lamp with its cached state
// @Tags         lamps
// @Produce      json
// @Param        id   path      string  true  "Lamp id"
// @Success      200  {object}  types.LampResponse
// @Failure      404  {object}  types.ErrorResponse  "Lamp not found"
// @Router       /lamps/{id} [get]
func (h *LampsHandler) GetLamp(c *gin.Context) {
	ctx := c.Request.Context()

	d, err := h.controller.GetDevice(ctx, c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.LampResponse{
		Lamp: h.withState(ctx, *d),
	})
}

// GetState handles GET /lamps/:id/state
// @Summary      Get lamp state
// @Description  Returns the cached state of a lamp without contacting it
// @Tags         lamps
// @Produce      json
// @Param        id   path      string  true  "Lamp id"
// @Success      200  {object}  types.StateResponse
// @Failure      404  {object}  types.ErrorResponse  "Lamp not found"
// @Failure      503  {object}  types.ErrorResponse  "Lamp not ready"
// @Router       /lamps/{id}/state [get]
func (h *LampsHandler) GetState(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	d, err := h.controller.GetDevice(ctx, id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	state, err := h.controller.GetDeviceState(ctx, id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.StateResponse{
		Lamp:      id,
		State:     ToLampState(*d, state),
		Timestamp: time.Now(),
	})
}

// History handles GET /lamps/:id/history
// @Summary      Get command history
// @Description  Returns the most recent command outcomes of a lamp, newest first
// @Tags         lamps
// @Produce      json
// @Param        id     path   string  true   "Lamp id"
// @Param        limit  query  int     false  "Maximum number of entries (default 50)"
// @Success      200  {object}  types.HistoryResponse
// @Failure      400  {object}  types.ErrorResponse  "Invalid limit"
// @Failure      404  {object}  types.ErrorResponse  "Lamp not found"
// @Router       /lamps/{id}/history [get]
func (h *LampsHandler) History(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{
				Error:   "invalid_limit",
				Message: "limit must be a positive integer",
			})
			return
		}
		limit = n
	}

	if _, err := h.controller.GetDevice(ctx, id); err != nil {
		abortWithError(c, err)
		return
	}

	entries, err := h.history.Recent(ctx, id, limit)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.HistoryResponse{
		Lamp:    id,
		Entries: entries,
		Count:   len(entries),
	})
}

// withState attaches the cached state; lamps still pending get none.
func (h *LampsHandler) withState(ctx context.Context, d device.Device) types.LampWithState {
	result := types.LampWithState{
		ID:              d.ID,
		Name:            d.Name,
		Host:            d.Host,
		Driver:          d.Driver,
		Model:           d.Model,
		FirmwareVersion: d.FirmwareVersion,
		HardwareVersion: d.HardwareVersion,
		Connected:       d.Connected,
	}
	if state, err := h.controller.GetDeviceState(ctx, d.ID); err == nil {
		s := ToLampState(d, state)
		result.State = &s
	}
	return result
}

// ToLampState converts a cached device state into its API form.
func ToLampState(d device.Device, state device.DeviceState) types.LampState {
	power := StateUnknown
	if state.On != nil {
		power = StateOff
		if *state.On {
			power = StateOn
		}
	}

	s := types.LampState{
		Available:  state.Available,
		State:      power,
		Brightness: state.Brightness,
		UpdatedAt:  state.UpdatedAt,
	}
	if d.Connected {
		s.Attributes = d.Attributes()
	}
	return s
}
