package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/eyecare/pkg/api/types"
	"github.com/urmzd/eyecare/pkg/device"
	"github.com/urmzd/eyecare/pkg/device/schema"
	"github.com/urmzd/eyecare/pkg/lamp"
)

// ControlHandler handles lamp command endpoints
type ControlHandler struct {
	controller device.Controller
	validator  *schema.Validator
}

// NewControlHandler creates a new control handler
func NewControlHandler(controller device.Controller, validator *schema.Validator) *ControlHandler {
	return &ControlHandler{controller: controller, validator: validator}
}

// TurnOn handles POST /lamps/:id/turn_on
// @Summary      Turn a lamp on
// @Description  Sets brightness first when given, then switches the lamp on. A command the lamp did not confirm answers 200 with success false.
// @Tags         control
// @Accept       json
// @Produce      json
// @Param        id       path      string               true   "Lamp id"
// @Param        request  body      types.TurnOnRequest  false  "Brightness (0-255)"
// @Success      200      {object}  types.CommandResponse
// @Failure      400      {object}  types.ErrorResponse  "Invalid request"
// @Failure      404      {object}  types.ErrorResponse  "Lamp not found"
// @Failure      503      {object}  types.ErrorResponse  "Lamp not ready"
// @Router       /lamps/{id}/turn_on [post]
func (h *ControlHandler) TurnOn(c *gin.Context) {
	var req map[string]any
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
		return
	}
	if req == nil {
		req = map[string]any{}
	}

	if err := h.validator.Validate(schema.TurnOnSchema, req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	var brightness *uint8
	if v, ok := req["brightness"].(float64); ok {
		b := uint8(v)
		brightness = &b
	}

	id := c.Param("id")
	h.respond(c, lamp.CommandTurnOn, func() (device.DeviceState, error) {
		return h.controller.TurnOn(c.Request.Context(), id, brightness)
	})
}

// TurnOff handles POST /lamps/:id/turn_off
// @Summary      Turn a lamp off
// @Tags         control
// @Produce      json
// @Param        id   path      string  true  "Lamp id"
// @Success      200  {object}  types.CommandResponse
// @Failure      404  {object}  types.ErrorResponse  "Lamp not found"
// @Failure      503  {object}  types.ErrorResponse  "Lamp not ready"
// @Router       /lamps/{id}/turn_off [post]
func (h *ControlHandler) TurnOff(c *gin.Context) {
	id := c.Param("id")
	h.respond(c, lamp.CommandTurnOff, func() (device.DeviceState, error) {
		return h.controller.TurnOff(c.Request.Context(), id)
	})
}

// Refresh handles POST /lamps/:id/refresh
// @Summary      Poll a lamp now
// @Description  Fetches power and brightness from the lamp and updates the cached state
// @Tags         control
// @Produce      json
// @Param        id   path      string  true  "Lamp id"
// @Success      200  {object}  types.CommandResponse
// @Failure      404  {object}  types.ErrorResponse  "Lamp not found"
// @Failure      503  {object}  types.ErrorResponse  "Lamp not ready"
// @Router       /lamps/{id}/refresh [post]
func (h *ControlHandler) Refresh(c *gin.Context) {
	id := c.Param("id")
	h.respond(c, lamp.CommandRefresh, func() (device.DeviceState, error) {
		return h.controller.Refresh(c.Request.Context(), id)
	})
}

func (h *ControlHandler) respond(c *gin.Context, command string, run func() (device.DeviceState, error)) {
	id := c.Param("id")
	ctx := c.Request.Context()

	d, err := h.controller.GetDevice(ctx, id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	state, err := run()
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.CommandResponse{
		Lamp:      id,
		Command:   command,
		Success:   state.Success,
		State:     ToLampState(*d, state),
		Timestamp: time.Now(),
	})
}
