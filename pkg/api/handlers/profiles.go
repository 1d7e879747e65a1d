package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/eyecare/pkg/api/types"
	"github.com/urmzd/eyecare/pkg/db"
	"github.com/urmzd/eyecare/pkg/device/schema"
)

// PollIntervalSetter applies a poll interval to the running lamp poller.
type PollIntervalSetter interface {
	SetPollInterval(d time.Duration)
}

// ProfilesHandler handles settings profile endpoints
type ProfilesHandler struct {
	profiles  db.ProfileStore
	poller    PollIntervalSetter
	validator *schema.Validator
}

// NewProfilesHandler creates a new profiles handler. When poller is nil,
// changes are stored and take effect on the next start.
func NewProfilesHandler(profiles db.ProfileStore, poller PollIntervalSetter, validator *schema.Validator) *ProfilesHandler {
	return &ProfilesHandler{profiles: profiles, poller: poller, validator: validator}
}

// ListProfiles handles GET /profiles
// @Summary      List settings profiles
// @Tags         profiles
// @Produce      json
// @Success      200  {object}  types.ListProfilesResponse
// @Router       /profiles [get]
func (h *ProfilesHandler) ListProfiles(c *gin.Context) {
	profiles, err := h.profiles.List(c.Request.Context())
	if err != nil {
		abortWithProfileError(c, err)
		return
	}
	if profiles == nil {
		profiles = []*db.Profile{}
	}
	c.JSON(http.StatusOK, types.ListProfilesResponse{
		Profiles: profiles,
		Count:    len(profiles),
	})
}

// GetProfile handles GET /profiles/:name
// @Summary      Get a settings profile
// @Tags         profiles
// @Produce      json
// @Param        name  path      string  true  "Profile name"
// @Success      200   {object}  types.ProfileResponse
// @Failure      404   {object}  types.ErrorResponse  "Profile not found"
// @Router       /profiles/{name} [get]
func (h *ProfilesHandler) GetProfile(c *gin.Context) {
	p, err := h.profiles.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		abortWithProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.ProfileResponse{Profile: p})
}

// CreateProfile handles POST /profiles
// @Summary      Create a settings profile
// @Description  Creates an inactive profile. The poll interval defaults to 30 seconds.
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        request  body      types.CreateProfileRequest  true  "Profile"
// @Success      201      {object}  types.ProfileResponse
// @Failure      400      {object}  types.ErrorResponse  "Invalid request"
// @Failure      409      {object}  types.ErrorResponse  "Profile already exists"
// @Router       /profiles [post]
func (h *ProfilesHandler) CreateProfile(c *gin.Context) {
	var req types.CreateProfileRequest
	if !h.bind(c, schema.CreateProfileSchema, &req) {
		return
	}

	ctx := c.Request.Context()
	if _, err := h.profiles.GetByName(ctx, req.Name); err == nil {
		c.JSON(http.StatusConflict, types.ErrorResponse{
			Error:   "conflict",
			Message: "Profile already exists",
		})
		return
	} else if !errors.Is(err, db.ErrProfileNotFound) {
		abortWithProfileError(c, err)
		return
	}

	p := &db.Profile{Name: req.Name, PollIntervalSeconds: req.PollIntervalSeconds}
	if err := h.profiles.Create(ctx, p); err != nil {
		abortWithProfileError(c, err)
		return
	}

	created, err := h.profiles.Get(ctx, p.ID)
	if err != nil {
		abortWithProfileError(c, err)
		return
	}
	c.JSON(http.StatusCreated, types.ProfileResponse{Profile: created})
}

// UpdateProfile handles PATCH /profiles/:name
// @Summary      Change the poll interval of a profile
// @Description  Applies immediately when the profile is active.
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        name     path      string                      true  "Profile name"
// @Param        request  body      types.UpdateProfileRequest  true  "Settings"
// @Success      200      {object}  types.ProfileResponse
// @Failure      400      {object}  types.ErrorResponse  "Invalid request"
// @Failure      404      {object}  types.ErrorResponse  "Profile not found"
// @Router       /profiles/{name} [patch]
func (h *ProfilesHandler) UpdateProfile(c *gin.Context) {
	var req types.UpdateProfileRequest
	if !h.bind(c, schema.UpdateProfileSchema, &req) {
		return
	}

	ctx := c.Request.Context()
	p, err := h.profiles.GetByName(ctx, c.Param("name"))
	if err != nil {
		abortWithProfileError(c, err)
		return
	}

	p.PollIntervalSeconds = req.PollIntervalSeconds
	if err := h.profiles.Update(ctx, p); err != nil {
		abortWithProfileError(c, err)
		return
	}
	if p.IsActive {
		h.apply(p)
	}

	h.respond(c, p.ID)
}

// ActivateProfile handles POST /profiles/:name/activate
// @Summary      Make a profile the active one
// @Tags         profiles
// @Produce      json
// @Param        name  path      string  true  "Profile name"
// @Success      200   {object}  types.ProfileResponse
// @Failure      404   {object}  types.ErrorResponse  "Profile not found"
// @Router       /profiles/{name}/activate [post]
func (h *ProfilesHandler) ActivateProfile(c *gin.Context) {
	ctx := c.Request.Context()
	p, err := h.profiles.GetByName(ctx, c.Param("name"))
	if err != nil {
		abortWithProfileError(c, err)
		return
	}

	if err := h.profiles.SetActive(ctx, p.ID); err != nil {
		abortWithProfileError(c, err)
		return
	}
	h.apply(p)

	h.respond(c, p.ID)
}

// DeleteProfile handles DELETE /profiles/:name
// @Summary      Delete an inactive profile
// @Tags         profiles
// @Param        name  path  string  true  "Profile name"
// @Success      204
// @Failure      404  {object}  types.ErrorResponse  "Profile not found"
// @Failure      409  {object}  types.ErrorResponse  "Profile is active"
// @Router       /profiles/{name} [delete]
func (h *ProfilesHandler) DeleteProfile(c *gin.Context) {
	ctx := c.Request.Context()
	p, err := h.profiles.GetByName(ctx, c.Param("name"))
	if err != nil {
		abortWithProfileError(c, err)
		return
	}
	if p.IsActive {
		c.JSON(http.StatusConflict, types.ErrorResponse{
			Error:   "conflict",
			Message: "The active profile cannot be deleted",
		})
		return
	}

	if err := h.profiles.Delete(ctx, p.ID); err != nil {
		abortWithProfileError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// bind decodes and validates the request body into dst.
func (h *ProfilesHandler) bind(c *gin.Context, schemaDoc json.RawMessage, dst any) bool {
	var raw map[string]any
	if err := json.NewDecoder(c.Request.Body).Decode(&raw); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
		return false
	}

	if err := h.validator.Validate(schemaDoc, raw); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return false
	}

	b, _ := json.Marshal(raw)
	if err := json.Unmarshal(b, dst); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return false
	}
	return true
}

func (h *ProfilesHandler) apply(p *db.Profile) {
	if h.poller != nil {
		h.poller.SetPollInterval(time.Duration(p.PollIntervalSeconds) * time.Second)
	}
}

func (h *ProfilesHandler) respond(c *gin.Context, id int64) {
	p, err := h.profiles.Get(c.Request.Context(), id)
	if err != nil {
		abortWithProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.ProfileResponse{Profile: p})
}

func abortWithProfileError(c *gin.Context, err error) {
	if errors.Is(err, db.ErrProfileNotFound) {
		c.JSON(http.StatusNotFound, types.ErrorResponse{
			Error:   "not_found",
			Message: "Profile not found",
		})
		return
	}
	c.JSON(http.StatusInternalServerError, types.ErrorResponse{
		Error:   "database_error",
		Message: err.Error(),
	})
}
