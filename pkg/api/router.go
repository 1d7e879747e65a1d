package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/urmzd/eyecare/pkg/api/handlers"
	"github.com/urmzd/eyecare/pkg/db"
	"github.com/urmzd/eyecare/pkg/device"
	"github.com/urmzd/eyecare/pkg/device/schema"

	_ "github.com/urmzd/eyecare/docs"
)

// Router holds the Gin engine and dependencies
type Router struct {
	engine     *gin.Engine
	controller device.Controller
	subscriber device.EventSubscriber
	validator  *schema.Validator
	history    handlers.CommandHistory
}

// NewRouter creates a new API router. history may be nil, in which case
// the command history endpoint is not registered.
func NewRouter(controller device.Controller, subscriber device.EventSubscriber, validator *schema.Validator, history handlers.CommandHistory) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	SetupMiddleware(engine)

	router := &Router{
		engine:     engine,
		controller: controller,
		subscriber: subscriber,
		validator:  validator,
		history:    history,
	}

	router.setupRoutes()

	return router
}

// setupRoutes configures all API routes
func (r *Router) setupRoutes() {
	// Swagger UI
	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	// Health check at root
	healthHandler := handlers.NewHealthHandler(r.controller)
	r.engine.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := r.engine.Group("/api/v1")
	{
		v1.GET("/health", healthHandler.Health)

		if r.subscriber != nil {
			eventsHandler := handlers.NewEventsHandler(r.subscriber)
			v1.GET("/events", eventsHandler.Events)
		}

		lampsHandler := handlers.NewLampsHandler(r.controller, r.history)
		controlHandler := handlers.NewControlHandler(r.controller, r.validator)
		lamps := v1.Group("/lamps")
		{
			lamps.GET("", lampsHandler.ListLamps)
			lamps.GET("/:id", lampsHandler.GetLamp)
			lamps.GET("/:id/state", lampsHandler.GetState)
			if r.history != nil {
				lamps.GET("/:id/history", lampsHandler.History)
			}

			lamps.POST("/:id/turn_on", controlHandler.TurnOn)
			lamps.POST("/:id/turn_off", controlHandler.TurnOff)
			lamps.POST("/:id/refresh", controlHandler.Refresh)
		}
	}
}

// EnableProfiles registers the settings profile endpoints. poller may be
// nil when no lamps are polled.
func (r *Router) EnableProfiles(profiles db.ProfileStore, poller handlers.PollIntervalSetter) {
	h := handlers.NewProfilesHandler(profiles, poller, r.validator)
	g := r.engine.Group("/api/v1/profiles")
	{
		g.GET("", h.ListProfiles)
		g.POST("", h.CreateProfile)
		g.GET("/:name", h.GetProfile)
		g.PATCH("/:name", h.UpdateProfile)
		g.DELETE("/:name", h.DeleteProfile)
		g.POST("/:name/activate", h.ActivateProfile)
	}
}

// Handler returns the router as an http.Handler
func (r *Router) Handler() http.Handler {
	return r.engine
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
