// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"voyage/internal/http/handlers"
	"voyage/internal/http/middleware"
)

func NewRouter(deps ServerDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logging(deps.Logger), middleware.Recovery(deps.Logger))

	itineraryHandler := handlers.NewItineraryHandler(deps.Planner, deps.RequestTimeout)
	activityHandler := handlers.NewActivityHandler(deps.Log)
	feedbackHandler := handlers.NewFeedbackHandler(deps.Metrics, deps.Logger)

	api := r.Group("/api")
	{
		api.POST("/itineraries", itineraryHandler.Create)
		api.GET("/presets", handlers.Presets)
		api.POST("/feedback", feedbackHandler.Create)

		api.GET("/activity", activityHandler.List)
		api.GET("/activity/summary", activityHandler.Summary)
		api.GET("/activity/export", activityHandler.Export)
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	return r
}
