// Package httpapi exposes the engine to a browser-hosted form over HTTP and
// a WebSocket state stream.
package httpapi

import (
	"net/url"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/alexanderramin/formdraft/internal/autosave"
	"github.com/alexanderramin/formdraft/internal/form"
	"github.com/alexanderramin/formdraft/internal/service"
)

// Deps is everything the router serves. Form and Scheduler are optional;
// without them the snapshot route is unavailable and loads only touch the
// engine.
type Deps struct {
	Services       *service.Services
	Form           *form.Form
	Scheduler      *autosave.Scheduler
	Logger         *zap.Logger
	AllowedOrigins []string
}

// NewRouter builds the gin engine with recovery, request logging and CORS.
func NewRouter(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(RequestLogger(d.Logger))
	router.Use(cors.New(cors.Config{
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type"},
		ExposeHeaders:   []string{"Content-Disposition"},
		AllowOriginFunc: originMatcher(d.AllowedOrigins),
	}))

	h := &handlers{deps: d, log: d.Logger.Named("http")}
	api := router.Group("/api")
	{
		api.GET("/submissions", h.listSubmissions)
		api.POST("/submissions/import", h.importSubmission)
		api.DELETE("/submissions/:id", h.deleteSubmission)
		api.POST("/submissions/:id/load", h.loadSubmission)
		api.GET("/submissions/:id/export", h.exportSubmission)

		api.GET("/draft", h.getDraft)
		api.PUT("/draft", h.saveDraft)
		api.DELETE("/draft", h.clearDraft)

		api.POST("/form", h.pushForm)
		api.POST("/submit", h.submit)
		api.POST("/templates", h.saveTemplate)

		api.GET("/stream", h.stream)
	}
	return router
}

// originMatcher accepts every origin when none are configured, otherwise an
// exact origin, a bare host, or "*".
func originMatcher(allowed []string) func(string) bool {
	if len(allowed) == 0 {
		return func(string) bool { return true }
	}
	return func(origin string) bool {
		host := origin
		if u, err := url.Parse(origin); err == nil && u.Host != "" {
			host = u.Host
		}
		for _, a := range allowed {
			a = strings.TrimSuffix(strings.TrimSpace(a), "/")
			if a == "*" || strings.EqualFold(a, origin) || strings.EqualFold(a, host) {
				return true
			}
		}
		return false
	}
}
