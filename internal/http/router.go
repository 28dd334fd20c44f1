package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/nbeaumont/exquisite-backend/internal/http/handlers"
	httpMW "github.com/nbeaumont/exquisite-backend/internal/http/middleware"
	"github.com/nbeaumont/exquisite-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	HealthHandler *httpH.HealthHandler
	PoemHandler   *httpH.PoemHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Poems
		if cfg.PoemHandler != nil {
			api.POST("/poems", cfg.PoemHandler.CreatePoem)
			api.GET("/poems", cfg.PoemHandler.ListPoems)
			api.GET("/poems/:id", cfg.PoemHandler.GetPoem)
			api.POST("/poems/:id/lines", cfg.PoemHandler.AddLine)
			api.POST("/poems/:id/reveal", cfg.PoemHandler.Reveal)
		}
	}

	return r
}
