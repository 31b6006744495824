// Package api serves a sheet over HTTP.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"calcsheet/internal/sheet"
)

const Version = "v1"

func SetupRouter(s *sheet.Sheet, logger *slog.Logger) *gin.Engine {
	controller := NewController(s)

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	group := router.Group("/api/" + Version)
	group.GET("/cells", controller.ListCellsAction)
	group.GET("/cells/:label", controller.GetCellAction)
	group.POST("/cells/:label", controller.SetCellAction)

	router.GET("/healthcheck", func(c *gin.Context) {
		c.String(http.StatusOK, "health")
	})

	return router
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
