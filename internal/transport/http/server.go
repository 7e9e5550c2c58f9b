package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/linechat/linechat-server/internal/config"
	"github.com/linechat/linechat-server/internal/core"
)

// NewServer builds the HTTP side of the service: a read-only status API
// plus the websocket endpoint that speaks the same line protocol as the
// TCP transport.
func NewServer(registry *core.Registry, directory *core.Directory, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	return &stdhttp.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           newRouter(registry, directory, logger),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func newRouter(registry *core.Registry, directory *core.Directory, logger *zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", healthHandler)
	api := router.Group("/api")
	api.GET("/rooms", listRoomsHandler(directory))
	api.GET("/users", listUsersHandler(registry))
	router.GET("/ws", wsHandler(registry, directory, logger))

	return router
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
