package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/janhq/vimeo-storage/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates versioned route registration.
type Routes struct {
	handlers *handlers.Provider
}

func NewRoutes(provider *handlers.Provider) *Routes {
	return &Routes{handlers: provider}
}

// Register attaches all v1 routes under /v1 prefix.
func (r *Routes) Register(router gin.IRouter) {
	group := router.Group("/v1")

	videos := group.Group("/videos")
	videos.POST("", r.handlers.Videos.Upload)
	videos.POST("/import", r.handlers.Videos.Import)
	videos.GET("", r.handlers.Videos.List)
	videos.GET("/:id", r.handlers.Videos.Get)
	videos.DELETE("/:id", r.handlers.Videos.Delete)

	remote := group.Group("/remote/:vid")
	remote.GET("", r.handlers.Remote.Metadata)
	remote.GET("/oembed", r.handlers.Remote.OEmbed)
	remote.GET("/embed", r.handlers.Remote.Embed)
	remote.GET("/stat", r.handlers.Remote.Stat)
	remote.GET("/exists", r.handlers.Remote.Exists)
	remote.GET("/optimal", r.handlers.Remote.Optimal)
	remote.GET("/player", r.handlers.Remote.Player)
}
