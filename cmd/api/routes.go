package main

import (
	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/logging"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/middleware"
)

type routerOptions struct {
	auth    gin.HandlerFunc
	limiter middleware.Limiter // nil disables rate limiting
	tracer  opentracing.Tracer // nil disables request spans
	logger  *logging.Logger
}

func setupRouter(api *API, opts routerOptions) *gin.Engine {
	router := gin.New()
	// Recovery runs innermost so a panicked request is still logged,
	// counted and traced with its 500 status.
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(opts.logger),
		middleware.Metrics(),
	)
	if opts.tracer != nil {
		router.Use(middleware.Tracing(opts.tracer))
	}
	router.Use(middleware.Recovery(opts.logger))

	// Health check
	router.GET("/health", api.healthCheck)

	// API routes
	v1 := router.Group("/api/v1")
	v1.Use(opts.auth)
	if opts.limiter != nil {
		v1.Use(middleware.RateLimit(opts.limiter, opts.logger))
	}

	// Playlists
	playlists := v1.Group("/playlists")
	{
		playlists.POST("", api.createPlaylist)
		playlists.GET("/user/:userId", api.getUserPlaylists)
		playlists.GET("/:playlistId", api.getPlaylist)
		playlists.PATCH("/:playlistId", api.updatePlaylist)
		playlists.DELETE("/:playlistId", api.deletePlaylist)
		playlists.PATCH("/:playlistId/videos/:videoId", api.addVideoToPlaylist)
		playlists.DELETE("/:playlistId/videos/:videoId", api.removeVideoFromPlaylist)
	}

	// Videos
	videos := v1.Group("/videos")
	{
		videos.GET("", api.listVideos)
		videos.POST("", api.publishVideo)
		videos.GET("/:videoId", api.getVideo)
		videos.PATCH("/:videoId", api.updateVideo)
		videos.DELETE("/:videoId", api.deleteVideo)
		videos.PATCH("/:videoId/publish", api.togglePublish)
	}

	return router
}
