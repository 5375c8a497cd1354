package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpHandler "github.com/jmgomezsoriano/easy-tube/interfaces/http"
	"github.com/jmgomezsoriano/easy-tube/interfaces/middleware"
)

// RouterConfig holds the settings the router needs from the application configuration.
type RouterConfig struct {
	SecretKey    string
	AllowOrigins []string
}

func InitiateRouter(
	cfg RouterConfig,
	healthHandler httpHandler.IHealthHandler,
	youtubeHandler httpHandler.IYouTubeHandler,
	youtubeAuthHandler httpHandler.IYouTubeAuthHandler,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if len(cfg.AllowOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowOrigins,
			AllowMethods:     []string{"GET", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthHandler.Healthz)

	api := router.Group("api")
	api.Use(middleware.Auth(cfg.SecretKey))

	// OAuth authentication routes
	if youtubeAuthHandler != nil {
		router.GET("/auth/youtube", youtubeAuthHandler.GetAuthURL)
		router.GET("/auth/youtube/callback", youtubeAuthHandler.HandleCallback)
		api.GET("/youtube/oauth/status", youtubeAuthHandler.Status)
	}

	if youtubeHandler != nil {
		channels := api.Group("/channels")
		{
			channels.GET("", youtubeHandler.GetChannelsByUsername)
			channels.GET("/mine", youtubeHandler.GetMyChannels)
			channels.GET("/by-url", youtubeHandler.GetChannelByURL)
			channels.GET("/:channelId", youtubeHandler.GetChannel)
			channels.GET("/:channelId/playlists", youtubeHandler.GetChannelPlaylists)
			channels.GET("/:channelId/uploads", youtubeHandler.GetChannelUploads)
		}

		playlists := api.Group("/playlists")
		{
			playlists.GET("/:playlistId", youtubeHandler.GetPlaylist)
			playlists.GET("/:playlistId/videos", youtubeHandler.GetPlaylistVideos)
		}

		videos := api.Group("/videos")
		{
			videos.GET("/:videoId", youtubeHandler.GetVideo)
			videos.GET("/:videoId/channel", youtubeHandler.GetVideoChannel)
		}
	}

	return router
}
