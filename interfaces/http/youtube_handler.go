package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jmgomezsoriano/easy-tube/domain/mapper"
	"github.com/jmgomezsoriano/easy-tube/domain/model"
	"github.com/jmgomezsoriano/easy-tube/infrastructure/auth"
	"github.com/jmgomezsoriano/easy-tube/infrastructure/logger"
	"github.com/jmgomezsoriano/easy-tube/usecase"
)

// IYouTubeHandler defines the read-only HTTP surface over the resource graph
type IYouTubeHandler interface {
	// Channel operations
	GetMyChannels(ctx *gin.Context)
	GetChannelsByUsername(ctx *gin.Context)
	GetChannelByURL(ctx *gin.Context)
	GetChannel(ctx *gin.Context)
	GetChannelPlaylists(ctx *gin.Context)
	GetChannelUploads(ctx *gin.Context)

	// Playlist operations
	GetPlaylist(ctx *gin.Context)
	GetPlaylistVideos(ctx *gin.Context)

	// Video operations
	GetVideo(ctx *gin.Context)
	GetVideoChannel(ctx *gin.Context)
}

// YouTubeHandler implements the YouTube HTTP handlers
type YouTubeHandler struct {
	youtubeUseCase usecase.IYouTubeUseCase
}

// NewYouTubeHandler creates a new YouTube handler instance
func NewYouTubeHandler(youtubeUseCase usecase.IYouTubeUseCase) IYouTubeHandler {
	return &YouTubeHandler{
		youtubeUseCase: youtubeUseCase,
	}
}

// GetMyChannels handles GET /api/channels/mine
func (h *YouTubeHandler) GetMyChannels(ctx *gin.Context) {
	channels, err := h.youtubeUseCase.Channels(ctx.Request.Context(), "")
	if err != nil {
		renderError(ctx, "Failed to get channels", err)
		return
	}
	renderList(ctx, channels)
}

// GetChannelsByUsername handles GET /api/channels?username=
func (h *YouTubeHandler) GetChannelsByUsername(ctx *gin.Context) {
	username := ctx.Query("username")
	if username == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "username is required",
		})
		return
	}

	channels, err := h.youtubeUseCase.Channels(ctx.Request.Context(), username)
	if err != nil {
		renderError(ctx, "Failed to get channels", err)
		return
	}
	renderList(ctx, channels)
}

// GetChannelByURL handles GET /api/channels/by-url?url=
func (h *YouTubeHandler) GetChannelByURL(ctx *gin.Context) {
	url := ctx.Query("url")
	if url == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "url is required",
		})
		return
	}

	channel, err := h.youtubeUseCase.ChannelByURL(ctx.Request.Context(), url)
	if err != nil {
		renderError(ctx, "Failed to get channel", err)
		return
	}
	renderOne(ctx, channel)
}

// GetChannel handles GET /api/channels/:channelId
func (h *YouTubeHandler) GetChannel(ctx *gin.Context) {
	channel, ok := h.channel(ctx)
	if !ok {
		return
	}
	renderOne(ctx, channel)
}

// GetChannelPlaylists handles GET /api/channels/:channelId/playlists
func (h *YouTubeHandler) GetChannelPlaylists(ctx *gin.Context) {
	channel, ok := h.channel(ctx)
	if !ok {
		return
	}

	playlists, err := channel.Playlists(ctx.Request.Context())
	if err != nil {
		renderError(ctx, "Failed to get channel playlists", err)
		return
	}
	renderList(ctx, playlists)
}

// GetChannelUploads handles GET /api/channels/:channelId/uploads
func (h *YouTubeHandler) GetChannelUploads(ctx *gin.Context) {
	channel, ok := h.channel(ctx)
	if !ok {
		return
	}

	uploads, err := channel.Uploads(ctx.Request.Context())
	if err != nil {
		renderError(ctx, "Failed to get channel uploads", err)
		return
	}
	renderOne(ctx, uploads)
}

// GetPlaylist handles GET /api/playlists/:playlistId
func (h *YouTubeHandler) GetPlaylist(ctx *gin.Context) {
	playlist, ok := h.playlist(ctx)
	if !ok {
		return
	}
	renderOne(ctx, playlist)
}

// GetPlaylistVideos handles GET /api/playlists/:playlistId/videos
func (h *YouTubeHandler) GetPlaylistVideos(ctx *gin.Context) {
	playlist, ok := h.playlist(ctx)
	if !ok {
		return
	}

	videos, err := playlist.Videos(ctx.Request.Context())
	if err != nil {
		renderError(ctx, "Failed to get playlist videos", err)
		return
	}
	renderList(ctx, videos)
}

// GetVideo handles GET /api/videos/:videoId
func (h *YouTubeHandler) GetVideo(ctx *gin.Context) {
	video, ok := h.video(ctx)
	if !ok {
		return
	}
	renderOne(ctx, video)
}

// GetVideoChannel handles GET /api/videos/:videoId/channel
func (h *YouTubeHandler) GetVideoChannel(ctx *gin.Context) {
	video, ok := h.video(ctx)
	if !ok {
		return
	}

	channel, err := video.Channel(ctx.Request.Context())
	if err != nil {
		renderError(ctx, "Failed to get video channel", err)
		return
	}
	renderOne(ctx, channel)
}

func (h *YouTubeHandler) channel(ctx *gin.Context) (*model.Channel, bool) {
	channel, err := h.youtubeUseCase.ChannelByID(ctx.Request.Context(), ctx.Param("channelId"))
	if err != nil {
		renderError(ctx, "Failed to get channel", err)
		return nil, false
	}
	if channel == nil {
		renderNotFound(ctx, "channel", ctx.Param("channelId"))
		return nil, false
	}
	return channel, true
}

func (h *YouTubeHandler) playlist(ctx *gin.Context) (*model.Playlist, bool) {
	playlist, err := h.youtubeUseCase.PlaylistByID(ctx.Request.Context(), ctx.Param("playlistId"))
	if err != nil {
		renderError(ctx, "Failed to get playlist", err)
		return nil, false
	}
	if playlist == nil {
		renderNotFound(ctx, "playlist", ctx.Param("playlistId"))
		return nil, false
	}
	return playlist, true
}

func (h *YouTubeHandler) video(ctx *gin.Context) (*model.Video, bool) {
	video, err := h.youtubeUseCase.VideoByID(ctx.Request.Context(), ctx.Param("videoId"))
	if err != nil {
		renderError(ctx, "Failed to get video", err)
		return nil, false
	}
	if video == nil {
		renderNotFound(ctx, "video", ctx.Param("videoId"))
		return nil, false
	}
	return video, true
}

func renderOne[E interface {
	model.Entity
	comparable
}](ctx *gin.Context, entity E) {
	var zero E
	if entity == zero {
		ctx.JSON(http.StatusNotFound, gin.H{
			"error": model.ErrNotFound.Error(),
		})
		return
	}

	rec, err := mapper.ToRecord(entity)
	if err != nil {
		renderError(ctx, "Failed to render resource", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": rec})
}

func renderList[E model.Entity](ctx *gin.Context, entities []E) {
	recs, err := mapper.ToRecords(entities)
	if err != nil {
		renderError(ctx, "Failed to render resources", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": recs})
}

func renderNotFound(ctx *gin.Context, kind, id string) {
	ctx.JSON(http.StatusNotFound, gin.H{
		"error": model.ErrNotFound.Error(),
		"kind":  kind,
		"id":    id,
	})
}

// renderError maps core errors onto HTTP statuses.
func renderError(ctx *gin.Context, message string, err error) {
	var (
		mappingErr   *model.MappingError
		transportErr *model.TransportError
		authErr      *auth.AuthorizationRequiredError
	)

	status := http.StatusInternalServerError
	body := gin.H{
		"error":   message,
		"message": err.Error(),
	}
	switch {
	case errors.As(err, &authErr):
		status = http.StatusUnauthorized
		body["auth_url"] = authErr.URL
	case errors.Is(err, model.ErrInvalidFilter), errors.Is(err, model.ErrUnsupportedFilter):
		status = http.StatusBadRequest
	case errors.As(err, &mappingErr):
		status = http.StatusBadGateway
		body["field"] = mappingErr.Field
	case errors.As(err, &transportErr):
		status = http.StatusBadGateway
		if transportErr.StatusCode == http.StatusNotFound {
			status = http.StatusNotFound
		}
		if transportErr.StatusCode != 0 {
			body["upstream_status"] = transportErr.StatusCode
		}
	}

	logger.GetLogger().
		WithField("path", ctx.FullPath()).
		WithField("status", status).
		WithField("error", err).
		Error(message)
	ctx.JSON(status, body)
}
