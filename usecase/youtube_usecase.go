package usecase

import (
	"context"
	"regexp"

	"github.com/jmgomezsoriano/easy-tube/domain/model"
)

// channelURLPattern captures the id of URLs such as https://www.youtube.com/channel/<id>/videos.
var channelURLPattern = regexp.MustCompile(`^.*/channel/([^/]*)(/[^/]+)?$`)

// IYouTubeUseCase is the entry point to the resource graph. Lookups that match nothing return nil, nil.
type IYouTubeUseCase interface {
	ChannelByUsername(ctx context.Context, username string) (*model.Channel, error)
	ChannelByID(ctx context.Context, id string) (*model.Channel, error)
	// ChannelByURL extracts the channel id from url. A url of any other shape is used as the id itself.
	ChannelByURL(ctx context.Context, url string) (*model.Channel, error)
	PlaylistByID(ctx context.Context, id string) (*model.Playlist, error)
	VideoByID(ctx context.Context, id string) (*model.Video, error)

	// Channels returns the channels of username, or the authorized user's channels when username is empty.
	Channels(ctx context.Context, username string) ([]*model.Channel, error)
	FirstChannel(ctx context.Context, username string) (*model.Channel, error)
	ChannelTitles(ctx context.Context, username string) ([]string, error)
}

type YouTubeUseCase struct {
	resolver IResolver
}

func NewYouTubeUseCase(resolver IResolver) IYouTubeUseCase {
	return &YouTubeUseCase{resolver: resolver}
}

func (u *YouTubeUseCase) ChannelByUsername(ctx context.Context, username string) (*model.Channel, error) {
	channels, err := u.resolver.ChannelsByUsername(ctx, username)
	if err != nil || len(channels) == 0 {
		return nil, err
	}
	return channels[0], nil
}

func (u *YouTubeUseCase) ChannelByID(ctx context.Context, id string) (*model.Channel, error) {
	return u.resolver.Channel(ctx, id)
}

func (u *YouTubeUseCase) ChannelByURL(ctx context.Context, url string) (*model.Channel, error) {
	return u.resolver.Channel(ctx, ChannelIDFromURL(url))
}

// ChannelIDFromURL returns the id segment of a channel URL, or url unchanged when it has no such segment.
func ChannelIDFromURL(url string) string {
	if m := channelURLPattern.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	return url
}

func (u *YouTubeUseCase) PlaylistByID(ctx context.Context, id string) (*model.Playlist, error) {
	return u.resolver.Playlist(ctx, id)
}

func (u *YouTubeUseCase) VideoByID(ctx context.Context, id string) (*model.Video, error) {
	return u.resolver.Video(ctx, id)
}

func (u *YouTubeUseCase) Channels(ctx context.Context, username string) ([]*model.Channel, error) {
	if username == "" {
		return u.resolver.MyChannels(ctx)
	}
	return u.resolver.ChannelsByUsername(ctx, username)
}

func (u *YouTubeUseCase) FirstChannel(ctx context.Context, username string) (*model.Channel, error) {
	channels, err := u.Channels(ctx, username)
	if err != nil || len(channels) == 0 {
		return nil, err
	}
	return channels[0], nil
}

func (u *YouTubeUseCase) ChannelTitles(ctx context.Context, username string) ([]string, error) {
	channels, err := u.Channels(ctx, username)
	if err != nil {
		return nil, err
	}
	titles := make([]string, 0, len(channels))
	for _, ch := range channels {
		titles = append(titles, ch.Title)
	}
	return titles, nil
}
