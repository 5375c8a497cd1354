package model

import (
	"context"
	"fmt"
)

const (
	KindChannel      = "youtube#channel"
	KindPlaylist     = "youtube#playlist"
	KindPlaylistItem = "youtube#playlistItem"
	KindVideo        = "youtube#video"
	KindThumbnail    = "youtube#thumbnail"
)

// Resource identifies an API entity.
type Resource struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

// NewResource returns a Resource, rejecting an empty kind or id.
func NewResource(kind, id string) (Resource, error) {
	if kind == "" || id == "" {
		return Resource{}, fmt.Errorf("resource requires kind and id, got kind=%q id=%q", kind, id)
	}
	return Resource{Kind: kind, ID: id}, nil
}

func (r Resource) Identity() Resource {
	return r
}

func (r Resource) String() string {
	return r.Kind + "[" + r.ID + "]"
}

// HasIdentity is implemented by every entity.
type HasIdentity interface {
	Identity() Resource
}

// HasStatistics is implemented by entities carrying counters.
type HasStatistics interface {
	Stats() Statistics
}

// HasChildren is implemented by entities with a lazily fetched ordered collection.
type HasChildren[T any] interface {
	Children(ctx context.Context) ([]T, error)
	Len(ctx context.Context) (int, error)
}

// Playable is implemented by entities with an embeddable player.
type Playable interface {
	PlayerHTML() string
}

// Entity is any top-level resource the mapper produces.
type Entity interface {
	HasIdentity
	URL() string
}

// Loader resolves relationships between entities. Lookups that match nothing return nil, nil.
type Loader interface {
	Channel(ctx context.Context, id string) (*Channel, error)
	Playlist(ctx context.Context, id string) (*Playlist, error)
	ChannelPlaylists(ctx context.Context, channelID string) ([]*Playlist, error)
	PlaylistVideos(ctx context.Context, playlistID string) ([]*Video, error)
}

// Thumbnail is one image of an item, keyed by its size name (default, medium, high...).
type Thumbnail struct {
	Resource
	URL    string `json:"url"`
	Width  int64  `json:"width"`
	Height int64  `json:"height"`
}

func (t Thumbnail) String() string {
	return fmt.Sprintf("%s[%s:(%dx%d)]", t.Kind, t.ID, t.Width, t.Height)
}

// Statistics holds the counters of an item. A nil field is unset, which is not the same as zero.
type Statistics struct {
	ViewCount             *int64 `json:"viewCount,omitempty"`
	SubscriberCount       *int64 `json:"subscriberCount,omitempty"`
	HiddenSubscriberCount *bool  `json:"hiddenSubscriberCount,omitempty"`
	VideoCount            *int64 `json:"videoCount,omitempty"`
	LikeCount             *int64 `json:"likeCount,omitempty"`
	DislikeCount          *int64 `json:"dislikeCount,omitempty"`
	FavoriteCount         *int64 `json:"favoriteCount,omitempty"`
	CommentCount          *int64 `json:"commentCount,omitempty"`
}

// Item is the data shared by channels, playlists and videos.
// ChannelID is a weak reference: the channel may not have been fetched.
type Item struct {
	Resource
	Etag         string      `json:"etag"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	ChannelID    string      `json:"channelId"`
	ChannelTitle string      `json:"channelTitle"`
	PublishedAt  string      `json:"publishedAt"`
	Thumbnails   []Thumbnail `json:"thumbnails"`
	Statistics   Statistics  `json:"statistics"`
}

func (i *Item) Stats() Statistics {
	return i.Statistics
}

// Thumbnail returns the thumbnail with the given key.
func (i *Item) Thumbnail(key string) (Thumbnail, bool) {
	for _, t := range i.Thumbnails {
		if t.ID == key {
			return t, true
		}
	}
	return Thumbnail{}, false
}
