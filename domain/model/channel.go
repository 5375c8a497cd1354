package model

import (
	"context"
	"fmt"
)

// Channel is a YouTube channel. Its uploads playlist and its playlists are fetched on first access.
type Channel struct {
	Item
	CustomURL *string                `json:"customUrl,omitempty"`
	LikesID   *string                `json:"likes,omitempty"`
	UploadsID string                 `json:"uploads"`
	Topics    map[string]interface{} `json:"topics,omitempty"`

	loader    Loader
	uploads   lazy[*Playlist]
	playlists lazy[[]*Playlist]
}

// Bind attaches the loader used by the lazy accessors.
func (c *Channel) Bind(l Loader) *Channel {
	c.loader = l
	return c
}

func (c *Channel) URL() string {
	return "https://www.youtube.com/channel/" + c.ID
}

// Uploads returns the playlist holding every upload of the channel, or nil when it does not exist.
func (c *Channel) Uploads(ctx context.Context) (*Playlist, error) {
	return c.uploads.get(func() (*Playlist, error) {
		if c.loader == nil {
			return nil, ErrDetached
		}
		return c.loader.Playlist(ctx, c.UploadsID)
	})
}

// UploadsLoaded reports whether the uploads playlist has been resolved.
func (c *Channel) UploadsLoaded() bool {
	_, ok := c.uploads.peek()
	return ok
}

// Playlists returns every playlist of the channel in API order.
func (c *Channel) Playlists(ctx context.Context) ([]*Playlist, error) {
	return c.playlists.get(func() ([]*Playlist, error) {
		if c.loader == nil {
			return nil, ErrDetached
		}
		return c.loader.ChannelPlaylists(ctx, c.ID)
	})
}

func (c *Channel) Children(ctx context.Context) ([]*Playlist, error) {
	return c.Playlists(ctx)
}

func (c *Channel) Len(ctx context.Context) (int, error) {
	playlists, err := c.Playlists(ctx)
	if err != nil {
		return 0, err
	}
	return len(playlists), nil
}

func (c *Channel) String() string {
	return fmt.Sprintf("%s(id=%s, title=%q)", c.Kind, c.ID, c.Title)
}
