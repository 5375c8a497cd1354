package model

import (
	"context"
	"fmt"
)

// Localized is the title and description of an item in the viewer's language.
type Localized struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Playlist is an ordered list of videos, fetched on first access.
type Playlist struct {
	Item
	Localized *Localized `json:"localized,omitempty"`
	Status    string     `json:"status"`
	ItemCount *int64     `json:"itemCount,omitempty"`
	Player    string     `json:"player"`

	loader Loader
	videos lazy[[]*Video]
}

func (p *Playlist) Bind(l Loader) *Playlist {
	p.loader = l
	return p
}

func (p *Playlist) URL() string {
	return "https://www.youtube.com/playlist?list=" + p.ID
}

func (p *Playlist) PlayerHTML() string {
	return p.Player
}

// Videos returns the videos of the playlist in item order. A video listed twice appears twice.
func (p *Playlist) Videos(ctx context.Context) ([]*Video, error) {
	return p.videos.get(func() ([]*Video, error) {
		if p.loader == nil {
			return nil, ErrDetached
		}
		return p.loader.PlaylistVideos(ctx, p.ID)
	})
}

func (p *Playlist) Children(ctx context.Context) ([]*Video, error) {
	return p.Videos(ctx)
}

func (p *Playlist) Len(ctx context.Context) (int, error) {
	videos, err := p.Videos(ctx)
	if err != nil {
		return 0, err
	}
	return len(videos), nil
}

func (p *Playlist) String() string {
	return fmt.Sprintf("%s(id=%s, title=%q, status=%s)", p.Kind, p.ID, p.Title, p.Status)
}
