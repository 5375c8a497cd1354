package model

import (
	"context"
	"fmt"
)

// Video is a single YouTube video.
type Video struct {
	Item
	Tags                 []string               `json:"tags,omitempty"`
	CategoryID           string                 `json:"categoryId"`
	LiveBroadcastContent string                 `json:"liveBroadcastContent"`
	DefaultAudioLanguage *string                `json:"defaultAudioLanguage,omitempty"`
	Duration             Duration               `json:"duration"`
	Dimension            string                 `json:"dimension"`
	Definition           string                 `json:"definition"`
	Caption              bool                   `json:"caption"`
	LicensedContent      *bool                  `json:"licensedContent,omitempty"`
	ContentRating        map[string]interface{} `json:"contentRating,omitempty"`
	Projection           string                 `json:"projection"`
	UploadStatus         string                 `json:"uploadStatus"`
	PrivacyStatus        string                 `json:"privacyStatus"`
	License              string                 `json:"license"`
	Embeddable           *bool                  `json:"embeddable,omitempty"`
	PublicStatsViewable  *bool                  `json:"publicStatsViewable,omitempty"`
	MadeForKids          *bool                  `json:"madeForKids,omitempty"`
	TopicCategories      []string               `json:"topicCategories,omitempty"`
	Player               string                 `json:"player"`

	loader  Loader
	channel lazy[*Channel]
}

func (v *Video) Bind(l Loader) *Video {
	v.loader = l
	return v
}

func (v *Video) URL() string {
	return "https://www.youtube.com/watch?v=" + v.ID
}

func (v *Video) PlayerHTML() string {
	return v.Player
}

// Channel returns the channel that published the video, or nil when it no longer exists.
func (v *Video) Channel(ctx context.Context) (*Channel, error) {
	return v.channel.get(func() (*Channel, error) {
		if v.loader == nil {
			return nil, ErrDetached
		}
		return v.loader.Channel(ctx, v.ChannelID)
	})
}

func (v *Video) String() string {
	return fmt.Sprintf("%s(id=%s, title=%q, duration=%s)", v.Kind, v.ID, v.Title, v.Duration)
}
