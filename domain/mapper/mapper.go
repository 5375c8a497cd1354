// Package mapper converts raw API records into typed entities and back.
//
// Every field is read from a fixed dotted path of the record. A required field that is absent or
// a value that does not parse fails with *model.MappingError; optional fields map to nil.
// ToRecord(entity) reproduces the fields the mapper reads, so mapping a record and writing it back
// yields the same data restricted to those fields.
package mapper

import (
	"fmt"

	"github.com/jmgomezsoriano/easy-tube/domain/model"
)

var (
	channelCounters = []string{"viewCount", "subscriberCount", "videoCount"}
	videoCounters   = []string{"viewCount", "likeCount", "dislikeCount", "favoriteCount", "commentCount"}
)

// Mapper builds entities bound to a loader for their lazy relationships.
type Mapper struct {
	loader model.Loader
}

// New returns a Mapper. loader may be nil, in which case lazy accessors return model.ErrDetached.
func New(loader model.Loader) *Mapper {
	return &Mapper{loader: loader}
}

// ToEntity maps rec as an entity of the given kind.
func (m *Mapper) ToEntity(kind string, rec model.RawRecord) (model.Entity, error) {
	switch kind {
	case model.KindChannel:
		return m.Channel(rec)
	case model.KindPlaylist:
		return m.Playlist(rec)
	case model.KindVideo:
		return m.Video(rec)
	}
	return nil, fmt.Errorf("mapper: unsupported kind %q", kind)
}

func (m *Mapper) Channel(rec model.RawRecord) (*model.Channel, error) {
	r := reader{kind: model.KindChannel, rec: rec}
	item, err := r.item(false)
	if err != nil {
		return nil, err
	}
	item.ChannelID = item.ID
	item.ChannelTitle = item.Title
	if item.Statistics, err = r.statistics(channelCounters, true); err != nil {
		return nil, err
	}

	ch := &model.Channel{Item: item}
	if ch.CustomURL, err = r.optStr("customUrl", "snippet.customUrl"); err != nil {
		return nil, err
	}
	if ch.UploadsID, err = r.str("uploads", "contentDetails.relatedPlaylists.uploads"); err != nil {
		return nil, err
	}
	if ch.LikesID, err = r.optStr("likes", "contentDetails.relatedPlaylists.likes"); err != nil {
		return nil, err
	}
	if ch.Topics, err = r.object("topics", "topicDetails"); err != nil {
		return nil, err
	}
	return ch.Bind(m.loader), nil
}

func (m *Mapper) Playlist(rec model.RawRecord) (*model.Playlist, error) {
	r := reader{kind: model.KindPlaylist, rec: rec}
	item, err := r.item(true)
	if err != nil {
		return nil, err
	}

	p := &model.Playlist{Item: item}
	localized, err := r.object("localized", "snippet.localized")
	if err != nil {
		return nil, err
	}
	if localized != nil {
		p.Localized = &model.Localized{}
		if p.Localized.Title, err = r.text("localized.title", "snippet.localized.title"); err != nil {
			return nil, err
		}
		if p.Localized.Description, err = r.text("localized.description", "snippet.localized.description"); err != nil {
			return nil, err
		}
	}
	if p.Status, err = r.str("status", "status.privacyStatus"); err != nil {
		return nil, err
	}
	if p.ItemCount, err = r.optInt("itemCount", "contentDetails.itemCount"); err != nil {
		return nil, err
	}
	if p.Player, err = r.str("player", "player.embedHtml"); err != nil {
		return nil, err
	}
	return p.Bind(m.loader), nil
}

func (m *Mapper) Video(rec model.RawRecord) (*model.Video, error) {
	r := reader{kind: model.KindVideo, rec: rec}
	item, err := r.item(true)
	if err != nil {
		return nil, err
	}
	if item.Statistics, err = r.statistics(videoCounters, false); err != nil {
		return nil, err
	}

	v := &model.Video{Item: item}
	if v.Tags, err = r.strs("tags", "snippet.tags"); err != nil {
		return nil, err
	}
	if v.CategoryID, err = r.str("categoryId", "snippet.categoryId"); err != nil {
		return nil, err
	}
	if v.LiveBroadcastContent, err = r.str("liveBroadcastContent", "snippet.liveBroadcastContent"); err != nil {
		return nil, err
	}
	if v.DefaultAudioLanguage, err = r.optStr("defaultAudioLanguage", "snippet.defaultAudioLanguage"); err != nil {
		return nil, err
	}

	iso, err := r.str("duration", "contentDetails.duration")
	if err != nil {
		return nil, err
	}
	if v.Duration, err = model.ParseDuration(iso); err != nil {
		return nil, r.fail("duration", "contentDetails.duration", err)
	}
	if v.Dimension, err = r.str("dimension", "contentDetails.dimension"); err != nil {
		return nil, err
	}
	if v.Definition, err = r.str("definition", "contentDetails.definition"); err != nil {
		return nil, err
	}
	if v.Caption, err = r.flag("caption", "contentDetails.caption"); err != nil {
		return nil, err
	}
	if v.LicensedContent, err = r.optFlag("licensedContent", "contentDetails.licensedContent"); err != nil {
		return nil, err
	}
	if v.ContentRating, err = r.object("contentRating", "contentDetails.contentRating"); err != nil {
		return nil, err
	}
	if v.Projection, err = r.str("projection", "contentDetails.projection"); err != nil {
		return nil, err
	}

	if v.UploadStatus, err = r.str("uploadStatus", "status.uploadStatus"); err != nil {
		return nil, err
	}
	if v.PrivacyStatus, err = r.str("privacyStatus", "status.privacyStatus"); err != nil {
		return nil, err
	}
	if v.License, err = r.str("license", "status.license"); err != nil {
		return nil, err
	}
	if v.Embeddable, err = r.optFlag("embeddable", "status.embeddable"); err != nil {
		return nil, err
	}
	if v.PublicStatsViewable, err = r.optFlag("publicStatsViewable", "status.publicStatsViewable"); err != nil {
		return nil, err
	}
	if v.MadeForKids, err = r.optFlag("madeForKids", "status.madeForKids"); err != nil {
		return nil, err
	}

	if v.TopicCategories, err = r.strs("topicCategories", "topicDetails.topicCategories"); err != nil {
		return nil, err
	}
	if v.Player, err = r.str("player", "player.embedHtml"); err != nil {
		return nil, err
	}
	return v.Bind(m.loader), nil
}

// PlaylistItemVideoID returns the id of the video a playlist item points to.
func PlaylistItemVideoID(rec model.RawRecord) (string, error) {
	r := reader{kind: model.KindPlaylistItem, rec: rec}
	id, err := r.optStr("videoId", "contentDetails.videoId")
	if err != nil {
		return "", err
	}
	if id != nil && *id != "" {
		return *id, nil
	}
	return r.str("videoId", "snippet.resourceId.videoId")
}
