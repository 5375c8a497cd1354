// Package mappertest provides raw API records shaped like youtube/v3 responses.
package mappertest

import (
	"fmt"

	"github.com/jmgomezsoriano/easy-tube/domain/model"
)

const (
	SmartCodeChannelID = "UCo_fg5ZyCCHt75ryUUa6ebw"
	SmartCodeTitle     = "A Smart Code"
	SmartCodeUploadsID = "UUo_fg5ZyCCHt75ryUUa6ebw"
)

func thumbnails(base string) map[string]interface{} {
	return map[string]interface{}{
		"default": map[string]interface{}{"url": base + "/default.jpg", "width": 120, "height": 90},
		"medium":  map[string]interface{}{"url": base + "/mqdefault.jpg", "width": 320, "height": 180},
		"high":    map[string]interface{}{"url": base + "/hqdefault.jpg", "width": 480, "height": 360},
	}
}

// ChannelRecord returns a channels#list item.
func ChannelRecord(id, title, uploadsID string) model.RawRecord {
	return model.RawRecord{
		"kind": model.KindChannel,
		"id":   id,
		"etag": "etag-" + id,
		"snippet": map[string]interface{}{
			"title":       title,
			"description": "Channel " + title,
			"customUrl":   "@asmartcode",
			"publishedAt": "2017-03-05T18:11:42Z",
			"thumbnails":  thumbnails("https://yt3.ggpht.com/" + id),
		},
		"contentDetails": map[string]interface{}{
			"relatedPlaylists": map[string]interface{}{
				"likes":   "",
				"uploads": uploadsID,
			},
		},
		"statistics": map[string]interface{}{
			"viewCount":             "10532",
			"subscriberCount":       "321",
			"hiddenSubscriberCount": false,
			"videoCount":            "26",
		},
		"topicDetails": map[string]interface{}{
			"topicIds":        []interface{}{"/m/07c1v"},
			"topicCategories": []interface{}{"https://en.wikipedia.org/wiki/Technology"},
		},
	}
}

// SmartCodeChannel returns the record of the "A Smart Code" channel.
func SmartCodeChannel() model.RawRecord {
	return ChannelRecord(SmartCodeChannelID, SmartCodeTitle, SmartCodeUploadsID)
}

// PlaylistRecord returns a playlists#list item owned by channelID.
func PlaylistRecord(id, channelID string) model.RawRecord {
	return model.RawRecord{
		"kind": model.KindPlaylist,
		"id":   id,
		"etag": "etag-" + id,
		"snippet": map[string]interface{}{
			"title":        "Playlist " + id,
			"description":  "Description of " + id,
			"channelId":    channelID,
			"channelTitle": SmartCodeTitle,
			"publishedAt":  "2019-10-01T08:00:00Z",
			"thumbnails":   thumbnails("https://i.ytimg.com/pl/" + id),
			"localized": map[string]interface{}{
				"title":       "Playlist " + id,
				"description": "Description of " + id,
			},
		},
		"status":         map[string]interface{}{"privacyStatus": "public"},
		"contentDetails": map[string]interface{}{"itemCount": 26},
		"player": map[string]interface{}{
			"embedHtml": fmt.Sprintf(`<iframe src="http://www.youtube.com/embed/videoseries?list=%s"></iframe>`, id),
		},
	}
}

// VideoRecord returns a videos#list item published by channelID.
func VideoRecord(id, channelID string) model.RawRecord {
	return model.RawRecord{
		"kind": model.KindVideo,
		"id":   id,
		"etag": "etag-" + id,
		"snippet": map[string]interface{}{
			"title":                "Video " + id,
			"description":          "About " + id,
			"channelId":            channelID,
			"channelTitle":         SmartCodeTitle,
			"publishedAt":          "2020-01-15T10:00:00Z",
			"thumbnails":           thumbnails("https://i.ytimg.com/vi/" + id),
			"tags":                 []interface{}{"go", "youtube"},
			"categoryId":           "27",
			"liveBroadcastContent": "none",
			"defaultAudioLanguage": "es",
		},
		"contentDetails": map[string]interface{}{
			"duration":        "PT4M13S",
			"dimension":       "2d",
			"definition":      "hd",
			"caption":         "false",
			"licensedContent": true,
			"contentRating":   map[string]interface{}{},
			"projection":      "rectangular",
		},
		"status": map[string]interface{}{
			"uploadStatus":        "processed",
			"privacyStatus":       "public",
			"license":             "youtube",
			"embeddable":          true,
			"publicStatsViewable": true,
			"madeForKids":         false,
		},
		"statistics": map[string]interface{}{
			"viewCount":     "1500",
			"likeCount":     "42",
			"favoriteCount": "0",
			"commentCount":  "7",
		},
		"topicDetails": map[string]interface{}{
			"topicCategories": []interface{}{"https://en.wikipedia.org/wiki/Knowledge"},
		},
		"player": map[string]interface{}{
			"embedHtml": fmt.Sprintf(`<iframe src="//www.youtube.com/embed/%s"></iframe>`, id),
		},
	}
}

// PlaylistItemRecord returns a playlistItems#list item pointing at videoID.
func PlaylistItemRecord(playlistID, videoID string, position int) model.RawRecord {
	return model.RawRecord{
		"kind": model.KindPlaylistItem,
		"id":   fmt.Sprintf("%s-%d", playlistID, position),
		"etag": fmt.Sprintf("etag-%s-%d", playlistID, position),
		"snippet": map[string]interface{}{
			"playlistId": playlistID,
			"position":   position,
			"resourceId": map[string]interface{}{"kind": model.KindVideo, "videoId": videoID},
		},
		"contentDetails": map[string]interface{}{"videoId": videoID},
	}
}

// VideoIDs returns n distinct video ids with the given prefix.
func VideoIDs(prefix string, n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("%s%03d", prefix, i)
	}
	return ids
}
