package mapper

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jmgomezsoriano/easy-tube/domain/model"
)

// writer builds a raw record by dotted path.
type writer struct {
	rec model.RawRecord
}

func (w writer) set(path string, v interface{}) {
	keys := strings.Split(path, ".")
	obj := map[string]interface{}(w.rec)
	for _, key := range keys[:len(keys)-1] {
		next, ok := obj[key].(map[string]interface{})
		if !ok {
			next = map[string]interface{}{}
			obj[key] = next
		}
		obj = next
	}
	obj[keys[len(keys)-1]] = v
}

func (w writer) optStr(path string, s *string) {
	if s != nil {
		w.set(path, *s)
	}
}

func (w writer) text(path, s string) {
	if s != "" {
		w.set(path, s)
	}
}

func (w writer) optFlag(path string, b *bool) {
	if b != nil {
		w.set(path, *b)
	}
}

func (w writer) strs(path string, list []string) {
	if list != nil {
		out := make([]interface{}, len(list))
		for i, s := range list {
			out[i] = s
		}
		w.set(path, out)
	}
}

func (w writer) object(path string, obj map[string]interface{}) {
	if obj != nil {
		w.set(path, copyValue(obj))
	}
}

func (w writer) item(item model.Item, withChannel bool) {
	w.set("kind", item.Kind)
	w.set("id", item.ID)
	w.set("etag", item.Etag)
	w.set("snippet.title", item.Title)
	w.text("snippet.description", item.Description)
	w.set("snippet.publishedAt", item.PublishedAt)
	if len(item.Thumbnails) > 0 {
		thumbnails := make(map[string]interface{}, len(item.Thumbnails))
		for _, t := range item.Thumbnails {
			thumbnails[t.ID] = map[string]interface{}{"url": t.URL, "width": t.Width, "height": t.Height}
		}
		w.set("snippet.thumbnails", thumbnails)
	}
	if withChannel {
		w.set("snippet.channelId", item.ChannelID)
		w.set("snippet.channelTitle", item.ChannelTitle)
	}
}

func (w writer) statistics(s model.Statistics, counters []string, withHidden bool) {
	for _, name := range counters {
		if v := *counterSlot(&s, name); v != nil {
			w.set("statistics."+name, strconv.FormatInt(*v, 10))
		}
	}
	if withHidden {
		w.optFlag("statistics.hiddenSubscriberCount", s.HiddenSubscriberCount)
	}
}

// ToRecord writes an entity back into its raw form.
func ToRecord(e model.Entity) (model.RawRecord, error) {
	w := writer{rec: model.RawRecord{}}
	switch v := e.(type) {
	case *model.Channel:
		w.item(v.Item, false)
		w.statistics(v.Statistics, channelCounters, true)
		w.optStr("snippet.customUrl", v.CustomURL)
		w.set("contentDetails.relatedPlaylists.uploads", v.UploadsID)
		w.optStr("contentDetails.relatedPlaylists.likes", v.LikesID)
		w.object("topicDetails", v.Topics)
	case *model.Playlist:
		w.item(v.Item, true)
		if v.Localized != nil {
			w.set("snippet.localized", map[string]interface{}{})
			w.text("snippet.localized.title", v.Localized.Title)
			w.text("snippet.localized.description", v.Localized.Description)
		}
		w.set("status.privacyStatus", v.Status)
		if v.ItemCount != nil {
			w.set("contentDetails.itemCount", *v.ItemCount)
		}
		w.set("player.embedHtml", v.Player)
	case *model.Video:
		w.item(v.Item, true)
		w.statistics(v.Statistics, videoCounters, false)
		w.strs("snippet.tags", v.Tags)
		w.set("snippet.categoryId", v.CategoryID)
		w.set("snippet.liveBroadcastContent", v.LiveBroadcastContent)
		w.optStr("snippet.defaultAudioLanguage", v.DefaultAudioLanguage)
		w.set("contentDetails.duration", v.Duration.ISO)
		w.set("contentDetails.dimension", v.Dimension)
		w.set("contentDetails.definition", v.Definition)
		w.set("contentDetails.caption", strconv.FormatBool(v.Caption))
		w.optFlag("contentDetails.licensedContent", v.LicensedContent)
		w.object("contentDetails.contentRating", v.ContentRating)
		w.set("contentDetails.projection", v.Projection)
		w.set("status.uploadStatus", v.UploadStatus)
		w.set("status.privacyStatus", v.PrivacyStatus)
		w.set("status.license", v.License)
		w.optFlag("status.embeddable", v.Embeddable)
		w.optFlag("status.publicStatsViewable", v.PublicStatsViewable)
		w.optFlag("status.madeForKids", v.MadeForKids)
		w.strs("topicDetails.topicCategories", v.TopicCategories)
		w.set("player.embedHtml", v.Player)
	default:
		return nil, fmt.Errorf("mapper: unsupported entity %T", e)
	}
	return w.rec, nil
}

// ToRecords writes a slice of entities back into raw form, preserving order.
func ToRecords[E model.Entity](entities []E) ([]model.RawRecord, error) {
	out := make([]model.RawRecord, 0, len(entities))
	for _, e := range entities {
		rec, err := ToRecord(e)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func copyValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, item := range t {
			out[k] = copyValue(item)
		}
		return out
	case model.RawRecord:
		return copyValue(map[string]interface{}(t))
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = copyValue(item)
		}
		return out
	}
	return v
}
