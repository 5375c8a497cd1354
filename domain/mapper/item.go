package mapper

import (
	"fmt"
	"sort"

	"github.com/jmgomezsoriano/easy-tube/domain/model"
)

// thumbnailKeys is the order in which the API lists thumbnail sizes.
var thumbnailKeys = []string{"default", "medium", "high", "standard", "maxres"}

func (r reader) item(withChannel bool) (model.Item, error) {
	var item model.Item
	kind, err := r.str("kind", "kind")
	if err != nil {
		return item, err
	}
	if kind != r.kind {
		return item, r.fail("kind", "kind", fmt.Errorf("%w: want %q, got %q", errWrongType, r.kind, kind))
	}
	id, err := r.str("id", "id")
	if err != nil {
		return item, err
	}
	if item.Resource, err = model.NewResource(kind, id); err != nil {
		return item, r.fail("id", "id", err)
	}
	if item.Etag, err = r.str("etag", "etag"); err != nil {
		return item, err
	}
	if item.Title, err = r.str("title", "snippet.title"); err != nil {
		return item, err
	}
	if item.Description, err = r.text("description", "snippet.description"); err != nil {
		return item, err
	}
	if item.PublishedAt, err = r.str("publishedAt", "snippet.publishedAt"); err != nil {
		return item, err
	}
	if item.Thumbnails, err = r.thumbnails(); err != nil {
		return item, err
	}
	if withChannel {
		if item.ChannelID, err = r.str("channelId", "snippet.channelId"); err != nil {
			return item, err
		}
		if item.ChannelTitle, err = r.str("channelTitle", "snippet.channelTitle"); err != nil {
			return item, err
		}
	}
	return item, nil
}

func (r reader) thumbnails() ([]model.Thumbnail, error) {
	obj, err := r.object("thumbnails", "snippet.thumbnails")
	if err != nil || len(obj) == 0 {
		return nil, err
	}
	thumbnails := make([]model.Thumbnail, 0, len(obj))
	for _, key := range thumbnailOrder(obj) {
		path := "snippet.thumbnails." + key
		t := model.Thumbnail{Resource: model.Resource{Kind: model.KindThumbnail, ID: key}}
		if t.URL, err = r.str("thumbnail.url", path+".url"); err != nil {
			return nil, err
		}
		if t.Width, err = r.integer("thumbnail.width", path+".width"); err != nil {
			return nil, err
		}
		if t.Height, err = r.integer("thumbnail.height", path+".height"); err != nil {
			return nil, err
		}
		thumbnails = append(thumbnails, t)
	}
	return thumbnails, nil
}

// thumbnailOrder lists the well-known sizes first, then any other key alphabetically.
func thumbnailOrder(obj map[string]interface{}) []string {
	keys := make([]string, 0, len(obj))
	known := make(map[string]bool, len(thumbnailKeys))
	for _, key := range thumbnailKeys {
		known[key] = true
		if _, ok := obj[key]; ok {
			keys = append(keys, key)
		}
	}
	var rest []string
	for key := range obj {
		if !known[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

func counterSlot(s *model.Statistics, name string) **int64 {
	switch name {
	case "viewCount":
		return &s.ViewCount
	case "subscriberCount":
		return &s.SubscriberCount
	case "videoCount":
		return &s.VideoCount
	case "likeCount":
		return &s.LikeCount
	case "dislikeCount":
		return &s.DislikeCount
	case "favoriteCount":
		return &s.FavoriteCount
	case "commentCount":
		return &s.CommentCount
	}
	panic("mapper: unknown counter " + name)
}

func (r reader) statistics(counters []string, withHidden bool) (model.Statistics, error) {
	var s model.Statistics
	for _, name := range counters {
		v, err := r.optInt(name, "statistics."+name)
		if err != nil {
			return s, err
		}
		*counterSlot(&s, name) = v
	}
	if withHidden {
		hidden, err := r.optFlag("hiddenSubscriberCount", "statistics.hiddenSubscriberCount")
		if err != nil {
			return s, err
		}
		s.HiddenSubscriberCount = hidden
	}
	return s, nil
}
