package mapper

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgomezsoriano/easy-tube/domain/mapper/mappertest"
	"github.com/jmgomezsoriano/easy-tube/domain/model"
)

func assertRoundTrip(t *testing.T, rec model.RawRecord, e model.Entity) {
	t.Helper()
	out, err := ToRecord(e)
	require.NoError(t, err)
	want, err := json.Marshal(rec)
	require.NoError(t, err)
	got, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(got))
}

func deleteField(rec model.RawRecord, parent, key string) model.RawRecord {
	if parent == "" {
		delete(rec, key)
		return rec
	}
	delete(rec[parent].(map[string]interface{}), key)
	return rec
}

func TestMapper_Channel(t *testing.T) {
	rec := mappertest.SmartCodeChannel()

	ch, err := New(nil).Channel(rec)

	require.NoError(t, err)
	assert.Equal(t, model.Resource{Kind: model.KindChannel, ID: mappertest.SmartCodeChannelID}, ch.Identity())
	assert.Equal(t, mappertest.SmartCodeTitle, ch.Title)
	assert.Equal(t, ch.ID, ch.ChannelID)
	assert.Equal(t, ch.Title, ch.ChannelTitle)
	assert.Equal(t, mappertest.SmartCodeUploadsID, ch.UploadsID)
	require.NotNil(t, ch.CustomURL)
	assert.Equal(t, "@asmartcode", *ch.CustomURL)
	require.NotNil(t, ch.Statistics.SubscriberCount)
	assert.EqualValues(t, 321, *ch.Statistics.SubscriberCount)
	require.NotNil(t, ch.Statistics.HiddenSubscriberCount)
	assert.False(t, *ch.Statistics.HiddenSubscriberCount)
	assert.Nil(t, ch.Statistics.LikeCount)
	assert.Equal(t, "https://www.youtube.com/channel/UCo_fg5ZyCCHt75ryUUa6ebw", ch.URL())

	assertRoundTrip(t, rec, ch)
}

func TestMapper_Playlist(t *testing.T) {
	rec := mappertest.PlaylistRecord("PL1", mappertest.SmartCodeChannelID)

	p, err := New(nil).Playlist(rec)

	require.NoError(t, err)
	assert.Equal(t, "PL1", p.ID)
	assert.Equal(t, mappertest.SmartCodeChannelID, p.ChannelID)
	assert.Equal(t, "public", p.Status)
	require.NotNil(t, p.ItemCount)
	assert.EqualValues(t, 26, *p.ItemCount)
	require.NotNil(t, p.Localized)
	assert.Equal(t, "Playlist PL1", p.Localized.Title)
	assert.Contains(t, p.PlayerHTML(), "list=PL1")
	assert.Equal(t, "https://www.youtube.com/playlist?list=PL1", p.URL())

	assertRoundTrip(t, rec, p)
}

func TestMapper_Video(t *testing.T) {
	rec := mappertest.VideoRecord("vid1", mappertest.SmartCodeChannelID)

	v, err := New(nil).Video(rec)

	require.NoError(t, err)
	assert.Equal(t, "vid1", v.ID)
	assert.Equal(t, []string{"go", "youtube"}, v.Tags)
	assert.Equal(t, "PT4M13S", v.Duration.String())
	assert.Equal(t, 4*time.Minute+13*time.Second, v.Duration.Value)
	assert.False(t, v.Caption)
	require.NotNil(t, v.LicensedContent)
	assert.True(t, *v.LicensedContent)
	require.NotNil(t, v.Statistics.ViewCount)
	assert.EqualValues(t, 1500, *v.Statistics.ViewCount)
	assert.Nil(t, v.Statistics.DislikeCount)
	require.NotNil(t, v.DefaultAudioLanguage)
	assert.Equal(t, "es", *v.DefaultAudioLanguage)
	assert.Equal(t, "https://www.youtube.com/watch?v=vid1", v.URL())

	assertRoundTrip(t, rec, v)
}

func TestMapper_ToEntity(t *testing.T) {
	m := New(nil)

	e, err := m.ToEntity(model.KindVideo, mappertest.VideoRecord("vid1", "UC1"))
	require.NoError(t, err)
	assert.IsType(t, &model.Video{}, e)

	_, err = m.ToEntity(model.KindPlaylistItem, mappertest.PlaylistItemRecord("PL1", "vid1", 0))
	assert.Error(t, err)
}

func TestMapper_MissingRequiredField(t *testing.T) {
	tests := []struct {
		name  string
		rec   model.RawRecord
		kind  string
		field string
		path  string
	}{
		{
			name:  "channel title",
			rec:   deleteField(mappertest.SmartCodeChannel(), "snippet", "title"),
			kind:  model.KindChannel,
			field: "title",
			path:  "snippet.title",
		},
		{
			name:  "channel id",
			rec:   deleteField(mappertest.SmartCodeChannel(), "", "id"),
			kind:  model.KindChannel,
			field: "id",
			path:  "id",
		},
		{
			name:  "playlist status",
			rec:   deleteField(mappertest.PlaylistRecord("PL1", "UC1"), "status", "privacyStatus"),
			kind:  model.KindPlaylist,
			field: "status",
			path:  "status.privacyStatus",
		},
		{
			name:  "video duration",
			rec:   deleteField(mappertest.VideoRecord("vid1", "UC1"), "contentDetails", "duration"),
			kind:  model.KindVideo,
			field: "duration",
			path:  "contentDetails.duration",
		},
		{
			name:  "video player",
			rec:   deleteField(mappertest.VideoRecord("vid1", "UC1"), "", "player"),
			kind:  model.KindVideo,
			field: "player",
			path:  "player.embedHtml",
		},
	}

	m := New(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.ToEntity(tt.kind, tt.rec)

			var mappingErr *model.MappingError
			require.ErrorAs(t, err, &mappingErr)
			assert.Equal(t, tt.field, mappingErr.Field)
			assert.Equal(t, tt.path, mappingErr.Path)
			assert.True(t, errors.Is(err, model.ErrMissingField))
		})
	}
}

func TestMapper_OptionalFieldsUnset(t *testing.T) {
	rec := mappertest.VideoRecord("vid1", "UC1")
	deleteField(rec, "", "statistics")
	deleteField(rec, "", "topicDetails")
	deleteField(rec, "snippet", "tags")
	deleteField(rec, "snippet", "description")
	deleteField(rec, "snippet", "defaultAudioLanguage")
	deleteField(rec, "status", "madeForKids")

	v, err := New(nil).Video(rec)

	require.NoError(t, err)
	assert.Equal(t, model.Statistics{}, v.Statistics)
	assert.Nil(t, v.Tags)
	assert.Nil(t, v.TopicCategories)
	assert.Nil(t, v.DefaultAudioLanguage)
	assert.Nil(t, v.MadeForKids)
	assert.Empty(t, v.Description)

	assertRoundTrip(t, rec, v)
}

func TestMapper_CaptionIsCaseInsensitive(t *testing.T) {
	for _, caption := range []interface{}{"TRUE", "True", "true", true} {
		rec := mappertest.VideoRecord("vid1", "UC1")
		rec["contentDetails"].(map[string]interface{})["caption"] = caption

		v, err := New(nil).Video(rec)

		require.NoError(t, err)
		assert.True(t, v.Caption, "caption %v", caption)
	}

	rec := mappertest.VideoRecord("vid1", "UC1")
	rec["contentDetails"].(map[string]interface{})["caption"] = "maybe"
	_, err := New(nil).Video(rec)
	var mappingErr *model.MappingError
	require.ErrorAs(t, err, &mappingErr)
	assert.Equal(t, "caption", mappingErr.Field)
}

func TestMapper_CounterFormats(t *testing.T) {
	for _, count := range []interface{}{"42", json.Number("42"), float64(42), int64(42), 42} {
		rec := mappertest.VideoRecord("vid1", "UC1")
		rec["statistics"].(map[string]interface{})["likeCount"] = count

		v, err := New(nil).Video(rec)

		require.NoError(t, err)
		require.NotNil(t, v.Statistics.LikeCount)
		assert.EqualValues(t, 42, *v.Statistics.LikeCount)
	}

	rec := mappertest.VideoRecord("vid1", "UC1")
	rec["statistics"].(map[string]interface{})["likeCount"] = "forty-two"
	_, err := New(nil).Video(rec)
	var mappingErr *model.MappingError
	require.ErrorAs(t, err, &mappingErr)
	assert.Equal(t, "statistics.likeCount", mappingErr.Path)
}

func TestMapper_BadDuration(t *testing.T) {
	rec := mappertest.VideoRecord("vid1", "UC1")
	rec["contentDetails"].(map[string]interface{})["duration"] = "four minutes"

	_, err := New(nil).Video(rec)

	var mappingErr *model.MappingError
	require.ErrorAs(t, err, &mappingErr)
	assert.Equal(t, "duration", mappingErr.Field)
	assert.False(t, errors.Is(err, model.ErrMissingField))
}

func TestMapper_WrongKind(t *testing.T) {
	_, err := New(nil).Channel(mappertest.VideoRecord("vid1", "UC1"))

	var mappingErr *model.MappingError
	require.ErrorAs(t, err, &mappingErr)
	assert.Equal(t, "kind", mappingErr.Field)
}

func TestMapper_NonObjectIntermediate(t *testing.T) {
	rec := mappertest.SmartCodeChannel()
	rec["snippet"] = "not an object"

	_, err := New(nil).Channel(rec)

	var mappingErr *model.MappingError
	require.ErrorAs(t, err, &mappingErr)
	assert.ErrorIs(t, err, errWrongType)
}

func TestMapper_ThumbnailOrder(t *testing.T) {
	rec := mappertest.SmartCodeChannel()
	thumbs := rec["snippet"].(map[string]interface{})["thumbnails"].(map[string]interface{})
	thumbs["maxres"] = map[string]interface{}{"url": "https://i.ytimg.com/maxres.jpg", "width": 1280, "height": 720}
	thumbs["custom"] = map[string]interface{}{"url": "https://i.ytimg.com/custom.jpg", "width": 10, "height": 10}

	ch, err := New(nil).Channel(rec)

	require.NoError(t, err)
	var keys []string
	for _, th := range ch.Thumbnails {
		keys = append(keys, th.ID)
		assert.Equal(t, model.KindThumbnail, th.Kind)
	}
	assert.Equal(t, []string{"default", "medium", "high", "maxres", "custom"}, keys)

	maxres, ok := ch.Thumbnail("maxres")
	require.True(t, ok)
	assert.EqualValues(t, 1280, maxres.Width)
	_, ok = ch.Thumbnail("standard")
	assert.False(t, ok)
}

func TestMapper_TopicsAreCopied(t *testing.T) {
	rec := mappertest.SmartCodeChannel()

	ch, err := New(nil).Channel(rec)
	require.NoError(t, err)
	ch.Topics["topicIds"] = nil

	assert.NotNil(t, rec["topicDetails"].(map[string]interface{})["topicIds"])
}

func TestPlaylistItemVideoID(t *testing.T) {
	rec := mappertest.PlaylistItemRecord("PL1", "vid7", 3)

	id, err := PlaylistItemVideoID(rec)
	require.NoError(t, err)
	assert.Equal(t, "vid7", id)

	delete(rec, "contentDetails")
	id, err = PlaylistItemVideoID(rec)
	require.NoError(t, err)
	assert.Equal(t, "vid7", id)

	delete(rec, "snippet")
	_, err = PlaylistItemVideoID(rec)
	assert.ErrorIs(t, err, model.ErrMissingField)
}

func TestToRecords(t *testing.T) {
	m := New(nil)
	var videos []*model.Video
	for _, id := range mappertest.VideoIDs("v", 3) {
		v, err := m.Video(mappertest.VideoRecord(id, "UC1"))
		require.NoError(t, err)
		videos = append(videos, v)
	}

	recs, err := ToRecords(videos)

	require.NoError(t, err)
	require.Len(t, recs, 3)
	for i, rec := range recs {
		assert.Equal(t, videos[i].ID, rec["id"])
	}
}
