package youtube_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgomezsoriano/easy-tube/domain/mapper"
	"github.com/jmgomezsoriano/easy-tube/domain/mapper/mappertest"
	"github.com/jmgomezsoriano/easy-tube/domain/model"
	"github.com/jmgomezsoriano/easy-tube/domain/repository"
	"github.com/jmgomezsoriano/easy-tube/infrastructure/clients/youtube"
)

type apiServer struct {
	*httptest.Server
	requests []*http.Request
}

// newAPIServer answers every call with handler(collection, query).
func newAPIServer(t *testing.T, handler func(collection string, r *http.Request) (int, interface{})) *apiServer {
	s := &apiServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests = append(s.requests, r)
		collection := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
		status, body := handler(collection, r)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		require.NoError(t, json.NewEncoder(w).Encode(body))
	}))
	t.Cleanup(s.Close)
	return s
}

func newClient(t *testing.T, s *apiServer) repository.ITransport {
	client, err := youtube.NewYouTubeClient(context.Background(), &youtube.Config{APIKey: "test-key", Endpoint: s.URL + "/"})
	require.NoError(t, err)
	return client
}

func listResponse(next string, items ...model.RawRecord) map[string]interface{} {
	resp := map[string]interface{}{"kind": "youtube#listResponse", "items": items}
	if next != "" {
		resp["nextPageToken"] = next
	}
	return resp
}

func TestClient_GetChannel(t *testing.T) {
	s := newAPIServer(t, func(collection string, r *http.Request) (int, interface{}) {
		assert.Equal(t, "channels", collection)
		assert.Equal(t, mappertest.SmartCodeChannelID, r.URL.Query().Get("id"))
		assert.Equal(t, "snippet,contentDetails,statistics,topicDetails", strings.Join(r.URL.Query()["part"], ","))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		return http.StatusOK, listResponse("", mappertest.SmartCodeChannel())
	})

	rec, err := newClient(t, s).Get(context.Background(), model.CollectionChannels, mappertest.SmartCodeChannelID)

	require.NoError(t, err)
	require.NotNil(t, rec)
	ch, err := mapper.New(nil).Channel(rec)
	require.NoError(t, err)
	assert.Equal(t, mappertest.SmartCodeTitle, ch.Title)
	require.NotNil(t, ch.Statistics.ViewCount)
	assert.EqualValues(t, 10532, *ch.Statistics.ViewCount)
}

func TestClient_RecordsMapToEntities(t *testing.T) {
	s := newAPIServer(t, func(collection string, r *http.Request) (int, interface{}) {
		switch collection {
		case "playlists":
			return http.StatusOK, listResponse("", mappertest.PlaylistRecord("PL1", "UC1"))
		case "videos":
			return http.StatusOK, listResponse("", mappertest.VideoRecord("vid1", "UC1"))
		}
		return http.StatusNotFound, map[string]interface{}{}
	})
	client := newClient(t, s)
	m := mapper.New(nil)

	rec, err := client.Get(context.Background(), model.CollectionPlaylists, "PL1")
	require.NoError(t, err)
	p, err := m.Playlist(rec)
	require.NoError(t, err)
	require.NotNil(t, p.ItemCount)
	assert.EqualValues(t, 26, *p.ItemCount)

	rec, err = client.Get(context.Background(), model.CollectionVideos, "vid1")
	require.NoError(t, err)
	v, err := m.Video(rec)
	require.NoError(t, err)
	assert.Equal(t, "PT4M13S", v.Duration.ISO)
	assert.False(t, v.Caption)
}

func TestClient_ListPassesPageSizeAndCursor(t *testing.T) {
	s := newAPIServer(t, func(collection string, r *http.Request) (int, interface{}) {
		assert.Equal(t, "playlistItems", collection)
		assert.Equal(t, "PL1", r.URL.Query().Get("playlistId"))
		assert.Equal(t, "20", r.URL.Query().Get("maxResults"))
		if r.URL.Query().Get("pageToken") == "" {
			return http.StatusOK, listResponse("CBQQAA", mappertest.PlaylistItemRecord("PL1", "vid1", 0))
		}
		assert.Equal(t, "CBQQAA", r.URL.Query().Get("pageToken"))
		return http.StatusOK, listResponse("", mappertest.PlaylistItemRecord("PL1", "vid2", 1))
	})
	client := newClient(t, s)
	req := model.ListRequest{Query: model.Query{Collection: model.CollectionPlaylistItems, Filter: model.ByParent("PL1")}, PageSize: 20}

	page, err := client.List(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "CBQQAA", page.NextCursor)

	req.Cursor = page.NextCursor
	page, err = client.List(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Empty(t, page.NextCursor)
	id, err := mapper.PlaylistItemVideoID(page.Items[0])
	require.NoError(t, err)
	assert.Equal(t, "vid2", id)
}

func TestClient_VideosByIDs(t *testing.T) {
	s := newAPIServer(t, func(collection string, r *http.Request) (int, interface{}) {
		assert.Equal(t, "a,b", strings.Join(r.URL.Query()["id"], ","))
		assert.Empty(t, r.URL.Query().Get("maxResults"))
		return http.StatusOK, listResponse("", mappertest.VideoRecord("a", "UC1"), mappertest.VideoRecord("b", "UC1"))
	})
	req := model.ListRequest{Query: model.Query{Collection: model.CollectionVideos, Filter: model.ByIDs("a", "b")}, PageSize: 2}

	page, err := newClient(t, s).List(context.Background(), req)

	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
}

func TestClient_GetNotFound(t *testing.T) {
	s := newAPIServer(t, func(string, *http.Request) (int, interface{}) {
		return http.StatusOK, listResponse("")
	})

	rec, err := newClient(t, s).Get(context.Background(), model.CollectionChannels, "UCo_fg5ZyCCHt75ryUUa6ebwa")

	assert.NoError(t, err)
	assert.Nil(t, rec)
}

func TestClient_APIError(t *testing.T) {
	s := newAPIServer(t, func(string, *http.Request) (int, interface{}) {
		return http.StatusForbidden, map[string]interface{}{
			"error": map[string]interface{}{"code": 403, "message": "quota exceeded"},
		}
	})

	_, err := newClient(t, s).Get(context.Background(), model.CollectionVideos, "vid1")

	var transportErr *model.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, http.StatusForbidden, transportErr.StatusCode)
	assert.Equal(t, model.CollectionVideos, transportErr.Collection)
}

func TestClient_UnsupportedFilter(t *testing.T) {
	s := newAPIServer(t, func(string, *http.Request) (int, interface{}) {
		return http.StatusOK, listResponse("")
	})
	client := newClient(t, s)

	for _, q := range []model.Query{
		{Collection: model.CollectionVideos, Filter: model.ByParent("PL1")},
		{Collection: model.CollectionChannels, Filter: model.ByParent("UC1")},
		{Collection: model.CollectionPlaylistItems, Filter: model.Mine()},
		{Collection: model.CollectionPlaylists, Filter: model.ByUsername("someone")},
	} {
		_, err := client.List(context.Background(), model.ListRequest{Query: q, PageSize: 5})
		assert.ErrorIs(t, err, model.ErrUnsupportedFilter, q.String())
	}
	assert.Empty(t, s.requests)
}

func TestNewYouTubeClient_RequiresCredentials(t *testing.T) {
	_, err := youtube.NewYouTubeClient(context.Background(), &youtube.Config{})
	assert.Error(t, err)
}

func zeroStatsVideo(id string) model.RawRecord {
	rec := mappertest.VideoRecord(id, "UC1")
	rec["statistics"] = map[string]interface{}{
		"viewCount":     "12",
		"likeCount":     "0",
		"commentCount":  "0",
		"favoriteCount": "0",
	}
	rec["status"] = map[string]interface{}{
		"uploadStatus":        "processed",
		"privacyStatus":       "public",
		"license":             "youtube",
		"embeddable":          false,
		"publicStatsViewable": false,
		"madeForKids":         false,
	}
	rec["contentDetails"].(map[string]interface{})["licensedContent"] = false
	return rec
}

func TestClient_KeepsZeroCountersAndFalseFlags(t *testing.T) {
	sent := zeroStatsVideo("vid0")
	channel := mappertest.ChannelRecord("UC0", "Quiet", "UU0")
	channel["statistics"] = map[string]interface{}{
		"viewCount":             "0",
		"subscriberCount":       "0",
		"hiddenSubscriberCount": false,
		"videoCount":            "0",
	}
	playlist := mappertest.PlaylistRecord("PL0", "UC0")
	playlist["contentDetails"] = map[string]interface{}{"itemCount": 0}

	s := newAPIServer(t, func(collection string, r *http.Request) (int, interface{}) {
		switch collection {
		case "videos":
			return http.StatusOK, listResponse("", sent)
		case "channels":
			return http.StatusOK, listResponse("", channel)
		case "playlists":
			return http.StatusOK, listResponse("", playlist)
		}
		return http.StatusNotFound, map[string]interface{}{}
	})
	client := newClient(t, s)
	m := mapper.New(nil)

	rec, err := client.Get(context.Background(), model.CollectionVideos, "vid0")
	require.NoError(t, err)
	assert.Equal(t, sent["statistics"], rec["statistics"])
	assert.Equal(t, sent["status"], rec["status"])
	assert.Equal(t, false, rec["contentDetails"].(map[string]interface{})["licensedContent"])

	v, err := m.Video(rec)
	require.NoError(t, err)
	require.NotNil(t, v.Statistics.ViewCount)
	assert.EqualValues(t, 12, *v.Statistics.ViewCount)
	for name, counter := range map[string]*int64{
		"likeCount":     v.Statistics.LikeCount,
		"commentCount":  v.Statistics.CommentCount,
		"favoriteCount": v.Statistics.FavoriteCount,
	} {
		require.NotNil(t, counter, name)
		assert.Zero(t, *counter, name)
	}
	assert.Nil(t, v.Statistics.DislikeCount)
	for name, flag := range map[string]*bool{
		"embeddable":          v.Embeddable,
		"publicStatsViewable": v.PublicStatsViewable,
		"madeForKids":         v.MadeForKids,
		"licensedContent":     v.LicensedContent,
	} {
		require.NotNil(t, flag, name)
		assert.False(t, *flag, name)
	}

	rec, err = client.Get(context.Background(), model.CollectionChannels, "UC0")
	require.NoError(t, err)
	ch, err := m.Channel(rec)
	require.NoError(t, err)
	require.NotNil(t, ch.Statistics.HiddenSubscriberCount)
	assert.False(t, *ch.Statistics.HiddenSubscriberCount)
	require.NotNil(t, ch.Statistics.SubscriberCount)
	assert.Zero(t, *ch.Statistics.SubscriberCount)

	rec, err = client.Get(context.Background(), model.CollectionPlaylists, "PL0")
	require.NoError(t, err)
	assert.Equal(t, json.Number("0"), rec["contentDetails"].(map[string]interface{})["itemCount"])
	p, err := m.Playlist(rec)
	require.NoError(t, err)
	require.NotNil(t, p.ItemCount)
	assert.Zero(t, *p.ItemCount)
}

type headerTransport struct {
	next http.RoundTripper
}

func (t headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer oauth-token")
	return t.next.RoundTrip(req)
}

func TestClient_AuthorizedHTTPClient(t *testing.T) {
	s := newAPIServer(t, func(collection string, r *http.Request) (int, interface{}) {
		assert.Equal(t, "Bearer oauth-token", r.Header.Get("Authorization"))
		assert.Empty(t, r.URL.Query().Get("key"))
		return http.StatusOK, listResponse("", zeroStatsVideo("vid0"))
	})
	httpClient := &http.Client{Transport: headerTransport{next: http.DefaultTransport}}
	client, err := youtube.NewYouTubeClient(context.Background(), &youtube.Config{HTTPClient: httpClient, Endpoint: s.URL + "/"})
	require.NoError(t, err)

	rec, err := client.Get(context.Background(), model.CollectionVideos, "vid0")
	require.NoError(t, err)
	v, err := mapper.New(nil).Video(rec)
	require.NoError(t, err)
	require.NotNil(t, v.Statistics.LikeCount)
	assert.Zero(t, *v.Statistics.LikeCount)
	require.NotNil(t, v.Embeddable)
	assert.False(t, *v.Embeddable)
	assert.Equal(t, http.DefaultTransport, httpClient.Transport.(headerTransport).next)
}
