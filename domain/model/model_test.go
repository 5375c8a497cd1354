package model

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_Validate(t *testing.T) {
	tests := []struct {
		name    string
		filter  Filter
		wantErr bool
	}{
		{name: "parent", filter: ByParent("UC1")},
		{name: "ids", filter: ByIDs("a", "b")},
		{name: "username", filter: ByUsername("asmartcode")},
		{name: "mine", filter: Mine()},
		{name: "empty", filter: Filter{}, wantErr: true},
		{name: "empty ids", filter: ByIDs(), wantErr: true},
		{name: "blank id", filter: ByIDs(""), wantErr: true},
		{name: "blank id among others", filter: ByIDs("a", ""), wantErr: true},
		{name: "two dimensions", filter: Filter{ParentID: "UC1", Mine: true}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.filter.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidFilter)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestQuery_String(t *testing.T) {
	q := Query{Collection: CollectionVideos, Filter: ByIDs("a", "b")}
	assert.Equal(t, "videos[id=a,b]", q.String())
	assert.Equal(t, "channels[mine]", Query{Collection: CollectionChannels, Filter: Mine()}.String())
}

func TestNewResource(t *testing.T) {
	r, err := NewResource(KindVideo, "vid1")
	require.NoError(t, err)
	assert.Equal(t, "youtube#video[vid1]", r.String())
	assert.Equal(t, r, r.Identity())

	_, err = NewResource(KindVideo, "")
	assert.Error(t, err)
	_, err = NewResource("", "vid1")
	assert.Error(t, err)
}

func TestParseDuration(t *testing.T) {
	d, err := ParseDuration("PT1H2M3S")
	require.NoError(t, err)
	assert.Equal(t, time.Hour+2*time.Minute+3*time.Second, d.Value)
	assert.Equal(t, "PT1H2M3S", d.String())

	b, err := d.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"PT1H2M3S"`, string(b))

	_, err = ParseDuration("1h2m")
	assert.Error(t, err)
}

type countingLoader struct {
	playlistCalls  int32
	channelCalls   int32
	playlistsCalls int32
	videosCalls    int32
	fail           error
}

func (l *countingLoader) Channel(_ context.Context, id string) (*Channel, error) {
	atomic.AddInt32(&l.channelCalls, 1)
	if l.fail != nil {
		return nil, l.fail
	}
	return &Channel{Item: Item{Resource: Resource{Kind: KindChannel, ID: id}}}, nil
}

func (l *countingLoader) Playlist(_ context.Context, id string) (*Playlist, error) {
	atomic.AddInt32(&l.playlistCalls, 1)
	if l.fail != nil {
		return nil, l.fail
	}
	return &Playlist{Item: Item{Resource: Resource{Kind: KindPlaylist, ID: id}}}, nil
}

func (l *countingLoader) ChannelPlaylists(_ context.Context, channelID string) ([]*Playlist, error) {
	atomic.AddInt32(&l.playlistsCalls, 1)
	if l.fail != nil {
		return nil, l.fail
	}
	return []*Playlist{
		{Item: Item{Resource: Resource{Kind: KindPlaylist, ID: "PL1"}, ChannelID: channelID}},
		{Item: Item{Resource: Resource{Kind: KindPlaylist, ID: "PL2"}, ChannelID: channelID}},
	}, nil
}

func (l *countingLoader) PlaylistVideos(_ context.Context, _ string) ([]*Video, error) {
	atomic.AddInt32(&l.videosCalls, 1)
	if l.fail != nil {
		return nil, l.fail
	}
	v := &Video{Item: Item{Resource: Resource{Kind: KindVideo, ID: "vid1"}}}
	return []*Video{v, v}, nil
}

func TestChannel_LazyAccessorsAreMemoized(t *testing.T) {
	ctx := context.Background()
	loader := &countingLoader{}
	ch := (&Channel{Item: Item{Resource: Resource{Kind: KindChannel, ID: "UC1"}}, UploadsID: "UU1"}).Bind(loader)

	assert.False(t, ch.UploadsLoaded())
	uploads, err := ch.Uploads(ctx)
	require.NoError(t, err)
	assert.Equal(t, "UU1", uploads.ID)
	assert.True(t, ch.UploadsLoaded())

	again, err := ch.Uploads(ctx)
	require.NoError(t, err)
	assert.Same(t, uploads, again)
	assert.EqualValues(t, 1, loader.playlistCalls)

	n, err := ch.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	children, err := ch.Children(ctx)
	require.NoError(t, err)
	assert.Len(t, children, 2)
	assert.EqualValues(t, 1, loader.playlistsCalls)
}

func TestPlaylist_VideosKeepDuplicates(t *testing.T) {
	ctx := context.Background()
	loader := &countingLoader{}
	p := (&Playlist{Item: Item{Resource: Resource{Kind: KindPlaylist, ID: "PL1"}}}).Bind(loader)

	n, err := p.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	videos, err := p.Children(ctx)
	require.NoError(t, err)
	assert.Same(t, videos[0], videos[1])
	assert.EqualValues(t, 1, loader.videosCalls)
}

func TestVideo_FailedLoadIsNotCached(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	loader := &countingLoader{fail: boom}
	v := (&Video{Item: Item{Resource: Resource{Kind: KindVideo, ID: "vid1"}, ChannelID: "UC1"}}).Bind(loader)

	_, err := v.Channel(ctx)
	assert.ErrorIs(t, err, boom)

	loader.fail = nil
	ch, err := v.Channel(ctx)
	require.NoError(t, err)
	assert.Equal(t, "UC1", ch.ID)
	assert.EqualValues(t, 2, loader.channelCalls)
}

func TestLazy_ConcurrentAccessReturnsOneValue(t *testing.T) {
	ctx := context.Background()
	loader := &countingLoader{}
	v := (&Video{Item: Item{Resource: Resource{Kind: KindVideo, ID: "vid1"}, ChannelID: "UC1"}}).Bind(loader)

	var wg sync.WaitGroup
	results := make([]*Channel, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ch, err := v.Channel(ctx)
			assert.NoError(t, err)
			results[i] = ch
		}(i)
	}
	wg.Wait()

	for _, ch := range results {
		assert.Same(t, results[0], ch)
	}
}

func TestDetachedEntities(t *testing.T) {
	ctx := context.Background()

	_, err := (&Channel{UploadsID: "UU1"}).Uploads(ctx)
	assert.ErrorIs(t, err, ErrDetached)
	_, err = (&Channel{}).Playlists(ctx)
	assert.ErrorIs(t, err, ErrDetached)
	_, err = (&Playlist{}).Videos(ctx)
	assert.ErrorIs(t, err, ErrDetached)
	_, err = (&Video{}).Channel(ctx)
	assert.ErrorIs(t, err, ErrDetached)
}

func TestErrors(t *testing.T) {
	err := &MappingError{Kind: KindVideo, Field: "title", Path: "snippet.title", Err: ErrMissingField}
	assert.Equal(t, `map youtube#video: field title at "snippet.title": missing required field`, err.Error())
	assert.ErrorIs(t, err, ErrMissingField)

	terr := &TransportError{Op: "list", Collection: CollectionVideos, StatusCode: 403, Err: errors.New("quota")}
	assert.Equal(t, "transport list videos: status 403: quota", terr.Error())
}
