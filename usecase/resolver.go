package usecase

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jmgomezsoriano/easy-tube/domain/mapper"
	"github.com/jmgomezsoriano/easy-tube/domain/model"
	"github.com/jmgomezsoriano/easy-tube/domain/repository"
	"github.com/jmgomezsoriano/easy-tube/infrastructure/logger"
)

// IResolver fetches entities and resolves the relationships between them.
type IResolver interface {
	model.Loader
	Video(ctx context.Context, id string) (*model.Video, error)
	ChannelUploads(ctx context.Context, channelID string) (*model.Playlist, error)
	ChannelsByUsername(ctx context.Context, username string) ([]*model.Channel, error)
	MyChannels(ctx context.Context) ([]*model.Channel, error)
}

// ResolverConfig tunes the fetches issued by a Resolver. Zero values select the defaults.
type ResolverConfig struct {
	PageSize int64
	// VideoBatchSize is the number of ids per videos call, at most DefaultPageSize.
	VideoBatchSize int64
	// EagerUploads resolves the uploads playlist of every channel as soon as it is fetched.
	EagerUploads bool
}

type Resolver struct {
	transport repository.ITransport
	paginator IPaginator
	mapper    *mapper.Mapper
	cfg       ResolverConfig
}

func NewResolver(transport repository.ITransport, paginator IPaginator, cfg ResolverConfig) IResolver {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.VideoBatchSize <= 0 || cfg.VideoBatchSize > DefaultPageSize {
		cfg.VideoBatchSize = DefaultPageSize
	}
	r := &Resolver{transport: transport, paginator: paginator, cfg: cfg}
	r.mapper = mapper.New(r)
	return r
}

func (r *Resolver) Channel(ctx context.Context, id string) (*model.Channel, error) {
	if id == "" {
		return nil, nil
	}
	rec, err := r.transport.Get(ctx, model.CollectionChannels, id)
	if err != nil || rec == nil {
		return nil, err
	}
	return r.channel(ctx, rec)
}

func (r *Resolver) channel(ctx context.Context, rec model.RawRecord) (*model.Channel, error) {
	ch, err := r.mapper.Channel(rec)
	if err != nil {
		return nil, err
	}
	if r.cfg.EagerUploads {
		if _, err := ch.Uploads(ctx); err != nil {
			return nil, err
		}
	}
	return ch, nil
}

func (r *Resolver) channels(ctx context.Context, filter model.Filter) ([]*model.Channel, error) {
	query := model.Query{Collection: model.CollectionChannels, Filter: filter}
	records, err := r.paginator.Paginate(ctx, query, r.cfg.PageSize, 0)
	if err != nil {
		return nil, err
	}
	channels := make([]*model.Channel, 0, len(records))
	for _, rec := range records {
		ch, err := r.channel(ctx, rec)
		if err != nil {
			return nil, err
		}
		channels = append(channels, ch)
	}
	return channels, nil
}

func (r *Resolver) ChannelsByUsername(ctx context.Context, username string) ([]*model.Channel, error) {
	return r.channels(ctx, model.ByUsername(username))
}

func (r *Resolver) MyChannels(ctx context.Context) ([]*model.Channel, error) {
	return r.channels(ctx, model.Mine())
}

func (r *Resolver) ChannelUploads(ctx context.Context, channelID string) (*model.Playlist, error) {
	ch, err := r.Channel(ctx, channelID)
	if err != nil || ch == nil {
		return nil, err
	}
	return ch.Uploads(ctx)
}

func (r *Resolver) Playlist(ctx context.Context, id string) (*model.Playlist, error) {
	if id == "" {
		return nil, nil
	}
	rec, err := r.transport.Get(ctx, model.CollectionPlaylists, id)
	if err != nil || rec == nil {
		return nil, err
	}
	return r.mapper.Playlist(rec)
}

func (r *Resolver) Video(ctx context.Context, id string) (*model.Video, error) {
	if id == "" {
		return nil, nil
	}
	rec, err := r.transport.Get(ctx, model.CollectionVideos, id)
	if err != nil || rec == nil {
		return nil, err
	}
	return r.mapper.Video(rec)
}

func (r *Resolver) ChannelPlaylists(ctx context.Context, channelID string) ([]*model.Playlist, error) {
	query := model.Query{Collection: model.CollectionPlaylists, Filter: model.ByParent(channelID)}
	records, err := r.paginator.Paginate(ctx, query, r.cfg.PageSize, 0)
	if err != nil {
		return nil, err
	}
	playlists := make([]*model.Playlist, 0, len(records))
	for _, rec := range records {
		p, err := r.mapper.Playlist(rec)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, p)
	}
	return playlists, nil
}

// PlaylistVideos lists the playlist items first, then fetches their videos by id in batches.
func (r *Resolver) PlaylistVideos(ctx context.Context, playlistID string) ([]*model.Video, error) {
	query := model.Query{Collection: model.CollectionPlaylistItems, Filter: model.ByParent(playlistID)}
	items, err := r.paginator.Paginate(ctx, query, r.cfg.PageSize, 0)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(items))
	for _, item := range items {
		id, err := mapper.PlaylistItemVideoID(item)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	byID, err := r.videosByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	videos := make([]*model.Video, 0, len(ids))
	for _, id := range ids {
		v, ok := byID[id]
		if !ok {
			logger.GetLogger().
				WithField("playlistId", playlistID).
				WithField("videoId", id).
				Warn("Playlist item points to a video the API did not return, skipping")
			continue
		}
		videos = append(videos, v)
	}
	return videos, nil
}

// videosByID fetches the distinct ids in chunks of cfg.VideoBatchSize, one goroutine per chunk.
func (r *Resolver) videosByID(ctx context.Context, ids []string) (map[string]*model.Video, error) {
	seen := make(map[string]bool, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	var mu sync.Mutex
	byID := make(map[string]*model.Video, len(unique))
	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < len(unique); start += int(r.cfg.VideoBatchSize) {
		end := start + int(r.cfg.VideoBatchSize)
		if end > len(unique) {
			end = len(unique)
		}
		chunk := unique[start:end]
		g.Go(func() error {
			query := model.Query{Collection: model.CollectionVideos, Filter: model.ByIDs(chunk...)}
			records, err := r.paginator.Paginate(gctx, query, int64(len(chunk)), 0)
			if err != nil {
				return err
			}
			videos := make([]*model.Video, 0, len(records))
			for _, rec := range records {
				v, err := r.mapper.Video(rec)
				if err != nil {
					return err
				}
				videos = append(videos, v)
			}
			mu.Lock()
			defer mu.Unlock()
			for _, v := range videos {
				byID[v.ID] = v
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.GetLogger().
		WithField("requested", len(unique)).
		WithField("returned", len(byID)).
		Debug("Fetched videos by id")
	return byID, nil
}
