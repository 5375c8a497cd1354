package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/jmgomezsoriano/easy-tube/domain/model"
	"github.com/jmgomezsoriano/easy-tube/domain/repository"
)

// parts requested per collection; they cover every field the mapper reads.
var parts = map[model.Collection][]string{
	model.CollectionChannels:      {"snippet", "contentDetails", "statistics", "topicDetails"},
	model.CollectionPlaylists:     {"snippet", "status", "contentDetails", "player"},
	model.CollectionPlaylistItems: {"snippet", "contentDetails"},
	model.CollectionVideos:        {"snippet", "contentDetails", "status", "statistics", "topicDetails", "player"},
}

// Config selects how the client authenticates. HTTPClient takes precedence over APIKey.
type Config struct {
	APIKey string
	// HTTPClient is usually an OAuth2 client from the auth package.
	HTTPClient *http.Client
	// Endpoint overrides the API base URL.
	Endpoint string
}

// Client lists YouTube Data API v3 collections as raw records.
type Client struct {
	service *youtube.Service
}

// NewYouTubeClient creates a read-only YouTube API client
func NewYouTubeClient(ctx context.Context, config *Config) (repository.ITransport, error) {
	httpClient := &http.Client{}
	switch {
	case config.HTTPClient != nil:
		*httpClient = *config.HTTPClient
		httpClient.Transport = &rawBodyTransport{next: config.HTTPClient.Transport}
	case config.APIKey != "":
		httpClient.Transport = &rawBodyTransport{key: config.APIKey}
	default:
		return nil, errors.New("youtube client requires an API key or an authorized HTTP client")
	}
	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if config.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(config.Endpoint))
	}

	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return &Client{service: service}, nil
}

func (c *Client) List(ctx context.Context, req model.ListRequest) (*model.Page, error) {
	if err := req.Filter.Validate(); err != nil {
		return nil, err
	}

	var (
		records []model.RawRecord
		next    string
		err     error
	)
	switch req.Collection {
	case model.CollectionChannels:
		records, next, err = c.listChannels(ctx, req)
	case model.CollectionPlaylists:
		records, next, err = c.listPlaylists(ctx, req)
	case model.CollectionPlaylistItems:
		records, next, err = c.listPlaylistItems(ctx, req)
	case model.CollectionVideos:
		records, next, err = c.listVideos(ctx, req)
	default:
		return nil, fmt.Errorf("%w: unknown collection %q", model.ErrUnsupportedFilter, req.Collection)
	}
	if err != nil {
		if errors.Is(err, model.ErrUnsupportedFilter) {
			return nil, err
		}
		return nil, transportError("list", req.Collection, err)
	}
	return &model.Page{Items: records, NextCursor: next}, nil
}

// Get lists collection by a single id and returns the first record, or nil when there is none.
func (c *Client) Get(ctx context.Context, collection model.Collection, id string) (model.RawRecord, error) {
	page, err := c.List(ctx, model.ListRequest{Query: model.Query{Collection: collection, Filter: model.ByIDs(id)}, PageSize: 1})
	if err != nil || len(page.Items) == 0 {
		return nil, err
	}
	return page.Items[0], nil
}

func unsupported(req model.ListRequest) error {
	return fmt.Errorf("%w: %s cannot be listed by %s", model.ErrUnsupportedFilter, req.Collection, req.Filter)
}

func (c *Client) listChannels(ctx context.Context, req model.ListRequest) ([]model.RawRecord, string, error) {
	ctx, raw := withRawBody(ctx)
	call := c.service.Channels.List(parts[req.Collection]).Context(ctx)
	switch f := req.Filter; {
	case len(f.IDs) > 0:
		call = call.Id(f.IDs...)
	case f.Username != "":
		call = call.ForUsername(f.Username).MaxResults(req.PageSize)
	case f.Mine:
		call = call.Mine(true).MaxResults(req.PageSize)
	default:
		return nil, "", unsupported(req)
	}
	if req.Cursor != "" {
		call = call.PageToken(req.Cursor)
	}
	if _, err := call.Do(); err != nil {
		return nil, "", err
	}
	return decodeList(raw)
}

func (c *Client) listPlaylists(ctx context.Context, req model.ListRequest) ([]model.RawRecord, string, error) {
	ctx, raw := withRawBody(ctx)
	call := c.service.Playlists.List(parts[req.Collection]).Context(ctx)
	switch f := req.Filter; {
	case len(f.IDs) > 0:
		call = call.Id(f.IDs...)
	case f.ParentID != "":
		call = call.ChannelId(f.ParentID).MaxResults(req.PageSize)
	case f.Mine:
		call = call.Mine(true).MaxResults(req.PageSize)
	default:
		return nil, "", unsupported(req)
	}
	if req.Cursor != "" {
		call = call.PageToken(req.Cursor)
	}
	if _, err := call.Do(); err != nil {
		return nil, "", err
	}
	return decodeList(raw)
}

func (c *Client) listPlaylistItems(ctx context.Context, req model.ListRequest) ([]model.RawRecord, string, error) {
	ctx, raw := withRawBody(ctx)
	call := c.service.PlaylistItems.List(parts[req.Collection]).Context(ctx)
	switch f := req.Filter; {
	case len(f.IDs) > 0:
		call = call.Id(f.IDs...)
	case f.ParentID != "":
		call = call.PlaylistId(f.ParentID).MaxResults(req.PageSize)
	default:
		return nil, "", unsupported(req)
	}
	if req.Cursor != "" {
		call = call.PageToken(req.Cursor)
	}
	if _, err := call.Do(); err != nil {
		return nil, "", err
	}
	return decodeList(raw)
}

// listVideos only supports ids: maxResults cannot be combined with the id parameter.
func (c *Client) listVideos(ctx context.Context, req model.ListRequest) ([]model.RawRecord, string, error) {
	if len(req.Filter.IDs) == 0 {
		return nil, "", unsupported(req)
	}
	ctx, raw := withRawBody(ctx)
	call := c.service.Videos.List(parts[req.Collection]).Id(req.Filter.IDs...).Context(ctx)
	if req.Cursor != "" {
		call = call.PageToken(req.Cursor)
	}
	if _, err := call.Do(); err != nil {
		return nil, "", err
	}
	return decodeList(raw)
}

type listResponse struct {
	Items         []model.RawRecord `json:"items"`
	NextPageToken string            `json:"nextPageToken"`
}

// decodeList reads the items and next page token from the raw response body, keeping numbers as
// json.Number and every field the API sent, zero values included.
func decodeList(raw *rawBody) ([]model.RawRecord, string, error) {
	if raw.data == nil {
		return nil, "", errors.New("response body was not captured")
	}
	dec := json.NewDecoder(bytes.NewReader(raw.data))
	dec.UseNumber()
	var resp listResponse
	if err := dec.Decode(&resp); err != nil {
		return nil, "", fmt.Errorf("failed to decode list response: %w", err)
	}
	return resp.Items, resp.NextPageToken, nil
}

func transportError(op string, collection model.Collection, err error) error {
	te := &model.TransportError{Op: op, Collection: collection, Err: err}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		te.StatusCode = apiErr.Code
	}
	return te
}
