package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// RawRecord is one API entity exactly as the remote service returned it.
type RawRecord map[string]interface{}

// Page is a single list response: its items in source order plus the cursor of the next page.
// An empty NextCursor ends pagination.
type Page struct {
	Items      []RawRecord `json:"items,omitempty"`
	NextCursor string      `json:"nextPageToken,omitempty"`
}

// DecodePage decodes a JSON encoded page, keeping numbers as json.Number like freshly fetched records.
func DecodePage(data []byte) (*Page, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	page := &Page{}
	if err := dec.Decode(page); err != nil {
		return nil, fmt.Errorf("failed to decode page: %w", err)
	}
	return page, nil
}

// Collection names a remote list operation.
type Collection string

const (
	CollectionChannels      Collection = "channels"
	CollectionPlaylists     Collection = "playlists"
	CollectionPlaylistItems Collection = "playlistItems"
	CollectionVideos        Collection = "videos"
)

// Filter selects the records of a list call. Exactly one dimension may be active.
type Filter struct {
	ParentID string   `json:"parentId,omitempty"`
	IDs      []string `json:"ids,omitempty"`
	Username string   `json:"username,omitempty"`
	Mine     bool     `json:"mine,omitempty"`
}

// ByParent filters children of a parent resource (a channel's playlists, a playlist's items).
func ByParent(id string) Filter { return Filter{ParentID: id} }

// ByIDs filters records by one or more ids.
func ByIDs(ids ...string) Filter { return Filter{IDs: ids} }

// ByUsername filters channels by their legacy username.
func ByUsername(name string) Filter { return Filter{Username: name} }

// Mine filters records owned by the authorized user.
func Mine() Filter { return Filter{Mine: true} }

// Validate reports ErrInvalidFilter unless exactly one dimension is set and no id is empty.
func (f Filter) Validate() error {
	for _, id := range f.IDs {
		if id == "" {
			return fmt.Errorf("%w: empty id", ErrInvalidFilter)
		}
	}

	active := 0
	if f.ParentID != "" {
		active++
	}
	if len(f.IDs) > 0 {
		active++
	}
	if f.Username != "" {
		active++
	}
	if f.Mine {
		active++
	}
	if active != 1 {
		return fmt.Errorf("%w: %d dimensions set", ErrInvalidFilter, active)
	}
	return nil
}

func (f Filter) String() string {
	switch {
	case f.ParentID != "":
		return "parent=" + f.ParentID
	case len(f.IDs) > 0:
		return "id=" + strings.Join(f.IDs, ",")
	case f.Username != "":
		return "username=" + f.Username
	case f.Mine:
		return "mine"
	}
	return "none"
}

// Query describes a paginated list operation independently of page size and cursor.
type Query struct {
	Collection Collection `json:"collection"`
	Filter     Filter     `json:"filter"`
}

func (q Query) String() string {
	return fmt.Sprintf("%s[%s]", q.Collection, q.Filter)
}

// ListRequest is a single Transport list call.
type ListRequest struct {
	Query
	PageSize int64  `json:"pageSize"`
	Cursor   string `json:"cursor,omitempty"`
}
