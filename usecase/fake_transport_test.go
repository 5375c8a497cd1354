package usecase_test

import (
	"context"
	"strconv"
	"sync"

	"github.com/jmgomezsoriano/easy-tube/domain/model"
)

// fakeTransport serves records from memory, paginating with numeric offsets as cursors.
type fakeTransport struct {
	mu sync.Mutex

	byID       map[model.Collection]map[string]model.RawRecord
	byParent   map[model.Collection]map[string][]model.RawRecord
	byUsername map[string][]model.RawRecord
	mine       []model.RawRecord
	failOn     map[model.Collection]error

	lists []model.ListRequest
	gets  []string
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		byID:       map[model.Collection]map[string]model.RawRecord{},
		byParent:   map[model.Collection]map[string][]model.RawRecord{},
		byUsername: map[string][]model.RawRecord{},
		failOn:     map[model.Collection]error{},
	}
}

func (f *fakeTransport) add(collection model.Collection, parentID string, recs ...model.RawRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.byID[collection] == nil {
		f.byID[collection] = map[string]model.RawRecord{}
	}
	for _, rec := range recs {
		f.byID[collection][rec["id"].(string)] = rec
	}
	if parentID != "" {
		if f.byParent[collection] == nil {
			f.byParent[collection] = map[string][]model.RawRecord{}
		}
		f.byParent[collection][parentID] = append(f.byParent[collection][parentID], recs...)
	}
}

func (f *fakeTransport) fail(collection model.Collection, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.failOn, collection)
		return
	}
	f.failOn[collection] = err
}

func (f *fakeTransport) List(_ context.Context, req model.ListRequest) (*model.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = append(f.lists, req)
	if err := f.failOn[req.Collection]; err != nil {
		return nil, &model.TransportError{Op: "list", Collection: req.Collection, Err: err}
	}

	var all []model.RawRecord
	switch {
	case req.Filter.ParentID != "":
		all = f.byParent[req.Collection][req.Filter.ParentID]
	case len(req.Filter.IDs) > 0:
		for _, id := range req.Filter.IDs {
			if rec, ok := f.byID[req.Collection][id]; ok {
				all = append(all, rec)
			}
		}
	case req.Filter.Username != "":
		all = f.byUsername[req.Filter.Username]
	case req.Filter.Mine:
		all = f.mine
	}

	offset := 0
	if req.Cursor != "" {
		offset, _ = strconv.Atoi(req.Cursor)
	}
	end := offset + int(req.PageSize)
	if end > len(all) {
		end = len(all)
	}
	page := &model.Page{Items: all[offset:end]}
	if end < len(all) {
		page.NextCursor = strconv.Itoa(end)
	}
	return page, nil
}

func (f *fakeTransport) Get(_ context.Context, collection model.Collection, id string) (model.RawRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets = append(f.gets, string(collection)+"/"+id)
	if err := f.failOn[collection]; err != nil {
		return nil, &model.TransportError{Op: "get", Collection: collection, Err: err}
	}
	rec, ok := f.byID[collection][id]
	if !ok {
		return nil, nil
	}
	return rec, nil
}

func (f *fakeTransport) listCalls(collection model.Collection) []model.ListRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.ListRequest
	for _, req := range f.lists {
		if req.Collection == collection {
			out = append(out, req)
		}
	}
	return out
}

func (f *fakeTransport) getCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.gets)
}
