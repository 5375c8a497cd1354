package usecase

import (
	"context"

	"github.com/jmgomezsoriano/easy-tube/domain/model"
	"github.com/jmgomezsoriano/easy-tube/domain/repository"
	"github.com/jmgomezsoriano/easy-tube/infrastructure/logger"
)

// DefaultPageSize is the page size used when none is given. It is also the largest page the API serves.
const DefaultPageSize int64 = 50

// IPaginator collects the records of a paginated list operation.
type IPaginator interface {
	// Paginate returns the records of query in source order. maxResults <= 0 means no cap.
	Paginate(ctx context.Context, query model.Query, pageSize, maxResults int64) ([]model.RawRecord, error)
}

type Paginator struct {
	transport repository.ITransport
}

func NewPaginator(transport repository.ITransport) IPaginator {
	return &Paginator{transport: transport}
}

func (p *Paginator) Paginate(ctx context.Context, query model.Query, pageSize, maxResults int64) ([]model.RawRecord, error) {
	if err := query.Filter.Validate(); err != nil {
		return nil, err
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	var records []model.RawRecord
	cursor := ""
	for calls := 1; ; calls++ {
		size := pageSize
		if maxResults > 0 {
			if remaining := maxResults - int64(len(records)); remaining < size {
				size = remaining
			}
		}

		page, err := p.transport.List(ctx, model.ListRequest{Query: query, PageSize: size, Cursor: cursor})
		if err != nil {
			return nil, err
		}
		if page == nil {
			page = &model.Page{}
		}
		records = append(records, page.Items...)

		logger.GetLogger().
			WithField("query", query.String()).
			WithField("call", calls).
			WithField("items", len(page.Items)).
			WithField("total", len(records)).
			Debug("Fetched page")

		if maxResults > 0 && int64(len(records)) >= maxResults {
			return records[:maxResults], nil
		}
		if page.NextCursor == "" {
			return records, nil
		}
		cursor = page.NextCursor
	}
}
