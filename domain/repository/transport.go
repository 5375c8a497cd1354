package repository

import (
	"context"

	"github.com/jmgomezsoriano/easy-tube/domain/model"
)

// ITransport is the remote listing operation every fetch goes through.
type ITransport interface {
	// List returns one page of req.Collection. A nil page is treated as an empty final page.
	List(ctx context.Context, req model.ListRequest) (*model.Page, error)
	// Get returns the record with the given id, or nil when nothing matches.
	Get(ctx context.Context, collection model.Collection, id string) (model.RawRecord, error)
}
