package search

import (
	"context"
	"errors"
)

// ErrDisabled is returned by Query when no index backend is configured.
var ErrDisabled = errors.New("search index disabled")

// Searchable is any entity mirrored into the external text index.
type Searchable interface {
	SearchCollection() string
	SearchDocID() uint
	SearchFields() map[string]interface{}
}

// Index is the external text index collaborator. Upsert and Remove keep a
// collection in sync with the primary store; Query returns matching document
// ids in relevance order together with the total match count. Prune drops
// every document whose id is not in keep, used by reindexing to clear entries
// whose rows were deleted behind the synchronizer's back.
type Index interface {
	Upsert(ctx context.Context, collection string, docID uint, fields map[string]interface{}) error
	Remove(ctx context.Context, collection string, docID uint) error
	Prune(ctx context.Context, collection string, keep []uint) error
	Query(ctx context.Context, collection, text string, page, pageSize int) ([]uint, int64, error)
}
