package search

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Synchronizer mirrors committed changes into the external text index. With a
// nil index it runs in an explicit degraded mode: operations are skipped,
// counted and logged rather than silently dropped, and Enabled reports false.
type Synchronizer struct {
	index   Index
	log     zerolog.Logger
	skipped atomic.Int64
	warn    sync.Once
}

// NewSynchronizer creates a Synchronizer. index may be nil (indexing disabled).
func NewSynchronizer(index Index, log zerolog.Logger) *Synchronizer {
	return &Synchronizer{index: index, log: log.With().Str("component", "search").Logger()}
}

// Enabled reports whether an index backend is configured.
func (s *Synchronizer) Enabled() bool {
	return s.index != nil
}

// Skipped returns how many index operations were dropped in degraded mode.
func (s *Synchronizer) Skipped() int64 {
	return s.skipped.Load()
}

// Apply pushes a committed recorder into the index: upserts for added and
// updated entities first, then removes for deleted ones. Index failures are
// logged and do not propagate; the primary commit already happened.
func (s *Synchronizer) Apply(ctx context.Context, rec *Recorder) {
	if rec == nil || rec.Empty() {
		return
	}
	if s.index == nil {
		s.skip(int64(len(rec.added) + len(rec.updated) + len(rec.deleted)))
		return
	}
	for _, e := range rec.added {
		s.upsert(ctx, e)
	}
	for _, e := range rec.updated {
		s.upsert(ctx, e)
	}
	for _, e := range rec.deleted {
		if err := s.index.Remove(ctx, e.SearchCollection(), e.SearchDocID()); err != nil {
			s.log.Warn().Err(err).
				Str("collection", e.SearchCollection()).
				Uint("doc_id", e.SearchDocID()).
				Msg("index remove failed")
		}
	}
}

// Query runs a text query against the index. Returns ErrDisabled when no
// backend is configured.
func (s *Synchronizer) Query(ctx context.Context, collection, text string, page, pageSize int) ([]uint, int64, error) {
	if s.index == nil {
		return nil, 0, ErrDisabled
	}
	return s.index.Query(ctx, collection, text, page, pageSize)
}

// Prune drops index documents for the collection whose ids are not in keep.
// An empty keep clears the collection.
func (s *Synchronizer) Prune(ctx context.Context, collection string, keep []uint) {
	if s.index == nil {
		s.skip(1)
		return
	}
	if keep == nil {
		keep = []uint{}
	}
	if err := s.index.Prune(ctx, collection, keep); err != nil {
		s.log.Warn().Err(err).Str("collection", collection).Msg("index prune failed")
	}
}

// Upsert mirrors a single entity into the index. Used by reindexing.
func (s *Synchronizer) Upsert(ctx context.Context, e Searchable) {
	if s.index == nil {
		s.skip(1)
		return
	}
	s.upsert(ctx, e)
}

func (s *Synchronizer) upsert(ctx context.Context, e Searchable) {
	if err := s.index.Upsert(ctx, e.SearchCollection(), e.SearchDocID(), e.SearchFields()); err != nil {
		s.log.Warn().Err(err).
			Str("collection", e.SearchCollection()).
			Uint("doc_id", e.SearchDocID()).
			Msg("index upsert failed")
	}
}

func (s *Synchronizer) skip(n int64) {
	s.skipped.Add(n)
	s.warn.Do(func() {
		s.log.Warn().Msg("search indexing disabled, skipping index operations")
	})
}
