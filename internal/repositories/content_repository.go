package repositories

import (
	"context"

	"github.com/storycircle/backend/internal/search"
	"gorm.io/gorm"
)

// SearchablePtr constrains P to a pointer to T that the search index can
// mirror. All three content kinds satisfy it.
type SearchablePtr[T any] interface {
	*T
	search.Searchable
}

// ContentRepository provides CRUD for one searchable content kind. Every
// mutation runs in its own transaction and records the change into a search
// recorder; the recorder is applied to the index only after the transaction
// commits, in upserts-then-removes order.
type ContentRepository[T any, P SearchablePtr[T]] struct {
	db   *gorm.DB
	sync *search.Synchronizer
}

// NewContentRepository creates a ContentRepository for one content kind
func NewContentRepository[T any, P SearchablePtr[T]](db *gorm.DB, sync *search.Synchronizer) *ContentRepository[T, P] {
	return &ContentRepository[T, P]{db: db, sync: sync}
}

// Create inserts the entity and mirrors it into the index post-commit
func (r *ContentRepository[T, P]) Create(ctx context.Context, entity P) error {
	rec := search.NewRecorder()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entity).Error; err != nil {
			return err
		}
		rec.Added(entity)
		return nil
	})
	if err != nil {
		return err
	}
	r.sync.Apply(ctx, rec)
	return nil
}

// Update saves the entity and mirrors the new version post-commit
func (r *ContentRepository[T, P]) Update(ctx context.Context, entity P) error {
	rec := search.NewRecorder()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(entity).Error; err != nil {
			return err
		}
		rec.Updated(entity)
		return nil
	})
	if err != nil {
		return err
	}
	r.sync.Apply(ctx, rec)
	return nil
}

// Delete removes the entity and drops its index document post-commit
func (r *ContentRepository[T, P]) Delete(ctx context.Context, entity P) error {
	rec := search.NewRecorder()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(entity).Error; err != nil {
			return err
		}
		rec.Deleted(entity)
		return nil
	})
	if err != nil {
		return err
	}
	r.sync.Apply(ctx, rec)
	return nil
}

// GetByID retrieves one entity by primary key
func (r *ContentRepository[T, P]) GetByID(ctx context.Context, id uint) (P, error) {
	var entity T
	if err := r.db.WithContext(ctx).First(&entity, id).Error; err != nil {
		return nil, err
	}
	return P(&entity), nil
}

// List returns a page of entities, newest first, with the total count
func (r *ContentRepository[T, P]) List(ctx context.Context, page, pageSize int) ([]T, int64, error) {
	return r.list(ctx, nil, page, pageSize)
}

// ListByAuthor returns a page of one author's entities, newest first
func (r *ContentRepository[T, P]) ListByAuthor(ctx context.Context, authorID uint, page, pageSize int) ([]T, int64, error) {
	return r.list(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("user_id = ?", authorID)
	}, page, pageSize)
}

// ListByAuthors returns a page of entities authored by any of the given
// users, newest first. Used for the followed feed.
func (r *ContentRepository[T, P]) ListByAuthors(ctx context.Context, authorIDs []uint, page, pageSize int) ([]T, int64, error) {
	if len(authorIDs) == 0 {
		return nil, 0, nil
	}
	return r.list(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("user_id IN ?", authorIDs)
	}, page, pageSize)
}

func (r *ContentRepository[T, P]) list(ctx context.Context, scope func(*gorm.DB) *gorm.DB, page, pageSize int) ([]T, int64, error) {
	var entity T
	counter := r.db.WithContext(ctx).Model(&entity)
	if scope != nil {
		counter = scope(counter)
	}
	var total int64
	if err := counter.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := r.db.WithContext(ctx).Order("created_at DESC, id DESC").
		Offset((page - 1) * pageSize).Limit(pageSize)
	if scope != nil {
		q = scope(q)
	}
	var entities []T
	err := q.Find(&entities).Error
	return entities, total, err
}

// GetByIDs fetches the given rows and returns them in the order of ids,
// preserving the relevance order the search index produced.
func (r *ContentRepository[T, P]) GetByIDs(ctx context.Context, ids []uint) ([]T, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var entities []T
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&entities).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]T, len(entities))
	for i := range entities {
		byID[P(&entities[i]).SearchDocID()] = entities[i]
	}
	ordered := make([]T, 0, len(entities))
	for _, id := range ids {
		if e, ok := byID[id]; ok {
			ordered = append(ordered, e)
		}
	}
	return ordered, nil
}

// Reindex re-upserts every persisted row into the index, then prunes index
// documents whose rows are gone (deleted behind the synchronizer's back).
// Not incremental and takes no lock against concurrent writers: the index is
// eventually consistent once the walk completes.
func (r *ContentRepository[T, P]) Reindex(ctx context.Context) error {
	const batchSize = 200
	var seen []uint
	var lastID uint
	for {
		var rows []T
		q := r.db.WithContext(ctx).Order("id ASC").Limit(batchSize)
		if lastID > 0 {
			q = q.Where("id > ?", lastID)
		}
		if err := q.Find(&rows).Error; err != nil {
			return err
		}
		for i := range rows {
			entity := P(&rows[i])
			r.sync.Upsert(ctx, entity)
			lastID = entity.SearchDocID()
			seen = append(seen, lastID)
		}
		if len(rows) < batchSize {
			break
		}
	}

	var zero T
	r.sync.Prune(ctx, P(&zero).SearchCollection(), seen)
	return nil
}
