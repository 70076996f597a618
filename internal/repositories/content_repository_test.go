package repositories

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/storycircle/backend/internal/models"
	"github.com/storycircle/backend/internal/search"
	"gorm.io/gorm"
)

// fakeIndex is an in-memory search.Index recording every operation.
type fakeIndex struct {
	mu   sync.Mutex
	docs map[string]map[uint]map[string]interface{}
	ops  []string
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{docs: make(map[string]map[uint]map[string]interface{})}
}

func (f *fakeIndex) Upsert(_ context.Context, collection string, docID uint, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.docs[collection] == nil {
		f.docs[collection] = make(map[uint]map[string]interface{})
	}
	f.docs[collection][docID] = fields
	f.ops = append(f.ops, fmt.Sprintf("upsert %s/%d", collection, docID))
	return nil
}

func (f *fakeIndex) Remove(_ context.Context, collection string, docID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.docs[collection], docID)
	f.ops = append(f.ops, fmt.Sprintf("remove %s/%d", collection, docID))
	return nil
}

func (f *fakeIndex) Prune(_ context.Context, collection string, keep []uint) error {
	// Mongo rejects a filter built from a nil slice; the fake is equally
	// strict so callers cannot rely on nil meaning "keep nothing".
	if keep == nil {
		return fmt.Errorf("prune %s: keep must be an array", collection)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := make(map[uint]bool, len(keep))
	for _, id := range keep {
		kept[id] = true
	}
	for id := range f.docs[collection] {
		if !kept[id] {
			delete(f.docs[collection], id)
			f.ops = append(f.ops, fmt.Sprintf("prune %s/%d", collection, id))
		}
	}
	return nil
}

func (f *fakeIndex) Query(_ context.Context, collection, text string, page, pageSize int) ([]uint, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []uint
	for id, fields := range f.docs[collection] {
		for _, v := range fields {
			if s, ok := v.(string); ok && strings.Contains(strings.ToLower(s), strings.ToLower(text)) {
				ids = append(ids, id)
				break
			}
		}
	}
	return ids, int64(len(ids)), nil
}

func newTestContentRepo(t *testing.T, db *gorm.DB) (*ContentRepository[models.Post, *models.Post], *fakeIndex) {
	t.Helper()
	index := newFakeIndex()
	syncer := search.NewSynchronizer(index, zerolog.Nop())
	return NewContentRepository[models.Post](db, syncer), index
}

func TestContentCreateMirrorsIntoIndex(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo, index := newTestContentRepo(t, db)

	author := createTestUser(t, db, "alice")
	post := &models.Post{UserID: author.ID, City: "Berlin", Category: "travel", Title: "Harbor lights", Story: "A night walk along the docks."}
	require.NoError(t, repo.Create(ctx, post))
	require.NotZero(t, post.ID)

	doc, ok := index.docs["posts"][post.ID]
	require.True(t, ok)
	assert.Equal(t, "Harbor lights", doc["title"])
	assert.Equal(t, "A night walk along the docks.", doc["body"])
}

func TestContentUpdateAndDeleteMirrorIntoIndex(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo, index := newTestContentRepo(t, db)

	author := createTestUser(t, db, "alice")
	post := &models.Post{UserID: author.ID, City: "Oslo", Category: "food", Title: "Old title", Story: "body"}
	require.NoError(t, repo.Create(ctx, post))

	post.Title = "New title"
	require.NoError(t, repo.Update(ctx, post))
	assert.Equal(t, "New title", index.docs["posts"][post.ID]["title"])

	require.NoError(t, repo.Delete(ctx, post))
	_, ok := index.docs["posts"][post.ID]
	assert.False(t, ok)

	_, err := repo.GetByID(ctx, post.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestContentFailedInsertLeavesIndexUntouched(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo, index := newTestContentRepo(t, db)

	author := createTestUser(t, db, "alice")
	post := &models.Post{UserID: author.ID, City: "Oslo", Category: "food", Title: "t", Story: "body"}
	require.NoError(t, repo.Create(ctx, post))
	opsAfterCreate := len(index.ops)

	// primary key collision rolls the transaction back; the index must not
	// see the failed write
	dup := &models.Post{ID: post.ID, UserID: author.ID, City: "Oslo", Category: "food", Title: "t2", Story: "body"}
	require.Error(t, repo.Create(ctx, dup))
	assert.Len(t, index.ops, opsAfterCreate)
}

func TestContentListNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo, _ := newTestContentRepo(t, db)

	author := createTestUser(t, db, "alice")
	for i := 1; i <= 3; i++ {
		post := &models.Post{UserID: author.ID, City: "Oslo", Category: "c", Title: fmt.Sprintf("post %d", i), Story: "s"}
		require.NoError(t, repo.Create(ctx, post))
	}

	posts, total, err := repo.List(ctx, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, posts, 2)
	assert.Equal(t, "post 3", posts[0].Title)
	assert.Equal(t, "post 2", posts[1].Title)
}

func TestContentListByAuthors(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo, _ := newTestContentRepo(t, db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	for _, author := range []*models.User{alice, bob, carol} {
		post := &models.Post{UserID: author.ID, City: "Oslo", Category: "c", Title: "by " + author.Username, Story: "s"}
		require.NoError(t, repo.Create(ctx, post))
	}

	posts, total, err := repo.ListByAuthors(ctx, []uint{alice.ID, bob.ID}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, posts, 2)

	posts, total, err = repo.ListByAuthors(ctx, nil, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Empty(t, posts)
}

func TestContentGetByIDsPreservesOrder(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo, _ := newTestContentRepo(t, db)

	author := createTestUser(t, db, "alice")
	var ids []uint
	for i := 1; i <= 3; i++ {
		post := &models.Post{UserID: author.ID, City: "Oslo", Category: "c", Title: fmt.Sprintf("post %d", i), Story: "s"}
		require.NoError(t, repo.Create(ctx, post))
		ids = append(ids, post.ID)
	}

	// relevance order from the index, not primary key order
	ordered, err := repo.GetByIDs(ctx, []uint{ids[2], ids[0], ids[1]})
	require.NoError(t, err)
	require.Len(t, ordered, 3)
	assert.Equal(t, "post 3", ordered[0].Title)
	assert.Equal(t, "post 1", ordered[1].Title)
	assert.Equal(t, "post 2", ordered[2].Title)

	// unknown ids are dropped silently
	ordered, err = repo.GetByIDs(ctx, []uint{ids[0], 9999})
	require.NoError(t, err)
	require.Len(t, ordered, 1)
}

func TestReindexRebuildsMissingDocuments(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo, index := newTestContentRepo(t, db)

	author := createTestUser(t, db, "alice")
	post := &models.Post{UserID: author.ID, City: "Oslo", Category: "c", Title: "lost doc", Story: "s"}
	require.NoError(t, repo.Create(ctx, post))

	// simulate an index wipe
	index.mu.Lock()
	index.docs = make(map[string]map[uint]map[string]interface{})
	index.mu.Unlock()

	require.NoError(t, repo.Reindex(ctx))

	doc, ok := index.docs["posts"][post.ID]
	require.True(t, ok)
	assert.Equal(t, "lost doc", doc["title"])
}

func TestReindexPrunesStaleDocuments(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo, index := newTestContentRepo(t, db)

	author := createTestUser(t, db, "alice")
	kept := &models.Post{UserID: author.ID, City: "Oslo", Category: "c", Title: "kept", Story: "s"}
	stale := &models.Post{UserID: author.ID, City: "Oslo", Category: "c", Title: "stale", Story: "s"}
	require.NoError(t, repo.Create(ctx, kept))
	require.NoError(t, repo.Create(ctx, stale))

	// delete the row directly, bypassing the synchronizer; the index entry
	// stays stale until the next reindex
	require.NoError(t, db.Delete(&models.Post{}, stale.ID).Error)
	_, ok := index.docs["posts"][stale.ID]
	assert.True(t, ok)

	require.NoError(t, repo.Reindex(ctx))

	_, ok = index.docs["posts"][stale.ID]
	assert.False(t, ok)
	_, ok = index.docs["posts"][kept.ID]
	assert.True(t, ok)
}

func TestReindexEmptiedTableClearsIndex(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo, index := newTestContentRepo(t, db)

	author := createTestUser(t, db, "alice")
	for i := 1; i <= 2; i++ {
		post := &models.Post{UserID: author.ID, City: "Oslo", Category: "c", Title: fmt.Sprintf("post %d", i), Story: "s"}
		require.NoError(t, repo.Create(ctx, post))
	}

	// wipe the table behind the synchronizer's back; reindexing the now
	// empty table must still prune every stale document
	require.NoError(t, db.Where("1 = 1").Delete(&models.Post{}).Error)
	require.Len(t, index.docs["posts"], 2)

	require.NoError(t, repo.Reindex(ctx))
	assert.Empty(t, index.docs["posts"])
}
