package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowAndUnfollow(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewPostgresFollowRepository(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	require.NoError(t, repo.Follow(ctx, alice.ID, bob.ID))

	following, err := repo.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)

	followed, err := repo.IsFollowedBy(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, followed)

	// not symmetric
	following, err = repo.IsFollowing(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, following)

	require.NoError(t, repo.Unfollow(ctx, alice.ID, bob.ID))

	following, err = repo.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestFollowTwiceKeepsOneEdge(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewPostgresFollowRepository(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	require.NoError(t, repo.Follow(ctx, alice.ID, bob.ID))
	require.NoError(t, repo.Follow(ctx, alice.ID, bob.ID))

	count, err := repo.GetFollowersCount(ctx, bob.ID)
	require.NoError(t, err)
	// bob's self-follow plus alice
	assert.EqualValues(t, 2, count)
}

func TestIsFollowingZeroIDs(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewPostgresFollowRepository(db)

	following, err := repo.IsFollowing(ctx, 0, 1)
	require.NoError(t, err)
	assert.False(t, following)

	following, err = repo.IsFollowing(ctx, 1, 0)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestGetFollowersOrderAndPaging(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewPostgresFollowRepository(db)

	target := createTestUser(t, db, "target")
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	require.NoError(t, repo.Follow(ctx, alice.ID, target.ID))
	require.NoError(t, repo.Follow(ctx, bob.ID, target.ID))
	require.NoError(t, repo.Follow(ctx, carol.ID, target.ID))

	followers, total, err := repo.GetFollowers(ctx, target.ID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 4, total) // self-follow + three others
	require.Len(t, followers, 4)

	// oldest edge first: self-follow, then alice, bob, carol
	assert.Equal(t, "target", followers[0].Username)
	assert.Equal(t, "alice", followers[1].Username)
	assert.Equal(t, "bob", followers[2].Username)
	assert.Equal(t, "carol", followers[3].Username)

	page2, total, err := repo.GetFollowers(ctx, target.ID, 2, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	require.Len(t, page2, 2)
	assert.Equal(t, "bob", page2[0].Username)
}

func TestGetFollowingIDs(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewPostgresFollowRepository(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	require.NoError(t, repo.Follow(ctx, alice.ID, bob.ID))

	ids, err := repo.GetFollowingIDs(ctx, alice.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{alice.ID, bob.ID}, ids)
}
