package repository

import (
	"testing"

	"mediasphere/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleInvolution(t *testing.T) {
	db := newTestDB(t)
	repo := NewRelationRepository(db)
	actor := createTestUser(t, db, "actor")
	owner := createTestUser(t, db, "owner")
	video := createTestVideo(t, db, owner.ID, "clip", true)

	first, err := repo.Toggle(testCtx, actor.ID, models.TargetVideo, video.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ToggleAdded, first.State)
	require.NotNil(t, first.Record)
	assert.Equal(t, actor.ID, first.Record.ActorID)

	active, err := repo.IsActive(testCtx, actor.ID, models.TargetVideo, video.ID)
	require.NoError(t, err)
	assert.True(t, active)

	second, err := repo.Toggle(testCtx, actor.ID, models.TargetVideo, video.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ToggleRemoved, second.State)
	assert.Nil(t, second.Record)

	active, err = repo.IsActive(testCtx, actor.ID, models.TargetVideo, video.ID)
	require.NoError(t, err)
	assert.False(t, active)

	// toggling back on restores the exact original observable state
	third, err := repo.Toggle(testCtx, actor.ID, models.TargetVideo, video.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ToggleAdded, third.State)
	assert.Equal(t, int64(1), countRows(t, db, &models.Relation{}))
}

func TestToggleKindsAreIndependent(t *testing.T) {
	db := newTestDB(t)
	repo := NewRelationRepository(db)
	actor := createTestUser(t, db, "actor")

	// same target id under different kinds must not collide
	_, err := repo.Toggle(testCtx, actor.ID, models.TargetVideo, 42)
	require.NoError(t, err)
	_, err = repo.Toggle(testCtx, actor.ID, models.TargetComment, 42)
	require.NoError(t, err)
	_, err = repo.Toggle(testCtx, actor.ID, models.TargetChannel, 42)
	require.NoError(t, err)

	assert.Equal(t, int64(3), countRows(t, db, &models.Relation{}))
}

func TestToggleValidation(t *testing.T) {
	db := newTestDB(t)
	repo := NewRelationRepository(db)

	_, err := repo.Toggle(testCtx, 0, models.TargetVideo, 1)
	assert.Equal(t, models.CodeInvalidID, models.ErrorCode(err))

	_, err = repo.Toggle(testCtx, 1, models.TargetKind("playlist"), 1)
	assert.Equal(t, models.CodeValidation, models.ErrorCode(err))

	_, err = repo.Toggle(testCtx, 1, models.TargetVideo, 0)
	assert.Equal(t, models.CodeInvalidID, models.ErrorCode(err))
}

func TestRelationCounts(t *testing.T) {
	db := newTestDB(t)
	repo := NewRelationRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	for _, actor := range []*models.User{bob, carol} {
		_, err := repo.Toggle(testCtx, actor.ID, models.TargetChannel, alice.ID)
		require.NoError(t, err)
	}
	_, err := repo.Toggle(testCtx, bob.ID, models.TargetChannel, carol.ID)
	require.NoError(t, err)

	subscribers, err := repo.CountForTarget(testCtx, models.TargetChannel, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), subscribers)

	following, err := repo.CountByActor(testCtx, bob.ID, models.TargetChannel)
	require.NoError(t, err)
	assert.Equal(t, int64(2), following)

	none, err := repo.CountForTarget(testCtx, models.TargetVideo, alice.ID)
	require.NoError(t, err)
	assert.Zero(t, none)
}
