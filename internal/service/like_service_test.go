package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediasphere/internal/models"
	"mediasphere/internal/query"
)

func TestToggleVideoLike(t *testing.T) {
	h := newHarness(t)
	owner := h.user(t, "alice")
	fan := h.user(t, "bob")
	v := h.video(t, owner.ID, "likeable", true)

	res, err := h.likes.ToggleVideoLike(testCtx, fan.ID, v.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ToggleAdded, res.State)
	require.NotNil(t, res.Record)
	assert.Equal(t, fan.ID, res.Record.ActorID)

	res, err = h.likes.ToggleVideoLike(testCtx, fan.ID, v.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ToggleRemoved, res.State)
	assert.Nil(t, res.Record)

	_, err = h.likes.ToggleVideoLike(testCtx, fan.ID, 999)
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
}

func TestToggleCommentAndTweetLikes(t *testing.T) {
	h := newHarness(t)
	owner := h.user(t, "alice")
	fan := h.user(t, "bob")
	v := h.video(t, owner.ID, "commented", true)
	c := h.comment(t, owner.ID, v.ID, "first")
	tw := h.tweet(t, owner.ID, "hello")

	res, err := h.likes.ToggleCommentLike(testCtx, fan.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ToggleAdded, res.State)

	res, err = h.likes.ToggleTweetLike(testCtx, fan.ID, tw.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ToggleAdded, res.State)

	_, err = h.likes.ToggleCommentLike(testCtx, fan.ID, 999)
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
	_, err = h.likes.ToggleTweetLike(testCtx, fan.ID, 999)
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
}

func TestGetLikedVideos(t *testing.T) {
	h := newHarness(t)
	owner := h.user(t, "alice")
	fan := h.user(t, "bob")
	liked := h.video(t, owner.ID, "kept", true)
	doomed := h.video(t, owner.ID, "doomed", true)

	_, err := h.likes.ToggleVideoLike(testCtx, fan.ID, liked.ID)
	require.NoError(t, err)
	_, err = h.likes.ToggleVideoLike(testCtx, fan.ID, doomed.ID)
	require.NoError(t, err)

	// a like whose video disappears is dropped from the listing
	require.NoError(t, h.db.Delete(&models.Video{}, doomed.ID).Error)

	page, err := h.likes.GetLikedVideos(testCtx, fan.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	rec := page.Items[0]
	video, ok := rec["video"].(query.Record)
	require.True(t, ok)
	assert.Equal(t, "kept", video["title"])
	ownerRec, ok := rec["owner"].(query.Record)
	require.True(t, ok)
	assert.Equal(t, "alice", ownerRec["username"])
	assert.NotContains(t, ownerRec, "password")
	assert.Contains(t, rec, "created_at")
	assert.NotContains(t, rec, "actor_id")
}

func TestGetLikedVideosRequiresActor(t *testing.T) {
	h := newHarness(t)
	_, err := h.likes.GetLikedVideos(testCtx, 0, 1, 10)
	assert.Equal(t, models.CodeInvalidID, models.ErrorCode(err))
}
