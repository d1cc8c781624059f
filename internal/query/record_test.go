package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldPath(t *testing.T) {
	rec := Record{
		"id": uint(1),
		"video": Record{
			"owner_id": uint(7),
		},
		"owner": []Record{
			{"username": "alice"},
		},
		"likes": []Record{
			{"actor_id": uint(1)},
			{"actor_id": uint(2)},
		},
	}

	t.Run("top level field", func(t *testing.T) {
		v, ok := FieldPath(rec, "id")
		require.True(t, ok)
		assert.Equal(t, uint(1), v)
	})

	t.Run("descends through nested records", func(t *testing.T) {
		v, ok := FieldPath(rec, "video.owner_id")
		require.True(t, ok)
		assert.Equal(t, uint(7), v)
	})

	t.Run("descends through singleton join lists", func(t *testing.T) {
		v, ok := FieldPath(rec, "owner.username")
		require.True(t, ok)
		assert.Equal(t, "alice", v)
	})

	t.Run("refuses multi-element lists", func(t *testing.T) {
		_, ok := FieldPath(rec, "likes.actor_id")
		assert.False(t, ok)
	})

	t.Run("missing segment", func(t *testing.T) {
		_, ok := FieldPath(rec, "video.missing")
		assert.False(t, ok)
		_, ok = FieldPath(rec, "missing.field")
		assert.False(t, ok)
	})

	t.Run("scalar in the middle of a path", func(t *testing.T) {
		_, ok := FieldPath(rec, "id.anything")
		assert.False(t, ok)
	})
}

func TestClone(t *testing.T) {
	rec := Record{"id": uint(1), "title": "a"}
	clone := rec.Clone()
	clone["title"] = "b"
	assert.Equal(t, "a", rec["title"])
}

func TestSameID(t *testing.T) {
	assert.True(t, sameID(uint(5), int64(5)))
	assert.True(t, sameID(float64(5), uint(5)))
	assert.True(t, sameID("5", uint(5)))
	assert.False(t, sameID(uint(5), uint(6)))
	assert.False(t, sameID(int64(-1), uint64(18446744073709551615)))
	assert.False(t, sameID("five", uint(5)))
	assert.False(t, sameID(nil, uint(5)))
}

func TestCompareValues(t *testing.T) {
	now := time.Now()

	assert.Negative(t, compareValues(int64(1), int64(2)))
	assert.Positive(t, compareValues(uint(3), int64(2)))
	assert.Zero(t, compareValues(int64(2), float64(2)))

	assert.Negative(t, compareValues(now, now.Add(time.Second)))
	assert.Positive(t, compareValues(now.Add(time.Second), now))

	assert.Negative(t, compareValues("a", "b"))
	assert.Negative(t, compareValues(false, true))

	// incomparable values order as equal rather than panicking
	assert.Zero(t, compareValues("a", int64(1)))
	assert.Zero(t, compareValues(nil, nil))
}
