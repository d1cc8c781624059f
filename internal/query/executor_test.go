package query

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"mediasphere/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is a map-backed Store for executor tests.
type memStore struct {
	collections map[string][]Record
	findErr     error
}

func newMemStore() *memStore {
	return &memStore{collections: map[string][]Record{}}
}

func (m *memStore) add(collection string, recs ...Record) {
	m.collections[collection] = append(m.collections[collection], recs...)
}

func matches(rec Record, f Filter) bool {
	v, ok := FieldPath(rec, f.Field)
	if !ok {
		return false
	}
	switch f.Op {
	case OpEq:
		if sameID(v, f.Value) {
			return true
		}
		return fmt.Sprint(v) == fmt.Sprint(f.Value)
	case OpContains:
		s, _ := v.(string)
		needle, _ := f.Value.(string)
		return strings.Contains(strings.ToLower(s), strings.ToLower(needle))
	case OpGTE:
		return compareValues(v, f.Value) >= 0
	case OpLTE:
		return compareValues(v, f.Value) <= 0
	}
	return false
}

func (m *memStore) Find(ctx context.Context, collection string, filters []Filter) ([]Record, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	var out []Record
	for _, rec := range m.collections[collection] {
		keep := true
		for _, f := range filters {
			if !matches(rec, f) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, rec.Clone())
		}
	}
	return out, nil
}

func (m *memStore) FindOne(ctx context.Context, collection string, filters []Filter) (Record, error) {
	recs, err := m.Find(ctx, collection, filters)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return recs[0], nil
}

func (m *memStore) CreateOne(ctx context.Context, collection string, fields Record) (Record, error) {
	rec := fields.Clone()
	rec["id"] = uint(len(m.collections[collection]) + 1)
	m.collections[collection] = append(m.collections[collection], rec)
	return rec.Clone(), nil
}

func (m *memStore) UpdateOne(ctx context.Context, collection string, id uint, patch Record) (Record, error) {
	for _, rec := range m.collections[collection] {
		if sameID(rec["id"], id) {
			for k, v := range patch {
				rec[k] = v
			}
			return rec.Clone(), nil
		}
	}
	return nil, nil
}

func (m *memStore) DeleteOne(ctx context.Context, collection string, id uint) (Record, error) {
	recs := m.collections[collection]
	for i, rec := range recs {
		if sameID(rec["id"], id) {
			m.collections[collection] = append(recs[:i], recs[i+1:]...)
			return rec.Clone(), nil
		}
	}
	return nil, nil
}

func (m *memStore) JoinLookup(ctx context.Context, base []Record, j Join) ([]Record, error) {
	for _, rec := range base {
		var matched []Record
		localVal, ok := FieldPath(rec, j.LocalKey)
		if ok {
			for _, foreign := range m.collections[j.From] {
				if !sameID(foreign[j.ForeignKey], localVal) {
					continue
				}
				keep := true
				for _, f := range j.Extra {
					if !matches(foreign, f) {
						keep = false
						break
					}
				}
				if !keep {
					continue
				}
				attached := foreign.Clone()
				if len(j.Project) > 0 {
					projected := Record{j.ForeignKey: attached[j.ForeignKey]}
					for _, field := range j.Project {
						if v, ok := attached[field]; ok {
							projected[field] = v
						}
					}
					attached = projected
				}
				matched = append(matched, attached)
			}
		}
		if matched == nil {
			matched = []Record{}
		}
		rec[j.As] = matched
	}
	return base, nil
}

func seedVideoStore(t *testing.T) *memStore {
	t.Helper()
	store := newMemStore()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	store.add("users",
		Record{"id": uint(1), "username": "alice", "full_name": "Alice A", "password": "hash"},
		Record{"id": uint(2), "username": "bob", "full_name": "Bob B", "password": "hash"},
	)
	store.add("videos",
		Record{"id": uint(10), "owner_id": uint(1), "title": "Go Concurrency", "views": int64(100), "is_published": true, "created_at": base.Add(1 * time.Hour)},
		Record{"id": uint(11), "owner_id": uint(1), "title": "Go Generics", "views": int64(50), "is_published": true, "created_at": base.Add(2 * time.Hour)},
		Record{"id": uint(12), "owner_id": uint(2), "title": "Rust Intro", "views": int64(200), "is_published": false, "created_at": base.Add(3 * time.Hour)},
	)
	store.add("relations",
		Record{"id": uint(100), "actor_id": uint(2), "target_kind": "video", "target_id": uint(10), "created_at": base},
		Record{"id": uint(101), "actor_id": uint(1), "target_kind": "video", "target_id": uint(10), "created_at": base},
		Record{"id": uint(102), "actor_id": uint(2), "target_kind": "channel", "target_id": uint(10), "created_at": base},
	)
	return store
}

func TestExecutorFilters(t *testing.T) {
	exec := NewExecutor(seedVideoStore(t))

	t.Run("equality", func(t *testing.T) {
		recs, err := exec.All(context.Background(), From("videos").Filter(Eq("is_published", true)).MustBuild())
		require.NoError(t, err)
		assert.Len(t, recs, 2)
	})

	t.Run("contains is case-insensitive", func(t *testing.T) {
		recs, err := exec.All(context.Background(), From("videos").Filter(Contains("title", "go ")).MustBuild())
		require.NoError(t, err)
		assert.Len(t, recs, 2)
	})

	t.Run("range filters", func(t *testing.T) {
		recs, err := exec.All(context.Background(), From("videos").Filter(GTE("views", int64(100))).MustBuild())
		require.NoError(t, err)
		assert.Len(t, recs, 2)

		recs, err = exec.All(context.Background(), From("videos").Filter(LTE("views", int64(60))).MustBuild())
		require.NoError(t, err)
		assert.Len(t, recs, 1)
	})

	t.Run("no match yields empty slice, not error", func(t *testing.T) {
		recs, err := exec.All(context.Background(), From("videos").Filter(Eq("id", uint(999))).MustBuild())
		require.NoError(t, err)
		assert.Empty(t, recs)
	})
}

func TestExecutorJoinAndFlatten(t *testing.T) {
	exec := NewExecutor(seedVideoStore(t))

	t.Run("join attaches list, flatten collapses it", func(t *testing.T) {
		p := From("videos").
			Filter(Eq("id", uint(10))).
			Join(Join{From: "users", LocalKey: "owner_id", ForeignKey: "id", As: "owner", Project: []string{"username"}}).
			Flatten(Flatten{Field: "owner", Required: true}).
			MustBuild()

		rec, err := exec.One(context.Background(), p)
		require.NoError(t, err)
		owner, ok := rec["owner"].(Record)
		require.True(t, ok)
		assert.Equal(t, "alice", owner["username"])
		assert.NotContains(t, owner, "password")
	})

	t.Run("required flatten drops records without a match", func(t *testing.T) {
		store := seedVideoStore(t)
		store.add("videos", Record{"id": uint(13), "owner_id": uint(99), "title": "Orphan", "is_published": true, "created_at": time.Now()})
		exec := NewExecutor(store)

		p := From("videos").
			Join(Join{From: "users", LocalKey: "owner_id", ForeignKey: "id", As: "owner"}).
			Flatten(Flatten{Field: "owner", Required: true}).
			MustBuild()

		recs, err := exec.All(context.Background(), p)
		require.NoError(t, err)
		for _, rec := range recs {
			assert.NotEqual(t, "Orphan", rec["title"])
		}
	})

	t.Run("optional flatten keeps the record with a nil field", func(t *testing.T) {
		store := newMemStore()
		store.add("videos", Record{"id": uint(1), "owner_id": uint(42), "created_at": time.Now()})
		exec := NewExecutor(store)

		p := From("videos").
			Join(Join{From: "users", LocalKey: "owner_id", ForeignKey: "id", As: "owner"}).
			Flatten(Flatten{Field: "owner"}).
			MustBuild()

		recs, err := exec.All(context.Background(), p)
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Nil(t, recs[0]["owner"])
	})

	t.Run("extra filters restrict the joined collection", func(t *testing.T) {
		p := From("videos").
			Filter(Eq("id", uint(10))).
			Join(Join{From: "relations", LocalKey: "id", ForeignKey: "target_id", As: "likes",
				Extra: []Filter{Eq("target_kind", "video")}}).
			Compute(Compute{As: "likes_count", Op: ComputeCount, Source: "likes"}).
			MustBuild()

		rec, err := exec.One(context.Background(), p)
		require.NoError(t, err)
		// the channel relation targeting id 10 must not count as a like
		assert.Equal(t, 2, rec["likes_count"])
	})

	t.Run("chained join keys through an earlier join", func(t *testing.T) {
		p := From("relations").
			Filter(Eq("actor_id", uint(2)), Eq("target_kind", "video")).
			Join(Join{From: "videos", LocalKey: "target_id", ForeignKey: "id", As: "video"}).
			Join(Join{From: "users", LocalKey: "video.owner_id", ForeignKey: "id", As: "owner", Project: []string{"username"}}).
			Flatten(Flatten{Field: "video", Required: true}).
			Flatten(Flatten{Field: "owner", Required: true}).
			MustBuild()

		rec, err := exec.One(context.Background(), p)
		require.NoError(t, err)
		owner, ok := rec["owner"].(Record)
		require.True(t, ok)
		assert.Equal(t, "alice", owner["username"])
	})
}

func TestExecutorComputes(t *testing.T) {
	exec := NewExecutor(seedVideoStore(t))

	likesJoin := Join{From: "relations", LocalKey: "id", ForeignKey: "target_id", As: "likes",
		Extra: []Filter{Eq("target_kind", "video")}}

	t.Run("membership reflects the principal", func(t *testing.T) {
		p := From("videos").
			Filter(Eq("id", uint(10))).
			Join(likesJoin).
			Compute(Compute{As: "liked", Op: ComputeMembership, Source: "likes", Key: "actor_id", Value: uint(2)}).
			MustBuild()

		rec, err := exec.One(context.Background(), p)
		require.NoError(t, err)
		assert.Equal(t, true, rec["liked"])
	})

	t.Run("membership is false for a stranger", func(t *testing.T) {
		p := From("videos").
			Filter(Eq("id", uint(10))).
			Join(likesJoin).
			Compute(Compute{As: "liked", Op: ComputeMembership, Source: "likes", Key: "actor_id", Value: uint(7)}).
			MustBuild()

		rec, err := exec.One(context.Background(), p)
		require.NoError(t, err)
		assert.Equal(t, false, rec["liked"])
	})

	t.Run("sum folds a numeric key", func(t *testing.T) {
		store := newMemStore()
		store.add("users", Record{"id": uint(1), "created_at": time.Now()})
		store.add("videos",
			Record{"id": uint(10), "owner_id": uint(1), "views": int64(30)},
			Record{"id": uint(11), "owner_id": uint(1), "views": int64(12)},
		)
		exec := NewExecutor(store)

		p := From("users").
			Filter(Eq("id", uint(1))).
			Join(Join{From: "videos", LocalKey: "id", ForeignKey: "owner_id", As: "videos"}).
			Compute(Compute{As: "total_views", Op: ComputeSum, Source: "videos", Key: "views"}).
			MustBuild()

		rec, err := exec.One(context.Background(), p)
		require.NoError(t, err)
		assert.Equal(t, int64(42), rec["total_views"])
	})
}

func TestExecutorProjection(t *testing.T) {
	exec := NewExecutor(seedVideoStore(t))

	t.Run("include keeps only named paths", func(t *testing.T) {
		p := From("videos").
			Filter(Eq("id", uint(10))).
			Project(Projection{Include: []string{"id", "title"}}).
			MustBuild()

		rec, err := exec.One(context.Background(), p)
		require.NoError(t, err)
		assert.Len(t, rec, 2)
		assert.Equal(t, "Go Concurrency", rec["title"])
	})

	t.Run("exclude reaches into nested records", func(t *testing.T) {
		p := From("videos").
			Filter(Eq("id", uint(10))).
			Join(Join{From: "users", LocalKey: "owner_id", ForeignKey: "id", As: "owner"}).
			Flatten(Flatten{Field: "owner", Required: true}).
			Project(Projection{Exclude: []string{"owner.password"}}).
			MustBuild()

		rec, err := exec.One(context.Background(), p)
		require.NoError(t, err)
		owner := rec["owner"].(Record)
		assert.NotContains(t, owner, "password")
		assert.Equal(t, "alice", owner["username"])
	})
}

func TestExecutorSortAndPagination(t *testing.T) {
	t.Run("default sort is created_at descending", func(t *testing.T) {
		exec := NewExecutor(seedVideoStore(t))
		recs, err := exec.All(context.Background(), From("videos").MustBuild())
		require.NoError(t, err)
		require.Len(t, recs, 3)
		assert.Equal(t, uint(12), recs[0]["id"])
		assert.Equal(t, uint(10), recs[2]["id"])
	})

	t.Run("explicit numeric sort", func(t *testing.T) {
		exec := NewExecutor(seedVideoStore(t))
		recs, err := exec.All(context.Background(), From("videos").Sort("views", true).MustBuild())
		require.NoError(t, err)
		assert.Equal(t, int64(200), recs[0]["views"])
	})

	t.Run("25 records at limit 10 paginate as 10, 10, 5, 0", func(t *testing.T) {
		store := newMemStore()
		base := time.Now()
		for i := 1; i <= 25; i++ {
			store.add("videos", Record{"id": uint(i), "created_at": base.Add(time.Duration(i) * time.Second)})
		}
		exec := NewExecutor(store)

		for _, tc := range []struct {
			page int
			want int
		}{{1, 10}, {2, 10}, {3, 5}, {4, 0}} {
			p := From("videos").Paginate(tc.page, 10).MustBuild()
			page, err := exec.Execute(context.Background(), p)
			require.NoError(t, err)
			assert.Len(t, page.Items, tc.want, "page %d", tc.page)
			assert.Equal(t, 25, page.Total)
			assert.Equal(t, 3, page.TotalPages)
		}
	})

	t.Run("zero page and limit fall back to defaults", func(t *testing.T) {
		exec := NewExecutor(seedVideoStore(t))
		page, err := exec.Execute(context.Background(), From("videos").Paginate(0, 0).MustBuild())
		require.NoError(t, err)
		assert.Equal(t, DefaultPage, page.Page)
		assert.Equal(t, DefaultLimit, page.Limit)
	})

	t.Run("empty result is an empty page", func(t *testing.T) {
		exec := NewExecutor(seedVideoStore(t))
		page, err := exec.Execute(context.Background(), From("videos").Filter(Eq("id", uint(999))).MustBuild())
		require.NoError(t, err)
		assert.NotNil(t, page.Items)
		assert.Empty(t, page.Items)
		assert.Zero(t, page.Total)
		assert.Zero(t, page.TotalPages)
	})
}

func TestExecutorOne(t *testing.T) {
	exec := NewExecutor(seedVideoStore(t))

	t.Run("missing record maps to NotFound with a singular noun", func(t *testing.T) {
		_, err := exec.One(context.Background(), From("videos").Filter(Eq("id", uint(999))).MustBuild())
		require.Error(t, err)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeNotFound, appErr.Code)
		assert.Contains(t, appErr.Message, "video")
	})

	t.Run("store failure maps to a store error", func(t *testing.T) {
		store := newMemStore()
		store.findErr = errors.New("connection reset")
		exec := NewExecutor(store)

		_, err := exec.All(context.Background(), From("videos").MustBuild())
		require.Error(t, err)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeStore, appErr.Code)
	})
}
