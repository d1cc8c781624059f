// Package service implements the application's business logic on top of the
// repository layer and the query pipeline engine.
package service

import (
	"mediasphere/internal/models"
	"mediasphere/internal/query"
)

// ownerFields is the shape of an owner nested into query results. The
// password column never leaves the store.
var ownerFields = []string{"id", "username", "full_name", "avatar"}

func ownerJoin() query.Join {
	return query.Join{
		From:       "users",
		LocalKey:   "owner_id",
		ForeignKey: "id",
		As:         "owner",
		Project:    ownerFields,
	}
}

// likesJoin attaches the like relations pointing at each base record. The
// relations table is shared across target kinds, so the join is always
// narrowed by target_kind.
func likesJoin(kind models.TargetKind) query.Join {
	return query.Join{
		From:       "relations",
		LocalKey:   "id",
		ForeignKey: "target_id",
		As:         "likes",
		Project:    []string{"actor_id"},
		Extra:      []query.Filter{query.Eq("target_kind", string(kind))},
	}
}

// likeComputes derives likes_count and liked from the likes join. With a
// zero principal the membership test is simply never true.
func likeComputes(principalID uint) []query.Compute {
	return []query.Compute{
		{As: "likes_count", Op: query.ComputeCount, Source: "likes"},
		{As: "liked", Op: query.ComputeMembership, Source: "likes", Key: "actor_id", Value: principalID},
	}
}

// toInt64 normalizes the integer types different database drivers hand back
// through the map-based store.
func toInt64(v any) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case uint:
		return int64(n)
	case uint32:
		return int64(n)
	case uint64:
		return int64(n)
	case float64:
		return int64(n)
	}
	return 0
}
