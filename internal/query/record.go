// Package query implements the pipeline engine behind every read path:
// declarative, order-fixed stages (filter, join, flatten, compute, project,
// sort, paginate) executed against a Store.
package query

import (
	"strconv"
	"strings"
	"time"
)

// Record is one row of a collection, keyed by column name. Joined data is
// attached under the join alias as []Record until a Flatten stage collapses
// it to a single nested Record.
type Record map[string]any

// Clone returns a shallow copy of the record. Stages that rewrite fields
// operate on clones so the store's slices are never mutated in place.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// FieldPath resolves a possibly dotted path ("video.owner_id") against the
// record. It descends through nested records and through singleton join
// lists, so a later join can key off data an earlier join attached even
// before a Flatten stage collapses it.
func FieldPath(r Record, path string) (any, bool) {
	parts := strings.Split(path, ".")
	cur := r
	for i, part := range parts {
		v, ok := cur[part]
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return v, true
		}
		switch nested := v.(type) {
		case Record:
			cur = nested
		case []Record:
			if len(nested) != 1 {
				return nil, false
			}
			cur = nested[0]
		default:
			return nil, false
		}
	}
	return nil, false
}

// asUint64 normalizes the integer representations different drivers hand
// back (int64 from sqlite, uint from in-memory stores, float64 from JSON).
func asUint64(v any) (uint64, bool) {
	switch n := v.(type) {
	case uint:
		return uint64(n), true
	case uint32:
		return uint64(n), true
	case uint64:
		return n, true
	case int:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case int32:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case int64:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case float64:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case string:
		parsed, err := strconv.ParseUint(n, 10, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	}
	return 0, false
}

// sameID reports whether two values denote the same identifier.
func sameID(a, b any) bool {
	av, aok := asUint64(a)
	bv, bok := asUint64(b)
	return aok && bok && av == bv
}

// asFloat64 normalizes numeric values for sums and comparisons.
func asFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// compareValues orders two field values for the sort stage: numbers before
// everything else, then times, strings, and bools. Returns <0, 0 or >0.
func compareValues(a, b any) int {
	if af, ok := asFloat64(a); ok {
		if bf, ok := asFloat64(b); ok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	}
	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			switch {
			case at.Before(bt):
				return -1
			case at.After(bt):
				return 1
			}
			return 0
		}
	}
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			switch {
			case as < bs:
				return -1
			case as > bs:
				return 1
			}
			return 0
		}
	}
	if ab, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			switch {
			case !ab && bb:
				return -1
			case ab && !bb:
				return 1
			}
			return 0
		}
	}
	return 0
}
