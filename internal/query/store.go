package query

import "context"

// FilterOp is a predicate kind understood by every Store implementation.
type FilterOp string

const (
	// OpEq matches exact equality.
	OpEq FilterOp = "eq"
	// OpContains matches a case-insensitive substring.
	OpContains FilterOp = "contains"
	// OpGTE matches values greater than or equal to the operand.
	OpGTE FilterOp = "gte"
	// OpLTE matches values less than or equal to the operand.
	OpLTE FilterOp = "lte"
)

// Filter is one predicate over a collection field.
type Filter struct {
	Field string
	Op    FilterOp
	Value any
}

// Eq builds an equality filter.
func Eq(field string, value any) Filter {
	return Filter{Field: field, Op: OpEq, Value: value}
}

// Contains builds a case-insensitive substring filter.
func Contains(field string, value string) Filter {
	return Filter{Field: field, Op: OpContains, Value: value}
}

// GTE builds a greater-or-equal filter.
func GTE(field string, value any) Filter {
	return Filter{Field: field, Op: OpGTE, Value: value}
}

// LTE builds a less-or-equal filter.
func LTE(field string, value any) Filter {
	return Filter{Field: field, Op: OpLTE, Value: value}
}

// Store is the persistence surface the engine consumes. The production
// implementation lives in the repository package on top of gorm; tests use
// an in-memory implementation. All methods are safe for concurrent use.
type Store interface {
	// Find returns every record of collection matching all filters.
	Find(ctx context.Context, collection string, filters []Filter) ([]Record, error)
	// FindOne returns the first matching record, or nil when absent.
	FindOne(ctx context.Context, collection string, filters []Filter) (Record, error)
	// CreateOne inserts fields as a new record and returns it with its id.
	CreateOne(ctx context.Context, collection string, fields Record) (Record, error)
	// UpdateOne applies patch to the record with the given id and returns
	// the updated record, or nil when absent.
	UpdateOne(ctx context.Context, collection string, id uint, patch Record) (Record, error)
	// DeleteOne removes the record with the given id and returns it, or nil
	// when absent.
	DeleteOne(ctx context.Context, collection string, id uint) (Record, error)
	// JoinLookup fetches, for every base record, the records of j.From whose
	// j.ForeignKey equals the base record's j.LocalKey, optionally projected
	// to j.Project and restricted by j.Extra, attaching the result list
	// under j.As. Zero matches attach an empty list, never a missing key.
	JoinLookup(ctx context.Context, base []Record, j Join) ([]Record, error)
}
