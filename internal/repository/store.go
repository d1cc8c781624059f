// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"mediasphere/internal/query"

	"gorm.io/gorm"
)

// identPattern restricts collection and field names reaching SQL text.
// Filter values always go through placeholders; names cannot, so they are
// whitelisted here instead.
var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// gormStore adapts a gorm connection to the query.Store interface the
// pipeline executor consumes. Rows travel as maps so the executor stays
// collection-agnostic.
type gormStore struct {
	db *gorm.DB
}

// NewStore returns a query.Store backed by the given gorm connection.
func NewStore(db *gorm.DB) query.Store {
	return &gormStore{db: db}
}

func (s *gormStore) scoped(ctx context.Context, collection string, filters []query.Filter) (*gorm.DB, error) {
	if !identPattern.MatchString(collection) {
		return nil, fmt.Errorf("invalid collection name %q", collection)
	}
	tx := s.db.WithContext(ctx).Table(collection)
	for _, f := range filters {
		if !identPattern.MatchString(f.Field) {
			return nil, fmt.Errorf("invalid field name %q", f.Field)
		}
		switch f.Op {
		case query.OpEq:
			tx = tx.Where(f.Field+" = ?", f.Value)
		case query.OpContains:
			tx = tx.Where("LOWER("+f.Field+") LIKE ?", "%"+strings.ToLower(fmt.Sprint(f.Value))+"%")
		case query.OpGTE:
			tx = tx.Where(f.Field+" >= ?", f.Value)
		case query.OpLTE:
			tx = tx.Where(f.Field+" <= ?", f.Value)
		default:
			return nil, fmt.Errorf("unknown filter op %q", f.Op)
		}
	}
	return tx, nil
}

func (s *gormStore) Find(ctx context.Context, collection string, filters []query.Filter) ([]query.Record, error) {
	tx, err := s.scoped(ctx, collection, filters)
	if err != nil {
		return nil, err
	}
	var rows []map[string]interface{}
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	records := make([]query.Record, len(rows))
	for i, row := range rows {
		records[i] = query.Record(row)
	}
	return records, nil
}

func (s *gormStore) FindOne(ctx context.Context, collection string, filters []query.Filter) (query.Record, error) {
	tx, err := s.scoped(ctx, collection, filters)
	if err != nil {
		return nil, err
	}
	var rows []map[string]interface{}
	if err := tx.Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return query.Record(rows[0]), nil
}

func (s *gormStore) CreateOne(ctx context.Context, collection string, fields query.Record) (query.Record, error) {
	if !identPattern.MatchString(collection) {
		return nil, fmt.Errorf("invalid collection name %q", collection)
	}
	row := map[string]interface{}(fields.Clone())
	if err := s.db.WithContext(ctx).Table(collection).Create(&row).Error; err != nil {
		return nil, err
	}
	if id, ok := row["id"]; ok {
		// Re-read so database defaults are reflected in the result.
		if fresh, err := s.FindOne(ctx, collection, []query.Filter{query.Eq("id", id)}); err == nil && fresh != nil {
			return fresh, nil
		}
	}
	return query.Record(row), nil
}

func (s *gormStore) UpdateOne(ctx context.Context, collection string, id uint, patch query.Record) (query.Record, error) {
	tx, err := s.scoped(ctx, collection, nil)
	if err != nil {
		return nil, err
	}
	for field := range patch {
		if !identPattern.MatchString(field) {
			return nil, fmt.Errorf("invalid field name %q", field)
		}
	}
	res := tx.Where("id = ?", id).Updates(map[string]interface{}(patch))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return s.FindOne(ctx, collection, []query.Filter{query.Eq("id", id)})
}

func (s *gormStore) DeleteOne(ctx context.Context, collection string, id uint) (query.Record, error) {
	existing, err := s.FindOne(ctx, collection, []query.Filter{query.Eq("id", id)})
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}
	if err := s.db.WithContext(ctx).Exec("DELETE FROM "+collection+" WHERE id = ?", id).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *gormStore) JoinLookup(ctx context.Context, base []query.Record, j query.Join) ([]query.Record, error) {
	if len(base) == 0 {
		return base, nil
	}
	// LocalKey may be dotted to reach into a flattened nested record.
	for _, part := range strings.Split(j.LocalKey, ".") {
		if !identPattern.MatchString(part) {
			return nil, fmt.Errorf("invalid join key %q", j.LocalKey)
		}
	}
	if !identPattern.MatchString(j.ForeignKey) {
		return nil, fmt.Errorf("invalid join key %q", j.ForeignKey)
	}

	keys := make([]any, 0, len(base))
	seen := make(map[string]struct{}, len(base))
	for _, rec := range base {
		v, ok := query.FieldPath(rec, j.LocalKey)
		if !ok || v == nil {
			continue
		}
		norm := fmt.Sprint(v)
		if _, dup := seen[norm]; dup {
			continue
		}
		seen[norm] = struct{}{}
		keys = append(keys, v)
	}

	grouped := make(map[string][]query.Record)
	if len(keys) > 0 {
		tx, err := s.scoped(ctx, j.From, j.Extra)
		if err != nil {
			return nil, err
		}
		tx = tx.Where(j.ForeignKey+" IN ?", keys)
		if len(j.Project) > 0 {
			cols := make([]string, 0, len(j.Project)+1)
			cols = append(cols, j.Project...)
			if !contains(cols, j.ForeignKey) {
				cols = append(cols, j.ForeignKey)
			}
			for _, col := range cols {
				if !identPattern.MatchString(col) {
					return nil, fmt.Errorf("invalid projection field %q", col)
				}
			}
			tx = tx.Select(cols)
		}
		var rows []map[string]interface{}
		if err := tx.Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, row := range rows {
			key := fmt.Sprint(row[j.ForeignKey])
			grouped[key] = append(grouped[key], query.Record(row))
		}
	}

	for _, rec := range base {
		v, _ := query.FieldPath(rec, j.LocalKey)
		matches := grouped[fmt.Sprint(v)]
		if matches == nil {
			matches = []query.Record{}
		}
		rec[j.As] = matches
	}
	return base, nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
