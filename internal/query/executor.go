package query

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"mediasphere/internal/models"
	"mediasphere/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

// Executor runs pipelines against a Store. Stages always execute in the
// fixed order the builder enforced; each stage sees the fully materialized
// output of the previous one.
type Executor struct {
	store Store
}

// NewExecutor returns an Executor over the given store.
func NewExecutor(store Store) *Executor {
	return &Executor{store: store}
}

// Store exposes the underlying store for callers that need raw access
// (the toggle engine's existence lookups, for example).
func (e *Executor) Store() Store {
	return e.store
}

// Execute runs the pipeline and returns the requested page. A pipeline
// matching zero records yields an empty page, not an error.
func (e *Executor) Execute(ctx context.Context, p *Pipeline) (*Page[Record], error) {
	items, err := e.run(ctx, p)
	if err != nil {
		return nil, err
	}

	pg := Paginate{Page: DefaultPage, Limit: DefaultLimit}
	if p.paginate != nil {
		pg = *p.paginate
	}
	if pg.Page <= 0 {
		pg.Page = DefaultPage
	}
	if pg.Limit <= 0 {
		pg.Limit = DefaultLimit
	}

	total := len(items)
	start := (pg.Page - 1) * pg.Limit
	end := start + pg.Limit
	var window []Record
	if start < total {
		if end > total {
			end = total
		}
		window = items[start:end]
	}
	return NewPage(window, pg.Page, pg.Limit, total), nil
}

// All runs the pipeline without pagination.
func (e *Executor) All(ctx context.Context, p *Pipeline) ([]Record, error) {
	return e.run(ctx, p)
}

// One runs the pipeline and returns the single matching record, failing
// with NotFound when the base filter matched nothing.
func (e *Executor) One(ctx context.Context, p *Pipeline) (Record, error) {
	items, err := e.run(ctx, p)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, &models.AppError{
			Code:    models.CodeNotFound,
			Message: fmt.Sprintf("No matching %s found", strings.TrimSuffix(p.Collection, "s")),
		}
	}
	return items[0], nil
}

func (e *Executor) run(ctx context.Context, p *Pipeline) ([]Record, error) {
	ctx, span := observability.Tracer.Start(ctx, "query.pipeline")
	span.SetAttributes(attribute.String("query.collection", p.Collection))
	defer span.End()

	start := time.Now()
	defer func() {
		observability.PipelineDuration.WithLabelValues(p.Collection).Observe(time.Since(start).Seconds())
	}()

	records, err := e.store.Find(ctx, p.Collection, p.filters)
	if err != nil {
		return nil, models.NewStoreError(err)
	}

	for _, j := range p.joins {
		records, err = e.store.JoinLookup(ctx, records, j)
		if err != nil {
			return nil, models.NewStoreError(err)
		}
	}

	for _, f := range p.flattens {
		records = applyFlatten(records, f)
	}

	for _, c := range p.computes {
		if err := applyCompute(records, c); err != nil {
			return nil, err
		}
	}

	if p.projection != nil {
		for i := range records {
			records[i] = applyProjection(records[i], *p.projection)
		}
	}

	s := Sort{Field: "created_at", Desc: true}
	if p.sort != nil {
		s = *p.sort
	}
	sort.SliceStable(records, func(i, j int) bool {
		cmp := compareValues(records[i][s.Field], records[j][s.Field])
		if s.Desc {
			return cmp > 0
		}
		return cmp < 0
	})

	return records, nil
}

func applyFlatten(records []Record, f Flatten) []Record {
	out := records[:0]
	for _, rec := range records {
		list, _ := rec[f.Field].([]Record)
		switch {
		case len(list) > 0:
			rec[f.Field] = list[0]
		case f.Required:
			continue
		default:
			rec[f.Field] = nil
		}
		out = append(out, rec)
	}
	return out
}

// applyCompute derives c.As on every record. The source must be a still
// list-valued join alias; anything else means the pipeline was tampered
// with after Build, which is a programming error worth failing loudly on.
func applyCompute(records []Record, c Compute) error {
	for _, rec := range records {
		list, ok := rec[c.Source].([]Record)
		if !ok {
			return models.NewStoreError(fmt.Errorf("compute %q: field %q is not a joined list", c.As, c.Source))
		}
		switch c.Op {
		case ComputeCount:
			rec[c.As] = len(list)
		case ComputeMembership:
			member := false
			for _, item := range list {
				if sameID(item[c.Key], c.Value) {
					member = true
					break
				}
			}
			rec[c.As] = member
		case ComputeSum:
			var sum float64
			for _, item := range list {
				if v, ok := asFloat64(item[c.Key]); ok {
					sum += v
				}
			}
			rec[c.As] = int64(sum)
		default:
			return models.NewStoreError(fmt.Errorf("compute %q: unknown op %q", c.As, c.Op))
		}
	}
	return nil
}

func applyProjection(rec Record, p Projection) Record {
	if len(p.Include) > 0 {
		out := Record{}
		for _, path := range p.Include {
			copyPath(rec, out, strings.Split(path, "."))
		}
		return out
	}
	for _, path := range p.Exclude {
		deletePath(rec, strings.Split(path, "."))
	}
	return rec
}

func copyPath(src, dst Record, path []string) {
	v, ok := src[path[0]]
	if !ok {
		return
	}
	if len(path) == 1 {
		dst[path[0]] = v
		return
	}
	switch nested := v.(type) {
	case Record:
		sub, _ := dst[path[0]].(Record)
		if sub == nil {
			sub = Record{}
			dst[path[0]] = sub
		}
		copyPath(nested, sub, path[1:])
	case []Record:
		subs, _ := dst[path[0]].([]Record)
		if subs == nil {
			subs = make([]Record, len(nested))
			for i := range subs {
				subs[i] = Record{}
			}
			dst[path[0]] = subs
		}
		for i, item := range nested {
			copyPath(item, subs[i], path[1:])
		}
	}
}

func deletePath(rec Record, path []string) {
	if len(path) == 1 {
		delete(rec, path[0])
		return
	}
	switch nested := rec[path[0]].(type) {
	case Record:
		deletePath(nested, path[1:])
	case []Record:
		for _, item := range nested {
			deletePath(item, path[1:])
		}
	}
}
