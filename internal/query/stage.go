package query

import (
	"fmt"
)

// Join fetches related records from a second collection by key equality and
// attaches them to each base record as a list under As.
type Join struct {
	From       string
	LocalKey   string
	ForeignKey string
	As         string
	// Project limits the joined records to these fields. The foreign key is
	// always carried so later stages can still correlate. Empty keeps all.
	Project []string
	// Extra restricts the foreign collection further, e.g. target_kind=video
	// when joining likes out of the shared relations table.
	Extra []Filter
}

// Flatten collapses a 0-or-1 join result into a scalar nested record.
// Required drops base records whose list is empty; otherwise the field is
// left nil.
type Flatten struct {
	Field    string
	Required bool
}

// ComputeOp is a derivation over already-joined data.
type ComputeOp string

const (
	// ComputeCount stores the cardinality of the joined list.
	ComputeCount ComputeOp = "count"
	// ComputeMembership stores whether Value appears under Key in any
	// element of the joined list.
	ComputeMembership ComputeOp = "membership"
	// ComputeSum stores the sum of the numeric Key over the joined list.
	ComputeSum ComputeOp = "sum"
)

// Compute derives a scalar field from a joined list.
type Compute struct {
	As     string
	Op     ComputeOp
	Source string // join alias the computation reads
	Key    string // element field for membership and sum
	Value  any    // the principal id for membership
}

// Projection includes or excludes named fields from the final shape. Paths
// may be dotted to reach into flattened nested records ("owner.password").
// Include wins when both are set.
type Projection struct {
	Include []string
	Exclude []string
}

// Sort orders by a named field. When a pipeline carries no sort stage the
// executor falls back to created_at descending.
type Sort struct {
	Field string
	Desc  bool
}

// Paginate slices the result into a 1-based page. Non-positive values fall
// back to DefaultPage/DefaultLimit.
type Paginate struct {
	Page  int
	Limit int
}

// Pagination defaults, applied whenever a caller omits or zeroes them.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// stage ranks fix the only legal order: Filter, Join, Flatten, Compute,
// Project, Sort, Paginate. Correctness depends on it — Compute reads fields
// that Join materializes — so the builder rejects any other order outright
// rather than trying to be clever about reordering.
const (
	rankFilter = iota + 1
	rankJoin
	rankFlatten
	rankCompute
	rankProject
	rankSort
	rankPaginate
)

// Pipeline is a validated, immutable stage sequence over one collection.
// Obtain one through From(...).Build().
type Pipeline struct {
	Collection string

	filters    []Filter
	joins      []Join
	flattens   []Flatten
	computes   []Compute
	projection *Projection
	sort       *Sort
	paginate   *Paginate
}

// Builder assembles a Pipeline while enforcing stage order at construction
// time. Stage methods may be called repeatedly (several filters, several
// joins) but never out of rank order.
type Builder struct {
	p        Pipeline
	lastRank int
	errs     []error
}

// From starts a pipeline over the named collection.
func From(collection string) *Builder {
	return &Builder{p: Pipeline{Collection: collection}}
}

func (b *Builder) advance(rank int, stage string) bool {
	if rank < b.lastRank {
		b.errs = append(b.errs, fmt.Errorf("stage %s cannot follow a later stage: pipeline order is filter, join, flatten, compute, project, sort, paginate", stage))
		return false
	}
	b.lastRank = rank
	return true
}

// Filter keeps records matching every given predicate.
func (b *Builder) Filter(filters ...Filter) *Builder {
	if b.advance(rankFilter, "filter") {
		b.p.filters = append(b.p.filters, filters...)
	}
	return b
}

// Join attaches related records from a second collection.
func (b *Builder) Join(j Join) *Builder {
	if b.advance(rankJoin, "join") {
		if j.As == "" {
			b.errs = append(b.errs, fmt.Errorf("join from %q requires an alias", j.From))
		}
		b.p.joins = append(b.p.joins, j)
	}
	return b
}

// Flatten collapses a singleton join result into a scalar field.
func (b *Builder) Flatten(f Flatten) *Builder {
	if b.advance(rankFlatten, "flatten") {
		b.p.flattens = append(b.p.flattens, f)
	}
	return b
}

// Compute derives a scalar from joined data.
func (b *Builder) Compute(c Compute) *Builder {
	if b.advance(rankCompute, "compute") {
		b.p.computes = append(b.p.computes, c)
	}
	return b
}

// Project includes or excludes fields from the final record shape.
func (b *Builder) Project(p Projection) *Builder {
	if b.advance(rankProject, "project") {
		b.p.projection = &p
	}
	return b
}

// Sort orders the result by field, descending when desc is true.
func (b *Builder) Sort(field string, desc bool) *Builder {
	if b.advance(rankSort, "sort") {
		b.p.sort = &Sort{Field: field, Desc: desc}
	}
	return b
}

// Paginate slices the result into the requested 1-based page.
func (b *Builder) Paginate(page, limit int) *Builder {
	if b.advance(rankPaginate, "paginate") {
		b.p.paginate = &Paginate{Page: page, Limit: limit}
	}
	return b
}

// Build validates the assembled pipeline. Beyond stage order it checks that
// every Flatten and Compute reads an alias some prior Join introduced, so a
// compute over a never-joined field is impossible to even construct.
func (b *Builder) Build() (*Pipeline, error) {
	if len(b.errs) > 0 {
		return nil, b.errs[0]
	}
	if b.p.Collection == "" {
		return nil, fmt.Errorf("pipeline requires a collection")
	}

	aliases := make(map[string]bool, len(b.p.joins))
	for _, j := range b.p.joins {
		if aliases[j.As] {
			return nil, fmt.Errorf("duplicate join alias %q", j.As)
		}
		aliases[j.As] = true
	}
	for _, f := range b.p.flattens {
		if !aliases[f.Field] {
			return nil, fmt.Errorf("flatten %q does not match any join alias", f.Field)
		}
	}
	flattened := make(map[string]bool, len(b.p.flattens))
	for _, f := range b.p.flattens {
		flattened[f.Field] = true
	}
	for _, c := range b.p.computes {
		if c.As == "" {
			return nil, fmt.Errorf("compute requires an output field name")
		}
		if !aliases[c.Source] {
			return nil, fmt.Errorf("compute %q reads %q, which no join materializes", c.As, c.Source)
		}
		if flattened[c.Source] {
			return nil, fmt.Errorf("compute %q reads %q after it was flattened to a scalar", c.As, c.Source)
		}
		if (c.Op == ComputeMembership || c.Op == ComputeSum) && c.Key == "" {
			return nil, fmt.Errorf("compute %q (%s) requires a key", c.As, c.Op)
		}
	}

	p := b.p
	return &p, nil
}

// MustBuild is Build for pipelines assembled from compile-time constants.
func (b *Builder) MustBuild() *Pipeline {
	p, err := b.Build()
	if err != nil {
		panic(err)
	}
	return p
}
