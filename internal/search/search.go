package search

import (
	"context"
	"errors"
	"net/url"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/quentin418/clear-fashion/internal/models"
	"github.com/quentin418/clear-fashion/pkg/logger/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the document store the products are read from. The query is
// already translated; the store adds no semantics of its own.
type Store interface {
	Find(ctx context.Context, query bson.M, opts ...*options.FindOptions) ([]models.Product, error)
}

// Query is the immutable, parsed form of a search request. A query is either
// an info query, answered with a Summary, or a page query.
type Query struct {
	Filter FilterSpec
	Sort   *SortSpec
	Page   PageRequest
	Info   bool
}

// ParseQuery builds a Query from raw query parameters. The control keys
// page, size, sort and info never become filters.
func ParseQuery(raw url.Values, opts ...Option) Query {
	q := Query{
		Filter: CompileFilter(raw, opts...),
		Page: PageRequest{
			Page: intParam(raw, "page"),
			Size: intParam(raw, "size"),
		}.Normalize(),
		Info: isTruthy(raw.Get("info")),
	}
	if s, ok := ParseSort(raw.Get("sort")); ok {
		q.Sort = &s
	}
	return q
}

// intParam reads an integer parameter. Values that overflow saturate to the
// largest integer of their sign; anything else unparsable reads as 0.
func intParam(raw url.Values, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw.Get(key)))
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	return n
}

// Execute runs the query over an in-memory snapshot: filter, sort, then
// either summarize or paginate. The snapshot is not modified.
func Execute(products []models.Product, q Query) models.Response {
	matched := q.Filter.Apply(products)
	if q.Sort != nil {
		matched = q.Sort.Sort(matched)
	}

	if q.Info {
		return models.Response{Success: true, Data: Summarize(matched)}
	}

	items, meta := Paginate(matched, q.Page)
	return models.Response{
		Success: true,
		Data:    models.PageResult{Result: items, Meta: meta},
	}
}

// Summarize computes the info indicators. Statistics are left unset for an
// empty collection.
func Summarize(products []models.Product) models.Summary {
	summary := models.Summary{NbNew: len(products)}
	if len(products) == 0 {
		return summary
	}
	summary.P50 = percentileOf(50, products)
	summary.P90 = percentileOf(90, products)
	summary.P95 = percentileOf(95, products)
	for _, p := range products {
		if released, ok := p.ReleasedOn(); ok && released > summary.LastReleased {
			summary.LastReleased = released
		}
	}
	return summary
}

func percentileOf(p float64, products []models.Product) *float64 {
	v, ok := Percentile(p, products)
	if !ok {
		return nil
	}
	return &v
}

// Searcher answers product searches against a Store.
type Searcher struct {
	store Store
}

func NewSearcher(store Store) *Searcher {
	return &Searcher{store: store}
}

// SearchRaw parses raw parameters and runs the search.
func (s *Searcher) SearchRaw(ctx context.Context, raw url.Values, opts ...Option) models.Response {
	return s.Search(ctx, ParseQuery(raw, opts...))
}

// Search fetches a snapshot matching the query and executes it. Store
// failures and panics are logged and reported as an unsuccessful response.
func (s *Searcher) Search(ctx context.Context, q Query) (resp models.Response) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorw(ctx, "PANIC RECOVER", "error", r, "stack", string(debug.Stack()))
			resp = failure()
		}
	}()

	findOpts := options.Find()
	if q.Sort != nil {
		findOpts.SetSort(q.Sort.BSON())
	}
	products, err := s.store.Find(ctx, q.Filter.BSON(), findOpts)
	if err != nil {
		log.Errorw(ctx, "search products failed", "error", err)
		return failure()
	}

	return Execute(products, q)
}

func failure() models.Response {
	return models.Response{Success: false, ErrorMessage: "search failed"}
}
