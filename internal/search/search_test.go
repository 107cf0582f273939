package search

import (
	"context"
	"errors"
	"math"
	"net/url"
	"testing"

	"github.com/quentin418/clear-fashion/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// memoryStore ignores the pushed-down query, so every test also proves the
// in-memory pipeline on its own.
type memoryStore struct {
	products  []models.Product
	err       error
	panicWith any

	gotQuery bson.M
	gotOpts  []*options.FindOptions
}

func (s *memoryStore) Find(_ context.Context, query bson.M, opts ...*options.FindOptions) ([]models.Product, error) {
	if s.panicWith != nil {
		panic(s.panicWith)
	}
	s.gotQuery = query
	s.gotOpts = opts
	return s.products, s.err
}

func TestParseQuery(t *testing.T) {
	raw, err := url.ParseQuery("brand=dedicated&price=lt:100&sort=price:-1&page=3&size=4&info=1")
	require.NoError(t, err)

	q := ParseQuery(raw)
	assert.Equal(t, []Constraint{BrandConstraint("dedicated"), PriceConstraint(OpLt, 100)}, q.Filter.Constraints())
	require.NotNil(t, q.Sort)
	assert.Equal(t, SortSpec{FieldPrice, Descending}, *q.Sort)
	assert.Equal(t, PageRequest{Page: 3, Size: 4}, q.Page)
	assert.True(t, q.Info)

	q = ParseQuery(url.Values{"page": {"x"}, "size": {"0"}, "sort": {"color:1"}})
	assert.Nil(t, q.Sort)
	assert.Equal(t, PageRequest{Page: 1, Size: 12}, q.Page)
	assert.False(t, q.Info)
	assert.True(t, q.Filter.IsEmpty())
}

func TestSearchPage(t *testing.T) {
	store := &memoryStore{products: catalog()}
	searcher := NewSearcher(store)

	raw := url.Values{"price": {"gte:50"}, "sort": {"price:1"}, "page": {"2"}, "size": {"2"}}
	resp := searcher.SearchRaw(context.Background(), raw)

	require.True(t, resp.Success)
	page, ok := resp.Data.(models.PageResult)
	require.True(t, ok)
	assert.Equal(t, []float64{85, 110}, prices(page.Result))
	assert.Equal(t, []string{"product 4", "product 5"}, names(page.Result))
	assert.Equal(t, models.PaginationMeta{CurrentPage: 2, PageCount: 3, PageSize: 2, Count: 5}, page.Meta)

	assert.Equal(t, bson.M{"price": bson.M{"$gte": 50.0}}, store.gotQuery)
	require.Len(t, store.gotOpts, 1)
	assert.Equal(t, bson.D{{Key: "price", Value: 1}}, store.gotOpts[0].Sort)
}

func TestSearchWithoutSortKeepsStoreOrder(t *testing.T) {
	searcher := NewSearcher(&memoryStore{products: catalog()})

	resp := searcher.SearchRaw(context.Background(), url.Values{})
	require.True(t, resp.Success)
	page := resp.Data.(models.PageResult)
	assert.Equal(t, names(catalog()), names(page.Result))
	assert.Equal(t, 1, page.Meta.PageCount)
}

func TestSearchOutOfRange(t *testing.T) {
	searcher := NewSearcher(&memoryStore{products: numbered(20)})

	resp := searcher.SearchRaw(context.Background(), url.Values{"page": {"9"}, "size": {"5"}})
	require.True(t, resp.Success)
	page := resp.Data.(models.PageResult)
	assert.Empty(t, page.Result)
	assert.Equal(t, models.PaginationMeta{CurrentPage: 9, PageCount: 4, PageSize: 0, Count: 20}, page.Meta)
}

func TestParseQueryInfoFlag(t *testing.T) {
	for value, want := range map[string]bool{"1": true, "yes": true, "true": true, "0": false, "false": false, "off": false, "": false} {
		assert.Equal(t, want, ParseQuery(url.Values{"info": {value}}).Info, value)
	}
}

func TestParseQueryOverflowingPage(t *testing.T) {
	q := ParseQuery(url.Values{"page": {"99999999999999999999"}, "size": {"5"}})
	assert.Equal(t, math.MaxInt, q.Page.Page)

	resp := Execute(numbered(12), q)
	require.True(t, resp.Success)
	page := resp.Data.(models.PageResult)
	assert.Empty(t, page.Result)
	assert.Equal(t, models.PaginationMeta{CurrentPage: math.MaxInt, PageCount: 3, PageSize: 0, Count: 12}, page.Meta)

	q = ParseQuery(url.Values{"page": {"-99999999999999999999"}, "size": {"99999999999999999999"}})
	assert.Equal(t, PageRequest{Page: 1, Size: math.MaxInt}, q.Page)
	items, meta := Paginate(numbered(12), q.Page)
	assert.Len(t, items, 12)
	assert.Equal(t, models.PaginationMeta{CurrentPage: 1, PageCount: 1, PageSize: 12, Count: 12}, meta)
}

func TestSearchInfo(t *testing.T) {
	searcher := NewSearcher(&memoryStore{products: catalog()})

	resp := searcher.SearchRaw(context.Background(), url.Values{"info": {"1"}})
	require.True(t, resp.Success)
	summary, ok := resp.Data.(models.Summary)
	require.True(t, ok)

	assert.Equal(t, 8, summary.NbNew)
	assert.Equal(t, "2021-03-02", summary.LastReleased)
	require.NotNil(t, summary.P50)
	require.NotNil(t, summary.P90)
	require.NotNil(t, summary.P95)
	assert.Equal(t, 85.0, *summary.P50)
	assert.Equal(t, 45.0, *summary.P90)
	assert.Equal(t, 45.0, *summary.P95)
}

func TestSearchInfoEmpty(t *testing.T) {
	searcher := NewSearcher(&memoryStore{products: catalog()})

	resp := searcher.SearchRaw(context.Background(), url.Values{"info": {"yes"}, "price": {"abc"}})
	require.True(t, resp.Success)
	summary := resp.Data.(models.Summary)
	assert.Equal(t, models.Summary{}, summary)
}

func TestSearchNoMatchIsNotAFailure(t *testing.T) {
	searcher := NewSearcher(&memoryStore{products: catalog()})

	resp := searcher.SearchRaw(context.Background(), url.Values{"price": {"cheap"}})
	require.True(t, resp.Success)
	page := resp.Data.(models.PageResult)
	assert.Empty(t, page.Result)
	assert.Equal(t, 0, page.Meta.PageCount)
}

func TestSearchStoreFailure(t *testing.T) {
	searcher := NewSearcher(&memoryStore{err: errors.New("connection refused")})

	resp := searcher.SearchRaw(context.Background(), url.Values{"brand": {"dedicated"}})
	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
}

func TestSearchRecoversPanic(t *testing.T) {
	searcher := NewSearcher(&memoryStore{panicWith: "boom"})

	var resp models.Response
	assert.NotPanics(t, func() {
		resp = searcher.SearchRaw(context.Background(), url.Values{})
	})
	assert.False(t, resp.Success)
}

func TestExecuteLeavesSnapshotUntouched(t *testing.T) {
	products := catalog()
	q := ParseQuery(url.Values{"sort": {"released:-1"}, "size": {"3"}})

	resp := Execute(products, q)
	require.True(t, resp.Success)
	assert.Equal(t, []string{"product 1", "product 4", "product 3"}, names(resp.Data.(models.PageResult).Result))
	assert.Equal(t, catalog(), products)
}
