package products

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"testing"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/storeapi/storeapitest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Prices travel as JSON numbers, as configured by cmd/api.
func TestMain(m *testing.M) {
	decimal.MarshalJSONWithoutQuotes = true
	os.Exit(m.Run())
}

func TestListForwardsQueryAndNormalizesPage(t *testing.T) {
	fake := storeapitest.New().On(http.MethodGet, "products", storeapitest.Response{
		Body: map[string]any{"data": []map[string]any{{"id": 1, "name": "Cà phê", "price": 45000}}, "total": 12},
	})
	svc := NewService(fake)

	page, err := svc.List(context.Background(), ListParams{Page: 2, Limit: 5, Search: " cà ", CategoryID: "3"})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.True(t, page.Data[0].Price.Equal(decimal.NewFromInt(45000)))
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 1, page.Page)

	calls := fake.CallsTo(http.MethodGet, "products")
	require.Len(t, calls, 1)
	q := calls[0].Request.Query
	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "5", q.Get("limit"))
	assert.Equal(t, "cà", q.Get("search"))
	assert.Equal(t, "3", q.Get("categoryId"))
	assert.False(t, calls[0].Request.Auth, "catalog reads are public")
}

func TestCreateFillsSlugAndRequiresAuth(t *testing.T) {
	fake := storeapitest.New().On(http.MethodPost, "products", storeapitest.Response{
		Body: map[string]any{"id": 10, "name": "Trà sữa", "url": "tra-sua"},
	})
	svc := NewService(fake)

	out, err := svc.Create(context.Background(), Payload{Name: "Trà sữa", Price: decimal.NewFromInt(30000), CategoryID: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(10), out.ID)

	calls := fake.CallsTo(http.MethodPost, "products")
	require.Len(t, calls, 1)
	assert.True(t, calls[0].Request.Auth)
	var sent map[string]any
	require.NoError(t, json.Unmarshal(calls[0].Body, &sent))
	assert.Equal(t, "tra-sua", sent["url"])
	assert.Equal(t, float64(30000), sent["price"])
}

func TestCreateRejectsNegativePrice(t *testing.T) {
	fake := storeapitest.New()
	_, err := NewService(fake).Create(context.Background(), Payload{Name: "x", Price: decimal.NewFromInt(-1), CategoryID: 1})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Empty(t, fake.Calls())
}

func TestGetByURLAndDelete(t *testing.T) {
	fake := storeapitest.New().
		On(http.MethodGet, "products/by-url/ca-phe-sua", storeapitest.Response{Body: map[string]any{"id": 4, "url": "ca-phe-sua"}}).
		On(http.MethodDelete, "products/4", storeapitest.Response{})
	svc := NewService(fake)

	p, err := svc.GetByURL(context.Background(), "ca-phe-sua")
	require.NoError(t, err)
	assert.Equal(t, "ca-phe-sua", p.URL)

	require.NoError(t, svc.Delete(context.Background(), "4"))
	_, err = svc.GetByID(context.Background(), " ")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestRemoteErrorsPassThrough(t *testing.T) {
	remote := pkgerrors.New(pkgerrors.CodeNotFound, "Không tìm thấy sản phẩm")
	fake := storeapitest.New().On(http.MethodGet, "products/by-id/99", storeapitest.Response{Err: remote})
	_, err := NewService(fake).GetByID(context.Background(), "99")
	assert.ErrorIs(t, err, remote)
}
