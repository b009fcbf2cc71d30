package categories

import (
	"context"
	"net/http"
	"testing"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/pagination"
	"github.com/angelmondragon/storefront/pkg/storeapi/storeapitest"
)

func TestListAndMutations(t *testing.T) {
	fake := storeapitest.New().
		On(http.MethodGet, "categories", storeapitest.Response{Body: map[string]any{
			"data": []map[string]any{{"id": 1, "name": "Đồ uống"}}, "total": 1, "page": 1, "totalPages": 1,
		}}).
		On(http.MethodPatch, "categories/1", storeapitest.Response{Body: map[string]any{"id": 1, "name": "Bánh"}}).
		On(http.MethodDelete, "categories/1", storeapitest.Response{})
	svc := NewService(fake)
	ctx := context.Background()

	page, err := svc.List(ctx, pagination.Params{Search: "đồ"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Data) != 1 || page.Data[0].Name != "Đồ uống" {
		t.Fatalf("unexpected page %+v", page)
	}

	updated, err := svc.Update(ctx, "1", Payload{Name: "  Bánh "})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Bánh" {
		t.Fatalf("unexpected update result %+v", updated)
	}
	calls := fake.CallsTo(http.MethodPatch, "categories/1")
	if len(calls) != 1 || !calls[0].Request.Auth || string(calls[0].Body) != `{"name":"Bánh"}` {
		t.Fatalf("unexpected patch call %+v", calls)
	}

	if err := svc.Delete(ctx, "1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, ""); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for empty id, got %v", err)
	}
}
