package orders

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/pagination"
	"github.com/angelmondragon/storefront/pkg/storeapi"
	"github.com/angelmondragon/storefront/pkg/types"
)

// Service wraps the order endpoints. Every call is authenticated.
type Service interface {
	Create(ctx context.Context, input CreatePayload) (*Order, error)
	List(ctx context.Context, params ListParams) (types.Page[Order], error)
	Get(ctx context.Context, id string) (*Order, error)
	ListByUser(ctx context.Context, userID int64, params ListParams) (types.Page[Order], error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Order, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	api storeapi.Requester
}

func NewService(api storeapi.Requester) Service {
	return &service{api: api}
}

func (s *service) Create(ctx context.Context, input CreatePayload) (*Order, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order has no items")
	}
	var out Order
	if err := s.api.Do(ctx, storeapi.Request{Method: http.MethodPost, Path: "orders", Body: input, Auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns all orders; search matches the customer phone.
func (s *service) List(ctx context.Context, params ListParams) (types.Page[Order], error) {
	p := pagination.Params{Page: params.Page, Limit: params.Limit, Search: params.Search}
	return s.list(ctx, "orders", p, p.Values())
}

func (s *service) ListByUser(ctx context.Context, userID int64, params ListParams) (types.Page[Order], error) {
	if userID <= 0 {
		return types.Page[Order]{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	p := pagination.Params{Page: params.Page, Limit: params.Limit}
	query := p.Values()
	query.Del("search")
	return s.list(ctx, "orders/user/"+strconv.FormatInt(userID, 10), p, query)
}

func (s *service) list(ctx context.Context, path string, p pagination.Params, query url.Values) (types.Page[Order], error) {
	var page types.Page[Order]
	if err := s.api.Do(ctx, storeapi.Request{Method: http.MethodGet, Path: path, Query: query, Auth: true}, &page); err != nil {
		return types.Page[Order]{}, err
	}
	return page.Normalize(p.Normalize().Limit), nil
}

func (s *service) Get(ctx context.Context, id string) (*Order, error) {
	path, err := itemPath(id)
	if err != nil {
		return nil, err
	}
	var out Order
	if err := s.api.Do(ctx, storeapi.Request{Method: http.MethodGet, Path: path, Auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *service) UpdateStatus(ctx context.Context, id string, status Status) (*Order, error) {
	if _, ok := validStatuses[status]; !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status").
			WithDetails(map[string]string{"status": "must be one of pending, confirmed, shipping, completed, cancelled"})
	}
	path, err := itemPath(id)
	if err != nil {
		return nil, err
	}
	var out Order
	body := map[string]Status{"status": status}
	if err := s.api.Do(ctx, storeapi.Request{Method: http.MethodPatch, Path: path, Body: body, Auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	path, err := itemPath(id)
	if err != nil {
		return err
	}
	return s.api.Do(ctx, storeapi.Request{Method: http.MethodDelete, Path: path, Auth: true}, nil)
}

func itemPath(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	return "orders/" + url.PathEscape(id), nil
}
