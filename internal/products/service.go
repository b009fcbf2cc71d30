package products

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/pagination"
	"github.com/angelmondragon/storefront/pkg/slug"
	"github.com/angelmondragon/storefront/pkg/storeapi"
	"github.com/angelmondragon/storefront/pkg/types"
)

// Service exposes catalog reads and admin product management.
type Service interface {
	List(ctx context.Context, params ListParams) (types.Page[Product], error)
	Latest(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	GetByURL(ctx context.Context, productURL string) (*Product, error)
	Create(ctx context.Context, input Payload) (*Product, error)
	Update(ctx context.Context, id string, input UpdatePayload) (*Product, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	api storeapi.Requester
}

func NewService(api storeapi.Requester) Service {
	return &service{api: api}
}

func (s *service) List(ctx context.Context, params ListParams) (types.Page[Product], error) {
	p := pagination.Params{Page: params.Page, Limit: params.Limit, Search: params.Search}
	query := p.Values()
	query.Set("categoryId", strings.TrimSpace(params.CategoryID))

	var page types.Page[Product]
	if err := s.api.Do(ctx, storeapi.Request{Method: http.MethodGet, Path: "products", Query: query}, &page); err != nil {
		return types.Page[Product]{}, err
	}
	return page.Normalize(p.Normalize().Limit), nil
}

func (s *service) Latest(ctx context.Context) ([]Product, error) {
	var out []Product
	if err := s.api.Do(ctx, storeapi.Request{Method: http.MethodGet, Path: "products/latest"}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Product{}
	}
	return out, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Product, error) {
	id, err := requireSegment(id, "product id")
	if err != nil {
		return nil, err
	}
	var out Product
	if err := s.api.Do(ctx, storeapi.Request{Method: http.MethodGet, Path: "products/by-id/" + id}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *service) GetByURL(ctx context.Context, productURL string) (*Product, error) {
	productURL, err := requireSegment(productURL, "product url")
	if err != nil {
		return nil, err
	}
	var out Product
	if err := s.api.Do(ctx, storeapi.Request{Method: http.MethodGet, Path: "products/by-url/" + productURL}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *service) Create(ctx context.Context, input Payload) (*Product, error) {
	if input.Price.IsNegative() {
		return nil, priceError()
	}
	input.URL = slug.OrMake(input.URL, input.Name)
	if input.URL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"url": "is required"})
	}
	var out Product
	if err := s.api.Do(ctx, storeapi.Request{Method: http.MethodPost, Path: "products", Body: input, Auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *service) Update(ctx context.Context, id string, input UpdatePayload) (*Product, error) {
	id, err := requireSegment(id, "product id")
	if err != nil {
		return nil, err
	}
	if input.Price != nil && input.Price.IsNegative() {
		return nil, priceError()
	}
	if input.URL != nil {
		name := ""
		if input.Name != nil {
			name = *input.Name
		}
		normalized := slug.OrMake(*input.URL, name)
		input.URL = &normalized
	}
	var out Product
	if err := s.api.Do(ctx, storeapi.Request{Method: http.MethodPatch, Path: "products/" + id, Body: input, Auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	id, err := requireSegment(id, "product id")
	if err != nil {
		return err
	}
	return s.api.Do(ctx, storeapi.Request{Method: http.MethodDelete, Path: "products/" + id, Auth: true}, nil)
}

func priceError() error {
	return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
		WithDetails(map[string]string{"price": "must not be negative"})
}

func requireSegment(value, name string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, name+" is required")
	}
	return url.PathEscape(trimmed), nil
}
