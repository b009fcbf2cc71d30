// Package categories wraps the product category endpoints.
package categories

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/pagination"
	"github.com/angelmondragon/storefront/pkg/storeapi"
	"github.com/angelmondragon/storefront/pkg/types"
)

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Payload struct {
	Name string `json:"name" validate:"required,max=255"`
}

type Service interface {
	List(ctx context.Context, params pagination.Params) (types.Page[Category], error)
	Get(ctx context.Context, id string) (*Category, error)
	Create(ctx context.Context, input Payload) (*Category, error)
	Update(ctx context.Context, id string, input Payload) (*Category, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	api storeapi.Requester
}

func NewService(api storeapi.Requester) Service {
	return &service{api: api}
}

func (s *service) List(ctx context.Context, params pagination.Params) (types.Page[Category], error) {
	var page types.Page[Category]
	if err := s.api.Do(ctx, storeapi.Request{Method: http.MethodGet, Path: "categories", Query: params.Values()}, &page); err != nil {
		return types.Page[Category]{}, err
	}
	return page.Normalize(params.Normalize().Limit), nil
}

func (s *service) Get(ctx context.Context, id string) (*Category, error) {
	path, err := itemPath(id)
	if err != nil {
		return nil, err
	}
	var out Category
	if err := s.api.Do(ctx, storeapi.Request{Method: http.MethodGet, Path: path}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *service) Create(ctx context.Context, input Payload) (*Category, error) {
	input.Name = strings.TrimSpace(input.Name)
	var out Category
	if err := s.api.Do(ctx, storeapi.Request{Method: http.MethodPost, Path: "categories", Body: input, Auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *service) Update(ctx context.Context, id string, input Payload) (*Category, error) {
	path, err := itemPath(id)
	if err != nil {
		return nil, err
	}
	input.Name = strings.TrimSpace(input.Name)
	var out Category
	if err := s.api.Do(ctx, storeapi.Request{Method: http.MethodPatch, Path: path, Body: input, Auth: true}, &out); err != nil {
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
		return "", pkgerrors.New(pkgerrors.CodeValidation, "category id is required")
	}
	return "categories/" + url.PathEscape(id), nil
}
