// Package blogs wraps the blog post endpoints.
package blogs

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/pagination"
	"github.com/angelmondragon/storefront/pkg/slug"
	"github.com/angelmondragon/storefront/pkg/storeapi"
	"github.com/angelmondragon/storefront/pkg/types"
)

type Blog struct {
	ID               int64      `json:"id"`
	Name             string     `json:"name"`
	URL              string     `json:"url"`
	ShortDescription string     `json:"shortDescription"`
	Content          string     `json:"content"`
	Image            *string    `json:"image,omitempty"`
	CreatedAt        *time.Time `json:"createdAt,omitempty"`
	UpdatedAt        *time.Time `json:"updatedAt,omitempty"`
}

type Payload struct {
	Name             string     `json:"name" validate:"required,max=255"`
	URL              string     `json:"url" validate:"omitempty,max=255"`
	ShortDescription string     `json:"shortDescription" validate:"omitempty,max=1000"`
	Content          string     `json:"content"`
	Image            *string    `json:"image,omitempty" validate:"omitempty,url"`
	CreatedAt        *time.Time `json:"createdAt,omitempty"`
}

type UpdatePayload struct {
	Name             *string    `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	URL              *string    `json:"url,omitempty" validate:"omitempty,max=255"`
	ShortDescription *string    `json:"shortDescription,omitempty" validate:"omitempty,max=1000"`
	Content          *string    `json:"content,omitempty"`
	Image            *string    `json:"image,omitempty" validate:"omitempty,url"`
	CreatedAt        *time.Time `json:"createdAt,omitempty"`
}

type Service interface {
	List(ctx context.Context, params pagination.Params) (types.Page[Blog], error)
	Latest(ctx context.Context) ([]Blog, error)
	GetByID(ctx context.Context, id string) (*Blog, error)
	GetByURL(ctx context.Context, blogURL string) (*Blog, error)
	Create(ctx context.Context, input Payload) (*Blog, error)
	Update(ctx context.Context, id string, input UpdatePayload) (*Blog, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	api storeapi.Requester
	now func() time.Time
}

func NewService(api storeapi.Requester) Service {
	return &service{api: api, now: time.Now}
}

func (s *service) List(ctx context.Context, params pagination.Params) (types.Page[Blog], error) {
	var page types.Page[Blog]
	if err := s.api.Do(ctx, storeapi.Request{Method: http.MethodGet, Path: "blogs", Query: params.Values()}, &page); err != nil {
		return types.Page[Blog]{}, err
	}
	return page.Normalize(params.Normalize().Limit), nil
}

func (s *service) Latest(ctx context.Context) ([]Blog, error) {
	out := []Blog{}
	if err := s.api.Do(ctx, storeapi.Request{Method: http.MethodGet, Path: "blogs/latest"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Blog, error) {
	return s.get(ctx, "blogs/by-id/", id)
}

func (s *service) GetByURL(ctx context.Context, blogURL string) (*Blog, error) {
	return s.get(ctx, "blogs/by-url/", blogURL)
}

func (s *service) get(ctx context.Context, prefix, value string) (*Blog, error) {
	segment, err := requireSegment(value)
	if err != nil {
		return nil, err
	}
	var out Blog
	if err := s.api.Do(ctx, storeapi.Request{Method: http.MethodGet, Path: prefix + segment}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create posts a blog. Missing url and createdAt are derived from the name
// and the current time.
func (s *service) Create(ctx context.Context, input Payload) (*Blog, error) {
	input.URL = slug.OrMake(input.URL, input.Name)
	if input.CreatedAt == nil {
		now := s.now().UTC()
		input.CreatedAt = &now
	}
	var out Blog
	if err := s.api.Do(ctx, storeapi.Request{Method: http.MethodPost, Path: "blogs", Body: input, Auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *service) Update(ctx context.Context, id string, input UpdatePayload) (*Blog, error) {
	segment, err := requireSegment(id)
	if err != nil {
		return nil, err
	}
	if input.URL != nil {
		normalized := slug.Make(*input.URL)
		input.URL = &normalized
	}
	var out Blog
	if err := s.api.Do(ctx, storeapi.Request{Method: http.MethodPatch, Path: "blogs/" + segment, Body: input, Auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	segment, err := requireSegment(id)
	if err != nil {
		return err
	}
	return s.api.Do(ctx, storeapi.Request{Method: http.MethodDelete, Path: "blogs/" + segment, Auth: true}, nil)
}

func requireSegment(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "blog id or url is required")
	}
	return url.PathEscape(trimmed), nil
}
