package users

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

type Service interface {
	Register(ctx context.Context, input RegisterPayload) (*User, error)
	Create(ctx context.Context, input CreatePayload) (*User, error)
	List(ctx context.Context, params ListParams) (types.Page[User], error)
	Get(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, id string, input UpdatePayload) (*User, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	api storeapi.Requester
}

func NewService(api storeapi.Requester) Service {
	return &service{api: api}
}

// Register signs a visitor up with the USER role.
func (s *service) Register(ctx context.Context, input RegisterPayload) (*User, error) {
	if input.Password != input.ConfirmPassword {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"confirmPassword": "passwords do not match"})
	}
	return s.Create(ctx, CreatePayload{
		Name:     input.Name,
		Username: input.Username,
		Password: input.Password,
		Role:     RoleUser,
	})
}

// Create posts to /users without credentials; the backend allows anonymous
// sign-up on that route.
func (s *service) Create(ctx context.Context, input CreatePayload) (*User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Username = strings.TrimSpace(input.Username)
	if input.Role == "" {
		input.Role = RoleUser
	}
	var out User
	if err := s.api.Do(ctx, storeapi.Request{Method: http.MethodPost, Path: "users", Body: input}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *service) List(ctx context.Context, params ListParams) (types.Page[User], error) {
	p := pagination.Params{Page: params.Page, Limit: params.Limit, Search: params.Search}
	query := p.Values()
	if role := strings.TrimSpace(params.Role); role != "" {
		query.Set("role", role)
	}
	var page types.Page[User]
	if err := s.api.Do(ctx, storeapi.Request{Method: http.MethodGet, Path: "users", Query: query, Auth: true}, &page); err != nil {
		return types.Page[User]{}, err
	}
	return page.Normalize(p.Normalize().Limit), nil
}

func (s *service) Get(ctx context.Context, id string) (*User, error) {
	path, err := itemPath(id)
	if err != nil {
		return nil, err
	}
	var out User
	if err := s.api.Do(ctx, storeapi.Request{Method: http.MethodGet, Path: path, Auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *service) Update(ctx context.Context, id string, input UpdatePayload) (*User, error) {
	path, err := itemPath(id)
	if err != nil {
		return nil, err
	}
	var out User
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
		return "", pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	return "users/" + url.PathEscape(id), nil
}
