package routes

import (
	"context"
	"strconv"

	"github.com/angelmondragon/storefront/api/controllers"
	"github.com/angelmondragon/storefront/internal/blogs"
	"github.com/angelmondragon/storefront/internal/board"
	"github.com/angelmondragon/storefront/internal/categories"
	"github.com/angelmondragon/storefront/internal/orders"
	"github.com/angelmondragon/storefront/internal/products"
	"github.com/angelmondragon/storefront/internal/users"
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/pagination"
	"github.com/angelmondragon/storefront/pkg/types"
	"github.com/go-chi/chi/v5"
)

type orderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed shipping completed cancelled"`
}

// AdminBoards holds one list board per admin screen.
type AdminBoards struct {
	Orders     *board.Board[orders.Order]
	Products   *board.Board[products.Product]
	Categories *board.Board[categories.Category]
	Blogs      *board.Board[blogs.Blog]
	Users      *board.Board[users.User]
}

// Close stops every board's pending searches and loads.
func (b *AdminBoards) Close() {
	if b == nil {
		return
	}
	b.Orders.Close()
	b.Products.Close()
	b.Categories.Close()
	b.Blogs.Close()
	b.Users.Close()
}

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}

// NewAdminBoards builds the admin boards over the catalog services.
func NewAdminBoards(cfg config.SearchConfig, svc Services, logg *logger.Logger) (*AdminBoards, error) {
	var (
		b   AdminBoards
		err error
	)
	b.Orders, err = board.New(board.Options[orders.Order]{
		Name: "orders",
		Fetch: func(ctx context.Context, p pagination.Params) (types.Page[orders.Order], error) {
			return svc.Orders.List(ctx, orders.ListParams{Page: p.Page, Limit: p.Limit, Search: p.Search})
		},
		Remove:   svc.Orders.Delete,
		ID:       func(o orders.Order) string { return idString(o.ID) },
		PageSize: cfg.AdminPageSize,
		Debounce: cfg.Debounce,
		Logger:   logg,
	})
	if err != nil {
		return nil, err
	}
	b.Products, err = board.New(board.Options[products.Product]{
		Name: "products",
		Fetch: func(ctx context.Context, p pagination.Params) (types.Page[products.Product], error) {
			return svc.Products.List(ctx, products.ListParams{Page: p.Page, Limit: p.Limit, Search: p.Search})
		},
		Remove:   svc.Products.Delete,
		ID:       func(p products.Product) string { return idString(p.ID) },
		PageSize: cfg.AdminPageSize,
		Debounce: cfg.Debounce,
		Logger:   logg,
	})
	if err != nil {
		return nil, err
	}
	b.Categories, err = board.New(board.Options[categories.Category]{
		Name:     "categories",
		Fetch:    svc.Categories.List,
		Remove:   svc.Categories.Delete,
		ID:       func(c categories.Category) string { return idString(c.ID) },
		PageSize: cfg.AdminPageSize,
		Debounce: cfg.Debounce,
		Logger:   logg,
	})
	if err != nil {
		return nil, err
	}
	b.Blogs, err = board.New(board.Options[blogs.Blog]{
		Name:     "blogs",
		Fetch:    svc.Blogs.List,
		Remove:   svc.Blogs.Delete,
		ID:       func(bl blogs.Blog) string { return idString(bl.ID) },
		PageSize: cfg.AdminPageSize,
		Debounce: cfg.Debounce,
		Logger:   logg,
	})
	if err != nil {
		return nil, err
	}
	b.Users, err = board.New(board.Options[users.User]{
		Name: "users",
		Fetch: func(ctx context.Context, p pagination.Params) (types.Page[users.User], error) {
			return svc.Users.List(ctx, users.ListParams{Page: p.Page, Limit: p.Limit, Search: p.Search})
		},
		Remove:   svc.Users.Delete,
		ID:       func(u users.User) string { return idString(u.ID) },
		PageSize: cfg.AdminPageSize,
		Debounce: cfg.Debounce,
		Logger:   logg,
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func mountAdmin(r chi.Router, boards *AdminBoards, svc Services, logg *logger.Logger) {
	r.Route("/orders", func(r chi.Router) {
		controllers.AdminResource[orders.Order, struct{}, orderStatusRequest]{
			Board: boards.Orders,
			Get:   svc.Orders.Get,
			Update: func(ctx context.Context, id string, in orderStatusRequest) (*orders.Order, error) {
				return svc.Orders.UpdateStatus(ctx, id, orders.Status(in.Status))
			},
		}.Mount(r, logg)
	})
	r.Route("/products", func(r chi.Router) {
		controllers.AdminResource[products.Product, products.Payload, products.UpdatePayload]{
			Board:  boards.Products,
			Get:    svc.Products.GetByID,
			Create: svc.Products.Create,
			Update: svc.Products.Update,
		}.Mount(r, logg)
	})
	r.Route("/categories", func(r chi.Router) {
		controllers.AdminResource[categories.Category, categories.Payload, categories.Payload]{
			Board:  boards.Categories,
			Get:    svc.Categories.Get,
			Create: svc.Categories.Create,
			Update: svc.Categories.Update,
		}.Mount(r, logg)
	})
	r.Route("/blogs", func(r chi.Router) {
		controllers.AdminResource[blogs.Blog, blogs.Payload, blogs.UpdatePayload]{
			Board:  boards.Blogs,
			Get:    svc.Blogs.GetByID,
			Create: svc.Blogs.Create,
			Update: svc.Blogs.Update,
		}.Mount(r, logg)
	})
	r.Route("/users", func(r chi.Router) {
		controllers.AdminResource[users.User, users.CreatePayload, users.UpdatePayload]{
			Board:  boards.Users,
			Get:    svc.Users.Get,
			Create: svc.Users.Create,
			Update: svc.Users.Update,
		}.Mount(r, logg)
	})
}
