package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/api/validators"
	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/products"
	"github.com/angelmondragon/storefront/internal/session"
	"github.com/angelmondragon/storefront/internal/store"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/shopspring/decimal"
)

type productLookup interface {
	GetByURL(ctx context.Context, productURL string) (*products.Product, error)
}

type cartView struct {
	Items []cart.Item     `json:"items"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

type stateView struct {
	cartView
	User *session.User `json:"user"`
}

func viewCart(c *store.Container) cartView {
	items := c.Snapshot().Cart.Items
	if items == nil {
		items = []cart.Item{}
	}
	return cartView{Items: items, Total: c.CartTotal(), Count: c.CartCount()}
}

// State returns the whole client state the UI renders from.
func State(c *store.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, stateView{cartView: viewCart(c), User: c.Snapshot().Session.User})
	}
}

func CartGet(c *store.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, viewCart(c))
	}
}

type addItemRequest struct {
	ID       cart.ItemID     `json:"id" validate:"required"`
	URL      string          `json:"url"`
	Name     string          `json:"name" validate:"required"`
	Image    string          `json:"image"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// CartAddItem adds a line built from the posted product snapshot.
func CartAddItem(c *store.Container, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if req.Price.IsNegative() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
				WithDetails(map[string]string{"price": "must not be negative"}))
			return
		}
		c.Dispatch(cart.AddItem{
			Item: cart.Item{
				ID:    req.ID,
				URL:   req.URL,
				Name:  req.Name,
				Image: req.Image,
				Price: req.Price,
			},
			Quantity: req.Quantity,
		})
		responses.WriteSuccessStatus(w, http.StatusCreated, viewCart(c))
	}
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

// CartAddProduct looks the product up by its url slug and adds a snapshot
// of its current name, image and price.
func CartAddProduct(c *store.Container, catalog productLookup, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := quantityRequest{Quantity: 1}
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &req); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		product, err := catalog.GetByURL(r.Context(), pathParam(r, "url"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		c.Dispatch(cart.AddItem{
			Item: cart.Item{
				ID:    cart.ItemID(strconv.FormatInt(product.ID, 10)),
				URL:   product.URL,
				Name:  product.Name,
				Image: product.Image,
				Price: product.Price,
			},
			Quantity: req.Quantity,
		})
		responses.WriteSuccessStatus(w, http.StatusCreated, viewCart(c))
	}
}

func CartUpdateQuantity(c *store.Container, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req quantityRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		c.Dispatch(cart.UpdateQuantity{ID: cart.ItemID(pathParam(r, "id")), Quantity: req.Quantity})
		responses.WriteSuccess(w, viewCart(c))
	}
}

func CartRemoveItem(c *store.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c.Dispatch(cart.RemoveItem{ID: cart.ItemID(pathParam(r, "id"))})
		responses.WriteSuccess(w, viewCart(c))
	}
}

func CartClear(c *store.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c.Dispatch(cart.ClearCart{})
		responses.WriteSuccess(w, viewCart(c))
	}
}
