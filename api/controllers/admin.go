package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/api/validators"
	"github.com/angelmondragon/storefront/internal/board"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// AdminResource wires one admin list screen. Create is nil for resources
// the admin cannot create.
type AdminResource[T, C, U any] struct {
	Board  *board.Board[T]
	Get    func(ctx context.Context, id string) (*T, error)
	Create func(ctx context.Context, input C) (*T, error)
	Update func(ctx context.Context, id string, input U) (*T, error)
}

type searchRequest struct {
	Search string `json:"search" validate:"max=255"`
}

// Mount registers the board routes on r.
func (res AdminResource[T, C, U]) Mount(r chi.Router, logg *logger.Logger) {
	r.Get("/", res.view(logg))
	r.Put("/search", res.search(logg))
	r.Get("/{id}", res.get(logg))
	if res.Create != nil {
		r.Post("/", res.create(logg))
	}
	r.Patch("/{id}", res.update(logg))
	r.Delete("/{id}", res.remove(logg))
}

// view returns the current list. A page parameter loads that page first.
func (res AdminResource[T, C, U]) view(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !r.URL.Query().Has("page") {
			responses.WriteSuccess(w, res.Board.View())
			return
		}
		page, err := validators.ParseQueryInt(r, "page", 1, 1, 1_000_000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		v, err := res.Board.Load(r.Context(), page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, v)
	}
}

func (res AdminResource[T, C, U]) search(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusAccepted, res.Board.SetSearch(r.Context(), req.Search))
	}
}

func (res AdminResource[T, C, U]) get(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := res.Get(r.Context(), pathParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

func (res AdminResource[T, C, U]) create(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input C
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out, err := res.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, out)
	}
}

func (res AdminResource[T, C, U]) update(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input U
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out, err := res.Update(r.Context(), pathParam(r, "id"), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

// remove deletes optimistically. On failure the board restores the row
// before the error is written.
func (res AdminResource[T, C, U]) remove(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := res.Board.Remove(r.Context(), pathParam(r, "id")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, res.Board.View())
	}
}
