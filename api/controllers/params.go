package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/storefront/api/validators"
	"github.com/angelmondragon/storefront/pkg/pagination"
	"github.com/go-chi/chi/v5"
)

const maxSearchLength = 255

// listParams reads page, limit and search from the query string.
func listParams(r *http.Request) (pagination.Params, error) {
	page, err := validators.ParseQueryInt(r, "page", 1, 1, 1_000_000)
	if err != nil {
		return pagination.Params{}, err
	}
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{
		Page:   page,
		Limit:  limit,
		Search: validators.SanitizeString(r.URL.Query().Get("search"), maxSearchLength),
	}, nil
}

func pathParam(r *http.Request, name string) string {
	return strings.TrimSpace(chi.URLParam(r, name))
}
