package pagination

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultLimit is the storefront page size when a limit is not provided.
	DefaultLimit = 10
	// MaxLimit caps how many rows any list call can request.
	MaxLimit = 100
)

// Params holds page-based pagination inputs forwarded to the remote API.
type Params struct {
	Page   int
	Limit  int
	Search string
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// NormalizePage clamps page numbers to start at 1.
func NormalizePage(page int) int {
	if page <= 0 {
		return 1
	}
	return page
}

// Normalize returns a copy with page/limit clamped and search trimmed.
func (p Params) Normalize() Params {
	return Params{
		Page:   NormalizePage(p.Page),
		Limit:  NormalizeLimit(p.Limit),
		Search: strings.TrimSpace(p.Search),
	}
}

// Values encodes the params as the query string the backend expects.
// An empty search is sent as an empty value, matching the storefront's list calls.
func (p Params) Values() url.Values {
	n := p.Normalize()
	v := url.Values{}
	v.Set("page", strconv.Itoa(n.Page))
	v.Set("limit", strconv.Itoa(n.Limit))
	v.Set("search", n.Search)
	return v
}
