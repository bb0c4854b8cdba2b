// Package pagination holds the viewer-facing pagination convention as
// an explicit value threaded through projections instead of a global
// default.
package pagination

import (
	"math"
	"net/url"
	"strconv"
)

const (
	DefaultLimit = 6
	MaxLimit     = 100
)

type Params struct {
	Page  int32
	Limit int32
}

func Default() Params {
	return Params{Page: 1, Limit: DefaultLimit}
}

// FromQuery parses page and limit query parameters, clamping to sane
// bounds. Absent or malformed values fall back to the defaults.
func FromQuery(values url.Values) Params {
	p := Default()

	if raw := values.Get("page"); raw != "" {
		if page, err := strconv.ParseInt(raw, 10, 32); err == nil && page >= 1 {
			p.Page = int32(page)
		}
	}
	if raw := values.Get("limit"); raw != "" {
		if limit, err := strconv.ParseInt(raw, 10, 32); err == nil && limit >= 1 {
			p.Limit = min(int32(limit), MaxLimit)
		}
	}
	return p
}

// Offset computes the row offset in int64 so an extreme page number
// cannot wrap negative, clamping to the int32 range Postgres accepts.
func (p Params) Offset() int32 {
	offset := (int64(p.Page) - 1) * int64(p.Limit)
	if offset > math.MaxInt32 {
		return math.MaxInt32
	}
	if offset < 0 {
		return 0
	}
	return int32(offset)
}

// PreviewLimit parses the recipes_limit parameter used to cap the
// nested recipe preview in subscription projections. Falls back to the
// page limit when absent.
func PreviewLimit(values url.Values, fallback int32) int32 {
	raw := values.Get("recipes_limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || limit < 1 {
		return fallback
	}
	return min(int32(limit), MaxLimit)
}
