package common

import (
	"context"

	"github.com/questx-lab/agora/internal/model"
	"github.com/questx-lab/agora/pkg/xcontext"
)

// NormalizePagination fills the missing page fields with the configured
// defaults and caps the page size.
func NormalizePagination(ctx context.Context, p model.Pagination) model.Pagination {
	cfg := xcontext.Configs(ctx).ApiServer
	if p.Page <= 0 {
		p.Page = 1
	}

	if p.PerPage <= 0 {
		p.PerPage = cfg.DefaultLimit
	}

	if p.PerPage > cfg.MaxLimit {
		p.PerPage = cfg.MaxLimit
	}

	return p
}

// IndexBy maps each element to its key. Later elements win.
func IndexBy[K comparable, T any](items []T, key func(T) K) map[K]T {
	result := make(map[K]T, len(items))
	for _, item := range items {
		result[key(item)] = item
	}

	return result
}
