package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/angelmondragon/haulmarket/api/responses"
	"github.com/angelmondragon/haulmarket/api/validators"
	"github.com/angelmondragon/haulmarket/internal/listings"
	"github.com/angelmondragon/haulmarket/internal/takerate"
	pkgerrors "github.com/angelmondragon/haulmarket/pkg/errors"
	"github.com/angelmondragon/haulmarket/pkg/logger"
	"github.com/angelmondragon/haulmarket/pkg/pagination"
)

type listingStatusReader interface {
	ListByStatus(ctx context.Context, status listings.Status, page pagination.Params) (pagination.Page[listings.Listing], error)
}

type listingsPage struct {
	Listings   []takerate.PriceView `json:"listings"`
	NextCursor string               `json:"next_cursor,omitempty"`
}

// ListingsByStatus pages listings in one status with raw supplier rates.
func ListingsByStatus(repo listingStatusReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listings repository unavailable"))
			return
		}

		raw := validators.SanitizeToken(r.URL.Query().Get("status"), 32)
		if raw == "" {
			raw = string(listings.StatusActive)
		}
		status, err := listings.ParseStatus(raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.InvalidField("status", err.Error()))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		found, err := repo.ListByStatus(r.Context(), status, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listingsPage{
			Listings:   takerate.Raw(found.Items),
			NextCursor: found.NextCursor,
		})
	}
}
