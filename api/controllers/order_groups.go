package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/haulmarket/api/responses"
	"github.com/angelmondragon/haulmarket/api/validators"
	"github.com/angelmondragon/haulmarket/internal/matching"
	pkgerrors "github.com/angelmondragon/haulmarket/pkg/errors"
	"github.com/angelmondragon/haulmarket/pkg/logger"
)

type rematchResponse struct {
	ListingID *uuid.UUID `json:"listing_id"`
	Applied   bool       `json:"applied"`
}

// OrderGroupRematch finds a replacement listing after a seller declines.
// With ?apply=true the order group is moved onto it.
func OrderGroupRematch(svc matching.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "matching service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(r, "orderGroupID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		apply, err := validators.ParseQueryBool(r, "apply", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithOrderGroupID(r.Context(), id.String())
		replacement, err := svc.Rematch(ctx, id, apply)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, rematchResponse{
			ListingID: replacement,
			Applied:   apply && replacement != nil,
		})
	}
}
