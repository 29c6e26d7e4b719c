package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/haulmarket/api/responses"
	"github.com/angelmondragon/haulmarket/api/validators"
	"github.com/angelmondragon/haulmarket/internal/matching"
	"github.com/angelmondragon/haulmarket/internal/takerate"
	pkgerrors "github.com/angelmondragon/haulmarket/pkg/errors"
	"github.com/angelmondragon/haulmarket/pkg/logger"
	"github.com/angelmondragon/haulmarket/pkg/types"
)

type candidatesRequest struct {
	ProductID             uuid.UUID   `json:"product_id" validate:"required"`
	UserAddressID         *uuid.UUID  `json:"user_address_id,omitempty"`
	Latitude              *float64    `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude             *float64    `json:"longitude,omitempty" validate:"omitempty,longitude"`
	WasteTypeID           *uuid.UUID  `json:"waste_type_id,omitempty"`
	RelatedMainProductIDs []uuid.UUID `json:"related_main_product_ids,omitempty"`
	ApplyTakeRate         bool        `json:"apply_take_rate"`
}

func (p candidatesRequest) toInput() (matching.CandidateInput, error) {
	if err := coordinatePair(p.Latitude, p.Longitude); err != nil {
		return matching.CandidateInput{}, err
	}
	return matching.CandidateInput{
		ProductID:             p.ProductID,
		UserAddressID:         p.UserAddressID,
		Location:              coordinates(p.Latitude, p.Longitude),
		WasteTypeID:           p.WasteTypeID,
		RelatedMainProductIDs: p.RelatedMainProductIDs,
	}, nil
}

// MatchingCandidates lists the listings able to serve a customer location.
// Supplier rates are returned raw unless apply_take_rate is set.
func MatchingCandidates(svc matching.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "matching service unavailable"))
			return
		}

		var payload candidatesRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		found, err := svc.GetCandidates(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if payload.ApplyTakeRate {
			responses.WriteSuccess(w, takerate.ForCustomers(found))
			return
		}
		responses.WriteSuccess(w, takerate.Raw(found))
	}
}

// coordinatePair rejects a latitude without a longitude and vice versa.
func coordinatePair(lat, lng *float64) error {
	if (lat == nil) == (lng == nil) {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
		WithDetails(map[string]string{"latitude": "must be sent with longitude", "longitude": "must be sent with latitude"})
}

func coordinates(lat, lng *float64) *types.Coordinates {
	if lat == nil || lng == nil {
		return nil
	}
	return &types.Coordinates{Lat: *lat, Lng: *lng}
}
