package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/haulmarket/api/responses"
	"github.com/angelmondragon/haulmarket/api/validators"
	"github.com/angelmondragon/haulmarket/internal/pricing"
	pkgerrors "github.com/angelmondragon/haulmarket/pkg/errors"
	"github.com/angelmondragon/haulmarket/pkg/logger"
)

type quoteRequest struct {
	ListingID       uuid.UUID           `json:"listing_id" validate:"required"`
	UserAddressID   *uuid.UUID          `json:"user_address_id,omitempty"`
	Latitude        *float64            `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude       *float64            `json:"longitude,omitempty" validate:"omitempty,longitude"`
	StartDate       time.Time           `json:"start_date" validate:"required"`
	EndDate         time.Time           `json:"end_date" validate:"required"`
	WasteTypeID     *uuid.UUID          `json:"waste_type_id,omitempty"`
	TimesPerWeek    *int                `json:"times_per_week,omitempty" validate:"omitempty,min=1,max=5"`
	ShiftCount      *int                `json:"shift_count,omitempty" validate:"omitempty,min=1,max=3"`
	TonnageQuantity decimal.NullDecimal `json:"tonnage_quantity" validate:"omitempty,gte=0"`
	Discount        decimal.NullDecimal `json:"discount" validate:"omitempty,gte=0,lte=100"`
	CustomerFacing  bool                `json:"customer_facing"`
}

func (p quoteRequest) toInput() (pricing.QuoteInput, error) {
	if err := coordinatePair(p.Latitude, p.Longitude); err != nil {
		return pricing.QuoteInput{}, err
	}
	return pricing.QuoteInput{
		ListingID:       p.ListingID,
		UserAddressID:   p.UserAddressID,
		Location:        coordinates(p.Latitude, p.Longitude),
		StartDate:       p.StartDate,
		EndDate:         p.EndDate,
		WasteTypeID:     p.WasteTypeID,
		TimesPerWeek:    p.TimesPerWeek,
		ShiftCount:      p.ShiftCount,
		TonnageQuantity: p.TonnageQuantity,
		Discount:        p.Discount,
		CustomerFacing:  p.CustomerFacing,
	}, nil
}

// PricingQuote prices one listing for a rental window. An incomplete listing
// yields a null breakdown.
func PricingQuote(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}

		var payload quoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		breakdown, err := svc.Quote(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, breakdown)
	}
}

// OrderGroupQuote reprices a booked order group from its captured values.
func OrderGroupQuote(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(r, "orderGroupID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		customerFacing, err := validators.ParseQueryBool(r, "customer_facing", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithOrderGroupID(r.Context(), id.String())
		breakdown, err := svc.QuoteOrderGroup(ctx, id, customerFacing)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, breakdown)
	}
}
