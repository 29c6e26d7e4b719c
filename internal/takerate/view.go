// Package takerate produces customer-facing listing prices by adding the
// platform take rate on top of supplier rates.
package takerate

import (
	"github.com/angelmondragon/haulmarket/internal/listings"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceView is the serialized pricing of one listing. Only the shapes the
// listing's main product prices are populated.
type PriceView struct {
	ID                      uuid.UUID            `json:"id"`
	ProductID               uuid.UUID            `json:"product_id"`
	SellerLocationID        uuid.UUID            `json:"seller_location_id"`
	MainProductID           uuid.UUID            `json:"main_product_id"`
	Status                  listings.Status      `json:"status"`
	TotalInventory          decimal.NullDecimal  `json:"total_inventory"`
	ServiceRadius           decimal.NullDecimal  `json:"service_radius"`
	DeliveryFee             decimal.NullDecimal  `json:"delivery_fee"`
	RemovalFee              decimal.NullDecimal  `json:"removal_fee"`
	FuelEnvironmentalMarkup decimal.NullDecimal  `json:"fuel_environmental_markup"`
	Service                 *ServiceView         `json:"service,omitempty"`
	ServiceTimesPerWeek     *TimesPerWeekView    `json:"service_times_per_week,omitempty"`
	RentalOneStep           *RentalOneStepView   `json:"rental_one_step,omitempty"`
	Rental                  *RentalView          `json:"rental,omitempty"`
	RentalMultiStep         *RentalMultiStepView `json:"rental_multi_step,omitempty"`
	Material                *MaterialView        `json:"material,omitempty"`
	// Markup is the cumulative multiplier already applied to the rates; 1 for
	// raw supplier pricing.
	Markup decimal.Decimal `json:"markup"`
}

type ServiceView struct {
	PricePerMile  decimal.NullDecimal `json:"price_per_mile"`
	FlatRatePrice decimal.NullDecimal `json:"flat_rate_price"`
}

type TimesPerWeekView struct {
	OneTimePerWeek    decimal.NullDecimal `json:"one_time_per_week"`
	TwoTimesPerWeek   decimal.NullDecimal `json:"two_times_per_week"`
	ThreeTimesPerWeek decimal.NullDecimal `json:"three_times_per_week"`
	FourTimesPerWeek  decimal.NullDecimal `json:"four_times_per_week"`
	FiveTimesPerWeek  decimal.NullDecimal `json:"five_times_per_week"`
}

type RentalOneStepView struct {
	Rate decimal.NullDecimal `json:"rate"`
}

type RentalView struct {
	IncludedDays          int                 `json:"included_days"`
	PricePerDayIncluded   decimal.NullDecimal `json:"price_per_day_included"`
	PricePerDayAdditional decimal.NullDecimal `json:"price_per_day_additional"`
}

// RentalMultiStepView carries bucket rates; the shift values are multipliers,
// not prices.
type RentalMultiStepView struct {
	Hour       decimal.NullDecimal `json:"hour"`
	Day        decimal.NullDecimal `json:"day"`
	Week       decimal.NullDecimal `json:"week"`
	TwoWeeks   decimal.NullDecimal `json:"two_weeks"`
	Month      decimal.NullDecimal `json:"month"`
	TwoShift   decimal.NullDecimal `json:"two_shift"`
	ThreeShift decimal.NullDecimal `json:"three_shift"`
}

type MaterialView struct {
	WasteTypes []MaterialWasteTypeView `json:"waste_types"`
}

type MaterialWasteTypeView struct {
	WasteTypeID     uuid.UUID           `json:"waste_type_id"`
	PricePerTon     decimal.NullDecimal `json:"price_per_ton"`
	TonnageIncluded decimal.NullDecimal `json:"tonnage_included"`
}

// NewPriceView serializes the raw supplier pricing of l.
func NewPriceView(l listings.Listing) PriceView {
	v := PriceView{
		ID:                      l.ID,
		ProductID:               l.ProductID,
		SellerLocationID:        l.SellerLocationID,
		MainProductID:           l.MainProduct.ID,
		Status:                  l.Status(),
		TotalInventory:          l.TotalInventory,
		ServiceRadius:           l.ServiceRadius,
		DeliveryFee:             l.DeliveryFee,
		RemovalFee:              l.RemovalFee,
		FuelEnvironmentalMarkup: l.FuelEnvironmentalMarkup,
		Markup:                  decimal.NewFromInt(1),
	}

	switch s := l.Service.(type) {
	case listings.ServiceMileage:
		v.Service = &ServiceView{PricePerMile: s.PricePerMile, FlatRatePrice: s.FlatRate}
	case listings.ServiceTimesPerWeek:
		v.ServiceTimesPerWeek = &TimesPerWeekView{
			OneTimePerWeek:    s.Rates[0],
			TwoTimesPerWeek:   s.Rates[1],
			ThreeTimesPerWeek: s.Rates[2],
			FourTimesPerWeek:  s.Rates[3],
			FiveTimesPerWeek:  s.Rates[4],
		}
	}

	switch r := l.Rental.(type) {
	case listings.RentalOneStep:
		v.RentalOneStep = &RentalOneStepView{Rate: r.Rate}
	case listings.RentalTwoStep:
		v.Rental = &RentalView{
			IncludedDays:          r.IncludedDays,
			PricePerDayIncluded:   r.PricePerDayIncluded,
			PricePerDayAdditional: r.PricePerDayAdditional,
		}
	case listings.RentalMultiStep:
		v.RentalMultiStep = &RentalMultiStepView{
			Hour:       r.Hour,
			Day:        r.Day,
			Week:       r.Week,
			TwoWeeks:   r.TwoWeeks,
			Month:      r.Month,
			TwoShift:   r.TwoShift,
			ThreeShift: r.ThreeShift,
		}
	}

	if l.Material != nil {
		rows := make([]MaterialWasteTypeView, 0, len(l.Material.WasteTypes))
		for _, row := range l.Material.WasteTypes {
			rows = append(rows, MaterialWasteTypeView{
				WasteTypeID:     row.WasteTypeID,
				PricePerTon:     decimal.NewNullDecimal(row.PricePerTon),
				TonnageIncluded: row.TonnageIncluded,
			})
		}
		v.Material = &MaterialView{WasteTypes: rows}
	}
	return v
}
