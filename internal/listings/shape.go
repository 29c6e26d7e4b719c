package listings

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ServiceShape is the service pricing configuration of a listing:
// ServiceMileage or ServiceTimesPerWeek.
type ServiceShape interface {
	isServiceShape()
	Complete() bool
}

// RentalShape is the rental pricing configuration of a listing:
// RentalOneStep, RentalTwoStep or RentalMultiStep.
type RentalShape interface {
	isRentalShape()
	Complete() bool
}

// ServiceMileage charges per mile driven, or a flat rate when no per-mile
// rate is configured.
type ServiceMileage struct {
	PricePerMile decimal.NullDecimal
	FlatRate     decimal.NullDecimal
}

func (ServiceMileage) isServiceShape() {}

func (s ServiceMileage) Complete() bool {
	return positive(s.PricePerMile) || positive(s.FlatRate)
}

// ServiceTimesPerWeek holds a recurring-service rate for one to five visits a week.
// Rates[0] is the once-a-week rate.
type ServiceTimesPerWeek struct {
	Rates [5]decimal.NullDecimal
}

func (ServiceTimesPerWeek) isServiceShape() {}

func (s ServiceTimesPerWeek) Complete() bool {
	for _, r := range s.Rates {
		if positive(r) {
			return true
		}
	}
	return false
}

// Rate returns the configured rate for n visits per week.
func (s ServiceTimesPerWeek) Rate(n int) (decimal.Decimal, bool) {
	if n < 1 || n > len(s.Rates) {
		return decimal.Decimal{}, false
	}
	r := s.Rates[n-1]
	if !r.Valid {
		return decimal.Decimal{}, false
	}
	return r.Decimal, true
}

// RentalOneStep bills a flat rate per started 28-day period.
type RentalOneStep struct {
	Rate decimal.NullDecimal
}

func (RentalOneStep) isRentalShape() {}

func (r RentalOneStep) Complete() bool {
	return positive(r.Rate)
}

// RentalTwoStep bills included days at one rate and every extra day at another.
type RentalTwoStep struct {
	IncludedDays          int
	PricePerDayIncluded   decimal.NullDecimal
	PricePerDayAdditional decimal.NullDecimal
}

func (RentalTwoStep) isRentalShape() {}

func (r RentalTwoStep) Complete() bool {
	return positive(r.PricePerDayIncluded) && positive(r.PricePerDayAdditional)
}

// RentalMultiStep bills over hour, day, week, two-week and month buckets.
// TwoShift and ThreeShift multiply unit prices when equipment works more than
// one shift per day.
type RentalMultiStep struct {
	Hour       decimal.NullDecimal
	Day        decimal.NullDecimal
	Week       decimal.NullDecimal
	TwoWeeks   decimal.NullDecimal
	Month      decimal.NullDecimal
	TwoShift   decimal.NullDecimal
	ThreeShift decimal.NullDecimal
}

func (RentalMultiStep) isRentalShape() {}

func (r RentalMultiStep) Complete() bool {
	return positive(r.Hour) || positive(r.Day) || positive(r.Week) || positive(r.TwoWeeks) || positive(r.Month)
}

// ShiftMultiplier returns the unit price multiplier for shiftCount shifts per day.
// One shift, or a missing multiplier, leaves prices unchanged.
func (r RentalMultiStep) ShiftMultiplier(shiftCount int) decimal.Decimal {
	switch shiftCount {
	case 2:
		if positive(r.TwoShift) {
			return r.TwoShift.Decimal
		}
	case 3:
		if positive(r.ThreeShift) {
			return r.ThreeShift.Decimal
		}
	}
	return decimal.NewFromInt(1)
}

// Material prices disposal per ton for each accepted waste type.
type Material struct {
	WasteTypes []MaterialWasteType
}

// MaterialWasteType is the per-ton price of one waste type at a listing.
type MaterialWasteType struct {
	WasteTypeID     uuid.UUID
	PricePerTon     decimal.Decimal
	TonnageIncluded decimal.NullDecimal
}

func (m *Material) Complete() bool {
	return m != nil && len(m.WasteTypes) > 0
}

// ForWasteType returns the row priced for wasteTypeID.
func (m *Material) ForWasteType(wasteTypeID uuid.UUID) (MaterialWasteType, bool) {
	if m == nil {
		return MaterialWasteType{}, false
	}
	for _, row := range m.WasteTypes {
		if row.WasteTypeID == wasteTypeID {
			return row, true
		}
	}
	return MaterialWasteType{}, false
}

// EffectiveTonnageIncluded is the larger of the main product's included
// tonnage and the row's own override. Nulls count as zero.
func EffectiveTonnageIncluded(mainProduct, row decimal.NullDecimal) decimal.Decimal {
	return decimal.Max(orZero(mainProduct), orZero(row))
}

func positive(d decimal.NullDecimal) bool {
	return d.Valid && d.Decimal.IsPositive()
}

func orZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}
