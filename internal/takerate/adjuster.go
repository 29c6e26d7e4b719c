package takerate

import (
	"github.com/angelmondragon/haulmarket/internal/listings"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// feePlaces is the precision of the marked-up delivery and removal fees.
const feePlaces = 2

// Apply returns a copy of v with every supplier rate multiplied by
// (1 + takeRatePercent/100). Null rates stay null and ids, inventory, radius,
// fuel markup and shift multipliers are untouched. Delivery and removal fees
// are rounded half-to-even to cents; rates keep full precision.
//
// Apply is not idempotent: a second call marks the rates up again. Callers
// apply it once per customer-facing read and never persist the result; a
// view whose Adjusted reports true has already been marked up.
func Apply(v PriceView, takeRatePercent decimal.Decimal) PriceView {
	f := decimal.NewFromInt(1).Add(takeRatePercent.Div(hundred))
	mul := func(d decimal.NullDecimal) decimal.NullDecimal {
		if !d.Valid {
			return d
		}
		return decimal.NewNullDecimal(d.Decimal.Mul(f))
	}

	out := v
	out.Markup = v.Markup.Mul(f)
	out.DeliveryFee = roundFee(mul(v.DeliveryFee))
	out.RemovalFee = roundFee(mul(v.RemovalFee))

	if v.Service != nil {
		out.Service = &ServiceView{
			PricePerMile:  mul(v.Service.PricePerMile),
			FlatRatePrice: mul(v.Service.FlatRatePrice),
		}
	}
	if v.ServiceTimesPerWeek != nil {
		s := v.ServiceTimesPerWeek
		out.ServiceTimesPerWeek = &TimesPerWeekView{
			OneTimePerWeek:    mul(s.OneTimePerWeek),
			TwoTimesPerWeek:   mul(s.TwoTimesPerWeek),
			ThreeTimesPerWeek: mul(s.ThreeTimesPerWeek),
			FourTimesPerWeek:  mul(s.FourTimesPerWeek),
			FiveTimesPerWeek:  mul(s.FiveTimesPerWeek),
		}
	}
	if v.RentalOneStep != nil {
		out.RentalOneStep = &RentalOneStepView{Rate: mul(v.RentalOneStep.Rate)}
	}
	if v.Rental != nil {
		out.Rental = &RentalView{
			IncludedDays:          v.Rental.IncludedDays,
			PricePerDayIncluded:   mul(v.Rental.PricePerDayIncluded),
			PricePerDayAdditional: mul(v.Rental.PricePerDayAdditional),
		}
	}
	if v.RentalMultiStep != nil {
		r := v.RentalMultiStep
		out.RentalMultiStep = &RentalMultiStepView{
			Hour:       mul(r.Hour),
			Day:        mul(r.Day),
			Week:       mul(r.Week),
			TwoWeeks:   mul(r.TwoWeeks),
			Month:      mul(r.Month),
			TwoShift:   r.TwoShift,
			ThreeShift: r.ThreeShift,
		}
	}
	if v.Material != nil {
		rows := make([]MaterialWasteTypeView, len(v.Material.WasteTypes))
		for i, row := range v.Material.WasteTypes {
			row.PricePerTon = mul(row.PricePerTon)
			rows[i] = row
		}
		out.Material = &MaterialView{WasteTypes: rows}
	}
	return out
}

func roundFee(d decimal.NullDecimal) decimal.NullDecimal {
	if !d.Valid {
		return d
	}
	return decimal.NewNullDecimal(d.Decimal.RoundBank(feePlaces))
}

// Adjusted reports whether a take rate has already been applied to v.
func (v PriceView) Adjusted() bool {
	return !v.Markup.Equal(decimal.NewFromInt(1))
}

// ForCustomer builds the customer view of l using override when set and the
// main product's default take rate otherwise.
func ForCustomer(l listings.Listing, override decimal.NullDecimal) PriceView {
	rate := l.MainProduct.DefaultTakeRate
	if override.Valid {
		rate = override.Decimal
	}
	return Apply(NewPriceView(l), rate)
}

// ForCustomers maps ForCustomer over ls, preserving order.
func ForCustomers(ls []listings.Listing) []PriceView {
	out := make([]PriceView, len(ls))
	for i, l := range ls {
		out[i] = ForCustomer(l, decimal.NullDecimal{})
	}
	return out
}

// Raw maps NewPriceView over ls for seller and admin views.
func Raw(ls []listings.Listing) []PriceView {
	out := make([]PriceView, len(ls))
	for i, l := range ls {
		out[i] = NewPriceView(l)
	}
	return out
}
