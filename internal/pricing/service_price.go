package pricing

import (
	"fmt"
	"math"

	"github.com/angelmondragon/haulmarket/internal/listings"
	"github.com/angelmondragon/haulmarket/pkg/distance"
	pkgerrors "github.com/angelmondragon/haulmarket/pkg/errors"
	"github.com/angelmondragon/haulmarket/pkg/types"
	"github.com/shopspring/decimal"
)

var timesPerWeekLabels = [...]string{
	"One Time Per Week",
	"Two Times Per Week",
	"Three Times Per Week",
	"Four Times Per Week",
	"Five Times Per Week",
}

func validateTimesPerWeek(n *int) error {
	if n == nil {
		return nil
	}
	if *n < 1 || *n > len(timesPerWeekLabels) {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("times_per_week must be between 1 and %d", len(timesPerWeekLabels))).
			WithDetails(map[string]any{"times_per_week": *n})
	}
	return nil
}

// servicePrice prices the service dimension. Mileage service charges per
// started mile between seller and customer when a per-mile rate exists and
// falls back to the flat rate otherwise. Times-per-week service needs the
// requested visit count and yields nothing when that rate is not configured.
func servicePrice(l listings.Listing, customer types.Coordinates, timesPerWeek *int) []LineItem {
	switch shape := l.Service.(type) {
	case listings.ServiceMileage:
		if shape.PricePerMile.Valid && shape.PricePerMile.Decimal.IsPositive() {
			miles := int64(math.Ceil(distance.GreatCircleMiles(l.Location, customer)))
			return []LineItem{unitItem("Service", "miles", miles, shape.PricePerMile.Decimal)}
		}
		if shape.FlatRate.Valid && shape.FlatRate.Decimal.IsPositive() {
			return []LineItem{flatItem("Service", shape.FlatRate.Decimal)}
		}
	case listings.ServiceTimesPerWeek:
		if timesPerWeek == nil {
			return nil
		}
		rate, ok := shape.Rate(*timesPerWeek)
		if !ok {
			return nil
		}
		return []LineItem{flatItem(timesPerWeekLabels[*timesPerWeek-1], rate)}
	}
	return nil
}

// feeItems prices delivery and removal. Null or zero fees are omitted.
func feeItems(description string, fee decimal.NullDecimal) []LineItem {
	if !fee.Valid || fee.Decimal.IsZero() {
		return nil
	}
	return []LineItem{flatItem(description, fee.Decimal)}
}

// fuelAndEnvironmental applies the listing markup percentage to the subtotal
// of every other dimension.
func fuelAndEnvironmental(markup decimal.NullDecimal, subtotal decimal.Decimal, places int32) []LineItem {
	if !markup.Valid || markup.Decimal.IsZero() || subtotal.IsZero() {
		return nil
	}
	fee := markup.Decimal.Div(decimal.NewFromInt(100)).Mul(subtotal).Round(places)
	return []LineItem{flatItem("Fuel and Environmental", fee)}
}
