package pricing

import (
	"math"
	"time"

	"github.com/angelmondragon/haulmarket/internal/listings"
	pkgerrors "github.com/angelmondragon/haulmarket/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	oneStepPeriodDays = 28
	day               = 24 * time.Hour
)

// rentalPrice dispatches on the listing's rental shape.
func rentalPrice(l listings.Listing, duration time.Duration, shiftCount int) ([]LineItem, error) {
	switch shape := l.Rental.(type) {
	case listings.RentalOneStep:
		return oneStepPrice(shape, duration)
	case listings.RentalTwoStep:
		return twoStepPrice(shape, duration), nil
	case listings.RentalMultiStep:
		return multiStepPrice(shape, duration, shiftCount), nil
	}
	return nil, nil
}

// oneStepPrice bills the rate once per started 28-day period. Only whole
// days count, and a rental shorter than a day still bills one period.
func oneStepPrice(r listings.RentalOneStep, duration time.Duration) ([]LineItem, error) {
	if duration <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rental duration must be positive").
			WithDetails(map[string]any{"duration_hours": duration.Hours()})
	}
	periods := max(1, (wholeDays(duration)+oneStepPeriodDays-1)/oneStepPeriodDays)
	return []LineItem{unitItem("Rental", "28 day periods", periods, r.Rate.Decimal)}, nil
}

// twoStepPrice always bills the included days and bills every whole day
// past them at the additional rate. A trailing partial day is free.
func twoStepPrice(r listings.RentalTwoStep, duration time.Duration) []LineItem {
	days := wholeDays(duration)
	included := int64(r.IncludedDays)
	items := []LineItem{unitItem("Included Days", "days", included, r.PricePerDayIncluded.Decimal)}
	if extra := days - included; extra > 0 {
		items = append(items, unitItem("Additional Days", "days", extra, r.PricePerDayAdditional.Decimal))
	}
	return items
}

func wholeDays(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	return int64(d / day)
}

func ceilDiv(d, unit time.Duration) int64 {
	return int64(math.Ceil(float64(d) / float64(unit)))
}

func scaled(items []LineItem, multiplier decimal.Decimal) []LineItem {
	if multiplier.Equal(decimal.NewFromInt(1)) {
		return items
	}
	for i := range items {
		items[i].UnitPrice = items[i].UnitPrice.Mul(multiplier)
	}
	return items
}
