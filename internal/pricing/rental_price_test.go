package pricing

import (
	"testing"
	"time"

	"github.com/angelmondragon/haulmarket/internal/listings"
	pkgerrors "github.com/angelmondragon/haulmarket/pkg/errors"
	"github.com/shopspring/decimal"
)

func itemsTotal(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.total(2))
	}
	return sum
}

func days(n int) time.Duration {
	return time.Duration(n) * 24 * time.Hour
}

func TestOneStepPriceSteps(t *testing.T) {
	t.Parallel()

	r := listings.RentalOneStep{Rate: dec("400")}
	price := func(d time.Duration) decimal.Decimal {
		items, err := oneStepPrice(r, d)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return itemsTotal(items)
	}

	assertAmount(t, "1 day", price(days(1)), "400")
	assertAmount(t, "27 days", price(days(27)), "400")
	assertAmount(t, "28 days", price(days(28)), "400")
	assertAmount(t, "29 days", price(days(29)), "800")
	assertAmount(t, "56 days", price(days(56)), "800")
	assertAmount(t, "57 days", price(days(57)), "1200")
	assertAmount(t, "5 hours", price(5*time.Hour), "400")
	assertAmount(t, "28 days and an hour", price(days(28)+time.Hour), "400")
	assertAmount(t, "29 days and an hour", price(days(29)+time.Hour), "800")

	for _, d := range []time.Duration{0, -time.Hour} {
		if _, err := oneStepPrice(r, d); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("expected validation error for duration %s, got %v", d, err)
		}
	}
}

func TestTwoStepPriceIsMonotonic(t *testing.T) {
	t.Parallel()

	r := listings.RentalTwoStep{IncludedDays: 3, PricePerDayIncluded: dec("50"), PricePerDayAdditional: dec("20")}
	previous := decimal.Zero
	for d := 0; d <= 60; d++ {
		total := itemsTotal(twoStepPrice(r, days(d)))
		if total.LessThan(previous) {
			t.Fatalf("price dropped from %s to %s at %d days", previous, total, d)
		}
		previous = total
	}

	assertAmount(t, "under included", itemsTotal(twoStepPrice(r, days(1))), "150")
	assertAmount(t, "five days", itemsTotal(twoStepPrice(r, days(5))), "190")
	assertAmount(t, "partial day", itemsTotal(twoStepPrice(r, days(4)+time.Hour)), "170")
	assertAmount(t, "five days and an hour", itemsTotal(twoStepPrice(r, days(5)+time.Hour)), "190")
	assertAmount(t, "under a day", itemsTotal(twoStepPrice(r, 23*time.Hour)), "150")
}

func TestMultiStepPolicy(t *testing.T) {
	t.Parallel()

	full := listings.RentalMultiStep{Hour: dec("10"), Day: dec("100"), Week: dec("500")}
	noHour := listings.RentalMultiStep{Day: dec("100"), Week: dec("500")}

	type line struct {
		description string
		quantity    int64
		unit        string
	}
	cases := []struct {
		name     string
		rental   listings.RentalMultiStep
		duration time.Duration
		want     []line
		total    string
	}{
		{
			name:     "short job bills hours",
			rental:   full,
			duration: 5 * time.Hour,
			want:     []line{{"Hourly", 5, "10"}},
			total:    "50",
		},
		{
			name:     "hourly up to the day rate",
			rental:   full,
			duration: 10 * time.Hour,
			want:     []line{{"Hourly", 10, "10"}},
			total:    "100",
		},
		{
			name:     "day plus hours",
			rental:   full,
			duration: 30 * time.Hour,
			want:     []line{{"Daily", 1, "100"}, {"Hourly", 6, "10"}},
			total:    "160",
		},
		{
			name:     "partial day rounds up without an hourly rate",
			rental:   noHour,
			duration: 30 * time.Hour,
			want:     []line{{"Daily", 2, "100"}},
			total:    "200",
		},
		{
			name:     "week plus days",
			rental:   full,
			duration: days(9),
			want:     []line{{"Weekly", 1, "500"}, {"Daily", 2, "100"}},
			total:    "700",
		},
		{
			name:     "five days stay daily",
			rental:   full,
			duration: days(5),
			want:     []line{{"Daily", 5, "100"}},
			total:    "500",
		},
		{
			name:     "six days take the week",
			rental:   full,
			duration: days(6),
			want:     []line{{"Weekly", 1, "500"}},
			total:    "500",
		},
		{
			name:     "month derived from days",
			rental:   listings.RentalMultiStep{Day: dec("100"), Week: dec("650"), Month: dec("1500")},
			duration: days(31),
			want:     []line{{"Monthly", 1, "1500"}, {"Daily", 1, "100"}},
			total:    "1600",
		},
		{
			name:     "zero duration bills one unit",
			rental:   noHour,
			duration: 0,
			want:     []line{{"Daily", 1, "100"}},
			total:    "100",
		},
	}
	for _, tc := range cases {
		items := multiStepPrice(tc.rental, tc.duration, 1)
		if len(items) != len(tc.want) {
			t.Fatalf("%s: expected %d lines, got %+v", tc.name, len(tc.want), items)
		}
		for i, w := range tc.want {
			got := items[i]
			if got.Description != w.description || !got.Quantity.Equal(decimal.NewFromInt(w.quantity)) || !got.UnitPrice.Equal(amount(w.unit)) {
				t.Fatalf("%s: line %d expected %+v, got %s x%s @ %s", tc.name, i, w, got.Description, got.Quantity, got.UnitPrice)
			}
		}
		assertAmount(t, tc.name, itemsTotal(items), tc.total)
	}
}

func TestMultiStepEffectiveRates(t *testing.T) {
	t.Parallel()

	rates := newMultiStepRates(listings.RentalMultiStep{Hour: dec("3"), Day: dec("100"), Week: dec("900")})
	assertAmount(t, "day capped by 24 hours", rates.rate[bucketDay], "72")
	assertAmount(t, "week capped by 7 days", rates.rate[bucketWeek], "504")
	assertAmount(t, "two weeks from days", rates.rate[bucketTwoWeeks], "1008")
	assertAmount(t, "month from days", rates.rate[bucketMonth], "2160")

	weekOnly := newMultiStepRates(listings.RentalMultiStep{Week: dec("400")})
	if weekOnly.set[bucketDay] || weekOnly.set[bucketMonth] {
		t.Fatalf("week-only rental must not derive day or month rates")
	}
	items := multiStepPrice(listings.RentalMultiStep{Week: dec("400")}, days(10), 1)
	if len(items) != 1 || !items[0].Quantity.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("expected leftover days to round up to a second week, got %+v", items)
	}
}

func TestMultiStepShiftSurcharge(t *testing.T) {
	t.Parallel()

	r := listings.RentalMultiStep{Day: dec("100"), TwoShift: dec("1.5"), ThreeShift: dec("1.8")}

	assertAmount(t, "one shift", itemsTotal(multiStepPrice(r, days(2), 1)), "200")
	assertAmount(t, "two shifts", itemsTotal(multiStepPrice(r, days(2), 2)), "300")
	assertAmount(t, "three shifts", itemsTotal(multiStepPrice(r, days(2), 3)), "360")

	r.ThreeShift = decimal.NullDecimal{}
	assertAmount(t, "missing multiplier", itemsTotal(multiStepPrice(r, days(2), 3)), "200")
}
