package pricing

import (
	"time"

	"github.com/angelmondragon/haulmarket/internal/listings"
	"github.com/shopspring/decimal"
)

type bucket int

const (
	bucketHour bucket = iota
	bucketDay
	bucketWeek
	bucketTwoWeeks
	bucketMonth
)

var bucketHours = [...]int64{
	bucketHour:     1,
	bucketDay:      24,
	bucketWeek:     168,
	bucketTwoWeeks: 336,
	bucketMonth:    720,
}

var bucketLabels = [...]struct{ description, units string }{
	bucketHour:     {"Hourly", "hours"},
	bucketDay:      {"Daily", "days"},
	bucketWeek:     {"Weekly", "weeks"},
	bucketTwoWeeks: {"Two Weeks", "two week periods"},
	bucketMonth:    {"Monthly", "months"},
}

// multiStepRates are the effective bucket rates: each bucket costs no more
// than the equivalent number of the next smaller bucket.
type multiStepRates struct {
	rate [5]decimal.Decimal
	set  [5]bool
}

func newMultiStepRates(r listings.RentalMultiStep) multiStepRates {
	var m multiStepRates
	if r.Hour.Valid && r.Hour.Decimal.IsPositive() {
		m.rate[bucketHour], m.set[bucketHour] = r.Hour.Decimal, true
	}
	m.derive(bucketDay, r.Day, bucketHour, 24)
	m.derive(bucketWeek, r.Week, bucketDay, 7)
	m.derive(bucketTwoWeeks, r.TwoWeeks, bucketDay, 14)
	m.derive(bucketMonth, r.Month, bucketDay, 30)
	return m
}

func (m *multiStepRates) derive(b bucket, own decimal.NullDecimal, from bucket, factor int64) {
	ownSet := own.Valid && own.Decimal.IsPositive()
	switch {
	case ownSet && m.set[from]:
		m.rate[b] = decimal.Min(own.Decimal, m.rate[from].Mul(decimal.NewFromInt(factor)))
	case ownSet:
		m.rate[b] = own.Decimal
	case m.set[from]:
		m.rate[b] = m.rate[from].Mul(decimal.NewFromInt(factor))
	default:
		return
	}
	m.set[b] = true
}

// charge is a number of units of one bucket.
type charge struct {
	bucket   bucket
	quantity int64
}

type plan []charge

func (p plan) cost(m multiStepRates) decimal.Decimal {
	sum := decimal.Zero
	for _, c := range p {
		sum = sum.Add(m.rate[c.bucket].Mul(decimal.NewFromInt(c.quantity)))
	}
	return sum
}

// cover bills hours with whole intervals of b, at least one, and hands the
// remainder to a smaller bucket: days to hours, two-week periods to weeks,
// weeks and months to days. When that bucket has no rate the remainder is
// rounded up to one more interval of b.
func (m multiStepRates) cover(b bucket, hours int64) (plan, bool) {
	if !m.set[b] {
		return nil, false
	}
	if b == bucketHour {
		return plan{{bucket: bucketHour, quantity: hours}}, true
	}

	size := bucketHours[b]
	intervals := max(1, hours/size)
	p := plan{{bucket: b, quantity: intervals}}
	remaining := hours - intervals*size
	if remaining <= 0 {
		return p, true
	}

	next := bucketDay
	switch b {
	case bucketDay:
		next = bucketHour
	case bucketTwoWeeks:
		next = bucketWeek
	}
	rest, ok := m.cover(next, remaining)
	if !ok {
		p[0].quantity++
		return p, true
	}
	return append(p, rest...), true
}

// multiStepPrice picks the cheapest of the hourly, daily, weekly, two-week
// and monthly plans for the rental duration. Ties go to the smaller bucket.
// Partial hours are billed as whole hours with a one hour minimum. Each bucket
// used becomes its own line item, with unit prices multiplied by the shift
// surcharge.
func multiStepPrice(r listings.RentalMultiStep, duration time.Duration, shiftCount int) []LineItem {
	rates := newMultiStepRates(r)
	hours := max(1, ceilDiv(duration, time.Hour))

	var (
		best     plan
		bestCost decimal.Decimal
	)
	for b := bucketHour; b <= bucketMonth; b++ {
		p, ok := rates.cover(b, hours)
		if !ok {
			continue
		}
		if c := p.cost(rates); best == nil || c.LessThan(bestCost) {
			best, bestCost = p, c
		}
	}
	if best == nil {
		return nil
	}

	items := make([]LineItem, 0, len(best))
	for _, c := range merge(best) {
		label := bucketLabels[c.bucket]
		items = append(items, unitItem(label.description, label.units, c.quantity, rates.rate[c.bucket]))
	}
	return scaled(items, r.ShiftMultiplier(shiftCount))
}

// merge folds repeated buckets, keeping the order they first appear in.
func merge(p plan) plan {
	out := make(plan, 0, len(p))
	for _, c := range p {
		found := false
		for i := range out {
			if out[i].bucket == c.bucket {
				out[i].quantity += c.quantity
				found = true
				break
			}
		}
		if !found {
			out = append(out, c)
		}
	}
	return out
}
