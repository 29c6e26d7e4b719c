// Package pricing turns a listing's pricing shapes into an itemized quote.
package pricing

import (
	"context"
	"time"

	"github.com/angelmondragon/haulmarket/internal/listings"
	pkgerrors "github.com/angelmondragon/haulmarket/pkg/errors"
	"github.com/angelmondragon/haulmarket/pkg/logger"
	"github.com/angelmondragon/haulmarket/pkg/metrics"
	"github.com/angelmondragon/haulmarket/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultCurrencyPlaces = 2
	maxShiftCount         = 3
)

var hundred = decimal.NewFromInt(100)

// Request prices one listing for a customer location and date range.
type Request struct {
	Listing         listings.Listing
	Location        types.Coordinates
	StartDate       time.Time
	EndDate         time.Time
	WasteTypeID     *uuid.UUID
	TimesPerWeek    *int
	ShiftCount      *int
	TonnageQuantity decimal.NullDecimal
	// CustomerFacing marks unit prices up by the take rate and applies Discount.
	CustomerFacing bool
	// TakeRate overrides the main product's default take rate, in percent.
	TakeRate decimal.NullDecimal
	// Discount is a percentage off the marked-up price.
	Discount decimal.NullDecimal
}

// Engine prices one listing for a rental window. Incomplete listings get no
// price rather than a partial one.
type Engine struct {
	places  int32
	metrics *metrics.EngineMetrics
	logg    *logger.Logger
}

// NewEngine builds a pricing engine rounding line totals to places decimals.
func NewEngine(places int32, m *metrics.EngineMetrics, logg *logger.Logger) *Engine {
	if places <= 0 {
		places = defaultCurrencyPlaces
	}
	return &Engine{places: places, metrics: m, logg: logg}
}

// GetPrice quotes req. Incomplete listings yield a nil breakdown and no error.
func (e *Engine) GetPrice(ctx context.Context, req Request) (*Breakdown, error) {
	start := time.Now()
	defer func() { e.metrics.ObserveDuration(metrics.OpGetPrice, time.Since(start)) }()

	b, err := e.price(ctx, req)
	if err != nil {
		e.metrics.IncFailure(metrics.OpGetPrice)
		return nil, err
	}
	return b, nil
}

func (e *Engine) price(ctx context.Context, req Request) (*Breakdown, error) {
	l := req.Listing
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if !l.IsComplete() {
		e.logg.Info(e.logg.WithListingID(ctx, l.ID.String()), "listing incomplete, no price")
		return nil, nil
	}

	shiftCount := 1
	if req.ShiftCount != nil {
		shiftCount = *req.ShiftCount
	}
	rental, err := rentalPrice(l, req.EndDate.Sub(req.StartDate), shiftCount)
	if err != nil {
		return nil, err
	}

	items := map[GroupCode][]LineItem{
		GroupService:  servicePrice(l, req.Location, req.TimesPerWeek),
		GroupRental:   rental,
		GroupMaterial: materialPrice(l, req.WasteTypeID, req.TonnageQuantity),
		GroupDelivery: feeItems("Delivery Fee", l.DeliveryFee),
		GroupRemoval:  feeItems("Removal Fee", l.RemovalFee),
	}
	items[GroupFuelAndEnvironmental] = fuelAndEnvironmental(l.FuelEnvironmentalMarkup, subtotal(items, e.places), e.places)

	if req.CustomerFacing {
		takeRate := l.MainProduct.DefaultTakeRate
		if req.TakeRate.Valid {
			takeRate = req.TakeRate.Decimal
		}
		markup := CustomerMultiplier(takeRate, req.Discount)
		for code := range items {
			items[code] = scaled(items[code], markup)
		}
	}
	return newBreakdown(l.ID, items, e.places), nil
}

// CustomerMultiplier is the factor applied to a supplier unit price to get the
// customer price: the take rate markup, then the discount.
func CustomerMultiplier(takeRate decimal.Decimal, discount decimal.NullDecimal) decimal.Decimal {
	m := decimal.NewFromInt(1).Add(takeRate.Div(hundred))
	if discount.Valid && !discount.Decimal.IsZero() {
		m = m.Mul(decimal.NewFromInt(1).Sub(discount.Decimal.Div(hundred)))
	}
	return m
}

func validateRequest(req Request) error {
	if req.EndDate.Before(req.StartDate) {
		return invalidDateRange(req.StartDate, req.EndDate)
	}
	if err := validateTimesPerWeek(req.TimesPerWeek); err != nil {
		return err
	}
	if req.ShiftCount != nil && (*req.ShiftCount < 1 || *req.ShiftCount > maxShiftCount) {
		return pkgerrors.New(pkgerrors.CodeValidation, "shift_count must be between 1 and 3").
			WithDetails(map[string]any{"shift_count": *req.ShiftCount})
	}
	if req.TonnageQuantity.Valid && req.TonnageQuantity.Decimal.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "tonnage_quantity must not be negative")
	}
	if req.Discount.Valid && !req.Discount.Decimal.IsZero() && !req.CustomerFacing {
		return pkgerrors.InvalidField("discount", "discount applies only to customer-facing quotes")
	}
	if req.Discount.Valid {
		maxDiscount := req.Listing.MainProduct.MaxDiscount
		if req.Discount.Decimal.IsNegative() || req.Discount.Decimal.GreaterThan(maxDiscount) {
			return pkgerrors.New(pkgerrors.CodeValidation, "discount exceeds the maximum for this product").
				WithDetails(map[string]any{
					"discount":     req.Discount.Decimal.String(),
					"max_discount": maxDiscount.String(),
				})
		}
	}
	return nil
}

const invalidDateRangeMessage = "end date must not be before start date"

func invalidDateRange(start, end time.Time) error {
	return pkgerrors.New(pkgerrors.CodeValidation, invalidDateRangeMessage).
		WithDetails(map[string]any{
			"start_date": start.Format(time.RFC3339),
			"end_date":   end.Format(time.RFC3339),
		})
}

// IsInvalidDateRange reports whether err rejected a quote whose end date
// precedes its start date.
func IsInvalidDateRange(err error) bool {
	typed := pkgerrors.As(err)
	return typed != nil && typed.Code() == pkgerrors.CodeValidation && typed.Message() == invalidDateRangeMessage
}
