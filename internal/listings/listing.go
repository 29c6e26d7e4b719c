// Package listings holds the read model of seller listings, their pricing
// shapes and the order groups booked against them.
package listings

import (
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/haulmarket/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MainProduct is the category-level configuration a listing inherits.
type MainProduct struct {
	ID                     uuid.UUID
	Name                   string
	HasService             bool
	HasServiceTimesPerWeek bool
	HasRental              bool
	HasRentalOneStep       bool
	HasRentalMultiStep     bool
	HasMaterial            bool
	IncludedTonnage        decimal.NullDecimal
	DefaultTakeRate        decimal.Decimal
	MinimumTakeRate        decimal.Decimal
	MaxDiscount            decimal.Decimal
}

// Listing is a product offered at one seller location together with its
// pricing shapes. Service, Rental and Material are nil when the main product
// does not price that dimension or the child row is missing.
type Listing struct {
	ID                      uuid.UUID
	ProductID               uuid.UUID
	SellerLocationID        uuid.UUID
	MainProduct             MainProduct
	Location                types.Coordinates
	Active                  bool
	TotalInventory          decimal.NullDecimal
	ServiceRadius           decimal.NullDecimal
	DeliveryFee             decimal.NullDecimal
	RemovalFee              decimal.NullDecimal
	FuelEnvironmentalMarkup decimal.NullDecimal
	Service                 ServiceShape
	Rental                  RentalShape
	Material                *Material
	CreatedAt               time.Time

	// shapeMissing is set when a flagged shape other than the chosen one is
	// absent or unpriced.
	shapeMissing bool
}

// IsComplete reports whether every pricing dimension the main product
// declares has a fully configured shape.
func (l Listing) IsComplete() bool {
	if l.shapeMissing {
		return false
	}
	mp := l.MainProduct
	if mp.HasService || mp.HasServiceTimesPerWeek {
		if l.Service == nil || !l.Service.Complete() {
			return false
		}
	}
	if mp.HasRental || mp.HasRentalOneStep || mp.HasRentalMultiStep {
		if l.Rental == nil || !l.Rental.Complete() {
			return false
		}
	}
	if mp.HasMaterial && !l.Material.Complete() {
		return false
	}
	return true
}

// Status classifies a listing for seller and admin tooling.
type Status string

const (
	StatusActive         Status = "active"
	StatusNeedsAttention Status = "needs_attention"
	StatusInactive       Status = "inactive"
)

// ParseStatus validates a status filter value.
func ParseStatus(raw string) (Status, error) {
	switch s := Status(strings.ToLower(strings.TrimSpace(raw))); s {
	case StatusActive, StatusNeedsAttention, StatusInactive:
		return s, nil
	default:
		return "", fmt.Errorf("unknown listing status %q", raw)
	}
}

func (l Listing) Status() Status {
	switch {
	case !l.Active:
		return StatusInactive
	case !l.IsComplete():
		return StatusNeedsAttention
	default:
		return StatusActive
	}
}

// TwoStepRental returns the listing's rental when it is the two-step shape.
func (l Listing) TwoStepRental() (RentalTwoStep, bool) {
	r, ok := l.Rental.(RentalTwoStep)
	return r, ok
}

// OrderGroup is a booking against one listing with the pricing values
// captured when it was placed.
type OrderGroup struct {
	ID              uuid.UUID
	ListingID       uuid.UUID
	ProductID       uuid.UUID
	UserAddressID   uuid.UUID
	Address         types.Coordinates
	WasteTypeID     *uuid.UUID
	TonnageQuantity decimal.NullDecimal
	TakeRate        decimal.Decimal
	TimesPerWeek    *int
	ShiftCount      *int
	StartDate       time.Time
	EndDate         *time.Time
	Rental          *OrderGroupRental
	Material        *OrderGroupMaterial
}

type OrderGroupRental struct {
	IncludedDays          int
	PricePerDayIncluded   decimal.Decimal
	PricePerDayAdditional decimal.Decimal
}

type OrderGroupMaterial struct {
	PricePerTon     decimal.Decimal
	TonnageIncluded decimal.Decimal
}

// Product identifies a requested good and its main product.
type Product struct {
	ID            uuid.UUID
	MainProductID uuid.UUID
	Name          string
}
