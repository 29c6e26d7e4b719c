package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Listing is the sellable pairing of a product at a seller location.
// Pricing children are one-to-one and optional; which ones must exist is
// driven by the MainProduct flags.
type Listing struct {
	ID                      uuid.UUID                   `gorm:"column:id;type:uuid;primaryKey"`
	ProductID               uuid.UUID                   `gorm:"column:product_id;type:uuid;not null;index"`
	SellerLocationID        uuid.UUID                   `gorm:"column:seller_location_id;type:uuid;not null;index"`
	Active                  bool                        `gorm:"column:active;not null"`
	TotalInventory          decimal.NullDecimal         `gorm:"column:total_inventory;type:numeric(18,0)"`
	ServiceRadius           decimal.NullDecimal         `gorm:"column:service_radius;type:numeric(18,0)"`
	DeliveryFee             decimal.NullDecimal         `gorm:"column:delivery_fee;type:numeric(18,2)"`
	RemovalFee              decimal.NullDecimal         `gorm:"column:removal_fee;type:numeric(18,2)"`
	FuelEnvironmentalMarkup decimal.NullDecimal         `gorm:"column:fuel_environmental_markup;type:numeric(18,2)"`
	MinPrice                decimal.NullDecimal         `gorm:"column:min_price;type:numeric(18,2)"`
	MaxPrice                decimal.NullDecimal         `gorm:"column:max_price;type:numeric(18,2)"`
	Product                 Product                     `gorm:"foreignKey:ProductID"`
	SellerLocation          SellerLocation              `gorm:"foreignKey:SellerLocationID"`
	Service                 *ListingService             `gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE"`
	ServiceTimesPerWeek     *ListingServiceTimesPerWeek `gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE"`
	RentalOneStep           *ListingRentalOneStep       `gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE"`
	Rental                  *ListingRental              `gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE"`
	RentalMultiStep         *ListingRentalMultiStep     `gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE"`
	Material                *ListingMaterial            `gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE"`
	CreatedAt               time.Time                   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt               time.Time                   `gorm:"column:updated_at;autoUpdateTime"`
}

func (l *Listing) BeforeCreate(*gorm.DB) error {
	ensureID(&l.ID)
	return nil
}

type ListingService struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	ListingID     uuid.UUID           `gorm:"column:listing_id;type:uuid;not null;uniqueIndex"`
	PricePerMile  decimal.NullDecimal `gorm:"column:price_per_mile;type:numeric(18,2)"`
	FlatRatePrice decimal.NullDecimal `gorm:"column:flat_rate_price;type:numeric(18,2)"`
}

func (s *ListingService) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

// ListingServiceTimesPerWeek holds monthly rates keyed by visits per week.
type ListingServiceTimesPerWeek struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	ListingID         uuid.UUID           `gorm:"column:listing_id;type:uuid;not null;uniqueIndex"`
	OneTimePerWeek    decimal.NullDecimal `gorm:"column:one_time_per_week;type:numeric(18,2)"`
	TwoTimesPerWeek   decimal.NullDecimal `gorm:"column:two_times_per_week;type:numeric(18,2)"`
	ThreeTimesPerWeek decimal.NullDecimal `gorm:"column:three_times_per_week;type:numeric(18,2)"`
	FourTimesPerWeek  decimal.NullDecimal `gorm:"column:four_times_per_week;type:numeric(18,2)"`
	FiveTimesPerWeek  decimal.NullDecimal `gorm:"column:five_times_per_week;type:numeric(18,2)"`
}

func (s *ListingServiceTimesPerWeek) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

type ListingRentalOneStep struct {
	ID        uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	ListingID uuid.UUID           `gorm:"column:listing_id;type:uuid;not null;uniqueIndex"`
	Rate      decimal.NullDecimal `gorm:"column:rate;type:numeric(18,2)"`
}

func (r *ListingRentalOneStep) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ID)
	return nil
}

// ListingRental is the two-step rental: included days at one rate, extra days at another.
type ListingRental struct {
	ID                    uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	ListingID             uuid.UUID           `gorm:"column:listing_id;type:uuid;not null;uniqueIndex"`
	IncludedDays          int                 `gorm:"column:included_days;not null;default:0"`
	PricePerDayIncluded   decimal.NullDecimal `gorm:"column:price_per_day_included;type:numeric(18,2)"`
	PricePerDayAdditional decimal.NullDecimal `gorm:"column:price_per_day_additional;type:numeric(18,2)"`
}

func (r *ListingRental) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ID)
	return nil
}

type ListingRentalMultiStep struct {
	ID        uuid.UUID                    `gorm:"column:id;type:uuid;primaryKey"`
	ListingID uuid.UUID                    `gorm:"column:listing_id;type:uuid;not null;uniqueIndex"`
	Hour      decimal.NullDecimal          `gorm:"column:hour;type:numeric(18,2)"`
	Day       decimal.NullDecimal          `gorm:"column:day;type:numeric(18,2)"`
	Week      decimal.NullDecimal          `gorm:"column:week;type:numeric(18,2)"`
	TwoWeeks  decimal.NullDecimal          `gorm:"column:two_weeks;type:numeric(18,2)"`
	Month     decimal.NullDecimal          `gorm:"column:month;type:numeric(18,2)"`
	Shift     *ListingRentalMultiStepShift `gorm:"foreignKey:RentalMultiStepID;constraint:OnDelete:CASCADE"`
}

func (r *ListingRentalMultiStep) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ID)
	return nil
}

// ListingRentalMultiStepShift stores unit price multipliers for two and three daily shifts.
type ListingRentalMultiStepShift struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	RentalMultiStepID uuid.UUID           `gorm:"column:rental_multi_step_id;type:uuid;not null;uniqueIndex"`
	TwoShift          decimal.NullDecimal `gorm:"column:two_shift;type:numeric(18,2)"`
	ThreeShift        decimal.NullDecimal `gorm:"column:three_shift;type:numeric(18,2)"`
}

func (r *ListingRentalMultiStepShift) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ID)
	return nil
}

type ListingMaterial struct {
	ID         uuid.UUID                  `gorm:"column:id;type:uuid;primaryKey"`
	ListingID  uuid.UUID                  `gorm:"column:listing_id;type:uuid;not null;uniqueIndex"`
	WasteTypes []ListingMaterialWasteType `gorm:"foreignKey:ListingMaterialID;constraint:OnDelete:CASCADE"`
}

func (m *ListingMaterial) BeforeCreate(*gorm.DB) error {
	ensureID(&m.ID)
	return nil
}

// ListingMaterialWasteType prices one accepted waste type for a listing.
type ListingMaterialWasteType struct {
	ID                     uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	ListingMaterialID      uuid.UUID            `gorm:"column:listing_material_id;type:uuid;not null;index"`
	MainProductWasteTypeID uuid.UUID            `gorm:"column:main_product_waste_type_id;type:uuid;not null"`
	PricePerTon            decimal.Decimal      `gorm:"column:price_per_ton;type:numeric(18,2);not null"`
	TonnageIncluded        decimal.NullDecimal  `gorm:"column:tonnage_included;type:numeric(18,2)"`
	MainProductWasteType   MainProductWasteType `gorm:"foreignKey:MainProductWasteTypeID"`
}

func (m *ListingMaterialWasteType) BeforeCreate(*gorm.DB) error {
	ensureID(&m.ID)
	return nil
}
