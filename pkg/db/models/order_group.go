package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderGroup is a customer's booking against one listing. Pricing values are
// copied at booking time so later listing edits do not reprice it.
type OrderGroup struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	ListingID       uuid.UUID           `gorm:"column:listing_id;type:uuid;not null;index"`
	UserAddressID   uuid.UUID           `gorm:"column:user_address_id;type:uuid;not null"`
	WasteTypeID     *uuid.UUID          `gorm:"column:waste_type_id;type:uuid"`
	TonnageQuantity decimal.NullDecimal `gorm:"column:tonnage_quantity;type:numeric(18,2)"`
	TakeRate        decimal.Decimal     `gorm:"column:take_rate;type:numeric(18,2);not null;default:30"`
	TimesPerWeek    *int                `gorm:"column:times_per_week"`
	ShiftCount      *int                `gorm:"column:shift_count"`
	StartDate       time.Time           `gorm:"column:start_date;not null"`
	EndDate         *time.Time          `gorm:"column:end_date"`
	Listing         Listing             `gorm:"foreignKey:ListingID"`
	UserAddress     UserAddress         `gorm:"foreignKey:UserAddressID"`
	Rental          *OrderGroupRental   `gorm:"foreignKey:OrderGroupID;constraint:OnDelete:CASCADE"`
	Material        *OrderGroupMaterial `gorm:"foreignKey:OrderGroupID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *OrderGroup) BeforeCreate(*gorm.DB) error {
	ensureID(&o.ID)
	return nil
}

type OrderGroupRental struct {
	ID                    uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderGroupID          uuid.UUID       `gorm:"column:order_group_id;type:uuid;not null;uniqueIndex"`
	IncludedDays          int             `gorm:"column:included_days;not null;default:0"`
	PricePerDayIncluded   decimal.Decimal `gorm:"column:price_per_day_included;type:numeric(18,2);not null;default:0"`
	PricePerDayAdditional decimal.Decimal `gorm:"column:price_per_day_additional;type:numeric(18,2);not null;default:0"`
}

func (r *OrderGroupRental) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ID)
	return nil
}

type OrderGroupMaterial struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderGroupID    uuid.UUID       `gorm:"column:order_group_id;type:uuid;not null;uniqueIndex"`
	PricePerTon     decimal.Decimal `gorm:"column:price_per_ton;type:numeric(18,2);not null;default:0"`
	TonnageIncluded decimal.Decimal `gorm:"column:tonnage_included;type:numeric(18,2);not null;default:0"`
}

func (m *OrderGroupMaterial) BeforeCreate(*gorm.DB) error {
	ensureID(&m.ID)
	return nil
}
