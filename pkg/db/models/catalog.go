package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MainProduct is the category-level configuration shared by every Product under it.
type MainProduct struct {
	ID                      uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	Name                    string                 `gorm:"column:name;not null"`
	HasService              bool                   `gorm:"column:has_service;not null;default:false"`
	HasServiceTimesPerWeek  bool                   `gorm:"column:has_service_times_per_week;not null;default:false"`
	HasRental               bool                   `gorm:"column:has_rental;not null;default:false"`
	HasRentalOneStep        bool                   `gorm:"column:has_rental_one_step;not null;default:false"`
	HasRentalMultiStep      bool                   `gorm:"column:has_rental_multi_step;not null;default:false"`
	HasMaterial             bool                   `gorm:"column:has_material;not null;default:false"`
	IncludedTonnageQuantity decimal.NullDecimal    `gorm:"column:included_tonnage_quantity;type:numeric(18,2)"`
	DefaultTakeRate         decimal.Decimal        `gorm:"column:default_take_rate;type:numeric(18,2);not null;default:30"`
	MinimumTakeRate         decimal.Decimal        `gorm:"column:minimum_take_rate;type:numeric(18,2);not null;default:20"`
	MaxDiscount             decimal.Decimal        `gorm:"column:max_discount;type:numeric(18,2);not null;default:0"`
	WasteTypes              []MainProductWasteType `gorm:"foreignKey:MainProductID"`
	CreatedAt               time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt               time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

func (m *MainProduct) BeforeCreate(*gorm.DB) error {
	ensureID(&m.ID)
	return nil
}

// Product is the concrete good a customer requests, e.g. a 30-yard dumpster.
type Product struct {
	ID            uuid.UUID   `gorm:"column:id;type:uuid;primaryKey"`
	MainProductID uuid.UUID   `gorm:"column:main_product_id;type:uuid;not null;index"`
	Name          string      `gorm:"column:name;not null"`
	MainProduct   MainProduct `gorm:"foreignKey:MainProductID"`
	CreatedAt     time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

type WasteType struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (w *WasteType) BeforeCreate(*gorm.DB) error {
	ensureID(&w.ID)
	return nil
}

// MainProductWasteType declares that a MainProduct accepts a WasteType.
type MainProductWasteType struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	MainProductID uuid.UUID `gorm:"column:main_product_id;type:uuid;not null;index"`
	WasteTypeID   uuid.UUID `gorm:"column:waste_type_id;type:uuid;not null"`
	WasteType     WasteType `gorm:"foreignKey:WasteTypeID"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (m *MainProductWasteType) BeforeCreate(*gorm.DB) error {
	ensureID(&m.ID)
	return nil
}

// SellerLocation is a physical seller yard.
type SellerLocation struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Latitude  float64   `gorm:"column:latitude;type:numeric(10,7);not null"`
	Longitude float64   `gorm:"column:longitude;type:numeric(10,7);not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (s *SellerLocation) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

// UserAddress is a customer delivery location.
type UserAddress struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Street    string    `gorm:"column:street"`
	City      string    `gorm:"column:city"`
	State     string    `gorm:"column:state"`
	Postal    string    `gorm:"column:postal_code"`
	Latitude  float64   `gorm:"column:latitude;type:numeric(10,7);not null"`
	Longitude float64   `gorm:"column:longitude;type:numeric(10,7);not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (u *UserAddress) BeforeCreate(*gorm.DB) error {
	ensureID(&u.ID)
	return nil
}
