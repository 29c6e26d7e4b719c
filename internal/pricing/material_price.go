package pricing

import (
	"github.com/angelmondragon/haulmarket/internal/listings"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// materialPrice bills the effective included tonnage of the requested waste
// type at its per-ton price, plus any caller-reported tonnage above it. A
// listing that does not price the waste type yields nothing.
func materialPrice(l listings.Listing, wasteTypeID *uuid.UUID, tonnage decimal.NullDecimal) []LineItem {
	if wasteTypeID == nil || l.Material == nil {
		return nil
	}
	row, ok := l.Material.ForWasteType(*wasteTypeID)
	if !ok {
		return nil
	}

	included := listings.EffectiveTonnageIncluded(l.MainProduct.IncludedTonnage, row.TonnageIncluded)
	var items []LineItem
	if included.IsPositive() {
		items = append(items, LineItem{
			Description: "Included Tonnage",
			UnitPrice:   row.PricePerTon,
			Quantity:    included,
			Units:       "tons",
		})
	}
	if tonnage.Valid && tonnage.Decimal.GreaterThan(included) {
		items = append(items, LineItem{
			Description: "Overage",
			UnitPrice:   row.PricePerTon,
			Quantity:    tonnage.Decimal.Sub(included),
			Units:       "tons",
		})
	}
	return items
}
