package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GroupCode identifies a pricing dimension in a breakdown.
type GroupCode string

const (
	GroupService              GroupCode = "service"
	GroupRental               GroupCode = "rental"
	GroupMaterial             GroupCode = "material"
	GroupDelivery             GroupCode = "delivery"
	GroupRemoval              GroupCode = "removal"
	GroupFuelAndEnvironmental GroupCode = "fuel_and_environmental"
)

var groupOrder = []struct {
	code  GroupCode
	title string
}{
	{GroupService, "Service"},
	{GroupRental, "Rental"},
	{GroupMaterial, "Material"},
	{GroupDelivery, "Delivery"},
	{GroupRemoval, "Removal"},
	{GroupFuelAndEnvironmental, "Fuel and Environmental"},
}

// LineItem is one priced row of a quote.
type LineItem struct {
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    decimal.Decimal `json:"quantity"`
	Units       string          `json:"units,omitempty"`
	IsFlatRate  bool            `json:"is_flat_rate"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
}

func flatItem(description string, price decimal.Decimal) LineItem {
	return LineItem{
		Description: description,
		UnitPrice:   price,
		Quantity:    decimal.NewFromInt(1),
		IsFlatRate:  true,
	}
}

func unitItem(description, units string, quantity int64, price decimal.Decimal) LineItem {
	return LineItem{
		Description: description,
		UnitPrice:   price,
		Quantity:    decimal.NewFromInt(quantity),
		Units:       units,
	}
}

func (li LineItem) total(places int32) decimal.Decimal {
	return li.Quantity.Mul(li.UnitPrice).Round(places).Add(li.Tax)
}

// Group holds the line items of one pricing dimension.
type Group struct {
	Code  GroupCode       `json:"code"`
	Title string          `json:"title"`
	Sort  int             `json:"sort"`
	Items []LineItem      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// Breakdown is an itemized quote. Every component is the sum of its group's
// line item totals and Total is the sum of the components.
type Breakdown struct {
	ListingID            uuid.UUID       `json:"listing_id"`
	Groups               []Group         `json:"groups"`
	Service              decimal.Decimal `json:"service"`
	Rental               decimal.Decimal `json:"rental"`
	Material             decimal.Decimal `json:"material"`
	Delivery             decimal.Decimal `json:"delivery"`
	Removal              decimal.Decimal `json:"removal"`
	FuelAndEnvironmental decimal.Decimal `json:"fuel_and_environmental"`
	Total                decimal.Decimal `json:"total"`
}

// Group returns the group for code, if the quote has one.
func (b *Breakdown) Group(code GroupCode) (Group, bool) {
	for _, g := range b.Groups {
		if g.Code == code {
			return g, true
		}
	}
	return Group{}, false
}

// newBreakdown totals items per group and drops empty groups.
func newBreakdown(listingID uuid.UUID, items map[GroupCode][]LineItem, places int32) *Breakdown {
	b := &Breakdown{ListingID: listingID, Groups: []Group{}}
	for order, g := range groupOrder {
		rows := items[g.code]
		if len(rows) == 0 {
			continue
		}
		group := Group{Code: g.code, Title: g.title, Sort: order, Items: make([]LineItem, len(rows))}
		for i, row := range rows {
			row.Total = row.total(places)
			group.Total = group.Total.Add(row.Total)
			group.Items[i] = row
		}
		b.Groups = append(b.Groups, group)

		switch g.code {
		case GroupService:
			b.Service = group.Total
		case GroupRental:
			b.Rental = group.Total
		case GroupMaterial:
			b.Material = group.Total
		case GroupDelivery:
			b.Delivery = group.Total
		case GroupRemoval:
			b.Removal = group.Total
		case GroupFuelAndEnvironmental:
			b.FuelAndEnvironmental = group.Total
		}
	}
	b.Total = b.Service.Add(b.Rental).Add(b.Material).Add(b.Delivery).Add(b.Removal).Add(b.FuelAndEnvironmental)
	return b
}

func subtotal(items map[GroupCode][]LineItem, places int32) decimal.Decimal {
	sum := decimal.Zero
	for _, rows := range items {
		for _, row := range rows {
			sum = sum.Add(row.total(places))
		}
	}
	return sum
}
