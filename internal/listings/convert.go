package listings

import (
	"github.com/angelmondragon/haulmarket/pkg/db/models"
	"github.com/angelmondragon/haulmarket/pkg/types"
	"github.com/shopspring/decimal"
)

func mainProductFromModel(m models.MainProduct) MainProduct {
	return MainProduct{
		ID:                     m.ID,
		Name:                   m.Name,
		HasService:             m.HasService,
		HasServiceTimesPerWeek: m.HasServiceTimesPerWeek,
		HasRental:              m.HasRental,
		HasRentalOneStep:       m.HasRentalOneStep,
		HasRentalMultiStep:     m.HasRentalMultiStep,
		HasMaterial:            m.HasMaterial,
		IncludedTonnage:        m.IncludedTonnageQuantity,
		DefaultTakeRate:        m.DefaultTakeRate,
		MinimumTakeRate:        m.MinimumTakeRate,
		MaxDiscount:            m.MaxDiscount,
	}
}

// listingFromModel builds the domain listing. Shapes are chosen by the main
// product flags; when several flags of one dimension are set, times-per-week
// wins over mileage and multi-step over one-step over two-step. Every flagged
// shape must still be configured for the listing to be complete, including
// the ones not chosen.
func listingFromModel(m models.Listing) Listing {
	mp := mainProductFromModel(m.Product.MainProduct)
	l := Listing{
		ID:               m.ID,
		ProductID:        m.ProductID,
		SellerLocationID: m.SellerLocationID,
		MainProduct:      mp,
		Location: types.Coordinates{
			Lat: m.SellerLocation.Latitude,
			Lng: m.SellerLocation.Longitude,
		},
		Active:                  m.Active,
		TotalInventory:          m.TotalInventory,
		ServiceRadius:           m.ServiceRadius,
		DeliveryFee:             m.DeliveryFee,
		RemovalFee:              m.RemovalFee,
		FuelEnvironmentalMarkup: m.FuelEnvironmentalMarkup,
		CreatedAt:               m.CreatedAt,
	}

	services := []flaggedShape[ServiceShape]{
		{flagged: mp.HasServiceTimesPerWeek, shape: timesPerWeekFromModel(m.ServiceTimesPerWeek)},
		{flagged: mp.HasService, shape: mileageFromModel(m.Service)},
	}
	rentals := []flaggedShape[RentalShape]{
		{flagged: mp.HasRentalMultiStep, shape: multiStepFromModel(m.RentalMultiStep)},
		{flagged: mp.HasRentalOneStep, shape: oneStepFromModel(m.RentalOneStep)},
		{flagged: mp.HasRental, shape: twoStepFromModel(m.Rental)},
	}
	var serviceOK, rentalOK bool
	l.Service, serviceOK = pickShape(services)
	l.Rental, rentalOK = pickShape(rentals)
	l.shapeMissing = !serviceOK || !rentalOK

	if mp.HasMaterial && m.Material != nil {
		rows := make([]MaterialWasteType, 0, len(m.Material.WasteTypes))
		for _, row := range m.Material.WasteTypes {
			rows = append(rows, MaterialWasteType{
				WasteTypeID:     row.MainProductWasteType.WasteTypeID,
				PricePerTon:     row.PricePerTon,
				TonnageIncluded: row.TonnageIncluded,
			})
		}
		l.Material = &Material{WasteTypes: rows}
	}

	return l
}

type flaggedShape[S interface{ Complete() bool }] struct {
	flagged bool
	shape   S
}

// pickShape returns the first flagged shape that exists and reports whether
// every flagged shape exists and is complete.
func pickShape[S interface{ Complete() bool }](candidates []flaggedShape[S]) (S, bool) {
	var picked S
	found, ok := false, true
	for _, c := range candidates {
		if !c.flagged {
			continue
		}
		present := any(c.shape) != nil
		if !present || !c.shape.Complete() {
			ok = false
		}
		if present && !found {
			picked, found = c.shape, true
		}
	}
	return picked, ok
}

func timesPerWeekFromModel(t *models.ListingServiceTimesPerWeek) ServiceShape {
	if t == nil {
		return nil
	}
	return ServiceTimesPerWeek{Rates: [5]decimal.NullDecimal{
		t.OneTimePerWeek, t.TwoTimesPerWeek, t.ThreeTimesPerWeek, t.FourTimesPerWeek, t.FiveTimesPerWeek,
	}}
}

func mileageFromModel(s *models.ListingService) ServiceShape {
	if s == nil {
		return nil
	}
	return ServiceMileage{PricePerMile: s.PricePerMile, FlatRate: s.FlatRatePrice}
}

func multiStepFromModel(r *models.ListingRentalMultiStep) RentalShape {
	if r == nil {
		return nil
	}
	shape := RentalMultiStep{Hour: r.Hour, Day: r.Day, Week: r.Week, TwoWeeks: r.TwoWeeks, Month: r.Month}
	if r.Shift != nil {
		shape.TwoShift = r.Shift.TwoShift
		shape.ThreeShift = r.Shift.ThreeShift
	}
	return shape
}

func oneStepFromModel(r *models.ListingRentalOneStep) RentalShape {
	if r == nil {
		return nil
	}
	return RentalOneStep{Rate: r.Rate}
}

func twoStepFromModel(r *models.ListingRental) RentalShape {
	if r == nil {
		return nil
	}
	return RentalTwoStep{
		IncludedDays:          r.IncludedDays,
		PricePerDayIncluded:   r.PricePerDayIncluded,
		PricePerDayAdditional: r.PricePerDayAdditional,
	}
}

func orderGroupFromModel(m models.OrderGroup) OrderGroup {
	og := OrderGroup{
		ID:            m.ID,
		ListingID:     m.ListingID,
		ProductID:     m.Listing.ProductID,
		UserAddressID: m.UserAddressID,
		Address: types.Coordinates{
			Lat: m.UserAddress.Latitude,
			Lng: m.UserAddress.Longitude,
		},
		WasteTypeID:     m.WasteTypeID,
		TonnageQuantity: m.TonnageQuantity,
		TakeRate:        m.TakeRate,
		TimesPerWeek:    m.TimesPerWeek,
		ShiftCount:      m.ShiftCount,
		StartDate:       m.StartDate,
		EndDate:         m.EndDate,
	}
	if m.Rental != nil {
		og.Rental = &OrderGroupRental{
			IncludedDays:          m.Rental.IncludedDays,
			PricePerDayIncluded:   m.Rental.PricePerDayIncluded,
			PricePerDayAdditional: m.Rental.PricePerDayAdditional,
		}
	}
	if m.Material != nil {
		og.Material = &OrderGroupMaterial{
			PricePerTon:     m.Material.PricePerTon,
			TonnageIncluded: m.Material.TonnageIncluded,
		}
	}
	return og
}
