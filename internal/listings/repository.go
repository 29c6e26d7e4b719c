package listings

import (
	"context"

	"github.com/angelmondragon/haulmarket/internal/repo"
	"github.com/angelmondragon/haulmarket/pkg/db/models"
	pkgerrors "github.com/angelmondragon/haulmarket/pkg/errors"
	"github.com/angelmondragon/haulmarket/pkg/pagination"
	"github.com/angelmondragon/haulmarket/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository is the read side of the catalog consumed by matching and pricing.
type Repository interface {
	// ListCandidates returns active listings of productID, plus active listings
	// of any product under relatedMainProductIDs, in stable creation order.
	ListCandidates(ctx context.Context, productID uuid.UUID, relatedMainProductIDs []uuid.UUID) ([]Listing, error)
	// ListByStatus pages through listings whose derived Status equals status.
	ListByStatus(ctx context.Context, status Status, page pagination.Params) (pagination.Page[Listing], error)
	GetListing(ctx context.Context, id uuid.UUID) (*Listing, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)
	// MainProductWasteTypes returns the waste type ids a main product accepts.
	MainProductWasteTypes(ctx context.Context, mainProductID uuid.UUID) ([]uuid.UUID, error)
	GetUserAddress(ctx context.Context, id uuid.UUID) (types.Coordinates, error)
	GetOrderGroup(ctx context.Context, id uuid.UUID) (*OrderGroup, error)
	ReassignOrderGroup(ctx context.Context, orderGroupID, listingID uuid.UUID) error
	WithTx(tx *gorm.DB) Repository
}

type gormRepository struct {
	repo.Base
}

// NewRepository builds a catalog repository bound to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{Base: repo.NewBase(db)}
}

func (r *gormRepository) WithTx(tx *gorm.DB) Repository {
	return &gormRepository{Base: repo.NewBase(tx)}
}

func (r *gormRepository) withChildren(ctx context.Context) *gorm.DB {
	return r.DB(ctx).
		Preload("Product.MainProduct").
		Preload("SellerLocation").
		Preload("Service").
		Preload("ServiceTimesPerWeek").
		Preload("RentalOneStep").
		Preload("Rental").
		Preload("RentalMultiStep.Shift").
		Preload("Material.WasteTypes.MainProductWasteType")
}

func (r *gormRepository) ListCandidates(ctx context.Context, productID uuid.UUID, relatedMainProductIDs []uuid.UUID) ([]Listing, error) {
	q := r.withChildren(ctx).Where("listings.active = ?", true)
	if len(relatedMainProductIDs) == 0 {
		q = q.Where("listings.product_id = ?", productID)
	} else {
		related := r.DB(ctx).Model(&models.Product{}).
			Select("id").
			Where("main_product_id IN ?", relatedMainProductIDs)
		q = q.Where("(listings.product_id = ? OR listings.product_id IN (?))", productID, related)
	}

	var rows []models.Listing
	if err := q.Order("listings.created_at ASC").Order("listings.id ASC").Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list candidate listings")
	}
	return toListings(rows), nil
}

// ListByStatus classifies in memory since completeness depends on every
// pricing child, so it keeps reading keyset batches until the page is full.
func (r *gormRepository) ListByStatus(ctx context.Context, status Status, page pagination.Params) (pagination.Page[Listing], error) {
	cursor, err := pagination.ParseCursor(page.Cursor)
	if err != nil {
		return pagination.Page[Listing]{}, err
	}
	limit := pagination.NormalizeLimit(page.Limit)
	batch := pagination.LimitWithBuffer(limit)

	matched := make([]Listing, 0, batch)
	for len(matched) < batch {
		q := r.withChildren(ctx).Where("listings.active = ?", status != StatusInactive)
		if cursor != nil {
			q = q.Where("(listings.created_at > ? OR (listings.created_at = ? AND listings.id > ?))",
				cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
		}

		var rows []models.Listing
		if err := q.Order("listings.created_at ASC").Order("listings.id ASC").Limit(batch).Find(&rows).Error; err != nil {
			return pagination.Page[Listing]{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list listings by status")
		}
		for _, row := range rows {
			cursor = &pagination.Cursor{CreatedAt: row.CreatedAt, ID: row.ID}
			if l := listingFromModel(row); l.Status() == status {
				matched = append(matched, l)
			}
		}
		if len(rows) < batch {
			break
		}
	}
	return pagination.Trim(matched, limit, listingPosition), nil
}

func listingPosition(l Listing) pagination.Cursor {
	return pagination.Cursor{CreatedAt: l.CreatedAt, ID: l.ID}
}

func (r *gormRepository) GetListing(ctx context.Context, id uuid.UUID) (*Listing, error) {
	var row models.Listing
	if err := r.withChildren(ctx).First(&row, "listings.id = ?", id).Error; err != nil {
		return nil, repo.LoadError(err, "listing not found", "load listing")
	}
	l := listingFromModel(row)
	return &l, nil
}

func (r *gormRepository) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	var row models.Product
	if err := r.DB(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, repo.LoadError(err, "product not found", "load product")
	}
	return &Product{ID: row.ID, MainProductID: row.MainProductID, Name: row.Name}, nil
}

func (r *gormRepository) MainProductWasteTypes(ctx context.Context, mainProductID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.DB(ctx).
		Model(&models.MainProductWasteType{}).
		Where("main_product_id = ?", mainProductID).
		Order("created_at ASC").
		Pluck("waste_type_id", &ids).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list main product waste types")
	}
	return ids, nil
}

func (r *gormRepository) GetUserAddress(ctx context.Context, id uuid.UUID) (types.Coordinates, error) {
	var row models.UserAddress
	if err := r.DB(ctx).First(&row, "id = ?", id).Error; err != nil {
		return types.Coordinates{}, repo.LoadError(err, "user address not found", "load user address")
	}
	return types.Coordinates{Lat: row.Latitude, Lng: row.Longitude}, nil
}

func (r *gormRepository) GetOrderGroup(ctx context.Context, id uuid.UUID) (*OrderGroup, error) {
	var row models.OrderGroup
	err := r.DB(ctx).
		Preload("Listing").
		Preload("UserAddress").
		Preload("Rental").
		Preload("Material").
		First(&row, "order_groups.id = ?", id).Error
	if err != nil {
		return nil, repo.LoadError(err, "order group not found", "load order group")
	}
	og := orderGroupFromModel(row)
	return &og, nil
}

func (r *gormRepository) ReassignOrderGroup(ctx context.Context, orderGroupID, listingID uuid.UUID) error {
	res := r.DB(ctx).
		Model(&models.OrderGroup{}).
		Where("id = ?", orderGroupID).
		Update("listing_id", listingID)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, res.Error, "reassign order group")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order group not found")
	}
	return nil
}

func toListings(rows []models.Listing) []Listing {
	out := make([]Listing, 0, len(rows))
	for _, row := range rows {
		out = append(out, listingFromModel(row))
	}
	return out
}
