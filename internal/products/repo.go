package products

import (
	"context"

	"gorm.io/gorm"

	"github.com/homeslands/order-sub002/pkg/db/models"
)

// Repository is the read side of the menu used when order lines are built.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindVariantBySlug(ctx context.Context, slug string) (*models.ProductVariant, *models.Product, error)
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a product repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// FindVariantBySlug loads a sellable variant together with its product and
// the product's attached promotion, if any.
func (r *repository) FindVariantBySlug(ctx context.Context, slug string) (*models.ProductVariant, *models.Product, error) {
	var variant models.ProductVariant
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&variant).Error; err != nil {
		return nil, nil, err
	}

	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Promotion").
		Where("id = ?", variant.ProductID).
		First(&product).Error
	if err != nil {
		return nil, nil, err
	}

	return &variant, &product, nil
}

func (r *repository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Promotion").
		Preload("Variants").
		Where("slug = ?", slug).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}
