package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/homeslands/order-sub002/pkg/db/models"
)

// Repository persists orders and their settlement rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindBySlug(ctx context.Context, slug string) (*models.Order, error)
	Update(ctx context.Context, order *models.Order) error
	ReplaceItems(ctx context.Context, orderID uuid.UUID, items []models.OrderItem) error
	CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an order repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// FindBySlug loads the full read model the pricing recompute needs: lines,
// owner, the attached voucher with its product scope, and the payment row.
func (r *repository) FindBySlug(ctx context.Context, slug string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Owner").
		Preload("Voucher.Products").
		Preload("Payment").
		Where("slug = ?", slug).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) Update(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

func (r *repository) ReplaceItems(ctx context.Context, orderID uuid.UUID, items []models.OrderItem) error {
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return nil, err
	}
	return payment, nil
}
