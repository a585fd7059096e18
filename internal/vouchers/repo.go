package vouchers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/homeslands/order-sub002/pkg/db/models"
	"github.com/homeslands/order-sub002/pkg/pagination"
)

// Repository exposes voucher reads plus the guarded usage decrement used by
// settlement.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindBySlug(ctx context.Context, slug string) (*models.Voucher, error)
	FindByCode(ctx context.Context, code string) (*models.Voucher, error)
	ListPublicActive(ctx context.Context, params pagination.Params) ([]models.Voucher, *pagination.Cursor, error)
	DecrementUsage(ctx context.Context, id uuid.UUID) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a voucher repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindBySlug(ctx context.Context, slug string) (*models.Voucher, error) {
	var voucher models.Voucher
	err := r.db.WithContext(ctx).
		Preload("Products").
		Where("slug = ?", slug).
		First(&voucher).Error
	if err != nil {
		return nil, err
	}
	return &voucher, nil
}

func (r *repository) FindByCode(ctx context.Context, code string) (*models.Voucher, error) {
	var voucher models.Voucher
	err := r.db.WithContext(ctx).
		Preload("Products").
		Where("code = ?", code).
		First(&voucher).Error
	if err != nil {
		return nil, err
	}
	return &voucher, nil
}

func (r *repository) ListPublicActive(ctx context.Context, params pagination.Params) ([]models.Voucher, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, nil, err
	}

	query := r.db.WithContext(ctx).
		Preload("Products").
		Where("is_active = ? AND is_private = ?", true, false)
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var vouchers []models.Voucher
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&vouchers).Error; err != nil {
		return nil, nil, err
	}

	if len(vouchers) > normalized {
		vouchers = vouchers[:normalized]
		tail := vouchers[len(vouchers)-1]
		return vouchers, &pagination.Cursor{CreatedAt: tail.CreatedAt, ID: tail.ID}, nil
	}
	return vouchers, nil, nil
}

// DecrementUsage consumes one usage from the pool. The guard keeps the pool
// from going negative under concurrent settlements; false means the pool was
// already empty.
func (r *repository) DecrementUsage(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Voucher{}).
		Where("id = ? AND remaining_usage > 0", id).
		UpdateColumn("remaining_usage", gorm.Expr("remaining_usage - 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
