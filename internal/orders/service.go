package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/homeslands/order-sub002/internal/pricing"
	"github.com/homeslands/order-sub002/internal/products"
	"github.com/homeslands/order-sub002/internal/vouchers"
	"github.com/homeslands/order-sub002/pkg/db/models"
	"github.com/homeslands/order-sub002/pkg/enums"
	pkgerrors "github.com/homeslands/order-sub002/pkg/errors"
	"github.com/homeslands/order-sub002/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the order lifecycle. Every operation reprices the order
// through the shared engine; persisted totals are only ever written from a
// fresh quote.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderDTO, error)
	GetOrder(ctx context.Context, slug string) (*OrderDTO, error)
	UpdateOrderItems(ctx context.Context, input UpdateOrderItemsInput) (*OrderDTO, error)
	ApplyVoucher(ctx context.Context, orderSlug, code string) (*OrderDTO, error)
	RemoveVoucher(ctx context.Context, orderSlug string) (*OrderDTO, error)
	Settle(ctx context.Context, orderSlug string) (*OrderDTO, error)
}

type service struct {
	repo        Repository
	tx          txRunner
	productRepo products.Repository
	voucherRepo vouchers.Repository
	metrics     *metrics.PricingMetrics
	now         func() time.Time
}

// ServiceParams bundles the order service dependencies.
type ServiceParams struct {
	Repo        Repository
	Tx          txRunner
	ProductRepo products.Repository
	VoucherRepo vouchers.Repository
	Metrics     *metrics.PricingMetrics
	Now         func() time.Time
}

// NewService builds an order service backed by the provided stack.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.ProductRepo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if params.VoucherRepo == nil {
		return nil, fmt.Errorf("voucher repository required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:        params.Repo,
		tx:          params.Tx,
		productRepo: params.ProductRepo,
		voucherRepo: params.VoucherRepo,
		metrics:     params.Metrics,
		now:         now,
	}, nil
}

// CreateOrder snapshots the requested lines from the menu, prices them, and
// persists the order. A requested voucher that cannot participate fails the
// call with its reason instead of being dropped silently.
func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderDTO, error) {
	if input.OwnerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order owner is required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}

	items, err := s.buildItemSnapshots(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	var voucherRecord *models.Voucher
	if input.VoucherCode != nil && strings.TrimSpace(*input.VoucherCode) != "" {
		voucherRecord, err = s.loadVoucherByCode(ctx, *input.VoucherCode)
		if err != nil {
			return nil, err
		}
	}

	start := time.Now()
	quote, err := pricing.BuildQuote(itemSnapshots(items), vouchers.Snapshot(voucherRecord), pricing.UsabilityContext{
		Now:           s.now(),
		OwnerRole:     input.OwnerRole,
		OwnerVerified: input.OwnerVerified,
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncQuote()
	s.metrics.ObserveQuoteDuration("create", time.Since(start))

	if voucherRecord != nil && !quote.Participating {
		s.metrics.IncVoucherRejection(string(quote.Usability.Reason))
		return nil, voucherRejected(quote.Usability.Reason)
	}

	order := &models.Order{
		Slug:    uuid.NewString(),
		OwnerID: input.OwnerID,
		Status:  enums.OrderStatusPending,
	}
	if voucherRecord != nil {
		order.VoucherID = &voucherRecord.ID
	}
	applyTotals(order, quote.Totals)

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		created, err := txRepo.Create(ctx, order)
		if err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = created.ID
		}
		return txRepo.ReplaceItems(ctx, created.ID, items)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order")
	}

	return s.GetOrder(ctx, order.Slug)
}

// GetOrder returns the order with a freshly recomputed price breakdown.
func (s *service) GetOrder(ctx context.Context, slug string) (*OrderDTO, error) {
	order, err := s.loadOrder(ctx, slug)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	quote, err := quoteOrder(order, s.now())
	if err != nil {
		return nil, err
	}
	s.metrics.IncQuote()
	s.metrics.ObserveQuoteDuration("order", time.Since(start))
	return toDTO(order, quote), nil
}

// UpdateOrderItems replaces the lines of a pending order and reprices it. An
// attached voucher that stops participating is kept on the record but priced
// as absent; the returned DTO carries the reason.
func (s *service) UpdateOrderItems(ctx context.Context, input UpdateOrderItemsInput) (*OrderDTO, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}

	order, err := s.loadOrder(ctx, input.OrderSlug)
	if err != nil {
		return nil, err
	}
	if order.Status != enums.OrderStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only pending orders can be updated")
	}

	items, err := s.buildItemSnapshots(ctx, input.Items)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	order.Items = items

	quote, err := quoteOrder(order, s.now())
	if err != nil {
		return nil, err
	}
	s.metrics.IncQuote()
	if order.Voucher != nil && !quote.Participating {
		s.metrics.IncVoucherRejection(string(quote.Usability.Reason))
	}
	applyTotals(order, quote.Totals)

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.ReplaceItems(ctx, order.ID, items); err != nil {
			return err
		}
		return txRepo.Update(ctx, order)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order items")
	}

	return toDTO(order, quote), nil
}

// ApplyVoucher attaches a voucher to a pending order. The voucher must
// participate for the current cart; otherwise the call fails with the reason.
func (s *service) ApplyVoucher(ctx context.Context, orderSlug, code string) (*OrderDTO, error) {
	order, err := s.loadOrder(ctx, orderSlug)
	if err != nil {
		return nil, err
	}
	if order.Status != enums.OrderStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only pending orders can take a voucher")
	}

	voucherRecord, err := s.loadVoucherByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	order.VoucherID = &voucherRecord.ID
	order.Voucher = voucherRecord

	quote, err := quoteOrder(order, s.now())
	if err != nil {
		return nil, err
	}
	s.metrics.IncQuote()
	if !quote.Participating {
		s.metrics.IncVoucherRejection(string(quote.Usability.Reason))
		return nil, voucherRejected(quote.Usability.Reason)
	}
	applyTotals(order, quote.Totals)

	if err := s.repo.Update(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist voucher")
	}
	return toDTO(order, quote), nil
}

// RemoveVoucher detaches the voucher and reprices the order.
func (s *service) RemoveVoucher(ctx context.Context, orderSlug string) (*OrderDTO, error) {
	order, err := s.loadOrder(ctx, orderSlug)
	if err != nil {
		return nil, err
	}
	if order.Status != enums.OrderStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only pending orders can drop a voucher")
	}

	order.VoucherID = nil
	order.Voucher = nil

	quote, err := quoteOrder(order, s.now())
	if err != nil {
		return nil, err
	}
	s.metrics.IncQuote()
	applyTotals(order, quote.Totals)

	if err := s.repo.Update(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist voucher removal")
	}
	return toDTO(order, quote), nil
}

// Settle charges the order. The amount is recomputed from the persisted
// snapshot inside the settlement transaction; a client-supplied total is
// never trusted. The voucher's usage pool is consumed here, once.
func (s *service) Settle(ctx context.Context, orderSlug string) (*OrderDTO, error) {
	var settled *models.Order
	var finalQuote *pricing.Quote

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		order, err := txRepo.FindBySlug(ctx, orderSlug)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.Status != enums.OrderStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is already settled")
		}
		if order.Payment != nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "payment already exists for order")
		}

		start := time.Now()
		quote, err := quoteOrder(order, s.now())
		if err != nil {
			return err
		}
		s.metrics.IncQuote()
		s.metrics.ObserveQuoteDuration("settle", time.Since(start))

		if quote.Participating && order.Voucher != nil {
			// The voucher already on this order settles even when the pool
			// drained after application; the guarded decrement just floors
			// the pool at zero.
			if _, err := s.voucherRepo.WithTx(tx).DecrementUsage(ctx, order.Voucher.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "consume voucher usage")
			}
		}

		now := s.now()
		payment := &models.Payment{
			Slug:    uuid.NewString(),
			OrderID: order.ID,
			Amount:  quote.Totals.FinalTotal,
			Status:  enums.PaymentStatusCompleted,
			PaidAt:  &now,
		}
		if _, err := txRepo.CreatePayment(ctx, payment); err != nil {
			return err
		}

		applyTotals(order, quote.Totals)
		order.Status = enums.OrderStatusPaid
		if err := txRepo.Update(ctx, order); err != nil {
			return err
		}

		order.Payment = payment
		settled = order
		finalQuote = quote
		return nil
	})
	if err != nil {
		s.metrics.IncSettlement("failure")
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "settle order")
	}

	s.metrics.IncSettlement("success")
	return toDTO(settled, finalQuote), nil
}

func (s *service) loadOrder(ctx context.Context, slug string) (*models.Order, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order slug is required")
	}
	order, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) loadVoucherByCode(ctx context.Context, code string) (*models.Voucher, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "voucher code is required")
	}
	voucher, err := s.voucherRepo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "voucher not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load voucher")
	}
	return voucher, nil
}

// buildItemSnapshots freezes the requested menu lines: variant price, product
// identity and the product's current promotion are copied onto the order so
// later catalog edits cannot shift what was quoted.
func (s *service) buildItemSnapshots(ctx context.Context, lines []OrderLineInput) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
		variant, product, err := s.productRepo.FindVariantBySlug(ctx, line.VariantSlug)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("variant %s not found", line.VariantSlug))
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variant")
		}
		if !product.IsActive || !variant.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("product %s is not available", product.Slug))
		}

		item := models.OrderItem{
			Slug:        uuid.NewString(),
			ProductSlug: product.Slug,
			ProductName: product.Name,
			VariantSlug: variant.Slug,
			VariantSize: variant.Size,
			UnitPrice:   variant.Price,
			Quantity:    line.Quantity,
			Note:        line.Note,
		}
		if promo := activePromotion(product, s.now()); promo != nil {
			item.PromotionSlug = &promo.Slug
			value := promo.Value
			item.PromotionValue = &value
		}
		items = append(items, item)
	}
	return items, nil
}

// activePromotion returns the product's promotion when its window covers now.
func activePromotion(product *models.Product, now time.Time) *models.Promotion {
	promo := product.Promotion
	if promo == nil || promo.Value <= 0 {
		return nil
	}
	if !promo.StartDate.IsZero() && now.Before(promo.StartDate) {
		return nil
	}
	if !promo.EndDate.IsZero() && now.After(promo.EndDate) {
		return nil
	}
	return promo
}

func voucherRejected(reason pricing.Reason) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, "voucher cannot be applied to this order").
		WithDetails(map[string]any{"reason": string(reason)})
}
