package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/homeslands/order-sub002/internal/pricing"
	"github.com/homeslands/order-sub002/internal/products"
	"github.com/homeslands/order-sub002/internal/vouchers"
	"github.com/homeslands/order-sub002/pkg/db/models"
	"github.com/homeslands/order-sub002/pkg/enums"
	pkgerrors "github.com/homeslands/order-sub002/pkg/errors"
	"github.com/homeslands/order-sub002/pkg/metrics"
)

// Service prices a cart without persisting anything. The same engine backs
// the persisted order paths, so a cart preview and the eventual charge agree.
type Service interface {
	Quote(ctx context.Context, input QuoteInput) (*QuoteDTO, error)
	Lines(ctx context.Context, items []QuoteLineInput) ([]pricing.OrderItem, error)
}

type service struct {
	productRepo products.Repository
	voucherRepo vouchers.Repository
	metrics     *metrics.PricingMetrics
	now         func() time.Time
}

// NewService builds a cart quoting service.
func NewService(productRepo products.Repository, voucherRepo vouchers.Repository, pricingMetrics *metrics.PricingMetrics) (Service, error) {
	if productRepo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if voucherRepo == nil {
		return nil, fmt.Errorf("voucher repository required")
	}
	return &service{
		productRepo: productRepo,
		voucherRepo: voucherRepo,
		metrics:     pricingMetrics,
		now:         time.Now,
	}, nil
}

// QuoteLineInput is one requested cart line.
type QuoteLineInput struct {
	VariantSlug string  `json:"variant_slug" validate:"required"`
	Quantity    int     `json:"quantity" validate:"required,gte=1"`
	Note        *string `json:"note,omitempty"`
}

// QuoteInput carries the cart plus the owner facts from the session.
type QuoteInput struct {
	Items         []QuoteLineInput
	VoucherCode   *string
	OwnerRole     enums.UserRole
	OwnerVerified bool
}

// QuoteDTO is the priced cart preview. When the requested voucher cannot
// participate the cart is priced without it and VoucherUsable carries the
// reason for the client to surface.
type QuoteDTO struct {
	Items         []pricing.DisplayItem `json:"items"`
	Totals        pricing.CartTotals    `json:"totals"`
	Voucher       *vouchers.VoucherDTO  `json:"voucher,omitempty"`
	VoucherUsable *pricing.Usability    `json:"voucher_usable,omitempty"`
}

// Quote resolves the requested lines against the menu and prices them.
func (s *service) Quote(ctx context.Context, input QuoteInput) (*QuoteDTO, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart must contain at least one item")
	}

	lines, err := s.buildLines(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	var voucherRecord *models.Voucher
	if input.VoucherCode != nil && strings.TrimSpace(*input.VoucherCode) != "" {
		voucherRecord, err = s.voucherRepo.FindByCode(ctx, strings.TrimSpace(*input.VoucherCode))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "voucher not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load voucher")
		}
	}

	start := time.Now()
	quote, err := pricing.BuildQuote(lines, vouchers.Snapshot(voucherRecord), pricing.UsabilityContext{
		Now:           s.now(),
		OwnerRole:     input.OwnerRole,
		OwnerVerified: input.OwnerVerified,
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncQuote()
	s.metrics.ObserveQuoteDuration("cart", time.Since(start))
	if voucherRecord != nil && !quote.Participating {
		s.metrics.IncVoucherRejection(string(quote.Usability.Reason))
	}

	dto := &QuoteDTO{
		Items:  quote.Items,
		Totals: quote.Totals,
	}
	if voucherRecord != nil {
		voucherDTO := vouchers.ToDTO(voucherRecord)
		dto.Voucher = &voucherDTO
		usable := quote.Usability
		dto.VoucherUsable = &usable
	}
	return dto, nil
}

// Lines resolves requested variants into engine inputs without pricing them,
// for callers that run their own pass over the cart.
func (s *service) Lines(ctx context.Context, items []QuoteLineInput) ([]pricing.OrderItem, error) {
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart must contain at least one item")
	}
	return s.buildLines(ctx, items)
}

// buildLines resolves each requested variant into an engine input with the
// current menu price and the product's active promotion.
func (s *service) buildLines(ctx context.Context, items []QuoteLineInput) ([]pricing.OrderItem, error) {
	lines := make([]pricing.OrderItem, 0, len(items))
	for i, item := range items {
		if item.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
		variant, product, err := s.productRepo.FindVariantBySlug(ctx, item.VariantSlug)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("variant %s not found", item.VariantSlug))
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variant")
		}
		if !product.IsActive || !variant.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("product %s is not available", product.Slug))
		}

		line := pricing.OrderItem{
			Slug:        fmt.Sprintf("line-%d", i+1),
			ProductSlug: product.Slug,
			ProductName: product.Name,
			UnitPrice:   variant.Price,
			Quantity:    item.Quantity,
		}
		if item.Note != nil {
			line.Note = *item.Note
		}
		if promo := product.Promotion; promo != nil && promo.Value > 0 {
			now := s.now()
			inWindow := (promo.StartDate.IsZero() || !now.Before(promo.StartDate)) &&
				(promo.EndDate.IsZero() || !now.After(promo.EndDate))
			if inWindow {
				line.Promotion = &pricing.Promotion{Slug: promo.Slug, Value: promo.Value}
			}
		}
		lines = append(lines, line)
	}
	return lines, nil
}
