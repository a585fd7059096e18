package vouchers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/homeslands/order-sub002/internal/pricing"
	"github.com/homeslands/order-sub002/pkg/enums"
	pkgerrors "github.com/homeslands/order-sub002/pkg/errors"
	"github.com/homeslands/order-sub002/pkg/metrics"
	"github.com/homeslands/order-sub002/pkg/pagination"
)

// Service exposes voucher reads and cart-level validation.
type Service interface {
	GetByCode(ctx context.Context, code string) (*VoucherDTO, error)
	ListPublicActive(ctx context.Context, params pagination.Params) (*VoucherList, error)
	ValidateForCart(ctx context.Context, input ValidateInput) (*ValidationResult, error)
}

// VoucherList is one page of browsable vouchers.
type VoucherList struct {
	Vouchers   []VoucherDTO `json:"vouchers"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

type service struct {
	repo    Repository
	metrics *metrics.PricingMetrics
	now     func() time.Time
}

// NewService builds a voucher service backed by the provided repository.
func NewService(repo Repository, pricingMetrics *metrics.PricingMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("voucher repository required")
	}
	return &service{
		repo:    repo,
		metrics: pricingMetrics,
		now:     time.Now,
	}, nil
}

// ValidateInput carries a cart snapshot plus the owner facts the validity
// predicate needs.
type ValidateInput struct {
	Code               string
	Items              []pricing.OrderItem
	OwnerRole          enums.UserRole
	OwnerVerified      bool
	AppliedVoucherSlug string
}

// ValidationResult reports whether the voucher can participate in pricing for
// the given cart, and why not when it cannot.
type ValidationResult struct {
	Voucher    VoucherDTO        `json:"voucher"`
	Usable     pricing.Usability `json:"usable"`
	Applicable bool              `json:"applicable"`
}

// ValidateForCart checks validity and applicability against the cart
// snapshot. An unusable voucher is not an error; the result carries the
// reason for the client to surface.
func (s *service) ValidateForCart(ctx context.Context, input ValidateInput) (*ValidationResult, error) {
	code := strings.TrimSpace(input.Code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "voucher code is required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart must contain at least one item")
	}

	record, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "voucher not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load voucher")
	}

	snapshot := Snapshot(record)
	quote, err := pricing.BuildQuote(input.Items, snapshot, pricing.UsabilityContext{
		Now:                s.now(),
		OwnerRole:          input.OwnerRole,
		OwnerVerified:      input.OwnerVerified,
		AppliedVoucherSlug: input.AppliedVoucherSlug,
	})
	if err != nil {
		return nil, err
	}

	if !quote.Participating {
		s.metrics.IncVoucherRejection(string(quote.Usability.Reason))
	}

	return &ValidationResult{
		Voucher:    ToDTO(record),
		Usable:     quote.Usability,
		Applicable: quote.Applicable,
	}, nil
}

// GetByCode returns one voucher by its public code.
func (s *service) GetByCode(ctx context.Context, code string) (*VoucherDTO, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "voucher code is required")
	}
	record, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "voucher not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load voucher")
	}
	dto := ToDTO(record)
	return &dto, nil
}

// ListPublicActive lists the vouchers any customer may browse, one cursor
// page at a time.
func (s *service) ListPublicActive(ctx context.Context, params pagination.Params) (*VoucherList, error) {
	records, next, err := s.repo.ListPublicActive(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vouchers")
	}

	list := &VoucherList{Vouchers: make([]VoucherDTO, 0, len(records))}
	for i := range records {
		list.Vouchers = append(list.Vouchers, ToDTO(&records[i]))
	}
	if next != nil {
		list.NextCursor = pagination.EncodeCursor(*next)
	}
	return list, nil
}
