package cart

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/homeslands/order-sub002/internal/products"
	"github.com/homeslands/order-sub002/internal/vouchers"
	"github.com/homeslands/order-sub002/pkg/db/models"
	"github.com/homeslands/order-sub002/pkg/enums"
	pkgerrors "github.com/homeslands/order-sub002/pkg/errors"
	"github.com/homeslands/order-sub002/pkg/pagination"
)

func newQuoteService(t *testing.T, voucher *models.Voucher) Service {
	t.Helper()
	svc, err := NewService(stubCatalog{}, &stubVoucherRepo{voucher: voucher}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	svc.(*service).now = func() time.Time {
		return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestQuotePricesPromotedLine(t *testing.T) {
	t.Parallel()

	svc := newQuoteService(t, nil)

	quote, err := svc.Quote(context.Background(), QuoteInput{
		OwnerRole: enums.RoleCustomer,
		Items: []QuoteLineInput{
			{VariantSlug: "latte-large", Quantity: 2},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(quote.Items) != 1 {
		t.Fatalf("expected one line, got %d", len(quote.Items))
	}
	line := quote.Items[0]
	// 45000 with a 20% promotion: unit drops to 36000.
	if line.PromotionDiscount != 9000 || line.PriceAfterPromotion != 36000 {
		t.Fatalf("unexpected promotion pricing %+v", line)
	}
	if quote.Totals.FinalTotal != 72000 {
		t.Fatalf("expected 72000, got %d", quote.Totals.FinalTotal)
	}
}

func TestQuoteWithVoucher(t *testing.T) {
	t.Parallel()

	voucher := &models.Voucher{
		ID:                uuid.New(),
		Slug:              "voucher-1",
		Code:              "TENOFF",
		Title:             "10% off",
		Type:              enums.VoucherTypePercentOrder,
		Value:             10,
		ApplicabilityRule: enums.VoucherRuleAtLeastOneRequired,
		RemainingUsage:    3,
		IsActive:          true,
		Products:          []models.VoucherProduct{{ProductSlug: "latte"}},
	}
	svc := newQuoteService(t, voucher)
	code := "TENOFF"

	quote, err := svc.Quote(context.Background(), QuoteInput{
		OwnerRole:   enums.RoleCustomer,
		VoucherCode: &code,
		Items: []QuoteLineInput{
			{VariantSlug: "latte-large", Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if quote.VoucherUsable == nil || !quote.VoucherUsable.OK {
		t.Fatalf("expected usable voucher, got %+v", quote.VoucherUsable)
	}
	// 36000 after promotion, minus 10%.
	if quote.Totals.VoucherDiscount != 3600 || quote.Totals.FinalTotal != 32400 {
		t.Fatalf("unexpected totals %+v", quote.Totals)
	}
}

func TestQuoteKeepsCartWhenVoucherUnusable(t *testing.T) {
	t.Parallel()

	voucher := &models.Voucher{
		ID:                uuid.New(),
		Slug:              "voucher-1",
		Code:              "TENOFF",
		Title:             "10% off",
		Type:              enums.VoucherTypePercentOrder,
		Value:             10,
		ApplicabilityRule: enums.VoucherRuleAllRequired,
		RemainingUsage:    3,
		IsActive:          false,
		Products:          []models.VoucherProduct{{ProductSlug: "latte"}},
	}
	svc := newQuoteService(t, voucher)
	code := "TENOFF"

	quote, err := svc.Quote(context.Background(), QuoteInput{
		OwnerRole:   enums.RoleCustomer,
		VoucherCode: &code,
		Items: []QuoteLineInput{
			{VariantSlug: "latte-large", Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("cart preview must not fail on an unusable voucher: %v", err)
	}

	if quote.VoucherUsable == nil || quote.VoucherUsable.OK {
		t.Fatalf("expected unusable voucher, got %+v", quote.VoucherUsable)
	}
	if quote.Totals.VoucherDiscount != 0 || quote.Totals.FinalTotal != 36000 {
		t.Fatalf("voucher must not discount when unusable: %+v", quote.Totals)
	}
}

func TestQuoteUnknownVariant(t *testing.T) {
	t.Parallel()

	svc := newQuoteService(t, nil)

	_, err := svc.Quote(context.Background(), QuoteInput{
		OwnerRole: enums.RoleCustomer,
		Items: []QuoteLineInput{
			{VariantSlug: "missing", Quantity: 1},
		},
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestQuoteRejectsEmptyCart(t *testing.T) {
	t.Parallel()

	svc := newQuoteService(t, nil)

	if _, err := svc.Quote(context.Background(), QuoteInput{OwnerRole: enums.RoleCustomer}); err == nil {
		t.Fatal("expected validation error")
	}
}

type stubCatalog struct{}

func (stubCatalog) WithTx(tx *gorm.DB) products.Repository { return stubCatalog{} }

func (stubCatalog) FindVariantBySlug(ctx context.Context, slug string) (*models.ProductVariant, *models.Product, error) {
	if slug != "latte-large" {
		return nil, nil, gorm.ErrRecordNotFound
	}
	variant := &models.ProductVariant{Slug: slug, Size: "L", Price: 45000, IsActive: true}
	product := &models.Product{
		Slug:     "latte",
		Name:     "Latte",
		IsActive: true,
		Promotion: &models.Promotion{
			Slug:    "spring-promo",
			Value:   20,
			EndDate: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	return variant, product, nil
}

func (stubCatalog) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return nil, gorm.ErrRecordNotFound
}

type stubVoucherRepo struct {
	voucher *models.Voucher
}

func (s *stubVoucherRepo) WithTx(tx *gorm.DB) vouchers.Repository { return s }

func (s *stubVoucherRepo) FindBySlug(ctx context.Context, slug string) (*models.Voucher, error) {
	if s.voucher != nil && s.voucher.Slug == slug {
		return s.voucher, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubVoucherRepo) FindByCode(ctx context.Context, code string) (*models.Voucher, error) {
	if s.voucher != nil && s.voucher.Code == code {
		return s.voucher, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubVoucherRepo) ListPublicActive(ctx context.Context, params pagination.Params) ([]models.Voucher, *pagination.Cursor, error) {
	return nil, nil, nil
}

func (s *stubVoucherRepo) DecrementUsage(ctx context.Context, id uuid.UUID) (bool, error) {
	return false, nil
}
