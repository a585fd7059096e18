package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/homeslands/order-sub002/internal/cart"
	"github.com/homeslands/order-sub002/internal/pricing"
	"github.com/homeslands/order-sub002/internal/vouchers"
	"github.com/homeslands/order-sub002/pkg/enums"
	"github.com/homeslands/order-sub002/pkg/pagination"
)

type stubVoucherService struct {
	validateFn func(ctx context.Context, input vouchers.ValidateInput) (*vouchers.ValidationResult, error)
	getFn      func(ctx context.Context, code string) (*vouchers.VoucherDTO, error)
	listFn     func(ctx context.Context, params pagination.Params) (*vouchers.VoucherList, error)
}

func (s stubVoucherService) ValidateForCart(ctx context.Context, input vouchers.ValidateInput) (*vouchers.ValidationResult, error) {
	if s.validateFn != nil {
		return s.validateFn(ctx, input)
	}
	return &vouchers.ValidationResult{}, nil
}

func (s stubVoucherService) GetByCode(ctx context.Context, code string) (*vouchers.VoucherDTO, error) {
	if s.getFn != nil {
		return s.getFn(ctx, code)
	}
	return &vouchers.VoucherDTO{}, nil
}

func (s stubVoucherService) ListPublicActive(ctx context.Context, params pagination.Params) (*vouchers.VoucherList, error) {
	if s.listFn != nil {
		return s.listFn(ctx, params)
	}
	return &vouchers.VoucherList{}, nil
}

type stubCartService struct {
	quoteFn func(ctx context.Context, input cart.QuoteInput) (*cart.QuoteDTO, error)
	linesFn func(ctx context.Context, items []cart.QuoteLineInput) ([]pricing.OrderItem, error)
}

func (s stubCartService) Quote(ctx context.Context, input cart.QuoteInput) (*cart.QuoteDTO, error) {
	if s.quoteFn != nil {
		return s.quoteFn(ctx, input)
	}
	return &cart.QuoteDTO{}, nil
}

func (s stubCartService) Lines(ctx context.Context, items []cart.QuoteLineInput) ([]pricing.OrderItem, error) {
	if s.linesFn != nil {
		return s.linesFn(ctx, items)
	}
	return nil, nil
}

func TestVoucherList(t *testing.T) {
	t.Parallel()

	svc := stubVoucherService{
		listFn: func(ctx context.Context, params pagination.Params) (*vouchers.VoucherList, error) {
			if params.Limit != pagination.DefaultLimit {
				t.Fatalf("unexpected limit %d", params.Limit)
			}
			return &vouchers.VoucherList{Vouchers: []vouchers.VoucherDTO{{Code: "TENOFF"}, {Code: "FLAT5K"}}}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/vouchers", nil)
	resp := httptest.NewRecorder()
	VoucherList(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data struct {
			Vouchers []vouchers.VoucherDTO `json:"vouchers"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Vouchers) != 2 {
		t.Fatalf("expected 2 vouchers got %d", len(envelope.Data.Vouchers))
	}
}

func TestVoucherDetail(t *testing.T) {
	t.Parallel()

	svc := stubVoucherService{
		getFn: func(ctx context.Context, code string) (*vouchers.VoucherDTO, error) {
			if code != "TENOFF" {
				t.Fatalf("unexpected code %s", code)
			}
			return &vouchers.VoucherDTO{Code: "TENOFF"}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/vouchers/TENOFF", nil)
	rc := chi.NewRouteContext()
	rc.URLParams.Add("code", "TENOFF")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
	resp := httptest.NewRecorder()
	VoucherDetail(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestVoucherValidateUnusableIsOK(t *testing.T) {
	t.Parallel()

	cartSvc := stubCartService{
		linesFn: func(ctx context.Context, items []cart.QuoteLineInput) ([]pricing.OrderItem, error) {
			if len(items) != 1 || items[0].VariantSlug != "espresso-small" {
				t.Fatalf("unexpected items %+v", items)
			}
			return []pricing.OrderItem{{Slug: "line-1", ProductSlug: "espresso", UnitPrice: 35000, Quantity: 1}}, nil
		},
	}
	svc := stubVoucherService{
		validateFn: func(ctx context.Context, input vouchers.ValidateInput) (*vouchers.ValidationResult, error) {
			if input.Code != "TENOFF" {
				t.Fatalf("unexpected code %s", input.Code)
			}
			if input.OwnerRole != enums.RoleCustomer {
				t.Fatalf("owner role not carried: %s", input.OwnerRole)
			}
			return &vouchers.ValidationResult{
				Voucher: vouchers.VoucherDTO{Code: "TENOFF"},
				Usable:  pricing.Usability{OK: false, Reason: pricing.ReasonExpired},
			}, nil
		},
	}

	body := bytes.NewBufferString(`{"code":"TENOFF","items":[{"variant_slug":"espresso-small","quantity":1}]}`)
	req := withActor(httptest.NewRequest(http.MethodPost, "/api/v1/vouchers/validate", body), uuid.New())
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	VoucherValidate(svc, cartSvc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data vouchers.ValidationResult `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Usable.OK || envelope.Data.Usable.Reason != pricing.ReasonExpired {
		t.Fatalf("unexpected usability %+v", envelope.Data.Usable)
	}
}

func TestVoucherValidateRejectsMissingCode(t *testing.T) {
	t.Parallel()

	body := bytes.NewBufferString(`{"items":[{"variant_slug":"espresso-small","quantity":1}]}`)
	req := withActor(httptest.NewRequest(http.MethodPost, "/api/v1/vouchers/validate", body), uuid.New())
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	VoucherValidate(stubVoucherService{}, stubCartService{}, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
