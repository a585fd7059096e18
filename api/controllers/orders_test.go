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

	"github.com/homeslands/order-sub002/api/middleware"
	"github.com/homeslands/order-sub002/internal/orders"
	"github.com/homeslands/order-sub002/internal/pricing"
	"github.com/homeslands/order-sub002/pkg/enums"
)

type stubOrderService struct {
	createFn func(ctx context.Context, input orders.CreateOrderInput) (*orders.OrderDTO, error)
	getFn    func(ctx context.Context, slug string) (*orders.OrderDTO, error)
	updateFn func(ctx context.Context, input orders.UpdateOrderItemsInput) (*orders.OrderDTO, error)
	applyFn  func(ctx context.Context, orderSlug, code string) (*orders.OrderDTO, error)
	removeFn func(ctx context.Context, orderSlug string) (*orders.OrderDTO, error)
	settleFn func(ctx context.Context, orderSlug string) (*orders.OrderDTO, error)
}

func (s stubOrderService) CreateOrder(ctx context.Context, input orders.CreateOrderInput) (*orders.OrderDTO, error) {
	if s.createFn != nil {
		return s.createFn(ctx, input)
	}
	return &orders.OrderDTO{}, nil
}

func (s stubOrderService) GetOrder(ctx context.Context, slug string) (*orders.OrderDTO, error) {
	if s.getFn != nil {
		return s.getFn(ctx, slug)
	}
	return &orders.OrderDTO{}, nil
}

func (s stubOrderService) UpdateOrderItems(ctx context.Context, input orders.UpdateOrderItemsInput) (*orders.OrderDTO, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, input)
	}
	return &orders.OrderDTO{}, nil
}

func (s stubOrderService) ApplyVoucher(ctx context.Context, orderSlug, code string) (*orders.OrderDTO, error) {
	if s.applyFn != nil {
		return s.applyFn(ctx, orderSlug, code)
	}
	return &orders.OrderDTO{}, nil
}

func (s stubOrderService) RemoveVoucher(ctx context.Context, orderSlug string) (*orders.OrderDTO, error) {
	if s.removeFn != nil {
		return s.removeFn(ctx, orderSlug)
	}
	return &orders.OrderDTO{}, nil
}

func (s stubOrderService) Settle(ctx context.Context, orderSlug string) (*orders.OrderDTO, error) {
	if s.settleFn != nil {
		return s.settleFn(ctx, orderSlug)
	}
	return &orders.OrderDTO{}, nil
}

func withActor(req *http.Request, userID uuid.UUID) *http.Request {
	ctx := middleware.WithActor(req.Context(), userID.String(), string(enums.RoleCustomer), true)
	return req.WithContext(ctx)
}

func withOrderSlug(req *http.Request, slug string) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add("orderSlug", slug)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func TestOrderCreate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	svc := stubOrderService{
		createFn: func(ctx context.Context, input orders.CreateOrderInput) (*orders.OrderDTO, error) {
			if input.OwnerID != userID {
				t.Fatalf("unexpected owner %s", input.OwnerID)
			}
			if input.OwnerRole != enums.RoleCustomer || !input.OwnerVerified {
				t.Fatalf("owner facts not carried: %s %v", input.OwnerRole, input.OwnerVerified)
			}
			if len(input.Items) != 1 || input.Items[0].VariantSlug != "espresso-small" {
				t.Fatalf("unexpected items %+v", input.Items)
			}
			if input.VoucherCode == nil || *input.VoucherCode != "TENOFF" {
				t.Fatalf("voucher code not carried")
			}
			return &orders.OrderDTO{Slug: "ord-1", Totals: pricing.CartTotals{FinalTotal: 31500}}, nil
		},
	}

	body := bytes.NewBufferString(`{"items":[{"variant_slug":"espresso-small","quantity":1}],"voucher_code":"TENOFF"}`)
	req := withActor(httptest.NewRequest(http.MethodPost, "/api/v1/orders", body), userID)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	OrderCreate(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data orders.OrderDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Slug != "ord-1" || envelope.Data.Totals.FinalTotal != 31500 {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestOrderCreateRequiresActor(t *testing.T) {
	t.Parallel()

	body := bytes.NewBufferString(`{"items":[{"variant_slug":"espresso-small","quantity":1}]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", body)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	OrderCreate(stubOrderService{}, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestOrderCreateRejectsEmptyItems(t *testing.T) {
	t.Parallel()

	body := bytes.NewBufferString(`{"items":[]}`)
	req := withActor(httptest.NewRequest(http.MethodPost, "/api/v1/orders", body), uuid.New())
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	OrderCreate(stubOrderService{}, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestOrderDetail(t *testing.T) {
	t.Parallel()

	svc := stubOrderService{
		getFn: func(ctx context.Context, slug string) (*orders.OrderDTO, error) {
			if slug != "ord-7" {
				t.Fatalf("unexpected slug %s", slug)
			}
			return &orders.OrderDTO{Slug: "ord-7"}, nil
		},
	}

	req := withOrderSlug(httptest.NewRequest(http.MethodGet, "/api/v1/orders/ord-7", nil), "ord-7")
	resp := httptest.NewRecorder()
	OrderDetail(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestOrderVoucherApply(t *testing.T) {
	t.Parallel()

	svc := stubOrderService{
		applyFn: func(ctx context.Context, orderSlug, code string) (*orders.OrderDTO, error) {
			if orderSlug != "ord-7" || code != "TENOFF" {
				t.Fatalf("unexpected args %s %s", orderSlug, code)
			}
			return &orders.OrderDTO{Slug: "ord-7"}, nil
		},
	}

	body := bytes.NewBufferString(`{"code":"TENOFF"}`)
	req := withOrderSlug(httptest.NewRequest(http.MethodPost, "/api/v1/orders/ord-7/voucher", body), "ord-7")
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	OrderVoucherApply(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestOrderSettle(t *testing.T) {
	t.Parallel()

	var settled string
	svc := stubOrderService{
		settleFn: func(ctx context.Context, orderSlug string) (*orders.OrderDTO, error) {
			settled = orderSlug
			return &orders.OrderDTO{Slug: orderSlug}, nil
		},
	}

	req := withOrderSlug(httptest.NewRequest(http.MethodPost, "/api/v1/orders/ord-9/settle", nil), "ord-9")
	resp := httptest.NewRecorder()
	OrderSettle(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if settled != "ord-9" {
		t.Fatalf("settle not invoked with slug, got %q", settled)
	}
}

func TestOrderSettleMissingSlug(t *testing.T) {
	t.Parallel()

	req := withOrderSlug(httptest.NewRequest(http.MethodPost, "/api/v1/orders//settle", nil), "")
	resp := httptest.NewRecorder()
	OrderSettle(stubOrderService{}, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
