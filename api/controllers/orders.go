package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/homeslands/order-sub002/api/middleware"
	"github.com/homeslands/order-sub002/api/responses"
	"github.com/homeslands/order-sub002/api/validators"
	"github.com/homeslands/order-sub002/internal/orders"
	"github.com/homeslands/order-sub002/pkg/enums"
	pkgerrors "github.com/homeslands/order-sub002/pkg/errors"
	"github.com/homeslands/order-sub002/pkg/logger"
)

type createOrderPayload struct {
	Items       []orders.OrderLineInput `json:"items" validate:"required,min=1,dive"`
	VoucherCode *string                 `json:"voucher_code,omitempty"`
}

type updateOrderItemsPayload struct {
	Items []orders.OrderLineInput `json:"items" validate:"required,min=1,dive"`
}

type applyVoucherPayload struct {
	Code string `json:"code" validate:"required"`
}

// OrderCreate opens an order for the authenticated user. Owner facts come
// from the session, never from the body.
func OrderCreate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		var payload createOrderPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		ownerID, err := actorID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		order, err := svc.CreateOrder(ctx, orders.CreateOrderInput{
			OwnerID:       ownerID,
			OwnerRole:     enums.UserRole(middleware.RoleFromContext(ctx)),
			OwnerVerified: middleware.VerifiedFromContext(ctx),
			Items:         payload.Items,
			VoucherCode:   payload.VoucherCode,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// OrderDetail returns one order with freshly recomputed totals.
func OrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		slug, err := orderSlugParam(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if logg != nil {
			ctx = logg.WithOrderSlug(ctx, slug)
		}

		order, err := svc.GetOrder(ctx, slug)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// OrderItemsUpdate replaces the lines of a pending order.
func OrderItemsUpdate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		slug, err := orderSlugParam(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if logg != nil {
			ctx = logg.WithOrderSlug(ctx, slug)
		}

		var payload updateOrderItemsPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		order, err := svc.UpdateOrderItems(ctx, orders.UpdateOrderItemsInput{
			OrderSlug: slug,
			Items:     payload.Items,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// OrderVoucherApply attaches a voucher to a pending order. A voucher that
// cannot participate fails the call with its reason.
func OrderVoucherApply(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		slug, err := orderSlugParam(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if logg != nil {
			ctx = logg.WithOrderSlug(ctx, slug)
		}

		var payload applyVoucherPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		order, err := svc.ApplyVoucher(ctx, slug, validators.SanitizeString(payload.Code, maxVoucherCodeLen))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// OrderVoucherRemove detaches the voucher from a pending order.
func OrderVoucherRemove(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		slug, err := orderSlugParam(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if logg != nil {
			ctx = logg.WithOrderSlug(ctx, slug)
		}

		order, err := svc.RemoveVoucher(ctx, slug)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// OrderSettle charges the recomputed total and closes the order.
func OrderSettle(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		slug, err := orderSlugParam(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if logg != nil {
			ctx = logg.WithOrderSlug(ctx, slug)
		}

		order, err := svc.Settle(ctx, slug)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

func orderSlugParam(r *http.Request) (string, error) {
	slug := strings.TrimSpace(chi.URLParam(r, "orderSlug"))
	if slug == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "order slug is required")
	}
	return slug, nil
}

func actorID(ctx context.Context) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(ctx)
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authenticated user required")
	}
	return id, nil
}
