package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/homeslands/order-sub002/api/middleware"
	"github.com/homeslands/order-sub002/api/responses"
	"github.com/homeslands/order-sub002/api/validators"
	"github.com/homeslands/order-sub002/internal/cart"
	"github.com/homeslands/order-sub002/internal/vouchers"
	"github.com/homeslands/order-sub002/pkg/enums"
	pkgerrors "github.com/homeslands/order-sub002/pkg/errors"
	"github.com/homeslands/order-sub002/pkg/logger"
	"github.com/homeslands/order-sub002/pkg/pagination"
)

// maxVoucherCodeLen bounds redemption codes before they reach the service
// layer; codes are operator-entered and short.
const maxVoucherCodeLen = 64

type validateVoucherPayload struct {
	Code  string                `json:"code" validate:"required"`
	Items []cart.QuoteLineInput `json:"items" validate:"required,min=1,dive"`
}

// VoucherList returns one cursor page of the vouchers currently open to
// customers.
func VoucherList(svc vouchers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "voucher service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		list, err := svc.ListPublicActive(ctx, pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// VoucherDetail looks a voucher up by its redemption code.
func VoucherDetail(svc vouchers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "voucher service unavailable"))
			return
		}

		code := strings.TrimSpace(chi.URLParam(r, "code"))
		if code == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "voucher code is required"))
			return
		}

		voucher, err := svc.GetByCode(ctx, code)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, voucher)
	}
}

// VoucherValidate checks whether a voucher can participate in pricing for the
// submitted cart. An unusable voucher is a 200 with the reason, not an error.
func VoucherValidate(svc vouchers.Service, cartSvc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil || cartSvc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "voucher service unavailable"))
			return
		}

		var payload validateVoucherPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		lines, err := cartSvc.Lines(ctx, payload.Items)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.ValidateForCart(ctx, vouchers.ValidateInput{
			Code:          validators.SanitizeString(payload.Code, maxVoucherCodeLen),
			Items:         lines,
			OwnerRole:     enums.UserRole(middleware.RoleFromContext(ctx)),
			OwnerVerified: middleware.VerifiedFromContext(ctx),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
