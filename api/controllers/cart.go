package controllers

import (
	"net/http"

	"github.com/homeslands/order-sub002/api/middleware"
	"github.com/homeslands/order-sub002/api/responses"
	"github.com/homeslands/order-sub002/api/validators"
	"github.com/homeslands/order-sub002/internal/cart"
	"github.com/homeslands/order-sub002/pkg/enums"
	pkgerrors "github.com/homeslands/order-sub002/pkg/errors"
	"github.com/homeslands/order-sub002/pkg/logger"
)

type cartQuotePayload struct {
	Items       []cart.QuoteLineInput `json:"items" validate:"required,min=1,dive"`
	VoucherCode *string               `json:"voucher_code,omitempty"`
}

// CartQuote prices a cart without persisting anything. The preview runs
// through the same engine as the persisted order paths.
func CartQuote(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload cartQuotePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		quote, err := svc.Quote(ctx, cart.QuoteInput{
			Items:         payload.Items,
			VoucherCode:   payload.VoucherCode,
			OwnerRole:     enums.UserRole(middleware.RoleFromContext(ctx)),
			OwnerVerified: middleware.VerifiedFromContext(ctx),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, quote)
	}
}
