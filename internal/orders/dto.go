package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/homeslands/order-sub002/internal/pricing"
	"github.com/homeslands/order-sub002/internal/vouchers"
	"github.com/homeslands/order-sub002/pkg/db/models"
	"github.com/homeslands/order-sub002/pkg/enums"
)

// OrderLineInput is one requested line of a new or updated order.
type OrderLineInput struct {
	VariantSlug string  `json:"variant_slug" validate:"required"`
	Quantity    int     `json:"quantity" validate:"required,gte=1"`
	Note        *string `json:"note,omitempty"`
}

// CreateOrderInput captures everything needed to open an order. Owner facts
// come from the authenticated session, never from the request body.
type CreateOrderInput struct {
	OwnerID       uuid.UUID
	OwnerRole     enums.UserRole
	OwnerVerified bool
	Items         []OrderLineInput
	VoucherCode   *string
}

// UpdateOrderItemsInput replaces the lines of a pending order.
type UpdateOrderItemsInput struct {
	OrderSlug string
	Items     []OrderLineInput
}

// OrderItemDTO is the per-line price breakdown returned to every view.
type OrderItemDTO struct {
	Slug                string  `json:"slug"`
	ProductSlug         string  `json:"product_slug"`
	ProductName         string  `json:"product_name"`
	VariantSlug         string  `json:"variant_slug"`
	VariantSize         string  `json:"variant_size"`
	Quantity            int     `json:"quantity"`
	Note                *string `json:"note,omitempty"`
	Original            int     `json:"original"`
	PromotionDiscount   int     `json:"promotion_discount"`
	PriceAfterPromotion int     `json:"price_after_promotion"`
	VoucherDiscount     int     `json:"voucher_discount"`
	FinalPrice          int     `json:"final_price"`
	LineTotal           int     `json:"line_total"`
}

// PaymentDTO mirrors the settlement row.
type PaymentDTO struct {
	Slug   string              `json:"slug"`
	Amount int                 `json:"amount"`
	Status enums.PaymentStatus `json:"status"`
	PaidAt *time.Time          `json:"paid_at,omitempty"`
}

// OrderDTO is the recomputed read model for one order. Totals always come
// from a fresh pricing pass, never from the persisted columns.
type OrderDTO struct {
	Slug          string               `json:"slug"`
	Status        enums.OrderStatus    `json:"status"`
	Items         []OrderItemDTO       `json:"items"`
	Totals        pricing.CartTotals   `json:"totals"`
	Voucher       *vouchers.VoucherDTO `json:"voucher,omitempty"`
	VoucherUsable *pricing.Usability   `json:"voucher_usable,omitempty"`
	Payment       *PaymentDTO          `json:"payment,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
}

// toDTO merges the persisted order with the display lines of a fresh quote.
func toDTO(order *models.Order, quote *pricing.Quote) *OrderDTO {
	ix := quote.Items.Index()

	items := make([]OrderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		dto := OrderItemDTO{
			Slug:        item.Slug,
			ProductSlug: item.ProductSlug,
			ProductName: item.ProductName,
			VariantSlug: item.VariantSlug,
			VariantSize: item.VariantSize,
			Quantity:    item.Quantity,
			Note:        item.Note,
		}
		if display, ok := ix.ByItemSlug(item.Slug); ok {
			dto.Original = display.Original
			dto.PromotionDiscount = display.PromotionDiscount
			dto.PriceAfterPromotion = display.PriceAfterPromotion
			dto.VoucherDiscount = display.VoucherDiscount
			dto.FinalPrice = display.FinalPrice
			dto.LineTotal = display.LineTotal
		}
		items = append(items, dto)
	}

	out := &OrderDTO{
		Slug:      order.Slug,
		Status:    order.Status,
		Items:     items,
		Totals:    quote.Totals,
		CreatedAt: order.CreatedAt,
	}

	if order.Voucher != nil {
		dto := vouchers.ToDTO(order.Voucher)
		out.Voucher = &dto
		usable := quote.Usability
		out.VoucherUsable = &usable
	}

	if order.Payment != nil {
		out.Payment = &PaymentDTO{
			Slug:   order.Payment.Slug,
			Amount: order.Payment.Amount,
			Status: order.Payment.Status,
			PaidAt: order.Payment.PaidAt,
		}
	}

	return out
}
