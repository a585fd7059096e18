package orders

import (
	"time"

	"github.com/homeslands/order-sub002/internal/pricing"
	"github.com/homeslands/order-sub002/internal/vouchers"
	"github.com/homeslands/order-sub002/pkg/db/models"
	"github.com/homeslands/order-sub002/pkg/enums"
)

// itemSnapshots converts persisted lines into the immutable engine inputs.
func itemSnapshots(items []models.OrderItem) []pricing.OrderItem {
	snapshots := make([]pricing.OrderItem, 0, len(items))
	for _, item := range items {
		snapshot := pricing.OrderItem{
			Slug:        item.Slug,
			ProductSlug: item.ProductSlug,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		}
		if item.Note != nil {
			snapshot.Note = *item.Note
		}
		if item.PromotionSlug != nil && item.PromotionValue != nil {
			snapshot.Promotion = &pricing.Promotion{
				Slug:  *item.PromotionSlug,
				Value: *item.PromotionValue,
			}
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots
}

// quoteOrder reprices a persisted order through the shared engine. The
// attached voucher counts as already applied, so it stays priceable even when
// its pool has drained since application.
func quoteOrder(order *models.Order, now time.Time) (*pricing.Quote, error) {
	ctx := pricing.UsabilityContext{Now: now}
	if order.Owner != nil {
		ctx.OwnerRole = order.Owner.Role
		ctx.OwnerVerified = order.Owner.IsVerified
	} else {
		ctx.OwnerRole = enums.RoleCustomer
	}
	if order.Voucher != nil {
		ctx.AppliedVoucherSlug = order.Voucher.Slug
	}
	return pricing.BuildQuote(itemSnapshots(order.Items), vouchers.Snapshot(order.Voucher), ctx)
}

// applyTotals copies a fresh pricing pass onto the denormalized order
// columns.
func applyTotals(order *models.Order, totals pricing.CartTotals) {
	order.SubtotalBeforeDiscount = totals.SubtotalBeforeDiscount
	order.PromotionDiscount = totals.PromotionDiscount
	order.VoucherDiscount = totals.VoucherDiscount
	order.Total = totals.FinalTotal
}
