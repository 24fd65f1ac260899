// Package segment derives display labels from raw entity fields. Every
// function is pure and safe for concurrent use.
package segment

import (
	"fmt"

	"github.com/rogerio-castellano/storefront-analytics/internal/models"
	"github.com/shopspring/decimal"
)

type Tier string

const (
	TierDiamond  Tier = "Diamond"
	TierPlatinum Tier = "Platinum"
	TierGold     Tier = "Gold"
	TierSilver   Tier = "Silver"
	TierBronze   Tier = "Bronze"
)

// Tiers lists the customer tiers from highest to lowest.
var Tiers = []Tier{TierDiamond, TierPlatinum, TierGold, TierSilver, TierBronze}

// tierThresholds are checked in order; a customer must spend strictly more
// than the bound to reach the tier.
var tierThresholds = []struct {
	above decimal.Decimal
	tier  Tier
}{
	{decimal.NewFromInt(2000), TierDiamond},
	{decimal.NewFromInt(1500), TierPlatinum},
	{decimal.NewFromInt(1000), TierGold},
	{decimal.NewFromInt(500), TierSilver},
}

// CustomerTier maps lifetime spend to a loyalty tier.
func CustomerTier(totalSpent decimal.Decimal) Tier {
	for _, t := range tierThresholds {
		if totalSpent.GreaterThan(t.above) {
			return t.tier
		}
	}
	return TierBronze
}

func (t Tier) Valid() bool {
	for _, known := range Tiers {
		if t == known {
			return true
		}
	}
	return false
}

type Segment string

const (
	SegmentVIP     Segment = "VIP"
	SegmentPremium Segment = "Premium"
	SegmentNew     Segment = "New"
	SegmentRegular Segment = "Regular"
)

var (
	vipSpend     = decimal.NewFromInt(1000)
	premiumSpend = decimal.NewFromInt(500)
)

// CustomerSegment classifies a customer for marketing views. Spend rules win
// over the single-order rule.
func CustomerSegment(totalSpent decimal.Decimal, ordersCount int) Segment {
	switch {
	case totalSpent.GreaterThanOrEqual(vipSpend):
		return SegmentVIP
	case totalSpent.GreaterThanOrEqual(premiumSpend):
		return SegmentPremium
	case ordersCount == 1:
		return SegmentNew
	default:
		return SegmentRegular
	}
}

type StockStatus string

const (
	OutOfStock StockStatus = "OutOfStock"
	LowStock   StockStatus = "LowStock"
	InStock    StockStatus = "InStock"
)

// ClassifyStock reports the stock status of a product given its quantity on
// hand and its low stock threshold.
func ClassifyStock(quantity, lowStockThreshold int) StockStatus {
	switch {
	case quantity <= 0:
		return OutOfStock
	case quantity <= lowStockThreshold:
		return LowStock
	default:
		return InStock
	}
}

// ProductStock is a convenience wrapper over ClassifyStock.
func ProductStock(p models.Product) StockStatus {
	return ClassifyStock(p.Quantity, p.LowStockThreshold)
}

// ErrUnknownStatus is returned by OrderProgress for statuses outside the
// lifecycle.
var ErrUnknownStatus = models.ErrUnknownStatus

// OrderLifecycle is the forward path of an order. Cancelled is not part of it.
var OrderLifecycle = []models.OrderStatus{
	models.StatusPending,
	models.StatusConfirmed,
	models.StatusProcessing,
	models.StatusShipped,
	models.StatusDelivered,
}

// OrderProgress returns how far along lifecycle the status is, in (0, 1].
func OrderProgress(status models.OrderStatus, lifecycle []models.OrderStatus) (float64, error) {
	for i, s := range lifecycle {
		if s == status {
			return float64(i+1) / float64(len(lifecycle)), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStatus, status)
}
