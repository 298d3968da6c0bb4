package book

import (
	"math"
	"sort"
)

// PriceLevel aggregates all resting orders at one price on one side.
// Levels are derived fresh on every pass and never mutated afterwards.
type PriceLevel struct {
	Price      float64 `json:"price"`
	OrderCount int     `json:"order_count"`
	TotalQty   int64   `json:"total_qty"`
}

// Summary is the two-sided, crossing-free output of a replay: buys sorted
// best bid first, sells best ask first. Both slices are non-nil so an
// empty side serializes as an empty table rather than null.
type Summary struct {
	Buys  []PriceLevel `json:"buys"`
	Sells []PriceLevel `json:"sells"`
}

// Summarize aggregates the terminal book into per-price levels, removes
// overlapping levels, and sorts both sides for presentation.
func (b Book) Summarize() Summary {
	buys := b.aggregate(SideBuy)
	sells := b.aggregate(SideSell)
	buys, sells = resolveCrossing(buys, sells)

	sort.Slice(buys, func(i, j int) bool { return buys[i].Price > buys[j].Price })
	sort.Slice(sells, func(i, j int) bool { return sells[i].Price < sells[j].Price })

	return Summary{Buys: buys, Sells: sells}
}

// aggregate groups one side's resting orders by exact price.
func (b Book) aggregate(side Side) []PriceLevel {
	byPrice := make(map[float64]PriceLevel)
	for _, order := range b {
		if order.Side != side || order.Qty <= 0 {
			continue
		}
		level := byPrice[order.Price]
		level.Price = order.Price
		level.OrderCount++
		level.TotalQty += order.Qty
		byPrice[order.Price] = level
	}

	levels := make([]PriceLevel, 0, len(byPrice))
	for _, level := range byPrice {
		levels = append(levels, level)
	}
	return levels
}

// resolveCrossing drops buy levels at or above the best ask and sell
// levels at or below the best bid. Stale crossings are filtered rather
// than matched because replay never simulates execution. Both bounds come
// from the unfiltered sides and are computed once: a single pass, not a
// fixed point.
func resolveCrossing(buys, sells []PriceLevel) ([]PriceLevel, []PriceLevel) {
	bestAsk := math.Inf(1)
	for _, level := range sells {
		if level.Price < bestAsk {
			bestAsk = level.Price
		}
	}
	bestBid := math.Inf(-1)
	for _, level := range buys {
		if level.Price > bestBid {
			bestBid = level.Price
		}
	}

	keptBuys := make([]PriceLevel, 0, len(buys))
	for _, level := range buys {
		if level.Price < bestAsk {
			keptBuys = append(keptBuys, level)
		}
	}
	keptSells := make([]PriceLevel, 0, len(sells))
	for _, level := range sells {
		if level.Price > bestBid {
			keptSells = append(keptSells, level)
		}
	}
	return keptBuys, keptSells
}
