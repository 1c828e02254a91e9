package contracts

import "time"

// OrderIntent is a transient (instrument, target value) pair produced
// by a position sizer and handed straight to the broker. Never stored.
type OrderIntent struct {
	Code        string  `json:"code"`
	TargetValue float64 `json:"target_value"` // 目标市值, 0 = 清仓
	Reason      string  `json:"reason"`
}

// TradeSide represents buy or sell
type TradeSide string

const (
	TradeSideBuy  TradeSide = "BUY"
	TradeSideSell TradeSide = "SELL"
)

// Trade is one executed fill reported by the broker after the close
type Trade struct {
	ID       string    `json:"id"`
	Code     string    `json:"code"`
	Side     TradeSide `json:"side"`
	Qty      float64   `json:"qty"`
	Price    float64   `json:"price"`
	Amount   float64   `json:"amount"` // 成交金额 (含费用)
	FilledAt time.Time `json:"filled_at"`
}

// RebalanceReport summarizes one open-session pass
type RebalanceReport struct {
	Date     time.Time         `json:"date"`
	Focus    string            `json:"focus,omitempty"` // single-focus variant only
	Signal   Signal            `json:"signal,omitempty"`
	Orders   []OrderIntent     `json:"orders"`
	Holds    []string          `json:"holds"`
	Rejected map[string]string `json:"rejected,omitempty"` // code -> broker reason
}

// BuyCount returns the number of buy-side intents (target > 0)
func (r *RebalanceReport) BuyCount() int {
	count := 0
	for _, o := range r.Orders {
		if o.TargetValue > 0 {
			count++
		}
	}
	return count
}

// SellCount returns the number of liquidation intents (target == 0)
func (r *RebalanceReport) SellCount() int {
	count := 0
	for _, o := range r.Orders {
		if o.TargetValue == 0 {
			count++
		}
	}
	return count
}
