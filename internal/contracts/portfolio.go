package contracts

// Position is a holding read from the portfolio accounting service.
// The strategy reads it but does not own it.
type Position struct {
	Code         string  `json:"code"`
	ClosableQty  float64 `json:"closable_qty"` // 可卖数量 (T+1 之后)
	MarketValue  float64 `json:"market_value"`
	AvgCost      float64 `json:"avg_cost"`
	CurrentPrice float64 `json:"current_price"`
}

// HasClosable reports whether any quantity can be sold this session
func (p Position) HasClosable() bool {
	return p.ClosableQty > 0
}
