package contracts

// Signal is the per-instrument trading decision for the open session
type Signal string

const (
	SignalBuy  Signal = "BUY"
	SignalSell Signal = "SELL"
	SignalHold Signal = "HOLD"
)

// Actionable reports whether the signal requires an order
func (s Signal) Actionable() bool {
	return s == SignalBuy || s == SignalSell
}
