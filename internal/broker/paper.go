package broker

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/muchen/fenglin/internal/contracts"
	"github.com/muchen/fenglin/pkg/logger"
)

// boardLot is the A-share buy lot size. Sells may leave odd lots.
const boardLot = 100

// QuoteSource supplies a fill price when none has been set directly.
// The paper broker caches the quote for the rest of the day.
type QuoteSource interface {
	LastClose(ctx context.Context, code string) (float64, error)
}

type paperPosition struct {
	qty      int64
	closable int64 // T+1: 当日买入次日才可卖
	avgCost  float64
}

// PaperBroker simulates fills against externally supplied prices.
// Buys settle into closeable quantity when the day advances.
type PaperBroker struct {
	mu     sync.Mutex
	day    time.Time
	cash   float64
	prices map[string]float64
	pos    map[string]*paperPosition
	trades []contracts.Trade
	costs  CostConfig
	quotes QuoteSource
	seq    int
	logger *logger.Logger
}

// NewPaperBroker creates a paper broker with the given starting cash.
// A zero CostConfig simulates frictionless fills.
func NewPaperBroker(cash float64, costs CostConfig, log *logger.Logger) *PaperBroker {
	return &PaperBroker{
		cash:   cash,
		prices: make(map[string]float64),
		pos:    make(map[string]*paperPosition),
		costs:  costs,
		logger: log,
	}
}

// SetQuoteSource wires a market-data fallback for fill prices
func (b *PaperBroker) SetQuoteSource(q QuoteSource) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.quotes = q
}

// SetPrice sets the fill price for an instrument
func (b *PaperBroker) SetPrice(code string, price float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.prices[code] = price
}

// SetDay advances the simulation clock. Crossing into a new day
// settles the previous day's buys into closeable quantity.
func (b *PaperBroker) SetDay(day time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !sameDay(b.day, day) {
		for _, p := range b.pos {
			p.closable = p.qty
		}
	}
	b.day = day
}

// SetPosition seeds a holding directly, bypassing fills. Test and
// bootstrap use only.
func (b *PaperBroker) SetPosition(code string, qty, closable int64, avgCost float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pos[code] = &paperPosition{qty: qty, closable: closable, avgCost: avgCost}
}

// AvailableCash returns the uncommitted cash balance
func (b *PaperBroker) AvailableCash(ctx context.Context) (float64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cash, nil
}

// Positions returns a snapshot of current holdings
func (b *PaperBroker) Positions(ctx context.Context) (map[string]contracts.Position, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make(map[string]contracts.Position, len(b.pos))
	for code, p := range b.pos {
		if p.qty == 0 {
			continue
		}
		price := b.prices[code]
		out[code] = contracts.Position{
			Code:         code,
			ClosableQty:  float64(p.closable),
			MarketValue:  float64(p.qty) * price,
			AvgCost:      p.avgCost,
			CurrentPrice: price,
		}
	}
	return out, nil
}

// OrderTargetValue moves the position in code toward targetValue
func (b *PaperBroker) OrderTargetValue(ctx context.Context, code string, targetValue float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	price, err := b.priceFor(ctx, code)
	if err != nil {
		return err
	}

	p := b.position(code)
	current := float64(p.qty) * price
	delta := targetValue - current

	switch {
	case targetValue <= 0 && p.qty > 0:
		// 清仓: sell everything closeable, odd lots included
		return b.sell(code, p, p.closable, price)
	case delta > 0:
		qty := int64(math.Floor(delta/price/boardLot)) * boardLot
		return b.buy(code, p, qty, price)
	case delta < 0:
		qty := int64(math.Floor(-delta / price / boardLot)) * boardLot
		if qty > p.closable {
			qty = p.closable
		}
		return b.sell(code, p, qty, price)
	default:
		return nil
	}
}

// OrderValue trades a signed value delta in code
func (b *PaperBroker) OrderValue(ctx context.Context, code string, value float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	price, err := b.priceFor(ctx, code)
	if err != nil {
		return err
	}

	p := b.position(code)
	if value >= 0 {
		qty := int64(math.Floor(value/price/boardLot)) * boardLot
		return b.buy(code, p, qty, price)
	}
	qty := int64(math.Floor(-value/price/boardLot)) * boardLot
	if qty > p.closable {
		qty = p.closable
	}
	return b.sell(code, p, qty, price)
}

// ExecutedTrades returns the fills of one trading day keyed by ID
func (b *PaperBroker) ExecutedTrades(ctx context.Context, day time.Time) (map[string]contracts.Trade, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make(map[string]contracts.Trade)
	for _, t := range b.trades {
		if sameDay(t.FilledAt, day) {
			out[t.ID] = t
		}
	}
	return out, nil
}

// priceFor resolves a fill price, consulting the quote source once
// per unknown instrument. Called with the lock held; a slow quote
// fetch blocks other broker calls, which mirrors the synchronous
// collaborator model.
func (b *PaperBroker) priceFor(ctx context.Context, code string) (float64, error) {
	if price, ok := b.prices[code]; ok && price > 0 {
		return price, nil
	}
	if b.quotes != nil {
		price, err := b.quotes.LastClose(ctx, code)
		if err == nil && price > 0 {
			b.prices[code] = price
			return price, nil
		}
	}
	return 0, fmt.Errorf("%w: %s has no tradeable price", contracts.ErrOrderRejected, code)
}

func (b *PaperBroker) position(code string) *paperPosition {
	p, ok := b.pos[code]
	if !ok {
		p = &paperPosition{}
		b.pos[code] = p
	}
	return p
}

func (b *PaperBroker) buy(code string, p *paperPosition, qty int64, price float64) error {
	if qty <= 0 {
		return nil
	}
	value := float64(qty) * price
	total := value + b.costs.buyCost(value)
	if total > b.cash {
		return fmt.Errorf("%w: buy %s needs %.2f, cash %.2f", contracts.ErrOrderRejected, code, total, b.cash)
	}

	p.avgCost = (p.avgCost*float64(p.qty) + total) / float64(p.qty+qty)
	p.qty += qty
	b.cash -= total
	b.record(code, contracts.TradeSideBuy, qty, price, total)
	return nil
}

func (b *PaperBroker) sell(code string, p *paperPosition, qty int64, price float64) error {
	if qty <= 0 {
		return nil
	}
	value := float64(qty) * price
	proceeds := value - b.costs.sellCost(value)

	p.qty -= qty
	p.closable -= qty
	b.cash += proceeds
	b.record(code, contracts.TradeSideSell, qty, price, proceeds)
	return nil
}

func (b *PaperBroker) record(code string, side contracts.TradeSide, qty int64, price, amount float64) {
	b.seq++
	t := contracts.Trade{
		ID:       fmt.Sprintf("P%06d", b.seq),
		Code:     code,
		Side:     side,
		Qty:      float64(qty),
		Price:    price,
		Amount:   amount,
		FilledAt: b.day,
	}
	b.trades = append(b.trades, t)

	if b.logger != nil {
		b.logger.WithFields(map[string]interface{}{
			"trade_id": t.ID,
			"code":     code,
			"side":     string(side),
			"qty":      qty,
			"price":    price,
			"amount":   amount,
		}).Debug("Paper fill")
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
