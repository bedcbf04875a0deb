// Package zerodha places orders and reads daily history through Kite Connect.
package zerodha

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"trading-assistant/internal/interfaces"
	"trading-assistant/internal/logger"
	"trading-assistant/internal/types"
)

const (
	ModeDryRun = "DRY_RUN"
	ModeLive   = "LIVE"
)

type Params struct {
	Mode        string
	APIKey      string
	AccessToken string
	Exchange    string
	// Product is the Kite product code; CNC (delivery) when empty.
	Product string
}

type Zerodha struct {
	p Params

	mu    sync.Mutex
	kc    kiteAPI
	insts *instrumentIndex
}

var (
	_ interfaces.Broker     = (*Zerodha)(nil)
	_ interfaces.MarketData = (*Zerodha)(nil)
)

func NewZerodha(p Params) *Zerodha {
	if p.Exchange == "" {
		p.Exchange = "NSE"
	}
	if p.Product == "" {
		p.Product = kiteconnect.ProductCNC
	}
	return &Zerodha{p: p, insts: newInstrumentIndex(p.Exchange)}
}

// client returns the Kite client, creating it on first use.
func (z *Zerodha) client() (kiteAPI, error) {
	z.mu.Lock()
	defer z.mu.Unlock()

	if z.kc != nil {
		return z.kc, nil
	}
	if z.p.APIKey == "" || z.p.AccessToken == "" {
		return nil, fmt.Errorf("missing Kite API key/access token: %w", types.ErrInvalidInput)
	}
	z.kc = newKiteClient(z.p.APIKey, z.p.AccessToken)
	return z.kc, nil
}

func validateOrder(req types.OrderReq) error {
	if strings.TrimSpace(req.Symbol) == "" {
		return fmt.Errorf("order has no symbol: %w", types.ErrInvalidInput)
	}
	if req.Side != string(types.Buy) && req.Side != string(types.Sell) {
		return fmt.Errorf("order side %q: %w", req.Side, types.ErrInvalidInput)
	}
	if req.Qty < 1 {
		return fmt.Errorf("order quantity %d: %w", req.Qty, types.ErrInvalidInput)
	}
	return nil
}

func (z *Zerodha) PlaceOrder(ctx context.Context, req types.OrderReq) (types.OrderResp, error) {
	if err := validateOrder(req); err != nil {
		return types.OrderResp{}, err
	}

	if z.p.Mode != ModeLive {
		resp := types.OrderResp{
			OrderID: fmt.Sprintf("SIM-%d", time.Now().UnixNano()),
			Status:  "SIMULATED",
			Message: "dry-run",
		}
		logger.Info(ctx, "Simulated order placed", "symbol", req.Symbol, "side", req.Side, "qty", req.Qty, "order_id", resp.OrderID)
		return resp, nil
	}

	kc, err := z.client()
	if err != nil {
		return types.OrderResp{}, err
	}

	side := kiteconnect.TransactionTypeBuy
	if req.Side == string(types.Sell) {
		side = kiteconnect.TransactionTypeSell
	}
	out, err := kc.PlaceOrder(kiteconnect.VarietyRegular, kiteconnect.OrderParams{
		Exchange:        z.p.Exchange,
		Tradingsymbol:   strings.ToUpper(req.Symbol),
		Validity:        kiteconnect.ValidityDay,
		Product:         z.p.Product,
		OrderType:       kiteconnect.OrderTypeMarket,
		TransactionType: side,
		Quantity:        req.Qty,
		Tag:             req.Tag,
	})
	if err != nil {
		return types.OrderResp{}, fmt.Errorf("kite place order: %w", err)
	}

	return types.OrderResp{
		OrderID: out.OrderID,
		Status:  "PLACED",
		Message: "ok",
	}, nil
}

// History returns daily candles from Kite. The exchange's instrument list is
// downloaded once to resolve the symbol's token.
func (z *Zerodha) History(ctx context.Context, symbol string, start, end time.Time) ([]types.PriceBar, error) {
	kc, err := z.client()
	if err != nil {
		return nil, err
	}
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	if z.insts.stale() {
		logger.Info(ctx, "Loading Kite instruments", "exchange", z.p.Exchange)
	}
	token, ok, err := z.insts.resolve(kc, symbol)
	if err != nil {
		return nil, fmt.Errorf("load %s instruments: %v: %w", z.p.Exchange, err, types.ErrDataUnavailable)
	}
	if !ok {
		return nil, fmt.Errorf("%s not listed on %s: %w", symbol, z.p.Exchange, types.ErrDataUnavailable)
	}

	candles, err := kc.GetHistoricalData(token, "day", start, end, false, false)
	if err != nil {
		return nil, fmt.Errorf("kite history for %s: %v: %w", symbol, err, types.ErrDataUnavailable)
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("no bars for %s: %w", symbol, types.ErrDataUnavailable)
	}

	bars := make([]types.PriceBar, len(candles))
	for i, c := range candles {
		bars[i] = types.PriceBar{
			Time:   c.Date.Time.UTC(),
			Open:   c.Open,
			High:   c.High,
			Low:    c.Low,
			Close:  c.Close,
			Volume: float64(c.Volume),
		}
	}
	logger.Debug(ctx, "Kite history fetched", "symbol", symbol, "token", token, "bars", len(bars))
	return bars, nil
}
