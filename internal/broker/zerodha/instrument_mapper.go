package zerodha

import (
	"fmt"
	"sync"
	"time"
)

// Kite publishes a fresh instrument dump every trading morning.
const instrumentTTL = 24 * time.Hour

// instrumentIndex resolves trading symbols on one exchange to Kite
// instrument tokens and back.
type instrumentIndex struct {
	mu       sync.RWMutex
	exchange string
	tokens   map[string]int
	symbols  map[int]string
	loadedAt time.Time
	now      func() time.Time
}

func newInstrumentIndex(exchange string) *instrumentIndex {
	return &instrumentIndex{exchange: exchange, now: time.Now}
}

// resolve returns the token for symbol, downloading the instrument list on
// first use and whenever the cached copy is older than instrumentTTL.
func (ix *instrumentIndex) resolve(kc kiteAPI, symbol string) (int, bool, error) {
	if ix.stale() {
		if err := ix.refresh(kc); err != nil {
			return 0, false, err
		}
	}
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	tok, ok := ix.tokens[symbol]
	return tok, ok, nil
}

func (ix *instrumentIndex) stale() bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.tokens == nil || ix.now().Sub(ix.loadedAt) > instrumentTTL
}

// refresh swaps in a new instrument list. A failed or empty download keeps
// whatever was loaded before.
func (ix *instrumentIndex) refresh(kc kiteAPI) error {
	insts, err := kc.GetInstrumentsByExchange(ix.exchange)
	if err != nil {
		return err
	}
	if len(insts) == 0 {
		return fmt.Errorf("exchange %s returned no instruments", ix.exchange)
	}

	tokens := make(map[string]int, len(insts))
	symbols := make(map[int]string, len(insts))
	for _, in := range insts {
		tokens[in.Tradingsymbol] = in.InstrumentToken
		symbols[in.InstrumentToken] = in.Tradingsymbol
	}

	ix.mu.Lock()
	ix.tokens, ix.symbols, ix.loadedAt = tokens, symbols, ix.now()
	ix.mu.Unlock()
	return nil
}

func (ix *instrumentIndex) symbolFor(token int) string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.symbols[token]
}
