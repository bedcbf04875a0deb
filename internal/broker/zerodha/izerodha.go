package zerodha

import (
	"time"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"
)

// kiteAPI is the part of the Kite Connect client this package uses.
type kiteAPI interface {
	PlaceOrder(variety string, orderParams kiteconnect.OrderParams) (kiteconnect.OrderResponse, error)
	GetInstrumentsByExchange(exchange string) (kiteconnect.Instruments, error)
	GetHistoricalData(instrumentToken int, interval string, fromDate time.Time, toDate time.Time, continuous bool, OI bool) ([]kiteconnect.HistoricalData, error)
}

var _ kiteAPI = (*kiteconnect.Client)(nil)
