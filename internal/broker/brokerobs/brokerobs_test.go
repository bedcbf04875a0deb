package brokerobs

import (
	"context"
	"errors"
	"testing"

	"trading-assistant/internal/types"
)

type stub struct {
	resp types.OrderResp
	err  error
	got  *types.OrderReq
}

func (s stub) PlaceOrder(_ context.Context, req types.OrderReq) (types.OrderResp, error) {
	*s.got = req
	return s.resp, s.err
}

func TestWrapPassesThrough(t *testing.T) {
	var got types.OrderReq
	b := Wrap(stub{resp: types.OrderResp{OrderID: "SIM-9", Status: "SIMULATED"}, got: &got})

	req := types.OrderReq{Symbol: "INFY", Side: "BUY", Qty: 3, Tag: "t"}
	resp, err := b.PlaceOrder(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.OrderID != "SIM-9" || got != req {
		t.Errorf("resp=%+v req=%+v", resp, got)
	}

	boom := errors.New("boom")
	resp, err = Wrap(stub{err: boom, got: &got}).PlaceOrder(context.Background(), req)
	if !errors.Is(err, boom) {
		t.Errorf("expected broker error, got %v", err)
	}
	if resp != (types.OrderResp{}) {
		t.Errorf("expected zero response on error, got %+v", resp)
	}
}
