package newsobs

import (
	"context"
	"errors"
	"testing"

	"trading-assistant/internal/types"
)

type stub struct {
	heads []types.Headline
	err   error
}

func (s stub) Headlines(context.Context, string, int) ([]types.Headline, error) {
	return s.heads, s.err
}

func TestWrapPassesThrough(t *testing.T) {
	p := Wrap("stub", stub{heads: []types.Headline{{Text: "a"}, {Text: "b"}}})
	heads, err := p.Headlines(context.Background(), "AAPL", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(heads) != 2 {
		t.Errorf("expected 2 headlines, got %d", len(heads))
	}

	boom := errors.New("boom")
	_, err = Wrap("stub", stub{err: boom}).Headlines(context.Background(), "AAPL", 30)
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped provider error, got %v", err)
	}
}
