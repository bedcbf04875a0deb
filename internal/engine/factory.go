package engine

import (
	"trading-assistant/internal/interfaces"
	"trading-assistant/internal/store"
)

func New(cfg *store.Config, d Deps) (interfaces.Engine, error) {
	return newEngine(cfg, d)
}
