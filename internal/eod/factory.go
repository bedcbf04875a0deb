package eod

import (
	"trading-assistant/internal/interfaces"
	"trading-assistant/internal/tradelog"
)

func NewSummarizer(j *tradelog.Journal) interfaces.EodSummarizer {
	return &eodSummarizer{journal: j, dir: j.Dir()}
}
