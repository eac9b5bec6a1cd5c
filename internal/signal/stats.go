package signal

import (
	"strconv"

	"github.com/angelolockdev/trading-signals-generator/pkg/db"
)

// Stats summarizes a user's signal collection. Drafts are excluded entirely;
// TotalPnl includes unrealized PnL of still-active signals.
type Stats struct {
	Total    int     `json:"total"`
	Active   int     `json:"active"`
	WinRate  string  `json:"win_rate"`
	TotalPnl float64 `json:"total_pnl"`
}

// Summarize derives count, win rate and total PnL from persisted signals.
// WinRate is the share of terminal signals with positive PnL, formatted to one
// decimal place, or "0" when no signal has closed yet.
func Summarize(signals []db.Signal) Stats {
	var stats Stats
	var closed, winners int

	for _, s := range signals {
		if s.IsDraft {
			continue
		}
		stats.Total++
		stats.TotalPnl += s.Pnl

		if s.Status == db.StatusActive {
			stats.Active++
			continue
		}
		if db.IsTerminal(s.Status) {
			closed++
			if s.Pnl > 0 {
				winners++
			}
		}
	}

	stats.WinRate = "0"
	if closed > 0 {
		rate := float64(winners) / float64(closed) * 100
		stats.WinRate = strconv.FormatFloat(rate, 'f', 1, 64)
	}
	return stats
}
