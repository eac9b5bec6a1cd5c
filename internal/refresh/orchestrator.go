// Package refresh drives periodic and on-demand re-evaluation of active
// signals against a shared price snapshot.
package refresh

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/angelolockdev/trading-signals-generator/internal/events"
	"github.com/angelolockdev/trading-signals-generator/internal/price"
	"github.com/angelolockdev/trading-signals-generator/internal/signal"
	"github.com/angelolockdev/trading-signals-generator/pkg/db"
)

// PriceSource supplies the reference price; it never fails.
type PriceSource interface {
	Current() price.Point
}

// SignalStore is the persistence surface the orchestrator needs.
type SignalStore interface {
	ListActive(ctx context.Context) ([]db.Signal, error)
	UpdateEvaluation(ctx context.Context, sig db.Signal, status string, currentPrice, pnl, pnlPercentage float64) error
}

// pnlTolerance suppresses writes caused by floating-point jitter.
const pnlTolerance = 0.01

// Orchestrator fetches one price per cycle and fans evaluation out over all
// active signals, persisting only results that actually changed.
type Orchestrator struct {
	Source   PriceSource
	Store    SignalStore
	Bus      *events.Bus
	Interval time.Duration
}

// RefreshAll runs one evaluation cycle. All signals in the batch see the same
// price snapshot. A failure persisting one signal is logged and does not
// abort the rest; the cycle is done when every persist has finished.
func (o *Orchestrator) RefreshAll(ctx context.Context) error {
	pt := o.Source.Current()
	if o.Bus != nil {
		o.Bus.Publish(events.EventPriceTick, events.PriceTick{
			Symbol:      pt.Symbol,
			Price:       pt.Price,
			TimestampMs: pt.TimestampMs,
		})
	}

	signals, err := o.Store.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list active signals: %w", err)
	}

	var wg sync.WaitGroup
	for _, sig := range signals {
		if sig.IsDraft || sig.Status != db.StatusActive {
			continue
		}

		ev := signal.Evaluate(sig, pt.Price)
		if ev.Status == sig.Status && math.Abs(sig.Pnl-ev.Pnl) <= pnlTolerance {
			continue
		}

		wg.Add(1)
		go func(sig db.Signal, ev signal.Evaluation) {
			defer wg.Done()
			if err := o.Store.UpdateEvaluation(ctx, sig, ev.Status, ev.CurrentPrice, ev.Pnl, ev.PnlPercentage); err != nil {
				log.Printf("[REFRESH] persist signal %s: %v", sig.ID, err)
			}
		}(sig, ev)
	}
	wg.Wait()
	return nil
}

// Run performs an initial refresh and then re-evaluates on a fixed interval
// until the context is cancelled.
func (o *Orchestrator) Run(ctx context.Context) {
	interval := o.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}

	if err := o.RefreshAll(ctx); err != nil {
		log.Printf("[REFRESH] initial cycle: %v", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := o.RefreshAll(ctx); err != nil {
				log.Printf("[REFRESH] cycle: %v", err)
			}
		}
	}
}
