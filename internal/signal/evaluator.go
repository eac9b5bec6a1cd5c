// Package signal holds the pure decision logic of the tracker: classifying a
// signal's lifecycle against a price and deriving summary statistics.
package signal

import (
	"math"

	"github.com/angelolockdev/trading-signals-generator/pkg/db"
)

// notionalUnits is the fixed per-signal multiplier: PnL is quoted per 100
// units of the instrument.
const notionalUnits = 100.0

// Evaluation is the outcome of checking one signal against a price.
type Evaluation struct {
	Status        string
	CurrentPrice  float64
	Pnl           float64
	PnlPercentage float64
}

// EntryPrice returns the reference entry: the mean of the zone bounds when
// both are set, otherwise the single bound that is.
func EntryPrice(s db.Signal) float64 {
	switch {
	case s.EntryFrom > 0 && s.EntryTo > 0:
		return (s.EntryFrom + s.EntryTo) / 2
	case s.EntryFrom > 0:
		return s.EntryFrom
	case s.EntryTo > 0:
		return s.EntryTo
	}
	return 0
}

// Evaluate classifies a signal against the current price.
//
// Terminal signals (and drafts) are returned verbatim from their stored
// snapshot; they are never recomputed. For active signals the stop loss is
// checked first, then take-profit tiers from farthest to nearest. A tier
// value <= 0 disables that tier. Never returns an error: a signal without a
// usable entry price degrades to zero PnL.
func Evaluate(s db.Signal, currentPrice float64) Evaluation {
	if s.IsDraft || s.Status != db.StatusActive {
		return Evaluation{
			Status:        s.Status,
			CurrentPrice:  s.CurrentPrice,
			Pnl:           s.Pnl,
			PnlPercentage: s.PnlPercentage,
		}
	}

	entryPrice := EntryPrice(s)

	status := db.StatusActive
	exitPrice := currentPrice

	if s.Action == db.ActionBuy {
		switch {
		case currentPrice <= s.StopLoss:
			status = db.StatusSLHit
			exitPrice = s.StopLoss
		case s.TakeProfit3 > 0 && currentPrice >= s.TakeProfit3:
			status = db.StatusTP3Hit
			exitPrice = s.TakeProfit3
		case s.TakeProfit2 > 0 && currentPrice >= s.TakeProfit2:
			status = db.StatusTP2Hit
			exitPrice = s.TakeProfit2
		case s.TakeProfit1 > 0 && currentPrice >= s.TakeProfit1:
			status = db.StatusTP1Hit
			exitPrice = s.TakeProfit1
		}
	} else {
		switch {
		case currentPrice >= s.StopLoss:
			status = db.StatusSLHit
			exitPrice = s.StopLoss
		case s.TakeProfit3 > 0 && currentPrice <= s.TakeProfit3:
			status = db.StatusTP3Hit
			exitPrice = s.TakeProfit3
		case s.TakeProfit2 > 0 && currentPrice <= s.TakeProfit2:
			status = db.StatusTP2Hit
			exitPrice = s.TakeProfit2
		case s.TakeProfit1 > 0 && currentPrice <= s.TakeProfit1:
			status = db.StatusTP1Hit
			exitPrice = s.TakeProfit1
		}
	}

	var pnl, pnlPercentage float64
	if entryPrice > 0 {
		if s.Action == db.ActionBuy {
			pnl = (exitPrice - entryPrice) * notionalUnits
		} else {
			pnl = (entryPrice - exitPrice) * notionalUnits
		}
		pnlPercentage = (pnl / (entryPrice * notionalUnits)) * 100
	}

	return Evaluation{
		Status:        status,
		CurrentPrice:  currentPrice,
		Pnl:           round2(pnl),
		PnlPercentage: round2(pnlPercentage),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
