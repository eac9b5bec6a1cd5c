package signal

import (
	"errors"

	"github.com/angelolockdev/trading-signals-generator/pkg/db"
)

// pipValue is the price increment of one pip for the quoted gold price.
const pipValue = 0.01

// Levels holds derived stop-loss and take-profit prices.
type Levels struct {
	StopLoss    float64 `json:"stop_loss"`
	TakeProfit1 float64 `json:"take_profit_1"`
	TakeProfit2 float64 `json:"take_profit_2"`
	TakeProfit3 float64 `json:"take_profit_3"`
}

// AutoLevels derives SL from a percentage and TP tiers from pip distances
// around the average entry price. Returns zero levels when the entry zone is
// not usable.
func AutoLevels(action string, entryFrom, entryTo, slPercent, tp1Pips, tp2Pips, tp3Pips float64) Levels {
	avg := (entryFrom + entryTo) / 2
	if avg <= 0 {
		return Levels{}
	}

	// A zero pip distance leaves that tier disabled instead of placing a
	// target at the entry itself.
	tp := func(pips, direction float64) float64 {
		if pips <= 0 {
			return 0
		}
		return round2(avg + direction*pips*pipValue)
	}

	sl := slPercent / 100
	var l Levels
	if action == db.ActionBuy {
		l.StopLoss = round2(avg * (1 - sl))
		l.TakeProfit1 = tp(tp1Pips, 1)
		l.TakeProfit2 = tp(tp2Pips, 1)
		l.TakeProfit3 = tp(tp3Pips, 1)
	} else {
		l.StopLoss = round2(avg * (1 + sl))
		l.TakeProfit1 = tp(tp1Pips, -1)
		l.TakeProfit2 = tp(tp2Pips, -1)
		l.TakeProfit3 = tp(tp3Pips, -1)
	}
	return l
}

var (
	ErrInvalidAction = errors.New("action must be BUY or SELL")
	ErrNoEntryZone   = errors.New("published signal needs at least one entry bound")
	ErrNoStopLoss    = errors.New("published signal needs a stop loss")
)

// Validate checks that a signal is well-formed enough to persist. Drafts may
// omit price fields; published signals need an entry reference and a stop.
func Validate(s db.Signal) error {
	if s.Action != db.ActionBuy && s.Action != db.ActionSell {
		return ErrInvalidAction
	}
	if s.IsDraft {
		return nil
	}
	if s.EntryFrom <= 0 && s.EntryTo <= 0 {
		return ErrNoEntryZone
	}
	if s.StopLoss <= 0 {
		return ErrNoStopLoss
	}
	return nil
}
