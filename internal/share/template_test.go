package share

import (
	"strings"
	"testing"

	"github.com/angelolockdev/trading-signals-generator/pkg/db"
)

func TestFormatBuyWithZone(t *testing.T) {
	msg := Format(db.Signal{
		Symbol:      "XAUUSD",
		Action:      db.ActionBuy,
		EntryFrom:   2045,
		EntryTo:     2055,
		StopLoss:    2030,
		TakeProfit1: 2070,
		TakeProfit2: 2090,
		TakeProfit3: 2110,
		Notes:       "watch NFP",
	})

	for _, want := range []string{
		"🟢 BUY SIGNAL 📈",
		"Pair: XAUUSD",
		"Buy Entry Zone: $2045.00 - $2055.00",
		"Stop Loss: $2030.00",
		"TP1: $2070.00",
		"TP3: $2110.00",
		"Notes: watch NFP",
		"#XAUUSD #Gold #Trading #Signals",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestFormatSellSinglePrice(t *testing.T) {
	msg := Format(db.Signal{
		Symbol:      "XAUUSD",
		Action:      db.ActionSell,
		EntryFrom:   2450,
		EntryTo:     2450,
		StopLoss:    2500,
		TakeProfit1: 2350,
	})

	if !strings.Contains(msg, "🔴 SELL SIGNAL 📉") {
		t.Errorf("missing sell header:\n%s", msg)
	}
	// Equal bounds collapse to a single price, not a range.
	if !strings.Contains(msg, "Sell Entry Zone: $2450.00\n") {
		t.Errorf("single entry price not collapsed:\n%s", msg)
	}
	if strings.Contains(msg, "$2450.00 - $2450.00") {
		t.Errorf("degenerate range rendered:\n%s", msg)
	}
	// Disabled tiers are omitted.
	if strings.Contains(msg, "TP2") || strings.Contains(msg, "TP3") {
		t.Errorf("disabled tiers rendered:\n%s", msg)
	}
}
