// Package share renders a signal as a Telegram-ready multi-line message.
package share

import (
	"fmt"
	"strings"

	"github.com/angelolockdev/trading-signals-generator/pkg/db"
)

// Format renders the outbound share text for a signal. A genuine entry zone
// is shown as a range; a single entry price collapses to one value.
func Format(s db.Signal) string {
	emoji, trend, entryLabel := "🟢", "📈", "Buy Entry Zone"
	if s.Action == db.ActionSell {
		emoji, trend, entryLabel = "🔴", "📉", "Sell Entry Zone"
	}

	entry := formatEntry(s.EntryFrom, s.EntryTo)

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s SIGNAL %s\n\n", emoji, s.Action, trend)
	fmt.Fprintf(&b, "📊 Pair: %s\n", s.Symbol)
	fmt.Fprintf(&b, "💰 %s: %s\n", entryLabel, entry)
	fmt.Fprintf(&b, "🛑 Stop Loss: $%.2f\n\n", s.StopLoss)

	b.WriteString("🎯 Take Profit Targets:\n")
	fmt.Fprintf(&b, "TP1: $%.2f\n", s.TakeProfit1)
	if s.TakeProfit2 > 0 {
		fmt.Fprintf(&b, "TP2: $%.2f\n", s.TakeProfit2)
	}
	if s.TakeProfit3 > 0 {
		fmt.Fprintf(&b, "TP3: $%.2f\n", s.TakeProfit3)
	}

	if s.Notes != "" {
		fmt.Fprintf(&b, "\n📝 Notes: %s\n", s.Notes)
	}

	b.WriteString("\n⚠️ Always use proper risk management\n")
	b.WriteString("💡 Trade at your own risk\n\n")
	b.WriteString("#XAUUSD #Gold #Trading #Signals")
	return b.String()
}

func formatEntry(from, to float64) string {
	switch {
	case from > 0 && to > 0 && from != to:
		return fmt.Sprintf("$%.2f - $%.2f", from, to)
	case from > 0:
		return fmt.Sprintf("$%.2f", from)
	case to > 0:
		return fmt.Sprintf("$%.2f", to)
	}
	return "$0.00"
}
