package events

// Event enumerates high-level topics inside the signal tracker.
type Event string

const (
	EventPriceTick    Event = "price_tick"
	EventSignalChange Event = "signal_change"
)

// Signal change event kinds, mirrored into the websocket payload.
const (
	ChangeInsert = "INSERT"
	ChangeUpdate = "UPDATE"
	ChangeDelete = "DELETE"
)

// SignalChange is the payload published on EventSignalChange for every
// create/update/delete of a signal record.
type SignalChange struct {
	Type   string `json:"type"`
	UserID string `json:"user_id"`
	Signal any    `json:"signal"`
}

// PriceTick is the payload published on EventPriceTick after each feed read.
type PriceTick struct {
	Symbol      string  `json:"symbol"`
	Price       float64 `json:"price"`
	TimestampMs int64   `json:"timestamp_ms"`
}
