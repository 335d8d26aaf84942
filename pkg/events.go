package giga

// Gigaledger event types

// bus.Send(TXN_VALID, result)
// bus.Send(POOL_UTXO_ADDED, utxo)

// Interface for any event
type EventType interface {
	Type() string
}

// slice of all msg types for config funcs lookup
var EVENT_TYPES []EventType = []EventType{EVENT_ALL("ALL"),
	EVENT_SYS("SYS"),
	EVENT_TXN("TXN"),
	EVENT_POOL("POOL")}

// Special category, do not use directly, represents *
type EVENT_ALL string

func (e EVENT_ALL) Type() string {
	return "ALL"
}

// System Events
type EVENT_SYS string

func (e EVENT_SYS) Type() string {
	return "SYS"
}

const (
	SYS_STARTUP EVENT_SYS = "STARTUP"
	SYS_ERR     EVENT_SYS = "ERR"
	SYS_MSG     EVENT_SYS = "MSG"
)

// Transaction Events
type EVENT_TXN string

func (e EVENT_TXN) Type() string {
	return "TXN"
}

const (
	TXN_VALID      EVENT_TXN = "VALID"
	TXN_INVALID    EVENT_TXN = "INVALID"
	TXN_APPLIED    EVENT_TXN = "APPLIED"
	TXN_DECODE_ERR EVENT_TXN = "DECODE_ERR"
)

// UTXO Pool Events
type EVENT_POOL string

func (e EVENT_POOL) Type() string {
	return "POOL"
}

const (
	POOL_UTXO_ADDED EVENT_POOL = "UTXO_ADDED"
	POOL_UTXO_SPENT EVENT_POOL = "UTXO_SPENT"
)
