package giga

import (
	"github.com/dogecoinfoundation/gigaledger/pkg/wire"
)

// UnspentOutput is one spendable output held in the UTXO pool.
// Looked up by wire.UtxoRef; the pool itself lives behind Store.
type UnspentOutput struct {
	Owner  string `json:"owner"`  // public-key identity that may spend this output
	Amount uint64 `json:"amount"` // whole indivisible units, never fractional
}

// UtxoSource is the read-only pool lookup consumed by ValidateTxn.
// Implementations must be pure and side-effect free for the duration
// of one validation call (a consistent snapshot.)
type UtxoSource interface {
	GetUnspentOutput(txID string, vOut uint32) (UnspentOutput, bool)
}

// UtxoMap is an in-memory UtxoSource, used as the per-call snapshot
// built from the Store, and directly in tests.
type UtxoMap map[wire.UtxoRef]UnspentOutput

func (m UtxoMap) GetUnspentOutput(txID string, vOut uint32) (UnspentOutput, bool) {
	utxo, ok := m[wire.UtxoRef{TxID: txID, VOut: vOut}]
	return utxo, ok
}

// Verifier checks an input's signature over the canonical unsigned
// payload, against the input's claimed owner identity.
type Verifier interface {
	VerifySignature(payload []byte, signature string, owner string) bool
}
