package wire

// Txn is a ledger transaction in its in-memory form.
// The ID is caller-assigned and opaque; the Timestamp unit is
// caller-defined (epoch millis by convention.)
// Input and Output order is significant for serialization and for
// the canonical signing payload.
type Txn struct {
	ID        string  `json:"id"`
	Inputs    []TxIn  `json:"inputs"`
	Outputs   []TxOut `json:"outputs"`
	Timestamp int64   `json:"timestamp"`
}

// TxIn spends one previously-produced output.
// Owner is the public-key identity claimed to authorize the spend;
// Signature is an opaque signature blob over the canonical unsigned
// payload (see SigningBytes.)
type TxIn struct {
	TxID      string `json:"txid"`
	VOut      uint32 `json:"vout"`
	Owner     string `json:"owner"`
	Signature string `json:"signature"`
}

// Ref returns the UTXO this input spends.
func (in TxIn) Ref() UtxoRef {
	return UtxoRef{TxID: in.TxID, VOut: in.VOut}
}

// TxOut pays an amount of whole indivisible units to a recipient.
type TxOut struct {
	Recipient string `json:"recipient"`
	Amount    uint64 `json:"amount"`
}

// UtxoRef identifies one previously-produced output.
// Kept as a struct (not a concatenated string) so it can be used as
// a map key and compared structurally.
type UtxoRef struct {
	TxID string `json:"txid"`
	VOut uint32 `json:"vout"`
}
