package giga

import (
	"encoding/hex"
	"errors"
	"math/big"

	"github.com/dogecoinfoundation/gigaledger/pkg/wire"
	"github.com/shopspring/decimal"
)

type API struct {
	Store  Store
	Verify Verifier
	bus    MessageBus
	config Config
}

func NewAPI(store Store, verify Verifier, bus MessageBus, config Config) API {
	return API{Store: store, Verify: verify, bus: bus, config: config}
}

// ValidateTxn checks a transaction against the current pool.
// The pool is snapshotted up front so the validator sees a consistent
// view even if the store changes underneath (the snapshot only needs
// the outputs this transaction references.)
func (a API) ValidateTxn(tx wire.Txn) (ValidationResult, error) {
	snapshot, err := a.snapshotFor(tx)
	if err != nil {
		return ValidationResult{}, err
	}
	result := ValidateTxn(tx, snapshot, a.Verify)
	if result.Valid {
		a.bus.Send(TXN_VALID, result, tx.ID)
	} else {
		a.bus.Send(TXN_INVALID, result, tx.ID)
	}
	return result, nil
}

type SubmitTxnResult struct {
	TxID    string           `json:"txid"`
	Result  ValidationResult `json:"result"`
	Applied bool             `json:"applied"`
}

// SubmitTxn validates a transaction and, if it is valid, applies it
// to the pool in one store transaction: every referenced output is
// marked spent and every new output is inserted as unspent.
// An invalid transaction is not an error: the rule violations come
// back in the result and nothing is applied.
func (a API) SubmitTxn(tx wire.Txn) (SubmitTxnResult, error) {
	result, err := a.ValidateTxn(tx)
	if err != nil {
		return SubmitTxnResult{}, err
	}
	if !result.Valid {
		return SubmitTxnResult{TxID: tx.ID, Result: result}, nil
	}
	dbtx, err := a.Store.Begin()
	if err != nil {
		return SubmitTxnResult{}, err
	}
	defer dbtx.Rollback()
	// inputs can repeat a reference under different claimed owners
	// (see SpendSet); the pool spends each reference once.
	seen := map[wire.UtxoRef]bool{}
	for _, in := range tx.Inputs {
		ref := in.Ref()
		if seen[ref] {
			continue
		}
		seen[ref] = true
		if err := dbtx.MarkSpent(ref, tx.ID); err != nil {
			return SubmitTxnResult{}, err
		}
	}
	for i, out := range tx.Outputs {
		ref := wire.UtxoRef{TxID: tx.ID, VOut: uint32(i)}
		utxo := UnspentOutput{Owner: out.Recipient, Amount: out.Amount}
		if err := dbtx.AddUnspentOutput(ref, utxo); err != nil {
			return SubmitTxnResult{}, err
		}
	}
	if err := dbtx.Commit(); err != nil {
		return SubmitTxnResult{}, err
	}
	for ref := range seen {
		a.bus.Send(POOL_UTXO_SPENT, ref, tx.ID)
	}
	a.bus.Send(TXN_APPLIED, SubmitTxnResult{TxID: tx.ID, Result: result, Applied: true}, tx.ID)
	return SubmitTxnResult{TxID: tx.ID, Result: result, Applied: true}, nil
}

// DecodeTxn decodes a hex-encoded wire transaction.
func (a API) DecodeTxn(hexStr string) (wire.Txn, error) {
	raw, err := hex.DecodeString(hexStr)
	if err != nil {
		return wire.Txn{}, NewErr(BadRequest, "invalid hex: %v", err)
	}
	tx, err := wire.DecodeTxn(raw)
	if err != nil {
		return wire.Txn{}, NewErr(BadRequest, "invalid transaction bytes: %v", err)
	}
	return tx, nil
}

// EncodeTxn encodes a transaction and returns the wire bytes as hex.
func (a API) EncodeTxn(tx wire.Txn) (string, error) {
	raw, err := wire.EncodeTxn(tx)
	if err != nil {
		if errors.Is(err, wire.ErrCapacity) {
			return "", NewErr(CapacityExceeded, "%v", err)
		}
		return "", NewErr(UnknownError, "EncodeTxn: %v", err)
	}
	return hex.EncodeToString(raw), nil
}

// AddUtxo inserts an unspent output into the pool (admin API.)
func (a API) AddUtxo(ref wire.UtxoRef, utxo UnspentOutput) error {
	if ref.TxID == "" {
		return NewErr(BadRequest, "missing txid in utxo reference")
	}
	if utxo.Owner == "" {
		return NewErr(BadRequest, "missing owner for unspent output %s[%d]", ref.TxID, ref.VOut)
	}
	if utxo.Amount == 0 {
		return NewErr(BadRequest, "unspent output %s[%d] amount must be greater than zero", ref.TxID, ref.VOut)
	}
	dbtx, err := a.Store.Begin()
	if err != nil {
		return err
	}
	defer dbtx.Rollback()
	if err := dbtx.AddUnspentOutput(ref, utxo); err != nil {
		return err
	}
	if err := dbtx.Commit(); err != nil {
		return err
	}
	a.bus.Send(POOL_UTXO_ADDED, utxo, ref.TxID)
	return nil
}

// GetUtxo looks up one unspent output.
func (a API) GetUtxo(txID string, vOut uint32) (UnspentOutput, error) {
	return a.Store.GetUnspentOutput(txID, vOut)
}

type PoolBalance struct {
	Units uint64          `json:"units"` // sum of unspent amounts, indivisible units
	Coins decimal.Decimal `json:"coins"` // same value in whole coins, for display
}

// GetPoolBalance sums the pool. The exact figure is the uint64 unit
// total; the decimal rendering is display-only.
func (a API) GetPoolBalance() (PoolBalance, error) {
	units, err := a.Store.PoolBalance()
	if err != nil {
		return PoolBalance{}, err
	}
	// one whole coin is 10^8 indivisible units, same split as the chain.
	coins := decimal.NewFromBigInt(new(big.Int).SetUint64(units), -8)
	return PoolBalance{Units: units, Coins: coins}, nil
}

func (a API) snapshotFor(tx wire.Txn) (UtxoMap, error) {
	snapshot := UtxoMap{}
	for _, in := range tx.Inputs {
		ref := in.Ref()
		if _, done := snapshot[ref]; done {
			continue
		}
		utxo, err := a.Store.GetUnspentOutput(ref.TxID, ref.VOut)
		if err != nil {
			if IsNotFoundError(err) {
				continue // absent from the snapshot: the validator reports it
			}
			return nil, err
		}
		snapshot[ref] = utxo
	}
	return snapshot, nil
}
