package giga

import (
	"github.com/dogecoinfoundation/gigaledger/pkg/wire"
)

type Store interface {
	// GetUnspentOutput returns the unspent output for a reference,
	// or a NotFound error if it does not exist or is already spent.
	GetUnspentOutput(txID string, vOut uint32) (UnspentOutput, error)

	// ListUnspentOutputs returns every unspent output in the pool.
	ListUnspentOutputs() (map[wire.UtxoRef]UnspentOutput, error)

	// PoolBalance sums all unspent output amounts.
	PoolBalance() (uint64, error)

	// Begin a transaction for pool mutations (add/spend.)
	Begin() (StoreTransaction, error)

	// Close the store (defer until shutdown.)
	Close()
}

type StoreTransaction interface {
	// AddUnspentOutput inserts a new unspent output into the pool.
	// Returns an AlreadyExists error if the reference is taken.
	AddUnspentOutput(ref wire.UtxoRef, utxo UnspentOutput) error

	// MarkSpent removes an output from the unspent set, recording the
	// transaction that consumed it. Returns NotFound if it does not
	// exist or was already spent.
	MarkSpent(ref wire.UtxoRef, spendTxID string) error

	Commit() error
	Rollback() error
}
