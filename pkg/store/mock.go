package store

import (
	giga "github.com/dogecoinfoundation/gigaledger/pkg"
	"github.com/dogecoinfoundation/gigaledger/pkg/wire"
)

// interface guard ensures Mock implements giga.Store
var _ giga.Store = &Mock{}

type spentRecord struct {
	utxo      giga.UnspentOutput
	spendTxID string
}

// Mock is an in-memory giga.Store for tests.
type Mock struct {
	unspent map[wire.UtxoRef]giga.UnspentOutput
	spent   map[wire.UtxoRef]spentRecord
}

func NewMock() *Mock {
	return &Mock{
		unspent: make(map[wire.UtxoRef]giga.UnspentOutput, 10),
		spent:   make(map[wire.UtxoRef]spentRecord, 10),
	}
}

func (m *Mock) Close() {}

func (m *Mock) GetUnspentOutput(txID string, vOut uint32) (giga.UnspentOutput, error) {
	utxo, ok := m.unspent[wire.UtxoRef{TxID: txID, VOut: vOut}]
	if !ok {
		return giga.UnspentOutput{}, giga.NewErr(giga.NotFound, "unspent output not found: %s[%d]", txID, vOut)
	}
	return utxo, nil
}

func (m *Mock) ListUnspentOutputs() (map[wire.UtxoRef]giga.UnspentOutput, error) {
	result := make(map[wire.UtxoRef]giga.UnspentOutput, len(m.unspent))
	for ref, utxo := range m.unspent {
		result[ref] = utxo
	}
	return result, nil
}

func (m *Mock) PoolBalance() (uint64, error) {
	var total uint64
	for _, utxo := range m.unspent {
		total += utxo.Amount
	}
	return total, nil
}

func (m *Mock) Begin() (giga.StoreTransaction, error) {
	return &MockTransaction{
		store:  m,
		adds:   map[wire.UtxoRef]giga.UnspentOutput{},
		spends: map[wire.UtxoRef]string{},
	}, nil
}

/****** MockTransaction implements giga.StoreTransaction ******/
var _ giga.StoreTransaction = &MockTransaction{}

// MockTransaction stages changes and applies them on Commit,
// so Rollback behaves like the real store.
type MockTransaction struct {
	store    *Mock
	adds     map[wire.UtxoRef]giga.UnspentOutput
	spends   map[wire.UtxoRef]string
	finished bool
}

func (t *MockTransaction) AddUnspentOutput(ref wire.UtxoRef, utxo giga.UnspentOutput) error {
	_, inStore := t.store.unspent[ref]
	_, wasSpent := t.store.spent[ref]
	_, staged := t.adds[ref]
	if inStore || wasSpent || staged {
		return giga.NewErr(giga.AlreadyExists, "unspent output already exists: %s[%d]", ref.TxID, ref.VOut)
	}
	t.adds[ref] = utxo
	return nil
}

func (t *MockTransaction) MarkSpent(ref wire.UtxoRef, spendTxID string) error {
	_, inStore := t.store.unspent[ref]
	_, staged := t.spends[ref]
	if !inStore || staged {
		return giga.NewErr(giga.NotFound, "unspent output not found: %s[%d]", ref.TxID, ref.VOut)
	}
	t.spends[ref] = spendTxID
	return nil
}

func (t *MockTransaction) Commit() error {
	for ref, spendTxID := range t.spends {
		t.store.spent[ref] = spentRecord{utxo: t.store.unspent[ref], spendTxID: spendTxID}
		delete(t.store.unspent, ref)
	}
	for ref, utxo := range t.adds {
		t.store.unspent[ref] = utxo
	}
	t.finished = true
	return nil
}

func (t *MockTransaction) Rollback() error {
	if !t.finished {
		t.adds = map[wire.UtxoRef]giga.UnspentOutput{}
		t.spends = map[wire.UtxoRef]string{}
	}
	return nil
}
