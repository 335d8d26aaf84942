package store

import (
	"testing"

	giga "github.com/dogecoinfoundation/gigaledger/pkg"
	"github.com/dogecoinfoundation/gigaledger/pkg/wire"
)

// every test runs against each Store implementation: they must agree.
func withEachStore(t *testing.T, test func(t *testing.T, s giga.Store)) {
	t.Helper()
	impls := map[string]func() (giga.Store, error){
		"sqlite": func() (giga.Store, error) {
			return NewSQLiteStore(":memory:")
		},
		"mock": func() (giga.Store, error) {
			return NewMock(), nil
		},
	}
	for name, create := range impls {
		t.Run(name, func(t *testing.T) {
			s, err := create()
			if err != nil {
				t.Fatalf("creating %s store: %v", name, err)
			}
			defer s.Close()
			test(t, s)
		})
	}
}

func addUtxo(t *testing.T, s giga.Store, ref wire.UtxoRef, utxo giga.UnspentOutput) {
	t.Helper()
	tx, err := s.Begin()
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := tx.AddUnspentOutput(ref, utxo); err != nil {
		t.Fatalf("AddUnspentOutput: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
}

func TestAddAndGet(t *testing.T) {
	withEachStore(t, func(t *testing.T, s giga.Store) {
		ref := wire.UtxoRef{TxID: "t1", VOut: 0}
		addUtxo(t, s, ref, giga.UnspentOutput{Owner: "alice", Amount: 100})

		utxo, err := s.GetUnspentOutput("t1", 0)
		if err != nil {
			t.Fatalf("GetUnspentOutput: %v", err)
		}
		if utxo.Owner != "alice" || utxo.Amount != 100 {
			t.Errorf("GetUnspentOutput: wrong utxo: %v", utxo)
		}

		_, err = s.GetUnspentOutput("t1", 1)
		if !giga.IsNotFoundError(err) {
			t.Errorf("GetUnspentOutput: want NotFound for unknown vout, got %v", err)
		}
	})
}

func TestAddDuplicate(t *testing.T) {
	withEachStore(t, func(t *testing.T, s giga.Store) {
		ref := wire.UtxoRef{TxID: "t1", VOut: 0}
		addUtxo(t, s, ref, giga.UnspentOutput{Owner: "alice", Amount: 100})

		tx, err := s.Begin()
		if err != nil {
			t.Fatalf("Begin: %v", err)
		}
		defer tx.Rollback()
		err = tx.AddUnspentOutput(ref, giga.UnspentOutput{Owner: "bob", Amount: 5})
		if !giga.IsAlreadyExistsError(err) {
			t.Errorf("AddUnspentOutput: want AlreadyExists, got %v", err)
		}
	})
}

func TestMarkSpent(t *testing.T) {
	withEachStore(t, func(t *testing.T, s giga.Store) {
		ref := wire.UtxoRef{TxID: "t1", VOut: 0}
		addUtxo(t, s, ref, giga.UnspentOutput{Owner: "alice", Amount: 100})

		tx, err := s.Begin()
		if err != nil {
			t.Fatalf("Begin: %v", err)
		}
		if err := tx.MarkSpent(ref, "t2"); err != nil {
			t.Fatalf("MarkSpent: %v", err)
		}
		if err := tx.Commit(); err != nil {
			t.Fatalf("Commit: %v", err)
		}

		// spent outputs are gone from the unspent set
		if _, err := s.GetUnspentOutput("t1", 0); !giga.IsNotFoundError(err) {
			t.Errorf("GetUnspentOutput after spend: want NotFound, got %v", err)
		}

		// and cannot be spent again
		tx, err = s.Begin()
		if err != nil {
			t.Fatalf("Begin: %v", err)
		}
		defer tx.Rollback()
		if err := tx.MarkSpent(ref, "t3"); !giga.IsNotFoundError(err) {
			t.Errorf("MarkSpent twice: want NotFound, got %v", err)
		}
	})
}

func TestMarkSpentUnknown(t *testing.T) {
	withEachStore(t, func(t *testing.T, s giga.Store) {
		tx, err := s.Begin()
		if err != nil {
			t.Fatalf("Begin: %v", err)
		}
		defer tx.Rollback()
		err = tx.MarkSpent(wire.UtxoRef{TxID: "nope", VOut: 9}, "t2")
		if !giga.IsNotFoundError(err) {
			t.Errorf("MarkSpent: want NotFound, got %v", err)
		}
	})
}

func TestListAndBalance(t *testing.T) {
	withEachStore(t, func(t *testing.T, s giga.Store) {
		addUtxo(t, s, wire.UtxoRef{TxID: "t1", VOut: 0}, giga.UnspentOutput{Owner: "alice", Amount: 100})
		addUtxo(t, s, wire.UtxoRef{TxID: "t1", VOut: 1}, giga.UnspentOutput{Owner: "bob", Amount: 50})
		addUtxo(t, s, wire.UtxoRef{TxID: "t2", VOut: 0}, giga.UnspentOutput{Owner: "alice", Amount: 7})

		utxos, err := s.ListUnspentOutputs()
		if err != nil {
			t.Fatalf("ListUnspentOutputs: %v", err)
		}
		if len(utxos) != 3 {
			t.Errorf("ListUnspentOutputs: want 3 utxos, got %d", len(utxos))
		}
		if utxos[wire.UtxoRef{TxID: "t1", VOut: 1}].Owner != "bob" {
			t.Errorf("ListUnspentOutputs: wrong owner for t1[1]")
		}

		balance, err := s.PoolBalance()
		if err != nil {
			t.Fatalf("PoolBalance: %v", err)
		}
		if balance != 157 {
			t.Errorf("PoolBalance: want 157, got %d", balance)
		}

		// spending removes from both views
		tx, err := s.Begin()
		if err != nil {
			t.Fatalf("Begin: %v", err)
		}
		if err := tx.MarkSpent(wire.UtxoRef{TxID: "t1", VOut: 0}, "t3"); err != nil {
			t.Fatalf("MarkSpent: %v", err)
		}
		if err := tx.Commit(); err != nil {
			t.Fatalf("Commit: %v", err)
		}
		balance, err = s.PoolBalance()
		if err != nil {
			t.Fatalf("PoolBalance: %v", err)
		}
		if balance != 57 {
			t.Errorf("PoolBalance after spend: want 57, got %d", balance)
		}
	})
}

func TestLargeAmountSurvives(t *testing.T) {
	// the full uint64 range must round-trip through storage.
	const huge = uint64(18446744073709551615)
	withEachStore(t, func(t *testing.T, s giga.Store) {
		addUtxo(t, s, wire.UtxoRef{TxID: "t1", VOut: 0}, giga.UnspentOutput{Owner: "alice", Amount: huge})
		utxo, err := s.GetUnspentOutput("t1", 0)
		if err != nil {
			t.Fatalf("GetUnspentOutput: %v", err)
		}
		if utxo.Amount != huge {
			t.Errorf("GetUnspentOutput: want %d, got %d", huge, utxo.Amount)
		}
	})
}

func TestRollbackDiscards(t *testing.T) {
	withEachStore(t, func(t *testing.T, s giga.Store) {
		addUtxo(t, s, wire.UtxoRef{TxID: "t1", VOut: 0}, giga.UnspentOutput{Owner: "alice", Amount: 100})

		tx, err := s.Begin()
		if err != nil {
			t.Fatalf("Begin: %v", err)
		}
		if err := tx.AddUnspentOutput(wire.UtxoRef{TxID: "t2", VOut: 0}, giga.UnspentOutput{Owner: "bob", Amount: 9}); err != nil {
			t.Fatalf("AddUnspentOutput: %v", err)
		}
		if err := tx.MarkSpent(wire.UtxoRef{TxID: "t1", VOut: 0}, "t2"); err != nil {
			t.Fatalf("MarkSpent: %v", err)
		}
		if err := tx.Rollback(); err != nil {
			t.Fatalf("Rollback: %v", err)
		}

		if _, err := s.GetUnspentOutput("t1", 0); err != nil {
			t.Errorf("GetUnspentOutput: rolled-back spend should remain unspent: %v", err)
		}
		if _, err := s.GetUnspentOutput("t2", 0); !giga.IsNotFoundError(err) {
			t.Errorf("GetUnspentOutput: rolled-back add should not exist, got %v", err)
		}
	})
}
