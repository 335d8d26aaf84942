package giga

import (
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/dogecoinfoundation/gigaledger/pkg/keys"
	"github.com/dogecoinfoundation/gigaledger/pkg/wire"
)

// acceptAll and rejectAll stand in for the real verifier so rule
// interactions can be tested without key material.
type acceptAll struct{}

func (acceptAll) VerifySignature(payload []byte, signature string, owner string) bool { return true }

type rejectAll struct{}

func (rejectAll) VerifySignature(payload []byte, signature string, owner string) bool { return false }

func codesOf(r ValidationResult) []RuleCode {
	var codes []RuleCode
	for _, e := range r.Errors {
		codes = append(codes, e.Code)
	}
	return codes
}

func assertCodes(t *testing.T, r ValidationResult, want ...RuleCode) {
	t.Helper()
	got := codesOf(r)
	if len(got) != len(want) {
		t.Fatalf("wrong rule codes: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("wrong rule codes: got %v, want %v", got, want)
		}
	}
	if r.Valid != (len(want) == 0) {
		t.Errorf("Valid = %v with %d errors", r.Valid, len(want))
	}
}

func TestValidateBalancedTxn(t *testing.T) {
	// end to end with real keys: alice spends a pool output to bob.
	alicePriv, err := btcec.NewPrivateKey()
	if err != nil {
		t.Fatalf("NewPrivateKey: %v", err)
	}
	alice := keys.OwnerID(alicePriv)

	tx := wire.Txn{
		ID:        "t1",
		Inputs:    []wire.TxIn{{TxID: "coinbase", VOut: 0, Owner: alice}},
		Outputs:   []wire.TxOut{{Recipient: "bob", Amount: 100}},
		Timestamp: 1700000000,
	}
	payload, err := wire.SigningBytes(tx)
	if err != nil {
		t.Fatalf("SigningBytes: %v", err)
	}
	tx.Inputs[0].Signature = keys.Sign(payload, alicePriv)

	pool := UtxoMap{
		{TxID: "coinbase", VOut: 0}: {Owner: alice, Amount: 100},
	}
	r := ValidateTxn(tx, pool, keys.ECDSAVerifier{})
	assertCodes(t, r)
}

func TestValidateAmountMismatch(t *testing.T) {
	tx := wire.Txn{
		ID:      "t1",
		Inputs:  []wire.TxIn{{TxID: "a", VOut: 0, Owner: "alice"}},
		Outputs: []wire.TxOut{{Recipient: "bob", Amount: 90}},
	}
	pool := UtxoMap{{TxID: "a", VOut: 0}: {Owner: "alice", Amount: 100}}
	r := ValidateTxn(tx, pool, acceptAll{})
	assertCodes(t, r, AmountMismatch)
	if !strings.Contains(r.Errors[0].Message, "100") || !strings.Contains(r.Errors[0].Message, "90") {
		t.Errorf("mismatch message should name both sums: %q", r.Errors[0].Message)
	}
}

func TestValidateDoubleSpend(t *testing.T) {
	in := wire.TxIn{TxID: "a", VOut: 0, Owner: "alice"}
	tx := wire.Txn{
		ID:      "t1",
		Inputs:  []wire.TxIn{in, in},
		Outputs: []wire.TxOut{{Recipient: "bob", Amount: 100}},
	}
	pool := UtxoMap{{TxID: "a", VOut: 0}: {Owner: "alice", Amount: 100}}
	r := ValidateTxn(tx, pool, acceptAll{})
	// the duplicate is not counted, so the sums still balance.
	assertCodes(t, r, DoubleSpending)
}

func TestValidateSameRefDifferentOwners(t *testing.T) {
	// the duplicate-spend key includes the claimed owner, so the same
	// pool reference claimed under two owners is counted twice. The
	// second claim fails its signature check instead.
	tx := wire.Txn{
		ID: "t1",
		Inputs: []wire.TxIn{
			{TxID: "a", VOut: 0, Owner: "alice"},
			{TxID: "a", VOut: 0, Owner: "mallory"},
		},
		Outputs: []wire.TxOut{{Recipient: "bob", Amount: 200}},
	}
	pool := UtxoMap{{TxID: "a", VOut: 0}: {Owner: "alice", Amount: 100}}
	r := ValidateTxn(tx, pool, acceptAll{})
	assertCodes(t, r)
}

func TestValidateUtxoNotFound(t *testing.T) {
	tx := wire.Txn{
		ID:      "t1",
		Inputs:  []wire.TxIn{{TxID: "missing", VOut: 3, Owner: "alice"}},
		Outputs: []wire.TxOut{{Recipient: "bob", Amount: 50}},
	}
	r := ValidateTxn(tx, UtxoMap{}, acceptAll{})
	// the missing input contributes nothing, so the sums disagree too.
	assertCodes(t, r, UtxoNotFound, AmountMismatch)
	if !strings.Contains(r.Errors[0].Message, "missing[3]") {
		t.Errorf("not-found message should name the reference: %q", r.Errors[0].Message)
	}
}

func TestValidateEmptyTxn(t *testing.T) {
	r := ValidateTxn(wire.Txn{ID: "t1"}, UtxoMap{}, acceptAll{})
	// both sums are zero, so there is no mismatch on top.
	assertCodes(t, r, EmptyInputs, EmptyOutputs)
}

func TestValidateBadSignatureStillCounts(t *testing.T) {
	tx := wire.Txn{
		ID:      "t1",
		Inputs:  []wire.TxIn{{TxID: "a", VOut: 0, Owner: "alice", Signature: "nope"}},
		Outputs: []wire.TxOut{{Recipient: "bob", Amount: 100}},
	}
	pool := UtxoMap{{TxID: "a", VOut: 0}: {Owner: "alice", Amount: 100}}
	r := ValidateTxn(tx, pool, rejectAll{})
	// the input amount is still counted, so no mismatch follows.
	assertCodes(t, r, InvalidSignature)
}

func TestValidateZeroAmountOutput(t *testing.T) {
	tx := wire.Txn{
		ID:     "t1",
		Inputs: []wire.TxIn{{TxID: "a", VOut: 0, Owner: "alice"}},
		Outputs: []wire.TxOut{
			{Recipient: "bob", Amount: 100},
			{Recipient: "carol", Amount: 0},
		},
	}
	pool := UtxoMap{{TxID: "a", VOut: 0}: {Owner: "alice", Amount: 100}}
	r := ValidateTxn(tx, pool, acceptAll{})
	// the zero output is excluded from the sum, which still balances.
	assertCodes(t, r, NegativeAmount)
}

func TestValidateZeroAmountInput(t *testing.T) {
	tx := wire.Txn{
		ID:      "t1",
		Inputs:  []wire.TxIn{{TxID: "a", VOut: 0, Owner: "alice"}},
		Outputs: []wire.TxOut{{Recipient: "bob", Amount: 100}},
	}
	pool := UtxoMap{{TxID: "a", VOut: 0}: {Owner: "alice", Amount: 0}}
	r := ValidateTxn(tx, pool, acceptAll{})
	assertCodes(t, r, NegativeAmount, AmountMismatch)
}

func TestValidateCollectsInDiscoveryOrder(t *testing.T) {
	tx := wire.Txn{
		ID: "t1",
		Inputs: []wire.TxIn{
			{TxID: "missing", VOut: 0, Owner: "alice"},
			{TxID: "a", VOut: 0, Owner: "alice"},
			{TxID: "a", VOut: 0, Owner: "alice"},
		},
		Outputs: []wire.TxOut{{Recipient: "bob", Amount: 150}},
	}
	pool := UtxoMap{{TxID: "a", VOut: 0}: {Owner: "alice", Amount: 100}}
	r := ValidateTxn(tx, pool, rejectAll{})
	assertCodes(t, r, UtxoNotFound, InvalidSignature, DoubleSpending, AmountMismatch)
}

func TestValidateUnencodableTxn(t *testing.T) {
	// an owner over the wire format's string cap: the canonical unsigned
	// payload cannot be produced, so the signature cannot be verified.
	tx := wire.Txn{
		ID:      "t1",
		Inputs:  []wire.TxIn{{TxID: "a", VOut: 0, Owner: strings.Repeat("x", 256)}},
		Outputs: []wire.TxOut{{Recipient: "bob", Amount: 100}},
	}
	pool := UtxoMap{{TxID: "a", VOut: 0}: {Owner: tx.Inputs[0].Owner, Amount: 100}}
	r := ValidateTxn(tx, pool, acceptAll{})
	assertCodes(t, r, InvalidSignature)
}
