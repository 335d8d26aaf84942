package giga

import (
	"fmt"

	"github.com/dogecoinfoundation/gigaledger/pkg/wire"
)

// RuleCode enumerates the ledger rules a transaction can violate.
type RuleCode string

const (
	EmptyInputs      RuleCode = "empty-inputs"
	EmptyOutputs     RuleCode = "empty-outputs"
	UtxoNotFound     RuleCode = "utxo-not-found"
	DoubleSpending   RuleCode = "double-spending"
	NegativeAmount   RuleCode = "negative-amount"
	InvalidSignature RuleCode = "invalid-signature"
	AmountMismatch   RuleCode = "amount-mismatch"
)

// RuleError is one violated rule, with a message naming the
// offending reference or amount.
type RuleError struct {
	Code    RuleCode `json:"code"`
	Message string   `json:"message"`
}

// ValidationResult reports every rule a transaction violates,
// in discovery order. Valid is true iff Errors is empty.
type ValidationResult struct {
	Valid  bool        `json:"valid"`
	Errors []RuleError `json:"errors"`
}

// ValidateTxn checks a transaction against the current pool snapshot.
// It never fails part-way: every violated rule is collected so the
// caller (and its tests) can see all problems from a single call.
// It has no side effects; marking outputs spent is the caller's
// business, after a valid result.
func ValidateTxn(tx wire.Txn, pool UtxoSource, verify Verifier) ValidationResult {
	var errs []RuleError
	fail := func(code RuleCode, format string, args ...any) {
		errs = append(errs, newRuleError(code, format, args...))
	}

	// The canonical unsigned payload excludes all signatures, so it is
	// identical for every input: compute it once. Encoding only fails
	// on format capacity; in that case no signature can attest to the
	// payload and every signature check below fails.
	payload, payloadErr := wire.SigningBytes(tx)

	if len(tx.Inputs) == 0 {
		fail(EmptyInputs, "transaction %q has no inputs", tx.ID)
	}
	spent := NewSpendSet()
	var inputSum uint64
	for _, in := range tx.Inputs {
		utxo, found := pool.GetUnspentOutput(in.TxID, in.VOut)
		if !found {
			fail(UtxoNotFound, "input refers to unknown unspent output %s[%d]", in.TxID, in.VOut)
			continue
		}
		if spent.Includes(in.TxID, in.Owner, in.VOut) {
			// not counted towards the input sum a second time.
			fail(DoubleSpending, "input spends %s[%d] (owner %q) more than once", in.TxID, in.VOut, in.Owner)
			continue
		}
		if utxo.Amount == 0 {
			fail(NegativeAmount, "unspent output %s[%d] amount must be greater than zero", in.TxID, in.VOut)
			continue
		}
		spent.Add(in.TxID, in.Owner, in.VOut)
		inputSum += utxo.Amount
		// The amount above stays counted even if the signature is bad:
		// both findings are reported independently.
		if payloadErr != nil {
			fail(InvalidSignature, "cannot verify signature for %s[%d]: %v", in.TxID, in.VOut, payloadErr)
		} else if !verify.VerifySignature(payload, in.Signature, in.Owner) {
			fail(InvalidSignature, "signature for %s[%d] does not verify against owner %q", in.TxID, in.VOut, in.Owner)
		}
	}

	if len(tx.Outputs) == 0 {
		fail(EmptyOutputs, "transaction %q has no outputs", tx.ID)
	}
	var outputSum uint64
	for i, out := range tx.Outputs {
		if out.Amount == 0 {
			// excluded from the output sum.
			fail(NegativeAmount, "output %d (to %q) amount must be greater than zero", i, out.Recipient)
			continue
		}
		outputSum += out.Amount
	}

	if inputSum != outputSum {
		fail(AmountMismatch, "input sum %d does not equal output sum %d", inputSum, outputSum)
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

func newRuleError(code RuleCode, format string, args ...any) RuleError {
	return RuleError{Code: code, Message: fmt.Sprintf(format, args...)}
}
