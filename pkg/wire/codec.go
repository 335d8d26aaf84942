package wire

import (
	"errors"
	"fmt"
)

// MaxCount is the most inputs, outputs or string bytes the wire
// format can carry in its 1-byte prefixes.
const MaxCount = 255

// ErrCapacity reports a transaction the format cannot represent
// (too many inputs/outputs, or a string field over 255 UTF-8 bytes.)
// This is a format limit, not a validation failure.
var ErrCapacity = errors.New("exceeds wire format capacity")

// ErrMalformed reports a buffer that is not a well-formed encoded
// transaction (truncated, or trailing bytes after the timestamp.)
var ErrMalformed = errors.New("malformed transaction bytes")

// Wire layout, all multi-byte integers little-endian:
//
//	id          1-byte length + UTF-8 bytes
//	input count 1 byte
//	per input   txid (length-prefixed), vout u32, owner (length-prefixed),
//	            signature (length-prefixed)
//	output count 1 byte
//	per output  recipient (length-prefixed), amount u64
//	timestamp   u64
//
// SigningBytes uses the identical layout with the signature field
// omitted from each input, so two independent implementations sign
// and verify the same bytes.

// EncodeTxn encodes a transaction into the wire layout above.
func EncodeTxn(tx Txn) ([]byte, error) {
	return encode(tx, true)
}

// SigningBytes returns the canonical unsigned payload of a transaction:
// the wire layout with every signature excluded. It is byte-identical
// for two transactions that differ only in their signatures.
func SigningBytes(tx Txn) ([]byte, error) {
	return encode(tx, false)
}

func encode(tx Txn, withSigs bool) (buf []byte, err error) {
	if len(tx.Inputs) > MaxCount {
		return nil, fmt.Errorf("%w: %d inputs (max %d)", ErrCapacity, len(tx.Inputs), MaxCount)
	}
	if len(tx.Outputs) > MaxCount {
		return nil, fmt.Errorf("%w: %d outputs (max %d)", ErrCapacity, len(tx.Outputs), MaxCount)
	}
	buf, err = appendString(buf, tx.ID, "id")
	if err != nil {
		return nil, err
	}
	buf = append(buf, uint8(len(tx.Inputs)))
	for _, in := range tx.Inputs {
		buf, err = appendString(buf, in.TxID, "input txid")
		if err != nil {
			return nil, err
		}
		buf = appendUint32le(buf, in.VOut)
		buf, err = appendString(buf, in.Owner, "input owner")
		if err != nil {
			return nil, err
		}
		if withSigs {
			buf, err = appendString(buf, in.Signature, "input signature")
			if err != nil {
				return nil, err
			}
		}
	}
	buf = append(buf, uint8(len(tx.Outputs)))
	for _, out := range tx.Outputs {
		buf, err = appendString(buf, out.Recipient, "output recipient")
		if err != nil {
			return nil, err
		}
		buf = appendUint64le(buf, out.Amount)
	}
	buf = appendUint64le(buf, uint64(tx.Timestamp))
	return buf, nil
}

// DecodeTxn decodes the wire layout produced by EncodeTxn.
// The whole buffer must be consumed: trailing bytes are malformed
// input, not success.
func DecodeTxn(b []byte) (Txn, error) {
	s := NewStream(b)
	var tx Txn
	tx.ID = s.String()
	numIn := s.Uint8()
	for i := uint8(0); i < numIn; i++ {
		var in TxIn
		in.TxID = s.String()
		in.VOut = s.Uint32le()
		in.Owner = s.String()
		in.Signature = s.String()
		tx.Inputs = append(tx.Inputs, in)
	}
	numOut := s.Uint8()
	for i := uint8(0); i < numOut; i++ {
		var out TxOut
		out.Recipient = s.String()
		out.Amount = s.Uint64le()
		tx.Outputs = append(tx.Outputs, out)
	}
	tx.Timestamp = int64(s.Uint64le())
	if !s.Valid() {
		return Txn{}, fmt.Errorf("%w: buffer too short", ErrMalformed)
	}
	if !s.Complete() {
		return Txn{}, fmt.Errorf("%w: trailing bytes after timestamp", ErrMalformed)
	}
	return tx, nil
}

func appendString(buf []byte, val string, field string) ([]byte, error) {
	if len(val) > MaxCount {
		return nil, fmt.Errorf("%w: %s is %d bytes (max %d)", ErrCapacity, field, len(val), MaxCount)
	}
	buf = append(buf, uint8(len(val)))
	return append(buf, val...), nil
}

func appendUint32le(buf []byte, v uint32) []byte {
	return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func appendUint64le(buf []byte, v uint64) []byte {
	return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24),
		byte(v>>32), byte(v>>40), byte(v>>48), byte(v>>56))
}
