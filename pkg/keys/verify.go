package keys

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/btcsuite/btcd/btcec/v2"
	ecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

// ECDSAVerifier implements giga.Verifier with secp256k1 ECDSA.
// The owner identity is a compressed public key in hex; the signature
// is a DER-encoded signature in hex, over the SHA-256 digest of the
// canonical unsigned payload.
type ECDSAVerifier struct{}

func (ECDSAVerifier) VerifySignature(payload []byte, signature string, owner string) bool {
	sigBytes, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	sig, err := ecdsa.ParseDERSignature(sigBytes)
	if err != nil {
		return false
	}
	pubKeyBytes, err := hex.DecodeString(owner)
	if err != nil {
		return false
	}
	pubKey, err := btcec.ParsePubKey(pubKeyBytes)
	if err != nil {
		return false
	}
	hash := sha256.Sum256(payload)
	return sig.Verify(hash[:], pubKey)
}

// Sign produces a signature in the format VerifySignature accepts.
// Used by tests and the CLI tooling; the service itself never signs.
func Sign(payload []byte, priv *btcec.PrivateKey) string {
	hash := sha256.Sum256(payload)
	sig := ecdsa.Sign(priv, hash[:])
	return hex.EncodeToString(sig.Serialize())
}

// OwnerID returns the owner identity string for a private key:
// the compressed public key in hex.
func OwnerID(priv *btcec.PrivateKey) string {
	return hex.EncodeToString(priv.PubKey().SerializeCompressed())
}
