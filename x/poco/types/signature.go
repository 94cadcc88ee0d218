package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// SignatureLength is the length of a recoverable secp256k1 signature [R || S || V].
const SignatureLength = crypto.SignatureLength

// RecoverSigner returns the address that produced sig over digest. V may be
// encoded either as 0/1 or as 27/28. High-S signatures are rejected.
func RecoverSigner(digest common.Hash, sig []byte) (common.Address, error) {
	if len(sig) != SignatureLength {
		return common.Address{}, ErrInvalidSignature.Wrapf("expected %d bytes, got %d", SignatureLength, len(sig))
	}

	normalized := make([]byte, SignatureLength)
	copy(normalized, sig)
	if normalized[crypto.RecoveryIDOffset] >= 27 {
		normalized[crypto.RecoveryIDOffset] -= 27
	}

	v := normalized[crypto.RecoveryIDOffset]
	r := new(big.Int).SetBytes(normalized[:32])
	s := new(big.Int).SetBytes(normalized[32:64])
	if !crypto.ValidateSignatureValues(v, r, s, true) {
		return common.Address{}, ErrInvalidSignature.Wrap("malformed signature values")
	}

	pub, err := crypto.SigToPub(digest.Bytes(), normalized)
	if err != nil {
		return common.Address{}, ErrInvalidSignature.Wrapf("recover: %v", err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// VerifySignature reports whether sig over digest was produced by signer.
func VerifySignature(signer common.Address, digest common.Hash, sig []byte) bool {
	if signer == (common.Address{}) {
		return false
	}
	recovered, err := RecoverSigner(digest, sig)
	if err != nil {
		return false
	}
	return recovered == signer
}

// EthSignedHash wraps a 32 byte hash in the "\x19Ethereum Signed Message:\n32"
// envelope used by personal_sign.
func EthSignedHash(h common.Hash) common.Hash {
	return common.BytesToHash(accounts.TextHash(h.Bytes()))
}
