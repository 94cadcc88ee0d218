package types_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/poco/x/poco/types"
)

var secp256k1N, _ = new(big.Int).SetString("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141", 16)

func TestRecoverSigner(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := crypto.PubkeyToAddress(key.PublicKey)
	digest := crypto.Keccak256Hash([]byte("order"))

	sig, err := crypto.Sign(digest.Bytes(), key)
	require.NoError(t, err)

	legacy := append([]byte(nil), sig...)
	legacy[crypto.RecoveryIDOffset] += 27

	tests := []struct {
		name string
		sig  []byte
	}{
		{"recovery id 0/1", sig},
		{"recovery id 27/28", legacy},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := types.RecoverSigner(digest, tc.sig)
			require.NoError(t, err)
			require.Equal(t, signer, got)
			require.True(t, types.VerifySignature(signer, digest, tc.sig))
		})
	}

	// the caller's signature is not modified
	require.Equal(t, sig[crypto.RecoveryIDOffset]+27, legacy[crypto.RecoveryIDOffset])
}

func TestRecoverSignerRejections(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := crypto.PubkeyToAddress(key.PublicKey)
	digest := crypto.Keccak256Hash([]byte("order"))
	sig, err := crypto.Sign(digest.Bytes(), key)
	require.NoError(t, err)

	// s' = n - s recovers on the curve but is malleable
	highS := append([]byte(nil), sig...)
	s := new(big.Int).SetBytes(sig[32:64])
	copy(highS[32:64], common.LeftPadBytes(new(big.Int).Sub(secp256k1N, s).Bytes(), 32))
	highS[crypto.RecoveryIDOffset] ^= 1

	badV := append([]byte(nil), sig...)
	badV[crypto.RecoveryIDOffset] = 5

	tests := []struct {
		name string
		sig  []byte
	}{
		{"short", sig[:64]},
		{"empty", nil},
		{"high s", highS},
		{"bad recovery id", badV},
		{"zero", make([]byte, types.SignatureLength)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := types.RecoverSigner(digest, tc.sig)
			require.ErrorIs(t, err, types.ErrInvalidSignature)
			require.False(t, types.VerifySignature(signer, digest, tc.sig))
		})
	}

	require.False(t, types.VerifySignature(common.Address{}, digest, sig))
	require.False(t, types.VerifySignature(signer, crypto.Keccak256Hash([]byte("other")), sig))
}

func TestAuthorizationHashIsPersonalSign(t *testing.T) {
	worker := common.HexToAddress("0x01")
	taskID := common.HexToHash("0x02")
	inner := crypto.Keccak256(worker.Bytes(), taskID.Bytes(), common.Address{}.Bytes())
	want := crypto.Keccak256Hash([]byte("\x19Ethereum Signed Message:\n32"), inner)

	require.Equal(t, want, types.AuthorizationHash(worker, taskID, common.Address{}))
	require.NotEqual(t, want, types.AuthorizationHash(worker, taskID, common.HexToAddress("0x03")))
}
