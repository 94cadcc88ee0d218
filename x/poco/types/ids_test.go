package types_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/poco/x/poco/types"
)

func TestDerivedIdentifiers(t *testing.T) {
	request := common.HexToHash("0xaa")
	require.NotEqual(t, types.DealID(request, 0), types.DealID(request, 1))

	deal := types.DealID(request, 0)
	require.NotEqual(t, types.TaskID(deal, 0), types.TaskID(deal, 1))

	worker := common.HexToAddress("0x01")
	other := common.HexToAddress("0x02")
	task := types.TaskID(deal, 0)
	digest := common.HexToHash("0xd1")

	// the result hash is shared by agreeing workers, the seal is not
	require.Equal(t, types.ResultHash(task, digest), types.ResultHash(task, digest))
	require.NotEqual(t, types.ResultSeal(worker, task, digest), types.ResultSeal(other, task, digest))

	require.NotEqual(t,
		types.AssetAddress(types.AssetKindApp, worker, "x"),
		types.AssetAddress(types.AssetKindDataset, worker, "x"),
	)
}

// FuzzDerivedIdentifiers checks every derivation is a pure function of its inputs
func FuzzDerivedIdentifiers(f *testing.F) {
	f.Add([]byte{0x01}, uint64(0), []byte{0x02})
	f.Add([]byte{}, uint64(1<<63), []byte("digest"))

	f.Fuzz(func(t *testing.T, seed []byte, index uint64, digestSeed []byte) {
		request := common.BytesToHash(seed)
		digest := common.BytesToHash(digestSeed)
		worker := common.BytesToAddress(seed)

		deal := types.DealID(request, index)
		require.Equal(t, deal, types.DealID(request, index))
		task := types.TaskID(deal, index)
		require.Equal(t, task, types.TaskID(deal, index))

		require.Equal(t, types.ResultSeal(worker, task, digest), types.ResultSeal(worker, task, digest))
		require.Equal(t, types.ContributionHash(types.ResultHash(task, digest), digest),
			types.ContributionHash(types.ResultHash(task, digest), digest))
		if index < 1<<63 {
			require.NotEqual(t, deal, types.DealID(request, index+1))
		}
	})
}
