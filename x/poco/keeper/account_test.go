package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	keepertest "github.com/paw-chain/poco/testutil/keeper"
	"github.com/paw-chain/poco/x/poco/types"
)

func TestDepositWithdraw(t *testing.T) {
	f := keepertest.NewPocoFixture(t)
	owner := keepertest.NewActor(t)
	f.Fund(t, owner.Address, math.NewInt(1000))

	require.NoError(t, f.Keeper.Deposit(f.Ctx, owner.Address, math.NewInt(600)))
	acc, err := f.Keeper.GetAccount(f.Ctx, owner.Address)
	require.NoError(t, err)
	require.Equal(t, int64(600), acc.Stake.Int64())
	require.True(t, acc.Frozen.IsZero())
	require.Equal(t, int64(400), f.Balance(owner.Address).Int64())

	require.NoError(t, f.Keeper.Withdraw(f.Ctx, owner.Address, math.NewInt(600)))
	acc, err = f.Keeper.GetAccount(f.Ctx, owner.Address)
	require.NoError(t, err)
	require.True(t, acc.IsEmpty())
	require.Equal(t, int64(1000), f.Balance(owner.Address).Int64())
}

func TestDepositWithdrawRejections(t *testing.T) {
	f := keepertest.NewPocoFixture(t)
	owner := keepertest.NewActor(t)
	f.Fund(t, owner.Address, math.NewInt(100))

	require.ErrorIs(t, f.Keeper.Deposit(f.Ctx, owner.Address, math.ZeroInt()), types.ErrInvalidAmount)
	require.ErrorIs(t, f.Keeper.Deposit(f.Ctx, owner.Address, math.NewInt(101)), types.ErrTransferFailed)
	require.ErrorIs(t, f.Keeper.Withdraw(f.Ctx, owner.Address, math.NewInt(-5)), types.ErrInvalidAmount)
	require.ErrorIs(t, f.Keeper.Withdraw(f.Ctx, owner.Address, math.NewInt(1)), types.ErrInsufficientStake)

	// a failed deposit leaves both sides untouched
	require.Equal(t, int64(100), f.Balance(owner.Address).Int64())
	acc, err := f.Keeper.GetAccount(f.Ctx, owner.Address)
	require.NoError(t, err)
	require.True(t, acc.IsEmpty())
}

func TestWithdrawOnlyAvailableStake(t *testing.T) {
	f := keepertest.NewPocoFixture(t)
	m := newMarket(t, f)
	m.deal(t, 1, 1)

	// the requester has taskPrice locked for the deal
	require.ErrorIs(t, f.Keeper.Withdraw(f.Ctx, m.requester.Address, initialFunds), types.ErrInsufficientStake)
	require.NoError(t, f.Keeper.Withdraw(f.Ctx, m.requester.Address, initialFunds.Sub(taskPrice())))
	acc := m.account(t, m.requester.Address)
	require.True(t, acc.Stake.IsZero())
	require.Equal(t, taskPrice().String(), acc.Frozen.String())
}

func TestDepositForAndWithdrawTo(t *testing.T) {
	f := keepertest.NewPocoFixture(t)
	payer := keepertest.NewActor(t)
	beneficiary := keepertest.NewActor(t)
	f.Fund(t, payer.Address, math.NewInt(1000))

	require.NoError(t, f.Keeper.DepositFor(f.Ctx, payer.Address, beneficiary.Address, math.NewInt(700)))
	acc, err := f.Keeper.GetAccount(f.Ctx, beneficiary.Address)
	require.NoError(t, err)
	require.Equal(t, int64(700), acc.Stake.Int64())
	payerAcc, err := f.Keeper.GetAccount(f.Ctx, payer.Address)
	require.NoError(t, err)
	require.True(t, payerAcc.IsEmpty())
	require.Equal(t, int64(300), f.Balance(payer.Address).Int64())

	// the beneficiary pays its stake out to the payer's bank account
	require.ErrorIs(t, f.Keeper.WithdrawTo(f.Ctx, beneficiary.Address, payer.Address, math.NewInt(701)), types.ErrInsufficientStake)
	require.NoError(t, f.Keeper.WithdrawTo(f.Ctx, beneficiary.Address, payer.Address, math.NewInt(200)))
	require.Equal(t, int64(500), f.Balance(payer.Address).Int64())
	require.True(t, f.Balance(beneficiary.Address).IsZero())
	acc, err = f.Keeper.GetAccount(f.Ctx, beneficiary.Address)
	require.NoError(t, err)
	require.Equal(t, int64(500), acc.Stake.Int64())
}

func TestDepositForArrayIsAllOrNothing(t *testing.T) {
	f := keepertest.NewPocoFixture(t)
	payer := keepertest.NewActor(t)
	a, b := keepertest.NewActor(t), keepertest.NewActor(t)
	f.Fund(t, payer.Address, math.NewInt(1000))

	err := f.Keeper.DepositForArray(f.Ctx, payer.Address,
		[]common.Address{a.Address, b.Address}, []math.Int{math.NewInt(10)})
	require.ErrorIs(t, err, types.ErrInvalidArrayLength)

	// the second transfer overdraws the payer and reverts the first
	err = f.Keeper.DepositForArray(f.Ctx, payer.Address,
		[]common.Address{a.Address, b.Address}, []math.Int{math.NewInt(600), math.NewInt(600)})
	require.ErrorIs(t, err, types.ErrTransferFailed)
	accA, err := f.Keeper.GetAccount(f.Ctx, a.Address)
	require.NoError(t, err)
	require.True(t, accA.IsEmpty())
	require.Equal(t, int64(1000), f.Balance(payer.Address).Int64())

	err = f.Keeper.DepositForArray(f.Ctx, payer.Address,
		[]common.Address{a.Address, b.Address}, []math.Int{math.NewInt(600), math.ZeroInt()})
	require.ErrorIs(t, err, types.ErrInvalidAmount)

	require.NoError(t, f.Keeper.DepositForArray(f.Ctx, payer.Address,
		[]common.Address{a.Address, b.Address}, []math.Int{math.NewInt(600), math.NewInt(400)}))
	accA, err = f.Keeper.GetAccount(f.Ctx, a.Address)
	require.NoError(t, err)
	accB, err := f.Keeper.GetAccount(f.Ctx, b.Address)
	require.NoError(t, err)
	require.Equal(t, int64(600), accA.Stake.Int64())
	require.Equal(t, int64(400), accB.Stake.Int64())
	require.True(t, f.Balance(payer.Address).IsZero())
}
