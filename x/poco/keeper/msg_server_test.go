package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	keepertest "github.com/paw-chain/poco/testutil/keeper"
	"github.com/paw-chain/poco/x/poco/keeper"
	"github.com/paw-chain/poco/x/poco/types"
)

func TestMsgServerTaskFlow(t *testing.T) {
	f := keepertest.NewPocoFixture(t)
	ms := keeper.NewMsgServerImpl(*f.Keeper)
	m := newMarket(t, f)

	w := worker{keepertest.NewActor(t)}
	f.Fund(t, w.Address, initialFunds)
	_, err := ms.Deposit(f.Ctx, &types.MsgDeposit{Owner: w.Address, Amount: initialFunds})
	require.NoError(t, err)
	require.True(t, f.Balance(w.Address).IsZero())

	o := m.orders(1, 1)
	m.sign(t, &o)
	matched, err := ms.MatchOrders(f.Ctx, &types.MsgMatchOrders{
		Sender:          m.requester.Address,
		AppOrder:        o.App,
		DatasetOrder:    o.Dataset,
		WorkerpoolOrder: o.Workerpool,
		RequestOrder:    o.Request,
	})
	require.NoError(t, err)
	require.Equal(t, uint64(1), matched.Volume)

	initialized, err := ms.Initialize(f.Ctx, &types.MsgInitialize{Sender: w.Address, DealID: matched.DealID})
	require.NoError(t, err)
	taskID := initialized.TaskID

	digest := digestOf("msg")
	req := m.contribution(t, w, taskID, digest)
	_, err = ms.Contribute(f.Ctx, &types.MsgContribute{
		Worker:            req.Worker,
		TaskID:            req.TaskID,
		ResultHash:        req.ResultHash,
		ResultSeal:        req.ResultSeal,
		AuthorizationSign: req.AuthorizationSign,
	})
	require.NoError(t, err)

	_, err = ms.Consensus(f.Ctx, &types.MsgConsensus{Scheduler: m.scheduler.Address, TaskID: taskID, ConsensusValue: req.ResultHash})
	require.NoError(t, err)
	_, err = ms.Reveal(f.Ctx, &types.MsgReveal{Worker: w.Address, TaskID: taskID, ResultDigest: digest})
	require.NoError(t, err)
	_, err = ms.Finalize(f.Ctx, &types.MsgFinalize{Scheduler: m.scheduler.Address, TaskID: taskID, Results: []byte("r")})
	require.NoError(t, err)

	_, err = ms.Withdraw(f.Ctx, &types.MsgWithdraw{Owner: w.Address, Amount: initialFunds.AddRaw(990)})
	require.NoError(t, err)
	require.Equal(t, initialFunds.AddRaw(990).String(), f.Balance(w.Address).String())

	_, err = ms.Withdraw(f.Ctx, &types.MsgWithdraw{Owner: w.Address, Amount: math.OneInt()})
	require.ErrorIs(t, err, types.ErrInsufficientStake)
}

func TestMsgServerContributeAndFinalize(t *testing.T) {
	f := keepertest.NewPocoFixture(t)
	ms := keeper.NewMsgServerImpl(*f.Keeper)
	m := newMarket(t, f)

	_, taskID := m.task(t, 1)
	w := m.newWorker(t)
	_, err := ms.ContributeAndFinalize(f.Ctx, &types.MsgContributeAndFinalize{
		Worker:            w.Address,
		TaskID:            taskID,
		ResultDigest:      digestOf("fast"),
		Results:           []byte("ok"),
		AuthorizationSign: keepertest.Authorize(t, m.scheduler, w.Address, taskID, common.Address{}),
	})
	require.NoError(t, err)
	require.Equal(t, types.TaskStatusCompleted, m.getTask(t, taskID).Status)

	_, err = ms.Claim(f.Ctx, &types.MsgClaim{Sender: w.Address, TaskID: taskID})
	require.ErrorIs(t, err, types.ErrTaskAlreadyFinal)
}

func TestMsgServerBatches(t *testing.T) {
	f := keepertest.NewPocoFixture(t)
	ms := keeper.NewMsgServerImpl(*f.Keeper)
	m := newMarket(t, f)

	payer := keepertest.NewActor(t)
	w := keepertest.NewActor(t)
	f.Fund(t, payer.Address, math.NewInt(500))
	_, err := ms.DepositFor(f.Ctx, &types.MsgDepositFor{Payer: payer.Address, Beneficiary: w.Address, Amount: math.NewInt(200)})
	require.NoError(t, err)
	_, err = ms.DepositForArray(f.Ctx, &types.MsgDepositForArray{
		Payer:         payer.Address,
		Beneficiaries: []common.Address{w.Address, m.requester.Address},
		Amounts:       []math.Int{math.NewInt(100), math.NewInt(200)},
	})
	require.NoError(t, err)
	_, err = ms.WithdrawTo(f.Ctx, &types.MsgWithdrawTo{Owner: w.Address, Recipient: payer.Address, Amount: math.NewInt(300)})
	require.NoError(t, err)
	require.Equal(t, int64(300), f.Balance(payer.Address).Int64())

	deal := m.deal(t, 3, 1)
	initialized, err := ms.InitializeArray(f.Ctx, &types.MsgInitializeArray{
		Sender:  payer.Address,
		DealIDs: []common.Hash{deal.ID, deal.ID},
		Indexes: []uint64{0, 1},
	})
	require.NoError(t, err)
	require.Len(t, initialized.TaskIDs, 2)

	_, err = ms.ClaimArray(f.Ctx, &types.MsgClaimArray{Sender: payer.Address})
	require.ErrorIs(t, err, types.ErrInvalidArrayLength)

	m.advance(10 * xsTimeRef)
	_, err = ms.ClaimArray(f.Ctx, &types.MsgClaimArray{Sender: payer.Address, TaskIDs: initialized.TaskIDs})
	require.NoError(t, err)
	claimed, err := ms.InitializeAndClaimArray(f.Ctx, &types.MsgInitializeAndClaimArray{
		Sender:  payer.Address,
		DealIDs: []common.Hash{deal.ID},
		Indexes: []uint64{2},
	})
	require.NoError(t, err)
	require.Equal(t, []common.Hash{types.TaskID(deal.ID, deal.BotFirst+2)}, claimed.TaskIDs)

	requester := m.account(t, m.requester.Address)
	require.True(t, requester.Frozen.IsZero())
	require.Equal(t, initialFunds.AddRaw(200).String(), requester.Stake.String())
}

func TestMsgServerRegistry(t *testing.T) {
	f := keepertest.NewPocoFixture(t)
	ms := keeper.NewMsgServerImpl(*f.Keeper)
	owner := keepertest.NewActor(t)

	res, err := ms.RegisterAsset(f.Ctx, &types.MsgRegisterAsset{Owner: owner.Address, Kind: types.AssetKindWorkerpool, Name: "pool"})
	require.NoError(t, err)
	require.Equal(t, types.AssetAddress(types.AssetKindWorkerpool, owner.Address, "pool"), res.Address)

	_, err = ms.RegisterAsset(f.Ctx, &types.MsgRegisterAsset{Owner: owner.Address, Kind: types.AssetKindWorkerpool, Name: "pool"})
	require.ErrorIs(t, err, types.ErrAssetExists)

	policy := types.WorkerpoolPolicy{WorkerStakeRatio: 50, SchedulerRewardRatio: 20}
	_, err = ms.UpdateWorkerpoolPolicy(f.Ctx, &types.MsgUpdateWorkerpoolPolicy{Owner: owner.Address, Workerpool: res.Address, Policy: policy})
	require.NoError(t, err)
	asset, found, err := f.Keeper.GetAsset(f.Ctx, res.Address)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, policy, asset.Policy)

	stranger := keepertest.NewActor(t)
	_, err = ms.UpdateWorkerpoolPolicy(f.Ctx, &types.MsgUpdateWorkerpoolPolicy{Owner: stranger.Address, Workerpool: res.Address, Policy: policy})
	require.ErrorIs(t, err, types.ErrUnauthorized)

	_, err = ms.UpdateWorkerpoolPolicy(f.Ctx, &types.MsgUpdateWorkerpoolPolicy{
		Owner:      owner.Address,
		Workerpool: res.Address,
		Policy:     types.WorkerpoolPolicy{WorkerStakeRatio: 101},
	})
	require.ErrorIs(t, err, types.ErrInvalidPolicy)
}

func TestMsgServerGovernance(t *testing.T) {
	f := keepertest.NewPocoFixture(t)
	ms := keeper.NewMsgServerImpl(*f.Keeper)
	outsider := sdk.AccAddress(keepertest.NewActor(t).Address.Bytes()).String()

	created, err := ms.CreateCategory(f.Ctx, &types.MsgCreateCategory{
		Authority:        f.Authority,
		Name:             "XXL",
		Description:      "{}",
		WorkClockTimeRef: 100000,
	})
	require.NoError(t, err)
	require.Equal(t, uint64(len(types.DefaultCategories())), created.ID)

	_, err = ms.CreateCategory(f.Ctx, &types.MsgCreateCategory{Authority: outsider, Name: "X", WorkClockTimeRef: 1})
	require.ErrorIs(t, err, govtypes.ErrInvalidSigner)

	params := types.DefaultParams()
	params.KittyRatio = 20
	_, err = ms.UpdateParams(f.Ctx, &types.MsgUpdateParams{Authority: f.Authority, Params: params})
	require.NoError(t, err)
	stored, err := f.Keeper.GetParams(f.Ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(20), stored.KittyRatio)

	_, err = ms.UpdateParams(f.Ctx, &types.MsgUpdateParams{Authority: outsider, Params: params})
	require.ErrorIs(t, err, govtypes.ErrInvalidSigner)

	params.FinalDeadlineRatio = 0
	_, err = ms.UpdateParams(f.Ctx, &types.MsgUpdateParams{Authority: f.Authority, Params: params})
	require.Error(t, err)
}

func TestMsgServerValidateBasic(t *testing.T) {
	f := keepertest.NewPocoFixture(t)
	ms := keeper.NewMsgServerImpl(*f.Keeper)
	someone := keepertest.NewActor(t).Address

	_, err := ms.Deposit(f.Ctx, &types.MsgDeposit{Amount: math.OneInt()})
	require.ErrorIs(t, err, types.ErrInvalidAddress)

	_, err = ms.Deposit(f.Ctx, &types.MsgDeposit{Owner: someone, Amount: math.ZeroInt()})
	require.ErrorIs(t, err, types.ErrInvalidAmount)

	_, err = ms.ManageOrder(f.Ctx, &types.MsgManageOrder{
		Signer:       someone,
		AppOrder:     &types.AppOrder{},
		RequestOrder: &types.RequestOrder{},
	})
	require.ErrorIs(t, err, types.ErrInvalidOrder)

	_, err = ms.Initialize(f.Ctx, &types.MsgInitialize{Sender: someone})
	require.ErrorIs(t, err, types.ErrInvalidResult)

	_, err = ms.RetryCallback(f.Ctx, &types.MsgRetryCallback{Sender: someone, TaskID: common.HexToHash("0x01")})
	require.ErrorIs(t, err, types.ErrCallbackNotPending)
}
