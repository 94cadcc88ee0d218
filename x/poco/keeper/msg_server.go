package keeper

import (
	"context"

	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/hashicorp/go-metrics"

	"github.com/paw-chain/poco/x/poco/types"
)

var _ types.MsgServer = msgServer{}

type msgServer struct {
	Keeper
}

// NewMsgServerImpl returns an implementation of the MsgServer interface
func NewMsgServerImpl(keeper Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

// Deposit handles a transfer from bank balance to ledger stake
func (ms msgServer) Deposit(goCtx context.Context, msg *types.MsgDeposit) (*types.MsgDepositResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := ms.Keeper.Deposit(goCtx, msg.Owner, msg.Amount); err != nil {
		return nil, err
	}
	return &types.MsgDepositResponse{}, nil
}

// Withdraw handles a transfer from ledger stake to bank balance
func (ms msgServer) Withdraw(goCtx context.Context, msg *types.MsgWithdraw) (*types.MsgWithdrawResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := ms.Keeper.Withdraw(goCtx, msg.Owner, msg.Amount); err != nil {
		return nil, err
	}
	return &types.MsgWithdrawResponse{}, nil
}

// RegisterAsset handles registration of an app, dataset or workerpool
func (ms msgServer) RegisterAsset(goCtx context.Context, msg *types.MsgRegisterAsset) (*types.MsgRegisterAssetResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	addr, err := ms.Keeper.RegisterAsset(goCtx, msg.Owner, msg.Kind, msg.Name)
	if err != nil {
		return nil, err
	}
	return &types.MsgRegisterAssetResponse{Address: addr}, nil
}

// UpdateWorkerpoolPolicy handles a workerpool owner's policy change
func (ms msgServer) UpdateWorkerpoolPolicy(goCtx context.Context, msg *types.MsgUpdateWorkerpoolPolicy) (*types.MsgUpdateWorkerpoolPolicyResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := ms.Keeper.UpdateWorkerpoolPolicy(goCtx, msg.Owner, msg.Workerpool, msg.Policy); err != nil {
		return nil, err
	}
	return &types.MsgUpdateWorkerpoolPolicyResponse{}, nil
}

// CreateCategory handles governance creation of a work category
func (ms msgServer) CreateCategory(goCtx context.Context, msg *types.MsgCreateCategory) (*types.MsgCreateCategoryResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	id, err := ms.Keeper.CreateCategory(goCtx, msg.Authority, msg.Name, msg.Description, msg.WorkClockTimeRef)
	if err != nil {
		return nil, err
	}
	return &types.MsgCreateCategoryResponse{ID: id}, nil
}

// UpdateParams handles governance parameter updates
func (ms msgServer) UpdateParams(goCtx context.Context, msg *types.MsgUpdateParams) (*types.MsgUpdateParamsResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := ms.Keeper.UpdateParams(goCtx, msg.Authority, msg.Params); err != nil {
		return nil, err
	}
	return &types.MsgUpdateParamsResponse{}, nil
}

// ManageOrder handles on-ledger presigning and closing of orders
func (ms msgServer) ManageOrder(goCtx context.Context, msg *types.MsgManageOrder) (*types.MsgManageOrderResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	order, err := msg.Order()
	if err != nil {
		return nil, err
	}
	hash, err := ms.Keeper.ManageOrder(goCtx, msg.Signer, order, msg.Operation)
	if err != nil {
		return nil, err
	}
	return &types.MsgManageOrderResponse{OrderHash: hash}, nil
}

// MatchOrders handles matching of an order tuple into a deal
func (ms msgServer) MatchOrders(goCtx context.Context, msg *types.MsgMatchOrders) (*types.MsgMatchOrdersResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	deal, err := SafeExecuteWithReturn(ctx, "MatchOrders", func() (types.Deal, error) {
		return ms.Keeper.MatchOrders(ctx, msg.Sender, msg.AppOrder, msg.DatasetOrder, msg.WorkerpoolOrder, msg.RequestOrder, msg.Sponsored)
	})
	if err != nil {
		return nil, err
	}
	telemetry.IncrCounterWithLabels(
		[]string{types.ModuleName, "deals_matched"},
		1,
		[]metrics.Label{telemetry.NewLabel("workerpool", deal.Workerpool.Pointer.Hex())},
	)
	return &types.MsgMatchOrdersResponse{DealID: deal.ID, Volume: deal.BotSize}, nil
}

// Initialize handles the opening of a task
func (ms msgServer) Initialize(goCtx context.Context, msg *types.MsgInitialize) (*types.MsgInitializeResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	taskID, err := ms.Keeper.Initialize(goCtx, msg.DealID, msg.Index)
	if err != nil {
		return nil, err
	}
	return &types.MsgInitializeResponse{TaskID: taskID}, nil
}

// Contribute handles a worker's commitment
func (ms msgServer) Contribute(goCtx context.Context, msg *types.MsgContribute) (*types.MsgContributeResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	err := ms.Keeper.Contribute(goCtx, ContributionRequest{
		Worker:            msg.Worker,
		TaskID:            msg.TaskID,
		ResultHash:        msg.ResultHash,
		ResultSeal:        msg.ResultSeal,
		Enclave:           msg.Enclave,
		EnclaveSign:       msg.EnclaveSign,
		AuthorizationSign: msg.AuthorizationSign,
	})
	if err != nil {
		return nil, err
	}
	return &types.MsgContributeResponse{}, nil
}

// Consensus handles the scheduler's consensus declaration
func (ms msgServer) Consensus(goCtx context.Context, msg *types.MsgConsensus) (*types.MsgConsensusResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := ms.Keeper.Consensus(goCtx, msg.Scheduler, msg.TaskID, msg.ConsensusValue); err != nil {
		return nil, err
	}
	return &types.MsgConsensusResponse{}, nil
}

// Reveal handles a worker's reveal of its result digest
func (ms msgServer) Reveal(goCtx context.Context, msg *types.MsgReveal) (*types.MsgRevealResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := ms.Keeper.Reveal(goCtx, msg.Worker, msg.TaskID, msg.ResultDigest); err != nil {
		return nil, err
	}
	return &types.MsgRevealResponse{}, nil
}

// Reopen handles the reset of a task whose reveal phase timed out
func (ms msgServer) Reopen(goCtx context.Context, msg *types.MsgReopen) (*types.MsgReopenResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := ms.Keeper.Reopen(goCtx, msg.Scheduler, msg.TaskID); err != nil {
		return nil, err
	}
	return &types.MsgReopenResponse{}, nil
}

// Finalize handles the settlement of a revealed task
func (ms msgServer) Finalize(goCtx context.Context, msg *types.MsgFinalize) (*types.MsgFinalizeResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	err := SafeExecute(ctx, "Finalize", func() error {
		return ms.Keeper.Finalize(ctx, msg.Scheduler, msg.TaskID, msg.Results, msg.ResultsCallback)
	})
	if err != nil {
		return nil, err
	}
	return &types.MsgFinalizeResponse{}, nil
}

// ContributeAndFinalize handles the single-step completion of a trust-1 task
func (ms msgServer) ContributeAndFinalize(goCtx context.Context, msg *types.MsgContributeAndFinalize) (*types.MsgContributeAndFinalizeResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	req := ContributionRequest{
		Worker:            msg.Worker,
		TaskID:            msg.TaskID,
		Enclave:           msg.Enclave,
		EnclaveSign:       msg.EnclaveSign,
		AuthorizationSign: msg.AuthorizationSign,
	}
	err := SafeExecute(ctx, "ContributeAndFinalize", func() error {
		return ms.Keeper.ContributeAndFinalize(ctx, req, msg.ResultDigest, msg.Results, msg.ResultsCallback)
	})
	if err != nil {
		return nil, err
	}
	return &types.MsgContributeAndFinalizeResponse{}, nil
}

// Claim handles the failure of an expired task
func (ms msgServer) Claim(goCtx context.Context, msg *types.MsgClaim) (*types.MsgClaimResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := SafeExecute(ctx, "Claim", func() error { return ms.Keeper.Claim(ctx, msg.TaskID) }); err != nil {
		return nil, err
	}
	return &types.MsgClaimResponse{}, nil
}

// ClaimSlot handles the failure of a task slot never initialized
func (ms msgServer) ClaimSlot(goCtx context.Context, msg *types.MsgClaimSlot) (*types.MsgClaimSlotResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	taskID, err := ms.Keeper.ClaimSlot(goCtx, msg.DealID, msg.Index)
	if err != nil {
		return nil, err
	}
	return &types.MsgClaimSlotResponse{TaskID: taskID}, nil
}

// DepositFor handles a deposit credited to another ledger account
func (ms msgServer) DepositFor(goCtx context.Context, msg *types.MsgDepositFor) (*types.MsgDepositForResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := ms.Keeper.DepositFor(goCtx, msg.Payer, msg.Beneficiary, msg.Amount); err != nil {
		return nil, err
	}
	return &types.MsgDepositForResponse{}, nil
}

// DepositForArray handles a batch of deposits from one payer
func (ms msgServer) DepositForArray(goCtx context.Context, msg *types.MsgDepositForArray) (*types.MsgDepositForArrayResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := ms.Keeper.DepositForArray(goCtx, msg.Payer, msg.Beneficiaries, msg.Amounts); err != nil {
		return nil, err
	}
	return &types.MsgDepositForArrayResponse{}, nil
}

// WithdrawTo handles a withdrawal paid to another bank account
func (ms msgServer) WithdrawTo(goCtx context.Context, msg *types.MsgWithdrawTo) (*types.MsgWithdrawToResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := ms.Keeper.WithdrawTo(goCtx, msg.Owner, msg.Recipient, msg.Amount); err != nil {
		return nil, err
	}
	return &types.MsgWithdrawToResponse{}, nil
}

// InitializeArray handles the opening of several tasks
func (ms msgServer) InitializeArray(goCtx context.Context, msg *types.MsgInitializeArray) (*types.MsgInitializeArrayResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	taskIDs, err := ms.Keeper.InitializeArray(goCtx, msg.DealIDs, msg.Indexes)
	if err != nil {
		return nil, err
	}
	return &types.MsgInitializeArrayResponse{TaskIDs: taskIDs}, nil
}

// ClaimArray handles the failure of several expired tasks
func (ms msgServer) ClaimArray(goCtx context.Context, msg *types.MsgClaimArray) (*types.MsgClaimArrayResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := SafeExecute(ctx, "ClaimArray", func() error { return ms.Keeper.ClaimArray(ctx, msg.TaskIDs) }); err != nil {
		return nil, err
	}
	return &types.MsgClaimArrayResponse{}, nil
}

// InitializeAndClaimArray handles the failure of several never-initialized slots
func (ms msgServer) InitializeAndClaimArray(goCtx context.Context, msg *types.MsgInitializeAndClaimArray) (*types.MsgInitializeAndClaimArrayResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	taskIDs, err := ms.Keeper.InitializeAndClaimArray(goCtx, msg.DealIDs, msg.Indexes)
	if err != nil {
		return nil, err
	}
	return &types.MsgInitializeAndClaimArrayResponse{TaskIDs: taskIDs}, nil
}

// RetryCallback handles a new delivery attempt of a failed callback
func (ms msgServer) RetryCallback(goCtx context.Context, msg *types.MsgRetryCallback) (*types.MsgRetryCallbackResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	delivered, err := ms.Keeper.RetryCallback(goCtx, msg.TaskID)
	if err != nil {
		return nil, err
	}
	return &types.MsgRetryCallbackResponse{Delivered: delivered}, nil
}
