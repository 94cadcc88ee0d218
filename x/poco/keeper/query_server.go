package keeper

import (
	"context"

	storeprefix "cosmossdk.io/store/prefix"
	"github.com/cosmos/cosmos-sdk/types/query"
	"github.com/ethereum/go-ethereum/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/paw-chain/poco/x/poco/types"
)

var _ types.QueryServer = queryServer{}

const (
	defaultPaginationLimit = 100
	maxPaginationLimit     = 1000
)

type queryServer struct {
	Keeper
}

// NewQueryServerImpl returns an implementation of the QueryServer interface
func NewQueryServerImpl(keeper Keeper) types.QueryServer {
	return &queryServer{Keeper: keeper}
}

// sanitizePagination enforces default and max limits to prevent unbounded queries.
func sanitizePagination(p *query.PageRequest) *query.PageRequest {
	if p == nil {
		return &query.PageRequest{Limit: defaultPaginationLimit}
	}
	if p.Limit == 0 {
		p.Limit = defaultPaginationLimit
	}
	if p.Limit > maxPaginationLimit {
		p.Limit = maxPaginationLimit
	}
	return p
}

// Params returns the module parameters
func (qs queryServer) Params(ctx context.Context, req *types.QueryParamsRequest) (*types.QueryParamsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}
	params, err := qs.Keeper.GetParams(ctx)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &types.QueryParamsResponse{Params: params}, nil
}

// Account returns the stake and frozen balance of an address
func (qs queryServer) Account(ctx context.Context, req *types.QueryAccountRequest) (*types.QueryAccountResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}
	acc, err := qs.Keeper.GetAccount(ctx, req.Address)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &types.QueryAccountResponse{Account: acc}, nil
}

// Score returns a worker's reputation
func (qs queryServer) Score(ctx context.Context, req *types.QueryScoreRequest) (*types.QueryScoreResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}
	return &types.QueryScoreResponse{Score: qs.Keeper.GetScore(ctx, req.Worker)}, nil
}

// Deal returns a deal by id
func (qs queryServer) Deal(ctx context.Context, req *types.QueryDealRequest) (*types.QueryDealResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}
	deal, found, err := qs.Keeper.getDeal(ctx, req.DealID)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	if !found {
		return nil, status.Errorf(codes.NotFound, "deal %s not found", req.DealID.Hex())
	}
	return &types.QueryDealResponse{Deal: deal}, nil
}

// DealsByRequest returns the deals of one request order with pagination
func (qs queryServer) DealsByRequest(ctx context.Context, req *types.QueryDealsByRequestRequest) (*types.QueryDealsByRequestResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}
	req.Pagination = sanitizePagination(req.Pagination)

	store := storeprefix.NewStore(qs.Keeper.getStore(ctx), GetDealsByRequestPrefix(req.RequestHash))
	var deals []types.Deal
	pageRes, err := query.Paginate(store, req.Pagination, func(_, value []byte) error {
		deal, err := qs.Keeper.GetDeal(ctx, common.BytesToHash(value))
		if err != nil {
			return err
		}
		deals = append(deals, deal)
		return nil
	})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &types.QueryDealsByRequestResponse{Deals: deals, Pagination: pageRes}, nil
}

// Task returns a task and its contributors
func (qs queryServer) Task(ctx context.Context, req *types.QueryTaskRequest) (*types.QueryTaskResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}
	task, found, err := qs.Keeper.getTask(ctx, req.TaskID)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	if !found {
		return nil, status.Errorf(codes.NotFound, "task %s not found", req.TaskID.Hex())
	}
	return &types.QueryTaskResponse{
		Task:         task,
		Contributors: qs.Keeper.Contributors(ctx, req.TaskID),
	}, nil
}

// Contribution returns a worker's contribution to a task
func (qs queryServer) Contribution(ctx context.Context, req *types.QueryContributionRequest) (*types.QueryContributionResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}
	c, found, err := qs.Keeper.GetContribution(ctx, req.TaskID, req.Worker)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	if !found {
		return nil, status.Errorf(codes.NotFound, "no contribution from %s", req.Worker.Hex())
	}
	return &types.QueryContributionResponse{Contribution: c}, nil
}

// Consumed returns the consumed volume of an order
func (qs queryServer) Consumed(ctx context.Context, req *types.QueryConsumedRequest) (*types.QueryConsumedResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}
	return &types.QueryConsumedResponse{Consumed: qs.Keeper.GetConsumed(ctx, req.OrderHash)}, nil
}

// Category returns a work category
func (qs queryServer) Category(ctx context.Context, req *types.QueryCategoryRequest) (*types.QueryCategoryResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}
	category, err := qs.Keeper.GetCategory(ctx, req.ID)
	if err != nil {
		return nil, status.Error(codes.NotFound, err.Error())
	}
	return &types.QueryCategoryResponse{Category: category}, nil
}

// Asset returns a registered asset
func (qs queryServer) Asset(ctx context.Context, req *types.QueryAssetRequest) (*types.QueryAssetResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}
	asset, found, err := qs.Keeper.GetAsset(ctx, req.Address)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	if !found {
		return nil, status.Errorf(codes.NotFound, "asset %s not found", req.Address.Hex())
	}
	return &types.QueryAssetResponse{Asset: asset}, nil
}

// PendingCallbacks lists failed callback deliveries with pagination
func (qs queryServer) PendingCallbacks(ctx context.Context, req *types.QueryPendingCallbacksRequest) (*types.QueryPendingCallbacksResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}
	req.Pagination = sanitizePagination(req.Pagination)

	store := storeprefix.NewStore(qs.Keeper.getStore(ctx), PendingCallbackPrefix)
	var callbacks []types.PendingCallback
	pageRes, err := query.Paginate(store, req.Pagination, func(_, value []byte) error {
		var pending types.PendingCallback
		if err := qs.Keeper.cdc.Unmarshal(value, &pending); err != nil {
			return err
		}
		callbacks = append(callbacks, pending)
		return nil
	})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &types.QueryPendingCallbacksResponse{Callbacks: callbacks, Pagination: pageRes}, nil
}
