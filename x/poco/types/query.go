package types

import (
	"context"

	"github.com/cosmos/cosmos-sdk/types/query"
	"github.com/ethereum/go-ethereum/common"
)

// QueryServer is the read surface of the poco module.
type QueryServer interface {
	Params(context.Context, *QueryParamsRequest) (*QueryParamsResponse, error)
	Account(context.Context, *QueryAccountRequest) (*QueryAccountResponse, error)
	Score(context.Context, *QueryScoreRequest) (*QueryScoreResponse, error)
	Deal(context.Context, *QueryDealRequest) (*QueryDealResponse, error)
	DealsByRequest(context.Context, *QueryDealsByRequestRequest) (*QueryDealsByRequestResponse, error)
	Task(context.Context, *QueryTaskRequest) (*QueryTaskResponse, error)
	Contribution(context.Context, *QueryContributionRequest) (*QueryContributionResponse, error)
	Consumed(context.Context, *QueryConsumedRequest) (*QueryConsumedResponse, error)
	Category(context.Context, *QueryCategoryRequest) (*QueryCategoryResponse, error)
	Asset(context.Context, *QueryAssetRequest) (*QueryAssetResponse, error)
	PendingCallbacks(context.Context, *QueryPendingCallbacksRequest) (*QueryPendingCallbacksResponse, error)
}

type QueryParamsRequest struct{}

type QueryParamsResponse struct {
	Params Params `json:"params"`
}

type QueryAccountRequest struct {
	Address common.Address `json:"address"`
}

type QueryAccountResponse struct {
	Account Account `json:"account"`
}

type QueryScoreRequest struct {
	Worker common.Address `json:"worker"`
}

type QueryScoreResponse struct {
	Score uint64 `json:"score"`
}

type QueryDealRequest struct {
	DealID common.Hash `json:"deal_id"`
}

type QueryDealResponse struct {
	Deal Deal `json:"deal"`
}

type QueryDealsByRequestRequest struct {
	RequestHash common.Hash        `json:"request_hash"`
	Pagination  *query.PageRequest `json:"pagination,omitempty"`
}

type QueryDealsByRequestResponse struct {
	Deals      []Deal              `json:"deals"`
	Pagination *query.PageResponse `json:"pagination,omitempty"`
}

type QueryTaskRequest struct {
	TaskID common.Hash `json:"task_id"`
}

type QueryTaskResponse struct {
	Task         Task             `json:"task"`
	Contributors []common.Address `json:"contributors"`
}

type QueryContributionRequest struct {
	TaskID common.Hash    `json:"task_id"`
	Worker common.Address `json:"worker"`
}

type QueryContributionResponse struct {
	Contribution Contribution `json:"contribution"`
}

type QueryConsumedRequest struct {
	OrderHash common.Hash `json:"order_hash"`
}

type QueryConsumedResponse struct {
	Consumed uint64 `json:"consumed"`
}

type QueryCategoryRequest struct {
	ID uint64 `json:"id"`
}

type QueryCategoryResponse struct {
	Category Category `json:"category"`
}

type QueryAssetRequest struct {
	Address common.Address `json:"address"`
}

type QueryAssetResponse struct {
	Asset Asset `json:"asset"`
}

type QueryPendingCallbacksRequest struct {
	Pagination *query.PageRequest `json:"pagination,omitempty"`
}

type QueryPendingCallbacksResponse struct {
	Callbacks  []PendingCallback   `json:"callbacks"`
	Pagination *query.PageResponse `json:"pagination,omitempty"`
}
