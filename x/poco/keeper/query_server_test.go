package keeper_test

import (
	"testing"

	"github.com/cosmos/cosmos-sdk/types/query"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	keepertest "github.com/paw-chain/poco/testutil/keeper"
	"github.com/paw-chain/poco/x/poco/keeper"
	"github.com/paw-chain/poco/x/poco/types"
)

func requireCode(t *testing.T, err error, code codes.Code) {
	t.Helper()
	require.Error(t, err)
	st, ok := status.FromError(err)
	require.True(t, ok, "not a grpc status: %v", err)
	require.Equal(t, code, st.Code())
}

func TestQueryServerLookups(t *testing.T) {
	f := keepertest.NewPocoFixture(t)
	qs := keeper.NewQueryServerImpl(*f.Keeper)
	m := newMarket(t, f)

	deal, taskID := m.task(t, 1)
	w := m.newWorker(t)
	digest := digestOf("q")
	m.contribute(t, w, taskID, digest)

	params, err := qs.Params(f.Ctx, &types.QueryParamsRequest{})
	require.NoError(t, err)
	require.Equal(t, types.DefaultParams().KittyRatio, params.Params.KittyRatio)

	acc, err := qs.Account(f.Ctx, &types.QueryAccountRequest{Address: w.Address})
	require.NoError(t, err)
	require.Equal(t, defaultStake.String(), acc.Account.Frozen.String())

	score, err := qs.Score(f.Ctx, &types.QueryScoreRequest{Worker: w.Address})
	require.NoError(t, err)
	require.Zero(t, score.Score)

	dealRes, err := qs.Deal(f.Ctx, &types.QueryDealRequest{DealID: deal.ID})
	require.NoError(t, err)
	require.Equal(t, deal.ID, dealRes.Deal.ID)

	taskRes, err := qs.Task(f.Ctx, &types.QueryTaskRequest{TaskID: taskID})
	require.NoError(t, err)
	require.Equal(t, types.TaskStatusActive, taskRes.Task.Status)
	require.Equal(t, []common.Address{w.Address}, taskRes.Contributors)

	c, err := qs.Contribution(f.Ctx, &types.QueryContributionRequest{TaskID: taskID, Worker: w.Address})
	require.NoError(t, err)
	require.Equal(t, types.ResultHash(taskID, digest), c.Contribution.ResultHash)

	consumed, err := qs.Consumed(f.Ctx, &types.QueryConsumedRequest{OrderHash: deal.RequestHash})
	require.NoError(t, err)
	require.Equal(t, uint64(1), consumed.Consumed)

	cat, err := qs.Category(f.Ctx, &types.QueryCategoryRequest{ID: 0})
	require.NoError(t, err)
	require.Equal(t, "XS", cat.Category.Name)

	asset, err := qs.Asset(f.Ctx, &types.QueryAssetRequest{Address: m.workerpool})
	require.NoError(t, err)
	require.Equal(t, m.scheduler.Address, asset.Asset.Owner)
}

func TestQueryServerNotFound(t *testing.T) {
	f := keepertest.NewPocoFixture(t)
	qs := keeper.NewQueryServerImpl(*f.Keeper)
	missing := common.HexToHash("0xdead")

	_, err := qs.Deal(f.Ctx, &types.QueryDealRequest{DealID: missing})
	requireCode(t, err, codes.NotFound)
	_, err = qs.Task(f.Ctx, &types.QueryTaskRequest{TaskID: missing})
	requireCode(t, err, codes.NotFound)
	_, err = qs.Contribution(f.Ctx, &types.QueryContributionRequest{TaskID: missing, Worker: common.HexToAddress("0x01")})
	requireCode(t, err, codes.NotFound)
	_, err = qs.Category(f.Ctx, &types.QueryCategoryRequest{ID: 99})
	requireCode(t, err, codes.NotFound)
	_, err = qs.Asset(f.Ctx, &types.QueryAssetRequest{Address: common.HexToAddress("0x02")})
	requireCode(t, err, codes.NotFound)
}

func TestQueryServerNilRequests(t *testing.T) {
	f := keepertest.NewPocoFixture(t)
	qs := keeper.NewQueryServerImpl(*f.Keeper)

	calls := map[string]func() error{
		"params":            func() error { _, err := qs.Params(f.Ctx, nil); return err },
		"account":           func() error { _, err := qs.Account(f.Ctx, nil); return err },
		"score":             func() error { _, err := qs.Score(f.Ctx, nil); return err },
		"deal":              func() error { _, err := qs.Deal(f.Ctx, nil); return err },
		"deals by request":  func() error { _, err := qs.DealsByRequest(f.Ctx, nil); return err },
		"task":              func() error { _, err := qs.Task(f.Ctx, nil); return err },
		"contribution":      func() error { _, err := qs.Contribution(f.Ctx, nil); return err },
		"consumed":          func() error { _, err := qs.Consumed(f.Ctx, nil); return err },
		"category":          func() error { _, err := qs.Category(f.Ctx, nil); return err },
		"asset":             func() error { _, err := qs.Asset(f.Ctx, nil); return err },
		"pending callbacks": func() error { _, err := qs.PendingCallbacks(f.Ctx, nil); return err },
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			requireCode(t, call(), codes.InvalidArgument)
		})
	}
}

func TestQueryDealsByRequestPagination(t *testing.T) {
	f := keepertest.NewPocoFixture(t)
	qs := keeper.NewQueryServerImpl(*f.Keeper)
	m := newMarket(t, f)

	// one request of volume 3 filled by three single-unit workerpool orders
	o := m.orders(3, 1)
	m.sign(t, &o)
	for i := 0; i < 3; i++ {
		o.Workerpool.Volume = 1
		o.Workerpool.Salt = m.nextSalt()
		keepertest.SignOrder(t, m.scheduler, m.domain, &o.Workerpool)
		_, err := m.match(t, o)
		require.NoError(t, err)
	}
	requestHash, err := o.Request.Hash(m.domain)
	require.NoError(t, err)

	page, err := qs.DealsByRequest(f.Ctx, &types.QueryDealsByRequestRequest{
		RequestHash: requestHash,
		Pagination:  &query.PageRequest{Limit: 2, CountTotal: true},
	})
	require.NoError(t, err)
	require.Len(t, page.Deals, 2)
	require.Equal(t, uint64(3), page.Pagination.Total)
	require.Equal(t, uint64(0), page.Deals[0].BotFirst)
	require.Equal(t, uint64(1), page.Deals[1].BotFirst)

	rest, err := qs.DealsByRequest(f.Ctx, &types.QueryDealsByRequestRequest{
		RequestHash: requestHash,
		Pagination:  &query.PageRequest{Key: page.Pagination.NextKey},
	})
	require.NoError(t, err)
	require.Len(t, rest.Deals, 1)
	require.Equal(t, uint64(2), rest.Deals[0].BotFirst)
	require.Nil(t, rest.Pagination.NextKey)
}

func TestQueryPendingCallbacks(t *testing.T) {
	f := keepertest.NewPocoFixture(t)
	f.Keeper.SetHooks(&recordingHooks{failDelivery: true})
	qs := keeper.NewQueryServerImpl(*f.Keeper)
	m := newMarket(t, f)

	payload := []byte("pending")
	taskID := revealedCallbackTask(t, m, payload)
	require.NoError(t, f.Keeper.Finalize(f.Ctx, m.scheduler.Address, taskID, nil, payload))

	res, err := qs.PendingCallbacks(f.Ctx, &types.QueryPendingCallbacksRequest{})
	require.NoError(t, err)
	require.Len(t, res.Callbacks, 1)
	require.Equal(t, taskID, res.Callbacks[0].TaskID)
}
