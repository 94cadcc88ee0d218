package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	keepertest "github.com/paw-chain/poco/testutil/keeper"
	"github.com/paw-chain/poco/x/poco/types"
)

func TestMatchOrders(t *testing.T) {
	f := keepertest.NewPocoFixture(t)
	m := newMarket(t, f)

	o := m.orders(3, 1)
	m.sign(t, &o)
	deal, err := m.match(t, o)
	require.NoError(t, err)

	requestHash, err := o.Request.Hash(m.domain)
	require.NoError(t, err)
	require.Equal(t, types.DealID(requestHash, 0), deal.ID)
	require.Equal(t, uint64(0), deal.BotFirst)
	require.Equal(t, uint64(3), deal.BotSize)
	require.Equal(t, uint64(1), deal.Trust)
	require.Equal(t, m.scheduler.Address, deal.Scheduler())
	require.Equal(t, m.requester.Address, deal.Sponsor)
	require.True(t, deal.WorkerStake.Equal(defaultStake))
	require.True(t, deal.SchedulerStake.Equal(defaultStake))
	require.True(t, deal.TaskPrice().Equal(taskPrice()))
	require.Equal(t, uint64(f.Ctx.BlockTime().Unix()), deal.StartTime)

	requester := m.account(t, m.requester.Address)
	require.True(t, requester.Frozen.Equal(taskPrice().MulRaw(3)))
	require.True(t, requester.Total().Equal(initialFunds))

	scheduler := m.account(t, m.scheduler.Address)
	require.True(t, scheduler.Frozen.Equal(defaultStake.MulRaw(3)))

	for _, h := range []func(types.Domain) (common.Hash, error){o.App.Hash, o.Dataset.Hash, o.Workerpool.Hash, o.Request.Hash} {
		hash, err := h(m.domain)
		require.NoError(t, err)
		require.Equal(t, uint64(3), f.Keeper.GetConsumed(f.Ctx, hash))
	}

	stored, err := f.Keeper.GetDeal(f.Ctx, deal.ID)
	require.NoError(t, err)
	require.Equal(t, deal.ID, stored.ID)

	byRequest, err := f.Keeper.GetDealsByRequest(f.Ctx, requestHash)
	require.NoError(t, err)
	require.Len(t, byRequest, 1)
}

func TestMatchOrdersWithoutDataset(t *testing.T) {
	f := keepertest.NewPocoFixture(t)
	m := newMarket(t, f)

	o := m.orders(1, 1)
	o.Dataset = types.DatasetOrder{}
	o.Request.Dataset = common.Address{}
	o.Request.DatasetMaxPrice = math.ZeroInt()
	keepertest.SignOrder(t, m.appOwner, m.domain, &o.App)
	keepertest.SignOrder(t, m.scheduler, m.domain, &o.Workerpool)
	keepertest.SignOrder(t, m.requester, m.domain, &o.Request)

	deal, err := m.match(t, o)
	require.NoError(t, err)
	require.True(t, deal.Dataset.Price.IsZero())
	require.Equal(t, common.Address{}, deal.Dataset.Owner)
	require.True(t, deal.TaskPrice().Equal(appPrice.Add(workerpoolPrice)))
}

func TestMatchOrdersVolumePartition(t *testing.T) {
	f := keepertest.NewPocoFixture(t)
	m := newMarket(t, f)

	o := m.orders(10, 1)
	o.Workerpool.Volume = 3
	o.Request.Volume = 2
	m.sign(t, &o)

	first, err := m.match(t, o)
	require.NoError(t, err)
	require.Equal(t, uint64(2), first.BotSize)

	// the request is exhausted
	_, err = m.match(t, o)
	require.ErrorIs(t, err, types.ErrNoMatchableVolume)

	// a second request only gets what is left of the workerpool order
	o.Request.Volume = 10
	o.Request.Salt = m.nextSalt()
	keepertest.SignOrder(t, m.requester, m.domain, &o.Request)
	second, err := m.match(t, o)
	require.NoError(t, err)
	require.Equal(t, uint64(1), second.BotSize)
	require.Equal(t, uint64(0), second.BotFirst)

	_, err = m.match(t, o)
	require.ErrorIs(t, err, types.ErrNoMatchableVolume)

	appHash, err := o.App.Hash(m.domain)
	require.NoError(t, err)
	require.Equal(t, uint64(3), f.Keeper.GetConsumed(f.Ctx, appHash))

	// a new workerpool order continues the request's task window
	o.Workerpool.Volume = 5
	o.Workerpool.Salt = m.nextSalt()
	keepertest.SignOrder(t, m.scheduler, m.domain, &o.Workerpool)
	third, err := m.match(t, o)
	require.NoError(t, err)
	require.Equal(t, uint64(1), third.BotFirst)
	require.Equal(t, uint64(5), third.BotSize)
	require.NotEqual(t, second.ID, third.ID)

	requestHash, err := o.Request.Hash(m.domain)
	require.NoError(t, err)
	require.Equal(t, uint64(6), f.Keeper.GetConsumed(f.Ctx, requestHash))
	require.Equal(t, uint64(8), f.Keeper.GetConsumed(f.Ctx, appHash))
}

// A request may ask for less trust than the workerpool offers and a subset of
// its tag; the deal carries the request's trust and the required tag bits.
func TestMatchOrdersTrustAndTagBounds(t *testing.T) {
	f := keepertest.NewPocoFixture(t)
	m := newMarket(t, f)
	var offered, required common.Hash
	offered[31] = 0x06
	required[31] = 0x02

	o := m.orders(1, 4)
	o.Request.Trust = 2
	o.Workerpool.Tag = offered
	o.Request.Tag = required
	m.sign(t, &o)
	deal, err := m.match(t, o)
	require.NoError(t, err)
	require.Equal(t, uint64(2), deal.Trust)
	require.Equal(t, required, deal.Tag)
}

func TestMatchOrdersRejections(t *testing.T) {
	stranger := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	var extraTag, teeTag common.Hash
	extraTag[31] = 0x02
	teeTag[31] = 0x01

	tests := []struct {
		name   string
		mutate func(*orderSet)
		tamper func(*orderSet)
		err    error
	}{
		{
			name:   "category mismatch",
			mutate: func(o *orderSet) { o.Request.Category = 1 },
			err:    types.ErrCategoryMismatch,
		},
		{
			name: "unknown category",
			mutate: func(o *orderSet) {
				o.Request.Category = 99
				o.Workerpool.Category = 99
			},
			err: types.ErrCategoryMismatch,
		},
		{
			name:   "trust above workerpool",
			mutate: func(o *orderSet) { o.Request.Trust = 5 },
			err:    types.ErrTrustMismatch,
		},
		{
			name:   "app price above max",
			mutate: func(o *orderSet) { o.Request.AppMaxPrice = appPrice.SubRaw(1) },
			err:    types.ErrPriceMismatch,
		},
		{
			name:   "dataset price above max",
			mutate: func(o *orderSet) { o.Request.DatasetMaxPrice = math.ZeroInt() },
			err:    types.ErrPriceMismatch,
		},
		{
			name:   "workerpool price above max",
			mutate: func(o *orderSet) { o.Request.WorkerpoolMaxPrice = math.NewInt(999) },
			err:    types.ErrPriceMismatch,
		},
		{
			name:   "tag not offered",
			mutate: func(o *orderSet) { o.Request.Tag = extraTag },
			err:    types.ErrTagMismatch,
		},
		{
			name: "enclave without enclave app",
			mutate: func(o *orderSet) {
				o.Request.Tag = teeTag
				o.Workerpool.Tag = teeTag
			},
			err: types.ErrTagMismatch,
		},
		{
			name:   "app pointer mismatch",
			mutate: func(o *orderSet) { o.Request.App = stranger },
			err:    types.ErrAssetMismatch,
		},
		{
			name:   "workerpool restricted by request",
			mutate: func(o *orderSet) { o.Request.Workerpool = stranger },
			err:    types.ErrAssetMismatch,
		},
		{
			name:   "app restricted to another requester",
			mutate: func(o *orderSet) { o.App.RequesterRestrict = stranger },
			err:    types.ErrRestrictionMismatch,
		},
		{
			name:   "dataset restricted to another workerpool",
			mutate: func(o *orderSet) { o.Dataset.WorkerpoolRestrict = stranger },
			err:    types.ErrRestrictionMismatch,
		},
		{
			name:   "workerpool restricted to another app",
			mutate: func(o *orderSet) { o.Workerpool.AppRestrict = stranger },
			err:    types.ErrRestrictionMismatch,
		},
		{
			name:   "request tampered after signing",
			tamper: func(o *orderSet) { o.Request.Params = "tampered" },
			err:    types.ErrInvalidSignature,
		},
		{
			name:   "workerpool signed by someone else",
			tamper: func(o *orderSet) { o.Workerpool.Sign = o.App.Sign },
			err:    types.ErrInvalidSignature,
		},
		{
			name: "sponsor cannot cover the volume",
			mutate: func(o *orderSet) {
				o.App.Volume = 1000
				o.Dataset.Volume = 1000
				o.Workerpool.Volume = 1000
				o.Request.Volume = 1000
			},
			err: types.ErrInsufficientStake,
		},
		{
			name:   "zero volume",
			mutate: func(o *orderSet) { o.App.Volume = 0 },
			err:    types.ErrNoMatchableVolume,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := keepertest.NewPocoFixture(t)
			m := newMarket(t, f)

			o := m.orders(1, 1)
			if tc.mutate != nil {
				tc.mutate(&o)
			}
			m.sign(t, &o)
			if tc.tamper != nil {
				tc.tamper(&o)
			}

			_, err := m.match(t, o)
			require.ErrorIs(t, err, tc.err)

			// nothing is consumed or locked by a rejected match
			requestHash, err := o.Request.Hash(m.domain)
			require.NoError(t, err)
			require.Zero(t, f.Keeper.GetConsumed(f.Ctx, requestHash))
			require.True(t, m.account(t, m.requester.Address).Frozen.IsZero())
			require.True(t, m.account(t, m.scheduler.Address).Frozen.IsZero())
		})
	}
}

func TestMatchOrdersSponsored(t *testing.T) {
	f := keepertest.NewPocoFixture(t)
	m := newMarket(t, f)
	sponsor := keepertest.NewActor(t)
	f.FundAndDeposit(t, sponsor.Address, initialFunds)

	o := m.orders(2, 1)
	m.sign(t, &o)
	deal, err := f.Keeper.MatchOrders(f.Ctx, sponsor.Address, o.App, o.Dataset, o.Workerpool, o.Request, true)
	require.NoError(t, err)
	require.Equal(t, sponsor.Address, deal.Sponsor)
	require.Equal(t, m.requester.Address, deal.Requester)

	require.True(t, m.account(t, sponsor.Address).Frozen.Equal(taskPrice().MulRaw(2)))
	require.True(t, m.account(t, m.requester.Address).Frozen.IsZero())
}

func TestManageOrder(t *testing.T) {
	f := keepertest.NewPocoFixture(t)
	m := newMarket(t, f)

	t.Run("presigned request matches without a signature", func(t *testing.T) {
		o := m.orders(1, 1)
		m.sign(t, &o)
		o.Request.Sign = nil

		_, err := m.match(t, o)
		require.ErrorIs(t, err, types.ErrInvalidSignature)

		hash, err := f.Keeper.ManageOrder(f.Ctx, m.requester.Address, o.Request, types.OrderOperationSign)
		require.NoError(t, err)
		expected, err := o.Request.Hash(m.domain)
		require.NoError(t, err)
		require.Equal(t, expected, hash)

		_, err = m.match(t, o)
		require.NoError(t, err)
	})

	t.Run("closed app order cannot be matched", func(t *testing.T) {
		o := m.orders(5, 1)
		m.sign(t, &o)

		_, err := f.Keeper.ManageOrder(f.Ctx, m.appOwner.Address, o.App, types.OrderOperationClose)
		require.NoError(t, err)

		_, err = m.match(t, o)
		require.ErrorIs(t, err, types.ErrNoMatchableVolume)
	})

	t.Run("only the owner manages an order", func(t *testing.T) {
		o := m.orders(1, 1)
		_, err := f.Keeper.ManageOrder(f.Ctx, m.requester.Address, o.Workerpool, types.OrderOperationClose)
		require.ErrorIs(t, err, types.ErrUnauthorized)

		_, err = f.Keeper.ManageOrder(f.Ctx, m.scheduler.Address, o.Workerpool, types.OrderOperation(9))
		require.ErrorIs(t, err, types.ErrInvalidOrderOperation)
	})
}
