package keeper_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	keepertest "github.com/paw-chain/poco/testutil/keeper"
	"github.com/paw-chain/poco/x/poco/keeper"
	"github.com/paw-chain/poco/x/poco/types"
)

var (
	appPrice        = math.NewInt(300)
	datasetPrice    = math.NewInt(100)
	workerpoolPrice = math.NewInt(1000)
	// 30% of the workerpool price under the default policy and params
	defaultStake = math.NewInt(300)

	initialFunds = math.NewInt(1_000_000)
)

// market is a registered app, dataset and workerpool with funded owners.
type market struct {
	f *keepertest.PocoFixture

	appOwner     keepertest.Actor
	datasetOwner keepertest.Actor
	scheduler    keepertest.Actor
	requester    keepertest.Actor

	app        common.Address
	dataset    common.Address
	workerpool common.Address

	domain types.Domain
	salt   uint64
}

func newMarket(t testing.TB, f *keepertest.PocoFixture) *market {
	m := &market{
		f:            f,
		appOwner:     keepertest.NewActor(t),
		datasetOwner: keepertest.NewActor(t),
		scheduler:    keepertest.NewActor(t),
		requester:    keepertest.NewActor(t),
	}
	var err error
	m.app, err = f.Keeper.RegisterAsset(f.Ctx, m.appOwner.Address, types.AssetKindApp, "app")
	require.NoError(t, err)
	m.dataset, err = f.Keeper.RegisterAsset(f.Ctx, m.datasetOwner.Address, types.AssetKindDataset, "dataset")
	require.NoError(t, err)
	m.workerpool, err = f.Keeper.RegisterAsset(f.Ctx, m.scheduler.Address, types.AssetKindWorkerpool, "pool")
	require.NoError(t, err)

	f.FundAndDeposit(t, m.scheduler.Address, initialFunds)
	f.FundAndDeposit(t, m.requester.Address, initialFunds)

	params, err := f.Keeper.GetParams(f.Ctx)
	require.NoError(t, err)
	m.domain = params.Domain
	return m
}

func (m *market) nextSalt() common.Hash {
	m.salt++
	return common.BigToHash(math.NewIntFromUint64(m.salt).BigInt())
}

// orderSet is a compatible tuple of unsigned orders.
type orderSet struct {
	App        types.AppOrder
	Dataset    types.DatasetOrder
	Workerpool types.WorkerpoolOrder
	Request    types.RequestOrder
}

func (m *market) orders(volume, trust uint64) orderSet {
	return orderSet{
		App: types.AppOrder{
			App:      m.app,
			AppPrice: appPrice,
			Volume:   volume,
			Salt:     m.nextSalt(),
		},
		Dataset: types.DatasetOrder{
			Dataset:      m.dataset,
			DatasetPrice: datasetPrice,
			Volume:       volume,
			Salt:         m.nextSalt(),
		},
		Workerpool: types.WorkerpoolOrder{
			Workerpool:      m.workerpool,
			WorkerpoolPrice: workerpoolPrice,
			Volume:          volume,
			Trust:           trust,
			Salt:            m.nextSalt(),
		},
		Request: types.RequestOrder{
			App:                m.app,
			AppMaxPrice:        appPrice,
			Dataset:            m.dataset,
			DatasetMaxPrice:    datasetPrice,
			Workerpool:         m.workerpool,
			WorkerpoolMaxPrice: workerpoolPrice,
			Requester:          m.requester.Address,
			Volume:             volume,
			Trust:              trust,
			Beneficiary:        m.requester.Address,
			Params:             `{"iexec_args":"hello"}`,
			Salt:               m.nextSalt(),
		},
	}
}

func (m *market) sign(t testing.TB, o *orderSet) {
	keepertest.SignOrder(t, m.appOwner, m.domain, &o.App)
	keepertest.SignOrder(t, m.datasetOwner, m.domain, &o.Dataset)
	keepertest.SignOrder(t, m.scheduler, m.domain, &o.Workerpool)
	keepertest.SignOrder(t, m.requester, m.domain, &o.Request)
}

func (m *market) match(t testing.TB, o orderSet) (types.Deal, error) {
	return m.f.Keeper.MatchOrders(m.f.Ctx, m.requester.Address, o.App, o.Dataset, o.Workerpool, o.Request, false)
}

// deal matches a freshly signed tuple and fails the test on error.
func (m *market) deal(t testing.TB, volume, trust uint64) types.Deal {
	o := m.orders(volume, trust)
	m.sign(t, &o)
	deal, err := m.match(t, o)
	require.NoError(t, err)
	return deal
}

// task matches a volume 1 deal and initializes its only task.
func (m *market) task(t testing.TB, trust uint64) (types.Deal, common.Hash) {
	deal := m.deal(t, 1, trust)
	taskID, err := m.f.Keeper.Initialize(m.f.Ctx, deal.ID, 0)
	require.NoError(t, err)
	return deal, taskID
}

func (m *market) setPolicy(t testing.TB, policy types.WorkerpoolPolicy) {
	require.NoError(t, m.f.Keeper.UpdateWorkerpoolPolicy(m.f.Ctx, m.scheduler.Address, m.workerpool, policy))
}

// worker is a funded worker able to build its own contributions.
type worker struct {
	keepertest.Actor
}

func (m *market) newWorker(t testing.TB) worker {
	w := worker{keepertest.NewActor(t)}
	m.f.FundAndDeposit(t, w.Address, initialFunds)
	return w
}

func (m *market) contribution(t testing.TB, w worker, taskID, digest common.Hash) keeper.ContributionRequest {
	return keeper.ContributionRequest{
		Worker:            w.Address,
		TaskID:            taskID,
		ResultHash:        types.ResultHash(taskID, digest),
		ResultSeal:        types.ResultSeal(w.Address, taskID, digest),
		AuthorizationSign: keepertest.Authorize(t, m.scheduler, w.Address, taskID, common.Address{}),
	}
}

func (m *market) contribute(t testing.TB, w worker, taskID, digest common.Hash) {
	require.NoError(t, m.f.Keeper.Contribute(m.f.Ctx, m.contribution(t, w, taskID, digest)))
}

func (m *market) account(t testing.TB, addr common.Address) types.Account {
	acc, err := m.f.Keeper.GetAccount(m.f.Ctx, addr)
	require.NoError(t, err)
	return acc
}

func (m *market) getTask(t testing.TB, taskID common.Hash) types.Task {
	task, err := m.f.Keeper.GetTask(m.f.Ctx, taskID)
	require.NoError(t, err)
	return task
}

func (m *market) advance(seconds uint64) {
	m.f.AdvanceTime(time.Duration(seconds) * time.Second)
}

func digestOf(s string) common.Hash {
	return crypto.Keccak256Hash([]byte(s))
}

func taskPrice() math.Int {
	return appPrice.Add(datasetPrice).Add(workerpoolPrice)
}

// recordingHooks records hook invocations and fails deliveries on demand.
type recordingHooks struct {
	failDelivery bool
	panicOnce    bool
	delivered    []common.Hash
	failed       []common.Hash
}

var errCallbackReverted = errors.New("callback reverted")

func (h *recordingHooks) AfterTaskFinalized(_ context.Context, taskID common.Hash, _ common.Address, _ []byte) error {
	if h.panicOnce {
		h.panicOnce = false
		panic("callback out of gas")
	}
	if h.failDelivery {
		return errCallbackReverted
	}
	h.delivered = append(h.delivered, taskID)
	return nil
}

func (h *recordingHooks) AfterTaskFailed(_ context.Context, taskID common.Hash) error {
	h.failed = append(h.failed, taskID)
	return nil
}
