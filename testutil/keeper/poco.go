package keeper

import (
	"crypto/ecdsa"
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec"
	"github.com/cosmos/cosmos-sdk/codec/address"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authkeeper "github.com/cosmos/cosmos-sdk/x/auth/keeper"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	bankkeeper "github.com/cosmos/cosmos-sdk/x/bank/keeper"
	banktestutil "github.com/cosmos/cosmos-sdk/x/bank/testutil"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"
	minttypes "github.com/cosmos/cosmos-sdk/x/mint/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/poco/x/poco/keeper"
	"github.com/paw-chain/poco/x/poco/types"
)

// GenesisTime is the block time of contexts created by PocoKeeper.
var GenesisTime = time.Unix(1_700_000_000, 0).UTC()

// PocoFixture bundles a poco keeper with the bank keeper backing it.
type PocoFixture struct {
	Keeper     *keeper.Keeper
	Ctx        sdk.Context
	BankKeeper bankkeeper.BaseKeeper
	Authority  string
}

// PocoKeeper creates a test keeper for the poco module backed by real auth
// and bank keepers on an in-memory store.
func PocoKeeper(t testing.TB) (*keeper.Keeper, sdk.Context) {
	f := NewPocoFixture(t)
	return f.Keeper, f.Ctx
}

// NewPocoFixture builds the full fixture on the default genesis.
func NewPocoFixture(t testing.TB) *PocoFixture {
	return NewPocoFixtureWithGenesis(t, types.DefaultGenesis())
}

// NewPocoFixtureWithGenesis builds the fixture and imports gs. A nil gs
// leaves the poco store empty.
func NewPocoFixtureWithGenesis(t testing.TB, gs *types.GenesisState) *PocoFixture {
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	authStoreKey := storetypes.NewKVStoreKey(authtypes.StoreKey)
	bankStoreKey := storetypes.NewKVStoreKey(banktypes.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(authStoreKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(bankStoreKey, storetypes.StoreTypeIAVL, db)
	require.NoError(t, stateStore.LoadLatestVersion())

	registry := codectypes.NewInterfaceRegistry()
	authtypes.RegisterInterfaces(registry)
	banktypes.RegisterInterfaces(registry)
	cdc := codec.NewProtoCodec(registry)
	authority := authtypes.NewModuleAddress(govtypes.ModuleName)

	maccPerms := map[string][]string{
		minttypes.ModuleName: {authtypes.Minter},
		types.ModuleName:     nil,
	}
	accountKeeper := authkeeper.NewAccountKeeper(
		cdc,
		runtime.NewKVStoreService(authStoreKey),
		authtypes.ProtoBaseAccount,
		maccPerms,
		address.NewBech32Codec(sdk.GetConfig().GetBech32AccountAddrPrefix()),
		sdk.GetConfig().GetBech32AccountAddrPrefix(),
		authority.String(),
	)
	bankKeeper := bankkeeper.NewBaseKeeper(
		cdc,
		runtime.NewKVStoreService(bankStoreKey),
		accountKeeper,
		map[string]bool{},
		authority.String(),
		log.NewNopLogger(),
	)

	k := keeper.NewKeeper(types.ModuleCdc, storeKey, bankKeeper, authority.String())

	header := cmtproto.Header{Height: 1, Time: GenesisTime, ChainID: "poco-test-1"}
	ctx := sdk.NewContext(stateStore, header, false, log.NewNopLogger())
	if gs != nil {
		require.NoError(t, k.InitGenesis(ctx, *gs))
	}

	return &PocoFixture{
		Keeper:     k,
		Ctx:        ctx,
		BankKeeper: bankKeeper,
		Authority:  authority.String(),
	}
}

// Fund mints amount of the ledger denom to addr's bank account.
func (f *PocoFixture) Fund(t testing.TB, addr common.Address, amount math.Int) {
	coins := sdk.NewCoins(sdk.NewCoin(types.DefaultDenom, amount))
	require.NoError(t, banktestutil.FundAccount(f.Ctx, f.BankKeeper, sdk.AccAddress(addr.Bytes()), coins))
}

// FundAndDeposit funds addr and deposits the whole amount into the ledger.
func (f *PocoFixture) FundAndDeposit(t testing.TB, addr common.Address, amount math.Int) {
	f.Fund(t, addr, amount)
	require.NoError(t, f.Keeper.Deposit(f.Ctx, addr, amount))
}

// Balance returns the bank balance of addr in the ledger denom.
func (f *PocoFixture) Balance(addr common.Address) math.Int {
	return f.BankKeeper.GetBalance(f.Ctx, sdk.AccAddress(addr.Bytes()), types.DefaultDenom).Amount
}

// AdvanceTime moves the block time forward by d.
func (f *PocoFixture) AdvanceTime(d time.Duration) {
	f.Ctx = f.Ctx.WithBlockTime(f.Ctx.BlockTime().Add(d)).WithBlockHeight(f.Ctx.BlockHeight() + 1)
}

// Actor is a secp256k1 identity able to sign orders and authorizations.
type Actor struct {
	Key     *ecdsa.PrivateKey
	Address common.Address
}

// NewActor generates a fresh actor.
func NewActor(t testing.TB) Actor {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return Actor{Key: key, Address: crypto.PubkeyToAddress(key.PublicKey)}
}

// Sign signs digest, returning a 65-byte [R || S || V] signature with V in {27, 28}.
func (a Actor) Sign(t testing.TB, digest common.Hash) []byte {
	sig, err := crypto.Sign(digest.Bytes(), a.Key)
	require.NoError(t, err)
	sig[64] += 27
	return sig
}

// SignOrder sets the signature of an order over its hash in domain.
func SignOrder[O interface {
	types.AppOrder | types.DatasetOrder | types.WorkerpoolOrder | types.RequestOrder
}](t testing.TB, a Actor, domain types.Domain, order *O) {
	var o types.Order
	switch v := any(*order).(type) {
	case types.AppOrder:
		o = v
	case types.DatasetOrder:
		o = v
	case types.WorkerpoolOrder:
		o = v
	case types.RequestOrder:
		o = v
	}
	hash, err := o.Hash(domain)
	require.NoError(t, err)
	sig := a.Sign(t, hash)

	switch p := any(order).(type) {
	case *types.AppOrder:
		p.Sign = sig
	case *types.DatasetOrder:
		p.Sign = sig
	case *types.WorkerpoolOrder:
		p.Sign = sig
	case *types.RequestOrder:
		p.Sign = sig
	}
}

// Authorize returns the scheduler's signature dispatching worker on taskID.
func Authorize(t testing.TB, scheduler Actor, worker common.Address, taskID common.Hash, enclave common.Address) []byte {
	return scheduler.Sign(t, types.AuthorizationHash(worker, taskID, enclave))
}
