package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/poco/x/poco/types"
)

// Keeper of the poco store
type Keeper struct {
	storeKey   storetypes.StoreKey
	cdc        *codec.LegacyAmino
	bankKeeper types.BankKeeper
	authority  string
	hooks      types.PocoHooks

	metrics *PocoMetrics
}

type kvStoreProvider interface {
	KVStore(key storetypes.StoreKey) storetypes.KVStore
}

// NewKeeper creates a new poco Keeper instance
func NewKeeper(
	cdc *codec.LegacyAmino,
	key storetypes.StoreKey,
	bankKeeper types.BankKeeper,
	authority string,
) *Keeper {
	return &Keeper{
		storeKey:   key,
		cdc:        cdc,
		bankKeeper: bankKeeper,
		authority:  authority,
		metrics:    NewPocoMetrics(),
	}
}

// SetHooks sets the task outcome hooks. It must be called before the keeper
// is copied into the message server.
func (k *Keeper) SetHooks(hooks types.PocoHooks) *Keeper {
	if k.hooks != nil {
		panic("cannot set poco hooks twice")
	}
	k.hooks = hooks
	return k
}

// GetAuthority returns the module's governance authority.
func (k Keeper) GetAuthority() string {
	return k.authority
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx context.Context) log.Logger {
	return sdk.UnwrapSDKContext(ctx).Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}

// getStore returns the KVStore for the poco module
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	if provider, ok := ctx.(kvStoreProvider); ok {
		return provider.KVStore(k.storeKey)
	}

	unwrapped := sdk.UnwrapSDKContext(ctx)
	return unwrapped.KVStore(k.storeKey)
}

// atomic runs fn against a cached branch of ctx and commits it, events
// included, only when fn succeeds.
func (k Keeper) atomic(ctx context.Context, fn func(sdk.Context) error) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	cacheCtx, write := sdkCtx.CacheContext()
	if err := fn(cacheCtx); err != nil {
		return err
	}
	write()
	return nil
}

// now returns the block time in unix seconds.
func now(ctx context.Context) uint64 {
	t := sdk.UnwrapSDKContext(ctx).BlockTime().Unix()
	if t < 0 {
		return 0
	}
	return uint64(t)
}

func (k Keeper) get(ctx context.Context, key []byte, ptr interface{}) (bool, error) {
	bz := k.getStore(ctx).Get(key)
	if bz == nil {
		return false, nil
	}
	if err := k.cdc.Unmarshal(bz, ptr); err != nil {
		return false, fmt.Errorf("decode %x: %w", key, err)
	}
	return true, nil
}

func (k Keeper) set(ctx context.Context, key []byte, value interface{}) error {
	bz, err := k.cdc.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %x: %w", key, err)
	}
	k.getStore(ctx).Set(key, bz)
	return nil
}
