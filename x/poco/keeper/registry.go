package keeper

import (
	"context"
	"strconv"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/paw-chain/poco/x/poco/types"
	sharedkeeper "github.com/paw-chain/poco/x/shared/keeper"
)

func (k Keeper) validateAuthority(authority string) error {
	return sharedkeeper.ValidateAuthority(k.authority, authority)
}

// GetAsset returns a registered asset.
func (k Keeper) GetAsset(ctx context.Context, addr common.Address) (types.Asset, bool, error) {
	var asset types.Asset
	found, err := k.get(ctx, GetAssetKey(addr), &asset)
	return asset, found, err
}

// SetAsset stores an asset without checks. Used by genesis.
func (k Keeper) SetAsset(ctx context.Context, asset types.Asset) error {
	return k.set(ctx, GetAssetKey(asset.Address), asset)
}

// AssetOwner resolves the owner of an asset of the expected kind.
func (k Keeper) AssetOwner(ctx context.Context, kind types.AssetKind, addr common.Address) (common.Address, error) {
	asset, found, err := k.GetAsset(ctx, addr)
	if err != nil {
		return common.Address{}, err
	}
	if !found || asset.Kind != kind {
		return common.Address{}, types.ErrAssetNotFound.Wrapf("%s %s", kind, addr.Hex())
	}
	return asset.Owner, nil
}

// IterateAssets walks every registered asset.
func (k Keeper) IterateAssets(ctx context.Context, cb func(types.Asset) (stop bool, err error)) error {
	iter := storetypes.KVStorePrefixIterator(k.getStore(ctx), AssetKeyPrefix)
	defer iter.Close()

	for ; iter.Valid(); iter.Next() {
		var asset types.Asset
		if err := k.cdc.Unmarshal(iter.Value(), &asset); err != nil {
			return err
		}
		stop, err := cb(asset)
		if err != nil {
			return err
		}
		if stop {
			break
		}
	}
	return nil
}

// RegisterAsset mints an asset address for owner. Workerpools start with
// the default policy.
func (k Keeper) RegisterAsset(ctx context.Context, owner common.Address, kind types.AssetKind, name string) (common.Address, error) {
	asset := types.Asset{
		Kind:    kind,
		Address: types.AssetAddress(kind, owner, name),
		Owner:   owner,
		Name:    name,
	}
	if kind == types.AssetKindWorkerpool {
		asset.Policy = types.DefaultWorkerpoolPolicy()
	}
	if err := asset.Validate(); err != nil {
		return common.Address{}, err
	}

	err := k.atomic(ctx, func(ctx sdk.Context) error {
		if _, found, err := k.GetAsset(ctx, asset.Address); err != nil {
			return err
		} else if found {
			return types.ErrAssetExists.Wrapf("%s", asset.Address.Hex())
		}
		if err := k.SetAsset(ctx, asset); err != nil {
			return err
		}
		ctx.EventManager().EmitEvent(sdk.NewEvent(
			types.EventTypeAssetRegistered,
			sdk.NewAttribute(types.AttributeKeyAsset, asset.Address.Hex()),
			sdk.NewAttribute(types.AttributeKeyAssetKind, kind.String()),
			sdk.NewAttribute(types.AttributeKeyOwner, owner.Hex()),
		))
		return nil
	})
	if err != nil {
		return common.Address{}, err
	}
	return asset.Address, nil
}

// UpdateWorkerpoolPolicy changes the policy of a workerpool. Owner only.
// Existing deals keep the policy they were matched under.
func (k Keeper) UpdateWorkerpoolPolicy(ctx context.Context, owner, workerpool common.Address, policy types.WorkerpoolPolicy) error {
	if err := policy.Validate(); err != nil {
		return err
	}
	return k.atomic(ctx, func(ctx sdk.Context) error {
		asset, found, err := k.GetAsset(ctx, workerpool)
		if err != nil {
			return err
		}
		if !found || asset.Kind != types.AssetKindWorkerpool {
			return types.ErrAssetNotFound.Wrapf("workerpool %s", workerpool.Hex())
		}
		if asset.Owner != owner {
			return types.ErrUnauthorized.Wrapf("%s does not own workerpool %s", owner.Hex(), workerpool.Hex())
		}
		asset.Policy = policy
		if err := k.SetAsset(ctx, asset); err != nil {
			return err
		}
		ctx.EventManager().EmitEvent(sdk.NewEvent(
			types.EventTypePolicyUpdated,
			sdk.NewAttribute(types.AttributeKeyWorkerpool, workerpool.Hex()),
			sdk.NewAttribute("worker_stake_ratio", strconv.FormatUint(policy.WorkerStakeRatio, 10)),
			sdk.NewAttribute("scheduler_reward_ratio", strconv.FormatUint(policy.SchedulerRewardRatio, 10)),
		))
		return nil
	})
}

// GetCategory returns a category by id.
func (k Keeper) GetCategory(ctx context.Context, id uint64) (types.Category, error) {
	var category types.Category
	found, err := k.get(ctx, GetCategoryKey(id), &category)
	if err != nil {
		return types.Category{}, err
	}
	if !found {
		return types.Category{}, types.ErrCategoryNotFound.Wrapf("%d", id)
	}
	return category, nil
}

// CountCategories returns the number of categories.
func (k Keeper) CountCategories(ctx context.Context) uint64 {
	bz := k.getStore(ctx).Get(NextCategoryIDKey)
	if bz == nil {
		return 0
	}
	return GetUint64FromBytes(bz)
}

// AppendCategory stores category under the next id and returns it.
func (k Keeper) AppendCategory(ctx context.Context, category types.Category) (uint64, error) {
	id := k.CountCategories(ctx)
	category.ID = id
	if err := category.Validate(); err != nil {
		return 0, err
	}
	if err := k.set(ctx, GetCategoryKey(id), category); err != nil {
		return 0, err
	}
	k.getStore(ctx).Set(NextCategoryIDKey, GetUint64Bytes(id+1))
	return id, nil
}

// CreateCategory appends a category on behalf of the governance authority.
func (k Keeper) CreateCategory(ctx context.Context, authority, name, description string, workClockTimeRef uint64) (uint64, error) {
	if err := k.validateAuthority(authority); err != nil {
		return 0, err
	}
	var id uint64
	err := k.atomic(ctx, func(ctx sdk.Context) error {
		var err error
		id, err = k.AppendCategory(ctx, types.Category{
			Name:             name,
			Description:      description,
			WorkClockTimeRef: workClockTimeRef,
		})
		if err != nil {
			return err
		}
		ctx.EventManager().EmitEvent(sdk.NewEvent(
			types.EventTypeCategoryCreated,
			sdk.NewAttribute(types.AttributeKeyCategory, strconv.FormatUint(id, 10)),
			sdk.NewAttribute("work_clock_time_ref", strconv.FormatUint(workClockTimeRef, 10)),
		))
		return nil
	})
	return id, err
}
