package keeper

import (
	"context"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/paw-chain/poco/x/poco/types"
)

// GetConsumed returns the volume of an order already allocated to deals.
func (k Keeper) GetConsumed(ctx context.Context, orderHash common.Hash) uint64 {
	bz := k.getStore(ctx).Get(GetConsumedKey(orderHash))
	if bz == nil {
		return 0
	}
	return GetUint64FromBytes(bz)
}

func (k Keeper) setConsumed(ctx context.Context, orderHash common.Hash, consumed uint64) {
	k.getStore(ctx).Set(GetConsumedKey(orderHash), GetUint64Bytes(consumed))
}

// IterateConsumed walks every tracked order hash.
func (k Keeper) IterateConsumed(ctx context.Context, cb func(orderHash common.Hash, consumed uint64) bool) {
	iter := storetypes.KVStorePrefixIterator(k.getStore(ctx), ConsumedKeyPrefix)
	defer iter.Close()

	for ; iter.Valid(); iter.Next() {
		if cb(common.BytesToHash(iter.Key()[len(ConsumedKeyPrefix):]), GetUint64FromBytes(iter.Value())) {
			break
		}
	}
}

// remaining returns volume minus consumed, zero when exhausted.
func (k Keeper) remaining(ctx context.Context, orderHash common.Hash, volume uint64) uint64 {
	consumed := k.GetConsumed(ctx, orderHash)
	if consumed >= volume {
		return 0
	}
	return volume - consumed
}

// presignedBy returns the signer that presigned orderHash on-ledger.
func (k Keeper) presignedBy(ctx context.Context, orderHash common.Hash) (common.Address, bool) {
	bz := k.getStore(ctx).Get(GetPresignedKey(orderHash))
	if bz == nil {
		return common.Address{}, false
	}
	return common.BytesToAddress(bz), true
}

func (k Keeper) setPresigned(ctx context.Context, orderHash common.Hash, signer common.Address) {
	k.getStore(ctx).Set(GetPresignedKey(orderHash), signer.Bytes())
}

// IteratePresigned walks every presigned order hash.
func (k Keeper) IteratePresigned(ctx context.Context, cb func(orderHash common.Hash, signer common.Address) bool) {
	iter := storetypes.KVStorePrefixIterator(k.getStore(ctx), PresignedKeyPrefix)
	defer iter.Close()

	for ; iter.Valid(); iter.Next() {
		if cb(common.BytesToHash(iter.Key()[len(PresignedKeyPrefix):]), common.BytesToAddress(iter.Value())) {
			break
		}
	}
}

// checkOrderSignature accepts either an on-ledger presign by signer or a
// signature by signer over the order hash.
func (k Keeper) checkOrderSignature(ctx context.Context, order types.Order, orderHash common.Hash, signer common.Address) error {
	if by, ok := k.presignedBy(ctx, orderHash); ok && by == signer {
		return nil
	}
	if !types.VerifySignature(signer, orderHash, order.Signature()) {
		return types.ErrInvalidSignature.Wrapf("%s order %s not signed by %s", order.Kind(), orderHash.Hex(), signer.Hex())
	}
	return nil
}

// orderSigner resolves who must sign an order: the asset owner, or the
// requester for request orders.
func (k Keeper) orderSigner(ctx context.Context, order types.Order) (common.Address, error) {
	switch o := order.(type) {
	case types.AppOrder:
		return k.AssetOwner(ctx, types.AssetKindApp, o.App)
	case types.DatasetOrder:
		return k.AssetOwner(ctx, types.AssetKindDataset, o.Dataset)
	case types.WorkerpoolOrder:
		return k.AssetOwner(ctx, types.AssetKindWorkerpool, o.Workerpool)
	case types.RequestOrder:
		return o.Requester, nil
	default:
		return common.Address{}, types.ErrInvalidOrder.Wrapf("unsupported order type %T", order)
	}
}

// ManageOrder presigns or closes an order on behalf of its signer.
func (k Keeper) ManageOrder(ctx context.Context, signer common.Address, order types.Order, op types.OrderOperation) (common.Hash, error) {
	var orderHash common.Hash
	err := k.atomic(ctx, func(ctx sdk.Context) error {
		params, err := k.GetParams(ctx)
		if err != nil {
			return err
		}
		orderHash, err = order.Hash(params.Domain)
		if err != nil {
			return err
		}
		expected, err := k.orderSigner(ctx, order)
		if err != nil {
			return err
		}
		if expected != signer {
			return types.ErrUnauthorized.Wrapf("%s is not the signer of %s order %s", signer.Hex(), order.Kind(), orderHash.Hex())
		}

		var eventType string
		switch op {
		case types.OrderOperationSign:
			k.setPresigned(ctx, orderHash, signer)
			eventType = types.EventTypeOrderPresigned
		case types.OrderOperationClose:
			k.setConsumed(ctx, orderHash, order.OrderVolume())
			eventType = types.EventTypeOrderClosed
		default:
			return types.ErrInvalidOrderOperation.Wrapf("%d", op)
		}

		ctx.EventManager().EmitEvent(sdk.NewEvent(
			eventType,
			sdk.NewAttribute(types.AttributeKeyOrderKind, order.Kind().String()),
			sdk.NewAttribute(types.AttributeKeyOrderHash, orderHash.Hex()),
		))
		k.metrics.OrdersManaged.WithLabelValues(order.Kind().String(), eventType).Inc()
		return nil
	})
	return orderHash, err
}
