package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/paw-chain/poco/x/poco/types"
)

// GetAccount returns the ledger account of addr, empty when unknown.
func (k Keeper) GetAccount(ctx context.Context, addr common.Address) (types.Account, error) {
	acc := types.NewAccount()
	if _, err := k.get(ctx, GetAccountKey(addr), &acc); err != nil {
		return types.Account{}, err
	}
	return acc, nil
}

func (k Keeper) setAccount(ctx context.Context, addr common.Address, acc types.Account) error {
	if acc.Stake.IsNegative() || acc.Frozen.IsNegative() {
		return fmt.Errorf("negative balance for %s", addr.Hex())
	}
	if acc.IsEmpty() {
		k.getStore(ctx).Delete(GetAccountKey(addr))
		return nil
	}
	return k.set(ctx, GetAccountKey(addr), acc)
}

// IterateAccounts walks every non-empty ledger account.
func (k Keeper) IterateAccounts(ctx context.Context, cb func(addr common.Address, acc types.Account) (stop bool, err error)) error {
	iter := storetypes.KVStorePrefixIterator(k.getStore(ctx), AccountKeyPrefix)
	defer iter.Close()

	for ; iter.Valid(); iter.Next() {
		var acc types.Account
		if err := k.cdc.Unmarshal(iter.Value(), &acc); err != nil {
			return err
		}
		stop, err := cb(common.BytesToAddress(iter.Key()[len(AccountKeyPrefix):]), acc)
		if err != nil {
			return err
		}
		if stop {
			break
		}
	}
	return nil
}

func accAddress(addr common.Address) sdk.AccAddress {
	return sdk.AccAddress(addr.Bytes())
}

// Deposit transfers amount from the owner's bank balance into its ledger stake.
func (k Keeper) Deposit(ctx context.Context, owner common.Address, amount math.Int) error {
	return k.DepositFor(ctx, owner, owner, amount)
}

// DepositFor transfers amount from the payer's bank balance into the ledger
// stake of beneficiary.
func (k Keeper) DepositFor(ctx context.Context, payer, beneficiary common.Address, amount math.Int) error {
	return k.atomic(ctx, func(ctx sdk.Context) error {
		return k.depositFor(ctx, payer, beneficiary, amount)
	})
}

// DepositForArray credits several beneficiaries from one payer. Either every
// deposit lands or none does.
func (k Keeper) DepositForArray(ctx context.Context, payer common.Address, beneficiaries []common.Address, amounts []math.Int) error {
	if err := types.ValidateBatchLength(len(beneficiaries), len(amounts)); err != nil {
		return err
	}
	return k.atomic(ctx, func(ctx sdk.Context) error {
		for i := range beneficiaries {
			if err := k.depositFor(ctx, payer, beneficiaries[i], amounts[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (k Keeper) depositFor(ctx sdk.Context, payer, beneficiary common.Address, amount math.Int) error {
	if amount.IsNil() || !amount.IsPositive() {
		return types.ErrInvalidAmount.Wrap("deposit must be positive")
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return err
	}
	coins := sdk.NewCoins(sdk.NewCoin(params.Denom, amount))
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, accAddress(payer), types.ModuleName, coins); err != nil {
		return types.ErrTransferFailed.Wrapf("deposit: %v", err)
	}

	acc, err := k.GetAccount(ctx, beneficiary)
	if err != nil {
		return err
	}
	if acc.Stake, err = SafeAdd(acc.Stake, amount); err != nil {
		return types.ErrOverflow.Wrap(err.Error())
	}
	if err := k.setAccount(ctx, beneficiary, acc); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeDeposit,
		sdk.NewAttribute(types.AttributeKeyAccount, beneficiary.Hex()),
		sdk.NewAttribute(types.AttributeKeyPayer, payer.Hex()),
		sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
	))
	return nil
}

// Withdraw transfers amount of available stake back to the owner's bank balance.
func (k Keeper) Withdraw(ctx context.Context, owner common.Address, amount math.Int) error {
	return k.WithdrawTo(ctx, owner, owner, amount)
}

// WithdrawTo transfers amount of the owner's available stake to the bank
// balance of recipient.
func (k Keeper) WithdrawTo(ctx context.Context, owner, recipient common.Address, amount math.Int) error {
	if amount.IsNil() || !amount.IsPositive() {
		return types.ErrInvalidAmount.Wrap("withdrawal must be positive")
	}
	return k.atomic(ctx, func(ctx sdk.Context) error {
		acc, err := k.GetAccount(ctx, owner)
		if err != nil {
			return err
		}
		if acc.Stake.LT(amount) {
			return types.ErrInsufficientStake.Wrapf("stake %s < %s", acc.Stake, amount)
		}
		acc.Stake = acc.Stake.Sub(amount)
		if err := k.setAccount(ctx, owner, acc); err != nil {
			return err
		}

		params, err := k.GetParams(ctx)
		if err != nil {
			return err
		}
		coins := sdk.NewCoins(sdk.NewCoin(params.Denom, amount))
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, accAddress(recipient), coins); err != nil {
			return types.ErrTransferFailed.Wrapf("withdraw: %v", err)
		}

		ctx.EventManager().EmitEvent(sdk.NewEvent(
			types.EventTypeWithdraw,
			sdk.NewAttribute(types.AttributeKeyAccount, owner.Hex()),
			sdk.NewAttribute(types.AttributeKeyRecipient, recipient.Hex()),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
		))
		return nil
	})
}

// lock moves amount from stake to frozen.
func (k Keeper) lock(ctx context.Context, addr common.Address, amount math.Int) error {
	if amount.IsZero() {
		return nil
	}
	acc, err := k.GetAccount(ctx, addr)
	if err != nil {
		return err
	}
	if acc.Stake.LT(amount) {
		return types.ErrInsufficientStake.Wrapf("%s has %s available, needs %s", addr.Hex(), acc.Stake, amount)
	}
	acc.Stake = acc.Stake.Sub(amount)
	acc.Frozen = acc.Frozen.Add(amount)
	return k.setAccount(ctx, addr, acc)
}

// unlock moves amount from frozen back to stake.
func (k Keeper) unlock(ctx context.Context, addr common.Address, amount math.Int) error {
	if amount.IsZero() {
		return nil
	}
	acc, err := k.GetAccount(ctx, addr)
	if err != nil {
		return err
	}
	if acc.Frozen.LT(amount) {
		return types.ErrInsufficientFrozen.Wrapf("%s has %s frozen, needs %s", addr.Hex(), acc.Frozen, amount)
	}
	acc.Frozen = acc.Frozen.Sub(amount)
	acc.Stake = acc.Stake.Add(amount)
	return k.setAccount(ctx, addr, acc)
}

// settlementPool holds value seized during one operation until it is
// rewarded or re-locked. An operation must leave it empty.
type settlementPool struct {
	held math.Int
}

func newSettlementPool() *settlementPool {
	return &settlementPool{held: math.ZeroInt()}
}

func (p *settlementPool) settled() error {
	if !p.held.IsZero() {
		return types.ErrSettlementInconsistency.Wrapf("%s left in pool", p.held)
	}
	return nil
}

// seize moves amount from the frozen balance of addr into the pool.
func (k Keeper) seize(ctx sdk.Context, pool *settlementPool, addr common.Address, amount math.Int, taskID common.Hash) error {
	if amount.IsZero() {
		return nil
	}
	acc, err := k.GetAccount(ctx, addr)
	if err != nil {
		return err
	}
	if acc.Frozen.LT(amount) {
		return types.ErrInsufficientFrozen.Wrapf("%s has %s frozen, needs %s", addr.Hex(), acc.Frozen, amount)
	}
	acc.Frozen = acc.Frozen.Sub(amount)
	if err := k.setAccount(ctx, addr, acc); err != nil {
		return err
	}
	pool.held = pool.held.Add(amount)

	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeSeize,
		sdk.NewAttribute(types.AttributeKeyAccount, addr.Hex()),
		sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
		sdk.NewAttribute(types.AttributeKeyTaskID, taskID.Hex()),
	))
	return nil
}

// reward moves amount from the pool into the stake of addr.
func (k Keeper) reward(ctx sdk.Context, pool *settlementPool, addr common.Address, amount math.Int, taskID common.Hash) error {
	if amount.IsZero() {
		return nil
	}
	if pool.held.LT(amount) {
		return types.ErrSettlementInconsistency.Wrapf("reward %s exceeds pool %s", amount, pool.held)
	}
	acc, err := k.GetAccount(ctx, addr)
	if err != nil {
		return err
	}
	acc.Stake = acc.Stake.Add(amount)
	if err := k.setAccount(ctx, addr, acc); err != nil {
		return err
	}
	pool.held = pool.held.Sub(amount)

	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeReward,
		sdk.NewAttribute(types.AttributeKeyAccount, addr.Hex()),
		sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
		sdk.NewAttribute(types.AttributeKeyTaskID, taskID.Hex()),
	))
	return nil
}

// lockFromPool moves amount from the pool into the frozen balance of addr.
func (k Keeper) lockFromPool(ctx sdk.Context, pool *settlementPool, addr common.Address, amount math.Int) error {
	if amount.IsZero() {
		return nil
	}
	if pool.held.LT(amount) {
		return types.ErrSettlementInconsistency.Wrapf("lock %s exceeds pool %s", amount, pool.held)
	}
	acc, err := k.GetAccount(ctx, addr)
	if err != nil {
		return err
	}
	acc.Frozen = acc.Frozen.Add(amount)
	if err := k.setAccount(ctx, addr, acc); err != nil {
		return err
	}
	pool.held = pool.held.Sub(amount)
	return nil
}
