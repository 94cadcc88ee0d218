package keeper

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/paw-chain/poco/x/poco/types"
)

// RegisterInvariants registers all poco module invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "ledger-conservation",
		LedgerConservationInvariant(k))
	ir.RegisterRoute(types.ModuleName, "non-negative-balances",
		NonNegativeBalancesInvariant(k))
	ir.RegisterRoute(types.ModuleName, "order-volume",
		OrderVolumeInvariant(k))
	ir.RegisterRoute(types.ModuleName, "task-counters",
		TaskCountersInvariant(k))
}

// AllInvariants runs all invariants of the poco module
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		res, stop := LedgerConservationInvariant(k)(ctx)
		if stop {
			return res, stop
		}
		res, stop = NonNegativeBalancesInvariant(k)(ctx)
		if stop {
			return res, stop
		}
		res, stop = OrderVolumeInvariant(k)(ctx)
		if stop {
			return res, stop
		}
		return TaskCountersInvariant(k)(ctx)
	}
}

// LedgerConservationInvariant checks that the ledger holds exactly what the
// module account holds in the ledger denom.
func LedgerConservationInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		params, err := k.GetParams(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "ledger-conservation",
				fmt.Sprintf("error loading params: %v", err)), true
		}

		total := math.ZeroInt()
		err = k.IterateAccounts(ctx, func(_ common.Address, acc types.Account) (bool, error) {
			total = total.Add(acc.Total())
			return false, nil
		})
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "ledger-conservation",
				fmt.Sprintf("error iterating accounts: %v", err)), true
		}

		balance := k.bankKeeper.GetBalance(ctx, authtypes.NewModuleAddress(types.ModuleName), params.Denom)
		broken := !total.Equal(balance.Amount)
		return sdk.FormatInvariant(types.ModuleName, "ledger-conservation",
			fmt.Sprintf("ledger total %s, module balance %s", total, balance.Amount)), broken
	}
}

// NonNegativeBalancesInvariant checks that no stake or frozen balance is negative.
func NonNegativeBalancesInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			broken bool
			msg    string
		)
		err := k.IterateAccounts(ctx, func(addr common.Address, acc types.Account) (bool, error) {
			if acc.Stake.IsNegative() || acc.Frozen.IsNegative() {
				broken = true
				msg += fmt.Sprintf("%s: stake %s frozen %s\n", addr.Hex(), acc.Stake, acc.Frozen)
			}
			return false, nil
		})
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "non-negative-balances",
				fmt.Sprintf("error iterating accounts: %v", err)), true
		}
		return sdk.FormatInvariant(types.ModuleName, "non-negative-balances", msg), broken
	}
}

// OrderVolumeInvariant checks that the deals of each request order cover
// contiguous windows starting at zero and within its consumed volume.
func OrderVolumeInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			broken bool
			msg    string
		)
		next := make(map[common.Hash]uint64)
		err := k.IterateDeals(ctx, func(deal types.Deal) (bool, error) {
			if deal.BotSize == 0 {
				broken = true
				msg += fmt.Sprintf("deal %s has no volume\n", deal.ID.Hex())
			}
			if _, seen := next[deal.RequestHash]; seen {
				return false, nil
			}
			deals, err := k.GetDealsByRequest(ctx, deal.RequestHash)
			if err != nil {
				return true, err
			}
			var end uint64
			for _, d := range deals {
				if d.BotFirst != end {
					broken = true
					msg += fmt.Sprintf("request %s: deal %s starts at %d, expected %d\n",
						deal.RequestHash.Hex(), d.ID.Hex(), d.BotFirst, end)
				}
				end = d.BotFirst + d.BotSize
			}
			next[deal.RequestHash] = end
			if consumed := k.GetConsumed(ctx, deal.RequestHash); consumed < end {
				broken = true
				msg += fmt.Sprintf("request %s: consumed %d below matched %d\n", deal.RequestHash.Hex(), consumed, end)
			}
			return false, nil
		})
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "order-volume",
				fmt.Sprintf("error iterating deals: %v", err)), true
		}
		return sdk.FormatInvariant(types.ModuleName, "order-volume", msg), broken
	}
}

// TaskCountersInvariant checks the reveal and contributor counters of every
// task against its stored contributions.
func TaskCountersInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			broken bool
			msg    string
		)
		err := k.IterateTasks(ctx, func(task types.Task) (bool, error) {
			contributions, err := k.GetContributions(ctx, task.ID)
			if err != nil {
				return true, err
			}
			var proved uint64
			for _, c := range contributions {
				if c.Status == types.ContributionStatusProved {
					proved++
				}
			}
			switch {
			case uint64(len(contributions)) != task.ContributorCount:
				broken = true
				msg += fmt.Sprintf("task %s: %d contributions indexed, counter %d\n",
					task.ID.Hex(), len(contributions), task.ContributorCount)
			case proved != task.RevealCounter:
				broken = true
				msg += fmt.Sprintf("task %s: %d proved, reveal counter %d\n", task.ID.Hex(), proved, task.RevealCounter)
			case task.RevealCounter > task.WinnerCounter && task.Status == types.TaskStatusRevealing:
				broken = true
				msg += fmt.Sprintf("task %s: %d reveals exceed %d winners\n", task.ID.Hex(), task.RevealCounter, task.WinnerCounter)
			}
			return false, nil
		})
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "task-counters",
				fmt.Sprintf("error iterating tasks: %v", err)), true
		}
		return sdk.FormatInvariant(types.ModuleName, "task-counters", msg), broken
	}
}
