package keeper

import (
	"context"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common"

	"github.com/paw-chain/poco/x/poco/types"
)

// InitGenesis initializes the poco module's state from a genesis state
func (k Keeper) InitGenesis(ctx context.Context, data types.GenesisState) error {
	if err := k.SetParams(ctx, data.Params); err != nil {
		return fmt.Errorf("failed to set params: %w", err)
	}

	for _, category := range data.Categories {
		if _, err := k.AppendCategory(ctx, category); err != nil {
			return fmt.Errorf("failed to initialize category %d: %w", category.ID, err)
		}
	}

	for _, asset := range data.Assets {
		if err := k.SetAsset(ctx, asset); err != nil {
			return fmt.Errorf("failed to initialize asset %s: %w", asset.Address.Hex(), err)
		}
	}

	for _, ga := range data.Accounts {
		if err := k.setAccount(ctx, ga.Address, ga.Account); err != nil {
			return fmt.Errorf("failed to initialize account %s: %w", ga.Address.Hex(), err)
		}
	}

	for _, s := range data.Scores {
		k.SetScore(ctx, s.Worker, s.Score)
	}

	for _, c := range data.Consumed {
		k.setConsumed(ctx, c.OrderHash, c.Consumed)
	}

	for _, p := range data.Presigned {
		k.setPresigned(ctx, p.OrderHash, p.Signer)
	}

	for _, deal := range data.Deals {
		if err := k.SetDeal(ctx, deal); err != nil {
			return fmt.Errorf("failed to initialize deal %s: %w", deal.ID.Hex(), err)
		}
	}

	for _, task := range data.Tasks {
		if err := k.SetTask(ctx, task); err != nil {
			return fmt.Errorf("failed to initialize task %s: %w", task.ID.Hex(), err)
		}
	}

	// contributions are re-indexed in their original arrival order
	contributions := append([]types.Contribution(nil), data.Contributions...)
	sort.SliceStable(contributions, func(i, j int) bool {
		return contributions[i].Sequence < contributions[j].Sequence
	})
	for _, c := range contributions {
		if err := k.setContribution(ctx, c); err != nil {
			return fmt.Errorf("failed to initialize contribution of %s: %w", c.Worker.Hex(), err)
		}
		k.getStore(ctx).Set(GetContributorKey(c.TaskID, c.Sequence), c.Worker.Bytes())
	}

	for _, p := range data.PendingCallbacks {
		if err := k.SetPendingCallback(ctx, p); err != nil {
			return fmt.Errorf("failed to initialize pending callback %s: %w", p.TaskID.Hex(), err)
		}
	}

	return nil
}

// ExportGenesis exports the poco module's state to a genesis state
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get params: %w", err)
	}
	gs := &types.GenesisState{Params: params}

	for id := uint64(0); id < k.CountCategories(ctx); id++ {
		category, err := k.GetCategory(ctx, id)
		if err != nil {
			return nil, err
		}
		gs.Categories = append(gs.Categories, category)
	}

	err = k.IterateAssets(ctx, func(asset types.Asset) (bool, error) {
		gs.Assets = append(gs.Assets, asset)
		return false, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to export assets: %w", err)
	}

	err = k.IterateAccounts(ctx, func(addr common.Address, acc types.Account) (bool, error) {
		gs.Accounts = append(gs.Accounts, types.GenesisAccount{Address: addr, Account: acc})
		return false, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to export accounts: %w", err)
	}

	k.IterateScores(ctx, func(worker common.Address, score uint64) bool {
		gs.Scores = append(gs.Scores, types.WorkerScore{Worker: worker, Score: score})
		return false
	})

	k.IterateConsumed(ctx, func(orderHash common.Hash, consumed uint64) bool {
		gs.Consumed = append(gs.Consumed, types.ConsumedRecord{OrderHash: orderHash, Consumed: consumed})
		return false
	})

	k.IteratePresigned(ctx, func(orderHash common.Hash, signer common.Address) bool {
		gs.Presigned = append(gs.Presigned, types.PresignRecord{OrderHash: orderHash, Signer: signer})
		return false
	})

	err = k.IterateDeals(ctx, func(deal types.Deal) (bool, error) {
		gs.Deals = append(gs.Deals, deal)
		return false, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to export deals: %w", err)
	}

	err = k.IterateTasks(ctx, func(task types.Task) (bool, error) {
		gs.Tasks = append(gs.Tasks, task)
		contributions, err := k.GetContributions(ctx, task.ID)
		if err != nil {
			return true, err
		}
		gs.Contributions = append(gs.Contributions, contributions...)
		return false, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to export tasks: %w", err)
	}

	err = k.IteratePendingCallbacks(ctx, func(p types.PendingCallback) (bool, error) {
		gs.PendingCallbacks = append(gs.PendingCallbacks, p)
		return false, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to export pending callbacks: %w", err)
	}

	return gs, nil
}
