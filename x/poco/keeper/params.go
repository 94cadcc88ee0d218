package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/poco/x/poco/types"
)

// GetParams returns the current module parameters, or the defaults when
// none were stored yet.
func (k Keeper) GetParams(ctx context.Context) (types.Params, error) {
	var params types.Params
	found, err := k.get(ctx, ParamsKey, &params)
	if err != nil {
		return types.Params{}, err
	}
	if !found {
		return types.DefaultParams(), nil
	}
	return params, nil
}

// SetParams validates and stores the module parameters.
func (k Keeper) SetParams(ctx context.Context, params types.Params) error {
	if err := params.Validate(); err != nil {
		return types.ErrInvalidParams.Wrap(err.Error())
	}
	return k.set(ctx, ParamsKey, params)
}

// UpdateParams replaces the parameters on behalf of the governance authority.
func (k Keeper) UpdateParams(ctx context.Context, authority string, params types.Params) error {
	if err := k.validateAuthority(authority); err != nil {
		return err
	}
	return k.atomic(ctx, func(ctx sdk.Context) error {
		if err := k.SetParams(ctx, params); err != nil {
			return err
		}
		ctx.EventManager().EmitEvent(sdk.NewEvent(types.EventTypeParamsUpdated))
		return nil
	})
}
