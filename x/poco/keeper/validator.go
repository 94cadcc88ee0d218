package keeper

import (
	"context"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"

	"github.com/paw-chain/poco/x/poco/types"
)

// MatchPlan is the outcome of a successful order validation. It carries
// everything the matcher needs without reading the orders again.
type MatchPlan struct {
	AppHash        common.Hash
	DatasetHash    common.Hash
	WorkerpoolHash common.Hash
	RequestHash    common.Hash

	AppOwner        common.Address
	DatasetOwner    common.Address
	WorkerpoolOwner common.Address

	HasDataset bool
	Policy     types.WorkerpoolPolicy
	Category   types.Category
	Trust      uint64
	Tag        common.Hash
	Volume     uint64
}

type restriction struct {
	field    string
	restrict common.Address
	actual   common.Address
}

func restrictionOK(restrict, actual common.Address) bool {
	return restrict == (common.Address{}) || restrict == actual
}

func priceOK(price, limit math.Int) bool {
	return orZero(price).LTE(orZero(limit))
}

func orZero(i math.Int) math.Int {
	if i.IsNil() {
		return math.ZeroInt()
	}
	return i
}

// ValidateOrders checks that the four orders can be matched together. It
// never mutates state.
func (k Keeper) ValidateOrders(
	ctx context.Context,
	app types.AppOrder,
	dataset types.DatasetOrder,
	workerpool types.WorkerpoolOrder,
	request types.RequestOrder,
) (MatchPlan, error) {
	var plan MatchPlan
	plan.HasDataset = !dataset.IsEmpty()

	// Compatibility between the workerpool and the request.
	if request.Category != workerpool.Category {
		return plan, types.ErrCategoryMismatch.Wrapf("request %d, workerpool %d", request.Category, workerpool.Category)
	}
	if request.Trust > workerpool.Trust {
		return plan, types.ErrTrustMismatch.Wrapf("request %d exceeds workerpool %d", request.Trust, workerpool.Trust)
	}
	category, err := k.GetCategory(ctx, request.Category)
	if err != nil {
		return plan, types.ErrCategoryMismatch.Wrap(err.Error())
	}
	plan.Category = category
	plan.Trust = request.Trust
	if plan.Trust == 0 {
		plan.Trust = 1
	}

	// Prices.
	if !priceOK(app.AppPrice, request.AppMaxPrice) {
		return plan, types.ErrPriceMismatch.Wrapf("app price %s > %s", orZero(app.AppPrice), orZero(request.AppMaxPrice))
	}
	if plan.HasDataset && !priceOK(dataset.DatasetPrice, request.DatasetMaxPrice) {
		return plan, types.ErrPriceMismatch.Wrapf("dataset price %s > %s", orZero(dataset.DatasetPrice), orZero(request.DatasetMaxPrice))
	}
	if !priceOK(workerpool.WorkerpoolPrice, request.WorkerpoolMaxPrice) {
		return plan, types.ErrPriceMismatch.Wrapf("workerpool price %s > %s", orZero(workerpool.WorkerpoolPrice), orZero(request.WorkerpoolMaxPrice))
	}

	// Tags: the workerpool must offer every required bit, and an enclave
	// requirement from the dataset or the request needs an enclave app.
	required := types.TagUnion(app.Tag, request.Tag)
	if plan.HasDataset {
		required = types.TagUnion(required, dataset.Tag)
	}
	if !types.TagCovers(workerpool.Tag, required) {
		return plan, types.ErrTagMismatch.Wrapf("workerpool tag %s does not cover %s", workerpool.Tag.Hex(), required.Hex())
	}
	if types.TagRequiresEnclave(required) != types.TagRequiresEnclave(app.Tag) {
		return plan, types.ErrTagMismatch.Wrap("enclave execution requested for a non-enclave app")
	}
	plan.Tag = required

	// Asset pointers.
	if request.App != app.App {
		return plan, types.ErrAssetMismatch.Wrapf("request app %s, app order %s", request.App.Hex(), app.App.Hex())
	}
	if request.Dataset != dataset.Dataset {
		return plan, types.ErrAssetMismatch.Wrapf("request dataset %s, dataset order %s", request.Dataset.Hex(), dataset.Dataset.Hex())
	}
	if !restrictionOK(request.Workerpool, workerpool.Workerpool) {
		return plan, types.ErrAssetMismatch.Wrapf("request workerpool %s, workerpool order %s", request.Workerpool.Hex(), workerpool.Workerpool.Hex())
	}

	// Restrictions.
	checks := []restriction{
		{"app.datasetrestrict", app.DatasetRestrict, dataset.Dataset},
		{"app.workerpoolrestrict", app.WorkerpoolRestrict, workerpool.Workerpool},
		{"app.requesterrestrict", app.RequesterRestrict, request.Requester},
		{"workerpool.apprestrict", workerpool.AppRestrict, app.App},
		{"workerpool.datasetrestrict", workerpool.DatasetRestrict, dataset.Dataset},
		{"workerpool.requesterrestrict", workerpool.RequesterRestrict, request.Requester},
	}
	if plan.HasDataset {
		checks = append(checks,
			restriction{"dataset.apprestrict", dataset.AppRestrict, app.App},
			restriction{"dataset.workerpoolrestrict", dataset.WorkerpoolRestrict, workerpool.Workerpool},
			restriction{"dataset.requesterrestrict", dataset.RequesterRestrict, request.Requester},
		)
	}
	for _, c := range checks {
		if !restrictionOK(c.restrict, c.actual) {
			return plan, types.ErrRestrictionMismatch.Wrapf("%s is %s, counterpart is %s", c.field, c.restrict.Hex(), c.actual.Hex())
		}
	}

	// Owners.
	if plan.AppOwner, err = k.AssetOwner(ctx, types.AssetKindApp, app.App); err != nil {
		return plan, err
	}
	if plan.HasDataset {
		if plan.DatasetOwner, err = k.AssetOwner(ctx, types.AssetKindDataset, dataset.Dataset); err != nil {
			return plan, err
		}
	}
	pool, found, err := k.GetAsset(ctx, workerpool.Workerpool)
	if err != nil {
		return plan, err
	}
	if !found || pool.Kind != types.AssetKindWorkerpool {
		return plan, types.ErrAssetNotFound.Wrapf("workerpool %s", workerpool.Workerpool.Hex())
	}
	plan.WorkerpoolOwner = pool.Owner
	plan.Policy = pool.Policy

	// Signatures.
	params, err := k.GetParams(ctx)
	if err != nil {
		return plan, err
	}
	if plan.AppHash, err = app.Hash(params.Domain); err != nil {
		return plan, err
	}
	if err := k.checkOrderSignature(ctx, app, plan.AppHash, plan.AppOwner); err != nil {
		return plan, err
	}
	if plan.HasDataset {
		if plan.DatasetHash, err = dataset.Hash(params.Domain); err != nil {
			return plan, err
		}
		if err := k.checkOrderSignature(ctx, dataset, plan.DatasetHash, plan.DatasetOwner); err != nil {
			return plan, err
		}
	}
	if plan.WorkerpoolHash, err = workerpool.Hash(params.Domain); err != nil {
		return plan, err
	}
	if err := k.checkOrderSignature(ctx, workerpool, plan.WorkerpoolHash, plan.WorkerpoolOwner); err != nil {
		return plan, err
	}
	if plan.RequestHash, err = request.Hash(params.Domain); err != nil {
		return plan, err
	}
	if err := k.checkOrderSignature(ctx, request, plan.RequestHash, request.Requester); err != nil {
		return plan, err
	}

	// Remaining volume.
	plan.Volume = k.remaining(ctx, plan.AppHash, app.Volume)
	if plan.HasDataset {
		plan.Volume = min(plan.Volume, k.remaining(ctx, plan.DatasetHash, dataset.Volume))
	}
	plan.Volume = min(plan.Volume, k.remaining(ctx, plan.WorkerpoolHash, workerpool.Volume))
	plan.Volume = min(plan.Volume, k.remaining(ctx, plan.RequestHash, request.Volume))
	if plan.Volume == 0 {
		return plan, types.ErrNoMatchableVolume
	}

	return plan, nil
}
