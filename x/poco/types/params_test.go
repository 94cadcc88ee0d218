package types_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/poco/x/poco/types"
)

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*types.Params)
		wantErr bool
	}{
		{"default", func(*types.Params) {}, false},
		{"bad denom", func(p *types.Params) { p.Denom = "" }, true},
		{"empty domain name", func(p *types.Params) { p.Domain.Name = "" }, true},
		{"stake ratio above 100", func(p *types.Params) { p.WorkerpoolStakeRatio = 101 }, true},
		{"zero contribution ratio", func(p *types.Params) { p.ContributionDeadlineRatio = 0 }, true},
		{"zero reveal ratio", func(p *types.Params) { p.RevealDeadlineRatio = 0 }, true},
		{"final not after contribution", func(p *types.Params) { p.FinalDeadlineRatio = p.ContributionDeadlineRatio }, true},
		{"kitty ratio above 100", func(p *types.Params) { p.KittyRatio = 101 }, true},
		{"negative kitty min", func(p *types.Params) { p.KittyMin = math.NewInt(-1) }, true},
		{"unset kitty min", func(p *types.Params) { p.KittyMin = math.Int{} }, true},
		{"zero expiry batch", func(p *types.Params) { p.ExpiryBatchSize = 0 }, true},
		{"full stake ratio", func(p *types.Params) { p.WorkerpoolStakeRatio = 100 }, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := types.DefaultParams()
			tc.mutate(&p)
			err := p.Validate()
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestCategoriesAndPolicy(t *testing.T) {
	for i, c := range types.DefaultCategories() {
		require.Equal(t, uint64(i), c.ID)
		require.NoError(t, c.Validate())
	}
	require.ErrorIs(t, types.Category{Name: "x"}.Validate(), types.ErrInvalidCategory)
	require.ErrorIs(t, types.WorkerpoolPolicy{SchedulerRewardRatio: 101}.Validate(), types.ErrInvalidPolicy)
	require.NoError(t, types.DefaultWorkerpoolPolicy().Validate())
}
