package types

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	"github.com/ethereum/go-ethereum/common"
)

const (
	DefaultDomainName                = "PoCo"
	DefaultDomainVersion             = "5.0.0"
	DefaultChainID                   = 1
	DefaultWorkerpoolStakeRatio      = 30
	DefaultContributionDeadlineRatio = 1
	DefaultRevealDeadlineRatio       = 1
	DefaultFinalDeadlineRatio        = 10
	DefaultKittyRatio                = 10
	DefaultMinWorkerScore            = 0
	DefaultScoreWeightCap            = 0
	DefaultExpiryBatchSize           = 50
)

// DefaultKittyMin is the smallest kitty bonus paid when the kitty allows it.
var DefaultKittyMin = math.NewInt(1_000_000_000)

// Params defines the parameters of the poco module.
type Params struct {
	// Denom is the bank denom deposits and withdrawals are made in.
	Denom string `json:"denom" yaml:"denom"`
	// Domain separates order signatures.
	Domain Domain `json:"domain" yaml:"domain"`
	// WorkerpoolStakeRatio is the percentage of the workerpool price a
	// scheduler locks per task.
	WorkerpoolStakeRatio uint64 `json:"workerpool_stake_ratio" yaml:"workerpool_stake_ratio"`
	// Deadline multipliers of the category work clock time reference.
	ContributionDeadlineRatio uint64 `json:"contribution_deadline_ratio" yaml:"contribution_deadline_ratio"`
	RevealDeadlineRatio       uint64 `json:"reveal_deadline_ratio" yaml:"reveal_deadline_ratio"`
	FinalDeadlineRatio        uint64 `json:"final_deadline_ratio" yaml:"final_deadline_ratio"`
	// Kitty bonus: min(max(kitty*KittyRatio/100, KittyMin), kitty).
	KittyRatio uint64   `json:"kitty_ratio" yaml:"kitty_ratio"`
	KittyMin   math.Int `json:"kitty_min" yaml:"kitty_min"`
	// MinWorkerScore floors reputation decrements.
	MinWorkerScore uint64 `json:"min_worker_score" yaml:"min_worker_score"`
	// ScoreWeightCap bounds the reputation bonus on a contribution's weight.
	ScoreWeightCap uint64 `json:"score_weight_cap" yaml:"score_weight_cap"`
	// ExpiryBatchSize bounds the expired tasks claimed per block.
	ExpiryBatchSize uint64 `json:"expiry_batch_size" yaml:"expiry_batch_size"`
}

// DefaultDomain returns the domain verified against the module account.
func DefaultDomain() Domain {
	return Domain{
		Name:              DefaultDomainName,
		Version:           DefaultDomainVersion,
		ChainID:           DefaultChainID,
		VerifyingContract: common.BytesToAddress(authtypes.NewModuleAddress(ModuleName)),
	}
}

// DefaultParams returns default parameters
func DefaultParams() Params {
	return Params{
		Denom:                     DefaultDenom,
		Domain:                    DefaultDomain(),
		WorkerpoolStakeRatio:      DefaultWorkerpoolStakeRatio,
		ContributionDeadlineRatio: DefaultContributionDeadlineRatio,
		RevealDeadlineRatio:       DefaultRevealDeadlineRatio,
		FinalDeadlineRatio:        DefaultFinalDeadlineRatio,
		KittyRatio:                DefaultKittyRatio,
		KittyMin:                  DefaultKittyMin,
		MinWorkerScore:            DefaultMinWorkerScore,
		ScoreWeightCap:            DefaultScoreWeightCap,
		ExpiryBatchSize:           DefaultExpiryBatchSize,
	}
}

// Validate validates the parameters
func (p Params) Validate() error {
	if err := sdk.ValidateDenom(p.Denom); err != nil {
		return fmt.Errorf("invalid denom: %w", err)
	}
	if err := p.Domain.Validate(); err != nil {
		return err
	}
	if p.WorkerpoolStakeRatio > 100 {
		return fmt.Errorf("workerpool stake ratio must be at most 100: %d", p.WorkerpoolStakeRatio)
	}
	if p.ContributionDeadlineRatio == 0 || p.RevealDeadlineRatio == 0 {
		return fmt.Errorf("contribution and reveal deadline ratios must be positive")
	}
	if p.FinalDeadlineRatio <= p.ContributionDeadlineRatio {
		return fmt.Errorf("final deadline ratio %d must exceed contribution deadline ratio %d",
			p.FinalDeadlineRatio, p.ContributionDeadlineRatio)
	}
	if p.KittyRatio > 100 {
		return fmt.Errorf("kitty ratio must be at most 100: %d", p.KittyRatio)
	}
	if p.KittyMin.IsNil() || p.KittyMin.IsNegative() {
		return fmt.Errorf("kitty min must be non-negative")
	}
	if p.ExpiryBatchSize == 0 {
		return fmt.Errorf("expiry batch size must be positive")
	}
	return nil
}
