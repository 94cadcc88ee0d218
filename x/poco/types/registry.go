package types

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// AssetKind is the kind of a registered asset.
type AssetKind int32

const (
	AssetKindApp AssetKind = iota
	AssetKindDataset
	AssetKindWorkerpool
)

func (k AssetKind) String() string {
	switch k {
	case AssetKindApp:
		return "app"
	case AssetKindDataset:
		return "dataset"
	case AssetKindWorkerpool:
		return "workerpool"
	default:
		return "unknown"
	}
}

// Validate checks that k is a known kind.
func (k AssetKind) Validate() error {
	if k < AssetKindApp || k > AssetKindWorkerpool {
		return ErrInvalidAssetKind.Wrapf("%d", k)
	}
	return nil
}

const (
	DefaultWorkerStakeRatio     uint64 = 30
	DefaultSchedulerRewardRatio uint64 = 1
)

// WorkerpoolPolicy is the owner-controlled economics of a workerpool.
type WorkerpoolPolicy struct {
	// WorkerStakeRatio is the percentage of the workerpool price each
	// contributing worker must stake.
	WorkerStakeRatio uint64 `json:"worker_stake_ratio"`
	// SchedulerRewardRatio is the percentage of the task reward kept by the scheduler.
	SchedulerRewardRatio uint64 `json:"scheduler_reward_ratio"`
}

// DefaultWorkerpoolPolicy returns the policy of a freshly registered workerpool.
func DefaultWorkerpoolPolicy() WorkerpoolPolicy {
	return WorkerpoolPolicy{
		WorkerStakeRatio:     DefaultWorkerStakeRatio,
		SchedulerRewardRatio: DefaultSchedulerRewardRatio,
	}
}

// Validate checks both ratios are percentages.
func (p WorkerpoolPolicy) Validate() error {
	if p.WorkerStakeRatio > 100 {
		return ErrInvalidPolicy.Wrapf("worker stake ratio %d exceeds 100", p.WorkerStakeRatio)
	}
	if p.SchedulerRewardRatio > 100 {
		return ErrInvalidPolicy.Wrapf("scheduler reward ratio %d exceeds 100", p.SchedulerRewardRatio)
	}
	return nil
}

// Asset is a registered app, dataset or workerpool.
type Asset struct {
	Kind    AssetKind        `json:"kind"`
	Address common.Address   `json:"address"`
	Owner   common.Address   `json:"owner"`
	Name    string           `json:"name"`
	Policy  WorkerpoolPolicy `json:"policy"`
}

// Validate performs stateless checks on the asset.
func (a Asset) Validate() error {
	if err := a.Kind.Validate(); err != nil {
		return err
	}
	if a.Address == (common.Address{}) {
		return ErrInvalidAddress.Wrap("asset address cannot be zero")
	}
	if a.Owner == (common.Address{}) {
		return ErrInvalidAddress.Wrap("asset owner cannot be zero")
	}
	if a.Name == "" {
		return fmt.Errorf("asset name cannot be empty")
	}
	return a.Policy.Validate()
}

// Category sizes the deadlines of the tasks it classifies.
type Category struct {
	ID               uint64 `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	WorkClockTimeRef uint64 `json:"work_clock_time_ref"`
}

// Validate performs stateless checks on the category.
func (c Category) Validate() error {
	if c.Name == "" {
		return ErrInvalidCategory.Wrap("name cannot be empty")
	}
	if c.WorkClockTimeRef == 0 {
		return ErrInvalidCategory.Wrap("work clock time reference must be positive")
	}
	return nil
}

// DefaultCategories returns the XS to XL categories.
func DefaultCategories() []Category {
	return []Category{
		{ID: 0, Name: "XS", Description: "{}", WorkClockTimeRef: 300},
		{ID: 1, Name: "S", Description: "{}", WorkClockTimeRef: 1200},
		{ID: 2, Name: "M", Description: "{}", WorkClockTimeRef: 3600},
		{ID: 3, Name: "L", Description: "{}", WorkClockTimeRef: 10800},
		{ID: 4, Name: "XL", Description: "{}", WorkClockTimeRef: 36000},
	}
}
