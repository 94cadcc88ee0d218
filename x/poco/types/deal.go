package types

import (
	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
)

// DealResource is one of the three priced resources of a deal.
type DealResource struct {
	Pointer common.Address `json:"pointer"`
	Owner   common.Address `json:"owner"`
	Price   math.Int       `json:"price"`
}

// Deal is a funded match of one order tuple covering the task window
// [BotFirst, BotFirst+BotSize).
type Deal struct {
	ID                   common.Hash    `json:"id"`
	RequestHash          common.Hash    `json:"request_hash"`
	App                  DealResource   `json:"app"`
	Dataset              DealResource   `json:"dataset"`
	Workerpool           DealResource   `json:"workerpool"`
	Trust                uint64         `json:"trust"`
	Category             uint64         `json:"category"`
	Tag                  common.Hash    `json:"tag"`
	Requester            common.Address `json:"requester"`
	Sponsor              common.Address `json:"sponsor"`
	Beneficiary          common.Address `json:"beneficiary"`
	Callback             common.Address `json:"callback"`
	Params               string         `json:"params"`
	StartTime            uint64         `json:"start_time"`
	BotFirst             uint64         `json:"bot_first"`
	BotSize              uint64         `json:"bot_size"`
	WorkerStake          math.Int       `json:"worker_stake"`
	SchedulerStake       math.Int       `json:"scheduler_stake"`
	SchedulerRewardRatio uint64         `json:"scheduler_reward_ratio"`
}

// TaskPrice is the amount the sponsor pays for one task of the deal.
func (d Deal) TaskPrice() math.Int {
	return d.App.Price.Add(d.Dataset.Price).Add(d.Workerpool.Price)
}

// Scheduler is the owner of the deal's workerpool.
func (d Deal) Scheduler() common.Address {
	return d.Workerpool.Owner
}

// TaskStatus is the state of a task.
type TaskStatus int32

const (
	TaskStatusUnset TaskStatus = iota
	TaskStatusActive
	TaskStatusRevealing
	TaskStatusCompleted
	TaskStatusFailed
)

func (s TaskStatus) String() string {
	switch s {
	case TaskStatusUnset:
		return "UNSET"
	case TaskStatusActive:
		return "ACTIVE"
	case TaskStatusRevealing:
		return "REVEALING"
	case TaskStatusCompleted:
		return "COMPLETED"
	case TaskStatusFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// IsFinal reports whether no further transition is possible.
func (s TaskStatus) IsFinal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}

// Task is one unit of work of a deal. Times are unix seconds.
type Task struct {
	ID                   common.Hash `json:"id"`
	DealID               common.Hash `json:"deal_id"`
	Index                uint64      `json:"index"`
	Status               TaskStatus  `json:"status"`
	TimeRef              uint64      `json:"time_ref"`
	ContributionDeadline uint64      `json:"contribution_deadline"`
	RevealDeadline       uint64      `json:"reveal_deadline"`
	FinalDeadline        uint64      `json:"final_deadline"`
	ConsensusValue       common.Hash `json:"consensus_value"`
	RevealCounter        uint64      `json:"reveal_counter"`
	WinnerCounter        uint64      `json:"winner_counter"`
	ContributorCount     uint64      `json:"contributor_count"`
	ReopenCount          uint64      `json:"reopen_count"`
	ResultDigest         common.Hash `json:"result_digest"`
	Results              []byte      `json:"results"`
	ResultsCallback      []byte      `json:"results_callback"`
}

// ContributionStatus is the state of a worker's contribution to a task.
type ContributionStatus int32

const (
	ContributionStatusUnset ContributionStatus = iota
	ContributionStatusContributed
	ContributionStatusProved
	ContributionStatusRejected
)

func (s ContributionStatus) String() string {
	switch s {
	case ContributionStatusUnset:
		return "UNSET"
	case ContributionStatusContributed:
		return "CONTRIBUTED"
	case ContributionStatusProved:
		return "PROVED"
	case ContributionStatusRejected:
		return "REJECTED"
	default:
		return "UNKNOWN"
	}
}

// Contribution is a worker's commitment on a task.
type Contribution struct {
	TaskID     common.Hash        `json:"task_id"`
	Worker     common.Address     `json:"worker"`
	Status     ContributionStatus `json:"status"`
	ResultHash common.Hash        `json:"result_hash"`
	ResultSeal common.Hash        `json:"result_seal"`
	Enclave    common.Address     `json:"enclave"`
	Weight     uint64             `json:"weight"`
	Sequence   uint64             `json:"sequence"`
}

// PendingCallback records a finalize callback whose delivery failed.
type PendingCallback struct {
	TaskID    common.Hash    `json:"task_id"`
	Callback  common.Address `json:"callback"`
	Attempts  uint64         `json:"attempts"`
	LastError string         `json:"last_error"`
}
