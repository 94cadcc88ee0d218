package types

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// PocoHooks lets other modules observe task outcomes. AfterTaskFinalized is
// the delivery path of a deal's callback; its error never reverts settlement.
type PocoHooks interface {
	// AfterTaskFinalized is called once the settlement of a completed task is
	// committed. callback is the deal's callback address (zero when none).
	AfterTaskFinalized(ctx context.Context, taskID common.Hash, callback common.Address, resultsCallback []byte) error

	// AfterTaskFailed is called when a task is claimed as failed.
	AfterTaskFailed(ctx context.Context, taskID common.Hash) error
}

// MultiPocoHooks combines multiple hooks, all hook functions are run in array sequence
type MultiPocoHooks []PocoHooks

// NewMultiPocoHooks creates a new MultiPocoHooks instance
func NewMultiPocoHooks(hooks ...PocoHooks) MultiPocoHooks {
	return hooks
}

// AfterTaskFinalized runs every hook and returns the first error.
func (h MultiPocoHooks) AfterTaskFinalized(ctx context.Context, taskID common.Hash, callback common.Address, resultsCallback []byte) error {
	for i := range h {
		if err := h[i].AfterTaskFinalized(ctx, taskID, callback, resultsCallback); err != nil {
			return err
		}
	}
	return nil
}

// AfterTaskFailed runs every hook and returns the first error.
func (h MultiPocoHooks) AfterTaskFailed(ctx context.Context, taskID common.Hash) error {
	for i := range h {
		if err := h[i].AfterTaskFailed(ctx, taskID); err != nil {
			return err
		}
	}
	return nil
}
