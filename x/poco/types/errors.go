package types

import (
	sdkerrors "cosmossdk.io/errors"
)

// PoCo module sentinel errors.
//
// Codes are grouped by class: validation failures are rejected before any
// state is read for mutation, state precondition failures reflect the task
// state machine and the clock, and economic failures come from the ledger.
var (
	// Validation errors
	ErrInvalidOrder          = sdkerrors.Register(ModuleName, 2, "invalid order")
	ErrInvalidSignature      = sdkerrors.Register(ModuleName, 3, "invalid signature")
	ErrRestrictionMismatch   = sdkerrors.Register(ModuleName, 4, "order restriction mismatch")
	ErrPriceMismatch         = sdkerrors.Register(ModuleName, 5, "order price exceeds request max price")
	ErrCategoryMismatch      = sdkerrors.Register(ModuleName, 6, "order category mismatch")
	ErrTrustMismatch         = sdkerrors.Register(ModuleName, 7, "order trust mismatch")
	ErrTagMismatch           = sdkerrors.Register(ModuleName, 8, "order tag mismatch")
	ErrAssetMismatch         = sdkerrors.Register(ModuleName, 9, "order asset mismatch")
	ErrNoMatchableVolume     = sdkerrors.Register(ModuleName, 10, "no matchable volume")
	ErrInvalidAddress        = sdkerrors.Register(ModuleName, 11, "invalid address")
	ErrInvalidAmount         = sdkerrors.Register(ModuleName, 12, "invalid amount")
	ErrInvalidParams         = sdkerrors.Register(ModuleName, 13, "invalid module parameters")
	ErrInvalidGenesis        = sdkerrors.Register(ModuleName, 14, "invalid genesis state")
	ErrInvalidResult         = sdkerrors.Register(ModuleName, 15, "invalid result")
	ErrInvalidTaskIndex      = sdkerrors.Register(ModuleName, 16, "task index out of deal window")
	ErrInvalidAssetKind      = sdkerrors.Register(ModuleName, 17, "invalid asset kind")
	ErrInvalidPolicy         = sdkerrors.Register(ModuleName, 18, "invalid workerpool policy")
	ErrInvalidCategory       = sdkerrors.Register(ModuleName, 19, "invalid category")
	ErrInvalidOrderOperation = sdkerrors.Register(ModuleName, 20, "invalid order operation")
	ErrInvalidArrayLength    = sdkerrors.Register(ModuleName, 21, "invalid batch length")

	// State precondition errors
	ErrDealNotFound            = sdkerrors.Register(ModuleName, 40, "deal not found")
	ErrTaskNotFound            = sdkerrors.Register(ModuleName, 41, "task not found")
	ErrTaskAlreadyInitialized  = sdkerrors.Register(ModuleName, 42, "task already initialized")
	ErrInvalidTaskStatus       = sdkerrors.Register(ModuleName, 43, "invalid task status")
	ErrDeadlineReached         = sdkerrors.Register(ModuleName, 44, "deadline reached")
	ErrDeadlineNotReached      = sdkerrors.Register(ModuleName, 45, "deadline not reached")
	ErrAlreadyContributed      = sdkerrors.Register(ModuleName, 46, "worker already contributed")
	ErrContributionNotFound    = sdkerrors.Register(ModuleName, 47, "contribution not found")
	ErrInvalidContribution     = sdkerrors.Register(ModuleName, 48, "invalid contribution status")
	ErrUnauthorized            = sdkerrors.Register(ModuleName, 49, "unauthorized")
	ErrQuorumNotReached        = sdkerrors.Register(ModuleName, 50, "consensus quorum not reached")
	ErrConsensusMismatch       = sdkerrors.Register(ModuleName, 51, "result does not match consensus")
	ErrEnclaveRequired         = sdkerrors.Register(ModuleName, 52, "enclave required by deal tag")
	ErrRevealsPending          = sdkerrors.Register(ModuleName, 53, "reveals pending")
	ErrTrustTooHigh            = sdkerrors.Register(ModuleName, 54, "deal trust does not allow single contribution")
	ErrAssetNotFound           = sdkerrors.Register(ModuleName, 55, "asset not found")
	ErrAssetExists             = sdkerrors.Register(ModuleName, 56, "asset already registered")
	ErrCategoryNotFound        = sdkerrors.Register(ModuleName, 57, "category not found")
	ErrOrderClosed             = sdkerrors.Register(ModuleName, 58, "order fully consumed or closed")
	ErrCallbackMismatch        = sdkerrors.Register(ModuleName, 59, "results callback does not match revealed digest")
	ErrCallbackNotPending      = sdkerrors.Register(ModuleName, 60, "no pending callback for task")
	ErrDealExpired             = sdkerrors.Register(ModuleName, 61, "deal expired")
	ErrTaskAlreadyFinal        = sdkerrors.Register(ModuleName, 62, "task already in a final state")
	ErrTaskHasContributions    = sdkerrors.Register(ModuleName, 63, "task has prior contributions")
	ErrSettlementInconsistency = sdkerrors.Register(ModuleName, 64, "settlement left value unallocated")

	// Economic errors
	ErrInsufficientStake  = sdkerrors.Register(ModuleName, 70, "insufficient available stake")
	ErrInsufficientFrozen = sdkerrors.Register(ModuleName, 71, "insufficient frozen balance")
	ErrOverflow           = sdkerrors.Register(ModuleName, 72, "arithmetic overflow")
	ErrTransferFailed     = sdkerrors.Register(ModuleName, 73, "bank transfer failed")
)
