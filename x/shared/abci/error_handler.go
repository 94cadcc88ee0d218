// Package abci classifies and reports errors raised inside block hooks,
// which must never halt the chain.
package abci

import (
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// EventTypeBlockerError is emitted for every error handled by a BlockerErrorHandler.
const EventTypeBlockerError = "abci_blocker_error"

// ErrorSeverity classifies errors raised inside a blocker.
type ErrorSeverity int

const (
	// SeverityLow is housekeeping that can be retried next block.
	SeverityLow ErrorSeverity = iota
	// SeverityMedium affects a single item, e.g. one expired task.
	SeverityMedium
	// SeverityHigh stops the blocker for this block.
	SeverityHigh
	// SeverityCritical points at corrupted state.
	SeverityCritical
)

func (s ErrorSeverity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// BlockerErrorHandler logs blocker errors and emits one event per error.
type BlockerErrorHandler struct {
	moduleName string
	ctx        sdk.Context
	handled    int
}

// NewBlockerErrorHandler creates a handler for one blocker run.
func NewBlockerErrorHandler(ctx sdk.Context, moduleName string) *BlockerErrorHandler {
	return &BlockerErrorHandler{
		moduleName: moduleName,
		ctx:        ctx,
	}
}

// HandleError records err. Callers continue with the next item afterwards.
func (h *BlockerErrorHandler) HandleError(operation string, severity ErrorSeverity, err error) {
	if err == nil {
		return
	}
	h.handled++

	logger := h.ctx.Logger().With("module", h.moduleName)
	fields := []any{"operation", operation, "severity", severity.String(), "error", err.Error()}
	switch severity {
	case SeverityCritical, SeverityHigh:
		logger.Error("blocker error", fields...)
	case SeverityMedium:
		logger.Warn("blocker error", fields...)
	default:
		logger.Debug("blocker error", fields...)
	}

	h.ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			EventTypeBlockerError,
			sdk.NewAttribute("module", h.moduleName),
			sdk.NewAttribute("operation", operation),
			sdk.NewAttribute("severity", severity.String()),
			sdk.NewAttribute("error", err.Error()),
			sdk.NewAttribute("height", strconv.FormatInt(h.ctx.BlockHeight(), 10)),
		),
	)
}

// WrapError handles err and reports whether there was one.
//
//	if handler.WrapError("claim_expired_task", SeverityMedium, k.Claim(ctx, id)) {
//	    continue
//	}
func (h *BlockerErrorHandler) WrapError(operation string, severity ErrorSeverity, err error) bool {
	if err != nil {
		h.HandleError(operation, severity, err)
		return true
	}
	return false
}

// Handled returns the number of errors handled so far.
func (h *BlockerErrorHandler) Handled() int {
	return h.handled
}
