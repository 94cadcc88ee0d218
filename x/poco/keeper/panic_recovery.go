package keeper

import (
	"fmt"
	"runtime/debug"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/poco/x/poco/types"
)

// recovered logs and reports a panic value caught by one of the Safe* wrappers.
func recovered(ctx sdk.Context, handler string, r interface{}) error {
	ctx.Logger().Error("PANIC RECOVERED",
		"handler", handler,
		"panic", fmt.Sprintf("%v", r),
		"stack_trace", string(debug.Stack()),
	)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePanicRecovered,
			sdk.NewAttribute(types.AttributeKeyOperation, handler),
			sdk.NewAttribute(types.AttributeKeyError, fmt.Sprintf("%v", r)),
		),
	)
	NewPocoMetrics().PanicRecoveries.Inc()

	return fmt.Errorf("panic in %s: %v", handler, r)
}

// SafeExecute wraps a function with panic recovery
func SafeExecute(ctx sdk.Context, handler string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recovered(ctx, handler, r)
		}
	}()

	return fn()
}

// SafeExecuteWithReturn wraps a function with return value and panic recovery
func SafeExecuteWithReturn[T any](ctx sdk.Context, handler string, fn func() (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recovered(ctx, handler, r)
			var zero T
			result = zero
		}
	}()

	return fn()
}
