package abci_test

import (
	"errors"
	"testing"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	"github.com/cosmos/cosmos-sdk/testutil"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/poco/x/shared/abci"
)

func newContext(t *testing.T) sdk.Context {
	key := storetypes.NewKVStoreKey("test")
	ctx := testutil.DefaultContext(key, storetypes.NewTransientStoreKey("transient_test"))
	return ctx.WithBlockHeader(cmtproto.Header{Height: 42}).WithLogger(log.NewNopLogger())
}

func TestHandleErrorEmitsEvent(t *testing.T) {
	ctx := newContext(t)
	h := abci.NewBlockerErrorHandler(ctx, "poco")

	h.HandleError("claim_expired_task", abci.SeverityMedium, errors.New("boom"))
	h.HandleError("noop", abci.SeverityHigh, nil)
	require.Equal(t, 1, h.Handled())

	events := ctx.EventManager().Events()
	require.Len(t, events, 1)
	require.Equal(t, abci.EventTypeBlockerError, events[0].Type)

	attrs := map[string]string{}
	for _, a := range events[0].Attributes {
		attrs[a.Key] = a.Value
	}
	require.Equal(t, "poco", attrs["module"])
	require.Equal(t, "medium", attrs["severity"])
	require.Equal(t, "boom", attrs["error"])
	require.Equal(t, "42", attrs["height"])
}

func TestWrapError(t *testing.T) {
	ctx := newContext(t)
	h := abci.NewBlockerErrorHandler(ctx, "poco")

	require.False(t, h.WrapError("ok", abci.SeverityLow, nil))
	require.True(t, h.WrapError("fail", abci.SeverityCritical, errors.New("corrupt")))
	require.Equal(t, 1, h.Handled())
}

func TestSeverityString(t *testing.T) {
	require.Equal(t, "low", abci.SeverityLow.String())
	require.Equal(t, "critical", abci.SeverityCritical.String())
	require.Equal(t, "unknown", abci.ErrorSeverity(9).String())
}
