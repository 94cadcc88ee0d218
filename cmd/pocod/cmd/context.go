package cmd

import (
	"context"

	"cosmossdk.io/log"
)

func withLogger(ctx context.Context, logger log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}

// loggerFrom returns the command logger, or a no-op logger outside pocod.
func loggerFrom(ctx context.Context) log.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey{}).(log.Logger); ok {
			return logger
		}
	}
	return log.NewNopLogger()
}
