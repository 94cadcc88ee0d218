package keeper

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"github.com/paw-chain/poco/x/poco/types"
)

// RateLimiter hands out one token bucket per query client. Buckets of clients
// idle for longer than the idle window are pruned every pruneEvery calls.
type RateLimiter struct {
	limiters   sync.Map
	lastSeen   sync.Map
	rps        rate.Limit
	burst      int
	idle       time.Duration
	pruneEvery uint64
	calls      atomic.Uint64
	now        func() time.Time
}

// NewRateLimiter creates a limiter allowing rps requests per second per
// client with the given burst.
func NewRateLimiter(rps, burst int) *RateLimiter {
	return &RateLimiter{
		rps:        rate.Limit(rps),
		burst:      burst,
		idle:       5 * time.Minute,
		pruneEvery: 1024,
		now:        time.Now,
	}
}

// Allow reports whether clientID may issue one more query now.
func (rl *RateLimiter) Allow(clientID string) bool {
	t := rl.now()
	if rl.calls.Add(1)%rl.pruneEvery == 0 {
		rl.Prune(t)
	}
	l, _ := rl.limiters.LoadOrStore(clientID, rate.NewLimiter(rl.rps, rl.burst))
	rl.lastSeen.Store(clientID, t)
	return l.(*rate.Limiter).AllowN(t, 1)
}

// Prune drops the buckets of clients idle for longer than the idle window.
func (rl *RateLimiter) Prune(now time.Time) {
	rl.lastSeen.Range(func(key, value any) bool {
		if now.Sub(value.(time.Time)) > rl.idle {
			rl.lastSeen.Delete(key)
			rl.limiters.Delete(key)
		}
		return true
	})
}

// getClientID extracts a client identifier from the context
// Priority: metadata > peer IP
func getClientID(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if clientIDs := md.Get("x-client-id"); len(clientIDs) > 0 {
			return clientIDs[0]
		}
		if apiKeys := md.Get("x-api-key"); len(apiKeys) > 0 {
			return apiKeys[0]
		}
	}
	if p, ok := peer.FromContext(ctx); ok {
		return p.Addr.String()
	}
	return "unknown"
}

// RateLimitedQueryServer wraps a query server with rate limiting
type RateLimitedQueryServer struct {
	types.QueryServer
	limiter *RateLimiter
}

var _ types.QueryServer = (*RateLimitedQueryServer)(nil)

// NewRateLimitedQueryServer creates a new rate-limited query server
func NewRateLimitedQueryServer(qs types.QueryServer, limiter *RateLimiter) *RateLimitedQueryServer {
	return &RateLimitedQueryServer{
		QueryServer: qs,
		limiter:     limiter,
	}
}

func (rlqs *RateLimitedQueryServer) checkRateLimit(ctx context.Context, method string) error {
	if !rlqs.limiter.Allow(getClientID(ctx)) {
		return fmt.Errorf("%s: %w", method, status.Error(codes.ResourceExhausted, "query rate limit exceeded"))
	}
	return nil
}

func (rlqs *RateLimitedQueryServer) Params(ctx context.Context, req *types.QueryParamsRequest) (*types.QueryParamsResponse, error) {
	if err := rlqs.checkRateLimit(ctx, "Params"); err != nil {
		return nil, err
	}
	return rlqs.QueryServer.Params(ctx, req)
}

func (rlqs *RateLimitedQueryServer) Account(ctx context.Context, req *types.QueryAccountRequest) (*types.QueryAccountResponse, error) {
	if err := rlqs.checkRateLimit(ctx, "Account"); err != nil {
		return nil, err
	}
	return rlqs.QueryServer.Account(ctx, req)
}

func (rlqs *RateLimitedQueryServer) Score(ctx context.Context, req *types.QueryScoreRequest) (*types.QueryScoreResponse, error) {
	if err := rlqs.checkRateLimit(ctx, "Score"); err != nil {
		return nil, err
	}
	return rlqs.QueryServer.Score(ctx, req)
}

func (rlqs *RateLimitedQueryServer) Deal(ctx context.Context, req *types.QueryDealRequest) (*types.QueryDealResponse, error) {
	if err := rlqs.checkRateLimit(ctx, "Deal"); err != nil {
		return nil, err
	}
	return rlqs.QueryServer.Deal(ctx, req)
}

func (rlqs *RateLimitedQueryServer) DealsByRequest(ctx context.Context, req *types.QueryDealsByRequestRequest) (*types.QueryDealsByRequestResponse, error) {
	if err := rlqs.checkRateLimit(ctx, "DealsByRequest"); err != nil {
		return nil, err
	}
	return rlqs.QueryServer.DealsByRequest(ctx, req)
}

func (rlqs *RateLimitedQueryServer) Task(ctx context.Context, req *types.QueryTaskRequest) (*types.QueryTaskResponse, error) {
	if err := rlqs.checkRateLimit(ctx, "Task"); err != nil {
		return nil, err
	}
	return rlqs.QueryServer.Task(ctx, req)
}

func (rlqs *RateLimitedQueryServer) Contribution(ctx context.Context, req *types.QueryContributionRequest) (*types.QueryContributionResponse, error) {
	if err := rlqs.checkRateLimit(ctx, "Contribution"); err != nil {
		return nil, err
	}
	return rlqs.QueryServer.Contribution(ctx, req)
}

func (rlqs *RateLimitedQueryServer) Consumed(ctx context.Context, req *types.QueryConsumedRequest) (*types.QueryConsumedResponse, error) {
	if err := rlqs.checkRateLimit(ctx, "Consumed"); err != nil {
		return nil, err
	}
	return rlqs.QueryServer.Consumed(ctx, req)
}

func (rlqs *RateLimitedQueryServer) Category(ctx context.Context, req *types.QueryCategoryRequest) (*types.QueryCategoryResponse, error) {
	if err := rlqs.checkRateLimit(ctx, "Category"); err != nil {
		return nil, err
	}
	return rlqs.QueryServer.Category(ctx, req)
}

func (rlqs *RateLimitedQueryServer) Asset(ctx context.Context, req *types.QueryAssetRequest) (*types.QueryAssetResponse, error) {
	if err := rlqs.checkRateLimit(ctx, "Asset"); err != nil {
		return nil, err
	}
	return rlqs.QueryServer.Asset(ctx, req)
}

func (rlqs *RateLimitedQueryServer) PendingCallbacks(ctx context.Context, req *types.QueryPendingCallbacksRequest) (*types.QueryPendingCallbacksResponse, error) {
	if err := rlqs.checkRateLimit(ctx, "PendingCallbacks"); err != nil {
		return nil, err
	}
	return rlqs.QueryServer.PendingCallbacks(ctx, req)
}
