// Package poco is the proof-of-contribution marketplace module.
//
// Requesters, asset owners and workerpool schedulers sign orders off-ledger.
// Matching a compatible set of orders creates a funded deal covering a window
// of tasks. Workers commit result hashes to each task, the scheduler asserts a
// consensus, workers reveal, and finalize pays app and dataset owners, the
// scheduler and the winning workers from the escrowed ledger stake.
//
// # Routing
//
// Messages are plain Go structs registered on the LegacyAmino codec; they have
// no protobuf descriptors, so RegisterServices is not implemented. An app
// routes them itself: decode the amino message, then call the matching method
// of AppModule.MsgServer() with the transaction's sdk.Context. Queries go
// through AppModule.QueryServer(), which is rate limited per client.
//
//	ms := pocoModule.MsgServer()
//	res, err := ms.MatchOrders(ctx, &types.MsgMatchOrders{...})
//
// # Dependent modules
//
// Modules that only need to read task outcomes, worker scores or available
// stake should depend on the PocoKeeperV1 or PocoKeeperV1Extended interfaces
// of x/shared/keeper, which the poco keeper satisfies.
//
// # Block hooks
//
// EndBlock claims up to Params.ExpiryBatchSize tasks whose final deadline has
// passed.
package poco
