package types

// Event types and attribute keys emitted by the poco module.
const (
	EventTypeDeposit           = "poco_deposit"
	EventTypeWithdraw          = "poco_withdraw"
	EventTypeAssetRegistered   = "poco_asset_registered"
	EventTypePolicyUpdated     = "poco_policy_updated"
	EventTypeCategoryCreated   = "poco_category_created"
	EventTypeOrderPresigned    = "poco_order_presigned"
	EventTypeOrderClosed       = "poco_order_closed"
	EventTypeOrdersMatched     = "poco_orders_matched"
	EventTypeScheduleDeal      = "poco_schedule_deal"
	EventTypeTaskInitialize    = "poco_task_initialize"
	EventTypeTaskContribute    = "poco_task_contribute"
	EventTypeTaskConsensus     = "poco_task_consensus"
	EventTypeTaskReveal        = "poco_task_reveal"
	EventTypeTaskReopen        = "poco_task_reopen"
	EventTypeTaskFinalize      = "poco_task_finalize"
	EventTypeTaskClaimed       = "poco_task_claimed"
	EventTypeReward            = "poco_reward"
	EventTypeSeize             = "poco_seize"
	EventTypeAccurateContrib   = "poco_accurate_contribution"
	EventTypeFaultyContrib     = "poco_faulty_contribution"
	EventTypeCallbackDelivered = "poco_callback_delivered"
	EventTypeCallbackFailed    = "poco_callback_failed"
	EventTypePanicRecovered    = "poco_panic_recovered"
	EventTypeParamsUpdated     = "poco_params_updated"

	AttributeKeyAccount        = "account"
	AttributeKeyPayer          = "payer"
	AttributeKeyRecipient      = "recipient"
	AttributeKeyAmount         = "amount"
	AttributeKeyAsset          = "asset"
	AttributeKeyAssetKind      = "asset_kind"
	AttributeKeyOwner          = "owner"
	AttributeKeyCategory       = "category"
	AttributeKeyOrderHash      = "order_hash"
	AttributeKeyOrderKind      = "order_kind"
	AttributeKeyAppHash        = "app_hash"
	AttributeKeyDatasetHash    = "dataset_hash"
	AttributeKeyWorkerpoolHash = "workerpool_hash"
	AttributeKeyRequestHash    = "request_hash"
	AttributeKeyDealID         = "deal_id"
	AttributeKeyVolume         = "volume"
	AttributeKeyBotFirst       = "bot_first"
	AttributeKeyBotSize        = "bot_size"
	AttributeKeyWorkerpool     = "workerpool"
	AttributeKeyTaskID         = "task_id"
	AttributeKeyWorker         = "worker"
	AttributeKeyResultHash     = "result_hash"
	AttributeKeyConsensus      = "consensus"
	AttributeKeyDigest         = "digest"
	AttributeKeyResults        = "results"
	AttributeKeyCallback       = "callback"
	AttributeKeyError          = "error"
	AttributeKeyOperation      = "operation"
	AttributeKeyReason         = "reason"
)
