package types

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
)

// OrderOperation is the on-ledger management action on an order.
type OrderOperation int32

const (
	OrderOperationSign OrderOperation = iota
	OrderOperationClose
)

// MsgServer is the message handling surface of the poco module.
type MsgServer interface {
	Deposit(context.Context, *MsgDeposit) (*MsgDepositResponse, error)
	Withdraw(context.Context, *MsgWithdraw) (*MsgWithdrawResponse, error)
	RegisterAsset(context.Context, *MsgRegisterAsset) (*MsgRegisterAssetResponse, error)
	UpdateWorkerpoolPolicy(context.Context, *MsgUpdateWorkerpoolPolicy) (*MsgUpdateWorkerpoolPolicyResponse, error)
	CreateCategory(context.Context, *MsgCreateCategory) (*MsgCreateCategoryResponse, error)
	UpdateParams(context.Context, *MsgUpdateParams) (*MsgUpdateParamsResponse, error)
	ManageOrder(context.Context, *MsgManageOrder) (*MsgManageOrderResponse, error)
	MatchOrders(context.Context, *MsgMatchOrders) (*MsgMatchOrdersResponse, error)
	Initialize(context.Context, *MsgInitialize) (*MsgInitializeResponse, error)
	Contribute(context.Context, *MsgContribute) (*MsgContributeResponse, error)
	Consensus(context.Context, *MsgConsensus) (*MsgConsensusResponse, error)
	Reveal(context.Context, *MsgReveal) (*MsgRevealResponse, error)
	Reopen(context.Context, *MsgReopen) (*MsgReopenResponse, error)
	Finalize(context.Context, *MsgFinalize) (*MsgFinalizeResponse, error)
	ContributeAndFinalize(context.Context, *MsgContributeAndFinalize) (*MsgContributeAndFinalizeResponse, error)
	Claim(context.Context, *MsgClaim) (*MsgClaimResponse, error)
	ClaimSlot(context.Context, *MsgClaimSlot) (*MsgClaimSlotResponse, error)
	DepositFor(context.Context, *MsgDepositFor) (*MsgDepositForResponse, error)
	DepositForArray(context.Context, *MsgDepositForArray) (*MsgDepositForArrayResponse, error)
	WithdrawTo(context.Context, *MsgWithdrawTo) (*MsgWithdrawToResponse, error)
	InitializeArray(context.Context, *MsgInitializeArray) (*MsgInitializeArrayResponse, error)
	ClaimArray(context.Context, *MsgClaimArray) (*MsgClaimArrayResponse, error)
	InitializeAndClaimArray(context.Context, *MsgInitializeAndClaimArray) (*MsgInitializeAndClaimArrayResponse, error)
	RetryCallback(context.Context, *MsgRetryCallback) (*MsgRetryCallbackResponse, error)
}

var zeroAddress common.Address

var zeroHash common.Hash

func requireAddress(field string, a common.Address) error {
	if a == zeroAddress {
		return ErrInvalidAddress.Wrapf("%s cannot be zero", field)
	}
	return nil
}

func requireHash(field string, h common.Hash) error {
	if h == zeroHash {
		return ErrInvalidResult.Wrapf("%s cannot be zero", field)
	}
	return nil
}

// ValidateBatchLength checks that a batch of n entries is non-empty, pairs
// with m entries and stays within MaxBatchSize.
func ValidateBatchLength(n, m int) error {
	if n == 0 {
		return ErrInvalidArrayLength.Wrap("empty batch")
	}
	if n != m {
		return ErrInvalidArrayLength.Wrapf("%d entries against %d", n, m)
	}
	if n > MaxBatchSize {
		return ErrInvalidArrayLength.Wrapf("%d entries, max %d", n, MaxBatchSize)
	}
	return nil
}

type namedAmount struct {
	name   string
	amount math.Int
}

func requirePositive(field string, amt math.Int) error {
	if amt.IsNil() || !amt.IsPositive() {
		return ErrInvalidAmount.Wrapf("%s must be positive", field)
	}
	return nil
}

func requireNonNegative(field string, amt math.Int) error {
	if amt.IsNil() || amt.IsNegative() {
		return ErrInvalidAmount.Wrapf("%s must be non-negative", field)
	}
	return nil
}

// MsgDeposit moves bank funds into the sender's ledger stake.
type MsgDeposit struct {
	Owner  common.Address `json:"owner"`
	Amount math.Int       `json:"amount"`
}

type MsgDepositResponse struct{}

func (m MsgDeposit) ValidateBasic() error {
	if err := requireAddress("owner", m.Owner); err != nil {
		return err
	}
	return requirePositive("amount", m.Amount)
}

// MsgWithdraw moves available stake back to the sender's bank balance.
type MsgWithdraw struct {
	Owner  common.Address `json:"owner"`
	Amount math.Int       `json:"amount"`
}

type MsgWithdrawResponse struct{}

func (m MsgWithdraw) ValidateBasic() error {
	if err := requireAddress("owner", m.Owner); err != nil {
		return err
	}
	return requirePositive("amount", m.Amount)
}

// MsgDepositFor moves the payer's bank funds into another account's stake.
type MsgDepositFor struct {
	Payer       common.Address `json:"payer"`
	Beneficiary common.Address `json:"beneficiary"`
	Amount      math.Int       `json:"amount"`
}

type MsgDepositForResponse struct{}

func (m MsgDepositFor) ValidateBasic() error {
	if err := requireAddress("payer", m.Payer); err != nil {
		return err
	}
	if err := requireAddress("beneficiary", m.Beneficiary); err != nil {
		return err
	}
	return requirePositive("amount", m.Amount)
}

// MsgDepositForArray funds several ledger accounts from one payer.
type MsgDepositForArray struct {
	Payer         common.Address   `json:"payer"`
	Beneficiaries []common.Address `json:"beneficiaries"`
	Amounts       []math.Int       `json:"amounts"`
}

type MsgDepositForArrayResponse struct{}

func (m MsgDepositForArray) ValidateBasic() error {
	if err := requireAddress("payer", m.Payer); err != nil {
		return err
	}
	if err := ValidateBatchLength(len(m.Beneficiaries), len(m.Amounts)); err != nil {
		return err
	}
	for i := range m.Beneficiaries {
		if err := requireAddress("beneficiary", m.Beneficiaries[i]); err != nil {
			return err
		}
		if err := requirePositive("amount", m.Amounts[i]); err != nil {
			return err
		}
	}
	return nil
}

// MsgWithdrawTo moves the sender's available stake to another bank account.
type MsgWithdrawTo struct {
	Owner     common.Address `json:"owner"`
	Recipient common.Address `json:"recipient"`
	Amount    math.Int       `json:"amount"`
}

type MsgWithdrawToResponse struct{}

func (m MsgWithdrawTo) ValidateBasic() error {
	if err := requireAddress("owner", m.Owner); err != nil {
		return err
	}
	if err := requireAddress("recipient", m.Recipient); err != nil {
		return err
	}
	return requirePositive("amount", m.Amount)
}

// MsgRegisterAsset registers an app, dataset or workerpool owned by the sender.
type MsgRegisterAsset struct {
	Owner common.Address `json:"owner"`
	Kind  AssetKind      `json:"kind"`
	Name  string         `json:"name"`
}

type MsgRegisterAssetResponse struct {
	Address common.Address `json:"address"`
}

func (m MsgRegisterAsset) ValidateBasic() error {
	if err := requireAddress("owner", m.Owner); err != nil {
		return err
	}
	if err := m.Kind.Validate(); err != nil {
		return err
	}
	if m.Name == "" {
		return ErrInvalidOrder.Wrap("asset name cannot be empty")
	}
	return nil
}

// MsgUpdateWorkerpoolPolicy changes the stake and reward ratios of a workerpool.
type MsgUpdateWorkerpoolPolicy struct {
	Owner      common.Address   `json:"owner"`
	Workerpool common.Address   `json:"workerpool"`
	Policy     WorkerpoolPolicy `json:"policy"`
}

type MsgUpdateWorkerpoolPolicyResponse struct{}

func (m MsgUpdateWorkerpoolPolicy) ValidateBasic() error {
	if err := requireAddress("owner", m.Owner); err != nil {
		return err
	}
	if err := requireAddress("workerpool", m.Workerpool); err != nil {
		return err
	}
	return m.Policy.Validate()
}

// MsgCreateCategory appends a category. Governance only.
type MsgCreateCategory struct {
	Authority        string `json:"authority"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	WorkClockTimeRef uint64 `json:"work_clock_time_ref"`
}

type MsgCreateCategoryResponse struct {
	ID uint64 `json:"id"`
}

func (m MsgCreateCategory) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(m.Authority); err != nil {
		return ErrInvalidAddress.Wrapf("invalid authority: %v", err)
	}
	return Category{Name: m.Name, Description: m.Description, WorkClockTimeRef: m.WorkClockTimeRef}.Validate()
}

// MsgUpdateParams replaces the module parameters. Governance only.
type MsgUpdateParams struct {
	Authority string `json:"authority"`
	Params    Params `json:"params"`
}

type MsgUpdateParamsResponse struct{}

func (m MsgUpdateParams) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(m.Authority); err != nil {
		return ErrInvalidAddress.Wrapf("invalid authority: %v", err)
	}
	if err := m.Params.Validate(); err != nil {
		return ErrInvalidParams.Wrap(err.Error())
	}
	return nil
}

// MsgManageOrder presigns or closes exactly one order on behalf of its signer.
type MsgManageOrder struct {
	Signer          common.Address   `json:"signer"`
	Operation       OrderOperation   `json:"operation"`
	AppOrder        *AppOrder        `json:"app_order,omitempty"`
	DatasetOrder    *DatasetOrder    `json:"dataset_order,omitempty"`
	WorkerpoolOrder *WorkerpoolOrder `json:"workerpool_order,omitempty"`
	RequestOrder    *RequestOrder    `json:"request_order,omitempty"`
}

type MsgManageOrderResponse struct {
	OrderHash common.Hash `json:"order_hash"`
}

// Order returns the single order carried by the message.
func (m MsgManageOrder) Order() (Order, error) {
	var found []Order
	if m.AppOrder != nil {
		found = append(found, *m.AppOrder)
	}
	if m.DatasetOrder != nil {
		found = append(found, *m.DatasetOrder)
	}
	if m.WorkerpoolOrder != nil {
		found = append(found, *m.WorkerpoolOrder)
	}
	if m.RequestOrder != nil {
		found = append(found, *m.RequestOrder)
	}
	if len(found) != 1 {
		return nil, ErrInvalidOrder.Wrapf("expected exactly one order, got %d", len(found))
	}
	return found[0], nil
}

func (m MsgManageOrder) ValidateBasic() error {
	if err := requireAddress("signer", m.Signer); err != nil {
		return err
	}
	if m.Operation != OrderOperationSign && m.Operation != OrderOperationClose {
		return ErrInvalidOrderOperation.Wrapf("%d", m.Operation)
	}
	_, err := m.Order()
	return err
}

// MsgMatchOrders matches a tuple of orders into a deal. When Sponsored is
// set the sender pays for the deal instead of the requester.
type MsgMatchOrders struct {
	Sender          common.Address  `json:"sender"`
	AppOrder        AppOrder        `json:"app_order"`
	DatasetOrder    DatasetOrder    `json:"dataset_order"`
	WorkerpoolOrder WorkerpoolOrder `json:"workerpool_order"`
	RequestOrder    RequestOrder    `json:"request_order"`
	Sponsored       bool            `json:"sponsored"`
}

type MsgMatchOrdersResponse struct {
	DealID common.Hash `json:"deal_id"`
	Volume uint64      `json:"volume"`
}

func (m MsgMatchOrders) ValidateBasic() error {
	if err := requireAddress("sender", m.Sender); err != nil {
		return err
	}
	prices := []namedAmount{
		{"appprice", m.AppOrder.AppPrice},
		{"workerpoolprice", m.WorkerpoolOrder.WorkerpoolPrice},
		{"appmaxprice", m.RequestOrder.AppMaxPrice},
		{"workerpoolmaxprice", m.RequestOrder.WorkerpoolMaxPrice},
	}
	if !m.DatasetOrder.IsEmpty() {
		prices = append(prices,
			namedAmount{"datasetprice", m.DatasetOrder.DatasetPrice},
			namedAmount{"datasetmaxprice", m.RequestOrder.DatasetMaxPrice},
		)
	}
	for _, p := range prices {
		if err := requireNonNegative(p.name, p.amount); err != nil {
			return err
		}
	}
	if err := requireAddress("app", m.AppOrder.App); err != nil {
		return err
	}
	if err := requireAddress("workerpool", m.WorkerpoolOrder.Workerpool); err != nil {
		return err
	}
	return requireAddress("requester", m.RequestOrder.Requester)
}

// MsgInitialize opens the task at a relative index of a deal window.
type MsgInitialize struct {
	Sender common.Address `json:"sender"`
	DealID common.Hash    `json:"deal_id"`
	Index  uint64         `json:"index"`
}

type MsgInitializeResponse struct {
	TaskID common.Hash `json:"task_id"`
}

func (m MsgInitialize) ValidateBasic() error {
	if err := requireAddress("sender", m.Sender); err != nil {
		return err
	}
	return requireHash("deal id", m.DealID)
}

// MsgContribute commits a worker's result hash and seal.
type MsgContribute struct {
	Worker            common.Address `json:"worker"`
	TaskID            common.Hash    `json:"task_id"`
	ResultHash        common.Hash    `json:"result_hash"`
	ResultSeal        common.Hash    `json:"result_seal"`
	Enclave           common.Address `json:"enclave"`
	EnclaveSign       []byte         `json:"enclave_sign"`
	AuthorizationSign []byte         `json:"authorization_sign"`
}

type MsgContributeResponse struct{}

func (m MsgContribute) ValidateBasic() error {
	if err := requireAddress("worker", m.Worker); err != nil {
		return err
	}
	if err := requireHash("task id", m.TaskID); err != nil {
		return err
	}
	if err := requireHash("result hash", m.ResultHash); err != nil {
		return err
	}
	if err := requireHash("result seal", m.ResultSeal); err != nil {
		return err
	}
	if len(m.AuthorizationSign) != SignatureLength {
		return ErrInvalidSignature.Wrap("authorization signature has the wrong length")
	}
	return nil
}

// MsgConsensus asserts the consensus value of a task. Scheduler only.
type MsgConsensus struct {
	Scheduler      common.Address `json:"scheduler"`
	TaskID         common.Hash    `json:"task_id"`
	ConsensusValue common.Hash    `json:"consensus_value"`
}

type MsgConsensusResponse struct{}

func (m MsgConsensus) ValidateBasic() error {
	if err := requireAddress("scheduler", m.Scheduler); err != nil {
		return err
	}
	if err := requireHash("task id", m.TaskID); err != nil {
		return err
	}
	return requireHash("consensus value", m.ConsensusValue)
}

// MsgReveal opens a worker's seal with the result digest.
type MsgReveal struct {
	Worker       common.Address `json:"worker"`
	TaskID       common.Hash    `json:"task_id"`
	ResultDigest common.Hash    `json:"result_digest"`
}

type MsgRevealResponse struct{}

func (m MsgReveal) ValidateBasic() error {
	if err := requireAddress("worker", m.Worker); err != nil {
		return err
	}
	return requireHash("task id", m.TaskID)
}

// MsgReopen resets a stalled task to accept fresh contributors. Scheduler only.
type MsgReopen struct {
	Scheduler common.Address `json:"scheduler"`
	TaskID    common.Hash    `json:"task_id"`
}

type MsgReopenResponse struct{}

func (m MsgReopen) ValidateBasic() error {
	if err := requireAddress("scheduler", m.Scheduler); err != nil {
		return err
	}
	return requireHash("task id", m.TaskID)
}

// MsgFinalize completes a task and settles it. Scheduler only.
type MsgFinalize struct {
	Scheduler       common.Address `json:"scheduler"`
	TaskID          common.Hash    `json:"task_id"`
	Results         []byte         `json:"results"`
	ResultsCallback []byte         `json:"results_callback"`
}

type MsgFinalizeResponse struct{}

func (m MsgFinalize) ValidateBasic() error {
	if err := requireAddress("scheduler", m.Scheduler); err != nil {
		return err
	}
	return requireHash("task id", m.TaskID)
}

// MsgContributeAndFinalize is the single contributor fast path of trust 1 deals.
type MsgContributeAndFinalize struct {
	Worker            common.Address `json:"worker"`
	TaskID            common.Hash    `json:"task_id"`
	ResultDigest      common.Hash    `json:"result_digest"`
	Results           []byte         `json:"results"`
	ResultsCallback   []byte         `json:"results_callback"`
	Enclave           common.Address `json:"enclave"`
	EnclaveSign       []byte         `json:"enclave_sign"`
	AuthorizationSign []byte         `json:"authorization_sign"`
}

type MsgContributeAndFinalizeResponse struct{}

func (m MsgContributeAndFinalize) ValidateBasic() error {
	if err := requireAddress("worker", m.Worker); err != nil {
		return err
	}
	if err := requireHash("task id", m.TaskID); err != nil {
		return err
	}
	if len(m.AuthorizationSign) != SignatureLength {
		return ErrInvalidSignature.Wrap("authorization signature has the wrong length")
	}
	return nil
}

// MsgClaim fails an expired task and refunds its escrow.
type MsgClaim struct {
	Sender common.Address `json:"sender"`
	TaskID common.Hash    `json:"task_id"`
}

type MsgClaimResponse struct{}

func (m MsgClaim) ValidateBasic() error {
	if err := requireAddress("sender", m.Sender); err != nil {
		return err
	}
	return requireHash("task id", m.TaskID)
}

// MsgClaimSlot fails a task slot of an expired deal that was never initialized.
type MsgClaimSlot struct {
	Sender common.Address `json:"sender"`
	DealID common.Hash    `json:"deal_id"`
	Index  uint64         `json:"index"`
}

type MsgClaimSlotResponse struct {
	TaskID common.Hash `json:"task_id"`
}

func (m MsgClaimSlot) ValidateBasic() error {
	if err := requireAddress("sender", m.Sender); err != nil {
		return err
	}
	return requireHash("deal id", m.DealID)
}

// MsgInitializeArray opens several tasks at once.
type MsgInitializeArray struct {
	Sender  common.Address `json:"sender"`
	DealIDs []common.Hash  `json:"deal_ids"`
	Indexes []uint64       `json:"indexes"`
}

type MsgInitializeArrayResponse struct {
	TaskIDs []common.Hash `json:"task_ids"`
}

func (m MsgInitializeArray) ValidateBasic() error {
	if err := requireAddress("sender", m.Sender); err != nil {
		return err
	}
	if err := ValidateBatchLength(len(m.DealIDs), len(m.Indexes)); err != nil {
		return err
	}
	for _, id := range m.DealIDs {
		if err := requireHash("deal id", id); err != nil {
			return err
		}
	}
	return nil
}

// MsgClaimArray fails several expired tasks at once.
type MsgClaimArray struct {
	Sender  common.Address `json:"sender"`
	TaskIDs []common.Hash  `json:"task_ids"`
}

type MsgClaimArrayResponse struct{}

func (m MsgClaimArray) ValidateBasic() error {
	if err := requireAddress("sender", m.Sender); err != nil {
		return err
	}
	if err := ValidateBatchLength(len(m.TaskIDs), len(m.TaskIDs)); err != nil {
		return err
	}
	for _, id := range m.TaskIDs {
		if err := requireHash("task id", id); err != nil {
			return err
		}
	}
	return nil
}

// MsgInitializeAndClaimArray fails several never-initialized slots of expired deals.
type MsgInitializeAndClaimArray struct {
	Sender  common.Address `json:"sender"`
	DealIDs []common.Hash  `json:"deal_ids"`
	Indexes []uint64       `json:"indexes"`
}

type MsgInitializeAndClaimArrayResponse struct {
	TaskIDs []common.Hash `json:"task_ids"`
}

func (m MsgInitializeAndClaimArray) ValidateBasic() error {
	return MsgInitializeArray(m).ValidateBasic()
}

// MsgRetryCallback re-attempts delivery of a failed finalize callback.
type MsgRetryCallback struct {
	Sender common.Address `json:"sender"`
	TaskID common.Hash    `json:"task_id"`
}

type MsgRetryCallbackResponse struct {
	Delivered bool `json:"delivered"`
}

func (m MsgRetryCallback) ValidateBasic() error {
	if err := requireAddress("sender", m.Sender); err != nil {
		return err
	}
	return requireHash("task id", m.TaskID)
}
