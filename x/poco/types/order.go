package types

import (
	"math/big"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// OrderKind identifies one of the four order types.
type OrderKind int32

const (
	OrderKindApp OrderKind = iota
	OrderKindDataset
	OrderKindWorkerpool
	OrderKindRequest
)

func (k OrderKind) String() string {
	switch k {
	case OrderKindApp:
		return "app"
	case OrderKindDataset:
		return "dataset"
	case OrderKindWorkerpool:
		return "workerpool"
	case OrderKindRequest:
		return "request"
	default:
		return "unknown"
	}
}

// ParseOrderKind parses the lowercase name of an order kind.
func ParseOrderKind(s string) (OrderKind, error) {
	switch s {
	case "app":
		return OrderKindApp, nil
	case "dataset":
		return OrderKindDataset, nil
	case "workerpool":
		return OrderKindWorkerpool, nil
	case "request":
		return OrderKindRequest, nil
	default:
		return 0, ErrInvalidOrder.Wrapf("unknown order kind %q", s)
	}
}

// Order is implemented by the four signed order types.
type Order interface {
	Kind() OrderKind
	Hash(domain Domain) (common.Hash, error)
	Signature() []byte
	OrderVolume() uint64
}

var orderTypes = apitypes.Types{
	"EIP712Domain": {
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
		{Name: "chainId", Type: "uint256"},
		{Name: "verifyingContract", Type: "address"},
	},
	"AppOrder": {
		{Name: "app", Type: "address"},
		{Name: "appprice", Type: "uint256"},
		{Name: "volume", Type: "uint256"},
		{Name: "tag", Type: "bytes32"},
		{Name: "datasetrestrict", Type: "address"},
		{Name: "workerpoolrestrict", Type: "address"},
		{Name: "requesterrestrict", Type: "address"},
		{Name: "salt", Type: "bytes32"},
	},
	"DatasetOrder": {
		{Name: "dataset", Type: "address"},
		{Name: "datasetprice", Type: "uint256"},
		{Name: "volume", Type: "uint256"},
		{Name: "tag", Type: "bytes32"},
		{Name: "apprestrict", Type: "address"},
		{Name: "workerpoolrestrict", Type: "address"},
		{Name: "requesterrestrict", Type: "address"},
		{Name: "salt", Type: "bytes32"},
	},
	"WorkerpoolOrder": {
		{Name: "workerpool", Type: "address"},
		{Name: "workerpoolprice", Type: "uint256"},
		{Name: "volume", Type: "uint256"},
		{Name: "tag", Type: "bytes32"},
		{Name: "category", Type: "uint256"},
		{Name: "trust", Type: "uint256"},
		{Name: "apprestrict", Type: "address"},
		{Name: "datasetrestrict", Type: "address"},
		{Name: "requesterrestrict", Type: "address"},
		{Name: "salt", Type: "bytes32"},
	},
	"RequestOrder": {
		{Name: "app", Type: "address"},
		{Name: "appmaxprice", Type: "uint256"},
		{Name: "dataset", Type: "address"},
		{Name: "datasetmaxprice", Type: "uint256"},
		{Name: "workerpool", Type: "address"},
		{Name: "workerpoolmaxprice", Type: "uint256"},
		{Name: "requester", Type: "address"},
		{Name: "volume", Type: "uint256"},
		{Name: "tag", Type: "bytes32"},
		{Name: "category", Type: "uint256"},
		{Name: "trust", Type: "uint256"},
		{Name: "beneficiary", Type: "address"},
		{Name: "callback", Type: "address"},
		{Name: "params", Type: "string"},
		{Name: "salt", Type: "bytes32"},
	},
}

// AppOrder offers executions of an application at a unit price.
type AppOrder struct {
	App                common.Address `json:"app" yaml:"app"`
	AppPrice           math.Int       `json:"appprice" yaml:"appprice"`
	Volume             uint64         `json:"volume" yaml:"volume"`
	Tag                common.Hash    `json:"tag" yaml:"tag"`
	DatasetRestrict    common.Address `json:"datasetrestrict" yaml:"datasetrestrict"`
	WorkerpoolRestrict common.Address `json:"workerpoolrestrict" yaml:"workerpoolrestrict"`
	RequesterRestrict  common.Address `json:"requesterrestrict" yaml:"requesterrestrict"`
	Salt               common.Hash    `json:"salt" yaml:"salt"`
	Sign               []byte         `json:"sign" yaml:"sign"`
}

func (o AppOrder) Kind() OrderKind     { return OrderKindApp }
func (o AppOrder) Signature() []byte   { return o.Sign }
func (o AppOrder) OrderVolume() uint64 { return o.Volume }

// Hash returns the EIP-712 typed data hash of the order.
func (o AppOrder) Hash(domain Domain) (common.Hash, error) {
	return typedDataHash(domain, "AppOrder", apitypes.TypedDataMessage{
		"app":                o.App.Hex(),
		"appprice":           bigOf(o.AppPrice),
		"volume":             new(big.Int).SetUint64(o.Volume),
		"tag":                o.Tag.Hex(),
		"datasetrestrict":    o.DatasetRestrict.Hex(),
		"workerpoolrestrict": o.WorkerpoolRestrict.Hex(),
		"requesterrestrict":  o.RequesterRestrict.Hex(),
		"salt":               o.Salt.Hex(),
	})
}

// DatasetOrder offers use of a dataset at a unit price.
type DatasetOrder struct {
	Dataset            common.Address `json:"dataset" yaml:"dataset"`
	DatasetPrice       math.Int       `json:"datasetprice" yaml:"datasetprice"`
	Volume             uint64         `json:"volume" yaml:"volume"`
	Tag                common.Hash    `json:"tag" yaml:"tag"`
	AppRestrict        common.Address `json:"apprestrict" yaml:"apprestrict"`
	WorkerpoolRestrict common.Address `json:"workerpoolrestrict" yaml:"workerpoolrestrict"`
	RequesterRestrict  common.Address `json:"requesterrestrict" yaml:"requesterrestrict"`
	Salt               common.Hash    `json:"salt" yaml:"salt"`
	Sign               []byte         `json:"sign" yaml:"sign"`
}

func (o DatasetOrder) Kind() OrderKind     { return OrderKindDataset }
func (o DatasetOrder) Signature() []byte   { return o.Sign }
func (o DatasetOrder) OrderVolume() uint64 { return o.Volume }

// IsEmpty reports whether the order stands for "no dataset".
func (o DatasetOrder) IsEmpty() bool {
	return o.Dataset == (common.Address{})
}

// Hash returns the EIP-712 typed data hash of the order.
func (o DatasetOrder) Hash(domain Domain) (common.Hash, error) {
	return typedDataHash(domain, "DatasetOrder", apitypes.TypedDataMessage{
		"dataset":            o.Dataset.Hex(),
		"datasetprice":       bigOf(o.DatasetPrice),
		"volume":             new(big.Int).SetUint64(o.Volume),
		"tag":                o.Tag.Hex(),
		"apprestrict":        o.AppRestrict.Hex(),
		"workerpoolrestrict": o.WorkerpoolRestrict.Hex(),
		"requesterrestrict":  o.RequesterRestrict.Hex(),
		"salt":               o.Salt.Hex(),
	})
}

// WorkerpoolOrder offers compute capacity of a workerpool at a unit price.
type WorkerpoolOrder struct {
	Workerpool        common.Address `json:"workerpool" yaml:"workerpool"`
	WorkerpoolPrice   math.Int       `json:"workerpoolprice" yaml:"workerpoolprice"`
	Volume            uint64         `json:"volume" yaml:"volume"`
	Tag               common.Hash    `json:"tag" yaml:"tag"`
	Category          uint64         `json:"category" yaml:"category"`
	Trust             uint64         `json:"trust" yaml:"trust"`
	AppRestrict       common.Address `json:"apprestrict" yaml:"apprestrict"`
	DatasetRestrict   common.Address `json:"datasetrestrict" yaml:"datasetrestrict"`
	RequesterRestrict common.Address `json:"requesterrestrict" yaml:"requesterrestrict"`
	Salt              common.Hash    `json:"salt" yaml:"salt"`
	Sign              []byte         `json:"sign" yaml:"sign"`
}

func (o WorkerpoolOrder) Kind() OrderKind     { return OrderKindWorkerpool }
func (o WorkerpoolOrder) Signature() []byte   { return o.Sign }
func (o WorkerpoolOrder) OrderVolume() uint64 { return o.Volume }

// Hash returns the EIP-712 typed data hash of the order.
func (o WorkerpoolOrder) Hash(domain Domain) (common.Hash, error) {
	return typedDataHash(domain, "WorkerpoolOrder", apitypes.TypedDataMessage{
		"workerpool":        o.Workerpool.Hex(),
		"workerpoolprice":   bigOf(o.WorkerpoolPrice),
		"volume":            new(big.Int).SetUint64(o.Volume),
		"tag":               o.Tag.Hex(),
		"category":          new(big.Int).SetUint64(o.Category),
		"trust":             new(big.Int).SetUint64(o.Trust),
		"apprestrict":       o.AppRestrict.Hex(),
		"datasetrestrict":   o.DatasetRestrict.Hex(),
		"requesterrestrict": o.RequesterRestrict.Hex(),
		"salt":              o.Salt.Hex(),
	})
}

// RequestOrder is the requester's intent to buy executions.
type RequestOrder struct {
	App                common.Address `json:"app" yaml:"app"`
	AppMaxPrice        math.Int       `json:"appmaxprice" yaml:"appmaxprice"`
	Dataset            common.Address `json:"dataset" yaml:"dataset"`
	DatasetMaxPrice    math.Int       `json:"datasetmaxprice" yaml:"datasetmaxprice"`
	Workerpool         common.Address `json:"workerpool" yaml:"workerpool"`
	WorkerpoolMaxPrice math.Int       `json:"workerpoolmaxprice" yaml:"workerpoolmaxprice"`
	Requester          common.Address `json:"requester" yaml:"requester"`
	Volume             uint64         `json:"volume" yaml:"volume"`
	Tag                common.Hash    `json:"tag" yaml:"tag"`
	Category           uint64         `json:"category" yaml:"category"`
	Trust              uint64         `json:"trust" yaml:"trust"`
	Beneficiary        common.Address `json:"beneficiary" yaml:"beneficiary"`
	Callback           common.Address `json:"callback" yaml:"callback"`
	Params             string         `json:"params" yaml:"params"`
	Salt               common.Hash    `json:"salt" yaml:"salt"`
	Sign               []byte         `json:"sign" yaml:"sign"`
}

func (o RequestOrder) Kind() OrderKind     { return OrderKindRequest }
func (o RequestOrder) Signature() []byte   { return o.Sign }
func (o RequestOrder) OrderVolume() uint64 { return o.Volume }

// Hash returns the EIP-712 typed data hash of the order.
func (o RequestOrder) Hash(domain Domain) (common.Hash, error) {
	return typedDataHash(domain, "RequestOrder", apitypes.TypedDataMessage{
		"app":                o.App.Hex(),
		"appmaxprice":        bigOf(o.AppMaxPrice),
		"dataset":            o.Dataset.Hex(),
		"datasetmaxprice":    bigOf(o.DatasetMaxPrice),
		"workerpool":         o.Workerpool.Hex(),
		"workerpoolmaxprice": bigOf(o.WorkerpoolMaxPrice),
		"requester":          o.Requester.Hex(),
		"volume":             new(big.Int).SetUint64(o.Volume),
		"tag":                o.Tag.Hex(),
		"category":           new(big.Int).SetUint64(o.Category),
		"trust":              new(big.Int).SetUint64(o.Trust),
		"beneficiary":        o.Beneficiary.Hex(),
		"callback":           o.Callback.Hex(),
		"params":             o.Params,
		"salt":               o.Salt.Hex(),
	})
}

func typedDataHash(domain Domain, primaryType string, message apitypes.TypedDataMessage) (common.Hash, error) {
	digest, _, err := apitypes.TypedDataAndHash(apitypes.TypedData{
		Types:       orderTypes,
		PrimaryType: primaryType,
		Domain:      domain.typedDataDomain(),
		Message:     message,
	})
	if err != nil {
		return common.Hash{}, ErrInvalidOrder.Wrapf("%s hash: %v", primaryType, err)
	}
	return common.BytesToHash(digest), nil
}

// bigOf treats an unset price as zero.
func bigOf(i math.Int) *big.Int {
	if i.IsNil() {
		return new(big.Int)
	}
	return i.BigInt()
}
