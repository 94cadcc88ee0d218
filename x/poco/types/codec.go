package types

import (
	"github.com/cosmos/cosmos-sdk/codec"
)

var (
	amino = codec.NewLegacyAmino()

	// ModuleCdc encodes store values and messages of the poco module.
	ModuleCdc = amino
)

func init() {
	RegisterLegacyAminoCodec(amino)
	amino.Seal()
}

// RegisterLegacyAminoCodec registers the poco messages under stable names.
func RegisterLegacyAminoCodec(cdc *codec.LegacyAmino) {
	cdc.RegisterConcrete(&MsgDeposit{}, "poco/MsgDeposit", nil)
	cdc.RegisterConcrete(&MsgWithdraw{}, "poco/MsgWithdraw", nil)
	cdc.RegisterConcrete(&MsgDepositFor{}, "poco/MsgDepositFor", nil)
	cdc.RegisterConcrete(&MsgDepositForArray{}, "poco/MsgDepositForArray", nil)
	cdc.RegisterConcrete(&MsgWithdrawTo{}, "poco/MsgWithdrawTo", nil)
	cdc.RegisterConcrete(&MsgRegisterAsset{}, "poco/MsgRegisterAsset", nil)
	cdc.RegisterConcrete(&MsgUpdateWorkerpoolPolicy{}, "poco/MsgUpdateWorkerpoolPolicy", nil)
	cdc.RegisterConcrete(&MsgCreateCategory{}, "poco/MsgCreateCategory", nil)
	cdc.RegisterConcrete(&MsgUpdateParams{}, "poco/MsgUpdateParams", nil)
	cdc.RegisterConcrete(&MsgManageOrder{}, "poco/MsgManageOrder", nil)
	cdc.RegisterConcrete(&MsgMatchOrders{}, "poco/MsgMatchOrders", nil)
	cdc.RegisterConcrete(&MsgInitialize{}, "poco/MsgInitialize", nil)
	cdc.RegisterConcrete(&MsgContribute{}, "poco/MsgContribute", nil)
	cdc.RegisterConcrete(&MsgConsensus{}, "poco/MsgConsensus", nil)
	cdc.RegisterConcrete(&MsgReveal{}, "poco/MsgReveal", nil)
	cdc.RegisterConcrete(&MsgReopen{}, "poco/MsgReopen", nil)
	cdc.RegisterConcrete(&MsgFinalize{}, "poco/MsgFinalize", nil)
	cdc.RegisterConcrete(&MsgContributeAndFinalize{}, "poco/MsgContributeAndFinalize", nil)
	cdc.RegisterConcrete(&MsgClaim{}, "poco/MsgClaim", nil)
	cdc.RegisterConcrete(&MsgClaimSlot{}, "poco/MsgClaimSlot", nil)
	cdc.RegisterConcrete(&MsgInitializeArray{}, "poco/MsgInitializeArray", nil)
	cdc.RegisterConcrete(&MsgClaimArray{}, "poco/MsgClaimArray", nil)
	cdc.RegisterConcrete(&MsgInitializeAndClaimArray{}, "poco/MsgInitializeAndClaimArray", nil)
	cdc.RegisterConcrete(&MsgRetryCallback{}, "poco/MsgRetryCallback", nil)
}
