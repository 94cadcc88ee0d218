package cli

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/paw-chain/poco/x/poco/types"
)

// GetToolsCmd returns the offline commands of the poco module: order hashing
// and id derivation without a node.
func GetToolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "PoCo offline tooling",
		SuggestionsMinimumDistance: 2,
	}

	cmd.AddCommand(
		CmdOrder(),
		CmdIDs(),
		CmdResult(),
	)

	return cmd
}

// AddDomainFlags registers the EIP-712 domain flags on cmd.
func AddDomainFlags(fs *pflag.FlagSet) {
	d := types.DefaultDomain()
	fs.String(FlagDomainName, d.Name, "EIP-712 domain name")
	fs.String(FlagDomainVersion, d.Version, "EIP-712 domain version")
	fs.String(FlagChainID, cast.ToString(d.ChainID), "EIP-712 domain chain id")
	fs.String(FlagVerifyingContract, d.VerifyingContract.Hex(), "EIP-712 verifying contract address")
}

// DomainFromFlags reads the domain flags.
func DomainFromFlags(fs *pflag.FlagSet) (types.Domain, error) {
	name, _ := fs.GetString(FlagDomainName)
	version, _ := fs.GetString(FlagDomainVersion)
	chainID, _ := fs.GetString(FlagChainID)
	contract, _ := fs.GetString(FlagVerifyingContract)

	id, err := cast.ToUint64E(chainID)
	if err != nil {
		return types.Domain{}, fmt.Errorf("invalid %s: %w", FlagChainID, err)
	}
	if !common.IsHexAddress(contract) {
		return types.Domain{}, fmt.Errorf("invalid %s: %q", FlagVerifyingContract, contract)
	}
	d := types.Domain{
		Name:              name,
		Version:           version,
		ChainID:           id,
		VerifyingContract: common.HexToAddress(contract),
	}
	return d, d.Validate()
}

// CmdOrder returns the order subcommands
func CmdOrder() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Order utilities",
	}
	cmd.AddCommand(CmdOrderHash())
	return cmd
}

// CmdOrderHash returns a command computing the EIP-712 hash of an order file
func CmdOrderHash() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash",
		Short: "Compute the EIP-712 hash of an order",
		Long: `Compute the EIP-712 hash of an order described in a YAML or JSON file.

Example:
  $ pocod order hash --kind request --file request.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kindName, _ := cmd.Flags().GetString(FlagKind)
			kind, err := types.ParseOrderKind(kindName)
			if err != nil {
				return err
			}
			path, _ := cmd.Flags().GetString(FlagFile)
			bz, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read order file: %w", err)
			}
			order, err := DecodeOrder(kind, bz)
			if err != nil {
				return err
			}
			domain, err := DomainFromFlags(cmd.Flags())
			if err != nil {
				return err
			}
			hash, err := order.Hash(domain)
			if err != nil {
				return err
			}
			return printOutput(cmd, map[string]string{
				"kind": kind.String(),
				"hash": hash.Hex(),
			})
		},
	}

	cmd.Flags().String(FlagKind, "", "order kind: app, dataset, workerpool or request")
	cmd.Flags().String(FlagFile, "", "path of the YAML or JSON order file")
	AddDomainFlags(cmd.Flags())
	cmd.Flags().String(FlagOutput, "text", "output format: text, json or yaml")
	_ = cmd.MarkFlagRequired(FlagKind)
	_ = cmd.MarkFlagRequired(FlagFile)

	return cmd
}

// uintFields are the integer fields of an order document. Prices stay
// decimal strings, everything else is taken verbatim.
var uintFields = map[string]bool{
	"volume":   true,
	"category": true,
	"trust":    true,
}

// DecodeOrder parses a YAML or JSON order document. Scalars are read
// verbatim so that hex values keep their leading zeros. The signature is
// ignored as it is not part of the hash.
func DecodeOrder(kind types.OrderKind, bz []byte) (types.Order, error) {
	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(bz, &raw); err != nil {
		return nil, fmt.Errorf("parse order: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty order document")
	}
	doc := make(map[string]interface{}, len(raw))
	for field, node := range raw {
		if node.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("field %s: expected a scalar", field)
		}
		if field == "sign" {
			continue
		}
		if uintFields[field] {
			v, err := cast.ToUint64E(node.Value)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", field, err)
			}
			doc[field] = v
			continue
		}
		doc[field] = node.Value
	}

	normalized, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	var order types.Order
	switch kind {
	case types.OrderKindApp:
		var o types.AppOrder
		err = json.Unmarshal(normalized, &o)
		order = o
	case types.OrderKindDataset:
		var o types.DatasetOrder
		err = json.Unmarshal(normalized, &o)
		order = o
	case types.OrderKindWorkerpool:
		var o types.WorkerpoolOrder
		err = json.Unmarshal(normalized, &o)
		order = o
	case types.OrderKindRequest:
		var o types.RequestOrder
		err = json.Unmarshal(normalized, &o)
		order = o
	default:
		return nil, types.ErrInvalidOrder.Wrapf("unknown order kind %d", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s order: %w", kind, err)
	}
	return order, nil
}

// CmdIDs returns the id derivation subcommands
func CmdIDs() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ids",
		Short: "Derive deal and task identifiers",
	}
	cmd.AddCommand(CmdDealID(), CmdTaskID())
	return cmd
}

// CmdDealID returns a command deriving a deal id
func CmdDealID() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deal",
		Short: "Derive the id of the deal opened at bot-first of a request order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			request, err := hashFlag(cmd.Flags(), FlagRequestHash)
			if err != nil {
				return err
			}
			botFirst, err := uint64Flag(cmd.Flags(), FlagBotFirst)
			if err != nil {
				return err
			}
			return printOutput(cmd, map[string]string{
				"deal_id": types.DealID(request, botFirst).Hex(),
			})
		},
	}
	cmd.Flags().String(FlagRequestHash, "", "request order hash")
	cmd.Flags().String(FlagBotFirst, "0", "first task index of the deal")
	cmd.Flags().String(FlagOutput, "text", "output format: text, json or yaml")
	_ = cmd.MarkFlagRequired(FlagRequestHash)
	return cmd
}

// CmdTaskID returns a command deriving a task id
func CmdTaskID() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Derive the id of a task from its deal and global index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deal, err := hashFlag(cmd.Flags(), FlagDealID)
			if err != nil {
				return err
			}
			index, err := uint64Flag(cmd.Flags(), FlagIndex)
			if err != nil {
				return err
			}
			return printOutput(cmd, map[string]string{
				"task_id": types.TaskID(deal, index).Hex(),
			})
		},
	}
	cmd.Flags().String(FlagDealID, "", "deal id")
	cmd.Flags().String(FlagIndex, "0", "global task index")
	cmd.Flags().String(FlagOutput, "text", "output format: text, json or yaml")
	_ = cmd.MarkFlagRequired(FlagDealID)
	return cmd
}

// CmdResult returns the result subcommands
func CmdResult() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "result",
		Short: "Result commitment utilities",
	}
	cmd.AddCommand(CmdResultSeal())
	return cmd
}

// CmdResultSeal returns a command computing the result hash and seal a
// worker submits for a digest
func CmdResultSeal() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seal",
		Short: "Compute the result hash and seal of a digest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			workerHex, _ := cmd.Flags().GetString(FlagWorker)
			if !common.IsHexAddress(workerHex) {
				return fmt.Errorf("invalid %s: %q", FlagWorker, workerHex)
			}
			worker := common.HexToAddress(workerHex)
			taskID, err := hashFlag(cmd.Flags(), FlagTaskID)
			if err != nil {
				return err
			}
			digest, err := hashFlag(cmd.Flags(), FlagDigest)
			if err != nil {
				return err
			}
			return printOutput(cmd, map[string]string{
				"result_hash": types.ResultHash(taskID, digest).Hex(),
				"result_seal": types.ResultSeal(worker, taskID, digest).Hex(),
			})
		},
	}
	cmd.Flags().String(FlagWorker, "", "worker address")
	cmd.Flags().String(FlagTaskID, "", "task id")
	cmd.Flags().String(FlagDigest, "", "result digest")
	cmd.Flags().String(FlagOutput, "text", "output format: text, json or yaml")
	_ = cmd.MarkFlagRequired(FlagWorker)
	_ = cmd.MarkFlagRequired(FlagTaskID)
	_ = cmd.MarkFlagRequired(FlagDigest)
	return cmd
}

func hashFlag(fs *pflag.FlagSet, name string) (common.Hash, error) {
	s, _ := fs.GetString(name)
	bz, err := hexBytes(s)
	if err != nil || len(bz) != common.HashLength {
		return common.Hash{}, fmt.Errorf("invalid %s: expected 32 hex bytes, got %q", name, s)
	}
	return common.BytesToHash(bz), nil
}

func uint64Flag(fs *pflag.FlagSet, name string) (uint64, error) {
	s, _ := fs.GetString(name)
	v, err := cast.ToUint64E(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return v, nil
}

func hexBytes(s string) ([]byte, error) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	return hexutil.Decode(s)
}

// printOutput writes fields in the format selected by --output.
func printOutput(cmd *cobra.Command, fields map[string]string) error {
	format, _ := cmd.Flags().GetString(FlagOutput)
	out := cmd.OutOrStdout()
	switch format {
	case "json":
		bz, err := json.MarshalIndent(fields, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(bz))
		return err
	case "yaml":
		bz, err := yaml.Marshal(fields)
		if err != nil {
			return err
		}
		_, err = out.Write(bz)
		return err
	case "text", "":
		for _, k := range slices.Sorted(maps.Keys(fields)) {
			if _, err := fmt.Fprintf(out, "%s: %s\n", k, fields[k]); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
