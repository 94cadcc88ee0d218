package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/paw-chain/poco/x/poco"
)

// GenesisCmd returns the genesis command group
func GenesisCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "genesis",
		Short: "Poco genesis utilities",
	}
	cmd.AddCommand(genesisDefaultCmd(), genesisValidateCmd())
	return cmd
}

func genesisDefaultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "default",
		Short: "Print the default poco genesis state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bz := poco.AppModuleBasic{}.DefaultGenesis(nil)
			_, err := fmt.Fprintln(cmd.OutOrStdout(), string(bz))
			return err
		},
	}
}

func genesisValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a poco genesis state file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFrom(cmd.Context())

			bz, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read genesis: %w", err)
			}
			if !json.Valid(bz) {
				return fmt.Errorf("%s is not valid JSON", args[0])
			}
			if err := (poco.AppModuleBasic{}).ValidateGenesis(nil, nil, bz); err != nil {
				logger.Error("genesis rejected", "file", args[0], "error", err)
				return err
			}
			logger.Info("genesis valid", "file", args[0])
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: valid\n", args[0])
			return err
		},
	}
}
