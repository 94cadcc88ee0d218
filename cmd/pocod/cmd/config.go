package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/paw-chain/poco/x/poco/client/cli"
)

// effectiveConfig is what pocod resolves from flags, file and environment.
type effectiveConfig struct {
	ConfigFile string `yaml:"config_file"`
	LogLevel   string `yaml:"log_level"`
	Domain     struct {
		Name              string `yaml:"name"`
		Version           string `yaml:"version"`
		ChainID           uint64 `yaml:"chain_id"`
		VerifyingContract string `yaml:"verifying_contract"`
	} `yaml:"domain"`
}

// ConfigCmd returns the config command group
func ConfigCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect pocod configuration",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			domain, err := cli.DomainFromFlags(cmd.Flags())
			if err != nil {
				return err
			}
			var cfg effectiveConfig
			cfg.ConfigFile = v.ConfigFileUsed()
			cfg.LogLevel = v.GetString(flagLogLevel)
			cfg.Domain.Name = domain.Name
			cfg.Domain.Version = domain.Version
			cfg.Domain.ChainID = domain.ChainID
			cfg.Domain.VerifyingContract = domain.VerifyingContract.Hex()

			bz, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(bz)
			return err
		},
	}
	cli.AddDomainFlags(show.Flags())

	cmd.AddCommand(show)
	return cmd
}
