package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cosmossdk.io/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/paw-chain/poco/x/poco/client/cli"
)

const (
	flagHome     = "home"
	flagLogLevel = "log-level"

	envPrefix  = "POCOD"
	configName = "pocod"
)

// DefaultHome is where pocod looks for pocod.yaml.
var DefaultHome = func() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pocod"
	}
	return filepath.Join(home, ".pocod")
}()

type loggerKey struct{}

// NewRootCmd creates the pocod root command.
func NewRootCmd() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "pocod",
		Short: "PoCo marketplace tooling",
		Long: `pocod computes order hashes and task identifiers and inspects
genesis files of the poco module without a running node.

Flags may also be set in $HOME/.pocod/pocod.yaml or through POCOD_*
environment variables, e.g. POCOD_DOMAIN_NAME.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())

			if err := loadConfig(v, cmd); err != nil {
				return err
			}
			logger, err := newLogger(cmd, v.GetString(flagLogLevel))
			if err != nil {
				return err
			}
			logger.Debug("configuration loaded", "config_file", v.ConfigFileUsed())
			cmd.SetContext(withLogger(cmd.Context(), logger))
			return nil
		},
	}

	rootCmd.PersistentFlags().String(flagHome, DefaultHome, "directory holding pocod.yaml")
	rootCmd.PersistentFlags().String(flagLogLevel, "*:info", "log filter, e.g. *:info,poco:debug")

	tools := cli.GetToolsCmd()
	rootCmd.AddCommand(tools.Commands()...)
	rootCmd.AddCommand(
		ConfigCmd(v),
		GenesisCmd(),
	)

	return rootCmd
}

// loadConfig reads pocod.yaml and the environment, then applies every value
// to the flags the user did not set explicitly.
func loadConfig(v *viper.Viper, cmd *cobra.Command) error {
	home, _ := cmd.Flags().GetString(flagHome)

	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.AddConfigPath(home)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	var applyErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if applyErr != nil || f.Changed || !v.IsSet(f.Name) {
			return
		}
		if err := cmd.Flags().Set(f.Name, v.GetString(f.Name)); err != nil {
			applyErr = fmt.Errorf("config value for %s: %w", f.Name, err)
		}
	})
	return applyErr
}

func newLogger(cmd *cobra.Command, level string) (log.Logger, error) {
	filter, err := log.ParseLogLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", flagLogLevel, err)
	}
	return log.NewLogger(cmd.ErrOrStderr(), log.FilterOption(filter)).With("module", "pocod"), nil
}
