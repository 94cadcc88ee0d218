package main

import (
	"os"

	"github.com/paw-chain/poco/cmd/pocod/cmd"
)

func main() {
	rootCmd := cmd.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
