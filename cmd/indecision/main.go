package main

import (
	"os"

	"github.com/spf13/cobra"
)

type rootCmdConfig struct {
	logger
}

func main() {
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "indecision",
		Short: "indecision is a tool to classify categorical data with decision trees",
		Long:  `A tool to fit ID3 decision trees and random forests on categorical data and evaluate their predictions`,
	}
	config := &rootCmdConfig{}
	rootCmd.PersistentFlags().BoolVarP((*bool)(&(config.logger)), "verbose", "v", false, "")
	rootCmd.AddCommand(versionCmd(), runCmd(config), setCmd(config), splitCmd(config))
	return rootCmd
}
