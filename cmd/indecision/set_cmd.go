package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

type setCmdConfig struct {
	*rootCmdConfig
	setInput  string
	setOutput string
	table     string
}

func setCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &setCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Copy a set of data",
		Long:  `Copy a set of data from one source to another, e.g. to load a CSV file into a database table`,
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			err := config.Validate()
			if err != nil {
				exit(1, err)
			}
			d, err := readDataset(ctx, config.logger, config.setInput, config.table)
			if err != nil {
				exit(2, fmt.Errorf("reading input set: %v", err))
			}
			config.Logf("Read a set with %d records and %d columns", d.Len(), len(d.Header()))
			err = writeDataset(ctx, config.logger, config.setOutput, config.table, d)
			if err != nil {
				exit(3, fmt.Errorf("writing output set: %v", err))
			}
			config.Logf("Done")
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.setInput), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.setOutput), "output", "o", "", "path to an output CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL (defaults to STDOUT in CSV)")
	cmd.PersistentFlags().StringVar(&(config.table), "table", "samples", "SQL table or MongoDB collection holding the set")
	return cmd
}

func (scc *setCmdConfig) Validate() error {
	if scc.setInput == scc.setOutput && scc.setInput != "" {
		return fmt.Errorf("input and output sets must be different")
	}
	return nil
}
