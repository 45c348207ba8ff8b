package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrijadukic/indecision-trees/dataset"
	"github.com/andrijadukic/indecision-trees/dataset/csv"
)

type splitCmdConfig struct {
	*rootCmdConfig
	setInput         string
	setOutput        string
	splitOutput      string
	splitProbability int
	seed             int64
}

func splitCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &splitCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a set into two sets",
		Long:  `Split a CSV set into an output set and a split set, e.g. to obtain a training and a test set`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				exit(1, err)
			}
			if !cmd.Flags().Changed("seed") {
				config.seed = time.Now().UnixNano()
			}

			var in *os.File
			if config.setInput == "" {
				config.Logf("Reading input set from STDIN...")
				in = os.Stdin
			} else {
				config.Logf("Opening %s to read input set...", config.setInput)
				in, err = os.Open(config.setInput)
				if err != nil {
					exit(2, fmt.Errorf("reading input set from %s: %v", config.setInput, err))
				}
				defer in.Close()
			}

			var out *os.File
			if config.setOutput == "" {
				config.Logf("Using STDOUT to dump output set...")
				out = os.Stdout
			} else {
				config.Logf("Creating %s to dump output set...", config.setOutput)
				out, err = os.Create(config.setOutput)
				if err != nil {
					exit(3, err)
				}
				defer out.Close()
			}

			config.Logf("Creating %s to dump split set...", config.splitOutput)
			splitOut, err := os.Create(config.splitOutput)
			if err != nil {
				exit(4, err)
			}
			defer splitOut.Close()

			kept, split, err := config.split(in, out, splitOut)
			if err != nil {
				exit(5, err)
			}
			config.Logf("Done")
			config.Logf("Input set with %d records was split into sets with %d and %d records", kept+split, kept, split)
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.setInput), "input", "i", "", "path to an input CSV file with the set to split (defaults to STDIN)")
	cmd.PersistentFlags().StringVarP(&(config.setOutput), "output", "o", "", "path to a file to dump the output set (defaults to STDOUT)")
	cmd.PersistentFlags().IntVarP(&(config.splitProbability), "split-probability", "p", 20, "probability as percent integer that a record of the set will be assigned to the split set")
	cmd.PersistentFlags().StringVarP(&(config.splitOutput), "split-output", "s", "", "path to a file to dump the output of the split set (required)")
	cmd.PersistentFlags().Int64Var(&(config.seed), "seed", 0, "seed for the assignment of records (defaults to the current time)")
	return cmd
}

func (scc *splitCmdConfig) Validate() error {
	if scc.splitOutput == "" {
		return fmt.Errorf("required split-output flag was not set")
	}
	if scc.splitProbability <= 0 || scc.splitProbability > 100 {
		return fmt.Errorf("split-probability flag was set to an invalid value: it must be set to an integer between 1 and 100")
	}
	return nil
}

/*
split reads a CSV set from in and writes every record either to out or, with
the configured probability, to splitOut. Both outputs get the header of the
input. It returns the number of records written to each output.
*/
func (scc *splitCmdConfig) split(in io.Reader, out, splitOut io.Writer) (int, int, error) {
	randomizer := rand.New(rand.NewSource(scc.seed))
	var output, splitOutput csv.Writer
	err := csv.ReadByRecord(in, func(header []string) error {
		var err error
		output, err = csv.NewWriter(out, header)
		if err != nil {
			return err
		}
		splitOutput, err = csv.NewWriter(splitOut, header)
		return err
	}, func(i int, r dataset.Record) (bool, error) {
		if (100 * randomizer.Float32()) > float32(scc.splitProbability) {
			return true, output.Write(r)
		}
		return true, splitOutput.Write(r)
	})
	if err != nil {
		return 0, 0, err
	}
	scc.Logf("Flushing output set...")
	err = output.Flush()
	if err != nil {
		return 0, 0, err
	}
	scc.Logf("Flushing split set...")
	err = splitOutput.Flush()
	if err != nil {
		return 0, 0, err
	}
	return output.Count(), splitOutput.Count(), nil
}
