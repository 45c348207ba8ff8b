package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	redis "gopkg.in/redis.v5"

	"github.com/andrijadukic/indecision-trees/config"
	"github.com/andrijadukic/indecision-trees/dataset"
	"github.com/andrijadukic/indecision-trees/forest"
	"github.com/andrijadukic/indecision-trees/id3"
	"github.com/andrijadukic/indecision-trees/report"
	"github.com/andrijadukic/indecision-trees/tree"
	treejson "github.com/andrijadukic/indecision-trees/tree/json"
	"github.com/andrijadukic/indecision-trees/tree/redisstore"
)

type runCmdConfig struct {
	*rootCmdConfig
	trainInput string
	testInput  string
	configPath string
	table      string
	redisURL   string
	seed       int64
	seedSet    bool
	pretty     bool
}

// classifier is a fitted model as the run command uses it
type classifier interface {
	report.Classifier
	Fit(context.Context, *dataset.Dataset) error
	Predict(context.Context, *dataset.Dataset) ([]string, error)
}

// stageError is an error along the exit code of the stage of a run it happened on
type stageError struct {
	code int
	err  error
}

func (se *stageError) Error() string {
	return se.err.Error()
}

func runCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &runCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fit a model on a training set and evaluate it on a test set",
		Long:  `Fit the ID3 tree or random forest described by a config file on a training set, predict the labels of a test set and report the accuracy and confusion matrix of the predictions`,
		Run: func(cmd *cobra.Command, args []string) {
			config.seedSet = cmd.Flags().Changed("seed")
			err := config.run(context.Background(), cmd.OutOrStdout())
			if err != nil {
				code := 1
				if se, ok := err.(*stageError); ok {
					code = se.code
				}
				exit(code, err)
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.trainInput), "train", "t", "", "path to a training CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.testInput), "test", "e", "", "path to a test CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL (required)")
	cmd.PersistentFlags().StringVarP(&(config.configPath), "config", "c", "", "path to a key=value or YAML (.yml, .yaml) file with the model configuration (required)")
	cmd.PersistentFlags().StringVar(&(config.table), "table", "samples", "SQL table or MongoDB collection holding the sets")
	cmd.PersistentFlags().StringVar(&(config.redisURL), "redis-url", "", "URL of a Redis server to keep tree nodes on while fitting (defaults to memory)")
	cmd.PersistentFlags().Int64VarP(&(config.seed), "seed", "s", 0, "seed for the random forest bagging (overrides the config file, defaults to the current time)")
	cmd.PersistentFlags().BoolVarP(&(config.pretty), "pretty", "p", false, "also print the whole ID3 tree, a node per line")
	return cmd
}

func (rcc *runCmdConfig) Validate() error {
	if rcc.testInput == "" {
		return fmt.Errorf("required test flag was not set")
	}
	if rcc.configPath == "" {
		return fmt.Errorf("required config flag was not set")
	}
	return nil
}

/*
run fits the configured model and writes to out, a line each:
 * for ID3, the features tested by the tree ("depth:feature" separated by
   commas), followed by the whole tree if pretty is set
 * for RF, the features and the record positions of every bag
 * the space separated predictions for the test set
 * the accuracy of the predictions
 * the confusion matrix rows
*/
func (rcc *runCmdConfig) run(ctx context.Context, out io.Writer) error {
	err := rcc.Validate()
	if err != nil {
		return &stageError{1, err}
	}
	rcc.Logf("Reading configuration from %s...", rcc.configPath)
	cfg, err := config.Load(rcc.configPath)
	if err != nil {
		return &stageError{2, err}
	}
	if len(cfg.Ignored) > 0 {
		rcc.Logf("Ignoring unknown options: %s", strings.Join(cfg.Ignored, ", "))
	}
	train, err := readDataset(ctx, rcc.logger, rcc.trainInput, rcc.table)
	if err != nil {
		return &stageError{3, fmt.Errorf("reading training set: %v", err)}
	}
	test, err := readDataset(ctx, rcc.logger, rcc.testInput, rcc.table)
	if err != nil {
		return &stageError{4, fmt.Errorf("reading test set: %v", err)}
	}

	newNodeStore, cleanup, err := rcc.nodeStores()
	if err != nil {
		return &stageError{5, err}
	}
	defer cleanup()

	var c classifier
	switch cfg.Model {
	case config.ID3:
		m := id3.New(cfg.MaxDepth)
		m.NodeStore = newNodeStore(0)
		c = m
	case config.RF:
		seed := rcc.seedFor(cfg)
		rcc.Logf("Bagging with seed %d", seed)
		f := forest.New(cfg.NumTrees, cfg.MaxDepth, cfg.FeatureRatio, cfg.ExampleRatio, rand.New(rand.NewSource(seed)))
		f.NewNodeStore = newNodeStore
		c = f
	default:
		return &stageError{2, fmt.Errorf("unknown model %q", cfg.Model)}
	}
	rcc.Logf("Fitting %s model on a set with %d records...", cfg.Model, train.Len())
	err = c.Fit(ctx, train)
	if err != nil {
		return &stageError{6, fmt.Errorf("fitting %s model: %v", cfg.Model, err)}
	}
	rcc.Logf("Done")

	var lines []string
	switch m := c.(type) {
	case *id3.Model:
		flat, err := m.Print(ctx)
		if err != nil {
			return &stageError{7, err}
		}
		lines = append(lines, flat)
		if rcc.pretty {
			pretty, err := m.PrettyPrint(ctx)
			if err != nil {
				return &stageError{7, err}
			}
			lines = append(lines, pretty)
		}
	case *forest.Forest:
		lines = append(lines, m.PrintSamples()...)
	}

	rcc.Logf("Predicting labels of a set with %d records...", test.Len())
	predictions, err := c.Predict(ctx, test)
	if err != nil {
		return &stageError{8, fmt.Errorf("predicting: %v", err)}
	}
	lines = append(lines, strings.Join(predictions, " "))
	reportLines, err := report.New(c, test, predictions).Lines()
	if err != nil {
		return &stageError{9, fmt.Errorf("evaluating predictions: %v", err)}
	}
	lines = append(lines, reportLines...)

	for _, l := range lines {
		_, err = fmt.Fprintln(out, l)
		if err != nil {
			return &stageError{10, err}
		}
	}
	return nil
}

// seedFor returns the seed flag if set, otherwise the configured seed or
// the current time
func (rcc *runCmdConfig) seedFor(cfg *config.Config) int64 {
	if rcc.seedSet {
		return rcc.seed
	}
	if cfg.Seed != nil {
		return *cfg.Seed
	}
	return time.Now().UnixNano()
}

/*
nodeStores returns a function providing the node store for the i-th tree of
a model, and a function to release what the stores hold once the run is over.
Without a Redis URL the stores are kept in memory.
*/
func (rcc *runCmdConfig) nodeStores() (func(int) tree.NodeStore, func(), error) {
	if rcc.redisURL == "" {
		return func(int) tree.NodeStore { return tree.NewMemoryNodeStore() }, func() {}, nil
	}
	rcc.Logf("Connecting to Redis at %s...", rcc.redisURL)
	opts, err := redis.ParseURL(rcc.redisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing Redis URL: %v", err)
	}
	rc := redis.NewClient(opts)
	err = rc.Ping().Err()
	if err != nil {
		rc.Close()
		return nil, nil, fmt.Errorf("connecting to Redis: %v", err)
	}
	prefix := fmt.Sprintf("indecision:%s:", uuid.NewString())
	ned := treejson.NewNodeEncodeDecoder()
	newNodeStore := func(i int) tree.NodeStore {
		return redisstore.New(rc, fmt.Sprintf("%s%d", prefix, i), ned)
	}
	cleanup := func() {
		keys, err := rc.Keys(prefix + "*").Result()
		if err == nil && len(keys) > 0 {
			err = rc.Del(keys...).Err()
		}
		if err != nil {
			rcc.Logf("Removing tree nodes from Redis: %v", err)
		}
		rc.Close()
	}
	return newNodeStore, cleanup, nil
}
