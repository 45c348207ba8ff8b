/*
Package config reads the options that select and shape the model to fit,
either from key=value files or from YAML documents.
*/
package config

import (
	"fmt"
	"io/ioutil"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const (
	// ID3 selects a single decision tree
	ID3 = "ID3"
	// RF selects a random forest
	RF = "RF"
)

// Option keys
const (
	KeyModel        = "model"
	KeyMaxDepth     = "max_depth"
	KeyNumTrees     = "num_trees"
	KeyFeatureRatio = "feature_ratio"
	KeyExampleRatio = "example_ratio"
	KeySeed         = "seed"
)

/*
Config holds the options of a run. MaxDepth is -1 for unlimited depth, and Seed
is nil when no seed was configured.
*/
type Config struct {
	Model        string
	MaxDepth     int
	NumTrees     int
	FeatureRatio float64
	ExampleRatio float64
	Seed         *int64
	// Ignored holds the sorted names of the options that were given but
	// are not known
	Ignored []string
}

// Default returns a configuration with the default value for every option
// but the model, which has none.
func Default() *Config {
	return &Config{
		MaxDepth:     -1,
		NumTrees:     1,
		FeatureRatio: 1.0,
		ExampleRatio: 1.0,
	}
}

/*
Parse takes a mapping of option names to values and returns the configuration
they describe, with defaults for the missing optional ones. It returns an error
if the model is missing or unknown, or if an option has a value that cannot be
parsed or is out of range. Unknown options are not an error: their names are
kept in Ignored.
*/
func Parse(options map[string]string) (*Config, error) {
	c := Default()
	for k, v := range options {
		var err error
		switch k {
		case KeyModel:
			c.Model = v
		case KeyMaxDepth:
			c.MaxDepth, err = strconv.Atoi(v)
		case KeyNumTrees:
			c.NumTrees, err = strconv.Atoi(v)
		case KeyFeatureRatio:
			c.FeatureRatio, err = strconv.ParseFloat(v, 64)
		case KeyExampleRatio:
			c.ExampleRatio, err = strconv.ParseFloat(v, 64)
		case KeySeed:
			var seed int64
			seed, err = strconv.ParseInt(v, 10, 64)
			c.Seed = &seed
		default:
			c.Ignored = append(c.Ignored, k)
		}
		if err != nil {
			return nil, fmt.Errorf("parsing option %s: %v", k, err)
		}
	}
	sort.Strings(c.Ignored)
	err := c.Validate()
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Validate returns an error if the configuration cannot be used to fit a model
func (c *Config) Validate() error {
	switch c.Model {
	case ID3, RF:
	case "":
		return fmt.Errorf("required option %s was not set", KeyModel)
	default:
		return fmt.Errorf("unknown model %q, expected %s or %s", c.Model, ID3, RF)
	}
	if c.MaxDepth < -1 {
		return fmt.Errorf("option %s must be -1 (unlimited) or greater, got %d", KeyMaxDepth, c.MaxDepth)
	}
	if c.NumTrees < 1 {
		return fmt.Errorf("option %s must be at least 1, got %d", KeyNumTrees, c.NumTrees)
	}
	if c.FeatureRatio <= 0 || c.FeatureRatio > 1 {
		return fmt.Errorf("option %s must be in (0, 1], got %v", KeyFeatureRatio, c.FeatureRatio)
	}
	if c.ExampleRatio <= 0 || c.ExampleRatio > 1 {
		return fmt.Errorf("option %s must be in (0, 1], got %v", KeyExampleRatio, c.ExampleRatio)
	}
	return nil
}

/*
Load takes a filepath, reads the options in the file and returns the
configuration they describe. Files with a .yml or .yaml extension are parsed
with ReadYML, any other with ReadKeyValues.
*/
func Load(path string) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %v", path, err)
	}
	var options map[string]string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		options, err = ReadYML(data)
	default:
		options, err = ReadKeyValues(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config file %s: %v", path, err)
	}
	c, err := Parse(options)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %v", path, err)
	}
	return c, nil
}
