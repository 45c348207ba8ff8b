package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseDefaults(t *testing.T) {
	c, err := Parse(map[string]string{"model": "ID3"})
	require.NoError(t, err)
	require.Equal(t, &Config{Model: ID3, MaxDepth: -1, NumTrees: 1, FeatureRatio: 1.0, ExampleRatio: 1.0}, c)
}

func TestParse(t *testing.T) {
	c, err := Parse(map[string]string{
		"model":         "RF",
		"max_depth":     "3",
		"num_trees":     "10",
		"feature_ratio": "0.5",
		"example_ratio": "0.8",
		"seed":          "42",
	})
	require.NoError(t, err)
	require.Equal(t, RF, c.Model)
	require.Equal(t, 3, c.MaxDepth)
	require.Equal(t, 10, c.NumTrees)
	require.Equal(t, 0.5, c.FeatureRatio)
	require.Equal(t, 0.8, c.ExampleRatio)
	require.NotNil(t, c.Seed)
	require.Equal(t, int64(42), *c.Seed)
}

func TestParseIgnoresUnknownOptions(t *testing.T) {
	c, err := Parse(map[string]string{"model": "RF", "trees": "3", "depth": "x", "num_trees": "2"})
	require.NoError(t, err)
	require.Equal(t, 2, c.NumTrees)
	require.Equal(t, []string{"depth", "trees"}, c.Ignored)
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		name    string
		options map[string]string
	}{
		{"missing model", map[string]string{"max_depth": "2"}},
		{"unknown model", map[string]string{"model": "SVM"}},
		{"bad depth", map[string]string{"model": "ID3", "max_depth": "deep"}},
		{"depth below unlimited", map[string]string{"model": "ID3", "max_depth": "-2"}},
		{"no trees", map[string]string{"model": "RF", "num_trees": "0"}},
		{"zero ratio", map[string]string{"model": "RF", "feature_ratio": "0"}},
		{"ratio above one", map[string]string{"model": "RF", "example_ratio": "1.2"}},
		{"bad seed", map[string]string{"model": "RF", "seed": "x"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.options)
			require.Error(t, err)
		})
	}
}

func TestReadKeyValues(t *testing.T) {
	options, err := ReadKeyValues([]byte("# forest\nmodel=RF\n\n num_trees = 5\nexample_ratio=0.5\n"))
	require.NoError(t, err)
	require.Equal(t, map[string]string{"model": "RF", "num_trees": "5", "example_ratio": "0.5"}, options)

	_, err = ReadKeyValues([]byte("model RF\n"))
	require.Error(t, err)
	_, err = ReadKeyValues([]byte("=RF\n"))
	require.Error(t, err)
}

func TestReadYML(t *testing.T) {
	options, err := ReadYML([]byte("model: RF\nmax_depth: -1\nfeature_ratio: 0.5\nexample_ratio: 1.0\nseed: 7\n"))
	require.NoError(t, err)
	require.Equal(t, "RF", options["model"])
	require.Equal(t, "-1", options["max_depth"])
	require.Equal(t, "0.5", options["feature_ratio"])
	require.Equal(t, "1", options["example_ratio"])
	require.Equal(t, "7", options["seed"])

	_, err = ReadYML([]byte("model: [RF, ID3]\n"))
	require.Error(t, err)
	_, err = ReadYML([]byte("model: [RF\n"))
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	c, err := Load(writeFile(t, "id3.cfg", "model=ID3\nmax_depth=2\n"))
	require.NoError(t, err)
	require.Equal(t, ID3, c.Model)
	require.Equal(t, 2, c.MaxDepth)

	c, err = Load(writeFile(t, "rf.yml", "model: RF\nnum_trees: 3\n"))
	require.NoError(t, err)
	require.Equal(t, RF, c.Model)
	require.Equal(t, 3, c.NumTrees)

	_, err = Load(writeFile(t, "bad.cfg", "max_depth=2\n"))
	require.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.cfg"))
	require.Error(t, err)
}
