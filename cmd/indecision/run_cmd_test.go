package main

import (
	"bytes"
	"context"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andrijadukic/indecision-trees/config"
)

const playTennisCSV = `outlook,temperature,humidity,wind,play
sunny,hot,high,weak,no
sunny,hot,high,strong,no
overcast,hot,high,weak,yes
rain,mild,high,weak,yes
rain,cool,normal,weak,yes
rain,cool,normal,strong,no
overcast,cool,normal,strong,yes
sunny,mild,high,weak,no
sunny,cool,normal,weak,yes
rain,mild,normal,weak,yes
sunny,mild,normal,strong,yes
overcast,mild,high,strong,yes
overcast,hot,normal,weak,yes
rain,mild,high,strong,no
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, ioutil.WriteFile(path, []byte(content), 0644))
	return path
}

func runConfig(t *testing.T, cfg string) *runCmdConfig {
	t.Helper()
	dir := t.TempDir()
	set := writeFile(t, dir, "play_tennis.csv", playTennisCSV)
	return &runCmdConfig{
		rootCmdConfig: &rootCmdConfig{},
		trainInput:    set,
		testInput:     set,
		configPath:    writeFile(t, dir, "model.cfg", cfg),
		table:         "samples",
	}
}

func TestRunID3(t *testing.T) {
	rcc := runConfig(t, "model=ID3\n")
	var out bytes.Buffer
	require.NoError(t, rcc.run(context.Background(), &out))
	require.Equal(t, strings.Join([]string{
		"0:outlook, 1:wind, 1:humidity",
		"no no yes yes yes no yes no yes yes yes yes yes no",
		"1.0",
		"5 0",
		"0 9",
	}, "\n")+"\n", out.String())
}

func TestRunIgnoresUnknownOptions(t *testing.T) {
	rcc := runConfig(t, "model=ID3\ncolour=blue\n")
	var out bytes.Buffer
	require.NoError(t, rcc.run(context.Background(), &out))
	require.True(t, strings.HasPrefix(out.String(), "0:outlook, 1:wind, 1:humidity\n"))
}

func TestRunID3Pretty(t *testing.T) {
	rcc := runConfig(t, "model=ID3\nmax_depth=1\n")
	rcc.pretty = true
	var out bytes.Buffer
	require.NoError(t, rcc.run(context.Background(), &out))
	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Equal(t, []string{
		"0:outlook",
		"outlook",
		"-overcast",
		"--yes",
		"-rain",
		"--yes",
		"-sunny",
		"--no",
		"no no yes yes yes yes yes no no yes no yes yes yes",
		"0.71429",
		"3 2",
		"2 7",
	}, lines)
}

func TestRunRFIsReproducible(t *testing.T) {
	rcc := runConfig(t, "model=RF\nnum_trees=3\nfeature_ratio=0.5\nexample_ratio=0.5\n")
	rcc.seed, rcc.seedSet = 42, true

	var first, second bytes.Buffer
	require.NoError(t, rcc.run(context.Background(), &first))
	require.NoError(t, rcc.run(context.Background(), &second))
	require.Equal(t, first.String(), second.String())

	lines := strings.Split(strings.TrimSuffix(first.String(), "\n"), "\n")
	// two lines per tree, predictions, accuracy and a row per label
	require.Len(t, lines, 3*2+1+1+2)
	for i := 0; i < 3; i++ {
		require.Len(t, strings.Fields(lines[2*i]), 2)
		require.Len(t, strings.Fields(lines[2*i+1]), 7)
	}
	require.Len(t, strings.Fields(lines[6]), 14)
}

func TestRunErrors(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer

	t.Run("missing flags", func(t *testing.T) {
		rcc := runConfig(t, "model=ID3\n")
		rcc.configPath = ""
		err := rcc.run(ctx, &out)
		require.Error(t, err)
		require.Equal(t, 1, err.(*stageError).code)
	})

	t.Run("bad config", func(t *testing.T) {
		rcc := runConfig(t, "model=C4.5\n")
		err := rcc.run(ctx, &out)
		require.Error(t, err)
		require.Equal(t, 2, err.(*stageError).code)
	})

	t.Run("missing training set", func(t *testing.T) {
		rcc := runConfig(t, "model=ID3\n")
		rcc.trainInput = filepath.Join(t.TempDir(), "missing.csv")
		err := rcc.run(ctx, &out)
		require.Error(t, err)
		require.Equal(t, 3, err.(*stageError).code)
	})

	t.Run("test set without a tested feature", func(t *testing.T) {
		rcc := runConfig(t, "model=ID3\n")
		rcc.testInput = writeFile(t, t.TempDir(), "test.csv", "temperature,play\nhot,no\n")
		err := rcc.run(ctx, &out)
		require.Error(t, err)
		require.Equal(t, 8, err.(*stageError).code)
	})

	require.Empty(t, out.String())
}

func TestSeedFor(t *testing.T) {
	seven := int64(7)
	cfg := config.Default()
	cfg.Seed = &seven

	rcc := &runCmdConfig{seed: 3, seedSet: true}
	require.Equal(t, int64(3), rcc.seedFor(cfg))

	rcc.seedSet = false
	require.Equal(t, int64(7), rcc.seedFor(cfg))
}
