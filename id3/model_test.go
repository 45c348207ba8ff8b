package id3

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrijadukic/indecision-trees/dataset"
	"github.com/andrijadukic/indecision-trees/tree"
)

func table(header []string, rows ...string) *dataset.Dataset {
	d := dataset.New(header, nil)
	for _, row := range rows {
		values := strings.Fields(row)
		r := make(dataset.Record, len(header))
		for i, h := range header {
			r[h] = values[i]
		}
		d.Insert(r)
	}
	return d
}

func weather() *dataset.Dataset {
	return table([]string{"weather", "play"},
		"sunny no",
		"rainy yes",
		"sunny no",
	)
}

func playTennis() *dataset.Dataset {
	return table([]string{"outlook", "temperature", "humidity", "wind", "play"},
		"sunny hot high weak no",
		"sunny hot high strong no",
		"overcast hot high weak yes",
		"rain mild high weak yes",
		"rain cool normal weak yes",
		"rain cool normal strong no",
		"overcast cool normal strong yes",
		"sunny mild high weak no",
		"sunny cool normal weak yes",
		"rain mild normal weak yes",
		"sunny mild normal strong yes",
		"overcast mild high strong yes",
		"overcast hot normal weak yes",
		"rain mild high strong no",
	)
}

func TestFitWeather(t *testing.T) {
	ctx := context.Background()
	m := New(Unlimited)
	require.NoError(t, m.Fit(ctx, weather()))

	require.Equal(t, "play", m.ClassLabel())
	require.Equal(t, []string{"no", "yes"}, m.ClassLabelDomain())
	require.Equal(t, []string{"weather"}, m.Features())

	flat, err := m.Print(ctx)
	require.NoError(t, err)
	require.Equal(t, "0:weather", flat)

	pretty, err := m.PrettyPrint(ctx)
	require.NoError(t, err)
	require.Equal(t, "weather\n-rainy\n--yes\n-sunny\n--no", pretty)

	predictions, err := m.Predict(ctx, table([]string{"weather"}, "sunny", "rainy", "cloudy"))
	require.NoError(t, err)
	require.Equal(t, []string{"no", "yes", "no"}, predictions)
}

func TestFitPlayTennis(t *testing.T) {
	ctx := context.Background()
	d := playTennis()
	m := New(Unlimited)
	require.NoError(t, m.Fit(ctx, d))

	flat, err := m.Print(ctx)
	require.NoError(t, err)
	require.Equal(t, "0:outlook, 1:wind, 1:humidity", flat)

	pretty, err := m.PrettyPrint(ctx)
	require.NoError(t, err)
	require.Equal(t, strings.Join([]string{
		"outlook",
		"-overcast",
		"--yes",
		"-rain",
		"--wind",
		"---strong",
		"----no",
		"---weak",
		"----yes",
		"-sunny",
		"--humidity",
		"---high",
		"----no",
		"---normal",
		"----yes",
	}, "\n"), pretty)

	// a fully grown tree classifies its consistent training data perfectly
	predictions, err := m.Predict(ctx, d)
	require.NoError(t, err)
	require.Equal(t, d.Column("play"), predictions)
}

func TestFitWithMaxDepth(t *testing.T) {
	ctx := context.Background()

	t.Run("zero depth yields a single leaf", func(t *testing.T) {
		m := New(0)
		require.NoError(t, m.Fit(ctx, playTennis()))
		pretty, err := m.PrettyPrint(ctx)
		require.NoError(t, err)
		require.Equal(t, "yes", pretty)
		flat, err := m.Print(ctx)
		require.NoError(t, err)
		require.Equal(t, "", flat)

		root, err := m.Tree().Get(ctx, m.Tree().RootID)
		require.NoError(t, err)
		require.Equal(t, tree.LeafKind, root.Kind)
		require.Empty(t, root.ChildIDs)
	})

	t.Run("depth one", func(t *testing.T) {
		m := New(1)
		require.NoError(t, m.Fit(ctx, playTennis()))
		pretty, err := m.PrettyPrint(ctx)
		require.NoError(t, err)
		require.Equal(t, "outlook\n-overcast\n--yes\n-rain\n--yes\n-sunny\n--no", pretty)
	})
}

func TestLeafTieBreak(t *testing.T) {
	ctx := context.Background()
	d := table([]string{"f", "label"},
		"x b",
		"x a",
		"x b",
		"x a",
	)
	m := New(Unlimited)
	require.NoError(t, m.Fit(ctx, d))

	// f cannot separate the labels, so after testing it the leaf ties 2 to 2
	pretty, err := m.PrettyPrint(ctx)
	require.NoError(t, err)
	require.Equal(t, "f\n-x\n--a", pretty)

	m = New(0)
	require.NoError(t, m.Fit(ctx, d))
	pretty, err = m.PrettyPrint(ctx)
	require.NoError(t, err)
	require.Equal(t, "a", pretty)
}

func TestFeatureTieBreak(t *testing.T) {
	ctx := context.Background()
	// b and a separate the labels equally well
	d := table([]string{"b", "a", "label"},
		"1 1 x",
		"2 2 y",
	)
	m := New(Unlimited)
	require.NoError(t, m.Fit(ctx, d))
	flat, err := m.Print(ctx)
	require.NoError(t, err)
	require.Equal(t, "0:a", flat)
}

// skewed returns a dataset whose label takes ten values with uneven counts
// and whose features a and b hold the same values.
func skewed() *dataset.Dataset {
	d := dataset.New([]string{"b", "a", "label"}, nil)
	i := 0
	for c, count := range []int{1, 2, 3, 5, 7, 11, 13, 17, 19, 23} {
		for j := 0; j < count; j++ {
			v := strconv.Itoa(i % 4)
			d.Insert(dataset.Record{"a": v, "b": v, "label": "class" + strconv.Itoa(c)})
			i++
		}
	}
	return d
}

func TestFeatureTieBreakManyClasses(t *testing.T) {
	ctx := context.Background()
	var first string
	for i := 0; i < 200; i++ {
		m := New(Unlimited)
		require.NoError(t, m.Fit(ctx, skewed()))
		flat, err := m.Print(ctx)
		require.NoError(t, err)
		if i == 0 {
			first = flat
			require.True(t, strings.HasPrefix(first, "0:a"), first)
		}
		require.Equal(t, first, flat)
	}

	gainA, err := InformationGain(skewed(), "a", "label", nil)
	require.NoError(t, err)
	gainB, err := InformationGain(skewed(), "b", "label", nil)
	require.NoError(t, err)
	require.Equal(t, gainA, gainB)
}

func TestFitPure(t *testing.T) {
	ctx := context.Background()
	m := New(Unlimited)
	require.NoError(t, m.Fit(ctx, table([]string{"f", "label"}, "1 x", "2 x")))
	pretty, err := m.PrettyPrint(ctx)
	require.NoError(t, err)
	require.Equal(t, "x", pretty)
}

func TestFitWithoutFeatures(t *testing.T) {
	ctx := context.Background()
	m := New(Unlimited)
	require.NoError(t, m.Fit(ctx, table([]string{"label"}, "x", "y", "y")))
	pretty, err := m.PrettyPrint(ctx)
	require.NoError(t, err)
	require.Equal(t, "y", pretty)

	predictions, err := m.Predict(ctx, table([]string{"other"}, "1"))
	require.NoError(t, err)
	require.Equal(t, []string{"y"}, predictions)
}

func TestFitWithNodeStore(t *testing.T) {
	ctx := context.Background()
	ns := tree.NewMemoryNodeStore()
	m := &Model{MaxDepth: Unlimited, NodeStore: ns}
	require.NoError(t, m.Fit(ctx, weather()))
	require.Same(t, ns, m.Tree().NodeStore)

	count := 0
	require.NoError(t, m.Tree().Traverse(ctx, false, func(ctx context.Context, n *tree.Node, _ int) error {
		count++
		return nil
	}))
	require.Equal(t, 5, count)
}

func TestErrors(t *testing.T) {
	ctx := context.Background()
	m := New(Unlimited)

	_, err := m.Predict(ctx, weather())
	require.Equal(t, ErrNotFitted, err)
	_, err = m.Print(ctx)
	require.Equal(t, ErrNotFitted, err)
	_, err = m.PrettyPrint(ctx)
	require.Equal(t, ErrNotFitted, err)

	require.Equal(t, ErrNoLabel, m.Fit(ctx, dataset.New(nil, nil)))
	require.Equal(t, ErrEmptyDataset, m.Fit(ctx, dataset.New([]string{"f", "l"}, nil)))

	require.NoError(t, m.Fit(ctx, weather()))
	_, err = m.Predict(ctx, table([]string{"other"}, "1"))
	require.True(t, errors.Is(err, tree.ErrMissingFeature))

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	require.Error(t, New(Unlimited).Fit(cctx, weather()))
}

func TestEntropyOfPureSubsetIsZero(t *testing.T) {
	d := table([]string{"f", "label"}, "1 x", "2 x", "3 x")
	e, err := d.Entropy("label", []string{"x", "y"})
	require.NoError(t, err)
	require.Equal(t, 0.0, e)
}

func TestInformationGain(t *testing.T) {
	d := playTennis()
	domain := d.Unique("play")

	expected := map[string]float64{
		"outlook":     0.2467,
		"humidity":    0.1518,
		"wind":        0.0481,
		"temperature": 0.0292,
	}
	for f, g := range expected {
		gain, err := InformationGain(d, f, "play", domain)
		require.NoError(t, err)
		assert.InDelta(t, g, gain, 1e-4, f)
	}

	// gain is never negative, on any subset
	for _, value := range d.Unique("outlook") {
		subset := d.GroupBy("outlook")[value]
		for _, f := range []string{"temperature", "humidity", "wind"} {
			gain, err := InformationGain(subset, f, "play", domain)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, gain, -1e-12, "%s on %s", f, value)
		}
	}

	_, err := InformationGain(d, "outlook", "play", []string{"yes"})
	var de *dataset.DomainError
	require.True(t, errors.As(err, &de))
}

func TestPartition(t *testing.T) {
	d := playTennis()
	p, err := NewPartition(d, "outlook", "play", d.Unique("play"))
	require.NoError(t, err)
	require.Equal(t, "outlook", p.Feature)
	require.Equal(t, []string{"overcast", "rain", "sunny"}, p.Values)
	require.Equal(t, 4, p.Groups["overcast"].Len())
	require.Equal(t, 5, p.Groups["rain"].Len())
	require.Equal(t, 5, p.Groups["sunny"].Len())
}
