package redisstore

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gopkg.in/redis.v5"

	"github.com/andrijadukic/indecision-trees/dataset"
	"github.com/andrijadukic/indecision-trees/tree"
	treejson "github.com/andrijadukic/indecision-trees/tree/json"
)

// redisClient returns a client for the server in INDECISION_TEST_REDIS_URL
// or skips the test when it is not set.
func redisClient(t *testing.T) *redis.Client {
	t.Helper()
	url := os.Getenv("INDECISION_TEST_REDIS_URL")
	if url == "" {
		t.Skip("INDECISION_TEST_REDIS_URL not set")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	rc := redis.NewClient(opts)
	t.Cleanup(func() { rc.Close() })
	require.NoError(t, rc.Ping().Err())
	return rc
}

func TestTreeOnRedis(t *testing.T) {
	ctx := context.Background()
	rc := redisClient(t)
	prefix := "indecision-test:" + uuid.NewString()
	ns := New(rc, prefix, treejson.NewNodeEncodeDecoder())
	tr := tree.New("", ns, "play")

	root := tree.NewFeatureNode("weather", nil, "no")
	require.NoError(t, tr.AddChild(ctx, "", root))
	_, err := uuid.Parse(root.ID)
	require.NoError(t, err)

	sunny := tree.NewValueNode("sunny")
	require.NoError(t, tr.AddChild(ctx, root.ID, sunny))
	require.NoError(t, tr.AddChild(ctx, sunny.ID, tree.NewLeafNode("no")))
	rainy := tree.NewValueNode("rainy")
	require.NoError(t, tr.AddChild(ctx, root.ID, rainy))
	require.NoError(t, tr.AddChild(ctx, rainy.ID, tree.NewLeafNode("yes")))

	p, err := tr.Predict(ctx, dataset.Record{"weather": "rainy"})
	require.NoError(t, err)
	require.Equal(t, "yes", p)
	p, err = tr.Predict(ctx, dataset.Record{"weather": "cloudy"})
	require.NoError(t, err)
	require.Equal(t, "no", p)

	var nodes []*tree.Node
	require.NoError(t, tr.Traverse(ctx, true, func(ctx context.Context, n *tree.Node, _ int) error {
		nodes = append(nodes, n)
		return nil
	}))
	require.Len(t, nodes, 5)
	for _, n := range nodes {
		require.NoError(t, ns.Delete(ctx, n))
	}
	n, err := ns.Get(ctx, root.ID)
	require.NoError(t, err)
	require.Nil(t, n)
}
