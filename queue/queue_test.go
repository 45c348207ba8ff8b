package queue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func pull(t *testing.T, q Queue) *Task {
	t.Helper()
	task, tctx, cancel, err := q.Pull(context.Background())
	require.NoError(t, err)
	if task == nil {
		require.Nil(t, tctx)
		require.Nil(t, cancel)
		return nil
	}
	require.NotNil(t, tctx)
	cancel()
	return task
}

func TestFIFOOrder(t *testing.T) {
	ctx := context.Background()
	q := New()
	var pushed []*Task
	push := func(n int) {
		for i := 0; i < n; i++ {
			task := NewTask("", nil, nil, len(pushed))
			pushed = append(pushed, task)
			require.NoError(t, q.Push(ctx, task))
		}
	}

	var pulled []*Task
	// interleave pushes and pulls to make the buffer wrap around and grow
	push(3)
	pulled = append(pulled, pull(t, q), pull(t, q))
	push(4)
	pulled = append(pulled, pull(t, q))
	push(1)
	for {
		task := pull(t, q)
		if task == nil {
			break
		}
		pulled = append(pulled, task)
	}
	require.Equal(t, pushed, pulled)
}

func TestCountDropComplete(t *testing.T) {
	ctx := context.Background()
	q := New()
	a, b := NewTask("", nil, nil, 0), NewTask("", nil, nil, 0)
	require.NotEqual(t, a.ID, b.ID)
	require.NoError(t, q.Push(ctx, a))
	require.NoError(t, q.Push(ctx, b))

	pending, running, err := q.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, pending)
	require.Equal(t, 0, running)

	got := pull(t, q)
	require.Same(t, a, got)
	pending, running, err = q.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, pending)
	require.Equal(t, 1, running)

	require.NoError(t, q.Drop(ctx, a.ID))
	pending, running, err = q.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, pending)
	require.Equal(t, 0, running)

	require.Same(t, b, pull(t, q))
	require.NoError(t, q.Complete(ctx, b.ID))
	// dropping a completed task does not bring it back
	require.NoError(t, q.Drop(ctx, b.ID))
	pending, running, err = q.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, pending)
	require.Equal(t, 0, running)
}

func TestStopCancelsPulledContexts(t *testing.T) {
	ctx := context.Background()
	q := New()
	require.NoError(t, q.Push(ctx, NewTask("", nil, nil, 0)))
	_, tctx, cancel, err := q.Pull(ctx)
	require.NoError(t, err)
	defer cancel()

	require.NoError(t, q.Stop(ctx))
	<-tctx.Done()
	require.Error(t, tctx.Err())
}

func TestCancelledContext(t *testing.T) {
	q := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Error(t, q.Push(ctx, NewTask("", nil, nil, 0)))
	_, _, _, err := q.Pull(ctx)
	require.Error(t, err)
}
