package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskResolves(t *testing.T) {
	task := Run(context.Background(), func(context.Context) (int, error) {
		return 42, nil
	})

	value, err := task.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, value)
	assert.Equal(t, TaskResolved, task.State())

	got, ok := task.Value()
	assert.True(t, ok)
	assert.Equal(t, 42, got)
	assert.NoError(t, task.Err())
}

func TestTaskFails(t *testing.T) {
	boom := errors.New("boom")
	task := Run(context.Background(), func(context.Context) (string, error) {
		return "", boom
	})

	_, err := task.Await(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Equal(t, TaskFailed, task.State())

	_, ok := task.Value()
	assert.False(t, ok)
	assert.ErrorIs(t, task.Err(), boom)
}

func TestTaskPendingUntilDone(t *testing.T) {
	release := make(chan struct{})
	task := Run(context.Background(), func(context.Context) (int, error) {
		<-release
		return 1, nil
	})

	assert.Equal(t, TaskPending, task.State())
	_, ok := task.Value()
	assert.False(t, ok)

	close(release)
	_, err := task.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, TaskResolved, task.State())
}

func TestAwaitHonorsContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	task := Run(context.Background(), func(context.Context) (int, error) {
		<-release
		return 1, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := task.Await(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// The task itself is still pending; Await gave up, the work did not.
	assert.Equal(t, TaskPending, task.State())
}
