package access

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSagaRunsStepsInOrder(t *testing.T) {
	var order []string
	sg := &saga{operation: "test", steps: []sagaStep{
		{name: "one", run: func(context.Context) error { order = append(order, "one"); return nil }},
		{name: "two", run: func(context.Context) error { order = append(order, "two"); return nil }},
		{name: "three", run: func(context.Context) error { order = append(order, "three"); return nil }},
	}}

	require.NoError(t, sg.execute(context.Background()))
	assert.Equal(t, []string{"one", "two", "three"}, order)
}

func TestSagaCompensatesCompletedStepsInReverse(t *testing.T) {
	var compensated []string
	boom := errors.New("boom")
	sg := &saga{operation: "test", steps: []sagaStep{
		{
			name: "one",
			run:  func(context.Context) error { return nil },
			compensate: func(context.Context) error {
				compensated = append(compensated, "one")
				return nil
			},
		},
		{
			name: "two",
			run:  func(context.Context) error { return nil },
			compensate: func(context.Context) error {
				compensated = append(compensated, "two")
				return nil
			},
		},
		{name: "three", run: func(context.Context) error { return boom }},
	}}

	err := sg.execute(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"two", "one"}, compensated)
}

func TestSagaFailedStepIsNotCompensated(t *testing.T) {
	boom := errors.New("boom")
	var failedStepCompensated bool
	sg := &saga{operation: "test", steps: []sagaStep{
		{
			name: "only",
			run:  func(context.Context) error { return boom },
			compensate: func(context.Context) error {
				failedStepCompensated = true
				return nil
			},
		},
	}}

	require.ErrorIs(t, sg.execute(context.Background()), boom)
	assert.False(t, failedStepCompensated)
}

func TestSagaCompensationErrorDoesNotMaskOriginal(t *testing.T) {
	boom := errors.New("boom")
	sg := &saga{operation: "test", steps: []sagaStep{
		{
			name:       "one",
			run:        func(context.Context) error { return nil },
			compensate: func(context.Context) error { return errors.New("rollback broke too") },
		},
		{name: "two", run: func(context.Context) error { return boom }},
	}}

	err := sg.execute(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestSagaStepsWithoutCompensationAreSkipped(t *testing.T) {
	var compensated []string
	boom := errors.New("boom")
	sg := &saga{operation: "test", steps: []sagaStep{
		{
			name: "tracked",
			run:  func(context.Context) error { return nil },
			compensate: func(context.Context) error {
				compensated = append(compensated, "tracked")
				return nil
			},
		},
		{name: "untracked", run: func(context.Context) error { return nil }},
		{name: "failing", run: func(context.Context) error { return boom }},
	}}

	require.ErrorIs(t, sg.execute(context.Background()), boom)
	assert.Equal(t, []string{"tracked"}, compensated)
}
