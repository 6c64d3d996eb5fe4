package workerpool

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPool_JoinRunsAllTasksAndWaits(t *testing.T) {
	p, err := New(2, zap.NewNop())
	require.NoError(t, err)
	defer p.Release()

	var a, b int32
	p.Join(
		func() { atomic.StoreInt32(&a, 1) },
		func() { atomic.StoreInt32(&b, 1) },
	)

	assert.EqualValues(t, 1, atomic.LoadInt32(&a))
	assert.EqualValues(t, 1, atomic.LoadInt32(&b))
}

func TestPool_JoinRecoversPanicsAndCountsThem(t *testing.T) {
	p, err := New(2, zap.NewNop())
	require.NoError(t, err)
	defer p.Release()

	var ran int32
	p.Join(
		func() { panic("boom") },
		func() { atomic.StoreInt32(&ran, 1) },
	)

	assert.EqualValues(t, 1, atomic.LoadInt32(&ran), "a sibling task's panic must not prevent the other from running")
	assert.EqualValues(t, 1, p.Panics())
}

func TestPool_JoinWithMoreTasksThanCapacityStillCompletes(t *testing.T) {
	p, err := New(1, zap.NewNop())
	require.NoError(t, err)
	defer p.Release()

	var count int32
	tasks := make([]func(), 5)
	for i := range tasks {
		tasks[i] = func() { atomic.AddInt32(&count, 1) }
	}
	p.Join(tasks...)

	assert.EqualValues(t, 5, atomic.LoadInt32(&count))
}
