package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPool_GetCreatesWhenEmpty(t *testing.T) {
	p := New(func() []int { return make([]int, 0, 4) })
	got := p.Get()
	assert.Equal(t, 0, len(got))
	assert.Equal(t, 4, cap(got))
}

func TestPool_PutThenGetReusesValue(t *testing.T) {
	p := New(func() []int { return make([]int, 0, 4) })
	v := p.Get()
	v = append(v, 1, 2, 3)
	p.Put(v[:0])

	got := p.Get()
	assert.Equal(t, 0, len(got))
	assert.GreaterOrEqual(t, cap(got), 3)
}
