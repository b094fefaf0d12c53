package worker

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPool_RunsAllJobsBeforeStop(t *testing.T) {
	p := NewPool(3, 100)
	var n atomic.Int64
	for i := 0; i < 50; i++ {
		assert.True(t, p.Submit(func() { n.Add(1) }))
	}
	p.Stop()
	assert.Equal(t, int64(50), n.Load())
}

func TestPool_SubmitAfterStop(t *testing.T) {
	p := NewPool(1, 1)
	p.Stop()
	assert.False(t, p.Submit(func() {}))
	p.Stop() // second stop is a no-op
}

func TestPool_FullQueueDrops(t *testing.T) {
	p := NewPool(1, 1)
	block := make(chan struct{})
	started := make(chan struct{})
	assert.True(t, p.Submit(func() { close(started); <-block }))
	<-started
	assert.True(t, p.Submit(func() {}))  // fills the queue
	assert.False(t, p.Submit(func() {})) // dropped
	close(block)
	p.Stop()
}
