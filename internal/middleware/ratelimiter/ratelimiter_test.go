package ratelimiter

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllow(t *testing.T) {
	t.Run("burst is honored", func(t *testing.T) {
		kl := New(1, 2, time.Minute)
		defer kl.Stop()

		assert.True(t, kl.Allow("1.2.3.4"))
		assert.True(t, kl.Allow("1.2.3.4"))
		assert.False(t, kl.Allow("1.2.3.4"), "third request exceeds the burst")
	})

	t.Run("keys are independent", func(t *testing.T) {
		kl := New(1, 1, time.Minute)
		defer kl.Stop()

		assert.True(t, kl.Allow("1.2.3.4"))
		assert.False(t, kl.Allow("1.2.3.4"))
		assert.True(t, kl.Allow("5.6.7.8"), "a fresh key has its own bucket")
	})

	t.Run("tokens refill over time", func(t *testing.T) {
		kl := New(100, 1, time.Minute)
		defer kl.Stop()

		assert.True(t, kl.Allow("1.2.3.4"))
		assert.False(t, kl.Allow("1.2.3.4"))

		time.Sleep(20 * time.Millisecond)
		assert.True(t, kl.Allow("1.2.3.4"))
	})
}

func TestConcurrentKeys(t *testing.T) {
	kl := New(1, 1, time.Minute)
	defer kl.Stop()

	done := make(chan struct{})
	for i := 0; i < 50; i++ {
		go func(i int) {
			defer func() { done <- struct{}{} }()
			key := fmt.Sprintf("10.0.0.%d", i)
			assert.True(t, kl.Allow(key))
		}(i)
	}
	for i := 0; i < 50; i++ {
		<-done
	}
}
