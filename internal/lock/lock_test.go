package lock

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyMutexSerializesSameKey(t *testing.T) {
	locker := NewKeyMutex()

	const workers = 50
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := locker.WithKeyLock(context.Background(), "slot:a", func(ctx context.Context) error {
				counter++
				return nil
			})
			assert.NoError(t, err)
		}()
	}

	wg.Wait()
	assert.Equal(t, workers, counter)
}

func TestKeyMutexIndependentKeys(t *testing.T) {
	locker := NewKeyMutex()

	release := make(chan struct{})
	holding := make(chan struct{})

	go func() {
		_ = locker.WithKeyLock(context.Background(), "slot:a", func(ctx context.Context) error {
			close(holding)
			<-release
			return nil
		})
	}()

	<-holding

	// A different key must not wait on slot:a's holder.
	done := make(chan struct{})
	go func() {
		_ = locker.WithKeyLock(context.Background(), "slot:b", func(ctx context.Context) error {
			return nil
		})
		close(done)
	}()

	<-done
	close(release)
}

func TestKeyMutexPropagatesCallbackError(t *testing.T) {
	locker := NewKeyMutex()

	want := assert.AnError
	err := locker.WithKeyLock(context.Background(), "slot:a", func(ctx context.Context) error {
		return want
	})
	assert.ErrorIs(t, err, want)
}

func TestKeyMutexHonorsCancelledContext(t *testing.T) {
	locker := NewKeyMutex()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := locker.WithKeyLock(ctx, "slot:a", func(ctx context.Context) error {
		called = true
		return nil
	})

	require.Error(t, err)
	assert.False(t, called)
}
