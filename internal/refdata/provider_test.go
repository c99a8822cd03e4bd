package refdata

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kaoyan-advisor/internal/common/logger"
)

func TestProvider_NotReadyUntilInit(t *testing.T) {
	p := NewProvider(func(ctx context.Context) (Store, error) {
		return NewMemoryStore(Dataset{}), nil
	}, logger.NewTestLogger(t))

	_, err := p.Store()
	assert.ErrorIs(t, err, ErrReferenceDataUnavailable)
	assert.False(t, p.Ready())
	assert.True(t, p.LoadedAt().IsZero())

	require.NoError(t, p.Init(context.Background()))

	store, err := p.Store()
	require.NoError(t, err)
	assert.NotNil(t, store)
	assert.True(t, p.Ready())
	assert.False(t, p.LoadedAt().IsZero())
}

func TestProvider_RetryAfterFailure(t *testing.T) {
	var calls int32
	p := NewProvider(func(ctx context.Context) (Store, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return nil, errors.New("disk not mounted")
		}
		return NewMemoryStore(Dataset{}), nil
	}, logger.NewNoOpLogger())

	require.Error(t, p.Init(context.Background()))
	assert.False(t, p.Ready())

	require.NoError(t, p.Init(context.Background()))
	assert.True(t, p.Ready())
}

func TestProvider_LoadsOnce(t *testing.T) {
	var calls int32
	p := NewProvider(func(ctx context.Context) (Store, error) {
		atomic.AddInt32(&calls, 1)
		return NewMemoryStore(Dataset{}), nil
	}, logger.NewNoOpLogger())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = p.Init(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestNewStaticProvider(t *testing.T) {
	p := NewStaticProvider(NewMemoryStore(Dataset{}))
	assert.True(t, p.Ready())
	_, err := p.Store()
	assert.NoError(t, err)
}
