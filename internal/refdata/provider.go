package refdata

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"kaoyan-advisor/internal/common/logger"
)

var ErrReferenceDataUnavailable = errors.New("REFERENCE_DATA_UNAVAILABLE")

// LoadFunc builds a store from its source.
type LoadFunc func(ctx context.Context) (Store, error)

// Provider owns the process-wide store. Until Init succeeds every Store call
// returns ErrReferenceDataUnavailable so requests never see partial data.
type Provider struct {
	load   LoadFunc
	logger logger.Logger

	mu    sync.Mutex
	store atomic.Value // storeBox
	ready atomic.Bool
}

func NewProvider(load LoadFunc, log logger.Logger) *Provider {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Provider{load: load, logger: log}
}

// NewStaticProvider wraps an already loaded store.
func NewStaticProvider(store Store) *Provider {
	p := &Provider{logger: logger.NewNoOpLogger()}
	p.store.Store(storeBox{Store: store, loadedAt: time.Now()})
	p.ready.Store(true)
	return p
}

type storeBox struct {
	Store
	loadedAt time.Time
}

// Init loads the store once. Calls after a successful load are no-ops; a
// failed load leaves the provider not ready so Init can be retried.
func (p *Provider) Init(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ready.Load() {
		return nil
	}

	start := time.Now()
	store, err := p.load(ctx)
	if err != nil {
		p.logger.Error("Reference data load failed", map[string]interface{}{"error": err.Error()})
		return err
	}

	p.store.Store(storeBox{Store: store, loadedAt: time.Now()})
	p.ready.Store(true)
	p.logger.Info("Reference data ready", map[string]interface{}{
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return nil
}

func (p *Provider) Ready() bool {
	return p.ready.Load()
}

func (p *Provider) Store() (Store, error) {
	if !p.ready.Load() {
		return nil, ErrReferenceDataUnavailable
	}
	return p.store.Load().(storeBox).Store, nil
}

// LoadedAt reports when the store became ready, or the zero time.
func (p *Provider) LoadedAt() time.Time {
	if !p.ready.Load() {
		return time.Time{}
	}
	return p.store.Load().(storeBox).loadedAt
}
