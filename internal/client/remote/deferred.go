package remote

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
)

// DeferredStore dials its backend on first use and again after each failed
// attempt, so the client can start while the backend is unreachable. Until
// a dial succeeds every call returns the dial error.
type DeferredStore struct {
	opts Options

	mu    sync.Mutex
	store DocumentStore
}

func NewDeferredStore(opts Options) *DeferredStore {
	return &DeferredStore{opts: opts}
}

func (d *DeferredStore) get(ctx context.Context) (DocumentStore, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.store != nil {
		return d.store, nil
	}
	s, err := dial(ctx, d.opts)
	if err != nil {
		return nil, err
	}
	d.store = s
	return s, nil
}

func (d *DeferredStore) Set(ctx context.Context, collection, id string, fields models.Fields) error {
	s, err := d.get(ctx)
	if err != nil {
		return err
	}
	return s.Set(ctx, collection, id, fields)
}

func (d *DeferredStore) Get(ctx context.Context, collection, id string) (models.Fields, error) {
	s, err := d.get(ctx)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, collection, id)
}

func (d *DeferredStore) Delete(ctx context.Context, collection, id string) error {
	s, err := d.get(ctx)
	if err != nil {
		return err
	}
	return s.Delete(ctx, collection, id)
}

func (d *DeferredStore) Query(ctx context.Context, collection, field string, value any) ([]models.Fields, error) {
	s, err := d.get(ctx)
	if err != nil {
		return nil, err
	}
	return s.Query(ctx, collection, field, value)
}

func (d *DeferredStore) Ping(ctx context.Context) error {
	s, err := d.get(ctx)
	if err != nil {
		return err
	}
	return s.Ping(ctx)
}

func (d *DeferredStore) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.store == nil {
		return nil
	}
	err := d.store.Close()
	d.store = nil
	return err
}
