package advisor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Tiliavir/collection-log-advisor/internal/catalog"
	"github.com/Tiliavir/collection-log-advisor/internal/collectionlog"
	"github.com/Tiliavir/collection-log-advisor/internal/kvstore"
	"github.com/Tiliavir/collection-log-advisor/internal/model"
	"github.com/Tiliavir/collection-log-advisor/internal/rates"
)

// ErrNoCatalog is returned by Open before any catalog was imported.
var ErrNoCatalog = errors.New("no catalog imported yet (run: cla catalog import or cla catalog fetch)")

// Advisor holds everything loaded from the store that a report needs.
// It is safe for concurrent use.
type Advisor struct {
	store   kvstore.Store
	catalog catalog.Catalog
	rates   *rates.Service

	mu       sync.RWMutex
	snapshot collectionlog.Snapshot
	hasLog   bool
}

// Open loads the catalog, the user's rates and the stored collection log.
// A missing collection log is not an error: every item counts as missing.
func Open(ctx context.Context, store kvstore.Store) (*Advisor, error) {
	cat, err := catalog.Load(ctx, store)
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, ErrNoCatalog
	}
	if err != nil {
		return nil, err
	}

	svc := rates.NewService(store)
	if err := svc.Load(ctx, cat.Rates); err != nil {
		return nil, err
	}

	a := &Advisor{store: store, catalog: cat, rates: svc}
	if err := a.Reload(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

// Reload re-reads the collection log snapshot from the store.
func (a *Advisor) Reload(ctx context.Context) error {
	snap, err := collectionlog.Load(ctx, a.store)
	hasLog := true
	if errors.Is(err, kvstore.ErrNotFound) {
		snap, hasLog, err = collectionlog.Snapshot{}, false, nil
	}
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.snapshot, a.hasLog = snap, hasLog
	return nil
}

// Catalog returns the loaded catalog.
func (a *Advisor) Catalog() catalog.Catalog {
	return a.catalog
}

// Rates returns the rate service backing the report.
func (a *Advisor) Rates() *rates.Service {
	return a.rates
}

// Snapshot returns the loaded collection log and whether one exists.
func (a *Advisor) Snapshot() (collectionlog.Snapshot, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snapshot, a.hasLog
}

// Report builds the ranked report. An empty opts.Account uses the stored
// account mode.
func (a *Advisor) Report(ctx context.Context, opts Options) (Report, error) {
	if opts.Account == "" {
		mode, err := collectionlog.Mode(ctx, a.store)
		if err != nil {
			return Report{}, err
		}
		opts.Account = mode
	}

	snap, _ := a.Snapshot()
	return Build(a.catalog.Activities, a.rates, snap.Completed(), opts), nil
}

// SetAccount stores a manual account mode choice.
func (a *Advisor) SetAccount(ctx context.Context, account model.AccountType) error {
	if err := collectionlog.SetMode(ctx, a.store, account); err != nil {
		return fmt.Errorf("setting account mode: %w", err)
	}
	return nil
}
