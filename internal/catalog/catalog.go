// Package catalog loads the item catalog: which items each activity can
// drop, with their drop parameters, and the default completion rates.
package catalog

import (
	"context"
	"fmt"

	"github.com/Tiliavir/collection-log-advisor/internal/kvstore"
	"github.com/Tiliavir/collection-log-advisor/internal/model"
)

// Catalog is the static input of the estimator.
type Catalog struct {
	Activities []model.Activity    `json:"activities"`
	Rates      []model.DefaultRate `json:"rates"`
}

// Activity returns the activity with the given name.
func (c Catalog) Activity(name string) (model.Activity, bool) {
	for _, a := range c.Activities {
		if a.Name == name {
			return a, true
		}
	}
	return model.Activity{}, false
}

// ItemCount returns the number of item slots across all activities.
func (c Catalog) ItemCount() int {
	n := 0
	for _, a := range c.Activities {
		n += len(a.Items)
	}
	return n
}

// Save stores the catalog under itemCatalog and defaultRates.
func Save(ctx context.Context, store kvstore.Store, c Catalog) error {
	if err := kvstore.SetJSON(ctx, store, kvstore.KeyItemCatalog, c.Activities); err != nil {
		return fmt.Errorf("saving catalog: %w", err)
	}
	if err := kvstore.SetJSON(ctx, store, kvstore.KeyDefaultRates, c.Rates); err != nil {
		return fmt.Errorf("saving default rates: %w", err)
	}
	return nil
}

// Load reads a catalog stored by Save. It fails with an error wrapping
// kvstore.ErrNotFound if no catalog was ever imported.
func Load(ctx context.Context, store kvstore.Store) (Catalog, error) {
	var c Catalog
	if err := kvstore.MustGetJSON(ctx, store, kvstore.KeyItemCatalog, &c.Activities); err != nil {
		return Catalog{}, fmt.Errorf("loading catalog: %w", err)
	}
	if err := kvstore.MustGetJSON(ctx, store, kvstore.KeyDefaultRates, &c.Rates); err != nil {
		return Catalog{}, fmt.Errorf("loading default rates: %w", err)
	}
	return c, nil
}
