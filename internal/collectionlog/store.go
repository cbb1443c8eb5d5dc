package collectionlog

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Tiliavir/collection-log-advisor/internal/kvstore"
	"github.com/Tiliavir/collection-log-advisor/internal/model"
)

// Save stores the snapshot, sets the account mode it implies and clears
// any manual mode choice.
func Save(ctx context.Context, store kvstore.Store, snap Snapshot) error {
	if err := kvstore.SetJSON(ctx, store, kvstore.KeyCollectionLogData, snap); err != nil {
		return fmt.Errorf("saving collection log: %w", err)
	}
	if err := store.Set(ctx, kvstore.KeyIsIron, strconv.FormatBool(snap.Account().IsIron())); err != nil {
		return fmt.Errorf("saving account mode: %w", err)
	}
	if err := store.Set(ctx, kvstore.KeyUserToggledMode, "false"); err != nil {
		return fmt.Errorf("saving account mode: %w", err)
	}
	return nil
}

// Load returns the stored snapshot. It fails with an error wrapping
// kvstore.ErrNotFound if no log was ever imported.
func Load(ctx context.Context, store kvstore.Store) (Snapshot, error) {
	var snap Snapshot
	if err := kvstore.MustGetJSON(ctx, store, kvstore.KeyCollectionLogData, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("loading collection log: %w", err)
	}
	return snap, nil
}

// Mode returns the stored account mode. Without a stored mode the
// account is treated as normal.
func Mode(ctx context.Context, store kvstore.Store) (model.AccountType, error) {
	v, ok, err := store.Get(ctx, kvstore.KeyIsIron)
	if err != nil {
		return model.AccountNormal, fmt.Errorf("loading account mode: %w", err)
	}
	if ok {
		if iron, _ := strconv.ParseBool(v); iron {
			return model.AccountIronman, nil
		}
	}
	return model.AccountNormal, nil
}

// SetMode records a manual account mode choice.
func SetMode(ctx context.Context, store kvstore.Store, account model.AccountType) error {
	if err := store.Set(ctx, kvstore.KeyIsIron, strconv.FormatBool(account.IsIron())); err != nil {
		return fmt.Errorf("saving account mode: %w", err)
	}
	if err := store.Set(ctx, kvstore.KeyUserToggledMode, "true"); err != nil {
		return fmt.Errorf("saving account mode: %w", err)
	}
	return nil
}
