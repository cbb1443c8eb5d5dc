package remote

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/Tiliavir/collection-log-advisor/internal/catalog"
	"github.com/Tiliavir/collection-log-advisor/internal/collectionlog"
	"github.com/Tiliavir/collection-log-advisor/internal/model"
)

const (
	activitiesPath = "/log_importer/get-activities-data/"
	ratesPath      = "/log_importer/get-completion-rates/"
)

// FetchCollectionLog downloads and normalises a player's collection log.
// An unknown player yields an error wrapping ErrNotFound.
func (c *Client) FetchCollectionLog(ctx context.Context, username string) (collectionlog.Snapshot, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return collectionlog.Snapshot{}, fmt.Errorf("username is required")
	}

	endpoint := fmt.Sprintf("%s/collectionlog/user/%s", c.collectionLogURL, url.PathEscape(username))
	body, err := c.get(ctx, c.plain, endpoint)
	if err != nil {
		return collectionlog.Snapshot{}, fmt.Errorf("fetching collection log for %s: %w", username, err)
	}

	snap, err := collectionlog.Parse(body)
	if err != nil {
		return collectionlog.Snapshot{}, err
	}
	if snap.Username == collectionlog.ManualUpload {
		snap.Username = username
	}
	return snap, nil
}

// FetchActivities downloads the activity list with item drop parameters.
func (c *Client) FetchActivities(ctx context.Context) ([]model.Activity, error) {
	body, err := c.getBackend(ctx, activitiesPath)
	if err != nil {
		return nil, err
	}
	return catalog.DecodeActivities(bytes.NewReader(body))
}

// FetchRates downloads the default completion rates.
func (c *Client) FetchRates(ctx context.Context) ([]model.DefaultRate, error) {
	body, err := c.getBackend(ctx, ratesPath)
	if err != nil {
		return nil, err
	}
	return catalog.DecodeRates(bytes.NewReader(body))
}

// FetchCatalog downloads activities and default rates together.
func (c *Client) FetchCatalog(ctx context.Context) (catalog.Catalog, error) {
	activities, err := c.FetchActivities(ctx)
	if err != nil {
		return catalog.Catalog{}, fmt.Errorf("fetching activities: %w", err)
	}
	rates, err := c.FetchRates(ctx)
	if err != nil {
		return catalog.Catalog{}, fmt.Errorf("fetching completion rates: %w", err)
	}
	return catalog.Catalog{Activities: activities, Rates: rates}, nil
}

func (c *Client) getBackend(ctx context.Context, path string) ([]byte, error) {
	if c.backendURL == "" {
		return nil, ErrNoBackend
	}
	return c.get(ctx, c.backend, c.backendURL+path)
}
