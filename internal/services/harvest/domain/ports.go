// Package domain holds harvest contracts
package domain

import "context"

// HarvesterPort pulls one page of recent plays into the raw zone
type HarvesterPort interface {
	// Harvest fetches the freshest page and stores it under the current day
	// key, returning the key written. A repeat pull for the same day
	// overwrites, so the freshest payload wins.
	Harvest(ctx context.Context) (string, error)
}
