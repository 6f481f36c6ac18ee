package patch

import "context"

// Repository describes patch persistence needs.
type Repository interface {
	// ListRecent returns up to limit patches, newest first.
	ListRecent(ctx context.Context, limit int) ([]Patch, error)
	UpsertPatches(ctx context.Context, patches []Patch) error
}
