package audit

import "context"

// Repository is append-only.
type Repository interface {
	Insert(ctx context.Context, entry Entry) error
}
