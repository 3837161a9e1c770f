package pick

import "context"

// FutureRepository persists locally maintained future-season picks.
// Stored rows carry no value; it is recomputed on every load.
type FutureRepository interface {
	List(ctx context.Context) ([]Record, error)
	ReplaceAll(ctx context.Context, records []Record) error
}
