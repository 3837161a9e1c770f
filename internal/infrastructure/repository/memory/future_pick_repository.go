package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/pick-ledger/internal/domain/pick"
	"github.com/shopspring/decimal"
)

type FuturePickRepository struct {
	mu    sync.RWMutex
	items []pick.Record
}

func NewFuturePickRepository(records []pick.Record) *FuturePickRepository {
	return &FuturePickRepository{items: stripValues(records)}
}

func (r *FuturePickRepository) List(_ context.Context) ([]pick.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]pick.Record(nil), r.items...), nil
}

func (r *FuturePickRepository) ReplaceAll(_ context.Context, records []pick.Record) error {
	items := stripValues(records)

	r.mu.Lock()
	r.items = items
	r.mu.Unlock()
	return nil
}

func stripValues(records []pick.Record) []pick.Record {
	out := make([]pick.Record, len(records))
	for i, record := range records {
		record.Value = decimal.Decimal{}
		out[i] = record
	}
	return out
}
