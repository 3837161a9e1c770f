package pick

import (
	"fmt"

	"github.com/riskibarqy/pick-ledger/internal/domain/owner"
)

// Table is an indexed, copy-on-write set of pick records.
// active maps each lineage key to the position of its single active record.
type Table struct {
	records []Record
	active  map[Key]int
}

func NewTable(records []Record) (*Table, error) {
	t := &Table{
		records: cloneRecords(records),
		active:  make(map[Key]int, len(records)),
	}
	for i, r := range t.records {
		if r.Lost {
			continue
		}
		key := r.Key()
		if prev, exists := t.active[key]; exists {
			return nil, fmt.Errorf("%w: %s held by owner=%d and owner=%d",
				ErrDuplicateActive, key, t.records[prev].CurrentOwner.ID, r.CurrentOwner.ID)
		}
		t.active[key] = i
	}

	return t, nil
}

func (t *Table) Len() int {
	return len(t.records)
}

// Records returns a copy of every row, lost lineage entries included.
func (t *Table) Records() []Record {
	return cloneRecords(t.records)
}

func (t *Table) Active(key Key) (Record, bool) {
	idx, ok := t.active[key]
	if !ok {
		return Record{}, false
	}
	return t.records[idx], true
}

// History returns every row of a lineage: lost entries, then the active one.
// The original owner's lost entry leads. Intermediate holders keep table order,
// which after canonical sorting follows holder id rather than trade time.
func (t *Table) History(key Key) []Record {
	out := make([]Record, 0, 2)
	first := -1
	for _, r := range t.records {
		if r.Key() != key || !r.Lost {
			continue
		}
		if first < 0 && r.CurrentOwner.ID == key.OriginalOwnerID {
			first = len(out)
		}
		out = append(out, r)
	}
	if first > 0 {
		lead := out[first]
		copy(out[1:first+1], out[:first])
		out[0] = lead
	}
	if idx, ok := t.active[key]; ok {
		out = append(out, t.records[idx])
	}
	return out
}

// Trade moves the active record for key to newOwner. The receiver is left untouched;
// the returned table holds the superseded row marked lost plus the new active row.
func (t *Table) Trade(key Key, newOwner owner.Owner) (*Table, Record, error) {
	idx, ok := t.active[key]
	if !ok {
		return nil, Record{}, &PickNotFoundError{Key: key}
	}

	previous := t.records[idx]
	if previous.CurrentOwner.ID == newOwner.ID {
		return nil, Record{}, &PickNotFoundError{
			Key:    key,
			Reason: fmt.Sprintf("already held by owner=%d", newOwner.ID),
		}
	}

	superseded := previous
	superseded.Traded = true
	superseded.Lost = true

	next := previous
	next.CurrentOwner = newOwner
	next.Traded = true
	next.Lost = false

	records := make([]Record, len(t.records), len(t.records)+1)
	copy(records, t.records)
	records[idx] = superseded
	records = append(records, next)

	active := make(map[Key]int, len(t.active))
	for k, v := range t.active {
		active[k] = v
	}
	active[key] = len(records) - 1

	return &Table{records: records, active: active}, next, nil
}
