package pick

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/pick-ledger/internal/domain/owner"
)

// Normalizer turns provider and stored rows into canonical records.
type Normalizer struct {
	owners   *owner.Directory
	validate *validator.Validate
}

func NewNormalizer(owners *owner.Directory) *Normalizer {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Normalizer{
		owners:   owners,
		validate: validate,
	}
}

// NormalizeRaw validates, filters and resolves provider rows. The first malformed
// row aborts the whole batch; rows outside the retained round range are dropped.
func (n *Normalizer) NormalizeRaw(raws []RawRecord) ([]Record, error) {
	out := make([]Record, 0, len(raws))
	for i, raw := range raws {
		if err := n.validateRaw(i, raw); err != nil {
			return nil, err
		}

		if !SeasonInRange(*raw.Season) {
			return nil, &MalformedRecordError{Index: i, Field: "season", Reason: "out of range"}
		}

		round := *raw.Slot.Round
		if !RoundInRange(round) {
			continue
		}

		currentID := *raw.OwnedBy.ID
		originalID := currentID
		if raw.OriginalOwner != nil && raw.OriginalOwner.ID != nil {
			originalID = *raw.OriginalOwner.ID
		}

		record, err := n.resolve(Record{
			Season: *raw.Season,
			Round:  round,
			Traded: bool(raw.Traded),
			Lost:   bool(raw.Lost),
		}, currentID, originalID)
		if err != nil {
			return nil, fmt.Errorf("normalize record index=%d: %w", i, err)
		}
		out = append(out, record)
	}

	SortRecords(out)
	return out, nil
}

// Canonicalize re-normalizes records that are already in canonical shape.
// Applying it twice yields the same rows in the same order.
func (n *Normalizer) Canonicalize(records []Record) ([]Record, error) {
	out := make([]Record, 0, len(records))
	for i, r := range records {
		if !RoundInRange(r.Round) {
			continue
		}
		if !SeasonInRange(r.Season) {
			return nil, &MalformedRecordError{Index: i, Field: "season", Reason: "out of range"}
		}

		originalID := r.OriginalOwner.ID
		if originalID == 0 {
			originalID = r.CurrentOwner.ID
		}

		record, err := n.resolve(r, r.CurrentOwner.ID, originalID)
		if err != nil {
			return nil, fmt.Errorf("canonicalize %s: %w", r.Key(), err)
		}
		out = append(out, record)
	}

	SortRecords(out)
	return out, nil
}

func (n *Normalizer) resolve(r Record, currentID, originalID int64) (Record, error) {
	current, err := n.owners.ByID(currentID)
	if err != nil {
		return Record{}, err
	}
	original, err := n.owners.ByID(originalID)
	if err != nil {
		return Record{}, err
	}

	r.CurrentOwner = current
	r.OriginalOwner = original
	if current.ID != original.ID {
		r.Traded = true
	}
	return r, nil
}

func (n *Normalizer) validateRaw(index int, raw RawRecord) error {
	err := n.validate.Struct(raw)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		first := fieldErrs[0]
		return &MalformedRecordError{
			Index:  index,
			Field:  fieldPath(first.Namespace()),
			Reason: first.Tag(),
		}
	}

	return &MalformedRecordError{Index: index, Field: "record", Reason: err.Error()}
}

// fieldPath strips the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}

// SortRecords orders by season, current owner id, then round. Ties keep input order.
func SortRecords(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Season != b.Season {
			return a.Season < b.Season
		}
		if a.CurrentOwner.ID != b.CurrentOwner.ID {
			return a.CurrentOwner.ID < b.CurrentOwner.ID
		}
		return a.Round < b.Round
	})
}
