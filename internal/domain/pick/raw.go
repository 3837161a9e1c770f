package pick

import (
	"fmt"
	"strconv"
	"strings"
)

// RawRecord is the provider pick payload before normalization.
// traded and lost are omitted by the provider when false.
type RawRecord struct {
	Traded        BoolLike          `json:"traded"`
	Season        *int              `json:"season" validate:"required"`
	Lost          BoolLike          `json:"lost"`
	OwnedBy       RawOwner          `json:"ownedBy"`
	OriginalOwner *RawOriginalOwner `json:"originalOwner"`
	Slot          RawSlot           `json:"slot"`
}

type RawOwner struct {
	ID   *int64 `json:"id" validate:"required"`
	Name string `json:"name"`
}

// RawOriginalOwner may carry a null id; normalization then falls back to ownedBy.
type RawOriginalOwner struct {
	ID   *int64 `json:"id"`
	Name string `json:"name"`
}

type RawSlot struct {
	Round *int `json:"round" validate:"required"`
}

// BoolLike decodes booleans that arrive as JSON bools, strings or numbers.
type BoolLike bool

func (b *BoolLike) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == "" {
		*b = false
		return nil
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = unquoted
	}

	v, err := ParseBoolLike(raw)
	if err != nil {
		return err
	}
	*b = BoolLike(v)
	return nil
}

func (b BoolLike) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatBool(bool(b))), nil
}

// ParseBoolLike maps truthy/falsy text to a strict bool. Empty text is false.
func ParseBoolLike(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "t", "1", "yes", "y":
		return true, nil
	case "false", "f", "0", "no", "n", "":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean value %q", raw)
	}
}

func intPtr(v int) *int {
	return &v
}

func int64Ptr(v int64) *int64 {
	return &v
}

// RawFromRecord renders a canonical record back into the provider shape.
func RawFromRecord(r Record) RawRecord {
	return RawRecord{
		Traded:  BoolLike(r.Traded),
		Season:  intPtr(r.Season),
		Lost:    BoolLike(r.Lost),
		OwnedBy: RawOwner{ID: int64Ptr(r.CurrentOwner.ID), Name: r.CurrentOwner.Name},
		OriginalOwner: &RawOriginalOwner{
			ID:   int64Ptr(r.OriginalOwner.ID),
			Name: r.OriginalOwner.Name,
		},
		Slot: RawSlot{Round: intPtr(r.Round)},
	}
}
