package pick

import (
	"errors"
	"reflect"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/pick-ledger/internal/domain/owner"
)

func testDirectory(t *testing.T) *owner.Directory {
	t.Helper()

	dir, err := owner.NewDirectory([]owner.Owner{
		{ID: 1, Name: "Steve"},
		{ID: 2, Name: "Ryan"},
		{ID: 3, Name: "Jimmy"},
	})
	if err != nil {
		t.Fatalf("build directory: %v", err)
	}
	return dir
}

func rawPick(season, round int, ownedBy int64, original *int64) RawRecord {
	raw := RawRecord{
		Season:  intPtr(season),
		OwnedBy: RawOwner{ID: int64Ptr(ownedBy)},
		Slot:    RawSlot{Round: intPtr(round)},
	}
	if original != nil {
		raw.OriginalOwner = &RawOriginalOwner{ID: original}
	}
	return raw
}

func TestNormalizer_NormalizeRaw_DefaultsOriginalOwnerAndSorts(t *testing.T) {
	t.Parallel()

	n := NewNormalizer(testDirectory(t))
	got, err := n.NormalizeRaw([]RawRecord{
		rawPick(2025, 2, 2, nil),
		rawPick(2024, 3, 1, nil),
		rawPick(2024, 1, 2, int64Ptr(1)),
		rawPick(2024, 1, 1, nil),
	})
	if err != nil {
		t.Fatalf("normalize raw: %v", err)
	}

	if len(got) != 4 {
		t.Fatalf("unexpected record count: got=%d want=4", len(got))
	}

	wantOrder := []Key{
		{Season: 2024, Round: 1, OriginalOwnerID: 1},
		{Season: 2024, Round: 3, OriginalOwnerID: 1},
		{Season: 2024, Round: 1, OriginalOwnerID: 1},
		{Season: 2025, Round: 2, OriginalOwnerID: 2},
	}
	for i, want := range wantOrder {
		if got[i].Key() != want {
			t.Fatalf("unexpected key at %d: got=%s want=%s", i, got[i].Key(), want)
		}
	}
	if got[0].CurrentOwner.Name != "Steve" || got[0].OriginalOwner.Name != "Steve" {
		t.Fatalf("expected defaulted original owner Steve, got %+v", got[0])
	}
	if got[2].CurrentOwner.ID != 2 || !got[2].Traded {
		t.Fatalf("expected traded pick held by owner 2, got %+v", got[2])
	}
}

func TestNormalizer_NormalizeRaw_DropsRoundsOutsideRange(t *testing.T) {
	t.Parallel()

	n := NewNormalizer(testDirectory(t))
	got, err := n.NormalizeRaw([]RawRecord{
		rawPick(2024, 10, 1, nil),
		rawPick(2024, 11, 1, nil),
		rawPick(2024, 0, 1, nil),
		rawPick(2024, 20, 2, nil),
	})
	if err != nil {
		t.Fatalf("normalize raw: %v", err)
	}
	if len(got) != 1 || got[0].Round != 10 {
		t.Fatalf("expected only round 10 to survive, got %+v", got)
	}
}

func TestNormalizer_NormalizeRaw_UnknownOwner(t *testing.T) {
	t.Parallel()

	n := NewNormalizer(testDirectory(t))
	_, err := n.NormalizeRaw([]RawRecord{rawPick(2024, 1, 1, int64Ptr(99))})

	var unknown *owner.UnknownOwnerError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownOwnerError, got %v", err)
	}
	if unknown.ID != 99 {
		t.Fatalf("unexpected unknown owner id: %d", unknown.ID)
	}
	if !errors.Is(err, owner.ErrUnknownOwner) {
		t.Fatalf("expected error to match ErrUnknownOwner")
	}
}

func TestNormalizer_NormalizeRaw_MalformedRecord(t *testing.T) {
	t.Parallel()

	n := NewNormalizer(testDirectory(t))

	cases := []struct {
		name  string
		raw   RawRecord
		field string
	}{
		{
			name:  "missing season",
			raw:   RawRecord{OwnedBy: RawOwner{ID: int64Ptr(1)}, Slot: RawSlot{Round: intPtr(1)}},
			field: "season",
		},
		{
			name:  "missing owner id",
			raw:   RawRecord{Season: intPtr(2024), Slot: RawSlot{Round: intPtr(1)}},
			field: "ownedBy.id",
		},
		{
			name:  "missing round",
			raw:   RawRecord{Season: intPtr(2024), OwnedBy: RawOwner{ID: int64Ptr(1)}},
			field: "slot.round",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := n.NormalizeRaw([]RawRecord{rawPick(2024, 1, 1, nil), tc.raw})

			var malformed *MalformedRecordError
			if !errors.As(err, &malformed) {
				t.Fatalf("expected MalformedRecordError, got %v", err)
			}
			if malformed.Index != 1 {
				t.Fatalf("unexpected index: got=%d want=1", malformed.Index)
			}
			if malformed.Field != tc.field {
				t.Fatalf("unexpected field: got=%s want=%s", malformed.Field, tc.field)
			}
		})
	}
}

func TestNormalizer_NormalizeRaw_DecodesBoolLikeFlags(t *testing.T) {
	t.Parallel()

	payload := []byte(`[
		{"season": 2024, "lost": "True", "traded": true, "ownedBy": {"id": 1, "name": "Steve"}, "originalOwner": {"id": 2, "name": "Ryan"}, "slot": {"round": 4}},
		{"season": 2024, "lost": "False", "ownedBy": {"id": 2, "name": "Ryan"}, "originalOwner": null, "slot": {"round": 5}}
	]`)

	var raws []RawRecord
	if err := sonic.Unmarshal(payload, &raws); err != nil {
		t.Fatalf("decode payload: %v", err)
	}

	got, err := NewNormalizer(testDirectory(t)).NormalizeRaw(raws)
	if err != nil {
		t.Fatalf("normalize raw: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("unexpected record count: %d", len(got))
	}
	if !got[0].Lost || !got[0].Traded || got[0].OriginalOwner.ID != 2 {
		t.Fatalf("unexpected first record: %+v", got[0])
	}
	if got[1].Lost || got[1].Traded || got[1].OriginalOwner.ID != 2 {
		t.Fatalf("unexpected second record: %+v", got[1])
	}
}

func TestNormalizer_Canonicalize_IsIdempotent(t *testing.T) {
	t.Parallel()

	n := NewNormalizer(testDirectory(t))
	first, err := n.NormalizeRaw([]RawRecord{
		rawPick(2026, 3, 3, nil),
		rawPick(2025, 1, 2, int64Ptr(3)),
		rawPick(2025, 1, 1, nil),
		rawPick(2025, 12, 1, nil),
	})
	if err != nil {
		t.Fatalf("normalize raw: %v", err)
	}
	if len(first) != 3 {
		t.Fatalf("unexpected record count: %d", len(first))
	}

	second, err := n.Canonicalize(first)
	if err != nil {
		t.Fatalf("canonicalize: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("canonicalize changed canonical records:\nfirst:  %+v\nsecond: %+v", first, second)
	}

	shuffled := []Record{first[2], first[0], first[1]}
	third, err := n.Canonicalize(shuffled)
	if err != nil {
		t.Fatalf("canonicalize shuffled: %v", err)
	}
	if !reflect.DeepEqual(first, third) {
		t.Fatalf("canonicalize should only reorder:\nwant: %+v\ngot:  %+v", first, third)
	}
}

func TestParseBoolLike(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"True", "true", "1", "yes"} {
		v, err := ParseBoolLike(raw)
		if err != nil || !v {
			t.Fatalf("expected %q to parse as true, got %v err=%v", raw, v, err)
		}
	}
	for _, raw := range []string{"False", "", "0", "no"} {
		v, err := ParseBoolLike(raw)
		if err != nil || v {
			t.Fatalf("expected %q to parse as false, got %v err=%v", raw, v, err)
		}
	}
	if _, err := ParseBoolLike("maybe"); err == nil {
		t.Fatalf("expected error for invalid boolean text")
	}
}

func TestNormalizer_NormalizeRaw_NullOriginalOwnerIDDefaultsToHolder(t *testing.T) {
	t.Parallel()

	payload := []byte(`[{"season": 2024, "ownedBy": {"id": 2}, "originalOwner": {"id": null}, "slot": {"round": 1}}]`)

	var raws []RawRecord
	if err := sonic.Unmarshal(payload, &raws); err != nil {
		t.Fatalf("decode payload: %v", err)
	}

	got, err := NewNormalizer(testDirectory(t)).NormalizeRaw(raws)
	if err != nil {
		t.Fatalf("normalize raw: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("unexpected record count: %d", len(got))
	}
	if got[0].OriginalOwner.ID != 2 || got[0].CurrentOwner.ID != 2 || got[0].Traded {
		t.Fatalf("expected untraded pick originally owned by holder 2, got %+v", got[0])
	}
}

func TestNormalizer_RejectsSeasonOutsideWindow(t *testing.T) {
	t.Parallel()

	n := NewNormalizer(testDirectory(t))

	_, err := n.NormalizeRaw([]RawRecord{rawPick(2024, 1, 1, nil), rawPick(2147483647, 1, 1, nil)})
	var malformed *MalformedRecordError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedRecordError, got %v", err)
	}
	if malformed.Index != 1 || malformed.Field != "season" {
		t.Fatalf("unexpected malformed error: %+v", malformed)
	}

	steve := owner.Owner{ID: 1, Name: "Steve"}
	_, err = n.Canonicalize([]Record{{Season: -5, Round: 1, CurrentOwner: steve, OriginalOwner: steve}})
	if !errors.Is(err, ErrMalformedRecord) {
		t.Fatalf("expected ErrMalformedRecord from canonicalize, got %v", err)
	}
}
