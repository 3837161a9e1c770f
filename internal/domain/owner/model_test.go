package owner

import (
	"errors"
	"testing"
)

func TestNewDirectory(t *testing.T) {
	t.Parallel()

	dir, err := NewDirectory([]Owner{
		{ID: 1340595, Name: "Ryan"},
		{ID: 1335769, Name: " Steve "},
	})
	if err != nil {
		t.Fatalf("new directory: %v", err)
	}

	owners := dir.Owners()
	if len(owners) != 2 || owners[0].ID != 1335769 || owners[1].ID != 1340595 {
		t.Fatalf("expected owners sorted by id, got %+v", owners)
	}
	if owners[0].Name != "Steve" {
		t.Fatalf("expected trimmed name, got %q", owners[0].Name)
	}

	got, err := dir.ByName("Ryan")
	if err != nil || got.ID != 1340595 {
		t.Fatalf("lookup by name: got=%+v err=%v", got, err)
	}
}

func TestNewDirectory_RejectsInvalidInput(t *testing.T) {
	t.Parallel()

	cases := map[string][]Owner{
		"empty":          nil,
		"duplicate id":   {{ID: 1, Name: "A"}, {ID: 1, Name: "B"}},
		"duplicate name": {{ID: 1, Name: "A"}, {ID: 2, Name: "A"}},
		"zero id":        {{ID: 0, Name: "A"}},
		"blank name":     {{ID: 1, Name: "  "}},
	}
	for name, owners := range cases {
		if _, err := NewDirectory(owners); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestDirectory_UnknownOwner(t *testing.T) {
	t.Parallel()

	dir, err := NewDirectory([]Owner{{ID: 1, Name: "Steve"}})
	if err != nil {
		t.Fatalf("new directory: %v", err)
	}

	_, err = dir.ByID(7)
	var unknown *UnknownOwnerError
	if !errors.As(err, &unknown) || unknown.ID != 7 {
		t.Fatalf("expected UnknownOwnerError for id 7, got %v", err)
	}
	if !errors.Is(err, ErrUnknownOwner) {
		t.Fatalf("expected ErrUnknownOwner match")
	}

	_, err = dir.ByName("Nobody")
	if !errors.As(err, &unknown) || unknown.Name != "Nobody" {
		t.Fatalf("expected UnknownOwnerError for name, got %v", err)
	}
}

func TestDirectory_Resolve(t *testing.T) {
	t.Parallel()

	dir, err := NewDirectory([]Owner{{ID: 1335769, Name: "Steve"}, {ID: 1344282, Name: "Jake B"}})
	if err != nil {
		t.Fatalf("new directory: %v", err)
	}

	got, err := dir.Resolve(" 1335769 ")
	if err != nil || got.Name != "Steve" {
		t.Fatalf("resolve by id: got=%+v err=%v", got, err)
	}
	got, err = dir.Resolve("Jake B")
	if err != nil || got.ID != 1344282 {
		t.Fatalf("resolve by name: got=%+v err=%v", got, err)
	}
	if _, err := dir.Resolve("42"); !errors.Is(err, ErrUnknownOwner) {
		t.Fatalf("expected ErrUnknownOwner for unknown id, got %v", err)
	}
}
