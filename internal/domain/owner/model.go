package owner

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var ErrUnknownOwner = errors.New("unknown owner")

// UnknownOwnerError reports an owner id or name with no entry in the league directory.
type UnknownOwnerError struct {
	ID   int64
	Name string
}

func (e *UnknownOwnerError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: name=%q", ErrUnknownOwner, e.Name)
	}
	return fmt.Sprintf("%s: id=%d", ErrUnknownOwner, e.ID)
}

func (e *UnknownOwnerError) Unwrap() error {
	return ErrUnknownOwner
}

// Owner is a league member that can hold draft picks.
type Owner struct {
	ID   int64
	Name string
}

func (o Owner) Validate() error {
	if o.ID <= 0 {
		return fmt.Errorf("owner id must be greater than zero")
	}
	if strings.TrimSpace(o.Name) == "" {
		return fmt.Errorf("owner name is required for id=%d", o.ID)
	}

	return nil
}

// Directory is the immutable id<->name mapping for one league run.
type Directory struct {
	byID   map[int64]Owner
	byName map[string]Owner
	ids    []int64
}

func NewDirectory(owners []Owner) (*Directory, error) {
	if len(owners) == 0 {
		return nil, fmt.Errorf("owner directory requires at least one owner")
	}

	byID := make(map[int64]Owner, len(owners))
	byName := make(map[string]Owner, len(owners))
	ids := make([]int64, 0, len(owners))
	for _, o := range owners {
		o.Name = strings.TrimSpace(o.Name)
		if err := o.Validate(); err != nil {
			return nil, err
		}
		if _, exists := byID[o.ID]; exists {
			return nil, fmt.Errorf("duplicate owner id=%d", o.ID)
		}
		if _, exists := byName[o.Name]; exists {
			return nil, fmt.Errorf("duplicate owner name=%q", o.Name)
		}
		byID[o.ID] = o
		byName[o.Name] = o
		ids = append(ids, o.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return &Directory{
		byID:   byID,
		byName: byName,
		ids:    ids,
	}, nil
}

func (d *Directory) ByID(id int64) (Owner, error) {
	o, ok := d.byID[id]
	if !ok {
		return Owner{}, &UnknownOwnerError{ID: id}
	}
	return o, nil
}

func (d *Directory) ByName(name string) (Owner, error) {
	o, ok := d.byName[strings.TrimSpace(name)]
	if !ok {
		return Owner{}, &UnknownOwnerError{Name: name}
	}
	return o, nil
}

// Resolve accepts either a numeric owner id or a display name.
func (d *Directory) Resolve(ref string) (Owner, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return d.ByID(id)
	}
	return d.ByName(ref)
}

// Owners returns every owner ordered by id.
func (d *Directory) Owners() []Owner {
	out := make([]Owner, 0, len(d.ids))
	for _, id := range d.ids {
		out = append(out, d.byID[id])
	}
	return out
}

func (d *Directory) Len() int {
	return len(d.ids)
}
