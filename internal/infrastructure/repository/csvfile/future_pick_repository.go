package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/riskibarqy/pick-ledger/internal/domain/pick"
)

const (
	colTraded            = "traded"
	colSeason            = "season"
	colLost              = "lost"
	colOwnedByID         = "ownedBy.id"
	colOwnedByName       = "ownedBy.name"
	colOriginalOwnerID   = "originalOwner.id"
	colOriginalOwnerName = "originalOwner.name"
	colSlotRound         = "slot.round"
)

var header = []string{
	colTraded,
	colSeason,
	colLost,
	colOwnedByID,
	colOwnedByName,
	colOriginalOwnerID,
	colOriginalOwnerName,
	colSlotRound,
}

// FuturePickRepository keeps the future pick set in a flat CSV file.
// Columns are matched by header name, so extra columns such as a leading
// index are ignored. A missing file reads as an empty set.
type FuturePickRepository struct {
	mu   sync.Mutex
	path string
}

func NewFuturePickRepository(path string) *FuturePickRepository {
	return &FuturePickRepository{path: path}
}

func (r *FuturePickRepository) List(_ context.Context) ([]pick.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.Open(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open future picks file: %w", err)
	}
	defer f.Close()

	return decode(f)
}

// ReplaceAll writes to a temporary file in the same directory and renames it
// over the target, so readers never see a partially written file.
func (r *FuturePickRepository) ReplaceAll(_ context.Context, records []pick.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create future picks dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp future picks file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := encode(tmp, records); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync future picks file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close future picks file: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replace future picks file: %w", err)
	}
	return nil
}

func encode(w io.Writer, records []pick.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write future picks header: %w", err)
	}
	for _, r := range records {
		original := r.OriginalOwner
		if original.ID == 0 {
			original = r.CurrentOwner
		}
		row := []string{
			strconv.FormatBool(r.Traded),
			strconv.Itoa(r.Season),
			strconv.FormatBool(r.Lost),
			strconv.FormatInt(r.CurrentOwner.ID, 10),
			r.CurrentOwner.Name,
			strconv.FormatInt(original.ID, 10),
			original.Name,
			strconv.Itoa(r.Round),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write future pick %s: %w", r.Key(), err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush future picks: %w", err)
	}
	return nil
}

func decode(rd io.Reader) ([]pick.Record, error) {
	cr := csv.NewReader(rd)
	cr.FieldsPerRecord = -1

	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read future picks header: %w", err)
	}
	index := make(map[string]int, len(head))
	for i, name := range head {
		index[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colSeason, colOwnedByID, colSlotRound} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("future picks file is missing column %q", required)
		}
	}

	var out []pick.Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read future picks line %d: %w", line, err)
		}

		record, err := decodeRow(index, row)
		if err != nil {
			return nil, fmt.Errorf("future picks line %d: %w", line, err)
		}
		out = append(out, record)
	}
	return out, nil
}

func decodeRow(index map[string]int, row []string) (pick.Record, error) {
	field := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var r pick.Record
	var err error
	if r.Season, err = parseInt(field(colSeason)); err != nil {
		return pick.Record{}, fmt.Errorf("%s: %w", colSeason, err)
	}
	if r.Round, err = parseInt(field(colSlotRound)); err != nil {
		return pick.Record{}, fmt.Errorf("%s: %w", colSlotRound, err)
	}
	ownerID, err := parseInt(field(colOwnedByID))
	if err != nil {
		return pick.Record{}, fmt.Errorf("%s: %w", colOwnedByID, err)
	}
	r.CurrentOwner.ID = int64(ownerID)
	r.CurrentOwner.Name = field(colOwnedByName)

	if raw := field(colOriginalOwnerID); raw != "" {
		originalID, err := parseInt(raw)
		if err != nil {
			return pick.Record{}, fmt.Errorf("%s: %w", colOriginalOwnerID, err)
		}
		r.OriginalOwner.ID = int64(originalID)
		r.OriginalOwner.Name = field(colOriginalOwnerName)
	}

	if r.Traded, err = pick.ParseBoolLike(field(colTraded)); err != nil {
		return pick.Record{}, fmt.Errorf("%s: %w", colTraded, err)
	}
	if r.Lost, err = pick.ParseBoolLike(field(colLost)); err != nil {
		return pick.Record{}, fmt.Errorf("%s: %w", colLost, err)
	}
	return r, nil
}

// parseInt also accepts whole floats such as "1335769.0".
func parseInt(raw string) (int, error) {
	if raw == "" {
		return 0, fmt.Errorf("value is required")
	}
	if v, err := strconv.Atoi(raw); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != float64(int64(f)) {
		return 0, fmt.Errorf("invalid integer %q", raw)
	}
	return int(f), nil
}
