package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/pick-ledger/internal/domain/owner"
	"github.com/riskibarqy/pick-ledger/internal/domain/pick"
	pickmock "github.com/riskibarqy/pick-ledger/internal/mocks/domain/pick"
	usecasemock "github.com/riskibarqy/pick-ledger/internal/mocks/usecase"
	"github.com/riskibarqy/pick-ledger/internal/platform/cache"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	steve = owner.Owner{ID: 1, Name: "Steve"}
	ryan  = owner.Owner{ID: 2, Name: "Ryan"}
)

type ledgerFixture struct {
	service *LedgerService
	source  *usecasemock.PickSource
	repo    *pickmock.FutureRepository
	clock   *clockwork.FakeClock
}

func newLedgerFixture(t *testing.T) ledgerFixture {
	t.Helper()

	dir, err := owner.NewDirectory([]owner.Owner{steve, ryan})
	require.NoError(t, err)

	valuator, err := pick.NewValuator(pick.DefaultBaseValues(), pick.StrengthTable{
		steve.ID: decimal.NewFromInt(1),
		ryan.ID:  decimal.NewFromInt(1),
	})
	require.NoError(t, err)

	source := usecasemock.NewPickSource(t)
	repo := pickmock.NewFutureRepository(t)
	clock := clockwork.NewFakeClockAt(time.Date(2024, 8, 1, 9, 0, 0, 0, time.UTC))

	service := NewLedgerService(dir, valuator, source, repo, cache.NewStore(time.Minute, clock), clock, LedgerConfig{FetchWorkers: 2}, nil)
	return ledgerFixture{service: service, source: source, repo: repo, clock: clock}
}

func rawCurrent(season, round int, holder owner.Owner) pick.RawRecord {
	return pick.RawFromRecord(pick.Record{
		Season:        season,
		Round:         round,
		CurrentOwner:  holder,
		OriginalOwner: holder,
	})
}

func futurePick(season, round int, holder owner.Owner) pick.Record {
	return pick.Record{Season: season, Round: round, CurrentOwner: holder, OriginalOwner: holder}
}

func (f ledgerFixture) expectFetch(steveRaw, ryanRaw []pick.RawRecord) {
	f.source.On("FetchTeamPicks", mock.Anything, steve.ID).Return(steveRaw, nil).Once()
	f.source.On("FetchTeamPicks", mock.Anything, ryan.ID).Return(ryanRaw, nil).Once()
}

func findRecord(records []pick.Record, season, round int, originalID, currentID int64, lost bool) (pick.Record, bool) {
	for _, r := range records {
		if r.Season == season && r.Round == round && r.OriginalOwner.ID == originalID &&
			r.CurrentOwner.ID == currentID && r.Lost == lost {
			return r, true
		}
	}
	return pick.Record{}, false
}

func TestLedgerService_Refresh_ValuesMergedLedger(t *testing.T) {
	t.Parallel()

	f := newLedgerFixture(t)
	f.expectFetch([]pick.RawRecord{rawCurrent(2024, 1, steve)}, nil)
	f.repo.On("List", mock.Anything).Return([]pick.Record{
		futurePick(2024, 2, ryan),
		futurePick(2025, 1, steve),
		futurePick(2026, 2, ryan),
	}, nil).Once()

	status, err := f.service.Refresh(t.Context())
	require.NoError(t, err)
	assert.True(t, status.Loaded)
	assert.Equal(t, 2024, status.ReferenceSeason)
	assert.Equal(t, 2024, status.MaxFetchedSeason)
	assert.Equal(t, 3, status.RecordCount)
	assert.Equal(t, 2, status.FutureCount)
	assert.Equal(t, f.clock.Now(), status.RefreshedAt)

	records, err := f.service.Snapshot(t.Context())
	require.NoError(t, err)
	require.Len(t, records, 3)

	current, ok := findRecord(records, 2024, 1, steve.ID, steve.ID, false)
	require.True(t, ok)
	assert.Equal(t, "1000.00", current.Value.StringFixed(2))

	_, ok = findRecord(records, 2024, 2, ryan.ID, ryan.ID, false)
	assert.False(t, ok, "future row for a fetched season must not survive")

	discounted, ok := findRecord(records, 2026, 2, ryan.ID, ryan.ID, false)
	require.True(t, ok)
	assert.Equal(t, "283.50", discounted.Value.StringFixed(2))
}

func TestLedgerService_Snapshot_BeforeRefresh(t *testing.T) {
	t.Parallel()

	f := newLedgerFixture(t)
	_, err := f.service.Snapshot(t.Context())
	assert.True(t, errors.Is(err, ErrLedgerNotLoaded), "got %v", err)

	_, err = f.service.ApplyTrade(t.Context(), TradeInput{Season: 2025, Round: 1, FromOriginalOwnerID: 1, ToOwnerID: 2})
	assert.True(t, errors.Is(err, ErrLedgerNotLoaded), "got %v", err)
	assert.False(t, f.service.Status(t.Context()).Loaded)
}

func TestLedgerService_Refresh_FetchFailureKeepsPriorState(t *testing.T) {
	t.Parallel()

	f := newLedgerFixture(t)
	f.expectFetch([]pick.RawRecord{rawCurrent(2024, 1, steve)}, nil)
	f.repo.On("List", mock.Anything).Return([]pick.Record{futurePick(2025, 1, steve)}, nil).Once()

	_, err := f.service.Refresh(t.Context())
	require.NoError(t, err)
	before, err := f.service.Snapshot(t.Context())
	require.NoError(t, err)

	upstream := errors.New("connection reset")
	f.source.On("FetchTeamPicks", mock.Anything, steve.ID).Return(nil, nil).Once()
	f.source.On("FetchTeamPicks", mock.Anything, ryan.ID).Return(nil, upstream).Once()

	_, err = f.service.Refresh(t.Context())
	var fetchErr *SourceFetchError
	require.True(t, errors.As(err, &fetchErr), "got %v", err)
	assert.Equal(t, ryan.ID, fetchErr.OwnerID)
	assert.True(t, errors.Is(err, ErrSourceFetch))
	assert.True(t, errors.Is(err, ErrDependencyUnavailable))
	assert.True(t, errors.Is(err, upstream))

	after, err := f.service.Snapshot(t.Context())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestLedgerService_Refresh_RecoversSourcePanic(t *testing.T) {
	t.Parallel()

	f := newLedgerFixture(t)
	f.source.On("FetchTeamPicks", mock.Anything, steve.ID).Return(nil, nil).Once()
	f.source.On("FetchTeamPicks", mock.Anything, ryan.ID).Panic("decoder blew up").Once()

	_, err := f.service.Refresh(t.Context())
	assert.True(t, errors.Is(err, ErrSourceFetch), "got %v", err)
	assert.False(t, f.service.Status(t.Context()).Loaded)
}

func TestLedgerService_Refresh_UnknownOwnerInPayload(t *testing.T) {
	t.Parallel()

	f := newLedgerFixture(t)
	stranger := owner.Owner{ID: 99, Name: "Stranger"}
	f.expectFetch([]pick.RawRecord{rawCurrent(2024, 1, stranger)}, nil)

	_, err := f.service.Refresh(t.Context())
	assert.True(t, errors.Is(err, owner.ErrUnknownOwner), "got %v", err)
}

func TestLedgerService_ApplyTrade_PreservesLineage(t *testing.T) {
	t.Parallel()

	f := newLedgerFixture(t)
	f.expectFetch([]pick.RawRecord{rawCurrent(2024, 1, steve)}, nil)
	f.repo.On("List", mock.Anything).Return([]pick.Record{
		futurePick(2025, 1, steve),
		futurePick(2025, 1, ryan),
	}, nil).Once()

	_, err := f.service.Refresh(t.Context())
	require.NoError(t, err)

	before, err := f.service.View(t.Context(), pick.ViewFilter{Season: 2025, OriginalOwnerID: steve.ID})
	require.NoError(t, err)
	require.Len(t, before, 1)
	assert.Equal(t, "Steve", before[0].Owner)

	f.repo.On("ReplaceAll", mock.Anything, mock.MatchedBy(func(records []pick.Record) bool {
		if len(records) != 3 {
			return false
		}
		_, lost := findRecord(records, 2025, 1, steve.ID, steve.ID, true)
		_, active := findRecord(records, 2025, 1, steve.ID, ryan.ID, false)
		return lost && active
	})).Return(nil).Once()

	input := TradeInput{Season: 2025, Round: 1, FromOriginalOwnerID: steve.ID, ToOwnerID: ryan.ID}
	result, err := f.service.ApplyTrade(t.Context(), input)
	require.NoError(t, err)
	assert.Equal(t, steve, result.Superseded.CurrentOwner)
	assert.True(t, result.Superseded.Lost)
	assert.True(t, result.Superseded.Traded)
	assert.Equal(t, ryan, result.Active.CurrentOwner)
	assert.Equal(t, steve, result.Active.OriginalOwner)
	assert.Equal(t, "900.00", result.Active.Value.StringFixed(2))
	assert.Equal(t, "900.00", result.Superseded.Value.StringFixed(2))

	records, err := f.service.Snapshot(t.Context())
	require.NoError(t, err)
	lostRow, ok := findRecord(records, 2025, 1, steve.ID, steve.ID, true)
	require.True(t, ok)
	assert.True(t, lostRow.Traded)
	activeRow, ok := findRecord(records, 2025, 1, steve.ID, ryan.ID, false)
	require.True(t, ok)
	assert.True(t, activeRow.Traded)

	after, err := f.service.View(t.Context(), pick.ViewFilter{Season: 2025, OriginalOwnerID: steve.ID, ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, "Ryan", after[0].Owner)

	_, err = f.service.ApplyTrade(t.Context(), input)
	var notFound *pick.PickNotFoundError
	assert.True(t, errors.As(err, &notFound), "got %v", err)
}

func TestLedgerService_ApplyTrade_PersistFailureLeavesLedgerUnchanged(t *testing.T) {
	t.Parallel()

	f := newLedgerFixture(t)
	f.expectFetch([]pick.RawRecord{rawCurrent(2024, 1, steve)}, nil)
	f.repo.On("List", mock.Anything).Return([]pick.Record{futurePick(2025, 3, steve)}, nil).Once()

	_, err := f.service.Refresh(t.Context())
	require.NoError(t, err)
	before, err := f.service.Snapshot(t.Context())
	require.NoError(t, err)

	f.repo.On("ReplaceAll", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()

	_, err = f.service.ApplyTrade(t.Context(), TradeInput{Season: 2025, Round: 3, FromOriginalOwnerID: steve.ID, ToOwnerID: ryan.ID})
	assert.True(t, errors.Is(err, ErrDependencyUnavailable), "got %v", err)

	after, err := f.service.Snapshot(t.Context())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestLedgerService_ApplyTrade_Rejections(t *testing.T) {
	t.Parallel()

	f := newLedgerFixture(t)
	f.expectFetch([]pick.RawRecord{rawCurrent(2024, 1, steve)}, nil)
	f.repo.On("List", mock.Anything).Return([]pick.Record{futurePick(2025, 1, steve)}, nil).Once()

	_, err := f.service.Refresh(t.Context())
	require.NoError(t, err)

	_, err = f.service.ApplyTrade(t.Context(), TradeInput{Season: 2024, Round: 1, FromOriginalOwnerID: steve.ID, ToOwnerID: ryan.ID})
	assert.True(t, errors.Is(err, pick.ErrPickNotFound), "fetched season: got %v", err)

	_, err = f.service.ApplyTrade(t.Context(), TradeInput{Season: 2025, Round: 1, FromOriginalOwnerID: steve.ID, ToOwnerID: 42})
	assert.True(t, errors.Is(err, owner.ErrUnknownOwner), "unknown target: got %v", err)

	_, err = f.service.ApplyTrade(t.Context(), TradeInput{Season: 2025, Round: 11, FromOriginalOwnerID: steve.ID, ToOwnerID: ryan.ID})
	assert.True(t, errors.Is(err, ErrInvalidInput), "round: got %v", err)

	_, err = f.service.ApplyTrade(t.Context(), TradeInput{Season: 2025, Round: 2, FromOriginalOwnerID: steve.ID, ToOwnerID: ryan.ID})
	assert.True(t, errors.Is(err, pick.ErrPickNotFound), "missing pick: got %v", err)
}

func TestLedgerService_ApplyTrade_ChainedTrades(t *testing.T) {
	t.Parallel()

	f := newLedgerFixture(t)
	f.expectFetch([]pick.RawRecord{rawCurrent(2024, 1, steve)}, nil)
	f.repo.On("List", mock.Anything).Return([]pick.Record{futurePick(2026, 4, steve)}, nil).Once()
	f.repo.On("ReplaceAll", mock.Anything, mock.Anything).Return(nil).Twice()

	_, err := f.service.Refresh(t.Context())
	require.NoError(t, err)

	input := TradeInput{Season: 2026, Round: 4, FromOriginalOwnerID: steve.ID, ToOwnerID: ryan.ID}
	_, err = f.service.ApplyTrade(t.Context(), input)
	require.NoError(t, err)

	input.ToOwnerID = steve.ID
	result, err := f.service.ApplyTrade(t.Context(), input)
	require.NoError(t, err)
	assert.Equal(t, steve, result.Active.CurrentOwner)
	assert.Equal(t, ryan, result.Superseded.CurrentOwner)

	records, err := f.service.Snapshot(t.Context())
	require.NoError(t, err)
	active := 0
	for _, r := range records {
		if r.Season == 2026 && r.Round == 4 && r.Active() {
			active++
		}
	}
	assert.Equal(t, 1, active)

	history, err := f.service.History(t.Context(), pick.Key{Season: 2026, Round: 4, OriginalOwnerID: steve.ID})
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.True(t, history[0].Lost)
	assert.True(t, history[1].Lost)
	assert.Equal(t, steve, history[0].CurrentOwner)
	assert.Equal(t, ryan, history[1].CurrentOwner)
	assert.Equal(t, steve, history[2].CurrentOwner)
	assert.False(t, history[2].Lost)

	_, err = f.service.History(t.Context(), pick.Key{Season: 2026, Round: 5, OriginalOwnerID: steve.ID})
	assert.True(t, errors.Is(err, pick.ErrPickNotFound), "got %v", err)
}

func TestLedgerService_Summary(t *testing.T) {
	t.Parallel()

	f := newLedgerFixture(t)
	f.expectFetch([]pick.RawRecord{rawCurrent(2024, 1, steve)}, []pick.RawRecord{rawCurrent(2024, 2, ryan)})
	f.repo.On("List", mock.Anything).Return(nil, nil).Once()

	_, err := f.service.Refresh(t.Context())
	require.NoError(t, err)

	items, err := f.service.Summary(t.Context())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "1000.00", items[0].TotalValue.StringFixed(2))
	assert.Equal(t, "350.00", items[1].TotalValue.StringFixed(2))
}

func TestLedgerService_SeedFuture(t *testing.T) {
	t.Parallel()

	f := newLedgerFixture(t)
	f.repo.On("List", mock.Anything).Return(nil, nil).Once()
	f.repo.On("ReplaceAll", mock.Anything, mock.MatchedBy(func(records []pick.Record) bool {
		for _, r := range records {
			if r.Round > pick.MaxRound {
				return false
			}
		}
		return len(records) == 2*2*pick.MaxRound
	})).Return(nil).Once()

	count, err := f.service.SeedFuture(t.Context(), SeedInput{StartSeason: 2025, EndSeason: 2027})
	require.NoError(t, err)
	assert.Equal(t, 40, count)

	f.repo.On("List", mock.Anything).Return([]pick.Record{futurePick(2025, 1, steve)}, nil).Once()
	_, err = f.service.SeedFuture(t.Context(), SeedInput{StartSeason: 2025, EndSeason: 2027})
	assert.True(t, errors.Is(err, ErrInvalidInput), "got %v", err)
}
