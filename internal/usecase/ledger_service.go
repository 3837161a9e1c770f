package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/pick-ledger/internal/domain/owner"
	"github.com/riskibarqy/pick-ledger/internal/domain/pick"
	"github.com/riskibarqy/pick-ledger/internal/platform/cache"
	"github.com/riskibarqy/pick-ledger/internal/platform/logging"
	"github.com/riskibarqy/pick-ledger/internal/platform/tracing"
	"github.com/sourcegraph/conc/panics"
)

var spans = tracing.NewScope("pick-ledger/internal/usecase", "")

const (
	defaultFetchWorkers = 4
	ledgerCachePrefix   = "ledger:"
)

// PickSource returns the provider's current pick holdings of one owner.
type PickSource interface {
	FetchTeamPicks(ctx context.Context, ownerID int64) ([]pick.RawRecord, error)
}

type LedgerConfig struct {
	FetchWorkers int
}

type TradeInput struct {
	Season              int   `json:"season" validate:"required,gt=0"`
	Round               int   `json:"round" validate:"required,min=1,max=10"`
	FromOriginalOwnerID int64 `json:"from_original_owner_id" validate:"required,gt=0"`
	ToOwnerID           int64 `json:"to_owner_id" validate:"required,gt=0"`
}

type TradeResult struct {
	Superseded pick.Record
	Active     pick.Record
}

type SeedInput struct {
	StartSeason int
	EndSeason   int
	Rounds      int
	Overwrite   bool
}

type LedgerStatus struct {
	Loaded           bool      `json:"loaded"`
	RefreshedAt      time.Time `json:"refreshed_at"`
	ReferenceSeason  int       `json:"reference_season,omitempty"`
	MaxFetchedSeason int       `json:"max_fetched_season,omitempty"`
	RecordCount      int       `json:"record_count"`
	ActiveCount      int       `json:"active_count"`
	FutureCount      int       `json:"future_count"`
}

// ledgerState is immutable once published.
type ledgerState struct {
	version         uint64
	table           *pick.Table
	current         []pick.Record
	future          []pick.Record
	referenceSeason int
	maxFetched      int
	hasFetched      bool
	refreshedAt     time.Time
}

// LedgerService owns the canonical pick table. Mutations are serialized by writeMu
// and each produces a new ledgerState that is swapped in only when every step succeeded.
type LedgerService struct {
	owners     *owner.Directory
	normalizer *pick.Normalizer
	valuator   *pick.Valuator
	source     PickSource
	futureRepo pick.FutureRepository
	views      *cache.Store
	clock      clockwork.Clock
	cfg        LedgerConfig
	logger     *logging.Logger

	writeMu sync.Mutex
	mu      sync.RWMutex
	state   *ledgerState
}

func NewLedgerService(
	owners *owner.Directory,
	valuator *pick.Valuator,
	source PickSource,
	futureRepo pick.FutureRepository,
	views *cache.Store,
	clock clockwork.Clock,
	cfg LedgerConfig,
	logger *logging.Logger,
) *LedgerService {
	if logger == nil {
		logger = logging.Default()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if views == nil {
		views = cache.NewStore(0, clock)
	}
	if cfg.FetchWorkers <= 0 {
		cfg.FetchWorkers = defaultFetchWorkers
	}

	return &LedgerService{
		owners:     owners,
		normalizer: pick.NewNormalizer(owners),
		valuator:   valuator,
		source:     source,
		futureRepo: futureRepo,
		views:      views,
		clock:      clock,
		cfg:        cfg,
		logger:     logger,
	}
}

// Refresh refetches current picks, reloads the future store and rebuilds the ledger.
// On any error the previously published ledger stays in place.
func (s *LedgerService) Refresh(ctx context.Context) (LedgerStatus, error) {
	ctx, span := spans.Start(ctx, "usecase.LedgerService.Refresh")
	defer span.End()

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	start := s.clock.Now()
	raws, err := s.fetchCurrent(ctx)
	if err != nil {
		return LedgerStatus{}, err
	}
	current, err := s.normalizer.NormalizeRaw(raws)
	if err != nil {
		return LedgerStatus{}, fmt.Errorf("normalize fetched picks: %w", err)
	}

	future, err := s.loadFuture(ctx)
	if err != nil {
		return LedgerStatus{}, err
	}

	next, err := s.build(current, future)
	if err != nil {
		return LedgerStatus{}, err
	}
	s.publish(ctx, next)

	status := statusOf(next)
	s.logger.InfoContext(ctx, "ledger refreshed",
		"fetched_records", len(current),
		"future_records", len(next.future),
		"reference_season", next.referenceSeason,
		"duration_ms", s.clock.Since(start).Milliseconds(),
	)
	return status, nil
}

// Snapshot returns a copy of every canonical record, lost lineage rows included.
func (s *LedgerService) Snapshot(ctx context.Context) ([]pick.Record, error) {
	state, err := s.loaded()
	if err != nil {
		return nil, err
	}
	return state.table.Records(), nil
}

func (s *LedgerService) View(ctx context.Context, filter pick.ViewFilter) ([]pick.ViewRow, error) {
	ctx, span := spans.Start(ctx, "usecase.LedgerService.View")
	defer span.End()

	state, err := s.loaded()
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%sv%d:view:%d:%d:%d:%t", ledgerCachePrefix, state.version,
		filter.Season, filter.OwnerID, filter.OriginalOwnerID, filter.ActiveOnly)
	value, err := s.views.GetOrLoad(ctx, key, func(context.Context) (any, error) {
		return pick.BuildView(state.table.Records(), filter), nil
	})
	if err != nil {
		return nil, fmt.Errorf("build ledger view: %w", err)
	}
	rows, _ := value.([]pick.ViewRow)
	return append([]pick.ViewRow(nil), rows...), nil
}

func (s *LedgerService) Summary(ctx context.Context) ([]pick.OwnerSummary, error) {
	ctx, span := spans.Start(ctx, "usecase.LedgerService.Summary")
	defer span.End()

	state, err := s.loaded()
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%sv%d:summary", ledgerCachePrefix, state.version)
	value, err := s.views.GetOrLoad(ctx, key, func(context.Context) (any, error) {
		return pick.Summarize(state.table.Records(), s.owners.Owners()), nil
	})
	if err != nil {
		return nil, fmt.Errorf("build ledger summary: %w", err)
	}
	items, _ := value.([]pick.OwnerSummary)
	return append([]pick.OwnerSummary(nil), items...), nil
}

// History returns every row of one pick slot's lineage, superseded rows first.
func (s *LedgerService) History(ctx context.Context, key pick.Key) ([]pick.Record, error) {
	_, span := spans.Start(ctx, "usecase.LedgerService.History")
	defer span.End()

	state, err := s.loaded()
	if err != nil {
		return nil, err
	}
	rows := state.table.History(key)
	if len(rows) == 0 {
		return nil, &pick.PickNotFoundError{Key: key, Reason: "no record for this slot"}
	}
	return rows, nil
}

func (s *LedgerService) Status(_ context.Context) LedgerStatus {
	s.mu.RLock()
	state := s.state
	s.mu.RUnlock()
	if state == nil {
		return LedgerStatus{}
	}
	return statusOf(state)
}

// ApplyTrade moves the active future pick (season, round, from) to the target owner.
// The new future set is persisted before the rebuilt ledger is published.
func (s *LedgerService) ApplyTrade(ctx context.Context, input TradeInput) (TradeResult, error) {
	ctx, span := spans.Start(ctx, "usecase.LedgerService.ApplyTrade")
	defer span.End()

	if !pick.RoundInRange(input.Round) {
		return TradeResult{}, fmt.Errorf("%w: round must be between %d and %d", ErrInvalidInput, pick.MinRound, pick.MaxRound)
	}

	toOwner, err := s.owners.ByID(input.ToOwnerID)
	if err != nil {
		return TradeResult{}, err
	}
	if _, err := s.owners.ByID(input.FromOriginalOwnerID); err != nil {
		return TradeResult{}, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	state, err := s.loaded()
	if err != nil {
		return TradeResult{}, err
	}

	key := pick.Key{Season: input.Season, Round: input.Round, OriginalOwnerID: input.FromOriginalOwnerID}
	if state.hasFetched && input.Season <= state.maxFetched {
		return TradeResult{}, &pick.PickNotFoundError{
			Key:    key,
			Reason: fmt.Sprintf("season is owned by the provider through %d", state.maxFetched),
		}
	}

	futureTable, err := pick.NewTable(state.future)
	if err != nil {
		return TradeResult{}, fmt.Errorf("index future picks: %w", err)
	}
	superseded, _ := futureTable.Active(key)
	nextFuture, active, err := futureTable.Trade(key, toOwner)
	if err != nil {
		return TradeResult{}, err
	}

	next, err := s.build(state.current, nextFuture.Records())
	if err != nil {
		return TradeResult{}, err
	}
	next.refreshedAt = state.refreshedAt

	if err := s.futureRepo.ReplaceAll(ctx, next.future); err != nil {
		return TradeResult{}, fmt.Errorf("%w: persist future picks: %v", ErrDependencyUnavailable, err)
	}
	s.publish(ctx, next)

	superseded.Lost = true
	superseded.Traded = true
	for _, r := range next.table.History(key) {
		if r.Lost && r.CurrentOwner.ID == superseded.CurrentOwner.ID {
			superseded = r
		}
	}
	if valued, ok := next.table.Active(key); ok {
		active = valued
	}

	s.logger.InfoContext(ctx, "pick traded",
		"season", key.Season,
		"round", key.Round,
		"original_owner_id", key.OriginalOwnerID,
		"from_owner_id", superseded.CurrentOwner.ID,
		"to_owner_id", toOwner.ID,
	)
	return TradeResult{Superseded: superseded, Active: active}, nil
}

// SeedFuture writes the default allocation of every owner into the future store.
// A non-empty store is left untouched unless Overwrite is set.
func (s *LedgerService) SeedFuture(ctx context.Context, input SeedInput) (int, error) {
	ctx, span := spans.Start(ctx, "usecase.LedgerService.SeedFuture")
	defer span.End()

	if input.Rounds == 0 {
		input.Rounds = pick.DefaultGeneratedRounds
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	existing, err := s.futureRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: load future picks: %v", ErrDependencyUnavailable, err)
	}
	if len(existing) > 0 && !input.Overwrite {
		return 0, fmt.Errorf("%w: future store already holds %d picks", ErrInvalidInput, len(existing))
	}

	generated, err := pick.BuildFuture(s.owners.Owners(), input.StartSeason, input.EndSeason, input.Rounds)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	future, err := s.normalizer.Canonicalize(generated)
	if err != nil {
		return 0, fmt.Errorf("canonicalize generated picks: %w", err)
	}

	s.mu.RLock()
	state := s.state
	s.mu.RUnlock()

	var next *ledgerState
	if state != nil {
		next, err = s.build(state.current, future)
		if err != nil {
			return 0, err
		}
		next.refreshedAt = state.refreshedAt
		future = next.future
	}

	if err := s.futureRepo.ReplaceAll(ctx, future); err != nil {
		return 0, fmt.Errorf("%w: persist future picks: %v", ErrDependencyUnavailable, err)
	}
	if next != nil {
		s.publish(ctx, next)
	}

	s.logger.InfoContext(ctx, "future picks seeded",
		"start_season", input.StartSeason,
		"end_season", input.EndSeason,
		"records", len(future),
	)
	return len(future), nil
}

func (s *LedgerService) fetchCurrent(ctx context.Context) ([]pick.RawRecord, error) {
	owners := s.owners.Owners()
	results := make([][]pick.RawRecord, len(owners))
	errs := make([]error, len(owners))

	workers := min(s.cfg.FetchWorkers, len(owners))
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i, o := range owners {
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			recovered := panics.Try(func() {
				results[i], errs[i] = s.source.FetchTeamPicks(ctx, o.ID)
			})
			if recovered != nil {
				errs[i] = recovered.AsError()
			}
		}); err != nil {
			wg.Done()
			errs[i] = fmt.Errorf("submit fetch task: %w", err)
		}
	}
	wg.Wait()

	total := 0
	for i, o := range owners {
		if errs[i] != nil {
			return nil, &SourceFetchError{OwnerID: o.ID, Err: errs[i]}
		}
		total += len(results[i])
	}

	out := make([]pick.RawRecord, 0, total)
	for _, items := range results {
		out = append(out, items...)
	}
	return out, nil
}

func (s *LedgerService) loadFuture(ctx context.Context) ([]pick.Record, error) {
	stored, err := s.futureRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: load future picks: %v", ErrDependencyUnavailable, err)
	}
	future, err := s.normalizer.Canonicalize(stored)
	if err != nil {
		return nil, fmt.Errorf("canonicalize future picks: %w", err)
	}
	return future, nil
}

// build runs merge, valuation and indexing over a fetched and a future set.
func (s *LedgerService) build(current, future []pick.Record) (*ledgerState, error) {
	merged, err := s.normalizer.Merge(current, future)
	if err != nil {
		return nil, err
	}

	next := &ledgerState{
		current:     current,
		refreshedAt: s.clock.Now(),
	}
	kept := append([]pick.Record(nil), future...)
	if maxFetched, ok := pick.MaxSeason(current); ok {
		next.maxFetched = maxFetched
		next.hasFetched = true
		kept = pick.FilterFuture(future, maxFetched)
	}
	pick.SortRecords(kept)
	next.future = kept

	valued := merged
	if ref, ok := pick.ReferenceSeason(current, merged); ok {
		next.referenceSeason = ref
		valued, err = s.valuator.Apply(merged, ref)
		if err != nil {
			return nil, err
		}
	}

	next.table, err = pick.NewTable(valued)
	if err != nil {
		return nil, err
	}
	return next, nil
}

func (s *LedgerService) publish(ctx context.Context, next *ledgerState) {
	s.mu.Lock()
	if s.state != nil {
		next.version = s.state.version + 1
	} else {
		next.version = 1
	}
	s.state = next
	s.mu.Unlock()

	s.views.DeletePrefix(ctx, ledgerCachePrefix)
}

func (s *LedgerService) loaded() (*ledgerState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return nil, ErrLedgerNotLoaded
	}
	return s.state, nil
}

func statusOf(state *ledgerState) LedgerStatus {
	records := state.table.Records()
	active := 0
	for _, r := range records {
		if r.Active() {
			active++
		}
	}
	return LedgerStatus{
		Loaded:           true,
		RefreshedAt:      state.refreshedAt,
		ReferenceSeason:  state.referenceSeason,
		MaxFetchedSeason: state.maxFetched,
		RecordCount:      len(records),
		ActiveCount:      active,
		FutureCount:      len(state.future),
	}
}
