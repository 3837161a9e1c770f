package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/riskibarqy/pick-ledger/internal/config"
	"github.com/riskibarqy/pick-ledger/internal/domain/owner"
	"github.com/riskibarqy/pick-ledger/internal/domain/pick"
	"github.com/riskibarqy/pick-ledger/internal/usecase"
)

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parseViewFlags(args []string, owners *owner.Directory) (pick.ViewFilter, error) {
	fs := newFlagSet("view")
	season := fs.Int("season", 0, "only picks of this season")
	holder := fs.String("owner", "", "current owner id or name")
	original := fs.String("original-owner", "", "original owner id or name")
	active := fs.Bool("active", false, "hide lost picks")
	if err := fs.Parse(args); err != nil {
		return pick.ViewFilter{}, err
	}

	filter := pick.ViewFilter{Season: *season, ActiveOnly: *active}
	if *season < 0 {
		return pick.ViewFilter{}, fmt.Errorf("%w: season must be >= 0", usecase.ErrInvalidInput)
	}
	if strings.TrimSpace(*holder) != "" {
		o, err := owners.Resolve(*holder)
		if err != nil {
			return pick.ViewFilter{}, err
		}
		filter.OwnerID = o.ID
	}
	if strings.TrimSpace(*original) != "" {
		o, err := owners.Resolve(*original)
		if err != nil {
			return pick.ViewFilter{}, err
		}
		filter.OriginalOwnerID = o.ID
	}
	return filter, nil
}

func parseTradeFlags(args []string, owners *owner.Directory) (usecase.TradeInput, error) {
	fs := newFlagSet("trade")
	season := fs.Int("season", 0, "pick season")
	round := fs.Int("round", 0, "pick round")
	from := fs.String("from", "", "original owner id or name")
	to := fs.String("to", "", "receiving owner id or name")
	if err := fs.Parse(args); err != nil {
		return usecase.TradeInput{}, err
	}

	if *season <= 0 {
		return usecase.TradeInput{}, fmt.Errorf("%w: -season is required", usecase.ErrInvalidInput)
	}
	if !pick.RoundInRange(*round) {
		return usecase.TradeInput{}, fmt.Errorf("%w: -round must be between %d and %d", usecase.ErrInvalidInput, pick.MinRound, pick.MaxRound)
	}
	fromOwner, err := owners.Resolve(*from)
	if err != nil {
		return usecase.TradeInput{}, err
	}
	toOwner, err := owners.Resolve(*to)
	if err != nil {
		return usecase.TradeInput{}, err
	}

	return usecase.TradeInput{
		Season:              *season,
		Round:               *round,
		FromOriginalOwnerID: fromOwner.ID,
		ToOwnerID:           toOwner.ID,
	}, nil
}

// parseSeedFlags falls back to the league's configured future window.
func parseSeedFlags(args []string, defaults config.FutureSeasons) (usecase.SeedInput, error) {
	fs := newFlagSet("seed")
	start := fs.Int("start", defaults.StartSeason, "first season to generate")
	end := fs.Int("end", defaults.EndSeason, "season after the last one to generate")
	rounds := fs.Int("rounds", defaults.Rounds, "rounds per owner and season")
	overwrite := fs.Bool("overwrite", false, "replace a non-empty future store")
	if err := fs.Parse(args); err != nil {
		return usecase.SeedInput{}, err
	}

	if *end <= *start {
		return usecase.SeedInput{}, fmt.Errorf("%w: -end must be greater than -start", usecase.ErrInvalidInput)
	}
	if *rounds < 0 {
		return usecase.SeedInput{}, fmt.Errorf("%w: -rounds must be >= 0", usecase.ErrInvalidInput)
	}

	return usecase.SeedInput{
		StartSeason: *start,
		EndSeason:   *end,
		Rounds:      *rounds,
		Overwrite:   *overwrite,
	}, nil
}
